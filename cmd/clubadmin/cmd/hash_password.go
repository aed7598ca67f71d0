package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/meridianclub/backend/internal/service"
)

var hashPasswordCmd = &cobra.Command{
	Use:   "hash-password",
	Short: "Generate ADMIN_PASSWORD_HASH for the server environment",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		password, err := readSecret("New admin password")
		if err != nil {
			return err
		}
		if isInteractive() {
			again, err := readSecret("Repeat password")
			if err != nil {
				return err
			}
			if again != password {
				return fmt.Errorf("passwords do not match")
			}
		}

		hash, err := service.HashPassword(password)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "ADMIN_PASSWORD_HASH='%s'\n", hash)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(hashPasswordCmd)
}
