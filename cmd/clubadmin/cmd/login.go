package cmd

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/meridianclub/backend/internal/gateway"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in to the admin API and save the session token",
	Long: `Sign in to the admin API with the admin password.

The session token is saved to ~/.clubadmin/token and used by the other
commands until it expires. Not needed in direct database mode.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if IsDirectMode() {
			return fmt.Errorf("login is only needed for remote mode; [database].url is configured")
		}
		r, err := openRemote("")
		if err != nil {
			return err
		}

		password, err := readSecret("Admin password")
		if err != nil {
			return err
		}
		if password == "" {
			return fmt.Errorf("password required")
		}

		token, expires, err := r.Login(cmd.Context(), password)
		if err != nil {
			return explainLogin(err)
		}
		if err := cfg.SaveToken(token); err != nil {
			return err
		}
		logger.Debug("saved session token", "path", cfg.TokenPath())
		fmt.Fprintf(cmd.OutOrStdout(), "Logged in to %s (session expires %s)\n",
			cfg.Remote.URL, expires.Local().Format(time.DateTime))
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the saved session token",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.ClearToken(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
		return nil
	},
}

func explainLogin(err error) error {
	var se *gateway.StatusError
	if errors.As(err, &se) {
		switch se.StatusCode {
		case http.StatusUnauthorized:
			return errors.New("wrong password")
		case http.StatusTooManyRequests:
			return errors.New("too many login attempts; wait a minute and try again")
		}
	}
	return err
}

func init() {
	rootCmd.AddCommand(loginCmd, logoutCmd)
}
