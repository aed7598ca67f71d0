package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/meridianclub/backend/internal/coordinator"
	"github.com/meridianclub/backend/internal/listview"
	"github.com/meridianclub/backend/internal/model"
)

var contactsCmd = &cobra.Command{
	Use:     "contacts",
	Aliases: []string{"contact"},
	Short:   "List and manage contact form submissions",
}

var contactListFlags listFlags

var contactsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List contact submissions",
	Example: `  clubadmin contacts list --filter unread
  clubadmin contacts list --search invoice --sort name --asc --page-size 25`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd.Context())
		if err != nil {
			return err
		}
		defer s.Close()

		if err := s.contacts.Refresh(cmd.Context()); err != nil {
			return explain(err)
		}
		list := s.contacts.List()
		if err := applyListFlags(list, contactListFlags); err != nil {
			return err
		}
		writeContactView(cmd.OutOrStdout(), list.View())
		return nil
	},
}

var contactsToggleReadCmd = &cobra.Command{
	Use:   "toggle-read <id>",
	Short: "Flip the read state of a submission",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd.Context())
		if err != nil {
			return err
		}
		defer s.Close()

		if err := s.contacts.Refresh(cmd.Context()); err != nil {
			return explain(err)
		}
		if err := s.contacts.ToggleRead(cmd.Context(), args[0]); err != nil {
			return explain(err)
		}
		printNotice(cmd, s.notices)
		return nil
	},
}

var contactsMarkAllReadCmd = &cobra.Command{
	Use:   "mark-all-read",
	Short: "Mark every unread submission as read",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd.Context())
		if err != nil {
			return err
		}
		defer s.Close()

		if err := s.contacts.Refresh(cmd.Context()); err != nil {
			return explain(err)
		}
		n, err := s.contacts.MarkAllRead(cmd.Context())
		if err != nil {
			return explain(err)
		}
		if n == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No unread submissions.")
			return nil
		}
		printNotice(cmd, s.notices)
		return nil
	},
}

var deleteYes bool

var contactsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a submission permanently",
	Long: `Delete a contact submission permanently.

Asks for confirmation on a terminal. Use --yes to skip the prompt in scripts.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd.Context())
		if err != nil {
			return err
		}
		defer s.Close()

		if err := s.contacts.Refresh(cmd.Context()); err != nil {
			return explain(err)
		}
		if _, err := s.findContact(args[0]); err != nil {
			return err
		}

		err = s.contacts.Delete(cmd.Context(), args[0], func(r model.ContactSubmission) bool {
			if deleteYes {
				return true
			}
			ok, err := confirm(
				"Delete this submission?",
				fmt.Sprintf("From %s <%s>\n%s\n\nThis cannot be undone.", r.Name, r.Email, r.Subject),
				"Delete",
			)
			return err == nil && ok
		})
		if errors.Is(err, coordinator.ErrConfirmationDeclined) {
			if !isInteractive() {
				return fmt.Errorf("refusing to delete without confirmation; pass --yes")
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
			return nil
		}
		if err != nil {
			return explain(err)
		}
		printNotice(cmd, s.notices)
		return nil
	},
}

// printNotice writes the current banner text, if any.
func printNotice(cmd *cobra.Command, n *coordinator.Notices) {
	if notice, ok := n.Current(); ok {
		fmt.Fprintln(cmd.OutOrStdout(), notice.Text)
	}
}

func init() {
	cfg := listview.ContactConfig()
	contactListFlags.register(contactsListCmd, cfg.FilterKeys(), cfg.SortKeys())
	contactsDeleteCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "delete without asking")

	contactsCmd.AddCommand(contactsListCmd, contactsToggleReadCmd, contactsMarkAllReadCmd, contactsDeleteCmd)
	rootCmd.AddCommand(contactsCmd)
}
