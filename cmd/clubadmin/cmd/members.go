package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/meridianclub/backend/internal/listview"
	"github.com/meridianclub/backend/internal/model"
)

var membersCmd = &cobra.Command{
	Use:     "members",
	Aliases: []string{"memberships"},
	Short:   "List and review membership requests",
}

var memberListFlags listFlags

var membersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List membership requests",
	Example: `  clubadmin members list --filter pending
  clubadmin members list --sort status --asc`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd.Context())
		if err != nil {
			return err
		}
		defer s.Close()

		if err := s.memberships.Refresh(cmd.Context()); err != nil {
			return explain(err)
		}
		list := s.memberships.List()
		if err := applyListFlags(list, memberListFlags); err != nil {
			return err
		}
		writeMembershipView(cmd.OutOrStdout(), list.View())
		return nil
	},
}

func statusNames() string {
	names := make([]string, 0, 4)
	for _, st := range model.MembershipStatuses() {
		names = append(names, string(st))
	}
	return strings.Join(names, "|")
}

var membersStatusCmd = &cobra.Command{
	Use:   "status <id> <" + statusNames() + ">",
	Short: "Change the status of a membership request",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		status, err := model.ParseMembershipStatus(args[1])
		if err != nil {
			return fmt.Errorf("%w (choose from %s)", err, statusNames())
		}

		s, err := openSession(cmd.Context())
		if err != nil {
			return err
		}
		defer s.Close()

		if err := s.memberships.Refresh(cmd.Context()); err != nil {
			return explain(err)
		}
		if err := s.memberships.UpdateStatus(cmd.Context(), args[0], status); err != nil {
			return explain(err)
		}
		printNotice(cmd, s.notices)
		return nil
	},
}

var clearNotes bool

var membersNotesCmd = &cobra.Command{
	Use:   "notes <id> [text]",
	Short: "Replace the admin notes of a membership request",
	Long: `Replace the admin notes of a membership request.

Notes are overwritten, not appended. Pass --clear to remove them, or "-"
as the text to read the notes from stdin.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		var notes string
		switch {
		case clearNotes:
			if len(args) == 2 {
				return fmt.Errorf("--clear takes no text")
			}
		case len(args) < 2:
			return fmt.Errorf("notes text required (or --clear)")
		case args[1] == "-":
			text, err := readLine(cmd.InOrStdin())
			if err != nil {
				return err
			}
			notes = text
		default:
			notes = args[1]
		}

		s, err := openSession(cmd.Context())
		if err != nil {
			return err
		}
		defer s.Close()

		if err := s.memberships.Refresh(cmd.Context()); err != nil {
			return explain(err)
		}
		id := args[0]
		if err := s.memberships.BeginEditNotes(id); err != nil {
			return explain(err)
		}
		if err := s.memberships.UpdateNotes(cmd.Context(), id, notes); err != nil {
			s.memberships.CancelEditNotes()
			return explain(err)
		}
		printNotice(cmd, s.notices)
		return nil
	},
}

func init() {
	cfg := listview.MembershipConfig()
	memberListFlags.register(membersListCmd, cfg.FilterKeys(), cfg.SortKeys())
	membersNotesCmd.Flags().BoolVar(&clearNotes, "clear", false, "remove the notes")

	membersCmd.AddCommand(membersListCmd, membersStatusCmd, membersNotesCmd)
	rootCmd.AddCommand(membersCmd)
}
