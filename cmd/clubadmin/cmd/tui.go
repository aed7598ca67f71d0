package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/meridianclub/backend/internal/logging"
	"github.com/meridianclub/backend/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the interactive admin dashboard",
	Long: `Open the interactive admin dashboard.

Browse contact submissions and membership requests, search, filter, sort,
and act on records without leaving the terminal. Press ? for key bindings.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Log lines on stderr would tear the alternate screen.
		logFile, err := openLogFile()
		if err != nil {
			return err
		}
		defer logFile.Close()
		logger = logging.NewCLI(logFile, verbose)

		s, err := openSession(cmd.Context())
		if err != nil {
			return err
		}
		defer s.Close()

		logger.Info("opening dashboard", "source", s.backend.source)
		model := tui.New(tui.Options{
			Contacts:    s.contacts,
			Memberships: s.memberships,
			Notices:     s.notices,
			Timeout:     cfg.Remote.Timeout.Duration,
		})
		p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
		if _, err := p.Run(); err != nil {
			return fmt.Errorf("dashboard: %w", err)
		}
		return nil
	},
}

func openLogFile() (*os.File, error) {
	if err := os.MkdirAll(cfg.HomeDir, 0o700); err != nil {
		return nil, fmt.Errorf("create home dir: %w", err)
	}
	path := filepath.Join(cfg.HomeDir, "clubadmin.log")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return f, nil
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}
