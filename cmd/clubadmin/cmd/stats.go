package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/meridianclub/backend/internal/present"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show counts for submissions and membership requests",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd.Context())
		if err != nil {
			return err
		}
		defer s.Close()

		g, ctx := errgroup.WithContext(cmd.Context())
		g.Go(func() error { return s.contacts.Refresh(ctx) })
		g.Go(func() error { return s.memberships.Refresh(ctx) })
		if err := g.Wait(); err != nil {
			return explain(err)
		}

		now := time.Now()
		out := cmd.OutOrStdout()
		writeStats(out, "Contact submissions", present.ContactStats(s.contacts.List().Records(), now))
		fmt.Fprintln(out)
		writeStats(out, "Membership requests", present.MembershipStats(s.memberships.List().Records(), now))
		return nil
	},
}

func writeStats(w io.Writer, title string, st present.Stats) {
	fmt.Fprintf(w, "%s (%d)\n", title, st.Total)
	t := newTable("", "COUNT", "SHARE")
	for _, sh := range st.Breakdown {
		t.Row(sh.Label, fmt.Sprint(sh.Count), fmt.Sprintf("%.1f%%", sh.Percent))
	}
	fmt.Fprintln(w, t.Render())
	fmt.Fprintf(w, "Last 24h: %d  Last 7d: %d\n", st.Last24h, st.Last7d)
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
