package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/meridianclub/backend/internal/listview"
	"github.com/meridianclub/backend/internal/model"
	"github.com/meridianclub/backend/internal/present"
)

// listFlags are the view parameters shared by the list commands.
type listFlags struct {
	filter   string
	search   string
	sort     string
	asc      bool
	page     int
	pageSize int
}

func (f *listFlags) register(cmd *cobra.Command, filters, sorts []string) {
	cmd.Flags().StringVar(&f.filter, "filter", "", "filter: "+strings.Join(filters, ", "))
	cmd.Flags().StringVar(&f.search, "search", "", "case-insensitive text search")
	cmd.Flags().StringVar(&f.sort, "sort", "", "sort field: "+strings.Join(sorts, ", "))
	cmd.Flags().BoolVar(&f.asc, "asc", false, "sort ascending (default descending)")
	cmd.Flags().IntVar(&f.page, "page", 1, "page number")
	cmd.Flags().IntVar(&f.pageSize, "page-size", 0, "rows per page: "+joinInts(present.PageSizeChoices()))
}

func joinInts(ns []int) string {
	parts := make([]string, len(ns))
	for i, n := range ns {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ", ")
}

// applyListFlags configures c from f. The page is applied last because the
// other setters reset it.
func applyListFlags[T any](c *listview.Controller[T], f listFlags) error {
	cfg := c.Config()
	if f.filter != "" {
		if err := c.SetFilter(f.filter); err != nil {
			return fmt.Errorf("%w (choose from %s)", err, strings.Join(cfg.FilterKeys(), ", "))
		}
	}
	c.SetQuery(f.search)
	if f.sort != "" || f.asc {
		key := f.sort
		if key == "" {
			key = c.Params().Sort
		}
		if err := c.SetSort(key, !f.asc); err != nil {
			return fmt.Errorf("%w (choose from %s)", err, strings.Join(cfg.SortKeys(), ", "))
		}
	}
	if f.pageSize > 0 {
		if err := c.SetPageSize(f.pageSize); err != nil {
			return fmt.Errorf("%w (choose from %s)", err, joinInts(present.PageSizeChoices()))
		}
	}
	if f.page > 0 {
		c.SetPage(f.page)
	}
	return nil
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("244"))).
		Headers(headers...)
}

func formatTime(t time.Time) string {
	return t.Local().Format("2006-01-02 15:04")
}

func shorten(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// writeContactView prints one page of contact submissions.
func writeContactView(w io.Writer, v listview.View[model.ContactSubmission]) {
	t := newTable("ID", "RECEIVED", "STATUS", "NAME", "EMAIL", "SUBJECT")
	for _, r := range v.Items {
		status := "unread"
		if r.IsRead {
			status = "read"
		}
		t.Row(r.ID, formatTime(r.CreatedAt), status, shorten(r.Name, 24), r.Email, shorten(r.Subject, 40))
	}
	writeView(w, t, v)
}

// writeMembershipView prints one page of membership requests.
func writeMembershipView(w io.Writer, v listview.View[model.MembershipRequest]) {
	t := newTable("ID", "APPLIED", "STATUS", "NAME", "EMAIL", "CITY", "COUNTRY", "NOTES")
	for _, r := range v.Items {
		t.Row(r.ID, formatTime(r.CreatedAt), r.Status.Label(), shorten(r.Name, 24), r.Email, r.City, r.Country, shorten(r.Notes, 30))
	}
	writeView(w, t, v)
}

func writeView[T any](w io.Writer, t *table.Table, v listview.View[T]) {
	if v.Matched == 0 {
		if v.Total == 0 {
			fmt.Fprintln(w, "No records.")
		} else {
			fmt.Fprintln(w, "No records match.")
		}
		return
	}
	fmt.Fprintln(w, t.Render())
	fmt.Fprintln(w, pagerLine(present.NewPager(v)))
}

// pagerLine renders "Showing a-b of n · page p of t: 1 … 4 [5] 6 … 9".
func pagerLine(p present.Pager) string {
	parts := make([]string, 0, len(p.Items))
	for _, it := range p.Items {
		switch {
		case it.Ellipsis:
			parts = append(parts, "…")
		case it.Page == p.Page:
			parts = append(parts, fmt.Sprintf("[%d]", it.Page))
		default:
			parts = append(parts, strconv.Itoa(it.Page))
		}
	}
	return fmt.Sprintf("%s · page %d of %d: %s", p.Summary(), p.Page, p.TotalPages, strings.Join(parts, " "))
}
