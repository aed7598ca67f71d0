package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/meridianclub/backend/internal/coordinator"
	"github.com/meridianclub/backend/internal/listview"
	"github.com/meridianclub/backend/internal/model"
	"github.com/meridianclub/backend/internal/present"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	activeTab     = lipgloss.NewStyle().Bold(true).Underline(true)
	inactiveTab   = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	cursorStyle   = lipgloss.NewStyle().Reverse(true)
	unreadStyle   = lipgloss.NewStyle().Bold(true)
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	errorBanner   = lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Background(lipgloss.Color("160")).Padding(0, 1)
	successBanner = lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("114")).Padding(0, 1)
	panelStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	modalStyle    = lipgloss.NewStyle().Border(lipgloss.DoubleBorder()).Padding(1, 2)
)

// truncate shortens s to width terminal cells, collapsing newlines.
func truncate(s string, width int) string {
	s = strings.Join(strings.Fields(s), " ")
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= width {
		return s
	}
	if width <= 3 {
		return runewidth.Truncate(s, width, "")
	}
	return runewidth.Truncate(s, width, "...")
}

// pad truncates s and pads it to exactly width cells.
func pad(s string, width int) string {
	return runewidth.FillRight(truncate(s, width), width)
}

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	switch m.modal {
	case modalDeleteConfirm:
		return m.deleteModalView()
	case modalNotes:
		return m.notesModalView()
	case modalHelp:
		return modalStyle.Render(helpText)
	}

	var b strings.Builder
	b.WriteString(m.headerView())
	b.WriteString("\n")
	if banner := m.noticeView(); banner != "" {
		b.WriteString(banner)
		b.WriteString("\n")
	}
	b.WriteString(m.toolbarView())
	b.WriteString("\n\n")

	if m.tab == tabContacts {
		b.WriteString(m.contactsBody())
	} else {
		b.WriteString(m.membershipsBody())
	}
	return b.String()
}

func (m Model) headerView() string {
	tabs := make([]string, 0, 2)
	for _, t := range []tab{tabContacts, tabMemberships} {
		label := t.String()
		if t == tabContacts {
			if n := unreadCount(m.contacts.List().Records()); n > 0 {
				label = fmt.Sprintf("%s (%d unread)", label, n)
			}
		}
		if t == m.tab {
			tabs = append(tabs, activeTab.Render(label))
		} else {
			tabs = append(tabs, inactiveTab.Render(label))
		}
	}
	return titleStyle.Render("Club admin") + "  " + strings.Join(tabs, "  ") + dimStyle.Render("   ? help")
}

func unreadCount(records []model.ContactSubmission) int {
	n := 0
	for _, r := range records {
		if !r.IsRead {
			n++
		}
	}
	return n
}

func (m Model) noticeView() string {
	n, ok := m.notices.Current()
	if !ok {
		return ""
	}
	if n.Kind == coordinator.NoticeError {
		return errorBanner.Render(n.Text + "  (x to dismiss)")
	}
	return successBanner.Render(n.Text)
}

func (m Model) toolbarView() string {
	list, _, _ := m.controls()
	p := list.Params()
	dir := "desc"
	if !p.Desc {
		dir = "asc"
	}
	search := dimStyle.Render("/ search")
	if m.searching {
		search = m.searchInput.View()
	} else if p.Query != "" {
		search = fmt.Sprintf("search: %q", p.Query)
	}
	return fmt.Sprintf("filter: %s  sort: %s %s  per page: %d  %s", p.Filter, p.Sort, dir, p.PageSize, search)
}

// loadState renders the loading or first-load failure placeholder, if any.
func (m Model) loadState(loaded bool, loadErr error) (string, bool) {
	if loadErr != nil {
		return errorBanner.Render("Could not load: "+loadErr.Error()) + "\n" + dimStyle.Render("Press R to retry."), true
	}
	if !loaded && m.loading[m.tab] {
		return dimStyle.Render("Loading..."), true
	}
	return "", false
}

func (m Model) contactsBody() string {
	c := m.contacts
	if s, ok := m.loadState(c.Loaded(), c.LoadErr()); ok {
		return s
	}
	v := c.List().View()

	var b strings.Builder
	if len(v.Items) == 0 {
		b.WriteString(dimStyle.Render(emptyText(v.Total)))
		b.WriteString("\n")
	}
	nameW, subjW := 20, max(10, m.width-20-30-20-8)
	for i, r := range v.Items {
		mark := " "
		if !r.IsRead {
			mark = "●"
		}
		if m.busy(coordinator.ActionToggleRead, r.ID) || m.busy(coordinator.ActionDelete, r.ID) {
			mark = "…"
		}
		row := fmt.Sprintf("%s %s %s %s %s", mark, pad(r.Name, nameW), pad(r.Email, 30), pad(r.Subject, subjW), r.CreatedAt.Local().Format("2006-01-02 15:04"))
		if !r.IsRead {
			row = unreadStyle.Render(row)
		}
		if i == m.cursor[tabContacts] {
			row = cursorStyle.Render(row)
		}
		b.WriteString(row)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(pagerView(v))
	b.WriteString("\n")

	detail := dimStyle.Render("No submission selected.")
	if sel, ok := c.List().Selected(); ok {
		detail = contactDetail(sel, m.width-6)
	}
	stats := statsView("Contact submissions", present.ContactStats(c.List().Records(), m.now()))
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, panelStyle.Render(detail), panelStyle.Render(stats)))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("m toggle read · a mark all read · d delete · f filter · s sort · r reverse · z page size · R refresh"))
	return b.String()
}

func contactDetail(c model.ContactSubmission, width int) string {
	state := "Unread"
	if c.IsRead {
		state = "Read"
	}
	lines := []string{
		titleStyle.Render(truncate(c.Subject, width)),
		fmt.Sprintf("From: %s <%s>", c.Name, c.Email),
		fmt.Sprintf("Received: %s  ·  %s", c.CreatedAt.Local().Format(time.DateTime), state),
	}
	if c.UpdatedAt != nil {
		lines = append(lines, dimStyle.Render("Updated: "+c.UpdatedAt.Local().Format(time.DateTime)))
	}
	lines = append(lines, "", lipgloss.NewStyle().Width(min(width, 70)).Render(c.Message))
	return strings.Join(lines, "\n")
}

func (m Model) membershipsBody() string {
	c := m.memberships
	if s, ok := m.loadState(c.Loaded(), c.LoadErr()); ok {
		return s
	}
	v := c.List().View()

	var b strings.Builder
	if len(v.Items) == 0 {
		b.WriteString(dimStyle.Render(emptyText(v.Total)))
		b.WriteString("\n")
	}
	for i, r := range v.Items {
		status := r.Status.Label()
		if m.busy(coordinator.ActionUpdateStatus, r.ID) || m.busy(coordinator.ActionUpdateNotes, r.ID) {
			status = "…"
		}
		row := fmt.Sprintf("%s %s %s %s %s %s", pad(r.Name, 20), pad(r.Email, 28), pad(r.City, 14), pad(r.Country, 14), pad(status, 9), r.CreatedAt.Local().Format("2006-01-02"))
		if i == m.cursor[tabMemberships] {
			row = cursorStyle.Render(row)
		}
		b.WriteString(row)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(pagerView(v))
	b.WriteString("\n")

	detail := dimStyle.Render("No request selected.")
	if sel, ok := c.List().Selected(); ok {
		detail = membershipDetail(sel)
	}
	stats := statsView("Membership requests", present.MembershipStats(c.List().Records(), m.now()))
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, panelStyle.Render(detail), panelStyle.Render(stats)))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("t next status · 1-4 set status · e edit notes · f filter · s sort · r reverse · z page size · R refresh"))
	return b.String()
}

func membershipDetail(r model.MembershipRequest) string {
	notes := r.Notes
	if notes == "" {
		notes = dimStyle.Render("(no notes)")
	}
	return strings.Join([]string{
		titleStyle.Render(r.Name),
		fmt.Sprintf("Email: %s", r.Email),
		fmt.Sprintf("Location: %s, %s", r.City, r.Country),
		fmt.Sprintf("Status: %s", r.Status.Label()),
		fmt.Sprintf("Applied: %s", r.CreatedAt.Local().Format(time.DateTime)),
		"",
		lipgloss.NewStyle().Width(60).Render(notes),
	}, "\n")
}

func emptyText(total int) string {
	if total == 0 {
		return "Nothing here yet."
	}
	return "No records match the current filter and search."
}

// pagerView renders "Showing a-b of n" with the page window.
func pagerView[T any](v listview.View[T]) string {
	p := present.NewPager(v)
	parts := make([]string, 0, len(p.Items)+2)
	if p.HasPrev {
		parts = append(parts, "‹")
	}
	for _, it := range p.Items {
		switch {
		case it.Ellipsis:
			parts = append(parts, "…")
		case it.Page == p.Page:
			parts = append(parts, activeTab.Render(fmt.Sprintf("[%d]", it.Page)))
		default:
			parts = append(parts, fmt.Sprintf("%d", it.Page))
		}
	}
	if p.HasNext {
		parts = append(parts, "›")
	}
	return p.Summary() + "   " + strings.Join(parts, " ")
}

func statsView(title string, s present.Stats) string {
	lines := []string{titleStyle.Render(title), fmt.Sprintf("Total: %d", s.Total)}
	for _, sh := range s.Breakdown {
		lines = append(lines, fmt.Sprintf("%-9s %4d  %5.1f%%", sh.Label, sh.Count, sh.Percent))
	}
	lines = append(lines, fmt.Sprintf("Last 24h: %d", s.Last24h), fmt.Sprintf("Last 7d:  %d", s.Last7d))
	return strings.Join(lines, "\n")
}

func (m Model) deleteModalView() string {
	if m.pendingDelete == nil {
		return ""
	}
	r := m.pendingDelete.Record()
	body := fmt.Sprintf("Delete the submission from %s?\n\n%s\n\nThis cannot be undone.  [y] delete  [n] cancel",
		truncate(r.Name, 40), truncate(r.Subject, 60))
	return modalStyle.Render(body)
}

func (m Model) notesModalView() string {
	title := "Edit notes"
	if sel, ok := m.memberships.List().Selected(); ok {
		title = "Edit notes for " + sel.Name
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n\n")
	b.WriteString(m.notesInput.View())
	b.WriteString("\n\n")
	if id, ok := m.memberships.EditingNotes(); ok && m.busy(coordinator.ActionUpdateNotes, id) {
		b.WriteString(dimStyle.Render("Saving..."))
	} else {
		b.WriteString(dimStyle.Render("ctrl+s save · esc cancel"))
	}
	if banner := m.noticeView(); banner != "" {
		b.WriteString("\n")
		b.WriteString(banner)
	}
	return modalStyle.Render(b.String())
}

const helpText = `Keys

  tab        switch list
  ↑/k ↓/j    move cursor
  ←/h →/l    previous / next page
  g / G      first / last page
  /          search (enter keep, esc clear)
  f          cycle filter
  s          cycle sort field
  r          reverse sort direction
  z          cycle page size
  R          refresh
  x          dismiss notice
  q          quit

Contacts
  m          toggle read
  a          mark all as read
  d          delete (asks first)

Membership requests
  t          next status
  1-4        new / pending / approved / rejected
  e          edit notes (ctrl+s save, esc cancel)

Press any key to close.`
