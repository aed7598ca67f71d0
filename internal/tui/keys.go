package tui

import (
	"context"
	"errors"
	"slices"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/meridianclub/backend/internal/coordinator"
	"github.com/meridianclub/backend/internal/listview"
	"github.com/meridianclub/backend/internal/model"
)

// listControls is the type-independent part of a list controller.
type listControls interface {
	Params() listview.Params
	SetFilter(key string) error
	SetQuery(q string)
	SetSort(key string, desc bool) error
	ToggleDirection()
	SetPageSize(n int) error
	NextPage()
	PrevPage()
	FirstPage()
	LastPage()
}

// controls returns the current tab's controller with its filter and sort keys.
func (m Model) controls() (listControls, []string, []string) {
	if m.tab == tabContacts {
		list := m.contacts.List()
		return list, list.Config().FilterKeys(), list.Config().SortKeys()
	}
	list := m.memberships.List()
	return list, list.Config().FilterKeys(), list.Config().SortKeys()
}

// nextKey returns the key after cur, wrapping around.
func nextKey[T comparable](keys []T, cur T) T {
	i := slices.Index(keys, cur)
	return keys[(i+1)%len(keys)]
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	m.detach()
	return m, tea.Quit
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m.quit()
	}

	switch m.modal {
	case modalDeleteConfirm:
		return m.handleDeleteConfirmKeys(msg)
	case modalNotes:
		return m.handleNotesKeys(msg)
	case modalHelp:
		m.modal = modalNone
		return m, nil
	}

	if m.searching {
		return m.handleSearchKeys(msg)
	}
	return m.handleListKeys(msg)
}

func (m Model) handleSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	list, _, _ := m.controls()
	switch msg.String() {
	case "enter":
		m.searching = false
		m.searchInput.Blur()
		return m, nil
	case "esc":
		m.searching = false
		m.searchInput.Blur()
		m.searchInput.SetValue("")
		list.SetQuery("")
		m.cursor[m.tab] = 0
		m.clampCursor()
		return m, nil
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	if q := m.searchInput.Value(); q != list.Params().Query {
		list.SetQuery(q)
		m.cursor[m.tab] = 0
		m.clampCursor()
	}
	return m, cmd
}

func (m Model) handleDeleteConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	p := m.pendingDelete
	switch msg.String() {
	case "y", "Y", "enter":
		m.modal = modalNone
		m.pendingDelete = nil
		if p == nil {
			return m, nil
		}
		return m, m.mutate(coordinator.ActionDelete, p.Record().ID, p.Confirm)
	case "n", "N", "esc", "q":
		m.modal = modalNone
		m.pendingDelete = nil
		if p != nil {
			_ = p.Decline()
		}
	}
	return m, nil
}

func (m Model) handleNotesKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	id, editing := m.memberships.EditingNotes()
	switch msg.String() {
	case "esc":
		m.memberships.CancelEditNotes()
		m.modal = modalNone
		m.notesInput.Blur()
		return m, nil
	case "ctrl+s":
		if !editing || m.busy(coordinator.ActionUpdateNotes, id) {
			return m, nil
		}
		notes := m.notesInput.Value()
		return m, m.mutate(coordinator.ActionUpdateNotes, id, func(ctx context.Context) error {
			return m.memberships.UpdateNotes(ctx, id, notes)
		})
	}

	var cmd tea.Cmd
	m.notesInput, cmd = m.notesInput.Update(msg)
	return m, cmd
}

func (m Model) handleListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	list, filters, sorts := m.controls()

	switch msg.String() {
	case "q":
		return m.quit()
	case "?":
		m.modal = modalHelp
		return m, nil
	case "tab", "shift+tab":
		m.tab = 1 - m.tab
		m.searchInput.SetValue("")
		m.clampCursor()
		return m, nil

	case "up", "k":
		m.cursor[m.tab]--
		m.clampCursor()
		return m, nil
	case "down", "j":
		m.cursor[m.tab]++
		m.clampCursor()
		return m, nil
	case "right", "l", "pgdown":
		list.NextPage()
		m.clampCursor()
		return m, nil
	case "left", "h", "pgup":
		list.PrevPage()
		m.clampCursor()
		return m, nil
	case "g", "home":
		list.FirstPage()
		m.clampCursor()
		return m, nil
	case "G", "end":
		list.LastPage()
		m.clampCursor()
		return m, nil

	case "/":
		m.searching = true
		m.searchInput.SetValue(list.Params().Query)
		m.searchInput.CursorEnd()
		return m, m.searchInput.Focus()
	case "f":
		_ = list.SetFilter(nextKey(filters, list.Params().Filter))
		m.cursor[m.tab] = 0
		m.clampCursor()
		return m, nil
	case "s":
		p := list.Params()
		_ = list.SetSort(nextKey(sorts, p.Sort), p.Desc)
		m.clampCursor()
		return m, nil
	case "r":
		list.ToggleDirection()
		m.clampCursor()
		return m, nil
	case "z":
		_ = list.SetPageSize(nextKey(listview.DefaultPageSizes, list.Params().PageSize))
		m.cursor[m.tab] = 0
		m.clampCursor()
		return m, nil
	case "R":
		return m.refresh()
	case "x", "esc":
		m.notices.Dismiss()
		return m, nil
	}

	if m.tab == tabContacts {
		return m.handleContactKeys(msg)
	}
	return m.handleMembershipKeys(msg)
}

func (m Model) handleContactKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	c := m.contacts
	sel, ok := c.List().Selected()

	switch msg.String() {
	case "m", " ":
		if !ok || m.busy(coordinator.ActionToggleRead, sel.ID) {
			return m, nil
		}
		id := sel.ID
		return m, m.mutate(coordinator.ActionToggleRead, id, func(ctx context.Context) error {
			return c.ToggleRead(ctx, id)
		})
	case "a":
		if m.busy(coordinator.ActionMarkAllRead, "") {
			return m, nil
		}
		return m, m.mutate(coordinator.ActionMarkAllRead, "", func(ctx context.Context) error {
			_, err := c.MarkAllRead(ctx)
			return err
		})
	case "d":
		if !ok || m.busy(coordinator.ActionDelete, sel.ID) {
			return m, nil
		}
		p, err := c.StageDelete(sel.ID)
		if err != nil {
			return m, nil
		}
		m.pendingDelete = p
		m.modal = modalDeleteConfirm
	}
	return m, nil
}

// statusKeys maps number keys to a direct status choice.
var statusKeys = map[string]model.MembershipStatus{
	"1": model.StatusNew,
	"2": model.StatusPending,
	"3": model.StatusApproved,
	"4": model.StatusRejected,
}

func (m Model) handleMembershipKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	c := m.memberships
	sel, ok := c.List().Selected()
	if !ok {
		return m, nil
	}
	id := sel.ID

	key := msg.String()
	status, direct := statusKeys[key]
	switch {
	case key == "t" || direct:
		if m.busy(coordinator.ActionUpdateStatus, id) {
			return m, nil
		}
		if !direct {
			status = sel.Status.Next()
		}
		return m, m.mutate(coordinator.ActionUpdateStatus, id, func(ctx context.Context) error {
			return c.UpdateStatus(ctx, id, status)
		})
	case key == "e":
		if m.busy(coordinator.ActionUpdateNotes, id) {
			return m, nil
		}
		if err := c.BeginEditNotes(id); errors.Is(err, coordinator.ErrNotFound) {
			return m, nil
		}
		m.modal = modalNotes
		m.notesInput.SetValue(sel.Notes)
		return m, m.notesInput.Focus()
	}
	return m, nil
}
