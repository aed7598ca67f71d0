// Package tui provides the terminal admin dashboard for contact submissions
// and membership requests.
package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/meridianclub/backend/internal/coordinator"
	"github.com/meridianclub/backend/internal/model"
)

// tab identifies the visible list.
type tab int

const (
	tabContacts tab = iota
	tabMemberships
)

func (t tab) String() string {
	if t == tabMemberships {
		return "Membership requests"
	}
	return "Contact submissions"
}

// modalType is the dialog shown over the list, if any.
type modalType int

const (
	modalNone modalType = iota
	modalDeleteConfirm
	modalNotes
	modalHelp
)

// Options configures the dashboard.
type Options struct {
	Contacts    *coordinator.ContactCoordinator
	Memberships *coordinator.MembershipCoordinator
	// Notices is shared by both coordinators.
	Notices *coordinator.Notices
	// Timeout bounds each gateway call. Defaults to 30s.
	Timeout time.Duration
	Now     func() time.Time
}

// Model is the bubbletea model for the dashboard.
type Model struct {
	contacts    *coordinator.ContactCoordinator
	memberships *coordinator.MembershipCoordinator
	notices     *coordinator.Notices
	timeout     time.Duration
	now         func() time.Time

	tab tab
	// cursor is the row within the current page, per tab.
	cursor [2]int

	// Request tracking to ignore stale fetch results
	contactsRequestID    uint64
	membershipsRequestID uint64
	loading              [2]bool

	// pending holds mutations dispatched but not yet reported back, keyed by
	// action and record id. The coordinator only sees a call once its
	// command goroutine starts.
	pending map[string]bool

	searching   bool
	searchInput textinput.Model

	modal         modalType
	pendingDelete *coordinator.PendingDelete
	notesInput    textarea.Model

	width  int
	height int

	quitting bool
}

// New creates the dashboard model.
func New(opts Options) Model {
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Notices == nil {
		opts.Notices = opts.Contacts.Notices()
	}

	ti := textinput.New()
	ti.Placeholder = "search"
	ti.CharLimit = 200
	ti.Width = 40
	ti.Cursor.SetMode(cursor.CursorStatic)

	ta := textarea.New()
	ta.Placeholder = "Notes for this request"
	ta.CharLimit = 2000
	ta.SetWidth(60)
	ta.SetHeight(6)
	ta.Cursor.SetMode(cursor.CursorStatic)

	return Model{
		contacts:    opts.Contacts,
		memberships: opts.Memberships,
		notices:     opts.Notices,
		timeout:     opts.Timeout,
		now:         opts.Now,
		searchInput: ti,
		notesInput:  ta,
		loading:     [2]bool{true, true},
		pending:     make(map[string]bool),
		width:       100,
		height:      30,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.fetchContacts(), m.fetchMemberships())
}

// contactsFetchedMsg carries a contact fetch result.
type contactsFetchedMsg struct {
	records   []model.ContactSubmission
	err       error
	requestID uint64
}

// membershipsFetchedMsg carries a membership fetch result.
type membershipsFetchedMsg struct {
	records   []model.MembershipRequest
	err       error
	requestID uint64
}

// mutationDoneMsg is sent when a coordinator call returns. The coordinator
// has already applied the result and posted the notice.
type mutationDoneMsg struct {
	action string
	id     string
	err    error
}

// noticeTickMsg re-renders so an expired success notice disappears.
type noticeTickMsg struct{}

func (m Model) fetchContacts() tea.Cmd {
	requestID := m.contactsRequestID
	c := m.contacts
	timeout := m.timeout
	return func() (msg tea.Msg) {
		defer func() {
			if r := recover(); r != nil {
				msg = contactsFetchedMsg{err: fmt.Errorf("fetch panic: %v", r), requestID: requestID}
			}
		}()
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		records, err := c.Fetch(ctx)
		return contactsFetchedMsg{records: records, err: err, requestID: requestID}
	}
}

func (m Model) fetchMemberships() tea.Cmd {
	requestID := m.membershipsRequestID
	c := m.memberships
	timeout := m.timeout
	return func() (msg tea.Msg) {
		defer func() {
			if r := recover(); r != nil {
				msg = membershipsFetchedMsg{err: fmt.Errorf("fetch panic: %v", r), requestID: requestID}
			}
		}()
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		records, err := c.Fetch(ctx)
		return membershipsFetchedMsg{records: records, err: err, requestID: requestID}
	}
}

func pendingKey(action, id string) string {
	return action + "/" + id
}

// busy reports whether action on id is dispatched or in flight.
func (m Model) busy(action, id string) bool {
	return m.pending[pendingKey(action, id)] ||
		m.contacts.Busy(action, id) ||
		m.memberships.Busy(action, id)
}

// mutate marks action on id pending and runs fn on a command goroutine with
// the configured timeout.
func (m *Model) mutate(action, id string, fn func(ctx context.Context) error) tea.Cmd {
	m.pending[pendingKey(action, id)] = true
	timeout := m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return mutationDoneMsg{action: action, id: id, err: fn(ctx)}
	}
}

func noticeTick() tea.Cmd {
	return tea.Tick(coordinator.SuccessTTL, func(time.Time) tea.Msg { return noticeTickMsg{} })
}

// refresh starts a new fetch for the current tab, superseding any
// outstanding one.
func (m Model) refresh() (Model, tea.Cmd) {
	m.loading[m.tab] = true
	if m.tab == tabContacts {
		m.contactsRequestID++
		return m, m.fetchContacts()
	}
	m.membershipsRequestID++
	return m, m.fetchMemberships()
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.notesInput.SetWidth(min(60, max(20, msg.Width-10)))
		return m, nil

	case contactsFetchedMsg:
		if msg.requestID != m.contactsRequestID {
			return m, nil
		}
		m.loading[tabContacts] = false
		_ = m.contacts.ApplyFetch(msg.records, msg.err)
		m.clampCursor()
		return m, nil

	case membershipsFetchedMsg:
		if msg.requestID != m.membershipsRequestID {
			return m, nil
		}
		m.loading[tabMemberships] = false
		_ = m.memberships.ApplyFetch(msg.records, msg.err)
		m.clampCursor()
		return m, nil

	case mutationDoneMsg:
		delete(m.pending, pendingKey(msg.action, msg.id))
		if msg.err == nil && msg.action == coordinator.ActionUpdateNotes && m.modal == modalNotes {
			m.modal = modalNone
			m.notesInput.Blur()
		}
		m.clampCursor()
		return m, noticeTick()

	case noticeTickMsg:
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.modal == modalNotes {
		var cmd tea.Cmd
		m.notesInput, cmd = m.notesInput.Update(msg)
		return m, cmd
	}
	if m.searching {
		var cmd tea.Cmd
		m.searchInput, cmd = m.searchInput.Update(msg)
		return m, cmd
	}
	return m, nil
}

// pageLen returns the number of rows on the current page of t.
func (m Model) pageLen(t tab) int {
	if t == tabContacts {
		return len(m.contacts.List().View().Items)
	}
	return len(m.memberships.List().View().Items)
}

// clampCursor keeps both cursors on their page and syncs the selections.
func (m *Model) clampCursor() {
	for _, t := range []tab{tabContacts, tabMemberships} {
		c := &m.cursor[t]
		*c = max(0, min(*c, m.pageLen(t)-1))
		m.syncSelection(t)
	}
}

// syncSelection selects the record under the cursor of t.
func (m *Model) syncSelection(t tab) {
	c := m.cursor[t]
	if t == tabContacts {
		list := m.contacts.List()
		if items := list.View().Items; c < len(items) {
			list.Select(items[c].ID)
		} else {
			list.ClearSelection()
		}
		return
	}
	list := m.memberships.List()
	if items := list.View().Items; c < len(items) {
		list.Select(items[c].ID)
	} else {
		list.ClearSelection()
	}
}

// detach stops both coordinators from applying late results.
func (m Model) detach() {
	m.contacts.Detach()
	m.memberships.Detach()
}
