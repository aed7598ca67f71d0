package coordinator

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/meridianclub/backend/internal/gateway"
	"github.com/meridianclub/backend/internal/listview"
	"github.com/meridianclub/backend/internal/model"
)

// Membership action names, as reported by Busy.
const (
	ActionUpdateStatus = "update_status"
	ActionUpdateNotes  = "update_notes"
)

// ErrInvalidStatus is returned for a status outside the known set.
var ErrInvalidStatus = errors.New("invalid membership status")

// MembershipCoordinator performs status and notes changes on membership
// requests.
type MembershipCoordinator struct {
	*core[model.MembershipRequest]

	editMu  sync.Mutex
	editing string
}

// NewMembershipCoordinator creates a coordinator writing through gw into list.
func NewMembershipCoordinator(gw gateway.MembershipGateway, list *listview.Controller[model.MembershipRequest], opts Options) *MembershipCoordinator {
	return &MembershipCoordinator{
		core: newCore[model.MembershipRequest]("membership request", gw, list, opts),
	}
}

// UpdateStatus sets the status of one request. Any transition is allowed.
func (c *MembershipCoordinator) UpdateStatus(ctx context.Context, id string, status model.MembershipStatus) error {
	if !status.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	if _, ok := c.list.Find(id); !ok {
		return fmt.Errorf("update status %s: %w", id, ErrNotFound)
	}
	return c.run(ctx, mutation{
		action:  ActionUpdateStatus,
		id:      id,
		payload: string(status),
		verb:    "update status",
		call: func(ctx context.Context) error {
			return c.gw.Mutate(ctx, id, gateway.Patch{Status: &status})
		},
		apply: func() {
			c.list.Update(id, func(r *model.MembershipRequest) { r.Status = status })
		},
		success: "Status changed to " + status.Label(),
	})
}

// BeginEditNotes enters notes edit mode for id.
func (c *MembershipCoordinator) BeginEditNotes(id string) error {
	if _, ok := c.list.Find(id); !ok {
		return fmt.Errorf("edit notes %s: %w", id, ErrNotFound)
	}
	c.editMu.Lock()
	defer c.editMu.Unlock()
	c.editing = id
	return nil
}

// CancelEditNotes leaves notes edit mode without saving.
func (c *MembershipCoordinator) CancelEditNotes() {
	c.editMu.Lock()
	defer c.editMu.Unlock()
	c.editing = ""
}

// EditingNotes returns the id whose notes are being edited.
func (c *MembershipCoordinator) EditingNotes() (string, bool) {
	c.editMu.Lock()
	defer c.editMu.Unlock()
	return c.editing, c.editing != ""
}

// UpdateNotes saves the admin notes of one request. Edit mode for id ends
// on success and is kept on failure.
func (c *MembershipCoordinator) UpdateNotes(ctx context.Context, id, notes string) error {
	if _, ok := c.list.Find(id); !ok {
		return fmt.Errorf("update notes %s: %w", id, ErrNotFound)
	}
	return c.run(ctx, mutation{
		action:  ActionUpdateNotes,
		id:      id,
		payload: notes,
		verb:    "save notes",
		call: func(ctx context.Context) error {
			return c.gw.Mutate(ctx, id, gateway.Patch{Notes: &notes})
		},
		apply: func() {
			c.list.Update(id, func(r *model.MembershipRequest) { r.Notes = notes })
			c.editMu.Lock()
			if c.editing == id {
				c.editing = ""
			}
			c.editMu.Unlock()
		},
		success: "Notes saved",
	})
}
