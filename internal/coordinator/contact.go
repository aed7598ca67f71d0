package coordinator

import (
	"context"
	"fmt"
	"strconv"

	"github.com/meridianclub/backend/internal/gateway"
	"github.com/meridianclub/backend/internal/listview"
	"github.com/meridianclub/backend/internal/model"
)

// Contact action names, as reported by Busy.
const (
	ActionToggleRead  = "toggle_read"
	ActionDelete      = "delete"
	ActionMarkAllRead = "mark_all_read"
)

// ContactCoordinator performs read-state changes and deletions on contact
// submissions.
type ContactCoordinator struct {
	*core[model.ContactSubmission]
	contacts gateway.ContactGateway
}

// NewContactCoordinator creates a coordinator writing through gw into list.
func NewContactCoordinator(gw gateway.ContactGateway, list *listview.Controller[model.ContactSubmission], opts Options) *ContactCoordinator {
	return &ContactCoordinator{
		core:     newCore[model.ContactSubmission]("contact submission", gw, list, opts),
		contacts: gw,
	}
}

// ToggleRead flips the read flag of one submission and stamps updated_at.
func (c *ContactCoordinator) ToggleRead(ctx context.Context, id string) error {
	rec, ok := c.list.Find(id)
	if !ok {
		return fmt.Errorf("toggle read %s: %w", id, ErrNotFound)
	}
	target := !rec.IsRead
	stamp := c.now()

	success := "Marked as unread"
	if target {
		success = "Marked as read"
	}
	return c.run(ctx, mutation{
		action:  ActionToggleRead,
		id:      id,
		payload: strconv.FormatBool(target),
		verb:    "update read status",
		call: func(ctx context.Context) error {
			return c.contacts.Mutate(ctx, id, gateway.Patch{IsRead: &target, UpdatedAt: &stamp})
		},
		apply: func() {
			c.list.Update(id, func(r *model.ContactSubmission) { r.MarkRead(target, stamp) })
		},
		success: success,
	})
}

// MarkAllRead marks every unread submission read in one batch and returns
// how many were changed. No call is made when nothing is unread.
func (c *ContactCoordinator) MarkAllRead(ctx context.Context) (int, error) {
	var ids []string
	for _, r := range c.list.Records() {
		if !r.IsRead {
			ids = append(ids, r.ID)
		}
	}
	if len(ids) == 0 {
		return 0, nil
	}

	read := true
	stamp := c.now()
	err := c.run(ctx, mutation{
		action: ActionMarkAllRead,
		verb:   "mark all as read",
		call: func(ctx context.Context) error {
			return c.contacts.MutateMany(ctx, ids, gateway.Patch{IsRead: &read, UpdatedAt: &stamp})
		},
		apply: func() {
			for _, id := range ids {
				c.list.Update(id, func(r *model.ContactSubmission) { r.MarkRead(true, stamp) })
			}
		},
		success: fmt.Sprintf("Marked %d %s as read", len(ids), plural(len(ids), "submission")),
	})
	if err != nil {
		return 0, err
	}
	return len(ids), nil
}

// PendingDelete is a staged deletion awaiting confirmation.
type PendingDelete struct {
	c      *ContactCoordinator
	record model.ContactSubmission
}

// Record returns the submission that would be deleted.
func (p *PendingDelete) Record() model.ContactSubmission { return p.record }

// Confirm performs the deletion.
func (p *PendingDelete) Confirm(ctx context.Context) error {
	id := p.record.ID
	return p.c.run(ctx, mutation{
		action:  ActionDelete,
		id:      id,
		verb:    "delete submission",
		call:    func(ctx context.Context) error { return p.c.contacts.Remove(ctx, id) },
		apply:   func() { p.c.list.Remove(id) },
		success: "Submission deleted",
	})
}

// Decline abandons the deletion. It returns ErrConfirmationDeclined and
// posts no notice.
func (p *PendingDelete) Decline() error {
	return ErrConfirmationDeclined
}

// StageDelete prepares the deletion of a cached submission.
func (c *ContactCoordinator) StageDelete(id string) (*PendingDelete, error) {
	rec, ok := c.list.Find(id)
	if !ok {
		return nil, fmt.Errorf("delete %s: %w", id, ErrNotFound)
	}
	return &PendingDelete{c: c, record: rec}, nil
}

// Delete asks confirm and deletes the submission if it returns true.
func (c *ContactCoordinator) Delete(ctx context.Context, id string, confirm func(model.ContactSubmission) bool) error {
	p, err := c.StageDelete(id)
	if err != nil {
		return err
	}
	if !confirm(p.Record()) {
		return p.Decline()
	}
	return p.Confirm(ctx)
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
