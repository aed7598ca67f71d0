package repository

import (
	"context"
	"time"

	"github.com/meridianclub/backend/internal/model"
)

// DB checks that the database connection is alive.
type DB interface {
	Ping(ctx context.Context) error
}

// ContactRepository defines the persistence interface for contact submissions.
type ContactRepository interface {
	Save(ctx context.Context, sub *model.ContactSubmission) error
	List(ctx context.Context) ([]*model.ContactSubmission, error)
	// SetRead updates is_read/updated_at for every id and returns the
	// number of rows changed.
	SetRead(ctx context.Context, ids []string, read bool, at time.Time) (int64, error)
	Delete(ctx context.Context, id string) error
}

// MembershipRepository defines the persistence interface for membership requests.
// Status and notes changes go through stored procedures.
type MembershipRepository interface {
	Save(ctx context.Context, req *model.MembershipRequest) error
	List(ctx context.Context) ([]*model.MembershipRequest, error)
	UpdateStatus(ctx context.Context, id string, status model.MembershipStatus) error
	UpdateNotes(ctx context.Context, id, notes string) error
}
