// Package gateway issues reads and writes against the table store that owns
// contact submissions and membership requests. Every call is a single
// attempt: no retries and no caching happen at this layer.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/meridianclub/backend/internal/model"
)

// Kind names the table a call was made against.
type Kind string

const (
	KindContact    Kind = "contact_submissions"
	KindMembership Kind = "membership_requests"
)

var (
	// ErrNotFound is wrapped when the store has no row for the given id.
	ErrNotFound = errors.New("record not found")
	// ErrUnsupported is wrapped when a kind does not support an operation.
	ErrUnsupported = errors.New("operation not supported")
)

// Patch describes a partial update. Nil fields are left unchanged.
type Patch struct {
	IsRead    *bool
	UpdatedAt *time.Time
	Status    *model.MembershipStatus
	Notes     *string
}

// Gateway is the read/write contract for one record kind.
type Gateway[T any] interface {
	// FetchAll returns every record ordered newest created_at first.
	FetchAll(ctx context.Context) ([]T, error)
	Mutate(ctx context.Context, id string, patch Patch) error
	Remove(ctx context.Context, id string) error
}

// BatchMutator applies one patch to many rows in a single call.
type BatchMutator interface {
	MutateMany(ctx context.Context, ids []string, patch Patch) error
}

// ContactGateway is the gateway for contact submissions.
type ContactGateway interface {
	Gateway[model.ContactSubmission]
	BatchMutator
}

// MembershipGateway is the gateway for membership requests.
type MembershipGateway = Gateway[model.MembershipRequest]

// FetchError reports a failed listing.
type FetchError struct {
	Kind Kind
	Err  error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.Kind, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// MutationError reports a failed write.
type MutationError struct {
	Kind Kind
	Op   string
	ID   string
	Err  error
}

func (e *MutationError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s %s %s: %v", e.Op, e.Kind, e.ID, e.Err)
}

func (e *MutationError) Unwrap() error { return e.Err }

func fetchErr(kind Kind, err error) error {
	if err == nil {
		return nil
	}
	return &FetchError{Kind: kind, Err: err}
}

func mutationErr(kind Kind, op, id string, err error) error {
	if err == nil {
		return nil
	}
	return &MutationError{Kind: kind, Op: op, ID: id, Err: err}
}
