package service

import (
	"context"
	"time"

	"github.com/meridianclub/backend/internal/model"
)

// ContactInput is the public contact form payload.
type ContactInput struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// SubmitReceipt reports the outcome of a stored submission. A failed
// notification does not fail the submission.
type SubmitReceipt struct {
	ID        string
	EmailSent bool
	EmailErr  error
}

// ContactService defines the business logic for contact form submissions.
type ContactService interface {
	// Submit validates and stores a new submission, then attempts the staff
	// notification. The returned error is a *ValidationError or a storage
	// failure; notification failures are reported in the receipt.
	Submit(ctx context.Context, in ContactInput) (*SubmitReceipt, error)

	// List returns every submission, newest first.
	List(ctx context.Context) ([]*model.ContactSubmission, error)

	// SetRead changes the read flag of one submission.
	SetRead(ctx context.Context, id string, read bool, at time.Time) error

	// MarkRead marks the given submissions read and returns how many changed.
	MarkRead(ctx context.Context, ids []string, at time.Time) (int64, error)

	Delete(ctx context.Context, id string) error
}
