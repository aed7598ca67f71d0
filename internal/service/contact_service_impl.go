package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/meridianclub/backend/internal/mailer"
	"github.com/meridianclub/backend/internal/model"
	"github.com/meridianclub/backend/internal/repository"
)

// contactServiceImpl is the production implementation of ContactService.
type contactServiceImpl struct {
	repo     repository.ContactRepository
	notifier mailer.Notifier
	now      func() time.Time
}

// NewContactService creates a ContactService backed by the given repository
// and notifier.
func NewContactService(repo repository.ContactRepository, notifier mailer.Notifier) ContactService {
	return &contactServiceImpl{repo: repo, notifier: notifier, now: time.Now}
}

func (in ContactInput) normalize() ContactInput {
	return ContactInput{
		Name:    strings.TrimSpace(in.Name),
		Email:   strings.TrimSpace(in.Email),
		Subject: strings.TrimSpace(in.Subject),
		Message: strings.TrimSpace(in.Message),
	}
}

// Validate checks the contact form fields.
func (in ContactInput) Validate() error {
	var v validator
	v.required("name", in.Name, MaxNameLen)
	v.email("email", in.Email)
	v.maxLen("subject", in.Subject, MaxSubjectLen)
	v.required("message", in.Message, MaxMessageLen)
	return v.err()
}

// Submit stores a new submission as unread and then notifies staff.
func (s *contactServiceImpl) Submit(ctx context.Context, in ContactInput) (*SubmitReceipt, error) {
	in = in.normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}

	sub := &model.ContactSubmission{
		ID:        uuid.NewString(),
		Name:      in.Name,
		Email:     in.Email,
		Subject:   in.Subject,
		Message:   in.Message,
		IsRead:    false,
		CreatedAt: s.now().UTC(),
	}
	if err := s.repo.Save(ctx, sub); err != nil {
		return nil, fmt.Errorf("save contact submission: %w", err)
	}

	receipt := &SubmitReceipt{ID: sub.ID}
	if err := s.notifier.NotifyContact(ctx, *sub); err != nil {
		slog.Warn("contact notification not sent", "submission_id", sub.ID, "error", err)
		receipt.EmailErr = err
	} else {
		receipt.EmailSent = true
	}
	return receipt, nil
}

// List returns every submission, newest first.
func (s *contactServiceImpl) List(ctx context.Context) ([]*model.ContactSubmission, error) {
	return s.repo.List(ctx)
}

func (s *contactServiceImpl) SetRead(ctx context.Context, id string, read bool, at time.Time) error {
	_, err := s.repo.SetRead(ctx, []string{id}, read, s.stamp(at))
	return err
}

func (s *contactServiceImpl) MarkRead(ctx context.Context, ids []string, at time.Time) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	return s.repo.SetRead(ctx, ids, true, s.stamp(at))
}

func (s *contactServiceImpl) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// stamp uses the caller's timestamp so client and server agree on updated_at.
func (s *contactServiceImpl) stamp(at time.Time) time.Time {
	if at.IsZero() {
		return s.now().UTC()
	}
	return at
}
