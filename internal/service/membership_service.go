package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/meridianclub/backend/internal/model"
	"github.com/meridianclub/backend/internal/repository"
)

// MembershipInput is the public membership form payload.
type MembershipInput struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	City    string `json:"city"`
	Country string `json:"country"`
}

// Validate checks the membership form fields.
func (in MembershipInput) Validate() error {
	var v validator
	v.required("name", in.Name, MaxNameLen)
	v.email("email", in.Email)
	v.required("city", in.City, MaxPlaceLen)
	v.required("country", in.Country, MaxPlaceLen)
	return v.err()
}

// MembershipService defines the business logic for membership requests.
type MembershipService interface {
	Submit(ctx context.Context, in MembershipInput) (*model.MembershipRequest, error)
	List(ctx context.Context) ([]*model.MembershipRequest, error)
	UpdateStatus(ctx context.Context, id string, status model.MembershipStatus) error
	UpdateNotes(ctx context.Context, id, notes string) error
}

type membershipService struct {
	repo repository.MembershipRepository
	now  func() time.Time
}

// NewMembershipService creates a MembershipService backed by the given repository.
func NewMembershipService(repo repository.MembershipRepository) MembershipService {
	return &membershipService{repo: repo, now: time.Now}
}

// Submit validates and stores a new request with status "new".
func (s *membershipService) Submit(ctx context.Context, in MembershipInput) (*model.MembershipRequest, error) {
	in = MembershipInput{
		Name:    strings.TrimSpace(in.Name),
		Email:   strings.TrimSpace(in.Email),
		City:    strings.TrimSpace(in.City),
		Country: strings.TrimSpace(in.Country),
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}

	req := &model.MembershipRequest{
		ID:        uuid.NewString(),
		Name:      in.Name,
		Email:     in.Email,
		City:      in.City,
		Country:   in.Country,
		Status:    model.StatusNew,
		CreatedAt: s.now().UTC(),
	}
	if err := s.repo.Save(ctx, req); err != nil {
		return nil, fmt.Errorf("save membership request: %w", err)
	}
	return req, nil
}

func (s *membershipService) List(ctx context.Context) ([]*model.MembershipRequest, error) {
	return s.repo.List(ctx)
}

// UpdateStatus rejects unknown statuses; any transition between known ones is allowed.
func (s *membershipService) UpdateStatus(ctx context.Context, id string, status model.MembershipStatus) error {
	if !status.Valid() {
		return &ValidationError{Fields: map[string]string{"status": "must be one of new, pending, approved, rejected"}}
	}
	return s.repo.UpdateStatus(ctx, id, status)
}

func (s *membershipService) UpdateNotes(ctx context.Context, id, notes string) error {
	if len(notes) > MaxMessageLen {
		return &ValidationError{Fields: map[string]string{"notes": fmt.Sprintf("must be at most %d characters", MaxMessageLen)}}
	}
	return s.repo.UpdateNotes(ctx, id, notes)
}
