package gateway

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/meridianclub/backend/internal/model"
	"github.com/meridianclub/backend/internal/repository"
)

// DirectContacts talks to the contact_submissions table through the
// repository layer.
type DirectContacts struct {
	repo repository.ContactRepository
	now  func() time.Time
}

// NewDirectContacts creates a ContactGateway backed by the given repository.
func NewDirectContacts(repo repository.ContactRepository) *DirectContacts {
	return &DirectContacts{repo: repo, now: time.Now}
}

var _ ContactGateway = (*DirectContacts)(nil)

func (g *DirectContacts) FetchAll(ctx context.Context) ([]model.ContactSubmission, error) {
	subs, err := g.repo.List(ctx)
	if err != nil {
		return nil, fetchErr(KindContact, err)
	}
	out := make([]model.ContactSubmission, 0, len(subs))
	for _, s := range subs {
		out = append(out, *s)
	}
	return out, nil
}

func (g *DirectContacts) Mutate(ctx context.Context, id string, patch Patch) error {
	return g.MutateMany(ctx, []string{id}, patch)
}

// MutateMany only supports read-state patches.
func (g *DirectContacts) MutateMany(ctx context.Context, ids []string, patch Patch) error {
	id := ""
	if len(ids) == 1 {
		id = ids[0]
	}
	if patch.IsRead == nil || patch.Status != nil || patch.Notes != nil {
		return mutationErr(KindContact, "update", id, fmt.Errorf("contact patch: %w", ErrUnsupported))
	}
	at := g.now()
	if patch.UpdatedAt != nil {
		at = *patch.UpdatedAt
	}
	if _, err := g.repo.SetRead(ctx, ids, *patch.IsRead, at); err != nil {
		return mutationErr(KindContact, "update", id, translateRepoErr(err))
	}
	return nil
}

func (g *DirectContacts) Remove(ctx context.Context, id string) error {
	if err := g.repo.Delete(ctx, id); err != nil {
		return mutationErr(KindContact, "delete", id, translateRepoErr(err))
	}
	return nil
}

// DirectMemberships talks to the membership_requests table through the
// repository layer, whose writes call the status/notes procedures.
type DirectMemberships struct {
	repo repository.MembershipRepository
}

// NewDirectMemberships creates a MembershipGateway backed by the given repository.
func NewDirectMemberships(repo repository.MembershipRepository) *DirectMemberships {
	return &DirectMemberships{repo: repo}
}

var _ MembershipGateway = (*DirectMemberships)(nil)

func (g *DirectMemberships) FetchAll(ctx context.Context) ([]model.MembershipRequest, error) {
	reqs, err := g.repo.List(ctx)
	if err != nil {
		return nil, fetchErr(KindMembership, err)
	}
	out := make([]model.MembershipRequest, 0, len(reqs))
	for _, r := range reqs {
		out = append(out, *r)
	}
	return out, nil
}

// Mutate routes status patches to the status procedure and notes patches
// to the notes procedure.
func (g *DirectMemberships) Mutate(ctx context.Context, id string, patch Patch) error {
	if patch.IsRead != nil || (patch.Status == nil && patch.Notes == nil) {
		return mutationErr(KindMembership, "update", id, fmt.Errorf("membership patch: %w", ErrUnsupported))
	}
	if patch.Status != nil {
		if err := g.repo.UpdateStatus(ctx, id, *patch.Status); err != nil {
			return mutationErr(KindMembership, "update_status", id, translateRepoErr(err))
		}
	}
	if patch.Notes != nil {
		if err := g.repo.UpdateNotes(ctx, id, *patch.Notes); err != nil {
			return mutationErr(KindMembership, "update_notes", id, translateRepoErr(err))
		}
	}
	return nil
}

func (g *DirectMemberships) Remove(ctx context.Context, id string) error {
	return mutationErr(KindMembership, "delete", id, ErrUnsupported)
}

func translateRepoErr(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
