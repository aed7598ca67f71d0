package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/meridianclub/backend/internal/coordinator"
	"github.com/meridianclub/backend/internal/gateway"
	"github.com/meridianclub/backend/internal/listview"
	"github.com/meridianclub/backend/internal/model"
	"github.com/meridianclub/backend/internal/repository"
)

// backend is the pair of gateways a command works against.
type backend struct {
	contacts    gateway.ContactGateway
	memberships gateway.MembershipGateway
	source      string
	close       func()
}

// IsDirectMode reports whether commands talk to Postgres instead of the API.
// Resolution order:
//  1. [remote].url set in config → remote
//  2. [database].url set in config → direct
//  3. otherwise → error
func IsDirectMode() bool {
	return cfg != nil && cfg.Direct()
}

// openBackend returns the configured gateways.
func openBackend(ctx context.Context) (*backend, error) {
	if IsDirectMode() {
		pool, err := repository.NewPool(ctx, cfg.Database.URL)
		if err != nil {
			return nil, fmt.Errorf("connect to database: %w", err)
		}
		return &backend{
			contacts:    gateway.NewDirectContacts(repository.NewPgContactRepository(pool)),
			memberships: gateway.NewDirectMemberships(repository.NewPgMembershipRepository(pool)),
			source:      "database",
			close:       pool.Close,
		}, nil
	}

	token, err := cfg.LoadToken()
	if err != nil {
		return nil, err
	}
	r, err := openRemote(token)
	if err != nil {
		return nil, err
	}
	return &backend{
		contacts:    r.Contacts(),
		memberships: r.Memberships(),
		source:      cfg.Remote.URL,
		close:       func() {},
	}, nil
}

func openRemote(token string) (*gateway.Remote, error) {
	if cfg.Remote.URL == "" {
		return nil, fmt.Errorf("admin API not configured\n\n" +
			"Configure in ~/.clubadmin/config.toml:\n" +
			"  [remote]\n" +
			"  url = \"https://club.example.com\"\n\n" +
			"or, for direct database access:\n" +
			"  [database]\n" +
			"  url = \"postgres://...\"")
	}
	return gateway.NewRemote(gateway.RemoteConfig{
		URL:           cfg.Remote.URL,
		Token:         token,
		AllowInsecure: cfg.Remote.AllowInsecure,
		Timeout:       cfg.Remote.Timeout.Duration,
		Logger:        logger,
	})
}

// session holds loaded coordinators for one command invocation.
type session struct {
	backend     *backend
	notices     *coordinator.Notices
	contacts    *coordinator.ContactCoordinator
	memberships *coordinator.MembershipCoordinator
}

func newSession(b *backend) *session {
	notices := coordinator.NewNotices(nil)
	opts := coordinator.Options{Notices: notices, Logger: logger}

	contactList := listview.NewController(listview.ContactConfig())
	memberList := listview.NewController(listview.MembershipConfig())
	if size := cfg.UI.PageSize; size > 0 {
		_ = contactList.SetPageSize(size)
		_ = memberList.SetPageSize(size)
	}

	return &session{
		backend:     b,
		notices:     notices,
		contacts:    coordinator.NewContactCoordinator(b.contacts, contactList, opts),
		memberships: coordinator.NewMembershipCoordinator(b.memberships, memberList, opts),
	}
}

// openSession opens the backend and wraps it in coordinators.
func openSession(ctx context.Context) (*session, error) {
	b, err := openBackend(ctx)
	if err != nil {
		return nil, err
	}
	return newSession(b), nil
}

func (s *session) Close() {
	s.contacts.Detach()
	s.memberships.Detach()
	s.backend.close()
}

// explain adds a hint for errors the user can act on.
func explain(err error) error {
	var se *gateway.StatusError
	if errors.As(err, &se) && se.StatusCode == http.StatusUnauthorized {
		return fmt.Errorf("%w\n\nYour session has expired or is invalid; run `clubadmin login`", err)
	}
	if errors.Is(err, coordinator.ErrNotFound) {
		return fmt.Errorf("%w (run the list command to see current ids)", err)
	}
	return err
}

// findContact looks up a cached submission by id.
func (s *session) findContact(id string) (model.ContactSubmission, error) {
	rec, ok := s.contacts.List().Find(id)
	if !ok {
		return rec, explain(fmt.Errorf("contact submission %s: %w", id, coordinator.ErrNotFound))
	}
	return rec, nil
}
