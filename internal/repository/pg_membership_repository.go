package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/meridianclub/backend/internal/model"
)

// PgMembershipRepository is the PostgreSQL implementation of MembershipRepository.
type PgMembershipRepository struct {
	pool *pgxpool.Pool
}

// NewPgMembershipRepository creates a PgMembershipRepository backed by the given pool.
func NewPgMembershipRepository(pool *pgxpool.Pool) *PgMembershipRepository {
	return &PgMembershipRepository{pool: pool}
}

var _ MembershipRepository = (*PgMembershipRepository)(nil)

// Save inserts a new membership_requests row.
func (r *PgMembershipRepository) Save(ctx context.Context, req *model.MembershipRequest) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO membership_requests (id, name, email, city, country, status)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING created_at`,
		req.ID, req.Name, req.Email, req.City, req.Country, string(req.Status),
	).Scan(&req.CreatedAt)
}

// List returns every membership request, newest first.
func (r *PgMembershipRepository) List(ctx context.Context) ([]*model.MembershipRequest, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, email, city, country, status, COALESCE(notes, ''), created_at
		 FROM membership_requests
		 ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reqs []*model.MembershipRequest
	for rows.Next() {
		var m model.MembershipRequest
		var status string
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.City, &m.Country, &status, &m.Notes, &m.CreatedAt); err != nil {
			return nil, err
		}
		m.Status = model.MembershipStatus(status)
		reqs = append(reqs, &m)
	}
	return reqs, rows.Err()
}

// UpdateStatus calls the update_membership_status procedure, which reports
// whether a row matched.
func (r *PgMembershipRepository) UpdateStatus(ctx context.Context, id string, status model.MembershipStatus) error {
	var found bool
	if err := r.pool.QueryRow(ctx,
		`SELECT update_membership_status($1, $2)`, id, string(status),
	).Scan(&found); err != nil {
		return err
	}
	if !found {
		return ErrNotFound
	}
	return nil
}

// UpdateNotes calls the update_membership_notes procedure. Notes replace
// the previous value.
func (r *PgMembershipRepository) UpdateNotes(ctx context.Context, id, notes string) error {
	var found bool
	if err := r.pool.QueryRow(ctx,
		`SELECT update_membership_notes($1, $2)`, id, notes,
	).Scan(&found); err != nil {
		return err
	}
	if !found {
		return ErrNotFound
	}
	return nil
}
