package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/socialchessevents/events-api/internal/model"
)

// UserRepo persists user identities. Users are created lazily: the first
// successful identity exchange for an unknown external id provisions a row,
// and the identity fields stay immutable afterwards.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// UpsertByExternalID returns the user owning externalID, provisioning one
// on first sight. A concurrent first exchange for the same identity can
// race on the insert; the unique key on external_id makes the loser fall
// back to the select.
func (r *UserRepo) UpsertByExternalID(ctx context.Context, externalID, email, name, picture string) (model.User, error) {
	u, err := r.GetByExternalID(ctx, externalID)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, ErrUserNotFound) {
		return model.User{}, err
	}

	id := uuid.New().String()
	_, err = r.DB.ExecContext(ctx,
		"INSERT INTO users (id, external_id, email, name, picture) VALUES (?,?,?,?,?)",
		id, externalID, strings.ToLower(strings.TrimSpace(email)), name, picture)
	if err != nil {
		if isDuplicateKey(err) {
			return r.GetByExternalID(ctx, externalID)
		}
		return model.User{}, err
	}
	return r.GetByID(ctx, id)
}

// GetByExternalID fetches a user by the identity provider's identifier.
func (r *UserRepo) GetByExternalID(ctx context.Context, externalID string) (model.User, error) {
	return r.get(ctx,
		"SELECT id, external_id, email, name, picture, created_at FROM users WHERE external_id=? LIMIT 1",
		externalID)
}

// GetByID fetches a user by primary key.
func (r *UserRepo) GetByID(ctx context.Context, id string) (model.User, error) {
	return r.get(ctx,
		"SELECT id, external_id, email, name, picture, created_at FROM users WHERE id=? LIMIT 1",
		id)
}

func (r *UserRepo) get(ctx context.Context, query string, arg any) (model.User, error) {
	var u model.User
	err := r.DB.QueryRowContext(ctx, query, arg).
		Scan(&u.ID, &u.ExternalID, &u.Email, &u.Name, &u.Picture, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, ErrUserNotFound
	}
	return u, err
}

// isDuplicateKey reports whether err is a MySQL duplicate-entry violation
// (error 1062).
func isDuplicateKey(err error) bool {
	return err != nil && strings.Contains(err.Error(), "1062")
}
