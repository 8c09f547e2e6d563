package repository

import (
	"context"
	"database/sql"
)

// ExchangeRepo records one-time consumption claims for external session
// identifiers. The claim row is inserted before the upstream identity
// provider is called, so two concurrent exchanges of the same identifier
// collide on the primary key and only one proceeds. Client-side guards
// cannot enforce this; the consumed state has to live server side.
type ExchangeRepo struct{ DB *sql.DB }

func NewExchangeRepo(db *sql.DB) *ExchangeRepo { return &ExchangeRepo{DB: db} }

// Claim inserts a consumption claim for the hash of an external session
// id. It returns ErrExchangeReplayed when the id was already claimed.
func (r *ExchangeRepo) Claim(ctx context.Context, externalIDHash string) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO identity_exchanges (external_id_hash) VALUES (?)",
		externalIDHash)
	if isDuplicateKey(err) {
		return ErrExchangeReplayed
	}
	return err
}

// Bind attaches the resolved user to a successful claim, for diagnostics.
func (r *ExchangeRepo) Bind(ctx context.Context, externalIDHash, userID string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE identity_exchanges SET user_id=? WHERE external_id_hash=?",
		userID, externalIDHash)
	return err
}

// Release drops a claim after the upstream exchange failed. Only a
// successful exchange burns the identifier; a transient upstream error
// must not lock the user out of retrying the same redirect.
func (r *ExchangeRepo) Release(ctx context.Context, externalIDHash string) error {
	_, err := r.DB.ExecContext(ctx,
		"DELETE FROM identity_exchanges WHERE external_id_hash=? AND user_id IS NULL",
		externalIDHash)
	return err
}
