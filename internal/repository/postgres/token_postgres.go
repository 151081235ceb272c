package postgres

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"

	"visadocs/internal/repository"
)

// TokenPostgres resolves bearer tokens against the api_tokens table.
// Only the SHA-256 digest of a token is ever stored or queried.
type TokenPostgres struct {
	db *sql.DB
}

// NewTokenPostgres creates a new TokenPostgres repository.
func NewTokenPostgres(db *sql.DB) *TokenPostgres {
	return &TokenPostgres{db: db}
}

var _ repository.TokenRepository = (*TokenPostgres)(nil)

// HashToken returns the hex SHA-256 digest used as the storage form of a token.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// UserIDByToken returns the user ID owning the given plaintext token.
// Unknown tokens surface as sql.ErrNoRows.
func (r *TokenPostgres) UserIDByToken(ctx context.Context, token string) (string, error) {
	const q = `SELECT user_id FROM api_tokens WHERE token_hash = $1`
	var userID string
	if err := r.db.QueryRowContext(ctx, q, HashToken(token)).Scan(&userID); err != nil {
		return "", err
	}
	return userID, nil
}
