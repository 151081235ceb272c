package repository

import "context"

// TokenRepository resolves bearer tokens to user identities. It backs the
// authentication middleware; the rest of the system only ever sees the
// resolved user ID.
type TokenRepository interface {
	// UserIDByToken returns the owning user ID for a plaintext token, or
	// sql.ErrNoRows if the token is unknown.
	UserIDByToken(ctx context.Context, token string) (string, error)
}
