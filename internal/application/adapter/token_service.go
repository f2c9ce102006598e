package adapter

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// TokenClaims represents the claims contained in a JWT token.
type TokenClaims struct {
	UserID    uuid.UUID
	Email     string
	ExpiresAt time.Time
}

// TokenService validates bearer tokens issued by the identity service.
type TokenService interface {
	// ValidateAccessToken validates an access token and returns its claims.
	ValidateAccessToken(ctx context.Context, token string) (*TokenClaims, error)

	// GenerateAccessToken signs an access token. Used by tooling and tests.
	GenerateAccessToken(userID uuid.UUID, email string, ttl time.Duration) (string, error)
}
