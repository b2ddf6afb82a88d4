package domain

import (
	"context"
	"time"
)

// Editor is the single account allowed to preview draft content.
type Editor struct {
	Email        string
	PasswordHash string
}

// PasswordHasher hashes and verifies editor passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

// TokenIssuer issues tokens (e.g. JWT) for an authenticated editor.
type TokenIssuer interface {
	Issue(subject string, expiry time.Duration) (string, error)
}

// TokenVerifier verifies a token and returns its subject.
type TokenVerifier interface {
	Verify(token string) (subject string, err error)
}

// AuthService exchanges editor credentials for a preview token.
type AuthService interface {
	Login(ctx context.Context, email, password string) (token string, err error)
}
