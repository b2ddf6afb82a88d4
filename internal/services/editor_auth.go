package services

import (
	"context"
	"strings"
	"time"

	"workshopsite/internal/domain"
)

type editorAuthService struct {
	editor      domain.Editor
	hasher      domain.PasswordHasher
	issuer      domain.TokenIssuer
	tokenExpiry time.Duration
}

// NewEditorAuthService returns an AuthService for the single configured editor.
// With an empty password hash every login is refused.
func NewEditorAuthService(editor domain.Editor, hasher domain.PasswordHasher, issuer domain.TokenIssuer, tokenExpiry time.Duration) domain.AuthService {
	return &editorAuthService{editor: editor, hasher: hasher, issuer: issuer, tokenExpiry: tokenExpiry}
}

func (s *editorAuthService) Login(ctx context.Context, email, password string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if s.editor.PasswordHash == "" || s.editor.Email == "" {
		return "", domain.ErrUnauthorized
	}
	if !strings.EqualFold(strings.TrimSpace(email), s.editor.Email) {
		return "", domain.ErrUnauthorized
	}
	if err := s.hasher.Compare(s.editor.PasswordHash, password); err != nil {
		return "", domain.ErrUnauthorized
	}
	return s.issuer.Issue(s.editor.Email, s.tokenExpiry)
}
