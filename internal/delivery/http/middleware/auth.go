package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	h "workshopsite/internal/delivery/http/helpers"
	"workshopsite/internal/domain"
)

type contextKey string

const editorKey contextKey = "editor"

// SetEditor returns a context carrying the authenticated editor's subject.
func SetEditor(ctx context.Context, subject string) context.Context {
	return context.WithValue(ctx, editorKey, subject)
}

// EditorFromContext returns the authenticated editor from the context, if present.
func EditorFromContext(ctx context.Context) (string, bool) {
	s, ok := ctx.Value(editorKey).(string)
	return s, ok
}

// RequireAuth validates the Bearer token and stores the editor in the request
// context. If the token is missing or invalid it responds with 401 and does
// not call next.
func RequireAuth(verifier domain.TokenVerifier, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			if auth == "" {
				h.WriteJSONError(w, r, http.StatusUnauthorized, h.ErrCodeUnauthorized, "missing authorization header")
				return
			}
			const prefix = "Bearer "
			if !strings.HasPrefix(auth, prefix) {
				h.WriteJSONError(w, r, http.StatusUnauthorized, h.ErrCodeUnauthorized, "invalid authorization format")
				return
			}
			token := strings.TrimSpace(auth[len(prefix):])
			if token == "" {
				h.WriteJSONError(w, r, http.StatusUnauthorized, h.ErrCodeUnauthorized, "missing token")
				return
			}
			subject, err := verifier.Verify(token)
			if err != nil {
				logger.DebugContext(r.Context(), "token rejected", "path", r.URL.Path, "err", err)
				h.WriteJSONError(w, r, http.StatusUnauthorized, h.ErrCodeUnauthorized, "invalid or expired token")
				return
			}
			next.ServeHTTP(w, r.WithContext(SetEditor(r.Context(), subject)))
		})
	}
}
