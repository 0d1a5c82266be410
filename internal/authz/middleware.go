package authz

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"critica/internal/domain"
	"critica/internal/service"
	"critica/internal/store"
)

type userKey struct{}

func UserFrom(ctx context.Context) (*domain.User, bool) {
	u, ok := ctx.Value(userKey{}).(*domain.User)
	return u, ok && u != nil
}

func contextWithUser(ctx context.Context, u *domain.User) context.Context {
	return context.WithValue(ctx, userKey{}, u)
}

// Authenticator resolves bearer tokens to users. The user row is
// re-read on every request so a role change takes effect immediately,
// whatever the token claims still say.
type Authenticator struct {
	tokens service.TokenService
	store  *store.Store
}

func NewAuthenticator(tokens service.TokenService, st *store.Store) *Authenticator {
	return &Authenticator{tokens: tokens, store: st}
}

// Middleware attaches the authenticated user when a bearer token is
// present. Requests without a token pass through anonymously; requests
// with a bad token are rejected outright.
func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := r.Header.Get("Authorization")
		if raw == "" {
			next.ServeHTTP(w, r)
			return
		}
		if !strings.HasPrefix(strings.ToLower(raw), "bearer ") {
			writeDetail(w, http.StatusUnauthorized, "invalid authorization header")
			return
		}
		tokStr := strings.TrimSpace(raw[len("Bearer "):])

		userID, err := a.tokens.Verify(r.Context(), tokStr)
		if err != nil {
			writeDetail(w, http.StatusUnauthorized, "invalid token")
			return
		}

		user, err := a.store.Users().GetByID(r.Context(), userID)
		if err != nil {
			if errors.Is(err, store.ErrRecordNotFound) {
				writeDetail(w, http.StatusUnauthorized, "user no longer exists")
				return
			}
			slog.Error("load user for token", "error", err)
			writeDetail(w, http.StatusInternalServerError, "internal server error")
			return
		}

		next.ServeHTTP(w, r.WithContext(contextWithUser(r.Context(), user)))
	})
}

// RequireUser gates a subtree to authenticated callers.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := UserFrom(r.Context()); !ok {
			writeDetail(w, http.StatusUnauthorized, "authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin gates a subtree to admins.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFrom(r.Context())
		if !ok {
			writeDetail(w, http.StatusUnauthorized, "authentication required")
			return
		}
		if !user.Role.IsAdmin() {
			writeDetail(w, http.StatusForbidden, "admin role required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdminForWrites lets safe methods through and gates the rest to
// admins.
func RequireAdminForWrites(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if IsSafeMethod(r.Method) {
			next.ServeHTTP(w, r)
			return
		}
		RequireAdmin(next).ServeHTTP(w, r)
	})
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"detail": detail})
}
