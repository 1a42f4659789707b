package access

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/scienceclub/hallhub/internal/shared"
)

// Identity describes the authenticated actor as stored in the user
// directory.
type Identity struct {
	UserID  int64
	Name    string
	Role    Role
	IsAdmin bool
}

// Directory resolves a user ID to its identity. Implemented by the users
// repository.
type Directory interface {
	LookupIdentity(ctx context.Context, userID int64) (Identity, error)
}

// Middleware loads the session identity and gates routes on capabilities.
type Middleware struct {
	Directory Directory
	Logger    *slog.Logger
}

type viewerContextKey struct{}

// Viewer couples an identity with its resolved capabilities for the
// duration of one request.
type Viewer struct {
	Identity   Identity
	Resolution Resolution
}

// ContextWithViewer stores the viewer in context.
func ContextWithViewer(ctx context.Context, v *Viewer) context.Context {
	return context.WithValue(ctx, viewerContextKey{}, v)
}

// ViewerFromContext extracts the viewer from context, nil when anonymous.
func ViewerFromContext(ctx context.Context) *Viewer {
	v, _ := ctx.Value(viewerContextKey{}).(*Viewer)
	return v
}

// WithViewer resolves the session user against the directory and attaches
// the viewer to the request context. Anonymous requests pass through
// unchanged; pages that need a viewer gate themselves with Require.
func (m Middleware) WithViewer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := m.sessionUserID(r)
		if !ok {
			next.ServeHTTP(w, r)
			return
		}
		identity, err := m.Directory.LookupIdentity(r.Context(), userID)
		if err != nil {
			if m.Logger != nil {
				m.Logger.Warn("lookup identity", slog.Int64("user_id", userID), slog.Any("error", err))
			}
			next.ServeHTTP(w, r)
			return
		}
		viewer := &Viewer{Identity: identity, Resolution: Resolve(identity.Role, identity.IsAdmin)}
		next.ServeHTTP(w, r.WithContext(ContextWithViewer(r.Context(), viewer)))
	})
}

// Require gates a route on a capability predicate. Failing the check
// redirects to the login page without an error message: authorization
// failures are resolved locally and never surfaced to the user.
func (m Middleware) Require(pred func(Capabilities) bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			viewer := ViewerFromContext(r.Context())
			if viewer == nil || (pred != nil && !pred(viewer.Resolution.Capabilities)) {
				http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAuthenticated gates a route on any signed-in user.
func (m Middleware) RequireAuthenticated(next http.Handler) http.Handler {
	return m.Require(nil)(next)
}

func (m Middleware) sessionUserID(r *http.Request) (int64, bool) {
	sess := shared.SessionFromContext(r.Context())
	if sess == nil {
		return 0, false
	}
	raw := strings.TrimSpace(sess.User())
	if raw == "" {
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		if m.Logger != nil {
			m.Logger.Error("parse session user id", slog.String("value", raw))
		}
		return 0, false
	}
	return id, true
}
