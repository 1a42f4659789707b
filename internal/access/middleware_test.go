package access

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/scienceclub/hallhub/internal/shared"
)

type stubDirectory struct {
	identity Identity
	err      error
}

func (s stubDirectory) LookupIdentity(ctx context.Context, userID int64) (Identity, error) {
	if s.err != nil {
		return Identity{}, s.err
	}
	return s.identity, nil
}

func requestWithSessionUser(userID string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/audit", nil)
	sess := &shared.Session{}
	sess.SetUser(userID)
	return req.WithContext(shared.ContextWithSession(req.Context(), sess))
}

func TestRequireRedirectsAnonymous(t *testing.T) {
	m := Middleware{Directory: stubDirectory{}}
	handler := m.Require(func(c Capabilities) bool { return c.IsOwnerOrAdmin })(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler must not run for anonymous request")
		}),
	)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/audit", nil))
	if rr.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rr.Code)
	}
	if loc := rr.Header().Get("Location"); loc != "/auth/login" {
		t.Fatalf("expected redirect to login, got %q", loc)
	}
}

func TestRequireRedirectsInsufficientCapability(t *testing.T) {
	m := Middleware{Directory: stubDirectory{identity: Identity{UserID: 3, Role: RoleTeacher}}}
	chain := m.WithViewer(m.Require(func(c Capabilities) bool { return c.IsOwnerOrAdmin })(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler must not run without capability")
		}),
	))
	rr := httptest.NewRecorder()
	chain.ServeHTTP(rr, requestWithSessionUser("3"))
	if rr.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rr.Code)
	}
}

func TestRequirePassesAuthorizedViewer(t *testing.T) {
	m := Middleware{Directory: stubDirectory{identity: Identity{UserID: 7, Name: "أحمد", Role: RoleManager}}}
	var seen *Viewer
	chain := m.WithViewer(m.Require(func(c Capabilities) bool { return c.IsOwnerOrAdmin })(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = ViewerFromContext(r.Context())
			w.WriteHeader(http.StatusOK)
		}),
	))
	rr := httptest.NewRecorder()
	chain.ServeHTTP(rr, requestWithSessionUser("7"))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if seen == nil || seen.Identity.UserID != 7 {
		t.Fatalf("viewer missing from context: %+v", seen)
	}
	if !seen.Resolution.Capabilities.CanCreateBooking {
		t.Fatalf("manager viewer should carry booking capability")
	}
}

func TestWithViewerToleratesDirectoryFailure(t *testing.T) {
	m := Middleware{Directory: stubDirectory{err: errors.New("boom")}}
	chain := m.WithViewer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ViewerFromContext(r.Context()) != nil {
			t.Fatal("viewer should be absent when directory lookup fails")
		}
		w.WriteHeader(http.StatusOK)
	}))
	rr := httptest.NewRecorder()
	chain.ServeHTTP(rr, requestWithSessionUser("9"))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
}
