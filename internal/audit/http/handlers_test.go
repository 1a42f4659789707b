package audithttp_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/scienceclub/hallhub/internal/access"
	"github.com/scienceclub/hallhub/internal/audit"
	audithttp "github.com/scienceclub/hallhub/internal/audit/http"
	"github.com/scienceclub/hallhub/internal/shared"
	"github.com/scienceclub/hallhub/internal/view"
	_ "github.com/scienceclub/hallhub/testing"
)

type stubService struct {
	entries []audit.Entry
	err     error
}

func (s *stubService) List(ctx context.Context) ([]audit.Entry, error) {
	return s.entries, s.err
}

type stubDirectory struct {
	identity access.Identity
}

func (s *stubDirectory) LookupIdentity(ctx context.Context, userID int64) (access.Identity, error) {
	return s.identity, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newHandler(t *testing.T, service *stubService) *audithttp.Handler {
	t.Helper()
	templates, err := view.NewEngine()
	if err != nil {
		t.Fatalf("templates: %v", err)
	}
	csrf := shared.NewCSRFManager("csrfsecret")
	mw := access.Middleware{Logger: discardLogger()}
	return audithttp.NewHandler(discardLogger(), service, templates, audit.NewExporter(), csrf, mw)
}

func sampleEntries() []audit.Entry {
	return []audit.Entry{
		{
			ID:          2,
			ActorName:   "مدير النادي",
			ActionCode:  "hall_created",
			ActionLabel: "إنشاء قاعة",
			Category:    audit.CategoryCreate,
			DetailLines: []string{"name: قاعة أ"},
			OccurredAt:  time.Date(2026, 8, 30, 18, 0, 0, 0, time.UTC),
		},
		{
			ID:          1,
			ActorName:   "Unknown User",
			ActionCode:  "booking_deleted",
			ActionLabel: "حذف حجز",
			Category:    audit.CategoryDelete,
			DetailLines: []string{"-"},
			OccurredAt:  time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC),
		},
	}
}

func TestAuditLogPageRendersEntries(t *testing.T) {
	handler := newHandler(t, &stubService{entries: sampleEntries()})

	req := httptest.NewRequest(http.MethodGet, "/audit", nil)
	res := httptest.NewRecorder()
	handler.HandleLogForTest(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}
	body := res.Body.String()
	for _, want := range []string{"سجل التدقيق", "إنشاء قاعة", "Unknown User", "badge-create", "badge-delete"} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected body to contain %q", want)
		}
	}
}

func TestAuditLogPageEmptyState(t *testing.T) {
	handler := newHandler(t, &stubService{})

	req := httptest.NewRequest(http.MethodGet, "/audit", nil)
	res := httptest.NewRecorder()
	handler.HandleLogForTest(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}
	if !strings.Contains(res.Body.String(), "لا توجد سجلات") {
		t.Fatalf("expected empty state message")
	}
}

func TestAuditExportCSV(t *testing.T) {
	handler := newHandler(t, &stubService{entries: sampleEntries()})

	req := httptest.NewRequest(http.MethodGet, "/audit/export.csv", nil)
	res := httptest.NewRecorder()
	handler.HandleExportForTest(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}
	if ct := res.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Fatalf("unexpected content type %q", ct)
	}
	body := res.Body.String()
	if !strings.HasPrefix(body, "\xEF\xBB\xBF") {
		t.Fatalf("expected UTF-8 BOM prefix")
	}
	if !strings.Contains(body, "المستخدم") || !strings.Contains(body, "إنشاء قاعة") {
		t.Fatalf("expected Arabic headers and labels in CSV")
	}
}

func TestAuditRoutesRedirectAnonymous(t *testing.T) {
	handler := newHandler(t, &stubService{entries: sampleEntries()})

	router := chi.NewRouter()
	mw := access.Middleware{Directory: &stubDirectory{}, Logger: discardLogger()}
	router.Use(mw.WithViewer)
	handler.MountRoutes(router)

	req := httptest.NewRequest(http.MethodGet, "/audit", nil)
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)

	if res.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", res.Code)
	}
	if loc := res.Header().Get("Location"); loc != "/auth/login" {
		t.Fatalf("expected redirect to /auth/login, got %q", loc)
	}
}
