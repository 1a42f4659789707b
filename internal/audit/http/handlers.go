package audithttp

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/scienceclub/hallhub/internal/access"
	"github.com/scienceclub/hallhub/internal/audit"
	"github.com/scienceclub/hallhub/internal/shared"
	"github.com/scienceclub/hallhub/internal/view"
)

// LogService defines the business contract for the audit log page.
type LogService interface {
	List(ctx context.Context) ([]audit.Entry, error)
}

// Exporter writes audit log exports.
type Exporter interface {
	WriteCSV(entries []audit.Entry) ([]byte, error)
}

// Handler serves the audit log page and the CSV export.
type Handler struct {
	logger    *slog.Logger
	service   LogService
	exporter  Exporter
	templates *view.Engine
	csrf      *shared.CSRFManager
	access    access.Middleware
	now       func() time.Time
}

// NewHandler builds a new audit handler.
func NewHandler(logger *slog.Logger, service LogService, templates *view.Engine, exporter Exporter, csrf *shared.CSRFManager, accessMW access.Middleware) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		logger:    logger,
		service:   service,
		exporter:  exporter,
		templates: templates,
		csrf:      csrf,
		access:    accessMW,
		now:       time.Now,
	}
}

func (h *Handler) handleLog(w http.ResponseWriter, r *http.Request) {
	if h.templates == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusNotImplemented), http.StatusNotImplemented)
		return
	}

	entries, err := h.service.List(r.Context())
	if err != nil {
		h.handleServerError(w, "load audit log", err)
		return
	}
	vm := audit.ViewModel{Entries: entries, Empty: len(entries) == 0}

	sess := shared.SessionFromContext(r.Context())
	csrfToken, _ := h.csrf.EnsureToken(r.Context(), sess)
	var flash *shared.FlashMessage
	if sess != nil {
		flash = sess.PopFlash()
	}
	data := view.TemplateData{
		Title:       "سجل التدقيق",
		CSRFToken:   csrfToken,
		Flash:       flash,
		CurrentPath: r.URL.Path,
		Data:        vm,
	}
	if viewer := access.ViewerFromContext(r.Context()); viewer != nil {
		data.UserName = viewer.Identity.Name
		data.RoleLabel = viewer.Resolution.RoleLabel
		data.Nav = viewer.Resolution.Navigation
	}
	if err := h.templates.Render(w, "pages/audit/log.html", data); err != nil {
		h.handleServerError(w, "render audit log", err)
	}
}

func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	if h.exporter == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusNotImplemented), http.StatusNotImplemented)
		return
	}
	entries, err := h.service.List(r.Context())
	if err != nil {
		h.handleServerError(w, "export audit log", err)
		return
	}
	payload, err := h.exporter.WriteCSV(entries)
	if err != nil {
		h.handleServerError(w, "write audit csv", err)
		return
	}
	filename := fmt.Sprintf("audit-log-%s.csv", h.now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	if _, err := w.Write(payload); err != nil {
		h.logger.Warn("write audit csv response", slog.Any("error", err))
	}
}

func (h *Handler) handleServerError(w http.ResponseWriter, action string, err error) {
	h.logger.Error(action, slog.Any("error", err))
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

// HandleLogForTest exposes the page handler for tests.
func (h *Handler) HandleLogForTest(w http.ResponseWriter, r *http.Request) {
	h.handleLog(w, r)
}

// HandleExportForTest exposes the export handler for tests.
func (h *Handler) HandleExportForTest(w http.ResponseWriter, r *http.Request) {
	h.handleExport(w, r)
}
