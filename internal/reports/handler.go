package reports

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/scienceclub/hallhub/internal/access"
	"github.com/scienceclub/hallhub/internal/shared"
	"github.com/scienceclub/hallhub/internal/view"
)

// Handler serves the financial report pages, restricted to owner and
// manager accounts.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	templates *view.Engine
	csrf      *shared.CSRFManager
	access    access.Middleware
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, templates *view.Engine, csrf *shared.CSRFManager, accessMW access.Middleware) *Handler {
	return &Handler{logger: logger, service: service, templates: templates, csrf: csrf, access: accessMW}
}

// MountRoutes registers report routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.access.Require(func(c access.Capabilities) bool { return c.IsOwnerOrAdmin }))
		r.Get("/", h.showSummary)
		r.Get("/classes", h.showGroups)
	})
}

func (h *Handler) showSummary(w http.ResponseWriter, r *http.Request) {
	rng := parseRange(r)
	summary, err := h.service.Summary(r.Context(), rng)
	if err != nil {
		h.logger.Error("load report summary", slog.Any("error", err))
		h.render(w, r, "pages/reports/summary.html", "التقارير المالية", map[string]any{
			"From":    rng.From.Format(dayLayout),
			"To":      rng.To.AddDate(0, 0, -1).Format(dayLayout),
			"Summary": Summary{},
			"Errors":  map[string]string{"general": shared.UserSafeMessage(err)},
		}, http.StatusInternalServerError)
		return
	}
	h.render(w, r, "pages/reports/summary.html", "التقارير المالية", map[string]any{
		"From":    rng.From.Format(dayLayout),
		"To":      rng.To.AddDate(0, 0, -1).Format(dayLayout),
		"Summary": summary,
	}, http.StatusOK)
}

func (h *Handler) showGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := h.service.Groups(r.Context())
	if err != nil {
		h.logger.Error("load group reports", slog.Any("error", err))
		h.render(w, r, "pages/reports/classes.html", "تقارير المجموعات", map[string]any{
			"Errors": map[string]string{"general": shared.UserSafeMessage(err)},
		}, http.StatusInternalServerError)
		return
	}
	h.render(w, r, "pages/reports/classes.html", "تقارير المجموعات", map[string]any{"Groups": groups}, http.StatusOK)
}

// parseRange reads from/to query params. The default window is the current
// month. The To bound is exclusive, so one day is added to the submitted
// end date.
func parseRange(r *http.Request) Range {
	now := time.Now()
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.Local)
	to := from.AddDate(0, 1, 0)

	if raw := r.URL.Query().Get("from"); raw != "" {
		if parsed, err := time.ParseInLocation(dayLayout, raw, time.Local); err == nil {
			from = parsed
		}
	}
	if raw := r.URL.Query().Get("to"); raw != "" {
		if parsed, err := time.ParseInLocation(dayLayout, raw, time.Local); err == nil {
			to = parsed.AddDate(0, 0, 1)
		}
	}
	if !to.After(from) {
		to = from.AddDate(0, 0, 1)
	}
	return Range{From: from, To: to}
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, template, title string, data map[string]any, status int) {
	sess := shared.SessionFromContext(r.Context())
	csrfToken, _ := h.csrf.EnsureToken(r.Context(), sess)
	var flash *shared.FlashMessage
	if sess != nil {
		flash = sess.PopFlash()
	}
	viewData := view.TemplateData{
		Title:       title,
		CSRFToken:   csrfToken,
		Flash:       flash,
		CurrentPath: r.URL.Path,
		Data:        data,
	}
	if viewer := access.ViewerFromContext(r.Context()); viewer != nil {
		viewData.UserName = viewer.Identity.Name
		viewData.RoleLabel = viewer.Resolution.RoleLabel
		viewData.Nav = viewer.Resolution.Navigation
	}
	w.WriteHeader(status)
	if err := h.templates.Render(w, template, viewData); err != nil {
		h.logger.Error("render template", slog.Any("error", err))
	}
}
