package app

import (
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/scienceclub/hallhub/internal/access"
	audithttp "github.com/scienceclub/hallhub/internal/audit/http"
	"github.com/scienceclub/hallhub/internal/auth"
	"github.com/scienceclub/hallhub/internal/bookings"
	"github.com/scienceclub/hallhub/internal/observability"
	"github.com/scienceclub/hallhub/internal/reports"
	"github.com/scienceclub/hallhub/internal/resources"
	"github.com/scienceclub/hallhub/internal/shared"
	"github.com/scienceclub/hallhub/internal/students"
	"github.com/scienceclub/hallhub/internal/users"
	"github.com/scienceclub/hallhub/internal/view"
	"github.com/scienceclub/hallhub/jobs"
	"github.com/scienceclub/hallhub/web"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger           *slog.Logger
	Config           *Config
	Templates        *view.Engine
	SessionManager   *shared.SessionManager
	CSRFManager      *shared.CSRFManager
	AuthHandler      *auth.Handler
	UsersHandler     *users.Handler
	ResourcesHandler *resources.Handler
	StudentsHandler  *students.Handler
	BookingsHandler  *bookings.Handler
	ReportsHandler   *reports.Handler
	AuditHandler     *audithttp.Handler
	JobsHandler      *jobs.Handler
	AccessMiddleware access.Middleware
	Dashboard        *DashboardRepository
	Metrics          *observability.Metrics
}

// NewRouter constructs the chi.Router with HallHub defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:         params.Logger,
		Config:         params.Config,
		SessionManager: params.SessionManager,
		CSRFManager:    params.CSRFManager,
		Metrics:        params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)
	r.Use(params.AccessMiddleware.WithViewer)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		renderPage(w, r, params, "pages/error.html", "الصفحة غير موجودة", map[string]any{
			"Heading": "الصفحة غير موجودة",
			"Message": "الرابط الذي طلبته غير موجود أو تم نقله.",
		})
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Landing page for unauthenticated users.
	r.Get("/welcome", func(w http.ResponseWriter, r *http.Request) {
		sess := shared.SessionFromContext(r.Context())
		csrfToken, _ := params.CSRFManager.EnsureToken(r.Context(), sess)
		var flash *shared.FlashMessage
		if sess != nil {
			flash = sess.PopFlash()
		}
		data := view.TemplateData{
			Title:     "نادي العلوم",
			CSRFToken: csrfToken,
			Flash:     flash,
		}
		if err := params.Templates.Render(w, "pages/landing.html", data); err != nil {
			params.Logger.Error("render landing", slog.Any("error", err))
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		}
	})

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		sess := shared.SessionFromContext(r.Context())
		if sess == nil || sess.User() == "" {
			http.Redirect(w, r, "/welcome", http.StatusSeeOther)
			return
		}

		var stats DashboardStats
		if params.Dashboard != nil {
			loaded, err := params.Dashboard.Counts(r.Context())
			if err != nil {
				params.Logger.Error("load dashboard counts", slog.Any("error", err))
			} else {
				stats = loaded
			}
		}

		renderPage(w, r, params, "pages/home.html", "لوحة التحكم", map[string]any{
			"BookingCount": stats.BookingCount,
			"StudentCount": stats.StudentCount,
			"HallCount":    stats.HallCount,
		})
	})

	r.Group(func(r chi.Router) {
		r.Use(params.AccessMiddleware.Require(func(caps access.Capabilities) bool {
			return caps.IsOwnerOrAdmin
		}))
		r.Get("/settings", func(w http.ResponseWriter, r *http.Request) {
			renderPage(w, r, params, "pages/settings.html", "الإعدادات", nil)
		})
	})

	r.Route("/auth", params.AuthHandler.MountRoutes)
	if params.UsersHandler != nil {
		r.Route("/users", params.UsersHandler.MountRoutes)
	}
	if params.ResourcesHandler != nil {
		params.ResourcesHandler.MountRoutes(r)
	}
	if params.StudentsHandler != nil {
		r.Route("/students", params.StudentsHandler.MountRoutes)
	}
	if params.BookingsHandler != nil {
		r.Route("/bookings", params.BookingsHandler.MountRoutes)
	}
	if params.ReportsHandler != nil {
		r.Route("/reports", params.ReportsHandler.MountRoutes)
	}
	if params.AuditHandler != nil {
		params.AuditHandler.MountRoutes(r)
	}
	if params.JobsHandler != nil {
		r.Route("/jobs", params.JobsHandler.MountRoutes)
	}
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	staticFS, err := fs.Sub(web.Static, "static")
	if err != nil {
		params.Logger.Error("create static sub filesystem", slog.Any("error", err))
	} else {
		fileServer := http.StripPrefix("/static/", http.FileServer(http.FS(staticFS)))
		r.Handle("/static/*", staticCacheHandler(fileServer))
	}

	return r
}

// renderPage renders a viewer-aware page using the shared layout data.
func renderPage(w http.ResponseWriter, r *http.Request, params RouterParams, template, title string, payload any) {
	sess := shared.SessionFromContext(r.Context())
	csrfToken, _ := params.CSRFManager.EnsureToken(r.Context(), sess)
	var flash *shared.FlashMessage
	if sess != nil {
		flash = sess.PopFlash()
	}
	data := view.TemplateData{
		Title:       title,
		CSRFToken:   csrfToken,
		Flash:       flash,
		CurrentPath: r.URL.Path,
		Data:        payload,
	}
	if viewer := access.ViewerFromContext(r.Context()); viewer != nil {
		data.UserName = viewer.Identity.Name
		data.RoleLabel = viewer.Resolution.RoleLabel
		data.Nav = viewer.Resolution.Navigation
	}
	if err := params.Templates.Render(w, template, data); err != nil {
		params.Logger.Error("render page", slog.String("template", template), slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

// staticCacheHandler wraps a file server with Cache-Control headers so
// browsers keep assets for an hour.
func staticCacheHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=3600")
		next.ServeHTTP(w, r)
	})
}
