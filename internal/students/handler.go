package students

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/scienceclub/hallhub/internal/access"
	"github.com/scienceclub/hallhub/internal/shared"
	"github.com/scienceclub/hallhub/internal/view"
)

// Handler serves the student registry pages.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	templates *view.Engine
	csrf      *shared.CSRFManager
	access    access.Middleware
	validator *validator.Validate
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, templates *view.Engine, csrf *shared.CSRFManager, accessMW access.Middleware) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		templates: templates,
		csrf:      csrf,
		access:    accessMW,
		validator: validator.New(),
	}
}

// MountRoutes registers student routes. Any authenticated user can browse
// and register students.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.access.RequireAuthenticated)
		r.Get("/", h.listStudents)
		r.Get("/new", h.showRegisterForm)
		r.Post("/", h.registerStudent)
		r.Get("/{id}", h.showStudent)
	})
}

const studentsPerPage = 20

type studentForm struct {
	Name        string `validate:"required"`
	MobilePhone string `validate:"required"`
	ParentPhone string
	City        string
}

func (h *Handler) listStudents(w http.ResponseWriter, r *http.Request) {
	students, err := h.service.ListStudents(r.Context())
	if err != nil {
		h.logger.Error("list students failed", slog.Any("error", err))
		h.render(w, r, "pages/students/list.html", "الطلاب", map[string]any{"Errors": map[string]string{"general": shared.UserSafeMessage(err)}}, http.StatusInternalServerError)
		return
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	pagination := shared.NewPagination(page, studentsPerPage, len(students))
	start := (pagination.Page - 1) * pagination.PerPage
	if start > len(students) {
		start = len(students)
	}
	end := start + pagination.PerPage
	if end > len(students) {
		end = len(students)
	}

	h.render(w, r, "pages/students/list.html", "الطلاب", map[string]any{
		"Students":   students[start:end],
		"Pagination": pagination,
	}, http.StatusOK)
}

func (h *Handler) showRegisterForm(w http.ResponseWriter, r *http.Request) {
	data := map[string]any{"Form": studentForm{}, "Errors": map[string]string{}}
	h.render(w, r, "pages/students/form.html", "تسجيل طالب", data, http.StatusOK)
}

func (h *Handler) registerStudent(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	form := studentForm{
		Name:        r.PostFormValue("name"),
		MobilePhone: r.PostFormValue("mobile_phone"),
		ParentPhone: r.PostFormValue("parent_phone"),
		City:        r.PostFormValue("city"),
	}
	errors := make(map[string]string)
	if err := h.validator.Struct(form); err != nil {
		for _, fieldErr := range err.(validator.ValidationErrors) {
			errors[fieldErr.Field()] = fieldErr.Error()
		}
	}

	if len(errors) == 0 {
		input := NewStudentInput{
			Name:        form.Name,
			MobilePhone: form.MobilePhone,
			ParentPhone: form.ParentPhone,
			City:        form.City,
		}
		student, err := h.service.RegisterStudent(r.Context(), input)
		if err != nil {
			h.logger.Error("register student failed", slog.Any("error", err))
			errors["general"] = shared.UserSafeMessage(err)
		} else {
			if sess := shared.SessionFromContext(r.Context()); sess != nil {
				sess.AddFlash(shared.FlashMessage{Kind: "success", Message: "تم تسجيل الطالب"})
			}
			http.Redirect(w, r, "/students/"+strconv.FormatInt(student.ID, 10), http.StatusSeeOther)
			return
		}
	}

	data := map[string]any{"Form": form, "Errors": errors}
	h.render(w, r, "pages/students/form.html", "تسجيل طالب", data, http.StatusBadRequest)
}

func (h *Handler) showStudent(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	student, err := h.service.GetStudent(r.Context(), id)
	if err != nil {
		if sess := shared.SessionFromContext(r.Context()); sess != nil {
			sess.AddFlash(shared.FlashMessage{Kind: "error", Message: shared.UserSafeMessage(err)})
		}
		http.Redirect(w, r, "/students", http.StatusSeeOther)
		return
	}
	h.render(w, r, "pages/students/show.html", "ملف الطالب", map[string]any{"Student": *student}, http.StatusOK)
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
