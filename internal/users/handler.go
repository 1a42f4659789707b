package users

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

// Handler manages user administration endpoints.
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

// MountRoutes registers user administration routes. The whole group is
// restricted to owner or manager accounts.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.access.Require(func(c access.Capabilities) bool { return c.IsOwnerOrAdmin }))
		r.Get("/", h.listUsers)
		r.Get("/new", h.showCreateForm)
		r.Post("/", h.createUser)
		r.Get("/privileges", h.showPrivileges)
		r.Get("/{id}/edit", h.showEditForm)
		r.Post("/{id}/edit", h.updateUser)
		r.Post("/{id}/admin", h.toggleAdmin)
		r.Post("/{id}/delete", h.deleteUser)
	})
}

type userForm struct {
	Name     string `validate:"required"`
	Email    string `validate:"required,email"`
	Password string
	Role     string
	IsAdmin  bool
}

type roleOption struct {
	Value string
	Label string
}

type formErrors map[string]string

func roleOptions() []roleOption {
	roles := []access.Role{
		access.RoleOwner,
		access.RoleManager,
		access.RoleSpaceManager,
		access.RoleTeacher,
		access.RoleReadOnly,
	}
	options := make([]roleOption, 0, len(roles))
	for _, role := range roles {
		options = append(options, roleOption{Value: string(role), Label: role.Label()})
	}
	return options
}

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.ListUsers(r.Context())
	if err != nil {
		h.logger.Error("list users failed", slog.Any("error", err))
		h.render(w, r, "pages/users/list.html", "المستخدمين", map[string]any{"Errors": formErrors{"general": shared.UserSafeMessage(err)}}, http.StatusInternalServerError)
		return
	}
	h.render(w, r, "pages/users/list.html", "المستخدمين", map[string]any{"Users": users}, http.StatusOK)
}

func (h *Handler) showCreateForm(w http.ResponseWriter, r *http.Request) {
	data := map[string]any{
		"User":   User{},
		"Form":   userForm{Role: string(access.RoleReadOnly)},
		"Roles":  roleOptions(),
		"Errors": formErrors{},
	}
	h.render(w, r, "pages/users/form.html", "مستخدم جديد", data, http.StatusOK)
}

func (h *Handler) createUser(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	form := userForm{
		Name:     r.PostFormValue("name"),
		Email:    r.PostFormValue("email"),
		Password: r.PostFormValue("password"),
		Role:     r.PostFormValue("role"),
		IsAdmin:  r.PostFormValue("is_admin") != "",
	}
	errors := h.validateForm(form)
	if len(form.Password) < 8 {
		errors["Password"] = "كلمة المرور يجب ألا تقل عن ٨ أحرف"
	}

	if len(errors) == 0 {
		input := NewUserInput{
			Email:    form.Email,
			Name:     form.Name,
			Password: form.Password,
			Role:     access.ParseRole(form.Role),
			IsAdmin:  form.IsAdmin,
		}
		if _, err := h.service.CreateUser(r.Context(), h.actorID(r), input); err != nil {
			h.logger.Error("create user failed", slog.Any("error", err))
			errors["general"] = shared.UserSafeMessage(err)
		} else {
			h.redirectWithFlash(w, r, "/users", "success", "تم إنشاء المستخدم")
			return
		}
	}

	data := map[string]any{"User": User{}, "Form": form, "Roles": roleOptions(), "Errors": errors}
	h.render(w, r, "pages/users/form.html", "مستخدم جديد", data, http.StatusBadRequest)
}

func (h *Handler) showEditForm(w http.ResponseWriter, r *http.Request) {
	user, ok := h.loadUser(w, r)
	if !ok {
		return
	}
	form := userForm{Name: user.Name, Email: user.Email, Role: string(user.Role), IsAdmin: user.IsAdmin}
	data := map[string]any{"User": *user, "Form": form, "Roles": roleOptions(), "Errors": formErrors{}}
	h.render(w, r, "pages/users/form.html", "تعديل مستخدم", data, http.StatusOK)
}

func (h *Handler) updateUser(w http.ResponseWriter, r *http.Request) {
	user, ok := h.loadUser(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	form := userForm{
		Name:    r.PostFormValue("name"),
		Email:   r.PostFormValue("email"),
		Role:    r.PostFormValue("role"),
		IsAdmin: r.PostFormValue("is_admin") != "",
	}
	errors := h.validateForm(form)

	if len(errors) == 0 {
		input := UpdateUserInput{
			Email:   form.Email,
			Name:    form.Name,
			Role:    access.ParseRole(form.Role),
			IsAdmin: form.IsAdmin,
		}
		if err := h.service.UpdateUser(r.Context(), h.actorID(r), user.ID, input); err != nil {
			h.logger.Error("update user failed", slog.Int64("user_id", user.ID), slog.Any("error", err))
			errors["general"] = shared.UserSafeMessage(err)
		} else {
			h.redirectWithFlash(w, r, "/users", "success", "تم تحديث المستخدم")
			return
		}
	}

	data := map[string]any{"User": *user, "Form": form, "Roles": roleOptions(), "Errors": errors}
	h.render(w, r, "pages/users/form.html", "تعديل مستخدم", data, http.StatusBadRequest)
}

func (h *Handler) showPrivileges(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.ListUsers(r.Context())
	if err != nil {
		h.logger.Error("list users for privileges failed", slog.Any("error", err))
		h.render(w, r, "pages/users/privileges.html", "صلاحيات المدراء", map[string]any{"Errors": formErrors{"general": shared.UserSafeMessage(err)}}, http.StatusInternalServerError)
		return
	}
	h.render(w, r, "pages/users/privileges.html", "صلاحيات المدراء", map[string]any{"Users": users}, http.StatusOK)
}

func (h *Handler) toggleAdmin(w http.ResponseWriter, r *http.Request) {
	user, ok := h.loadUser(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	grant := r.PostFormValue("grant") == "1"
	if err := h.service.SetAdmin(r.Context(), h.actorID(r), user.ID, grant); err != nil {
		h.logger.Error("toggle admin failed", slog.Int64("user_id", user.ID), slog.Any("error", err))
		h.redirectWithFlash(w, r, "/users/privileges", "error", shared.UserSafeMessage(err))
		return
	}
	message := "تم سحب صلاحية المسؤول"
	if grant {
		message = "تم منح صلاحية المسؤول"
	}
	h.redirectWithFlash(w, r, "/users/privileges", "success", message)
}

func (h *Handler) deleteUser(w http.ResponseWriter, r *http.Request) {
	user, ok := h.loadUser(w, r)
	if !ok {
		return
	}
	if err := h.service.DeactivateUser(r.Context(), h.actorID(r), user.ID); err != nil {
		h.logger.Error("deactivate user failed", slog.Int64("user_id", user.ID), slog.Any("error", err))
		h.redirectWithFlash(w, r, "/users", "error", shared.UserSafeMessage(err))
		return
	}
	h.redirectWithFlash(w, r, "/users", "success", "تم حذف المستخدم")
}

func (h *Handler) validateForm(form userForm) formErrors {
	errors := make(formErrors)
	if err := h.validator.Struct(form); err != nil {
		for _, fieldErr := range err.(validator.ValidationErrors) {
			errors[fieldErr.Field()] = fieldErr.Error()
		}
	}
	if access.ParseRole(form.Role) == access.RoleUnknown {
		errors["Role"] = "الدور غير معروف"
	}
	return errors
}

func (h *Handler) loadUser(w http.ResponseWriter, r *http.Request) (*User, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return nil, false
	}
	user, err := h.service.GetUser(r.Context(), id)
	if err != nil {
		h.redirectWithFlash(w, r, "/users", "error", shared.UserSafeMessage(err))
		return nil, false
	}
	return user, true
}

func (h *Handler) actorID(r *http.Request) int64 {
	if viewer := access.ViewerFromContext(r.Context()); viewer != nil {
		return viewer.Identity.UserID
	}
	return 0
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

func (h *Handler) redirectWithFlash(w http.ResponseWriter, r *http.Request, location, kind, message string) {
	if sess := shared.SessionFromContext(r.Context()); sess != nil {
		sess.AddFlash(shared.FlashMessage{Kind: kind, Message: message})
	}
	http.Redirect(w, r, location, http.StatusSeeOther)
}
