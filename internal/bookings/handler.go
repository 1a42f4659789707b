package bookings

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/scienceclub/hallhub/internal/access"
	"github.com/scienceclub/hallhub/internal/resources"
	"github.com/scienceclub/hallhub/internal/shared"
	"github.com/scienceclub/hallhub/internal/view"
)

// datetime-local input format
const formTimeLayout = "2006-01-02T15:04"

// Handler serves the booking pages.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	resources *resources.Service
	templates *view.Engine
	csrf      *shared.CSRFManager
	access    access.Middleware
}

// NewHandler builds a Handler instance. The resources service fills the
// hall/teacher/subject/stage selects on the booking form.
func NewHandler(logger *slog.Logger, service *Service, res *resources.Service, templates *view.Engine, csrf *shared.CSRFManager, accessMW access.Middleware) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		resources: res,
		templates: templates,
		csrf:      csrf,
		access:    accessMW,
	}
}

// MountRoutes registers booking routes. Listing needs any authenticated
// viewer; mutation needs the booking capability.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.access.RequireAuthenticated)
		r.Get("/", h.listBookings)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.access.Require(func(c access.Capabilities) bool { return c.CanCreateBooking }))
		r.Get("/new", h.showForm)
		r.Post("/", h.createBooking)
		r.Get("/{id}/edit", h.showForm)
		r.Post("/{id}/edit", h.updateBooking)
		r.Post("/{id}/delete", h.deleteBooking)
	})
}

type bookingForm struct {
	StartsAt string
	EndsAt   string
	Price    string
}

func (h *Handler) listBookings(w http.ResponseWriter, r *http.Request) {
	views, err := h.service.ListBookings(r.Context())
	if err != nil {
		h.logger.Error("list bookings failed", slog.Any("error", err))
		h.render(w, r, "pages/bookings/list.html", "جميع الحجوزات", map[string]any{
			"Errors": map[string]string{"general": shared.UserSafeMessage(err)},
		}, http.StatusInternalServerError)
		return
	}
	canCreate := false
	if viewer := access.ViewerFromContext(r.Context()); viewer != nil {
		canCreate = viewer.Resolution.Capabilities.CanCreateBooking
	}
	h.render(w, r, "pages/bookings/list.html", "جميع الحجوزات", map[string]any{
		"Bookings":  views,
		"CanCreate": canCreate,
	}, http.StatusOK)
}

func (h *Handler) showForm(w http.ResponseWriter, r *http.Request) {
	var booking Booking
	if id, ok := urlID(r); ok {
		loaded, err := h.service.GetBooking(r.Context(), id)
		if err != nil {
			h.redirectWithFlash(w, r, "/bookings", "error", shared.UserSafeMessage(err))
			return
		}
		booking = *loaded
	}
	form := bookingForm{}
	if !booking.StartsAt.IsZero() {
		form.StartsAt = booking.StartsAt.Format(formTimeLayout)
		form.EndsAt = booking.EndsAt.Format(formTimeLayout)
		form.Price = strconv.FormatFloat(booking.Price, 'f', 2, 64)
	}
	h.renderForm(w, r, booking, form, nil, http.StatusOK)
}

func (h *Handler) createBooking(w http.ResponseWriter, r *http.Request) {
	booking, form, key, errs := h.parseForm(r)
	if len(errs) == 0 {
		if _, err := h.service.CreateBooking(r.Context(), h.actorID(r), key, booking); err != nil {
			errs = map[string]string{"general": h.mutationMessage(err)}
		} else {
			h.redirectWithFlash(w, r, "/bookings", "success", "تم إنشاء الحجز")
			return
		}
	}
	h.renderForm(w, r, booking, form, errs, http.StatusBadRequest)
}

func (h *Handler) updateBooking(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	booking, form, _, errs := h.parseForm(r)
	if len(errs) == 0 {
		if err := h.service.UpdateBooking(r.Context(), h.actorID(r), id, booking); err != nil {
			errs = map[string]string{"general": h.mutationMessage(err)}
		} else {
			h.redirectWithFlash(w, r, "/bookings", "success", "تم تحديث الحجز")
			return
		}
	}
	booking.ID = id
	h.renderForm(w, r, booking, form, errs, http.StatusBadRequest)
}

func (h *Handler) deleteBooking(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	if err := h.service.DeleteBooking(r.Context(), h.actorID(r), id); err != nil {
		h.logger.Error("delete booking failed", slog.Int64("booking_id", id), slog.Any("error", err))
		h.redirectWithFlash(w, r, "/bookings", "error", shared.UserSafeMessage(err))
		return
	}
	h.redirectWithFlash(w, r, "/bookings", "success", "تم حذف الحجز")
}

func (h *Handler) mutationMessage(err error) string {
	switch {
	case IsConflict(err):
		return "تم استلام هذا الطلب من قبل"
	case err == ErrHallBusy:
		return "القاعة محجوزة في هذا الوقت"
	case err == ErrInvalidTimeRange:
		return "وقت النهاية يجب أن يكون بعد وقت البداية"
	case err == ErrInvalidPrice:
		return "السعر غير صالح"
	default:
		return shared.UserSafeMessage(err)
	}
}

func (h *Handler) parseForm(r *http.Request) (Booking, bookingForm, string, map[string]string) {
	errs := make(map[string]string)
	if err := r.ParseForm(); err != nil {
		errs["general"] = "تعذر قراءة النموذج"
		return Booking{}, bookingForm{}, "", errs
	}
	form := bookingForm{
		StartsAt: r.PostFormValue("starts_at"),
		EndsAt:   r.PostFormValue("ends_at"),
		Price:    r.PostFormValue("price"),
	}
	booking := Booking{}
	booking.HallID, _ = strconv.ParseInt(r.PostFormValue("hall_id"), 10, 64)
	booking.TeacherID, _ = strconv.ParseInt(r.PostFormValue("teacher_id"), 10, 64)
	booking.SubjectID, _ = strconv.ParseInt(r.PostFormValue("subject_id"), 10, 64)
	booking.StageID, _ = strconv.ParseInt(r.PostFormValue("stage_id"), 10, 64)

	startsAt, err := time.ParseInLocation(formTimeLayout, form.StartsAt, time.Local)
	if err != nil {
		errs["StartsAt"] = "وقت البداية غير صالح"
	}
	endsAt, err := time.ParseInLocation(formTimeLayout, form.EndsAt, time.Local)
	if err != nil {
		errs["EndsAt"] = "وقت النهاية غير صالح"
	}
	booking.StartsAt = startsAt
	booking.EndsAt = endsAt

	price, err := strconv.ParseFloat(form.Price, 64)
	if err != nil || price < 0 {
		errs["Price"] = "السعر غير صالح"
	}
	booking.Price = price

	return booking, form, r.PostFormValue("idempotency_key"), errs
}

func (h *Handler) renderForm(w http.ResponseWriter, r *http.Request, booking Booking, form bookingForm, errs map[string]string, status int) {
	ctx := r.Context()
	halls, err := h.resources.ListHalls(ctx)
	if err != nil {
		h.logger.Error("load halls for booking form", slog.Any("error", err))
	}
	teachers, err := h.resources.ListTeachers(ctx)
	if err != nil {
		h.logger.Error("load teachers for booking form", slog.Any("error", err))
	}
	subjects, err := h.resources.ListSubjects(ctx)
	if err != nil {
		h.logger.Error("load subjects for booking form", slog.Any("error", err))
	}
	stages, err := h.resources.ListStages(ctx)
	if err != nil {
		h.logger.Error("load stages for booking form", slog.Any("error", err))
	}
	if errs == nil {
		errs = map[string]string{}
	}
	title := "حجز جديد"
	if booking.ID > 0 {
		title = "تعديل حجز"
	}
	data := map[string]any{
		"Booking":        booking,
		"Form":           form,
		"Errors":         errs,
		"Halls":          halls,
		"Teachers":       teachers,
		"Subjects":       subjects,
		"Stages":         stages,
		"IdempotencyKey": uuid.NewString(),
	}
	h.render(w, r, "pages/bookings/form.html", title, data, status)
}

func urlID(r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "id")
	if raw == "" {
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
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
