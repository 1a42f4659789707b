package resources

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/scienceclub/hallhub/internal/access"
	"github.com/scienceclub/hallhub/internal/shared"
	"github.com/scienceclub/hallhub/internal/view"
)

// Handler serves the hall/teacher/subject/stage management pages. All four
// entities share the same list and form templates; the handler builds the
// rows and fields per entity.
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

// MountRoutes registers resource management routes. The whole surface is
// restricted to accounts with resource management capability.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.access.Require(func(c access.Capabilities) bool { return c.IsResourceManager }))

		r.Route("/halls", func(r chi.Router) {
			r.Get("/", h.listHalls)
			r.Get("/new", h.showHallForm)
			r.Post("/", h.createHall)
			r.Get("/{id}/edit", h.showHallForm)
			r.Post("/{id}/edit", h.updateHall)
			r.Post("/{id}/delete", h.deleteHall)
		})
		r.Route("/teachers", func(r chi.Router) {
			r.Get("/", h.listTeachers)
			r.Get("/new", h.showTeacherForm)
			r.Post("/", h.createTeacher)
			r.Get("/{id}/edit", h.showTeacherForm)
			r.Post("/{id}/edit", h.updateTeacher)
			r.Post("/{id}/delete", h.deleteTeacher)
		})
		r.Route("/subjects", func(r chi.Router) {
			r.Get("/", h.listSubjects)
			r.Get("/new", h.showSubjectForm)
			r.Post("/", h.createSubject)
			r.Get("/{id}/edit", h.showSubjectForm)
			r.Post("/{id}/edit", h.updateSubject)
			r.Post("/{id}/delete", h.deleteSubject)
		})
		r.Route("/stages", func(r chi.Router) {
			r.Get("/", h.listStages)
			r.Get("/new", h.showStageForm)
			r.Post("/", h.createStage)
			r.Get("/{id}/edit", h.showStageForm)
			r.Post("/{id}/edit", h.updateStage)
			r.Post("/{id}/delete", h.deleteStage)
		})
	})
}

type listRow struct {
	ID    int64
	Cells []string
}

type formField struct {
	Label    string
	Name     string
	Type     string
	Value    string
	Required bool
	Error    string
}

// Halls

func (h *Handler) listHalls(w http.ResponseWriter, r *http.Request) {
	halls, err := h.service.ListHalls(r.Context())
	if err != nil {
		h.renderListError(w, r, "القاعات", "/halls", err)
		return
	}
	rows := make([]listRow, 0, len(halls))
	for _, hall := range halls {
		rows = append(rows, listRow{ID: hall.ID, Cells: []string{
			hall.Name,
			strconv.Itoa(hall.Capacity),
			fmt.Sprintf("%.2f", hall.HourlyRate),
		}})
	}
	h.renderList(w, r, "القاعات", "/halls", []string{"الاسم", "السعة", "سعر الساعة"}, rows)
}

func (h *Handler) showHallForm(w http.ResponseWriter, r *http.Request) {
	var hall Hall
	if id, ok := urlID(r); ok {
		loaded, err := h.service.GetHall(r.Context(), id)
		if err != nil {
			h.redirectWithFlash(w, r, "/halls", "error", shared.UserSafeMessage(err))
			return
		}
		hall = loaded
	}
	h.renderForm(w, r, "قاعة", hallFormAction(hall.ID), hallFields(hall, nil), http.StatusOK)
}

func (h *Handler) createHall(w http.ResponseWriter, r *http.Request) {
	hall, fieldErrs := parseHallForm(r)
	if len(fieldErrs) == 0 {
		if _, err := h.service.CreateHall(r.Context(), h.actorID(r), hall); err != nil {
			fieldErrs = map[string]string{"general": shared.UserSafeMessage(err)}
		} else {
			h.redirectWithFlash(w, r, "/halls", "success", "تم إنشاء القاعة")
			return
		}
	}
	h.renderForm(w, r, "قاعة", hallFormAction(0), hallFields(hall, fieldErrs), http.StatusBadRequest)
}

func (h *Handler) updateHall(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	hall, fieldErrs := parseHallForm(r)
	if len(fieldErrs) == 0 {
		if err := h.service.UpdateHall(r.Context(), h.actorID(r), id, hall); err != nil {
			fieldErrs = map[string]string{"general": shared.UserSafeMessage(err)}
		} else {
			h.redirectWithFlash(w, r, "/halls", "success", "تم تحديث القاعة")
			return
		}
	}
	hall.ID = id
	h.renderForm(w, r, "قاعة", hallFormAction(id), hallFields(hall, fieldErrs), http.StatusBadRequest)
}

func (h *Handler) deleteHall(w http.ResponseWriter, r *http.Request) {
	h.deleteEntity(w, r, "/halls", "تم حذف القاعة", h.service.DeleteHall)
}

func hallFormAction(id int64) string {
	if id > 0 {
		return fmt.Sprintf("/halls/%d/edit", id)
	}
	return "/halls"
}

func parseHallForm(r *http.Request) (Hall, map[string]string) {
	errs := make(map[string]string)
	if err := r.ParseForm(); err != nil {
		errs["general"] = "تعذر قراءة النموذج"
		return Hall{}, errs
	}
	hall := Hall{
		Name:  strings.TrimSpace(r.PostFormValue("name")),
		Notes: strings.TrimSpace(r.PostFormValue("notes")),
	}
	if hall.Name == "" {
		errs["name"] = "الاسم مطلوب"
	}
	capacity, err := strconv.Atoi(r.PostFormValue("capacity"))
	if err != nil || capacity <= 0 {
		errs["capacity"] = "السعة يجب أن تكون رقماً موجباً"
	}
	hall.Capacity = capacity
	rate, err := strconv.ParseFloat(r.PostFormValue("hourly_rate"), 64)
	if err != nil || rate < 0 {
		errs["hourly_rate"] = "سعر الساعة غير صالح"
	}
	hall.HourlyRate = rate
	return hall, errs
}

func hallFields(hall Hall, errs map[string]string) []formField {
	capacity := ""
	if hall.Capacity > 0 {
		capacity = strconv.Itoa(hall.Capacity)
	}
	rate := ""
	if hall.ID > 0 || hall.HourlyRate > 0 {
		rate = fmt.Sprintf("%.2f", hall.HourlyRate)
	}
	return []formField{
		{Label: "الاسم", Name: "name", Type: "text", Value: hall.Name, Required: true, Error: errs["name"]},
		{Label: "السعة", Name: "capacity", Type: "number", Value: capacity, Required: true, Error: errs["capacity"]},
		{Label: "سعر الساعة", Name: "hourly_rate", Type: "number", Value: rate, Required: true, Error: errs["hourly_rate"]},
		{Label: "ملاحظات", Name: "notes", Type: "text", Value: hall.Notes},
	}
}

// Teachers

func (h *Handler) listTeachers(w http.ResponseWriter, r *http.Request) {
	teachers, err := h.service.ListTeachers(r.Context())
	if err != nil {
		h.renderListError(w, r, "المعلمين", "/teachers", err)
		return
	}
	rows := make([]listRow, 0, len(teachers))
	for _, teacher := range teachers {
		rows = append(rows, listRow{ID: teacher.ID, Cells: []string{teacher.Name, teacher.Phone, teacher.Specialty}})
	}
	h.renderList(w, r, "المعلمين", "/teachers", []string{"الاسم", "الهاتف", "التخصص"}, rows)
}

func (h *Handler) showTeacherForm(w http.ResponseWriter, r *http.Request) {
	var teacher Teacher
	if id, ok := urlID(r); ok {
		loaded, err := h.service.GetTeacher(r.Context(), id)
		if err != nil {
			h.redirectWithFlash(w, r, "/teachers", "error", shared.UserSafeMessage(err))
			return
		}
		teacher = loaded
	}
	h.renderForm(w, r, "معلم", teacherFormAction(teacher.ID), teacherFields(teacher, nil), http.StatusOK)
}

func (h *Handler) createTeacher(w http.ResponseWriter, r *http.Request) {
	teacher, fieldErrs := parseTeacherForm(r)
	if len(fieldErrs) == 0 {
		if _, err := h.service.CreateTeacher(r.Context(), h.actorID(r), teacher); err != nil {
			fieldErrs = map[string]string{"general": shared.UserSafeMessage(err)}
		} else {
			h.redirectWithFlash(w, r, "/teachers", "success", "تم إنشاء المعلم")
			return
		}
	}
	h.renderForm(w, r, "معلم", teacherFormAction(0), teacherFields(teacher, fieldErrs), http.StatusBadRequest)
}

func (h *Handler) updateTeacher(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	teacher, fieldErrs := parseTeacherForm(r)
	if len(fieldErrs) == 0 {
		if err := h.service.UpdateTeacher(r.Context(), h.actorID(r), id, teacher); err != nil {
			fieldErrs = map[string]string{"general": shared.UserSafeMessage(err)}
		} else {
			h.redirectWithFlash(w, r, "/teachers", "success", "تم تحديث المعلم")
			return
		}
	}
	teacher.ID = id
	h.renderForm(w, r, "معلم", teacherFormAction(id), teacherFields(teacher, fieldErrs), http.StatusBadRequest)
}

func (h *Handler) deleteTeacher(w http.ResponseWriter, r *http.Request) {
	h.deleteEntity(w, r, "/teachers", "تم حذف المعلم", h.service.DeleteTeacher)
}

func teacherFormAction(id int64) string {
	if id > 0 {
		return fmt.Sprintf("/teachers/%d/edit", id)
	}
	return "/teachers"
}

func parseTeacherForm(r *http.Request) (Teacher, map[string]string) {
	errs := make(map[string]string)
	if err := r.ParseForm(); err != nil {
		errs["general"] = "تعذر قراءة النموذج"
		return Teacher{}, errs
	}
	teacher := Teacher{
		Name:      strings.TrimSpace(r.PostFormValue("name")),
		Phone:     strings.TrimSpace(r.PostFormValue("phone")),
		Specialty: strings.TrimSpace(r.PostFormValue("specialty")),
	}
	if teacher.Name == "" {
		errs["name"] = "الاسم مطلوب"
	}
	return teacher, errs
}

func teacherFields(teacher Teacher, errs map[string]string) []formField {
	return []formField{
		{Label: "الاسم", Name: "name", Type: "text", Value: teacher.Name, Required: true, Error: errs["name"]},
		{Label: "الهاتف", Name: "phone", Type: "tel", Value: teacher.Phone},
		{Label: "التخصص", Name: "specialty", Type: "text", Value: teacher.Specialty},
	}
}

// Subjects

func (h *Handler) listSubjects(w http.ResponseWriter, r *http.Request) {
	subjects, err := h.service.ListSubjects(r.Context())
	if err != nil {
		h.renderListError(w, r, "المواد الدراسية", "/subjects", err)
		return
	}
	rows := make([]listRow, 0, len(subjects))
	for _, subject := range subjects {
		rows = append(rows, listRow{ID: subject.ID, Cells: []string{subject.Name}})
	}
	h.renderList(w, r, "المواد الدراسية", "/subjects", []string{"الاسم"}, rows)
}

func (h *Handler) showSubjectForm(w http.ResponseWriter, r *http.Request) {
	var subject Subject
	if id, ok := urlID(r); ok {
		loaded, err := h.service.GetSubject(r.Context(), id)
		if err != nil {
			h.redirectWithFlash(w, r, "/subjects", "error", shared.UserSafeMessage(err))
			return
		}
		subject = loaded
	}
	h.renderForm(w, r, "مادة دراسية", subjectFormAction(subject.ID), subjectFields(subject, nil), http.StatusOK)
}

func (h *Handler) createSubject(w http.ResponseWriter, r *http.Request) {
	subject, fieldErrs := parseSubjectForm(r)
	if len(fieldErrs) == 0 {
		if _, err := h.service.CreateSubject(r.Context(), h.actorID(r), subject); err != nil {
			fieldErrs = map[string]string{"general": shared.UserSafeMessage(err)}
		} else {
			h.redirectWithFlash(w, r, "/subjects", "success", "تم إنشاء المادة")
			return
		}
	}
	h.renderForm(w, r, "مادة دراسية", subjectFormAction(0), subjectFields(subject, fieldErrs), http.StatusBadRequest)
}

func (h *Handler) updateSubject(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	subject, fieldErrs := parseSubjectForm(r)
	if len(fieldErrs) == 0 {
		if err := h.service.UpdateSubject(r.Context(), h.actorID(r), id, subject); err != nil {
			fieldErrs = map[string]string{"general": shared.UserSafeMessage(err)}
		} else {
			h.redirectWithFlash(w, r, "/subjects", "success", "تم تحديث المادة")
			return
		}
	}
	subject.ID = id
	h.renderForm(w, r, "مادة دراسية", subjectFormAction(id), subjectFields(subject, fieldErrs), http.StatusBadRequest)
}

func (h *Handler) deleteSubject(w http.ResponseWriter, r *http.Request) {
	h.deleteEntity(w, r, "/subjects", "تم حذف المادة", h.service.DeleteSubject)
}

func subjectFormAction(id int64) string {
	if id > 0 {
		return fmt.Sprintf("/subjects/%d/edit", id)
	}
	return "/subjects"
}

func parseSubjectForm(r *http.Request) (Subject, map[string]string) {
	errs := make(map[string]string)
	if err := r.ParseForm(); err != nil {
		errs["general"] = "تعذر قراءة النموذج"
		return Subject{}, errs
	}
	subject := Subject{Name: strings.TrimSpace(r.PostFormValue("name"))}
	if subject.Name == "" {
		errs["name"] = "الاسم مطلوب"
	}
	return subject, errs
}

func subjectFields(subject Subject, errs map[string]string) []formField {
	return []formField{
		{Label: "الاسم", Name: "name", Type: "text", Value: subject.Name, Required: true, Error: errs["name"]},
	}
}

// Stages

func (h *Handler) listStages(w http.ResponseWriter, r *http.Request) {
	stages, err := h.service.ListStages(r.Context())
	if err != nil {
		h.renderListError(w, r, "المراحل التعليمية", "/stages", err)
		return
	}
	rows := make([]listRow, 0, len(stages))
	for _, stage := range stages {
		rows = append(rows, listRow{ID: stage.ID, Cells: []string{stage.Name, strconv.Itoa(stage.SortOrder)}})
	}
	h.renderList(w, r, "المراحل التعليمية", "/stages", []string{"الاسم", "الترتيب"}, rows)
}

func (h *Handler) showStageForm(w http.ResponseWriter, r *http.Request) {
	var stage Stage
	if id, ok := urlID(r); ok {
		loaded, err := h.service.GetStage(r.Context(), id)
		if err != nil {
			h.redirectWithFlash(w, r, "/stages", "error", shared.UserSafeMessage(err))
			return
		}
		stage = loaded
	}
	h.renderForm(w, r, "مرحلة تعليمية", stageFormAction(stage.ID), stageFields(stage, nil), http.StatusOK)
}

func (h *Handler) createStage(w http.ResponseWriter, r *http.Request) {
	stage, fieldErrs := parseStageForm(r)
	if len(fieldErrs) == 0 {
		if _, err := h.service.CreateStage(r.Context(), h.actorID(r), stage); err != nil {
			fieldErrs = map[string]string{"general": shared.UserSafeMessage(err)}
		} else {
			h.redirectWithFlash(w, r, "/stages", "success", "تم إنشاء المرحلة")
			return
		}
	}
	h.renderForm(w, r, "مرحلة تعليمية", stageFormAction(0), stageFields(stage, fieldErrs), http.StatusBadRequest)
}

func (h *Handler) updateStage(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	stage, fieldErrs := parseStageForm(r)
	if len(fieldErrs) == 0 {
		if err := h.service.UpdateStage(r.Context(), h.actorID(r), id, stage); err != nil {
			fieldErrs = map[string]string{"general": shared.UserSafeMessage(err)}
		} else {
			h.redirectWithFlash(w, r, "/stages", "success", "تم تحديث المرحلة")
			return
		}
	}
	stage.ID = id
	h.renderForm(w, r, "مرحلة تعليمية", stageFormAction(id), stageFields(stage, fieldErrs), http.StatusBadRequest)
}

func (h *Handler) deleteStage(w http.ResponseWriter, r *http.Request) {
	h.deleteEntity(w, r, "/stages", "تم حذف المرحلة", h.service.DeleteStage)
}

func stageFormAction(id int64) string {
	if id > 0 {
		return fmt.Sprintf("/stages/%d/edit", id)
	}
	return "/stages"
}

func parseStageForm(r *http.Request) (Stage, map[string]string) {
	errs := make(map[string]string)
	if err := r.ParseForm(); err != nil {
		errs["general"] = "تعذر قراءة النموذج"
		return Stage{}, errs
	}
	stage := Stage{Name: strings.TrimSpace(r.PostFormValue("name"))}
	if stage.Name == "" {
		errs["name"] = "الاسم مطلوب"
	}
	if raw := r.PostFormValue("sort_order"); raw != "" {
		order, err := strconv.Atoi(raw)
		if err != nil {
			errs["sort_order"] = "الترتيب غير صالح"
		}
		stage.SortOrder = order
	}
	return stage, errs
}

func stageFields(stage Stage, errs map[string]string) []formField {
	order := ""
	if stage.SortOrder > 0 {
		order = strconv.Itoa(stage.SortOrder)
	}
	return []formField{
		{Label: "الاسم", Name: "name", Type: "text", Value: stage.Name, Required: true, Error: errs["name"]},
		{Label: "الترتيب", Name: "sort_order", Type: "number", Value: order, Error: errs["sort_order"]},
	}
}

// Shared plumbing

func (h *Handler) deleteEntity(w http.ResponseWriter, r *http.Request, basePath, successMsg string, del func(context.Context, int64, int64) error) {
	id, ok := urlID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	if err := del(r.Context(), h.actorID(r), id); err != nil {
		h.logger.Error("delete resource failed", slog.String("path", basePath), slog.Int64("id", id), slog.Any("error", err))
		h.redirectWithFlash(w, r, basePath, "error", shared.UserSafeMessage(err))
		return
	}
	h.redirectWithFlash(w, r, basePath, "success", successMsg)
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

func (h *Handler) renderList(w http.ResponseWriter, r *http.Request, heading, basePath string, columns []string, rows []listRow) {
	data := map[string]any{
		"Heading":  heading,
		"BasePath": basePath,
		"Columns":  columns,
		"Rows":     rows,
	}
	h.render(w, r, "pages/resources/list.html", heading, data, http.StatusOK)
}

func (h *Handler) renderListError(w http.ResponseWriter, r *http.Request, heading, basePath string, err error) {
	h.logger.Error("list resources failed", slog.String("path", basePath), slog.Any("error", err))
	data := map[string]any{
		"Heading":  heading,
		"BasePath": basePath,
		"Errors":   map[string]string{"general": shared.UserSafeMessage(err)},
	}
	h.render(w, r, "pages/resources/list.html", heading, data, http.StatusInternalServerError)
}

func (h *Handler) renderForm(w http.ResponseWriter, r *http.Request, heading, action string, fields []formField, status int) {
	errs := map[string]string{}
	for _, field := range fields {
		if field.Error != "" {
			errs[field.Name] = field.Error
		}
	}
	data := map[string]any{
		"Heading": heading,
		"Action":  action,
		"Fields":  fields,
		"Errors":  errs,
	}
	h.render(w, r, "pages/resources/form.html", heading, data, status)
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
