// Package list реализует HTTP-обработчик для получения истории замеров.
//
// Инструктор или администратор читает историю по ID профиля из URL,
// ученица — собственную историю по UID из контекста.
package list

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/bellaforma/studio-membership/internal/http/middlewarectx"
	"github.com/bellaforma/studio-membership/internal/http/response"
	"github.com/bellaforma/studio-membership/internal/lib/sl"
	"github.com/bellaforma/studio-membership/internal/models"
)

// Handler обрабатывает запросы на чтение истории замеров.
type Handler struct {
	log      *slog.Logger
	service  Service
	students StudentResolver
}

// Service описывает интерфейс бизнес-логики истории замеров.
type Service interface {
	List(ctx context.Context, studentID, limit, offset int) ([]*models.Measurement, error)
}

// StudentResolver находит профиль ученицы по UID пользователя.
type StudentResolver interface {
	ReadByUser(ctx context.Context, userUID string) (*models.Student, error)
}

// New создает новый Handler с переданными логгером, сервисом и резолвером профиля.
func New(log *slog.Logger, service Service, students StudentResolver) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		students: students,
	}
}

// ServeHTTP обрабатывает HTTP-запрос на чтение истории замеров.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.measurement.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	studentID, err := h.resolveStudentID(r)
	if err != nil {
		log.Error("failed to resolve student", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("could not resolve student"))
		return
	}

	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 {
		limit = 10
	}
	offset, err := strconv.Atoi(r.URL.Query().Get("offset"))
	if err != nil || offset < 0 {
		offset = 0
	}

	res, err := h.service.List(r.Context(), studentID, limit, offset)
	if err != nil {
		log.Error("failed to list measurements", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list measurements"))
		return
	}

	log.Info("list measurements", "count", len(res))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"list_count":   len(res),
		"measurements": res,
	}))
}

func (h *Handler) resolveStudentID(r *http.Request) (int, error) {
	if idStr := chi.URLParam(r, "id"); idStr != "" {
		return strconv.Atoi(idStr)
	}
	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		return 0, errors.New("user identification missing")
	}
	student, err := h.students.ReadByUser(r.Context(), userUID)
	if err != nil {
		return 0, err
	}
	return student.ID, nil
}
