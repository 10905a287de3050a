// Package list реализует HTTP-обработчик для получения истории цикла ученицы.
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

// Handler обрабатывает запросы на чтение истории цикла.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики истории цикла.
type Service interface {
	ListCycles(ctx context.Context, studentID, limit, offset int) ([]*models.MenstrualCycle, error)
	ReadByUser(ctx context.Context, userUID string) (*models.Student, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP обрабатывает HTTP-запрос на чтение истории цикла.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.cycle.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	studentID, err := resolveStudentID(r, h.service)
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

	res, err := h.service.ListCycles(r.Context(), studentID, limit, offset)
	if err != nil {
		log.Error("failed to list cycle entries", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list cycle entries"))
		return
	}

	log.Info("list cycle entries", "count", len(res))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"list_count": len(res),
		"cycles":     res,
	}))
}

func resolveStudentID(r *http.Request, service Service) (int, error) {
	if idStr := chi.URLParam(r, "id"); idStr != "" {
		return strconv.Atoi(idStr)
	}
	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		return 0, errors.New("user identification missing")
	}
	student, err := service.ReadByUser(r.Context(), userUID)
	if err != nil {
		return 0, err
	}
	return student.ID, nil
}
