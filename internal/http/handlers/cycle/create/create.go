// Package create реализует HTTP-обработчик для записи менструального цикла.
//
// Записи цикла используются инструкторами для адаптации нагрузок на занятиях.
package create

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"github.com/bellaforma/studio-membership/internal/http/middlewarectx"
	"github.com/bellaforma/studio-membership/internal/http/response"
	"github.com/bellaforma/studio-membership/internal/lib/sl"
	"github.com/bellaforma/studio-membership/internal/models"
)

// Handler управляет HTTP-запросами на запись цикла.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики записей цикла.
type Service interface {
	CreateCycle(ctx context.Context, studentID int, req models.DummyMenstrualCycle) (int, error)
	ReadByUser(ctx context.Context, userUID string) (*models.Student, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP обрабатывает HTTP-запрос на добавление записи цикла.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.cycle.create"
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

	var req models.DummyMenstrualCycle
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	id, err := h.service.CreateCycle(r.Context(), studentID, req)
	if err != nil {
		log.Error("failed to create cycle entry", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not create cycle entry"))
		return
	}

	log.Info("success to create cycle entry", slog.Int("id", id))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"last_added_id": id,
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
