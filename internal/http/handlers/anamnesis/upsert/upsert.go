// Package upsert реализует HTTP-обработчик для заполнения анкеты здоровья.
//
// Анкета хранится в одном экземпляре на профиль: повторная отправка
// перезаписывает предыдущие ответы. Инструктор или администратор работает
// с анкетой по ID профиля из URL, ученица — со своей анкетой по UID из контекста.
package upsert

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
	"github.com/bellaforma/studio-membership/internal/storage/repository"
)

// Handler управляет HTTP-запросами на заполнение анкеты здоровья.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики анкеты здоровья.
type Service interface {
	UpsertAnamnesis(ctx context.Context, studentID int, req models.DummyAnamnesis) (int, error)
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

// ServeHTTP обрабатывает HTTP-запрос на заполнение анкеты здоровья.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.anamnesis.upsert"
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

	var req models.DummyAnamnesis
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	log.Info("request body decoded", slog.Any("request", req))

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	id, err := h.service.UpsertAnamnesis(r.Context(), studentID, req)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			log.Error("student not found", slog.Int("student_id", studentID))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("student not found"))
			return
		}
		log.Error("failed to save anamnesis", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not save anamnesis"))
		return
	}

	log.Info("success to save anamnesis", slog.Int("id", id))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"anamnesis_id": id,
	}))
}

// resolveStudentID возвращает ID профиля из URL либо по UID пользователя из контекста.
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
