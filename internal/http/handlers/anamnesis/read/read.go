// Package read реализует HTTP-обработчик для чтения анкеты здоровья ученицы.
package read

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
	"github.com/bellaforma/studio-membership/internal/storage/repository"
)

// Handler обрабатывает запросы на чтение анкеты здоровья.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики чтения анкеты.
type Service interface {
	ReadAnamnesis(ctx context.Context, studentID int) (*models.Anamnesis, error)
	ReadByUser(ctx context.Context, userUID string) (*models.Student, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP обрабатывает HTTP-запрос на чтение анкеты здоровья.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.anamnesis.read"

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

	res, err := h.service.ReadAnamnesis(r.Context(), studentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			log.Error("anamnesis not found", slog.Int("student_id", studentID))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("anamnesis not found"))
			return
		}
		log.Error("failed to read anamnesis", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not read anamnesis"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"anamnesis": res,
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
