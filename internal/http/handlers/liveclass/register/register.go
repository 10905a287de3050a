// Package register реализует HTTP-обработчик записи ученицы на трансляцию.
//
// Запись возможна только на запланированную или идущую трансляцию;
// лимит участников контролируется хранилищем.
package register

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

// Handler обрабатывает запросы на запись на трансляцию.
type Handler struct {
	log      *slog.Logger
	service  Service
	students StudentResolver
}

// Service описывает интерфейс бизнес-логики записи на трансляцию.
type Service interface {
	Register(ctx context.Context, liveClassID, studentID int) error
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

// ServeHTTP обрабатывает HTTP-запрос на запись текущей ученицы на трансляцию.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.liveclass.register"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	liveClassID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		log.Error("failed to decode id from url", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid id"))
		return
	}

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		log.Error("user UID not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}
	student, err := h.students.ReadByUser(r.Context(), userUID)
	if err != nil {
		log.Error("failed to resolve student", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("could not resolve student"))
		return
	}

	if err := h.service.Register(r.Context(), liveClassID, student.ID); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			log.Error("live class not found", slog.Int("id", liveClassID))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("live class not found"))
		case errors.Is(err, repository.ErrClassFull):
			log.Error("live class is full", slog.Int("id", liveClassID))
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("live class is full"))
		case errors.Is(err, repository.ErrUniqueViolation):
			log.Error("student already registered", slog.Int("id", liveClassID))
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("student already registered"))
		default:
			log.Error("failed to register participant", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not register participant"))
		}
		return
	}

	log.Info("success to register participant",
		slog.Int("live_class_id", liveClassID), slog.Int("student_id", student.ID))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"registered": true,
	}))
}
