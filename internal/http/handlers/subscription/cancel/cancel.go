// Package cancel реализует HTTP-обработчик отмены подписки ученицы.
//
// Повторная отмена уже неактивной подписки не считается ошибкой:
// возвращается нулевое количество отмененных записей.
package cancel

import (
	"context"
	"encoding/json"
	"errors"
	"io"
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

// Handler обрабатывает запросы на отмену подписки.
type Handler struct {
	log      *slog.Logger
	service  Service
	students StudentResolver
}

// Service описывает интерфейс бизнес-логики отмены подписки.
type Service interface {
	Cancel(ctx context.Context, studentID int, reason string) (int, error)
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

// ServeHTTP обрабатывает HTTP-запрос на отмену подписки. Тело с причиной
// отмены опционально.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.cancel"

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

	var req models.DummyCancelSubscription
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	count, err := h.service.Cancel(r.Context(), studentID, req.Reason)
	if err != nil {
		log.Error("failed to cancel subscription", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not cancel subscription"))
		return
	}

	log.Info("success to cancel subscription", slog.Int("cancelled_count", count))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"cancelled_count": count,
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
