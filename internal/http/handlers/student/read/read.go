// Package read реализует HTTP-обработчик для получения профиля ученицы.
//
// Handler работает в двух режимах: администратор или инструктор читает профиль
// по ID из URL, ученица читает собственный профиль по UID из контекста.
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

// Handler обрабатывает запросы на получение профиля ученицы.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики чтения профиля.
type Service interface {
	Read(ctx context.Context, id int) (*models.Student, error)
	ReadByUser(ctx context.Context, userUID string) (*models.Student, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP обрабатывает HTTP-запрос на получение профиля.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.student.read"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var (
		res *models.Student
		err error
	)
	if idStr := chi.URLParam(r, "id"); idStr != "" {
		var id int
		id, err = strconv.Atoi(idStr)
		if err != nil {
			log.Error("failed to decode id from url", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid id"))
			return
		}
		res, err = h.service.Read(r.Context(), id)
	} else {
		userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
		if !ok || userUID == "" {
			log.Error("user UID not found in context")
			w.WriteHeader(http.StatusUnauthorized)
			render.JSON(w, r, response.Error("unauthorized"))
			return
		}
		res, err = h.service.ReadByUser(r.Context(), userUID)
	}
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			log.Error("student not found")
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("student not found"))
			return
		}
		log.Error("failed to read student", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not read student"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"student": res,
	}))
}
