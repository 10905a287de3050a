// Package create реализует HTTP-обработчик для публикации видео.
//
// Источником видео служит загруженный файл или внешний URL, хотя бы один
// обязателен. Видео публикуется сразу после создания.
package create

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"github.com/bellaforma/studio-membership/internal/http/response"
	"github.com/bellaforma/studio-membership/internal/lib/sl"
	"github.com/bellaforma/studio-membership/internal/models"
	"github.com/bellaforma/studio-membership/internal/storage/repository"
)

// Handler управляет HTTP-запросами на публикацию видео.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики публикации видео.
type Service interface {
	Create(ctx context.Context, req models.DummyVideo) (int, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Опубликовать видео
// @Description Создает видео с файлом или внешним URL в качестве источника. Возвращает ID созданной записи.
// @Tags Videos
// @Accept  json
// @Produce  json
// @Param request body models.DummyVideo true "Данные видео"
// @Success 200 {object} map[string]any "Успешная публикация видео"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или отсутствует источник"
// @Failure 409 {object} response.ErrorResponse "Видео с таким slug уже существует"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера при публикации видео"
// @Router /videos [post]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.video.create"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyVideo
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

	if req.VideoFile == "" && req.VideoURL == "" {
		log.Error("video source missing")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("video requires a file or an external url"))
		return
	}

	id, err := h.service.Create(r.Context(), req)
	if err != nil {
		if errors.Is(err, repository.ErrUniqueViolation) {
			log.Error("video slug already exists", sl.Err(err))
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("video with this slug already exists"))
			return
		}
		log.Error("failed to create video", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not create video"))
		return
	}

	log.Info("success to create video", slog.Int("id", id))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"last_added_id": id,
	}))
}
