// Package watch реализует HTTP-обработчик просмотра видео по slug.
//
// Доступ проверяется по правилам видеотеки: публичные видео доступны всем,
// остальные требуют аутентификации, а закрытые — активной подписки с доступом
// к видео. Роли instructor и admin смотрят без ограничений. Успешный просмотр
// увеличивает счётчик просмотров.
package watch

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/bellaforma/studio-membership/internal/http/middlewarectx"
	"github.com/bellaforma/studio-membership/internal/http/response"
	"github.com/bellaforma/studio-membership/internal/lib/sl"
	"github.com/bellaforma/studio-membership/internal/models"
	videoservice "github.com/bellaforma/studio-membership/internal/services/video"
	"github.com/bellaforma/studio-membership/internal/storage/repository"
)

// Handler обрабатывает запросы на просмотр видео.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики просмотра видео.
type Service interface {
	Watch(ctx context.Context, videoSlug string, viewer videoservice.Viewer) (*models.Video, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP обрабатывает HTTP-запрос на просмотр видео по slug.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.video.watch"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	videoSlug := chi.URLParam(r, "slug")
	if videoSlug == "" {
		log.Error("missing slug in url")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("missing slug"))
		return
	}

	// Зритель может быть анонимным: публичные видео доступны без токена.
	viewer := videoservice.Viewer{}
	if userUID, ok := r.Context().Value(middlewarectx.UserUID).(string); ok {
		viewer.UserUID = userUID
	}
	if role, ok := r.Context().Value(middlewarectx.Role).(string); ok {
		viewer.Role = models.UserRole(role)
	}

	res, err := h.service.Watch(r.Context(), videoSlug, viewer)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			log.Error("video not found", slog.String("slug", videoSlug))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("video not found"))
		case errors.Is(err, videoservice.ErrAccessDenied):
			log.Error("video access denied", slog.String("slug", videoSlug))
			if viewer.UserUID == "" {
				w.WriteHeader(http.StatusUnauthorized)
				render.JSON(w, r, response.Error("authentication required"))
				return
			}
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("active subscription with video access required"))
		default:
			log.Error("failed to watch video", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not read video"))
		}
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"video": res,
	}))
}
