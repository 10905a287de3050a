// Package services содержит бизнес-логику видеотеки: категории, видео
// и проверку доступа по подписке.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gosimple/slug"

	"github.com/bellaforma/studio-membership/internal/lib/sl"
	"github.com/bellaforma/studio-membership/internal/models"
)

// ErrAccessDenied возвращается, когда у зрителя нет доступа к видео.
var ErrAccessDenied = errors.New("video access denied")

const categoriesCacheKey = "video-categories:all"

// VideoRepository определяет методы для работы с видеотекой в хранилище.
type VideoRepository interface {
	// CreateVideoCategory добавляет категорию и возвращает её ID.
	CreateVideoCategory(ctx context.Context, c models.VideoCategory) (int, error)
	// ListVideoCategories возвращает категории в порядке вывода.
	ListVideoCategories(ctx context.Context) ([]*models.VideoCategory, error)
	// CreateVideo добавляет видео и возвращает его ID.
	CreateVideo(ctx context.Context, v models.Video) (int, error)
	// ReadVideo возвращает видео по ID.
	ReadVideo(ctx context.Context, id int) (*models.Video, error)
	// ReadVideoBySlug возвращает видео по slug.
	ReadVideoBySlug(ctx context.Context, slug string) (*models.Video, error)
	// ListVideos возвращает опубликованные видео с пагинацией.
	ListVideos(ctx context.Context, categoryID *int, limit, offset int) ([]*models.Video, error)
	// IncrementVideoViews атомарно увеличивает счётчик просмотров.
	IncrementVideoViews(ctx context.Context, id int) error
	// IncrementVideoLikes атомарно увеличивает счётчик лайков.
	IncrementVideoLikes(ctx context.Context, id int) error

	// ReadStudentByUserUID возвращает профиль по UID пользователя.
	ReadStudentByUserUID(ctx context.Context, userUID string) (*models.Student, error)
	// HasActiveVideoSubscription сообщает, есть ли у профиля активная
	// подписка с доступом к видеотеке.
	HasActiveVideoSubscription(ctx context.Context, studentID int) (bool, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	// Get пытается получить значение из кеша по ключу.
	Get(key string, result any) (bool, error)
	// Set сохраняет значение в кеш с временем жизни.
	Set(key string, value any, expiration time.Duration) error
	// Invalidate удаляет значение из кеша по ключу.
	Invalidate(key string) error
}

// Viewer описывает зрителя при проверке доступа к видео.
type Viewer struct {
	UserUID string
	Role    models.UserRole
}

// VideoService реализует бизнес-логику видеотеки.
type VideoService struct {
	repo  VideoRepository
	cache Cache
	log   *slog.Logger
}

// NewVideoService создает новый экземпляр VideoService.
func NewVideoService(repo VideoRepository, cache Cache, log *slog.Logger) *VideoService {
	return &VideoService{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

// CreateCategory создает категорию видеотеки с автоматическим slug.
func (s *VideoService) CreateCategory(ctx context.Context, req models.DummyVideoCategory) (int, error) {
	categorySlug := req.Slug
	if categorySlug == "" {
		categorySlug = slug.Make(req.Name)
	}
	c := models.VideoCategory{
		Name:        req.Name,
		Slug:        categorySlug,
		Description: req.Description,
		Icon:        req.Icon,
		Order:       req.Order,
	}
	id, err := s.repo.CreateVideoCategory(ctx, c)
	if err != nil {
		return 0, err
	}
	s.log.Info("created video category", slog.Int("id", id), slog.String("slug", categorySlug))

	if err := s.cache.Invalidate(categoriesCacheKey); err != nil {
		s.log.Warn("failed to invalidate category cache", sl.Err(err))
	}
	return id, nil
}

// ListCategories возвращает категории, используя кеш или репозиторий.
func (s *VideoService) ListCategories(ctx context.Context) ([]*models.VideoCategory, error) {
	var result []*models.VideoCategory
	found, err := s.cache.Get(categoriesCacheKey, &result)
	if err != nil {
		s.log.Warn("failed to read category cache", sl.Err(err))
	}
	if found {
		return result, nil
	}

	result, err = s.repo.ListVideoCategories(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(categoriesCacheKey, result, time.Hour); err != nil {
		s.log.Warn("failed to cache categories", sl.Err(err))
	}
	return result, nil
}

// Create создает видео. Источником служит файл или внешний URL, хотя бы
// один обязателен. Видео публикуется сразу.
func (s *VideoService) Create(ctx context.Context, req models.DummyVideo) (int, error) {
	if req.VideoFile == "" && req.VideoURL == "" {
		return 0, fmt.Errorf("video requires a file or an external url")
	}

	videoSlug := req.Slug
	if videoSlug == "" {
		videoSlug = slug.Make(req.Title)
	}
	videoType := models.VideoRecorded
	if req.VideoType != "" {
		videoType = models.VideoType(req.VideoType)
	}
	requiresSubscription := true
	if req.RequiresSubscription != nil {
		requiresSubscription = *req.RequiresSubscription
	}
	publishedAt := time.Now().UTC()

	v := models.Video{
		Title:                req.Title,
		Slug:                 videoSlug,
		Description:          req.Description,
		CategoryID:           req.CategoryID,
		VideoFile:            req.VideoFile,
		VideoURL:             req.VideoURL,
		Thumbnail:            req.Thumbnail,
		DurationSeconds:      req.DurationSeconds,
		VideoType:            videoType,
		InstructorUID:        req.InstructorUID,
		IsPublic:             req.IsPublic,
		RequiresSubscription: requiresSubscription,
		PublishedAt:          &publishedAt,
	}

	id, err := s.repo.CreateVideo(ctx, v)
	if err != nil {
		return 0, err
	}
	s.log.Info("created video", slog.Int("id", id), slog.String("slug", videoSlug))
	return id, nil
}

// List возвращает опубликованные видео с необязательным фильтром по категории.
func (s *VideoService) List(ctx context.Context, categoryID *int, limit, offset int) ([]*models.Video, error) {
	return s.repo.ListVideos(ctx, categoryID, limit, offset)
}

// Watch возвращает видео по slug после проверки доступа и засчитывает
// просмотр. Порядок доступа: публичное видео доступно всем; видео без
// требования подписки — любому вошедшему; остальное — профилю с активной
// подпиской, план которой включает видеотеку. Преподаватели и
// администраторы видят всё.
func (s *VideoService) Watch(ctx context.Context, videoSlug string, viewer Viewer) (*models.Video, error) {
	video, err := s.repo.ReadVideoBySlug(ctx, videoSlug)
	if err != nil {
		return nil, err
	}

	allowed, err := s.canAccess(ctx, video, viewer)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, ErrAccessDenied
	}

	if err := s.repo.IncrementVideoViews(ctx, video.ID); err != nil {
		s.log.Warn("failed to count view", slog.Int("video_id", video.ID), sl.Err(err))
	} else {
		video.ViewsCount++
	}
	return video, nil
}

// Like засчитывает лайк видео.
func (s *VideoService) Like(ctx context.Context, id int) error {
	return s.repo.IncrementVideoLikes(ctx, id)
}

func (s *VideoService) canAccess(ctx context.Context, video *models.Video, viewer Viewer) (bool, error) {
	if video.IsPublic {
		return true, nil
	}
	if viewer.UserUID == "" {
		return false, nil
	}
	if viewer.Role == models.RoleInstructor || viewer.Role == models.RoleAdmin {
		return true, nil
	}
	if !video.RequiresSubscription {
		return true, nil
	}

	student, err := s.repo.ReadStudentByUserUID(ctx, viewer.UserUID)
	if err != nil {
		return false, nil
	}
	return s.repo.HasActiveVideoSubscription(ctx, student.ID)
}
