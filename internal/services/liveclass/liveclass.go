// Package services содержит бизнес-логику прямых трансляций: расписание,
// запись участниц и переходы статусов.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/bellaforma/studio-membership/internal/models"
)

// ErrInvalidTransition возвращается при недопустимой смене статуса трансляции.
var ErrInvalidTransition = errors.New("invalid live class status transition")

// ErrArchiveBeforeFinish возвращается при попытке привязать архивное видео
// к незавершённой трансляции.
var ErrArchiveBeforeFinish = errors.New("archived video requires finished status")

// LiveClassRepository определяет методы для работы с трансляциями в хранилище.
type LiveClassRepository interface {
	// CreateLiveClass добавляет трансляцию и возвращает её ID.
	CreateLiveClass(ctx context.Context, lc models.LiveClass) (int, error)
	// ReadLiveClass возвращает трансляцию по ID.
	ReadLiveClass(ctx context.Context, id int) (*models.LiveClass, error)
	// ListLiveClasses возвращает трансляции с пагинацией.
	ListLiveClasses(ctx context.Context, status *models.LiveClassStatus, limit, offset int) ([]*models.LiveClass, error)
	// UpdateLiveClassStatus переводит трансляцию в новый статус.
	UpdateLiveClassStatus(ctx context.Context, id int, status models.LiveClassStatus, archivedVideoID *int) (int, error)
	// RegisterParticipant записывает ученицу на трансляцию с учётом лимита.
	RegisterParticipant(ctx context.Context, liveClassID, studentID int) error
	// CountParticipants возвращает число записанных.
	CountParticipants(ctx context.Context, liveClassID int) (int, error)
}

// LiveClassService реализует бизнес-логику трансляций.
type LiveClassService struct {
	repo LiveClassRepository
	log  *slog.Logger
}

// NewLiveClassService создает новый экземпляр LiveClassService.
func NewLiveClassService(repo LiveClassRepository, log *slog.Logger) *LiveClassService {
	return &LiveClassService{
		repo: repo,
		log:  log,
	}
}

// Create создает запланированную трансляцию от имени преподавателя.
func (s *LiveClassService) Create(ctx context.Context, instructorUID string, req models.DummyLiveClass) (int, error) {
	scheduledDate, err := time.Parse(time.RFC3339, req.ScheduledDate)
	if err != nil {
		return 0, fmt.Errorf("invalid scheduled date: %w", err)
	}

	durationMinutes := 60
	if req.DurationMinutes > 0 {
		durationMinutes = req.DurationMinutes
	}
	chatEnabled := true
	if req.ChatEnabled != nil {
		chatEnabled = *req.ChatEnabled
	}

	lc := models.LiveClass{
		Title:           req.Title,
		Description:     req.Description,
		InstructorUID:   instructorUID,
		CategoryID:      req.CategoryID,
		ScheduledDate:   scheduledDate,
		DurationMinutes: durationMinutes,
		StreamURL:       req.StreamURL,
		ChatEnabled:     chatEnabled,
		Status:          models.LiveClassScheduled,
		MaxParticipants: req.MaxParticipants,
	}

	id, err := s.repo.CreateLiveClass(ctx, lc)
	if err != nil {
		return 0, err
	}
	s.log.Info("created live class", slog.Int("id", id), slog.String("instructor", instructorUID))
	return id, nil
}

// Read возвращает трансляцию по ID.
func (s *LiveClassService) Read(ctx context.Context, id int) (*models.LiveClass, error) {
	return s.repo.ReadLiveClass(ctx, id)
}

// List возвращает трансляции по времени начала, с необязательным фильтром
// по статусу.
func (s *LiveClassService) List(ctx context.Context, status string, limit, offset int) ([]*models.LiveClass, error) {
	var statusFilter *models.LiveClassStatus
	if status != "" {
		st := models.LiveClassStatus(status)
		if !st.Valid() {
			return nil, fmt.Errorf("unknown status: %q", status)
		}
		statusFilter = &st
	}
	return s.repo.ListLiveClasses(ctx, statusFilter, limit, offset)
}

// Register записывает ученицу на трансляцию. Запись возможна только
// на запланированную или идущую трансляцию; лимит участников
// контролируется хранилищем.
func (s *LiveClassService) Register(ctx context.Context, liveClassID, studentID int) error {
	lc, err := s.repo.ReadLiveClass(ctx, liveClassID)
	if err != nil {
		return err
	}
	if lc.Status != models.LiveClassScheduled && lc.Status != models.LiveClassLive {
		return fmt.Errorf("live class is not open for registration")
	}

	if err := s.repo.RegisterParticipant(ctx, liveClassID, studentID); err != nil {
		return err
	}
	s.log.Info("registered participant",
		slog.Int("live_class_id", liveClassID), slog.Int("student_id", studentID))
	return nil
}

// UpdateStatus переводит трансляцию в новый статус по жизненному циклу
// scheduled -> live -> finished, с отменой из scheduled или live.
// Архивное видео привязывается только вместе со статусом finished.
func (s *LiveClassService) UpdateStatus(ctx context.Context, id int, req models.DummyLiveClassStatus) (int, error) {
	newStatus := models.LiveClassStatus(req.Status)

	lc, err := s.repo.ReadLiveClass(ctx, id)
	if err != nil {
		return 0, err
	}
	if !transitionAllowed(lc.Status, newStatus) {
		return 0, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, lc.Status, newStatus)
	}
	if req.ArchivedVideoID != nil && newStatus != models.LiveClassFinished {
		return 0, ErrArchiveBeforeFinish
	}

	count, err := s.repo.UpdateLiveClassStatus(ctx, id, newStatus, req.ArchivedVideoID)
	if err != nil {
		return 0, err
	}
	s.log.Info("updated live class status",
		slog.Int("id", id), slog.String("status", string(newStatus)))
	return count, nil
}

func transitionAllowed(from, to models.LiveClassStatus) bool {
	if from == to {
		return true
	}
	switch from {
	case models.LiveClassScheduled:
		return to == models.LiveClassLive || to == models.LiveClassCancelled
	case models.LiveClassLive:
		return to == models.LiveClassFinished || to == models.LiveClassCancelled
	}
	return false
}
