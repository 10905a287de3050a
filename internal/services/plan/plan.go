// Package services содержит бизнес-логику каталога планов и его кеширование.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gosimple/slug"
	"github.com/shopspring/decimal"

	"github.com/bellaforma/studio-membership/internal/models"
)

const catalogCacheKey = "plans:active"

// PlanRepository определяет методы для работы с планами в хранилище.
type PlanRepository interface {
	// CreatePlan добавляет новый план и возвращает его ID.
	CreatePlan(ctx context.Context, plan models.Plan) (int, error)
	// ReadPlan возвращает план по ID.
	ReadPlan(ctx context.Context, id int) (*models.Plan, error)
	// ListPlans возвращает активные планы в порядке каталога.
	ListPlans(ctx context.Context) ([]*models.Plan, error)
	// UpdatePlan обновляет план по ID.
	UpdatePlan(ctx context.Context, plan models.Plan, id int) (int, error)
	// RemovePlan удаляет план по ID.
	RemovePlan(ctx context.Context, id int) (int, error)
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

// PlanService реализует бизнес-логику каталога планов, включая кеширование.
type PlanService struct {
	repo  PlanRepository
	cache Cache
	log   *slog.Logger
}

// NewPlanService создает новый экземпляр PlanService.
func NewPlanService(repo PlanRepository, cache Cache, log *slog.Logger) *PlanService {
	return &PlanService{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

// Create создает новый план с автоматическим slug и возвращает его ID.
func (s *PlanService) Create(ctx context.Context, req models.DummyPlan) (int, error) {
	price, err := decimal.NewFromString(req.Price)
	if err != nil {
		return 0, fmt.Errorf("invalid price: %w", err)
	}
	if price.IsNegative() {
		return 0, fmt.Errorf("price must not be negative")
	}

	planSlug := req.Slug
	if planSlug == "" {
		planSlug = slug.Make(req.Name)
	}

	hasVideoAccess := false
	if req.HasVideoAccess != nil {
		hasVideoAccess = *req.HasVideoAccess
	}
	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	plan := models.Plan{
		Name:           req.Name,
		Slug:           planSlug,
		Description:    req.Description,
		Price:          price.RoundBank(2),
		PlanType:       models.PlanType(req.PlanType),
		Benefits:       req.Benefits,
		ClassesPerWeek: req.ClassesPerWeek,
		HasVideoAccess: hasVideoAccess,
		IsActive:       isActive,
		Order:          req.Order,
	}

	id, err := s.repo.CreatePlan(ctx, plan)
	if err != nil {
		return 0, err
	}
	s.log.Info("created new plan", slog.Int("id", id), slog.String("slug", planSlug))

	if err := s.cache.Invalidate(catalogCacheKey); err != nil {
		s.log.Warn("failed to invalidate plan catalog cache", slog.Any("err", err))
	}
	return id, nil
}

// Read возвращает план по ID.
func (s *PlanService) Read(ctx context.Context, id int) (*models.Plan, error) {
	return s.repo.ReadPlan(ctx, id)
}

// List возвращает активные планы, используя кеш каталога или репозиторий.
func (s *PlanService) List(ctx context.Context) ([]*models.Plan, error) {
	var result []*models.Plan
	found, err := s.cache.Get(catalogCacheKey, &result)
	if err != nil {
		s.log.Warn("failed to read plan catalog cache", slog.Any("err", err))
	}
	if found {
		return result, nil
	}

	result, err = s.repo.ListPlans(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(catalogCacheKey, result, time.Hour); err != nil {
		s.log.Warn("failed to cache plan catalog", slog.Any("err", err))
	}
	return result, nil
}

// Update обновляет план и инвалидирует кеш каталога.
func (s *PlanService) Update(ctx context.Context, req models.DummyPlan, id int) (int, error) {
	price, err := decimal.NewFromString(req.Price)
	if err != nil {
		return 0, fmt.Errorf("invalid price: %w", err)
	}
	if price.IsNegative() {
		return 0, fmt.Errorf("price must not be negative")
	}

	planSlug := req.Slug
	if planSlug == "" {
		planSlug = slug.Make(req.Name)
	}

	hasVideoAccess := false
	if req.HasVideoAccess != nil {
		hasVideoAccess = *req.HasVideoAccess
	}
	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	plan := models.Plan{
		Name:           req.Name,
		Slug:           planSlug,
		Description:    req.Description,
		Price:          price.RoundBank(2),
		PlanType:       models.PlanType(req.PlanType),
		Benefits:       req.Benefits,
		ClassesPerWeek: req.ClassesPerWeek,
		HasVideoAccess: hasVideoAccess,
		IsActive:       isActive,
		Order:          req.Order,
	}

	res, err := s.repo.UpdatePlan(ctx, plan, id)
	if err != nil {
		return 0, err
	}
	s.log.Info("updated plan", slog.Int("id", id))

	if err := s.cache.Invalidate(catalogCacheKey); err != nil {
		s.log.Warn("failed to invalidate plan catalog cache", slog.Any("err", err))
	}
	return res, nil
}

// Remove удаляет план и инвалидирует кеш каталога. Ссылки из профилей,
// платежей и подписок обнуляются на уровне хранилища.
func (s *PlanService) Remove(ctx context.Context, id int) (int, error) {
	count, err := s.repo.RemovePlan(ctx, id)
	if err != nil {
		return 0, err
	}
	if err := s.cache.Invalidate(catalogCacheKey); err != nil {
		s.log.Warn("failed to invalidate plan catalog cache", slog.Any("err", err))
	}
	return count, nil
}
