// Package services содержит бизнес-логику снимков измерений.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bellaforma/studio-membership/internal/models"
)

// MeasurementRepository определяет методы для работы с измерениями в хранилище.
type MeasurementRepository interface {
	// CreateMeasurement добавляет снимок, вычисляя BMI, и возвращает его ID.
	CreateMeasurement(ctx context.Context, m models.Measurement) (int, error)
	// UpdateMeasurement обновляет снимок по ID, пересчитывая BMI.
	UpdateMeasurement(ctx context.Context, m models.Measurement, id int) (int, error)
	// ReadMeasurement возвращает снимок по ID.
	ReadMeasurement(ctx context.Context, id int) (*models.Measurement, error)
	// ListMeasurements возвращает снимки профиля с пагинацией.
	ListMeasurements(ctx context.Context, studentID, limit, offset int) ([]*models.Measurement, error)
}

// MeasurementService реализует бизнес-логику измерений.
type MeasurementService struct {
	repo MeasurementRepository
	log  *slog.Logger
}

// NewMeasurementService создает новый экземпляр MeasurementService.
func NewMeasurementService(repo MeasurementRepository, log *slog.Logger) *MeasurementService {
	return &MeasurementService{
		repo: repo,
		log:  log,
	}
}

// Create создает снимок измерений. BMI вычисляется хранилищем в том же
// операторе, что и запись веса и роста.
func (s *MeasurementService) Create(ctx context.Context, studentID int, req models.DummyMeasurement) (int, error) {
	m, err := buildMeasurement(studentID, req)
	if err != nil {
		return 0, err
	}

	id, err := s.repo.CreateMeasurement(ctx, *m)
	if err != nil {
		return 0, err
	}
	s.log.Info("created measurement", slog.Int("id", id), slog.Int("student_id", studentID))
	return id, nil
}

// Update обновляет снимок измерений с пересчётом BMI.
func (s *MeasurementService) Update(ctx context.Context, studentID, id int, req models.DummyMeasurement) (int, error) {
	m, err := buildMeasurement(studentID, req)
	if err != nil {
		return 0, err
	}

	res, err := s.repo.UpdateMeasurement(ctx, *m, id)
	if err != nil {
		return 0, err
	}
	s.log.Info("updated measurement", slog.Int("id", id))
	return res, nil
}

// Read возвращает снимок по ID.
func (s *MeasurementService) Read(ctx context.Context, id int) (*models.Measurement, error) {
	return s.repo.ReadMeasurement(ctx, id)
}

// List возвращает снимки профиля по дате измерения в обратном порядке.
func (s *MeasurementService) List(ctx context.Context, studentID, limit, offset int) ([]*models.Measurement, error) {
	return s.repo.ListMeasurements(ctx, studentID, limit, offset)
}

func buildMeasurement(studentID int, req models.DummyMeasurement) (*models.Measurement, error) {
	weight, err := decimal.NewFromString(req.Weight)
	if err != nil {
		return nil, fmt.Errorf("invalid weight: %w", err)
	}
	if !weight.IsPositive() {
		return nil, fmt.Errorf("weight must be positive")
	}

	measurementDate := time.Now().UTC().Truncate(24 * time.Hour)
	if req.MeasurementDate != "" {
		measurementDate, err = time.Parse("2006-01-02", req.MeasurementDate)
		if err != nil {
			return nil, fmt.Errorf("invalid measurement date: %w", err)
		}
	}

	m := models.Measurement{
		StudentID:       studentID,
		MeasurementDate: measurementDate,
		Weight:          weight,
		Observations:    req.Observations,
	}

	fields := []struct {
		name string
		src  *string
		dst  **decimal.Decimal
	}{
		{"height", req.Height, &m.Height},
		{"neck", req.Neck, &m.Neck},
		{"chest", req.Chest, &m.Chest},
		{"waist", req.Waist, &m.Waist},
		{"abdomen", req.Abdomen, &m.Abdomen},
		{"hip", req.Hip, &m.Hip},
		{"right_arm", req.RightArm, &m.RightArm},
		{"left_arm", req.LeftArm, &m.LeftArm},
		{"right_thigh", req.RightThigh, &m.RightThigh},
		{"left_thigh", req.LeftThigh, &m.LeftThigh},
		{"right_calf", req.RightCalf, &m.RightCalf},
		{"left_calf", req.LeftCalf, &m.LeftCalf},
		{"body_fat_percentage", req.BodyFatPercentage, &m.BodyFatPercentage},
		{"muscle_mass_percentage", req.MuscleMassPercentage, &m.MuscleMassPercentage},
	}
	for _, f := range fields {
		if f.src == nil {
			continue
		}
		val, err := decimal.NewFromString(*f.src)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", f.name, err)
		}
		if val.IsNegative() {
			return nil, fmt.Errorf("%s must not be negative", f.name)
		}
		*f.dst = &val
	}

	return &m, nil
}
