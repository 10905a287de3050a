package repository

import (
	"context"
	"fmt"

	"github.com/bellaforma/studio-membership/internal/models"
)

// CreateCycle вставляет запись отслеживаемого цикла и возвращает её ID.
// Границы длительности цикла проверяются CHECK-ограничением схемы.
func (s *Storage) CreateCycle(ctx context.Context, c models.MenstrualCycle) (int, error) {
	const op = "storage.CreateCycle"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO menstrual_cycles (student_id, cycle_start_date, cycle_duration,
			      has_symptoms, symptoms_description, symptoms_intensity, observations, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, now())
			  RETURNING id`
	var newID int
	err := s.DB.QueryRowContext(ctx, query,
		c.StudentID, c.CycleStartDate, c.CycleDuration, c.HasSymptoms,
		c.SymptomsDescription, c.SymptomsIntensity, c.Observations).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, translateError(err))
	}
	return newID, nil
}

// ListCycles возвращает записи циклов ученицы по дате начала в обратном порядке.
func (s *Storage) ListCycles(ctx context.Context, studentID, limit, offset int) ([]*models.MenstrualCycle, error) {
	const op = "storage.ListCycles"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, student_id, cycle_start_date, cycle_duration, has_symptoms,
			      symptoms_description, symptoms_intensity, observations, created_at
			  FROM menstrual_cycles
			  WHERE student_id = $1
			  ORDER BY cycle_start_date DESC
			  LIMIT $2 OFFSET $3`
	rows, err := s.DB.QueryContext(ctx, query, studentID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.MenstrualCycle
	for rows.Next() {
		var item models.MenstrualCycle
		if err := rows.Scan(&item.ID, &item.StudentID, &item.CycleStartDate,
			&item.CycleDuration, &item.HasSymptoms, &item.SymptomsDescription,
			&item.SymptomsIntensity, &item.Observations, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
