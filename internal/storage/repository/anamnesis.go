package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/bellaforma/studio-membership/internal/models"
)

// UpsertAnamnesis создаёт или заменяет анкету здоровья ученицы.
// Связь один-к-одному обеспечивается уникальным индексом по student_id;
// повторная запись перезаписывает существующую анкету.
func (s *Storage) UpsertAnamnesis(ctx context.Context, a models.Anamnesis) (int, error) {
	const op = "storage.UpsertAnamnesis"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO anamnesis (student_id, main_goal, secondary_goals,
			      has_health_issues, health_issues_description, has_injuries,
			      injuries_description, has_surgeries, surgeries_description,
			      takes_medication, medication_list, activity_level, previous_exercises,
			      smoker, alcohol_consumption, sleep_hours, observations,
			      created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, now(), now())
			  ON CONFLICT (student_id) DO UPDATE SET
			      main_goal = EXCLUDED.main_goal,
			      secondary_goals = EXCLUDED.secondary_goals,
			      has_health_issues = EXCLUDED.has_health_issues,
			      health_issues_description = EXCLUDED.health_issues_description,
			      has_injuries = EXCLUDED.has_injuries,
			      injuries_description = EXCLUDED.injuries_description,
			      has_surgeries = EXCLUDED.has_surgeries,
			      surgeries_description = EXCLUDED.surgeries_description,
			      takes_medication = EXCLUDED.takes_medication,
			      medication_list = EXCLUDED.medication_list,
			      activity_level = EXCLUDED.activity_level,
			      previous_exercises = EXCLUDED.previous_exercises,
			      smoker = EXCLUDED.smoker,
			      alcohol_consumption = EXCLUDED.alcohol_consumption,
			      sleep_hours = EXCLUDED.sleep_hours,
			      observations = EXCLUDED.observations,
			      updated_at = now()
			  RETURNING id`
	var id int
	err := s.DB.QueryRowContext(ctx, query,
		a.StudentID, a.MainGoal, a.SecondaryGoals, a.HasHealthIssues,
		a.HealthIssuesDescription, a.HasInjuries, a.InjuriesDescription,
		a.HasSurgeries, a.SurgeriesDescription, a.TakesMedication, a.MedicationList,
		a.ActivityLevel, a.PreviousExercises, a.Smoker, a.AlcoholConsumption,
		a.SleepHours, a.Observations).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, translateError(err))
	}
	return id, nil
}

// ReadAnamnesis возвращает анкету по ID профиля ученицы.
func (s *Storage) ReadAnamnesis(ctx context.Context, studentID int) (*models.Anamnesis, error) {
	const op = "storage.ReadAnamnesis"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, student_id, main_goal, secondary_goals, has_health_issues,
			      health_issues_description, has_injuries, injuries_description,
			      has_surgeries, surgeries_description, takes_medication, medication_list,
			      activity_level, previous_exercises, smoker, alcohol_consumption,
			      sleep_hours, observations, created_at, updated_at
			  FROM anamnesis WHERE student_id = $1`
	row := s.DB.QueryRowContext(ctx, query, studentID)

	var item models.Anamnesis
	var sleepHours sql.NullInt64
	if err := row.Scan(&item.ID, &item.StudentID, &item.MainGoal, &item.SecondaryGoals,
		&item.HasHealthIssues, &item.HealthIssuesDescription, &item.HasInjuries,
		&item.InjuriesDescription, &item.HasSurgeries, &item.SurgeriesDescription,
		&item.TakesMedication, &item.MedicationList, &item.ActivityLevel,
		&item.PreviousExercises, &item.Smoker, &item.AlcoholConsumption,
		&sleepHours, &item.Observations, &item.CreatedAt, &item.UpdatedAt); err != nil {
		return nil, fmt.Errorf("%s: %w", op, translateError(err))
	}
	if sleepHours.Valid {
		v := int(sleepHours.Int64)
		item.SleepHours = &v
	}
	return &item, nil
}
