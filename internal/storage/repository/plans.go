package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/bellaforma/studio-membership/internal/models"
)

// CreatePlan вставляет новый план и возвращает его ID.
// Список преимуществ сериализуется в jsonb с сохранением порядка.
func (s *Storage) CreatePlan(ctx context.Context, plan models.Plan) (int, error) {
	const op = "storage.CreatePlan"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	benefits, err := json.Marshal(plan.Benefits)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	query := `INSERT INTO plans (name, slug, description, price, plan_type, benefits,
			      classes_per_week, has_video_access, is_active, display_order, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, now())
			  RETURNING id`
	var newID int
	err = s.DB.QueryRowContext(ctx, query,
		plan.Name, plan.Slug, plan.Description, plan.Price, plan.PlanType, benefits,
		plan.ClassesPerWeek, plan.HasVideoAccess, plan.IsActive, plan.Order).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, translateError(err))
	}
	return newID, nil
}

// ReadPlan возвращает план по ID.
func (s *Storage) ReadPlan(ctx context.Context, id int) (*models.Plan, error) {
	const op = "storage.ReadPlan"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, name, slug, description, price, plan_type, benefits,
			      classes_per_week, has_video_access, is_active, display_order, created_at
			  FROM plans WHERE id = $1`
	return s.scanPlan(s.DB.QueryRowContext(ctx, query, id), op)
}

// ListPlans возвращает активные планы в порядке display_order, затем по цене.
func (s *Storage) ListPlans(ctx context.Context) ([]*models.Plan, error) {
	const op = "storage.ListPlans"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, name, slug, description, price, plan_type, benefits,
			      classes_per_week, has_video_access, is_active, display_order, created_at
			  FROM plans
			  WHERE is_active = true
			  ORDER BY display_order, price`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Plan
	for rows.Next() {
		item, err := scanPlanRow(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdatePlan обновляет план по ID и возвращает количество изменённых строк.
func (s *Storage) UpdatePlan(ctx context.Context, plan models.Plan, id int) (int, error) {
	const op = "storage.UpdatePlan"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	benefits, err := json.Marshal(plan.Benefits)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	query := `UPDATE plans
			  SET name = $1, slug = $2, description = $3, price = $4, plan_type = $5,
			      benefits = $6, classes_per_week = $7, has_video_access = $8,
			      is_active = $9, display_order = $10, updated_at = now()
			  WHERE id = $11`
	result, err := s.DB.ExecContext(ctx, query,
		plan.Name, plan.Slug, plan.Description, plan.Price, plan.PlanType, benefits,
		plan.ClassesPerWeek, plan.HasVideoAccess, plan.IsActive, plan.Order, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, translateError(err))
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// RemovePlan удаляет план. Ссылки из профилей, платежей и подписок
// обнуляются на уровне схемы, история не удаляется.
func (s *Storage) RemovePlan(ctx context.Context, id int) (int, error) {
	const op = "storage.RemovePlan"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	result, err := s.DB.ExecContext(ctx, `DELETE FROM plans WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, translateError(err))
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

func scanPlanRow(row rowScanner) (*models.Plan, error) {
	var item models.Plan
	var benefits []byte
	var classesPerWeek sql.NullInt64
	if err := row.Scan(&item.ID, &item.Name, &item.Slug, &item.Description, &item.Price,
		&item.PlanType, &benefits, &classesPerWeek, &item.HasVideoAccess,
		&item.IsActive, &item.Order, &item.CreatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(benefits, &item.Benefits); err != nil {
		return nil, err
	}
	if classesPerWeek.Valid {
		v := int(classesPerWeek.Int64)
		item.ClassesPerWeek = &v
	}
	return &item, nil
}

func (s *Storage) scanPlan(row *sql.Row, op string) (*models.Plan, error) {
	item, err := scanPlanRow(row)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, translateError(err))
	}
	return item, nil
}
