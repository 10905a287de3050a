package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/bellaforma/studio-membership/internal/models"
)

// CreateSubscription вставляет подписку ученицы. На профиль допускается не
// более одной подписки — повтор возвращает ErrUniqueViolation.
func (s *Storage) CreateSubscription(ctx context.Context, sub models.Subscription) (int, error) {
	const op = "storage.CreateSubscription"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO subscriptions (student_id, plan_id, is_active, start_date, end_date,
			      gateway_subscription_id, auto_renewal, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, now(), now())
			  RETURNING id`
	var newID int
	err := s.DB.QueryRowContext(ctx, query,
		sub.StudentID, sub.PlanID, sub.IsActive, sub.StartDate, sub.EndDate,
		sub.GatewaySubscriptionID, sub.AutoRenewal).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, translateError(err))
	}
	return newID, nil
}

// ReadSubscriptionByStudent возвращает подписку по профилю ученицы.
func (s *Storage) ReadSubscriptionByStudent(ctx context.Context, studentID int) (*models.Subscription, error) {
	const op = "storage.ReadSubscriptionByStudent"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := subscriptionColumns + ` WHERE student_id = $1`
	item, err := scanSubscription(s.DB.QueryRowContext(ctx, query, studentID))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, translateError(err))
	}
	return item, nil
}

// CancelSubscription деактивирует подписку, фиксируя момент и причину отмены.
// Повторная отмена уже неактивной подписки ничего не меняет.
func (s *Storage) CancelSubscription(ctx context.Context, studentID int, reason string, cancelledAt time.Time) (int, error) {
	const op = "storage.CancelSubscription"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE subscriptions
			  SET is_active = false, auto_renewal = false, cancelled_at = $1,
			      cancellation_reason = $2, end_date = COALESCE(end_date, $1), updated_at = now()
			  WHERE student_id = $3 AND is_active = true`
	result, err := s.DB.ExecContext(ctx, query, cancelledAt, reason, studentID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, translateError(err))
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// HasActiveVideoSubscription сообщает, даёт ли подписка ученицы доступ к
// видеотеке: подписка активна и её план включает доступ к видео.
func (s *Storage) HasActiveVideoSubscription(ctx context.Context, studentID int) (bool, error) {
	const op = "storage.HasActiveVideoSubscription"
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT EXISTS (
			      SELECT 1 FROM subscriptions s
			      JOIN plans p ON p.id = s.plan_id
			      WHERE s.student_id = $1 AND s.is_active = true AND p.has_video_access = true
			        AND (s.end_date IS NULL OR s.end_date >= now())
			  )`
	var ok bool
	if err := s.DB.QueryRowContext(ctx, query, studentID).Scan(&ok); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return ok, nil
}

const subscriptionColumns = `SELECT id, student_id, plan_id, is_active, start_date, end_date,
			      gateway_subscription_id, auto_renewal, cancelled_at, cancellation_reason,
			      created_at, updated_at
			  FROM subscriptions`

func scanSubscription(row rowScanner) (*models.Subscription, error) {
	var item models.Subscription
	var planID sql.NullInt64
	var endDate, cancelledAt sql.NullTime
	if err := row.Scan(&item.ID, &item.StudentID, &planID, &item.IsActive, &item.StartDate,
		&endDate, &item.GatewaySubscriptionID, &item.AutoRenewal, &cancelledAt,
		&item.CancellationReason, &item.CreatedAt, &item.UpdatedAt); err != nil {
		return nil, err
	}
	if planID.Valid {
		v := int(planID.Int64)
		item.PlanID = &v
	}
	if endDate.Valid {
		item.EndDate = &endDate.Time
	}
	if cancelledAt.Valid {
		item.CancelledAt = &cancelledAt.Time
	}
	return &item, nil
}
