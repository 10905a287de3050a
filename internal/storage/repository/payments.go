package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/bellaforma/studio-membership/internal/models"
)

// CreatePayment вставляет новый платёж и возвращает его ID.
func (s *Storage) CreatePayment(ctx context.Context, p models.Payment) (int, error) {
	const op = "storage.CreatePayment"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO payments (student_id, plan_id, amount, due_date, payment_date,
			      status, gateway_payment_id, gateway_status, gateway_response,
			      gateway_event_at, payment_method, reference_code, notes,
			      created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, now(), now())
			  RETURNING id`
	var newID int
	err := s.DB.QueryRowContext(ctx, query,
		p.StudentID, p.PlanID, p.Amount, p.DueDate, p.PaymentDate, p.Status,
		p.GatewayPaymentID, p.GatewayStatus, nullableJSON(p.GatewayResponse),
		p.GatewayEventAt, p.PaymentMethod, p.ReferenceCode, p.Notes).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, translateError(err))
	}
	return newID, nil
}

// ReadPayment возвращает платёж по ID.
func (s *Storage) ReadPayment(ctx context.Context, id int) (*models.Payment, error) {
	const op = "storage.ReadPayment"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := paymentColumns + ` WHERE id = $1`
	item, err := scanPayment(s.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, translateError(err))
	}
	return item, nil
}

// ReadPaymentByGatewayID возвращает платёж по идентификатору транзакции процессора.
func (s *Storage) ReadPaymentByGatewayID(ctx context.Context, gatewayPaymentID string) (*models.Payment, error) {
	const op = "storage.ReadPaymentByGatewayID"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := paymentColumns + ` WHERE gateway_payment_id = $1`
	item, err := scanPayment(s.DB.QueryRowContext(ctx, query, gatewayPaymentID))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, translateError(err))
	}
	return item, nil
}

// ListPayments возвращает платежи ученицы по дате оплаты в обратном порядке.
func (s *Storage) ListPayments(ctx context.Context, studentID, limit, offset int) ([]*models.Payment, error) {
	const op = "storage.ListPayments"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := paymentColumns + `
			  WHERE student_id = $1
			  ORDER BY due_date DESC
			  LIMIT $2 OFFSET $3`
	rows, err := s.DB.QueryContext(ctx, query, studentID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Payment
	for rows.Next() {
		item, err := scanPayment(rows)
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

// AttachGatewayPayment записывает данные транзакции процессора после
// создания платежа на его стороне. Статус и сырой ответ сохраняются как есть.
func (s *Storage) AttachGatewayPayment(ctx context.Context, id int, gatewayPaymentID, gatewayStatus string,
	rawResponse json.RawMessage, status models.PaymentStatus) (int, error) {
	const op = "storage.AttachGatewayPayment"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE payments
			  SET gateway_payment_id = $1, gateway_status = $2, gateway_response = $3,
			      status = $4, updated_at = now()
			  WHERE id = $5`
	result, err := s.DB.ExecContext(ctx, query,
		gatewayPaymentID, gatewayStatus, nullableJSON(rawResponse), status, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, translateError(err))
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// ApplyGatewayEvent применяет событие процессора к платежу.
// Применение идемпотентно: событие с меткой времени не новее уже применённой
// игнорируется, порядок прибытия не важен — побеждает последняя запись
// по времени процессора, не по времени доставки.
func (s *Storage) ApplyGatewayEvent(ctx context.Context, gatewayPaymentID string,
	status models.PaymentStatus, gatewayStatus string, rawPayload json.RawMessage,
	paymentDate *time.Time, eventAt time.Time) (int, error) {
	const op = "storage.ApplyGatewayEvent"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE payments
			  SET status = $1, gateway_status = $2, gateway_response = $3,
			      payment_date = COALESCE($4, payment_date), gateway_event_at = $5,
			      updated_at = now()
			  WHERE gateway_payment_id = $6
			    AND (gateway_event_at IS NULL OR gateway_event_at <= $5)`
	result, err := s.DB.ExecContext(ctx, query,
		status, gatewayStatus, nullableJSON(rawPayload), paymentDate, eventAt, gatewayPaymentID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, translateError(err))
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

const paymentColumns = `SELECT id, student_id, plan_id, amount, due_date, payment_date,
			      status, gateway_payment_id, gateway_status, gateway_response,
			      gateway_event_at, payment_method, reference_code, notes,
			      created_at, updated_at
			  FROM payments`

func scanPayment(row rowScanner) (*models.Payment, error) {
	var item models.Payment
	var planID sql.NullInt64
	var paymentDate, gatewayEventAt sql.NullTime
	var gatewayResponse []byte
	if err := row.Scan(&item.ID, &item.StudentID, &planID, &item.Amount, &item.DueDate,
		&paymentDate, &item.Status, &item.GatewayPaymentID, &item.GatewayStatus,
		&gatewayResponse, &gatewayEventAt, &item.PaymentMethod, &item.ReferenceCode,
		&item.Notes, &item.CreatedAt, &item.UpdatedAt); err != nil {
		return nil, err
	}
	if planID.Valid {
		v := int(planID.Int64)
		item.PlanID = &v
	}
	if paymentDate.Valid {
		item.PaymentDate = &paymentDate.Time
	}
	if gatewayEventAt.Valid {
		item.GatewayEventAt = &gatewayEventAt.Time
	}
	if len(gatewayResponse) > 0 {
		item.GatewayResponse = json.RawMessage(gatewayResponse)
	}
	return &item, nil
}

func nullableJSON(raw json.RawMessage) any {
	if len(raw) == 0 {
		return nil
	}
	return []byte(raw)
}
