package services

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/bellaforma/studio-membership/internal/lib/sl"
	"github.com/bellaforma/studio-membership/internal/models"
	"github.com/bellaforma/studio-membership/internal/paymentgateway"
)

// PaymentStatusChanged — сообщение о смене статуса платежа для шины событий.
type PaymentStatusChanged struct {
	PaymentID        int       `json:"payment_id"`
	StudentID        int       `json:"student_id"`
	GatewayPaymentID string    `json:"gateway_payment_id"`
	Status           string    `json:"status"`
	EventAt          time.Time `json:"event_at"`
}

// VerifyWebhookSignature проверяет подпись тела вебхука у процессора.
func (s *PaymentService) VerifyWebhookSignature(payload []byte, signature string) bool {
	return s.gateway.VerifySignature(payload, signature)
}

// ProcessWebhookEvent применяет событие процессора к платежу. Применение
// идемпотентно: повторные и опоздавшие доставки упорядочиваются по времени
// события у процессора, устаревшие события игнорируются без ошибки.
// Событие, изменившее платёж, публикуется в шину биллинга.
func (s *PaymentService) ProcessWebhookEvent(ctx context.Context, event paymentgateway.WebhookEvent, rawPayload []byte) error {
	status := mapGatewayStatus(event.Status)

	var paymentDate *time.Time
	if !event.PaymentDate.IsZero() {
		paymentDate = &event.PaymentDate
	}

	applied, err := s.repo.ApplyGatewayEvent(ctx, event.PaymentID, status,
		event.Status, json.RawMessage(rawPayload), paymentDate, event.EventAt)
	if err != nil {
		return err
	}
	if applied == 0 {
		s.log.Info("skipped stale webhook event",
			slog.String("gateway_payment_id", event.PaymentID),
			slog.Time("event_at", event.EventAt))
		return nil
	}

	s.log.Info("applied webhook event",
		slog.String("gateway_payment_id", event.PaymentID),
		slog.String("status", string(status)))

	payment, err := s.repo.ReadPaymentByGatewayID(ctx, event.PaymentID)
	if err != nil {
		s.log.Warn("failed to read payment after webhook", sl.Err(err))
		return nil
	}

	msg := PaymentStatusChanged{
		PaymentID:        payment.ID,
		StudentID:        payment.StudentID,
		GatewayPaymentID: event.PaymentID,
		Status:           string(status),
		EventAt:          event.EventAt,
	}
	if err := s.publisher.Publish("payment.status.changed", msg); err != nil {
		s.log.Warn("failed to publish payment status event", sl.Err(err))
	}
	return nil
}

// mapGatewayStatus переводит статус процессора в локальный статус платежа.
// Незнакомый статус оставляет платёж pending, сырой статус сохраняется как есть.
func mapGatewayStatus(gatewayStatus string) models.PaymentStatus {
	switch gatewayStatus {
	case "approved", "succeeded", "paid":
		return models.PaymentApproved
	case "rejected", "declined", "failed":
		return models.PaymentRejected
	case "cancelled", "canceled":
		return models.PaymentCancelled
	case "refunded", "charged_back":
		return models.PaymentRefunded
	default:
		return models.PaymentPending
	}
}
