// Package services содержит бизнес-логику платежей и обработку событий
// платёжного процессора.
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bellaforma/studio-membership/internal/lib/sl"
	"github.com/bellaforma/studio-membership/internal/models"
	"github.com/bellaforma/studio-membership/internal/paymentgateway"
)

// PaymentRepository определяет методы для работы с платежами в хранилище.
type PaymentRepository interface {
	// CreatePayment добавляет новый платёж и возвращает его ID.
	CreatePayment(ctx context.Context, p models.Payment) (int, error)
	// ReadPayment возвращает платёж по ID.
	ReadPayment(ctx context.Context, id int) (*models.Payment, error)
	// ReadPaymentByGatewayID возвращает платёж по ID транзакции процессора.
	ReadPaymentByGatewayID(ctx context.Context, gatewayPaymentID string) (*models.Payment, error)
	// ListPayments возвращает платежи профиля с пагинацией.
	ListPayments(ctx context.Context, studentID, limit, offset int) ([]*models.Payment, error)
	// AttachGatewayPayment записывает данные транзакции процессора.
	AttachGatewayPayment(ctx context.Context, id int, gatewayPaymentID, gatewayStatus string,
		rawResponse json.RawMessage, status models.PaymentStatus) (int, error)
	// ApplyGatewayEvent идемпотентно применяет событие процессора.
	ApplyGatewayEvent(ctx context.Context, gatewayPaymentID string, status models.PaymentStatus,
		gatewayStatus string, rawPayload json.RawMessage, paymentDate *time.Time, eventAt time.Time) (int, error)
}

// Gateway описывает вызовы платёжного процессора.
type Gateway interface {
	// CreateCharge создаёт платёж на стороне процессора.
	CreateCharge(ctx context.Context, req paymentgateway.CreateChargeRequest) (*paymentgateway.CreateChargeResponse, error)
	// VerifySignature проверяет подпись тела вебхука.
	VerifySignature(payload []byte, signature string) bool
}

// EventPublisher публикует события биллинга во внешнюю шину.
type EventPublisher interface {
	Publish(routingKey string, message any) error
}

// PaymentService реализует бизнес-логику платежей.
type PaymentService struct {
	repo      PaymentRepository
	gateway   Gateway
	publisher EventPublisher
	log       *slog.Logger
}

// NewPaymentService создает новый экземпляр PaymentService.
func NewPaymentService(repo PaymentRepository, gateway Gateway, publisher EventPublisher, log *slog.Logger) *PaymentService {
	return &PaymentService{
		repo:      repo,
		gateway:   gateway,
		publisher: publisher,
		log:       log,
	}
}

// Create создает платёж: сначала локальная запись со статусом pending,
// затем попытка создать транзакцию у процессора. Ошибка процессора не
// отменяет локальную запись — она фиксируется в зеркальных полях, а
// платёж остаётся pending до следующей попытки или события вебхука.
func (s *PaymentService) Create(ctx context.Context, req models.DummyPayment) (int, error) {
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return 0, fmt.Errorf("invalid amount: %w", err)
	}
	if amount.IsNegative() {
		return 0, fmt.Errorf("amount must not be negative")
	}
	dueDate, err := time.Parse("2006-01-02", req.DueDate)
	if err != nil {
		return 0, fmt.Errorf("invalid due date: %w", err)
	}

	payment := models.Payment{
		StudentID:     req.StudentID,
		PlanID:        req.PlanID,
		Amount:        amount.RoundBank(2),
		DueDate:       dueDate,
		Status:        models.PaymentPending,
		PaymentMethod: req.PaymentMethod,
		ReferenceCode: fmt.Sprintf("PAY-%d-%s", req.StudentID, dueDate.Format("200601")),
		Notes:         req.Notes,
	}

	id, err := s.repo.CreatePayment(ctx, payment)
	if err != nil {
		return 0, err
	}
	s.log.Info("created payment", slog.Int("id", id), slog.Int("student_id", req.StudentID))

	chargeResp, err := s.gateway.CreateCharge(ctx, paymentgateway.CreateChargeRequest{
		Amount: paymentgateway.Amount{
			Value:    payment.Amount.StringFixed(2),
			Currency: "BRL",
		},
		PaymentMethod:     req.PaymentMethod,
		ExternalReference: payment.ReferenceCode,
		Metadata: map[string]string{
			"payment_id": fmt.Sprintf("%d", id),
			"student_id": fmt.Sprintf("%d", req.StudentID),
		},
	})
	if err != nil {
		s.log.Warn("payment gateway charge failed", slog.Int("id", id), sl.Err(err))
		if _, attachErr := s.repo.AttachGatewayPayment(ctx, id, "", "request_failed",
			nil, models.PaymentPending); attachErr != nil {
			s.log.Error("failed to record gateway failure", slog.Int("id", id), sl.Err(attachErr))
		}
		return id, nil
	}

	raw, err := json.Marshal(chargeResp)
	if err != nil {
		raw = nil
	}
	if _, err := s.repo.AttachGatewayPayment(ctx, id, chargeResp.ID, chargeResp.Status,
		raw, models.PaymentPending); err != nil {
		s.log.Error("failed to attach gateway payment", slog.Int("id", id), sl.Err(err))
	}
	return id, nil
}

// Read возвращает платёж по ID.
func (s *PaymentService) Read(ctx context.Context, id int) (*models.Payment, error) {
	return s.repo.ReadPayment(ctx, id)
}

// List возвращает платежи профиля по сроку оплаты в обратном порядке.
func (s *PaymentService) List(ctx context.Context, studentID, limit, offset int) ([]*models.Payment, error) {
	return s.repo.ListPayments(ctx, studentID, limit, offset)
}
