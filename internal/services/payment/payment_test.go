package services

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/bellaforma/studio-membership/internal/models"
	"github.com/bellaforma/studio-membership/internal/paymentgateway"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) CreatePayment(ctx context.Context, p models.Payment) (int, error) {
	args := m.Called(ctx, p)
	return args.Int(0), args.Error(1)
}
func (m *RepoMock) ReadPayment(ctx context.Context, id int) (*models.Payment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Payment), args.Error(1)
}
func (m *RepoMock) ReadPaymentByGatewayID(ctx context.Context, gatewayPaymentID string) (*models.Payment, error) {
	args := m.Called(ctx, gatewayPaymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Payment), args.Error(1)
}
func (m *RepoMock) ListPayments(ctx context.Context, studentID, limit, offset int) ([]*models.Payment, error) {
	args := m.Called(ctx, studentID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Payment), args.Error(1)
}
func (m *RepoMock) AttachGatewayPayment(ctx context.Context, id int, gatewayPaymentID, gatewayStatus string,
	rawResponse json.RawMessage, status models.PaymentStatus) (int, error) {
	args := m.Called(ctx, id, gatewayPaymentID, gatewayStatus, rawResponse, status)
	return args.Int(0), args.Error(1)
}
func (m *RepoMock) ApplyGatewayEvent(ctx context.Context, gatewayPaymentID string, status models.PaymentStatus,
	gatewayStatus string, rawPayload json.RawMessage, paymentDate *time.Time, eventAt time.Time) (int, error) {
	args := m.Called(ctx, gatewayPaymentID, status, gatewayStatus, rawPayload, paymentDate, eventAt)
	return args.Int(0), args.Error(1)
}

type GatewayMock struct{ mock.Mock }

func (m *GatewayMock) CreateCharge(ctx context.Context, req paymentgateway.CreateChargeRequest) (*paymentgateway.CreateChargeResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*paymentgateway.CreateChargeResponse), args.Error(1)
}
func (m *GatewayMock) VerifySignature(payload []byte, signature string) bool {
	args := m.Called(payload, signature)
	return args.Bool(0)
}

type PublisherMock struct{ mock.Mock }

func (m *PublisherMock) Publish(routingKey string, message any) error {
	args := m.Called(routingKey, message)
	return args.Error(0)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestPaymentService_Create(t *testing.T) {
	repo := new(RepoMock)
	gateway := new(GatewayMock)

	repo.On("CreatePayment", mock.Anything, mock.MatchedBy(func(p models.Payment) bool {
		return p.StudentID == 10 && p.Status == models.PaymentPending &&
			p.Amount.Equal(decimal.RequireFromString("150.00"))
	})).Return(21, nil)
	gateway.On("CreateCharge", mock.Anything, mock.MatchedBy(func(req paymentgateway.CreateChargeRequest) bool {
		return req.Amount.Value == "150.00" && req.Amount.Currency == "BRL"
	})).Return(&paymentgateway.CreateChargeResponse{
		ID:     "mp-001",
		Status: "pending",
	}, nil)
	repo.On("AttachGatewayPayment", mock.Anything, 21, "mp-001", "pending",
		mock.Anything, models.PaymentPending).Return(1, nil)

	svc := NewPaymentService(repo, gateway, new(PublisherMock), discardLogger())
	id, err := svc.Create(context.Background(), models.DummyPayment{
		StudentID: 10,
		Amount:    "150.00",
		DueDate:   "2026-09-10",
	})

	assert.NoError(t, err)
	assert.Equal(t, 21, id)
	repo.AssertExpectations(t)
	gateway.AssertExpectations(t)
}

func TestPaymentService_Create_GatewayFailureKeepsPayment(t *testing.T) {
	repo := new(RepoMock)
	gateway := new(GatewayMock)

	repo.On("CreatePayment", mock.Anything, mock.Anything).Return(22, nil)
	gateway.On("CreateCharge", mock.Anything, mock.Anything).
		Return(nil, errors.New("gateway timeout"))
	repo.On("AttachGatewayPayment", mock.Anything, 22, "", "request_failed",
		mock.Anything, models.PaymentPending).Return(1, nil)

	svc := NewPaymentService(repo, gateway, new(PublisherMock), discardLogger())
	id, err := svc.Create(context.Background(), models.DummyPayment{
		StudentID: 10,
		Amount:    "150.00",
		DueDate:   "2026-09-10",
	})

	// отказ процессора не отменяет локальную запись
	assert.NoError(t, err)
	assert.Equal(t, 22, id)
	repo.AssertExpectations(t)
}

func TestPaymentService_Create_InvalidInput(t *testing.T) {
	svc := NewPaymentService(new(RepoMock), new(GatewayMock), new(PublisherMock), discardLogger())

	_, err := svc.Create(context.Background(), models.DummyPayment{
		StudentID: 10, Amount: "abc", DueDate: "2026-09-10",
	})
	assert.Error(t, err)

	_, err = svc.Create(context.Background(), models.DummyPayment{
		StudentID: 10, Amount: "-5", DueDate: "2026-09-10",
	})
	assert.Error(t, err)

	_, err = svc.Create(context.Background(), models.DummyPayment{
		StudentID: 10, Amount: "150.00", DueDate: "10/09/2026",
	})
	assert.Error(t, err)
}

func TestPaymentService_ProcessWebhookEvent(t *testing.T) {
	repo := new(RepoMock)
	publisher := new(PublisherMock)

	eventAt := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	paymentDate := eventAt.Add(-time.Minute)

	repo.On("ApplyGatewayEvent", mock.Anything, "mp-001", models.PaymentApproved,
		"approved", mock.Anything, &paymentDate, eventAt).Return(1, nil)
	repo.On("ReadPaymentByGatewayID", mock.Anything, "mp-001").
		Return(&models.Payment{ID: 21, StudentID: 10, GatewayPaymentID: "mp-001"}, nil)
	publisher.On("Publish", "payment.status.changed", mock.MatchedBy(func(msg PaymentStatusChanged) bool {
		return msg.PaymentID == 21 && msg.Status == "approved"
	})).Return(nil)

	svc := NewPaymentService(repo, new(GatewayMock), publisher, discardLogger())
	err := svc.ProcessWebhookEvent(context.Background(), paymentgateway.WebhookEvent{
		PaymentID:   "mp-001",
		Status:      "approved",
		EventAt:     eventAt,
		PaymentDate: paymentDate,
	}, []byte(`{"status":"approved"}`))

	assert.NoError(t, err)
	repo.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestPaymentService_ProcessWebhookEvent_StaleIgnored(t *testing.T) {
	repo := new(RepoMock)
	publisher := new(PublisherMock)

	eventAt := time.Date(2026, 9, 1, 11, 0, 0, 0, time.UTC)
	repo.On("ApplyGatewayEvent", mock.Anything, "mp-001", models.PaymentPending,
		"pending", mock.Anything, mock.Anything, eventAt).Return(0, nil)

	svc := NewPaymentService(repo, new(GatewayMock), publisher, discardLogger())
	err := svc.ProcessWebhookEvent(context.Background(), paymentgateway.WebhookEvent{
		PaymentID: "mp-001",
		Status:    "pending",
		EventAt:   eventAt,
	}, []byte(`{"status":"pending"}`))

	// устаревшее событие пропускается без ошибки и без публикации
	assert.NoError(t, err)
	publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestMapGatewayStatus(t *testing.T) {
	tests := []struct {
		gateway string
		want    models.PaymentStatus
	}{
		{"approved", models.PaymentApproved},
		{"succeeded", models.PaymentApproved},
		{"rejected", models.PaymentRejected},
		{"declined", models.PaymentRejected},
		{"cancelled", models.PaymentCancelled},
		{"refunded", models.PaymentRefunded},
		{"in_mediation", models.PaymentPending},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, mapGatewayStatus(tt.gateway), tt.gateway)
	}
}
