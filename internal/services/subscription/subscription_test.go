package services

import (
	"context"
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

func (m *RepoMock) CreateSubscription(ctx context.Context, sub models.Subscription) (int, error) {
	args := m.Called(ctx, sub)
	return args.Int(0), args.Error(1)
}
func (m *RepoMock) ReadSubscriptionByStudent(ctx context.Context, studentID int) (*models.Subscription, error) {
	args := m.Called(ctx, studentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Subscription), args.Error(1)
}
func (m *RepoMock) CancelSubscription(ctx context.Context, studentID int, reason string, cancelledAt time.Time) (int, error) {
	args := m.Called(ctx, studentID, reason, cancelledAt)
	return args.Int(0), args.Error(1)
}
func (m *RepoMock) ReadPlan(ctx context.Context, id int) (*models.Plan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Plan), args.Error(1)
}

type GatewayMock struct{ mock.Mock }

func (m *GatewayMock) CreateSubscription(ctx context.Context, req paymentgateway.CreateSubscriptionRequest) (*paymentgateway.CreateSubscriptionResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*paymentgateway.CreateSubscriptionResponse), args.Error(1)
}
func (m *GatewayMock) CancelSubscription(ctx context.Context, gatewaySubscriptionID string) (*paymentgateway.CancelSubscriptionResponse, error) {
	args := m.Called(ctx, gatewaySubscriptionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*paymentgateway.CancelSubscriptionResponse), args.Error(1)
}

type PublisherMock struct{ mock.Mock }

func (m *PublisherMock) Publish(routingKey string, message any) error {
	args := m.Called(routingKey, message)
	return args.Error(0)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func monthlyPlan() *models.Plan {
	return &models.Plan{
		ID:       3,
		Name:     "Plano Mensal",
		PlanType: models.PlanMonthly,
		Price:    decimal.RequireFromString("150.00"),
	}
}

func TestSubscriptionService_Create(t *testing.T) {
	repo := new(RepoMock)
	gateway := new(GatewayMock)

	repo.On("ReadPlan", mock.Anything, 3).Return(monthlyPlan(), nil)
	gateway.On("CreateSubscription", mock.Anything, mock.MatchedBy(func(req paymentgateway.CreateSubscriptionRequest) bool {
		return req.Amount.Value == "150.00" && req.Frequency == "monthly"
	})).Return(&paymentgateway.CreateSubscriptionResponse{ID: "gw-sub-1", Status: "authorized"}, nil)
	repo.On("CreateSubscription", mock.Anything, mock.MatchedBy(func(sub models.Subscription) bool {
		return sub.StudentID == 10 && sub.IsActive && sub.AutoRenewal &&
			sub.GatewaySubscriptionID == "gw-sub-1"
	})).Return(7, nil)

	svc := NewSubscriptionService(repo, gateway, new(PublisherMock), discardLogger())
	id, err := svc.Create(context.Background(), models.DummySubscription{
		StudentID: 10,
		PlanID:    3,
	})

	assert.NoError(t, err)
	assert.Equal(t, 7, id)
	repo.AssertExpectations(t)
	gateway.AssertExpectations(t)
}

func TestSubscriptionService_Create_GatewayFailure(t *testing.T) {
	repo := new(RepoMock)
	gateway := new(GatewayMock)

	repo.On("ReadPlan", mock.Anything, 3).Return(monthlyPlan(), nil)
	gateway.On("CreateSubscription", mock.Anything, mock.Anything).
		Return(nil, errors.New("gateway unavailable"))
	repo.On("CreateSubscription", mock.Anything, mock.MatchedBy(func(sub models.Subscription) bool {
		return sub.GatewaySubscriptionID == ""
	})).Return(8, nil)

	svc := NewSubscriptionService(repo, gateway, new(PublisherMock), discardLogger())
	id, err := svc.Create(context.Background(), models.DummySubscription{
		StudentID: 10,
		PlanID:    3,
	})

	// отказ процессора не блокирует локальную подписку
	assert.NoError(t, err)
	assert.Equal(t, 8, id)
}

func TestSubscriptionService_Create_UnknownPlan(t *testing.T) {
	repo := new(RepoMock)
	repo.On("ReadPlan", mock.Anything, 99).Return(nil, errors.New("not found"))

	svc := NewSubscriptionService(repo, new(GatewayMock), new(PublisherMock), discardLogger())
	_, err := svc.Create(context.Background(), models.DummySubscription{
		StudentID: 10,
		PlanID:    99,
	})

	assert.Error(t, err)
	repo.AssertNotCalled(t, "CreateSubscription", mock.Anything, mock.Anything)
}

func TestSubscriptionService_Cancel(t *testing.T) {
	repo := new(RepoMock)
	gateway := new(GatewayMock)
	publisher := new(PublisherMock)

	repo.On("ReadSubscriptionByStudent", mock.Anything, 10).
		Return(&models.Subscription{ID: 7, StudentID: 10, IsActive: true,
			GatewaySubscriptionID: "gw-sub-1"}, nil)
	repo.On("CancelSubscription", mock.Anything, 10, "mudança de cidade", mock.Anything).
		Return(1, nil)
	gateway.On("CancelSubscription", mock.Anything, "gw-sub-1").
		Return(&paymentgateway.CancelSubscriptionResponse{ID: "gw-sub-1", Status: "cancelled"}, nil)
	publisher.On("Publish", "subscription.cancelled", mock.MatchedBy(func(msg SubscriptionCancelled) bool {
		return msg.SubscriptionID == 7 && msg.Reason == "mudança de cidade"
	})).Return(nil)

	svc := NewSubscriptionService(repo, gateway, publisher, discardLogger())
	count, err := svc.Cancel(context.Background(), 10, "mudança de cidade")

	assert.NoError(t, err)
	assert.Equal(t, 1, count)
	repo.AssertExpectations(t)
	gateway.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestSubscriptionService_Cancel_AlreadyInactive(t *testing.T) {
	repo := new(RepoMock)
	publisher := new(PublisherMock)

	repo.On("ReadSubscriptionByStudent", mock.Anything, 10).
		Return(&models.Subscription{ID: 7, StudentID: 10, IsActive: false}, nil)
	repo.On("CancelSubscription", mock.Anything, 10, "", mock.Anything).Return(0, nil)

	svc := NewSubscriptionService(repo, new(GatewayMock), publisher, discardLogger())
	count, err := svc.Cancel(context.Background(), 10, "")

	assert.NoError(t, err)
	assert.Equal(t, 0, count)
	publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}
