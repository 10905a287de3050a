// Package services содержит бизнес-логику рекуррентных подписок.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bellaforma/studio-membership/internal/lib/sl"
	"github.com/bellaforma/studio-membership/internal/models"
	"github.com/bellaforma/studio-membership/internal/paymentgateway"
)

// SubscriptionRepository определяет методы для работы с подписками в хранилище.
type SubscriptionRepository interface {
	// CreateSubscription добавляет подписку и возвращает её ID.
	CreateSubscription(ctx context.Context, sub models.Subscription) (int, error)
	// ReadSubscriptionByStudent возвращает подписку профиля.
	ReadSubscriptionByStudent(ctx context.Context, studentID int) (*models.Subscription, error)
	// CancelSubscription деактивирует подписку профиля.
	CancelSubscription(ctx context.Context, studentID int, reason string, cancelledAt time.Time) (int, error)

	// ReadPlan возвращает план по ID.
	ReadPlan(ctx context.Context, id int) (*models.Plan, error)
}

// Gateway описывает вызовы платёжного процессора для подписок.
type Gateway interface {
	// CreateSubscription создаёт рекуррентную подписку у процессора.
	CreateSubscription(ctx context.Context, req paymentgateway.CreateSubscriptionRequest) (*paymentgateway.CreateSubscriptionResponse, error)
	// CancelSubscription отменяет подписку у процессора.
	CancelSubscription(ctx context.Context, gatewaySubscriptionID string) (*paymentgateway.CancelSubscriptionResponse, error)
}

// EventPublisher публикует события биллинга во внешнюю шину.
type EventPublisher interface {
	Publish(routingKey string, message any) error
}

// SubscriptionCancelled — сообщение об отмене подписки для шины событий.
type SubscriptionCancelled struct {
	SubscriptionID int       `json:"subscription_id"`
	StudentID      int       `json:"student_id"`
	Reason         string    `json:"reason"`
	CancelledAt    time.Time `json:"cancelled_at"`
}

// SubscriptionService реализует бизнес-логику подписок.
type SubscriptionService struct {
	repo      SubscriptionRepository
	gateway   Gateway
	publisher EventPublisher
	log       *slog.Logger
}

// NewSubscriptionService создает новый экземпляр SubscriptionService.
func NewSubscriptionService(repo SubscriptionRepository, gateway Gateway, publisher EventPublisher, log *slog.Logger) *SubscriptionService {
	return &SubscriptionService{
		repo:      repo,
		gateway:   gateway,
		publisher: publisher,
		log:       log,
	}
}

// Create создает подписку профиля на план. Подписка регистрируется у
// процессора; отказ процессора не отменяет локальную запись — подписка
// остаётся без внешнего ID до повторной регистрации.
func (s *SubscriptionService) Create(ctx context.Context, req models.DummySubscription) (int, error) {
	plan, err := s.repo.ReadPlan(ctx, req.PlanID)
	if err != nil {
		return 0, fmt.Errorf("unknown plan: %w", err)
	}

	startDate := time.Now().UTC()
	if req.StartDate != "" {
		startDate, err = time.Parse("2006-01-02", req.StartDate)
		if err != nil {
			return 0, fmt.Errorf("invalid start date: %w", err)
		}
	}
	autoRenewal := true
	if req.AutoRenewal != nil {
		autoRenewal = *req.AutoRenewal
	}

	gatewaySubscriptionID := ""
	gatewayResp, err := s.gateway.CreateSubscription(ctx, paymentgateway.CreateSubscriptionRequest{
		Amount: paymentgateway.Amount{
			Value:    plan.Price.StringFixed(2),
			Currency: "BRL",
		},
		Frequency:         string(plan.PlanType),
		ExternalReference: fmt.Sprintf("SUB-%d-%d", req.StudentID, req.PlanID),
		Metadata: map[string]string{
			"student_id": fmt.Sprintf("%d", req.StudentID),
			"plan_id":    fmt.Sprintf("%d", req.PlanID),
		},
	})
	if err != nil {
		s.log.Warn("gateway subscription registration failed",
			slog.Int("student_id", req.StudentID), sl.Err(err))
	} else {
		gatewaySubscriptionID = gatewayResp.ID
	}

	planID := req.PlanID
	sub := models.Subscription{
		StudentID:             req.StudentID,
		PlanID:                &planID,
		IsActive:              true,
		StartDate:             startDate,
		GatewaySubscriptionID: gatewaySubscriptionID,
		AutoRenewal:           autoRenewal,
	}

	id, err := s.repo.CreateSubscription(ctx, sub)
	if err != nil {
		return 0, err
	}
	s.log.Info("created subscription", slog.Int("id", id), slog.Int("student_id", req.StudentID))
	return id, nil
}

// Read возвращает подписку профиля.
func (s *SubscriptionService) Read(ctx context.Context, studentID int) (*models.Subscription, error) {
	return s.repo.ReadSubscriptionByStudent(ctx, studentID)
}

// Cancel отменяет подписку профиля: деактивирует локальную запись,
// отменяет подписку у процессора и публикует событие отмены.
// Повторная отмена уже неактивной подписки возвращает ноль изменений.
func (s *SubscriptionService) Cancel(ctx context.Context, studentID int, reason string) (int, error) {
	sub, err := s.repo.ReadSubscriptionByStudent(ctx, studentID)
	if err != nil {
		return 0, err
	}

	cancelledAt := time.Now().UTC()
	count, err := s.repo.CancelSubscription(ctx, studentID, reason, cancelledAt)
	if err != nil {
		return 0, err
	}
	if count == 0 {
		return 0, nil
	}

	if sub.GatewaySubscriptionID != "" {
		if _, err := s.gateway.CancelSubscription(ctx, sub.GatewaySubscriptionID); err != nil {
			s.log.Warn("gateway subscription cancellation failed",
				slog.String("gateway_subscription_id", sub.GatewaySubscriptionID), sl.Err(err))
		}
	}

	msg := SubscriptionCancelled{
		SubscriptionID: sub.ID,
		StudentID:      studentID,
		Reason:         reason,
		CancelledAt:    cancelledAt,
	}
	if err := s.publisher.Publish("subscription.cancelled", msg); err != nil {
		s.log.Warn("failed to publish subscription cancelled event", sl.Err(err))
	}

	s.log.Info("cancelled subscription", slog.Int("id", sub.ID), slog.Int("student_id", studentID))
	return count, nil
}
