package models

import "time"

// Subscription представляет рекуррентные отношения биллинга ученицы — не более
// одной на профиль. Отдельные платежи (Payment) создаются внешним рекуррентным
// процессом и в этой модели из подписки не выводятся.
// Ссылка на план обнуляется при удалении плана.
type Subscription struct {
	ID                    int        // Идентификатор подписки
	StudentID             int        // Ссылка на профиль (один к одному)
	PlanID                *int       // Ссылка на план (обнуляется при удалении плана)
	IsActive              bool       // Активна ли подписка
	StartDate             time.Time  // Дата начала, по умолчанию момент создания
	EndDate               *time.Time // Дата окончания (опционально)
	GatewaySubscriptionID string     // Идентификатор подписки у процессора
	AutoRenewal           bool       // Автопродление
	CancelledAt           *time.Time // Момент отмены
	CancellationReason    string     // Причина отмены
	CreatedAt             time.Time  // Устанавливается при первом сохранении
	UpdatedAt             time.Time  // Обновляется при каждом сохранении
}

// DummySubscription используется для приёма данных подписки из JSON-запроса.
type DummySubscription struct {
	StudentID   int    `json:"student_id" validate:"required,gt=0"`
	PlanID      int    `json:"plan_id" validate:"required,gt=0"`
	StartDate   string `json:"start_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	AutoRenewal *bool  `json:"auto_renewal,omitempty" validate:"omitempty"`
}

// DummyCancelSubscription используется для приёма причины отмены подписки.
type DummyCancelSubscription struct {
	Reason string `json:"reason,omitempty" validate:"omitempty"`
}
