package models

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// PaymentStatus описывает закрытый набор статусов платежа.
type PaymentStatus string

const (
	// PaymentPending — платёж ожидает оплаты.
	PaymentPending PaymentStatus = "pending"
	// PaymentApproved — платёж подтверждён процессором.
	PaymentApproved PaymentStatus = "approved"
	// PaymentRejected — платёж отклонён.
	PaymentRejected PaymentStatus = "rejected"
	// PaymentCancelled — платёж отменён.
	PaymentCancelled PaymentStatus = "cancelled"
	// PaymentRefunded — платёж возвращён.
	PaymentRefunded PaymentStatus = "refunded"
)

// Valid сообщает, входит ли значение в допустимый набор статусов.
func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPending, PaymentApproved, PaymentRejected, PaymentCancelled, PaymentRefunded:
		return true
	}
	return false
}

// Payment представляет один платёж ученицы.
// Поля Gateway* — зеркало внешнего процессора: статус меняется только
// по его событиям, локально не пересчитывается, а сырой ответ
// сохраняется дословно для аудита и повторной обработки.
// Ссылка на план обнуляется при удалении плана, история платежей сохраняется.
type Payment struct {
	ID               int             // Идентификатор платежа
	StudentID        int             // Ссылка на профиль ученицы
	PlanID           *int            // Ссылка на план (обнуляется при удалении плана)
	Amount           decimal.Decimal // Сумма, 2 знака после запятой
	DueDate          time.Time       // Дата, до которой нужно оплатить
	PaymentDate      *time.Time      // Фактическая дата оплаты
	Status           PaymentStatus   // Локальный статус
	GatewayPaymentID string          // Идентификатор транзакции у процессора
	GatewayStatus    string          // Статус процессора как есть
	GatewayResponse  json.RawMessage // Сырой ответ процессора
	GatewayEventAt   *time.Time      // Временная метка последнего применённого события
	PaymentMethod    string          // Способ оплаты
	ReferenceCode    string          // Код для сверки
	Notes            string          // Заметки
	CreatedAt        time.Time       // Устанавливается при первом сохранении
	UpdatedAt        time.Time       // Обновляется при каждом сохранении
}

// DummyPayment используется для приёма данных платежа из JSON-запроса.
type DummyPayment struct {
	StudentID     int    `json:"student_id" validate:"required,gt=0"`
	PlanID        *int   `json:"plan_id,omitempty" validate:"omitempty,gt=0"`
	Amount        string `json:"amount" validate:"required"`
	DueDate       string `json:"due_date" validate:"required,datetime=2006-01-02"`
	PaymentMethod string `json:"payment_method,omitempty" validate:"omitempty"`
	Notes         string `json:"notes,omitempty" validate:"omitempty"`
}
