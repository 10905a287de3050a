package paymentgateway

import "time"

// Amount представляет денежную сумму.
type Amount struct {
	Value    string `json:"value"`    // сумма, например "150.00"
	Currency string `json:"currency"` // валюта, например "BRL"
}

// CreateChargeRequest представляет запрос на создание платежа у процессора.
type CreateChargeRequest struct {
	Amount            Amount            `json:"amount"`
	Description       string            `json:"description,omitempty"`
	PaymentMethod     string            `json:"payment_method"`               // pix, credit_card, boleto
	ExternalReference string            `json:"external_reference,omitempty"` // внутренний код платежа
	Metadata          map[string]string `json:"metadata,omitempty"`           // student_id, plan_id
}

// CreateChargeResponse представляет ответ на создание платежа.
type CreateChargeResponse struct {
	ID        string    `json:"id"`     // ID платежа у процессора
	Status    string    `json:"status"` // статус, например "pending" или "approved"
	Amount    Amount    `json:"amount"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateSubscriptionRequest представляет запрос на создание рекуррентной
// подписки у процессора.
type CreateSubscriptionRequest struct {
	Amount            Amount            `json:"amount"`
	Frequency         string            `json:"frequency"` // monthly, quarterly, semiannual, annual
	ExternalReference string            `json:"external_reference,omitempty"`
	Metadata          map[string]string `json:"metadata,omitempty"`
}

// CreateSubscriptionResponse представляет ответ на создание подписки.
type CreateSubscriptionResponse struct {
	ID        string    `json:"id"`     // ID подписки у процессора
	Status    string    `json:"status"` // статус, например "authorized"
	CreatedAt time.Time `json:"created_at"`
}

// CancelSubscriptionResponse представляет ответ на отмену подписки.
type CancelSubscriptionResponse struct {
	ID          string    `json:"id"`
	Status      string    `json:"status"` // ожидается "cancelled"
	CancelledAt time.Time `json:"cancelled_at"`
}

// WebhookEvent представляет уведомление процессора о смене статуса платежа.
// EventAt — время события по часам процессора, по нему упорядочиваются
// повторные и опоздавшие доставки.
type WebhookEvent struct {
	ID          string    `json:"id"`           // ID события
	Type        string    `json:"type"`         // payment.updated и т.п.
	PaymentID   string    `json:"payment_id"`   // ID платежа у процессора
	Status      string    `json:"status"`       // статус платежа у процессора
	EventAt     time.Time `json:"event_at"`     // время события у процессора
	PaymentDate time.Time `json:"payment_date"` // момент оплаты, нулевое если не оплачен
}
