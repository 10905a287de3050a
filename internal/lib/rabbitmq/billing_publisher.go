package rabbitmq

import "github.com/streadway/amqp"

// BillingPublisher публикует события биллинга через открытый канал.
// Реализует интерфейс публикации событий для сервисов платежей и подписок.
type BillingPublisher struct {
	ch *amqp.Channel
}

// NewBillingPublisher создает BillingPublisher поверх канала.
func NewBillingPublisher(ch *amqp.Channel) *BillingPublisher {
	return &BillingPublisher{ch: ch}
}

// Publish публикует сообщение в exchange billing с заданным ключом маршрутизации.
func (p *BillingPublisher) Publish(routingKey string, message any) error {
	return PublishMessage(p.ch, routingKey, message)
}
