package driven

import (
	"context"

	messagebrokerdto "iitk-connect/internal/status-board/core/domain/message_broker_dto"

	amqp "github.com/rabbitmq/amqp091-go"
)

type ConsumeOptions struct {
	Prefetch     int
	AutoAck      bool
	QueueDurable bool
}

// IBroker is the message broker connection shared by the publisher and the SMS consumer.
type IBroker interface {
	PublishJSON(ctx context.Context, exchange, routingKey string, msg any) error
	Consume(ctx context.Context, exchange, queueName, bindingKey string, opts ConsumeOptions) (<-chan amqp.Delivery, error)
	IsAlive() bool
	Close() error
}

// IDriverEventPublisher announces committed status transitions.
type IDriverEventPublisher interface {
	PublishStatus(ctx context.Context, event messagebrokerdto.DriverStatusEvent) error
}
