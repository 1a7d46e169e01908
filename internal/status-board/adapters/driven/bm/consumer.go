package bm

import (
	"context"
	"fmt"

	"iitk-connect/internal/mylogger"
	"iitk-connect/internal/status-board/core/ports/driven"
	"iitk-connect/internal/status-board/core/ports/driver"
	"iitk-connect/internal/status-board/core/services"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	SMSQueueName  = "sms_inbound"
	SMSBindingKey = "sms.inbound.*"
)

// SMSConsumer feeds texts forwarded by the SMS bridge into the same path as
// POST /api/sms. Every delivery is acked, whatever the outcome.
type SMSConsumer struct {
	log    mylogger.Logger
	broker driven.IBroker
	sms    driver.ISMSService
}

func NewSMSConsumer(broker driven.IBroker, sms driver.ISMSService, log mylogger.Logger) *SMSConsumer {
	return &SMSConsumer{
		log:    log.Action("sms_consume"),
		broker: broker,
		sms:    sms,
	}
}

// Run blocks until ctx is done or the delivery channel closes.
func (c *SMSConsumer) Run(ctx context.Context) error {
	msgCh, err := c.broker.Consume(ctx, SMSExchangeName, SMSQueueName, SMSBindingKey, driven.ConsumeOptions{
		Prefetch:     10,
		AutoAck:      false,
		QueueDurable: true,
	})
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", SMSQueueName, err)
	}

	c.log.Info("consuming", "queue", SMSQueueName, "binding", SMSBindingKey)
	for msg := range msgCh {
		c.handle(ctx, msg)
	}
	return nil
}

type acker interface {
	Ack(multiple bool) error
}

func (c *SMSConsumer) handle(ctx context.Context, msg amqp.Delivery) {
	c.process(ctx, msg.RoutingKey, msg.Body, &msg)
}

func (c *SMSConsumer) process(ctx context.Context, routingKey string, body []byte, ack acker) {
	mylog := c.log.With("routing_key", routingKey)
	defer func() {
		if err := ack.Ack(false); err != nil {
			mylog.Error("failed to acknowledge message", err)
		}
	}()

	fields, err := services.FieldsFromJSON(body)
	if err != nil {
		mylog.Error("dropping malformed sms payload", err)
		return
	}

	reply := c.sms.Handle(ctx, fields)
	if reply.Error != "" {
		mylog.Warn("sms not applied", "reason", reply.Error)
		return
	}
	mylog.Info("sms applied", "message", reply.Message)
}
