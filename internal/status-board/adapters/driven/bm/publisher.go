package bm

import (
	"context"
	"fmt"

	"iitk-connect/internal/mylogger"
	messagebrokerdto "iitk-connect/internal/status-board/core/domain/message_broker_dto"
	"iitk-connect/internal/status-board/core/ports/driven"
)

const statusRoutingPrefix = "driver.status."

type Publisher struct {
	log    mylogger.Logger
	broker driven.IBroker
}

var _ driven.IDriverEventPublisher = (*Publisher)(nil)

func NewPublisher(broker driven.IBroker, log mylogger.Logger) *Publisher {
	return &Publisher{
		broker: broker,
		log:    log,
	}
}

// PublishStatus sends the event to driver_topic under driver.status.{STATUS}.
func (p *Publisher) PublishStatus(ctx context.Context, event messagebrokerdto.DriverStatusEvent) error {
	key := StatusRoutingKey(event.Status)
	if err := p.broker.PublishJSON(ctx, DriverExchangeName, key, event); err != nil {
		return fmt.Errorf("publish %s: %w", key, err)
	}
	p.log.Action("publish").Debug("status event published", "routing_key", key, "phone", event.Phone)
	return nil
}

func StatusRoutingKey(status string) string {
	return statusRoutingPrefix + status
}

// NopPublisher is used when the broker is disabled.
type NopPublisher struct{}

func (NopPublisher) PublishStatus(context.Context, messagebrokerdto.DriverStatusEvent) error {
	return nil
}
