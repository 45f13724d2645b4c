package events

import (
	"context"
	"fmt"

	"github.com/swiftcab/service-booking/internal/apperrors"
	"github.com/swiftcab/service-booking/internal/domain/booking"
	"github.com/swiftcab/service-booking/internal/kafka"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// BookingStatusUpdater is the slice of the booking service the dispatch
// consumer needs.
type BookingStatusUpdater interface {
	UpdateStatus(ctx context.Context, bookingID, status string) booking.Result
}

// DispatchEventConsumer listens to dispatch events and moves bookings to
// assigned once a taxi is matched.
type DispatchEventConsumer struct {
	consumer *kafka.Consumer
	service  BookingStatusUpdater
	logger   *zap.Logger
}

// NewDispatchEventConsumer creates a new DispatchEventConsumer.
func NewDispatchEventConsumer(
	brokers []string,
	groupID string,
	service BookingStatusUpdater,
	logger *zap.Logger,
) *DispatchEventConsumer {
	consumer := kafka.NewConsumer(brokers, groupID, TopicDispatchEvents, logger)
	return &DispatchEventConsumer{
		consumer: consumer,
		service:  service,
		logger:   logger,
	}
}

// Start begins consuming dispatch events. This blocks until the context is cancelled.
func (c *DispatchEventConsumer) Start(ctx context.Context) error {
	return c.consumer.Consume(ctx, c.handleMessage)
}

// Close closes the underlying Kafka consumer.
func (c *DispatchEventConsumer) Close() error {
	return c.consumer.Close()
}

func (c *DispatchEventConsumer) handleMessage(ctx context.Context, msg kafkago.Message) error {
	cloudEvent, err := kafka.ParseCloudEvent(msg.Value)
	if err != nil {
		c.logger.Error("failed to parse cloud event from dispatch topic",
			zap.Error(err),
			zap.String("raw", string(msg.Value)),
		)
		return nil // Don't retry malformed messages
	}

	switch cloudEvent.Type {
	case DispatchTaxiAssigned:
		return c.handleTaxiAssigned(ctx, cloudEvent)
	default:
		c.logger.Debug("ignoring unhandled dispatch event type",
			zap.String("type", cloudEvent.Type),
		)
		return nil
	}
}

func (c *DispatchEventConsumer) handleTaxiAssigned(ctx context.Context, cloudEvent kafka.CloudEvent) error {
	var evt TaxiAssignedEvent
	if err := cloudEvent.ParseData(&evt); err != nil {
		c.logger.Error("failed to parse TaxiAssignedEvent data",
			zap.Error(err),
		)
		return nil // Don't retry malformed data
	}

	c.logger.Info("processing taxi assigned event",
		zap.String("booking_id", evt.BookingID),
		zap.String("taxi_id", evt.TaxiID),
		zap.Int("eta_minutes", evt.ETAMinutes),
	)

	res := c.service.UpdateStatus(ctx, evt.BookingID, string(booking.StatusAssigned))
	if !res.Success {
		c.logger.Error("failed to mark booking assigned after dispatch",
			zap.String("booking_id", evt.BookingID),
			zap.String("code", res.Code),
			zap.String("error", res.Error),
		)
		if res.Code == apperrors.CodeUnavailable {
			return fmt.Errorf("update booking %s: %s", evt.BookingID, res.Error)
		}
		return nil // Don't retry data errors
	}

	c.logger.Info("booking assigned after dispatch",
		zap.String("booking_id", evt.BookingID),
	)
	return nil
}
