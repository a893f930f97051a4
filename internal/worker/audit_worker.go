package worker

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk/internal/events"
)

// StartAuditWorker subscribes a structured audit logger to every domain event.
func StartAuditWorker(dispatcher events.Dispatcher, logger *zap.Logger) {
	if dispatcher == nil || logger == nil {
		return
	}
	audit := logger.Named("audit")
	for _, eventType := range events.AllEventTypes {
		dispatcher.Subscribe(eventType, func(_ context.Context, e events.Event) error {
			fields := []zap.Field{
				zap.String("event_id", e.ID),
				zap.String("event", string(e.Type)),
				zap.Time("at", e.Timestamp),
			}
			if e.TicketID != 0 {
				fields = append(fields, zap.Int64("ticket_id", e.TicketID))
			}
			if e.AccountID != 0 {
				fields = append(fields, zap.Int64("account_id", e.AccountID))
			}
			if e.Payload != nil {
				fields = append(fields, zap.Any("payload", e.Payload))
			}
			audit.Info("domain event", fields...)
			return nil
		})
	}
}
