package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk/internal/events"
)

// publish emits ev after the state change it describes has been stored.
// Subscriber failures are logged and never undo the change.
func publish(ctx context.Context, dispatcher events.Dispatcher, logger *zap.Logger, ev events.Event) {
	if dispatcher == nil {
		return
	}
	if err := dispatcher.Publish(ctx, ev); err != nil {
		logger.Warn("event subscriber failed", zap.String("event", string(ev.Type)), zap.Error(err))
	}
}
