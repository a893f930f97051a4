package worker

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spec-kit/helpdesk/internal/events"
)

func TestAuditWorkerLogsEveryEventType(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	dispatcher := events.NewInMemoryDispatcher()
	StartAuditWorker(dispatcher, zap.New(core))

	for _, eventType := range events.AllEventTypes {
		ev := events.New(eventType, nil)
		ev.TicketID = 7
		require.NoError(t, dispatcher.Publish(context.Background(), ev))
	}

	entries := logs.FilterMessage("domain event").All()
	require.Len(t, entries, len(events.AllEventTypes))
	assert.Equal(t, "audit", entries[0].LoggerName)
	assert.Equal(t, int64(7), entries[0].ContextMap()["ticket_id"])
}

func TestAuditWorkerToleratesNilDispatcher(t *testing.T) {
	assert.NotPanics(t, func() { StartAuditWorker(nil, zap.NewNop()) })
}
