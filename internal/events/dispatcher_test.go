package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishInvokesSubscribersInOrder(t *testing.T) {
	d := NewInMemoryDispatcher()
	var seen []string
	d.Subscribe(EventTicketCreated, func(_ context.Context, e Event) error {
		seen = append(seen, "first:"+string(e.Type))
		return nil
	})
	d.Subscribe(EventTicketCreated, func(_ context.Context, e Event) error {
		seen = append(seen, "second:"+string(e.Type))
		return nil
	})
	d.Subscribe(EventReportExported, func(context.Context, Event) error {
		seen = append(seen, "unrelated")
		return nil
	})

	ev := New(EventTicketCreated, TicketCreatedPayload{Title: "Printer"})
	require.NoError(t, d.Publish(context.Background(), ev))
	assert.Equal(t, []string{"first:ticket_created", "second:ticket_created"}, seen)
	assert.NotEmpty(t, ev.ID)
	assert.False(t, ev.Timestamp.IsZero())
}

func TestPublishRunsEveryHandlerAndJoinsErrors(t *testing.T) {
	d := NewInMemoryDispatcher()
	errA := errors.New("a failed")
	calls := 0
	d.Subscribe(EventProfileUpdated, func(context.Context, Event) error { calls++; return errA })
	d.Subscribe(EventProfileUpdated, func(context.Context, Event) error { calls++; return nil })

	err := d.Publish(context.Background(), New(EventProfileUpdated, nil))
	assert.ErrorIs(t, err, errA)
	assert.Equal(t, 2, calls)

	assert.NoError(t, d.Publish(context.Background(), New(EventPasswordRecovered, nil)))
}
