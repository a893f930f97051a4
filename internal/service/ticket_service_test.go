package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/events"
)

func ticketIDs(tickets []domain.Ticket) []int64 {
	ids := make([]int64, 0, len(tickets))
	for _, t := range tickets {
		ids = append(ids, t.ID)
	}
	return ids
}

// clock returns a now func that advances one minute per call.
func clock() func() time.Time {
	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	n := 0
	return func() time.Time {
		n++
		return base.Add(time.Duration(n) * time.Minute)
	}
}

func TestCreateTicketDefaults(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.ticket.now = clock()
	ana := register(t, f, "Ana", "ana@example.com", "FUNC001")

	ticket, err := f.ticket.Create(ctx, ana.ID, "  Printer jam ", "Tray 2\nstuck")
	require.NoError(t, err)
	assert.Equal(t, "Printer jam", ticket.Title)
	assert.Equal(t, domain.TicketStatusOpen, ticket.Status)
	assert.Empty(t, ticket.Resolution)
	assert.Equal(t, time.UTC, ticket.CreatedAt.Location())

	_, err = f.ticket.Create(ctx, ana.ID, "", "desc")
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = f.ticket.Create(ctx, ana.ID, "title", "  ")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestListForVisibilityAsymmetry(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.ticket.now = clock()
	ana := register(t, f, "Ana", "ana@example.com", "FUNC001")
	bia := register(t, f, "Bia", "bia@example.com", "FUNC002")
	tom := register(t, f, "Tom", "tom@example.com", "TEC001")

	x, err := f.ticket.Create(ctx, ana.ID, "X", "by ana")
	require.NoError(t, err)
	y, err := f.ticket.Create(ctx, bia.ID, "Y", "by bia")
	require.NoError(t, err)
	z, err := f.ticket.Create(ctx, ana.ID, "Z", "by ana again")
	require.NoError(t, err)
	require.NoError(t, f.ticket.ProposeResolution(ctx, z.ID, "done"))

	all, err := f.ticket.ListFor(ctx, tom, domain.StatusFilterAll)
	require.NoError(t, err)
	assert.Equal(t, []int64{z.ID, y.ID, x.ID}, ticketIDs(all))
	assert.Equal(t, "Ana", all[0].CreatorName)
	assert.Equal(t, "bia@example.com", all[1].CreatorEmail)

	resolved, err := f.ticket.ListFor(ctx, tom, domain.StatusFilter(domain.TicketStatusResolved))
	require.NoError(t, err)
	assert.Equal(t, []int64{z.ID}, ticketIDs(resolved))

	own, err := f.ticket.ListFor(ctx, ana, domain.StatusFilterAll)
	require.NoError(t, err)
	assert.Equal(t, []int64{z.ID, x.ID}, ticketIDs(own))

	// requesters cannot narrow by status
	filtered, err := f.ticket.ListFor(ctx, ana, domain.StatusFilter(domain.TicketStatusOpen))
	require.NoError(t, err)
	assert.Equal(t, ticketIDs(own), ticketIDs(filtered))

	biaOwn, err := f.ticket.ListFor(ctx, bia, domain.StatusFilterAll)
	require.NoError(t, err)
	assert.Equal(t, []int64{y.ID}, ticketIDs(biaOwn))
}

func TestGetForEnforcesOwnership(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	ana := register(t, f, "Ana", "ana@example.com", "FUNC001")
	bia := register(t, f, "Bia", "bia@example.com", "FUNC002")
	tom := register(t, f, "Tom", "tom@example.com", "TEC001")

	x, err := f.ticket.Create(ctx, ana.ID, "X", "d")
	require.NoError(t, err)

	got, err := f.ticket.GetFor(ctx, ana, x.ID)
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", got.CreatorEmail)

	_, err = f.ticket.GetFor(ctx, tom, x.ID)
	assert.NoError(t, err)

	_, err = f.ticket.GetFor(ctx, bia, x.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = f.ticket.Get(ctx, 404)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSetStatusKeepsResolution(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	ana := register(t, f, "Ana", "ana@example.com", "FUNC001")
	x, err := f.ticket.Create(ctx, ana.ID, "X", "d")
	require.NoError(t, err)

	fixed := "fixed"
	require.NoError(t, f.ticket.SetStatus(ctx, x.ID, domain.TicketStatusResolved, &fixed))
	require.NoError(t, f.ticket.SetStatus(ctx, x.ID, domain.TicketStatusInProgress, nil))

	got, err := f.ticket.Get(ctx, x.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusInProgress, got.Status)
	assert.Equal(t, "fixed", got.Resolution)

	// any status may follow any other
	require.NoError(t, f.ticket.SetStatus(ctx, x.ID, domain.TicketStatusOpen, nil))
	require.NoError(t, f.ticket.SetStatus(ctx, x.ID, domain.TicketStatusAwaitingTechnician, nil))

	assert.ErrorIs(t, f.ticket.SetStatus(ctx, x.ID, domain.TicketStatus("Closed"), nil), domain.ErrInvalidStatus)
	assert.ErrorIs(t, f.ticket.SetStatus(ctx, 404, domain.TicketStatusOpen, nil), domain.ErrNotFound)
}

func TestProposeResolution(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	ana := register(t, f, "Ana", "ana@example.com", "FUNC001")
	x, err := f.ticket.Create(ctx, ana.ID, "X", "d")
	require.NoError(t, err)

	assert.ErrorIs(t, f.ticket.ProposeResolution(ctx, x.ID, "   "), domain.ErrResolutionRequired)
	got, err := f.ticket.Get(ctx, x.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusOpen, got.Status, "rejected proposal must not write")

	require.NoError(t, f.ticket.ProposeResolution(ctx, x.ID, "Replaced toner\nTested"))
	got, err = f.ticket.Get(ctx, x.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusResolved, got.Status)
	assert.Equal(t, "Replaced toner\nTested", got.Resolution)
}

func TestTicketServicePublishesEvents(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	dispatcher := events.NewInMemoryDispatcher()
	var got []events.Event
	for _, et := range []events.EventType{events.EventTicketCreated, events.EventTicketStatusChanged} {
		dispatcher.Subscribe(et, func(_ context.Context, e events.Event) error {
			got = append(got, e)
			return errors.New("subscriber down")
		})
	}
	svc := NewTicketService(TicketDependencies{TicketRepo: f.tickets, Dispatcher: dispatcher})
	ana := register(t, f, "Ana", "ana@example.com", "FUNC001")

	ticket, err := svc.Create(ctx, ana.ID, "X", "d")
	require.NoError(t, err, "subscriber failures must not fail the write")
	require.NoError(t, svc.ProposeResolution(ctx, ticket.ID, "done"))

	require.Len(t, got, 2)
	assert.Equal(t, events.EventTicketCreated, got[0].Type)
	assert.Equal(t, ana.ID, got[0].AccountID)
	assert.Equal(t, ticket.ID, got[1].TicketID)
	assert.Equal(t, events.TicketStatusChangedPayload{
		NewStatus:         domain.TicketStatusResolved,
		ResolutionWritten: true,
	}, got[1].Payload)
}
