package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/repository/repotest"
)

func TestRosterSeedIfEmptyRunsOnce(t *testing.T) {
	ctx := context.Background()
	svc := NewRosterService(repotest.NewRoster(), nil)

	inserted, err := svc.SeedIfEmpty(ctx)
	require.NoError(t, err)
	assert.Equal(t, 13, inserted)

	inserted, err = svc.SeedIfEmpty(ctx)
	require.NoError(t, err)
	assert.Zero(t, inserted)

	entries, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, entries, 13)
}

func TestRosterLookup(t *testing.T) {
	ctx := context.Background()
	svc := NewRosterService(repotest.NewRoster(domain.DefaultRoster()...), nil)

	entry, err := svc.Lookup(ctx, " TEC002 ")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleTechnician, entry.Role)

	_, err = svc.Lookup(ctx, "NOPE")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.Lookup(ctx, "")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
