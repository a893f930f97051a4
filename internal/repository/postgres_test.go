package repository

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/persistence"
)

// testPool connects to HELPDESK_TEST_POSTGRES_DSN, migrates, and empties every table.
// The database is wiped; point it at a disposable instance.
func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("HELPDESK_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("HELPDESK_TEST_POSTGRES_DSN not set")
	}
	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, persistence.RunMigrations(ctx, pool, zap.NewNop()))
	_, err = pool.Exec(ctx, `TRUNCATE tickets, accounts, roster_entries RESTART IDENTITY CASCADE`)
	require.NoError(t, err)
	return pool
}

func seededRepos(t *testing.T) (RosterRepository, AccountRepository, TicketRepository) {
	t.Helper()
	pool := testPool(t)
	roster := NewRosterRepository(pool)
	_, err := roster.SeedIfEmpty(context.Background(), domain.DefaultRoster())
	require.NoError(t, err)
	return roster, NewAccountRepository(pool), NewTicketRepository(pool)
}

func newAccount(t *testing.T, repo AccountRepository, email, code string) *domain.Account {
	t.Helper()
	account := &domain.Account{DisplayName: email, Email: email, PasswordHash: "digest", RosterCode: code}
	require.NoError(t, repo.Create(context.Background(), account))
	return account
}

func TestPostgresRosterSeedIsIdempotent(t *testing.T) {
	ctx := context.Background()
	roster := NewRosterRepository(testPool(t))

	var wg sync.WaitGroup
	results := make([]int, 4)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			n, err := roster.SeedIfEmpty(ctx, domain.DefaultRoster())
			assert.NoError(t, err)
			results[i] = n
		}(i)
	}
	wg.Wait()

	total := 0
	for _, n := range results {
		total += n
	}
	assert.Equal(t, len(domain.DefaultRoster()), total, "exactly one seeder writes")

	entries, err := roster.List(ctx)
	require.NoError(t, err)
	assert.Len(t, entries, 13)

	entry, err := roster.GetByCode(ctx, "TEC002")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleTechnician, entry.Role)

	_, err = roster.GetByCode(ctx, "NOPE")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPostgresAccountConstraints(t *testing.T) {
	ctx := context.Background()
	_, accounts, _ := seededRepos(t)

	ana := &domain.Account{DisplayName: "Ana", Email: "ana@example.com", PasswordHash: "d", RosterCode: "FUNC001", Role: domain.RoleTechnician}
	require.NoError(t, accounts.Create(ctx, ana))
	assert.Equal(t, domain.RoleRequester, ana.Role, "role comes from the roster, not the caller")
	assert.NotZero(t, ana.ID)

	err := accounts.Create(ctx, &domain.Account{DisplayName: "X", Email: "ana@example.com", PasswordHash: "d", RosterCode: "FUNC002"})
	assert.ErrorIs(t, err, domain.ErrDuplicateEmail)

	err = accounts.Create(ctx, &domain.Account{DisplayName: "X", Email: "x@example.com", PasswordHash: "d", RosterCode: "BOGUS"})
	assert.ErrorIs(t, err, domain.ErrInvalidCode)

	reused := newAccount(t, accounts, "bia@example.com", "FUNC001")
	assert.Equal(t, domain.RoleRequester, reused.Role)

	_, err = accounts.UpdateProfile(ctx, reused.ID, "Bia", "ana@example.com")
	assert.ErrorIs(t, err, domain.ErrDuplicateEmail)

	updated, err := accounts.UpdateProfile(ctx, reused.ID, "Bia", "bia.s@example.com")
	require.NoError(t, err)
	assert.Equal(t, "FUNC001", updated.RosterCode)
	assert.Equal(t, "digest", updated.PasswordHash)

	_, err = accounts.GetByID(ctx, 424242)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = accounts.GetByEmail(ctx, "ghost@example.com")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPostgresConcurrentRegistrationSameEmail(t *testing.T) {
	ctx := context.Background()
	_, accounts, _ := seededRepos(t)

	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		wins  int
		dupes int
	)
	for i := 0; i < 6; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := accounts.Create(ctx, &domain.Account{DisplayName: "R", Email: "race@example.com", PasswordHash: "d", RosterCode: "FUNC003"})
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				wins++
			} else if assert.ErrorIs(t, err, domain.ErrDuplicateEmail) {
				dupes++
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, wins)
	assert.Equal(t, 5, dupes)
}

func TestPostgresRecoveryGating(t *testing.T) {
	ctx := context.Background()
	_, accounts, _ := seededRepos(t)
	ana := newAccount(t, accounts, "ana@example.com", "FUNC001")

	ok, err := accounts.UpdatePasswordByEmailAndCode(ctx, "ana@example.com", "FUNC002", "new")
	require.NoError(t, err)
	assert.False(t, ok)

	stored, err := accounts.GetByID(ctx, ana.ID)
	require.NoError(t, err)
	assert.Equal(t, "digest", stored.PasswordHash)

	ok, err = accounts.UpdatePasswordByEmailAndCode(ctx, "ana@example.com", "FUNC001", "new")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestPostgresTicketVisibilityAndStatus(t *testing.T) {
	ctx := context.Background()
	_, accounts, tickets := seededRepos(t)
	ana := newAccount(t, accounts, "ana@example.com", "FUNC001")
	bia := newAccount(t, accounts, "bia@example.com", "FUNC002")

	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	create := func(owner *domain.Account, title string, offset time.Duration) *domain.Ticket {
		ticket := &domain.Ticket{Title: title, Description: "d", Status: domain.TicketStatusOpen, CreatedBy: owner.ID, CreatedAt: base.Add(offset)}
		require.NoError(t, tickets.Create(ctx, ticket))
		return ticket
	}
	x := create(ana, "X", 0)
	y := create(bia, "Y", time.Minute)
	z := create(ana, "Z", 2*time.Minute)

	all, err := tickets.List(ctx, TicketFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []int64{z.ID, y.ID, x.ID}, []int64{all[0].ID, all[1].ID, all[2].ID})
	assert.Equal(t, "bia@example.com", all[1].CreatorEmail)
	assert.Equal(t, time.UTC, all[0].CreatedAt.Location())

	own, err := tickets.List(ctx, TicketFilter{CreatedBy: &ana.ID})
	require.NoError(t, err)
	assert.Len(t, own, 2)

	fixed := "fixed"
	require.NoError(t, tickets.UpdateStatus(ctx, x.ID, domain.TicketStatusResolved, &fixed))
	require.NoError(t, tickets.UpdateStatus(ctx, x.ID, domain.TicketStatusInProgress, nil))

	got, err := tickets.GetByID(ctx, x.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusInProgress, got.Status)
	assert.Equal(t, "fixed", got.Resolution)
	assert.Equal(t, "ana@example.com", got.CreatorName)

	inProgress := domain.TicketStatusInProgress
	filtered, err := tickets.List(ctx, TicketFilter{Status: &inProgress})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, x.ID, filtered[0].ID)

	assert.Error(t, tickets.UpdateStatus(ctx, x.ID, domain.TicketStatus("Closed"), nil), "check constraint rejects unknown statuses")
	assert.ErrorIs(t, tickets.UpdateStatus(ctx, 999, domain.TicketStatusOpen, nil), domain.ErrNotFound)

	_, err = tickets.GetByID(ctx, 999)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	err = tickets.Create(ctx, &domain.Ticket{Title: "T", Description: "d", Status: domain.TicketStatusOpen, CreatedBy: 999, CreatedAt: base})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
