package service

import (
	"testing"

	"github.com/spec-kit/helpdesk/internal/config"
	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/repository/repotest"
)

type fixture struct {
	roster   *repotest.Roster
	accounts *repotest.Accounts
	tickets  *repotest.Tickets
	revoked  *repotest.Revocations
	auth     *AuthService
	ticket   *TicketService
}

func testConfig() config.Config {
	return config.Config{Auth: config.AuthConfig{
		JWTSecret:             "test-secret",
		AccessTokenTTLMinutes: 5,
		Argon2Time:            1,
		Argon2MemoryKiB:       8 * 1024,
		Argon2Threads:         1,
	}}
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	roster := repotest.NewRoster(domain.DefaultRoster()...)
	accounts := repotest.NewAccounts(roster)
	tickets := repotest.NewTickets(accounts)
	revoked := &repotest.Revocations{}
	return &fixture{
		roster:   roster,
		accounts: accounts,
		tickets:  tickets,
		revoked:  revoked,
		auth: NewAuthService(testConfig(), AuthDependencies{
			AccountRepo: accounts,
			RosterRepo:  roster,
			Revocations: revoked,
		}),
		ticket: NewTicketService(TicketDependencies{TicketRepo: tickets}),
	}
}
