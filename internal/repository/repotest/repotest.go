// Package repotest provides in-memory repositories that mirror the storage
// constraints of the Postgres implementations, for use in tests.
package repotest

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/repository"
)

// Roster is an in-memory RosterRepository.
type Roster struct {
	mu      sync.Mutex
	entries map[string]domain.RosterEntry
}

// NewRoster returns a roster holding entries.
func NewRoster(entries ...domain.RosterEntry) *Roster {
	r := &Roster{entries: map[string]domain.RosterEntry{}}
	for _, e := range entries {
		r.entries[e.Code] = e
	}
	return r
}

func (r *Roster) GetByCode(_ context.Context, code string) (*domain.RosterEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[code]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &e, nil
}

func (r *Roster) List(context.Context) ([]domain.RosterEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.RosterEntry, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (r *Roster) SeedIfEmpty(_ context.Context, entries []domain.RosterEntry) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.entries) > 0 {
		return 0, nil
	}
	for _, e := range entries {
		r.entries[e.Code] = e
	}
	return len(entries), nil
}

// Accounts enforces unique emails and copies the role from the roster entry.
type Accounts struct {
	mu     sync.Mutex
	roster *Roster
	nextID int64
	byID   map[int64]*domain.Account
}

// NewAccounts returns an empty account store backed by roster.
func NewAccounts(roster *Roster) *Accounts {
	return &Accounts{roster: roster, byID: map[int64]*domain.Account{}}
}

func (r *Accounts) Create(ctx context.Context, account *domain.Account) error {
	entry, err := r.roster.GetByCode(ctx, account.RosterCode)
	if err != nil {
		return domain.ErrInvalidCode
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.byID {
		if a.Email == account.Email {
			return domain.ErrDuplicateEmail
		}
	}
	r.nextID++
	account.ID = r.nextID
	account.Role = entry.Role
	account.CreatedAt = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	stored := *account
	r.byID[account.ID] = &stored
	return nil
}

func (r *Accounts) UpdateProfile(_ context.Context, id int64, displayName, email string) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	for _, other := range r.byID {
		if other.ID != id && other.Email == email {
			return nil, domain.ErrDuplicateEmail
		}
	}
	a.DisplayName = displayName
	a.Email = email
	out := *a
	return &out, nil
}

func (r *Accounts) UpdatePasswordHash(_ context.Context, id int64, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	a.PasswordHash = passwordHash
	return nil
}

func (r *Accounts) UpdatePasswordByEmailAndCode(_ context.Context, email, code, passwordHash string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.byID {
		if a.Email == email && a.RosterCode == code {
			a.PasswordHash = passwordHash
			return true, nil
		}
	}
	return false, nil
}

func (r *Accounts) GetByID(_ context.Context, id int64) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := *a
	return &out, nil
}

func (r *Accounts) GetByEmail(_ context.Context, email string) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.byID {
		if a.Email == email {
			out := *a
			return &out, nil
		}
	}
	return nil, domain.ErrNotFound
}

// Tickets is an in-memory TicketRepository. ListErr, when set, fails List.
type Tickets struct {
	mu       sync.Mutex
	accounts *Accounts
	nextID   int64
	rows     []*domain.Ticket
	ListErr  error
}

// NewTickets returns an empty ticket store joining creators from accounts.
func NewTickets(accounts *Accounts) *Tickets {
	return &Tickets{accounts: accounts}
}

func (r *Tickets) Create(ctx context.Context, ticket *domain.Ticket) error {
	if _, err := r.accounts.GetByID(ctx, ticket.CreatedBy); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	ticket.ID = r.nextID
	stored := *ticket
	r.rows = append(r.rows, &stored)
	return nil
}

func (r *Tickets) GetByID(ctx context.Context, id int64) (*domain.Ticket, error) {
	r.mu.Lock()
	var found *domain.Ticket
	for _, t := range r.rows {
		if t.ID == id {
			cp := *t
			found = &cp
		}
	}
	r.mu.Unlock()
	if found == nil {
		return nil, domain.ErrNotFound
	}
	r.join(ctx, found)
	return found, nil
}

func (r *Tickets) List(ctx context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	if r.ListErr != nil {
		return nil, r.ListErr
	}
	r.mu.Lock()
	var out []domain.Ticket
	for _, t := range r.rows {
		if filter.CreatedBy != nil && t.CreatedBy != *filter.CreatedBy {
			continue
		}
		if filter.Status != nil && t.Status != *filter.Status {
			continue
		}
		out = append(out, *t)
	}
	r.mu.Unlock()
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	for i := range out {
		r.join(ctx, &out[i])
	}
	return out, nil
}

func (r *Tickets) UpdateStatus(_ context.Context, id int64, status domain.TicketStatus, resolution *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.rows {
		if t.ID == id {
			t.Status = status
			if resolution != nil {
				t.Resolution = *resolution
			}
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *Tickets) join(ctx context.Context, t *domain.Ticket) {
	if a, err := r.accounts.GetByID(ctx, t.CreatedBy); err == nil {
		t.CreatorName = a.DisplayName
		t.CreatorEmail = a.Email
	}
}

// Revocations is an in-memory auth.RevocationStore.
type Revocations struct {
	mu      sync.Mutex
	revoked map[string]time.Time
}

func (f *Revocations) Revoke(_ context.Context, id string, until time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.revoked == nil {
		f.revoked = map[string]time.Time{}
	}
	f.revoked[id] = until
	return nil
}

func (f *Revocations) IsRevoked(_ context.Context, id string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.revoked[id]
	return ok, nil
}

var (
	_ repository.RosterRepository  = (*Roster)(nil)
	_ repository.AccountRepository = (*Accounts)(nil)
	_ repository.TicketRepository  = (*Tickets)(nil)
)
