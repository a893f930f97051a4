package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk/internal/domain"
)

// rosterSeedLockKey serializes concurrent first-run seeding across processes.
const rosterSeedLockKey int64 = 0x726f73746572

// RosterRepository reads and bootstraps the registration roster.
type RosterRepository interface {
	GetByCode(ctx context.Context, code string) (*domain.RosterEntry, error)
	List(ctx context.Context) ([]domain.RosterEntry, error)
	SeedIfEmpty(ctx context.Context, entries []domain.RosterEntry) (int, error)
}

type rosterRepository struct {
	pool *pgxpool.Pool
}

// NewRosterRepository returns a Postgres-backed implementation.
func NewRosterRepository(pool *pgxpool.Pool) RosterRepository {
	return &rosterRepository{pool: pool}
}

func (r *rosterRepository) GetByCode(ctx context.Context, code string) (*domain.RosterEntry, error) {
	const query = `SELECT code, role FROM roster_entries WHERE code=$1`

	var entry domain.RosterEntry
	if err := r.pool.QueryRow(ctx, query, code).Scan(&entry.Code, &entry.Role); err != nil {
		return nil, translate(err)
	}
	return &entry, nil
}

func (r *rosterRepository) List(ctx context.Context) ([]domain.RosterEntry, error) {
	const query = `SELECT code, role FROM roster_entries ORDER BY role, code`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.RosterEntry
	for rows.Next() {
		var entry domain.RosterEntry
		if err := rows.Scan(&entry.Code, &entry.Role); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// SeedIfEmpty inserts entries only when the roster has no rows and returns how many were written.
func (r *rosterRepository) SeedIfEmpty(ctx context.Context, entries []domain.RosterEntry) (inserted int, err error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	if _, err = tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, rosterSeedLockKey); err != nil {
		return 0, fmt.Errorf("lock roster: %w", err)
	}

	var count int
	if err = tx.QueryRow(ctx, `SELECT COUNT(*) FROM roster_entries`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count roster: %w", err)
	}
	if count > 0 {
		return 0, tx.Commit(ctx)
	}

	batch := &pgx.Batch{}
	for _, entry := range entries {
		batch.Queue(`INSERT INTO roster_entries (code, role) VALUES ($1, $2) ON CONFLICT (code) DO NOTHING`, entry.Code, entry.Role)
	}
	if err = tx.SendBatch(ctx, batch).Close(); err != nil {
		return 0, fmt.Errorf("insert roster: %w", err)
	}
	if err = tx.Commit(ctx); err != nil {
		return 0, err
	}
	return len(entries), nil
}
