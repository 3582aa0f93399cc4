package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"invoicegate/internal/domain"
	"invoicegate/internal/port"
)

// checkHistoryLockKey serializes concurrent appends across processes.
const checkHistoryLockKey = 7_302_114

type checkHistoryRepo struct {
	db    *sqlx.DB
	limit int
}

// NewCheckHistoryRepo creates a PostgreSQL-backed CheckHistoryRepository retaining at most limit entries.
func NewCheckHistoryRepo(db *sqlx.DB, limit int) port.CheckHistoryRepository {
	if limit <= 0 {
		limit = domain.MaxCheckHistory
	}
	return &checkHistoryRepo{db: db, limit: limit}
}

type checkHistoryRow struct {
	ID                uuid.UUID `db:"id"`
	CheckedAt         time.Time `db:"checked_at"`
	Trigger           string    `db:"trigger"`
	InvoicesFound     int       `db:"invoices_found"`
	InvoicesProcessed int       `db:"invoices_processed"`
	Errors            []byte    `db:"errors"`
	JobIDs            []byte    `db:"job_ids"`
}

const checkHistoryColumns = `id, checked_at, trigger, invoices_found, invoices_processed, errors, job_ids`

func (r *checkHistoryRepo) Append(ctx context.Context, entry *domain.CheckHistoryEntry) (err error) {
	errs, err := json.Marshal(nonNilStrings(entry.Errors))
	if err != nil {
		return fmt.Errorf("checkHistoryRepo.Append marshal errors: %w", err)
	}
	jobIDs, err := json.Marshal(nonNilIDs(entry.JobIDs))
	if err != nil {
		return fmt.Errorf("checkHistoryRepo.Append marshal job ids: %w", err)
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("checkHistoryRepo.Append begin: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, "SELECT pg_advisory_xact_lock($1)", checkHistoryLockKey); err != nil {
		return fmt.Errorf("checkHistoryRepo.Append lock: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO check_history (`+checkHistoryColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		entry.ID, entry.CheckedAt, string(entry.Trigger), entry.InvoicesFound, entry.InvoicesProcessed, errs, jobIDs)
	if err != nil {
		return fmt.Errorf("checkHistoryRepo.Append insert: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`DELETE FROM check_history WHERE seq NOT IN (
			SELECT seq FROM check_history ORDER BY seq DESC LIMIT $1
		)`, r.limit)
	if err != nil {
		return fmt.Errorf("checkHistoryRepo.Append prune: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("checkHistoryRepo.Append commit: %w", err)
	}
	return nil
}

func (r *checkHistoryRepo) Recent(ctx context.Context, n int) ([]*domain.CheckHistoryEntry, error) {
	if n <= 0 {
		n = r.limit
	}
	var rows []checkHistoryRow
	err := r.db.SelectContext(ctx, &rows,
		`SELECT `+checkHistoryColumns+` FROM (
			SELECT seq, `+checkHistoryColumns+` FROM check_history ORDER BY seq DESC LIMIT $1
		) recent ORDER BY seq ASC`, n)
	if err != nil {
		return nil, fmt.Errorf("checkHistoryRepo.Recent: %w", err)
	}

	out := make([]*domain.CheckHistoryEntry, 0, len(rows))
	for i := range rows {
		entry, err := rows[i].toDomain()
		if err != nil {
			return nil, fmt.Errorf("checkHistoryRepo.Recent: %w", err)
		}
		out = append(out, entry)
	}
	return out, nil
}

func (r *checkHistoryRepo) Count(ctx context.Context) (int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM check_history"); err != nil {
		return 0, fmt.Errorf("checkHistoryRepo.Count: %w", err)
	}
	return total, nil
}

func (r *checkHistoryRepo) Last(ctx context.Context) (*domain.CheckHistoryEntry, error) {
	entries, err := r.Recent(ctx, 1)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, nil
	}
	return entries[0], nil
}

func (row *checkHistoryRow) toDomain() (*domain.CheckHistoryEntry, error) {
	entry := &domain.CheckHistoryEntry{
		ID:                row.ID,
		CheckedAt:         row.CheckedAt,
		Trigger:           domain.SweepTrigger(row.Trigger),
		InvoicesFound:     row.InvoicesFound,
		InvoicesProcessed: row.InvoicesProcessed,
		Errors:            []string{},
		JobIDs:            []uuid.UUID{},
	}
	if len(row.Errors) > 0 {
		if err := json.Unmarshal(row.Errors, &entry.Errors); err != nil {
			return nil, fmt.Errorf("unmarshaling errors: %w", err)
		}
	}
	if len(row.JobIDs) > 0 {
		if err := json.Unmarshal(row.JobIDs, &entry.JobIDs); err != nil {
			return nil, fmt.Errorf("unmarshaling job ids: %w", err)
		}
	}
	return entry, nil
}

func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func nonNilIDs(ids []uuid.UUID) []uuid.UUID {
	if ids == nil {
		return []uuid.UUID{}
	}
	return ids
}
