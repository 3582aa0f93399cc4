package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"invoicegate/internal/domain"
	"invoicegate/internal/port"
)

type jobRepo struct {
	db *sqlx.DB
}

// NewJobRepo creates a new PostgreSQL-backed JobRepository.
func NewJobRepo(db *sqlx.DB) port.JobRepository {
	return &jobRepo{db: db}
}

// jobRow mirrors the jobs table; JSONB columns hold the immutable sub-records.
type jobRow struct {
	ID           uuid.UUID      `db:"id"`
	Status       string         `db:"status"`
	Source       string         `db:"source"`
	Filename     string         `db:"filename"`
	EmailFrom    string         `db:"email_from"`
	EmailSubject string         `db:"email_subject"`
	PageCount    int            `db:"page_count"`
	ArchiveKey   string         `db:"archive_key"`
	Result       []byte         `db:"result"`
	Verification []byte         `db:"verification"`
	Notification []byte         `db:"notification"`
	Error        sql.NullString `db:"error"`
	CreatedAt    time.Time      `db:"created_at"`
	ProcessedAt  time.Time      `db:"processed_at"`
}

const jobColumns = `id, status, source, filename, email_from, email_subject, page_count, archive_key,
	result, verification, notification, error, created_at, processed_at`

func (r *jobRepo) Put(ctx context.Context, job *domain.Job) error {
	result, err := marshalNullable(job.Result)
	if err != nil {
		return fmt.Errorf("jobRepo.Put marshal result: %w", err)
	}
	verification, err := marshalNullable(job.Verification)
	if err != nil {
		return fmt.Errorf("jobRepo.Put marshal verification: %w", err)
	}
	notification, err := marshalNullable(job.Notification)
	if err != nil {
		return fmt.Errorf("jobRepo.Put marshal notification: %w", err)
	}

	query := `INSERT INTO jobs (` + jobColumns + `) VALUES (
		$1, $2, $3, $4, $5, $6, $7, $8,
		$9, $10, $11, $12, $13, $14
	)
	ON CONFLICT (id) DO UPDATE SET
		status = EXCLUDED.status,
		page_count = EXCLUDED.page_count,
		archive_key = EXCLUDED.archive_key,
		result = EXCLUDED.result,
		verification = EXCLUDED.verification,
		notification = EXCLUDED.notification,
		error = EXCLUDED.error,
		processed_at = EXCLUDED.processed_at`

	_, err = r.db.ExecContext(ctx, query,
		job.ID, string(job.Status), string(job.Source), job.Filename, job.EmailFrom, job.EmailSubject,
		job.PageCount, job.ArchiveKey,
		result, verification, notification, nullString(job.Error),
		job.CreatedAt, job.ProcessedAt)
	if err != nil {
		return fmt.Errorf("jobRepo.Put: %w", err)
	}
	return nil
}

func (r *jobRepo) Get(ctx context.Context, id uuid.UUID) (*domain.Job, error) {
	var row jobRow
	err := r.db.GetContext(ctx, &row,
		"SELECT "+jobColumns+" FROM jobs WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrJobNotFound
		}
		return nil, fmt.Errorf("jobRepo.Get: %w", err)
	}
	job, err := row.toDomain()
	if err != nil {
		return nil, fmt.Errorf("jobRepo.Get: %w", err)
	}
	return job, nil
}

func (r *jobRepo) List(ctx context.Context) ([]*domain.Job, error) {
	var rows []jobRow
	err := r.db.SelectContext(ctx, &rows,
		"SELECT "+jobColumns+" FROM jobs ORDER BY seq ASC")
	if err != nil {
		return nil, fmt.Errorf("jobRepo.List: %w", err)
	}

	jobs := make([]*domain.Job, 0, len(rows))
	for i := range rows {
		job, err := rows[i].toDomain()
		if err != nil {
			return nil, fmt.Errorf("jobRepo.List: %w", err)
		}
		jobs = append(jobs, job)
	}
	return jobs, nil
}

func (row *jobRow) toDomain() (*domain.Job, error) {
	job := &domain.Job{
		ID:           row.ID,
		Status:       domain.JobStatus(row.Status),
		Source:       domain.JobSource(row.Source),
		Filename:     row.Filename,
		EmailFrom:    row.EmailFrom,
		EmailSubject: row.EmailSubject,
		PageCount:    row.PageCount,
		ArchiveKey:   row.ArchiveKey,
		Error:        row.Error.String,
		CreatedAt:    row.CreatedAt,
		ProcessedAt:  row.ProcessedAt,
	}
	if len(row.Result) > 0 {
		job.Result = &domain.CanonicalInvoice{}
		if err := json.Unmarshal(row.Result, job.Result); err != nil {
			return nil, fmt.Errorf("unmarshaling result: %w", err)
		}
	}
	if len(row.Verification) > 0 {
		job.Verification = &domain.VerificationReport{}
		if err := json.Unmarshal(row.Verification, job.Verification); err != nil {
			return nil, fmt.Errorf("unmarshaling verification: %w", err)
		}
	}
	if len(row.Notification) > 0 {
		job.Notification = &domain.NotificationOutcome{}
		if err := json.Unmarshal(row.Notification, job.Notification); err != nil {
			return nil, fmt.Errorf("unmarshaling notification: %w", err)
		}
	}
	return job, nil
}

// marshalNullable encodes v as JSON, mapping a nil pointer to SQL NULL.
func marshalNullable[T any](v *T) ([]byte, error) {
	if v == nil {
		return nil, nil
	}
	return json.Marshal(v)
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
