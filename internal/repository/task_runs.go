package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/feedbackge/ai-backend/internal/models"
)

const (
	DefaultRunsLimit = 50
	MaxRunsLimit     = 500
)

// TaskRunRepository is the audit trail of gateway task runs.
type TaskRunRepository interface {
	Record(ctx context.Context, run *models.TaskRun) error
	List(ctx context.Context, limit int) ([]models.TaskRun, error)
}

type taskRunRepository struct {
	db *sqlx.DB
}

func NewTaskRunRepository(db *sqlx.DB) TaskRunRepository {
	return &taskRunRepository{db: db}
}

// taskRunRow is a task_runs row; created_at is unix milliseconds.
type taskRunRow struct {
	models.TaskRun
	CreatedAtMS int64 `db:"created_at"`
}

func (r *taskRunRepository) Record(ctx context.Context, run *models.TaskRun) error {
	row := taskRunRow{TaskRun: *run, CreatedAtMS: run.CreatedAt.UnixMilli()}

	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO task_runs (id, task, mode, status, duration_ms, error, created_at)
		VALUES (:id, :task, :mode, :status, :duration_ms, :error, :created_at)
	`, row)
	if err != nil {
		return fmt.Errorf("insert task run %s: %w", run.ID, err)
	}
	return nil
}

// List returns the most recent runs, newest first. Out-of-range limits are
// clamped.
func (r *taskRunRepository) List(ctx context.Context, limit int) ([]models.TaskRun, error) {
	if limit <= 0 {
		limit = DefaultRunsLimit
	}
	if limit > MaxRunsLimit {
		limit = MaxRunsLimit
	}

	var rows []taskRunRow
	err := r.db.SelectContext(ctx, &rows, `
		SELECT id, task, mode, status, duration_ms, error, created_at
		FROM task_runs
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list task runs: %w", err)
	}

	runs := make([]models.TaskRun, 0, len(rows))
	for _, row := range rows {
		run := row.TaskRun
		run.CreatedAt = time.UnixMilli(row.CreatedAtMS).UTC()
		runs = append(runs, run)
	}
	return runs, nil
}
