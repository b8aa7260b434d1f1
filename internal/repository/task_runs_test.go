package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feedbackge/ai-backend/internal/db"
	"github.com/feedbackge/ai-backend/internal/models"
)

func newTestRepo(t *testing.T) TaskRunRepository {
	t.Helper()
	path := filepath.Join(t.TempDir(), "audit.db")
	require.NoError(t, db.RunMigrations(path))

	conn, err := db.NewSQLiteDB(path)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return NewTaskRunRepository(conn)
}

func TestTaskRunRepository_RecordAndList(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	runs := []*models.TaskRun{
		{ID: "a", Task: "generate-survey", Mode: "ai", Status: 200, DurationMS: 850, CreatedAt: base},
		{ID: "b", Task: "insights", Mode: "fallback", Status: 500, DurationMS: 15000, Error: "context deadline exceeded", CreatedAt: base.Add(time.Second)},
		{ID: "c", Task: "import-questions", Mode: "degraded", Status: 200, CreatedAt: base.Add(2 * time.Second)},
	}
	for _, run := range runs {
		require.NoError(t, repo.Record(ctx, run))
	}

	got, err := repo.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "c", got[0].ID)
	assert.Equal(t, "b", got[1].ID)
	assert.Equal(t, "context deadline exceeded", got[1].Error)
	assert.Equal(t, 500, got[1].Status)
	assert.Equal(t, int64(15000), got[1].DurationMS)
	assert.True(t, base.Add(time.Second).Equal(got[1].CreatedAt))

	all, err := repo.List(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestTaskRunRepository_DuplicateID(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	run := &models.TaskRun{ID: "dup", Task: "insights", Mode: "ai", Status: 200, CreatedAt: time.Now()}

	require.NoError(t, repo.Record(ctx, run))
	assert.Error(t, repo.Record(ctx, run))
}

func TestTaskRunRepository_EmptyList(t *testing.T) {
	repo := newTestRepo(t)

	got, err := repo.List(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NotNil(t, got)
}
