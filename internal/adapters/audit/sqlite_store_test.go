package audit_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tidymail/tidymail/internal/adapters/audit"
	"github.com/tidymail/tidymail/internal/core"
)

func newTestSQLiteStore(t *testing.T) (*audit.SQLiteStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "audit.db")
	store, err := audit.NewSQLiteStore(path, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store, path
}

func TestSQLiteStoreAppendRecords(t *testing.T) {
	store, path := newTestSQLiteStore(t)
	at := time.Date(2025, 3, 10, 22, 0, 12, 0, time.UTC)

	decisions := []*core.Decision{
		{
			Message: &core.MessageSummary{ID: "m1", Subject: "Weekly digest", FromAddr: "news@letters.com"},
			Action:  core.ActionArchive,
			Reason:  "unsubscribe hint",
			By:      core.ByPolicy,
		},
		{
			Message: &core.MessageSummary{ID: "m2", Subject: "Offer", FromAddr: "spam@bad.com"},
			Action:  core.ActionTrash,
			Reason:  "obvious phishing",
			By:      core.ByLLM,
		},
	}
	require.NoError(t, store.AppendRecords(context.Background(), at, decisions))

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	defer db.Close()

	rows, err := db.Query(`SELECT ts, message_id, action, decided_by, reason FROM audit ORDER BY id`)
	require.NoError(t, err)
	defer rows.Close()

	var got [][5]string
	for rows.Next() {
		var r [5]string
		require.NoError(t, rows.Scan(&r[0], &r[1], &r[2], &r[3], &r[4]))
		got = append(got, r)
	}
	require.NoError(t, rows.Err())

	require.Len(t, got, 2)
	assert.Equal(t, [5]string{"2025-03-10T22:00:12Z", "m1", "archive", "policy", "unsubscribe hint"}, got[0])
	assert.Equal(t, [5]string{"2025-03-10T22:00:12Z", "m2", "trash", "llm", "obvious phishing"}, got[1])
}

func TestSQLiteStoreLastRunRoundTrip(t *testing.T) {
	store, _ := newTestSQLiteStore(t)
	ctx := context.Background()

	_, ok, err := store.GetLastRun(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	first := time.Date(2025, 3, 10, 22, 0, 0, 0, time.UTC)
	require.NoError(t, store.SetLastRun(ctx, first))

	got, ok, err := store.GetLastRun(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, got.Equal(first))

	second := first.Add(24 * time.Hour)
	require.NoError(t, store.SetLastRun(ctx, second))

	got, ok, err = store.GetLastRun(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, got.Equal(second))
}
