package audit_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tidymail/tidymail/internal/adapters/audit"
	"github.com/tidymail/tidymail/internal/core"
)

func TestMemoryStoreAppendRecords(t *testing.T) {
	store := audit.NewMemoryStore()
	at := time.Date(2025, 3, 10, 22, 0, 12, 0, time.UTC)

	decisions := []*core.Decision{
		{
			Message: &core.MessageSummary{ID: "m1", Subject: "Weekly digest", FromAddr: "news@letters.com"},
			Action:  core.ActionArchive,
			Reason:  "unsubscribe hint",
			By:      core.ByPolicy,
		},
		{
			Message: &core.MessageSummary{ID: "m2", Subject: "Quarterly planning", FromAddr: "boss@company.com"},
			Action:  core.ActionKeep,
			Reason:  "whitelisted",
			By:      core.ByPolicy,
		},
	}
	require.NoError(t, store.AppendRecords(context.Background(), at, decisions))

	records := store.Records()
	require.Len(t, records, 2)
	assert.Equal(t, "m1", records[0].MessageID)
	assert.Equal(t, core.ActionArchive, records[0].Action)
	assert.Equal(t, "unsubscribe hint", records[0].Reason)
	assert.Equal(t, "news@letters.com", records[0].Sender)
	assert.Equal(t, at, records[0].Timestamp)
	assert.Equal(t, "m2", records[1].MessageID)
}

func TestMemoryStoreAppendIsAppendOnly(t *testing.T) {
	store := audit.NewMemoryStore()
	ctx := context.Background()
	d := &core.Decision{
		Message: &core.MessageSummary{ID: "m1"},
		Action:  core.ActionKeep,
		By:      core.ByPolicy,
	}

	require.NoError(t, store.AppendRecords(ctx, time.Now(), []*core.Decision{d}))
	require.NoError(t, store.AppendRecords(ctx, time.Now(), []*core.Decision{d}))

	assert.Len(t, store.Records(), 2)
}

func TestMemoryStoreLastRun(t *testing.T) {
	store := audit.NewMemoryStore()
	ctx := context.Background()

	_, ok, err := store.GetLastRun(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	ts := time.Date(2025, 3, 10, 22, 0, 0, 0, time.UTC)
	require.NoError(t, store.SetLastRun(ctx, ts))

	got, ok, err := store.GetLastRun(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, ts, got)
}
