package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewRejectsBadInputs(t *testing.T) {
	_, err := New("25:00", "UTC", func(time.Time) {}, zap.NewNop())
	assert.Error(t, err)

	_, err = New("22:00", "Mars/Olympus", func(time.Time) {}, zap.NewNop())
	assert.Error(t, err)
}

func TestNextRunLaterToday(t *testing.T) {
	s, err := New("22:00", "UTC", func(time.Time) {}, zap.NewNop())
	require.NoError(t, err)

	now := time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)
	next := s.nextRun(now)

	assert.Equal(t, time.Date(2025, 3, 10, 22, 0, 0, 0, time.UTC), next)
}

func TestNextRunRollsToTomorrow(t *testing.T) {
	s, err := New("22:00", "UTC", func(time.Time) {}, zap.NewNop())
	require.NoError(t, err)

	now := time.Date(2025, 3, 10, 23, 15, 0, 0, time.UTC)
	next := s.nextRun(now)

	assert.Equal(t, time.Date(2025, 3, 11, 22, 0, 0, 0, time.UTC), next)
}

func TestNextRunExactTimeRollsToTomorrow(t *testing.T) {
	s, err := New("22:00", "UTC", func(time.Time) {}, zap.NewNop())
	require.NoError(t, err)

	now := time.Date(2025, 3, 10, 22, 0, 0, 0, time.UTC)
	next := s.nextRun(now)

	assert.Equal(t, time.Date(2025, 3, 11, 22, 0, 0, 0, time.UTC), next)
}

func TestRunOnce(t *testing.T) {
	var got time.Time
	err := RunOnce("UTC", func(now time.Time) { got = now })
	require.NoError(t, err)
	assert.False(t, got.IsZero())

	err = RunOnce("Mars/Olympus", func(time.Time) {})
	assert.Error(t, err)
}
