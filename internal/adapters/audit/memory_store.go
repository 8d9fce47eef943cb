package audit

import (
	"context"
	"sync"
	"time"

	"github.com/tidymail/tidymail/internal/core"
)

// Record is one row of the in-memory audit log
type Record struct {
	Timestamp time.Time
	MessageID string
	Action    core.Action
	By        string
	Reason    string
	Subject   string
	Sender    string
}

// MemoryStore is an in-memory implementation of the AuditStore interface,
// used for tests and ephemeral runs.
type MemoryStore struct {
	mu         sync.Mutex
	records    []Record
	lastRun    time.Time
	hasLastRun bool
}

// NewMemoryStore creates a new in-memory audit store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// AppendRecords appends one record per decision
func (s *MemoryStore) AppendRecords(ctx context.Context, at time.Time, decisions []*core.Decision) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range decisions {
		s.records = append(s.records, Record{
			Timestamp: at,
			MessageID: d.Message.ID,
			Action:    d.Action,
			By:        d.By,
			Reason:    d.Reason,
			Subject:   d.Message.Subject,
			Sender:    d.Message.FromAddr,
		})
	}
	return nil
}

// GetLastRun returns the timestamp of the last completed run, if any
func (s *MemoryStore) GetLastRun(ctx context.Context) (time.Time, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastRun, s.hasLastRun, nil
}

// SetLastRun persists the timestamp of the latest completed run
func (s *MemoryStore) SetLastRun(ctx context.Context, ts time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastRun = ts
	s.hasLastRun = true
	return nil
}

// Records returns a copy of the appended rows in insertion order
func (s *MemoryStore) Records() []Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Record, len(s.records))
	copy(out, s.records)
	return out
}
