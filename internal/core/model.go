package core

import (
	"time"
)

// Action is the disposition applied to a triaged message.
// Severity ordering for safety purposes: keep < label < archive < trash.
type Action string

const (
	ActionKeep    Action = "keep"
	ActionArchive Action = "archive"
	ActionTrash   Action = "trash"
	ActionLabel   Action = "label"
)

// DecidedBy tags the origin of a decision
const (
	ByPolicy = "policy"
	ByLLM    = "llm"
)

// MessageSummary represents one fetched message and its metadata.
// It is constructed by the mailbox gateway and never mutated by the core.
type MessageSummary struct {
	ID          string
	ThreadID    string
	FromAddr    string
	ToAddrs     []string
	CcAddrs     []string
	Subject     string
	Snippet     string
	Labels      []string
	Date        time.Time
	BodyPreview string
}

// Classification is the output of the external classifier for one message
type Classification struct {
	Category        string
	Confidence      float64
	SuggestedAction Action
	Rationale       string
}

// Decision is the final verdict computed for one message in one run
type Decision struct {
	Message     *MessageSummary
	Action      Action
	LabelsToAdd []string
	Reason      string
	By          string
}

// RunReport aggregates the outcome of one full triage run.
// It is assembled once by the orchestrator and never mutated after being returned.
type RunReport struct {
	StartedAt  time.Time
	FinishedAt time.Time
	Counts     map[string]int
	Examples   map[string][]string
	Errors     []string
	Decisions  []*Decision
}

// NewRunReport creates an empty report stamped with the run start time
func NewRunReport(startedAt time.Time) *RunReport {
	return &RunReport{
		StartedAt: startedAt,
		Counts:    make(map[string]int),
		Examples:  make(map[string][]string),
	}
}

// maxExamplesPerAction bounds the per-action subject samples kept in a report
const maxExamplesPerAction = 5

// Tally records a decision in the report's counters and example lists
func (r *RunReport) Tally(d *Decision) {
	key := string(d.Action)
	r.Counts[key]++
	if len(r.Examples[key]) < maxExamplesPerAction {
		r.Examples[key] = append(r.Examples[key], d.Message.Subject)
	}
	r.Decisions = append(r.Decisions, d)
}

// Processed returns the number of messages for which a decision was made
func (r *RunReport) Processed() int {
	total := 0
	for _, n := range r.Counts {
		total += n
	}
	return total
}
