package core

import (
	"context"
	"time"
)

// MailboxGateway defines the capability set the orchestrator needs from a
// mailbox provider. Implementations own their own timeouts and rate limiting.
type MailboxGateway interface {
	// ListMessages returns up to maxResults message ids matching the query
	ListMessages(ctx context.Context, maxResults int64, query string) ([]string, error)

	// GetMessage fetches one message, optionally including a body preview
	GetMessage(ctx context.Context, id string, includeBody bool) (*MessageSummary, error)

	// ModifyLabels adds and/or removes labels. Adding an existing label or
	// removing an absent one is a no-op, not an error.
	ModifyLabels(ctx context.Context, id string, add, remove []string) error

	// ArchiveMessage removes the message from the inbox but keeps it searchable
	ArchiveMessage(ctx context.Context, id string) error

	// TrashMessage moves the message to the provider's trash
	TrashMessage(ctx context.Context, id string) error

	// SendEmail sends a plain message, used for report delivery
	SendEmail(ctx context.Context, to, subject, body string) error
}

// Classifier defines the interface to the external classification model
type Classifier interface {
	// Classify returns a category, confidence and suggested action for a message
	Classify(ctx context.Context, msg *MessageSummary) (*Classification, error)
}

// AuditStore persists run bookkeeping and an append-only action log.
// Append is the only mutation; rows are never updated or deleted.
type AuditStore interface {
	// AppendRecords appends one audit row per decision
	AppendRecords(ctx context.Context, at time.Time, decisions []*Decision) error

	// GetLastRun returns the timestamp of the last completed run, if any
	GetLastRun(ctx context.Context) (time.Time, bool, error)

	// SetLastRun persists the timestamp of the latest completed run
	SetLastRun(ctx context.Context, ts time.Time) error
}

// SafetyPolicy answers the whitelist and protected-label questions for a message
type SafetyPolicy interface {
	// IsSenderWhitelisted reports whether the sender address or its domain is whitelisted
	IsSenderWhitelisted(from string) bool

	// IsProtected reports whether any of the labels is in the never-touch set
	IsProtected(labels []string) bool
}
