package core

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// TriageOptions holds the validated configuration values the triage service
// needs. The service never re-validates or mutates them.
type TriageOptions struct {
	DryRun             bool
	DefaultAction      string
	QuarantineLabel    string
	PreserveDays       int
	MaxMessagesPerRun  int64
	FetchWindowHours   int
	LLMEnabled         bool
	MinTrashConfidence float64
}

// TriageService orchestrates one triage run: list, fetch, decide, act, tally.
// Messages are processed sequentially in listing order; no single message's
// failure ever aborts the batch.
type TriageService struct {
	gateway    MailboxGateway
	classifier Classifier
	audit      AuditStore
	safety     SafetyPolicy
	logger     *zap.Logger
	opts       TriageOptions
}

// NewTriageService creates a new triage service
func NewTriageService(
	gateway MailboxGateway,
	classifier Classifier,
	audit AuditStore,
	safety SafetyPolicy,
	logger *zap.Logger,
	opts TriageOptions,
) *TriageService {
	return &TriageService{
		gateway:    gateway,
		classifier: classifier,
		audit:      audit,
		safety:     safety,
		logger:     logger,
		opts:       opts,
	}
}

// buildQuery assembles the provider search expression for a run: a listing
// window plus a fixed exclusion of chat-like items.
func (s *TriageService) buildQuery() string {
	if s.opts.FetchWindowHours > 0 {
		return fmt.Sprintf("newer_than:%dh -in:chats", s.opts.FetchWindowHours)
	}
	return "-in:chats"
}

// ProcessInbox runs one full triage batch and returns the assembled report.
// Per-item failures become entries in the report's error list; the only
// user-visible failure channel.
func (s *TriageService) ProcessInbox(ctx context.Context, now time.Time) *RunReport {
	report := NewRunReport(now)

	var ids []string
	if s.gateway != nil {
		var err error
		ids, err = s.gateway.ListMessages(ctx, s.opts.MaxMessagesPerRun, s.buildQuery())
		if err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("list_messages failed: %v", err))
			s.logger.Error("Failed to list messages", zap.Error(err))
			ids = nil
		}
	}

	for _, id := range ids {
		msg, err := s.gateway.GetMessage(ctx, id, true)
		if err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("get_message %s failed: %v", id, err))
			s.logger.Warn("Failed to fetch message", zap.String("id", id), zap.Error(err))
			continue
		}

		decision := s.DecideMessage(ctx, msg)

		if !s.opts.DryRun {
			if err := s.ExecuteDecision(ctx, decision); err != nil {
				// The decision stands even when applying it failed
				report.Errors = append(report.Errors, fmt.Sprintf("action failed for %s: %v", id, err))
				s.logger.Warn("Failed to execute decision",
					zap.String("id", id),
					zap.String("action", string(decision.Action)),
					zap.Error(err))
			}
		}

		report.Tally(decision)
		s.logger.Debug("Message triaged",
			zap.String("id", id),
			zap.String("action", string(decision.Action)),
			zap.String("reason", decision.Reason),
			zap.String("by", decision.By))
	}

	report.FinishedAt = time.Now()
	s.recordRun(ctx, report)
	return report
}

// DecideMessage combines policy and classifier signals into a final decision.
// Policy rules short-circuit the classifier; when both decline, a fixed
// conservative fallback keeps the message.
func (s *TriageService) DecideMessage(ctx context.Context, msg *MessageSummary) *Decision {
	if d, ok := PolicyDecide(msg, s.safety); ok {
		return d
	}

	if s.opts.LLMEnabled && s.classifier != nil {
		cls, err := s.classifier.Classify(ctx, msg)
		if err != nil {
			// Classifier unavailable is "no verdict", never a run failure
			s.logger.Warn("Classifier unavailable", zap.String("id", msg.ID), zap.Error(err))
		} else {
			action, reason := DecideFromClassification(cls, s.opts.MinTrashConfidence)
			d := &Decision{Message: msg, Action: action, Reason: reason, By: ByLLM}
			if action == ActionLabel && s.opts.QuarantineLabel != "" {
				d.LabelsToAdd = []string{s.opts.QuarantineLabel}
			}
			return d
		}
	}

	return &Decision{Message: msg, Action: ActionKeep, Reason: "fallback", By: ByPolicy}
}

// ExecuteDecision applies a decision against the mailbox gateway. It is a
// no-op in dry-run mode or without a gateway. Gateway errors propagate to the
// caller, which records them without changing the decision.
func (s *TriageService) ExecuteDecision(ctx context.Context, d *Decision) error {
	if s.opts.DryRun || s.gateway == nil {
		return nil
	}

	switch d.Action {
	case ActionKeep:
		if len(d.LabelsToAdd) > 0 {
			return s.gateway.ModifyLabels(ctx, d.Message.ID, d.LabelsToAdd, nil)
		}
		return nil
	case ActionArchive:
		if err := s.gateway.ArchiveMessage(ctx, d.Message.ID); err != nil {
			return err
		}
		if len(d.LabelsToAdd) > 0 {
			return s.gateway.ModifyLabels(ctx, d.Message.ID, d.LabelsToAdd, nil)
		}
		return nil
	case ActionTrash:
		if s.shouldQuarantine(d.Message) {
			return s.quarantine(ctx, d.Message.ID)
		}
		// Trash supersedes labeling
		return s.gateway.TrashMessage(ctx, d.Message.ID)
	case ActionLabel:
		if len(d.LabelsToAdd) > 0 {
			return s.gateway.ModifyLabels(ctx, d.Message.ID, d.LabelsToAdd, nil)
		}
		return nil
	default:
		return fmt.Errorf("unknown action: %s", d.Action)
	}
}

// shouldQuarantine reports whether a trash execution must be softened to a
// quarantine label: either quarantine mode is on, or the message is still
// inside the preserve window.
func (s *TriageService) shouldQuarantine(msg *MessageSummary) bool {
	if s.opts.QuarantineLabel == "" {
		return false
	}
	if s.opts.DefaultAction == "quarantine" {
		return true
	}
	if s.opts.PreserveDays > 0 {
		cutoff := time.Now().AddDate(0, 0, -s.opts.PreserveDays)
		if msg.Date.After(cutoff) {
			return true
		}
	}
	return false
}

// quarantine labels a message for manual review and removes it from the inbox
func (s *TriageService) quarantine(ctx context.Context, id string) error {
	if err := s.gateway.ModifyLabels(ctx, id, []string{s.opts.QuarantineLabel}, nil); err != nil {
		return err
	}
	return s.gateway.ArchiveMessage(ctx, id)
}

// recordRun appends the run's decisions to the audit store and advances the
// last-run marker. Both happen only after the run completed, so a crash
// mid-run never moves the marker.
func (s *TriageService) recordRun(ctx context.Context, report *RunReport) {
	if s.audit == nil {
		return
	}
	if len(report.Decisions) > 0 {
		if err := s.audit.AppendRecords(ctx, report.FinishedAt, report.Decisions); err != nil {
			s.logger.Error("Failed to append audit records", zap.Error(err))
			return
		}
	}
	if err := s.audit.SetLastRun(ctx, report.FinishedAt); err != nil {
		s.logger.Error("Failed to persist last run timestamp", zap.Error(err))
	}
}
