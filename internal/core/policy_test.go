package core_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/tidymail/tidymail/internal/core"
	"github.com/tidymail/tidymail/internal/safety"
)

func makeMessage(overrides func(*core.MessageSummary)) *core.MessageSummary {
	msg := &core.MessageSummary{
		ID:          "m1",
		ThreadID:    "t1",
		FromAddr:    "sender@example.com",
		ToAddrs:     []string{"you@example.com"},
		Subject:     "Test Subject",
		Snippet:     "This is a snippet",
		Labels:      []string{"INBOX"},
		Date:        time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC),
		BodyPreview: "Hello world",
	}
	if overrides != nil {
		overrides(msg)
	}
	return msg
}

func newChecker(senders, domains, protected []string) *safety.Checker {
	return safety.NewChecker(senders, domains, protected, nil)
}

func TestFastHeuristicsUnsubscribeHint(t *testing.T) {
	msg := makeMessage(func(m *core.MessageSummary) {
		m.BodyPreview = "Click here to Unsubscribe from this list"
	})

	action, reason, ok := core.FastHeuristics(msg)
	assert.True(t, ok)
	assert.Equal(t, core.ActionArchive, action)
	assert.Equal(t, "unsubscribe hint", reason)
}

func TestFastHeuristicsFallsBackToSnippet(t *testing.T) {
	msg := makeMessage(func(m *core.MessageSummary) {
		m.BodyPreview = ""
		m.Snippet = "unsubscribe at the bottom"
	})

	action, _, ok := core.FastHeuristics(msg)
	assert.True(t, ok)
	assert.Equal(t, core.ActionArchive, action)
}

func TestFastHeuristicsSpammySubject(t *testing.T) {
	msg := makeMessage(func(m *core.MessageSummary) {
		m.Subject = "WIN MONEY now!!!"
	})

	action, reason, ok := core.FastHeuristics(msg)
	assert.True(t, ok)
	assert.Equal(t, core.ActionTrash, action)
	assert.Equal(t, "spammy subject", reason)
}

func TestFastHeuristicsUnsubscribeBeatsSpamKeyword(t *testing.T) {
	// Legitimate bulk mail is archived, not trashed, when both signals apply
	msg := makeMessage(func(m *core.MessageSummary) {
		m.Subject = "WIN MONEY now!!!"
		m.BodyPreview = "unsubscribe here"
	})

	action, reason, ok := core.FastHeuristics(msg)
	assert.True(t, ok)
	assert.Equal(t, core.ActionArchive, action)
	assert.Equal(t, "unsubscribe hint", reason)
}

func TestFastHeuristicsNoVerdict(t *testing.T) {
	msg := makeMessage(nil)

	_, _, ok := core.FastHeuristics(msg)
	assert.False(t, ok)
}

func TestPolicyDecideWhitelistedSender(t *testing.T) {
	msg := makeMessage(func(m *core.MessageSummary) {
		m.FromAddr = "Boss@Company.com"
		// Whitelist wins even over a spammy subject
		m.Subject = "WIN MONEY now!!!"
	})
	checker := newChecker([]string{" boss@company.com "}, nil, nil)

	d, ok := core.PolicyDecide(msg, checker)
	assert.True(t, ok)
	assert.Equal(t, core.ActionKeep, d.Action)
	assert.Equal(t, "whitelisted", d.Reason)
	assert.Equal(t, core.ByPolicy, d.By)
}

func TestPolicyDecideWhitelistedDomain(t *testing.T) {
	msg := makeMessage(func(m *core.MessageSummary) {
		m.FromAddr = "alerts@mail.company.com"
	})
	checker := newChecker(nil, []string{"company.com"}, nil)

	d, ok := core.PolicyDecide(msg, checker)
	assert.True(t, ok)
	assert.Equal(t, core.ActionKeep, d.Action)
	assert.Equal(t, "whitelisted", d.Reason)
}

func TestPolicyDecideProtectedLabel(t *testing.T) {
	msg := makeMessage(func(m *core.MessageSummary) {
		m.Labels = []string{"INBOX", "starred"}
		m.Subject = "WIN MONEY now!!!"
	})
	checker := newChecker(nil, nil, []string{"STARRED"})

	d, ok := core.PolicyDecide(msg, checker)
	assert.True(t, ok)
	assert.Equal(t, core.ActionKeep, d.Action)
	assert.Equal(t, "protected label", d.Reason)
}

func TestPolicyDecideConservativeDowngrade(t *testing.T) {
	msg := makeMessage(func(m *core.MessageSummary) {
		m.Subject = "URGENT ACTION REQUIRED"
	})
	checker := newChecker(nil, nil, nil)

	d, ok := core.PolicyDecide(msg, checker)
	assert.True(t, ok)
	// Heuristics never reach trash on their own
	assert.Equal(t, core.ActionArchive, d.Action)
	assert.Equal(t, "spammy subject (conservative)", d.Reason)
}

func TestPolicyDecideDefer(t *testing.T) {
	msg := makeMessage(nil)
	checker := newChecker(nil, nil, nil)

	d, ok := core.PolicyDecide(msg, checker)
	assert.False(t, ok)
	assert.Nil(t, d)
}

func TestDecideFromClassificationLowConfidenceTrash(t *testing.T) {
	cls := &core.Classification{
		Category:        "spam",
		Confidence:      0.6,
		SuggestedAction: core.ActionTrash,
		Rationale:       "looks like spam",
	}

	action, reason := core.DecideFromClassification(cls, 0.85)
	assert.Equal(t, core.ActionArchive, action)
	assert.Equal(t, "low confidence; archived instead", reason)
}

func TestDecideFromClassificationConfidentTrash(t *testing.T) {
	cls := &core.Classification{
		Category:        "spam",
		Confidence:      0.95,
		SuggestedAction: core.ActionTrash,
		Rationale:       "obvious phishing",
	}

	action, reason := core.DecideFromClassification(cls, 0.85)
	assert.Equal(t, core.ActionTrash, action)
	assert.Equal(t, "obvious phishing", reason)
}

func TestDecideFromClassificationPassthrough(t *testing.T) {
	cls := &core.Classification{
		Category:        "newsletter",
		Confidence:      0.3,
		SuggestedAction: core.ActionArchive,
	}

	// Non-trash suggestions pass through regardless of confidence,
	// with the category standing in for a missing rationale
	action, reason := core.DecideFromClassification(cls, 0.85)
	assert.Equal(t, core.ActionArchive, action)
	assert.Equal(t, "newsletter", reason)
}
