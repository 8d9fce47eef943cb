package core

import (
	"fmt"
	"strings"
)

// unsubscribeHints mark bulk mail that should be archived rather than trashed
var unsubscribeHints = []string{
	"unsubscribe",
	"opt out of these emails",
	"manage your preferences",
}

// spamKeywords is a deliberately small list of obvious junk subjects.
// Anything subtler is left to the classifier.
var spamKeywords = []string{
	"win money",
	"free!!!",
	"urgent action required",
	"loan approved",
}

// FastHeuristics applies quick local rules to a message and returns a tentative
// action with its reason. The unsubscribe check runs before the spam-keyword
// check so legitimate bulk mail is archived rather than trashed when both
// signals apply. Returns ok=false when no rule matches.
func FastHeuristics(msg *MessageSummary) (Action, string, bool) {
	body := msg.BodyPreview
	if body == "" {
		body = msg.Snippet
	}
	body = strings.ToLower(body)
	for _, hint := range unsubscribeHints {
		if strings.Contains(body, hint) {
			return ActionArchive, "unsubscribe hint", true
		}
	}

	subject := strings.ToLower(msg.Subject)
	for _, kw := range spamKeywords {
		if strings.Contains(subject, kw) {
			return ActionTrash, "spammy subject", true
		}
	}

	return "", "", false
}

// PolicyDecide evaluates the layered policy rules for a message. The first
// matching rule wins: whitelist, protected labels, then heuristics. A
// heuristic trash verdict is downgraded to archive; only the classifier path
// may reach trash. Returns ok=false when no rule matched and the caller must
// fall back to the classifier or the conservative default.
func PolicyDecide(msg *MessageSummary, safety SafetyPolicy) (*Decision, bool) {
	if safety.IsSenderWhitelisted(msg.FromAddr) {
		return &Decision{Message: msg, Action: ActionKeep, Reason: "whitelisted", By: ByPolicy}, true
	}
	if safety.IsProtected(msg.Labels) {
		return &Decision{Message: msg, Action: ActionKeep, Reason: "protected label", By: ByPolicy}, true
	}

	action, reason, ok := FastHeuristics(msg)
	if !ok {
		return nil, false
	}
	if action == ActionTrash {
		return &Decision{
			Message: msg,
			Action:  ActionArchive,
			Reason:  fmt.Sprintf("%s (conservative)", reason),
			By:      ByPolicy,
		}, true
	}
	return &Decision{Message: msg, Action: action, Reason: reason, By: ByPolicy}, true
}

// DecideFromClassification converts a classifier result into a concrete action.
// A suggested trash below the confidence floor is downgraded to archive; this
// is the single valve keeping an uncertain model away from the trash folder.
func DecideFromClassification(cls *Classification, minTrashConfidence float64) (Action, string) {
	if cls.SuggestedAction == ActionTrash && cls.Confidence < minTrashConfidence {
		return ActionArchive, "low confidence; archived instead"
	}
	reason := cls.Rationale
	if reason == "" {
		reason = cls.Category
	}
	return cls.SuggestedAction, reason
}
