package gmailapi

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/mail"
	"strings"
	"sync"
	"time"

	"github.com/tidymail/tidymail/internal/core"
	"github.com/tidymail/tidymail/internal/utils"
	"go.uber.org/zap"
	"google.golang.org/api/gmail/v1"
)

// bodyPreviewLimit caps the plain-text preview carried on a MessageSummary
const bodyPreviewLimit = 4096

// Gateway implements core.MailboxGateway on top of the Gmail API.
// All calls act on the authenticated user ("me").
type Gateway struct {
	svc           *gmail.Service
	logger        *zap.Logger
	textProcessor *utils.TextProcessor

	mu       sync.Mutex
	labelIDs map[string]string
}

// NewGateway wraps an authenticated Gmail service
func NewGateway(svc *gmail.Service, logger *zap.Logger, textProcessor *utils.TextProcessor) *Gateway {
	return &Gateway{
		svc:           svc,
		logger:        logger,
		textProcessor: textProcessor,
		labelIDs:      make(map[string]string),
	}
}

// ListMessages returns up to maxResults message ids matching the query
func (g *Gateway) ListMessages(ctx context.Context, maxResults int64, query string) ([]string, error) {
	var ids []string
	pageToken := ""
	for {
		req := g.svc.Users.Messages.List("me").Q(query).MaxResults(maxResults - int64(len(ids))).Context(ctx)
		if pageToken != "" {
			req.PageToken(pageToken)
		}
		resp, err := req.Do()
		if err != nil {
			return nil, fmt.Errorf("list messages: %w", err)
		}
		for _, m := range resp.Messages {
			ids = append(ids, m.Id)
		}
		if resp.NextPageToken == "" || int64(len(ids)) >= maxResults {
			break
		}
		pageToken = resp.NextPageToken
	}
	if int64(len(ids)) > maxResults {
		ids = ids[:maxResults]
	}
	return ids, nil
}

// GetMessage fetches one message and maps it to a MessageSummary
func (g *Gateway) GetMessage(ctx context.Context, id string, includeBody bool) (*core.MessageSummary, error) {
	format := "metadata"
	if includeBody {
		format = "full"
	}
	m, err := g.svc.Users.Messages.Get("me", id).Format(format).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("get message %s: %w", id, err)
	}

	summary := &core.MessageSummary{
		ID:       m.Id,
		ThreadID: m.ThreadId,
		Snippet:  m.Snippet,
		Labels:   m.LabelIds,
		Date:     time.UnixMilli(m.InternalDate),
	}

	if m.Payload != nil {
		for _, h := range m.Payload.Headers {
			switch h.Name {
			case "From":
				summary.FromAddr = parseAddress(h.Value)
			case "To":
				summary.ToAddrs = parseAddressList(h.Value)
			case "Cc":
				summary.CcAddrs = parseAddressList(h.Value)
			case "Subject":
				summary.Subject = h.Value
			case "Date":
				if t, err := mail.ParseDate(h.Value); err == nil {
					summary.Date = t
				}
			}
		}
		if includeBody {
			if body := findPlainText(m.Payload); body != "" {
				summary.BodyPreview = g.textProcessor.ProcessText(body, bodyPreviewLimit)
			}
		}
	}

	return summary, nil
}

// ModifyLabels adds and/or removes labels, creating missing ones on demand.
// Gmail treats re-adding an existing label as a no-op, which matches the
// idempotence the orchestrator expects.
func (g *Gateway) ModifyLabels(ctx context.Context, id string, add, remove []string) error {
	if len(add) == 0 && len(remove) == 0 {
		return nil
	}

	addIDs, err := g.resolveLabelIDs(ctx, add, true)
	if err != nil {
		return err
	}
	removeIDs, err := g.resolveLabelIDs(ctx, remove, false)
	if err != nil {
		return err
	}

	_, err = g.svc.Users.Messages.Modify("me", id, &gmail.ModifyMessageRequest{
		AddLabelIds:    addIDs,
		RemoveLabelIds: removeIDs,
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("modify labels for %s: %w", id, err)
	}
	return nil
}

// ArchiveMessage removes the INBOX label, keeping the message searchable
func (g *Gateway) ArchiveMessage(ctx context.Context, id string) error {
	_, err := g.svc.Users.Messages.Modify("me", id, &gmail.ModifyMessageRequest{
		RemoveLabelIds: []string{"INBOX"},
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("archive %s: %w", id, err)
	}
	return nil
}

// TrashMessage moves the message to Trash, reversible within Gmail's retention window
func (g *Gateway) TrashMessage(ctx context.Context, id string) error {
	_, err := g.svc.Users.Messages.Trash("me", id).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("trash %s: %w", id, err)
	}
	return nil
}

// SendEmail sends a plain-text message from the authenticated account
func (g *Gateway) SendEmail(ctx context.Context, to, subject, body string) error {
	raw := fmt.Sprintf("To: %s\r\nSubject: %s\r\nContent-Type: text/plain; charset=\"UTF-8\"\r\n\r\n%s", to, subject, body)
	msg := &gmail.Message{
		Raw: base64.URLEncoding.EncodeToString([]byte(raw)),
	}
	if _, err := g.svc.Users.Messages.Send("me", msg).Context(ctx).Do(); err != nil {
		return fmt.Errorf("send email to %s: %w", to, err)
	}
	return nil
}

// resolveLabelIDs maps label names to Gmail label ids, optionally creating
// missing user labels. System labels (INBOX, STARRED, ...) pass through.
func (g *Gateway) resolveLabelIDs(ctx context.Context, names []string, createMissing bool) ([]string, error) {
	if len(names) == 0 {
		return nil, nil
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if len(g.labelIDs) == 0 {
		resp, err := g.svc.Users.Labels.List("me").Context(ctx).Do()
		if err != nil {
			return nil, fmt.Errorf("list labels: %w", err)
		}
		for _, l := range resp.Labels {
			g.labelIDs[strings.ToUpper(l.Name)] = l.Id
		}
	}

	ids := make([]string, 0, len(names))
	for _, name := range names {
		if id, ok := g.labelIDs[strings.ToUpper(name)]; ok {
			ids = append(ids, id)
			continue
		}
		if !createMissing {
			// Removing an absent label is a no-op
			continue
		}
		created, err := g.svc.Users.Labels.Create("me", &gmail.Label{
			Name:                  name,
			LabelListVisibility:   "labelShow",
			MessageListVisibility: "show",
		}).Context(ctx).Do()
		if err != nil {
			return nil, fmt.Errorf("create label %q: %w", name, err)
		}
		g.labelIDs[strings.ToUpper(name)] = created.Id
		ids = append(ids, created.Id)
		g.logger.Info("Created label", zap.String("name", name), zap.String("id", created.Id))
	}
	return ids, nil
}

// findPlainText walks the MIME tree for the first text/plain part
func findPlainText(part *gmail.MessagePart) string {
	if part == nil {
		return ""
	}
	if part.MimeType == "text/plain" && part.Body != nil && part.Body.Data != "" {
		decoded, err := base64.URLEncoding.DecodeString(part.Body.Data)
		if err != nil {
			return ""
		}
		return string(decoded)
	}
	for _, p := range part.Parts {
		if text := findPlainText(p); text != "" {
			return text
		}
	}
	return ""
}

// parseAddress extracts the bare address from a possibly display-named header
func parseAddress(header string) string {
	if addr, err := mail.ParseAddress(header); err == nil {
		return addr.Address
	}
	return strings.TrimSpace(header)
}

// parseAddressList extracts bare addresses from a To/Cc header
func parseAddressList(header string) []string {
	if addrs, err := mail.ParseAddressList(header); err == nil {
		out := make([]string, len(addrs))
		for i, a := range addrs {
			out[i] = a.Address
		}
		return out
	}
	parts := strings.Split(header, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
