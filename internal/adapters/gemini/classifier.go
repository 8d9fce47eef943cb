package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/tidymail/tidymail/internal/core"
	"github.com/tidymail/tidymail/internal/utils"
	"go.uber.org/zap"
)

const requestTimeout = 60 * time.Second

// GeminiClassifier is an implementation of the Classifier interface using Google Gemini
type GeminiClassifier struct {
	client        *genai.Client
	model         *genai.GenerativeModel
	modelName     string
	maxBodyChars  int
	logger        *zap.Logger
	textProcessor *utils.TextProcessor
	promptFormat  string
}

// triageResponse represents the structured response from the LLM
type triageResponse struct {
	Category        string  `json:"category"`
	Confidence      float64 `json:"confidence"`
	SuggestedAction string  `json:"suggested_action"`
	Rationale       string  `json:"rationale"`
}

// NewGeminiClassifier creates a new Gemini classifier
func NewGeminiClassifier(
	client *genai.Client,
	modelName string,
	maxTokens int,
	temperature float32,
	topP float32,
	maxBodyChars int,
	logger *zap.Logger,
	textProcessor *utils.TextProcessor,
) *GeminiClassifier {
	model := client.GenerativeModel(modelName)
	model.SetTemperature(temperature)
	model.SetTopP(topP)
	model.SetMaxOutputTokens(int32(maxTokens))

	return &GeminiClassifier{
		client:        client,
		model:         model,
		modelName:     modelName,
		maxBodyChars:  maxBodyChars,
		logger:        logger,
		textProcessor: textProcessor,
		promptFormat: `You are an inbox triage assistant. Categorize the following email and suggest a disposition.
Respond with a JSON object containing:
- category: string (one of: spam, promo, newsletter, personal, receipt, notification, other)
- confidence: number between 0 and 1 (how confident you are in your assessment)
- suggested_action: string (one of: keep, archive, trash, label)
- rationale: string (brief explanation for the suggestion)

Email:
From: %s
Subject: %s
Labels: %s
Snippet: %s
Body:
%s

Respond only with the JSON object and nothing else.`,
	}
}

// Classify asks the model for a category, confidence and suggested action
func (c *GeminiClassifier) Classify(ctx context.Context, msg *core.MessageSummary) (*core.Classification, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	prompt := fmt.Sprintf(c.promptFormat,
		msg.FromAddr,
		msg.Subject,
		strings.Join(msg.Labels, ", "),
		msg.Snippet,
		c.textProcessor.ProcessText(msg.BodyPreview, c.maxBodyChars))

	resp, err := c.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, fmt.Errorf("failed to generate content with Gemini: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, fmt.Errorf("empty response from Gemini")
	}

	var responseText string
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			responseText += string(text)
		}
	}

	parsed, err := parseTriageResponse(responseText)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("Classified message",
		zap.String("id", msg.ID),
		zap.String("category", parsed.Category),
		zap.Float64("confidence", parsed.Confidence))

	return parsed.toClassification(), nil
}

// Close releases the underlying API client
func (c *GeminiClassifier) Close() error {
	return c.client.Close()
}

// parseTriageResponse decodes the model output, tolerating prose around the
// JSON object by scanning for the outermost braces.
func parseTriageResponse(text string) (*triageResponse, error) {
	var parsed triageResponse
	if err := json.Unmarshal([]byte(text), &parsed); err != nil {
		start := strings.IndexByte(text, '{')
		end := strings.LastIndexByte(text, '}')
		if start < 0 || end <= start {
			return nil, fmt.Errorf("failed to extract JSON from LLM response: %w", err)
		}
		if err := json.Unmarshal([]byte(text[start:end+1]), &parsed); err != nil {
			return nil, fmt.Errorf("failed to parse LLM response as JSON: %w", err)
		}
	}
	return &parsed, nil
}

// toClassification converts the wire response to the core type, clamping
// confidence and defaulting unknown actions to keep.
func (r *triageResponse) toClassification() *core.Classification {
	confidence := r.Confidence
	if confidence < 0 {
		confidence = 0
	}
	if confidence > 1 {
		confidence = 1
	}

	var action core.Action
	switch r.SuggestedAction {
	case "keep":
		action = core.ActionKeep
	case "archive":
		action = core.ActionArchive
	case "trash":
		action = core.ActionTrash
	case "label":
		action = core.ActionLabel
	default:
		action = core.ActionKeep
	}

	return &core.Classification{
		Category:        r.Category,
		Confidence:      confidence,
		SuggestedAction: action,
		Rationale:       r.Rationale,
	}
}
