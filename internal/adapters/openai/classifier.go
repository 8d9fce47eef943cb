package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/tidymail/tidymail/internal/core"
	"github.com/tidymail/tidymail/internal/utils"
	"go.uber.org/zap"
)

// requestTimeout bounds a single classification call
const requestTimeout = 60 * time.Second

// OpenAIClassifier is an implementation of the Classifier interface using OpenAI
type OpenAIClassifier struct {
	client        *openai.Client
	modelName     string
	maxTokens     int
	temperature   float32
	topP          float32
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

// NewOpenAIClassifier creates a new OpenAI classifier
func NewOpenAIClassifier(
	client *openai.Client,
	modelName string,
	maxTokens int,
	temperature float32,
	topP float32,
	maxBodyChars int,
	logger *zap.Logger,
	textProcessor *utils.TextProcessor,
) *OpenAIClassifier {
	return &OpenAIClassifier{
		client:        client,
		modelName:     modelName,
		maxTokens:     maxTokens,
		temperature:   temperature,
		topP:          topP,
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
func (c *OpenAIClassifier) Classify(ctx context.Context, msg *core.MessageSummary) (*core.Classification, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	prompt := fmt.Sprintf(c.promptFormat,
		msg.FromAddr,
		msg.Subject,
		strings.Join(msg.Labels, ", "),
		msg.Snippet,
		c.textProcessor.ProcessText(msg.BodyPreview, c.maxBodyChars))

	req := openai.ChatCompletionRequest{
		Model: c.modelName,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You are an inbox triage assistant. Respond only with JSON.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
		TopP:        c.topP,
	}
	req.ResponseFormat = &openai.ChatCompletionResponseFormat{
		Type: openai.ChatCompletionResponseFormatTypeJSONObject,
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat completion with OpenAI: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("empty response from OpenAI")
	}

	parsed, err := parseTriageResponse(resp.Choices[0].Message.Content)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("Classified message",
		zap.String("id", msg.ID),
		zap.String("category", parsed.Category),
		zap.Float64("confidence", parsed.Confidence))

	return parsed.toClassification(), nil
}

// parseTriageResponse decodes the model output, tolerating prose around the
// JSON object by scanning for the outermost braces.
func parseTriageResponse(text string) (*triageResponse, error) {
	var parsed triageResponse
	if err := json.Unmarshal([]byte(text), &parsed); err != nil {
		jsonStart := -1
		jsonEnd := -1
		for i := 0; i < len(text); i++ {
			if text[i] == '{' {
				jsonStart = i
				break
			}
		}
		for i := len(text) - 1; i >= 0; i-- {
			if text[i] == '}' {
				jsonEnd = i + 1
				break
			}
		}
		if jsonStart < 0 || jsonEnd <= jsonStart {
			return nil, fmt.Errorf("failed to extract JSON from LLM response: %w", err)
		}
		if err := json.Unmarshal([]byte(text[jsonStart:jsonEnd]), &parsed); err != nil {
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
