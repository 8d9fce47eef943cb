package bedrock

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/tidymail/tidymail/internal/core"
	"github.com/tidymail/tidymail/internal/utils"
	"go.uber.org/zap"
)

const requestTimeout = 60 * time.Second

// BedrockClassifier is an implementation of the Classifier interface using Amazon Bedrock
type BedrockClassifier struct {
	client        *bedrockruntime.Client
	modelID       string
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

// NewBedrockClassifier creates a new Bedrock classifier
func NewBedrockClassifier(
	client *bedrockruntime.Client,
	modelID string,
	maxTokens int,
	temperature float32,
	topP float32,
	maxBodyChars int,
	logger *zap.Logger,
	textProcessor *utils.TextProcessor,
) *BedrockClassifier {
	return &BedrockClassifier{
		client:        client,
		modelID:       modelID,
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
func (c *BedrockClassifier) Classify(ctx context.Context, msg *core.MessageSummary) (*core.Classification, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	prompt := fmt.Sprintf(c.promptFormat,
		msg.FromAddr,
		msg.Subject,
		strings.Join(msg.Labels, ", "),
		msg.Snippet,
		c.textProcessor.ProcessText(msg.BodyPreview, c.maxBodyChars))

	var payload []byte
	var err error

	if c.isAnthropicModel() {
		payload, err = json.Marshal(map[string]interface{}{
			"prompt":               prompt,
			"max_tokens_to_sample": c.maxTokens,
			"temperature":          c.temperature,
			"top_p":                c.topP,
		})
	} else if c.isAmazonTitanModel() {
		payload, err = json.Marshal(map[string]interface{}{
			"inputText": prompt,
			"textGenerationConfig": map[string]interface{}{
				"maxTokenCount": c.maxTokens,
				"temperature":   c.temperature,
				"topP":          c.topP,
			},
		})
	} else {
		payload, err = json.Marshal(map[string]interface{}{
			"prompt":      prompt,
			"max_tokens":  c.maxTokens,
			"temperature": c.temperature,
			"top_p":       c.topP,
		})
	}
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request payload: %w", err)
	}

	resp, err := c.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     &c.modelID,
		Body:        payload,
		Accept:      aws.String("application/json"),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to invoke Bedrock model: %w", err)
	}

	responseText, err := c.extractText(resp.Body)
	if err != nil {
		return nil, err
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

// extractText pulls the generated text out of the model-specific response shape
func (c *BedrockClassifier) extractText(body []byte) (string, error) {
	if c.isAnthropicModel() {
		var claudeResp struct {
			Completion string `json:"completion"`
		}
		if err := json.Unmarshal(body, &claudeResp); err != nil {
			return "", fmt.Errorf("failed to unmarshal Claude response: %w", err)
		}
		return claudeResp.Completion, nil
	}

	if c.isAmazonTitanModel() {
		var titanResp struct {
			Results []struct {
				OutputText string `json:"outputText"`
			} `json:"results"`
		}
		if err := json.Unmarshal(body, &titanResp); err != nil {
			return "", fmt.Errorf("failed to unmarshal Titan response: %w", err)
		}
		if len(titanResp.Results) == 0 {
			return "", fmt.Errorf("empty response from Titan model")
		}
		return titanResp.Results[0].OutputText, nil
	}

	var genericResp struct {
		Output   string `json:"output"`
		Text     string `json:"text"`
		Response string `json:"response"`
	}
	if err := json.Unmarshal(body, &genericResp); err != nil {
		return "", fmt.Errorf("failed to unmarshal generic response: %w", err)
	}
	switch {
	case genericResp.Output != "":
		return genericResp.Output, nil
	case genericResp.Text != "":
		return genericResp.Text, nil
	case genericResp.Response != "":
		return genericResp.Response, nil
	default:
		return string(body), nil
	}
}

// isAnthropicModel checks if the model is an Anthropic Claude model
func (c *BedrockClassifier) isAnthropicModel() bool {
	return strings.HasPrefix(c.modelID, "anthropic.claude")
}

// isAmazonTitanModel checks if the model is an Amazon Titan model
func (c *BedrockClassifier) isAmazonTitanModel() bool {
	return strings.HasPrefix(c.modelID, "amazon.titan")
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
