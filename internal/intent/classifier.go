// Package intent classifies final transcripts and routes them to the
// matching card-producing handler.
package intent

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	openai "github.com/sashabaranov/go-openai"

	"ai-advisor-stream-service/internal/models"
	"ai-advisor-stream-service/internal/observability/metrics"
)

// Classifier turns one utterance into an intent category plus extracted
// parameters. Implementations must degrade gracefully: a transport or
// parsing failure yields an error, never a panic, and the router maps
// any error to Unknown.
type Classifier interface {
	Classify(ctx context.Context, text string) (models.Intent, error)
}

const classifierPrompt = `Analyze the following financial advisor/client utterance and determine the intent. The utterance is: %q

Available categories are:
- StockAnalysis: the speaker wants price or performance analysis of a specific stock
- EsgOverview: the speaker wants an overview of the available ESG investment buckets
- EsgHighlight: the speaker wants the dashboard to highlight the ESG view
- Unknown: anything else

Return a JSON object with this structure:
{
  "category": "one of StockAnalysis, EsgOverview, EsgHighlight, Unknown",
  "parameters": {
    "ticker": "the stock ticker symbol mentioned (e.g. AAPL for Apple), only for StockAnalysis"
  }
}

Respond with ONLY the JSON object, nothing else.`

// classifierResponse is the JSON shape the model is instructed to emit.
type classifierResponse struct {
	Category   string            `json:"category"`
	Parameters map[string]string `json:"parameters"`
}

// OpenAIClassifier calls an OpenAI-compatible chat completion endpoint.
type OpenAIClassifier struct {
	client  *openai.Client
	model   string
	metrics *metrics.Metrics
}

// NewOpenAIClassifier creates a classifier against the given endpoint.
func NewOpenAIClassifier(baseURL, apiKey, model string, m *metrics.Metrics) *OpenAIClassifier {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if m == nil {
		m = metrics.DefaultMetrics
	}
	return &OpenAIClassifier{
		client:  openai.NewClientWithConfig(cfg),
		model:   model,
		metrics: m,
	}
}

// Classify sends the utterance to the model and parses the JSON reply.
func (c *OpenAIClassifier) Classify(ctx context.Context, text string) (models.Intent, error) {
	start := time.Now()

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: fmt.Sprintf(classifierPrompt, text),
			},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	c.metrics.RecordClassifierCall(err, time.Since(start).Seconds())
	if err != nil {
		return models.Intent{}, fmt.Errorf("classifier call: %w", err)
	}
	if len(resp.Choices) == 0 {
		return models.Intent{}, fmt.Errorf("classifier returned no choices")
	}

	content := resp.Choices[0].Message.Content
	log.Debug().Str("response", content).Msg("Classifier response")

	var parsed classifierResponse
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		return models.Intent{}, fmt.Errorf("parse classifier response: %w", err)
	}

	return models.Intent{
		Category:   models.ParseIntentCategory(parsed.Category),
		Parameters: parsed.Parameters,
	}, nil
}
