// Package conversation accumulates final transcripts and generates
// structured meeting summaries from them.
package conversation

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

// Summarizer turns an accumulated transcript into a structured meeting
// summary.
type Summarizer interface {
	Summarize(ctx context.Context, transcript, meetingDate string) (models.Summary, error)
}

const summaryPrompt = `Generate a structured meeting summary from the following financial advisor and client conversation:

%s

Create a JSON summary with the following structure:
{
  "meeting_summary": "Meeting Summary: %s",
  "discussion_points": ["key discussion points from the conversation (1-5 bullet points)"],
  "action_items": ["action items identified from the conversation (1-5 items if applicable)"],
  "investment_goal_changes": ["any investment goal changes discussed (if applicable)"]
}

The summary should be comprehensive but concise, focusing on:
1. Key financial topics discussed
2. Specific action items that were agreed upon
3. Any changes to investment goals or risk tolerance

Respond with ONLY the JSON object, nothing else.`

// summaryResponse is the JSON shape the model is instructed to emit.
type summaryResponse struct {
	MeetingSummary        string   `json:"meeting_summary"`
	DiscussionPoints      []string `json:"discussion_points"`
	ActionItems           []string `json:"action_items"`
	InvestmentGoalChanges []string `json:"investment_goal_changes"`
}

// OpenAISummarizer calls an OpenAI-compatible chat completion endpoint.
type OpenAISummarizer struct {
	client  *openai.Client
	model   string
	metrics *metrics.Metrics
}

// NewOpenAISummarizer creates a summarizer against the given endpoint.
func NewOpenAISummarizer(baseURL, apiKey, model string, m *metrics.Metrics) *OpenAISummarizer {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if m == nil {
		m = metrics.DefaultMetrics
	}
	return &OpenAISummarizer{
		client:  openai.NewClientWithConfig(cfg),
		model:   model,
		metrics: m,
	}
}

// Summarize sends the transcript to the model and parses the JSON reply.
func (s *OpenAISummarizer) Summarize(ctx context.Context, transcript, meetingDate string) (models.Summary, error) {
	start := time.Now()

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: fmt.Sprintf(summaryPrompt, transcript, meetingDate),
			},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	s.metrics.RecordSummary(err, time.Since(start).Seconds())
	if err != nil {
		return models.Summary{}, fmt.Errorf("summarizer call: %w", err)
	}
	if len(resp.Choices) == 0 {
		return models.Summary{}, fmt.Errorf("summarizer returned no choices")
	}

	var parsed summaryResponse
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &parsed); err != nil {
		return models.Summary{}, fmt.Errorf("parse summary response: %w", err)
	}

	log.Info().Msg("Meeting summary generated")
	return models.Summary{
		MeetingSummary:        parsed.MeetingSummary,
		DiscussionPoints:      parsed.DiscussionPoints,
		ActionItems:           parsed.ActionItems,
		InvestmentGoalChanges: parsed.InvestmentGoalChanges,
	}, nil
}
