// Package models defines the data structures shared across the pipeline.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Card kinds pushed to dashboard subscribers.
const (
	CardKindTranscript   = "transcript"
	CardKindStock        = "stock_card"
	CardKindEsg          = "esg_card"
	CardKindHighlightEsg = "highlight_esg"
	CardKindSummary      = "summary_card"
)

// Card is the immutable unit of output broadcast to dashboard clients.
type Card struct {
	ID         string    `json:"id"`
	Kind       string    `json:"kind"`
	Transcript string    `json:"transcript,omitempty"`
	Payload    any       `json:"payload,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// NewCard constructs a card with a fresh identifier and timestamp.
// The transcript carries provenance: the utterance that produced the card.
func NewCard(kind, transcript string, payload any) Card {
	return Card{
		ID:         uuid.NewString(),
		Kind:       kind,
		Transcript: transcript,
		Payload:    payload,
		CreatedAt:  time.Now().UTC(),
	}
}
