package conversation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"ai-advisor-stream-service/internal/models"
)

// ErrEmptyConversation is returned when a summary is requested before
// any final transcript has been recorded.
var ErrEmptyConversation = errors.New("no conversation history to summarize")

// entry is one recorded final transcript.
type entry struct {
	at   time.Time
	text string
}

// Accumulator collects final transcripts across a call so a meeting
// summary can be generated on demand. It is safe for concurrent use.
type Accumulator struct {
	mu         sync.Mutex
	entries    []entry
	summarizer Summarizer
	now        func() time.Time
}

// NewAccumulator creates an accumulator backed by the given summarizer.
func NewAccumulator(summarizer Summarizer) *Accumulator {
	return &Accumulator{
		summarizer: summarizer,
		now:        time.Now,
	}
}

// Append records one final transcript. Blank transcripts are ignored.
func (a *Accumulator) Append(text string) {
	if strings.TrimSpace(text) == "" {
		return
	}
	a.mu.Lock()
	a.entries = append(a.entries, entry{at: a.now(), text: text})
	a.mu.Unlock()
}

// Snapshot returns the accumulated transcripts joined by newlines.
func (a *Accumulator) Snapshot() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	texts := make([]string, len(a.entries))
	for i, e := range a.entries {
		texts[i] = e.text
	}
	return strings.Join(texts, "\n")
}

// Len reports how many transcripts have been recorded.
func (a *Accumulator) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.entries)
}

// Reset discards all accumulated transcripts.
func (a *Accumulator) Reset() {
	a.mu.Lock()
	a.entries = nil
	a.mu.Unlock()
	log.Info().Msg("Conversation history cleared")
}

// Summarize generates a meeting summary from the accumulated
// transcripts. It returns ErrEmptyConversation when nothing has been
// recorded; a summarizer failure degrades to a minimal summary
// carrying the error text instead of propagating it.
func (a *Accumulator) Summarize(ctx context.Context) (models.Summary, error) {
	transcript := a.Snapshot()
	if transcript == "" {
		return models.Summary{}, ErrEmptyConversation
	}

	meetingDate := a.now().Format("January 2, 2006")
	summary, err := a.summarizer.Summarize(ctx, transcript, meetingDate)
	if err != nil {
		log.Error().Err(err).Msg("Summary generation failed, returning fallback")
		return models.Summary{
			MeetingSummary: fmt.Sprintf("Meeting Summary: %s", meetingDate),
			Error:          err.Error(),
		}, nil
	}
	return summary, nil
}
