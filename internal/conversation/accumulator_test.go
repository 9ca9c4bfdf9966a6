package conversation

import (
	"context"
	"errors"
	"testing"
	"time"

	"ai-advisor-stream-service/internal/models"
)

type testSummarizer struct {
	calls      int
	transcript string
	date       string
	summary    models.Summary
	err        error
}

func (t *testSummarizer) Summarize(_ context.Context, transcript, meetingDate string) (models.Summary, error) {
	t.calls++
	t.transcript = transcript
	t.date = meetingDate
	return t.summary, t.err
}

func TestAppendIgnoresBlank(t *testing.T) {
	acc := NewAccumulator(&testSummarizer{})

	acc.Append("")
	acc.Append("   ")
	acc.Append("hello there")

	if got := acc.Len(); got != 1 {
		t.Fatalf("expected 1 entry, got %d", got)
	}
	if got := acc.Snapshot(); got != "hello there" {
		t.Fatalf("unexpected snapshot %q", got)
	}
}

func TestSnapshotJoinsWithNewlines(t *testing.T) {
	acc := NewAccumulator(&testSummarizer{})
	acc.Append("first line")
	acc.Append("second line")

	want := "first line\nsecond line"
	if got := acc.Snapshot(); got != want {
		t.Fatalf("snapshot = %q, want %q", got, want)
	}
}

func TestSummarizeEmptyConversation(t *testing.T) {
	sum := &testSummarizer{}
	acc := NewAccumulator(sum)

	_, err := acc.Summarize(context.Background())
	if !errors.Is(err, ErrEmptyConversation) {
		t.Fatalf("expected ErrEmptyConversation, got %v", err)
	}
	if sum.calls != 0 {
		t.Fatalf("summarizer should not be called for empty conversation")
	}
}

func TestSummarizePassesTranscriptAndDate(t *testing.T) {
	sum := &testSummarizer{summary: models.Summary{MeetingSummary: "ok"}}
	acc := NewAccumulator(sum)
	acc.now = func() time.Time { return time.Date(2025, time.March, 14, 0, 0, 0, 0, time.UTC) }

	acc.Append("talked about stocks")
	got, err := acc.Summarize(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.MeetingSummary != "ok" {
		t.Fatalf("unexpected summary: %+v", got)
	}
	if sum.transcript != "talked about stocks" {
		t.Fatalf("unexpected transcript %q", sum.transcript)
	}
	if sum.date != "March 14, 2025" {
		t.Fatalf("unexpected date %q", sum.date)
	}
}

func TestSummarizeDegradesOnFailure(t *testing.T) {
	sum := &testSummarizer{err: errors.New("model unavailable")}
	acc := NewAccumulator(sum)
	acc.now = func() time.Time { return time.Date(2025, time.March, 14, 0, 0, 0, 0, time.UTC) }
	acc.Append("some conversation")

	got, err := acc.Summarize(context.Background())
	if err != nil {
		t.Fatalf("failure must not propagate, got %v", err)
	}
	if got.Error == "" {
		t.Fatalf("expected error text in degraded summary")
	}
	if got.MeetingSummary != "Meeting Summary: March 14, 2025" {
		t.Fatalf("unexpected fallback summary %q", got.MeetingSummary)
	}
}

func TestResetClearsHistory(t *testing.T) {
	acc := NewAccumulator(&testSummarizer{})
	acc.Append("something")
	acc.Reset()

	if acc.Len() != 0 {
		t.Fatalf("expected empty accumulator after reset")
	}
	if _, err := acc.Summarize(context.Background()); !errors.Is(err, ErrEmptyConversation) {
		t.Fatalf("expected ErrEmptyConversation after reset, got %v", err)
	}
}
