package intent

import (
	"context"
	"errors"
	"testing"

	"ai-advisor-stream-service/internal/catalog"
	"ai-advisor-stream-service/internal/marketdata"
	"ai-advisor-stream-service/internal/models"
)

// testClassifier returns a fixed intent and counts invocations.
type testClassifier struct {
	intent models.Intent
	err    error
	calls  int
}

func (c *testClassifier) Classify(_ context.Context, _ string) (models.Intent, error) {
	c.calls++
	if c.err != nil {
		return models.Intent{}, c.err
	}
	return c.intent, nil
}

// testFetcher returns fixed bars and counts invocations.
type testFetcher struct {
	bars  *marketdata.Bars
	err   error
	calls int
}

func (f *testFetcher) DailyBars(_ context.Context, ticker string) (*marketdata.Bars, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.bars, nil
}

// testBuckets serves a fixed bucket list.
type testBuckets struct {
	buckets []catalog.Bucket
}

func (b *testBuckets) Buckets() []catalog.Bucket { return b.buckets }

func newTestRouter(c Classifier, f marketdata.Fetcher, b BucketLister) *Router {
	return NewRouter(c, f, b, nil)
}

func TestRoute_ShortTranscriptSkipsWithoutClassifier(t *testing.T) {
	c := &testClassifier{}
	r := newTestRouter(c, &testFetcher{}, &testBuckets{})

	for _, text := range []string{"", "hello", "hello there"} {
		res := r.Route(context.Background(), text)
		if !res.Skipped || res.SkipReason != SkipTooShort {
			t.Errorf("%q: expected short-transcript skip, got %+v", text, res)
		}
	}
	if c.calls != 0 {
		t.Errorf("classifier must not be called for short transcripts, got %d calls", c.calls)
	}
}

func TestRoute_ClassifierFailureDegradesToSkip(t *testing.T) {
	c := &testClassifier{err: errors.New("upstream unavailable")}
	r := newTestRouter(c, &testFetcher{}, &testBuckets{})

	res := r.Route(context.Background(), "please analyze apple stock")
	if !res.Skipped || res.SkipReason != SkipClassifierError {
		t.Errorf("expected classifier-error skip, got %+v", res)
	}
}

func TestRoute_StockAnalysisWithoutTicker(t *testing.T) {
	c := &testClassifier{intent: models.Intent{
		Category:   models.IntentStockAnalysis,
		Parameters: map[string]string{},
	}}
	f := &testFetcher{}
	r := newTestRouter(c, f, &testBuckets{})

	res := r.Route(context.Background(), "please analyze this")
	if !res.Skipped || res.SkipReason != SkipNoTicker {
		t.Errorf("expected %q skip, got %+v", SkipNoTicker, res)
	}
	if f.calls != 0 {
		t.Error("market data must not be fetched without a ticker")
	}
}

func TestRoute_StockAnalysisProducesStockCard(t *testing.T) {
	c := &testClassifier{intent: models.Intent{
		Category:   models.IntentStockAnalysis,
		Parameters: map[string]string{"ticker": "aapl"},
	}}
	f := &testFetcher{bars: &marketdata.Bars{Ticker: "AAPL", ResultsCount: 1}}
	r := newTestRouter(c, f, &testBuckets{})

	text := "how is apple stock doing"
	res := r.Route(context.Background(), text)
	if res.Skipped {
		t.Fatalf("expected card, got skip %q", res.SkipReason)
	}
	if res.Card.Kind != models.CardKindStock {
		t.Errorf("expected kind %q, got %q", models.CardKindStock, res.Card.Kind)
	}
	if res.Card.Transcript != text {
		t.Errorf("card must carry the source transcript, got %q", res.Card.Transcript)
	}
	if res.Card.ID == "" || res.Card.CreatedAt.IsZero() {
		t.Error("card must carry a generated id and timestamp")
	}
	payload := res.Card.Payload.(map[string]any)
	if payload["ticker"] != "AAPL" {
		t.Errorf("ticker should be uppercased, got %v", payload["ticker"])
	}
}

func TestRoute_MarketDataFailureSkips(t *testing.T) {
	c := &testClassifier{intent: models.Intent{
		Category:   models.IntentStockAnalysis,
		Parameters: map[string]string{"ticker": "AAPL"},
	}}
	f := &testFetcher{err: marketdata.ErrKeysExhausted}
	r := newTestRouter(c, f, &testBuckets{})

	res := r.Route(context.Background(), "how is apple stock doing")
	if !res.Skipped || res.SkipReason != SkipMarketData {
		t.Errorf("expected market-data skip, got %+v", res)
	}
}

func TestRoute_EsgOverviewProducesEsgCard(t *testing.T) {
	c := &testClassifier{intent: models.Intent{Category: models.IntentEsgOverview}}
	b := &testBuckets{buckets: []catalog.Bucket{{ID: 1, Name: "Green Growth", Esg: true}}}
	r := newTestRouter(c, &testFetcher{}, b)

	res := r.Route(context.Background(), "show me the esg buckets")
	if res.Skipped {
		t.Fatalf("expected card, got skip %q", res.SkipReason)
	}
	if res.Card.Kind != models.CardKindEsg {
		t.Errorf("expected kind %q, got %q", models.CardKindEsg, res.Card.Kind)
	}
	buckets := res.Card.Payload.([]catalog.Bucket)
	if len(buckets) != 1 || buckets[0].Name != "Green Growth" {
		t.Errorf("unexpected payload %+v", res.Card.Payload)
	}
}

func TestRoute_EsgHighlightProducesTagOnlyCard(t *testing.T) {
	c := &testClassifier{intent: models.Intent{Category: models.IntentEsgHighlight}}
	r := newTestRouter(c, &testFetcher{}, &testBuckets{})

	res := r.Route(context.Background(), "highlight the esg view")
	if res.Skipped {
		t.Fatalf("expected card, got skip %q", res.SkipReason)
	}
	if res.Card.Kind != models.CardKindHighlightEsg {
		t.Errorf("expected kind %q, got %q", models.CardKindHighlightEsg, res.Card.Kind)
	}
	if res.Card.Payload != nil {
		t.Errorf("highlight card carries no payload, got %+v", res.Card.Payload)
	}
}

func TestRoute_UnknownCategorySkips(t *testing.T) {
	c := &testClassifier{intent: models.Intent{Category: models.IntentUnknown}}
	r := newTestRouter(c, &testFetcher{}, &testBuckets{})

	res := r.Route(context.Background(), "tell me about the weather")
	if !res.Skipped || res.SkipReason != SkipUnknownIntent {
		t.Errorf("expected unknown-intent skip, got %+v", res)
	}
}
