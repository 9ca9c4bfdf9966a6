package intent

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	"ai-advisor-stream-service/internal/catalog"
	"ai-advisor-stream-service/internal/marketdata"
	"ai-advisor-stream-service/internal/models"
	"ai-advisor-stream-service/internal/observability/metrics"
)

// minRouteWords is the pre-filter threshold: shorter utterances are
// rarely actionable and never reach the classifier.
const minRouteWords = 3

// Skip reasons reported for observability.
const (
	SkipTooShort        = "transcript too short"
	SkipUnknownIntent   = "unknown intent"
	SkipNoTicker        = "no ticker identified"
	SkipMarketData      = "market data unavailable"
	SkipClassifierError = "classifier unavailable"
)

// Result is the outcome of routing one utterance: either a card to
// broadcast or a skip with its reason.
type Result struct {
	Card       models.Card
	Skipped    bool
	SkipReason string
}

func skip(reason string) Result {
	return Result{Skipped: true, SkipReason: reason}
}

// BucketLister is the bucket-listing capability consumed by the
// EsgOverview intent.
type BucketLister interface {
	Buckets() []catalog.Bucket
}

// Router consumes final transcripts, classifies them and dispatches to
// the matching intent handler.
type Router struct {
	classifier Classifier
	market     marketdata.Fetcher
	buckets    BucketLister
	metrics    *metrics.Metrics
}

// NewRouter wires the router to its capabilities.
func NewRouter(classifier Classifier, market marketdata.Fetcher, buckets BucketLister, m *metrics.Metrics) *Router {
	if m == nil {
		m = metrics.DefaultMetrics
	}
	return &Router{
		classifier: classifier,
		market:     market,
		buckets:    buckets,
		metrics:    m,
	}
}

// Route classifies the utterance and produces a card or a skip. Routing
// failures degrade to skips; they never propagate as hard errors.
func (r *Router) Route(ctx context.Context, text string) Result {
	if len(strings.Fields(text)) < minRouteWords {
		log.Info().Str("text", text).Msg("Skipping short transcript")
		r.metrics.RecordIntentSkipped(SkipTooShort)
		return skip(SkipTooShort)
	}

	in, err := r.classifier.Classify(ctx, text)
	if err != nil {
		log.Error().Err(err).Str("text", text).Msg("Classifier failed, treating as Unknown")
		r.metrics.RecordIntentSkipped(SkipClassifierError)
		return skip(SkipClassifierError)
	}

	log.Info().
		Str("category", string(in.Category)).
		Str("text", text).
		Msg("Utterance classified")

	switch in.Category {
	case models.IntentStockAnalysis:
		return r.routeStockAnalysis(ctx, text, in)
	case models.IntentEsgOverview:
		r.metrics.RecordIntentRouted(string(in.Category))
		return Result{Card: models.NewCard(models.CardKindEsg, text, r.buckets.Buckets())}
	case models.IntentEsgHighlight:
		r.metrics.RecordIntentRouted(string(in.Category))
		return Result{Card: models.NewCard(models.CardKindHighlightEsg, text, nil)}
	default:
		r.metrics.RecordIntentSkipped(SkipUnknownIntent)
		return skip(SkipUnknownIntent)
	}
}

func (r *Router) routeStockAnalysis(ctx context.Context, text string, in models.Intent) Result {
	ticker := strings.ToUpper(strings.TrimSpace(in.Param("ticker")))
	if ticker == "" {
		log.Info().Str("text", text).Msg("StockAnalysis intent without ticker")
		r.metrics.RecordIntentSkipped(SkipNoTicker)
		return skip(SkipNoTicker)
	}

	bars, err := r.market.DailyBars(ctx, ticker)
	if err != nil {
		log.Error().Err(err).Str("ticker", ticker).Msg("Market data fetch failed")
		r.metrics.RecordIntentSkipped(SkipMarketData)
		return skip(SkipMarketData)
	}

	r.metrics.RecordIntentRouted(string(models.IntentStockAnalysis))
	return Result{Card: models.NewCard(models.CardKindStock, text, map[string]any{
		"ticker": ticker,
		"bars":   bars,
	})}
}
