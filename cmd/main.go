package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"ai-advisor-stream-service/internal/app"
	"ai-advisor-stream-service/internal/catalog"
	"ai-advisor-stream-service/internal/config"
	"ai-advisor-stream-service/internal/conversation"
	"ai-advisor-stream-service/internal/dispatch"
	"ai-advisor-stream-service/internal/events"
	"ai-advisor-stream-service/internal/httpapi"
	"ai-advisor-stream-service/internal/hub"
	"ai-advisor-stream-service/internal/intake"
	"ai-advisor-stream-service/internal/intent"
	"ai-advisor-stream-service/internal/marketdata"
	"ai-advisor-stream-service/internal/observability"
	"ai-advisor-stream-service/internal/stt"
	googlestt "ai-advisor-stream-service/internal/stt/google"
	mockstt "ai-advisor-stream-service/internal/stt/mock"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	application := app.New(cfg)
	application.Start()

	obs := observability.NewServer(":" + cfg.Service.ObservabilityPort)
	obs.Start()

	publisher := events.New(&events.Config{
		Enabled:      cfg.Kafka.Enabled,
		Brokers:      cfg.Kafka.Brokers,
		TopicInterim: cfg.Kafka.TopicInterim,
		TopicFinal:   cfg.Kafka.TopicFinal,
		Principal:    cfg.Service.Principal,
	})
	defer publisher.Close()

	registry := hub.NewRegistry(nil)
	dispatcher := dispatch.NewDispatcher(registry)

	store := catalog.NewStore(cfg.Data.BucketsFile, cfg.Data.ProfilesFile, cfg.Data.PortfoliosFile)

	ring := marketdata.NewKeyRing(cfg.MarketData.APIKeys, cfg.MarketData.RequestsPerMinute)
	market := marketdata.NewClient(cfg.MarketData.BaseURL, ring, nil)

	classifier := intent.NewOpenAIClassifier(cfg.Classifier.BaseURL, cfg.Classifier.APIKey, cfg.Classifier.Model, nil)
	router := intent.NewRouter(classifier, market, store, nil)

	summarizer := conversation.NewOpenAISummarizer(cfg.Classifier.BaseURL, cfg.Classifier.APIKey, cfg.Summarizer.Model, nil)
	accumulator := conversation.NewAccumulator(summarizer)

	intakeHandler := intake.NewHandler(adapterFactory(cfg), cfg.STT.Provider, router, accumulator, dispatcher, publisher, nil)

	server := &http.Server{
		Addr: ":" + cfg.Service.HTTPPort,
		Handler: httpapi.NewRouter(httpapi.Deps{
			Catalog:     store,
			Registry:    registry,
			Accumulator: accumulator,
			Dispatcher:  dispatcher,
			Intake:      intakeHandler,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("Advisor stream service listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("HTTP serve failed")
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	log.Info().Msg("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("HTTP shutdown error")
	}
	dispatcher.Stop()
	registry.CloseAll()
	if err := obs.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Observability shutdown error")
	}
	application.Shutdown()
}

// adapterFactory selects the transcription provider. Each media stream
// gets its own adapter instance.
func adapterFactory(cfg *config.Config) intake.AdapterFactory {
	opts := stt.Options{
		LanguageCode:   cfg.STT.LanguageCode,
		SampleRateHz:   cfg.STT.SampleRateHz,
		InterimResults: cfg.STT.InterimResults,
		AudioEncoding:  cfg.STT.AudioEncoding,
	}
	switch cfg.STT.Provider {
	case "google":
		return func(ctx context.Context) (stt.Adapter, error) {
			return googlestt.New(ctx, opts)
		}
	default:
		return func(context.Context) (stt.Adapter, error) {
			return mockstt.New(), nil
		}
	}
}
