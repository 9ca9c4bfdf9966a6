// Package httpapi exposes the service's HTTP surface: REST lookups,
// summary operations and the two websocket endpoints.
package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"

	"ai-advisor-stream-service/internal/catalog"
	"ai-advisor-stream-service/internal/conversation"
	"ai-advisor-stream-service/internal/dispatch"
	"ai-advisor-stream-service/internal/hub"
	"ai-advisor-stream-service/internal/models"
	"ai-advisor-stream-service/internal/observability/logging"
)

// Deps carries everything the router needs, constructed and owned by
// the composition root.
type Deps struct {
	Catalog     *catalog.Store
	Registry    *hub.Registry
	Accumulator *conversation.Accumulator
	Dispatcher  *dispatch.Dispatcher
	Intake      http.Handler
}

var cardsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin:     func(*http.Request) bool { return true },
}

// NewRouter constructs the HTTP router for the service.
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/api/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
	})

	r.Route("/v1", func(r chi.Router) {
		r.Get("/buckets", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, d.Catalog.Buckets())
		})
		r.Get("/buckets/{id}", func(w http.ResponseWriter, req *http.Request) {
			id, err := strconv.Atoi(chi.URLParam(req, "id"))
			if err != nil {
				writeError(w, http.StatusBadRequest, "bucket id must be an integer")
				return
			}
			bucket, ok := d.Catalog.BucketByID(id)
			if !ok {
				writeError(w, http.StatusNotFound, "bucket not found")
				return
			}
			writeJSON(w, http.StatusOK, bucket)
		})
		r.Get("/profiles/{name}", func(w http.ResponseWriter, req *http.Request) {
			profile, ok := d.Catalog.ProfileByName(chi.URLParam(req, "name"))
			if !ok {
				writeError(w, http.StatusNotFound, "profile not found")
				return
			}
			writeJSON(w, http.StatusOK, profile)
		})
		r.Get("/portfolios/{id}", func(w http.ResponseWriter, req *http.Request) {
			portfolio, ok := d.Catalog.PortfolioByID(chi.URLParam(req, "id"))
			if !ok {
				writeError(w, http.StatusNotFound, "portfolio not found")
				return
			}
			writeJSON(w, http.StatusOK, portfolio)
		})

		r.Post("/summary", func(w http.ResponseWriter, req *http.Request) {
			summary, err := d.Accumulator.Summarize(req.Context())
			if err != nil {
				writeError(w, http.StatusConflict, err.Error())
				return
			}
			d.Dispatcher.Dispatch(models.NewCard(models.CardKindSummary, "", summary))
			writeJSON(w, http.StatusOK, summary)
		})
		r.Delete("/summary/history", func(w http.ResponseWriter, _ *http.Request) {
			d.Accumulator.Reset()
			writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
		})
	})

	r.Handle("/ws/media", d.Intake)
	r.Get("/ws/cards", cardsHandler(d.Registry))

	return r
}

// cardsHandler registers a dashboard subscriber and keeps reading until
// the client goes away, so disconnects are detected promptly.
func cardsHandler(registry *hub.Registry) http.HandlerFunc {
	logger := logging.WithComponent("cards")
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := cardsUpgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.Error().Err(err).Msg("Websocket upgrade failed")
			return
		}

		id := registry.Register(conn)

		defer func() {
			registry.Unregister(id)
			_ = conn.Close()
		}()

		// Cards are push-only; inbound frames are drained and dropped.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
