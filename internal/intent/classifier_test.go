package intent

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"ai-advisor-stream-service/internal/models"
)

// chatServer fakes an OpenAI-compatible chat completion endpoint that
// always replies with the given message content.
func chatServer(t *testing.T, status int, content string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if status != http.StatusOK {
			w.WriteHeader(status)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":     "chatcmpl-test",
			"object": "chat.completion",
			"model":  "test-model",
			"choices": []map[string]any{
				{
					"index":         0,
					"finish_reason": "stop",
					"message": map[string]any{
						"role":    "assistant",
						"content": content,
					},
				},
			},
		})
	}))
}

func TestClassifyParsesCategoryAndParameters(t *testing.T) {
	server := chatServer(t, http.StatusOK,
		`{"category":"StockAnalysis","parameters":{"ticker":"AAPL"}}`)
	defer server.Close()

	c := NewOpenAIClassifier(server.URL, "test-key", "test-model", nil)
	intent, err := c.Classify(context.Background(), "how is apple stock doing today")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if intent.Category != models.IntentStockAnalysis {
		t.Fatalf("category = %q", intent.Category)
	}
	if intent.Param("ticker") != "AAPL" {
		t.Fatalf("ticker = %q", intent.Param("ticker"))
	}
}

func TestClassifyUnknownCategoryDegrades(t *testing.T) {
	server := chatServer(t, http.StatusOK, `{"category":"SomethingNew","parameters":{}}`)
	defer server.Close()

	c := NewOpenAIClassifier(server.URL, "test-key", "test-model", nil)
	intent, err := c.Classify(context.Background(), "tell me about the weather please")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if intent.Category != models.IntentUnknown {
		t.Fatalf("category = %q, want Unknown", intent.Category)
	}
}

func TestClassifyMalformedResponse(t *testing.T) {
	server := chatServer(t, http.StatusOK, `not a json object`)
	defer server.Close()

	c := NewOpenAIClassifier(server.URL, "test-key", "test-model", nil)
	if _, err := c.Classify(context.Background(), "how is apple stock doing"); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestClassifyUpstreamFailure(t *testing.T) {
	server := chatServer(t, http.StatusInternalServerError, "")
	defer server.Close()

	c := NewOpenAIClassifier(server.URL, "test-key", "test-model", nil)
	if _, err := c.Classify(context.Background(), "how is apple stock doing"); err == nil {
		t.Fatal("expected transport error")
	}
}
