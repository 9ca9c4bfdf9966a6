// dashboardclient subscribes to the card broadcast websocket and prints
// every card it receives.
package main

import (
	"encoding/json"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gorilla/websocket"
)

type card struct {
	ID         string          `json:"id"`
	Kind       string          `json:"kind"`
	Transcript string          `json:"transcript,omitempty"`
	Payload    json.RawMessage `json:"payload,omitempty"`
	CreatedAt  string          `json:"createdAt"`
}

func main() {
	serverURL := flag.String("server", "ws://localhost:8000/ws/cards", "Cards websocket URL")
	flag.Parse()

	conn, _, err := websocket.DefaultDialer.Dial(*serverURL, nil)
	if err != nil {
		log.Fatalf("Failed to connect: %v", err)
	}
	defer conn.Close()
	log.Printf("Subscribed to %s", *serverURL)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				log.Printf("Connection closed: %v", err)
				return
			}
			var c card
			if err := json.Unmarshal(data, &c); err != nil {
				log.Printf("Unparseable frame: %s", data)
				continue
			}
			log.Printf("Card: kind=%s id=%s transcript=%q payload=%s",
				c.Kind, c.ID, c.Transcript, c.Payload)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sig:
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	case <-done:
	}
}
