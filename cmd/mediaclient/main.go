// mediaclient streams a WAV file to the media intake websocket using
// the JSON media framing, simulating a live telephony feed.
package main

import (
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"flag"
	"io"
	"log"
	"os"
	"time"

	"github.com/gorilla/websocket"
)

// WAV header is 44 bytes for standard PCM files
const wavHeaderSize = 44

// At 8kHz 8-bit mulaw = 8000 bytes/second; 100ms chunks = 800 bytes
const chunkSize = 800
const chunkIntervalMs = 100

type mediaFrame struct {
	Event string        `json:"event"`
	Media *mediaPayload `json:"media,omitempty"`
}

type mediaPayload struct {
	Payload string `json:"payload"`
}

func main() {
	audioFile := flag.String("audio", "testdata/sample-8khz.wav", "Path to WAV file (8kHz mono)")
	serverURL := flag.String("server", "ws://localhost:8000/ws/media", "Media websocket URL")
	flag.Parse()

	f, err := os.Open(*audioFile)
	if err != nil {
		log.Fatalf("Failed to open audio file: %v", err)
	}
	defer f.Close()

	header := make([]byte, wavHeaderSize)
	if _, err := io.ReadFull(f, header); err != nil {
		log.Fatalf("Failed to read WAV header: %v", err)
	}
	if string(header[0:4]) != "RIFF" || string(header[8:12]) != "WAVE" {
		log.Fatal("Not a valid WAV file")
	}

	sampleRate := binary.LittleEndian.Uint32(header[24:28])
	if sampleRate != 8000 {
		log.Printf("Warning: Sample rate is %d Hz, expected 8000 Hz", sampleRate)
	}

	conn, _, err := websocket.DefaultDialer.Dial(*serverURL, nil)
	if err != nil {
		log.Fatalf("Failed to connect: %v", err)
	}
	defer conn.Close()
	log.Printf("Connected to %s", *serverURL)

	// Print any error frames the server sends back.
	go func() {
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			log.Printf("Server frame: %s", data)
		}
	}()

	send := func(frame mediaFrame) {
		payload, err := json.Marshal(frame)
		if err != nil {
			log.Fatalf("Failed to marshal frame: %v", err)
		}
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			log.Fatalf("Failed to send frame: %v", err)
		}
	}

	send(mediaFrame{Event: "connected"})
	send(mediaFrame{Event: "start"})

	chunk := make([]byte, chunkSize)
	var totalBytes int64
	var chunkNum int
	startTime := time.Now()

	for {
		n, err := f.Read(chunk)
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Fatalf("Failed to read audio: %v", err)
		}

		send(mediaFrame{
			Event: "media",
			Media: &mediaPayload{Payload: base64.StdEncoding.EncodeToString(chunk[:n])},
		})
		totalBytes += int64(n)
		chunkNum++
		time.Sleep(chunkIntervalMs * time.Millisecond)
	}

	send(mediaFrame{Event: "stop"})
	log.Printf("Streamed %d bytes in %d chunks over %v", totalBytes, chunkNum, time.Since(startTime))

	// Give the server a moment to flush final transcripts.
	time.Sleep(2 * time.Second)
	_ = conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}
