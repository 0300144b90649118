// Command test-client connects to a running server, applies full throttle
// and prints the state stream. Handy for eyeballing the simulation without
// a browser client.
package main

import (
	"encoding/json"
	"flag"
	"os"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

func main() {
	addr := flag.String("addr", "ws://localhost:8080/ws", "server websocket URL")
	duration := flag.Duration("duration", 5*time.Second, "how long to listen")
	throttle := flag.Float64("throttle", 1.0, "throttle to hold")
	flag.Parse()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()

	conn, _, err := websocket.DefaultDialer.Dial(*addr, nil)
	if err != nil {
		log.Fatal().Err(err).Str("addr", *addr).Msg("dial")
	}
	defer conn.Close()

	log.Info().Str("addr", *addr).Msg("connected")

	if err := conn.WriteJSON(map[string]interface{}{
		"type":        "ping",
		"client_time": float64(time.Now().UnixMilli()),
	}); err != nil {
		log.Fatal().Err(err).Msg("ping")
	}

	if err := conn.WriteJSON(map[string]interface{}{
		"type": "controls",
		"controls": map[string]float64{
			"throttle": *throttle,
		},
	}); err != nil {
		log.Fatal().Err(err).Msg("controls")
	}

	deadline := time.Now().Add(*duration)
	conn.SetReadDeadline(deadline)

	for time.Now().Before(deadline) {
		_, data, err := conn.ReadMessage()
		if err != nil {
			log.Warn().Err(err).Msg("read")
			break
		}

		var msg map[string]interface{}
		if err := json.Unmarshal(data, &msg); err != nil {
			log.Warn().Err(err).Msg("parse")
			continue
		}

		switch msg["type"] {
		case "info":
			log.Info().Interface("message", msg["message"]).Msg("info")
		case "pong":
			sent, _ := msg["client_time"].(float64)
			log.Info().Float64("rtt_ms", float64(time.Now().UnixMilli())-sent).Msg("pong")
		case "batch_update":
			updates, _ := msg["updates"].([]interface{})
			for _, raw := range updates {
				u, ok := raw.(map[string]interface{})
				if !ok {
					continue
				}
				log.Info().
					Interface("id", u["id"]).
					Interface("position", u["position"]).
					Msg("entity")
			}
		case "debug_lines":
			segments, _ := msg["segments"].([]interface{})
			log.Debug().Int("segments", len(segments)).Msg("debug lines")
		default:
			log.Info().Interface("msg", msg).Msg("other")
		}
	}

	log.Info().Msg("done")
}
