package api

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"daytrader/internal/events"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// streamTopics are the event streams fanned out to websocket clients.
var streamTopics = []events.Topic{
	events.TopicOrderSubmitted,
	events.TopicOrderRejected,
	events.TopicPositionOpened,
	events.TopicPositionClosed,
	events.TopicRiskExit,
	events.TopicSessionFlatten,
}

type wsEvent struct {
	Topic   string `json:"topic"`
	Payload any    `json:"payload"`
}

func (s *Server) websocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("ws upgrade error: %v", err)
		return
	}
	defer conn.Close()

	if s.Bus == nil {
		_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"bus not ready"}`))
		return
	}

	merged := make(chan wsEvent, 100)
	done := make(chan struct{})
	defer close(done)

	for _, topic := range streamTopics {
		stream, unsub := s.Bus.Subscribe(topic, 100)
		go func(topic events.Topic, stream <-chan any, unsub func()) {
			defer unsub()
			for {
				select {
				case <-done:
					return
				case msg, ok := <-stream:
					if !ok {
						return
					}
					select {
					case merged <- wsEvent{Topic: string(topic), Payload: normalize(msg)}:
					case <-done:
						return
					}
				}
			}
		}(topic, stream, unsub)
	}

	for ev := range merged {
		if err := conn.WriteJSON(ev); err != nil {
			log.Printf("ws write error: %v", err)
			return
		}
	}
}

// normalize turns non-JSON-friendly payloads into strings.
func normalize(v any) any {
	switch t := v.(type) {
	case interface{ String() string }:
		return t.String()
	default:
		return v
	}
}
