package websocket

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/genepreston69/uplift-frame/internal/logging"
)

// Message is the envelope pushed to kiosk websockets.
type Message struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

type TimerUpdate struct {
	SessionID        uuid.UUID `json:"session_id"`
	SecondsRemaining int       `json:"seconds_remaining"`
}

type EndedEvent struct {
	SessionID uuid.UUID `json:"session_id"`
	Reason    string    `json:"reason"`
}

func channelFor(sessionID uuid.UUID) string {
	return "session_updates:" + sessionID.String()
}

// Publisher implements session.Notifier over redis pub/sub so the hub
// (possibly in another process) can relay timer state to kiosk screens.
type Publisher struct {
	redis  *redis.Client
	logger zerolog.Logger
}

func NewPublisher(redisClient *redis.Client, logger zerolog.Logger) *Publisher {
	return &Publisher{
		redis:  redisClient,
		logger: logger.With().Str(logging.FieldComponent, "ws-publisher").Logger(),
	}
}

func (p *Publisher) SessionTick(id uuid.UUID, remaining time.Duration) {
	p.publish(id, Message{
		Type: "timer",
		Payload: TimerUpdate{
			SessionID:        id,
			SecondsRemaining: int(remaining / time.Second),
		},
	})
}

func (p *Publisher) SessionEnded(id uuid.UUID, reason string) {
	p.publish(id, Message{
		Type:    "session_ended",
		Payload: EndedEvent{SessionID: id, Reason: reason},
	})
}

func (p *Publisher) publish(id uuid.UUID, msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	if err := p.redis.Publish(context.Background(), channelFor(id), data).Err(); err != nil {
		// Countdown updates are cosmetic; debug keeps a flaky redis from
		// flooding the operator log once per second.
		p.logger.Debug().Err(err).Str(logging.FieldSessionID, id.String()).Msg("failed to publish session update")
	}
}
