package models

import (
	"time"

	"github.com/google/uuid"
)

// Evaluation event kinds.
const (
	EventBacktest = "backtest"
	EventRank     = "rank"
	EventReplay   = "replay"
)

// EvaluationEvent is published after a completed evaluation.
type EvaluationEvent struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	Asset     string    `json:"asset"`
	Timeframe string    `json:"timeframe"`
	CreatedAt time.Time `json:"created_at"`
	Payload   any       `json:"payload"`
}

// NewEvaluationEvent stamps a payload with a fresh id and time.
func NewEvaluationEvent(kind, asset, timeframe string, payload any) EvaluationEvent {
	return EvaluationEvent{
		ID:        uuid.NewString(),
		Kind:      kind,
		Asset:     asset,
		Timeframe: timeframe,
		CreatedAt: time.Now().UTC(),
		Payload:   payload,
	}
}
