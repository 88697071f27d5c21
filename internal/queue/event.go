package queue

import "time"

// StockMovementQueue is the queue carrying inventory movement events.
const StockMovementQueue = "inventory.movement"

// StockMovementEvent is published after a movement commits. EventID is a
// fresh UUID so consumers can deduplicate across publisher retries.
type StockMovementEvent struct {
	EventID    string    `json:"event_id"`
	MovementID uint64    `json:"movement_id"`
	VariantID  uint64    `json:"variant_id"`
	SKU        string    `json:"sku"`
	Quantity   int       `json:"quantity"`
	Value      float64   `json:"value"`
	Type       string    `json:"type"` // in | out
	ActorID    uint64    `json:"actor_id"`
	OccurredAt time.Time `json:"occurred_at"`
}
