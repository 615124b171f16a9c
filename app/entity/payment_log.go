package entity

import "time"

const (
	DirectionIncoming = "incoming"

	PaymentStatusCompleted = "completed"
)

type PaymentLog struct {
	ID uint64

	Direction   string
	PaymentHash string
	AmountSat   int64
	Status      string

	// RawJSON holds the complete upstream event for forensic inspection.
	RawJSON string

	CreatedAt time.Time
}
