package contracts

import (
	"time"
)

// Message is the base interface for everything that moves through a channel.
// Implementations are immutable once constructed: a message is created by a
// sender and only read afterwards, never mutated in transit.
type Message interface {
	GetID() string
	GetTimestamp() time.Time
	GetType() string
	GetPriority() int
	GetPayload() any
}
