package contracts

import (
	"time"

	"github.com/google/uuid"
)

// DefaultPriority is the priority assigned to messages created without an
// explicit ordering key.
const DefaultPriority = 0

// BaseMessage provides common fields for all message types
type BaseMessage struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Type      string    `json:"type"`
	Priority  int       `json:"priority,omitempty"`
}

// NewBaseMessage creates a new base message with generated ID and current timestamp
func NewBaseMessage(messageType string) BaseMessage {
	return BaseMessage{
		ID:        uuid.New().String(),
		Timestamp: time.Now().UTC(),
		Type:      messageType,
		Priority:  DefaultPriority,
	}
}

// GetID returns the message ID
func (m BaseMessage) GetID() string {
	return m.ID
}

// GetTimestamp returns the message timestamp
func (m BaseMessage) GetTimestamp() time.Time {
	return m.Timestamp
}

// GetType returns the message type
func (m BaseMessage) GetType() string {
	return m.Type
}

// GetPriority returns the message ordering key
func (m BaseMessage) GetPriority() int {
	return m.Priority
}

// GetPayload returns nil; embedding types carry the payload
func (m BaseMessage) GetPayload() any {
	return nil
}

// GenericMessage is a message carrying an arbitrary payload. It is the
// envelope channels deal in when the caller has no domain message type of
// its own.
type GenericMessage struct {
	BaseMessage
	Payload any `json:"payload"`
}

// NewMessage creates a message wrapping the given payload
func NewMessage(payload any) *GenericMessage {
	return &GenericMessage{
		BaseMessage: NewBaseMessage("GenericMessage"),
		Payload:     payload,
	}
}

// NewPriorityMessage creates a message wrapping the given payload with an
// explicit ordering key. Higher values dequeue first on priority channels.
func NewPriorityMessage(payload any, priority int) *GenericMessage {
	m := NewMessage(payload)
	m.Priority = priority
	return m
}

// GetPayload returns the wrapped payload
func (m *GenericMessage) GetPayload() any {
	return m.Payload
}
