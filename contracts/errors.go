package contracts

import (
	"errors"
	"fmt"
)

// Sentinel errors shared by the channel implementations.
var (
	// ErrNoSubscribers is returned when a send reaches a channel that
	// requires a handler but none is registered.
	ErrNoSubscribers = errors.New("no subscribers registered on channel")

	// ErrChannelClosed is returned when an operation is attempted on a
	// channel that has been shut down.
	ErrChannelClosed = errors.New("channel is closed")

	// ErrBufferFull is returned when a bounded buffer cannot accept
	// another message.
	ErrBufferFull = errors.New("channel buffer is full")
)

// DispatchError wraps a failure that occurred while a channel delivered a
// message to a subscriber.
type DispatchError struct {
	Channel   string
	MessageID string
	Err       error
}

// NewDispatchError creates a dispatch error for the given channel and message
func NewDispatchError(channel string, messageID string, err error) *DispatchError {
	return &DispatchError{
		Channel:   channel,
		MessageID: messageID,
		Err:       err,
	}
}

// Error implements error
func (e *DispatchError) Error() string {
	return fmt.Sprintf("dispatch failed on channel %s for message %s: %v", e.Channel, e.MessageID, e.Err)
}

// Unwrap returns the underlying failure
func (e *DispatchError) Unwrap() error {
	return e.Err
}
