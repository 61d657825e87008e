package channels

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/chankit/chankit-go/contracts"
)

// DirectChannel dispatches each sent message to exactly one subscriber,
// synchronously in the sender's goroutine. With several subscribers
// registered, sends rotate over them round-robin. Because no worker pool
// sits between send and handler, handle hooks never fire on this channel:
// handler invocation is part of the send itself.
//
// PostSend reflects delivery completion: it fires only after the handler
// has returned successfully. Handler failures propagate synchronously to
// the sender.
type DirectChannel struct {
	baseChannel
	subscribers subscriberList
	next        atomic.Uint64
}

// DirectChannelOption configures a DirectChannel
type DirectChannelOption func(*DirectChannel)

// WithDirectLogger sets the logger
func WithDirectLogger(logger *slog.Logger) DirectChannelOption {
	return func(c *DirectChannel) {
		c.logger = logger
	}
}

// NewDirectChannel creates a new direct channel
func NewDirectChannel(name string, opts ...DirectChannelOption) *DirectChannel {
	c := &DirectChannel{
		baseChannel: baseChannel{
			name:   name,
			logger: slog.Default(),
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.logger == nil {
		c.logger = slog.Default()
	}

	return c
}

// Subscribe registers a handler with the channel
func (c *DirectChannel) Subscribe(handler MessageHandler) error {
	if handler == nil {
		return fmt.Errorf("handler cannot be nil")
	}

	c.subscribers.add(handler)
	return nil
}

// Unsubscribe removes a previously registered handler
func (c *DirectChannel) Unsubscribe(handler MessageHandler) bool {
	return c.subscribers.remove(handler)
}

// Send dispatches the message to one subscriber in the calling goroutine.
// It returns (false, nil) when an interceptor vetoes the send, and fails
// when no subscriber is registered or the handler returns an error.
func (c *DirectChannel) Send(ctx context.Context, msg contracts.Message) (bool, error) {
	if msg == nil {
		return false, fmt.Errorf("message cannot be nil")
	}

	msg, applied, ok := c.applyPreSend(ctx, msg)
	if !ok {
		return false, nil
	}

	handler, err := c.nextHandler()
	if err != nil {
		c.applyAfterSendCompletion(ctx, msg, applied, false, err)
		return false, err
	}

	if err := handler.Handle(ctx, msg); err != nil {
		dispatchErr := contracts.NewDispatchError(c.name, msg.GetID(), err)
		c.applyAfterSendCompletion(ctx, msg, applied, false, dispatchErr)
		return false, dispatchErr
	}

	c.applyPostSend(ctx, msg, applied, true)
	c.applyAfterSendCompletion(ctx, msg, applied, true, nil)

	return true, nil
}

// nextHandler selects the subscriber for this send, rotating round-robin
// over the registered handlers.
func (c *DirectChannel) nextHandler() (MessageHandler, error) {
	handlers := c.subscribers.snapshot()
	if len(handlers) == 0 {
		return nil, fmt.Errorf("channel %s: %w", c.name, contracts.ErrNoSubscribers)
	}

	idx := (c.next.Add(1) - 1) % uint64(len(handlers))
	return handlers[idx], nil
}

var _ SubscribableChannel = (*DirectChannel)(nil)
