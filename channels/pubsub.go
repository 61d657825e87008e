package channels

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/chankit/chankit-go/contracts"
)

// PublishSubscribeChannel broadcasts each sent message to every registered
// subscriber, synchronously in the sender's goroutine. Send hooks fire once
// per send call, not once per subscriber, and handle hooks never fire since
// the channel schedules no worker of its own.
//
// When a subscriber fails, delivery continues to the remaining subscribers
// and the first failure is reported to the sender together with the
// delivery counts.
type PublishSubscribeChannel struct {
	baseChannel
	subscribers subscriberList
}

// PublishSubscribeChannelOption configures a PublishSubscribeChannel
type PublishSubscribeChannelOption func(*PublishSubscribeChannel)

// WithPubSubLogger sets the logger
func WithPubSubLogger(logger *slog.Logger) PublishSubscribeChannelOption {
	return func(c *PublishSubscribeChannel) {
		c.logger = logger
	}
}

// NewPublishSubscribeChannel creates a new publish-subscribe channel
func NewPublishSubscribeChannel(name string, opts ...PublishSubscribeChannelOption) *PublishSubscribeChannel {
	c := &PublishSubscribeChannel{
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
func (c *PublishSubscribeChannel) Subscribe(handler MessageHandler) error {
	if handler == nil {
		return fmt.Errorf("handler cannot be nil")
	}

	c.subscribers.add(handler)
	return nil
}

// Unsubscribe removes a previously registered handler
func (c *PublishSubscribeChannel) Unsubscribe(handler MessageHandler) bool {
	return c.subscribers.remove(handler)
}

// SubscriberCount returns the number of registered subscribers
func (c *PublishSubscribeChannel) SubscriberCount() int {
	return c.subscribers.count()
}

// Send broadcasts the message to all current subscribers. A failing
// subscriber does not stop delivery to the rest; the first failure is
// returned once everyone has been offered the message.
func (c *PublishSubscribeChannel) Send(ctx context.Context, msg contracts.Message) (bool, error) {
	if msg == nil {
		return false, fmt.Errorf("message cannot be nil")
	}

	msg, applied, ok := c.applyPreSend(ctx, msg)
	if !ok {
		return false, nil
	}

	handlers := c.subscribers.snapshot()

	var firstErr error
	failed := 0
	for _, handler := range handlers {
		if err := handler.Handle(ctx, msg); err != nil {
			failed++
			if firstErr == nil {
				firstErr = err
			}
			c.logger.Warn("subscriber failed during broadcast",
				"channel", c.name,
				"messageId", msg.GetID(),
				"error", err,
			)
		}
	}

	if firstErr != nil {
		err := fmt.Errorf("partial delivery on channel %s (%d of %d subscribers failed): %w",
			c.name, failed, len(handlers), firstErr)
		c.applyAfterSendCompletion(ctx, msg, applied, false, err)
		return false, err
	}

	c.applyPostSend(ctx, msg, applied, true)
	c.applyAfterSendCompletion(ctx, msg, applied, true, nil)

	return true, nil
}

var _ SubscribableChannel = (*PublishSubscribeChannel)(nil)
