package channels

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/chankit/chankit-go/contracts"
)

// ReactiveChannel is a pull-based channel: subscribers signal demand and
// the channel delivers held messages only while demand is outstanding. Each
// subscription keeps its own queue and demand counter, so a slow consumer
// never affects the others. Send hooks fire on send; handle hooks never
// fire because the subscriber, not the channel, governs consumption.
type ReactiveChannel struct {
	baseChannel

	subMu         sync.Mutex
	subscriptions []*ReactiveSubscription
	bufferSize    int
}

// ReactiveChannelOption configures a ReactiveChannel
type ReactiveChannelOption func(*ReactiveChannel)

// WithReactiveLogger sets the logger
func WithReactiveLogger(logger *slog.Logger) ReactiveChannelOption {
	return func(c *ReactiveChannel) {
		c.logger = logger
	}
}

// WithReactiveBufferSize bounds the per-subscription queue holding messages
// sent while no demand is outstanding. Zero means unbounded.
func WithReactiveBufferSize(size int) ReactiveChannelOption {
	return func(c *ReactiveChannel) {
		c.bufferSize = size
	}
}

// NewReactiveChannel creates a new reactive channel
func NewReactiveChannel(name string, opts ...ReactiveChannelOption) *ReactiveChannel {
	c := &ReactiveChannel{
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

// Subscribe registers a handler and returns its subscription. The handler
// sees no messages until demand is signalled through Request; messages sent
// in the meantime queue on the subscription.
func (c *ReactiveChannel) Subscribe(handler MessageHandler) (*ReactiveSubscription, error) {
	if handler == nil {
		return nil, fmt.Errorf("handler cannot be nil")
	}

	sub := &ReactiveSubscription{
		channel: c,
		handler: handler,
	}

	c.subMu.Lock()
	c.subscriptions = append(c.subscriptions, sub)
	c.subMu.Unlock()

	return sub, nil
}

// SubscriptionCount returns the number of active subscriptions
func (c *ReactiveChannel) SubscriptionCount() int {
	c.subMu.Lock()
	defer c.subMu.Unlock()
	return len(c.subscriptions)
}

// Send offers the message to every active subscription. Subscriptions with
// outstanding demand are delivered to inline; the rest queue the message.
// A full bounded queue on any subscription fails the send rather than
// dropping the message.
func (c *ReactiveChannel) Send(ctx context.Context, msg contracts.Message) (bool, error) {
	if msg == nil {
		return false, fmt.Errorf("message cannot be nil")
	}

	msg, applied, ok := c.applyPreSend(ctx, msg)
	if !ok {
		return false, nil
	}

	c.subMu.Lock()
	subs := make([]*ReactiveSubscription, len(c.subscriptions))
	copy(subs, c.subscriptions)
	c.subMu.Unlock()

	var firstErr error
	for _, sub := range subs {
		if err := sub.offer(ctx, msg); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	if firstErr != nil {
		err := fmt.Errorf("channel %s could not hold message %s: %w", c.name, msg.GetID(), firstErr)
		c.applyAfterSendCompletion(ctx, msg, applied, false, err)
		return false, err
	}

	c.applyPostSend(ctx, msg, applied, true)
	c.applyAfterSendCompletion(ctx, msg, applied, true, nil)

	return true, nil
}

func (c *ReactiveChannel) removeSubscription(sub *ReactiveSubscription) {
	c.subMu.Lock()
	defer c.subMu.Unlock()

	for i, s := range c.subscriptions {
		if s == sub {
			c.subscriptions = append(c.subscriptions[:i], c.subscriptions[i+1:]...)
			return
		}
	}
}

var _ MessageChannel = (*ReactiveChannel)(nil)

// ReactiveSubscription ties one handler to a reactive channel. It moves
// through a small state machine: idle while no demand is outstanding,
// delivering while draining queued messages against demand, and back to
// idle when either runs out. Cancel releases the subscription's resources
// without affecting other subscribers.
type ReactiveSubscription struct {
	channel *ReactiveChannel
	handler MessageHandler

	mu         sync.Mutex
	queue      []contracts.Message
	demand     int64
	delivering bool
	cancelled  bool
}

// Request signals demand for up to n further messages, delivering queued
// messages inline in the caller's goroutine while demand remains.
func (s *ReactiveSubscription) Request(ctx context.Context, n int64) {
	if n <= 0 {
		return
	}

	s.mu.Lock()
	if s.cancelled {
		s.mu.Unlock()
		return
	}
	s.demand += n
	s.drainLocked(ctx)
}

// Cancel tears down the subscription. Queued messages are released and
// later sends no longer reach this handler.
func (s *ReactiveSubscription) Cancel() {
	s.mu.Lock()
	if s.cancelled {
		s.mu.Unlock()
		return
	}
	s.cancelled = true
	s.queue = nil
	s.mu.Unlock()

	s.channel.removeSubscription(s)
}

// Demand returns the currently outstanding demand
func (s *ReactiveSubscription) Demand() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.demand
}

// Queued returns the number of messages held for this subscription
func (s *ReactiveSubscription) Queued() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queue)
}

// offer enqueues the message and drains against outstanding demand. It
// fails with ErrBufferFull when the bounded queue cannot hold the message.
func (s *ReactiveSubscription) offer(ctx context.Context, msg contracts.Message) error {
	s.mu.Lock()
	if s.cancelled {
		s.mu.Unlock()
		return nil
	}

	if s.channel.bufferSize > 0 && s.demand == 0 && len(s.queue) >= s.channel.bufferSize {
		s.mu.Unlock()
		return contracts.ErrBufferFull
	}

	s.queue = append(s.queue, msg)
	s.drainLocked(ctx)
	return nil
}

// drainLocked delivers queued messages while demand lasts. Called with the
// lock held; releases it before each handler invocation and unlocks before
// returning. The delivering flag keeps concurrent senders and requesters
// from interleaving deliveries.
func (s *ReactiveSubscription) drainLocked(ctx context.Context) {
	if s.delivering {
		s.mu.Unlock()
		return
	}
	s.delivering = true

	for !s.cancelled && s.demand > 0 && len(s.queue) > 0 {
		msg := s.queue[0]
		s.queue = s.queue[1:]
		s.demand--
		s.mu.Unlock()

		if err := s.handler.Handle(ctx, msg); err != nil {
			s.channel.logger.Error("reactive subscriber failed",
				"channel", s.channel.name,
				"messageId", msg.GetID(),
				"error", err,
			)
		}

		s.mu.Lock()
	}

	s.delivering = false
	s.mu.Unlock()
}
