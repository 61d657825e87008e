package channels

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/chankit/chankit-go/contracts"
	"github.com/chankit/chankit-go/interceptors"
)

// MessageHandler processes messages delivered by a channel
type MessageHandler interface {
	Handle(ctx context.Context, msg contracts.Message) error
}

// MessageHandlerFunc is a function adapter for MessageHandler
type MessageHandlerFunc func(ctx context.Context, msg contracts.Message) error

// Handle implements MessageHandler
func (f MessageHandlerFunc) Handle(ctx context.Context, msg contracts.Message) error {
	return f(ctx, msg)
}

// MessageChannel accepts messages for dispatch. Send reports whether the
// message was accepted: false with a nil error means an interceptor vetoed
// the send, false with a non-nil error means dispatch failed.
type MessageChannel interface {
	// Name returns the channel name used for diagnostics
	Name() string

	// Send dispatches a message according to the channel's discipline
	Send(ctx context.Context, msg contracts.Message) (bool, error)

	// AddInterceptor registers a channel interceptor. Interceptors run in
	// registration order for before hooks and reverse registration order
	// for after hooks.
	AddInterceptor(interceptor interceptors.ChannelInterceptor)
}

// SubscribableChannel is a push-based channel that delivers sent messages
// to registered handlers.
type SubscribableChannel interface {
	MessageChannel

	// Subscribe registers a handler with the channel
	Subscribe(handler MessageHandler) error

	// Unsubscribe removes a previously registered handler
	Unsubscribe(handler MessageHandler) bool
}

// PollableChannel is a buffering channel whose consumers explicitly dequeue
// messages instead of being pushed to.
type PollableChannel interface {
	MessageChannel

	// Receive dequeues the next message, blocking up to timeout. A nil
	// message with a nil error means nothing became available in time or
	// an interceptor vetoed the receive.
	Receive(ctx context.Context, timeout time.Duration) (contracts.Message, error)
}

// baseChannel carries the state every channel variant shares: the
// diagnostic name, the logger and the ordered interceptor list, together
// with the hook invocation helpers. Before hooks run in registration order;
// after hooks run in reverse order and only for interceptors whose before
// hook already ran, so each interceptor brackets the ones registered after
// it.
type baseChannel struct {
	name   string
	logger *slog.Logger

	mu           sync.RWMutex
	interceptors []interceptors.ChannelInterceptor
}

// Name returns the channel name used for diagnostics
func (c *baseChannel) Name() string {
	return c.name
}

// AddInterceptor registers a channel interceptor
func (c *baseChannel) AddInterceptor(interceptor interceptors.ChannelInterceptor) {
	if interceptor == nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.interceptors = append(c.interceptors, interceptor)
}

func (c *baseChannel) interceptorSnapshot() []interceptors.ChannelInterceptor {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.interceptors
}

// applyPreSend runs PreSend hooks in registration order. On veto it closes
// out the send by firing PostSend and AfterSendCompletion with an
// unsuccessful outcome on every interceptor whose PreSend already ran, and
// reports ok=false.
func (c *baseChannel) applyPreSend(ctx context.Context, msg contracts.Message) (contracts.Message, []interceptors.ChannelInterceptor, bool) {
	list := c.interceptorSnapshot()

	for i, interceptor := range list {
		next := interceptor.PreSend(ctx, msg, c)
		if next == nil {
			applied := list[:i+1]
			c.logger.Debug("send vetoed by interceptor", "channel", c.name, "messageId", msg.GetID())
			c.applyPostSend(ctx, msg, applied, false)
			c.applyAfterSendCompletion(ctx, msg, applied, false, nil)
			return nil, nil, false
		}
		msg = next
	}

	return msg, list, true
}

func (c *baseChannel) applyPostSend(ctx context.Context, msg contracts.Message, applied []interceptors.ChannelInterceptor, sent bool) {
	for i := len(applied) - 1; i >= 0; i-- {
		applied[i].PostSend(ctx, msg, c, sent)
	}
}

func (c *baseChannel) applyAfterSendCompletion(ctx context.Context, msg contracts.Message, applied []interceptors.ChannelInterceptor, sent bool, err error) {
	for i := len(applied) - 1; i >= 0; i-- {
		applied[i].AfterSendCompletion(ctx, msg, c, sent, err)
	}
}

// applyBeforeHandle runs BeforeHandle hooks in registration order. On veto
// handling is skipped entirely and no AfterMessageHandled fires.
func (c *baseChannel) applyBeforeHandle(ctx context.Context, msg contracts.Message, handler MessageHandler) (contracts.Message, []interceptors.ChannelInterceptor, bool) {
	list := c.interceptorSnapshot()

	for _, interceptor := range list {
		next := interceptor.BeforeHandle(ctx, msg, c, handler)
		if next == nil {
			c.logger.Debug("handling vetoed by interceptor", "channel", c.name, "messageId", msg.GetID())
			return nil, nil, false
		}
		msg = next
	}

	return msg, list, true
}

func (c *baseChannel) applyAfterMessageHandled(ctx context.Context, msg contracts.Message, handler MessageHandler, applied []interceptors.ChannelInterceptor, err error) {
	for i := len(applied) - 1; i >= 0; i-- {
		applied[i].AfterMessageHandled(ctx, msg, c, handler, err)
	}
}

// applyPreReceive runs PreReceive hooks in registration order. On veto the
// receive is closed out by firing AfterReceiveCompletion on every
// interceptor whose PreReceive already ran; PostReceive is skipped.
func (c *baseChannel) applyPreReceive(ctx context.Context) ([]interceptors.ChannelInterceptor, bool) {
	list := c.interceptorSnapshot()

	for i, interceptor := range list {
		if !interceptor.PreReceive(ctx, c) {
			applied := list[:i+1]
			c.logger.Debug("receive vetoed by interceptor", "channel", c.name)
			c.applyAfterReceiveCompletion(ctx, nil, applied, nil)
			return nil, false
		}
	}

	return list, true
}

func (c *baseChannel) applyPostReceive(ctx context.Context, msg contracts.Message, applied []interceptors.ChannelInterceptor) contracts.Message {
	for i := len(applied) - 1; i >= 0; i-- {
		msg = applied[i].PostReceive(ctx, msg, c)
	}
	return msg
}

func (c *baseChannel) applyAfterReceiveCompletion(ctx context.Context, msg contracts.Message, applied []interceptors.ChannelInterceptor, err error) {
	for i := len(applied) - 1; i >= 0; i-- {
		applied[i].AfterReceiveCompletion(ctx, msg, c, err)
	}
}

// subscriberList is the handler registry shared by the dispatching channel
// variants. Registration is expected to complete before traffic begins; the
// lock keeps snapshots consistent but concurrent registration ordering is
// not guaranteed.
type subscriberList struct {
	mu       sync.RWMutex
	handlers []MessageHandler
}

func (l *subscriberList) add(handler MessageHandler) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.handlers = append(l.handlers, handler)
}

func (l *subscriberList) remove(handler MessageHandler) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i, h := range l.handlers {
		if h == handler {
			l.handlers = append(l.handlers[:i], l.handlers[i+1:]...)
			return true
		}
	}
	return false
}

func (l *subscriberList) snapshot() []MessageHandler {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.handlers
}

func (l *subscriberList) count() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.handlers)
}
