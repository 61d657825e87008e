package interceptors

import (
	"context"

	"github.com/chankit/chankit-go/contracts"
)

// Channel is the view of a message channel an interceptor receives in its
// hooks. It is deliberately minimal so interceptors never depend on a
// concrete channel implementation.
type Channel interface {
	// Name returns the channel name used for diagnostics
	Name() string
}

// MessageHandler represents a subscriber registered with a channel
type MessageHandler interface {
	Handle(ctx context.Context, msg contracts.Message) error
}

// MessageHandlerFunc is a function adapter for MessageHandler
type MessageHandlerFunc func(ctx context.Context, msg contracts.Message) error

// Handle implements MessageHandler
func (f MessageHandlerFunc) Handle(ctx context.Context, msg contracts.Message) error {
	return f(ctx, msg)
}

// ChannelInterceptor observes and optionally vetoes the lifecycle of
// messages moving through a channel. Which hooks a channel fires depends on
// its dispatch discipline:
//
//   - Every channel fires the send hooks (PreSend, PostSend,
//     AfterSendCompletion) around Send.
//   - Only channels that dispatch handlers on their own worker pool fire the
//     handle hooks (BeforeHandle, AfterMessageHandled). A channel invoking a
//     subscriber inline in the sender's goroutine does not, because there
//     handler invocation is indistinguishable from the send itself.
//   - Only pollable channels fire the receive hooks (PreReceive, PostReceive,
//     AfterReceiveCompletion), around an explicit Receive call.
//
// Hooks are expected not to panic; channels log and contain a panicking hook
// rather than letting it take down a dispatch pipeline.
type ChannelInterceptor interface {
	// PreSend is invoked before a message enters the channel's dispatch
	// path. Returning nil aborts the send: nothing is delivered and the
	// send reports an unsuccessful outcome.
	PreSend(ctx context.Context, msg contracts.Message, ch Channel) contracts.Message

	// PostSend is invoked after the send call returns locally. For
	// synchronous channels sent reflects delivery completion; for
	// pool-backed channels it reflects acceptance into the async pipeline.
	PostSend(ctx context.Context, msg contracts.Message, ch Channel, sent bool)

	// AfterSendCompletion is invoked once the send pipeline segment owned
	// by the channel completes, success or failure.
	AfterSendCompletion(ctx context.Context, msg contracts.Message, ch Channel, sent bool, err error)

	// BeforeHandle is invoked on a worker goroutine before a subscribed
	// handler processes a message. Returning nil aborts handling.
	BeforeHandle(ctx context.Context, msg contracts.Message, ch Channel, handler MessageHandler) contracts.Message

	// AfterMessageHandled is invoked on the worker goroutine after handler
	// execution finishes, with any handler error.
	AfterMessageHandled(ctx context.Context, msg contracts.Message, ch Channel, handler MessageHandler, err error)

	// PreReceive is invoked before a poll-style receive attempts to
	// dequeue. Returning false aborts the receive, which then yields no
	// message.
	PreReceive(ctx context.Context, ch Channel) bool

	// PostReceive is invoked after a receive attempt, with the dequeued
	// message or nil when the wait timed out.
	PostReceive(ctx context.Context, msg contracts.Message, ch Channel) contracts.Message

	// AfterReceiveCompletion is invoked once the receive pipeline
	// completes, success, timeout or failure.
	AfterReceiveCompletion(ctx context.Context, msg contracts.Message, ch Channel, err error)
}

// BaseInterceptor is a no-op ChannelInterceptor meant for embedding, so an
// interceptor implements only the hooks it cares about.
type BaseInterceptor struct{}

// PreSend implements ChannelInterceptor
func (BaseInterceptor) PreSend(ctx context.Context, msg contracts.Message, ch Channel) contracts.Message {
	return msg
}

// PostSend implements ChannelInterceptor
func (BaseInterceptor) PostSend(ctx context.Context, msg contracts.Message, ch Channel, sent bool) {
}

// AfterSendCompletion implements ChannelInterceptor
func (BaseInterceptor) AfterSendCompletion(ctx context.Context, msg contracts.Message, ch Channel, sent bool, err error) {
}

// BeforeHandle implements ChannelInterceptor
func (BaseInterceptor) BeforeHandle(ctx context.Context, msg contracts.Message, ch Channel, handler MessageHandler) contracts.Message {
	return msg
}

// AfterMessageHandled implements ChannelInterceptor
func (BaseInterceptor) AfterMessageHandled(ctx context.Context, msg contracts.Message, ch Channel, handler MessageHandler, err error) {
}

// PreReceive implements ChannelInterceptor
func (BaseInterceptor) PreReceive(ctx context.Context, ch Channel) bool {
	return true
}

// PostReceive implements ChannelInterceptor
func (BaseInterceptor) PostReceive(ctx context.Context, msg contracts.Message, ch Channel) contracts.Message {
	return msg
}

// AfterReceiveCompletion implements ChannelInterceptor
func (BaseInterceptor) AfterReceiveCompletion(ctx context.Context, msg contracts.Message, ch Channel, err error) {
}
