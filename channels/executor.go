package channels

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/chankit/chankit-go/contracts"
	"github.com/chankit/chankit-go/internal/pool"
)

// FailureHandler receives handler errors captured on pool goroutines. The
// original sender never sees them; this callback is the observable surface
// for asynchronous dispatch failures, next to AfterMessageHandled.
type FailureHandler func(ctx context.Context, msg contracts.Message, err error)

// ExecutorChannel dispatches each sent message to one subscriber on a
// worker pool, decoupling handling from the sender's goroutine. Because the
// channel itself schedules the handler invocation, the handle hooks
// (BeforeHandle, AfterMessageHandled) fire around it, exactly once per sent
// message even with many messages in flight concurrently.
//
// PostSend reflects acceptance into the async pipeline, not handling
// completion: it fires as soon as the dispatch task is enqueued.
type ExecutorChannel struct {
	baseChannel
	subscribers subscriberList
	next        atomic.Uint64

	pool      *pool.Pool
	ownedPool bool
	workers   int
	queueSize int
	onFailure FailureHandler
}

// ExecutorChannelOption configures an ExecutorChannel
type ExecutorChannelOption func(*ExecutorChannel)

// WithExecutorLogger sets the logger
func WithExecutorLogger(logger *slog.Logger) ExecutorChannelOption {
	return func(c *ExecutorChannel) {
		c.logger = logger
	}
}

// WithExecutorPool sets an externally managed worker pool. The caller owns
// its lifecycle; Start and Stop on the channel leave it untouched.
func WithExecutorPool(p *pool.Pool) ExecutorChannelOption {
	return func(c *ExecutorChannel) {
		c.pool = p
		c.ownedPool = false
	}
}

// WithExecutorWorkers sets the worker count of the channel-owned pool
func WithExecutorWorkers(workers int) ExecutorChannelOption {
	return func(c *ExecutorChannel) {
		c.workers = workers
	}
}

// WithExecutorQueueSize sets the task queue size of the channel-owned pool
func WithExecutorQueueSize(size int) ExecutorChannelOption {
	return func(c *ExecutorChannel) {
		c.queueSize = size
	}
}

// WithExecutorFailureHandler sets the callback receiving handler errors
func WithExecutorFailureHandler(handler FailureHandler) ExecutorChannelOption {
	return func(c *ExecutorChannel) {
		c.onFailure = handler
	}
}

// NewExecutorChannel creates a new executor channel. Unless an external
// pool is supplied the channel creates its own, sized by the worker and
// queue options, and manages its lifecycle through Start and Stop.
func NewExecutorChannel(name string, opts ...ExecutorChannelOption) (*ExecutorChannel, error) {
	c := &ExecutorChannel{
		baseChannel: baseChannel{
			name:   name,
			logger: slog.Default(),
		},
		ownedPool: true,
		workers:   4,
		queueSize: 64,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.logger == nil {
		c.logger = slog.Default()
	}

	if c.pool == nil {
		p, err := pool.NewPool(
			pool.WithWorkers(c.workers),
			pool.WithQueueSize(c.queueSize),
			pool.WithLogger(c.logger),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create dispatch pool for channel %s: %w", name, err)
		}
		c.pool = p
		c.ownedPool = true
	}

	return c, nil
}

// Start starts the channel-owned dispatch pool. It is a no-op for channels
// configured with an external pool.
func (c *ExecutorChannel) Start(ctx context.Context) error {
	if !c.ownedPool {
		return nil
	}
	return c.pool.Start(ctx)
}

// Stop stops the channel-owned dispatch pool, draining in-flight dispatch
// tasks first. It is a no-op for channels configured with an external pool.
func (c *ExecutorChannel) Stop() error {
	if !c.ownedPool {
		return nil
	}
	return c.pool.Stop()
}

// Subscribe registers a handler with the channel
func (c *ExecutorChannel) Subscribe(handler MessageHandler) error {
	if handler == nil {
		return fmt.Errorf("handler cannot be nil")
	}

	c.subscribers.add(handler)
	return nil
}

// Unsubscribe removes a previously registered handler
func (c *ExecutorChannel) Unsubscribe(handler MessageHandler) bool {
	return c.subscribers.remove(handler)
}

// Send runs PreSend in the caller's goroutine, enqueues the dispatch task
// and returns. Handling happens later on a pool goroutine, where the handle
// hooks fire around the subscriber. Handler errors are captured there and
// reported through AfterMessageHandled and the failure handler, never to
// the sender.
func (c *ExecutorChannel) Send(ctx context.Context, msg contracts.Message) (bool, error) {
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

	dispatchMsg := msg
	if err := c.pool.Submit(func(poolCtx context.Context) {
		c.dispatch(poolCtx, dispatchMsg, handler)
	}); err != nil {
		enqueueErr := fmt.Errorf("failed to enqueue dispatch on channel %s: %w", c.name, err)
		c.applyAfterSendCompletion(ctx, msg, applied, false, enqueueErr)
		return false, enqueueErr
	}

	c.applyPostSend(ctx, msg, applied, true)
	c.applyAfterSendCompletion(ctx, msg, applied, true, nil)

	return true, nil
}

// dispatch runs on a pool goroutine. The pool's lifecycle context is used
// rather than the sender's, which may be gone by the time handling runs.
func (c *ExecutorChannel) dispatch(ctx context.Context, msg contracts.Message, handler MessageHandler) {
	msg, applied, ok := c.applyBeforeHandle(ctx, msg, handler)
	if !ok {
		return
	}

	err := handler.Handle(ctx, msg)
	c.applyAfterMessageHandled(ctx, msg, handler, applied, err)

	if err != nil {
		c.logger.Error("handler failed on pool goroutine",
			"channel", c.name,
			"messageId", msg.GetID(),
			"error", err,
		)
		if c.onFailure != nil {
			c.onFailure(ctx, msg, err)
		}
	}
}

func (c *ExecutorChannel) nextHandler() (MessageHandler, error) {
	handlers := c.subscribers.snapshot()
	if len(handlers) == 0 {
		return nil, fmt.Errorf("channel %s: %w", c.name, contracts.ErrNoSubscribers)
	}

	idx := (c.next.Add(1) - 1) % uint64(len(handlers))
	return handlers[idx], nil
}

var _ SubscribableChannel = (*ExecutorChannel)(nil)
