package channels

import (
	"container/heap"
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/chankit/chankit-go/contracts"
)

// PriorityChannel buffers sent messages in priority order and hands them
// out through explicit Receive calls. Higher priority dequeues first;
// equal priorities dequeue in arrival order. There is no subscriber to
// invoke, so handle hooks never fire, and the receive hooks fire on every
// Receive call regardless of outcome, timeout included.
type PriorityChannel struct {
	baseChannel

	bufMu    sync.Mutex
	buffer   messageHeap
	seq      uint64
	capacity int
	notify   chan struct{}
}

// PriorityChannelOption configures a PriorityChannel
type PriorityChannelOption func(*PriorityChannel)

// WithPriorityLogger sets the logger
func WithPriorityLogger(logger *slog.Logger) PriorityChannelOption {
	return func(c *PriorityChannel) {
		c.logger = logger
	}
}

// WithPriorityCapacity bounds the internal buffer. Zero means unbounded.
func WithPriorityCapacity(capacity int) PriorityChannelOption {
	return func(c *PriorityChannel) {
		c.capacity = capacity
	}
}

// NewPriorityChannel creates a new priority channel
func NewPriorityChannel(name string, opts ...PriorityChannelOption) *PriorityChannel {
	c := &PriorityChannel{
		baseChannel: baseChannel{
			name:   name,
			logger: slog.Default(),
		},
		notify: make(chan struct{}, 1),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.logger == nil {
		c.logger = slog.Default()
	}

	return c
}

// Send enqueues the message into the priority buffer and wakes one blocked
// receiver. Only send hooks fire.
func (c *PriorityChannel) Send(ctx context.Context, msg contracts.Message) (bool, error) {
	if msg == nil {
		return false, fmt.Errorf("message cannot be nil")
	}

	msg, applied, ok := c.applyPreSend(ctx, msg)
	if !ok {
		return false, nil
	}

	c.bufMu.Lock()
	if c.capacity > 0 && c.buffer.Len() >= c.capacity {
		c.bufMu.Unlock()
		err := fmt.Errorf("channel %s: %w", c.name, contracts.ErrBufferFull)
		c.applyAfterSendCompletion(ctx, msg, applied, false, err)
		return false, err
	}

	c.seq++
	heap.Push(&c.buffer, &bufferedMessage{message: msg, sequence: c.seq})
	c.bufMu.Unlock()

	c.wake()

	c.applyPostSend(ctx, msg, applied, true)
	c.applyAfterSendCompletion(ctx, msg, applied, true, nil)

	return true, nil
}

// Receive dequeues the highest-priority buffered message, blocking up to
// timeout for one to arrive. A timeout is not an error: it yields
// (nil, nil). A non-positive timeout polls without blocking. Every call
// fires PreReceive and, unless PreReceive vetoes, PostReceive (with nil on
// timeout) and AfterReceiveCompletion.
func (c *PriorityChannel) Receive(ctx context.Context, timeout time.Duration) (contracts.Message, error) {
	applied, ok := c.applyPreReceive(ctx)
	if !ok {
		return nil, nil
	}

	msg, err := c.poll(ctx, timeout)

	msg = c.applyPostReceive(ctx, msg, applied)
	c.applyAfterReceiveCompletion(ctx, msg, applied, err)

	return msg, err
}

// Depth returns the number of buffered messages
func (c *PriorityChannel) Depth() int {
	c.bufMu.Lock()
	defer c.bufMu.Unlock()
	return c.buffer.Len()
}

// poll waits for a buffered message up to the deadline. Context
// cancellation is the only error path; an elapsed timeout yields nil.
func (c *PriorityChannel) poll(ctx context.Context, timeout time.Duration) (contracts.Message, error) {
	if msg := c.tryPop(); msg != nil {
		return msg, nil
	}

	if timeout <= 0 {
		return nil, nil
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	for {
		select {
		case <-c.notify:
			if msg := c.tryPop(); msg != nil {
				return msg, nil
			}
		case <-timer.C:
			return nil, nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// tryPop dequeues the highest-priority message if one is buffered. When
// messages remain it re-arms the notification so another blocked receiver
// wakes too.
func (c *PriorityChannel) tryPop() contracts.Message {
	c.bufMu.Lock()
	defer c.bufMu.Unlock()

	if c.buffer.Len() == 0 {
		return nil
	}

	item := heap.Pop(&c.buffer).(*bufferedMessage)
	if c.buffer.Len() > 0 {
		c.wake()
	}

	return item.message
}

func (c *PriorityChannel) wake() {
	select {
	case c.notify <- struct{}{}:
	default:
	}
}

var _ PollableChannel = (*PriorityChannel)(nil)

type bufferedMessage struct {
	message  contracts.Message
	sequence uint64
}

// messageHeap orders by priority descending, then arrival order ascending
// for a stable tie-break.
type messageHeap []*bufferedMessage

func (h messageHeap) Len() int { return len(h) }

func (h messageHeap) Less(i, j int) bool {
	pi, pj := h[i].message.GetPriority(), h[j].message.GetPriority()
	if pi != pj {
		return pi > pj
	}
	return h[i].sequence < h[j].sequence
}

func (h messageHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *messageHeap) Push(x any) {
	*h = append(*h, x.(*bufferedMessage))
}

func (h *messageHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return item
}
