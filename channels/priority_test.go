package channels

import (
	"context"
	"testing"
	"time"

	"github.com/chankit/chankit-go/contracts"
	"github.com/chankit/chankit-go/interceptors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPriorityChannelOrdering(t *testing.T) {
	ctx := context.Background()

	t.Run("receives highest priority first", func(t *testing.T) {
		ch := NewPriorityChannel("priority")

		for _, priority := range []int{1, 5, 3} {
			sent, err := ch.Send(ctx, contracts.NewPriorityMessage(priority, priority))
			require.NoError(t, err)
			require.True(t, sent)
		}
		assert.Equal(t, 3, ch.Depth())

		var priorities []int
		for i := 0; i < 3; i++ {
			msg, err := ch.Receive(ctx, time.Second)
			require.NoError(t, err)
			require.NotNil(t, msg)
			priorities = append(priorities, msg.GetPriority())
		}

		assert.Equal(t, []int{5, 3, 1}, priorities)
		assert.Zero(t, ch.Depth())
	})

	t.Run("equal priorities dequeue in arrival order", func(t *testing.T) {
		ch := NewPriorityChannel("priority-stable")

		for _, payload := range []string{"a", "b", "c"} {
			_, err := ch.Send(ctx, contracts.NewPriorityMessage(payload, 7))
			require.NoError(t, err)
		}

		var payloads []string
		for i := 0; i < 3; i++ {
			msg, err := ch.Receive(ctx, time.Second)
			require.NoError(t, err)
			require.NotNil(t, msg)
			payloads = append(payloads, msg.GetPayload().(string))
		}

		assert.Equal(t, []string{"a", "b", "c"}, payloads)
	})
}

func TestPriorityChannelReceive(t *testing.T) {
	ctx := context.Background()

	t.Run("timeout yields no message and no error", func(t *testing.T) {
		ch := NewPriorityChannel("priority-empty")

		start := time.Now()
		msg, err := ch.Receive(ctx, 50*time.Millisecond)

		assert.NoError(t, err)
		assert.Nil(t, msg)
		assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
	})

	t.Run("non-positive timeout polls without blocking", func(t *testing.T) {
		ch := NewPriorityChannel("priority-poll")

		msg, err := ch.Receive(ctx, 0)

		assert.NoError(t, err)
		assert.Nil(t, msg)
	})

	t.Run("a blocked receive wakes when a message arrives", func(t *testing.T) {
		ch := NewPriorityChannel("priority-wake")

		type result struct {
			msg contracts.Message
			err error
		}
		done := make(chan result, 1)
		go func() {
			msg, err := ch.Receive(ctx, 5*time.Second)
			done <- result{msg: msg, err: err}
		}()

		time.Sleep(20 * time.Millisecond)
		sent, err := ch.Send(ctx, contracts.NewMessage("wake up"))
		require.NoError(t, err)
		require.True(t, sent)

		select {
		case r := <-done:
			require.NoError(t, r.err)
			require.NotNil(t, r.msg)
			assert.Equal(t, "wake up", r.msg.GetPayload())
		case <-time.After(2 * time.Second):
			t.Fatal("receive did not wake after send")
		}
	})

	t.Run("context cancellation interrupts a blocked receive", func(t *testing.T) {
		ch := NewPriorityChannel("priority-cancel")
		cancelCtx, cancel := context.WithCancel(ctx)

		done := make(chan error, 1)
		go func() {
			_, err := ch.Receive(cancelCtx, 5*time.Second)
			done <- err
		}()

		time.Sleep(20 * time.Millisecond)
		cancel()

		select {
		case err := <-done:
			assert.ErrorIs(t, err, context.Canceled)
		case <-time.After(2 * time.Second):
			t.Fatal("receive did not observe cancellation")
		}
	})

	t.Run("bounded buffer rejects sends when full", func(t *testing.T) {
		ch := NewPriorityChannel("priority-bounded", WithPriorityCapacity(1))

		sent, err := ch.Send(ctx, contracts.NewMessage("first"))
		require.NoError(t, err)
		assert.True(t, sent)

		sent, err = ch.Send(ctx, contracts.NewMessage("second"))
		assert.False(t, sent)
		assert.ErrorIs(t, err, contracts.ErrBufferFull)
	})
}

func TestPriorityChannelInterception(t *testing.T) {
	ctx := context.Background()

	t.Run("fires send hooks on send and receive hooks on receive", func(t *testing.T) {
		counting := interceptors.NewLoggingAndCountingInterceptor(nil)

		ch := NewPriorityChannel("priority")
		ch.AddInterceptor(counting)

		sent, err := ch.Send(ctx, contracts.NewMessage("buffered"))
		require.NoError(t, err)
		assert.True(t, sent)

		assert.Equal(t, int64(1), counting.PreSendCount())
		assert.Equal(t, int64(1), counting.PostSendCount())
		assert.Equal(t, int64(1), counting.AfterSendCompletionCount())
		assert.Zero(t, counting.PreReceiveCount())

		msg, err := ch.Receive(ctx, time.Second)
		require.NoError(t, err)
		require.NotNil(t, msg)

		assert.Equal(t, int64(1), counting.PreReceiveCount())
		assert.Equal(t, int64(1), counting.PostReceiveCount())
		assert.Equal(t, int64(1), counting.AfterReceiveCompletionCount())

		assert.Zero(t, counting.BeforeHandleCount())
		assert.Zero(t, counting.AfterMessageHandledCount())
	})

	t.Run("receive hooks fire on timeout too", func(t *testing.T) {
		counting := interceptors.NewLoggingAndCountingInterceptor(nil)

		ch := NewPriorityChannel("priority-empty")
		ch.AddInterceptor(counting)

		msg, err := ch.Receive(ctx, 20*time.Millisecond)

		assert.NoError(t, err)
		assert.Nil(t, msg)
		assert.Equal(t, int64(1), counting.PreReceiveCount())
		assert.Equal(t, int64(1), counting.PostReceiveCount())
		assert.Equal(t, int64(1), counting.AfterReceiveCompletionCount())
	})

	t.Run("PreReceive veto skips the dequeue and PostReceive", func(t *testing.T) {
		counting := interceptors.NewLoggingAndCountingInterceptor(nil)

		ch := NewPriorityChannel("priority-vetoed")
		ch.AddInterceptor(counting)
		ch.AddInterceptor(vetoReceiveInterceptor{})

		_, err := ch.Send(ctx, contracts.NewMessage("buffered"))
		require.NoError(t, err)

		msg, err := ch.Receive(ctx, time.Second)

		assert.NoError(t, err)
		assert.Nil(t, msg)
		assert.Equal(t, 1, ch.Depth())

		assert.Equal(t, int64(1), counting.PreReceiveCount())
		assert.Zero(t, counting.PostReceiveCount())
		assert.Equal(t, int64(1), counting.AfterReceiveCompletionCount())
	})
}
