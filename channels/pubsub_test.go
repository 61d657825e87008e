package channels

import (
	"context"
	"errors"
	"testing"

	"github.com/chankit/chankit-go/contracts"
	"github.com/chankit/chankit-go/interceptors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishSubscribeChannelSend(t *testing.T) {
	ctx := context.Background()

	t.Run("broadcasts one send to every subscriber", func(t *testing.T) {
		ch := NewPublishSubscribeChannel("pubsub")

		subscribers := make([]*recordingHandler, 3)
		for i := range subscribers {
			subscribers[i] = &recordingHandler{}
			require.NoError(t, ch.Subscribe(subscribers[i]))
		}
		assert.Equal(t, 3, ch.SubscriberCount())

		msg := contracts.NewMessage("broadcast")
		sent, err := ch.Send(ctx, msg)

		require.NoError(t, err)
		assert.True(t, sent)
		for _, sub := range subscribers {
			require.Equal(t, 1, sub.count())
			assert.Equal(t, msg.GetID(), sub.received()[0].GetID())
		}
	})

	t.Run("send with zero subscribers succeeds", func(t *testing.T) {
		ch := NewPublishSubscribeChannel("pubsub-empty")

		sent, err := ch.Send(ctx, contracts.NewMessage("broadcast"))

		require.NoError(t, err)
		assert.True(t, sent)
	})

	t.Run("a failing subscriber does not stop delivery to the rest", func(t *testing.T) {
		subscriberErr := errors.New("subscriber exploded")
		before := &recordingHandler{}
		after := &recordingHandler{}

		ch := NewPublishSubscribeChannel("pubsub-partial")
		require.NoError(t, ch.Subscribe(before))
		require.NoError(t, ch.Subscribe(&failingHandler{err: subscriberErr}))
		require.NoError(t, ch.Subscribe(after))

		sent, err := ch.Send(ctx, contracts.NewMessage("broadcast"))

		assert.False(t, sent)
		assert.ErrorIs(t, err, subscriberErr)
		assert.Contains(t, err.Error(), "partial delivery")
		assert.Equal(t, 1, before.count())
		assert.Equal(t, 1, after.count())
	})

	t.Run("reports the first failure when several subscribers fail", func(t *testing.T) {
		firstErr := errors.New("first failure")
		secondErr := errors.New("second failure")

		ch := NewPublishSubscribeChannel("pubsub-multi-fail")
		require.NoError(t, ch.Subscribe(&failingHandler{err: firstErr}))
		require.NoError(t, ch.Subscribe(&failingHandler{err: secondErr}))

		sent, err := ch.Send(ctx, contracts.NewMessage("broadcast"))

		assert.False(t, sent)
		assert.ErrorIs(t, err, firstErr)
		assert.NotErrorIs(t, err, secondErr)
	})
}

func TestPublishSubscribeChannelInterception(t *testing.T) {
	t.Run("send hooks fire once per send, not once per subscriber", func(t *testing.T) {
		counting := interceptors.NewLoggingAndCountingInterceptor(nil)

		ch := NewPublishSubscribeChannel("pubsub")
		ch.AddInterceptor(counting)
		for i := 0; i < 4; i++ {
			require.NoError(t, ch.Subscribe(&recordingHandler{}))
		}

		sent, err := ch.Send(context.Background(), contracts.NewMessage("broadcast"))

		require.NoError(t, err)
		assert.True(t, sent)

		assert.Equal(t, int64(1), counting.PreSendCount())
		assert.Equal(t, int64(1), counting.PostSendCount())
		assert.Equal(t, int64(1), counting.AfterSendCompletionCount())

		assert.Zero(t, counting.BeforeHandleCount())
		assert.Zero(t, counting.AfterMessageHandledCount())
		assert.Zero(t, counting.PreReceiveCount())
		assert.Zero(t, counting.PostReceiveCount())
		assert.Zero(t, counting.AfterReceiveCompletionCount())
	})

	t.Run("partial failure completes the bracket with the error", func(t *testing.T) {
		outcome := &outcomeInterceptor{}

		ch := NewPublishSubscribeChannel("pubsub-partial")
		ch.AddInterceptor(outcome)
		require.NoError(t, ch.Subscribe(&failingHandler{err: errors.New("boom")}))

		sent, err := ch.Send(context.Background(), contracts.NewMessage("broadcast"))

		assert.False(t, sent)
		assert.Error(t, err)
		assert.Empty(t, outcome.postSendSent)
		assert.Equal(t, []bool{false}, outcome.completionSent)
		require.Len(t, outcome.completionErrs, 1)
		assert.Error(t, outcome.completionErrs[0])
	})
}
