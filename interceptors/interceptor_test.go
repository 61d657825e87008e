package interceptors

import (
	"context"
	"errors"
	"testing"

	"github.com/chankit/chankit-go/contracts"
	"github.com/stretchr/testify/assert"
)

type namedChannel struct {
	name string
}

func (c namedChannel) Name() string {
	return c.name
}

func TestBaseInterceptor(t *testing.T) {
	base := BaseInterceptor{}
	ch := namedChannel{name: "test-channel"}
	msg := contracts.NewMessage("payload")
	ctx := context.Background()

	t.Run("PreSend passes the message through", func(t *testing.T) {
		result := base.PreSend(ctx, msg, ch)

		assert.Equal(t, contracts.Message(msg), result)
	})

	t.Run("BeforeHandle passes the message through", func(t *testing.T) {
		handler := MessageHandlerFunc(func(ctx context.Context, msg contracts.Message) error {
			return nil
		})

		result := base.BeforeHandle(ctx, msg, ch, handler)

		assert.Equal(t, contracts.Message(msg), result)
	})

	t.Run("PreReceive allows the receive", func(t *testing.T) {
		assert.True(t, base.PreReceive(ctx, ch))
	})

	t.Run("PostReceive passes the message through", func(t *testing.T) {
		result := base.PostReceive(ctx, msg, ch)

		assert.Equal(t, contracts.Message(msg), result)
	})

	t.Run("after hooks are no-ops", func(t *testing.T) {
		assert.NotPanics(t, func() {
			base.PostSend(ctx, msg, ch, true)
			base.AfterSendCompletion(ctx, msg, ch, false, errors.New("boom"))
			base.AfterMessageHandled(ctx, msg, ch, nil, nil)
			base.AfterReceiveCompletion(ctx, nil, ch, nil)
		})
	})
}

func TestMessageHandlerFunc(t *testing.T) {
	t.Run("Handle invokes the wrapped function", func(t *testing.T) {
		called := false
		handler := MessageHandlerFunc(func(ctx context.Context, msg contracts.Message) error {
			called = true
			return nil
		})

		err := handler.Handle(context.Background(), contracts.NewMessage("payload"))

		assert.NoError(t, err)
		assert.True(t, called)
	})

	t.Run("Handle propagates the function error", func(t *testing.T) {
		wantErr := errors.New("handler failed")
		handler := MessageHandlerFunc(func(ctx context.Context, msg contracts.Message) error {
			return wantErr
		})

		err := handler.Handle(context.Background(), contracts.NewMessage("payload"))

		assert.ErrorIs(t, err, wantErr)
	})
}
