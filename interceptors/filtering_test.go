package interceptors

import (
	"context"
	"testing"

	"github.com/chankit/chankit-go/contracts"
	"github.com/stretchr/testify/assert"
)

func TestFilteringInterceptor(t *testing.T) {
	ch := namedChannel{name: "filtered-channel"}
	ctx := context.Background()

	t.Run("PreSend passes messages matching the filter", func(t *testing.T) {
		filter := MessageFilterFunc(func(ctx context.Context, msg contracts.Message) bool {
			return msg.GetPriority() > 0
		})
		interceptor := NewFilteringInterceptor(filter, nil)
		msg := contracts.NewPriorityMessage("urgent", 5)

		result := interceptor.PreSend(ctx, msg, ch)

		assert.Equal(t, contracts.Message(msg), result)
	})

	t.Run("PreSend vetoes messages failing the filter", func(t *testing.T) {
		filter := MessageFilterFunc(func(ctx context.Context, msg contracts.Message) bool {
			return false
		})
		interceptor := NewFilteringInterceptor(filter, nil)

		result := interceptor.PreSend(ctx, contracts.NewMessage("payload"), ch)

		assert.Nil(t, result)
	})

	t.Run("other hooks stay no-ops", func(t *testing.T) {
		filter := MessageFilterFunc(func(ctx context.Context, msg contracts.Message) bool {
			return false
		})
		interceptor := NewFilteringInterceptor(filter, nil)

		assert.True(t, interceptor.PreReceive(ctx, ch))
	})
}
