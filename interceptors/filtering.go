package interceptors

import (
	"context"
	"log/slog"

	"github.com/chankit/chankit-go/contracts"
)

// MessageFilter defines the interface for message filtering
type MessageFilter interface {
	// ShouldSend returns true if the message should enter the channel
	ShouldSend(ctx context.Context, msg contracts.Message) bool
}

// MessageFilterFunc is a function adapter for MessageFilter
type MessageFilterFunc func(ctx context.Context, msg contracts.Message) bool

// ShouldSend implements MessageFilter
func (f MessageFilterFunc) ShouldSend(ctx context.Context, msg contracts.Message) bool {
	return f(ctx, msg)
}

// FilteringInterceptor vetoes sends whose message fails a predicate. A
// filtered message is not an error: the send reports an unsuccessful
// outcome and no delivery happens.
type FilteringInterceptor struct {
	BaseInterceptor
	filter MessageFilter
	logger *slog.Logger
}

// NewFilteringInterceptor creates a new filtering interceptor
func NewFilteringInterceptor(filter MessageFilter, logger *slog.Logger) *FilteringInterceptor {
	if logger == nil {
		logger = slog.Default()
	}

	return &FilteringInterceptor{filter: filter, logger: logger}
}

// PreSend implements ChannelInterceptor
func (i *FilteringInterceptor) PreSend(ctx context.Context, msg contracts.Message, ch Channel) contracts.Message {
	if !i.filter.ShouldSend(ctx, msg) {
		i.logger.Debug("message filtered",
			"channel", ch.Name(),
			"messageId", msg.GetID(),
			"messageType", msg.GetType(),
		)
		return nil
	}

	return msg
}
