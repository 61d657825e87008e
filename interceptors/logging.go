package interceptors

import (
	"context"
	"log/slog"
	"time"

	"github.com/chankit/chankit-go/contracts"
)

// LoggingInterceptor logs message lifecycle events with timing information
type LoggingInterceptor struct {
	BaseInterceptor
	logger *slog.Logger
}

// NewLoggingInterceptor creates a new logging interceptor
func NewLoggingInterceptor(logger *slog.Logger) *LoggingInterceptor {
	if logger == nil {
		logger = slog.Default()
	}

	return &LoggingInterceptor{logger: logger}
}

// PreSend implements ChannelInterceptor
func (i *LoggingInterceptor) PreSend(ctx context.Context, msg contracts.Message, ch Channel) contracts.Message {
	i.logger.Info("sending message",
		"channel", ch.Name(),
		"messageId", msg.GetID(),
		"messageType", msg.GetType(),
	)
	return msg
}

// AfterSendCompletion implements ChannelInterceptor
func (i *LoggingInterceptor) AfterSendCompletion(ctx context.Context, msg contracts.Message, ch Channel, sent bool, err error) {
	if err != nil {
		i.logger.Error("send failed",
			"channel", ch.Name(),
			"messageId", msg.GetID(),
			"error", err,
		)
		return
	}

	i.logger.Info("send completed",
		"channel", ch.Name(),
		"messageId", msg.GetID(),
		"sent", sent,
	)
}

// BeforeHandle implements ChannelInterceptor
func (i *LoggingInterceptor) BeforeHandle(ctx context.Context, msg contracts.Message, ch Channel, handler MessageHandler) contracts.Message {
	i.logger.Info("handling message",
		"channel", ch.Name(),
		"messageId", msg.GetID(),
	)
	return msg
}

// AfterMessageHandled implements ChannelInterceptor
func (i *LoggingInterceptor) AfterMessageHandled(ctx context.Context, msg contracts.Message, ch Channel, handler MessageHandler, err error) {
	if err != nil {
		i.logger.Error("message handling failed",
			"channel", ch.Name(),
			"messageId", msg.GetID(),
			"error", err,
		)
		return
	}

	i.logger.Info("message handled",
		"channel", ch.Name(),
		"messageId", msg.GetID(),
	)
}

// AfterReceiveCompletion implements ChannelInterceptor
func (i *LoggingInterceptor) AfterReceiveCompletion(ctx context.Context, msg contracts.Message, ch Channel, err error) {
	switch {
	case err != nil:
		i.logger.Error("receive failed", "channel", ch.Name(), "error", err)
	case msg == nil:
		i.logger.Info("receive yielded no message", "channel", ch.Name())
	default:
		i.logger.Info("received message",
			"channel", ch.Name(),
			"messageId", msg.GetID(),
			"age", time.Since(msg.GetTimestamp()),
		)
	}
}
