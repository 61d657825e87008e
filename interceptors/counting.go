package interceptors

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/chankit/chankit-go/contracts"
)

// LoggingAndCountingInterceptor logs every hook invocation and keeps one
// monotonic counter per hook. Counters are incremented atomically, so the
// interceptor is safe to register on pool-backed channels where hooks fire
// concurrently from multiple worker goroutines. It is primarily a
// verification aid: after traffic has flowed, the counters expose exactly
// which hooks the channel's dispatch discipline fired.
type LoggingAndCountingInterceptor struct {
	logger *slog.Logger

	preSend                atomic.Int64
	postSend               atomic.Int64
	afterSendCompletion    atomic.Int64
	beforeHandle           atomic.Int64
	afterMessageHandled    atomic.Int64
	preReceive             atomic.Int64
	postReceive            atomic.Int64
	afterReceiveCompletion atomic.Int64
}

// NewLoggingAndCountingInterceptor creates a new logging and counting interceptor
func NewLoggingAndCountingInterceptor(logger *slog.Logger) *LoggingAndCountingInterceptor {
	if logger == nil {
		logger = slog.Default()
	}

	return &LoggingAndCountingInterceptor{logger: logger}
}

// PreSend implements ChannelInterceptor
func (i *LoggingAndCountingInterceptor) PreSend(ctx context.Context, msg contracts.Message, ch Channel) contracts.Message {
	i.preSend.Add(1)
	i.logger.Debug("preSend", "channel", ch.Name(), "messageId", msg.GetID())
	return msg
}

// PostSend implements ChannelInterceptor
func (i *LoggingAndCountingInterceptor) PostSend(ctx context.Context, msg contracts.Message, ch Channel, sent bool) {
	i.postSend.Add(1)
	i.logger.Debug("postSend", "channel", ch.Name(), "messageId", msg.GetID(), "sent", sent)
}

// AfterSendCompletion implements ChannelInterceptor
func (i *LoggingAndCountingInterceptor) AfterSendCompletion(ctx context.Context, msg contracts.Message, ch Channel, sent bool, err error) {
	i.afterSendCompletion.Add(1)
	i.logger.Debug("afterSendCompletion", "channel", ch.Name(), "messageId", msg.GetID(), "sent", sent, "error", err)
}

// BeforeHandle implements ChannelInterceptor
func (i *LoggingAndCountingInterceptor) BeforeHandle(ctx context.Context, msg contracts.Message, ch Channel, handler MessageHandler) contracts.Message {
	i.beforeHandle.Add(1)
	i.logger.Debug("beforeHandle", "channel", ch.Name(), "messageId", msg.GetID())
	return msg
}

// AfterMessageHandled implements ChannelInterceptor
func (i *LoggingAndCountingInterceptor) AfterMessageHandled(ctx context.Context, msg contracts.Message, ch Channel, handler MessageHandler, err error) {
	i.afterMessageHandled.Add(1)
	i.logger.Debug("afterMessageHandled", "channel", ch.Name(), "messageId", msg.GetID(), "error", err)
}

// PreReceive implements ChannelInterceptor
func (i *LoggingAndCountingInterceptor) PreReceive(ctx context.Context, ch Channel) bool {
	i.preReceive.Add(1)
	i.logger.Debug("preReceive", "channel", ch.Name())
	return true
}

// PostReceive implements ChannelInterceptor
func (i *LoggingAndCountingInterceptor) PostReceive(ctx context.Context, msg contracts.Message, ch Channel) contracts.Message {
	i.postReceive.Add(1)
	messageID := ""
	if msg != nil {
		messageID = msg.GetID()
	}
	i.logger.Debug("postReceive", "channel", ch.Name(), "messageId", messageID)
	return msg
}

// AfterReceiveCompletion implements ChannelInterceptor
func (i *LoggingAndCountingInterceptor) AfterReceiveCompletion(ctx context.Context, msg contracts.Message, ch Channel, err error) {
	i.afterReceiveCompletion.Add(1)
	messageID := ""
	if msg != nil {
		messageID = msg.GetID()
	}
	i.logger.Debug("afterReceiveCompletion", "channel", ch.Name(), "messageId", messageID, "error", err)
}

// PreSendCount returns the number of PreSend invocations
func (i *LoggingAndCountingInterceptor) PreSendCount() int64 {
	return i.preSend.Load()
}

// PostSendCount returns the number of PostSend invocations
func (i *LoggingAndCountingInterceptor) PostSendCount() int64 {
	return i.postSend.Load()
}

// AfterSendCompletionCount returns the number of AfterSendCompletion invocations
func (i *LoggingAndCountingInterceptor) AfterSendCompletionCount() int64 {
	return i.afterSendCompletion.Load()
}

// BeforeHandleCount returns the number of BeforeHandle invocations
func (i *LoggingAndCountingInterceptor) BeforeHandleCount() int64 {
	return i.beforeHandle.Load()
}

// AfterMessageHandledCount returns the number of AfterMessageHandled invocations
func (i *LoggingAndCountingInterceptor) AfterMessageHandledCount() int64 {
	return i.afterMessageHandled.Load()
}

// PreReceiveCount returns the number of PreReceive invocations
func (i *LoggingAndCountingInterceptor) PreReceiveCount() int64 {
	return i.preReceive.Load()
}

// PostReceiveCount returns the number of PostReceive invocations
func (i *LoggingAndCountingInterceptor) PostReceiveCount() int64 {
	return i.postReceive.Load()
}

// AfterReceiveCompletionCount returns the number of AfterReceiveCompletion invocations
func (i *LoggingAndCountingInterceptor) AfterReceiveCompletionCount() int64 {
	return i.afterReceiveCompletion.Load()
}
