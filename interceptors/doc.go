// Package interceptors provides the channel interceptor contract and a set
// of built-in interceptors.
//
// A ChannelInterceptor observes and optionally vetoes the lifecycle of
// messages moving through a channel. The contract exposes eight hook
// points, grouped around the three channel operations:
//   - Send: PreSend, PostSend, AfterSendCompletion
//   - Handle: BeforeHandle, AfterMessageHandled
//   - Receive: PreReceive, PostReceive, AfterReceiveCompletion
//
// Which hooks actually fire depends on the dispatch discipline of the
// channel the interceptor is registered on, not on the interceptor itself.
// Send hooks fire on every channel. Handle hooks fire only when the channel
// dispatches handlers on a worker pool it manages. Receive hooks fire only
// on pollable channels where a consumer explicitly dequeues.
//
// Built-in interceptors:
//   - LoggingAndCountingInterceptor: logs hooks and keeps atomic per-hook
//     counters, useful to verify which hooks a channel fires
//   - LoggingInterceptor: logs message lifecycle with timing information
//   - FilteringInterceptor: vetoes sends via a message predicate
//
// Custom interceptors embed BaseInterceptor and override only the hooks
// they need:
//
//	type auditInterceptor struct {
//		interceptors.BaseInterceptor
//	}
//
//	func (auditInterceptor) PostSend(ctx context.Context, msg contracts.Message, ch interceptors.Channel, sent bool) {
//		// record the outcome
//	}
package interceptors
