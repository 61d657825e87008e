// Package channels provides in-process message channels with distinct
// dispatch disciplines behind a common interceptable surface.
//
// Five variants are available, chosen at construction time:
//   - DirectChannel: synchronous single-subscriber dispatch in the
//     sender's goroutine, rotating round-robin over subscribers
//   - ExecutorChannel: dispatch on a bounded worker pool, decoupled from
//     the sender
//   - PublishSubscribeChannel: synchronous broadcast to every subscriber
//   - ReactiveChannel: pull-based delivery governed by subscriber demand
//   - PriorityChannel: priority-ordered buffer drained by explicit,
//     optionally blocking Receive calls
//
// Every channel accepts interceptors, but the hooks that fire follow the
// channel's dispatch discipline. Send hooks fire everywhere. Handle hooks
// fire only on the executor channel, the one variant that invokes handlers
// on a pool it schedules itself. Receive hooks fire only on the priority
// channel, the one variant with an explicit receive operation.
//
// Example:
//
//	ch, _ := channels.NewExecutorChannel("orders", channels.WithExecutorWorkers(8))
//	ch.AddInterceptor(interceptors.NewLoggingInterceptor(logger))
//	_ = ch.Subscribe(channels.MessageHandlerFunc(func(ctx context.Context, msg contracts.Message) error {
//		process(msg.GetPayload())
//		return nil
//	}))
//	_ = ch.Start(ctx)
//	sent, err := ch.Send(ctx, contracts.NewMessage(order))
package channels
