// Package pool provides the bounded worker pool backing pool-dispatched
// channels. A fixed set of worker goroutines drains a buffered task queue;
// Submit blocks only while the queue is full, and Stop drains outstanding
// tasks so every accepted task runs exactly once.
package pool
