// Package contracts defines the message envelope shared by every channel
// implementation.
//
// A Message is an immutable envelope around an arbitrary payload, identified
// by a generated UUID and optionally carrying a priority key used by
// priority-ordered channels. Callers either embed BaseMessage in their own
// message types or use GenericMessage when no domain type exists:
//
//	msg := contracts.NewMessage("hello")
//	urgent := contracts.NewPriorityMessage("drop everything", 9)
//
// The package also holds the error values shared across channel variants so
// callers can test failures with errors.Is without importing a specific
// channel implementation.
package contracts
