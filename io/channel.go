// Package io provides the word channels an IntCode machine reads and writes
// through: decimal text tapes, in-memory queues, and program text files.
package io

// Channel defines the interface for all word channels.
type Channel interface {
	// Rewind resets the channel to its initial state.
	Rewind()
	// Receive returns the next word, or io.EOF when the channel is empty.
	Receive() (value int64, err error)
	// Send writes a single word to the channel.
	Send(value int64) error
}
