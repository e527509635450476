package io

import (
	"io"
)

// Temporary is an in-memory FIFO of words. A zero Capacity is unbounded.
type Temporary struct {
	Capacity int

	ReadIndex int
	Data      []int64
}

var _ Channel = (*Temporary)(nil)

// Rewind empties the queue.
func (temp *Temporary) Rewind() {
	temp.ReadIndex = 0
	temp.Data = temp.Data[:0]
}

// Size returns the number of words waiting to be received.
func (temp *Temporary) Size() int {
	return len(temp.Data) - temp.ReadIndex
}

// Receive pops the oldest word, or returns io.EOF when empty.
func (temp *Temporary) Receive() (value int64, err error) {
	if temp.Size() == 0 {
		err = io.EOF
		return
	}

	value = temp.Data[temp.ReadIndex]
	temp.ReadIndex++

	return
}

// Send appends a word. Returns ErrChannelFull if the queue has reached
// capacity.
func (temp *Temporary) Send(value int64) (err error) {
	if temp.Capacity > 0 && temp.Size() >= temp.Capacity {
		err = ErrChannelFull
		return
	}

	if temp.ReadIndex > 0 && temp.ReadIndex == len(temp.Data) {
		temp.ReadIndex = 0
		temp.Data = temp.Data[:0]
	}

	temp.Data = append(temp.Data, value)

	return
}
