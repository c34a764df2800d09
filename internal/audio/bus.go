package audio

import (
	"errors"
	"sync"
)

var (
	// ErrBusFull reports transient backpressure: the command queue had no
	// room and the command was dropped.
	ErrBusFull = errors.New("audio: command queue full")
	// ErrBusClosed reports that the bus has been shut down; no further
	// commands will be delivered.
	ErrBusClosed = errors.New("audio: bus closed")
)

// Bus is the engine-facing command sink. Send never blocks.
type Bus interface {
	Send(Command) error
}

// ChannelBus is a Bus backed by a buffered channel. The engine goroutine
// sends; the player goroutine receives. Submission order is preserved.
type ChannelBus struct {
	mu     sync.Mutex
	ch     chan Command
	closed bool
}

// NewChannelBus returns a bus with the given queue capacity.
func NewChannelBus(capacity int) *ChannelBus {
	return &ChannelBus{ch: make(chan Command, capacity)}
}

// Send enqueues a command without blocking. It returns ErrBusFull when the
// queue is saturated and ErrBusClosed after Close.
func (b *ChannelBus) Send(cmd Command) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return ErrBusClosed
	}
	select {
	case b.ch <- cmd:
		return nil
	default:
		return ErrBusFull
	}
}

// Commands exposes the receive side for the player goroutine. The channel is
// closed by Close, which ends the player's consume loop.
func (b *ChannelBus) Commands() <-chan Command {
	return b.ch
}

// Close shuts the bus down. Subsequent sends fail with ErrBusClosed.
func (b *ChannelBus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true
	close(b.ch)
}
