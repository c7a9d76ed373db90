package session

import (
	"fmt"
	"sync"

	"github.com/cory-johannsen/xanadu/internal/game/message"
)

// DefaultOutboxSize is the buffer used when a non-positive size is requested.
const DefaultOutboxSize = 64

// Outbox queues rendered-later output messages for one connection, bridging
// the hub goroutine to the transport writer.
type Outbox struct {
	id     string
	msgs   chan message.Message
	mu     sync.Mutex
	closed bool
}

// NewOutbox creates an Outbox for the given player id.
//
// Precondition: id must be non-empty.
// Postcondition: Returns an Outbox with an open message channel.
func NewOutbox(id string, bufferSize int) *Outbox {
	if bufferSize <= 0 {
		bufferSize = DefaultOutboxSize
	}
	return &Outbox{
		id:   id,
		msgs: make(chan message.Message, bufferSize),
	}
}

// Push enqueues msg without blocking.
//
// Postcondition: msg is enqueued, or an error is returned if the outbox is closed or full.
func (o *Outbox) Push(msg message.Message) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.closed {
		return fmt.Errorf("outbox %s is closed", o.id)
	}
	select {
	case o.msgs <- msg:
		return nil
	default:
		return fmt.Errorf("outbox %s buffer full", o.id)
	}
}

// Messages returns the read-only message channel. It is closed by Close.
func (o *Outbox) Messages() <-chan message.Message {
	return o.msgs
}

// Close marks the outbox closed and closes the message channel.
//
// Postcondition: The channel is closed. Further Push calls return an error.
func (o *Outbox) Close() {
	o.mu.Lock()
	defer o.mu.Unlock()

	if !o.closed {
		o.closed = true
		close(o.msgs)
	}
}
