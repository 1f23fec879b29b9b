package pipe

import (
	"errors"
	"iter"
	"sync"

	"github.com/livelist/livelist/internal/bitutil"
)

var ErrInvalidSize = errors.New("pipe size must be a power of two")

type Rx[T any] interface {
	Recv(*T) bool
	Seq() iter.Seq[T]
}

type Tx[T any] interface {
	Send(T) bool
	Close() error
}

// Pipe is a bounded FIFO shared by any number of senders and receivers.
// Send blocks while the pipe is full; Recv blocks while it is empty. Once
// closed, Send fails and Recv drains what is left.
type Pipe[T any] struct {
	data      []T
	head      uint
	tail      uint
	done      bool
	mu        sync.Mutex
	condFull  *sync.Cond
	condEmpty *sync.Cond
}

var (
	_ Rx[struct{}] = (*Pipe[struct{}])(nil)
	_ Tx[struct{}] = (*Pipe[struct{}])(nil)
)

// New is a function that instantiates a new Pipe with a size of n.
// The value of n must be a valid power of two. Any other value will
// result in an error.
func New[T any](n int) (*Pipe[T], error) {
	if !bitutil.PowerOfTwo(n) {
		return nil, ErrInvalidSize
	}
	var p Pipe[T]
	p.data = make([]T, n)
	p.condFull = sync.NewCond(&p.mu)
	p.condEmpty = sync.NewCond(&p.mu)
	return &p, nil
}

// Must is a function that returns a new instance of a Pipe, or panics
// if an error is encountered.
func Must[T any](n int) *Pipe[T] {
	p, err := New[T](n)
	if err != nil {
		panic(err)
	}
	return p
}

func (p *Pipe[T]) empty() bool {
	return p.head == p.tail
}

func (p *Pipe[T]) full() bool {
	return (p.head - p.tail) == uint(len(p.data))
}

func (p *Pipe[T]) mask(value uint) uint {
	return value & (uint(len(p.data)) - 1)
}

// Len returns the number of buffered items.
func (p *Pipe[T]) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	return int(p.head - p.tail)
}

// Seq yields received items until the pipe is closed and drained, or the
// consumer stops early, in which case the pipe is closed.
func (p *Pipe[T]) Seq() iter.Seq[T] {
	return func(yield func(T) bool) {
		defer p.Close()

		for {
			var msg T
			if !p.Recv(&msg) {
				return
			}
			if !yield(msg) {
				return
			}
		}
	}
}

func (p *Pipe[T]) Send(item T) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	for p.full() && !p.done {
		p.condFull.Wait()
	}

	if p.done {
		return false
	}

	p.data[p.mask(p.head)] = item
	p.head++

	p.condEmpty.Signal()
	return true
}

func (p *Pipe[T]) Recv(t *T) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	for p.empty() && !p.done {
		p.condEmpty.Wait()
	}

	if p.empty() {
		return false
	}

	var zero T
	idx := p.mask(p.tail)
	*t = p.data[idx]
	p.data[idx] = zero
	p.tail++

	p.condFull.Signal()
	return true
}

// Close is idempotent and always returns nil.
func (p *Pipe[T]) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.done = true

	p.condEmpty.Broadcast()
	p.condFull.Broadcast()
	return nil
}
