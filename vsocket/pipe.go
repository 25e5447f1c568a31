package vsocket

import (
	"github.com/go-mizu/mizu/iostream"
)

// DefaultPipeCapacity matches oatpp's default IOBuffer size used for pipes.
const DefaultPipeCapacity = 4096

// Pipe is a single-producer/single-consumer byte channel: one side writes,
// the other reads, in write order. Blocking mode parks the caller on the
// pipe's condition variables; non-blocking mode returns iostream.Retry with
// a Suspension the caller can wait on externally (e.g. a reactor).
type Pipe struct {
	c    *cond
	mode iostream.Mode
}

// NewPipe allocates a pipe with the given ring capacity.
func NewPipe(capacity int) *Pipe {
	return &Pipe{c: newCond(capacity)}
}

// Mode returns the pipe's current blocking mode.
func (p *Pipe) Mode() iostream.Mode { return p.mode }

// SetMode switches between blocking and non-blocking behavior.
func (p *Pipe) SetMode(m iostream.Mode) { p.mode = m }

// Context reports indefinite framing; pipes carry no length/chunk info of
// their own — the HTTP layer overlays that.
func (p *Pipe) Context() iostream.Context { return iostream.DefaultContext() }

// Close marks the pipe closed and wakes any blocked reader/writer; they
// observe iostream.Broken on their next call.
func (p *Pipe) Close() error {
	p.c.mu.Lock()
	defer p.c.mu.Unlock()
	if p.c.closed {
		return nil
	}
	p.c.closed = true
	p.c.notEmpty.Broadcast()
	p.c.notFull.Broadcast()
	return nil
}

// Read transfers buffered bytes into dst. In blocking mode it parks until
// data is available or the pipe closes; in non-blocking mode it returns
// iostream.Retry with a readable Suspension when the ring is empty.
func (p *Pipe) Read(dst []byte) (iostream.Result, int, *iostream.Suspension) {
	p.c.mu.Lock()
	defer p.c.mu.Unlock()

	for p.c.fifo.AvailableToRead() == 0 && !p.c.closed {
		if p.mode == iostream.NonBlocking {
			return iostream.Retry, 0, &iostream.Suspension{Handle: p, Direction: iostream.Readable}
		}
		p.c.notEmpty.Wait()
	}

	n := p.c.fifo.Read(dst)
	if n > 0 {
		p.c.notFull.Broadcast()
		return iostream.Transferred, n, nil
	}
	if p.c.closed {
		return iostream.Broken, 0, nil
	}
	return iostream.EOF, 0, nil
}

// Write copies src into the ring. In blocking mode it parks while the ring
// is full; in non-blocking mode it returns iostream.Retry with a writable
// Suspension. A write to a closed pipe returns iostream.Broken.
func (p *Pipe) Write(src []byte) (iostream.Result, int, *iostream.Suspension) {
	p.c.mu.Lock()
	defer p.c.mu.Unlock()

	if p.c.closed {
		return iostream.Broken, 0, nil
	}

	for p.c.fifo.AvailableToWrite() == 0 && !p.c.closed {
		if p.mode == iostream.NonBlocking {
			return iostream.Retry, 0, &iostream.Suspension{Handle: p, Direction: iostream.Writable}
		}
		p.c.notFull.Wait()
	}

	if p.c.closed {
		return iostream.Broken, 0, nil
	}

	n := p.c.fifo.Write(src)
	if n > 0 {
		p.c.notEmpty.Broadcast()
	}
	return iostream.Transferred, n, nil
}

var _ iostream.Stream = (*Pipe)(nil)
