package vsocket

import (
	"errors"
	"sync"

	"github.com/go-mizu/mizu/iostream"
)

// Socket is a full-duplex, in-process stream formed from two Pipes: reads
// come off one pipe, writes go onto the other. Pairing two Sockets
// crosswise (NewSocketPair) gives two ends of the same virtual connection.
type Socket struct {
	in  *Pipe
	out *Pipe
}

// NewSocketPair returns two Sockets wired so that writes on one are reads on
// the other, in both directions — the virtual equivalent of socketpair(2).
func NewSocketPair(capacity int) (a, b *Socket) {
	p1 := NewPipe(capacity) // a writes, b reads
	p2 := NewPipe(capacity) // b writes, a reads
	a = &Socket{in: p2, out: p1}
	b = &Socket{in: p1, out: p2}
	return a, b
}

func (s *Socket) Read(dst []byte) (iostream.Result, int, *iostream.Suspension) {
	return s.in.Read(dst)
}

func (s *Socket) Write(src []byte) (iostream.Result, int, *iostream.Suspension) {
	return s.out.Write(src)
}

func (s *Socket) Mode() iostream.Mode { return s.in.Mode() }

// SetMode applies the mode to both halves of the socket.
func (s *Socket) SetMode(m iostream.Mode) {
	s.in.SetMode(m)
	s.out.SetMode(m)
}

func (s *Socket) Context() iostream.Context { return iostream.DefaultContext() }

// Close closes both directions. Safe to call from either end; the peer
// observes iostream.Broken on its next Read/Write.
func (s *Socket) Close() error {
	err1 := s.in.Close()
	err2 := s.out.Close()
	if err1 != nil {
		return err1
	}
	return err2
}

var _ iostream.Stream = (*Socket)(nil)

// Interface is a rendezvous point: a Listen side calls Accept to receive
// the other end of a pair created by a Connect call on the same Interface,
// letting tests and in-process fan-out open virtual connections without a
// real network.
type Interface struct {
	mu      sync.Mutex
	pending chan *Socket
	closed  bool
}

// NewInterface creates a virtual listening interface with the given accept
// backlog.
func NewInterface(backlog int) *Interface {
	return &Interface{pending: make(chan *Socket, backlog)}
}

// ErrInterfaceClosed is returned by Accept/Connect after Close.
var ErrInterfaceClosed = errors.New("vsocket: interface closed")

// Connect creates a new virtual connection and hands the listening side's
// end to a pending Accept, returning the caller's own end.
func (i *Interface) Connect(pipeCapacity int) (*Socket, error) {
	i.mu.Lock()
	if i.closed {
		i.mu.Unlock()
		return nil, ErrInterfaceClosed
	}
	i.mu.Unlock()

	client, server := NewSocketPair(pipeCapacity)
	select {
	case i.pending <- server:
		return client, nil
	default:
		return nil, errors.New("vsocket: accept backlog full")
	}
}

// Accept blocks until a Connect call delivers a new virtual connection.
func (i *Interface) Accept() (*Socket, error) {
	s, ok := <-i.pending
	if !ok {
		return nil, ErrInterfaceClosed
	}
	return s, nil
}

// Close stops accepting new connections; pending Accept calls return
// ErrInterfaceClosed.
func (i *Interface) Close() error {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.closed {
		return nil
	}
	i.closed = true
	close(i.pending)
	return nil
}
