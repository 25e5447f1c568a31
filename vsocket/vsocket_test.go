package vsocket

import (
	"sync"
	"testing"

	"github.com/go-mizu/mizu/iostream"
)

func TestFIFOReadWrite(t *testing.T) {
	f := NewFIFO(4)
	if n := f.Write([]byte("ab")); n != 2 {
		t.Fatalf("want 2, got %d", n)
	}
	if got := f.AvailableToRead(); got != 2 {
		t.Fatalf("want 2 available, got %d", got)
	}
	buf := make([]byte, 4)
	if n := f.Read(buf); n != 2 || string(buf[:2]) != "ab" {
		t.Fatalf("unexpected read: %d %q", n, buf[:n])
	}
	if f.AvailableToRead() != 0 || f.AvailableToWrite() != 4 {
		t.Fatalf("expected empty ring: avail read=%d write=%d", f.AvailableToRead(), f.AvailableToWrite())
	}
}

func TestFIFOWraparound(t *testing.T) {
	f := NewFIFO(4)
	f.Write([]byte("ab"))
	buf := make([]byte, 4)
	f.Read(buf[:1]) // consume 'a', readPos=1
	f.Write([]byte("cd"))
	// buffer: b(pos1) c(pos2,wrote at writePos=2->actually check wraparound)
	n := f.Read(buf)
	if n != 3 {
		t.Fatalf("want 3 remaining bytes, got %d: %q", n, buf[:n])
	}
	if string(buf[:n]) != "bcd" {
		t.Fatalf("want bcd, got %q", buf[:n])
	}
}

// TestPipeFIFOOrdering is scenario 6 from spec.md section 8: writer writes 7
// bytes then closes; blocking reader does two 4-byte reads then sees Broken.
func TestPipeFIFOOrdering(t *testing.T) {
	p := NewPipe(16)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		res, n, _ := p.Write([]byte("abcdefg"))
		if res != iostream.Transferred || n != 7 {
			t.Errorf("write: res=%v n=%d", res, n)
		}
		p.Close()
	}()

	buf := make([]byte, 4)

	res, n, _ := p.Read(buf)
	for res != iostream.Transferred && res != iostream.Broken {
		res, n, _ = p.Read(buf)
	}
	if res != iostream.Transferred || n != 4 || string(buf[:4]) != "abcd" {
		t.Fatalf("first read: res=%v n=%d buf=%q", res, n, buf[:n])
	}

	res, n, _ = p.Read(buf)
	if res != iostream.Transferred || n != 3 || string(buf[:3]) != "efg" {
		t.Fatalf("second read: res=%v n=%d buf=%q", res, n, buf[:n])
	}

	res, _, _ = p.Read(buf)
	if res != iostream.Broken {
		t.Fatalf("third read: want Broken, got %v", res)
	}

	wg.Wait()
}

func TestPipeNonBlockingRetry(t *testing.T) {
	p := NewPipe(16)
	p.SetMode(iostream.NonBlocking)

	buf := make([]byte, 4)
	res, _, susp := p.Read(buf)
	if res != iostream.Retry {
		t.Fatalf("want Retry, got %v", res)
	}
	if susp == nil || susp.Direction != iostream.Readable {
		t.Fatalf("expected readable suspension, got %+v", susp)
	}
}

func TestSocketPairFullDuplex(t *testing.T) {
	a, b := NewSocketPair(16)

	if res, n, _ := a.Write([]byte("hello")); res != iostream.Transferred || n != 5 {
		t.Fatalf("a write: %v %d", res, n)
	}
	buf := make([]byte, 5)
	if res, n, _ := b.Read(buf); res != iostream.Transferred || n != 5 || string(buf) != "hello" {
		t.Fatalf("b read: %v %d %q", res, n, buf)
	}

	if res, n, _ := b.Write([]byte("world")); res != iostream.Transferred || n != 5 {
		t.Fatalf("b write: %v %d", res, n)
	}
	if res, n, _ := a.Read(buf); res != iostream.Transferred || n != 5 || string(buf) != "world" {
		t.Fatalf("a read: %v %d %q", res, n, buf)
	}

	a.Close()
	if res, _, _ := b.Read(buf); res != iostream.Broken {
		t.Fatalf("want Broken after close, got %v", res)
	}
}

func TestInterfaceConnectAccept(t *testing.T) {
	iface := NewInterface(4)

	client, err := iface.Connect(16)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	server, err := iface.Accept()
	if err != nil {
		t.Fatalf("accept: %v", err)
	}

	client.Write([]byte("hi"))
	buf := make([]byte, 2)
	if res, n, _ := server.Read(buf); res != iostream.Transferred || n != 2 || string(buf) != "hi" {
		t.Fatalf("server read: %v %d %q", res, n, buf)
	}

	iface.Close()
	if _, err := iface.Accept(); err != ErrInterfaceClosed {
		t.Fatalf("want ErrInterfaceClosed, got %v", err)
	}
}
