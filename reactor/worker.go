package reactor

import (
	"os"
	"sync"
)

// pending is one task waiting for fd to become ready in dir.
type pending struct {
	fd   int
	dir  Direction
	task Task
}

// Worker drives every Task whose current action names this worker's
// direction, via a platform event queue (C14). A Task is pushed once with
// its current Action and re-armed automatically for as long as Iterate
// keeps returning actions in the same direction; any action naming the
// other direction, or a terminal/reschedule outcome, is hand off to the
// route callback (ordinarily the owning Foreman, C15) instead of acted on
// locally.
type Worker struct {
	direction Direction
	route     func(Task, Action)

	queue   eventQueue
	wakeupR *os.File
	wakeupW *os.File

	mu      sync.Mutex
	backlog []pending
	armed   map[int]pending
	running bool

	wg sync.WaitGroup
}

func newWorker(dir Direction, route func(Task, Action)) (*Worker, error) {
	r, w, err := os.Pipe()
	if err != nil {
		return nil, err
	}
	q, err := newEventQueue(int(r.Fd()))
	if err != nil {
		r.Close()
		w.Close()
		return nil, err
	}
	return &Worker{
		direction: dir,
		route:     route,
		queue:     q,
		wakeupR:   r,
		wakeupW:   w,
		armed:     map[int]pending{},
		running:   true,
	}, nil
}

// Start runs the worker's cycle on its own goroutine.
func (w *Worker) Start() {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		w.run()
	}()
}

// Push schedules task's next resumption according to action, which must
// name this worker's direction (WaitRead/RepeatRead for a Read worker,
// WaitWrite/RepeatWrite for a Write worker).
func (w *Worker) Push(task Task, action Action) {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.backlog = append(w.backlog, pending{fd: action.FD, dir: w.direction, task: task})
	w.mu.Unlock()
	w.wake()
}

// Stop ends the work cycle after the current wait returns. Tasks still
// armed at that point are simply dropped — their own I/O layer is
// responsible for surfacing brokenness on the next attempted read/write,
// not this package.
func (w *Worker) Stop() {
	w.mu.Lock()
	w.running = false
	w.backlog = nil
	w.mu.Unlock()
	w.wake()
}

// Join blocks until the worker's goroutine has returned.
func (w *Worker) Join() {
	w.wg.Wait()
	w.queue.close()
	w.wakeupR.Close()
	w.wakeupW.Close()
}

func (w *Worker) wake() {
	w.wakeupW.Write([]byte{0})
}

func (w *Worker) wakeupFD() int { return int(w.wakeupR.Fd()) }

func (w *Worker) drainWakeup() {
	var buf [64]byte
	for {
		n, err := w.wakeupR.Read(buf[:])
		if n < len(buf) || err != nil {
			return
		}
	}
}

// run is the four-step cycle from spec.md §4.9: drain the backlog under
// lock and arm each entry, wait for readiness, resume ready tasks via
// Iterate, then route whatever action each resumption produced.
func (w *Worker) run() {
	events := make([]readyEvent, maxEvents)
	for {
		w.mu.Lock()
		if !w.running {
			w.mu.Unlock()
			return
		}
		backlog := w.backlog
		w.backlog = nil
		w.mu.Unlock()

		for _, p := range backlog {
			if err := w.queue.arm(p.fd, p.dir); err != nil {
				w.route(p.task, ErrorWith(err))
				continue
			}
			w.mu.Lock()
			w.armed[p.fd] = p
			w.mu.Unlock()
		}

		n, err := w.queue.wait(events)
		if err != nil {
			continue
		}

		wakeupFD := w.wakeupFD()
		for i := 0; i < n; i++ {
			ev := events[i]
			if ev.fd == wakeupFD {
				w.drainWakeup()
				continue
			}
			w.mu.Lock()
			p, ok := w.armed[ev.fd]
			if ok {
				delete(w.armed, ev.fd)
			}
			w.mu.Unlock()
			if !ok {
				continue
			}
			action := p.task.Iterate()
			w.resolve(p.task, action)
		}
	}
}

func (w *Worker) resolve(task Task, action Action) {
	switch action.Kind {
	case WaitRead, RepeatRead:
		if w.direction == Read {
			w.Push(task, action)
			return
		}
	case WaitWrite, RepeatWrite:
		if w.direction == Write {
			w.Push(task, action)
			return
		}
	}
	w.route(task, action)
}
