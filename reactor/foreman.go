package reactor

import "log/slog"

// Foreman is C15: it owns a reader Worker and a writer Worker and routes
// every task resumption to whichever sibling matches the action's
// direction, so a single fd is never armed for both directions in the
// same event-queue instance. This mirrors oatpp's IOEventWorkerForeman,
// which holds exactly one reader and one writer IOEventWorker.
type Foreman struct {
	reader *Worker
	writer *Worker

	// OnReschedule receives a task whose Iterate returned Reschedule —
	// ordinarily reinserted into a general (non-I/O) run queue elsewhere.
	OnReschedule func(Task)
	// OnFinish receives a task's result once Iterate returns Finish.
	OnFinish func(Task, any)
	// OnError receives a task's error once Iterate returns Error, or once
	// a push/arm failure forces early termination.
	OnError func(Task, error)
	// OnWaitTime receives a task whose Iterate returned WaitTime, along
	// with its Deadline. This package has no timer wheel of its own;
	// the caller is expected to resume the task (by pushing its next
	// action) once Deadline passes.
	OnWaitTime func(Task, Action)

	// Logger, if set, receives one record per routed Error action. Never a
	// package-global — injected per Foreman, same posture as web.Dispatcher.
	Logger *slog.Logger
}

// NewForeman builds and starts both sibling workers.
func NewForeman() (*Foreman, error) {
	f := &Foreman{}
	reader, err := newWorker(Read, f.route)
	if err != nil {
		return nil, err
	}
	writer, err := newWorker(Write, f.route)
	if err != nil {
		reader.Stop()
		reader.Join()
		return nil, err
	}
	f.reader = reader
	f.writer = writer
	reader.Start()
	writer.Start()
	return f, nil
}

// Push schedules task's next resumption according to action.
func (f *Foreman) Push(task Task, action Action) {
	f.route(task, action)
}

func (f *Foreman) route(task Task, action Action) {
	switch action.Kind {
	case WaitRead, RepeatRead:
		f.reader.Push(task, action)
	case WaitWrite, RepeatWrite:
		f.writer.Push(task, action)
	case Reschedule:
		if f.OnReschedule != nil {
			f.OnReschedule(task)
		}
	case Finish:
		if f.OnFinish != nil {
			f.OnFinish(task, action.Result)
		}
	case WaitTime:
		if f.OnWaitTime != nil {
			f.OnWaitTime(task, action)
		}
	case Error:
		if f.Logger != nil {
			f.Logger.Error("task error", "err", action.Err)
		}
		if f.OnError != nil {
			f.OnError(task, action.Err)
		}
	}
}

// Stop signals both workers to end their cycle after the current wait.
func (f *Foreman) Stop() {
	f.reader.Stop()
	f.writer.Stop()
}

// Join blocks until both workers' goroutines have returned and their
// resources are released.
func (f *Foreman) Join() {
	f.reader.Join()
	f.writer.Join()
}
