//go:build darwin || freebsd || netbsd || openbsd || dragonfly

package reactor

import "golang.org/x/sys/unix"

// kqueueQueue backs eventQueue on Darwin and the BSDs.
type kqueueQueue struct {
	fd       int
	wakeupFD int
}

func newEventQueue(wakeupFD int) (eventQueue, error) {
	fd, err := unix.Kqueue()
	if err != nil {
		return nil, err
	}
	var ev unix.Kevent_t
	unix.SetKevent(&ev, wakeupFD, unix.EVFILT_READ, unix.EV_ADD|unix.EV_CLEAR)
	if _, err := unix.Kevent(fd, []unix.Kevent_t{ev}, nil, nil); err != nil {
		unix.Close(fd)
		return nil, err
	}
	return &kqueueQueue{fd: fd, wakeupFD: wakeupFD}, nil
}

func (q *kqueueQueue) arm(fd int, dir Direction) error {
	filter := unix.EVFILT_READ
	if dir == Write {
		filter = unix.EVFILT_WRITE
	}
	var ev unix.Kevent_t
	unix.SetKevent(&ev, fd, filter, unix.EV_ADD|unix.EV_ONESHOT)
	_, err := unix.Kevent(q.fd, []unix.Kevent_t{ev}, nil, nil)
	return err
}

func (q *kqueueQueue) wait(out []readyEvent) (int, error) {
	raw := make([]unix.Kevent_t, len(out))
	n, err := unix.Kevent(q.fd, nil, raw, nil)
	if err != nil {
		if err == unix.EINTR {
			return 0, nil
		}
		return 0, err
	}
	for i := 0; i < n; i++ {
		dir := Read
		if int(raw[i].Filter) == unix.EVFILT_WRITE {
			dir = Write
		}
		out[i] = readyEvent{fd: int(raw[i].Ident), dir: dir}
	}
	return n, nil
}

func (q *kqueueQueue) close() error {
	return unix.Close(q.fd)
}
