//go:build linux

package reactor

import "golang.org/x/sys/unix"

// epollQueue backs eventQueue on Linux. The wakeup fd is armed once,
// level-triggered, and never re-armed; every task fd is armed one-shot
// per spec.md §4.9, re-armed by the Worker each time it is pushed again.
type epollQueue struct {
	fd       int
	wakeupFD int
}

func newEventQueue(wakeupFD int) (eventQueue, error) {
	fd, err := unix.EpollCreate1(unix.EPOLL_CLOEXEC)
	if err != nil {
		return nil, err
	}
	ev := unix.EpollEvent{Events: unix.EPOLLIN, Fd: int32(wakeupFD)}
	if err := unix.EpollCtl(fd, unix.EPOLL_CTL_ADD, wakeupFD, &ev); err != nil {
		unix.Close(fd)
		return nil, err
	}
	return &epollQueue{fd: fd, wakeupFD: wakeupFD}, nil
}

func (q *epollQueue) arm(fd int, dir Direction) error {
	events := uint32(unix.EPOLLIN | unix.EPOLLONESHOT)
	if dir == Write {
		events = uint32(unix.EPOLLOUT | unix.EPOLLONESHOT)
	}
	ev := unix.EpollEvent{Events: events, Fd: int32(fd)}
	if err := unix.EpollCtl(q.fd, unix.EPOLL_CTL_MOD, fd, &ev); err != nil {
		return unix.EpollCtl(q.fd, unix.EPOLL_CTL_ADD, fd, &ev)
	}
	return nil
}

func (q *epollQueue) wait(out []readyEvent) (int, error) {
	raw := make([]unix.EpollEvent, len(out))
	n, err := unix.EpollWait(q.fd, raw, -1)
	if err != nil {
		if err == unix.EINTR {
			return 0, nil
		}
		return 0, err
	}
	for i := 0; i < n; i++ {
		dir := Read
		if raw[i].Events&unix.EPOLLOUT != 0 {
			dir = Write
		}
		out[i] = readyEvent{fd: int(raw[i].Fd), dir: dir}
	}
	return n, nil
}

func (q *epollQueue) close() error {
	return unix.Close(q.fd)
}
