//go:build windows

package reactor

import "errors"

// errUnsupported mirrors oatpp's OATPP_IO_EVENT_INTERFACE_STUB: this
// package's event-queue backend has no Windows implementation in scope,
// so NewForeman fails fast instead of silently degrading.
var errUnsupported = errors.New("reactor: no event-queue backend for this platform")

func newEventQueue(wakeupFD int) (eventQueue, error) {
	return nil, errUnsupported
}
