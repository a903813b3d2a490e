// Package poll waits for a single descriptor to become ready.
//
// Exactly one back end is compiled in. Linux uses epoll and the BSD family
// uses kqueue; building with the pil_poll tag selects poll(2) and the
// pil_select tag selects select(2) instead.
package poll

import (
	"math"
	"syscall"
	"time"

	E "github.com/pilnet/pil/common/exceptions"
)

// Interest is the set of conditions a wait is satisfied by.
type Interest uint8

const (
	Read Interest = 1 << iota
	Write
	Error
)

func (i Interest) String() string {
	var name string
	for _, flag := range []struct {
		interest Interest
		name     string
	}{{Read, "read"}, {Write, "write"}, {Error, "error"}} {
		if i&flag.interest == 0 {
			continue
		}
		if name != "" {
			name += "|"
		}
		name += flag.name
	}
	if name == "" {
		return "none"
	}
	return name
}

// Wait blocks until fd is ready for one of the requested interests or the
// timeout elapses, and reports whether it became ready. A negative timeout
// waits indefinitely. Signal interruptions are retried with the time left,
// so the total wait never exceeds the timeout.
func Wait(fd int, interest Interest, timeout time.Duration) (bool, error) {
	if fd < 0 {
		return false, E.NewSocketError(E.KindInvalidSocket, "", "")
	}
	if interest&(Read|Write|Error) == 0 {
		return false, E.NewSocketError(E.KindInvalidArgument, "empty interest set", interest.String())
	}
	return wait(fd, interest, timeout)
}

// waitLoop calls waitOnce with the remaining time until it returns anything
// but EINTR.
func waitLoop(timeout time.Duration, now func() time.Time, waitOnce func(remaining time.Duration) (int, error)) (int, error) {
	remaining := timeout
	for {
		start := now()
		n, err := waitOnce(remaining)
		if err != syscall.EINTR {
			return n, err
		}
		if remaining < 0 {
			continue
		}
		waited := now().Sub(start)
		if waited < remaining {
			remaining -= waited
		} else {
			remaining = 0
		}
	}
}

// timeoutMillis rounds up so a positive remainder below one millisecond does
// not turn into a non-blocking check.
func timeoutMillis(timeout time.Duration) int {
	if timeout < 0 {
		return -1
	}
	millis := timeout / time.Millisecond
	if timeout%time.Millisecond != 0 {
		millis++
	}
	if millis > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(millis)
}

func waitError(err error, op string) error {
	return E.Cause(E.FromErrno(err, ""), op)
}
