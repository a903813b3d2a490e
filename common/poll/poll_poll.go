//go:build (linux || darwin || dragonfly || freebsd || netbsd || openbsd) && pil_poll && !pil_select

package poll

import (
	"time"

	"golang.org/x/sys/unix"
)

const Backend = "poll"

func wait(fd int, interest Interest, timeout time.Duration) (bool, error) {
	fds := []unix.PollFd{{Fd: int32(fd), Events: pollEvents(interest)}}
	n, err := waitLoop(timeout, time.Now, func(remaining time.Duration) (int, error) {
		return unix.Poll(fds, timeoutMillis(remaining))
	})
	if err != nil {
		return false, waitError(err, "poll")
	}
	if n > 0 && fds[0].Revents&unix.POLLNVAL != 0 {
		return false, waitError(unix.EBADF, "poll")
	}
	return n > 0, nil
}

// pollEvents leaves the error interest implicit: POLLERR and POLLHUP are
// always reported.
func pollEvents(interest Interest) int16 {
	var events int16
	if interest&Read != 0 {
		events |= unix.POLLIN
	}
	if interest&Write != 0 {
		events |= unix.POLLOUT
	}
	return events
}
