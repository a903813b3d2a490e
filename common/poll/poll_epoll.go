//go:build linux && !pil_poll && !pil_select

package poll

import (
	"time"

	"golang.org/x/sys/unix"
)

const Backend = "epoll"

func wait(fd int, interest Interest, timeout time.Duration) (bool, error) {
	epollFD, err := unix.EpollCreate1(unix.EPOLL_CLOEXEC)
	if err != nil {
		return false, waitError(err, "create epoll queue")
	}
	defer unix.Close(epollFD)

	event := unix.EpollEvent{Events: epollEvents(interest), Fd: int32(fd)}
	err = unix.EpollCtl(epollFD, unix.EPOLL_CTL_ADD, fd, &event)
	if err != nil {
		return false, waitError(err, "insert socket into epoll queue")
	}

	events := make([]unix.EpollEvent, 1)
	n, err := waitLoop(timeout, time.Now, func(remaining time.Duration) (int, error) {
		return unix.EpollWait(epollFD, events, timeoutMillis(remaining))
	})
	if err != nil {
		return false, waitError(err, "epoll wait")
	}
	return n > 0, nil
}

func epollEvents(interest Interest) uint32 {
	var events uint32
	if interest&Read != 0 {
		events |= unix.EPOLLIN
	}
	if interest&Write != 0 {
		events |= unix.EPOLLOUT
	}
	if interest&Error != 0 {
		events |= unix.EPOLLERR
	}
	return events
}
