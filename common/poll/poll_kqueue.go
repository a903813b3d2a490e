//go:build (darwin || dragonfly || freebsd || netbsd || openbsd) && !pil_poll && !pil_select

package poll

import (
	"syscall"
	"time"

	"golang.org/x/sys/unix"
)

const Backend = "kqueue"

func wait(fd int, interest Interest, timeout time.Duration) (bool, error) {
	changes := kqueueChanges(fd, interest)
	kqueueFD, err := unix.Kqueue()
	if err != nil {
		return false, waitError(err, "create kqueue")
	}
	defer unix.Close(kqueueFD)
	unix.CloseOnExec(kqueueFD)

	_, err = unix.Kevent(kqueueFD, changes, nil, nil)
	if err != nil {
		return false, waitError(err, "insert socket into kqueue")
	}

	events := make([]unix.Kevent_t, 1)
	n, err := waitLoop(timeout, time.Now, func(remaining time.Duration) (int, error) {
		var timespec *unix.Timespec
		if remaining >= 0 {
			value := unix.NsecToTimespec(int64(remaining))
			timespec = &value
		}
		return unix.Kevent(kqueueFD, nil, events, timespec)
	})
	if err != nil {
		return false, waitError(err, "kevent")
	}
	if n > 0 && events[0].Flags&unix.EV_ERROR != 0 {
		return false, waitError(syscall.Errno(events[0].Data), "kevent")
	}
	return n > 0, nil
}

// kqueueChanges registers one-shot filters. Pending errors and EOF surface
// as EV_EOF on the read and write filters, so an error-only interest watches
// the read filter.
func kqueueChanges(fd int, interest Interest) []unix.Kevent_t {
	changes := make([]unix.Kevent_t, 0, 2)
	if interest&Read != 0 || interest&(Read|Write) == 0 && interest&Error != 0 {
		var change unix.Kevent_t
		unix.SetKevent(&change, fd, unix.EVFILT_READ, unix.EV_ADD|unix.EV_ONESHOT)
		changes = append(changes, change)
	}
	if interest&Write != 0 {
		var change unix.Kevent_t
		unix.SetKevent(&change, fd, unix.EVFILT_WRITE, unix.EV_ADD|unix.EV_ONESHOT)
		changes = append(changes, change)
	}
	return changes
}
