//go:build (linux || darwin || dragonfly || freebsd || netbsd || openbsd) && pil_select

package poll

import (
	"strconv"
	"time"
	"unsafe"

	E "github.com/pilnet/pil/common/exceptions"

	"golang.org/x/sys/unix"
)

const Backend = "select"

var fdSetSize = int(unsafe.Sizeof(unix.FdSet{})) * 8

func wait(fd int, interest Interest, timeout time.Duration) (bool, error) {
	if fd >= fdSetSize {
		return false, E.NewSocketError(E.KindInvalidArgument, "descriptor exceeds FD_SETSIZE", strconv.Itoa(fd))
	}
	n, err := waitLoop(timeout, time.Now, func(remaining time.Duration) (int, error) {
		// select rewrites the sets, so they are rebuilt for every attempt.
		var readSet, writeSet, exceptSet *unix.FdSet
		if interest&Read != 0 {
			readSet = new(unix.FdSet)
			readSet.Set(fd)
		}
		if interest&Write != 0 {
			writeSet = new(unix.FdSet)
			writeSet.Set(fd)
		}
		if interest&Error != 0 {
			exceptSet = new(unix.FdSet)
			exceptSet.Set(fd)
		}
		var timeval *unix.Timeval
		if remaining >= 0 {
			value := unix.NsecToTimeval(int64(remaining))
			timeval = &value
		}
		return unix.Select(fd+1, readSet, writeSet, exceptSet, timeval)
	})
	if err != nil {
		return false, waitError(err, "select")
	}
	return n > 0, nil
}
