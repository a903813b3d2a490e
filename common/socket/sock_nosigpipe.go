//go:build darwin || dragonfly || freebsd || netbsd

package socket

import "golang.org/x/sys/unix"

const sendFlags = 0

func setNoSigPipe(fd int) error {
	return unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_NOSIGPIPE, 1)
}
