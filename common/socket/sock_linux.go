package socket

import "golang.org/x/sys/unix"

const (
	sendFlags = unix.MSG_NOSIGNAL

	// Linux names FIONREAD for sockets SIOCINQ.
	availableRequest = unix.SIOCINQ
)

func newSocketFD(family int, socketType int) (int, error) {
	return unix.Socket(family, socketType|unix.SOCK_CLOEXEC, 0)
}

func acceptFD(fd int) (int, unix.Sockaddr, error) {
	return unix.Accept4(fd, unix.SOCK_CLOEXEC)
}
