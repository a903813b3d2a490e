//go:build darwin || dragonfly || freebsd || netbsd || openbsd

package socket

import (
	"syscall"

	"golang.org/x/sys/unix"
)

const availableRequest = unix.FIONREAD

func newSocketFD(family int, socketType int) (int, error) {
	syscall.ForkLock.RLock()
	fd, err := unix.Socket(family, socketType, 0)
	if err == nil {
		unix.CloseOnExec(fd)
	}
	syscall.ForkLock.RUnlock()
	if err != nil {
		return invalidFD, err
	}
	err = setNoSigPipe(fd)
	if err != nil {
		unix.Close(fd)
		return invalidFD, err
	}
	return fd, nil
}

func acceptFD(fd int) (int, unix.Sockaddr, error) {
	syscall.ForkLock.RLock()
	nfd, sa, err := unix.Accept(fd)
	if err == nil {
		unix.CloseOnExec(nfd)
	}
	syscall.ForkLock.RUnlock()
	if err != nil {
		return invalidFD, nil, err
	}
	err = setNoSigPipe(nfd)
	if err != nil {
		unix.Close(nfd)
		return invalidFD, nil, err
	}
	return nfd, sa, nil
}
