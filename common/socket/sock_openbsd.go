package socket

import "golang.org/x/sys/unix"

const sendFlags = unix.MSG_NOSIGNAL

func setNoSigPipe(int) error {
	return nil
}
