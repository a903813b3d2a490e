//go:build linux || darwin || dragonfly || freebsd || netbsd || openbsd

package control

import (
	E "github.com/pilnet/pil/common/exceptions"

	"golang.org/x/sys/unix"
)

func ReuseAddr(enabled bool) Func {
	return func(fd int) error {
		return unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_REUSEADDR, boolInt(enabled))
	}
}

// ReusePort sets SO_REUSEPORT. Kernels that reject the option are not an
// error.
func ReusePort(enabled bool) Func {
	return func(fd int) error {
		err := unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_REUSEPORT, boolInt(enabled))
		if err != nil && E.IsMulti(err, unix.ENOPROTOOPT, unix.EINVAL, unix.EOPNOTSUPP) {
			return nil
		}
		return err
	}
}

func boolInt(value bool) int {
	if value {
		return 1
	}
	return 0
}
