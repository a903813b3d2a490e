package control

import (
	E "github.com/pilnet/pil/common/exceptions"

	"golang.org/x/sys/unix"
)

func BindToInterface(interfaceName string) Func {
	return func(fd int) error {
		return unix.BindToDevice(fd, interfaceName)
	}
}

// BindAddressNoPort defers ephemeral port allocation of a bound client socket
// to connect. Kernels without the option are not an error.
func BindAddressNoPort() Func {
	return func(fd int) error {
		err := unix.SetsockoptInt(fd, unix.SOL_IP, unix.IP_BIND_ADDRESS_NO_PORT, 1)
		if err != nil && E.IsMulti(err, unix.ENOPROTOOPT, unix.EINVAL) {
			return nil
		}
		return err
	}
}

func RoutingMark(mark int) Func {
	return func(fd int) error {
		return unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_MARK, mark)
	}
}
