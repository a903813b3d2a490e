package control

import (
	"net"

	E "github.com/pilnet/pil/common/exceptions"

	"golang.org/x/sys/unix"
)

func BindToInterface(interfaceName string) Func {
	return func(fd int) error {
		netInterface, err := net.InterfaceByName(interfaceName)
		if err != nil {
			return err
		}
		sa, err := unix.Getsockname(fd)
		if err != nil {
			return err
		}
		if _, isInet6 := sa.(*unix.SockaddrInet6); isInet6 {
			return unix.SetsockoptInt(fd, unix.IPPROTO_IPV6, unix.IPV6_BOUND_IF, netInterface.Index)
		}
		return unix.SetsockoptInt(fd, unix.IPPROTO_IP, unix.IP_BOUND_IF, netInterface.Index)
	}
}

func BindAddressNoPort() Func {
	return func(fd int) error {
		return nil
	}
}

func RoutingMark(mark int) Func {
	return func(fd int) error {
		return E.NewSocketError(E.KindNotImplemented, "routing mark", "")
	}
}
