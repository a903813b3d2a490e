//go:build !linux && !darwin

package control

import (
	E "github.com/pilnet/pil/common/exceptions"
)

func BindToInterface(interfaceName string) Func {
	return func(fd int) error {
		return E.NewSocketError(E.KindNotImplemented, "bind to interface", interfaceName)
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
