//go:build linux || darwin || dragonfly || freebsd || netbsd || openbsd

package metadata

import (
	"net"
	"net/netip"

	"golang.org/x/sys/unix"
)

func (af Family) SocketFamily() int {
	if af == AddressFamilyIPv4 {
		return unix.AF_INET
	}
	return unix.AF_INET6
}

func AddrPortFromSockaddr(sa unix.Sockaddr) netip.AddrPort {
	switch addr := sa.(type) {
	case *unix.SockaddrInet4:
		return netip.AddrPortFrom(netip.AddrFrom4(addr.Addr), uint16(addr.Port))
	case *unix.SockaddrInet6:
		ip := netip.AddrFrom16(addr.Addr)
		if addr.ZoneId != 0 {
			if iif, err := net.InterfaceByIndex(int(addr.ZoneId)); err == nil {
				ip = ip.WithZone(iif.Name)
			}
		}
		return netip.AddrPortFrom(ip, uint16(addr.Port))
	default:
		return netip.AddrPort{}
	}
}

func AddrPortToSockaddr(addrPort netip.AddrPort) unix.Sockaddr {
	if addrPort.Addr().Is4() {
		return &unix.SockaddrInet4{
			Port: int(addrPort.Port()),
			Addr: addrPort.Addr().As4(),
		}
	}
	sa := &unix.SockaddrInet6{
		Port: int(addrPort.Port()),
		Addr: addrPort.Addr().As16(),
	}
	if zone := addrPort.Addr().Zone(); zone != "" {
		if iif, err := net.InterfaceByName(zone); err == nil {
			sa.ZoneId = uint32(iif.Index)
		}
	}
	return sa
}
