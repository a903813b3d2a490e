package metadata

import "net/netip"

type Family byte

const (
	AddressFamilyIPv4 Family = iota
	AddressFamilyIPv6
)

func FamilyOf(addr netip.Addr) Family {
	if addr.Is4() {
		return AddressFamilyIPv4
	}
	return AddressFamilyIPv6
}

func (af Family) String() string {
	if af == AddressFamilyIPv4 {
		return "IPv4"
	}
	return "IPv6"
}
