package metadata

import "net/netip"

// ParseAddrPort parses "host:port" where host is an IP literal. IPv4-mapped
// IPv6 addresses are unmapped so that the socket family follows the address.
func ParseAddrPort(s string) (netip.AddrPort, error) {
	addrPort, err := netip.ParseAddrPort(s)
	if err != nil {
		return netip.AddrPort{}, err
	}
	return Unmap(addrPort), nil
}

func Unmap(ap netip.AddrPort) netip.AddrPort {
	if ap.Addr().Is4In6() {
		return netip.AddrPortFrom(ap.Addr().Unmap(), ap.Port())
	}
	return ap
}
