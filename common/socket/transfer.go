//go:build linux || darwin || dragonfly || freebsd || netbsd || openbsd

package socket

import (
	"net/netip"

	E "github.com/pilnet/pil/common/exceptions"
	M "github.com/pilnet/pil/common/metadata"
	"github.com/pilnet/pil/common/poll"

	"golang.org/x/sys/unix"
)

// Send writes b to the connected peer and returns the number of bytes the
// kernel accepted, which may be fewer than len(b). On a non-blocking socket
// with no buffer space it returns WouldBlock and a nil error.
func (s *Socket) Send(b []byte, flags int) (int, error) {
	err := s.check()
	if err != nil {
		return 0, err
	}
	err = s.awaitTimeout(poll.Write, s.sendTimeout)
	if err != nil {
		return 0, err
	}
	var n int
	for {
		n, err = unix.SendmsgN(s.fd, b, nil, nil, flags|sendFlags)
		if err != unix.EINTR {
			break
		}
	}
	return s.transferResult(n, err, "")
}

// Receive reads into b. A zero count with a nil error means the peer shut
// down its sending side.
func (s *Socket) Receive(b []byte, flags int) (int, error) {
	err := s.check()
	if err != nil {
		return 0, err
	}
	err = s.awaitTimeout(poll.Read, s.receiveTimeout)
	if err != nil {
		return 0, err
	}
	var n int
	for {
		n, _, err = unix.Recvfrom(s.fd, b, flags)
		if err != unix.EINTR {
			break
		}
	}
	return s.transferResult(n, err, "")
}

// SendTo sends one datagram to address. An unopened datagram socket is
// opened for the family of address.
func (s *Socket) SendTo(b []byte, address netip.AddrPort, flags int) (int, error) {
	address = M.Unmap(address)
	if s.state == StateUnopened && s.socketType == Datagram {
		err := s.open(address)
		if err != nil {
			return 0, err
		}
	}
	err := s.check()
	if err != nil {
		return 0, err
	}
	err = s.awaitTimeout(poll.Write, s.sendTimeout)
	if err != nil {
		return 0, err
	}
	sa := M.AddrPortToSockaddr(address)
	var n int
	for {
		n, err = unix.SendmsgN(s.fd, b, nil, sa, flags|sendFlags)
		if err != unix.EINTR {
			break
		}
	}
	return s.transferResult(n, err, address.String())
}

// ReceiveFrom reads one datagram into b and returns its sender.
func (s *Socket) ReceiveFrom(b []byte, flags int) (int, netip.AddrPort, error) {
	err := s.check()
	if err != nil {
		return 0, netip.AddrPort{}, err
	}
	err = s.awaitTimeout(poll.Read, s.receiveTimeout)
	if err != nil {
		return 0, netip.AddrPort{}, err
	}
	var (
		n  int
		sa unix.Sockaddr
	)
	for {
		n, sa, err = unix.Recvfrom(s.fd, b, flags)
		if err != unix.EINTR {
			break
		}
	}
	n, err = s.transferResult(n, err, "")
	if err != nil || n == WouldBlock {
		return n, netip.AddrPort{}, err
	}
	return n, M.AddrPortFromSockaddr(sa), nil
}

// SendUrgent sends a single byte of out-of-band data.
func (s *Socket) SendUrgent(data byte) error {
	err := s.check()
	if err != nil {
		return err
	}
	for {
		_, err = unix.SendmsgN(s.fd, []byte{data}, nil, nil, unix.MSG_OOB|sendFlags)
		if err != unix.EINTR {
			break
		}
	}
	return E.FromErrno(err, "")
}

// Available returns the number of bytes that can be read without blocking.
func (s *Socket) Available() (int, error) {
	err := s.check()
	if err != nil {
		return 0, err
	}
	n, err := unix.IoctlGetInt(s.fd, availableRequest)
	if err != nil {
		return 0, E.FromErrno(err, "")
	}
	return n, nil
}

func (s *Socket) transferResult(n int, err error, context string) (int, error) {
	if err == nil {
		return n, nil
	}
	if isWouldBlock(err) {
		if !s.blocking {
			return WouldBlock, nil
		}
		return 0, timeoutError(err.(unix.Errno), "", context)
	}
	if err == unix.ETIMEDOUT {
		return 0, timeoutError(unix.ETIMEDOUT, "", context)
	}
	return 0, E.FromErrno(err, context)
}
