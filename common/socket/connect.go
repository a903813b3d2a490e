//go:build linux || darwin || dragonfly || freebsd || netbsd || openbsd

package socket

import (
	"net/netip"
	"runtime"
	"time"

	E "github.com/pilnet/pil/common/exceptions"
	M "github.com/pilnet/pil/common/metadata"
	"github.com/pilnet/pil/common/poll"

	"golang.org/x/sys/unix"
)

// Connect connects in the current blocking mode.
func (s *Socket) Connect(address netip.AddrPort) error {
	address = M.Unmap(address)
	err := s.open(address)
	if err != nil {
		return err
	}
	err = unix.Connect(s.fd, M.AddrPortToSockaddr(address))
	if err == unix.EINTR {
		// The kernel keeps connecting in the background; reissuing connect
		// would only report EALREADY.
		err = s.finishConnect(address, -1)
	} else if err != nil {
		err = E.FromErrno(err, address.String())
	}
	if err != nil {
		return err
	}
	s.state = StateConnected
	return nil
}

// ConnectTimeout connects, failing with a timeout error when the connection
// is not established within timeout. The blocking mode in effect before the
// call is restored on every path.
func (s *Socket) ConnectTimeout(address netip.AddrPort, timeout time.Duration) error {
	address = M.Unmap(address)
	err := s.open(address)
	if err != nil {
		return err
	}
	blocking := s.blocking
	err = s.SetBlocking(false)
	if err != nil {
		return err
	}
	err = s.connectNonBlocking(address, timeout)
	restoreErr := s.SetBlocking(blocking)
	if err != nil {
		if restoreErr != nil {
			logger.Debug("restore blocking mode after failed connect to ", address, ": ", restoreErr)
		}
		return err
	}
	if restoreErr != nil {
		return restoreErr
	}
	s.state = StateConnected
	return nil
}

// ConnectNonBlocking starts connecting and returns without waiting. The
// socket is left in non-blocking mode; completion is observed with Poll for
// poll.Write and SocketError.
func (s *Socket) ConnectNonBlocking(address netip.AddrPort) error {
	address = M.Unmap(address)
	err := s.open(address)
	if err != nil {
		return err
	}
	err = s.SetBlocking(false)
	if err != nil {
		return err
	}
	err = unix.Connect(s.fd, M.AddrPortToSockaddr(address))
	if err != nil && !isConnectPending(err) {
		return E.FromErrno(err, address.String())
	}
	s.state = StateConnected
	return nil
}

func (s *Socket) connectNonBlocking(address netip.AddrPort, timeout time.Duration) error {
	err := unix.Connect(s.fd, M.AddrPortToSockaddr(address))
	if err == nil {
		return nil
	}
	if !isConnectPending(err) {
		return E.FromErrno(err, address.String())
	}
	return s.finishConnect(address, timeout)
}

func (s *Socket) finishConnect(address netip.AddrPort, timeout time.Duration) error {
	ready, err := poll.Wait(s.fd, poll.Write|poll.Error, timeout)
	if err != nil {
		return err
	}
	if !ready {
		logger.Trace("connect to ", address, " timed out after ", timeout)
		return timeoutError(0, "connect timed out", address.String())
	}
	code, err := s.SocketError()
	if err != nil {
		return err
	}
	if socketErr := E.Classify(code, address.String()); socketErr != nil {
		return socketErr
	}
	return nil
}

func isConnectPending(err error) bool {
	return err == unix.EINPROGRESS || err == unix.EINTR || isWouldBlock(err)
}

// Bind binds to address. With reuseAddress set, SO_REUSEADDR and, where the
// platform accepts it, SO_REUSEPORT are enabled first.
func (s *Socket) Bind(address netip.AddrPort, reuseAddress bool) error {
	address = M.Unmap(address)
	err := s.open(address)
	if err != nil {
		return err
	}
	return s.bind(address, reuseAddress)
}

// Bind6 binds to an IPv6 address, setting IPV6_V6ONLY to ipv6Only.
func (s *Socket) Bind6(address netip.AddrPort, reuseAddress bool, ipv6Only bool) error {
	if !address.Addr().Is6() {
		return E.NewSocketError(E.KindInvalidArgument, "address must be an IPv6 address", address.String())
	}
	err := s.open(address)
	if err != nil {
		return err
	}
	err = s.SetOption(unix.IPPROTO_IPV6, unix.IPV6_V6ONLY, boolInt(ipv6Only))
	if err != nil {
		return err
	}
	return s.bind(address, reuseAddress)
}

func (s *Socket) bind(address netip.AddrPort, reuseAddress bool) error {
	if reuseAddress {
		err := s.SetReuseAddress(true)
		if err != nil {
			return err
		}
		s.SetReusePort(true)
	}
	err := unix.Bind(s.fd, M.AddrPortToSockaddr(address))
	if err != nil {
		return E.FromErrno(err, address.String())
	}
	return nil
}

func (s *Socket) Listen(backlog int) error {
	err := s.check()
	if err != nil {
		return err
	}
	err = unix.Listen(s.fd, backlog)
	if err != nil {
		return E.FromErrno(err, "")
	}
	s.state = StateListening
	return nil
}

// Accept waits for a connection and returns it as a new, independently
// owned blocking socket together with the peer address.
func (s *Socket) Accept() (*Socket, netip.AddrPort, error) {
	err := s.check()
	if err != nil {
		return nil, netip.AddrPort{}, err
	}
	var (
		fd int
		sa unix.Sockaddr
	)
	for {
		fd, sa, err = acceptFD(s.fd)
		if err != unix.EINTR {
			break
		}
	}
	if err != nil {
		return nil, netip.AddrPort{}, E.FromErrno(err, "")
	}
	// BSD descendants inherit O_NONBLOCK from the listener.
	err = unix.SetNonblock(fd, false)
	if err != nil {
		unix.Close(fd)
		return nil, netip.AddrPort{}, E.FromErrno(err, "")
	}
	peer := M.AddrPortFromSockaddr(sa)
	logger.Trace("accepted ", peer)
	return newConnected(fd, s.socketType), peer, nil
}

func (s *Socket) ShutdownReceive() error {
	return s.shutdown(unix.SHUT_RD)
}

func (s *Socket) ShutdownSend() error {
	return s.shutdown(unix.SHUT_WR)
}

func (s *Socket) Shutdown() error {
	return s.shutdown(unix.SHUT_RDWR)
}

func (s *Socket) shutdown(how int) error {
	err := s.check()
	if err != nil {
		return err
	}
	return E.FromErrno(unix.Shutdown(s.fd, how), "")
}

func (s *Socket) LocalAddress() (netip.AddrPort, error) {
	err := s.check()
	if err != nil {
		return netip.AddrPort{}, err
	}
	sa, err := unix.Getsockname(s.fd)
	if err != nil {
		return netip.AddrPort{}, E.FromErrno(err, "")
	}
	return M.AddrPortFromSockaddr(sa), nil
}

func (s *Socket) PeerAddress() (netip.AddrPort, error) {
	err := s.check()
	if err != nil {
		return netip.AddrPort{}, err
	}
	sa, err := unix.Getpeername(s.fd)
	if err != nil {
		return netip.AddrPort{}, E.FromErrno(err, "")
	}
	return M.AddrPortFromSockaddr(sa), nil
}

// Poll waits for the socket to become ready for interest.
func (s *Socket) Poll(timeout time.Duration, interest poll.Interest) (bool, error) {
	err := s.check()
	if err != nil {
		return false, err
	}
	ready, err := poll.Wait(s.fd, interest, timeout)
	runtime.KeepAlive(s)
	return ready, err
}
