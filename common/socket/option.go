//go:build linux || darwin || dragonfly || freebsd || netbsd || openbsd

package socket

import (
	"syscall"
	"time"

	"github.com/pilnet/pil/common/control"
	E "github.com/pilnet/pil/common/exceptions"

	"golang.org/x/sys/unix"
)

// SetOption sets an integer socket option.
func (s *Socket) SetOption(level int, option int, value int) error {
	err := s.check()
	if err != nil {
		return err
	}
	return E.FromErrno(unix.SetsockoptInt(s.fd, level, option, value), "")
}

// Option reads an integer socket option.
func (s *Socket) Option(level int, option int) (int, error) {
	err := s.check()
	if err != nil {
		return 0, err
	}
	value, err := unix.GetsockoptInt(s.fd, level, option)
	if err != nil {
		return 0, E.FromErrno(err, "")
	}
	return value, nil
}

func (s *Socket) SetOptionTimeval(option int, value time.Duration) error {
	err := s.check()
	if err != nil {
		return err
	}
	tv := unix.NsecToTimeval(value.Nanoseconds())
	return E.FromErrno(unix.SetsockoptTimeval(s.fd, unix.SOL_SOCKET, option, &tv), "")
}

func (s *Socket) OptionTimeval(option int) (time.Duration, error) {
	err := s.check()
	if err != nil {
		return 0, err
	}
	tv, err := unix.GetsockoptTimeval(s.fd, unix.SOL_SOCKET, option)
	if err != nil {
		return 0, E.FromErrno(err, "")
	}
	return time.Duration(tv.Nano()), nil
}

func (s *Socket) setFlag(level int, option int, enabled bool) error {
	return s.SetOption(level, option, boolInt(enabled))
}

func (s *Socket) flag(level int, option int) (bool, error) {
	value, err := s.Option(level, option)
	return value != 0, err
}

// Control runs fns against the descriptor, stopping at the first error.
func (s *Socket) Control(fns ...control.Func) error {
	err := s.check()
	if err != nil {
		return err
	}
	for _, fn := range fns {
		if fn == nil {
			continue
		}
		err = fn(s.fd)
		if err != nil {
			return E.FromErrno(err, "")
		}
	}
	return nil
}

func (s *Socket) SetSendBufferSize(size int) error {
	return s.SetOption(unix.SOL_SOCKET, unix.SO_SNDBUF, size)
}

func (s *Socket) SendBufferSize() (int, error) {
	return s.Option(unix.SOL_SOCKET, unix.SO_SNDBUF)
}

func (s *Socket) SetReceiveBufferSize(size int) error {
	return s.SetOption(unix.SOL_SOCKET, unix.SO_RCVBUF, size)
}

func (s *Socket) ReceiveBufferSize() (int, error) {
	return s.Option(unix.SOL_SOCKET, unix.SO_RCVBUF)
}

// SetSendTimeout bounds blocking sends. Zero disables the bound.
func (s *Socket) SetSendTimeout(timeout time.Duration) error {
	if timeout < 0 {
		return E.NewSocketError(E.KindInvalidArgument, "negative timeout", timeout.String())
	}
	err := s.setTimeout(unix.SO_SNDTIMEO, timeout)
	if err != nil {
		return err
	}
	s.sendTimeout = timeout
	return nil
}

func (s *Socket) SendTimeout() (time.Duration, error) {
	return s.timeout(unix.SO_SNDTIMEO, s.sendTimeout)
}

// SetReceiveTimeout bounds blocking receives. Zero disables the bound.
func (s *Socket) SetReceiveTimeout(timeout time.Duration) error {
	if timeout < 0 {
		return E.NewSocketError(E.KindInvalidArgument, "negative timeout", timeout.String())
	}
	err := s.setTimeout(unix.SO_RCVTIMEO, timeout)
	if err != nil {
		return err
	}
	s.receiveTimeout = timeout
	return nil
}

func (s *Socket) ReceiveTimeout() (time.Duration, error) {
	return s.timeout(unix.SO_RCVTIMEO, s.receiveTimeout)
}

func (s *Socket) SetLinger(enabled bool, seconds int) error {
	err := s.check()
	if err != nil {
		return err
	}
	linger := unix.Linger{Onoff: int32(boolInt(enabled)), Linger: int32(seconds)}
	return E.FromErrno(unix.SetsockoptLinger(s.fd, unix.SOL_SOCKET, unix.SO_LINGER, &linger), "")
}

func (s *Socket) Linger() (bool, int, error) {
	err := s.check()
	if err != nil {
		return false, 0, err
	}
	linger, err := unix.GetsockoptLinger(s.fd, unix.SOL_SOCKET, unix.SO_LINGER)
	if err != nil {
		return false, 0, E.FromErrno(err, "")
	}
	return linger.Onoff != 0, int(linger.Linger), nil
}

func (s *Socket) SetNoDelay(enabled bool) error {
	return s.setFlag(unix.IPPROTO_TCP, unix.TCP_NODELAY, enabled)
}

func (s *Socket) NoDelay() (bool, error) {
	return s.flag(unix.IPPROTO_TCP, unix.TCP_NODELAY)
}

func (s *Socket) SetKeepAlive(enabled bool) error {
	return s.setFlag(unix.SOL_SOCKET, unix.SO_KEEPALIVE, enabled)
}

func (s *Socket) KeepAlive() (bool, error) {
	return s.flag(unix.SOL_SOCKET, unix.SO_KEEPALIVE)
}

// SetKeepAlivePeriod sets the idle time before the first keepalive and the
// interval between keepalives.
func (s *Socket) SetKeepAlivePeriod(idle time.Duration, interval time.Duration) error {
	return s.Control(control.SetKeepAlivePeriod(idle, interval))
}

func (s *Socket) SetReuseAddress(enabled bool) error {
	return s.Control(control.ReuseAddr(enabled))
}

func (s *Socket) ReuseAddress() (bool, error) {
	return s.flag(unix.SOL_SOCKET, unix.SO_REUSEADDR)
}

// SetReusePort sets SO_REUSEPORT. Platforms without the option are ignored.
func (s *Socket) SetReusePort(enabled bool) error {
	err := s.Control(control.ReusePort(enabled))
	if err != nil && !E.IsKind(err, E.KindInvalidSocket) {
		logger.Debug("ignore SO_REUSEPORT: ", err)
		return nil
	}
	return err
}

// ReusePort reports false where the platform lacks SO_REUSEPORT.
func (s *Socket) ReusePort() (bool, error) {
	enabled, err := s.flag(unix.SOL_SOCKET, unix.SO_REUSEPORT)
	if err != nil && E.IsMulti(err, unix.ENOPROTOOPT, unix.EINVAL) {
		return false, nil
	}
	return enabled, err
}

func (s *Socket) SetOOBInline(enabled bool) error {
	return s.setFlag(unix.SOL_SOCKET, unix.SO_OOBINLINE, enabled)
}

func (s *Socket) OOBInline() (bool, error) {
	return s.flag(unix.SOL_SOCKET, unix.SO_OOBINLINE)
}

func (s *Socket) SetBroadcast(enabled bool) error {
	return s.setFlag(unix.SOL_SOCKET, unix.SO_BROADCAST, enabled)
}

func (s *Socket) Broadcast() (bool, error) {
	return s.flag(unix.SOL_SOCKET, unix.SO_BROADCAST)
}

// SetBlocking switches O_NONBLOCK and updates the cached mode.
func (s *Socket) SetBlocking(blocking bool) error {
	err := s.check()
	if err != nil {
		return err
	}
	err = unix.SetNonblock(s.fd, !blocking)
	if err != nil {
		return E.FromErrno(err, "")
	}
	s.blocking = blocking
	return nil
}

// SocketError reads and clears the pending error of the socket.
func (s *Socket) SocketError() (syscall.Errno, error) {
	err := s.check()
	if err != nil {
		return 0, err
	}
	var code int
	for {
		code, err = unix.GetsockoptInt(s.fd, unix.SOL_SOCKET, unix.SO_ERROR)
		if err != unix.EINTR {
			break
		}
	}
	if err != nil {
		return 0, E.FromErrno(err, "")
	}
	return syscall.Errno(code), nil
}

func boolInt(value bool) int {
	if value {
		return 1
	}
	return 0
}
