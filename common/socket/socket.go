//go:build linux || darwin || dragonfly || freebsd || netbsd || openbsd

// Package socket wraps a single OS socket descriptor.
//
// A Socket owns at most one descriptor. It is opened lazily by the first
// call that fixes the address family (Connect, Bind, SendTo on datagram
// sockets) and closed exactly once, by Close or, for sockets dropped
// without Close, by a finalizer. A Socket is not safe for concurrent use.
package socket

import (
	"net/netip"
	"runtime"
	"time"

	E "github.com/pilnet/pil/common/exceptions"
	"github.com/pilnet/pil/common/log"
	M "github.com/pilnet/pil/common/metadata"

	"golang.org/x/sys/unix"
)

var logger = log.NewLogger("socket")

// WouldBlock is the byte count returned by transfer operations on a
// non-blocking socket that has nothing to transfer yet.
const WouldBlock = -1

const invalidFD = -1

type Type int

const (
	Stream   Type = unix.SOCK_STREAM
	Datagram Type = unix.SOCK_DGRAM
)

func (t Type) String() string {
	switch t {
	case Stream:
		return "stream"
	case Datagram:
		return "datagram"
	default:
		return "unknown"
	}
}

type State uint8

const (
	StateUnopened State = iota
	StateOpened
	StateConnected
	StateListening
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateUnopened:
		return "unopened"
	case StateOpened:
		return "opened"
	case StateConnected:
		return "connected"
	case StateListening:
		return "listening"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

type Socket struct {
	fd             int
	socketType     Type
	state          State
	blocking       bool
	sendTimeout    time.Duration
	receiveTimeout time.Duration
}

// NewStream returns an unopened TCP socket.
func NewStream() *Socket {
	return New(Stream)
}

// NewDatagram returns an unopened UDP socket.
func NewDatagram() *Socket {
	return New(Datagram)
}

func New(socketType Type) *Socket {
	return &Socket{
		fd:         invalidFD,
		socketType: socketType,
		blocking:   true,
	}
}

// newConnected takes ownership of an accepted descriptor.
func newConnected(fd int, socketType Type) *Socket {
	s := &Socket{
		fd:         fd,
		socketType: socketType,
		state:      StateConnected,
		blocking:   true,
	}
	runtime.SetFinalizer(s, (*Socket).finalize)
	return s
}

func (s *Socket) FD() int {
	return s.fd
}

func (s *Socket) Type() Type {
	return s.socketType
}

func (s *Socket) State() State {
	return s.state
}

// Blocking reports the cached blocking mode.
func (s *Socket) Blocking() bool {
	return s.blocking
}

// Close releases the descriptor. It is idempotent and never fails.
func (s *Socket) Close() error {
	if s.fd != invalidFD {
		unix.Close(s.fd)
		s.fd = invalidFD
		runtime.SetFinalizer(s, nil)
	}
	s.state = StateClosed
	return nil
}

func (s *Socket) finalize() {
	if s.fd != invalidFD {
		unix.Close(s.fd)
		s.fd = invalidFD
	}
}

// open allocates the descriptor for the family of address if the socket has
// none yet.
func (s *Socket) open(address netip.AddrPort) error {
	if s.state == StateUnopened && !address.IsValid() {
		return E.NewSocketError(E.KindInvalidArgument, "invalid address", address.String())
	}
	return s.Open(M.FamilyOf(address.Addr()))
}

// Open allocates the descriptor for family ahead of Connect or Bind, so
// options can be set first. It is a no-op on an opened socket.
func (s *Socket) Open(family M.Family) error {
	switch s.state {
	case StateClosed:
		return errInvalidSocket()
	case StateUnopened:
	default:
		return nil
	}
	fd, err := newSocketFD(family.SocketFamily(), int(s.socketType))
	if err != nil {
		return E.FromErrno(err, "")
	}
	s.fd = fd
	s.state = StateOpened
	s.blocking = true
	runtime.SetFinalizer(s, (*Socket).finalize)
	return nil
}

func (s *Socket) check() error {
	if s.fd == invalidFD {
		return errInvalidSocket()
	}
	return nil
}

func errInvalidSocket() error {
	return E.NewSocketError(E.KindInvalidSocket, "", "")
}

func timeoutError(code unix.Errno, message string, context string) error {
	return &E.SocketError{Kind: E.KindTimeout, Code: code, Message: message, Context: context}
}

func isWouldBlock(err error) bool {
	return err == unix.EAGAIN || err == unix.EWOULDBLOCK
}
