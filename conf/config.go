//go:build linux || darwin || dragonfly || freebsd || netbsd || openbsd

package conf

import (
	"encoding/json"
	"net/netip"
	"os"
	"time"

	"github.com/pilnet/pil/common/byteformats"
	"github.com/pilnet/pil/common/control"
	E "github.com/pilnet/pil/common/exceptions"
	M "github.com/pilnet/pil/common/metadata"
	"github.com/pilnet/pil/common/socket"
)

const DefaultBacklog = 64

type Config struct {
	Connect ConnectOptions `json:"connect"`
	Listen  ListenOptions  `json:"listen"`
	Socket  SocketOptions  `json:"socket"`
}

type ConnectOptions struct {
	Timeout     Duration `json:"timeout,omitempty"`
	BindAddress string   `json:"bind_address,omitempty"`
}

type ListenOptions struct {
	Backlog      int   `json:"backlog,omitempty"`
	ReuseAddress *bool `json:"reuse_address,omitempty"`
	IPv6Only     bool  `json:"ipv6_only,omitempty"`
}

// SocketOptions are applied to every socket a command opens. Unset fields
// leave the system default in place.
type SocketOptions struct {
	SendBufferSize    *byteformats.MemoryBytes `json:"send_buffer_size,omitempty"`
	ReceiveBufferSize *byteformats.MemoryBytes `json:"receive_buffer_size,omitempty"`
	SendTimeout       Duration                 `json:"send_timeout,omitempty"`
	ReceiveTimeout    Duration                 `json:"receive_timeout,omitempty"`
	Linger            *Duration                `json:"linger,omitempty"`
	NoDelay           *bool                    `json:"no_delay,omitempty"`
	KeepAlive         *bool                    `json:"keep_alive,omitempty"`
	KeepAliveIdle     Duration                 `json:"keep_alive_idle,omitempty"`
	KeepAliveInterval Duration                 `json:"keep_alive_interval,omitempty"`
	OOBInline         *bool                    `json:"oob_inline,omitempty"`
	BindInterface     string                   `json:"bind_interface,omitempty"`
	RoutingMark       int                      `json:"routing_mark,omitempty"`
}

func Load(path string) (*Config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, E.Cause(err, "read config file")
	}
	return Parse(content)
}

func Parse(content []byte) (*Config, error) {
	var config Config
	err := json.Unmarshal(content, &config)
	if err != nil {
		return nil, E.Cause(err, "decode config file")
	}
	return &config, nil
}

func (o ListenOptions) BacklogOrDefault() int {
	if o.Backlog <= 0 {
		return DefaultBacklog
	}
	return o.Backlog
}

func (o ListenOptions) Reuse() bool {
	return o.ReuseAddress == nil || *o.ReuseAddress
}

func (o ConnectOptions) LocalAddress() (netip.AddrPort, error) {
	if o.BindAddress == "" {
		return netip.AddrPort{}, nil
	}
	address, err := M.ParseAddrPort(o.BindAddress)
	if err != nil {
		return netip.AddrPort{}, E.Cause(err, "parse bind address")
	}
	return address, nil
}

// ControlFunc returns the descriptor hooks that must run before bind or
// connect, or nil when none are configured.
func (o SocketOptions) ControlFunc() control.Func {
	var fn control.Func
	if o.BindInterface != "" {
		fn = control.Append(fn, control.BindToInterface(o.BindInterface))
	}
	if o.RoutingMark != 0 {
		fn = control.Append(fn, control.RoutingMark(o.RoutingMark))
	}
	return fn
}

// LingerSeconds is the SO_LINGER value for Linger. Sub-second values round up
// so that only an explicit zero requests an abortive close.
func (o SocketOptions) LingerSeconds() int {
	if o.Linger == nil {
		return 0
	}
	return int((o.Linger.Build() + time.Second - 1) / time.Second)
}

// Apply sets every configured option on s, which must be opened, and
// reports all failures together.
func (o SocketOptions) Apply(s *socket.Socket) error {
	var errs []error
	if fn := o.ControlFunc(); fn != nil {
		if err := s.Control(fn); err != nil {
			errs = append(errs, E.Cause(err, "control"))
		}
	}
	if o.SendBufferSize != nil {
		errs = append(errs, s.SetSendBufferSize(o.SendBufferSize.Int()))
	}
	if o.ReceiveBufferSize != nil {
		errs = append(errs, s.SetReceiveBufferSize(o.ReceiveBufferSize.Int()))
	}
	if o.SendTimeout > 0 {
		errs = append(errs, s.SetSendTimeout(o.SendTimeout.Build()))
	}
	if o.ReceiveTimeout > 0 {
		errs = append(errs, s.SetReceiveTimeout(o.ReceiveTimeout.Build()))
	}
	if o.Linger != nil {
		errs = append(errs, s.SetLinger(true, o.LingerSeconds()))
	}
	if o.NoDelay != nil && s.Type() == socket.Stream {
		errs = append(errs, s.SetNoDelay(*o.NoDelay))
	}
	if o.KeepAlive != nil {
		errs = append(errs, s.SetKeepAlive(*o.KeepAlive))
	}
	if o.KeepAliveIdle > 0 || o.KeepAliveInterval > 0 {
		idle, interval := o.KeepAliveIdle.Build(), o.KeepAliveInterval.Build()
		if interval == 0 {
			interval = idle
		}
		if idle == 0 {
			idle = interval
		}
		errs = append(errs, s.SetKeepAlivePeriod(idle, interval))
	}
	if o.OOBInline != nil {
		errs = append(errs, s.SetOOBInline(*o.OOBInline))
	}
	return E.Errors(errs...)
}
