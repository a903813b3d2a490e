//go:build linux || darwin || dragonfly || freebsd || netbsd || openbsd

package main

import (
	"net/netip"
	"time"

	"github.com/pilnet/pil"
	"github.com/pilnet/pil/common/control"
	E "github.com/pilnet/pil/common/exceptions"
	"github.com/pilnet/pil/common/log"
	M "github.com/pilnet/pil/common/metadata"
	"github.com/pilnet/pil/common/socket"
	"github.com/pilnet/pil/conf"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const pollInterval = 500 * time.Millisecond

var (
	configPath string
	logLevel   string
	config     = new(conf.Config)
)

func main() {
	command := &cobra.Command{
		Use:              "sockcheck",
		Short:            "Check socket connectivity",
		Version:          pil.VersionStr,
		PersistentPreRun: preRun,
	}
	command.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Use a configuration file.")
	command.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Set the log level. [possible values: trace, debug, info, warn, error]")
	command.AddCommand(newConnectCommand(), newEchoCommand(), newSendCommand())
	if err := command.Execute(); err != nil {
		logrus.Fatal(err)
	}
}

func preRun(cmd *cobra.Command, args []string) {
	err := log.SetLevel(logLevel)
	if err != nil {
		logrus.Fatal(err)
	}
	if configPath != "" {
		config, err = conf.Load(configPath)
		if err != nil {
			logrus.Fatal(err)
		}
	}
}

func newConnectCommand() *cobra.Command {
	var timeout time.Duration
	command := &cobra.Command{
		Use:   "connect address:port",
		Short: "Connect and report the endpoints",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			if !cmd.Flags().Changed("timeout") {
				timeout = config.Connect.Timeout.Build()
			}
			err := runConnect(args[0], timeout)
			if err != nil {
				logrus.Fatal(err)
			}
		},
	}
	command.Flags().DurationVarP(&timeout, "timeout", "t", 0, "Set the connect timeout. Zero blocks until the system gives up.")
	return command
}

func runConnect(server string, timeout time.Duration) error {
	address, err := M.ParseAddrPort(server)
	if err != nil {
		return err
	}
	start := time.Now()
	conn, err := dial(address, timeout)
	if err != nil {
		kind, _ := E.KindOf(err)
		return E.Cause(err, "connect failed (", kind, ")")
	}
	defer conn.Close()
	local, err := conn.LocalAddress()
	if err != nil {
		return err
	}
	peer, err := conn.PeerAddress()
	if err != nil {
		return err
	}
	logrus.Info("connected ", local, " ==> ", peer, " in ", time.Since(start).Round(time.Microsecond))
	return nil
}

// dial opens a stream socket configured from the config file and connects it.
func dial(address netip.AddrPort, timeout time.Duration) (*socket.Socket, error) {
	conn := socket.NewStream()
	err := conn.Open(M.FamilyOf(address.Addr()))
	if err != nil {
		return nil, err
	}
	err = config.Socket.Apply(conn)
	if err != nil {
		conn.Close()
		return nil, E.Cause(err, "apply socket options")
	}
	local, err := config.Connect.LocalAddress()
	if err != nil {
		conn.Close()
		return nil, err
	}
	if local.IsValid() {
		if local.Port() == 0 {
			err = conn.Control(control.BindAddressNoPort())
			if err != nil {
				conn.Close()
				return nil, err
			}
		}
		err = conn.Bind(local, false)
		if err != nil {
			conn.Close()
			return nil, E.Cause(err, "bind ", local)
		}
	}
	if timeout > 0 {
		err = conn.ConnectTimeout(address, timeout)
	} else {
		err = conn.Connect(address)
	}
	if err != nil {
		conn.Close()
		return nil, err
	}
	return conn, nil
}

func sendAll(conn *socket.Socket, b []byte) error {
	for len(b) > 0 {
		n, err := conn.Send(b, 0)
		if err != nil {
			return err
		}
		b = b[n:]
	}
	return nil
}
