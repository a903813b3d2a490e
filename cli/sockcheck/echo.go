//go:build linux || darwin || dragonfly || freebsd || netbsd || openbsd

package main

import (
	"context"
	"net/netip"
	"os"
	"os/signal"
	"syscall"

	"github.com/pilnet/pil/common/buf"
	E "github.com/pilnet/pil/common/exceptions"
	M "github.com/pilnet/pil/common/metadata"
	"github.com/pilnet/pil/common/poll"
	"github.com/pilnet/pil/common/socket"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func newEchoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "echo address:port",
		Short: "Serve an echo listener until interrupted",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			address, err := M.ParseAddrPort(args[0])
			if err != nil {
				logrus.Fatal(err)
			}
			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()
			err = runEcho(ctx, address)
			if err != nil {
				logrus.Fatal(err)
			}
		},
	}
}

func listen(address netip.AddrPort) (*socket.Socket, error) {
	listener := socket.NewStream()
	err := listener.Open(M.FamilyOf(address.Addr()))
	if err != nil {
		return nil, err
	}
	err = config.Socket.Apply(listener)
	if err != nil {
		listener.Close()
		return nil, E.Cause(err, "apply socket options")
	}
	if address.Addr().Is6() {
		err = listener.Bind6(address, config.Listen.Reuse(), config.Listen.IPv6Only)
	} else {
		err = listener.Bind(address, config.Listen.Reuse())
	}
	if err == nil {
		err = listener.Listen(config.Listen.BacklogOrDefault())
	}
	if err != nil {
		listener.Close()
		return nil, err
	}
	return listener, nil
}

func runEcho(ctx context.Context, address netip.AddrPort) error {
	listener, err := listen(address)
	if err != nil {
		return err
	}
	defer listener.Close()
	local, err := listener.LocalAddress()
	if err != nil {
		return err
	}
	logrus.Info("echo server started at ", local)
	return serveEcho(ctx, listener)
}

func serveEcho(ctx context.Context, listener *socket.Socket) error {
	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return acceptLoop(ctx, group, listener)
	})
	err := group.Wait()
	logrus.Info("echo server stopped")
	return err
}

// acceptLoop polls instead of blocking in accept so cancellation is noticed
// within pollInterval.
func acceptLoop(ctx context.Context, group *errgroup.Group, listener *socket.Socket) error {
	for ctx.Err() == nil {
		ready, err := listener.Poll(pollInterval, poll.Read)
		if err != nil {
			return err
		}
		if !ready {
			continue
		}
		conn, peer, err := listener.Accept()
		if err != nil {
			if E.IsRecoverable(err) {
				logrus.Warn("accept: ", err)
				continue
			}
			return E.Cause(err, "accept")
		}
		logrus.Info("inbound connection from ", peer)
		group.Go(func() error {
			echo(ctx, conn, peer)
			return nil
		})
	}
	return nil
}

func echo(ctx context.Context, conn *socket.Socket, peer netip.AddrPort) {
	defer conn.Close()
	err := config.Socket.Apply(conn)
	if err != nil {
		logrus.Warn("apply socket options for ", peer, ": ", err)
	}
	buffer := buf.Get()
	defer buf.Put(buffer)
	var total int
	for ctx.Err() == nil {
		ready, err := conn.Poll(pollInterval, poll.Read)
		if err != nil {
			logrus.Warn(peer, ": ", err)
			return
		}
		if !ready {
			continue
		}
		n, err := conn.Receive(buffer, 0)
		if err != nil {
			if E.IsRecoverable(err) {
				logrus.Debug(peer, ": ", err)
			} else {
				logrus.Warn(peer, ": ", err)
			}
			return
		}
		if n == 0 {
			logrus.Info("connection from ", peer, " closed after ", total, " bytes")
			return
		}
		err = sendAll(conn, buffer[:n])
		if err != nil {
			logrus.Warn(peer, ": ", err)
			return
		}
		total += n
		logrus.Trace(peer, " <== ", n, " bytes")
	}
}
