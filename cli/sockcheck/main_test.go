//go:build linux || darwin || dragonfly || freebsd || netbsd || openbsd

package main

import (
	"context"
	"net/netip"
	"testing"
	"time"

	"github.com/pilnet/pil/common/byteformats"
	E "github.com/pilnet/pil/common/exceptions"
	"github.com/pilnet/pil/common/socket"

	"github.com/stretchr/testify/require"
)

func startEcho(t *testing.T) netip.AddrPort {
	t.Helper()
	listener, err := listen(netip.MustParseAddrPort("127.0.0.1:0"))
	require.NoError(t, err)
	address, err := listener.LocalAddress()
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- serveEcho(ctx, listener)
	}()
	t.Cleanup(func() {
		cancel()
		require.NoError(t, <-done)
		listener.Close()
	})
	return address
}

func TestSendThroughEcho(t *testing.T) {
	address := startEcho(t)
	require.NoError(t, runSend(address.String(), 256*byteformats.KiByte, time.Second))
	require.NoError(t, runSend(address.String(), 1, 0))
}

func TestConnect(t *testing.T) {
	address := startEcho(t)
	require.NoError(t, runConnect(address.String(), time.Second))
	require.Error(t, runConnect("not an address", time.Second))
}

func TestConnectRefused(t *testing.T) {
	reserved := socket.NewStream()
	require.NoError(t, reserved.Bind(netip.MustParseAddrPort("127.0.0.1:0"), false))
	address, err := reserved.LocalAddress()
	require.NoError(t, err)
	reserved.Close()
	err = runConnect(address.String(), time.Second)
	require.ErrorIs(t, err, E.KindConnectionRefused)
	require.Contains(t, err.Error(), "connection refused")
}

func TestDialFromBindAddress(t *testing.T) {
	address := startEcho(t)
	saved := config.Connect.BindAddress
	config.Connect.BindAddress = "127.0.0.1:0"
	t.Cleanup(func() {
		config.Connect.BindAddress = saved
	})
	conn, err := dial(address, time.Second)
	require.NoError(t, err)
	defer conn.Close()
	local, err := conn.LocalAddress()
	require.NoError(t, err)
	require.Equal(t, netip.MustParseAddr("127.0.0.1"), local.Addr())
	require.NotZero(t, local.Port())
	peer, err := conn.PeerAddress()
	require.NoError(t, err)
	require.Equal(t, address, peer)
}
