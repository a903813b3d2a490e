package socket

import (
	"net/netip"
	"runtime"
	"testing"
	"time"

	E "github.com/pilnet/pil/common/exceptions"
	"github.com/pilnet/pil/common/poll"

	"github.com/stretchr/testify/require"
)

// saturatedListener returns the address of a listener whose accept queue is
// full, so further SYNs are dropped and connects hang until they time out.
func saturatedListener(t *testing.T) netip.AddrPort {
	t.Helper()
	listener := NewStream()
	t.Cleanup(func() { listener.Close() })
	require.NoError(t, listener.Bind(loopback, false))
	require.NoError(t, listener.Listen(0))
	address, err := listener.LocalAddress()
	require.NoError(t, err)
	for i := 0; i < 16; i++ {
		filler := NewStream()
		t.Cleanup(func() { filler.Close() })
		err = filler.ConnectTimeout(address, 100*time.Millisecond)
		if E.IsKind(err, E.KindTimeout) {
			return address
		}
		require.NoError(t, err)
	}
	t.Fatal("accept queue never filled")
	return address
}

func TestConnectTimeoutExpires(t *testing.T) {
	t.Parallel()
	address := saturatedListener(t)

	client := NewStream()
	defer client.Close()
	require.True(t, client.Blocking())
	start := time.Now()
	err := client.ConnectTimeout(address, 300*time.Millisecond)
	elapsed := time.Since(start)
	require.ErrorIs(t, err, E.KindTimeout)
	require.True(t, E.IsTimeout(err))
	require.Contains(t, err.Error(), address.String())
	require.GreaterOrEqual(t, elapsed, 290*time.Millisecond)
	require.Less(t, elapsed, 600*time.Millisecond)
	require.True(t, client.Blocking())

	nonBlocking := NewStream()
	defer nonBlocking.Close()
	require.NoError(t, nonBlocking.Bind(loopback, false))
	require.NoError(t, nonBlocking.SetBlocking(false))
	start = time.Now()
	err = nonBlocking.ConnectTimeout(address, 200*time.Millisecond)
	elapsed = time.Since(start)
	require.ErrorIs(t, err, E.KindTimeout)
	require.Contains(t, err.Error(), address.String())
	require.GreaterOrEqual(t, elapsed, 190*time.Millisecond)
	require.Less(t, elapsed, 500*time.Millisecond)
	require.False(t, nonBlocking.Blocking())
}

func acceptOnly(t *testing.T, listener *Socket) *Socket {
	t.Helper()
	server, _, err := listener.Accept()
	require.NoError(t, err)
	return server
}

func TestPollKeepsUnreferencedSocketOpen(t *testing.T) {
	t.Parallel()
	listener, address := listenLoopback(t)
	client := NewStream()
	defer client.Close()
	require.NoError(t, client.Connect(address))

	sent := make(chan error, 1)
	go func() {
		for i := 0; i < 5; i++ {
			runtime.GC()
			time.Sleep(10 * time.Millisecond)
		}
		_, err := client.Send([]byte("x"), 0)
		sent <- err
	}()
	ready, err := acceptOnly(t, listener).Poll(time.Second, poll.Read)
	require.NoError(t, <-sent)
	require.NoError(t, err)
	require.True(t, ready)
}
