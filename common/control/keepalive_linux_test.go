package control

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func TestSetKeepAlivePeriod(t *testing.T) {
	t.Parallel()
	fd := newSocket(t)
	require.NoError(t, SetKeepAlivePeriod(45*time.Second, 10*time.Second)(fd))
	idle, err := unix.GetsockoptInt(fd, unix.IPPROTO_TCP, unix.TCP_KEEPIDLE)
	require.NoError(t, err)
	require.Equal(t, 45, idle)
	interval, err := unix.GetsockoptInt(fd, unix.IPPROTO_TCP, unix.TCP_KEEPINTVL)
	require.NoError(t, err)
	require.Equal(t, 10, interval)
}
