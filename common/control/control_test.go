//go:build linux || darwin || dragonfly || freebsd || netbsd || openbsd

package control

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func newSocket(t *testing.T) int {
	fd, err := unix.Socket(unix.AF_INET, unix.SOCK_STREAM, 0)
	require.NoError(t, err)
	t.Cleanup(func() {
		unix.Close(fd)
	})
	return fd
}

func TestReuse(t *testing.T) {
	t.Parallel()
	fd := newSocket(t)
	require.NoError(t, Append(ReuseAddr(true), ReusePort(true))(fd))
	value, err := unix.GetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_REUSEADDR)
	require.NoError(t, err)
	require.NotZero(t, value)
}

func TestAppend(t *testing.T) {
	t.Parallel()
	var order []int
	first := func(fd int) error {
		order = append(order, 1)
		return nil
	}
	second := func(fd int) error {
		order = append(order, 2)
		return nil
	}
	require.Nil(t, Append(nil, nil))
	require.NoError(t, Append(Append(nil, first), second)(0))
	require.Equal(t, []int{1, 2}, order)
}

func TestAppendStopsOnError(t *testing.T) {
	t.Parallel()
	called := false
	failing := func(fd int) error {
		return unix.EINVAL
	}
	next := func(fd int) error {
		called = true
		return nil
	}
	require.ErrorIs(t, Append(failing, next)(0), unix.EINVAL)
	require.False(t, called)
}

func TestRoundSeconds(t *testing.T) {
	t.Parallel()
	require.Equal(t, 1, roundSeconds(0))
	require.Equal(t, 1, roundSeconds(time.Millisecond))
	require.Equal(t, 2, roundSeconds(1500*time.Millisecond))
	require.Equal(t, 30, roundSeconds(30*time.Second))
}
