//go:build linux || darwin || dragonfly || freebsd || netbsd || openbsd

package exceptions

import (
	"errors"
	"net"
	"syscall"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func TestClassifyNoError(t *testing.T) {
	t.Parallel()
	require.Nil(t, Classify(0, "ignored"))
	require.NoError(t, FromErrno(nil, "ignored"))
	require.NoError(t, FromErrno(syscall.Errno(0), "ignored"))
}

func TestClassifyKinds(t *testing.T) {
	t.Parallel()
	for _, testCase := range []struct {
		code syscall.Errno
		kind Kind
	}{
		{unix.EINVAL, KindInvalidArgument},
		{unix.ETIMEDOUT, KindTimeout},
		{unix.ECONNREFUSED, KindConnectionRefused},
		{unix.ECONNRESET, KindConnectionReset},
		{unix.ECONNABORTED, KindConnectionAborted},
		{unix.ENETUNREACH, KindNetworkUnreachable},
		{unix.EHOSTUNREACH, KindHostUnreachable},
		{unix.EHOSTDOWN, KindHostDown},
		{unix.ENETDOWN, KindNetworkDown},
		{unix.EADDRINUSE, KindAddressInUse},
		{unix.EADDRNOTAVAIL, KindAddressNotAvailable},
		{unix.EAGAIN, KindIO},
		{unix.EWOULDBLOCK, KindIO},
		{unix.EINPROGRESS, KindIO},
		{unix.EPIPE, KindIO},
		{unix.EBADF, KindIO},
	} {
		socketErr := Classify(testCase.code, "")
		require.NotNil(t, socketErr, testCase.code.Error())
		require.Equal(t, testCase.kind, socketErr.Kind, testCase.code.Error())
		require.Equal(t, testCase.code, socketErr.Code)
	}
}

func TestClassifyEveryEntry(t *testing.T) {
	t.Parallel()
	for _, entry := range errnoEntries {
		socketErr := Classify(entry.code, "ctx")
		require.NotNil(t, socketErr)
		require.NotEmpty(t, socketErr.Message)
		require.True(t, errors.Is(socketErr, entry.code))
	}
}

func TestClassifyContext(t *testing.T) {
	t.Parallel()
	refused := Classify(unix.ECONNREFUSED, "127.0.0.1:9")
	require.Equal(t, "127.0.0.1:9", refused.Context)
	require.Contains(t, refused.Error(), "127.0.0.1:9")

	reset := Classify(unix.ECONNRESET, "127.0.0.1:9")
	require.Empty(t, reset.Context)
}

func TestClassifyUnknown(t *testing.T) {
	t.Parallel()
	code := syscall.Errno(4095)
	socketErr := Classify(code, "somewhere")
	require.Equal(t, KindIO, socketErr.Kind)
	require.Equal(t, code, socketErr.Code)
	require.Equal(t, "somewhere", socketErr.Context)
}

func TestFromErrnoMatching(t *testing.T) {
	t.Parallel()
	err := FromErrno(unix.ECONNREFUSED, "127.0.0.1:1")
	require.Error(t, err)
	require.ErrorIs(t, err, KindConnectionRefused)
	require.ErrorIs(t, err, unix.ECONNREFUSED)
	require.False(t, errors.Is(err, KindTimeout))

	wrapped := Cause(err, "dial upstream")
	require.ErrorIs(t, wrapped, KindConnectionRefused)
	kind, loaded := KindOf(wrapped)
	require.True(t, loaded)
	require.Equal(t, KindConnectionRefused, kind)
}

func TestFromErrnoForeignError(t *testing.T) {
	t.Parallel()
	plain := New("not an errno")
	require.Equal(t, plain, FromErrno(plain, ""))
	require.ErrorIs(t, FromErrno(plain, "context"), plain)
}

func TestTimeoutHelpers(t *testing.T) {
	t.Parallel()
	err := FromErrno(unix.ETIMEDOUT, "")
	require.True(t, IsTimeout(err))
	var netErr net.Error
	require.True(t, errors.As(err, &netErr))
	require.True(t, netErr.Timeout())
	require.False(t, IsTimeout(FromErrno(unix.ECONNRESET, "")))
}

func TestRecoverable(t *testing.T) {
	t.Parallel()
	require.True(t, IsRecoverable(FromErrno(unix.ETIMEDOUT, "")))
	require.True(t, IsRecoverable(FromErrno(unix.ECONNRESET, "")))
	require.True(t, IsRecoverable(FromErrno(unix.ECONNABORTED, "")))
	require.False(t, IsRecoverable(FromErrno(unix.ECONNREFUSED, "")))
	require.False(t, IsRecoverable(New("plain")))
}

func TestErrors(t *testing.T) {
	t.Parallel()
	require.NoError(t, Errors(nil, nil))
	single := New("single")
	require.Equal(t, single, Errors(nil, single))
	joined := Errors(FromErrno(unix.EPERM, ""), FromErrno(unix.ENOPROTOOPT, ""))
	require.ErrorIs(t, joined, unix.ENOPROTOOPT)
	require.True(t, IsMulti(joined, unix.EPERM, unix.ENOPROTOOPT))
	require.False(t, IsMulti(joined, unix.ENOPROTOOPT))
}
