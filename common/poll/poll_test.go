package poll

import (
	"syscall"
	"testing"
	"time"

	E "github.com/pilnet/pil/common/exceptions"

	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	current time.Time
}

func (c *fakeClock) now() time.Time {
	return c.current
}

func TestWaitLoopShrinksRemaining(t *testing.T) {
	t.Parallel()
	clock := &fakeClock{current: time.Unix(0, 0)}
	var seen []time.Duration
	n, err := waitLoop(250*time.Millisecond, clock.now, func(remaining time.Duration) (int, error) {
		seen = append(seen, remaining)
		if len(seen) < 4 {
			clock.current = clock.current.Add(100 * time.Millisecond)
			return -1, syscall.EINTR
		}
		return 0, nil
	})
	require.NoError(t, err)
	require.Zero(t, n)
	require.Equal(t, []time.Duration{
		250 * time.Millisecond,
		150 * time.Millisecond,
		50 * time.Millisecond,
		0,
	}, seen)
}

func TestWaitLoopMicrosecondExact(t *testing.T) {
	t.Parallel()
	clock := &fakeClock{current: time.Unix(0, 0)}
	var seen []time.Duration
	_, err := waitLoop(time.Second, clock.now, func(remaining time.Duration) (int, error) {
		seen = append(seen, remaining)
		if len(seen) <= 1000 {
			clock.current = clock.current.Add(999 * time.Microsecond)
			return -1, syscall.EINTR
		}
		return 0, nil
	})
	require.NoError(t, err)
	require.Equal(t, time.Second-1000*999*time.Microsecond, seen[len(seen)-1])
}

func TestWaitLoopNeverNegative(t *testing.T) {
	t.Parallel()
	clock := &fakeClock{current: time.Unix(0, 0)}
	var seen []time.Duration
	_, err := waitLoop(10*time.Millisecond, clock.now, func(remaining time.Duration) (int, error) {
		seen = append(seen, remaining)
		if len(seen) < 3 {
			clock.current = clock.current.Add(time.Second)
			return -1, syscall.EINTR
		}
		return 0, nil
	})
	require.NoError(t, err)
	require.Equal(t, []time.Duration{10 * time.Millisecond, 0, 0}, seen)
}

func TestWaitLoopInfinite(t *testing.T) {
	t.Parallel()
	clock := &fakeClock{current: time.Unix(0, 0)}
	var seen []time.Duration
	n, err := waitLoop(-1, clock.now, func(remaining time.Duration) (int, error) {
		seen = append(seen, remaining)
		if len(seen) < 3 {
			clock.current = clock.current.Add(time.Hour)
			return -1, syscall.EINTR
		}
		return 1, nil
	})
	require.NoError(t, err)
	require.Equal(t, 1, n)
	require.Equal(t, []time.Duration{-1, -1, -1}, seen)
}

func TestWaitLoopSurfacesFailure(t *testing.T) {
	t.Parallel()
	calls := 0
	_, err := waitLoop(time.Second, time.Now, func(remaining time.Duration) (int, error) {
		calls++
		return -1, syscall.EBADF
	})
	require.Equal(t, syscall.EBADF, err)
	require.Equal(t, 1, calls)
}

func TestTimeoutMillis(t *testing.T) {
	t.Parallel()
	require.Equal(t, -1, timeoutMillis(-1))
	require.Equal(t, 0, timeoutMillis(0))
	require.Equal(t, 1, timeoutMillis(time.Microsecond))
	require.Equal(t, 500, timeoutMillis(500*time.Millisecond))
	require.Equal(t, 501, timeoutMillis(500*time.Millisecond+time.Nanosecond))
}

func TestInterestString(t *testing.T) {
	t.Parallel()
	require.Equal(t, "none", Interest(0).String())
	require.Equal(t, "read|error", (Read | Error).String())
	require.Equal(t, "write", Write.String())
}

func TestWaitInvalidDescriptor(t *testing.T) {
	t.Parallel()
	_, err := Wait(-1, Read, time.Millisecond)
	require.ErrorIs(t, err, E.KindInvalidSocket)
}
