//go:build (linux || darwin || dragonfly || freebsd || netbsd || openbsd) && pil_emulated_timeouts

package socket

import (
	"time"

	"github.com/pilnet/pil/common/poll"
)

// Timeouts are kept on the socket only and enforced by polling before each
// blocking transfer.
func (s *Socket) setTimeout(int, time.Duration) error {
	return s.check()
}

func (s *Socket) timeout(_ int, cached time.Duration) (time.Duration, error) {
	return cached, s.check()
}

func (s *Socket) awaitTimeout(interest poll.Interest, timeout time.Duration) error {
	if timeout <= 0 || !s.blocking {
		return nil
	}
	ready, err := poll.Wait(s.fd, interest, timeout)
	if err != nil {
		return err
	}
	if !ready {
		return timeoutError(0, "", "")
	}
	return nil
}
