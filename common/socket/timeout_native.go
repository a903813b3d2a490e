//go:build (linux || darwin || dragonfly || freebsd || netbsd || openbsd) && !pil_emulated_timeouts

package socket

import (
	"time"

	"github.com/pilnet/pil/common/poll"
)

func (s *Socket) setTimeout(option int, timeout time.Duration) error {
	return s.SetOptionTimeval(option, timeout)
}

func (s *Socket) timeout(option int, _ time.Duration) (time.Duration, error) {
	return s.OptionTimeval(option)
}

func (s *Socket) awaitTimeout(_ poll.Interest, _ time.Duration) error {
	return nil
}
