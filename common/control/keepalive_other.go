//go:build !linux && !darwin

package control

import (
	"time"

	E "github.com/pilnet/pil/common/exceptions"
)

func SetKeepAlivePeriod(idle time.Duration, interval time.Duration) Func {
	return func(fd int) error {
		return E.NewSocketError(E.KindNotImplemented, "keep-alive period", "")
	}
}
