package control

import "time"

func roundSeconds(duration time.Duration) int {
	seconds := (duration + time.Second - 1) / time.Second
	if seconds < 1 {
		return 1
	}
	return int(seconds)
}
