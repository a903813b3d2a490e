package conf

import (
	"encoding/json"
	"time"

	E "github.com/pilnet/pil/common/exceptions"
)

// Duration reads "1.5s" style strings or a number of seconds.
type Duration time.Duration

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

func (d *Duration) UnmarshalJSON(bytes []byte) error {
	var seconds float64
	if err := json.Unmarshal(bytes, &seconds); err == nil {
		if seconds < 0 {
			return E.New("negative duration: ", string(bytes))
		}
		*d = Duration(seconds * float64(time.Second))
		return nil
	}
	var value string
	err := json.Unmarshal(bytes, &value)
	if err != nil {
		return err
	}
	duration, err := time.ParseDuration(value)
	if err != nil {
		return E.Cause(err, "parse duration ", value)
	}
	if duration < 0 {
		return E.New("negative duration: ", value)
	}
	*d = Duration(duration)
	return nil
}

func (d Duration) Build() time.Duration {
	return time.Duration(d)
}
