package byteformats

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	E "github.com/pilnet/pil/common/exceptions"
)

const (
	Byte   = 1
	KiByte = Byte << 10
	MiByte = KiByte << 10
	GiByte = MiByte << 10
)

// Suffixes are binary and case-insensitive, so "64k", "64KB" and "64KiB" all
// mean 65536 bytes.
var memoryUnits = map[string]uint64{
	"b":   Byte,
	"k":   KiByte,
	"kb":  KiByte,
	"kib": KiByte,
	"m":   MiByte,
	"mb":  MiByte,
	"mib": MiByte,
	"g":   GiByte,
	"gb":  GiByte,
	"gib": GiByte,
}

// MemoryBytes is a byte count read from a config file or a flag. The text it
// was written as is kept for marshaling.
type MemoryBytes struct {
	value uint64
	text  string
}

func parseMemoryBytes(text string) (MemoryBytes, error) {
	digits := strings.IndexFunc(text, func(r rune) bool {
		return r < '0' || r > '9'
	})
	if digits == -1 {
		value, err := strconv.ParseUint(text, 10, 64)
		if err != nil {
			return MemoryBytes{}, E.Cause(err, "parse ", text)
		}
		return MemoryBytes{value: value}, nil
	}
	if digits == 0 {
		return MemoryBytes{}, E.New("invalid format: ", text)
	}
	count, err := strconv.ParseUint(text[:digits], 10, 64)
	if err != nil {
		return MemoryBytes{}, E.Cause(err, "parse ", text[:digits])
	}
	unit, loaded := memoryUnits[strings.ToLower(strings.TrimSpace(text[digits:]))]
	if !loaded {
		return MemoryBytes{}, E.New("unsupported unit: ", text[digits:])
	}
	if count > math.MaxUint64/unit {
		return MemoryBytes{}, E.New("value out of range: ", text)
	}
	return MemoryBytes{value: count * unit, text: text}, nil
}

func (b *MemoryBytes) Value() uint64 {
	if b == nil {
		return 0
	}
	return b.value
}

// Int returns the value clamped to what setsockopt accepts.
func (b *MemoryBytes) Int() int {
	value := b.Value()
	if value > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(value)
}

// Set parses a flag value such as "4096", "64k" or "4MB".
func (b *MemoryBytes) Set(value string) error {
	parsed, err := parseMemoryBytes(value)
	if err != nil {
		return err
	}
	*b = parsed
	return nil
}

func (b *MemoryBytes) String() string {
	if b.text == "" {
		return strconv.FormatUint(b.value, 10)
	}
	return b.text
}

func (b *MemoryBytes) Type() string {
	return "bytes"
}

func (b MemoryBytes) MarshalJSON() ([]byte, error) {
	if b.text == "" {
		return json.Marshal(b.value)
	}
	return json.Marshal(b.text)
}

func (b *MemoryBytes) UnmarshalJSON(content []byte) error {
	var number uint64
	if json.Unmarshal(content, &number) == nil {
		*b = MemoryBytes{value: number}
		return nil
	}
	var text string
	err := json.Unmarshal(content, &text)
	if err != nil {
		return err
	}
	return b.Set(text)
}
