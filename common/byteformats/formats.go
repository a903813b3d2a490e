package byteformats

import (
	"fmt"
	"math"
)

var binaryUnitNames = []string{"B", "KiB", "MiB", "GiB", "TiB", "PiB", "EiB"}

// FormatIBytes renders s with binary units and one decimal below ten.
func FormatIBytes(s uint64) string {
	if s < 10 {
		return fmt.Sprintf("%d B", s)
	}
	exponent := math.Floor(math.Log(float64(s)) / math.Log(1024))
	value := math.Floor(float64(s)/math.Pow(1024, exponent)*10+0.5) / 10
	if value < 10 {
		return fmt.Sprintf("%.1f %s", value, binaryUnitNames[int(exponent)])
	}
	return fmt.Sprintf("%.0f %s", value, binaryUnitNames[int(exponent)])
}
