package formatter

import (
	"github.com/docker/go-units"
)

// base 1000, smallest first
var siUnits = []string{"B", "kB", "MB", "GB", "TB", "PB", "EB"}

// BytesToSI formats a byte count with one decimal and SI units,
// e.g. 1500000000 => "1.5 GB". Values below 1 kB are shown in B.
func BytesToSI(bytes int64) string {
	return units.CustomSize("%.1f %s", float64(bytes), 1000.0, siUnits)
}
