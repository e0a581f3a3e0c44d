package util

import (
	"fmt"
	"math"
)

func FormatValueFactor(value float64, unit string) string {
	absValue := math.Abs(value)
	switch {
	case absValue >= 1:
		return fmt.Sprintf("%.3f %s", value, unit)
	case absValue >= 1e-3:
		return fmt.Sprintf("%.3f m%s", value*1e3, unit)
	case absValue >= 1e-6:
		return fmt.Sprintf("%.3f u%s", value*1e6, unit)
	case absValue >= 1e-9:
		return fmt.Sprintf("%.3f n%s", value*1e9, unit)
	case absValue >= 1e-12:
		return fmt.Sprintf("%.3f p%s", value*1e12, unit)
	default:
		return fmt.Sprintf("%.3e %s", value, unit)
	}
}

// FormatVoltage renders a potential given in mV.
func FormatVoltage(mv float64) string {
	return FormatValueFactor(mv*1e-3, "V")
}

// FormatDuration renders an interval given in ms. NaN marks quantities
// the analysis could not define.
func FormatDuration(ms float64) string {
	if math.IsNaN(ms) {
		return "undefined"
	}
	return FormatValueFactor(ms*1e-3, "s")
}

// FormatRate renders a depolarization rate given in mV/ms, which is
// numerically V/s.
func FormatRate(mvPerMs float64) string {
	return fmt.Sprintf("%.1f V/s", mvPerMs)
}
