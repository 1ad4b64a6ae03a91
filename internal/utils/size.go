package utils

import (
	"fmt"
	"strings"
)

const byteUnitStep = 1024

var byteUnits = []string{"b", "kb", "mb", "gb", "tb", "pb"}

// FormatFileSize converts a byte length into a human-readable lower-case unit string.
func FormatFileSize(byteCount int64) string {
	if byteCount < 0 {
		return "0" + byteUnits[0]
	}
	scaledValue := float64(byteCount)
	unitIndex := 0
	for scaledValue >= byteUnitStep && unitIndex < len(byteUnits)-1 {
		scaledValue /= byteUnitStep
		unitIndex++
	}
	if unitIndex == 0 {
		return fmt.Sprintf("%d%s", byteCount, byteUnits[0])
	}
	if scaledValue < 10 {
		return strings.TrimSuffix(fmt.Sprintf("%.1f", scaledValue), ".0") + byteUnits[unitIndex]
	}
	return fmt.Sprintf("%.0f%s", scaledValue, byteUnits[unitIndex])
}
