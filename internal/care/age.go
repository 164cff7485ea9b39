package care

import (
	"fmt"
	"strings"
)

// FormatAge renders how long ago a plant was planted as "Age: 1y 2w 3d".
// Years are flat 365-day blocks and the year part is left out below one
// year. Future planting dates clamp to zero days.
func FormatAge(plantedOn string, today Date) string {
	planted, ok := ParseLocalDate(plantedOn)
	if !ok {
		return AgeNotSet
	}
	total := max(DaysBetween(planted, today), 0)

	years := total / 365
	rest := total % 365
	weeks, days := rest/7, rest%7

	parts := make([]string, 0, 3)
	if years > 0 {
		parts = append(parts, fmt.Sprintf("%dy", years))
	}
	parts = append(parts, fmt.Sprintf("%dw", weeks), fmt.Sprintf("%dd", days))
	return "Age: " + strings.Join(parts, " ")
}
