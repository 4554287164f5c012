package dateutil

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// MonthLayout is the layout of month strings exchanged with users ("2025-03")
const MonthLayout = "2006-01"

// ParseMonth parses a "YYYY-MM" month string. Surrounding whitespace is ignored.
func ParseMonth(s string) (year, month int, err error) {
	s = strings.TrimSpace(s)
	parts := strings.Split(s, "-")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid month %q: want YYYY-MM", s)
	}
	year, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid year in month %q: %w", s, err)
	}
	month, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid month in %q: %w", s, err)
	}
	return year, month, nil
}

// MonthToYearOffset converts a month string into fractional years after the plan start.
// Empty or malformed input and months before the start year yield 0.
func MonthToYearOffset(month string, startYear int) float64 {
	if strings.TrimSpace(month) == "" {
		return 0
	}
	y, m, err := ParseMonth(month)
	if err != nil {
		return 0
	}
	offset := float64(y-startYear) + float64(m-1)/12.0
	if offset < 0 {
		return 0
	}
	return offset
}

// MonthLabel formats a month index relative to January of startYear as "YYYY-MM"
func MonthLabel(startYear, monthIndex int) string {
	return time.Date(startYear, time.January, 1, 0, 0, 0, 0, time.UTC).
		AddDate(0, monthIndex, 0).
		Format(MonthLayout)
}

// GenerateMonthOptions lists every month of the horizon as "YYYY-MM".
// A zero start year or non-positive horizon yields no options.
func GenerateMonthOptions(startYear, years int) []string {
	if startYear == 0 || years <= 0 {
		return []string{}
	}
	months := make([]string, 0, years*12)
	for i := 0; i < years*12; i++ {
		months = append(months, MonthLabel(startYear, i))
	}
	return months
}
