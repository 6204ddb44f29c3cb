package schedule

import (
	"fmt"
	"strconv"
	"strings"
)

// Date is a schedule date as written in the sheets: "DD/MM" or "DD/MM/YYYY".
// Year is 0 when the source omits it.
type Date struct {
	Day   int
	Month int
	Year  int
}

// ParseDate parses "DD/MM" and "DD/MM/YYYY". ok is false when there is no numeric day and month,
// in which case the zero Date is returned.
func ParseDate(s string) (d Date, ok bool) {
	parts := strings.Split(strings.TrimSpace(s), "/")
	if len(parts) < 2 {
		return Date{}, false
	}
	day, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return Date{}, false
	}
	month, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return Date{}, false
	}
	d = Date{Day: day, Month: month}
	if len(parts) > 2 {
		if year, err := strconv.Atoi(strings.TrimSpace(parts[2])); err == nil {
			d.Year = year
		}
	}
	return d, true
}

func (d Date) HasYear() bool { return d.Year != 0 }

// DayMonth formats the date as "DD/MM".
func (d Date) DayMonth() string {
	return fmt.Sprintf("%02d/%02d", d.Day, d.Month)
}

// SameDay reports whether both dates fall on the same day and month, ignoring years.
func (d Date) SameDay(o Date) bool {
	return d.Day == o.Day && d.Month == o.Month
}

// CompareDates orders a before b (-1), after b (1) or equal (0).
// With withYear unset the year is elided and only (month, day) count: two dates from different
// years on the same day compare equal. Callers pass withYear only when every compared date has a year,
// which keeps the order transitive.
func CompareDates(a, b Date, withYear bool) int {
	if withYear && a.Year != b.Year {
		return compareInt(a.Year, b.Year)
	}
	if a.Month != b.Month {
		return compareInt(a.Month, b.Month)
	}
	return compareInt(a.Day, b.Day)
}

func compareInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
