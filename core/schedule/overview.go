package schedule

import (
	"sort"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// OverviewRow is the lesson of one class on the overview's target date.
type OverviewRow struct {
	Class string `json:"className"`
	Item  Item   `json:"item"`
}

// NextSunday returns the coming Sunday (today if today is Sunday) as "DD/MM".
func NextSunday(now time.Time) string {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	days := (7 - int(today.Weekday())) % 7
	sunday := today.AddDate(0, 0, days)
	return Date{Day: sunday.Day(), Month: int(sunday.Month())}.DayMonth()
}

// ItemsOn returns the items scheduled on the given "DD/MM" date, whatever their year.
func ItemsOn(items []Item, date string) []Item {
	target, ok := ParseDate(date)
	if !ok {
		return nil
	}
	var matches []Item
	for _, item := range items {
		if d, ok := ParseDate(item.Date); ok && d.SameDay(target) {
			matches = append(matches, item)
		}
	}
	return matches
}

// FirstOn returns the first item scheduled on date.
func FirstOn(items []Item, date string) (Item, bool) {
	if matches := ItemsOn(items, date); len(matches) > 0 {
		return matches[0], true
	}
	return Item{}, false
}

// SortOverview orders rows by class name, using portuguese collation.
func SortOverview(rows []OverviewRow) {
	col := collate.New(language.BrazilianPortuguese, collate.IgnoreCase)
	sort.SliceStable(rows, func(i, j int) bool {
		return col.CompareString(rows[i].Class, rows[j].Class) < 0
	})
}
