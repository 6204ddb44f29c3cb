package schedule

import (
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/adrodovia/portal/core"
)

// ThemeMap maps "trimester-class" keys to the general theme of the group.
type ThemeMap map[string]string

// Get returns the general theme for key, or DefaultTheme.
func (m ThemeMap) Get(key string) string {
	if theme, ok := m[key]; ok {
		return theme
	}
	return DefaultTheme
}

// Groups maps "trimester-class" keys to their Group.
type Groups map[string]*Group

// Sorted returns the groups ordered by trimester, then class.
func (g Groups) Sorted() []*Group {
	out := make([]*Group, 0, len(g))
	for _, grp := range g {
		out = append(out, grp)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Trimester != out[j].Trimester {
			return out[i].Trimester < out[j].Trimester
		}
		return out[i].Class < out[j].Class
	})
	return out
}

// TrimesterToken normalizes a trimester cell to its leading numeric token: "1 Trimestre" -> "1", "2º" -> "2".
// Cells with no leading digits keep their first word.
func TrimesterToken(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	tok := fields[0]
	end := strings.IndexFunc(tok, func(r rune) bool { return !unicode.IsDigit(r) })
	if end <= 0 {
		return tok
	}
	return tok[:end]
}

// BuildThemeMap indexes the general themes by "trimester-class". Later duplicates win.
func BuildThemeMap(entries []ThemeEntry) ThemeMap {
	themes := make(ThemeMap, len(entries))
	for _, e := range entries {
		themes[TrimesterToken(e.Trimester.String())+"-"+e.Class.String()] = e.Theme.String()
	}
	return themes
}

// Flatten turns the per-trimester rows into items, trimesters 1 to 4 in order and rows in their original order.
// Rows missing a date or a teacher are skipped but still consume their lesson number.
// fallbackClass is used when the response does not name its class. Items carry the year of the response.
func Flatten(resp Response, fallbackClass string) []Item {
	class := resp.Class
	if class == "" {
		class = fallbackClass
	}

	items := make([]Item, 0)
	for _, trimester := range Trimesters {
		for i, raw := range resp.Trimester(trimester) {
			if raw.Date == "" || raw.Teacher == "" {
				continue
			}
			items = append(items, Item{
				ID:           strconv.Itoa(trimester) + "-" + strconv.Itoa(i),
				Date:         raw.Date.String(),
				Teacher:      raw.Teacher.String(),
				Lesson:       raw.Lesson.String(),
				LessonNumber: i + 1,
				Trimester:    trimester,
				Theme:        raw.Theme.String(),
				Class:        class,
				Year:         resp.Year,
			})
		}
	}
	return items
}

// FilterByTrimester keeps the items of the selected trimester. "all" keeps everything.
func FilterByTrimester(items []Item, selected string) []Item {
	if selected == core.TrimesterAll {
		return items
	}
	filtered := make([]Item, 0, len(items))
	for _, item := range items {
		if strconv.Itoa(item.Trimester) == selected {
			filtered = append(filtered, item)
		}
	}
	return filtered
}

// GroupItems partitions items by "trimester-class" and sorts each group's lessons by date.
func GroupItems(items []Item, themes ThemeMap) Groups {
	groups := make(Groups)
	for _, item := range items {
		key := Key(item.Trimester, item.Class)
		grp, ok := groups[key]
		if !ok {
			grp = &Group{
				Key:       key,
				Trimester: item.Trimester,
				Class:     item.Class,
				Theme:     themes.Get(key),
			}
			groups[key] = grp
		}
		grp.Lessons = append(grp.Lessons, item)
	}
	for _, grp := range groups {
		SortByDate(grp.Lessons)
	}
	return groups
}

// SortByDate stably sorts items by ascending date.
// A date written without a year takes the year of its item, when known.
// Years are only compared when every date then has one; otherwise all years are elided.
func SortByDate(items []Item) {
	type dated struct {
		item Item
		date Date
	}
	withYear := len(items) > 0
	sorted := make([]dated, len(items))
	for i, item := range items {
		d, ok := ParseDate(item.Date)
		if ok && !d.HasYear() {
			d.Year = item.Year
		}
		sorted[i] = dated{item: item, date: d}
		if !d.HasYear() {
			withYear = false
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return CompareDates(sorted[i].date, sorted[j].date, withYear) < 0
	})
	for i := range sorted {
		items[i] = sorted[i].item
	}
}
