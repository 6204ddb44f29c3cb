package member

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Stats counts the members of the church by role.
type Stats struct {
	Congregados int `json:"congregados"`
	Membros     int `json:"membros"`
	Admins      int `json:"admins"`
}

func CountStats(records []Record) Stats {
	var s Stats
	for _, r := range records {
		switch role := strings.ToUpper(strings.TrimSpace(r.Get(KeyRole))); role {
		case RoleCongregado:
			s.Congregados++
		case RoleMember:
			s.Membros++
		case RoleAdmin, RoleSecretaria, RolePastor:
			s.Admins++
		}
	}
	return s
}

// Birthday is a member whose birthday falls in the looked up window.
type Birthday struct {
	Member Record
	Day    string // DD/MM
	next   time.Time
}

// Birthdays returns the members whose next birthday falls within days from now (inclusive), soonest first.
// NASCIMENTO may be DD/MM[/YYYY] or YYYY-MM-DD; anything else is ignored.
func Birthdays(records []Record, now time.Time, days int) []Birthday {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	limit := today.AddDate(0, 0, days)

	var out []Birthday
	for _, r := range records {
		day, month, ok := birthDayMonth(r.Get("NASCIMENTO"))
		if !ok {
			continue
		}
		next := time.Date(today.Year(), time.Month(month), day, 0, 0, 0, 0, today.Location())
		if next.Before(today) {
			next = next.AddDate(1, 0, 0)
		}
		if next.After(limit) {
			continue
		}
		out = append(out, Birthday{Member: r, Day: fmt.Sprintf("%02d/%02d", day, month), next: next})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].next.Before(out[j].next) })
	return out
}

func birthDayMonth(s string) (day, month int, ok bool) {
	s = strings.TrimSpace(s)
	var d, m string
	switch {
	case strings.Contains(s, "/"):
		parts := strings.Split(s, "/")
		d, m = parts[0], parts[1]
	case strings.Contains(s, "-"):
		parts := strings.Split(s, "-")
		if len(parts) < 3 {
			return 0, 0, false
		}
		d, m = parts[2], parts[1]
		if i := strings.IndexByte(d, 'T'); i > 0 {
			d = d[:i]
		}
	default:
		return 0, 0, false
	}
	day, err := strconv.Atoi(strings.TrimSpace(d))
	if err != nil || day < 1 || day > 31 {
		return 0, 0, false
	}
	month, err = strconv.Atoi(strings.TrimSpace(m))
	if err != nil || month < 1 || month > 12 {
		return 0, 0, false
	}
	return day, month, true
}
