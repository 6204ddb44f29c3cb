// Package agenda handles the pastor's appointments and the church calendar.
package agenda

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/adrodovia/portal/core/member"
)

// noTime sorts events without a time after every timed event of the same day.
const noTime = 9999

// Event is an agenda row. The pastor's agenda uses upper-case keys while the church calendar
// uses lower-case ones, and start times come as HORARIO, HORARIO_INICIO or inicio.
type Event struct {
	ID     string `json:"id,omitempty"`
	Title  string `json:"evento"`
	Date   string `json:"data"` // DD/MM/YYYY
	Time   string `json:"horario,omitempty"`
	End    string `json:"fim,omitempty"`
	Place  string `json:"local,omitempty"`
	Pastor string `json:"pastor,omitempty"`
	Note   string `json:"observacao,omitempty"`
}

// ChurchData is the church calendar payload.
type ChurchData struct {
	Agenda       []Event `json:"agenda"`
	Reservations []Event `json:"reservas"`
}

func (e *Event) UnmarshalJSON(data []byte) error {
	var r member.Record
	if err := json.Unmarshal(data, &r); err != nil {
		return err
	}
	*e = FromRecord(r)
	return nil
}

// FromRecord maps a loosely keyed row to an Event.
func FromRecord(r member.Record) Event {
	first := func(keys ...string) string {
		for _, k := range keys {
			if v := strings.TrimSpace(r.Get(k)); v != "" {
				return v
			}
		}
		return ""
	}
	return Event{
		ID:     first("ID"),
		Title:  first("EVENTO", "TITULO"),
		Date:   first("DATA"),
		Time:   first("HORARIO", "HORARIO_INICIO", "INICIO"),
		End:    first("HORARIO_FIM", "FIM"),
		Place:  first("LOCAL"),
		Pastor: first("PASTOR"),
		Note:   first("OBSERVACAO"),
	}
}

// Valid reports whether the event has a title and a date.
func (e Event) Valid() bool {
	return e.Title != "" && e.Date != ""
}

// Day parses Date. ok is false unless it is a full DD/MM/YYYY date.
func (e Event) Day(loc *time.Location) (day time.Time, ok bool) {
	parts := strings.Split(e.Date, "/")
	if len(parts) != 3 {
		return time.Time{}, false
	}
	var nums [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return time.Time{}, false
		}
		nums[i] = n
	}
	return time.Date(nums[2], time.Month(nums[1]), nums[0], 0, 0, 0, 0, loc), true
}

// Minutes returns the start time as minutes of the day, or 9999 when missing.
func (e Event) Minutes() int {
	parts := strings.Split(e.Time, ":")
	if len(parts) < 2 {
		return noTime
	}
	h, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return noTime
	}
	m, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return noTime
	}
	return h*60 + m
}

// SortByDateTime sorts events by day, then start time. Undated events come first.
func SortByDateTime(events []Event) {
	sort.SliceStable(events, func(i, j int) bool {
		di, _ := events[i].Day(time.UTC)
		dj, _ := events[j].Day(time.UTC)
		if !di.Equal(dj) {
			return di.Before(dj)
		}
		return events[i].Minutes() < events[j].Minutes()
	})
}

// InNextDays keeps the valid events dated from today up to days ahead (inclusive).
func InNextDays(events []Event, now time.Time, days int) []Event {
	today := startOfDay(now)
	limit := today.AddDate(0, 0, days)
	return filter(events, func(e Event) bool {
		d, ok := e.Day(now.Location())
		return e.Valid() && ok && !d.Before(today) && !d.After(limit)
	})
}

// Upcoming keeps the events dated today or later.
func Upcoming(events []Event, now time.Time) []Event {
	today := startOfDay(now)
	return filter(events, func(e Event) bool {
		d, ok := e.Day(now.Location())
		return ok && !d.Before(today)
	})
}

// ForPastor keeps the events whose PASTOR field mentions name.
func ForPastor(events []Event, name string) []Event {
	return filter(events, func(e Event) bool {
		return strings.Contains(e.Pastor, name)
	})
}

// Search keeps the valid events whose title or place contains term, case-insensitively.
func Search(events []Event, term string) []Event {
	term = strings.ToLower(strings.TrimSpace(term))
	return filter(events, func(e Event) bool {
		return e.Valid() && (strings.Contains(strings.ToLower(e.Title), term) || strings.Contains(strings.ToLower(e.Place), term))
	})
}

func filter(events []Event, keep func(Event) bool) []Event {
	out := make([]Event, 0, len(events))
	for _, e := range events {
		if keep(e) {
			out = append(out, e)
		}
	}
	return out
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
