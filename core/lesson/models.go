package lesson

import (
	"sort"
	"strconv"

	"github.com/adrodovia/portal/core"
)

// Material types.
const (
	TypeTeacher = "professor"
	TypeStudent = "aluno"
)

// Lesson is one lesson material (magazine) as listed by the API.
type Lesson struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Theme      string `json:"theme"`
	Type       string `json:"type"`
	Class      string `json:"class"`
	CoverImage string `json:"coverImage"`
	DriveLink  string `json:"driveLink"`
	Trimester  int    `json:"trimester"`
}

// Grouped maps a trimester to its lessons, in their original relative order.
type Grouped map[int][]Lesson

// Trimesters returns the keys of g in ascending order.
func (g Grouped) Trimesters() []int {
	keys := make([]int, 0, len(g))
	for k := range g {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

// FilterByTrimester keeps the lessons of the selected trimester. "all" keeps everything.
func FilterByTrimester(lessons []Lesson, selected string) []Lesson {
	if selected == core.TrimesterAll {
		return lessons
	}
	filtered := make([]Lesson, 0, len(lessons))
	for _, l := range lessons {
		if strconv.Itoa(l.Trimester) == selected {
			filtered = append(filtered, l)
		}
	}
	return filtered
}

func GroupByTrimester(lessons []Lesson) Grouped {
	grouped := make(Grouped)
	for _, l := range lessons {
		grouped[l.Trimester] = append(grouped[l.Trimester], l)
	}
	return grouped
}

// HasMaterial reports whether link points somewhere. The API writes "undefined" for missing links.
func HasMaterial(link string) bool {
	link = core.CleanString(link)
	return link != "" && link != "undefined"
}
