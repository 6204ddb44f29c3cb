package schedule

import (
	"strconv"

	"github.com/adrodovia/portal/core"
)

// DefaultTheme is the general theme of a group with no entry in the ThemeMap.
const DefaultTheme = "Tema do Trimestre"

// Trimesters lists the trimester numbers, in the order they are flattened.
var Trimesters = [...]int{1, 2, 3, 4}

type (
	// RawLesson is one teacher assignment row as sent by the schedule API.
	RawLesson struct {
		Date      core.Text `json:"DATA"`
		Teacher   core.Text `json:"PROFESSOR"`
		Lesson    core.Text `json:"LIÇÃO"`
		Theme     core.Text `json:"TEMA"`
		Trimester core.Text `json:"TRIMESTRE,omitempty"`
	}

	// ThemeEntry holds the general theme of a class for one trimester.
	// Trimester may carry trailing text, eg: "1 Trimestre".
	ThemeEntry struct {
		Trimester core.Text `json:"TRIMESTRE"`
		Class     core.Text `json:"CLASSE"`
		Theme     core.Text `json:"TEMA"`
	}

	// Response is the schedule of one class, as returned by the API.
	Response struct {
		Class      string       `json:"classe"`
		Year       int          `json:"year,omitempty"` // current year of the schedule
		Themes     []ThemeEntry `json:"temas"`
		Trimester1 []RawLesson  `json:"trimestre_1"`
		Trimester2 []RawLesson  `json:"trimestre_2"`
		Trimester3 []RawLesson  `json:"trimestre_3"`
		Trimester4 []RawLesson  `json:"trimestre_4"`
	}

	// Item is a flattened RawLesson.
	// LessonNumber is the 1-based position of the row within its trimester, never derived from Date.
	Item struct {
		ID           string `json:"id"`
		Date         string `json:"date"`
		Teacher      string `json:"teacher"`
		Lesson       string `json:"lesson"`
		LessonNumber int    `json:"lessonNumber"`
		Trimester    int    `json:"trimester"`
		Theme        string `json:"theme"`
		Class        string `json:"class"`
		Year         int    `json:"year,omitempty"` // year of the schedule, 0 when unknown
	}

	// Group gathers the items of one trimester of one class.
	Group struct {
		Key       string `json:"key"`
		Trimester int    `json:"trimester"`
		Class     string `json:"class"`
		Theme     string `json:"theme"` // general theme
		Lessons   []Item `json:"lessons"`
	}
)

// Trimester returns the raw rows of trimester n. Unknown trimesters are empty.
func (r Response) Trimester(n int) []RawLesson {
	switch n {
	case 1:
		return r.Trimester1
	case 2:
		return r.Trimester2
	case 3:
		return r.Trimester3
	case 4:
		return r.Trimester4
	}
	return nil
}

// Key returns the "trimester-class" key shared by groups and the ThemeMap.
func Key(trimester int, class string) string {
	return strconv.Itoa(trimester) + "-" + class
}
