package portal

import (
	"github.com/adrodovia/portal/core"
	"github.com/adrodovia/portal/core/lesson"
	"github.com/adrodovia/portal/core/media"
	"github.com/adrodovia/portal/core/schedule"
)

// Tab is a section of the EBD page.
type Tab string

const (
	TabScale   Tab = "scale"
	TabLessons Tab = "lessons"
	TabVideos  Tab = "videos"
	TabLibrary Tab = "library"
)

// Tabs lists the tabs in display order.
var Tabs = []Tab{TabScale, TabLessons, TabVideos, TabLibrary}

func (t Tab) Valid() bool {
	for _, tab := range Tabs {
		if t == tab {
			return true
		}
	}
	return false
}

// State is what one viewer sees on the EBD page.
// A State is never modified in place: event methods return an updated copy,
// and the slices and maps it holds are shared read-only between copies.
type State struct {
	Tab       Tab
	Trimester string
	Class     string

	// Schedule is the cached response for Class. nil until loaded, and after a failed load.
	Schedule *schedule.Response
	Themes   schedule.ThemeMap
	Lessons  []lesson.Lesson
	Videos   []media.Video
	Library  []media.LibraryItem

	// Generation is the request generation the state was issued under.
	Generation uint64
}

// NewState returns the landing state: schedule tab, every trimester, no class selected.
func NewState() State {
	return State{
		Tab:       TabScale,
		Trimester: core.TrimesterAll,
		Class:     core.ClassesSentinel,
	}
}

// SwitchTab moves to tab. Unknown tabs are ignored.
func (s State) SwitchTab(tab Tab) State {
	if tab.Valid() {
		s.Tab = tab
	}
	return s
}

// SelectTrimester changes the trimester filter. Cached data is kept since filtering is local.
func (s State) SelectTrimester(trimester string) State {
	if core.IsTrimester(trimester) || trimester == media.TrimesterMisc {
		s.Trimester = trimester
	}
	return s
}

// SelectClass changes the class of the schedule. Choosing another class, or none, drops the cached schedule.
func (s State) SelectClass(class string) State {
	class = core.CleanString(class)
	if class == "" {
		class = core.ClassesSentinel
	}
	if class != s.Class || class == core.ClassesSentinel {
		s.Schedule = nil
		s.Themes = nil
	}
	s.Class = class
	return s
}

// NoClass reports whether the schedule has no class to show.
func (s State) NoClass() bool {
	return s.Class == core.ClassesSentinel
}

// WithSchedule caches resp and its theme map. A nil resp clears both.
func (s State) WithSchedule(resp *schedule.Response) State {
	s.Schedule = resp
	s.Themes = nil
	if resp != nil {
		s.Themes = schedule.BuildThemeMap(resp.Themes)
	}
	return s
}

func (s State) WithLessons(lessons []lesson.Lesson) State {
	s.Lessons = lessons
	return s
}

func (s State) WithVideos(videos []media.Video) State {
	s.Videos = videos
	return s
}

func (s State) WithLibrary(items []media.LibraryItem) State {
	s.Library = items
	return s
}

// ScheduleItems returns every item of the cached schedule, unfiltered.
func (s State) ScheduleItems() []schedule.Item {
	if s.Schedule == nil {
		return nil
	}
	return schedule.Flatten(*s.Schedule, s.Class)
}

// Groups runs the schedule pipeline for the current filters.
func (s State) Groups() []*schedule.Group {
	items := schedule.FilterByTrimester(s.ScheduleItems(), s.scheduleTrimester())
	return schedule.GroupItems(items, s.Themes).Sorted()
}

// LessonGroups runs the lesson pipeline for the current filters.
func (s State) LessonGroups() lesson.Grouped {
	return lesson.GroupByTrimester(lesson.FilterByTrimester(s.Lessons, s.scheduleTrimester()))
}

func (s State) FilteredVideos() []media.Video {
	return media.FilterVideos(s.Videos, s.Trimester)
}

// "diversos" only applies to videos; schedules and lessons fall back to every trimester.
func (s State) scheduleTrimester() string {
	if s.Trimester == media.TrimesterMisc {
		return core.TrimesterAll
	}
	return s.Trimester
}
