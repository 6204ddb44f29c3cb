package portal

import (
	"context"
	"sync"

	"github.com/adrodovia/portal/core/agenda"
	"github.com/adrodovia/portal/core/lesson"
	"github.com/adrodovia/portal/core/media"
	"github.com/adrodovia/portal/core/member"
	"github.com/adrodovia/portal/core/schedule"
)

// APIMock is an in-memory API. Err, when set, fails every call; ScheduleErrs fails single classes.
type APIMock struct {
	Schedules    map[string]schedule.Response
	ScheduleErrs map[string]error
	Lessons      []lesson.Lesson
	Videos       []media.Video
	Library      []media.LibraryItem
	Members      []member.Record
	PastorEvents []agenda.Event
	Church       agenda.ChurchData
	Err          error

	// OnSchedule, when set, runs inside FetchSchedule before it returns.
	OnSchedule func(class string)

	mu    sync.Mutex
	calls map[string]int
}

var _ API = (*APIMock)(nil)

func NewAPIMock() *APIMock {
	return &APIMock{
		Schedules:    make(map[string]schedule.Response),
		ScheduleErrs: make(map[string]error),
		calls:        make(map[string]int),
	}
}

// Calls returns how many times op (eg: "FetchSchedule") was called.
func (m *APIMock) Calls(op string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[op]
}

func (m *APIMock) called(op string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls[op]++
	return m.Err
}

func (m *APIMock) FetchSchedule(_ context.Context, class string) (schedule.Response, error) {
	if err := m.called("FetchSchedule"); err != nil {
		return schedule.Response{}, err
	}
	if m.OnSchedule != nil {
		m.OnSchedule(class)
	}
	if err := m.ScheduleErrs[class]; err != nil {
		return schedule.Response{}, err
	}
	return m.Schedules[class], nil
}

func (m *APIMock) FetchLessons(context.Context) ([]lesson.Lesson, error) {
	return m.Lessons, m.called("FetchLessons")
}

func (m *APIMock) FetchVideos(context.Context) ([]media.Video, error) {
	return m.Videos, m.called("FetchVideos")
}

func (m *APIMock) FetchLibrary(context.Context) ([]media.LibraryItem, error) {
	return m.Library, m.called("FetchLibrary")
}

func (m *APIMock) FetchMembers(context.Context) ([]member.Record, error) {
	return m.Members, m.called("FetchMembers")
}

func (m *APIMock) FetchPastorAgenda(context.Context) ([]agenda.Event, error) {
	return m.PastorEvents, m.called("FetchPastorAgenda")
}

func (m *APIMock) FetchChurchAgenda(context.Context) (agenda.ChurchData, error) {
	return m.Church, m.called("FetchChurchAgenda")
}
