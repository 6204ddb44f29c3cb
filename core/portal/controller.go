package portal

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/adrodovia/portal/core"
	"github.com/adrodovia/portal/core/agenda"
	"github.com/adrodovia/portal/core/lesson"
	"github.com/adrodovia/portal/core/media"
	"github.com/adrodovia/portal/core/member"
	"github.com/adrodovia/portal/core/schedule"
)

// overviewWorkers bounds the concurrent schedule fetches of the weekly overview.
const overviewWorkers = 4

// ErrOverviewUnavailable is returned when no class schedule could be loaded for the overview.
var ErrOverviewUnavailable = errors.New("no class schedule could be loaded")

// API is the remote church API.
type API interface {
	FetchSchedule(ctx context.Context, class string) (schedule.Response, error)
	FetchLessons(ctx context.Context) ([]lesson.Lesson, error)
	FetchVideos(ctx context.Context) ([]media.Video, error)
	FetchLibrary(ctx context.Context) ([]media.LibraryItem, error)
	FetchMembers(ctx context.Context) ([]member.Record, error)
	FetchPastorAgenda(ctx context.Context) ([]agenda.Event, error)
	FetchChurchAgenda(ctx context.Context) (agenda.ChurchData, error)
}

// View is a State ready to be rendered.
type View struct {
	State State
	// Err is the API error of the load, rendered inline.
	Err error
	// Stale is set when a newer request of the same viewer superseded this one.
	// The view still renders its own data but was not committed.
	Stale bool
}

// Controller applies viewer events and runs the loads they require.
type Controller struct {
	api    API
	store  *Store
	logger core.Logger
}

func NewController(api API, store *Store, logger core.Logger) *Controller {
	return &Controller{api: api, store: store, logger: logger}
}

// Apply runs event against the viewer's state, loads what the resulting tab is missing and commits the result.
// API errors never escape: they are logged and returned in the View.
func (c *Controller) Apply(ctx context.Context, viewer string, event func(State) State) View {
	st := c.store.Begin(viewer, event)

	st, err := c.load(ctx, st)
	view := View{State: st, Err: err}
	if err != nil {
		c.logger.Error(err.Error(), err, map[string]interface{}{"tab": st.Tab, "class": st.Class})
	}

	if err := c.store.Commit(viewer, st); err != nil {
		c.logger.Debug("discarding stale response", map[string]interface{}{"viewer": viewer, "generation": st.Generation})
		view.Stale = true
	}
	return view
}

func (c *Controller) load(ctx context.Context, st State) (State, error) {
	switch st.Tab {
	case TabScale:
		if st.NoClass() || st.Schedule != nil {
			return st, nil
		}
		resp, err := c.api.FetchSchedule(ctx, st.Class)
		if err != nil {
			return st.WithSchedule(nil), errors.Wrap(err, "loading schedule")
		}
		return st.WithSchedule(&resp), nil

	case TabLessons:
		if len(st.Lessons) > 0 {
			return st, nil
		}
		lessons, err := c.api.FetchLessons(ctx)
		if err != nil {
			return st, errors.Wrap(err, "loading lessons")
		}
		return st.WithLessons(lessons), nil

	case TabVideos:
		if len(st.Videos) > 0 {
			return st, nil
		}
		videos, err := c.api.FetchVideos(ctx)
		if err != nil {
			return st, errors.Wrap(err, "loading videos")
		}
		return st.WithVideos(videos), nil

	case TabLibrary:
		if len(st.Library) > 0 {
			return st, nil
		}
		items, err := c.api.FetchLibrary(ctx)
		if err != nil {
			return st, errors.Wrap(err, "loading library")
		}
		return st.WithLibrary(items), nil
	}
	return st, nil
}

// Overview is the general view of the coming Sunday: one row per class that has a lesson on that day.
type Overview struct {
	Date string // DD/MM
	Rows []schedule.OverviewRow
}

// Overview fetches the schedule of every class concurrently and keeps their lesson of the coming Sunday.
// Classes whose schedule fails to load are skipped; ErrOverviewUnavailable is returned only when all of them fail.
func (c *Controller) Overview(ctx context.Context, classes []string, now time.Time) (Overview, error) {
	ov := Overview{Date: schedule.NextSunday(now)}

	var (
		mu     sync.Mutex
		failed int
	)
	g := new(errgroup.Group)
	g.SetLimit(overviewWorkers)
	for _, class := range classes {
		class := class
		if class == "" || class == core.ClassesSentinel {
			continue
		}
		g.Go(func() error {
			resp, err := c.api.FetchSchedule(ctx, class)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failed++
				c.logger.Warn("overview: skipping class", err, map[string]interface{}{"class": class})
				return nil
			}
			if item, ok := schedule.FirstOn(schedule.Flatten(resp, class), ov.Date); ok {
				ov.Rows = append(ov.Rows, schedule.OverviewRow{Class: class, Item: item})
			}
			return nil
		})
	}
	_ = g.Wait()

	if failed > 0 && failed == countClasses(classes) {
		return ov, ErrOverviewUnavailable
	}
	schedule.SortOverview(ov.Rows)
	return ov, nil
}

func countClasses(classes []string) int {
	var n int
	for _, class := range classes {
		if class != "" && class != core.ClassesSentinel {
			n++
		}
	}
	return n
}

// Schedule loads the grouped schedule of class for trimester, outside of any viewer state.
func (c *Controller) Schedule(ctx context.Context, class, trimester string) ([]*schedule.Group, error) {
	if class == "" || class == core.ClassesSentinel {
		return nil, core.NewArgumentError("a class is required")
	}
	resp, err := c.api.FetchSchedule(ctx, class)
	if err != nil {
		c.logger.Error(err.Error(), err, map[string]interface{}{"class": class})
		return nil, errors.Wrap(err, "loading schedule")
	}
	st := NewState().SelectClass(class).SelectTrimester(trimester).WithSchedule(&resp)
	return st.Groups(), nil
}
