package portal

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/adrodovia/portal/core/agenda"
	"github.com/adrodovia/portal/core/member"
)

// DashboardDays is the look-ahead window of the dashboards.
const DashboardDays = 7

// PastorDashboard is the landing page of a pastor.
type PastorDashboard struct {
	Stats      member.Stats
	MyWeek     []agenda.Event
	ChurchWeek []agenda.Event
	Birthdays  []member.Birthday
}

// PastorDashboard loads the members and both agendas concurrently. Any failure fails the whole dashboard.
func (c *Controller) PastorDashboard(ctx context.Context, user member.Record, now time.Time) (PastorDashboard, error) {
	var (
		members []member.Record
		mine    []agenda.Event
		church  agenda.ChurchData
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		members, err = c.api.FetchMembers(gctx)
		return errors.Wrap(err, "loading members")
	})
	g.Go(func() (err error) {
		mine, err = c.api.FetchPastorAgenda(gctx)
		return errors.Wrap(err, "loading pastor agenda")
	})
	g.Go(func() (err error) {
		church, err = c.api.FetchChurchAgenda(gctx)
		return errors.Wrap(err, "loading church agenda")
	})
	if err := g.Wait(); err != nil {
		c.logger.Error(err.Error(), err, user)
		return PastorDashboard{}, err
	}

	dash := PastorDashboard{
		Stats:      member.CountStats(members),
		MyWeek:     agenda.InNextDays(agenda.ForPastor(mine, user.Name()), now, DashboardDays),
		ChurchWeek: agenda.InNextDays(church.Agenda, now, DashboardDays),
		Birthdays:  member.Birthdays(members, now, DashboardDays),
	}
	agenda.SortByDateTime(dash.MyWeek)
	agenda.SortByDateTime(dash.ChurchWeek)
	return dash, nil
}

// MyAgenda returns the pastor's own events from today on.
func (c *Controller) MyAgenda(ctx context.Context, user member.Record, now time.Time) ([]agenda.Event, error) {
	events, err := c.api.FetchPastorAgenda(ctx)
	if err != nil {
		c.logger.Error(err.Error(), err, user)
		return nil, errors.Wrap(err, "loading pastor agenda")
	}
	events = agenda.Upcoming(agenda.ForPastor(events, user.Name()), now)
	agenda.SortByDateTime(events)
	return events, nil
}

// PastorAgenda returns the whole pastor agenda, for the secretaria.
func (c *Controller) PastorAgenda(ctx context.Context, user member.Record) ([]agenda.Event, error) {
	events, err := c.api.FetchPastorAgenda(ctx)
	if err != nil {
		c.logger.Error(err.Error(), err, user)
		return nil, errors.Wrap(err, "loading pastor agenda")
	}
	agenda.SortByDateTime(events)
	return events, nil
}

// ChurchAgenda returns the church events matching term (every event when blank), by date.
func (c *Controller) ChurchAgenda(ctx context.Context, user member.Record, term string) ([]agenda.Event, error) {
	data, err := c.api.FetchChurchAgenda(ctx)
	if err != nil {
		c.logger.Error(err.Error(), err, user)
		return nil, errors.Wrap(err, "loading church agenda")
	}
	events := agenda.Search(data.Agenda, term)
	agenda.SortByDateTime(events)
	return events, nil
}

// Members returns the member directory without the fields that must never be displayed.
func (c *Controller) Members(ctx context.Context, user member.Record) ([]member.Record, error) {
	records, err := c.api.FetchMembers(ctx)
	if err != nil {
		c.logger.Error(err.Error(), err, user)
		return nil, errors.Wrap(err, "loading members")
	}
	public := make([]member.Record, len(records))
	for i, r := range records {
		public[i] = r.Public()
	}
	return public, nil
}
