package echoportal

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/adrodovia/portal/apps/portal/render"
	"github.com/adrodovia/portal/core/lesson"
	"github.com/adrodovia/portal/core/portal"
	"github.com/adrodovia/portal/services/export"
	"github.com/adrodovia/portal/services/metrics"
)

var tabTitles = map[portal.Tab]string{
	portal.TabScale:   "Escala",
	portal.TabLessons: "Lições",
	portal.TabVideos:  "Vídeos",
	portal.TabLibrary: "Acervo",
}

// ebd serves a tab of the EBD page, applying the class and trimester filters found in the query.
func (s *Server) ebd(tab portal.Tab) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		view := s.apply(ctx, ebdEvent(ctx, tab))
		return s.renderEBD(ctx, view, "")
	}
}

func (s *Server) apply(ctx echo.Context, event func(portal.State) portal.State) portal.View {
	view := s.Controller.Apply(ctx.Request().Context(), contextViewer(ctx), event)
	if view.Stale {
		metrics.StaleResponses.Inc()
	}
	return view
}

func (s *Server) renderEBD(ctx echo.Context, view portal.View, alert string) error {
	page := s.page(ctx, tabTitles[view.State.Tab], render.TabPath(view.State.Tab))
	page.Alert = alert
	return ctx.Render(http.StatusOK, render.PageEBD, render.EBD(page, view, s.Conf.Classes, s.now()))
}

func (s *Server) page(ctx echo.Context, title, current string) render.Page {
	return render.NewPage(s.Conf.AppName, title, s.sessionUser(ctx), current)
}

// overview shows the lesson of every class on the coming Sunday.
func (s *Server) overview(ctx echo.Context) error {
	view := portal.View{State: s.Store.Get(contextViewer(ctx)).SwitchTab(portal.TabScale)}
	p := render.EBD(s.page(ctx, "Visão geral", render.OverviewPath), view, s.Conf.Classes, s.now())
	p.Path = render.OverviewPath
	p.ExportURL = ""
	p.Highlight = ""

	ov, err := s.Controller.Overview(ctx.Request().Context(), s.Conf.Classes, s.now())
	if err != nil {
		p.Content = render.Error("visão geral", err)
	} else {
		p.Content = render.Overview(ov)
	}
	return ctx.Render(http.StatusOK, render.PageEBD, p)
}

// exportSchedule writes the filtered schedule of a class as a spreadsheet.
func (s *Server) exportSchedule(ctx echo.Context) error {
	var q exportQuery
	if err := ctx.Bind(&q); err != nil {
		return errors.Wrap(err, "binding to exportQuery")
	}
	if err := q.Validate(s.Validate); err != nil {
		return err
	}

	groups, err := s.Controller.Schedule(ctx.Request().Context(), q.Class, q.Trimester)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, render.ErrorMessage("escala", err)).SetInternal(err)
	}

	res := ctx.Response()
	res.Header().Set(echo.HeaderContentType, export.ContentType)
	res.Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+export.Filename(q.Class)+`"`)
	res.WriteHeader(http.StatusOK)
	return errors.Wrap(export.WriteSchedule(res, groups), "writing schedule")
}

// openLesson sends the browser to the material of a lesson. Lessons without material
// stay on the lessons page with an alert.
func (s *Server) openLesson(ctx echo.Context) error {
	view := s.apply(ctx, func(st portal.State) portal.State { return st.SwitchTab(portal.TabLessons) })
	if view.Err != nil {
		return s.renderEBD(ctx, view, "")
	}

	id := ctx.QueryParam(paramLesson)
	var found *lesson.Lesson
	for i := range view.State.Lessons {
		if view.State.Lessons[i].ID == id {
			found = &view.State.Lessons[i]
			break
		}
	}
	if found == nil {
		return errHttpNotFound
	}

	if link, ok := render.OpenLesson(found.DriveLink); ok {
		return ctx.Redirect(http.StatusSeeOther, link)
	}
	return s.renderEBD(ctx, view, render.MaterialUnavailable)
}
