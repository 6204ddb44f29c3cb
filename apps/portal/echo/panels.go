package echoportal

import (
	"html/template"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/adrodovia/portal/apps/portal/render"
	"github.com/adrodovia/portal/core"
	"github.com/adrodovia/portal/core/agenda"
	"github.com/adrodovia/portal/core/member"
	"github.com/adrodovia/portal/core/portal"
)

// Panel screens, selected by the "tela" query parameter.
const (
	screenHome    = ""
	screenMembers = "membros"
	screenAgenda  = "agenda"
)

func (s *Server) loginPage(ctx echo.Context) error {
	if usr := s.sessionUser(ctx); usr != nil {
		return ctx.Redirect(http.StatusSeeOther, member.DashboardPath(usr.Role()))
	}
	return ctx.Render(http.StatusOK, render.PageLogin, render.LoginPage{
		Page:     render.NewPage(s.Conf.AppName, "Entrar", nil, loginPath),
		LoginURL: s.Conf.API.BaseURL + "/api/login",
	})
}

// createSession stores what the remote login returned and tells the browser where to go next.
func (s *Server) createSession(ctx echo.Context) error {
	var login member.Login
	if err := ctx.Bind(&login); err != nil {
		return errors.Wrap(err, "binding to Login")
	}
	if err := login.Validate(s.Validate); err != nil {
		if err == member.ErrMissingSession {
			return errInvalidSession
		}
		return err
	}
	if err := s.setSession(ctx, login); err != nil {
		return errors.Wrap(err, "setting session")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"redirect": member.DashboardPath(login.User.Role())})
}

func (s *Server) logout(ctx echo.Context) error {
	s.clearSession(ctx)
	s.Store.Delete(contextViewer(ctx))
	return ctx.Redirect(http.StatusSeeOther, loginPath)
}

// portalHome dispatches to the dashboard of the user's role.
func (s *Server) portalHome(ctx echo.Context) error {
	usr, err := contextUser(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	return ctx.Redirect(http.StatusSeeOther, member.DashboardPath(usr.Role()))
}

func (s *Server) pastorPanel(ctx echo.Context) error {
	usr, err := contextUser(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	c := ctx.Request().Context()

	var p render.PanelPage
	switch screen := ctx.QueryParam(paramScreen); screen {
	case screenMembers:
		p = s.panel(ctx, usr, "Membros", screen)
		records, err := s.Controller.Members(c, usr)
		p.Content = content(render.Members(records), "membros", err)
	default:
		p = s.panel(ctx, usr, "Olá, Pastor "+usr.FirstName(), screenHome)
		dash, err := s.Controller.PastorDashboard(c, usr, s.now())
		p.Content = content(render.Dashboard(dash), "painel", err)
	}
	return ctx.Render(http.StatusOK, render.PagePanel, p)
}

func (s *Server) secretariaPanel(ctx echo.Context) error {
	usr, err := contextUser(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	c := ctx.Request().Context()
	term := core.CleanString(ctx.QueryParam(paramSearch))

	var p render.PanelPage
	switch screen := ctx.QueryParam(paramScreen); screen {
	case screenMembers:
		p = s.searchPanel(ctx, usr, "Gestão de Membros", screen, term)
		records, err := s.Controller.Members(c, usr)
		p.Content = content(render.Members(searchMembers(records, term)), "membros", err)
	case screenAgenda:
		p = s.searchPanel(ctx, usr, "Agenda do Pastor", screen, term)
		events, err := s.Controller.PastorAgenda(c, usr)
		p.Content = content(render.Agenda(agenda.Search(events, term)), "agenda", err)
	default:
		p = s.panel(ctx, usr, "Olá, "+usr.FirstName(), screenHome)
		records, err := s.Controller.Members(c, usr)
		if err == nil {
			p.Content = render.Stats(member.CountStats(records)) +
				render.Birthdays(member.Birthdays(records, s.now(), portal.DashboardDays))
		} else {
			p.Content = render.Error("painel", err)
		}
	}
	return ctx.Render(http.StatusOK, render.PagePanel, p)
}

func (s *Server) memberPanel(ctx echo.Context) error {
	usr, err := contextUser(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	c := ctx.Request().Context()

	var p render.PanelPage
	switch screen := ctx.QueryParam(paramScreen); screen {
	case screenAgenda:
		term := core.CleanString(ctx.QueryParam(paramSearch))
		p = s.searchPanel(ctx, usr, "Agenda da Igreja", screen, term)
		events, err := s.Controller.ChurchAgenda(c, usr, term)
		p.Content = content(render.Agenda(events), "agenda", err)
	default:
		p = s.panel(ctx, usr, "Olá, "+usr.FirstName(), screenHome)
		events, err := s.Controller.ChurchAgenda(c, usr, "")
		p.Content = content(render.Agenda(agenda.InNextDays(events, s.now(), portal.DashboardDays)), "agenda", err)
	}
	return ctx.Render(http.StatusOK, render.PagePanel, p)
}

func (s *Server) myData(ctx echo.Context) error {
	usr, err := contextUser(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	p := s.panel(ctx, usr, "Meus Dados", screenHome)
	p.Content = render.Profile(member.Profile(usr))
	return ctx.Render(http.StatusOK, render.PagePanel, p)
}

// secretariaLink is where clicked notifications lead.
func (s *Server) secretariaLink(ctx echo.Context) error {
	return ctx.Redirect(http.StatusSeeOther, member.DashboardPath(member.RoleSecretaria))
}

func (s *Server) panel(ctx echo.Context, usr member.Record, heading, screen string) render.PanelPage {
	current := ctx.Path()
	if screen != screenHome {
		current += "?" + paramScreen + "=" + screen
	}
	return render.PanelPage{
		Page:    render.NewPage(s.Conf.AppName, heading, usr, current),
		Heading: heading,
		Screen:  screen,
	}
}

func (s *Server) searchPanel(ctx echo.Context, usr member.Record, heading, screen, term string) render.PanelPage {
	p := s.panel(ctx, usr, heading, screen)
	p.Search = true
	p.SearchPath = ctx.Path()
	p.SearchTerm = term
	return p
}

// content picks the rendered fragment, or the inline error of a failed load.
func content(html template.HTML, subject string, err error) template.HTML {
	if err != nil {
		return render.Error(subject, err)
	}
	return html
}

// searchMembers keeps the records whose name contains term, ignoring case and accents.
func searchMembers(records []member.Record, term string) []member.Record {
	term = core.Slug(term)
	if term == "" {
		return records
	}
	var out []member.Record
	for _, r := range records {
		if strings.Contains(core.Slug(r.Name()), term) {
			out = append(out, r)
		}
	}
	return out
}
