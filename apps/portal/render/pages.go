package render

import (
	"html/template"
	"io"
	"io/fs"
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/adrodovia/portal/core"
	"github.com/adrodovia/portal/core/media"
	"github.com/adrodovia/portal/core/member"
	"github.com/adrodovia/portal/core/portal"
)

// Page names.
const (
	PageEBD   = "ebd"
	PagePanel = "panel"
	PageLogin = "login"
)

type (
	// Page holds what every page layout needs.
	Page struct {
		AppName string
		Title   string
		User    member.Record
		Menu    template.HTML
		Alert   string
	}

	Option struct {
		Value, Label string
		Selected     bool
	}

	TabLink struct {
		Label, Path string
		Active      bool
	}

	EBDPage struct {
		Page
		Path        string
		Tabs        []TabLink
		ShowClasses bool
		Classes     []Option
		Trimesters  []Option
		ExportURL   string
		Container   string
		Highlight   template.HTML
		Content     template.HTML
	}

	// PanelPage is a dashboard screen: a heading, an optional search box and its content.
	PanelPage struct {
		Page
		Heading    string
		Screen     string
		Search     bool
		SearchPath string
		SearchTerm string
		Content    template.HTML
	}

	LoginPage struct {
		Page
		LoginURL string
		Error    string
	}
)

// NewPage returns the layout data for user, with the role menu when logged in.
func NewPage(appName, title string, user member.Record, current string) Page {
	p := Page{AppName: appName, Title: title, User: user}
	if user != nil {
		p.Menu = Menu(member.Menu(user.Role()), current)
	}
	return p
}

var tabLabels = map[portal.Tab]struct{ label, path, container string }{
	portal.TabScale:   {label: "Escala", path: "/escala", container: "scheduleContainer"},
	portal.TabLessons: {label: "Lições", path: "/licoes", container: "lessonsContainer"},
	portal.TabVideos:  {label: "Vídeos", path: "/videos", container: "videosContainer"},
	portal.TabLibrary: {label: "Acervo", path: "/acervo", container: "libraryContainer"},
}

// TabPath returns the route of tab.
func TabPath(tab portal.Tab) string {
	return tabLabels[tab].path
}

var errorSubjects = map[portal.Tab]string{
	portal.TabScale:   "escala",
	portal.TabLessons: "lições",
	portal.TabVideos:  "vídeos",
	portal.TabLibrary: "acervo",
}

// EBD builds the EBD page of a view.
func EBD(page Page, v portal.View, classes []string, now time.Time) EBDPage {
	st := v.State
	p := EBDPage{
		Page:        page,
		Path:        TabPath(st.Tab),
		ShowClasses: st.Tab == portal.TabScale,
		Container:   tabLabels[st.Tab].container,
		Trimesters:  trimesterOptions(st.Trimester, st.Tab == portal.TabVideos),
	}
	for _, tab := range portal.Tabs {
		p.Tabs = append(p.Tabs, TabLink{Label: tabLabels[tab].label, Path: tabLabels[tab].path, Active: tab == st.Tab})
	}
	if p.ShowClasses {
		p.Classes = classOptions(classes, st.Class)
	}

	if v.Err != nil {
		p.Content = Error(errorSubjects[st.Tab], v.Err)
		return p
	}
	switch st.Tab {
	case portal.TabScale:
		if st.NoClass() {
			p.Content = SelectClassPrompt()
			break
		}
		p.Highlight = NextSundayCard(st.ScheduleItems(), now)
		p.Content = Schedule(st.Groups())
		q := url.Values{"classe": {st.Class}, "trimestre": {st.Trimester}}
		p.ExportURL = "/escala/export.xlsx?" + q.Encode()
	case portal.TabLessons:
		p.Content = Lessons(st.LessonGroups())
	case portal.TabVideos:
		p.Content = Videos(st.FilteredVideos())
	case portal.TabLibrary:
		p.Content = Library(st.Library)
	}
	return p
}

func classOptions(classes []string, selected string) []Option {
	opts := []Option{{Value: core.ClassesSentinel, Label: core.ClassesSentinel, Selected: selected == core.ClassesSentinel}}
	for _, class := range classes {
		if class == core.ClassesSentinel {
			continue
		}
		opts = append(opts, Option{Value: class, Label: class, Selected: class == selected})
	}
	return opts
}

func trimesterOptions(selected string, misc bool) []Option {
	opts := []Option{{Value: core.TrimesterAll, Label: "Todos os Trimestres", Selected: selected == core.TrimesterAll}}
	for i := 1; i <= 4; i++ {
		v := strconv.Itoa(i)
		opts = append(opts, Option{Value: v, Label: v + "º Trimestre", Selected: selected == v})
	}
	if misc {
		opts = append(opts, Option{Value: media.TrimesterMisc, Label: "Diversos", Selected: selected == media.TrimesterMisc})
	}
	return opts
}

// Templates renders the pages. It implements echo.Renderer.
type Templates struct {
	pages map[string]*template.Template
}

var _ echo.Renderer = (*Templates)(nil)

// NewTemplates parses the layout once per page.
func NewTemplates() (*Templates, error) {
	layout, err := template.New("layout").Funcs(funcs).ParseFS(templatesFS, "templates/layout.html")
	if err != nil {
		return nil, errors.Wrap(err, "parsing layout")
	}
	files, err := fs.Glob(templatesFS, "templates/pages/*.html")
	if err != nil {
		return nil, errors.Wrap(err, "listing pages")
	}

	t := &Templates{pages: make(map[string]*template.Template, len(files))}
	for _, file := range files {
		name := strings.TrimSuffix(path.Base(file), ".html")
		tmpl, err := layout.Clone()
		if err != nil {
			return nil, errors.Wrap(err, "cloning layout for "+name)
		}
		if _, err := tmpl.ParseFS(templatesFS, file); err != nil {
			return nil, errors.Wrap(err, "parsing page "+name)
		}
		t.pages[name] = tmpl
	}
	return t, nil
}

func (t *Templates) Render(w io.Writer, name string, data interface{}, _ echo.Context) error {
	tmpl, ok := t.pages[name]
	if !ok {
		return errors.Errorf("unknown page %q", name)
	}
	return errors.Wrap(tmpl.ExecuteTemplate(w, "layout", data), "rendering "+name)
}
