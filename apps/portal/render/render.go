// Package render turns the portal data into HTML fragments and pages.
// Every fragment goes through html/template, so values coming from the API are always escaped.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/adrodovia/portal/core/agenda"
	"github.com/adrodovia/portal/core/lesson"
	"github.com/adrodovia/portal/core/media"
	"github.com/adrodovia/portal/core/member"
	"github.com/adrodovia/portal/core/portal"
	"github.com/adrodovia/portal/core/schedule"
)

// Message kinds.
const (
	KindLoading = "loading"
	KindEmpty   = "empty"
	KindError   = "error"
	KindPrompt  = "prompt"
)

// User facing texts.
const (
	NoSchedule          = "Nenhuma escala para este filtro."
	NoLessons           = "Nenhum material encontrado."
	NoVideos            = "Nenhum vídeo encontrado para este filtro."
	EmptyLibrary        = "Acervo vazio."
	SelectClass         = "Selecione uma classe para ver a escala."
	OverviewLink        = "Ver visão geral do próximo domingo"
	NoEvents            = "Nada agendado para os próximos dias."
	NoBirthdays         = "Nenhum aniversariante nesta semana."
	NoMembers           = "Nenhum membro encontrado."
	MaterialUnavailable = "Material ainda não disponível."
	OverviewPath        = "/escala/semana"
)

//go:embed templates
var templatesFS embed.FS

var funcs = template.FuncMap{
	"orDash": func(s string) string {
		if strings.TrimSpace(s) == "" {
			return "-"
		}
		return s
	},
	"upper":       strings.ToUpper,
	"hasMaterial": lesson.HasMaterial,
	"embedURL":    media.EmbedURL,
}

var fragments = template.Must(template.New("fragments").Funcs(funcs).ParseFS(templatesFS, "templates/fragments.html"))

func execute(name string, data interface{}) template.HTML {
	var buf bytes.Buffer
	if err := fragments.ExecuteTemplate(&buf, name, data); err != nil {
		return Message(KindError, "Erro ao exibir conteúdo.")
	}
	return template.HTML(buf.String())
}

type message struct {
	Kind, Text     string
	Link, LinkText string
}

// Message renders a loading, empty, error or prompt state.
func Message(kind, text string) template.HTML {
	return execute("message", message{Kind: kind, Text: text})
}

// statusError is implemented by API errors carrying the HTTP status and body of the response.
type statusError interface {
	HTTPStatus() (code int, body string)
}

// ErrorMessage describes a failed load of subject: "Erro ao carregar escala (status 500): boom".
func ErrorMessage(subject string, err error) string {
	if se, ok := errors.Cause(err).(statusError); ok {
		code, body := se.HTTPStatus()
		return fmt.Sprintf("Erro ao carregar %s (status %d): %s", subject, code, strings.TrimSpace(body))
	}
	return "Erro ao carregar " + subject + "."
}

func Error(subject string, err error) template.HTML {
	return Message(KindError, ErrorMessage(subject, err))
}

// Schedule renders the schedule cards, in the order given.
func Schedule(groups []*schedule.Group) template.HTML {
	if len(groups) == 0 {
		return Message(KindEmpty, NoSchedule)
	}
	return execute("schedule", groups)
}

// SelectClassPrompt is shown instead of the schedule when no class is selected.
func SelectClassPrompt() template.HTML {
	return execute("message", message{Kind: KindPrompt, Text: SelectClass, Link: OverviewPath, LinkText: OverviewLink})
}

// NextSundayCard highlights the first lesson of the coming Sunday. It renders nothing when there is none.
func NextSundayCard(items []schedule.Item, now time.Time) template.HTML {
	date := schedule.NextSunday(now)
	item, ok := schedule.FirstOn(items, date)
	if !ok {
		return ""
	}
	return execute("next-sunday", struct {
		Date string
		Item schedule.Item
	}{Date: date, Item: item})
}

func Overview(ov portal.Overview) template.HTML {
	if len(ov.Rows) == 0 {
		return Message(KindEmpty, "Nenhuma aula encontrada para o próximo domingo ("+ov.Date+").")
	}
	return execute("overview", ov)
}

type lessonSection struct {
	Trimester int
	Lessons   []lesson.Lesson
}

// Lessons renders the lesson cards by ascending trimester.
func Lessons(grouped lesson.Grouped) template.HTML {
	trimesters := grouped.Trimesters()
	if len(trimesters) == 0 {
		return Message(KindEmpty, NoLessons)
	}
	sections := make([]lessonSection, 0, len(trimesters))
	for _, t := range trimesters {
		sections = append(sections, lessonSection{Trimester: t, Lessons: grouped[t]})
	}
	return execute("lessons", sections)
}

// OpenLesson returns where the material of a lesson lives. ok is false when the lesson has no material yet,
// in which case MaterialUnavailable is shown and nothing is opened.
func OpenLesson(link string) (url string, ok bool) {
	if !lesson.HasMaterial(link) {
		return "", false
	}
	return strings.TrimSpace(link), true
}

func Videos(videos []media.Video) template.HTML {
	if len(videos) == 0 {
		return Message(KindEmpty, NoVideos)
	}
	return execute("videos", videos)
}

func Library(items []media.LibraryItem) template.HTML {
	if len(items) == 0 {
		return Message(KindEmpty, EmptyLibrary)
	}
	return execute("library", items)
}

// Profile renders the allow-listed fields of a member as a read-only form.
func Profile(sections []member.ProfileSection) template.HTML {
	return execute("profile", sections)
}

// Menu renders the sidebar, current being the path of the page shown.
func Menu(items []member.MenuItem, current string) template.HTML {
	return execute("menu", struct {
		Items   []member.MenuItem
		Current string
	}{Items: items, Current: current})
}

func Stats(s member.Stats) template.HTML {
	return execute("stats", s)
}

func Agenda(events []agenda.Event) template.HTML {
	if len(events) == 0 {
		return Message(KindEmpty, NoEvents)
	}
	return execute("agenda", events)
}

func Birthdays(birthdays []member.Birthday) template.HTML {
	if len(birthdays) == 0 {
		return Message(KindEmpty, NoBirthdays)
	}
	return execute("birthdays", birthdays)
}

func Members(records []member.Record) template.HTML {
	if len(records) == 0 {
		return Message(KindEmpty, NoMembers)
	}
	return execute("members", records)
}

// Dashboard renders the pastor's home panel.
func Dashboard(d portal.PastorDashboard) template.HTML {
	return execute("dashboard", struct {
		Stats, MyWeek, ChurchWeek, Birthdays template.HTML
	}{
		Stats:      Stats(d.Stats),
		MyWeek:     Agenda(d.MyWeek),
		ChurchWeek: Agenda(d.ChurchWeek),
		Birthdays:  Birthdays(d.Birthdays),
	})
}
