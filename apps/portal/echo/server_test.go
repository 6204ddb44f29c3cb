package echoportal

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/dgrijalva/jwt-go"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/adrodovia/portal/apps/portal/render"
	"github.com/adrodovia/portal/core"
	"github.com/adrodovia/portal/core/lesson"
	"github.com/adrodovia/portal/core/member"
	"github.com/adrodovia/portal/core/schedule"
	"github.com/adrodovia/portal/services/escala"
	"github.com/adrodovia/portal/services/export"
)

func adultos() schedule.Response {
	return schedule.Response{
		Class:      "Adultos",
		Trimester1: []schedule.RawLesson{{Date: "10/03", Teacher: "Ana", Lesson: "L1", Theme: "T1"}},
		Themes:     []schedule.ThemeEntry{{Trimester: "1", Class: "Adultos", Theme: "Geral1"}},
	}
}

func TestEBD(t *testing.T) {
	app := newTestApp(t)
	app.api.Schedules["Adultos"] = adultos()

	t.Run("landing page prompts for a class", func(t *testing.T) {
		rec := app.do(t, httpTest{method: http.MethodGet, path: "/"})

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), render.SelectClass)
		assert.Equal(t, 0, app.api.Calls("FetchSchedule"))
		assert.NotNil(t, responseCookie(rec, viewerCookie))
	})

	t.Run("selected class", func(t *testing.T) {
		rec := app.do(t, httpTest{method: http.MethodGet, path: "/escala?classe=Adultos&trimestre=all"})

		body := rec.Body.String()
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, body, "Geral1")
		assert.Contains(t, body, "Ana")
		assert.Contains(t, body, "/escala/export.xlsx?classe=Adultos")
	})

	t.Run("state is kept per viewer", func(t *testing.T) {
		sid := &http.Cookie{Name: viewerCookie, Value: "6f1c0d2e-8d7b-4a0e-9d53-0c8f4c1b7a21"}
		app.do(t, httpTest{method: http.MethodGet, path: "/escala?classe=Adultos"}, sid)
		calls := app.api.Calls("FetchSchedule")

		rec := app.do(t, httpTest{method: http.MethodGet, path: "/escala?trimestre=2"}, sid)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), render.NoSchedule)
		assert.Equal(t, calls, app.api.Calls("FetchSchedule"))
	})

	t.Run("api error is rendered inline", func(t *testing.T) {
		app.api.ScheduleErrs["Jovens"] = &escala.StatusError{Endpoint: "/api/schedule", Code: 500, Body: "boom"}

		rec := app.do(t, httpTest{method: http.MethodGet, path: "/escala?classe=Jovens"})

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Erro ao carregar escala (status 500): boom")
		assert.NotEmpty(t, app.logger.Entries("error"))
	})

	t.Run("other tabs", func(t *testing.T) {
		tests := []struct {
			path string
			want string
		}{
			{path: "/licoes", want: render.NoLessons},
			{path: "/videos", want: render.NoVideos},
			{path: "/acervo", want: render.EmptyLibrary},
		}
		for _, tt := range tests {
			rec := app.do(t, httpTest{method: http.MethodGet, path: tt.path})
			assert.Equal(t, http.StatusOK, rec.Code, tt.path)
			assert.Contains(t, rec.Body.String(), tt.want, tt.path)
		}
	})
}

func TestOverview(t *testing.T) {
	app := newTestApp(t)
	app.api.Schedules["Adultos"] = adultos()
	app.api.ScheduleErrs["Jovens"] = errors.New("down")

	rec := app.do(t, httpTest{method: http.MethodGet, path: render.OverviewPath})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Adultos")
	assert.Contains(t, rec.Body.String(), "10/03")

	app.api.ScheduleErrs["Adultos"] = errors.New("down")
	rec = app.do(t, httpTest{method: http.MethodGet, path: render.OverviewPath})
	assert.Contains(t, rec.Body.String(), "Erro ao carregar visão geral.")
}

func TestExportSchedule(t *testing.T) {
	app := newTestApp(t)
	app.api.Schedules["Adultos"] = adultos()
	app.api.ScheduleErrs["Jovens"] = &escala.StatusError{Code: 500, Body: "boom"}

	tests := []httpTest{
		{name: "missing class", method: http.MethodGet, path: "/escala/export.xlsx", wantCode: http.StatusBadRequest,
			wantData: []byte(`{"classe": "this field is required"}`)},
		{name: "sentinel class", method: http.MethodGet, path: "/escala/export.xlsx?classe=Todas+as+Classes", wantCode: http.StatusBadRequest,
			wantData: []byte(`{"classe": "select a class to export"}`)},
		{name: "invalid trimester", method: http.MethodGet, path: "/escala/export.xlsx?classe=Adultos&trimestre=9", wantCode: http.StatusBadRequest},
		{name: "api error", method: http.MethodGet, path: "/escala/export.xlsx?classe=Jovens", wantCode: http.StatusBadGateway,
			wantData: []byte(`{"error": "Erro ao carregar escala (status 500): boom"}`)},
		{name: "ok", method: http.MethodGet, path: "/escala/export.xlsx?classe=Adultos&trimestre=1", wantCode: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := app.do(t, tt)
			checkCodeAndData(t, tt, rec)
			if tt.wantCode == http.StatusOK {
				assert.Equal(t, export.ContentType, rec.Header().Get(echo.HeaderContentType))
				assert.Contains(t, rec.Header().Get(echo.HeaderContentDisposition), "escala-adultos.xlsx")
				assert.True(t, strings.HasPrefix(rec.Body.String(), "PK"))
			}
		})
	}
}

func TestOpenLesson(t *testing.T) {
	app := newTestApp(t)
	app.api.Lessons = []lesson.Lesson{
		{ID: "a", Title: "Revista Adultos", DriveLink: "undefined", Trimester: 1},
		{ID: "b", Title: "Revista Jovens", DriveLink: "https://drive.example.com/b", Trimester: 1},
	}

	t.Run("material unavailable", func(t *testing.T) {
		rec := app.do(t, httpTest{method: http.MethodGet, path: "/licoes/abrir?id=a"})

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, rec.Header().Get(echo.HeaderLocation))
		assert.Contains(t, rec.Body.String(), render.MaterialUnavailable)
		assert.Empty(t, app.logger.Entries("error"))
	})
	t.Run("material", func(t *testing.T) {
		rec := app.do(t, httpTest{method: http.MethodGet, path: "/licoes/abrir?id=b"})

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "https://drive.example.com/b", rec.Header().Get(echo.HeaderLocation))
	})
	t.Run("unknown lesson", func(t *testing.T) {
		rec := app.do(t, httpTest{method: http.MethodGet, path: "/licoes/abrir?id=z"})
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestSessionGuard(t *testing.T) {
	app := newTestApp(t)

	tests := []struct {
		httpTest
		wantLocation string
	}{
		{httpTest: httpTest{name: "no session", path: "/painel/pastor", wantCode: http.StatusSeeOther}, wantLocation: "/login"},
		{httpTest: httpTest{name: "wrong role", path: "/painel/pastor", user: membro, wantCode: http.StatusSeeOther}, wantLocation: "/login"},
		{httpTest: httpTest{name: "pastor", path: "/painel/pastor", user: pastor, wantCode: http.StatusOK}},
		{httpTest: httpTest{name: "secretaria only", path: "/painel/secretaria", user: pastor, wantCode: http.StatusSeeOther}, wantLocation: "/login"},
		{httpTest: httpTest{name: "secretaria", path: "/painel/secretaria?tela=agenda", user: secretaria, wantCode: http.StatusOK}},
		{httpTest: httpTest{name: "any role", path: "/painel/membro", user: secretaria, wantCode: http.StatusOK}},
		{httpTest: httpTest{name: "portal dispatches", path: "/portal", user: pastor, wantCode: http.StatusSeeOther}, wantLocation: "/painel/pastor"},
		{httpTest: httpTest{name: "portal without session", path: "/portal", wantCode: http.StatusSeeOther}, wantLocation: "/login"},
		{httpTest: httpTest{name: "notification deep link", path: "/secretaria", user: secretaria, wantCode: http.StatusSeeOther}, wantLocation: "/painel/secretaria"},
		{httpTest: httpTest{name: "deep link needs staff", path: "/secretaria", user: membro, wantCode: http.StatusSeeOther}, wantLocation: "/login"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.method = http.MethodGet
			rec := app.do(t, tt.httpTest)
			checkCodeAndData(t, tt.httpTest, rec)
			assert.Equal(t, tt.wantLocation, rec.Header().Get(echo.HeaderLocation))
		})
	}

	t.Run("forged session", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, "/painel/membro")
		req.AddCookie(&http.Cookie{Name: userCookie, Value: "not.a.jwt"})
		app.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/login", rec.Header().Get(echo.HeaderLocation))
	})
}

func TestPanels(t *testing.T) {
	app := newTestApp(t)
	app.api.Members = []member.Record{
		{"NOME": "Ana Souza", "PERFIL": "MEMBRO", "NASCIMENTO": "08/03/1990", "SENHA": "segredo"},
		{"NOME": "Bruno Lima", "PERFIL": "CONGREGADO"},
	}

	t.Run("member search", func(t *testing.T) {
		rec := app.do(t, httpTest{method: http.MethodGet, path: "/painel/secretaria?tela=membros&busca=souza", user: secretaria})

		body := rec.Body.String()
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, body, "Ana Souza")
		assert.NotContains(t, body, "Bruno Lima")
		assert.NotContains(t, body, "segredo")
	})

	t.Run("my data", func(t *testing.T) {
		rec := app.do(t, httpTest{method: http.MethodGet, path: "/meus-dados", user: membro})

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Meus Dados")
		assert.Contains(t, rec.Body.String(), "123.456.789-01")
	})

	t.Run("dashboard error is inline", func(t *testing.T) {
		app.api.Err = &escala.StatusError{Code: 503, Body: "maintenance"}
		defer func() { app.api.Err = nil }()

		rec := app.do(t, httpTest{method: http.MethodGet, path: "/painel/pastor", user: pastor})

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "(status 503): maintenance")
	})
}

func TestLogin(t *testing.T) {
	app := newTestApp(t)

	tests := []httpTest{
		{
			name:     "secretaria",
			body:     marshalObj(t, member.Login{User: member.Record{"NOME": "Maria", "PERFIL": "secretaria"}, Token: "t0k3n"}),
			wantCode: http.StatusOK,
			wantData: []byte(`{"redirect": "/painel/secretaria"}`),
		},
		{
			name:     "missing name",
			body:     []byte(`{"usuario": {"PERFIL": "MEMBRO"}, "token": "x"}`),
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"NOME": "this field is required"}`),
		},
		{
			name:     "unknown role",
			body:     []byte(`{"usuario": {"NOME": "Ana", "PERFIL": "REI"}}`),
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"PERFIL": "PERFIL must be one of PASTOR, SECRETARIA, ADMIN, MEMBRO or CONGREGADO"}`),
		},
		{
			name:     "no user",
			body:     []byte(`{"token": "x"}`),
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"error": "invalid session"}`),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.method = http.MethodPost
			tt.path = "/login/session"
			rec := app.do(t, tt)
			checkCodeAndData(t, tt, rec)

			if tt.wantCode == http.StatusOK {
				if tok := responseCookie(rec, tokenCookie); assert.NotNil(t, tok) {
					assert.Equal(t, "t0k3n", tok.Value)
				}
				if sess := responseCookie(rec, userCookie); assert.NotNil(t, sess) {
					assert.True(t, sess.HttpOnly)
					rec = app.do(t, httpTest{method: http.MethodGet, path: "/painel/secretaria"}, sess)
					assert.Equal(t, http.StatusOK, rec.Code)
				}
			}
		})
	}

	t.Run("session cookie keeps the password out", func(t *testing.T) {
		tt := httpTest{
			method: http.MethodPost,
			path:   "/login/session",
			body:   marshalObj(t, member.Login{User: member.Record{"ID": "42", "NOME": "Maria", "PERFIL": "MEMBRO", "SENHA": "s3cr3t"}, Token: "t0k3n"}),
		}
		rec := app.do(t, tt)
		assert.Equal(t, http.StatusOK, rec.Code)

		sess := responseCookie(rec, userCookie)
		if assert.NotNil(t, sess) {
			assert.NotContains(t, sess.Value, "s3cr3t")
			claims := new(sessionClaims)
			_, err := jwt.ParseWithClaims(sess.Value, claims, func(*jwt.Token) (interface{}, error) {
				return []byte(app.Conf.SecretKey), nil
			})
			assert.NoError(t, err)
			assert.Equal(t, "42", claims.Subject)
			assert.Equal(t, member.Record{"NOME": "Maria", "PERFIL": "MEMBRO"}, claims.User)
		}
	})

	t.Run("login page redirects a logged in user", func(t *testing.T) {
		rec := app.do(t, httpTest{method: http.MethodGet, path: "/login", user: membro})
		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/painel/membro", rec.Header().Get(echo.HeaderLocation))

		rec = app.do(t, httpTest{method: http.MethodGet, path: "/login"})
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "/api/login")
	})
}

func TestLogout(t *testing.T) {
	app := newTestApp(t)
	app.api.Schedules["Adultos"] = adultos()
	sid := &http.Cookie{Name: viewerCookie, Value: "0b8e4f7a-2c1d-4e5f-8a9b-1c2d3e4f5a6b"}
	app.do(t, httpTest{method: http.MethodGet, path: "/escala?classe=Adultos"}, sid)
	assert.Equal(t, 1, app.Store.Len())

	for _, method := range []string{http.MethodGet, http.MethodPost} {
		rec := app.do(t, httpTest{method: method, path: "/logout", user: pastor}, sid)

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/login", rec.Header().Get(echo.HeaderLocation))
		for _, name := range []string{userCookie, tokenCookie} {
			if c := responseCookie(rec, name); assert.NotNil(t, c, name) {
				assert.Empty(t, c.Value)
				assert.True(t, c.MaxAge < 0)
			}
		}
		assert.Equal(t, 0, app.Store.Len())
	}
}

func TestPush(t *testing.T) {
	app := newTestApp(t)

	tests := []httpTest{
		{name: "payload", body: []byte(`{"title": "Culto", "body": "Hoje às 19h"}`), wantCode: http.StatusAccepted,
			wantData: []byte(`{"title": "Culto", "body": "Hoje às 19h", "url": "/secretaria"}`)},
		{name: "no payload", wantCode: http.StatusAccepted,
			wantData: []byte(`{"title": "AD Rodovia", "body": "Você tem uma nova notificação.", "url": "/secretaria"}`)},
		{name: "invalid payload", body: []byte(`not json`), wantCode: http.StatusAccepted,
			wantData: []byte(`{"title": "AD Rodovia", "body": "Você tem uma nova notificação.", "url": "/secretaria"}`)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.method = http.MethodPost
			tt.path = "/push"
			checkCodeAndData(t, tt, app.do(t, tt))
		})
	}
	assert.Len(t, app.notifier.Sent(), 3)

	t.Run("click", func(t *testing.T) {
		rec := app.do(t, httpTest{method: http.MethodGet, path: "/push/click"})
		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, core.NotificationClickURL, rec.Header().Get(echo.HeaderLocation))
	})

	t.Run("notifier failure", func(t *testing.T) {
		app.notifier.Err = errors.New("smtp down")
		defer func() { app.notifier.Err = nil }()

		rec := app.do(t, httpTest{method: http.MethodPost, path: "/push"})
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestOffline(t *testing.T) {
	app := newTestApp(t)
	app.app.GET("/boom", func(echo.Context) error { return errors.New("boom") })

	t.Run("before activation", func(t *testing.T) {
		rec := app.do(t, httpTest{method: http.MethodGet, path: "/static/portal.css"})
		assert.Equal(t, http.StatusOK, rec.Code)

		req, rec := newRequest(http.MethodGet, "/boom")
		req.Header.Set("Accept", "text/html")
		app.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})

	if err := app.Worker.Start(context.Background()); err != nil {
		t.Fatalf("Worker.Start() failed: %v", err)
	}

	t.Run("cached assets", func(t *testing.T) {
		rec := app.do(t, httpTest{method: http.MethodGet, path: "/static/icons/icon-192.png"})
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, strings.HasPrefix(rec.Body.String(), "\x89PNG"))
	})

	t.Run("unknown asset", func(t *testing.T) {
		rec := app.do(t, httpTest{method: http.MethodGet, path: "/static/missing.js"})
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("failed navigation gets the offline page", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, "/boom")
		req.Header.Set("Sec-Fetch-Mode", "navigate")
		app.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "offline")
	})

	t.Run("failed api call does not", func(t *testing.T) {
		tt := httpTest{method: http.MethodGet, path: "/boom", wantCode: http.StatusInternalServerError,
			wantData: []byte(`{"error": "Internal Server Error"}`)}
		checkCodeAndData(t, tt, app.do(t, tt))
	})

	t.Run("health", func(t *testing.T) {
		tt := httpTest{method: http.MethodGet, path: "/healthz", wantCode: http.StatusOK,
			wantData: []byte(`{"status": "ok", "build": "test", "worker": "active", "cache": "ad-rodovia-v1", "viewers": 0}`)}
		checkCodeAndData(t, tt, app.do(t, tt))
	})
}
