package echoportal

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"

	"github.com/adrodovia/portal/apps/portal/render"
	"github.com/adrodovia/portal/core"
	"github.com/adrodovia/portal/core/member"
	"github.com/adrodovia/portal/core/portal"
	"github.com/adrodovia/portal/services/logger"
	"github.com/adrodovia/portal/services/notify"
	"github.com/adrodovia/portal/services/offline"
)

// wednesday; the coming sunday is 10/03
var testNow = time.Date(2024, 3, 6, 10, 0, 0, 0, time.UTC)

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	user     member.Record
	wantCode int
	wantData []byte
}

type testApp struct {
	*Server
	api      *portal.APIMock
	logger   *logsvc.LoggerMock
	notifier *notifysvc.ConsoleNotifierMock
}

func testConfig() *core.Config {
	conf := &core.Config{
		AppName:   "AD Rodovia",
		Build:     "test",
		Env:       "TEST",
		TestMode:  true,
		SecretKey: "s3cr3t",
		StaticDir: "static",
		Classes:   []string{"Adultos", "Jovens"},
	}
	conf.Server.Host = "localhost"
	conf.Server.SessionExpirationDelta = time.Hour
	conf.Server.DisableReqLogs = true
	conf.Cache.Version = "ad-rodovia-v1"
	conf.Cache.Manifest = []string{"/static/portal.css", "/static/icons/icon-192.png", "/offline"}
	conf.Cache.OfflinePage = "/offline"
	return conf
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	conf := testConfig()
	api := portal.NewAPIMock()
	log := logsvc.NewLoggerMock()
	notifier := notifysvc.NewConsoleNotifierMock()

	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	member.RegisterValidators(validate, translator)

	tmpl, err := render.NewTemplates()
	if err != nil {
		t.Fatalf("render.NewTemplates() failed: %v", err)
	}
	store := portal.NewStore()
	worker := offline.NewWorker(conf, offline.NewMemoryStorage(), offline.HandlerFetcher(AssetHandler(conf)), log)

	srv := NewServer(ServerDeps{
		Conf:       conf,
		Logger:     log,
		Controller: portal.NewController(api, store, log),
		Store:      store,
		Worker:     worker,
		Notifier:   notifier,
		Validate:   validate,
		Translator: translator,
		Templates:  tmpl,
	})
	srv.now = func() time.Time { return testNow }
	return &testApp{Server: srv, api: api, logger: log, notifier: notifier}
}

func (app *testApp) sessionCookie(t *testing.T, usr member.Record) *http.Cookie {
	t.Helper()
	token, err := app.signSession(app.newSessionClaims(usr))
	if err != nil {
		t.Fatalf("signSession() failed: %v", err)
	}
	return &http.Cookie{Name: userCookie, Value: token}
}

func (app *testApp) do(t *testing.T, tt httpTest, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req, rec := newRequest(tt.method, tt.path, tt.body)
	if tt.user != nil {
		req.AddCookie(app.sessionCookie(t, tt.user))
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	app.ServeHTTP(rec, req)
	return rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	if body.Len() > 0 {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, httptest.NewRecorder()
}

func marshalObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marshalObj() failed: %v", err)
	}
	return data
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	if tt.wantData != nil {
		assert.JSONEq(t, string(tt.wantData), rec.Body.String())
	}
}

func responseCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

var (
	pastor     = member.Record{"ID": "1", "NOME": "João Batista", "PERFIL": "PASTOR", "SENHA": "x"}
	secretaria = member.Record{"ID": "2", "NOME": "Maria Clara", "PERFIL": "SECRETARIA"}
	membro     = member.Record{"ID": "3", "NOME": "Ana Souza", "PERFIL": "MEMBRO", "CPF": "12345678901"}
)
