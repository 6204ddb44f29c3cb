package echoportal

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/adrodovia/portal/apps/portal/render"
	"github.com/adrodovia/portal/core"
	"github.com/adrodovia/portal/core/member"
	"github.com/adrodovia/portal/core/portal"
	"github.com/adrodovia/portal/services/metrics"
	"github.com/adrodovia/portal/services/offline"
)

// pruneEvery is how often idle viewer states are dropped.
const pruneEvery = 10 * time.Minute

type (
	ServerDeps struct {
		Conf       *core.Config
		Logger     core.Logger
		Controller *portal.Controller
		Store      *portal.Store
		Worker     *offline.Worker
		Notifier   core.NotificationService
		Validate   *validator.Validate
		Translator ut.Translator
		Templates  *render.Templates
	}

	Server struct {
		ServerDeps
		app      *echo.Echo
		assets   http.Handler
		now      func() time.Time
		errors   chan error
		shutdown chan os.Signal
		stop     chan struct{}
	}
)

func NewServer(deps ServerDeps) *Server {
	s := &Server{
		ServerDeps: deps,
		app:        echo.New(),
		assets:     AssetHandler(deps.Conf),
		now:        time.Now,
		errors:     make(chan error, 1),
		shutdown:   make(chan os.Signal, 1),
		stop:       make(chan struct{}),
	}
	s.setup()
	return s
}

func (s *Server) setup() {
	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.Conf.Server.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(s.Conf.Debug || s.Conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}
	s.app.Use(s.viewerMiddleware)

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.Logger, s.Translator, s.Worker, s.signalShutdown)
	s.app.Renderer = s.Templates
	s.app.Debug = s.Conf.Debug

	// EBD, public
	s.app.GET("/", s.ebd(portal.TabScale))
	s.app.GET("/escala", s.ebd(portal.TabScale))
	s.app.GET("/escala/semana", s.overview)
	s.app.GET("/escala/export.xlsx", s.exportSchedule)
	s.app.GET("/licoes", s.ebd(portal.TabLessons))
	s.app.GET("/licoes/abrir", s.openLesson)
	s.app.GET("/videos", s.ebd(portal.TabVideos))
	s.app.GET("/acervo", s.ebd(portal.TabLibrary))

	// session
	s.app.GET("/login", s.loginPage)
	s.app.POST("/login/session", s.createSession)
	s.app.GET("/logout", s.logout)
	s.app.POST("/logout", s.logout)

	// panels
	auth := s.sessionMiddleware()
	s.app.GET("/portal", s.portalHome, auth, roleMiddleware())
	s.app.GET("/painel/pastor", s.pastorPanel, auth, roleMiddleware(member.RolePastor))
	s.app.GET("/painel/secretaria", s.secretariaPanel, auth, roleMiddleware(member.StaffRoles...))
	s.app.GET("/secretaria", s.secretariaLink, auth, roleMiddleware(member.StaffRoles...))
	s.app.GET("/painel/membro", s.memberPanel, auth, roleMiddleware())
	s.app.GET("/meus-dados", s.myData, auth, roleMiddleware())

	// push
	s.app.POST("/push", s.receivePush)
	s.app.GET("/push/click", s.pushClick)

	// assets, through the offline worker
	assets := echo.WrapHandler(s.Worker.Handler(s.assets))
	s.app.GET("/static/*", assets)
	if s.Conf.Cache.OfflinePage != "" {
		s.app.GET(s.Conf.Cache.OfflinePage, assets)
	}

	s.app.GET("/healthz", s.health)
	s.app.GET("/metrics", echo.WrapHandler(metrics.Handler()))
}

// Start starts the HTTP server and the pruning of idle viewers. Errors are sent to Errors().
func (s *Server) Start() {
	signal.Notify(s.shutdown, os.Interrupt, syscall.SIGTERM)
	go s.pruneViewers()
	if err := s.app.Start(s.Conf.Server.Address); err != nil && err != http.ErrServerClosed {
		s.errors <- err
	}
}

func (s *Server) Errors() <-chan error {
	return s.errors
}

func (s *Server) ShutdownSignal() <-chan os.Signal {
	return s.shutdown
}

func (s *Server) signalShutdown() {
	s.shutdown <- syscall.SIGTERM
}

func (s *Server) Shutdown(ctx context.Context) error {
	close(s.stop)
	return s.app.Shutdown(ctx)
}

func (s *Server) Close() error {
	return s.app.Close()
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.app.ServeHTTP(w, r)
}

func (s *Server) pruneViewers() {
	ticker := time.NewTicker(pruneEvery)
	defer ticker.Stop()
	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			if n := s.Store.Prune(s.now().Add(-s.Conf.Server.SessionExpirationDelta)); n > 0 {
				s.Logger.Debug("pruned idle viewers", map[string]interface{}{"count": n})
			}
			metrics.Viewers.Set(float64(s.Store.Len()))
		}
	}
}

func (s *Server) health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, echo.Map{
		"status":  "ok",
		"build":   s.Conf.Build,
		"worker":  s.Worker.State().String(),
		"cache":   s.Worker.Version(),
		"viewers": s.Store.Len(),
	})
}
