package di

import (
	"context"
	"log"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"go.uber.org/dig"

	echoportal "github.com/adrodovia/portal/apps/portal/echo"
	"github.com/adrodovia/portal/apps/portal/render"
	"github.com/adrodovia/portal/core"
	"github.com/adrodovia/portal/core/member"
	"github.com/adrodovia/portal/core/portal"
	"github.com/adrodovia/portal/services/escala"
	"github.com/adrodovia/portal/services/logger"
	"github.com/adrodovia/portal/services/notify"
	"github.com/adrodovia/portal/services/offline"
)

// Cache storage backends.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// redisDialTimeout bounds the connection check made when the redis backend is selected.
const redisDialTimeout = 5 * time.Second

type ServerParams struct {
	dig.In
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

func newLogger(conf *core.Config) core.Logger {
	logger := logsvc.NewRollbarLogger(logsvc.NewStdLogger(conf), conf)
	logger.Enable(!conf.Debug)
	return logger
}

func newValidator(translator ut.Translator) *validator.Validate {
	validate := validator.New()
	core.InitValidators(validate, translator)
	member.RegisterValidators(validate, translator)
	return validate
}

func newStorage(conf *core.Config, logger core.Logger) (offline.Storage, error) {
	switch conf.Cache.Backend {
	case BackendRedis:
		ctx, cancel := context.WithTimeout(context.Background(), redisDialTimeout)
		defer cancel()
		storage, err := offline.NewRedisStorage(ctx, conf.Cache.RedisAddr)
		if err != nil {
			return nil, errors.Wrap(err, "connecting to redis")
		}
		logger.Info("offline cache stored in redis", map[string]interface{}{"addr": conf.Cache.RedisAddr})
		return storage, nil
	case BackendMemory, "":
		return offline.NewMemoryStorage(), nil
	}
	return nil, errors.Errorf("unknown cache backend %q", conf.Cache.Backend)
}

func newWorker(conf *core.Config, storage offline.Storage, logger core.Logger) *offline.Worker {
	origin := offline.HandlerFetcher(echoportal.AssetHandler(conf))
	return offline.NewWorker(conf, storage, origin, logger)
}

func newNotifier(conf *core.Config) (core.NotificationService, error) {
	if conf.Debug || conf.Notify.SendgridApiKey == "" {
		return notifysvc.NewConsoleNotifier(conf), nil
	}
	return notifysvc.NewSendgridNotifier(conf)
}

func newServer(p ServerParams) *echoportal.Server {
	return echoportal.NewServer(echoportal.ServerDeps{
		Conf:       p.Conf,
		Logger:     p.Logger,
		Controller: p.Controller,
		Store:      p.Store,
		Worker:     p.Worker,
		Notifier:   p.Notifier,
		Validate:   p.Validate,
		Translator: p.Translator,
		Templates:  p.Templates,
	})
}

// New returns a new dependency injection dig.Container
func New(newConfig func() *core.Config) *dig.Container {
	c := dig.New()

	must(c.Provide(newConfig))
	must(c.Provide(newLogger))
	must(c.Provide(core.NewTranslator))
	must(c.Provide(newValidator))
	must(c.Provide(escala.NewClient))
	must(c.Provide(func(client *escala.Client) portal.API { return client }))
	must(c.Provide(portal.NewStore))
	must(c.Provide(portal.NewController))
	must(c.Provide(newStorage))
	must(c.Provide(newWorker))
	must(c.Provide(newNotifier))
	must(c.Provide(render.NewTemplates))
	must(c.Provide(newServer))

	return c
}

// must exits program if err happened
func must(err error) {
	if err != nil {
		log.Fatal(errors.Wrap(err, "failed to provide dependency").Error())
	}
}
