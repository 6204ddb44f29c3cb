package main

import (
	"context"
	"expvar"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/adrodovia/portal/apps/portal/di"
	echoportal "github.com/adrodovia/portal/apps/portal/echo"
	"github.com/adrodovia/portal/core"
	"github.com/adrodovia/portal/services/offline"
)

func main() {
	c := di.New(core.NewConfig)

	must(c.Invoke(func(
		conf *core.Config,
		logger core.Logger,
		storage offline.Storage,
		worker *offline.Worker,
		server *echoportal.Server,
	) {
		// =========================================================================
		// Initialize App

		logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))

		if closer, ok := storage.(io.Closer); ok {
			defer func() {
				if err := closer.Close(); err != nil {
					logger.Error("Failed to close cache storage", err)
				}
			}()
		}
		defer logger.Info("Application stopped")

		// =========================================================================
		// Start Debug Service
		//
		// /debug/vars - Added to the default mux by importing the expvar package.

		// Expose important info under /debug/vars.
		expvar.NewString("build").Set(conf.Build)
		expvar.NewString("env").Set(conf.Env)
		expvar.NewString("cache").Set(conf.Cache.Version)

		go func() {
			if err := http.ListenAndServe(conf.Server.DebugHost, http.DefaultServeMux); err != nil {
				logger.Error(fmt.Sprintf("debug server closed: %v", err), err)
			}
		}()

		// =========================================================================
		// Start Offline Worker

		ctx, stopWorker := context.WithCancel(context.Background())
		defer stopWorker()

		go func() {
			if err := worker.Start(ctx); err != nil {
				logger.Error(fmt.Sprintf("offline worker: %v", err), err)
			}
		}()

		// =========================================================================
		// Start Portal Service

		go func() {
			server.Start()
		}()

		// =========================================================================
		// Shutdown

		select {
		case err := <-server.Errors():
			logger.Fatal(fmt.Sprintf("server error: %v", err), err)

		case sig := <-server.ShutdownSignal():
			logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

			// give outstanding requests a deadline for completion
			ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
			defer cancel()

			// asking listener to shut down and shed load
			if err := server.Shutdown(ctx); err != nil {
				logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

				if err = server.Close(); err != nil {
					logger.Fatal(fmt.Sprintf("could not force stop server: %v", err), err)
				}
			}
		}
	}))
}

func must(err error) {
	if err != nil {
		log.Fatal(err)
	}
}
