package main

import (
	"log"
	"os"

	"github.com/adrodovia/portal/core"
	"github.com/adrodovia/portal/core/portal"
	"github.com/adrodovia/portal/services/escala"
	"github.com/adrodovia/portal/services/logger"
)

var logger *log.Logger

func main() {
	logger = log.New(os.Stderr, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	conf := core.NewConfig()
	appLogger := logsvc.NewRollbarLogger(logger, conf)
	appLogger.Enable(!conf.Debug)
	api := escala.NewClient(conf)

	// start CLI
	cli := commandLine{
		conf:  conf,
		api:   api,
		ctrl:  portal.NewController(api, portal.NewStore(), appLogger),
		out:   os.Stdout,
		color: isTerminalFunc(int(os.Stdout.Fd())),
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}
