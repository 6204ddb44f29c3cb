package logsvc

import (
	"io"
	"log"
	"os"

	"github.com/rollbar/rollbar-go"
	"github.com/rollbar/rollbar-go/errors"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/adrodovia/portal/core"
	"github.com/adrodovia/portal/core/member"
)

type RollbarLogger struct {
	std *log.Logger
}

var _ core.Logger = (*RollbarLogger)(nil)

func NewRollbarLogger(std *log.Logger, conf *core.Config) *RollbarLogger {
	rollbar.SetToken(conf.RollbarToken)
	rollbar.SetEnvironment(conf.Env)
	rollbar.SetServerHost(conf.Server.Host)
	rollbar.SetCodeVersion(conf.Build)
	rollbar.SetStackTracer(errors.StackTracer)
	return &RollbarLogger{std: std}
}

// NewStdLogger returns the process logger. Output goes to stdout, and is also written to a
// rotating file when conf.LogFile is set.
func NewStdLogger(conf *core.Config) *log.Logger {
	var out io.Writer = os.Stdout
	if conf.LogFile != "" {
		out = io.MultiWriter(os.Stdout, &lumberjack.Logger{
			Filename:   conf.LogFile,
			MaxSize:    100, // MB
			MaxBackups: 3,
			MaxAge:     28, // days
			Compress:   true,
		})
	}
	return log.New(out, conf.AppName+" : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
}

func (l RollbarLogger) Enable(enabled bool) {
	rollbar.SetEnabled(enabled)
}

// expected fmt: msg | error, map[string]interface{}, member.Record
func (l RollbarLogger) prepare(msg string, args []interface{}) []interface{} {
	var usrSet bool
	newArgs := make([]interface{}, 0, len(args)+1)
	newArgs = append(newArgs, msg)
	for _, arg := range args {
		// set the session user
		if usr, ok := arg.(member.Record); ok {
			if !usrSet { // only set one user
				rollbar.SetPerson(usr.Get("CPF"), usr.Name(), usr.Get("EMAIL"))
				usrSet = true
			}
		} else {
			newArgs = append(newArgs, arg)
		}
	}
	if !usrSet {
		rollbar.ClearPerson()
	}
	return newArgs
}

func (l RollbarLogger) print(msg string, args []interface{}) {
	l.std.Println(msg)
	for _, arg := range args {
		if usr, ok := arg.(member.Record); ok {
			arg = usr.Name() // keep profile fields out of the logs
		}
		l.std.Printf("%+v\n", arg)
	}
}

func (l RollbarLogger) Debug(msg string, args ...interface{}) {
	rollbar.Debug(l.prepare(msg, args)...)
	l.print(msg, args)
}

func (l RollbarLogger) Info(msg string, args ...interface{}) {
	rollbar.Info(l.prepare(msg, args)...)
	l.print(msg, args)
}

func (l RollbarLogger) Warn(msg string, args ...interface{}) {
	rollbar.Warning(l.prepare(msg, args)...)
	l.print(msg, args)
}

func (l RollbarLogger) Error(msg string, args ...interface{}) {
	rollbar.Error(l.prepare(msg, args)...)
	l.print(msg, args)
}

func (l RollbarLogger) Fatal(msg string, args ...interface{}) {
	rollbar.Critical(l.prepare(msg, args)...)
	l.print(msg, args)
	l.std.Fatal(msg)
}
