package logsvc

import (
	"sync"

	"github.com/adrodovia/portal/core"
)

// Entry is a message recorded by a LoggerMock.
type Entry struct {
	Level string
	Msg   string
	Args  []interface{}
}

// LoggerMock records what it is asked to log, and reports nothing.
type LoggerMock struct {
	mu      sync.Mutex
	entries []Entry
}

var _ core.Logger = (*LoggerMock)(nil)

func NewLoggerMock() *LoggerMock {
	return &LoggerMock{}
}

func (l *LoggerMock) record(level, msg string, args []interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, Entry{Level: level, Msg: msg, Args: args})
}

// Entries returns the recorded entries of level, or all of them when level is "".
func (l *LoggerMock) Entries(level string) []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []Entry
	for _, e := range l.entries {
		if level == "" || e.Level == level {
			out = append(out, e)
		}
	}
	return out
}

func (l *LoggerMock) Debug(msg string, args ...interface{}) { l.record("debug", msg, args) }
func (l *LoggerMock) Info(msg string, args ...interface{})  { l.record("info", msg, args) }
func (l *LoggerMock) Warn(msg string, args ...interface{})  { l.record("warn", msg, args) }
func (l *LoggerMock) Error(msg string, args ...interface{}) { l.record("error", msg, args) }
func (l *LoggerMock) Fatal(msg string, args ...interface{}) { l.record("fatal", msg, args) }
