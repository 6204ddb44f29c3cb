package notifysvc

import (
	"context"
	"log"
	"os"
	"sync"
	"time"

	"github.com/adrodovia/portal/core"
)

type consoleNotifier struct {
	log           *log.Logger
	prefix        string
	disableOutput bool
}

var _ core.NotificationService = (*consoleNotifier)(nil)

// NewConsoleNotifier prints notifications to stdout. For development.
func NewConsoleNotifier(conf *core.Config) core.NotificationService {
	return &consoleNotifier{
		log:    log.New(os.Stdout, "", 0),
		prefix: "[" + conf.AppName + "] ",
	}
}

func (svc *consoleNotifier) Notify(_ context.Context, n core.Notification) error {
	if !svc.disableOutput {
		svc.log.Printf("%s%s\nDate: %s\n\n%s\n-> %s\n", svc.prefix, n.Title, time.Now().Format(time.RFC1123Z), n.Body, n.URL)
	}
	return nil
}

// ConsoleNotifierMock records notifications instead of printing them.
type ConsoleNotifierMock struct {
	consoleNotifier

	mu   sync.Mutex
	sent []core.Notification
	Err  error
}

func NewConsoleNotifierMock() *ConsoleNotifierMock {
	return &ConsoleNotifierMock{consoleNotifier: consoleNotifier{disableOutput: true}}
}

func (svc *ConsoleNotifierMock) Notify(ctx context.Context, n core.Notification) error {
	if svc.Err != nil {
		return svc.Err
	}
	if err := svc.consoleNotifier.Notify(ctx, n); err != nil {
		return err
	}
	svc.mu.Lock()
	svc.sent = append(svc.sent, n)
	svc.mu.Unlock()
	return nil
}

func (svc *ConsoleNotifierMock) Sent() []core.Notification {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	return append([]core.Notification(nil), svc.sent...)
}
