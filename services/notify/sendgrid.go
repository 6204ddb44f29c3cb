package notifysvc

import (
	"context"
	"html"
	"net/http"
	"net/mail"

	"github.com/pkg/errors"
	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/adrodovia/portal/core"
)

var (
	host     = "https://api.sendgrid.com"
	endpoint = "/v3/mail/send"
)

// sendgridNotifier delivers notifications by e-mail to the secretariat inbox.
type sendgridNotifier struct {
	key    string
	host   string
	from   *sgmail.Email
	to     *sgmail.Email
	prefix string
	link   string
	client *rest.Client
}

var _ core.NotificationService = (*sendgridNotifier)(nil)

func NewSendgridNotifier(conf *core.Config) (core.NotificationService, error) {
	from, err := mail.ParseAddress(conf.Notify.DefaultFromEmail)
	if err != nil {
		return nil, errors.Wrap(err, "parsing notify.defaultFromEmail")
	}
	to, err := mail.ParseAddress(conf.Notify.To)
	if err != nil {
		return nil, errors.Wrap(err, "parsing notify.to")
	}
	return &sendgridNotifier{
		key:    conf.Notify.SendgridApiKey,
		host:   host,
		from:   sgmail.NewEmail(from.Name, from.Address),
		to:     sgmail.NewEmail(to.Name, to.Address),
		prefix: "[" + conf.AppName + "] ",
		link:   "http://" + conf.Server.Host,
		client: &rest.Client{HTTPClient: http.DefaultClient},
	}, nil
}

func (svc *sendgridNotifier) prepare(n core.Notification) *sgmail.SGMailV3 {
	p := sgmail.NewPersonalization()
	p.Subject = svc.prefix + n.Title
	p.AddTos(svc.to)

	url := svc.link + n.URL
	m := sgmail.NewV3Mail()
	m.SetFrom(svc.from)
	m.AddPersonalizations(p)
	m.AddContent(
		sgmail.NewContent("text/plain", n.Body+"\r\n\r\n"+url),
		sgmail.NewContent("text/html", "<p>"+html.EscapeString(n.Body)+`</p><p><a href="`+html.EscapeString(url)+`">Abrir secretaria</a></p>`),
	)
	return m
}

func (svc *sendgridNotifier) Notify(ctx context.Context, n core.Notification) error {
	req := sendgrid.GetRequest(svc.key, endpoint, svc.host)
	req.Method = http.MethodPost
	req.Body = sgmail.GetRequestBody(svc.prepare(n))

	res, err := svc.client.SendWithContext(ctx, req)
	if err != nil {
		return errors.Wrap(err, "sending notification")
	}
	if res.StatusCode >= http.StatusBadRequest {
		return errors.Errorf("sending notification - status: %d - body: %s", res.StatusCode, res.Body)
	}
	return nil
}
