package echoportal

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/adrodovia/portal/core"
	"github.com/adrodovia/portal/services/metrics"
	"github.com/adrodovia/portal/services/offline"
)

// maxPushSize bounds the push payloads read.
const maxPushSize = 4 << 10

// receivePush displays a push message to the staff. Unusable payloads fall back to the default notification.
func (s *Server) receivePush(ctx echo.Context) error {
	payload, err := io.ReadAll(io.LimitReader(ctx.Request().Body, maxPushSize))
	if err != nil {
		return errors.Wrap(err, "reading push payload")
	}
	metrics.PushReceived.Inc()

	n := offline.DecodePush(payload)
	if err := s.Notifier.Notify(ctx.Request().Context(), n); err != nil {
		return errors.Wrap(err, "notifying")
	}
	return ctx.JSON(http.StatusAccepted, n)
}

func (s *Server) pushClick(ctx echo.Context) error {
	return ctx.Redirect(http.StatusSeeOther, core.NotificationClickURL)
}
