package echoportal

import (
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/adrodovia/portal/core"
	"github.com/adrodovia/portal/core/member"
	"github.com/adrodovia/portal/services/offline"
)

var (
	errHttpNotFound   = echo.NewHTTPError(http.StatusNotFound, "not found")
	errInvalidSession = echo.NewHTTPError(http.StatusBadRequest, "invalid session")
)

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler that knows how to handle our errors.
// Server errors on page navigations are answered with the cached offline page when the worker has one.
// signalShutdown is called in order to gracefully shutdown the Server whenever a core.shutdown error is caught.
func newAppHTTPErrorHandler(logger core.Logger, translator ut.Translator, worker *offline.Worker, signalShutdown func()) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		var code int
		var message interface{}

		switch origErr := errors.Cause(err).(type) {
		case *echo.HTTPError:
			if origErr.Internal != nil {
				if herr, ok := origErr.Internal.(*echo.HTTPError); ok {
					origErr = herr
				}
			}
			code = origErr.Code
			message = origErr.Message
		case validator.ValidationErrors:
			fldErrs := make(map[string]string, len(origErr))
			for _, vErr := range origErr {
				fldErrs[vErr.Field()] = vErr.Translate(translator)
			}
			code = http.StatusBadRequest
			message = fldErrs
		case *core.ValidationError:
			if origErr.Fields != nil {
				fldErrs := make(map[string]string, len(origErr.Fields))
				for _, fErr := range origErr.Fields {
					fldErrs[fErr.Field] = fErr.Error
				}
				message = fldErrs
			} else {
				message = origErr.Error()
			}
			code = http.StatusBadRequest
		default:
			if origErr == offline.ErrNoResponse {
				code = http.StatusGatewayTimeout
				message = http.StatusText(code)
				break
			}

			// any other error is a server error
			code = http.StatusInternalServerError
			msg := http.StatusText(http.StatusInternalServerError)
			message = msg

			usr, _ := contextUser(ctx)
			if usr == nil {
				usr = member.Record{}
			}
			logger.Error(msg, errors.Wrap(err, msg), usr)

			// shutting down...
			if core.IsShutdown(err) {
				signalShutdown()
			}

			if serveOffline(ctx, worker) {
				return
			}
		}

		if ctx.Echo().Debug {
			message = err.Error()
		} else if m, ok := message.(string); ok {
			message = echo.Map{"error": m}
		}

		// Send response
		if !ctx.Response().Committed {
			if ctx.Request().Method == http.MethodHead { // Issue #608
				err = ctx.NoContent(code)
			} else {
				err = ctx.JSON(code, message)
			}
			if err != nil {
				ctx.Echo().Logger.Error(err)
			}
		}
	}
}

// serveOffline answers a failed navigation with the offline page. It reports whether a response was written.
func serveOffline(ctx echo.Context, worker *offline.Worker) bool {
	if worker == nil || ctx.Response().Committed {
		return false
	}
	res, err := worker.Fallback(ctx.Request())
	if err != nil {
		return false
	}
	if err := res.Write(ctx.Response()); err != nil {
		ctx.Echo().Logger.Error(err)
	}
	return true
}
