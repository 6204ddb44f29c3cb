package echoportal

import (
	"net/http"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/adrodovia/portal/core/member"
)

// Cookie names. The session ones mirror the keys the portal has always stored.
const (
	userCookie   = "usuario_sistema"
	tokenCookie  = "token_sistema"
	viewerCookie = "portal_sid"

	loginPath       = "/login"
	sessionAudience = "portal"

	contextTokenKey  = "sessionToken"
	contextViewerKey = "viewer"
)

// sessionClaims carries the public member record of the logged in user. The member ID is the Subject.
type sessionClaims struct {
	jwt.StandardClaims
	User member.Record `json:"usuario"`
}

func (s *Server) newSessionClaims(usr member.Record) *sessionClaims {
	now := time.Now()
	return &sessionClaims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    s.Conf.AppName,
			Subject:   usr.Get(member.KeyID),
			Audience:  sessionAudience,
			ExpiresAt: now.Add(s.Conf.Server.SessionExpirationDelta).Unix(),
			IssuedAt:  now.Unix(),
		},
		User: usr.Public(),
	}
}

// signSession generates the signed JWT stored in the user cookie.
func (s *Server) signSession(claims *sessionClaims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	ss, err := token.SignedString([]byte(s.Conf.SecretKey))
	if err != nil {
		return "", errors.Wrap(err, "signing session")
	}
	return ss, nil
}

func (s *Server) setSession(ctx echo.Context, login member.Login) error {
	ss, err := s.signSession(s.newSessionClaims(login.User))
	if err != nil {
		return err
	}
	expires := time.Now().Add(s.Conf.Server.SessionExpirationDelta)
	ctx.SetCookie(s.cookie(userCookie, ss, expires))
	ctx.SetCookie(s.cookie(tokenCookie, login.Token, expires))
	return nil
}

func (s *Server) clearSession(ctx echo.Context) {
	for _, name := range []string{userCookie, tokenCookie} {
		c := s.cookie(name, "", time.Unix(0, 0))
		c.MaxAge = -1
		ctx.SetCookie(c)
	}
}

func (s *Server) cookie(name, value string, expires time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   !s.Conf.Debug,
		SameSite: http.SameSiteLaxMode,
	}
}

// sessionMiddleware requires a valid session cookie. Anything else is sent to the login page.
func (s *Server) sessionMiddleware() echo.MiddlewareFunc {
	return middleware.JWTWithConfig(middleware.JWTConfig{
		SigningKey:    []byte(s.Conf.SecretKey),
		SigningMethod: middleware.AlgorithmHS256,
		ContextKey:    contextTokenKey,
		Claims:        new(sessionClaims),
		TokenLookup:   "cookie:" + userCookie,
		ErrorHandlerWithContext: func(err error, ctx echo.Context) error {
			return ctx.Redirect(http.StatusSeeOther, loginPath)
		},
	})
}

// roleMiddleware lets through the users having one of roles. No roles means any logged in user.
func roleMiddleware(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			usr, err := contextUser(ctx)
			if err != nil || !usr.HasAnyRole(roles...) {
				return ctx.Redirect(http.StatusSeeOther, loginPath)
			}
			return next(ctx)
		}
	}
}

// contextUser returns the user authenticated by sessionMiddleware.
func contextUser(ctx echo.Context) (member.Record, error) {
	if token, ok := ctx.Get(contextTokenKey).(*jwt.Token); ok {
		if claims, ok := token.Claims.(*sessionClaims); ok && claims.User != nil {
			return claims.User, nil
		}
	}
	return nil, member.ErrMissingSession
}

// sessionUser returns the logged in user on pages that do not require one. nil when there is no valid session.
func (s *Server) sessionUser(ctx echo.Context) member.Record {
	if usr, err := contextUser(ctx); err == nil {
		return usr
	}
	c, err := ctx.Cookie(userCookie)
	if err != nil || c.Value == "" {
		return nil
	}
	claims := new(sessionClaims)
	token, err := jwt.ParseWithClaims(c.Value, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != middleware.AlgorithmHS256 {
			return nil, errors.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(s.Conf.SecretKey), nil
	})
	if err != nil || !token.Valid {
		return nil
	}
	ctx.Set(contextTokenKey, token)
	return claims.User
}

// viewerMiddleware identifies the browser with a random id, used to keep its page state.
func (s *Server) viewerMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		var id string
		if c, err := ctx.Cookie(viewerCookie); err == nil {
			if parsed, err := uuid.Parse(c.Value); err == nil {
				id = parsed.String()
			}
		}
		if id == "" {
			id = uuid.New().String()
			ctx.SetCookie(&http.Cookie{
				Name:     viewerCookie,
				Value:    id,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}
		ctx.Set(contextViewerKey, id)
		return next(ctx)
	}
}

func contextViewer(ctx echo.Context) string {
	id, _ := ctx.Get(contextViewerKey).(string)
	return id
}
