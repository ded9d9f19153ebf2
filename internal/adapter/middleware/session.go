package middleware

import (
	"net/http"
	"strings"

	"credit-preapproval/pkg/id"

	"github.com/labstack/echo/v4"
)

const (
	HeaderSessionID = "Ax-Session-Id"
	ctxSessionID    = "session_id"
)

// RequireSession rejects requests without a well-formed Ax-Session-Id and
// makes the normalised id available through SessionID.
func RequireSession() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := strings.TrimSpace(c.Request().Header.Get(HeaderSessionID))
			if raw == "" {
				return c.JSON(http.StatusBadRequest, map[string]string{"error": "missing " + HeaderSessionID})
			}
			sid := strings.ToLower(raw)
			if !id.IsClientID(sid) {
				return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid " + HeaderSessionID})
			}
			c.Set(ctxSessionID, sid)
			return next(c)
		}
	}
}

// SessionID returns the id RequireSession accepted, or "".
func SessionID(c echo.Context) string {
	sid, _ := c.Get(ctxSessionID).(string)
	return sid
}
