package http

import (
	"credit-preapproval/internal/adapter/middleware"

	"github.com/labstack/echo/v4"
)

type Handlers struct {
	Health       *Handler
	Lenders      *LenderHandler
	Preapprovals *PreapprovalHandler
	Sessions     *SessionHandler
}

// Register mounts every route. extra runs after the session check on the
// session-scoped routes and on the sign-in hand-off; idempotency goes there.
func Register(e *echo.Echo, h Handlers, extra ...echo.MiddlewareFunc) {
	e.Validator = NewValidator()

	e.GET("/health", h.Health.Health)
	e.GET("/lenders", h.Lenders.List)
	e.GET("/lenders/:lender_id", h.Lenders.Get)
	e.PUT("/sessions/:session_id", h.Sessions.Put, extra...)

	g := e.Group("", append([]echo.MiddlewareFunc{middleware.RequireSession()}, extra...)...)
	g.POST("/preapprovals", h.Preapprovals.Start)
	g.GET("/preapprovals/:flow_id", h.Preapprovals.Get)
	g.PATCH("/preapprovals/:flow_id", h.Preapprovals.Update)
	g.POST("/preapprovals/:flow_id/next", h.Preapprovals.Next)
	g.POST("/preapprovals/:flow_id/back", h.Preapprovals.Back)
	g.POST("/preapprovals/:flow_id/submit", h.Preapprovals.Submit)
	g.GET("/applications", h.Sessions.History)
	g.GET("/applications/current", h.Sessions.Current)
	g.GET("/loans/status", h.Sessions.Status)
}
