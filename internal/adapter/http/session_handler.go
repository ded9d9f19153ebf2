package http

import (
	"net/http"

	"credit-preapproval/internal/domain/preapproval"
	preuc "credit-preapproval/internal/usecase/preapproval"
	sessionuc "credit-preapproval/internal/usecase/session"
	"credit-preapproval/internal/usecase/status"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// SessionHandler serves what is kept per session: sign-in data, the current
// application, the submission history and the loan status page.
type SessionHandler struct {
	sessions *sessionuc.Usecase
	flows    *preuc.Usecase
	status   *status.Usecase
	log      *zap.Logger
}

func NewSessionHandler(s *sessionuc.Usecase, f *preuc.Usecase, st *status.Usecase, log *zap.Logger) *SessionHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &SessionHandler{sessions: s, flows: f, status: st, log: log}
}

type putSessionReq struct {
	SessionID string               `param:"session_id" validate:"required,sessionid"`
	Token     string               `json:"token" validate:"required,max=4096"`
	UserData  *preapproval.Profile `json:"user_data"`
}

type historyReq struct {
	Limit int `query:"limit" validate:"omitempty,min=1,max=100"`
}

const defaultHistoryLimit = 20

// PUT /sessions/:session_id
func (h *SessionHandler) Put(c echo.Context) error {
	var req putSessionReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	in := sessionuc.PutInput{Token: req.Token, UserData: req.UserData}
	if err := h.sessions.Put(c.Request().Context(), normalizeSessionID(req.SessionID), in); err != nil {
		return writeError(c, h.log, err, nil)
	}
	return c.NoContent(http.StatusNoContent)
}

// GET /applications/current
func (h *SessionHandler) Current(c echo.Context) error {
	app, err := h.sessions.Current(c.Request().Context(), sessionID(c))
	if err != nil {
		return writeError(c, h.log, err, nil)
	}
	return c.JSON(http.StatusOK, app)
}

// GET /applications?limit=
func (h *SessionHandler) History(c echo.Context) error {
	var req historyReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	if req.Limit == 0 {
		req.Limit = defaultHistoryLimit
	}
	out, err := h.flows.History(c.Request().Context(), sessionID(c), req.Limit)
	if err != nil {
		return writeError(c, h.log, err, nil)
	}
	return c.JSON(http.StatusOK, map[string]any{"applications": out})
}

// GET /loans/status
func (h *SessionHandler) Status(c echo.Context) error {
	out, err := h.status.Status(c.Request().Context(), sessionID(c))
	if err != nil {
		return writeError(c, h.log, err, nil)
	}
	return c.JSON(http.StatusOK, out)
}
