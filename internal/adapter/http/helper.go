package http

import (
	"errors"
	"net/http"
	"strings"

	"credit-preapproval/internal/adapter/middleware"
	"credit-preapproval/internal/domain/lender"
	"credit-preapproval/internal/domain/loan"
	"credit-preapproval/internal/domain/preapproval"
	preuc "credit-preapproval/internal/usecase/preapproval"
	sessionuc "credit-preapproval/internal/usecase/session"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// FlowErrorResponse is an error that leaves a flow behind worth showing.
type FlowErrorResponse struct {
	ErrorResponse
	Flow *preuc.FlowDTO `json:"flow,omitempty"`
}

func sessionID(c echo.Context) string { return middleware.SessionID(c) }

func normalizeSessionID(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

// bindAndValidate writes the 400/422 response itself; ok is false when it did.
func bindAndValidate(c echo.Context, req any) (ok bool, err error) {
	if err := c.Bind(req); err != nil {
		return false, c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(req); err != nil {
		return false, c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	return true, nil
}

// writeError maps domain errors → HTTP codes. flow may be nil.
func writeError(c echo.Context, log *zap.Logger, err error, flow *preuc.FlowDTO) error {
	code, body := http.StatusInternalServerError, ErrorResponse{Error: "internal error"}

	var ve *preapproval.ValidationError
	var se *preapproval.SubmissionError
	switch {
	case errors.As(err, &ve):
		code, body = http.StatusUnprocessableEntity, ErrorResponse{Error: preapproval.MsgFixValidationErrors, Details: flowFieldErrors(ve.Fields)}
	case errors.Is(err, preapproval.ErrUnknownField), errors.Is(err, preapproval.ErrInvalidStage):
		code, body = http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error()}
	case errors.Is(err, preapproval.ErrFlowNotFound), errors.Is(err, lender.ErrNotFound),
		errors.Is(err, preapproval.ErrNoCurrentApplication):
		code, body = http.StatusNotFound, ErrorResponse{Error: "not found"}
	case errors.Is(err, preapproval.ErrFlowBusy), errors.Is(err, preapproval.ErrSubmissionInProgress),
		errors.Is(err, preapproval.ErrTerminal), errors.Is(err, preapproval.ErrInvalidTransition):
		code, body = http.StatusConflict, ErrorResponse{Error: err.Error()}
	case errors.Is(err, preapproval.ErrAuthenticationMissing):
		code, body = http.StatusUnauthorized, ErrorResponse{Error: preapproval.MsgAuthenticationRequired}
	case errors.As(err, &se):
		code, body = http.StatusBadGateway, ErrorResponse{Error: se.UserMessage()}
	case errors.Is(err, loan.ErrFetchFailed):
		code, body = http.StatusBadGateway, ErrorResponse{Error: loan.ErrFetchFailed.Error()}
	case errors.Is(err, sessionuc.ErrInvalidInput):
		code, body = http.StatusBadRequest, ErrorResponse{Error: err.Error()}
	}
	if code == http.StatusInternalServerError {
		log.Error("request failed", zap.String("path", c.Path()), zap.Error(err))
	}
	if flow != nil {
		return c.JSON(code, FlowErrorResponse{ErrorResponse: body, Flow: flow})
	}
	return c.JSON(code, body)
}
