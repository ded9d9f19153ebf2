package http

import (
	"net/http"

	lenderuc "credit-preapproval/internal/usecase/lender"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type LenderHandler struct {
	uc  *lenderuc.Usecase
	log *zap.Logger
}

func NewLenderHandler(uc *lenderuc.Usecase, log *zap.Logger) *LenderHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &LenderHandler{uc: uc, log: log}
}

type lenderReq struct {
	LenderID string `param:"lender_id" validate:"required,max=64"`
}

// GET /lenders
func (h *LenderHandler) List(c echo.Context) error {
	out, err := h.uc.List(c.Request().Context())
	if err != nil {
		return writeError(c, h.log, err, nil)
	}
	return c.JSON(http.StatusOK, map[string]any{"lenders": out})
}

// GET /lenders/:lender_id
func (h *LenderHandler) Get(c echo.Context) error {
	var req lenderReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	out, err := h.uc.Get(c.Request().Context(), req.LenderID)
	if err != nil {
		return writeError(c, h.log, err, nil)
	}
	return c.JSON(http.StatusOK, out)
}
