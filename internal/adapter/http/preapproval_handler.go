package http

import (
	"net/http"

	preuc "credit-preapproval/internal/usecase/preapproval"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type PreapprovalHandler struct {
	uc  *preuc.Usecase
	log *zap.Logger
}

func NewPreapprovalHandler(uc *preuc.Usecase, log *zap.Logger) *PreapprovalHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &PreapprovalHandler{uc: uc, log: log}
}

type startReq struct {
	Step     *int   `json:"step" validate:"omitempty,min=0,max=2"`
	LenderID string `json:"lender_id" validate:"omitempty,max=64"`
}

type flowReq struct {
	FlowID string `param:"flow_id" validate:"hex32"`
}

type updateReq struct {
	FlowID string            `param:"flow_id" validate:"hex32"`
	Fields map[string]string `json:"fields" validate:"required,min=1,dive,keys,draftfield,endkeys,max=256"`
}

// POST /preapprovals
func (h *PreapprovalHandler) Start(c echo.Context) error {
	var req startReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	dto, err := h.uc.Start(c.Request().Context(), sessionID(c), preuc.StartInput{Step: req.Step, LenderID: req.LenderID})
	if err != nil {
		return writeError(c, h.log, err, nil)
	}
	return c.JSON(http.StatusCreated, dto)
}

// GET /preapprovals/:flow_id
func (h *PreapprovalHandler) Get(c echo.Context) error {
	var req flowReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	dto, err := h.uc.Get(c.Request().Context(), sessionID(c), req.FlowID)
	if err != nil {
		return writeError(c, h.log, err, nil)
	}
	return c.JSON(http.StatusOK, dto)
}

// PATCH /preapprovals/:flow_id
func (h *PreapprovalHandler) Update(c echo.Context) error {
	var req updateReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	dto, err := h.uc.Update(c.Request().Context(), sessionID(c), req.FlowID, req.Fields)
	return h.respond(c, dto, err)
}

// POST /preapprovals/:flow_id/next
func (h *PreapprovalHandler) Next(c echo.Context) error {
	var req flowReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	dto, err := h.uc.Next(c.Request().Context(), sessionID(c), req.FlowID)
	return h.respond(c, dto, err)
}

// POST /preapprovals/:flow_id/back
func (h *PreapprovalHandler) Back(c echo.Context) error {
	var req flowReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	dto, err := h.uc.Back(c.Request().Context(), sessionID(c), req.FlowID)
	return h.respond(c, dto, err)
}

// POST /preapprovals/:flow_id/submit
func (h *PreapprovalHandler) Submit(c echo.Context) error {
	var req flowReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	dto, err := h.uc.Submit(c.Request().Context(), sessionID(c), req.FlowID)
	return h.respond(c, dto, err)
}

func (h *PreapprovalHandler) respond(c echo.Context, dto *preuc.FlowDTO, err error) error {
	if err != nil {
		return writeError(c, h.log, err, dto)
	}
	return c.JSON(http.StatusOK, dto)
}
