package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/herdbook/internal/service/users"
)

// UserHandler serves /api/users. Routes are mounted behind the ADMIN role check.
type UserHandler struct {
	svc    *users.Service
	logger *zap.Logger
}

func NewUserHandler(svc *users.Service, logger *zap.Logger) *UserHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserHandler{svc: svc, logger: logger}
}

func (h *UserHandler) List(c *gin.Context) {
	out, err := h.svc.List(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err, internalError)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *UserHandler) Create(c *gin.Context) {
	var in users.CreateInput
	if !bindJSON(c, h.logger, &in) {
		return
	}
	out, err := h.svc.Create(c.Request.Context(), in)
	if err != nil {
		respondError(c, h.logger, err, internalError)
		return
	}
	c.JSON(http.StatusCreated, out)
}

func (h *UserHandler) Update(c *gin.Context) {
	var in users.UpdateInput
	if !bindJSON(c, h.logger, &in) {
		return
	}
	out, err := h.svc.Update(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		respondError(c, h.logger, err, internalError)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *UserHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.logger, err, internalError)
		return
	}
	success(c)
}
