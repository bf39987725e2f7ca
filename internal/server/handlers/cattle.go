package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/herdbook/internal/service/herd"
)

// CattleHandler serves /api/cattle.
type CattleHandler struct {
	svc    *herd.Service
	logger *zap.Logger
}

func NewCattleHandler(svc *herd.Service, logger *zap.Logger) *CattleHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CattleHandler{svc: svc, logger: logger}
}

func (h *CattleHandler) List(c *gin.Context) {
	out, err := h.svc.List(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err, "Failed to fetch cattle")
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *CattleHandler) Get(c *gin.Context) {
	out, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err, "Failed to fetch cattle")
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *CattleHandler) Create(c *gin.Context) {
	var in herd.Input
	if !bindJSON(c, h.logger, &in) {
		return
	}
	out, err := h.svc.Create(c.Request.Context(), in)
	if err != nil {
		respondError(c, h.logger, err, "Failed to create cattle")
		return
	}
	c.JSON(http.StatusCreated, out)
}

func (h *CattleHandler) Update(c *gin.Context) {
	var in herd.Input
	if !bindJSON(c, h.logger, &in) {
		return
	}
	out, err := h.svc.Update(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		respondError(c, h.logger, err, "Failed to update cattle")
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *CattleHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.logger, err, "Failed to delete cattle")
		return
	}
	success(c)
}
