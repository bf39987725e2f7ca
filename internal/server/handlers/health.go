package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/herdbook/internal/service/health"
)

// HealthHandler serves /api/health.
type HealthHandler struct {
	svc    *health.Service
	logger *zap.Logger
}

func NewHealthHandler(svc *health.Service, logger *zap.Logger) *HealthHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HealthHandler{svc: svc, logger: logger}
}

func (h *HealthHandler) List(c *gin.Context) {
	out, err := h.svc.List(c.Request.Context(), c.Query("status"), c.Query("recordType"))
	if err != nil {
		respondError(c, h.logger, err, "Failed to fetch health records")
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *HealthHandler) Get(c *gin.Context) {
	out, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err, "Failed to fetch health record")
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *HealthHandler) Create(c *gin.Context) {
	var in health.Input
	if !bindJSON(c, h.logger, &in) {
		return
	}
	out, err := h.svc.Create(c.Request.Context(), in)
	if err != nil {
		respondError(c, h.logger, err, "Failed to create health record")
		return
	}
	c.JSON(http.StatusCreated, out)
}

func (h *HealthHandler) Update(c *gin.Context) {
	var in health.Input
	if !bindJSON(c, h.logger, &in) {
		return
	}
	out, err := h.svc.Update(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		respondError(c, h.logger, err, "Failed to update health record")
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *HealthHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.logger, err, "Failed to delete health record")
		return
	}
	success(c)
}

func (h *HealthHandler) Complete(c *gin.Context) {
	var in health.CompleteInput
	if !bindJSON(c, h.logger, &in) {
		return
	}
	out, err := h.svc.Complete(c.Request.Context(), in)
	if err != nil {
		respondError(c, h.logger, err, "Failed to complete health record")
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *HealthHandler) Stats(c *gin.Context) {
	out, err := h.svc.Stats(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err, "Failed to fetch health stats")
		return
	}
	c.JSON(http.StatusOK, out)
}
