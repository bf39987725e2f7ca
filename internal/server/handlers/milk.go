package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/herdbook/internal/service/milk"
)

// MilkHandler serves /api/milk.
type MilkHandler struct {
	svc    *milk.Service
	logger *zap.Logger
}

func NewMilkHandler(svc *milk.Service, logger *zap.Logger) *MilkHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MilkHandler{svc: svc, logger: logger}
}

func (h *MilkHandler) List(c *gin.Context) {
	out, err := h.svc.List(c.Request.Context(), milk.Query{
		CattleID:  c.Query("cattleId"),
		StartDate: c.Query("startDate"),
		EndDate:   c.Query("endDate"),
		Session:   c.Query("session"),
	})
	if err != nil {
		respondError(c, h.logger, err, "Failed to fetch milk records")
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *MilkHandler) Create(c *gin.Context) {
	var in milk.Input
	if !bindJSON(c, h.logger, &in) {
		return
	}
	out, err := h.svc.Create(c.Request.Context(), in)
	if err != nil {
		respondError(c, h.logger, err, "Failed to create milk record")
		return
	}
	c.JSON(http.StatusCreated, out)
}

func (h *MilkHandler) Stats(c *gin.Context) {
	out, err := h.svc.Stats(c.Request.Context(), c.Query("view"), c.Query("startDate"), c.Query("endDate"))
	if err != nil {
		respondError(c, h.logger, err, "Failed to fetch milk stats")
		return
	}
	c.JSON(http.StatusOK, out)
}
