package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/herdbook/internal/service/feed"
)

// FeedHandler serves /api/feed.
type FeedHandler struct {
	svc    *feed.Service
	logger *zap.Logger
}

func NewFeedHandler(svc *feed.Service, logger *zap.Logger) *FeedHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FeedHandler{svc: svc, logger: logger}
}

func (h *FeedHandler) List(c *gin.Context) {
	out, err := h.svc.List(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err, "Failed to fetch feed inventory")
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *FeedHandler) Get(c *gin.Context) {
	out, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err, "Failed to fetch feed inventory")
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *FeedHandler) Create(c *gin.Context) {
	var in feed.Input
	if !bindJSON(c, h.logger, &in) {
		return
	}
	out, err := h.svc.Create(c.Request.Context(), in)
	if err != nil {
		respondError(c, h.logger, err, "Failed to create feed inventory")
		return
	}
	c.JSON(http.StatusCreated, out)
}

func (h *FeedHandler) Update(c *gin.Context) {
	var in feed.Input
	if !bindJSON(c, h.logger, &in) {
		return
	}
	out, err := h.svc.Update(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		respondError(c, h.logger, err, "Failed to update feed inventory")
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *FeedHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.logger, err, "Failed to delete feed inventory")
		return
	}
	success(c)
}

func (h *FeedHandler) ListUsage(c *gin.Context) {
	out, err := h.svc.ListUsage(c.Request.Context(), c.Query("inventoryId"))
	if err != nil {
		respondError(c, h.logger, err, "Failed to fetch feed records")
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *FeedHandler) RecordUsage(c *gin.Context) {
	var in feed.UsageInput
	if !bindJSON(c, h.logger, &in) {
		return
	}
	out, err := h.svc.RecordUsage(c.Request.Context(), in)
	if err != nil {
		respondError(c, h.logger, err, "Failed to create feed record")
		return
	}
	c.JSON(http.StatusCreated, out)
}

func (h *FeedHandler) Restock(c *gin.Context) {
	var in feed.RestockInput
	if !bindJSON(c, h.logger, &in) {
		return
	}
	out, err := h.svc.Restock(c.Request.Context(), in)
	if err != nil {
		respondError(c, h.logger, err, "Failed to restock feed")
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *FeedHandler) Stats(c *gin.Context) {
	out, err := h.svc.Stats(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err, "Failed to fetch feed stats")
		return
	}
	c.JSON(http.StatusOK, out)
}
