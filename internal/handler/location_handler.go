package handler

import (
	"errors"
	"net/http"

	"kickabout/internal/middleware"
	"kickabout/internal/models"
	"kickabout/internal/service"
	"kickabout/internal/ws"

	"github.com/gin-gonic/gin"
)

type LocationHandler struct {
	engine *service.Engine
	mapHub *ws.MapHub
}

func NewLocationHandler(engine *service.Engine, mapHub *ws.MapHub) *LocationHandler {
	return &LocationHandler{engine: engine, mapHub: mapHub}
}

// UpdateLocation handles POST /me/location: the client-driven upsert that
// keeps an entity discoverable. Last write wins; there is no separate
// create path.
func (h *LocationHandler) UpdateLocation(c *gin.Context) {
	entityID := middleware.GetEntityID(c)
	var req struct {
		Latitude  *float64           `json:"latitude" binding:"required"`
		Longitude *float64           `json:"longitude" binding:"required"`
		Mode      models.SharingMode `json:"mode"`
		IsVisible *bool              `json:"is_visible"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Mode == "" {
		req.Mode = models.SharingStatic
	}
	visible := true
	if req.IsVisible != nil {
		visible = *req.IsVisible
	}

	record, err := h.engine.UpdateLocation(c.Request.Context(), entityID, *req.Latitude, *req.Longitude, req.Mode, visible)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidQuery):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrUnavailable):
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "location store unavailable"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		}
		return
	}

	// Push the marker to map viewers, obfuscated the same way discovery
	// results are. Invisible entities are retracted, never pushed.
	if h.mapHub != nil {
		if record.IsVisible {
			safeLat, safeLng := h.engine.Obfuscate(record.Latitude, record.Longitude, record.Mode)
			h.mapHub.UpdateMarker(record.EntityID, safeLat, safeLng, string(record.Mode))
		} else {
			h.mapHub.RemoveMarker(record.EntityID)
		}
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok", "last_updated_at": record.LastUpdatedAt})
}

// GetMyLocation returns the caller's own raw record. Owners see their true
// coordinates; nobody else ever does.
func (h *LocationHandler) GetMyLocation(c *gin.Context) {
	entityID := middleware.GetEntityID(c)
	record, err := h.engine.GetLocation(c.Request.Context(), entityID)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "location store unavailable"})
		return
	}
	if record == nil {
		c.JSON(http.StatusOK, gin.H{"latitude": nil, "longitude": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"latitude":        record.Latitude,
		"longitude":       record.Longitude,
		"mode":            record.Mode,
		"is_visible":      record.IsVisible,
		"last_updated_at": record.LastUpdatedAt,
	})
}
