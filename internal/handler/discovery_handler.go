package handler

import (
	"errors"
	"math"
	"net/http"
	"strconv"

	"kickabout/config"
	"kickabout/internal/service"
	"kickabout/pkg/geo"

	"github.com/gin-gonic/gin"
)

type DiscoveryHandler struct {
	engine *service.Engine
	cfg    *config.LocationConfig
}

func NewDiscoveryHandler(engine *service.Engine, cfg *config.LocationConfig) *DiscoveryHandler {
	return &DiscoveryHandler{engine: engine, cfg: cfg}
}

type discoveryResponse struct {
	EntityID     string          `json:"entity_id"`
	Distance     float64         `json:"distance"` // meters, from the true position
	DistanceText string          `json:"distance_text"`
	Coordinates  coordinatesJSON `json:"coordinates"`
}

type coordinatesJSON struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Discover handles GET /discover?lat=&lng=&radius=. The radius arrives in
// kilometers and is converted to meters here, at the boundary; everything
// inside the engine is meters.
func (h *DiscoveryHandler) Discover(c *gin.Context) {
	lat, ok1 := queryFloat(c, "lat")
	lng, ok2 := queryFloat(c, "lng")
	radiusKm, ok3 := queryFloat(c, "radius")
	if !ok1 || !ok2 || !ok3 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "lat, lng and radius query parameters are required"})
		return
	}
	if radiusKm <= 0 || radiusKm > h.cfg.MaxRadiusKm {
		c.JSON(http.StatusBadRequest, gin.H{"error": "radius must be in (0, " + strconv.FormatFloat(h.cfg.MaxRadiusKm, 'f', -1, 64) + "] km"})
		return
	}

	results, err := h.engine.Nearby(c.Request.Context(), lat, lng, radiusKm*1000)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidQuery):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrUnavailable):
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "discovery unavailable"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "discovery failed"})
		}
		return
	}

	out := make([]discoveryResponse, len(results))
	for i, r := range results {
		out[i] = discoveryResponse{
			EntityID:     r.EntityID,
			Distance:     math.Round(r.DistanceM),
			DistanceText: geo.FormatDistance(r.DistanceM / 1000),
			Coordinates:  coordinatesJSON{Lat: r.Latitude, Lng: r.Longitude},
		}
	}
	c.JSON(http.StatusOK, out)
}

func queryFloat(c *gin.Context, name string) (float64, bool) {
	raw := c.Query(name)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
