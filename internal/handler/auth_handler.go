package handler

import (
	"net/http"

	"kickabout/config"
	"kickabout/internal/auth"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AuthHandler struct {
	cfg *config.JWTConfig
}

func NewAuthHandler(cfg *config.JWTConfig) *AuthHandler {
	return &AuthHandler{cfg: cfg}
}

// CreateSession handles POST /auth/session: issues an anonymous identity
// for a device. Account management lives elsewhere; this service only
// needs a stable entity id to key location upserts.
func (h *AuthHandler) CreateSession(c *gin.Context) {
	entityID := uuid.NewString()
	token, err := auth.GenerateAccessToken(h.cfg, entityID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token generation failed"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"entity_id":    entityID,
		"access_token": token,
		"expires_in":   int(h.cfg.AccessExpiry.Seconds()),
	})
}
