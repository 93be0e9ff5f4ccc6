package router

import (
	"net/http"
	"time"

	"kickabout/config"
	"kickabout/internal/handler"
	"kickabout/internal/middleware"
	"kickabout/internal/privacy"
	"kickabout/internal/repository"
	"kickabout/internal/service"
	"kickabout/internal/ws"

	"github.com/gin-gonic/gin"
)

func Setup(cfg *config.Config, store repository.LocationStore) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RateLimit(middleware.NewSlidingWindowLimiter(300, 60*time.Second)))

	obfuscator := privacy.NewObfuscator(cfg.Location.JitterMinMeters, cfg.Location.JitterMaxMeters)
	engine := service.NewEngine(store, obfuscator, cfg.Location.StaleAfter, cfg.Location.StoreTimeout)
	mapHub := ws.NewMapHub()

	authHandler := handler.NewAuthHandler(&cfg.JWT)
	discoveryHandler := handler.NewDiscoveryHandler(engine, &cfg.Location)
	locationHandler := handler.NewLocationHandler(engine, mapHub)

	authMw := middleware.AuthRequired(&cfg.JWT)

	r.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api/v1")
	{
		api.POST("/auth/session", authHandler.CreateSession)

		api.GET("/discover", authMw, discoveryHandler.Discover)

		me := api.Group("/me")
		me.Use(authMw)
		{
			me.POST("/location", locationHandler.UpdateLocation)
			me.GET("/location", locationHandler.GetMyLocation)
		}

		api.GET("/ws/map", ws.UpgradeMapWS(&cfg.JWT, mapHub))
	}

	return r
}
