package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"kickabout/config"
	"kickabout/internal/database"
	"kickabout/internal/repository"
	"kickabout/internal/router"
)

func main() {
	cfg := config.Load()

	var store repository.LocationStore
	switch cfg.Database.Driver {
	case "mysql":
		db, err := database.NewDB(&cfg.Database)
		if err != nil {
			log.Fatalf("database: %v", err)
		}
		if err := database.AutoMigrate(db); err != nil {
			log.Fatalf("migrate: %v", err)
		}
		store = repository.NewGormLocationStore(db)
	case "memory":
		store = repository.NewMemoryLocationStore()
		log.Printf("using in-memory location store (ephemeral)")
	default:
		log.Fatalf("unknown store driver %q", cfg.Database.Driver)
	}

	engine := router.Setup(cfg, store)
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	go func() {
		log.Printf("server listening on :%s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("server shutdown:", err)
	}
	log.Println("server stopped")
}
