// cmd/server/main.go
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/shannenjosh/verifyeye/internal/api"
	"github.com/shannenjosh/verifyeye/internal/app"
	"github.com/shannenjosh/verifyeye/internal/config"
	"github.com/shannenjosh/verifyeye/internal/di"
)

func main() {
	log.Println("🚀 starting verifyeye server...")

	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}
	log.Printf("✅ configuration loaded, port: %s", cfg.Port)

	// 2. Initialize all services in dependency order
	if err := app.InitServices(cfg); err != nil {
		log.Fatalf("failed to initialize services: %v", err)
	}
	log.Println("✅ services initialized")

	// 3. Health check before accepting traffic
	if err := performHealthCheck(); err != nil {
		log.Fatalf("service health check failed: %v", err)
	}

	// 4. Routes
	router, err := api.SetupRouter(cfg)
	if err != nil {
		log.Fatalf("failed to set up routes: %v", err)
	}
	log.Println("✅ routes ready")

	log.Printf("🌐 listening on port %s", cfg.Port)
	setupGracefulShutdown(router, cfg.Port)
}

// performHealthCheck verifies the critical services are registered.
func performHealthCheck() error {
	container := di.GetContainer()

	criticalServices := []string{"oracle", "store", "detection", "generation", "summary", "results"}

	for _, serviceName := range criticalServices {
		if service := container.Get(serviceName); service == nil {
			return fmt.Errorf("critical service not registered: %s", serviceName)
		}
	}

	return nil
}

// setupGracefulShutdown runs the server and drains it on SIGINT/SIGTERM.
func setupGracefulShutdown(router *gin.Engine, port string) {
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("forced server shutdown: %v", err)
	}

	app.Shutdown()
	log.Println("server stopped")
}
