// cmd/api/main.go

package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/OduorSamuuel/codemaster-backend/internal/config"
	"github.com/OduorSamuuel/codemaster-backend/internal/handlers"
	"github.com/OduorSamuuel/codemaster-backend/internal/repository"
	"github.com/OduorSamuuel/codemaster-backend/internal/service"
	"github.com/OduorSamuuel/codemaster-backend/internal/websocket"
)

func main() {
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize database
	db, err := repository.NewDB(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// Initialize WebSocket hub
	hub := websocket.NewHub()
	go hub.Run()

	// Initialize repositories
	roomRepo := repository.NewRoomRepository(db)
	playerRepo := repository.NewPlayerRepository(db)

	// Initialize services
	roomService := service.NewRoomService(roomRepo)
	playerService := service.NewPlayerService(roomRepo, playerRepo, hub, service.NewAvatarGenerator())
	gameService := service.NewGameService(roomRepo, hub, cfg.Game.QuestionTimeSeconds, cfg.Game.RevealDelay())
	cleanupService := service.NewCleanupService(gameService, cfg.Game.IdleTimeout(), cfg.Game.SweepInterval())

	// Session connection bookkeeping on disconnect
	hub.OnDisconnect = gameService.HandleDisconnect

	// Initialize handlers
	httpHandler := handlers.NewHTTPHandler(roomService, playerService, gameService)
	gameHandler := handlers.NewGameHandler(gameService, playerService, hub)
	wsHandler := handlers.NewWebSocketHandler(hub, gameHandler)

	// Setup Gin router
	router := gin.Default()

	// Register routes
	httpHandler.RegisterRoutes(router)
	wsHandler.RegisterRoutes(router)

	// Start the idle session sweep
	cleanupService.StartCleanupRoutine()

	// Create server
	srv := &http.Server{
		Addr:    cfg.Server.Address,
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Server starting on %s", cfg.Server.Address)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Give 5 seconds for graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}
