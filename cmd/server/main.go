package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"github.com/pranavnigade123/drawzzl-backend/internal/config"
	"github.com/pranavnigade123/drawzzl-backend/internal/game"
	"github.com/pranavnigade123/drawzzl-backend/internal/gateway"
	"github.com/pranavnigade123/drawzzl-backend/internal/handlers"
	"github.com/pranavnigade123/drawzzl-backend/internal/middleware"
	"github.com/pranavnigade123/drawzzl-backend/internal/ratelimit"
	"github.com/pranavnigade123/drawzzl-backend/internal/store"
	"github.com/pranavnigade123/drawzzl-backend/internal/words"
	"github.com/pranavnigade123/drawzzl-backend/pkg/websocket"
)

func main() {
	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	roomStore, err := store.NewMongoStore(ctx, cfg.Mongo.URI, cfg.Mongo.Database)
	cancel()
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}

	bank, err := words.NewBank(cfg.WordBank.File)
	if err != nil {
		log.Fatalf("Failed to load word bank: %v", err)
	}

	hub := websocket.NewHub()
	engine := game.NewEngine(roomStore, bank, hub)
	limiter := ratelimit.NewLimiter()
	gateway.New(hub, roomStore, engine, limiter)

	go hub.Run()

	stop := make(chan struct{})
	go engine.RunSweeper(stop)
	go limiter.RunGC(5*time.Minute, 5*time.Minute, stop)

	startTime := time.Now()
	router := mux.NewRouter()
	router.HandleFunc("/health", handlers.Health(roomStore, hub, startTime)).Methods("GET")
	router.HandleFunc("/ws", handlers.ServeWS(hub, cfg.CORS.AllowedOrigins)).Methods("GET")

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      middleware.Apply(router, cfg),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Printf("Starting server on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	gracefulShutdown(srv, hub, roomStore, stop, cfg.Server.ShutdownTimeout)
}

// gracefulShutdown waits for a termination signal, then drains the hub
// and HTTP server and closes the store.
func gracefulShutdown(srv *http.Server, hub *websocket.Hub, roomStore store.RoomStore, stop chan struct{}, timeout time.Duration) {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	<-sig
	log.Println("Shutting down server...")

	close(stop)
	hub.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
	if err := roomStore.Close(ctx); err != nil {
		log.Printf("Store close error: %v", err)
	}

	log.Println("Server gracefully stopped")
}
