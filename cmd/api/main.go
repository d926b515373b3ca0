package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/akindipe/careerbridge/internal/auth"
	"github.com/akindipe/careerbridge/internal/chat"
	"github.com/akindipe/careerbridge/internal/data"
	"github.com/akindipe/careerbridge/internal/db"
	"github.com/akindipe/careerbridge/internal/middleware"
)

const (
	tokenLifetime = 24 * time.Hour

	readMarkWindow  = 2 * time.Second
	readMarkHorizon = 10 * time.Minute

	shutdownGrace = 10 * time.Second
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	mongoURI := os.Getenv("MONGODB_URI")
	if mongoURI == "" {
		log.Fatal("MONGODB_URI is required")
	}
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET is required")
	}
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	rpm := 10
	if v := os.Getenv("RATE_LIMIT_RPM"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			log.Fatalf("invalid RATE_LIMIT_RPM %q", v)
		}
		rpm = n
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	client, err := db.New(ctx, mongoURI)
	cancel()
	if err != nil {
		log.Fatalf("connecting to mongodb: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Close(ctx); err != nil {
			log.Printf("closing mongodb client: %v", err)
		}
	}()

	ctx, cancel = context.WithTimeout(context.Background(), 30*time.Second)
	err = client.CreateIndexes(ctx)
	cancel()
	if err != nil {
		log.Fatalf("creating indexes: %v", err)
	}

	users := data.NewUsersStore(client.UsersCollection())
	msgs := data.NewMessagesStore(client.MessagesCollection())
	resolver := data.NewContactResolver(users, msgs, nil)
	contacts := data.NewAggregator(resolver, msgs)

	jwtMgr := auth.NewJWTManager(jwtSecret, tokenLifetime)

	limiter := middleware.NewLimiterStore(rpm, 3, time.Minute)
	defer limiter.Stop()

	throttle := data.NewReadThrottle(readMarkWindow, readMarkHorizon, time.Minute)
	defer throttle.Stop()

	hub := chat.NewHub(nil)
	delivery := chat.NewRouter(hub)

	srv := newServer(users, msgs, contacts, jwtMgr, hub, delivery, throttle)

	httpServer := &http.Server{
		Addr:         ":" + port,
		Handler:      srv.routes(limiter),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 0, // websocket connections stay open
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("api listening on :%s", port)
		errCh <- httpServer.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	case sig := <-stop:
		log.Printf("received %s, shutting down", sig)
		ctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := httpServer.Shutdown(ctx); err != nil {
			log.Printf("shutdown: %v", err)
		}
	}
}
