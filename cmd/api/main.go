package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/srgjo27/scalable_ticket/internal/adapter/handler"
	"github.com/srgjo27/scalable_ticket/internal/adapter/invalidation/amqp"
	"github.com/srgjo27/scalable_ticket/internal/adapter/registry/redis"
	"github.com/srgjo27/scalable_ticket/internal/adapter/repository/postgres"
	"github.com/srgjo27/scalable_ticket/internal/core/services"
	"github.com/srgjo27/scalable_ticket/internal/platform/config"
	"github.com/srgjo27/scalable_ticket/internal/platform/database"
	"github.com/srgjo27/scalable_ticket/internal/platform/redisclient"
)

func main() {
	cfg := config.Load()

	db, err := database.NewPostgresDB(database.Config{
		Host:         cfg.DBHost,
		Port:         cfg.DBPort,
		User:         cfg.DBUser,
		Password:     cfg.DBPassword,
		DBName:       cfg.DBName,
		MaxOpenConns: cfg.DBMaxConns,
	})
	if err != nil {
		log.Fatalf("failed to connect to db: %v", err)
	}
	defer db.Close()

	redisClient, err := redisclient.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	lockRegistry := redis.New(redisClient, cfg.LockTable, cfg.LockTTL)
	storeGateway := postgres.NewGateway(db)
	invalidationHook := amqp.New(cfg.AMQPURL, cfg.CacheParams)

	bookingService := services.NewBookingService(lockRegistry, storeGateway, invalidationHook)
	bookingHandler := handler.NewBookingHandler(bookingService)

	ctx, cancelBackground := context.WithCancel(context.Background())
	go bookingService.RunLockReapSweep(ctx, cfg.ReapInterval)
	go bookingService.RunExpiredBookingSweep(ctx, cfg.ReapInterval, cfg.BookingTTL)

	mux := http.NewServeMux()
	mux.HandleFunc("/bookings", bookingHandler.CreateBooking)
	mux.HandleFunc("/seats", bookingHandler.GetAvailableSeats)

	server := &http.Server{
		Addr:         ":8080",
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Println("server starting on :8080")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server startup failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down server...")

	cancelBackground()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("server exiting")
}
