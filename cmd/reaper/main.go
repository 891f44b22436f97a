// cmd/reaper runs the registry reap sweep and the expired-booking sweep
// as a standalone process, for deployments that want these low-frequency
// background sweeps (spec.md §4.A reap_expired) out of the request-serving
// process. It shares all wiring with cmd/api except the HTTP server.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

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

	ctx, cancel := context.WithCancel(context.Background())
	go bookingService.RunLockReapSweep(ctx, cfg.ReapInterval)
	go bookingService.RunExpiredBookingSweep(ctx, cfg.ReapInterval, cfg.BookingTTL)

	log.Println("reaper started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("reaper shutting down")
	cancel()
}
