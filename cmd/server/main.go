package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/eztransport/logistics-api/internal/config"
	"github.com/eztransport/logistics-api/internal/database"
	"github.com/eztransport/logistics-api/internal/handler"
	"github.com/eztransport/logistics-api/internal/logger"
	"github.com/eztransport/logistics-api/internal/queue"
	"github.com/eztransport/logistics-api/internal/repository"
	"github.com/eztransport/logistics-api/internal/router"
	"github.com/eztransport/logistics-api/internal/session"
	"github.com/eztransport/logistics-api/internal/tracking"
	"github.com/eztransport/logistics-api/internal/worker"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	if err := os.MkdirAll(cfg.LogsDir, 0o755); err != nil {
		log.Fatalf("create logs dir: %v", err)
	}
	zlog, err := logger.New(cfg.LogsDir)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		zlog.Fatal("database connect failed", zap.Error(err))
	}
	defer db.Close()

	// A dead Redis disables caching and rate limiting and drops the
	// session store to the in-process backend.
	rdb := config.NewRedisClient()
	var sessions session.Backend
	if rdb != nil {
		sessions = session.NewRedisBackend(rdb)
	} else {
		zlog.Warn("redis unavailable, using in-process session backend")
		sessions = session.NewMemoryBackend()
	}

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	customers := repository.NewCustomerRepo(db)
	drivers := repository.NewDriverRepo(db)
	vehicles := repository.NewVehicleRepo(db)
	locations := repository.NewLocationRepo(db)
	warehouses := repository.NewWarehouseRepo(db)
	routes := repository.NewRouteRepo(db)
	shipments := repository.NewShipmentRepo(db)
	items := repository.NewItemRepo(db)
	events := repository.NewEventRepo(db)

	authenticator := &handler.DBAuthenticator{Users: users, Drivers: drivers, Customers: customers}
	assembler := tracking.NewAssembler(shipments, events)

	authH := handler.NewAuthHandler(cfg, users, tokens, authenticator, sessions)
	adminH := handler.NewAdminHandler(cfg, users, customers, drivers, vehicles, locations, warehouses, routes)
	shipmentH := handler.NewShipmentHandler(shipments, customers, drivers)
	itemH := handler.NewItemHandler(items, shipments)
	trackingH := handler.NewTrackingHandler(assembler, events, shipments, locations, users)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(echomw.Logger())

	router.RegisterRoutes(e)
	router.RegisterPublic(e, trackingH, rdb)
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterAdmin(e, adminH, cfg.JWTSecret)
	router.RegisterShipments(e, shipmentH, itemH, trackingH, cfg.JWTSecret)

	go func() {
		if err := queue.StartTrackingConsumer(); err != nil {
			zlog.Error("tracking consumer stopped", zap.Error(err))
		}
	}()

	monitor := worker.NewOverdueMonitor(shipments, events, zlog)
	cronRunner, err := monitor.Start(cfg.MonitorSchedule)
	if err != nil {
		zlog.Fatal("start overdue monitor failed", zap.Error(err))
	}
	defer cronRunner.Stop()

	addr := ":" + cfg.Port
	zlog.Info("server starting", zap.String("addr", addr), zap.String("env", cfg.Env))
	if err := e.Start(addr); err != nil {
		zlog.Fatal("server stopped", zap.Error(err))
	}
}
