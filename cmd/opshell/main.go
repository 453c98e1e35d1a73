package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	"opshell/internal/common/database"
	"opshell/internal/common/logger"
	commonmqtt "opshell/internal/common/mqtt"
	commonredis "opshell/internal/common/redis"
	"opshell/internal/config"
	httpapi "opshell/internal/http"
	"opshell/internal/mqtt"
	"opshell/internal/registry"
	"opshell/internal/repository"
	"opshell/internal/service"
	"opshell/internal/store"

	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	log, err := logger.NewLogger(cfg.Log.Level, cfg.Log.Format, "opshell")
	if err != nil {
		log, _ = zap.NewProduction()
	}
	defer log.Sync()

	reg := registry.Default()

	// KV: Redis in normal deployments, in-memory in bypass mode so the
	// service runs with zero external infrastructure.
	var kv store.KV
	var redisClient *commonredis.Client
	if cfg.Tenant.Bypass {
		kv = store.NewMemoryKV()
		log.Info("bypass mode: using in-memory KV store")
	} else {
		redisClient = commonredis.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		pingCtx, pingCancel := context.WithTimeout(context.Background(), 3*time.Second)
		err := commonredis.Ping(pingCtx, redisClient)
		pingCancel()
		if err != nil {
			log.Warn("Redis unreachable, falling back to in-memory KV store", zap.Error(err))
			_ = redisClient.Close()
			redisClient = nil
			kv = store.NewMemoryKV()
		} else {
			kv = store.NewRedisKV(redisClient)
		}
	}
	sessions := store.NewSessionStore(kv)

	// Tenant config repository: Postgres when the DB is enabled and
	// reachable, otherwise the in-memory repo keeps every endpoint usable.
	var db *sql.DB
	var repo repository.TenantConfigsRepo
	var cached *repository.CachedTenantConfigsRepo
	if cfg.DBEnabled && !cfg.Tenant.Bypass {
		if d, err := database.NewPostgresDB(&cfg.Database); err == nil {
			db = d
			log.Info("DB enabled for opshell")
		} else {
			log.Warn("DB enabled but connection failed, falling back to memory repo", zap.Error(err))
		}
	}
	var resolver repository.UserTenantResolver
	if db != nil {
		cached = repository.NewCachedTenantConfigsRepo(repository.NewPostgresTenantConfigsRepo(db), kv, log)
		repo = cached
		resolver = repository.NewPostgresUserTenantResolver(db)
	} else {
		mem := repository.NewMemoryTenantConfigsRepo()
		mem.SeedDemoTenants(reg)
		repo = mem
		memResolver := repository.NewMemoryUserTenantResolver()
		memResolver.Assign("demo-admin", "00000000-0000-0000-0000-000000000001")
		memResolver.Assign("demo-worker", "00000000-0000-0000-0000-000000000002")
		resolver = memResolver
	}

	tenantSvc := service.NewTenantConfigService(repo, reg, log)

	tenantHandler := httpapi.NewTenantConfigHandler(tenantSvc, log)
	sessionHandler := httpapi.NewSessionHandler(sessions, resolver, cfg.Tenant.Bypass, log)
	exportHandler := httpapi.NewExportHandler(tenantSvc, reg, log)

	router := httpapi.NewRouter(log)
	router.RegisterTenantRoutes(tenantHandler)
	router.RegisterSessionRoutes(sessionHandler)
	router.RegisterAdminRoutes(tenantHandler, exportHandler, sessionHandler)

	// Optional: config invalidation broadcasts (only useful with the cache).
	var mqttClient *commonmqtt.Client
	if cfg.MQTT.Enabled && cached != nil {
		if c, err := commonmqtt.NewClient(&cfg.MQTT, log); err == nil {
			mqttClient = c
			sub := mqtt.NewSubscriber(c, cached, log)
			if err := sub.Start(cfg.MQTT.Topic); err != nil {
				log.Warn("MQTT subscribe failed", zap.Error(err))
			}
		} else {
			log.Warn("MQTT enabled but connection failed", zap.Error(err))
		}
	}

	srv := service.NewServer(cfg.HTTP.Addr, router, log)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigCh:
		log.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			log.Error("HTTP server stopped", zap.Error(err))
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = srv.Stop(shutdownCtx)
	if mqttClient != nil {
		mqttClient.Disconnect()
	}
	if redisClient != nil {
		_ = redisClient.Close()
	}
	if db != nil {
		_ = db.Close()
	}
}
