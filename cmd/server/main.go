package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/maddiralayashwanth5/filmgrid-admin-sub001/internal/adminauth"
	"github.com/maddiralayashwanth5/filmgrid-admin-sub001/internal/audit"
	audithandler "github.com/maddiralayashwanth5/filmgrid-admin-sub001/internal/audit/handler"
	"github.com/maddiralayashwanth5/filmgrid-admin-sub001/internal/livefeed"
	"github.com/maddiralayashwanth5/filmgrid-admin-sub001/internal/notification"
	"github.com/maddiralayashwanth5/filmgrid-admin-sub001/internal/notification/gateway"
	notifhandler "github.com/maddiralayashwanth5/filmgrid-admin-sub001/internal/notification/handler"
	"github.com/maddiralayashwanth5/filmgrid-admin-sub001/internal/platform/config"
	"github.com/maddiralayashwanth5/filmgrid-admin-sub001/internal/platform/httpserver"
	"github.com/maddiralayashwanth5/filmgrid-admin-sub001/internal/platform/logger"
	"github.com/maddiralayashwanth5/filmgrid-admin-sub001/internal/platform/metrics"
	"github.com/maddiralayashwanth5/filmgrid-admin-sub001/internal/platform/postgres"
	"github.com/maddiralayashwanth5/filmgrid-admin-sub001/internal/platform/redis"
	httptransport "github.com/maddiralayashwanth5/filmgrid-admin-sub001/internal/transport/http"
)

const (
	auditFeedChannel   = "filmgrid:admin:audit-feed"
	historyFeedChannel = "filmgrid:admin:notification-feed"
)

// main wires dependencies and keeps the server lifecycle small. Business
// logic lives in the internal service packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()
	m := metrics.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := postgres.Open(cfg.PostgresURL)
	if err != nil {
		log.Error("postgres connection failed", "error", err.Error())
		os.Exit(1)
	}
	if db != nil {
		defer db.Close()
	}

	redisClient, err := redis.New(cfg.RedisURL)
	if err != nil {
		log.Error("redis connection failed", "error", err.Error())
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	var auditStore audit.Store
	var historyStore notification.HistoryStore
	if db != nil {
		auditStore = audit.NewPostgresStore(db)
		historyStore = notification.NewPostgresHistory(db)
	} else {
		log.Warn("no postgres configured, audit log and history are in-memory only")
		auditStore = audit.NewInMemoryStore()
		historyStore = notification.NewInMemoryHistory()
	}

	auditFeed := livefeed.NewHub[audit.Record](cfg.FeedWindow)
	historyFeed := livefeed.NewHub[notification.HistoryEntry](cfg.FeedWindow)

	group, runCtx := errgroup.WithContext(ctx)

	auditOpts := []audit.Option{audit.WithMetrics(m)}
	dispatchOpts := []notification.DispatcherOption{
		notification.WithMetrics(m),
		notification.WithTimeout(cfg.DispatchTimeout),
	}

	if redisClient != nil {
		auditBridge := livefeed.NewBridge(auditFeed, redisClient.Client, auditFeedChannel, log)
		historyBridge := livefeed.NewBridge(historyFeed, redisClient.Client, historyFeedChannel, log)
		auditOpts = append(auditOpts, audit.WithAnnounce(auditBridge.Announce))
		dispatchOpts = append(dispatchOpts, notification.WithAnnounce(historyBridge.Announce))
		group.Go(func() error { return ignoreCancel(auditBridge.Run(runCtx)) })
		group.Go(func() error { return ignoreCancel(historyBridge.Run(runCtx)) })
	}

	if len(cfg.KafkaBrokers) > 0 {
		mirror, err := audit.NewKafkaMirror(cfg.KafkaBrokers, cfg.KafkaTopic, log)
		if err != nil {
			log.Error("kafka mirror setup failed", "error", err.Error())
			os.Exit(1)
		}
		defer mirror.Close()
		auditOpts = append(auditOpts, audit.WithMirror(mirror))
	}

	auditSvc := audit.NewService(auditStore, auditFeed, log, auditOpts...)

	var gw notification.Gateway
	if cfg.GatewayURL != "" {
		gw = gateway.NewHTTPGateway(cfg.GatewayURL, cfg.GatewayAPIKey, &http.Client{
			Timeout: cfg.DispatchTimeout + 5*time.Second,
		})
	} else {
		log.Warn("no delivery gateway configured, dispatches use an in-process fake")
		gw = &gateway.Fake{}
	}

	dispatchOpts = append(dispatchOpts, notification.WithAuditLog(auditSvc))
	dispatcher := notification.NewDispatcher(gw, historyStore, historyFeed, log, dispatchOpts...)

	warmCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := auditSvc.Warm(warmCtx, cfg.FeedWindow); err != nil {
		log.Error("audit feed warm-up failed", "error", err.Error())
		os.Exit(1)
	}
	if err := dispatcher.Warm(warmCtx, cfg.FeedWindow); err != nil {
		log.Error("history feed warm-up failed", "error", err.Error())
		os.Exit(1)
	}

	tokens := adminauth.NewJWTService(cfg.JWTSigningKey, "filmgrid-admin")

	router := httptransport.NewRouter(httptransport.Deps{
		Logger:        log,
		Validator:     tokens,
		Audit:         audithandler.New(auditSvc, log, m),
		Notifications: notifhandler.New(dispatcher, log, m),
		Health: func(ctx context.Context) error {
			if db != nil {
				if err := db.PingContext(ctx); err != nil {
					return err
				}
			}
			if redisClient != nil {
				return redisClient.Health(ctx)
			}
			return nil
		},
	})

	srv := httpserver.New(cfg.Addr, router)

	group.Go(func() error {
		log.Info("starting admin service", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-runCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil {
		log.Error("shutdown with error", "error", err.Error())
		os.Exit(1)
	}
	log.Info("shutdown complete")
}

func ignoreCancel(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
