package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/NV18Codes/khaddar-storefront/internal/api"
	"github.com/NV18Codes/khaddar-storefront/internal/auth"
	"github.com/NV18Codes/khaddar-storefront/internal/checkout"
	"github.com/NV18Codes/khaddar-storefront/internal/config"
	"github.com/NV18Codes/khaddar-storefront/internal/server"
	"github.com/NV18Codes/khaddar-storefront/internal/session"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		zap.NewExample().Fatal("config load failed", zap.Error(err))
	}

	log, err := buildLogger(cfg.Log)
	if err != nil {
		zap.NewExample().Fatal("logger setup failed", zap.Error(err))
	}
	defer log.Sync()

	ctx := context.Background()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatal("redis connection failed", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
	}
	log.Info("redis ping succeeded", zap.String("addr", cfg.Redis.Addr))

	store := session.NewRedisStore(redisClient, cfg.Session.TTL)
	states := auth.NewRegistry()
	defer states.Stop()

	httpClient := &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}

	userClient, err := api.NewClient(cfg.API.BaseURL,
		api.WithHTTPClient(httpClient),
		api.WithTimeout(cfg.API.RequestTimeout),
		api.WithLogger(log),
		api.WithTokenSource(api.TokenFunc(func(ctx context.Context) string {
			sid := session.SIDFromContext(ctx)
			if sid == "" {
				return ""
			}
			sess, err := store.Auth(ctx, sid)
			if err != nil {
				return ""
			}
			return sess.AuthToken
		})),
		api.WithUnauthorizedHook(func(ctx context.Context) {
			if sid := session.SIDFromContext(ctx); sid != "" {
				states.Expire(sid)
			}
		}),
	)
	if err != nil {
		log.Fatal("api client setup failed", zap.Error(err))
	}

	adminClient, err := api.NewClient(cfg.API.BaseURL,
		api.WithHTTPClient(httpClient),
		api.WithTimeout(cfg.API.RequestTimeout),
		api.WithLogger(log),
		api.WithTokenSource(api.TokenFunc(func(ctx context.Context) string {
			sid := session.SIDFromContext(ctx)
			if sid == "" {
				return ""
			}
			sess, err := store.AdminAuth(ctx, sid)
			if err != nil {
				return ""
			}
			return sess.AuthToken
		})),
		api.WithUnauthorizedHook(func(ctx context.Context) {
			if sid := session.SIDFromContext(ctx); sid != "" {
				states.Expire(auth.AdminKey(sid))
			}
		}),
	)
	if err != nil {
		log.Fatal("admin api client setup failed", zap.Error(err))
	}

	authClient := api.NewAuthClient(userClient)
	catalogClient := api.NewCatalogClient(userClient, log)
	ordersClient := api.NewOrdersClient(userClient)
	adminOrdersClient := api.NewOrdersClient(adminClient)
	admin := api.NewAdminClient(adminClient)

	flows := checkout.NewRegistry(ordersClient, store, log)
	defer flows.Stop()

	srv := server.New(server.Deps{
		Store:          store,
		States:         states,
		Flows:          flows,
		Auth:           authClient,
		Catalog:        catalogClient,
		Orders:         ordersClient,
		AdminOrders:    adminOrdersClient,
		Admin:          admin,
		RequestTimeout: cfg.API.RequestTimeout,
		Log:            log,
	})

	handler := otelhttp.NewHandler(srv.Routes(), "storefront")
	httpServer := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: handler,
	}

	go func() {
		log.Info("storefront listening", zap.String("addr", cfg.Server.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("http server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down storefront")
	shutdownCtx, cancel := context.WithTimeout(ctx, cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown did not complete cleanly", zap.Error(err))
	}
	log.Info("storefront stopped")
}

func buildLogger(cfg config.LogConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	var zc zap.Config
	if cfg.Format == "console" {
		zc = zap.NewDevelopmentConfig()
	} else {
		zc = zap.NewProductionConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	return zc.Build()
}
