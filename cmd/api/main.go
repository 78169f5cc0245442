package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	redis "github.com/go-redis/redis/v8"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/metamui-network/metascan-api/internal/api"
	"github.com/metamui-network/metascan-api/internal/cache"
	"github.com/metamui-network/metascan-api/internal/chainrpc"
	"github.com/metamui-network/metascan-api/internal/config"
	"github.com/metamui-network/metascan-api/internal/identity"
	"github.com/metamui-network/metascan-api/internal/logging"
	"github.com/metamui-network/metascan-api/internal/metrics"
	"github.com/metamui-network/metascan-api/internal/middleware"
	"github.com/metamui-network/metascan-api/internal/platform/migrations"
	"github.com/metamui-network/metascan-api/internal/privacy"
	"github.com/metamui-network/metascan-api/internal/storage/postgres"
)

func main() {
	if err := run(); err != nil {
		logging.NewDefault("api").WithError(err).Fatal("startup failed")
	}
}

func run() error {
	godotenv.Load()

	cfg, err := config.LoadWithOverlay(os.Getenv("CONFIG_FILE"))
	if err != nil {
		return err
	}

	log := logging.New("api", cfg.Log.Level)

	db, err := postgres.Connect(cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	if cfg.Database.Bootstrap {
		if err := migrations.Apply(context.Background(), db.DB); err != nil {
			return err
		}
		log.Info("schema bootstrap applied")
	}
	store := postgres.New(db, log)

	var responseCache cache.Cache
	if cfg.Redis.Enabled {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(context.Background()).Err(); err != nil {
			return err
		}
		defer client.Close()
		responseCache = cache.NewRedis(client, log)
		log.WithField("addr", cfg.Redis.Addr).Info("response cache: redis")
	} else {
		memoryCache := cache.NewMemory()
		defer memoryCache.Close()
		responseCache = memoryCache
		log.Info("response cache: in-process")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	gate := identity.NewGate(cfg.Auth.ValidatorKeys, cfg.Auth.TrustedIssuers, log)
	policy := privacy.NewPolicy(cfg.Privacy.MaskPrefixLen, cfg.Privacy.DIDDisplayWidth, []rune(cfg.Privacy.MaskRune)[0])

	opts := []api.ServerOption{
		api.WithHealthCheck(db.PingContext),
	}
	if cfg.Chain.RetrieveBalances {
		opts = append(opts, api.WithChainClient(chainrpc.New(cfg.Chain.RPCURL, cfg.Chain.Timeout, log)))
		log.WithField("rpc_url", cfg.Chain.RPCURL).Info("live balance retrieval enabled")
	}
	server := api.NewServer(store, responseCache, cfg.Cache, m, policy, log, opts...)

	router := mux.NewRouter()
	router.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{})).Methods(http.MethodGet)

	router.Use(middleware.CORS(cfg.HTTP.AllowedOrigins))
	router.Use(middleware.Logging(log))
	router.Use(middleware.Metrics(m))
	router.Use(middleware.Identity(gate))
	if !cfg.HTTP.RateLimitDisabled {
		limiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitPerSec, cfg.HTTP.RateLimitBurst, log)
		limiter.StartCleanup(10 * time.Minute)
		router.Use(limiter.Handler())
	}
	server.RegisterRoutes(router)

	httpServer := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      router,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", cfg.HTTP.Addr).Info("listening")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}
