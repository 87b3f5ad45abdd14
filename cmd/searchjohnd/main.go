package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/dropDatabas3/searchjohn/internal/cluster"
	"github.com/dropDatabas3/searchjohn/internal/config"
	"github.com/dropDatabas3/searchjohn/internal/http/router"
	"github.com/dropDatabas3/searchjohn/internal/http/services"
	"github.com/dropDatabas3/searchjohn/internal/index"
	"github.com/dropDatabas3/searchjohn/internal/metrics"
	"github.com/dropDatabas3/searchjohn/internal/observability/logger"
)

func main() {
	// .env es opcional: en producción todo viene por entorno real
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	configPath := flag.String("config", os.Getenv("SEARCHJOHN_CONFIG"), "ruta al config YAML (opcional)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger.Init(logger.Config{
		Env:         cfg.App.Env,
		Level:       cfg.Log.Level,
		ServiceName: "searchjohnd",
	})
	defer func() { _ = logger.Sync() }()
	lg := logger.L()

	if err := metrics.Register(nil); err != nil {
		lg.Fatal("metrics registration failed", logger.Err(err))
	}

	peers := make([]cluster.NodeInfo, 0, len(cfg.Cluster.Peers))
	for _, p := range cfg.Cluster.Peers {
		peers = append(peers, cluster.NodeInfo{ID: p.ID, Addr: p.Addr})
	}
	topo, err := cluster.NewTopology(cfg.Cluster.Name,
		cluster.NodeInfo{ID: cfg.Cluster.NodeID, Addr: cfg.Cluster.AdvertiseAddr}, peers)
	if err != nil {
		lg.Fatal("invalid cluster topology", logger.Err(err))
	}

	reg := index.NewRegistry(cfg.Index.NumShards)
	bcast := cluster.NewBroadcaster(topo, cfg.Cluster.FanoutTimeout)
	clusterSvc := services.NewClusterService(topo, bcast, reg, time.Now(), cfg.Cluster.StatsCacheTTL)

	handler := router.New(router.Deps{
		Registry:     reg,
		ClusterSvc:   clusterSvc,
		MaxBodyBytes: cfg.Index.MaxBodyBytes,
	})

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		lg.Info("node started",
			logger.Cluster(cfg.Cluster.Name),
			logger.Node(cfg.Cluster.NodeID),
			logger.String("addr", cfg.Server.Addr),
			logger.Int("peers", len(peers)),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			lg.Fatal("server failed", logger.Err(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	lg.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		lg.Error("shutdown error", logger.Err(err))
	}
}
