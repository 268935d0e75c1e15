// Package main runs the wanderer server: the Telnet game and the admin HTTP surface.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/cory-johannsen/wanderer/internal/admin"
	"github.com/cory-johannsen/wanderer/internal/config"
	"github.com/cory-johannsen/wanderer/internal/frontend/handlers"
	"github.com/cory-johannsen/wanderer/internal/frontend/telnet"
	"github.com/cory-johannsen/wanderer/internal/game/command"
	"github.com/cory-johannsen/wanderer/internal/game/session"
	"github.com/cory-johannsen/wanderer/internal/game/world"
	"github.com/cory-johannsen/wanderer/internal/observability"
	"github.com/cory-johannsen/wanderer/internal/server"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	worldPath := flag.String("world", "", "world file, overriding world.path")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	if *worldPath != "" {
		cfg.World.Path = *worldPath
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("starting wanderer",
		zap.String("world", cfg.World.Path),
		zap.Bool("shared", cfg.World.Shared),
	)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := observability.NewMetrics(registry)

	// A bad world file is fatal even when each session loads its own copy.
	loadStart := time.Now()
	template, err := world.LoadWorldFromFile(cfg.World.Path)
	metrics.ObserveWorldLoad(err)
	if err != nil {
		logger.Fatal("loading world", zap.String("path", cfg.World.Path), zap.Error(err))
	}
	logger.Info("world loaded",
		zap.Int("rooms", template.RoomCount()),
		zap.String("start", string(template.Start())),
		zap.Duration("elapsed", time.Since(loadStart)),
	)

	var worlds handlers.WorldSource = &handlers.FileWorlds{Path: cfg.World.Path, Metrics: metrics}
	if cfg.World.Shared {
		worlds = handlers.NewSharedWorld(template)
	}

	sessions := session.NewManager()
	game := handlers.NewGameHandler(worlds, command.DefaultRegistry(), sessions, logger,
		handlers.WithMetrics(metrics),
		handlers.WithCapacity(cfg.Session.InventoryCapacity),
		handlers.WithWidth(cfg.Telnet.Width),
	)
	acceptor := telnet.NewAcceptor(cfg.Telnet, game, logger)

	lifecycle := server.NewLifecycle(logger)
	lifecycle.Add("telnet", &server.FuncService{
		StartFn: acceptor.ListenAndServe,
		StopFn:  acceptor.Stop,
	})
	if cfg.Admin.Enabled {
		router := admin.NewRouter(admin.Deps{
			World:    template,
			Sessions: sessions,
			Gatherer: registry,
			Logger:   logger.Named("admin"),
		})
		lifecycle.Add("admin", admin.NewServer(cfg.Admin.Addr(), router, logger))
	}

	logger.Info("server initialized",
		zap.Duration("startup", time.Since(start)),
		zap.String("telnet_addr", cfg.Telnet.Addr()),
		zap.Strings("services", lifecycle.Names()),
	)

	if err := lifecycle.Run(context.Background()); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}
