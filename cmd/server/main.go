package main

import (
	"context"
	"flag"
	"labyrinth-server/internal/engine"
	"labyrinth-server/internal/infrastructure/storage"
	"labyrinth-server/internal/network"
	"labyrinth-server/internal/server"
	"labyrinth-server/internal/systems"
	"labyrinth-server/internal/version"
	"labyrinth-server/pkg/dungeon"
	"labyrinth-server/pkg/logger"
	"labyrinth-server/pkg/utils"
	"os"
	"os/signal"
	"syscall"
	"time"
)

func init() {
	logger.Init()
}

func main() {
	// 1. Парсинг конфигурации
	var configPath, mapPath string
	var seed int64
	flag.StringVar(&configPath, "config", "", "Path to YAML config (empty for defaults)")
	flag.StringVar(&mapPath, "map", "", "Path to map description, overrides simulation.map_path")
	flag.Int64Var(&seed, "seed", 0, "Simulation seed (0 keeps the config value)")
	flag.Parse()

	cfg := engine.NewConfig()
	if configPath != "" {
		loaded, err := engine.LoadConfig(configPath)
		if err != nil {
			logger.Log.Fatal("Failed to load config: ", err)
		}
		cfg = loaded
	}
	logger.InitWith(cfg.Log)

	if mapPath != "" {
		cfg.Simulation.MapPath = mapPath
	}
	if seed != 0 {
		cfg.Simulation.Seed = seed
	}
	if cfg.Simulation.Seed == 0 {
		cfg.Simulation.Seed = time.Now().UnixNano()
	}
	if port := os.Getenv("LAB_PORT"); port != "" {
		cfg.Server.Port = port
	}

	logger.Log.Info("Starting labyrinth server...")
	logger.Log.Info(version.String())
	logger.Log.Infof("Using seed: %d", cfg.Simulation.Seed)

	// 2. Статические данные
	if cfg.Simulation.CatalogPath == "" {
		logger.Log.Fatal("simulation.catalog_path is required")
	}
	catalog, err := dungeon.LoadCatalog(cfg.Simulation.CatalogPath)
	if err != nil {
		logger.Log.Fatal("Failed to load catalog: ", err)
	}

	// 3. Сохранения
	var save systems.SaveState = storage.NewMemorySaveState()
	if cfg.Storage.SavePath != "" {
		db, err := storage.OpenSQLite(cfg.Storage.SavePath)
		if err != nil {
			logger.Log.Fatal("Failed to open save database: ", err)
		}
		defer db.Close()
		save = db
	}

	rng := utils.NewRandom(cfg.Simulation.Seed)
	col := systems.Collaborators{
		SaveState: save,
		Clock:     utils.SystemClock{},
		Random:    rng,
	}

	// 4. Ядро и стартовая карта
	hub := network.NewBroadcaster()
	svc := engine.NewService(cfg, catalog, col, hub)

	if cfg.Simulation.MapPath != "" {
		if err := svc.ChangeMap(cfg.Simulation.MapPath); err != nil {
			logger.Log.Fatal("Failed to load map: ", err)
		}
	} else {
		logger.Log.Info("No map_path configured, generating a demo map")
		if err := svc.Load(dungeon.Generate(1, rng), ""); err != nil {
			logger.Log.Fatal("Failed to build demo map: ", err)
		}
	}

	// Graceful Shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	simDone := make(chan error, 1)
	go func() { simDone <- svc.Run(ctx) }()

	// 5. Запуск сервера
	srv := server.New(svc, hub, cfg.Server.Port)
	go func() {
		if err := srv.Run(ctx); err != nil {
			logger.Log.Fatal("Server start error: ", err)
		}
	}()

	select {
	case <-ctx.Done():
		logger.Log.Info("Shutting down...")
		<-simDone
	case err := <-simDone:
		if err != nil {
			// Порча данных карты или ошибка программиста
			logger.Log.Fatal("Simulation stopped: ", err)
		}
	}

	logger.Log.Info("Done.")
}
