package main

import (
	"context"
	"flag"
	"io"
	"labyrinth-server/internal/automap"
	"labyrinth-server/internal/engine"
	"labyrinth-server/internal/infrastructure/storage"
	"labyrinth-server/internal/systems"
	"labyrinth-server/pkg/dungeon"
	"labyrinth-server/pkg/logger"
	"labyrinth-server/pkg/utils"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
)

func main() {
	var configPath, mapPath, logPath string
	flag.StringVar(&configPath, "config", "", "Path to YAML config (empty for defaults)")
	flag.StringVar(&mapPath, "map", "", "Path to map description (empty for a generated map)")
	flag.StringVar(&logPath, "log", "", "Write logs to this file (terminal is busy with the map)")
	flag.Parse()

	cfg := engine.NewConfig()
	cfg.Simulation.CatalogPath = "configs/catalog.yaml"
	if configPath != "" {
		loaded, err := engine.LoadConfig(configPath)
		if err != nil {
			logger.Init()
			logger.Log.Fatal("Failed to load config: ", err)
		}
		cfg = loaded
	}
	if mapPath != "" {
		cfg.Simulation.MapPath = mapPath
	}

	// Логи не должны рисовать поверх карты
	cfg.Log.Output = io.Discard
	if logPath != "" {
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			logger.Init()
			logger.Log.Fatal("Failed to open log file: ", err)
		}
		defer f.Close()
		cfg.Log.Output = f
	}
	logger.InitWith(cfg.Log)

	catalog, err := dungeon.LoadCatalog(cfg.Simulation.CatalogPath)
	if err != nil {
		logger.Log.Fatal("Failed to load catalog: ", err)
	}

	seed := cfg.Simulation.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := utils.NewRandom(seed)
	col := systems.Collaborators{
		SaveState: storage.NewMemorySaveState(),
		Clock:     utils.SystemClock{},
		Random:    rng,
	}

	viewer := automap.NewViewer()
	svc := engine.NewService(cfg, catalog, col, viewer)
	if cfg.Simulation.MapPath != "" {
		err = svc.ChangeMap(cfg.Simulation.MapPath)
	} else {
		err = svc.Load(dungeon.Generate(1, rng), "")
	}
	if err != nil {
		logger.Log.Fatal("Failed to load map: ", err)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		logger.Log.Fatal("Failed to create screen: ", err)
	}
	if err := screen.Init(); err != nil {
		logger.Log.Fatal("Failed to init screen: ", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	simErr := make(chan error, 1)
	go func() {
		simErr <- svc.Run(ctx)
		cancel()
	}()

	viewer.Run(ctx, screen, svc, 100*time.Millisecond)
	cancel()
	screen.Fini()

	if err := <-simErr; err != nil {
		logger.Log.Fatal("Simulation stopped: ", err)
	}
}
