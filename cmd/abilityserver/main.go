// Package main provides the ability server binary: it loads the ability
// store, binds manual functions, and serves the editor and gameplay
// commands over Telnet.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/ravenmud/mud/internal/config"
	"github.com/ravenmud/mud/internal/frontend/handlers"
	"github.com/ravenmud/mud/internal/frontend/telnet"
	"github.com/ravenmud/mud/internal/game/abedit"
	"github.com/ravenmud/mud/internal/game/ability"
	"github.com/ravenmud/mud/internal/game/dice"
	"github.com/ravenmud/mud/internal/game/world"
	"github.com/ravenmud/mud/internal/observability"
	"github.com/ravenmud/mud/internal/scripting"
	"github.com/ravenmud/mud/internal/server"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("starting ability server",
		zap.String("telnet_addr", cfg.Telnet.Addr()),
		zap.String("abilities_file", cfg.Abilities.File),
	)

	roller := dice.NewRoller(dice.NewCryptoSource())

	// World vnum catalogs back the misc-value validation in the editor.
	worldStart := time.Now()
	idx, err := world.LoadIndex(cfg.Content.MobsFile, cfg.Content.ObjectsFile)
	if err != nil {
		logger.Fatal("loading world catalogs", zap.Error(err))
	}
	logger.Info("world catalogs loaded",
		zap.Int("mobs", idx.MobCount()),
		zap.Int("objects", idx.ObjCount()),
		zap.Duration("elapsed", time.Since(worldStart)),
	)

	// Manual ability functions live in Lua scripts.
	manuals := ability.NewManualRegistry()
	var scriptMgr *scripting.Manager
	if cfg.Scripting.Dir != "" {
		if info, err := os.Stat(cfg.Scripting.Dir); err == nil && info.IsDir() {
			scriptStart := time.Now()
			scriptMgr = scripting.NewManager(roller, logger)
			if err := scriptMgr.Load(cfg.Scripting.Dir, cfg.Scripting.InstructionLimit); err != nil {
				logger.Fatal("loading ability scripts",
					zap.String("dir", cfg.Scripting.Dir), zap.Error(err))
			}
			count := scriptMgr.Bind(manuals)
			logger.Info("ability scripts loaded",
				zap.String("dir", cfg.Scripting.Dir),
				zap.Int("functions", count),
				zap.Duration("elapsed", time.Since(scriptStart)),
			)
			defer scriptMgr.Close()
		}
	}

	// A missing or unparsable ability store is fatal at boot.
	reg := ability.NewRegistry(logger)
	loadStart := time.Now()
	if err := reg.Load(cfg.Abilities.File); err != nil {
		logger.Fatal("loading abilities",
			zap.String("file", cfg.Abilities.File), zap.Error(err))
	}
	manuals.Bind(reg, logger)
	logger.Info("abilities loaded",
		zap.Int("count", reg.Count()),
		zap.Duration("elapsed", time.Since(loadStart)),
	)

	handler := handlers.NewAbilityHandler(reg, abedit.NewGuard(), idx, manuals,
		cfg.Abilities.File, logger)
	acceptor := telnet.NewAcceptor(cfg.Telnet, handler, logger)

	lc := server.NewLifecycle(logger)
	lc.Add("telnet", &server.FuncService{
		StartFn: acceptor.ListenAndServe,
		StopFn:  acceptor.Stop,
	})

	logger.Info("ability server ready", zap.Duration("startup", time.Since(start)))

	if err := lc.Run(context.Background()); err != nil {
		logger.Fatal("server terminated", zap.Error(err))
	}
}
