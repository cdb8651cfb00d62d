package main

import (
	"os"

	"github.com/doktorshnaps/elves-dragons-adventure-sub002/internal/api"
	"github.com/doktorshnaps/elves-dragons-adventure-sub002/internal/config"
	"github.com/doktorshnaps/elves-dragons-adventure-sub002/internal/constants"
	"github.com/doktorshnaps/elves-dragons-adventure-sub002/internal/logging"
	"github.com/doktorshnaps/elves-dragons-adventure-sub002/internal/service"
	"github.com/doktorshnaps/elves-dragons-adventure-sub002/internal/storage"

	"go.uber.org/zap"
)

func main() {
	cfg := loadConfig()

	log, err := logging.New(cfg.Server.Debug)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	dbPath := os.Getenv(constants.EnvDBPath)
	if dbPath == "" {
		dbPath = cfg.Database.Path
	}
	db, err := storage.OpenAndMigrate(dbPath)
	if err != nil {
		log.Fatal("failed to initialize database", zap.Error(err))
	}
	repo := storage.NewSQLiteRepository(db)

	svc := service.NewMatchService(repo, repo, service.NewLoggedBalance(log), service.Options{
		RatingDelta: cfg.Game.RatingDelta,
		MaxTeamSize: cfg.Game.MaxTeamSize,
		Logger:      log,
	})
	handler := api.NewMatchHandler(svc, repo, log)

	router := newRouter(cfg, handler, log)

	addr := cfg.Server.Addr
	log.Info("server started", zap.String(constants.LogFieldAddr, addr))
	if err := router.Run(addr); err != nil {
		log.Fatal("failed to start server", zap.Error(err))
	}
}

// loadConfig reads the YAML config named by ARENA_CONFIG, falling back
// to built-in defaults when the variable is unset.
func loadConfig() *config.Config {
	path := os.Getenv(constants.EnvConfigPath)
	if path == "" {
		return config.Default()
	}
	cfg, err := config.Load(path)
	if err != nil {
		panic("invalid configuration at " + path + ": " + err.Error())
	}
	return cfg
}
