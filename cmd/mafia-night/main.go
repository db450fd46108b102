package main

import (
	"os"

	"github.com/gin-gonic/gin"

	"github.com/nightfall-games/mafia-night/internal/api"
	"github.com/nightfall-games/mafia-night/internal/config"
	"github.com/nightfall-games/mafia-night/internal/constants"
	"github.com/nightfall-games/mafia-night/internal/decision"
	"github.com/nightfall-games/mafia-night/internal/logging"
	"github.com/nightfall-games/mafia-night/internal/scheduler"
	"github.com/nightfall-games/mafia-night/internal/storage"
)

func main() {
	// Bots degrade to random legal choices without an API key, but that is
	// an operator mistake worth failing fast on.
	if os.Getenv(constants.EnvOpenAIAPIKey) == "" {
		logging.Fatal("Required environment variable not set", nil, logging.Fields{"var": constants.EnvOpenAIAPIKey})
	}

	cfg, err := config.Load(os.Getenv(constants.EnvConfigPath))
	if err != nil {
		logging.Fatal("Missing or invalid configuration", err, nil)
	}

	dbPath := os.Getenv(constants.EnvDBPath)
	if dbPath == "" {
		dbPath = cfg.DB.Path
	}
	db, err := storage.OpenAndMigrate(dbPath)
	if err != nil {
		logging.Fatal("Failed to initialize database", err, nil)
	}
	repo := storage.NewSQLiteRepository(db)

	gateway := decision.NewGateway(repo, cfg.Decision)
	sched := scheduler.New(repo, gateway, cfg)
	handler := api.NewGameHandler(repo, sched, gateway)

	router := gin.Default()
	api.RegisterRoutes(router, handler)

	addr := cfg.Server.Address
	logging.Info("Server started", logging.Fields{constants.LogFieldAddr: addr})
	if err := router.Run(addr); err != nil {
		logging.Fatal("Failed to start server", err, nil)
	}
}
