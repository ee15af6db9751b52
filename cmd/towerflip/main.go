package main

import (
	"os"

	"github.com/davidarcila/TowerFlip/internal/api"
	"github.com/davidarcila/TowerFlip/internal/config"
	"github.com/davidarcila/TowerFlip/internal/constants"
	"github.com/davidarcila/TowerFlip/internal/enemygen"
	"github.com/davidarcila/TowerFlip/internal/logging"
	"github.com/davidarcila/TowerFlip/internal/service"
	"github.com/davidarcila/TowerFlip/internal/storage"

	"github.com/gin-gonic/gin"
)

func main() {
	checkEnvVars([]string{constants.EnvSessionSecret, constants.EnvGoogleClientID, constants.EnvGoogleClientSecret})

	env, err := config.ParseEnv()
	if err != nil {
		logging.Fatal("Failed to read environment", err, nil)
	}

	cfg, err := config.LoadConfig(env.ConfigPath)
	if err != nil {
		logging.Fatal("Missing or invalid tower configuration", err, logging.Fields{"config_path": env.ConfigPath, "hint": "create a towerflip_config.yaml with 'effects' base values, a 'deck' array of card pairs, and optional keys: server.address, difficulty, pacing, run, fallback_enemies, enemy_prompt"})
	}

	// If the configuration provides an enemy prompt template, apply it so
	// floor enemy generation uses the configured text.
	if cfg.EnemyPrompt != "" {
		enemygen.SetPromptTemplate(cfg.EnemyPrompt)
	}

	db, err := storage.OpenAndMigrate(env.DBPath)
	if err != nil {
		logging.Fatal("Failed to initialize database", err, nil)
	}

	repo := storage.NewSQLiteRepository(db)
	registry := service.NewRegistry()
	svc := service.New(repo, registry, cfg)

	startPacingScanner(svc)
	startStallScanner(svc)

	handler := api.NewRunHandler(svc, repo)
	authHandler := api.NewAuthHandler(repo)

	router := gin.Default()

	apiRoutes := router.Group(constants.RouteAPIPrefix)
	{
		// Public endpoints
		apiRoutes.GET(constants.RouteVersion, api.GetVersion)
		apiRoutes.GET(constants.RouteLeaderboard, handler.ListLeaderboard)

		// Authenticated endpoints
		protected := apiRoutes.Group("")
		protected.Use(api.AuthRequired())

		protected.POST(constants.RouteRuns, handler.CreateRun)
		protected.GET(constants.RouteRunByID, handler.GetRun)
		protected.POST(constants.RouteRunFlip, handler.FlipCard)
		protected.POST(constants.RouteRunAdvance, handler.AdvanceFloor)
		protected.POST(constants.RouteRunAbandon, handler.AbandonRun)
		protected.GET(constants.RouteRunEvents, handler.StreamEvents)

		protected.GET(constants.RouteProgress, handler.GetProgress)
		protected.POST(constants.RouteProgress, handler.SaveProgress)
	}

	router.POST(constants.RouteAPIPrefix+constants.RouteAuthGoogleCallBack, authHandler.GoogleOAuthCallback)

	addr := cfg.ServerAddress
	logging.Info("Server started", logging.Fields{constants.LogFieldAddr: addr})
	if err := router.Run(addr); err != nil {
		logging.Fatal("Failed to start server", err, nil)
	}
}

func checkEnvVars(vars []string) {
	for _, v := range vars {
		if os.Getenv(v) == "" {
			logging.Fatal("Required environment variable not set", nil, logging.Fields{"var": v})
		}
	}
}
