package config

import (
	"path"
	"time"

	"github.com/intensealchemist/DiscordChessBot/internal/modules/env"

	"go.uber.org/zap"
)

const (
	PortEnv        = "PORT"
	DatabaseUrlEnv = "DATABASE_URL"
	RootPathEnv    = "ROOT_PATH"

	StockfishPathEnv    = "STOCKFISH_PATH"
	ChallengeTimeoutEnv = "CHALLENGE_TIMEOUT_SECONDS"
	EloKFactorEnv       = "ELO_K"
)

type Config struct {
	Logger *zap.Logger

	Port           int
	DatabaseURL    string
	MigrationsPath string

	StockfishPath    string
	ChallengeTimeout time.Duration
	EloKFactor       float64
}

func Load() (Config, error) {
	logger, err := zap.NewProduction()
	if err != nil {
		return Config{}, err
	}

	port := env.MustGetInt(PortEnv)
	dbURL := env.MustGetString(DatabaseUrlEnv)
	rootPath := env.MustGetString(RootPathEnv)

	stockfishPath := env.GetStringOr(StockfishPathEnv, "stockfish")
	challengeTimeout := env.GetIntOr(ChallengeTimeoutEnv, 10)
	eloK := env.GetIntOr(EloKFactorEnv, 32)

	migrationsPath := path.Join(rootPath, "db", "migrations")

	return Config{
		Logger:           logger,
		Port:             port,
		DatabaseURL:      dbURL,
		MigrationsPath:   migrationsPath,
		StockfishPath:    stockfishPath,
		ChallengeTimeout: time.Duration(challengeTimeout) * time.Second,
		EloKFactor:       float64(eloK),
	}, nil
}
