package config

import (
	"path"

	"github.com/eskrenkovic/plaza-go/internal/env"

	"go.uber.org/zap"
)

const (
	PortEnv        = "PORT"
	DatabaseUrlEnv = "DATABASE_URL"
	RootPathEnv    = "ROOT_PATH"

	DeleteRoomsOnDisconnectEnv = "DELETE_ROOMS_ON_DISCONNECT"
)

type Config struct {
	Logger *zap.Logger

	Port           int
	DatabaseURL    string
	MigrationsPath string

	// DeleteRoomsOnDisconnect controls whether a host's personal room is torn
	// down when their connection drops. Off by default so rooms survive a
	// reconnect.
	DeleteRoomsOnDisconnect bool
}

func Load() (Config, error) {
	logger, err := zap.NewProduction()
	if err != nil {
		return Config{}, err
	}

	port := env.MustGetInt(PortEnv)
	dbURL := env.MustGetString(DatabaseUrlEnv)
	rootPath := env.MustGetString(RootPathEnv)

	migrationsPath := path.Join(rootPath, "db", "migrations")

	return Config{
		Logger:                  logger,
		Port:                    port,
		DatabaseURL:             dbURL,
		MigrationsPath:          migrationsPath,
		DeleteRoomsOnDisconnect: env.GetBoolOrDefault(DeleteRoomsOnDisconnectEnv, false),
	}, nil
}
