package app

import (
	"os"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/akashvinod-2003/empmanage/internal/shared/config"
	"github.com/akashvinod-2003/empmanage/internal/shared/connection"
)

// BuildApp wires infrastructure and modules into the router. A broken
// engine configuration aborts startup rather than degrading scoring.
func BuildApp(router *gin.Engine) error {
	logger := zap.L().Named("app")

	engineCfg, err := config.EngineFromEnv()
	if err != nil {
		return err
	}
	if err := engineCfg.Validate(); err != nil {
		return err
	}

	gormDB, err := connection.ConnectGORMWithRetry(
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_SSLMODE"),
		5,
	)
	if err != nil {
		return err
	}
	logger.Info("database connection established")

	db, err := gormDB.DB()
	if err != nil {
		return err
	}

	redisClient, err := connection.ConnectRedisWithRetry(os.Getenv("REDIS_ADDR"), 5)
	if err != nil {
		return err
	}
	logger.Info("redis connection established")

	return registerModules(router, db, gormDB, redisClient, engineCfg)
}
