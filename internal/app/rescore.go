package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/akashvinod-2003/empmanage/internal/attendance"
	"github.com/akashvinod-2003/empmanage/internal/employee"
	"github.com/akashvinod-2003/empmanage/internal/shared/config"
	"github.com/akashvinod-2003/empmanage/internal/shared/connection"
)

// RunRescore re-runs the attendance flagger over every stored record
// and refreshes the advisory fields. Review decisions are never
// touched. The batch stops cleanly on SIGINT/SIGTERM.
func RunRescore() error {
	logger := zap.L().Named("app.rescore")

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

	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	employeeRepo := employee.NewRepository(gormDB)
	attendanceRepo := attendance.NewRepository(gormDB)
	attendanceService := attendance.NewService(sqlDB, attendanceRepo, engineCfg, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-quit
		logger.Info("rescore aborting", zap.String("signal", sig.String()))
		cancel()
	}()

	employees, err := employeeRepo.FindAll(ctx)
	if err != nil {
		return err
	}

	var scored, failed int
	for _, emp := range employees {
		if ctx.Err() != nil {
			logger.Warn("rescore aborted mid-batch",
				zap.Int("scored", scored),
				zap.Int("failed", failed),
			)
			return ctx.Err()
		}

		records, err := attendanceRepo.FindAllByEmployee(ctx, emp.ID.String())
		if err != nil {
			return err
		}
		for _, rec := range records {
			if ctx.Err() != nil {
				logger.Warn("rescore aborted mid-batch",
					zap.Int("scored", scored),
					zap.Int("failed", failed),
				)
				return ctx.Err()
			}
			if err := attendanceService.Rescore(ctx, rec.ID.String()); err != nil {
				failed++
				logger.Warn("rescore record failed",
					zap.String("record_id", rec.ID.String()),
					zap.Error(err),
				)
				continue
			}
			scored++
		}
	}

	logger.Info("rescore complete",
		zap.Int("employees", len(employees)),
		zap.Int("scored", scored),
		zap.Int("failed", failed),
	)
	return nil
}
