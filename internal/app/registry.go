package app

import (
	"database/sql"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
	"gorm.io/gorm"

	"github.com/akashvinod-2003/empmanage/internal/attendance"
	"github.com/akashvinod-2003/empmanage/internal/auth"
	"github.com/akashvinod-2003/empmanage/internal/employee"
	"github.com/akashvinod-2003/empmanage/internal/leave"
	"github.com/akashvinod-2003/empmanage/internal/ledger"
	"github.com/akashvinod-2003/empmanage/internal/messaging/kafka"
	"github.com/akashvinod-2003/empmanage/internal/middleware"
	"github.com/akashvinod-2003/empmanage/internal/performance"
	"github.com/akashvinod-2003/empmanage/internal/rbac"
	"github.com/akashvinod-2003/empmanage/internal/report"
	"github.com/akashvinod-2003/empmanage/internal/salary"
	"github.com/akashvinod-2003/empmanage/internal/shared/config"
	"github.com/akashvinod-2003/empmanage/internal/task"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
	engineCfg config.Engine,
) error {
	// --- Repositories ---
	employeeRepo := employee.NewRepository(gormDB)
	attendanceRepo := attendance.NewRepository(gormDB)
	leaveRepo := leave.NewRepository(gormDB)
	ledgerRepo := ledger.NewRepository(gormDB)
	salaryRepo := salary.NewRepository(gormDB)
	performanceRepo := performance.NewRepository(gormDB)
	taskRepo := task.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- RBAC core ---
	enforcer, err := rbac.NewEnforcer()
	if err != nil {
		return err
	}

	// --- Services ---
	employeeService := employee.NewService(db, employeeRepo)
	ledgerService := ledger.NewService(db, ledgerRepo, employeeRepo)
	attendanceService := attendance.NewServiceWithOutbox(db, attendanceRepo, outboxRepo, engineCfg)
	leaveService := leave.NewServiceWithOutbox(db, leaveRepo, employeeRepo, ledgerService, outboxRepo, engineCfg)
	salaryService := salary.NewServiceWithOutbox(db, salaryRepo, performanceRepo, outboxRepo, engineCfg)
	performanceService := performance.NewService(performanceRepo)
	taskService := task.NewService(taskRepo)
	authService := auth.NewService(employeeRepo)
	reportService := report.NewService(employeeRepo, attendanceRepo, leaveRepo, salaryRepo, taskRepo, rdb)

	// --- Handlers ---
	authHandler := auth.NewHandler(authService)
	employeeHandler := employee.NewHandler(employeeService)
	attendanceHandler := attendance.NewHandler(attendanceService)
	leaveHandler := leave.NewHandler(leaveService)
	salaryHandler := salary.NewHandler(salaryService)
	performanceHandler := performance.NewHandler(performanceService)
	taskHandler := task.NewHandler(taskService)
	reportHandler := report.NewHandler(reportService)

	// --- Routes ---
	api := router.Group("/api/v1")
	api.Use(middleware.RateLimitByIP(rate.Limit(50), 100))
	{
		auth.RegisterRoutes(api, authHandler)
		employee.RegisterRoutes(api, employeeHandler, enforcer)
		attendance.RegisterRoutes(api, attendanceHandler, enforcer, rdb)
		leave.RegisterRoutes(api, leaveHandler, enforcer, rdb)
		salary.RegisterRoutes(api, salaryHandler, enforcer, rdb)
		performance.RegisterRoutes(api, performanceHandler, enforcer)
		task.RegisterRoutes(api, taskHandler, enforcer)
		report.RegisterRoutes(api, reportHandler, enforcer)
	}

	return nil
}
