package app

import (
	"database/sql"

	"hris-payroll/internal/attendance"
	"hris-payroll/internal/config"
	"hris-payroll/internal/contract"
	"hris-payroll/internal/employee"
	"hris-payroll/internal/leave"
	"hris-payroll/internal/messaging/kafka"
	"hris-payroll/internal/middleware"
	"hris-payroll/internal/payroll"
	"hris-payroll/internal/rbac"
	"hris-payroll/internal/salaryconfig"
	"hris-payroll/internal/shared/tokenstore"
	"hris-payroll/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type modules struct {
	cfg    *config.Config
	db     *sql.DB
	gormDB *gorm.DB
	rdb    *redis.Client
	store  storage.ObjectStore
	logger *zap.Logger
}

func payrollConfig(cfg config.PayrollConfig) payroll.Config {
	return payroll.Config{
		StandardWorkDays:        cfg.StandardWorkDays,
		BlockLockedRegeneration: cfg.BlockLockedRegeneration,
		LegacyFallback:          cfg.LegacyFallback,
		GenerateTimeout:         cfg.GenerateTimeout,
		Workers:                 cfg.Workers,
		PayslipTokenTTL:         cfg.PayslipTokenTTL,
	}
}

// payrollDeps builds the payroll service collaborators. The consumer uses it
// too, without tokens.
func payrollDeps(db *sql.DB, gormDB *gorm.DB, store storage.ObjectStore) payroll.Deps {
	return payroll.Deps{
		DB:             db,
		Repo:           payroll.NewRepository(gormDB),
		AttendanceRepo: attendance.NewRepository(gormDB),
		LeaveRepo:      leave.NewRepository(gormDB),
		ConfigRepo:     salaryconfig.NewRepository(gormDB),
		ContractRepo:   contract.NewRepository(gormDB),
		OutboxRepo:     kafka.NewOutboxRepository(db),
		Store:          store,
	}
}

func registerModules(router *gin.Engine, m modules) error {
	// --- Repositories ---
	rbacRepo := rbac.NewRepository(m.gormDB)
	attendanceRepo := attendance.NewRepository(m.gormDB)
	employeeRepo := employee.NewRepository(m.gormDB)
	salaryConfigRepo := salaryconfig.NewRepository(m.gormDB)
	contractRepo := contract.NewRepository(m.gormDB)
	leaveRepo := leave.NewRepository(m.gormDB)
	outboxRepo := kafka.NewOutboxRepository(m.db)

	// --- RBAC Core ---
	enforcer, err := rbac.NewEnforcer()
	if err != nil {
		return err
	}
	rbacService := rbac.NewService(rbacRepo, enforcer, m.logger)

	// --- Services ---
	attendanceService := attendance.NewService(attendanceRepo, m.logger)
	employeeService := employee.NewService(employeeRepo, m.rdb, m.logger)
	salaryConfigService := salaryconfig.NewService(m.db, salaryConfigRepo, employeeRepo, m.logger)
	contractService := contract.NewService(m.db, contractRepo, employeeRepo, salaryConfigRepo, m.logger)
	leaveService := leave.NewService(m.db, leaveRepo, outboxRepo, m.rdb, leave.Config{
		AllowTerminalRedecide: m.cfg.Leave.AllowTerminalRedecide,
		TypesCacheTTL:         m.cfg.Leave.TypesCacheTTL,
	}, m.logger)

	deps := payrollDeps(m.db, m.gormDB, m.store)
	deps.Tokens = tokenstore.NewRedisStore(m.rdb, "payslip:download")
	payrollService := payroll.NewService(deps, payrollConfig(m.cfg.Payroll), m.logger)

	// --- Handlers ---
	attendanceHandler := attendance.NewHandler(attendanceService)
	employeeHandler := employee.NewHandler(employeeService)
	salaryConfigHandler := salaryconfig.NewHandler(salaryConfigService)
	contractHandler := contract.NewHandler(contractService)
	leaveHandler := leave.NewHandler(leaveService)
	payrollHandler := payroll.NewHandler(payrollService, m.rdb, rbacService, m.logger)
	rbacHandler := rbac.NewHandler(rbacService)

	// --- Routes Registration ---
	public := router.Group("/api/v1")
	payroll.RegisterPublicRoutes(public, payrollHandler)

	api := router.Group("/api/v1")
	api.Use(middleware.AuthMiddleware(m.cfg.JWT.Secret))
	{
		attendance.RegisterRoutes(api, attendanceHandler, rbacService)
		employee.RegisterRoutes(api, employeeHandler, rbacService)
		salaryconfig.RegisterRoutes(api, salaryConfigHandler, rbacService)
		contract.RegisterRoutes(api, contractHandler, rbacService)
		leave.RegisterRoutes(api, leaveHandler, rbacService)
		payroll.RegisterRoutes(api, payrollHandler, rbacService, m.rdb, m.cfg.Payroll.GenerateRatePerMinute)
		rbac.RegisterRoutes(api, rbacHandler)
	}

	return nil
}
