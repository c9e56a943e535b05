package app

import (
	"database/sql"
	"os"

	"github.com/Taanawutana-gai/LMS/internal/attachment"
	"github.com/Taanawutana-gai/LMS/internal/auth"
	"github.com/Taanawutana-gai/LMS/internal/balance"
	"github.com/Taanawutana-gai/LMS/internal/employee"
	"github.com/Taanawutana-gai/LMS/internal/gateway"
	"github.com/Taanawutana-gai/LMS/internal/identity"
	"github.com/Taanawutana-gai/LMS/internal/messaging/kafka"
	"github.com/Taanawutana-gai/LMS/internal/middleware"
	"github.com/Taanawutana-gai/LMS/internal/rbac"
	"github.com/Taanawutana-gai/LMS/internal/request"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	router.Use(middleware.RequestID())
	router.Use(middleware.RateLimitByIP(20, 40))

	// --- Repositories ---
	employeeRepo := employee.NewRepository(gormDB)
	balanceRepo := balance.NewRepository(gormDB)
	requestRepo := request.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)
	attachmentStore := attachment.NewGormStore(gormDB)

	// --- RBAC Core ---
	rbacService, err := rbac.NewService()
	if err != nil {
		return err
	}

	// --- Services ---
	employeeService := employee.NewService(db, employeeRepo)
	balanceService := balance.NewService(balanceRepo, rdb)
	requestService := request.NewServiceWithOutbox(db, requestRepo, attachmentStore, balanceService, outboxRepo)

	lineProvider := identity.NewLineProvider(os.Getenv("LINE_CHANNEL_ID"))
	authService := auth.NewService(lineProvider, employeeService)

	// --- Handlers ---
	employeeHandler := employee.NewHandler(employeeService)
	balanceHandler := balance.NewHandler(balanceService)
	requestHandler := request.NewHandlerWithRedis(requestService, rdb)
	attachmentHandler := attachment.NewHandler(attachmentStore)
	authHandler := auth.NewHandler(authService)
	gatewayHandler := gateway.NewHandler(employeeService, balanceService, requestService)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		auth.RegisterRoutes(api, authHandler)
		employee.RegisterRoutes(api, employeeHandler, rbacService)
		balance.RegisterRoutes(api, balanceHandler, rbacService)
		request.RegisterRoutes(api, requestHandler, rbacService, rdb)
		attachment.RegisterRoutes(api, attachmentHandler)
	}

	gateway.RegisterRoutes(router, gatewayHandler)

	return nil
}
