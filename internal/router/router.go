package router

import (
	"time"

	"github.com/Desarrollos-QV/FudiPos-Backend/internal/config"
	"github.com/Desarrollos-QV/FudiPos-Backend/internal/handler"
	"github.com/Desarrollos-QV/FudiPos-Backend/internal/middleware"
	"github.com/Desarrollos-QV/FudiPos-Backend/internal/repository"
	"github.com/Desarrollos-QV/FudiPos-Backend/internal/service"
	"github.com/Desarrollos-QV/FudiPos-Backend/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	userRepo := repository.NewUserRepository(db)
	shiftRepo := repository.NewShiftRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	businessRepo := repository.NewBusinessRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(userRepo, cfg)
	staffSvc := service.NewStaffService(userRepo)

	// Worker dispatcher — injected into services that enqueue async jobs
	dispatcher := worker.NewDispatcher(rdb)

	shiftSvc := service.NewShiftService(shiftRepo, orderRepo, dispatcher)
	exportSvc := service.NewExportService(shiftRepo, businessRepo, cfg.PDFStoragePath)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	financeH := handler.NewFinanceHandler(shiftSvc, exportSvc)
	staffH := handler.NewStaffHandler(staffSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		// Roles: cashier, manager, admin — declared per-endpoint
		finance := v1.Group("/finance")
		{
			anyStaff := middleware.RequireRole("cashier", "manager", "admin")
			supervisors := middleware.RequireRole("manager", "admin")

			finance.POST("/open", anyStaff, financeH.Open)
			finance.GET("/current", anyStaff, financeH.Current)
			finance.POST("/movement", anyStaff, financeH.PostMovement)
			finance.POST("/movements/:id/reverse", supervisors, financeH.ReverseMovement)
			finance.POST("/close", anyStaff, financeH.Close)
			finance.POST("/reopen", anyStaff, financeH.Reopen)
			finance.GET("/history", supervisors, financeH.History)
			finance.GET("/:id", anyStaff, financeH.Get)
			finance.GET("/:id/export/xlsx", supervisors, financeH.ExportXLSX)
			finance.GET("/:id/export/pdf", supervisors, financeH.ExportPDF)
		}

		staff := v1.Group("/staff", middleware.RequireRole("admin"))
		{
			staff.POST("", staffH.Create)
			staff.GET("", staffH.List)
			staff.PUT("/:id", staffH.Update)
			staff.PATCH("/:id/toggle-active", staffH.ToggleActive)
			staff.DELETE("/:id", staffH.Delete)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
