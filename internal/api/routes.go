package api

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/keeslam/CarRentalManager-sub003/internal/auth"
	"github.com/keeslam/CarRentalManager-sub003/internal/config"
	"github.com/keeslam/CarRentalManager-sub003/internal/container"
	"github.com/keeslam/CarRentalManager-sub003/internal/model"
	"github.com/keeslam/CarRentalManager-sub003/internal/websocket"
)

// NewRouter 组装路由
func NewRouter(cfg *config.Config, c *container.Container) *gin.Engine {
	if config.IsProduction(cfg) {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestIDMiddleware())
	router.Use(RequestLogMiddleware())
	router.Use(SecurityHeadersMiddleware())
	router.Use(CORSMiddleware(cfg.CORS.AllowedOrigins))
	router.Use(VersionMiddleware())
	router.Use(ErrorHandlerMiddleware())
	if cfg.Server.RateLimitRPS > 0 {
		router.Use(RateLimitMiddleware(cfg.Server.RateLimitRPS, cfg.Server.RateLimitBurst))
	}

	// 控制器
	healthCtrl := NewHealthController(c.DB, cfg.Storage.UploadDir)
	templateCtrl := NewTemplateController(c.TemplateService)
	reservationCtrl := NewReservationController(c.ReservationService)
	vehicleCtrl := NewVehicleController(c.VehicleService)
	customerCtrl := NewCustomerController(c.CustomerService, c.DriverService)
	driverCtrl := NewDriverController(c.DriverService)
	documentCtrl := NewDocumentController(c.DocumentService)
	checklistCtrl := NewChecklistController(c.ChecklistRepository)
	userCtrl := NewUserController(c.UserService)
	reportCtrl := NewReportController(c.ReportService)

	// 运维端点
	router.GET("/health", healthCtrl.Check)
	router.GET("/metrics", MetricsHandler)
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// 实时推送
	router.GET("/ws", websocket.WebSocketHandler(c.Hub, c.TokenManager))

	v1 := router.Group("/api/v1")

	// 登录不需要认证
	v1.POST("/auth/login", userCtrl.Login)

	authed := v1.Group("")
	authed.Use(auth.Middleware(c.TokenManager))
	{
		authed.GET("/auth/me", userCtrl.Me)
		authed.PUT("/auth/password", userCtrl.ChangePassword)

		templates := authed.Group("/templates")
		{
			templates.POST("", templateCtrl.Create)
			templates.GET("", templateCtrl.List)
			templates.POST("/import", templateCtrl.Import)
			templates.GET("/:id", templateCtrl.Get)
			templates.PUT("/:id", templateCtrl.Update)
			templates.DELETE("/:id", templateCtrl.Delete)
			templates.GET("/:id/versions", templateCtrl.ListVersions)
			templates.DELETE("/:id/versions/:version", templateCtrl.DeleteVersion)
			templates.POST("/:id/versions/:version/restore", templateCtrl.RestoreVersion)
			templates.POST("/:id/duplicate", templateCtrl.Duplicate)
			templates.GET("/:id/export", templateCtrl.Export)
			templates.POST("/:id/align", templateCtrl.Align)
			templates.GET("/:id/preview", templateCtrl.Preview)
		}

		reservations := authed.Group("/reservations")
		{
			reservations.POST("", reservationCtrl.Create)
			reservations.GET("", reservationCtrl.List)
			reservations.GET("/:id", reservationCtrl.Get)
			reservations.PUT("/:id", reservationCtrl.Update)
			reservations.DELETE("/:id", reservationCtrl.Delete)
			reservations.PUT("/:id/status", reservationCtrl.ChangeStatus)
		}

		vehicles := authed.Group("/vehicles")
		{
			vehicles.POST("", vehicleCtrl.Create)
			vehicles.GET("", vehicleCtrl.List)
			vehicles.GET("/:id", vehicleCtrl.Get)
			vehicles.PUT("/:id", vehicleCtrl.Update)
			vehicles.DELETE("/:id", vehicleCtrl.Delete)
		}

		customers := authed.Group("/customers")
		{
			customers.POST("", customerCtrl.Create)
			customers.GET("", customerCtrl.List)
			customers.GET("/:id", customerCtrl.Get)
			customers.PUT("/:id", customerCtrl.Update)
			customers.DELETE("/:id", customerCtrl.Delete)
			customers.GET("/:id/drivers", customerCtrl.ListDrivers)
		}

		drivers := authed.Group("/drivers")
		{
			drivers.POST("", driverCtrl.Create)
			drivers.GET("", driverCtrl.List)
			drivers.GET("/:id", driverCtrl.Get)
			drivers.PUT("/:id", driverCtrl.Update)
			drivers.DELETE("/:id", driverCtrl.Delete)
		}

		documents := authed.Group("/documents")
		{
			documents.POST("", documentCtrl.Upload)
			documents.GET("", documentCtrl.List)
			documents.GET("/:id/download", documentCtrl.Download)
			documents.DELETE("/:id", documentCtrl.Delete)
		}

		checklists := authed.Group("/checklists")
		{
			checklists.GET("", checklistCtrl.List)
			checklists.GET("/:id", checklistCtrl.Get)
		}

		reports := authed.Group("/reports")
		{
			reports.GET("/revenue", reportCtrl.Revenue)
			reports.GET("/statuses", reportCtrl.Statuses)
			reports.GET("/utilization", reportCtrl.Utilization)
			reports.GET("/top-customers", reportCtrl.TopCustomers)
		}

		// 用户管理仅管理员可用
		users := authed.Group("/users")
		users.Use(auth.RequireRole(model.RoleAdmin))
		{
			users.POST("", userCtrl.Create)
			users.GET("", userCtrl.List)
			users.GET("/:id", userCtrl.Get)
			users.PUT("/:id", userCtrl.Update)
			users.DELETE("/:id", userCtrl.Delete)
		}
	}

	router.NoRoute(func(ctx *gin.Context) {
		Error(ctx, 404, "route not found", ctx.Request.URL.Path)
	})

	return router
}
