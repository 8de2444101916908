// Package container 组装应用的依赖图
package container

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/keeslam/CarRentalManager-sub003/internal/auth"
	"github.com/keeslam/CarRentalManager-sub003/internal/config"
	"github.com/keeslam/CarRentalManager-sub003/internal/database"
	"github.com/keeslam/CarRentalManager-sub003/internal/metrics"
	"github.com/keeslam/CarRentalManager-sub003/internal/repository"
	"github.com/keeslam/CarRentalManager-sub003/internal/service"
	"github.com/keeslam/CarRentalManager-sub003/internal/websocket"
)

// Container 依赖容器
// 服务端命令经这里取到全部已装配依赖
type Container struct {
	Config *config.Config
	DB     *gorm.DB

	Hub          *websocket.Hub
	TokenManager *auth.TokenManager
	Collector    *metrics.Collector

	TemplateRepository  repository.TemplateRepository
	ChecklistRepository repository.ChecklistRepository

	AuditLogService    service.AuditLogService
	TemplateService    service.TemplateService
	ReservationService service.ReservationService
	VehicleService     service.VehicleService
	CustomerService    service.CustomerService
	DriverService      service.DriverService
	DocumentService    service.DocumentService
	UserService        service.UserService
	ReportService      service.ReportService
}

// New 按配置装配依赖容器
func New(cfg *config.Config) (*Container, error) {
	db, err := database.ConnectWithRetry(cfg.Database, 5, 3*time.Second)
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	return NewWithDB(cfg, db), nil
}

// NewWithDB 用现成的数据库连接装配容器
// 测试场景塞入 sqlite 内存库
func NewWithDB(cfg *config.Config, db *gorm.DB) *Container {
	hub := websocket.NewHub()
	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, time.Duration(cfg.Auth.TokenTTL)*time.Second)

	// 仓储
	templateRepo := repository.NewTemplateRepository(db)
	reservationRepo := repository.NewReservationRepository(db)
	vehicleRepo := repository.NewVehicleRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	driverRepo := repository.NewDriverRepository(db)
	documentRepo := repository.NewDocumentRepository(db)
	userRepo := repository.NewUserRepository(db)
	checklistRepo := repository.NewChecklistRepository(db)
	auditRepo := repository.NewAuditLogRepository(db)

	// 服务
	auditSvc := service.NewAuditLogService(auditRepo)
	templateSvc := service.NewTemplateService(templateRepo, checklistRepo, auditSvc, hub, cfg.Storage.UploadDir)
	reservationSvc := service.NewReservationService(reservationRepo, vehicleRepo, auditSvc, hub)
	vehicleSvc := service.NewVehicleService(vehicleRepo, auditSvc)
	customerSvc := service.NewCustomerService(customerRepo, auditSvc, cfg.Auth.EncryptionKey)
	driverSvc := service.NewDriverService(driverRepo, customerRepo, auditSvc, cfg.Auth.EncryptionKey)
	documentSvc := service.NewDocumentService(documentRepo, auditSvc, cfg.Storage.UploadDir, cfg.Storage.MaxUploadSize)
	userSvc := service.NewUserService(userRepo, auditSvc, tokens)
	reportSvc := service.NewReportService(db)

	return &Container{
		Config: cfg,
		DB:     db,

		Hub:          hub,
		TokenManager: tokens,
		Collector:    metrics.NewCollector(db, hub, 15*time.Second),

		TemplateRepository:  templateRepo,
		ChecklistRepository: checklistRepo,

		AuditLogService:    auditSvc,
		TemplateService:    templateSvc,
		ReservationService: reservationSvc,
		VehicleService:     vehicleSvc,
		CustomerService:    customerSvc,
		DriverService:      driverSvc,
		DocumentService:    documentSvc,
		UserService:        userSvc,
		ReportService:      reportSvc,
	}
}

// Close 释放容器资源
func (c *Container) Close() error {
	if c.Collector != nil {
		c.Collector.Stop()
	}
	if c.DB != nil {
		sqlDB, err := c.DB.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}
	return nil
}
