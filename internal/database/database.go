package database

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/keeslam/CarRentalManager-sub003/internal/config"
	"github.com/keeslam/CarRentalManager-sub003/internal/model"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// PoolConfig 连接池配置
type PoolConfig struct {
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime int // 秒
	ConnMaxIdleTime int // 秒
}

// BuildDSN 构建 PostgreSQL DSN
func BuildDSN(cfg config.DatabaseConfig) string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode)
}

// Connect 连接数据库并配置连接池
func Connect(cfg config.DatabaseConfig) (*gorm.DB, error) {
	dsn := BuildDSN(cfg)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	// 从配置中读取连接池参数,未设置的项使用默认值
	pool := PoolConfig{
		MaxIdleConns:    cfg.MaxIdleConns,
		MaxOpenConns:    cfg.MaxOpenConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
		ConnMaxIdleTime: cfg.ConnMaxIdleTime,
	}
	if pool.MaxIdleConns == 0 {
		pool.MaxIdleConns = 10
	}
	if pool.MaxOpenConns == 0 {
		pool.MaxOpenConns = 100
	}
	if pool.ConnMaxLifetime == 0 {
		pool.ConnMaxLifetime = 3600 // 1 小时
	}
	if pool.ConnMaxIdleTime == 0 {
		pool.ConnMaxIdleTime = 600 // 10 分钟
	}

	sqlDB.SetMaxIdleConns(pool.MaxIdleConns)
	sqlDB.SetMaxOpenConns(pool.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(time.Duration(pool.ConnMaxLifetime) * time.Second)
	sqlDB.SetConnMaxIdleTime(time.Duration(pool.ConnMaxIdleTime) * time.Second)

	return db, nil
}

// ConnectWithRetry 带指数退避重试的数据库连接
func ConnectWithRetry(cfg config.DatabaseConfig, maxRetries int, retryInterval time.Duration) (*gorm.DB, error) {
	var db *gorm.DB
	var err error

	for i := 0; i < maxRetries; i++ {
		db, err = Connect(cfg)
		if err == nil {
			return db, nil
		}

		if i < maxRetries-1 {
			time.Sleep(retryInterval)
			retryInterval *= 2 // 指数退避
		}
	}

	return nil, fmt.Errorf("failed to connect database after %d retries: %w", maxRetries, err)
}

// Migrate 执行数据库迁移
// SQLite 的类型亲和性能接受 jsonb 声明,因此所有方言都走 AutoMigrate
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.TemplateModel{},
		&model.ReservationModel{},
		&model.VehicleModel{},
		&model.CustomerModel{},
		&model.DriverModel{},
		&model.DocumentModel{},
		&model.UserModel{},
		&model.ChecklistTemplateModel{},
		&model.AuditLogModel{},
	); err != nil {
		return fmt.Errorf("failed to auto migrate: %w", err)
	}

	if err := CreateIndexes(db); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	if err := SeedChecklists(db); err != nil {
		return fmt.Errorf("failed to seed checklists: %w", err)
	}

	return nil
}

// CreateIndexes 创建复合索引
// 单列索引由模型标签声明,这里补充查询热点用的组合索引
func CreateIndexes(db *gorm.DB) error {
	// templates 表: 按 (id, version) 取最新版本
	if err := db.Exec("CREATE UNIQUE INDEX IF NOT EXISTS idx_templates_id_version ON templates(id, version)").Error; err != nil {
		return fmt.Errorf("failed to create idx_templates_id_version: %w", err)
	}

	// reservations 表: 车辆档期冲突检查与状态列表
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_reservations_vehicle_dates ON reservations(vehicle_id, start_date, end_date)").Error; err != nil {
		return fmt.Errorf("failed to create idx_reservations_vehicle_dates: %w", err)
	}
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_reservations_status_start ON reservations(status, start_date)").Error; err != nil {
		return fmt.Errorf("failed to create idx_reservations_status_start: %w", err)
	}

	// audit_logs 表: 按资源追溯
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_audit_resource ON audit_logs(resource_type, resource_id)").Error; err != nil {
		return fmt.Errorf("failed to create idx_audit_resource: %w", err)
	}

	// PostgreSQL 专用: 模板文档 JSONB 的 GIN 索引
	if db.Dialector.Name() == "postgres" {
		if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_templates_data_gin ON templates USING GIN (data)").Error; err != nil {
			return fmt.Errorf("failed to create idx_templates_data_gin: %w", err)
		}
	}

	return nil
}

// defaultChecklists 标准检查项模板
// 编辑器的 checklist 区块按 ID 绑定这里的检查项集
var defaultChecklists = []struct {
	ID     string
	Name   string
	Points []model.InspectionPoint
}{
	{
		ID:   "chk-exterior",
		Name: "Exterior Inspection",
		Points: []model.InspectionPoint{
			{ID: "ext-01", Name: "Front bumper", Category: "exterior", DamageTypes: []string{"scratch", "dent", "crack"}, Required: true},
			{ID: "ext-02", Name: "Rear bumper", Category: "exterior", DamageTypes: []string{"scratch", "dent", "crack"}, Required: true},
			{ID: "ext-03", Name: "Left side panels", Category: "exterior", DamageTypes: []string{"scratch", "dent"}, Required: true},
			{ID: "ext-04", Name: "Right side panels", Category: "exterior", DamageTypes: []string{"scratch", "dent"}, Required: true},
			{ID: "ext-05", Name: "Windshield", Category: "exterior", DamageTypes: []string{"chip", "crack"}, Required: true},
			{ID: "ext-06", Name: "Headlights", Category: "exterior", DamageTypes: []string{"crack", "broken"}, Required: false},
			{ID: "ext-07", Name: "Wheels and rims", Category: "exterior", DamageTypes: []string{"scratch", "curb damage"}, Required: true},
			{ID: "ext-08", Name: "Mirrors", Category: "exterior", DamageTypes: []string{"crack", "broken"}, Required: false},
		},
	},
	{
		ID:   "chk-interior",
		Name: "Interior Inspection",
		Points: []model.InspectionPoint{
			{ID: "int-01", Name: "Seats and upholstery", Category: "interior", DamageTypes: []string{"stain", "tear", "burn"}, Required: true},
			{ID: "int-02", Name: "Dashboard", Category: "interior", DamageTypes: []string{"scratch", "crack"}, Required: false},
			{ID: "int-03", Name: "Floor mats", Category: "interior", DamageTypes: []string{"stain", "missing"}, Required: false},
			{ID: "int-04", Name: "Trunk area", Category: "interior", DamageTypes: []string{"stain", "damage"}, Required: false},
			{ID: "int-05", Name: "Odor check", Category: "interior", DamageTypes: []string{"smoke", "other"}, Required: true},
		},
	},
	{
		ID:   "chk-mechanical",
		Name: "Mechanical Check",
		Points: []model.InspectionPoint{
			{ID: "mec-01", Name: "Fuel level", Category: "mechanical", DamageTypes: nil, Required: true},
			{ID: "mec-02", Name: "Mileage reading", Category: "mechanical", DamageTypes: nil, Required: true},
			{ID: "mec-03", Name: "Warning lights", Category: "mechanical", DamageTypes: []string{"engine", "oil", "battery"}, Required: true},
			{ID: "mec-04", Name: "Tire condition", Category: "mechanical", DamageTypes: []string{"wear", "puncture"}, Required: false},
		},
	},
}

// SeedChecklists 播种标准检查项模板,已存在的不覆盖
func SeedChecklists(db *gorm.DB) error {
	for _, c := range defaultChecklists {
		var count int64
		if err := db.Model(&model.ChecklistTemplateModel{}).Where("id = ?", c.ID).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}

		data, err := json.Marshal(c.Points)
		if err != nil {
			return err
		}
		now := time.Now()
		if err := db.Create(&model.ChecklistTemplateModel{
			ID:        c.ID,
			Name:      c.Name,
			Data:      data,
			CreatedAt: now,
			UpdatedAt: now,
		}).Error; err != nil {
			return err
		}
	}
	return nil
}

// CheckHealth 检查数据库连接健康状态
func CheckHealth(db *gorm.DB) bool {
	if db == nil {
		return false
	}

	sqlDB, err := db.DB()
	if err != nil {
		return false
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		return false
	}

	return true
}

// Reconnect 重新连接数据库,先关闭旧连接
func Reconnect(cfg config.DatabaseConfig, oldDB *gorm.DB) (*gorm.DB, error) {
	if oldDB != nil {
		if sqlDB, err := oldDB.DB(); err == nil {
			sqlDB.Close()
		}
	}

	return Connect(cfg)
}
