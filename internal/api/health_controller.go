package api

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// HealthController 健康检查控制器
type HealthController struct {
	db        *gorm.DB
	uploadDir string
}

// NewHealthController 创建健康检查控制器
func NewHealthController(db *gorm.DB, uploadDir string) *HealthController {
	return &HealthController{
		db:        db,
		uploadDir: uploadDir,
	}
}

// Check 健康检查
// @Summary 健康检查
// @Description 检查数据库连接与上传目录可用性
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /health [get]
func (c *HealthController) Check(ctx *gin.Context) {
	status := "healthy"
	checks := make(map[string]string)

	// 检查数据库连接
	if c.db != nil {
		if err := c.checkDatabase(ctx.Request.Context()); err != nil {
			status = "unhealthy"
			checks["database"] = "unhealthy: " + err.Error()
		} else {
			checks["database"] = "healthy"
		}
	} else {
		checks["database"] = "not configured"
	}

	// 检查上传目录
	if c.uploadDir != "" {
		if err := c.checkUploadDir(); err != nil {
			status = "unhealthy"
			checks["storage"] = "unhealthy: " + err.Error()
		} else {
			checks["storage"] = "healthy"
		}
	} else {
		checks["storage"] = "not configured"
	}

	httpStatus := http.StatusOK
	if status == "unhealthy" {
		httpStatus = http.StatusServiceUnavailable
	}

	ctx.JSON(httpStatus, gin.H{
		"status":    status,
		"timestamp": time.Now().Unix(),
		"checks":    checks,
	})
}

// checkDatabase 检查数据库连接
func (c *HealthController) checkDatabase(ctx context.Context) error {
	sqlDB, err := c.db.DB()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return sqlDB.PingContext(ctx)
}

// checkUploadDir 检查上传目录可写
func (c *HealthController) checkUploadDir() error {
	if err := os.MkdirAll(c.uploadDir, 0o755); err != nil {
		return err
	}
	probe, err := os.CreateTemp(c.uploadDir, ".health-*")
	if err != nil {
		return err
	}
	name := probe.Name()
	_ = probe.Close()
	return os.Remove(name)
}
