package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/keeslam/CarRentalManager-sub003/internal/model"
	"github.com/keeslam/CarRentalManager-sub003/internal/repository"
	"github.com/keeslam/CarRentalManager-sub003/internal/utils"
	"gorm.io/gorm"
)

// DriverService 附加驾驶员服务接口
type DriverService interface {
	Create(ctx context.Context, req *DriverRequest) (*model.DriverModel, error)
	Get(id string) (*model.DriverModel, error)
	Update(ctx context.Context, id string, req *UpdateDriverRequest) (*model.DriverModel, error)
	List(filter *repository.DriverFilter) ([]*model.DriverModel, int64, error)
	ListByCustomer(customerID string) ([]*model.DriverModel, error)
	Delete(ctx context.Context, id string) error
}

// DriverRequest 登记驾驶员请求
// @Description 附加驾驶员信息,挂在客户之下
type DriverRequest struct {
	CustomerID      string    `json:"customerId" binding:"required"`
	FirstName       string    `json:"firstName" binding:"required"`
	LastName        string    `json:"lastName" binding:"required"`
	LicenseNumber   string    `json:"licenseNumber"`
	LicenseCategory string    `json:"licenseCategory" example:"B"`
	LicenseExpiry   time.Time `json:"licenseExpiry" binding:"required"`
}

// UpdateDriverRequest 更新驾驶员请求
// 零值字段保持原样,驾驶员不可改挂到其他客户
type UpdateDriverRequest struct {
	FirstName       string     `json:"firstName"`
	LastName        string     `json:"lastName"`
	LicenseNumber   string     `json:"licenseNumber"`
	LicenseCategory string     `json:"licenseCategory"`
	LicenseExpiry   *time.Time `json:"licenseExpiry"`
}

// driverService 驾驶员服务实现
type driverService struct {
	repo          repository.DriverRepository
	customerRepo  repository.CustomerRepository
	auditSvc      AuditLogService
	encryptionKey string
}

// NewDriverService 创建驾驶员服务
func NewDriverService(repo repository.DriverRepository, customerRepo repository.CustomerRepository, auditSvc AuditLogService, encryptionKey string) DriverService {
	return &driverService{
		repo:          repo,
		customerRepo:  customerRepo,
		auditSvc:      auditSvc,
		encryptionKey: encryptionKey,
	}
}

// Create 登记驾驶员
// 驾照必须在有效期内,客户必须已存在
func (s *driverService) Create(ctx context.Context, req *DriverRequest) (*model.DriverModel, error) {
	if _, err := s.customerRepo.FindByID(req.CustomerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: customer %s", utils.ErrNotFound, req.CustomerID)
		}
		return nil, err
	}
	if !req.LicenseExpiry.After(time.Now()) {
		return nil, fmt.Errorf("driver license expired on %s", req.LicenseExpiry.Format("2006-01-02"))
	}

	license := req.LicenseNumber
	if license != "" && s.encryptionKey != "" {
		var err error
		license, err = utils.Encrypt(license, s.encryptionKey)
		if err != nil {
			return nil, fmt.Errorf("failed to encrypt license number: %w", err)
		}
	}

	now := time.Now()
	driver := &model.DriverModel{
		ID:              uuid.New().String(),
		CustomerID:      req.CustomerID,
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		LicenseNumber:   license,
		LicenseCategory: req.LicenseCategory,
		LicenseExpiry:   req.LicenseExpiry,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := driver.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.Save(driver); err != nil {
		return nil, fmt.Errorf("failed to save driver: %w", err)
	}

	s.audit(ctx, "create", driver.ID, map[string]string{"customerId": req.CustomerID})
	return driver, nil
}

// Get 获取驾驶员
func (s *driverService) Get(id string) (*model.DriverModel, error) {
	driver, err := s.repo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrNotFound
		}
		return nil, err
	}
	return driver, nil
}

// Update 更新驾驶员
func (s *driverService) Update(ctx context.Context, id string, req *UpdateDriverRequest) (*model.DriverModel, error) {
	driver, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	if req.FirstName != "" {
		driver.FirstName = req.FirstName
	}
	if req.LastName != "" {
		driver.LastName = req.LastName
	}
	if req.LicenseCategory != "" {
		driver.LicenseCategory = req.LicenseCategory
	}
	if req.LicenseExpiry != nil {
		if !req.LicenseExpiry.After(time.Now()) {
			return nil, fmt.Errorf("driver license expired on %s", req.LicenseExpiry.Format("2006-01-02"))
		}
		driver.LicenseExpiry = *req.LicenseExpiry
	}
	if req.LicenseNumber != "" {
		license := req.LicenseNumber
		if s.encryptionKey != "" {
			license, err = utils.Encrypt(license, s.encryptionKey)
			if err != nil {
				return nil, fmt.Errorf("failed to encrypt license number: %w", err)
			}
		}
		driver.LicenseNumber = license
	}

	driver.UpdatedAt = time.Now()
	if err := driver.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.Save(driver); err != nil {
		return nil, fmt.Errorf("failed to save driver: %w", err)
	}

	s.audit(ctx, "update", driver.ID, nil)
	return driver, nil
}

// List 分页列出驾驶员
func (s *driverService) List(filter *repository.DriverFilter) ([]*model.DriverModel, int64, error) {
	return s.repo.FindFiltered(filter)
}

// ListByCustomer 列出客户名下的驾驶员
func (s *driverService) ListByCustomer(customerID string) ([]*model.DriverModel, error) {
	return s.repo.FindByCustomer(customerID)
}

// Delete 删除驾驶员
func (s *driverService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(id); err != nil {
		return err
	}
	if err := s.repo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete driver: %w", err)
	}
	s.audit(ctx, "delete", id, nil)
	return nil
}

func (s *driverService) audit(ctx context.Context, action, id string, details interface{}) {
	if s.auditSvc == nil {
		return
	}
	_ = s.auditSvc.RecordAction(ctx, userIDFrom(ctx), action, "driver", id, details)
}
