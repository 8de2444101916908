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

// CustomerService 客户服务接口
type CustomerService interface {
	Create(ctx context.Context, req *CustomerRequest) (*model.CustomerModel, error)
	Get(id string) (*model.CustomerModel, error)
	Update(ctx context.Context, id string, req *CustomerRequest) (*model.CustomerModel, error)
	Delete(ctx context.Context, id string) error
	List(filter *repository.CustomerFilter) ([]*model.CustomerModel, int64, error)
	LicenseNumber(customer *model.CustomerModel) (string, error)
}

// CustomerRequest 创建/更新客户请求
// @Description 客户信息
type CustomerRequest struct {
	FirstName     string     `json:"firstName" binding:"required"`
	LastName      string     `json:"lastName" binding:"required"`
	Email         string     `json:"email"`
	Phone         string     `json:"phone"`
	Address       string     `json:"address"`
	City          string     `json:"city"`
	PostalCode    string     `json:"postalCode"`
	LicenseNumber string     `json:"licenseNumber"`
	LicenseExpiry *time.Time `json:"licenseExpiry"`
}

// customerService 客户服务实现
// 驾照号用 AES-GCM 加密落库,读取时按需解密
type customerService struct {
	repo          repository.CustomerRepository
	auditSvc      AuditLogService
	encryptionKey string
}

// NewCustomerService 创建客户服务
func NewCustomerService(repo repository.CustomerRepository, auditSvc AuditLogService, encryptionKey string) CustomerService {
	return &customerService{
		repo:          repo,
		auditSvc:      auditSvc,
		encryptionKey: encryptionKey,
	}
}

// Create 登记客户
func (s *customerService) Create(ctx context.Context, req *CustomerRequest) (*model.CustomerModel, error) {
	if err := utils.ValidateName(req.FirstName + " " + req.LastName); err != nil {
		return nil, err
	}
	if req.Email != "" {
		if err := utils.ValidateEmail(req.Email); err != nil {
			return nil, err
		}
	}

	license := ""
	if req.LicenseNumber != "" {
		var err error
		license, err = s.encrypt(req.LicenseNumber)
		if err != nil {
			return nil, err
		}
	}

	now := time.Now()
	customer := &model.CustomerModel{
		ID:            uuid.New().String(),
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		Email:         req.Email,
		Phone:         req.Phone,
		Address:       req.Address,
		City:          req.City,
		PostalCode:    req.PostalCode,
		LicenseNumber: license,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if req.LicenseExpiry != nil {
		customer.LicenseExpiry = *req.LicenseExpiry
	}
	if err := customer.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.Save(customer); err != nil {
		return nil, fmt.Errorf("failed to save customer: %w", err)
	}

	s.audit(ctx, "create", customer.ID, nil)
	return customer, nil
}

// Get 获取客户
func (s *customerService) Get(id string) (*model.CustomerModel, error) {
	customer, err := s.repo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrNotFound
		}
		return nil, err
	}
	return customer, nil
}

// Update 更新客户信息
func (s *customerService) Update(ctx context.Context, id string, req *CustomerRequest) (*model.CustomerModel, error) {
	customer, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	if req.FirstName != "" {
		customer.FirstName = req.FirstName
	}
	if req.LastName != "" {
		customer.LastName = req.LastName
	}
	if req.Email != "" {
		if err := utils.ValidateEmail(req.Email); err != nil {
			return nil, err
		}
		customer.Email = req.Email
	}
	if req.Phone != "" {
		customer.Phone = req.Phone
	}
	if req.Address != "" {
		customer.Address = req.Address
	}
	if req.City != "" {
		customer.City = req.City
	}
	if req.PostalCode != "" {
		customer.PostalCode = req.PostalCode
	}
	if req.LicenseNumber != "" {
		license, err := s.encrypt(req.LicenseNumber)
		if err != nil {
			return nil, err
		}
		customer.LicenseNumber = license
	}
	if req.LicenseExpiry != nil {
		customer.LicenseExpiry = *req.LicenseExpiry
	}

	customer.UpdatedAt = time.Now()
	if err := s.repo.Save(customer); err != nil {
		return nil, fmt.Errorf("failed to save customer: %w", err)
	}

	s.audit(ctx, "update", id, nil)
	return customer, nil
}

// Delete 删除客户
func (s *customerService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(id); err != nil {
		return err
	}
	if err := s.repo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete customer: %w", err)
	}
	s.audit(ctx, "delete", id, nil)
	return nil
}

// List 按过滤器分页列出客户
func (s *customerService) List(filter *repository.CustomerFilter) ([]*model.CustomerModel, int64, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 || filter.PageSize > 100 {
		filter.PageSize = 20
	}
	return s.repo.FindFiltered(filter)
}

// LicenseNumber 解密客户驾照号
func (s *customerService) LicenseNumber(customer *model.CustomerModel) (string, error) {
	if customer.LicenseNumber == "" {
		return "", nil
	}
	if s.encryptionKey == "" {
		// 未配置加密密钥时按明文存储
		return customer.LicenseNumber, nil
	}
	return utils.Decrypt(customer.LicenseNumber, s.encryptionKey)
}

func (s *customerService) encrypt(plain string) (string, error) {
	if s.encryptionKey == "" {
		return plain, nil
	}
	encrypted, err := utils.Encrypt(plain, s.encryptionKey)
	if err != nil {
		return "", fmt.Errorf("failed to encrypt license number: %w", err)
	}
	return encrypted, nil
}

func (s *customerService) audit(ctx context.Context, action, id string, details interface{}) {
	if s.auditSvc == nil {
		return
	}
	_ = s.auditSvc.RecordAction(ctx, userIDFrom(ctx), action, "customer", id, details)
}
