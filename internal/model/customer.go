package model

import (
	"errors"
	"time"
)

// CustomerModel 客户数据模型
// 驾照号经 AES-GCM 加密后落库
type CustomerModel struct {
	ID            string    `gorm:"primaryKey;type:varchar(64)" json:"id"`
	FirstName     string    `gorm:"type:varchar(64);not null" json:"firstName"`
	LastName      string    `gorm:"type:varchar(64);not null;index" json:"lastName"`
	Email         string    `gorm:"type:varchar(255);uniqueIndex" json:"email"`
	Phone         string    `gorm:"type:varchar(32)" json:"phone"`
	Address       string    `gorm:"type:varchar(255)" json:"address"`
	City          string    `gorm:"type:varchar(64)" json:"city"`
	PostalCode    string    `gorm:"type:varchar(16)" json:"postalCode"`
	LicenseNumber string    `gorm:"type:text" json:"-"` // 加密存储,不直接下发
	LicenseExpiry time.Time `json:"licenseExpiry"`
	CreatedAt     time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt     time.Time `gorm:"not null" json:"updatedAt"`
}

// TableName 指定表名
func (CustomerModel) TableName() string {
	return "customers"
}

// FullName 客户全名
func (cm *CustomerModel) FullName() string {
	return cm.FirstName + " " + cm.LastName
}

// Validate 验证客户模型
func (cm *CustomerModel) Validate() error {
	if cm.ID == "" {
		return errors.New("customer ID is required")
	}
	if cm.FirstName == "" || cm.LastName == "" {
		return errors.New("customer name is required")
	}
	return nil
}
