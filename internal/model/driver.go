package model

import (
	"errors"
	"time"
)

// DriverModel 附加驾驶员数据模型
// 挂在客户之下,一个客户可以登记多名驾驶员
type DriverModel struct {
	ID              string    `gorm:"primaryKey;type:varchar(64)" json:"id"`
	CustomerID      string    `gorm:"type:varchar(64);not null;index" json:"customerId"`
	FirstName       string    `gorm:"type:varchar(64);not null" json:"firstName"`
	LastName        string    `gorm:"type:varchar(64);not null" json:"lastName"`
	LicenseNumber   string    `gorm:"type:text" json:"-"` // 加密存储,不直接下发
	LicenseCategory string    `gorm:"type:varchar(8)" json:"licenseCategory"`
	LicenseExpiry   time.Time `gorm:"not null" json:"licenseExpiry"`
	CreatedAt       time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt       time.Time `gorm:"not null" json:"updatedAt"`
}

// TableName 指定表名
func (DriverModel) TableName() string {
	return "drivers"
}

// LicenseValid 驾照在指定日期是否有效
func (dm *DriverModel) LicenseValid(at time.Time) bool {
	return dm.LicenseExpiry.After(at)
}

// Validate 验证驾驶员模型
func (dm *DriverModel) Validate() error {
	if dm.ID == "" {
		return errors.New("driver ID is required")
	}
	if dm.CustomerID == "" {
		return errors.New("customer ID is required")
	}
	if dm.FirstName == "" || dm.LastName == "" {
		return errors.New("driver name is required")
	}
	return nil
}
