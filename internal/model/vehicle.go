package model

import (
	"errors"
	"time"
)

// VehicleStatus 车辆状态
type VehicleStatus string

const (
	VehicleAvailable   VehicleStatus = "available"
	VehicleRented      VehicleStatus = "rented"
	VehicleMaintenance VehicleStatus = "maintenance"
	VehicleRetired     VehicleStatus = "retired"
)

// Valid 判断车辆状态是否合法
func (s VehicleStatus) Valid() bool {
	switch s {
	case VehicleAvailable, VehicleRented, VehicleMaintenance, VehicleRetired:
		return true
	}
	return false
}

// VehicleModel 车辆数据模型
type VehicleModel struct {
	ID           string        `gorm:"primaryKey;type:varchar(64)" json:"id"`
	LicensePlate string        `gorm:"type:varchar(16);not null;uniqueIndex" json:"licensePlate"`
	Brand        string        `gorm:"type:varchar(64);not null" json:"brand"`
	Model        string        `gorm:"type:varchar(64);not null" json:"model"`
	Year         int           `gorm:"not null" json:"year"`
	Color        string        `gorm:"type:varchar(32)" json:"color"`
	VehicleType  string        `gorm:"type:varchar(32)" json:"vehicleType"` // sedan/van/truck/...,损伤图区块按此选简图
	FuelType     string        `gorm:"type:varchar(16)" json:"fuelType"`
	Mileage      int           `gorm:"not null;default:0" json:"mileage"`
	Status       VehicleStatus `gorm:"type:varchar(16);not null;index" json:"status"`
	DailyRate    float64       `gorm:"not null" json:"dailyRate"`
	CreatedAt    time.Time     `gorm:"not null" json:"createdAt"`
	UpdatedAt    time.Time     `gorm:"not null" json:"updatedAt"`
}

// TableName 指定表名
func (VehicleModel) TableName() string {
	return "vehicles"
}

// Validate 验证车辆模型
func (vm *VehicleModel) Validate() error {
	if vm.ID == "" {
		return errors.New("vehicle ID is required")
	}
	if vm.LicensePlate == "" {
		return errors.New("license plate is required")
	}
	if vm.Brand == "" || vm.Model == "" {
		return errors.New("brand and model are required")
	}
	if !vm.Status.Valid() {
		return errors.New("vehicle status is invalid")
	}
	return nil
}
