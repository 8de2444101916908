package model

import (
	"errors"
	"time"
)

// DocumentModel 上传文件数据模型
// 预订合同扫描件、车辆照片、模板背景图等都走这里,
// 文件本体存储在配置的上传目录,库中只记元数据
type DocumentModel struct {
	ID           string    `gorm:"primaryKey;type:varchar(64)" json:"id"`
	FileName     string    `gorm:"type:varchar(255);not null" json:"fileName"`
	StoredPath   string    `gorm:"type:varchar(512);not null" json:"-"` // 服务器本地路径不外发
	ContentType  string    `gorm:"type:varchar(128)" json:"contentType"`
	Size         int64     `gorm:"not null" json:"size"`
	ResourceType string    `gorm:"type:varchar(32);index" json:"resourceType"` // reservation/vehicle/customer/template
	ResourceID   string    `gorm:"type:varchar(64);index" json:"resourceId"`
	UploadedBy   string    `gorm:"type:varchar(64)" json:"uploadedBy"`
	CreatedAt    time.Time `gorm:"not null" json:"createdAt"`
}

// TableName 指定表名
func (DocumentModel) TableName() string {
	return "documents"
}

// Validate 验证文件模型
func (dm *DocumentModel) Validate() error {
	if dm.ID == "" {
		return errors.New("document ID is required")
	}
	if dm.FileName == "" {
		return errors.New("file name is required")
	}
	if dm.StoredPath == "" {
		return errors.New("stored path is required")
	}
	return nil
}
