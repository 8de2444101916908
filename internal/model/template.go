package model

import (
	"errors"
	"time"
)

// TemplateModel 损伤检查单模板数据模型
// 组合主键 (id, version),每次保存生成新版本,Data 为序列化后的模板文档
type TemplateModel struct {
	ID          string    `gorm:"primaryKey;type:varchar(64)"`
	Version     int       `gorm:"primaryKey;type:int;not null;default:1"`
	Name        string    `gorm:"type:varchar(255);not null"`
	Description string    `gorm:"type:text"`
	Data        []byte    `gorm:"type:jsonb;not null"` // 序列化后的 editor.Document
	IsDefault   bool      `gorm:"not null;default:false"` // 新预订默认使用的模板
	CreatedAt   time.Time `gorm:"not null"`
	UpdatedAt   time.Time `gorm:"not null"`
	CreatedBy   string    `gorm:"type:varchar(64)"` // 创建人 ID
	UpdatedBy   string    `gorm:"type:varchar(64)"` // 更新人 ID
}

// TableName 指定表名
func (TemplateModel) TableName() string {
	return "templates"
}

// Validate 验证模板模型
func (tm *TemplateModel) Validate() error {
	if tm.ID == "" {
		return errors.New("template ID is required")
	}
	if tm.Name == "" {
		return errors.New("template name is required")
	}
	if len(tm.Data) == 0 {
		return errors.New("template data is required")
	}
	return nil
}
