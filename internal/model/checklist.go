package model

import (
	"encoding/json"
	"errors"
	"time"
)

// InspectionPoint 检查项
// 损伤检查单 checklist 区块按 checklistId 绑定一套检查项,
// 或把检查项克隆成自己的可编辑列表
type InspectionPoint struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Category    string   `json:"category"` // exterior/interior/mechanical/...
	DamageTypes []string `json:"damageTypes"`
	Required    bool     `json:"required"`
}

// ChecklistTemplateModel 检查项模板数据模型
// 对编辑器只读,迁移时播种标准集
type ChecklistTemplateModel struct {
	ID        string    `gorm:"primaryKey;type:varchar(64)"`
	Name      string    `gorm:"type:varchar(255);not null"`
	Data      []byte    `gorm:"type:jsonb;not null"` // 序列化后的 []InspectionPoint
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName 指定表名
func (ChecklistTemplateModel) TableName() string {
	return "checklist_templates"
}

// Points 反序列化检查项列表
func (cm *ChecklistTemplateModel) Points() ([]InspectionPoint, error) {
	var points []InspectionPoint
	if err := json.Unmarshal(cm.Data, &points); err != nil {
		return nil, err
	}
	return points, nil
}

// Validate 验证检查项模板
func (cm *ChecklistTemplateModel) Validate() error {
	if cm.ID == "" {
		return errors.New("checklist template ID is required")
	}
	if cm.Name == "" {
		return errors.New("checklist template name is required")
	}
	if len(cm.Data) == 0 {
		return errors.New("checklist template data is required")
	}
	return nil
}
