package repository

import (
	"github.com/keeslam/CarRentalManager-sub003/internal/model"
	"gorm.io/gorm"
)

// ChecklistRepository 检查项模板仓储接口
// 对编辑器只读,数据由迁移播种
type ChecklistRepository interface {
	FindByID(id string) (*model.ChecklistTemplateModel, error)
	FindAll() ([]*model.ChecklistTemplateModel, error)
}

// checklistRepository 检查项模板仓储实现
type checklistRepository struct {
	db *gorm.DB
}

// NewChecklistRepository 创建检查项模板仓储
func NewChecklistRepository(db *gorm.DB) ChecklistRepository {
	return &checklistRepository{db: db}
}

// FindByID 根据 ID 查找检查项模板
func (r *checklistRepository) FindByID(id string) (*model.ChecklistTemplateModel, error) {
	var checklist model.ChecklistTemplateModel
	if err := r.db.Where("id = ?", id).First(&checklist).Error; err != nil {
		return nil, err
	}
	return &checklist, nil
}

// FindAll 查找所有检查项模板
func (r *checklistRepository) FindAll() ([]*model.ChecklistTemplateModel, error) {
	var checklists []*model.ChecklistTemplateModel
	err := r.db.Order("name ASC").Find(&checklists).Error
	return checklists, err
}
