package repository

import (
	"github.com/keeslam/CarRentalManager-sub003/internal/model"
	"gorm.io/gorm"
)

// TemplateRepository 模板仓储接口
// 版本为组合主键的一部分,version <= 0 表示取最新版本
type TemplateRepository interface {
	Save(template *model.TemplateModel) error
	FindByID(id string, version int) (*model.TemplateModel, error)
	FindAll() ([]*model.TemplateModel, error)
	FindLatest(page, pageSize int, search, sortBy, order string) ([]*model.TemplateModel, int64, error)
	ListVersions(id string) ([]int, error)
	Delete(id string) error
	DeleteVersion(id string, version int) error
	MaxVersion(id string) (int, error)
}

// templateRepository 模板仓储实现
type templateRepository struct {
	db *gorm.DB
}

// NewTemplateRepository 创建模板仓储
func NewTemplateRepository(db *gorm.DB) TemplateRepository {
	return &templateRepository{db: db}
}

// Save 保存模板
func (r *templateRepository) Save(template *model.TemplateModel) error {
	return r.db.Save(template).Error
}

// FindByID 根据 ID 查找模板
func (r *templateRepository) FindByID(id string, version int) (*model.TemplateModel, error) {
	var template model.TemplateModel
	query := r.db.Where("id = ?", id)

	if version > 0 {
		query = query.Where("version = ?", version)
	} else {
		// 获取最新版本
		query = query.Order("version DESC").Limit(1)
	}

	if err := query.First(&template).Error; err != nil {
		return nil, err
	}

	return &template, nil
}

// FindAll 查找所有模板的所有版本
func (r *templateRepository) FindAll() ([]*model.TemplateModel, error) {
	var templates []*model.TemplateModel
	err := r.db.Order("created_at DESC").Find(&templates).Error
	return templates, err
}

// FindLatest 分页查找每个模板的最新版本
func (r *templateRepository) FindLatest(page, pageSize int, search, sortBy, order string) ([]*model.TemplateModel, int64, error) {
	// 子查询筛出每个 ID 的最大版本号
	sub := r.db.Model(&model.TemplateModel{}).
		Select("id, MAX(version) AS version").
		Group("id")

	query := r.db.Model(&model.TemplateModel{}).
		Joins("JOIN (?) latest ON templates.id = latest.id AND templates.version = latest.version", sub)

	if search != "" {
		query = query.Where("templates.name LIKE ?", "%"+search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if sortBy == "" {
		sortBy = "updated_at"
	}
	if order != "asc" {
		order = "desc"
	}
	query = query.Order("templates." + sortBy + " " + order)

	if page > 0 && pageSize > 0 {
		query = query.Offset((page - 1) * pageSize).Limit(pageSize)
	}

	var templates []*model.TemplateModel
	err := query.Find(&templates).Error
	return templates, total, err
}

// ListVersions 列出模板的全部版本号,升序
func (r *templateRepository) ListVersions(id string) ([]int, error) {
	var versions []int
	err := r.db.Model(&model.TemplateModel{}).
		Where("id = ?", id).
		Order("version ASC").
		Pluck("version", &versions).Error
	return versions, err
}

// Delete 删除模板的全部版本
func (r *templateRepository) Delete(id string) error {
	return r.db.Where("id = ?", id).Delete(&model.TemplateModel{}).Error
}

// DeleteVersion 删除模板的指定版本
func (r *templateRepository) DeleteVersion(id string, version int) error {
	return r.db.Where("id = ? AND version = ?", id, version).Delete(&model.TemplateModel{}).Error
}

// MaxVersion 模板当前最大版本号,不存在时返回 0
func (r *templateRepository) MaxVersion(id string) (int, error) {
	var max *int
	err := r.db.Model(&model.TemplateModel{}).
		Where("id = ?", id).
		Select("MAX(version)").
		Scan(&max).Error
	if err != nil {
		return 0, err
	}
	if max == nil {
		return 0, nil
	}
	return *max, nil
}
