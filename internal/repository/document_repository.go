package repository

import (
	"github.com/keeslam/CarRentalManager-sub003/internal/model"
	"gorm.io/gorm"
)

// DocumentRepository 上传文件仓储接口
type DocumentRepository interface {
	Save(doc *model.DocumentModel) error
	FindByID(id string) (*model.DocumentModel, error)
	FindByResource(resourceType, resourceID string) ([]*model.DocumentModel, error)
	Delete(id string) error
}

// documentRepository 上传文件仓储实现
type documentRepository struct {
	db *gorm.DB
}

// NewDocumentRepository 创建上传文件仓储
func NewDocumentRepository(db *gorm.DB) DocumentRepository {
	return &documentRepository{db: db}
}

// Save 保存文件元数据
func (r *documentRepository) Save(doc *model.DocumentModel) error {
	return r.db.Save(doc).Error
}

// FindByID 根据 ID 查找文件
func (r *documentRepository) FindByID(id string) (*model.DocumentModel, error) {
	var doc model.DocumentModel
	if err := r.db.Where("id = ?", id).First(&doc).Error; err != nil {
		return nil, err
	}
	return &doc, nil
}

// FindByResource 查找挂在某资源下的全部文件
func (r *documentRepository) FindByResource(resourceType, resourceID string) ([]*model.DocumentModel, error) {
	var docs []*model.DocumentModel
	err := r.db.Where("resource_type = ? AND resource_id = ?", resourceType, resourceID).
		Order("created_at DESC").
		Find(&docs).Error
	return docs, err
}

// Delete 删除文件元数据
func (r *documentRepository) Delete(id string) error {
	return r.db.Where("id = ?", id).Delete(&model.DocumentModel{}).Error
}
