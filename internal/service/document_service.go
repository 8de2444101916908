package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/keeslam/CarRentalManager-sub003/internal/model"
	"github.com/keeslam/CarRentalManager-sub003/internal/repository"
	"github.com/keeslam/CarRentalManager-sub003/internal/utils"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// allowedUploadExtensions 允许上传的文件类型
var allowedUploadExtensions = map[string]bool{
	".pdf":  true,
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".webp": true,
	".svg":  true,
}

// DocumentService 上传文件服务接口
type DocumentService interface {
	Upload(ctx context.Context, header *multipart.FileHeader, resourceType, resourceID string) (*model.DocumentModel, error)
	Get(id string) (*model.DocumentModel, error)
	ListByResource(resourceType, resourceID string) ([]*model.DocumentModel, error)
	Open(id string) (*model.DocumentModel, io.ReadCloser, error)
	Delete(ctx context.Context, id string) error
}

// documentService 上传文件服务实现
// 文件本体落盘到 uploadDir,库里只记元数据
type documentService struct {
	repo          repository.DocumentRepository
	auditSvc      AuditLogService
	uploadDir     string
	maxUploadSize int64
}

// NewDocumentService 创建上传文件服务
func NewDocumentService(repo repository.DocumentRepository, auditSvc AuditLogService, uploadDir string, maxUploadSize int64) DocumentService {
	return &documentService{
		repo:          repo,
		auditSvc:      auditSvc,
		uploadDir:     uploadDir,
		maxUploadSize: maxUploadSize,
	}
}

// Upload 上传文件
// 1. 校验扩展名和大小
// 2. 生成存储路径并落盘
// 3. 保存元数据,失败时回收已落盘的文件
func (s *documentService) Upload(ctx context.Context, header *multipart.FileHeader, resourceType, resourceID string) (*model.DocumentModel, error) {
	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedUploadExtensions[ext] {
		return nil, fmt.Errorf("file type %s is not allowed", ext)
	}
	if s.maxUploadSize > 0 && header.Size > s.maxUploadSize {
		return nil, fmt.Errorf("file exceeds maximum upload size of %d bytes", s.maxUploadSize)
	}

	id := uuid.New().String()
	storedName := id + ext
	storedPath := filepath.Join(s.uploadDir, storedName)

	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}

	src, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(storedPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create stored file: %w", err)
	}
	written, err := io.Copy(dst, src)
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(storedPath)
		return nil, fmt.Errorf("failed to write stored file: %w", err)
	}

	doc := &model.DocumentModel{
		ID:           id,
		FileName:     filepath.Base(header.Filename),
		StoredPath:   storedPath,
		ContentType:  header.Header.Get("Content-Type"),
		Size:         written,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		UploadedBy:   userIDFrom(ctx),
		CreatedAt:    time.Now(),
	}
	if err := doc.Validate(); err != nil {
		_ = os.Remove(storedPath)
		return nil, err
	}
	if err := s.repo.Save(doc); err != nil {
		_ = os.Remove(storedPath)
		return nil, fmt.Errorf("failed to save document metadata: %w", err)
	}

	s.audit(ctx, "upload", doc.ID, map[string]interface{}{
		"fileName":     doc.FileName,
		"size":         doc.Size,
		"resourceType": resourceType,
		"resourceId":   resourceID,
	})
	return doc, nil
}

// Get 获取文件元数据
func (s *documentService) Get(id string) (*model.DocumentModel, error) {
	doc, err := s.repo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrNotFound
		}
		return nil, err
	}
	return doc, nil
}

// ListByResource 列出挂在某资源下的文件
func (s *documentService) ListByResource(resourceType, resourceID string) ([]*model.DocumentModel, error) {
	return s.repo.FindByResource(resourceType, resourceID)
}

// Open 打开文件内容用于下载
func (s *documentService) Open(id string) (*model.DocumentModel, io.ReadCloser, error) {
	doc, err := s.Get(id)
	if err != nil {
		return nil, nil, err
	}
	f, err := os.Open(doc.StoredPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, fmt.Errorf("%w: stored file missing for document %s", utils.ErrNotFound, id)
		}
		return nil, nil, fmt.Errorf("failed to open stored file: %w", err)
	}
	return doc, f, nil
}

// Delete 删除文件及其元数据
// 落盘文件删除失败只记日志,不阻断元数据删除
func (s *documentService) Delete(ctx context.Context, id string) error {
	doc, err := s.Get(id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete document metadata: %w", err)
	}
	if err := os.Remove(doc.StoredPath); err != nil && !os.IsNotExist(err) {
		logrus.WithError(err).WithField("path", doc.StoredPath).Warn("Failed to remove stored file")
	}
	s.audit(ctx, "delete", id, map[string]string{"fileName": doc.FileName})
	return nil
}

func (s *documentService) audit(ctx context.Context, action, id string, details interface{}) {
	if s.auditSvc == nil {
		return
	}
	_ = s.auditSvc.RecordAction(ctx, userIDFrom(ctx), action, "document", id, details)
}
