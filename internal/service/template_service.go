package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/keeslam/CarRentalManager-sub003/internal/editor"
	"github.com/keeslam/CarRentalManager-sub003/internal/metrics"
	"github.com/keeslam/CarRentalManager-sub003/internal/model"
	"github.com/keeslam/CarRentalManager-sub003/internal/render"
	"github.com/keeslam/CarRentalManager-sub003/internal/repository"
	"github.com/keeslam/CarRentalManager-sub003/internal/utils"
	"gorm.io/gorm"
)

// Notifier 领域事件广播接口,由 WebSocket Hub 实现
type Notifier interface {
	Notify(event string, payload interface{})
}

// TemplateService 模板服务接口
// 版本语义: 每次内容更新生成新版本,恢复历史版本也是落一个新版本
type TemplateService interface {
	Create(ctx context.Context, req *CreateTemplateRequest) (*TemplateDetail, error)
	Get(id string, version int) (*TemplateDetail, error)
	Update(ctx context.Context, id string, req *UpdateTemplateRequest) (*TemplateDetail, error)
	Delete(ctx context.Context, id string) error
	List(filter *TemplateListFilter) (*TemplateListResponse, error)
	ListVersions(id string) ([]int, error)
	DeleteVersion(ctx context.Context, id string, version int) error
	RestoreVersion(ctx context.Context, id string, version int) (*TemplateDetail, error)
	Duplicate(ctx context.Context, id string, name string) (*TemplateDetail, error)
	Export(id string, version int) ([]byte, error)
	Import(ctx context.Context, name string, data []byte) (*TemplateDetail, error)
	Align(ctx context.Context, id string, sectionIDs []string, mode editor.AlignMode) (*TemplateDetail, error)
	Preview(id string, version int, fields map[string]string) ([]byte, error)
}

// CreateTemplateRequest 创建模板请求
// @Description 创建损伤检查单模板的请求参数
type CreateTemplateRequest struct {
	Name        string           `json:"name" example:"Standard damage check" binding:"required"` // 模板名称
	Description string           `json:"description" example:"A4 damage check for sedans"`        // 模板描述
	Document    *editor.Document `json:"document"`                                                // 模板文档,缺省时播种默认区块集
}

// UpdateTemplateRequest 更新模板请求
// @Description 更新模板的请求参数,保存为新版本
type UpdateTemplateRequest struct {
	Name        string           `json:"name" example:"Standard damage check"` // 模板名称
	Description string           `json:"description"`                          // 模板描述
	Document    *editor.Document `json:"document"`                             // 模板文档草稿
}

// TemplateListFilter 模板列表查询过滤器
type TemplateListFilter struct {
	Page     int
	PageSize int
	Search   string
	SortBy   string
	Order    string // asc/desc
}

// TemplateDetail 模板详情
type TemplateDetail struct {
	ID          string           `json:"id"`
	Version     int              `json:"version"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Document    *editor.Document `json:"document"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
}

// TemplateListResponse 模板列表响应
type TemplateListResponse struct {
	Data       []*TemplateDetail
	Pagination PaginationInfo
}

// PaginationInfo 分页信息
type PaginationInfo struct {
	Page      int   `json:"page"`
	PageSize  int   `json:"page_size"`
	Total     int64 `json:"total"`
	TotalPage int   `json:"total_page"`
}

// templateService 模板服务实现
type templateService struct {
	repo          repository.TemplateRepository
	checklistRepo repository.ChecklistRepository
	auditSvc      AuditLogService
	notifier      Notifier
	assetDir      string
}

// NewTemplateService 创建模板服务
func NewTemplateService(repo repository.TemplateRepository, checklistRepo repository.ChecklistRepository, auditSvc AuditLogService, notifier Notifier, assetDir string) TemplateService {
	return &templateService{
		repo:          repo,
		checklistRepo: checklistRepo,
		auditSvc:      auditSvc,
		notifier:      notifier,
		assetDir:      assetDir,
	}
}

// Create 创建模板
// 未提供文档时播种带默认区块集的 A4 单页文档
func (s *templateService) Create(ctx context.Context, req *CreateTemplateRequest) (*TemplateDetail, error) {
	doc := req.Document
	if doc == nil {
		doc = editor.NewDocument(req.Name)
	}
	if doc.ID == "" {
		doc.ID = uuid.New().String()
	}
	if doc.Name == "" {
		doc.Name = req.Name
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}

	data, err := doc.Marshal()
	if err != nil {
		return nil, fmt.Errorf("failed to marshal document: %w", err)
	}

	now := time.Now()
	tm := &model.TemplateModel{
		ID:          doc.ID,
		Version:     1,
		Name:        req.Name,
		Description: req.Description,
		Data:        data,
		CreatedAt:   now,
		UpdatedAt:   now,
		CreatedBy:   userIDFrom(ctx),
	}
	if err := s.repo.Save(tm); err != nil {
		return nil, fmt.Errorf("failed to save template: %w", err)
	}

	metrics.RecordTemplateVersionSaved()
	s.audit(ctx, "create", tm.ID, map[string]string{"name": tm.Name})
	s.notify("template.created", tm.ID)
	return s.toDetail(tm)
}

// Get 获取模板,version <= 0 时取最新版本
func (s *templateService) Get(id string, version int) (*TemplateDetail, error) {
	tm, err := s.repo.FindByID(id, version)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrNotFound
		}
		return nil, err
	}
	return s.toDetail(tm)
}

// Update 更新模板,内容变更保存为新版本
// 持久化失败时不改动任何已存版本,调用方保留草稿重试
func (s *templateService) Update(ctx context.Context, id string, req *UpdateTemplateRequest) (*TemplateDetail, error) {
	current, err := s.repo.FindByID(id, 0)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrNotFound
		}
		return nil, err
	}

	name := current.Name
	if req.Name != "" {
		name = req.Name
	}
	description := current.Description
	if req.Description != "" {
		description = req.Description
	}

	data := current.Data
	newVersion := current.Version
	if req.Document != nil {
		req.Document.ID = id
		if err := req.Document.Validate(); err != nil {
			return nil, err
		}
		data, err = req.Document.Marshal()
		if err != nil {
			return nil, fmt.Errorf("failed to marshal document: %w", err)
		}
		newVersion = current.Version + 1
	}

	now := time.Now()
	tm := &model.TemplateModel{
		ID:          id,
		Version:     newVersion,
		Name:        name,
		Description: description,
		Data:        data,
		IsDefault:   current.IsDefault,
		CreatedAt:   current.CreatedAt,
		UpdatedAt:   now,
		CreatedBy:   current.CreatedBy,
		UpdatedBy:   userIDFrom(ctx),
	}
	if err := s.repo.Save(tm); err != nil {
		return nil, fmt.Errorf("failed to save template: %w", err)
	}

	if newVersion > current.Version {
		metrics.RecordTemplateVersionSaved()
	}
	s.audit(ctx, "update", id, map[string]interface{}{"version": newVersion})
	s.notify("template.saved", id)
	return s.toDetail(tm)
}

// Delete 删除模板的全部版本
func (s *templateService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(id, 0); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.ErrNotFound
		}
		return err
	}
	if err := s.repo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete template: %w", err)
	}

	s.audit(ctx, "delete", id, nil)
	s.notify("template.deleted", id)
	return nil
}

// List 分页列出每个模板的最新版本
func (s *templateService) List(filter *TemplateListFilter) (*TemplateListResponse, error) {
	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	templates, total, err := s.repo.FindLatest(page, pageSize, filter.Search, filter.SortBy, filter.Order)
	if err != nil {
		return nil, err
	}

	details := make([]*TemplateDetail, 0, len(templates))
	for _, tm := range templates {
		d, err := s.toDetail(tm)
		if err != nil {
			return nil, err
		}
		details = append(details, d)
	}

	totalPage := int((total + int64(pageSize) - 1) / int64(pageSize))
	return &TemplateListResponse{
		Data: details,
		Pagination: PaginationInfo{
			Page:      page,
			PageSize:  pageSize,
			Total:     total,
			TotalPage: totalPage,
		},
	}, nil
}

// ListVersions 列出模板的全部版本号
func (s *templateService) ListVersions(id string) ([]int, error) {
	versions, err := s.repo.ListVersions(id)
	if err != nil {
		return nil, err
	}
	if len(versions) == 0 {
		return nil, utils.ErrNotFound
	}
	return versions, nil
}

// DeleteVersion 删除指定版本,最后一个版本不允许删除
func (s *templateService) DeleteVersion(ctx context.Context, id string, version int) error {
	versions, err := s.ListVersions(id)
	if err != nil {
		return err
	}
	if len(versions) <= 1 {
		return fmt.Errorf("%w: cannot delete the only version", utils.ErrInvalidDocument)
	}

	if err := s.repo.DeleteVersion(id, version); err != nil {
		return fmt.Errorf("failed to delete version: %w", err)
	}
	s.audit(ctx, "deleteVersion", id, map[string]interface{}{"version": version})
	return nil
}

// RestoreVersion 把历史版本的内容恢复为新的最新版本
func (s *templateService) RestoreVersion(ctx context.Context, id string, version int) (*TemplateDetail, error) {
	old, err := s.repo.FindByID(id, version)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrNotFound
		}
		return nil, err
	}

	doc, err := editor.UnmarshalDocument(old.Data)
	if err != nil {
		return nil, err
	}

	return s.Update(ctx, id, &UpdateTemplateRequest{Document: doc})
}

// Duplicate 复制模板为新模板,文档与区块取新 ID
func (s *templateService) Duplicate(ctx context.Context, id string, name string) (*TemplateDetail, error) {
	src, err := s.repo.FindByID(id, 0)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrNotFound
		}
		return nil, err
	}

	doc, err := editor.UnmarshalDocument(src.Data)
	if err != nil {
		return nil, err
	}
	doc.ID = uuid.New().String()
	doc.Name = name

	return s.Create(ctx, &CreateTemplateRequest{
		Name:        name,
		Description: src.Description,
		Document:    doc,
	})
}

// Export 导出模板文档
// 直接返回存储的文档字节,保证与导入往返一致
func (s *templateService) Export(id string, version int) ([]byte, error) {
	tm, err := s.repo.FindByID(id, version)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrNotFound
		}
		return nil, err
	}
	return tm.Data, nil
}

// Import 从导出的字节导入模板
// 格式错误或不变量被破坏时整体拒绝;文档取新 ID 避免与现有模板冲突
func (s *templateService) Import(ctx context.Context, name string, data []byte) (*TemplateDetail, error) {
	doc, err := editor.UnmarshalDocument(data)
	if err != nil {
		return nil, err
	}
	doc.ID = uuid.New().String()
	if name == "" {
		name = doc.Name
	}
	doc.Name = name

	return s.Create(ctx, &CreateTemplateRequest{
		Name:     name,
		Document: doc,
	})
}

// Align 对模板内选中区块做对齐/分布并保存为新版本
// 少于两个区块直接返回校验错误,不产生新版本
func (s *templateService) Align(ctx context.Context, id string, sectionIDs []string, mode editor.AlignMode) (*TemplateDetail, error) {
	tm, err := s.repo.FindByID(id, 0)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrNotFound
		}
		return nil, err
	}

	doc, err := editor.UnmarshalDocument(tm.Data)
	if err != nil {
		return nil, err
	}
	if err := editor.AlignSections(doc, sectionIDs, mode); err != nil {
		return nil, err
	}

	return s.Update(ctx, id, &UpdateTemplateRequest{Document: doc})
}

// Preview 渲染模板为 PDF
// fields 为空时用示例值填充,保证空白模板也能出预览
func (s *templateService) Preview(id string, version int, fields map[string]string) ([]byte, error) {
	tm, err := s.repo.FindByID(id, version)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrNotFound
		}
		return nil, err
	}
	doc, err := editor.UnmarshalDocument(tm.Data)
	if err != nil {
		return nil, err
	}

	if fields == nil {
		fields = previewSampleFields()
	}
	rctx := &render.Context{
		Fields:    fields,
		Checklist: s.checklistPoints(doc),
		AssetDir:  s.assetDir,
	}
	metrics.RecordTemplatePreview()
	return render.RenderPDF(doc, rctx)
}

// checklistPoints 解析文档中 checklist 区块绑定的检查项
// 取第一个带 checklistId 的区块,解析失败时返回空列表而非报错
func (s *templateService) checklistPoints(doc *editor.Document) []model.InspectionPoint {
	if s.checklistRepo == nil {
		return nil
	}
	for _, section := range doc.Sections {
		if section.Type != editor.SectionChecklist {
			continue
		}
		checklistID, _ := section.Settings["checklistId"].(string)
		if checklistID == "" {
			continue
		}
		cm, err := s.checklistRepo.FindByID(checklistID)
		if err != nil {
			return nil
		}
		points, err := cm.Points()
		if err != nil {
			return nil
		}
		return points
	}
	return nil
}

// previewSampleFields 预览用示例字段
func previewSampleFields() map[string]string {
	return map[string]string{
		"reservationNumber": "R-20260828-000001",
		"startDate":         "2026-08-28",
		"endDate":           "2026-09-02",
		"date":              "2026-08-28",
		"customerName":      "J. Jansen",
		"licensePlate":      "AB-123-C",
		"brand":             "Volkswagen",
		"model":             "Golf",
		"mileage":           "54 321",
		"fuelLevel":         "3/4",
	}
}

// SaveTemplate 实现 editor.Store,编辑器手势结束时经这里持久化草稿
func (s *templateService) SaveTemplate(ctx context.Context, doc *editor.Document) error {
	_, err := s.Update(ctx, doc.ID, &UpdateTemplateRequest{Document: doc})
	return err
}

// toDetail 反序列化模型为详情
func (s *templateService) toDetail(tm *model.TemplateModel) (*TemplateDetail, error) {
	doc, err := editor.UnmarshalDocument(tm.Data)
	if err != nil {
		return nil, err
	}
	return &TemplateDetail{
		ID:          tm.ID,
		Version:     tm.Version,
		Name:        tm.Name,
		Description: tm.Description,
		Document:    doc,
		CreatedAt:   tm.CreatedAt,
		UpdatedAt:   tm.UpdatedAt,
	}, nil
}

func (s *templateService) audit(ctx context.Context, action, id string, details interface{}) {
	if s.auditSvc == nil {
		return
	}
	// 审计失败不阻塞主流程
	_ = s.auditSvc.RecordAction(ctx, userIDFrom(ctx), action, "template", id, details)
}

func (s *templateService) notify(event, id string) {
	if s.notifier == nil {
		return
	}
	s.notifier.Notify(event, map[string]string{"id": id})
}

// userIDFrom 从 context 取当前用户,认证中间件写入
func userIDFrom(ctx context.Context) string {
	if v := ctx.Value("user_id"); v != nil {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}
