package api

import (
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/keeslam/CarRentalManager-sub003/internal/editor"
	"github.com/keeslam/CarRentalManager-sub003/internal/service"
)

// maxImportSize 导入模板的最大字节数
const maxImportSize = 4 << 20

// TemplateController 模板控制器
type TemplateController struct {
	svc service.TemplateService
}

// NewTemplateController 创建模板控制器
func NewTemplateController(svc service.TemplateService) *TemplateController {
	return &TemplateController{svc: svc}
}

// Create 创建模板
// @Summary 创建模板
// @Description 创建损伤检查单模板,未提供文档时播种默认区块集
// @Tags templates
// @Accept json
// @Produce json
// @Param request body service.CreateTemplateRequest true "创建模板请求"
// @Success 200 {object} Response{data=service.TemplateDetail}
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/v1/templates [post]
func (tc *TemplateController) Create(c *gin.Context) {
	var req service.CreateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid request", err.Error())
		return
	}
	detail, err := tc.svc.Create(c, &req)
	if err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, detail)
}

// List 模板列表
// @Summary 模板列表
// @Description 分页列出每个模板的最新版本
// @Tags templates
// @Produce json
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(20)
// @Param search query string false "按名称搜索"
// @Param sort_by query string false "排序字段" Enums(name, updated_at, created_at)
// @Param order query string false "排序方向" Enums(asc, desc)
// @Success 200 {object} PaginatedResponse{data=[]service.TemplateDetail}
// @Security BearerAuth
// @Router /api/v1/templates [get]
func (tc *TemplateController) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	resp, err := tc.svc.List(&service.TemplateListFilter{
		Page:     page,
		PageSize: pageSize,
		Search:   c.Query("search"),
		SortBy:   c.Query("sort_by"),
		Order:    c.Query("order"),
	})
	if err != nil {
		ServiceError(c, err)
		return
	}
	Paginated(c, resp.Data, PaginationInfo{
		Page:      resp.Pagination.Page,
		PageSize:  resp.Pagination.PageSize,
		Total:     resp.Pagination.Total,
		TotalPage: resp.Pagination.TotalPage,
	})
}

// Get 获取模板
// @Summary 获取模板
// @Description 获取模板详情,version 缺省为最新版本
// @Tags templates
// @Produce json
// @Param id path string true "模板 ID"
// @Param version query int false "版本号"
// @Success 200 {object} Response{data=service.TemplateDetail}
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/v1/templates/{id} [get]
func (tc *TemplateController) Get(c *gin.Context) {
	version, _ := strconv.Atoi(c.Query("version"))
	detail, err := tc.svc.Get(c.Param("id"), version)
	if err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, detail)
}

// Update 更新模板
// @Summary 更新模板
// @Description 更新模板,文档变更保存为新版本
// @Tags templates
// @Accept json
// @Produce json
// @Param id path string true "模板 ID"
// @Param request body service.UpdateTemplateRequest true "更新模板请求"
// @Success 200 {object} Response{data=service.TemplateDetail}
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/v1/templates/{id} [put]
func (tc *TemplateController) Update(c *gin.Context) {
	var req service.UpdateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid request", err.Error())
		return
	}
	detail, err := tc.svc.Update(c, c.Param("id"), &req)
	if err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, detail)
}

// Delete 删除模板
// @Summary 删除模板
// @Description 删除模板的全部版本
// @Tags templates
// @Produce json
// @Param id path string true "模板 ID"
// @Success 200 {object} Response
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/v1/templates/{id} [delete]
func (tc *TemplateController) Delete(c *gin.Context) {
	if err := tc.svc.Delete(c, c.Param("id")); err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, nil)
}

// ListVersions 版本列表
// @Summary 模板版本列表
// @Tags templates
// @Produce json
// @Param id path string true "模板 ID"
// @Success 200 {object} Response{data=[]int}
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/v1/templates/{id}/versions [get]
func (tc *TemplateController) ListVersions(c *gin.Context) {
	versions, err := tc.svc.ListVersions(c.Param("id"))
	if err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, versions)
}

// DeleteVersion 删除指定版本
// @Summary 删除模板版本
// @Description 删除指定版本,最后一个版本不允许删除
// @Tags templates
// @Produce json
// @Param id path string true "模板 ID"
// @Param version path int true "版本号"
// @Success 200 {object} Response
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/v1/templates/{id}/versions/{version} [delete]
func (tc *TemplateController) DeleteVersion(c *gin.Context) {
	version, err := strconv.Atoi(c.Param("version"))
	if err != nil {
		Error(c, http.StatusBadRequest, "invalid version", err.Error())
		return
	}
	if err := tc.svc.DeleteVersion(c, c.Param("id"), version); err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, nil)
}

// RestoreVersion 恢复历史版本
// @Summary 恢复模板历史版本
// @Description 把历史版本的内容落为新的最新版本
// @Tags templates
// @Produce json
// @Param id path string true "模板 ID"
// @Param version path int true "版本号"
// @Success 200 {object} Response{data=service.TemplateDetail}
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/v1/templates/{id}/versions/{version}/restore [post]
func (tc *TemplateController) RestoreVersion(c *gin.Context) {
	version, err := strconv.Atoi(c.Param("version"))
	if err != nil {
		Error(c, http.StatusBadRequest, "invalid version", err.Error())
		return
	}
	detail, err := tc.svc.RestoreVersion(c, c.Param("id"), version)
	if err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, detail)
}

// duplicateRequest 复制模板请求
type duplicateRequest struct {
	Name string `json:"name" binding:"required"`
}

// Duplicate 复制模板
// @Summary 复制模板
// @Description 复制为新模板,文档与区块取新 ID
// @Tags templates
// @Accept json
// @Produce json
// @Param id path string true "模板 ID"
// @Param request body duplicateRequest true "复制请求"
// @Success 200 {object} Response{data=service.TemplateDetail}
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/v1/templates/{id}/duplicate [post]
func (tc *TemplateController) Duplicate(c *gin.Context) {
	var req duplicateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid request", err.Error())
		return
	}
	detail, err := tc.svc.Duplicate(c, c.Param("id"), req.Name)
	if err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, detail)
}

// Export 导出模板
// @Summary 导出模板
// @Description 导出存储的文档字节,可重新导入
// @Tags templates
// @Produce json
// @Param id path string true "模板 ID"
// @Param version query int false "版本号"
// @Success 200 {string} string "模板文档 JSON"
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/v1/templates/{id}/export [get]
func (tc *TemplateController) Export(c *gin.Context) {
	version, _ := strconv.Atoi(c.Query("version"))
	data, err := tc.svc.Export(c.Param("id"), version)
	if err != nil {
		ServiceError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=template-%s.json", c.Param("id")))
	c.Data(http.StatusOK, "application/json", data)
}

// Import 导入模板
// @Summary 导入模板
// @Description 请求体为导出的文档 JSON,格式错误时整体拒绝
// @Tags templates
// @Accept json
// @Produce json
// @Param name query string false "新模板名称,缺省取文档名"
// @Success 200 {object} Response{data=service.TemplateDetail}
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/v1/templates/import [post]
func (tc *TemplateController) Import(c *gin.Context) {
	data, err := io.ReadAll(io.LimitReader(c.Request.Body, maxImportSize))
	if err != nil {
		Error(c, http.StatusBadRequest, "failed to read request body", err.Error())
		return
	}
	detail, err := tc.svc.Import(c, c.Query("name"), data)
	if err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, detail)
}

// alignRequest 对齐请求
type alignRequest struct {
	SectionIDs []string `json:"sectionIds" binding:"required"`
	Mode       string   `json:"mode" binding:"required" example:"left"`
}

// Align 对齐区块
// @Summary 对齐模板区块
// @Description 对选中区块做对齐或分布,结果保存为新版本
// @Tags templates
// @Accept json
// @Produce json
// @Param id path string true "模板 ID"
// @Param request body alignRequest true "对齐请求"
// @Success 200 {object} Response{data=service.TemplateDetail}
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/v1/templates/{id}/align [post]
func (tc *TemplateController) Align(c *gin.Context) {
	var req alignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid request", err.Error())
		return
	}
	detail, err := tc.svc.Align(c, c.Param("id"), req.SectionIDs, editor.AlignMode(req.Mode))
	if err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, detail)
}

// Preview 预览模板
// @Summary 预览模板 PDF
// @Description 渲染模板为 PDF,查询参数作为占位字段值
// @Tags templates
// @Produce application/pdf
// @Param id path string true "模板 ID"
// @Param version query int false "版本号"
// @Success 200 {string} binary "PDF 文档"
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/v1/templates/{id}/preview [get]
func (tc *TemplateController) Preview(c *gin.Context) {
	version, _ := strconv.Atoi(c.Query("version"))

	var fields map[string]string
	for key, values := range c.Request.URL.Query() {
		if key == "version" || len(values) == 0 {
			continue
		}
		if fields == nil {
			fields = make(map[string]string)
		}
		fields[key] = values[0]
	}

	pdf, err := tc.svc.Preview(c.Param("id"), version, fields)
	if err != nil {
		ServiceError(c, err)
		return
	}
	c.Data(http.StatusOK, "application/pdf", pdf)
}
