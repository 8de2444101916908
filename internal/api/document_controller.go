package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/keeslam/CarRentalManager-sub003/internal/service"
)

// DocumentController 上传文件控制器
type DocumentController struct {
	svc service.DocumentService
}

// NewDocumentController 创建上传文件控制器
func NewDocumentController(svc service.DocumentService) *DocumentController {
	return &DocumentController{svc: svc}
}

// Upload 上传文件
// @Summary 上传文件
// @Description multipart 上传,file 为文件字段,resource_type/resource_id 指定归属
// @Tags documents
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "文件"
// @Param resource_type formData string false "资源类型" Enums(reservation, vehicle, customer, template)
// @Param resource_id formData string false "资源 ID"
// @Success 200 {object} Response{data=model.DocumentModel}
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/v1/documents [post]
func (dc *DocumentController) Upload(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		Error(c, http.StatusBadRequest, "file field is required", err.Error())
		return
	}
	doc, err := dc.svc.Upload(c, header, c.PostForm("resource_type"), c.PostForm("resource_id"))
	if err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, doc)
}

// List 文件列表
// @Summary 按资源列出文件
// @Tags documents
// @Produce json
// @Param resource_type query string true "资源类型"
// @Param resource_id query string true "资源 ID"
// @Success 200 {object} Response{data=[]model.DocumentModel}
// @Security BearerAuth
// @Router /api/v1/documents [get]
func (dc *DocumentController) List(c *gin.Context) {
	docs, err := dc.svc.ListByResource(c.Query("resource_type"), c.Query("resource_id"))
	if err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, docs)
}

// Download 下载文件
// @Summary 下载文件
// @Tags documents
// @Produce octet-stream
// @Param id path string true "文件 ID"
// @Success 200 {string} binary "文件内容"
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/v1/documents/{id}/download [get]
func (dc *DocumentController) Download(c *gin.Context) {
	doc, reader, err := dc.svc.Open(c.Param("id"))
	if err != nil {
		ServiceError(c, err)
		return
	}
	defer reader.Close()

	contentType := doc.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.FileName))
	c.DataFromReader(http.StatusOK, doc.Size, contentType, reader, nil)
}

// Delete 删除文件
// @Summary 删除文件
// @Tags documents
// @Produce json
// @Param id path string true "文件 ID"
// @Success 200 {object} Response
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/v1/documents/{id} [delete]
func (dc *DocumentController) Delete(c *gin.Context) {
	if err := dc.svc.Delete(c, c.Param("id")); err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, nil)
}
