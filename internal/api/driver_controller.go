package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/keeslam/CarRentalManager-sub003/internal/repository"
	"github.com/keeslam/CarRentalManager-sub003/internal/service"
)

// DriverController 驾驶员控制器
type DriverController struct {
	svc service.DriverService
}

// NewDriverController 创建驾驶员控制器
func NewDriverController(svc service.DriverService) *DriverController {
	return &DriverController{svc: svc}
}

// Create 登记驾驶员
// @Summary 登记附加驾驶员
// @Description 在客户名下登记附加驾驶员,驾照须在有效期内
// @Tags drivers
// @Accept json
// @Produce json
// @Param request body service.DriverRequest true "驾驶员信息"
// @Success 200 {object} Response{data=model.DriverModel}
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/v1/drivers [post]
func (dc *DriverController) Create(c *gin.Context) {
	var req service.DriverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid request", err.Error())
		return
	}
	driver, err := dc.svc.Create(c, &req)
	if err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, driver)
}

// List 分页列出驾驶员
// @Summary 分页列出驾驶员
// @Tags drivers
// @Produce json
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(20)
// @Param customer_id query string false "按客户过滤"
// @Param search query string false "姓名模糊匹配"
// @Success 200 {object} PaginatedResponse{data=[]model.DriverModel}
// @Security BearerAuth
// @Router /api/v1/drivers [get]
func (dc *DriverController) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	drivers, total, err := dc.svc.List(&repository.DriverFilter{
		Page:       page,
		PageSize:   pageSize,
		CustomerID: c.Query("customer_id"),
		Search:     c.Query("search"),
	})
	if err != nil {
		ServiceError(c, err)
		return
	}
	Paginated(c, drivers, paginationFor(page, pageSize, total))
}

// Get 获取驾驶员
// @Summary 获取驾驶员
// @Tags drivers
// @Produce json
// @Param id path string true "驾驶员 ID"
// @Success 200 {object} Response{data=model.DriverModel}
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/v1/drivers/{id} [get]
func (dc *DriverController) Get(c *gin.Context) {
	driver, err := dc.svc.Get(c.Param("id"))
	if err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, driver)
}

// Update 更新驾驶员
// @Summary 更新驾驶员
// @Description 更新驾驶员信息,零值字段保持原样
// @Tags drivers
// @Accept json
// @Produce json
// @Param id path string true "驾驶员 ID"
// @Param request body service.UpdateDriverRequest true "驾驶员信息"
// @Success 200 {object} Response{data=model.DriverModel}
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/v1/drivers/{id} [put]
func (dc *DriverController) Update(c *gin.Context) {
	var req service.UpdateDriverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid request", err.Error())
		return
	}
	driver, err := dc.svc.Update(c, c.Param("id"), &req)
	if err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, driver)
}

// Delete 删除驾驶员
// @Summary 删除驾驶员
// @Tags drivers
// @Produce json
// @Param id path string true "驾驶员 ID"
// @Success 200 {object} Response
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/v1/drivers/{id} [delete]
func (dc *DriverController) Delete(c *gin.Context) {
	if err := dc.svc.Delete(c, c.Param("id")); err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, nil)
}
