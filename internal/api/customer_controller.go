package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/keeslam/CarRentalManager-sub003/internal/repository"
	"github.com/keeslam/CarRentalManager-sub003/internal/service"
)

// CustomerController 客户控制器
type CustomerController struct {
	svc       service.CustomerService
	driverSvc service.DriverService
}

// NewCustomerController 创建客户控制器
func NewCustomerController(svc service.CustomerService, driverSvc service.DriverService) *CustomerController {
	return &CustomerController{svc: svc, driverSvc: driverSvc}
}

// Create 登记客户
// @Summary 登记客户
// @Description 登记客户,驾照号加密落库
// @Tags customers
// @Accept json
// @Produce json
// @Param request body service.CustomerRequest true "客户信息"
// @Success 200 {object} Response{data=model.CustomerModel}
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/v1/customers [post]
func (cc *CustomerController) Create(c *gin.Context) {
	var req service.CustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid request", err.Error())
		return
	}
	customer, err := cc.svc.Create(c, &req)
	if err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, customer)
}

// List 客户列表
// @Summary 客户列表
// @Tags customers
// @Produce json
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(20)
// @Param search query string false "姓名/邮箱搜索"
// @Success 200 {object} PaginatedResponse{data=[]model.CustomerModel}
// @Security BearerAuth
// @Router /api/v1/customers [get]
func (cc *CustomerController) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	customers, total, err := cc.svc.List(&repository.CustomerFilter{
		Page:     page,
		PageSize: pageSize,
		Search:   c.Query("search"),
	})
	if err != nil {
		ServiceError(c, err)
		return
	}
	Paginated(c, customers, paginationFor(page, pageSize, total))
}

// Get 获取客户
// @Summary 获取客户
// @Tags customers
// @Produce json
// @Param id path string true "客户 ID"
// @Success 200 {object} Response{data=model.CustomerModel}
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/v1/customers/{id} [get]
func (cc *CustomerController) Get(c *gin.Context) {
	customer, err := cc.svc.Get(c.Param("id"))
	if err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, customer)
}

// Update 更新客户
// @Summary 更新客户
// @Tags customers
// @Accept json
// @Produce json
// @Param id path string true "客户 ID"
// @Param request body service.CustomerRequest true "客户信息"
// @Success 200 {object} Response{data=model.CustomerModel}
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/v1/customers/{id} [put]
func (cc *CustomerController) Update(c *gin.Context) {
	var req service.CustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid request", err.Error())
		return
	}
	customer, err := cc.svc.Update(c, c.Param("id"), &req)
	if err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, customer)
}

// Delete 删除客户
// @Summary 删除客户
// @Tags customers
// @Produce json
// @Param id path string true "客户 ID"
// @Success 200 {object} Response
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/v1/customers/{id} [delete]
func (cc *CustomerController) Delete(c *gin.Context) {
	if err := cc.svc.Delete(c, c.Param("id")); err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, nil)
}

// ListDrivers 客户名下驾驶员列表
// @Summary 客户名下驾驶员列表
// @Tags customers
// @Produce json
// @Param id path string true "客户 ID"
// @Success 200 {object} Response{data=[]model.DriverModel}
// @Security BearerAuth
// @Router /api/v1/customers/{id}/drivers [get]
func (cc *CustomerController) ListDrivers(c *gin.Context) {
	drivers, err := cc.driverSvc.ListByCustomer(c.Param("id"))
	if err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, drivers)
}
