package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/keeslam/CarRentalManager-sub003/internal/repository"
	"github.com/keeslam/CarRentalManager-sub003/internal/service"
)

// VehicleController 车辆控制器
type VehicleController struct {
	svc service.VehicleService
}

// NewVehicleController 创建车辆控制器
func NewVehicleController(svc service.VehicleService) *VehicleController {
	return &VehicleController{svc: svc}
}

// Create 登记车辆
// @Summary 登记车辆
// @Description 登记车辆,车牌号归一化后要求唯一
// @Tags vehicles
// @Accept json
// @Produce json
// @Param request body service.VehicleRequest true "车辆信息"
// @Success 200 {object} Response{data=model.VehicleModel}
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/v1/vehicles [post]
func (vc *VehicleController) Create(c *gin.Context) {
	var req service.VehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid request", err.Error())
		return
	}
	vehicle, err := vc.svc.Create(c, &req)
	if err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, vehicle)
}

// List 车辆列表
// @Summary 车辆列表
// @Tags vehicles
// @Produce json
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(20)
// @Param status query string false "按状态过滤"
// @Param search query string false "车牌/品牌/型号搜索"
// @Success 200 {object} PaginatedResponse{data=[]model.VehicleModel}
// @Security BearerAuth
// @Router /api/v1/vehicles [get]
func (vc *VehicleController) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	vehicles, total, err := vc.svc.List(&repository.VehicleFilter{
		Page:     page,
		PageSize: pageSize,
		Status:   c.Query("status"),
		Search:   c.Query("search"),
	})
	if err != nil {
		ServiceError(c, err)
		return
	}
	Paginated(c, vehicles, paginationFor(page, pageSize, total))
}

// Get 获取车辆
// @Summary 获取车辆
// @Tags vehicles
// @Produce json
// @Param id path string true "车辆 ID"
// @Success 200 {object} Response{data=model.VehicleModel}
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/v1/vehicles/{id} [get]
func (vc *VehicleController) Get(c *gin.Context) {
	vehicle, err := vc.svc.Get(c.Param("id"))
	if err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, vehicle)
}

// Update 更新车辆
// @Summary 更新车辆
// @Tags vehicles
// @Accept json
// @Produce json
// @Param id path string true "车辆 ID"
// @Param request body service.VehicleRequest true "车辆信息"
// @Success 200 {object} Response{data=model.VehicleModel}
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/v1/vehicles/{id} [put]
func (vc *VehicleController) Update(c *gin.Context) {
	var req service.VehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid request", err.Error())
		return
	}
	vehicle, err := vc.svc.Update(c, c.Param("id"), &req)
	if err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, vehicle)
}

// Delete 删除车辆
// @Summary 删除车辆
// @Tags vehicles
// @Produce json
// @Param id path string true "车辆 ID"
// @Success 200 {object} Response
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/v1/vehicles/{id} [delete]
func (vc *VehicleController) Delete(c *gin.Context) {
	if err := vc.svc.Delete(c, c.Param("id")); err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, nil)
}
