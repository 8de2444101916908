package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/keeslam/CarRentalManager-sub003/internal/model"
	"github.com/keeslam/CarRentalManager-sub003/internal/repository"
	"github.com/keeslam/CarRentalManager-sub003/internal/service"
)

// ReservationController 预订控制器
type ReservationController struct {
	svc service.ReservationService
}

// NewReservationController 创建预订控制器
func NewReservationController(svc service.ReservationService) *ReservationController {
	return &ReservationController{svc: svc}
}

// Create 创建预订
// @Summary 创建预订
// @Description 创建预订,车辆在该时段已被占用时返回 409
// @Tags reservations
// @Accept json
// @Produce json
// @Param request body service.CreateReservationRequest true "创建预订请求"
// @Success 200 {object} Response{data=model.ReservationModel}
// @Failure 409 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/v1/reservations [post]
func (rc *ReservationController) Create(c *gin.Context) {
	var req service.CreateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid request", err.Error())
		return
	}
	reservation, err := rc.svc.Create(c, &req)
	if err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, reservation)
}

// List 预订列表
// @Summary 预订列表
// @Tags reservations
// @Produce json
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(20)
// @Param status query string false "按状态过滤"
// @Param vehicle_id query string false "按车辆过滤"
// @Param customer_id query string false "按客户过滤"
// @Param from query string false "起始日期 (RFC3339)"
// @Param to query string false "截止日期 (RFC3339)"
// @Success 200 {object} PaginatedResponse{data=[]model.ReservationModel}
// @Security BearerAuth
// @Router /api/v1/reservations [get]
func (rc *ReservationController) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	filter := &repository.ReservationFilter{
		Page:       page,
		PageSize:   pageSize,
		Status:     c.Query("status"),
		VehicleID:  c.Query("vehicle_id"),
		CustomerID: c.Query("customer_id"),
		SortBy:     c.Query("sort_by"),
		Order:      c.Query("order"),
	}
	if from, err := time.Parse(time.RFC3339, c.Query("from")); err == nil {
		filter.From = &from
	}
	if to, err := time.Parse(time.RFC3339, c.Query("to")); err == nil {
		filter.To = &to
	}

	reservations, total, err := rc.svc.List(filter)
	if err != nil {
		ServiceError(c, err)
		return
	}
	Paginated(c, reservations, paginationFor(page, pageSize, total))
}

// Get 获取预订
// @Summary 获取预订
// @Tags reservations
// @Produce json
// @Param id path string true "预订 ID"
// @Success 200 {object} Response{data=model.ReservationModel}
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/v1/reservations/{id} [get]
func (rc *ReservationController) Get(c *gin.Context) {
	reservation, err := rc.svc.Get(c.Param("id"))
	if err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, reservation)
}

// Update 更新预订
// @Summary 更新预订
// @Description 终态预订不允许更新,日期变更重新做冲突检查
// @Tags reservations
// @Accept json
// @Produce json
// @Param id path string true "预订 ID"
// @Param request body service.UpdateReservationRequest true "更新预订请求"
// @Success 200 {object} Response{data=model.ReservationModel}
// @Failure 409 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/v1/reservations/{id} [put]
func (rc *ReservationController) Update(c *gin.Context) {
	var req service.UpdateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid request", err.Error())
		return
	}
	reservation, err := rc.svc.Update(c, c.Param("id"), &req)
	if err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, reservation)
}

// Delete 删除预订
// @Summary 删除预订
// @Description 仅 pending 和 cancelled 状态允许删除
// @Tags reservations
// @Produce json
// @Param id path string true "预订 ID"
// @Success 200 {object} Response
// @Failure 409 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/v1/reservations/{id} [delete]
func (rc *ReservationController) Delete(c *gin.Context) {
	if err := rc.svc.Delete(c, c.Param("id")); err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, nil)
}

// statusRequest 状态流转请求
type statusRequest struct {
	Status model.ReservationStatus `json:"status" binding:"required" example:"confirmed"`
}

// ChangeStatus 预订状态流转
// @Summary 预订状态流转
// @Description 按状态机流转预订状态,车辆状态随之联动
// @Tags reservations
// @Accept json
// @Produce json
// @Param id path string true "预订 ID"
// @Param request body statusRequest true "目标状态"
// @Success 200 {object} Response{data=model.ReservationModel}
// @Failure 409 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/v1/reservations/{id}/status [put]
func (rc *ReservationController) ChangeStatus(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid request", err.Error())
		return
	}
	reservation, err := rc.svc.ChangeStatus(c, c.Param("id"), req.Status)
	if err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, reservation)
}

// paginationFor 构造分页信息
func paginationFor(page, pageSize int, total int64) PaginationInfo {
	if pageSize < 1 {
		pageSize = 20
	}
	return PaginationInfo{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: int((total + int64(pageSize) - 1) / int64(pageSize)),
	}
}
