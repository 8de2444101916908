package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/keeslam/CarRentalManager-sub003/internal/service"
)

// ReportController 报表控制器
type ReportController struct {
	svc service.ReportService
}

// NewReportController 创建报表控制器
func NewReportController(svc service.ReportService) *ReportController {
	return &ReportController{svc: svc}
}

// reportRange 解析报表时间区间,缺省为最近 12 个月
func reportRange(c *gin.Context) (time.Time, time.Time, error) {
	now := time.Now()
	from := now.AddDate(-1, 0, 0)
	to := now

	if v := c.Query("from"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		from = parsed
	}
	if v := c.Query("to"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		to = parsed
	}
	return from, to, nil
}

// Revenue 月度营收报表
// @Summary 月度营收报表
// @Tags reports
// @Produce json
// @Param from query string false "起始日期 (2006-01-02)"
// @Param to query string false "截止日期 (2006-01-02)"
// @Success 200 {object} Response{data=[]service.RevenueBucket}
// @Security BearerAuth
// @Router /api/v1/reports/revenue [get]
func (rc *ReportController) Revenue(c *gin.Context) {
	from, to, err := reportRange(c)
	if err != nil {
		Error(c, http.StatusBadRequest, "invalid date range", err.Error())
		return
	}
	buckets, err := rc.svc.RevenueByMonth(from, to)
	if err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, buckets)
}

// Statuses 预订状态分布
// @Summary 预订状态分布
// @Tags reports
// @Produce json
// @Success 200 {object} Response{data=[]service.StatusCount}
// @Security BearerAuth
// @Router /api/v1/reports/statuses [get]
func (rc *ReportController) Statuses(c *gin.Context) {
	counts, err := rc.svc.StatusBreakdown()
	if err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, counts)
}

// Utilization 车辆出租率报表
// @Summary 车辆出租率报表
// @Tags reports
// @Produce json
// @Param from query string false "起始日期 (2006-01-02)"
// @Param to query string false "截止日期 (2006-01-02)"
// @Success 200 {object} Response{data=[]service.VehicleUtilization}
// @Security BearerAuth
// @Router /api/v1/reports/utilization [get]
func (rc *ReportController) Utilization(c *gin.Context) {
	from, to, err := reportRange(c)
	if err != nil {
		Error(c, http.StatusBadRequest, "invalid date range", err.Error())
		return
	}
	rows, err := rc.svc.VehicleUtilization(from, to)
	if err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, rows)
}

// TopCustomers 客户排行
// @Summary 按消费额排序的客户排行
// @Tags reports
// @Produce json
// @Param limit query int false "返回条数" default(10)
// @Success 200 {object} Response{data=[]service.CustomerRanking}
// @Security BearerAuth
// @Router /api/v1/reports/top-customers [get]
func (rc *ReportController) TopCustomers(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	rankings, err := rc.svc.TopCustomers(limit)
	if err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, rankings)
}
