package api

import (
	"github.com/gin-gonic/gin"
	"github.com/keeslam/CarRentalManager-sub003/internal/repository"
	"github.com/keeslam/CarRentalManager-sub003/internal/utils"
)

// ChecklistController 检查项模板控制器
// 对外只读,标准集由迁移播种
type ChecklistController struct {
	repo repository.ChecklistRepository
}

// NewChecklistController 创建检查项模板控制器
func NewChecklistController(repo repository.ChecklistRepository) *ChecklistController {
	return &ChecklistController{repo: repo}
}

// checklistView 检查项模板视图
type checklistView struct {
	ID     string      `json:"id"`
	Name   string      `json:"name"`
	Points interface{} `json:"points"`
}

// List 检查项模板列表
// @Summary 检查项模板列表
// @Tags checklists
// @Produce json
// @Success 200 {object} Response
// @Security BearerAuth
// @Router /api/v1/checklists [get]
func (cc *ChecklistController) List(c *gin.Context) {
	checklists, err := cc.repo.FindAll()
	if err != nil {
		ServiceError(c, err)
		return
	}
	views := make([]*checklistView, 0, len(checklists))
	for _, cm := range checklists {
		points, err := cm.Points()
		if err != nil {
			ServiceError(c, err)
			return
		}
		views = append(views, &checklistView{ID: cm.ID, Name: cm.Name, Points: points})
	}
	Success(c, views)
}

// Get 获取检查项模板
// @Summary 获取检查项模板
// @Tags checklists
// @Produce json
// @Param id path string true "模板 ID"
// @Success 200 {object} Response
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/v1/checklists/{id} [get]
func (cc *ChecklistController) Get(c *gin.Context) {
	cm, err := cc.repo.FindByID(c.Param("id"))
	if err != nil {
		ServiceError(c, utils.ErrNotFound)
		return
	}
	points, err := cm.Points()
	if err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, &checklistView{ID: cm.ID, Name: cm.Name, Points: points})
}
