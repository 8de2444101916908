package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/keeslam/CarRentalManager-sub003/internal/auth"
	"github.com/keeslam/CarRentalManager-sub003/internal/service"
)

// UserController 用户控制器
type UserController struct {
	svc service.UserService
}

// NewUserController 创建用户控制器
func NewUserController(svc service.UserService) *UserController {
	return &UserController{svc: svc}
}

// loginRequest 登录请求
type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login 登录
// @Summary 登录
// @Description 校验用户名密码,签发 JWT
// @Tags auth
// @Accept json
// @Produce json
// @Param request body loginRequest true "登录请求"
// @Success 200 {object} Response{data=service.LoginResult}
// @Failure 401 {object} ErrorResponse
// @Router /api/v1/auth/login [post]
func (uc *UserController) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid request", err.Error())
		return
	}
	result, err := uc.svc.Login(c, req.Username, req.Password)
	if err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, result)
}

// Me 当前用户信息
// @Summary 当前用户信息
// @Tags auth
// @Produce json
// @Success 200 {object} Response{data=service.UserDetail}
// @Failure 401 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/v1/auth/me [get]
func (uc *UserController) Me(c *gin.Context) {
	detail, err := uc.svc.Get(c.GetString(auth.ContextUserIDKey))
	if err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, detail)
}

// changePasswordRequest 修改密码请求
type changePasswordRequest struct {
	OldPassword string `json:"oldPassword" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,min=8"`
}

// ChangePassword 修改当前用户密码
// @Summary 修改密码
// @Tags auth
// @Accept json
// @Produce json
// @Param request body changePasswordRequest true "修改密码请求"
// @Success 200 {object} Response
// @Failure 401 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/v1/auth/password [put]
func (uc *UserController) ChangePassword(c *gin.Context) {
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid request", err.Error())
		return
	}
	userID := c.GetString(auth.ContextUserIDKey)
	if err := uc.svc.ChangePassword(c, userID, req.OldPassword, req.NewPassword); err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, nil)
}

// Create 创建用户
// @Summary 创建用户
// @Description 仅管理员可用
// @Tags users
// @Accept json
// @Produce json
// @Param request body service.CreateUserRequest true "创建用户请求"
// @Success 200 {object} Response{data=service.UserDetail}
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/v1/users [post]
func (uc *UserController) Create(c *gin.Context) {
	var req service.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid request", err.Error())
		return
	}
	detail, err := uc.svc.Create(c, &req)
	if err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, detail)
}

// List 用户列表
// @Summary 用户列表
// @Description 仅管理员可用
// @Tags users
// @Produce json
// @Success 200 {object} Response{data=[]service.UserDetail}
// @Security BearerAuth
// @Router /api/v1/users [get]
func (uc *UserController) List(c *gin.Context) {
	details, err := uc.svc.List()
	if err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, details)
}

// Get 获取用户
// @Summary 获取用户
// @Tags users
// @Produce json
// @Param id path string true "用户 ID"
// @Success 200 {object} Response{data=service.UserDetail}
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/v1/users/{id} [get]
func (uc *UserController) Get(c *gin.Context) {
	detail, err := uc.svc.Get(c.Param("id"))
	if err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, detail)
}

// Update 更新用户
// @Summary 更新用户
// @Description 仅管理员可用,可启用/停用账户
// @Tags users
// @Accept json
// @Produce json
// @Param id path string true "用户 ID"
// @Param request body service.UpdateUserRequest true "更新用户请求"
// @Success 200 {object} Response{data=service.UserDetail}
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/v1/users/{id} [put]
func (uc *UserController) Update(c *gin.Context) {
	var req service.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid request", err.Error())
		return
	}
	detail, err := uc.svc.Update(c, c.Param("id"), &req)
	if err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, detail)
}

// Delete 删除用户
// @Summary 删除用户
// @Description 仅管理员可用
// @Tags users
// @Produce json
// @Param id path string true "用户 ID"
// @Success 200 {object} Response
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/v1/users/{id} [delete]
func (uc *UserController) Delete(c *gin.Context) {
	if err := uc.svc.Delete(c, c.Param("id")); err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, nil)
}
