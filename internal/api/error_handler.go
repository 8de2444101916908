package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/keeslam/CarRentalManager-sub003/internal/utils"
)

// APIError API 错误
type APIError struct {
	Code    int
	Message string
	Detail  string
}

func (e *APIError) Error() string {
	return e.Message
}

// ErrorHandlerMiddleware 错误处理中间件
func ErrorHandlerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 {
			err := c.Errors.Last()

			var apiErr *APIError
			if errors.As(err, &apiErr) {
				Error(c, apiErr.Code, apiErr.Message, apiErr.Detail)
			} else {
				Error(c, http.StatusInternalServerError, "internal server error", err.Error())
			}
		}
	}
}

// WrapError 包装错误
func WrapError(err error, code int, message string) *APIError {
	return &APIError{
		Code:    code,
		Message: message,
		Detail:  err.Error(),
	}
}


// ServiceError 把服务层错误映射为 HTTP 响应
func ServiceError(c *gin.Context, err error) {
	var verr *utils.ValidationError
	if errors.As(err, &verr) {
		Error(c, http.StatusBadRequest, "invalid request", verr.Error())
		return
	}

	switch {
	case errors.Is(err, utils.ErrNotFound), errors.Is(err, utils.ErrSectionNotFound):
		Error(c, http.StatusNotFound, "not found", err.Error())
	case errors.Is(err, utils.ErrUnauthorized):
		Error(c, http.StatusUnauthorized, "unauthorized", err.Error())
	case errors.Is(err, utils.ErrForbidden):
		Error(c, http.StatusForbidden, "forbidden", err.Error())
	case errors.Is(err, utils.ErrVehicleConflict):
		Error(c, http.StatusConflict, "conflict", err.Error())
	case errors.Is(err, utils.ErrInvalidTransition),
		errors.Is(err, utils.ErrInvalidDocument),
		errors.Is(err, utils.ErrMalformedTemplate),
		errors.Is(err, utils.ErrStructuralSection),
		errors.Is(err, utils.ErrTooFewSelected),
		errors.Is(err, utils.ErrPageOutOfRange),
		errors.Is(err, utils.ErrLastPage),
		errors.Is(err, utils.ErrSectionLocked),
		errors.Is(err, utils.ErrSectionHidden),
		errors.Is(err, utils.ErrEmptyClipboard):
		Error(c, http.StatusBadRequest, "invalid request", err.Error())
	default:
		Error(c, http.StatusInternalServerError, "internal server error", err.Error())
	}
}
