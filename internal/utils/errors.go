package utils

import "errors"

// 领域错误定义
// 服务层用 errors.Is 区分错误类别,API 层据此映射 HTTP 状态码
var (
	// 模板编辑器错误
	ErrSectionNotFound   = errors.New("section not found")
	ErrSectionLocked     = errors.New("section is locked")
	ErrSectionHidden     = errors.New("section is hidden")
	ErrStructuralSection = errors.New("structural section cannot be deleted")
	ErrTooFewSelected    = errors.New("alignment requires at least two sections")
	ErrPageOutOfRange    = errors.New("page number out of range")
	ErrLastPage          = errors.New("cannot remove the last page")
	ErrInvalidDocument   = errors.New("invalid template document")
	ErrMalformedTemplate = errors.New("malformed template data")
	ErrEmptyClipboard    = errors.New("clipboard is empty")

	// 预订错误
	ErrInvalidTransition = errors.New("invalid reservation status transition")
	ErrVehicleConflict   = errors.New("vehicle already reserved in this period")

	// 通用错误
	ErrNotFound     = errors.New("record not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
)
