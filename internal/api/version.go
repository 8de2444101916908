package api

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// VersionMiddleware API 版本中间件
// 支持两种版本控制方式：
// 1. URL 路径版本控制: /api/v1/...
// 2. 请求头版本控制: API-Version: v1（优先级高于 URL 路径）
// 解析结果写入上下文并回显到 X-API-Version 响应头
func VersionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		version := "v1" // 默认版本

		// 方式 1: 从 URL 路径提取版本
		path := c.Request.URL.Path
		if strings.HasPrefix(path, "/api/v") {
			parts := strings.Split(path, "/")
			for i, part := range parts {
				if part == "api" && i+1 < len(parts) {
					nextPart := parts[i+1]
					if strings.HasPrefix(nextPart, "v") && len(nextPart) > 1 {
						version = nextPart
						break
					}
				}
			}
		}

		// 方式 2: 从请求头获取版本
		if headerVersion := c.GetHeader("API-Version"); headerVersion != "" {
			version = headerVersion
		}

		c.Set("api_version", version)
		c.Header("X-API-Version", version)

		c.Next()
	}
}
