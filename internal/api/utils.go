package api

import (
	"github.com/gin-gonic/gin"
	"github.com/spf13/cast"
)

// parseIntQuery 读取整数 query 参数, 缺失或非法用默认值
func parseIntQuery(c *gin.Context, key string, def int) int {
	raw := c.Query(key)
	if raw == "" {
		return def
	}
	if v := cast.ToInt(raw); v > 0 {
		return v
	}
	return def
}
