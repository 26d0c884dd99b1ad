package handler

import (
	"strconv"

	"stash/pkg/response"

	"github.com/gin-gonic/gin"
)

// paramID 解析路径中的 uint64 id
func paramID(c *gin.Context, name string) (uint64, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, response.BadRequest("Invalid " + name)
	}
	return id, nil
}

// queryUint 可选的 uint64 查询参数, 缺省返回 0
func queryUint(c *gin.Context, name string) (uint64, error) {
	raw := c.Query(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, response.BadRequest("Invalid " + name)
	}
	return v, nil
}

func queryInt(c *gin.Context, name string, def int) int {
	if v, err := strconv.Atoi(c.Query(name)); err == nil && v > 0 {
		return v
	}
	return def
}
