package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/projhub/backend/pkg/response"
)

// parseUintParam parses a numeric path parameter. On failure it writes
// the error response and returns ok=false.
func parseUintParam(c *gin.Context, name string) (uint, bool) {
	value, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid "+name)
		return 0, false
	}
	return uint(value), true
}
