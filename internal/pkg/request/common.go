package request

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/gearshare/gearshare-backend/internal/pkg/apperror"
)

// PathID parses a positive numeric path parameter.
func PathID(c *gin.Context, name string) (int64, error) {
	raw := c.Param(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperror.New(http.StatusBadRequest, "invalid "+name)
	}
	return id, nil
}
