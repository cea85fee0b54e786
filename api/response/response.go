package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"report-assistant/types"
)

// ErrorBody 所有错误响应的统一格式
type ErrorBody struct {
	Detail string `json:"detail"`
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// Error 按错误类型决定状态码，非 AppError 一律 500
func Error(c *gin.Context, err error) {
	Fail(c, types.StatusOf(err), err.Error())
}

func Fail(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, ErrorBody{Detail: msg})
}
