package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func HandleSuccess(c *gin.Context, data interface{}, message string) {
	requestID := getRequestID(c)
	c.JSON(http.StatusOK, &Response{
		Success:   true,
		Data:      data,
		Message:   message,
		Code:      http.StatusOK,
		RequestID: requestID,
	})
}

func HandleCreated(c *gin.Context, data interface{}, message string) {
	requestID := getRequestID(c)
	c.JSON(http.StatusCreated, &Response{
		Success:   true,
		Data:      data,
		Message:   message,
		Code:      http.StatusCreated,
		RequestID: requestID,
	})
}

// HandleList 列表响应，附带条数
func HandleList(c *gin.Context, items interface{}, total int, message string) {
	HandleSuccess(c, ListResponse{Items: items, Total: total}, message)
}

func HandleNoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
