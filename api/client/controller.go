// Package client - 客户 API 控制器（只读）
package client

import (
	"aquadash/api/ctxutil"
	"aquadash/api/response"
	clientapp "aquadash/application/client"

	"github.com/gin-gonic/gin"
)

// Controller 客户控制器
type Controller struct {
	clientService *clientapp.ApplicationService
}

func NewController(clientService *clientapp.ApplicationService) *Controller {
	return &Controller{clientService: clientService}
}

// RegisterRoutes 注册客户路由
func (c *Controller) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/clients/:id", c.GetClient)
}

// GetClient GET /api/v1/clients/:id
func (c *Controller) GetClient(ctx *gin.Context) {
	client, err := c.clientService.GetClient(ctxutil.WithRequestID(ctx), ctx.Param("id"))
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	response.HandleSuccess(ctx, client, "client retrieved successfully")
}
