// Package sale - 销售 API 控制器
package sale

import (
	"net/http"

	"aquadash/api/ctxutil"
	"aquadash/api/response"
	saleapp "aquadash/application/sale"

	"github.com/gin-gonic/gin"
)

// Controller 销售控制器
type Controller struct {
	saleService *saleapp.ApplicationService
}

func NewController(saleService *saleapp.ApplicationService) *Controller {
	return &Controller{saleService: saleService}
}

// RegisterRoutes 注册销售路由
func (c *Controller) RegisterRoutes(router *gin.RouterGroup) {
	saleGroup := router.Group("/sales")
	{
		saleGroup.POST("", c.CreateDirectSale)
		saleGroup.GET("/:id", c.GetSale)
		saleGroup.GET("/order/:orderId", c.GetSaleByOrder)
		saleGroup.GET("/client/:clientId", c.ListClientSales)
	}
}

// CreateDirectSale 柜台直售，必须一次付清
// POST /api/v1/sales
func (c *Controller) CreateDirectSale(ctx *gin.Context) {
	var req saleapp.DirectSaleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.HandleError(ctx, err, "invalid request parameters", http.StatusBadRequest)
		return
	}

	sale, err := c.saleService.CreateDirectSale(ctxutil.WithRequestID(ctx), req)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	response.HandleCreated(ctx, sale, "sale recorded successfully")
}

// GetSale GET /api/v1/sales/:id
func (c *Controller) GetSale(ctx *gin.Context) {
	sale, err := c.saleService.GetSale(ctxutil.WithRequestID(ctx), ctx.Param("id"))
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	response.HandleSuccess(ctx, sale, "sale retrieved successfully")
}

// GetSaleByOrder GET /api/v1/sales/order/:orderId
func (c *Controller) GetSaleByOrder(ctx *gin.Context) {
	sale, err := c.saleService.GetSaleByOrder(ctxutil.WithRequestID(ctx), ctx.Param("orderId"))
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	response.HandleSuccess(ctx, sale, "sale retrieved successfully")
}

// ListClientSales GET /api/v1/sales/client/:clientId
func (c *Controller) ListClientSales(ctx *gin.Context) {
	sales, err := c.saleService.ListClientSales(ctxutil.WithRequestID(ctx), ctx.Param("clientId"))
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	response.HandleList(ctx, sales, len(sales), "client sales retrieved successfully")
}
