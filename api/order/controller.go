/*
Package order - 订单 API 控制器

职责:
1. 接收 HTTP 请求，解析参数
2. 调用应用服务处理业务逻辑
3. 使用 response 包统一处理响应和错误

错误处理原则:
1. 参数绑定错误: 使用 response.HandleError 直接返回 400
2. 业务错误: 使用 response.HandleAppError 自动映射状态码
3. HandleAppError 会自动调用 errors.FromDomainError 转换错误
*/
package order

import (
	"net/http"

	"aquadash/api/ctxutil"
	"aquadash/api/response"
	"aquadash/application/common"
	orderapp "aquadash/application/order"

	"github.com/gin-gonic/gin"
)

// Controller 订单控制器
type Controller struct {
	orderService *orderapp.ApplicationService
}

// NewController 创建订单控制器
func NewController(orderService *orderapp.ApplicationService) *Controller {
	return &Controller{
		orderService: orderService,
	}
}

// RegisterRoutes 注册订单路由
func (c *Controller) RegisterRoutes(router *gin.RouterGroup) {
	orderGroup := router.Group("/orders")
	{
		orderGroup.POST("", c.CreateOrder)
		orderGroup.GET("", c.ListOrders)
		orderGroup.GET("/client/:clientId", c.ListClientOrders)
		orderGroup.GET("/:id", c.GetOrder)
		orderGroup.PATCH("/:id", c.UpdateDetails)
		orderGroup.DELETE("/:id", c.DeleteOrder)
		orderGroup.GET("/:id/due", c.ComputeDue)
		orderGroup.POST("/:id/payments", c.RecordPayment)
		orderGroup.PUT("/:id/status", c.ChangeStatus)
		orderGroup.PUT("/:id/delivery", c.ChangeDelivery)
		orderGroup.POST("/:id/items", c.AddItem)
		orderGroup.PUT("/:id/items/:itemId", c.SetQuantity)
		orderGroup.DELETE("/:id/items/:itemId", c.RemoveItem)
	}
}

// CreateOrder 创建订单
// POST /api/v1/orders
func (c *Controller) CreateOrder(ctx *gin.Context) {
	var req orderapp.CreateOrderRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.HandleError(ctx, err, "invalid request parameters", http.StatusBadRequest)
		return
	}

	order, err := c.orderService.CreateOrder(ctxutil.WithRequestID(ctx), req)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	response.HandleCreated(ctx, order, "order created successfully")
}

// GetOrder 获取订单信息（含当前应付余额）
// GET /api/v1/orders/:id
//
// 错误处理链路:
//
//	Repository 返回: order.ErrOrderNotFound
//	     ↓
//	Controller 调用: response.HandleAppError(ctx, err)
//	     ↓
//	errors.FromDomainError -> ORDER_NOT_FOUND -> 404
func (c *Controller) GetOrder(ctx *gin.Context) {
	order, err := c.orderService.GetOrder(ctxutil.WithRequestID(ctx), ctx.Param("id"))
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	response.HandleSuccess(ctx, order, "order retrieved successfully")
}

// ListOrders 按状态、客户、日期过滤订单
// GET /api/v1/orders?status=pending&client_id=...&from=2026-03-01&to=2026-03-31&unconverted=true
func (c *Controller) ListOrders(ctx *gin.Context) {
	var query orderapp.ListOrdersQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		response.HandleError(ctx, err, "invalid query parameters", http.StatusBadRequest)
		return
	}

	orders, err := c.orderService.ListOrders(ctxutil.WithRequestID(ctx), query)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	response.HandleList(ctx, orders, len(orders), "orders retrieved successfully")
}

// ListClientOrders 获取客户的所有订单
// GET /api/v1/orders/client/:clientId
func (c *Controller) ListClientOrders(ctx *gin.Context) {
	orders, err := c.orderService.ListClientOrders(ctxutil.WithRequestID(ctx), ctx.Param("clientId"))
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	response.HandleList(ctx, orders, len(orders), "client orders retrieved successfully")
}

// ComputeDue 计算当前应付余额（只读）
// GET /api/v1/orders/:id/due
func (c *Controller) ComputeDue(ctx *gin.Context) {
	due, err := c.orderService.ComputeDue(ctxutil.WithRequestID(ctx), ctx.Param("id"))
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	response.HandleSuccess(ctx, due, "balance computed successfully")
}

// RecordPayment 收款
// POST /api/v1/orders/:id/payments
// 被策略拒绝时返回 422，details 带 reason/threshold/remaining
func (c *Controller) RecordPayment(ctx *gin.Context) {
	var req common.PaymentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.HandleError(ctx, err, "invalid request parameters", http.StatusBadRequest)
		return
	}

	result, err := c.orderService.RecordPayment(ctxutil.WithRequestID(ctx), ctx.Param("id"), req)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	response.HandleCreated(ctx, result, "payment recorded successfully")
}

// ChangeStatus 订单状态迁移
// PUT /api/v1/orders/:id/status
func (c *Controller) ChangeStatus(ctx *gin.Context) {
	var req orderapp.ChangeStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.HandleError(ctx, err, "invalid request parameters", http.StatusBadRequest)
		return
	}

	result, err := c.orderService.ChangeStatus(ctxutil.WithRequestID(ctx), ctx.Param("id"), req)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	response.HandleSuccess(ctx, result, "order status updated successfully")
}

// DeleteOrder 逻辑删除待确认订单
// DELETE /api/v1/orders/:id
func (c *Controller) DeleteOrder(ctx *gin.Context) {
	if err := c.orderService.DeleteOrder(ctxutil.WithRequestID(ctx), ctx.Param("id")); err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	response.HandleSuccess(ctx, nil, "order deleted successfully")
}

// UpdateDetails 修改备注与到期日
// PATCH /api/v1/orders/:id
func (c *Controller) UpdateDetails(ctx *gin.Context) {
	var req orderapp.UpdateDetailsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.HandleError(ctx, err, "invalid request parameters", http.StatusBadRequest)
		return
	}

	order, err := c.orderService.UpdateDetails(ctxutil.WithRequestID(ctx), ctx.Param("id"), req)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	response.HandleSuccess(ctx, order, "order updated successfully")
}

// ChangeDelivery 修改配送方式
// PUT /api/v1/orders/:id/delivery
func (c *Controller) ChangeDelivery(ctx *gin.Context) {
	var req orderapp.ChangeDeliveryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.HandleError(ctx, err, "invalid request parameters", http.StatusBadRequest)
		return
	}

	order, err := c.orderService.ChangeDelivery(ctxutil.WithRequestID(ctx), ctx.Param("id"), req)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	response.HandleSuccess(ctx, order, "delivery updated successfully")
}

// AddItem 添加订单项
// POST /api/v1/orders/:id/items
func (c *Controller) AddItem(ctx *gin.Context) {
	var req common.ItemRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.HandleError(ctx, err, "invalid request parameters", http.StatusBadRequest)
		return
	}

	order, err := c.orderService.AddItem(ctxutil.WithRequestID(ctx), ctx.Param("id"), req)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	response.HandleCreated(ctx, order, "item added successfully")
}

// SetQuantity 修改订单项数量
// PUT /api/v1/orders/:id/items/:itemId
func (c *Controller) SetQuantity(ctx *gin.Context) {
	var req orderapp.SetQuantityRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.HandleError(ctx, err, "invalid request parameters", http.StatusBadRequest)
		return
	}

	order, err := c.orderService.SetQuantity(ctxutil.WithRequestID(ctx), ctx.Param("id"), ctx.Param("itemId"), req)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	response.HandleSuccess(ctx, order, "item quantity updated successfully")
}

// RemoveItem 删除订单项
// DELETE /api/v1/orders/:id/items/:itemId
func (c *Controller) RemoveItem(ctx *gin.Context) {
	order, err := c.orderService.RemoveItem(ctxutil.WithRequestID(ctx), ctx.Param("id"), ctx.Param("itemId"))
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	response.HandleSuccess(ctx, order, "item removed successfully")
}
