package handler

import (
	"net/http"

	"orbitcloud/internal/service"

	"github.com/gin-gonic/gin"
)

type OrderHandler struct {
	orderSvc *service.OrderService
}

func NewOrderHandler(orderSvc *service.OrderService) *OrderHandler {
	return &OrderHandler{orderSvc: orderSvc}
}

type createOrderRequest struct {
	UserID      string `json:"userId" binding:"required"`
	ProductID   string `json:"productId" binding:"required"`
	UsernameReq string `json:"usernameReq" binding:"required"`
}

// Create places a new order: validates, locks, requests a QRIS payment and
// persists the pending transaction.
func (h *OrderHandler) Create(c *gin.Context) {
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, envelope{Success: false, Message: "Data pesanan tidak lengkap"})
		return
	}
	trx, err := h.orderSvc.CreateOrder(c.Request.Context(), req.UserID, req.ProductID, req.UsernameReq)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, trx)
}

// Cancel cancels a pending order, subject to the anti-spam window.
func (h *OrderHandler) Cancel(c *gin.Context) {
	trx, err := h.orderSvc.CancelOrder(c.Request.Context(), c.Param("orderId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, envelope{Success: true, Message: "Pesanan dibatalkan", Data: trx})
}

// Simulate triggers a sandbox settlement on the gateway. Status polls pick up
// the result.
func (h *OrderHandler) Simulate(c *gin.Context) {
	if err := h.orderSvc.SimulatePayment(c.Request.Context(), c.Param("orderId")); err != nil {
		respondError(c, err)
		return
	}
	respondMessage(c, "Simulasi pembayaran terkirim. Tunggu sistem memproses.")
}

// Status reconciles the order with the gateway and retries deployment as a
// side effect. Designed to be polled on a short interval.
func (h *OrderHandler) Status(c *gin.Context) {
	trx, err := h.orderSvc.CheckStatus(c.Request.Context(), c.Param("orderId"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, trx)
}

// History lists all of a user's transactions.
func (h *OrderHandler) History(c *gin.Context) {
	trxs, err := h.orderSvc.History(c.Request.Context(), c.Param("userId"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, trxs)
}
