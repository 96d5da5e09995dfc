package routes

import (
	"net/http"

	"github.com/ahmedsindbad/DevPioneers-sub000/internal/adapter/http/handlers"

	"github.com/gin-gonic/gin"
)

const PathPayments = "/payments"

func addPaymentRoutes(rg *gin.RouterGroup, paymentHandler *handlers.PaymentHandler) {
	payments := rg.Group(PathPayments)
	{
		payments.POST("", paymentHandler.InitiatePayment)
		// Public webhook endpoint: the handler trusts nothing but the
		// transaction id and re-queries the gateway.
		payments.POST("/callback", paymentHandler.GatewayCallback)
		payments.GET("/:payment_id", paymentHandler.GetPayment)
		payments.POST("/:payment_id/refund", paymentHandler.RefundPayment)
	}
}

func addPingRoutes(rg *gin.RouterGroup) {
	rg.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
}
