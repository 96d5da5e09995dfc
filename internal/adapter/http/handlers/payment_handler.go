package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	request "github.com/ahmedsindbad/DevPioneers-sub000/internal/adapter/http/dto/request"
	response "github.com/ahmedsindbad/DevPioneers-sub000/internal/adapter/http/dto/response"
	"github.com/ahmedsindbad/DevPioneers-sub000/internal/usecase"
	"github.com/ahmedsindbad/DevPioneers-sub000/pkg"

	"github.com/gin-gonic/gin"
)

var errInvalidPaymentPayload = pkg.NewDomainErrorSimple("INVALID_REQUEST", "Invalid request", http.StatusBadRequest)

// PaymentHandler handles HTTP requests for payments and the gateway webhook.

type PaymentHandler struct {
	usecase usecase.IPaymentUseCase
}

func NewPaymentHandler(uc usecase.IPaymentUseCase) *PaymentHandler {
	return &PaymentHandler{usecase: uc}
}

// InitiatePayment creates a gateway order and returns the checkout URL.
func (h *PaymentHandler) InitiatePayment(c *gin.Context) {
	var payload request.InitiatePaymentRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(errInvalidPaymentPayload.HTTPStatus, errInvalidPaymentPayload.ToHTTPError())
		return
	}
	log.Printf("[payment][handler] initiate start user_id=%s amount=%.2f", payload.UserID, payload.Amount)

	created, redirectURL, err := h.usecase.InitiatePayment(c.Request.Context(), payload.UserID, payload.PlanID, payload.Amount, payload.Currency)
	if err != nil {
		log.Printf("[payment][handler] initiate failed user_id=%s err=%v", payload.UserID, err)
		appErr := mapPaymentError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}
	log.Printf("[payment][handler] initiate success payment_id=%s", created.ID)

	c.JSON(http.StatusCreated, response.FromPaymentWithRedirect(created, redirectURL))
}

// GatewayCallback receives the gateway's transaction webhook. The payload is
// untrusted: only the transaction id is read from it, and the use case
// re-queries the gateway before changing any state.
func (h *PaymentHandler) GatewayCallback(c *gin.Context) {
	txnID := readCallbackTransactionID(c)
	log.Printf("[payment][handler] callback received txn_id=%q", txnID)

	settled, err := h.usecase.ConfirmCallback(c.Request.Context(), txnID)
	if err != nil {
		if errors.Is(err, usecase.ErrDuplicateCallback) {
			// Replays are fine; answer 200 so the gateway stops redelivering.
			c.JSON(http.StatusOK, gin.H{"status": "already_processed"})
			return
		}
		log.Printf("[payment][handler] callback failed txn_id=%s err=%v", txnID, err)
		appErr := mapPaymentError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}
	log.Printf("[payment][handler] callback settled payment_id=%s status=%s", settled.ID, settled.Status)

	c.JSON(http.StatusOK, response.FromPayment(settled))
}

// GetPayment returns one payment by id.
func (h *PaymentHandler) GetPayment(c *gin.Context) {
	paymentID := c.Param("payment_id")

	p, err := h.usecase.GetByID(c.Request.Context(), paymentID)
	if err != nil {
		appErr := mapPaymentError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	c.JSON(http.StatusOK, response.FromPayment(p))
}

// RefundPayment refunds a paid payment.
func (h *PaymentHandler) RefundPayment(c *gin.Context) {
	paymentID := c.Param("payment_id")
	var payload request.RefundPaymentRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(errInvalidPaymentPayload.HTTPStatus, errInvalidPaymentPayload.ToHTTPError())
		return
	}
	log.Printf("[payment][handler] refund start payment_id=%s amount=%.2f", paymentID, payload.Amount)

	refunded, err := h.usecase.RefundPayment(c.Request.Context(), paymentID, payload.Amount, payload.Reason)
	if err != nil {
		log.Printf("[payment][handler] refund failed payment_id=%s err=%v", paymentID, err)
		appErr := mapPaymentError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}
	log.Printf("[payment][handler] refund success payment_id=%s refund_id=%q", refunded.ID, refunded.RefundID)

	c.JSON(http.StatusOK, response.FromPayment(refunded))
}

// readCallbackTransactionID digs the transaction id out of the notification.
// The gateway posts {"type":"TRANSACTION","obj":{"id":...}} but older webhook
// versions send a flat body, and the redirect variant puts the id in the
// query string. Identifiers may arrive as numbers.
func readCallbackTransactionID(c *gin.Context) string {
	raw, err := c.GetRawData()
	if err == nil && len(raw) > 0 {
		var doc map[string]any
		if err := json.Unmarshal(raw, &doc); err == nil {
			if obj, ok := doc["obj"].(map[string]any); ok {
				if id := stringifyID(obj["id"]); id != "" {
					return id
				}
			}
			if id := stringifyID(doc["transaction_id"]); id != "" {
				return id
			}
			if id := stringifyID(doc["id"]); id != "" {
				return id
			}
		}
	}
	return strings.TrimSpace(c.Query("id"))
}

func stringifyID(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		if t == float64(int64(t)) {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return ""
	}
}

func mapPaymentError(err error) *pkg.AppError {
	switch {
	case errors.Is(err, usecase.ErrInvalidPaymentInput):
		return pkg.NewDomainErrorSimple("INVALID_REQUEST", "Invalid request", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrPaymentNotFound):
		return pkg.NewDomainErrorSimple("PAYMENT_NOT_FOUND", "Payment not found", http.StatusNotFound)
	case errors.Is(err, usecase.ErrPaymentNotRefundable):
		return pkg.NewDomainErrorSimple("PAYMENT_NOT_REFUNDABLE", "Payment is not in a refundable state", http.StatusConflict)
	case errors.Is(err, usecase.ErrCallbackAmountMismatch):
		return pkg.NewDomainErrorSimple("AMOUNT_MISMATCH", "Gateway amount does not match the payment", http.StatusConflict)
	case errors.Is(err, usecase.ErrCallbackUnverified):
		return pkg.NewDomainErrorSimple("CALLBACK_UNVERIFIED", "Transaction could not be verified with the gateway", http.StatusBadGateway)
	case errors.Is(err, usecase.ErrGatewayOrderFailed):
		return pkg.NewDomainErrorSimple("GATEWAY_ORDER_FAILED", "Payment gateway rejected the order", http.StatusBadGateway)
	case errors.Is(err, usecase.ErrRefundRejected):
		return pkg.NewDomainErrorSimple("REFUND_REJECTED", "Payment gateway rejected the refund", http.StatusBadGateway)
	default:
		return pkg.NewDomainError("INTERNAL_ERROR", "An internal error occurred", err, http.StatusInternalServerError)
	}
}
