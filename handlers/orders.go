package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/haseeb1-1/final-grocery/internal/auth"
	"github.com/haseeb1-1/final-grocery/internal/orders"
	"github.com/haseeb1-1/final-grocery/internal/stores/kafka"
	"github.com/haseeb1-1/final-grocery/pkg/ctxmanage"
	"github.com/haseeb1-1/final-grocery/pkg/logkey"
)

func (h *Handler) Checkout(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)
	claims, ok := c.Request.Context().Value(auth.ClaimsKey).(auth.Claims)
	if !ok {
		slog.Error("claims not found", slog.String(logkey.TraceID, traceId))
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	userId := claims.Subject

	if c.Request.ContentLength > 5*1024 {
		slog.Error("request body limit breached", slog.String(logkey.TraceID, traceId), slog.Int64("Size Received", c.Request.ContentLength))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Request body too large."})
		return
	}

	var request orders.CheckoutRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		slog.Error("json validation error", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := h.validate.Struct(request); err != nil {
		slog.Error("validation failed", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "address, phone and payment_method are required"})
		return
	}

	orderID, err := h.o.Checkout(c.Request.Context(), userId, request)
	if err != nil {
		if errors.Is(err, orders.ErrEmptyCart) {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Your cart is empty"})
			return
		}
		slog.Error("error creating order", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()), slog.String(logkey.UserID, userId))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Checkout failed"})
		return
	}

	// Publish the order-placed event off the request path
	go func() {
		order, err := h.o.GetOrder(context.Background(), userId, orderID)
		if err != nil {
			slog.Error("failed to load order for event", slog.String(logkey.ERROR, err.Error()), slog.String(logkey.OrderID, orderID))
			return
		}
		jsonData, err := json.Marshal(kafka.OrderPlacedEvent{
			OrderID:     order.ID,
			UserID:      order.UserID,
			TotalAmount: order.TotalAmount,
			CreatedAt:   time.Now().UTC(),
		})
		if err != nil {
			slog.Error("failed to marshal OrderPlacedEvent", slog.String(logkey.ERROR, err.Error()))
			return
		}
		if err := h.k.ProduceMessage(kafka.TopicOrderPlaced, []byte(order.ID), jsonData); err != nil {
			slog.Error("failed to produce order-placed event", slog.String(logkey.ERROR, err.Error()))
		}
	}()

	slog.Info("order placed", slog.String(logkey.TraceID, traceId), slog.String(logkey.OrderID, orderID), slog.String(logkey.UserID, userId))
	c.JSON(http.StatusOK, gin.H{
		"message":  "Order placed successfully!",
		"order_id": orderID,
	})
}

func (h *Handler) ListOrders(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)
	claims, ok := c.Request.Context().Value(auth.ClaimsKey).(auth.Claims)
	if !ok {
		slog.Error("claims not found", slog.String(logkey.TraceID, traceId))
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	list, err := h.o.ListOrders(c.Request.Context(), claims.Subject)
	if err != nil {
		slog.Error("error fetching orders", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"orders": list})
}

func (h *Handler) GetOrder(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)
	claims, ok := c.Request.Context().Value(auth.ClaimsKey).(auth.Claims)
	if !ok {
		slog.Error("claims not found", slog.String(logkey.TraceID, traceId))
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	orderID := c.Param("id")
	order, err := h.o.GetOrder(c.Request.Context(), claims.Subject, orderID)
	if err != nil {
		switch {
		case errors.Is(err, orders.ErrNotFound):
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		case errors.Is(err, orders.ErrUnauthorized):
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Unauthorized access"})
		default:
			slog.Error("error fetching order", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()), slog.String(logkey.OrderID, orderID))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch order"})
		}
		return
	}

	c.JSON(http.StatusOK, order)
}
