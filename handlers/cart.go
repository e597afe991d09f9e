package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/haseeb1-1/final-grocery/internal/auth"
	"github.com/haseeb1-1/final-grocery/internal/cart"
	"github.com/haseeb1-1/final-grocery/pkg/ctxmanage"
	"github.com/haseeb1-1/final-grocery/pkg/logkey"
)

func (h *Handler) AddToCart(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)
	claims, ok := c.Request.Context().Value(auth.ClaimsKey).(auth.Claims)
	if !ok {
		slog.Error("claims not found", slog.String(logkey.TraceID, traceId))
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	userId := claims.Subject

	var request struct {
		ProductID string `json:"product_id"`
		Quantity  int    `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		slog.Error("invalid request body", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}
	if request.ProductID == "" {
		slog.Error("missing product id", slog.String(logkey.TraceID, traceId))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "Product ID is required"})
		return
	}

	count, err := h.c.AddItem(c.Request.Context(), userId, request.ProductID, request.Quantity)
	if err != nil {
		switch {
		case errors.Is(err, cart.ErrInvalidQuantity):
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "Quantity must be at least 1"})
		case errors.Is(err, cart.ErrProductNotFound):
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"message": "Product not found"})
		default:
			slog.Error("error adding product to cart", slog.String(logkey.TraceID, traceId),
				slog.String(logkey.ERROR, err.Error()), slog.String("ProductID", request.ProductID), slog.Int("Quantity", request.Quantity))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Failed to add product to cart"})
		}
		return
	}

	slog.Info("product added to cart", slog.String(logkey.TraceID, traceId),
		slog.String("ProductID", request.ProductID), slog.Int("Quantity", request.Quantity), slog.String(logkey.UserID, userId))
	c.JSON(http.StatusOK, gin.H{
		"message":    "Product added to cart",
		"cart_count": count,
	})
}

func (h *Handler) AdjustCartItem(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)
	claims, ok := c.Request.Context().Value(auth.ClaimsKey).(auth.Claims)
	if !ok {
		slog.Error("claims not found", slog.String(logkey.TraceID, traceId))
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	userId := claims.Subject

	lineID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		slog.Error("invalid cart line id", slog.String(logkey.TraceID, traceId))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "Invalid cart item id"})
		return
	}

	var request struct {
		Action string `json:"action"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		slog.Error("invalid request body", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	action := cart.Action(request.Action)
	switch action {
	case cart.ActionIncrease, cart.ActionDecrease, cart.ActionRemove:
	default:
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "Action must be increase, decrease or remove"})
		return
	}

	result, err := h.c.AdjustItem(c.Request.Context(), userId, lineID, action)
	if err != nil {
		switch {
		case errors.Is(err, cart.ErrNotFound):
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"message": "Cart item not found"})
		case errors.Is(err, cart.ErrUnauthorized):
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Unauthorized"})
		default:
			slog.Error("error updating cart item", slog.String(logkey.TraceID, traceId),
				slog.String(logkey.ERROR, err.Error()), slog.Int("LineID", lineID))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Failed to update cart"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"cart_count": result.Count,
		"subtotal":   result.Subtotal,
	})
}

func (h *Handler) GetCart(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)
	claims, ok := c.Request.Context().Value(auth.ClaimsKey).(auth.Claims)
	if !ok {
		slog.Error("claims not found", slog.String(logkey.TraceID, traceId))
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	cartResponse, err := h.c.GetCart(c.Request.Context(), claims.Subject)
	if err != nil {
		slog.Error("error fetching cart items", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()), slog.String(logkey.UserID, claims.Subject))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch cart items"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items": cartResponse.Items,
		"total": cartResponse.Total,
	})
}

func (h *Handler) CartCount(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)
	claims, ok := c.Request.Context().Value(auth.ClaimsKey).(auth.Claims)
	if !ok {
		slog.Error("claims not found", slog.String(logkey.TraceID, traceId))
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	count, err := h.c.Count(c.Request.Context(), claims.Subject)
	if err != nil {
		slog.Error("error counting cart items", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch cart count"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": count})
}
