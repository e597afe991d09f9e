package handlers

import (
	"log/slog"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/haseeb1-1/final-grocery/internal/voice"
	"github.com/haseeb1-1/final-grocery/pkg/ctxmanage"
	"github.com/haseeb1-1/final-grocery/pkg/logkey"
)

const helpText = "You can say: show products, my cart, my orders, checkout, " +
	"search for <something>, add to cart <number>, or logout."

// VoiceCommand parses a free-text command and answers with the navigation
// the UI should perform. The parser itself is side-effect free; everything
// action-like stays client-side.
func (h *Handler) VoiceCommand(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	var request struct {
		Command string `json:"command"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		slog.Error("invalid request body", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request body"})
		return
	}

	result := voice.Parse(request.Command)
	slog.Info("voice command parsed", slog.String(logkey.TraceID, traceId),
		slog.String("intent", string(result.Intent)), slog.String("arg", result.Arg))

	switch result.Intent {
	case voice.IntentLogin:
		c.JSON(http.StatusOK, gin.H{"success": true, "redirect": "/login"})
	case voice.IntentRegister:
		c.JSON(http.StatusOK, gin.H{"success": true, "redirect": "/register"})
	case voice.IntentListProducts:
		c.JSON(http.StatusOK, gin.H{"success": true, "redirect": "/products"})
	case voice.IntentViewCart:
		c.JSON(http.StatusOK, gin.H{"success": true, "redirect": "/cart"})
	case voice.IntentViewOrders:
		c.JSON(http.StatusOK, gin.H{"success": true, "redirect": "/orders"})
	case voice.IntentCheckout:
		c.JSON(http.StatusOK, gin.H{"success": true, "redirect": "/checkout"})
	case voice.IntentLogout:
		c.JSON(http.StatusOK, gin.H{"success": true, "redirect": "/logout"})
	case voice.IntentSearch:
		redirect := "/products"
		if result.Arg != "" {
			redirect += "?search=" + url.QueryEscape(result.Arg)
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "redirect": redirect})
	case voice.IntentAddToCart:
		c.JSON(http.StatusOK, gin.H{"success": true, "action": "add_to_cart", "reference": result.Arg})
	case voice.IntentHelp:
		c.JSON(http.StatusOK, gin.H{"success": true, "message": helpText})
	default:
		c.JSON(http.StatusOK, gin.H{"success": false, "message": "Command not recognized"})
	}
}
