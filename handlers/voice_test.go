package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newVoiceRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(nil, nil, nil, nil, nil, nil, nil)
	r := gin.New()
	r.POST("/voice", h.VoiceCommand)
	return r
}

func postVoice(t *testing.T, r *gin.Engine, command string) map[string]any {
	t.Helper()
	body := strings.NewReader(`{"command": ` + quote(command) + `}`)
	req := httptest.NewRequest(http.MethodPost, "/voice", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func quote(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

func TestVoiceCommandRedirects(t *testing.T) {
	r := newVoiceRouter()

	resp := postVoice(t, r, "show me my cart please")
	assert.Equal(t, true, resp["success"])
	assert.Equal(t, "/cart", resp["redirect"])

	resp = postVoice(t, r, "my orders")
	assert.Equal(t, "/orders", resp["redirect"])

	resp = postVoice(t, r, "checkout now")
	assert.Equal(t, "/checkout", resp["redirect"])
}

func TestVoiceCommandSearch(t *testing.T) {
	r := newVoiceRouter()

	resp := postVoice(t, r, "search for organic apples")
	assert.Equal(t, true, resp["success"])
	assert.Equal(t, "/products?search=organic+apples", resp["redirect"])

	resp = postVoice(t, r, "search")
	assert.Equal(t, "/products", resp["redirect"])
}

func TestVoiceCommandAddToCart(t *testing.T) {
	r := newVoiceRouter()

	resp := postVoice(t, r, "add to cart 2")
	assert.Equal(t, true, resp["success"])
	assert.Equal(t, "add_to_cart", resp["action"])
	assert.Equal(t, "2", resp["reference"])

	resp = postVoice(t, r, "please buy third item")
	assert.Equal(t, "third", resp["reference"])
}

func TestVoiceCommandHelpAndNoMatch(t *testing.T) {
	r := newVoiceRouter()

	resp := postVoice(t, r, "what can i do")
	assert.Equal(t, true, resp["success"])
	assert.NotEmpty(t, resp["message"])

	resp = postVoice(t, r, "")
	assert.Equal(t, false, resp["success"])
	assert.Equal(t, "Command not recognized", resp["message"])
}
