package handlers

import (
	"fmt"
	"net/http"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/haseeb1-1/final-grocery/internal/auth"
	"github.com/haseeb1-1/final-grocery/internal/cart"
	"github.com/haseeb1-1/final-grocery/internal/orders"
	"github.com/haseeb1-1/final-grocery/internal/products"
	"github.com/haseeb1-1/final-grocery/internal/stores/kafka"
	"github.com/haseeb1-1/final-grocery/internal/users"
	"github.com/haseeb1-1/final-grocery/middleware"
	"github.com/haseeb1-1/final-grocery/pkg/ctxmanage"
)

type Handler struct {
	u        *users.Conf
	p        *products.Conf
	c        *cart.Conf
	o        *orders.Conf
	k        *kafka.Conf
	keys     *auth.Keys
	admin    auth.CredentialVerifier
	validate *validator.Validate
}

func NewHandler(u *users.Conf, p *products.Conf, c *cart.Conf, o *orders.Conf,
	k *kafka.Conf, keys *auth.Keys, admin auth.CredentialVerifier) *Handler {
	return &Handler{
		u:        u,
		p:        p,
		c:        c,
		o:        o,
		k:        k,
		keys:     keys,
		admin:    admin,
		validate: validator.New(),
	}
}

func API(endpointPrefix string, u *users.Conf, p *products.Conf, c *cart.Conf, o *orders.Conf,
	k *kafka.Conf, keys *auth.Keys, admin auth.CredentialVerifier) *gin.Engine {

	r := gin.New()
	mode := os.Getenv("GIN_MODE")
	if mode == gin.ReleaseMode {
		gin.SetMode(mode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	m, err := middleware.NewMid(keys)
	if err != nil {
		panic(err)
	}
	h := NewHandler(u, p, c, o, k, keys, admin)

	r.Use(middleware.Logger(), gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: false,
	}))

	r.GET("/ping", healthCheck)

	v1 := r.Group(endpointPrefix)
	{
		v1.POST("/users/signup", h.Signup)
		v1.POST("/users/login", h.Login)

		v1.GET("/products/list", h.ListProducts)
		v1.GET("/products/view/:id", h.GetProduct)
		v1.GET("/categories", h.ListCategories)

		v1.POST("/admin/login", h.AdminLogin)

		authed := v1.Group("")
		authed.Use(m.Authentication())
		{
			authed.POST("/cart/add-item", m.Authorize(h.AddToCart, auth.RoleUser))
			authed.POST("/cart/item/:id", m.Authorize(h.AdjustCartItem, auth.RoleUser))
			authed.GET("/cart/items", m.Authorize(h.GetCart, auth.RoleUser))
			authed.GET("/cart/count", m.Authorize(h.CartCount, auth.RoleUser))

			authed.POST("/orders/checkout", m.Authorize(h.Checkout, auth.RoleUser))
			authed.GET("/orders/list", m.Authorize(h.ListOrders, auth.RoleUser))
			authed.GET("/orders/view/:id", m.Authorize(h.GetOrder, auth.RoleUser))

			authed.POST("/voice/command", m.Authorize(h.VoiceCommand, auth.RoleUser))

			authed.GET("/admin/dashboard", m.Authorize(h.AdminDashboard, auth.RoleAdmin))
			authed.POST("/admin/products", m.Authorize(h.CreateProduct, auth.RoleAdmin))
			authed.GET("/admin/products/export", m.Authorize(h.ExportProductsExcel, auth.RoleAdmin))
		}
	}

	return r
}

func healthCheck(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	fmt.Println("healthCheck handler ", traceId)
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
