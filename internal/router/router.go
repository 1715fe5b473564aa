package router

import (
	"context"
	"strings"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/hertz-contrib/websocket"
	"github.com/mluqi/km-support/internal/config"
	"github.com/mluqi/km-support/internal/gateway"
	"github.com/mluqi/km-support/internal/handler"
	"github.com/mluqi/km-support/internal/middleware"
)

// SetupRouter sets up all routes
func SetupRouter(h *server.Hertz, handlers *Handlers, wsServer *gateway.WsServer) {
	cfg := config.GlobalConfig

	// CORS middleware
	h.Use(middleware.CORS())

	// Health check
	h.GET("/health", func(ctx context.Context, c *app.RequestContext) {
		c.JSON(consts.StatusOK, map[string]interface{}{
			"status":         "ok",
			"ws_connections": wsServer.GetOnlineConnCount(),
		})
	})

	// Auth routes (no auth required; provisioning authenticates with a
	// shared secret header)
	authGroup := h.Group("/auth")
	{
		authGroup.POST("/register", handlers.Auth.Register)
		authGroup.POST("/login", handlers.Auth.Login)
		authGroup.POST("/provision", handlers.Auth.Provision)
		authGroup.POST("/logout", middleware.JWTAuth(), handlers.Auth.Logout)
	}

	// Customer chat routes (auth required)
	chatGroup := h.Group("/chat", middleware.JWTAuth())
	{
		chatGroup.GET("/conversation", handlers.Chat.GetConversation)
		chatGroup.POST("/messages", handlers.Chat.SendMessage)
		chatGroup.GET("/messages/new", handlers.Chat.NewMessages)
		chatGroup.POST("/messages/read", handlers.Chat.MarkRead)
		chatGroup.GET("/unread", handlers.Chat.Unread)
	}

	// Admin conversation directory (admin role required)
	chatAdminGroup := h.Group("/chat/admin", middleware.JWTAuth(), middleware.RequireAdmin())
	{
		chatAdminGroup.GET("/conversations", handlers.Conversation.ListConversations)
		chatAdminGroup.GET("/conversations/:id/messages", handlers.Conversation.GetMessages)
		chatAdminGroup.GET("/conversations/:id/messages/new", handlers.Conversation.NewMessages)
		chatAdminGroup.POST("/conversations/:id/read", handlers.Conversation.MarkRead)
	}

	// Customer order routes (auth required)
	orderGroup := h.Group("/orders", middleware.JWTAuth())
	{
		orderGroup.POST("", handlers.Order.Create)
		orderGroup.GET("", handlers.Order.ListMine)
		orderGroup.GET("/:id", handlers.Order.Get)
		orderGroup.POST("/:id/request-cancel", handlers.Order.RequestCancel)
	}

	// Admin order routes (admin role required)
	orderAdminGroup := h.Group("/orders/admin", middleware.JWTAuth(), middleware.RequireAdmin())
	{
		orderAdminGroup.GET("", handlers.Order.AdminList)
		orderAdminGroup.GET("/export", handlers.Order.Export)
		orderAdminGroup.PUT("/:id/status", handlers.Order.UpdateStatus)
		orderAdminGroup.POST("/:id/approve-cancel", handlers.Order.ApproveCancel)
		orderAdminGroup.POST("/:id/reject-cancel", handlers.Order.RejectCancel)
		orderAdminGroup.GET("/:id/label", handlers.Order.Label)
	}

	// Shipment tracking (auth required)
	shippingGroup := h.Group("/shipping", middleware.JWTAuth())
	{
		shippingGroup.GET("/track-awb/:awb", handlers.Shipping.TrackAwb)
	}

	// WebSocket route using hertz-contrib/websocket with proper origin validation
	allowedOrigins := cfg.Server.AllowedOrigins
	upgrader := &websocket.HertzUpgrader{
		CheckOrigin: func(ctx *app.RequestContext) bool {
			return checkOrigin(ctx, allowedOrigins)
		},
	}

	h.GET("/ws", func(ctx context.Context, c *app.RequestContext) {
		wsServer.HandleHertzConnection(ctx, c, upgrader)
	})
}

// checkOrigin validates the Origin header against allowed origins
func checkOrigin(ctx *app.RequestContext, allowedOrigins []string) bool {
	origin := string(ctx.Request.Header.Peek("Origin"))

	// If no origin header, allow (same-origin request or non-browser client)
	if origin == "" {
		return true
	}

	// If no allowed origins configured, reject all cross-origin requests in production
	if len(allowedOrigins) == 0 {
		return false
	}

	for _, allowed := range allowedOrigins {
		if allowed == "*" {
			// Wildcard - allow all (only use in development!)
			return true
		}
		if strings.EqualFold(origin, allowed) {
			return true
		}
	}

	return false
}

// Handlers holds all HTTP handlers
type Handlers struct {
	Auth         *handler.AuthHandler
	Chat         *handler.ChatHandler
	Conversation *handler.ConversationHandler
	Order        *handler.OrderHandler
	Shipping     *handler.ShippingHandler
}
