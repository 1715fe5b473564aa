package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/mbeoliero/kit/log"
	"github.com/mluqi/km-support/internal/carrier"
	"github.com/mluqi/km-support/internal/config"
	"github.com/mluqi/km-support/internal/events"
	"github.com/mluqi/km-support/internal/gateway"
	"github.com/mluqi/km-support/internal/handler"
	"github.com/mluqi/km-support/internal/middleware"
	"github.com/mluqi/km-support/internal/repository"
	"github.com/mluqi/km-support/internal/router"
	"github.com/mluqi/km-support/internal/service"
	"github.com/mluqi/km-support/pkg/constant"
	"github.com/mluqi/km-support/pkg/jwt"
)

func main() {
	ctx := context.TODO()

	// Load configuration
	cfg, err := config.Load("config/config.yaml")
	if err != nil {
		log.CtxError(ctx, "failed to load config: %v", err)
		panic(err)
	}

	log.CtxInfo(ctx, "config loaded: mode=%s", cfg.Server.Mode)

	// Initialize Redis key prefix
	constant.InitRedisKeyPrefix(cfg.Redis.KeyPrefix)
	log.CtxInfo(ctx, "redis key prefix: %s", constant.GetRedisKeyPrefix())

	// Initialize repositories
	repos, err := repository.NewRepositories(cfg)
	if err != nil {
		log.CtxError(ctx, "failed to initialize repositories: %v", err)
		panic(err)
	}
	defer repos.Close()

	// Check database connection
	if err := repos.CheckConnection(ctx); err != nil {
		log.CtxError(ctx, "database connection check failed: %v", err)
		panic(err)
	}
	log.CtxInfo(ctx, "database connection established")

	// Order event stream (disabled when no brokers configured)
	producer, err := events.NewProducer(&cfg.Kafka)
	if err != nil {
		log.CtxError(ctx, "failed to connect kafka producer: %v", err)
		panic(err)
	}
	defer producer.Close()
	if producer != nil {
		log.CtxInfo(ctx, "order event stream connected: topic=%s", cfg.Kafka.Topic)
	}

	// Carrier tracking client
	carrierClient, err := carrier.NewClient(&cfg.Carrier)
	if err != nil {
		log.CtxError(ctx, "failed to create carrier client: %v", err)
		panic(err)
	}

	// Initialize services
	tokenStore := jwt.NewTokenStore(repos.Redis, cfg.Redis.KeyPrefix, cfg.JWT.ExpireHours)
	middleware.InitTokenStore(tokenStore)
	authService := service.NewAuthService(repos, tokenStore, cfg)
	chatService := service.NewChatService(repos)
	convService := service.NewConversationService(repos)
	orderService := service.NewOrderService(repos, producer, cfg)
	trackingService := service.NewTrackingService(carrierClient, cfg.Carrier.Courier)

	// Initialize WebSocket relay
	wsServer := gateway.NewWsServer(cfg, repos.Redis, chatService, convService)
	chatService.SetPusher(wsServer)
	wsServer.Run(ctx)
	log.CtxInfo(ctx, "websocket relay started")

	// Initialize handlers
	handlers := &router.Handlers{
		Auth:         handler.NewAuthHandler(authService),
		Chat:         handler.NewChatHandler(chatService, convService),
		Conversation: handler.NewConversationHandler(chatService, convService),
		Order:        handler.NewOrderHandler(orderService),
		Shipping:     handler.NewShippingHandler(trackingService),
	}

	// Create Hertz server
	h := server.Default(
		server.WithHostPorts(fmt.Sprintf(":%d", cfg.Server.HTTPPort)),
	)

	// Setup routes
	router.SetupRouter(h, handlers, wsServer)

	log.CtxInfo(ctx, "server starting on port %d", cfg.Server.HTTPPort)

	// Start server in goroutine
	go func() {
		h.Spin()
	}()

	// Optional standalone relay listener for clients that cannot reach the
	// HTTP port
	if cfg.Server.WSPort > 0 && cfg.Server.WSPort != cfg.Server.HTTPPort {
		go func() {
			mux := http.NewServeMux()
			mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
				wsServer.HandleConnection(r.Context(), w, r)
			})
			addr := fmt.Sprintf(":%d", cfg.Server.WSPort)
			log.CtxInfo(ctx, "standalone relay listening on %s", addr)
			if err := http.ListenAndServe(addr, mux); err != nil {
				log.CtxError(ctx, "standalone relay stopped: %v", err)
			}
		}()
	}

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.CtxInfo(ctx, "shutting down server...")

	// Graceful shutdown
	if err := h.Shutdown(ctx); err != nil {
		log.CtxError(ctx, "server shutdown error: %v", err)
	}

	log.CtxInfo(ctx, "server stopped")
}
