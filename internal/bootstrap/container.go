package bootstrap

import (
	"context"
	"log"
	"time"

	"policyai-be/internal/config"
	"policyai-be/internal/controller"
	"policyai-be/internal/handler"
	"policyai-be/internal/pkg/logger"
	"policyai-be/internal/repository/unitofwork"
	"policyai-be/internal/service"
	"policyai-be/internal/websocket"
	"policyai-be/pkg/storage"
	"policyai-be/pkg/webhook"

	pktNats "policyai-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	AuthController     controller.IAuthController
	DocumentController controller.IDocumentController
	SourceController   controller.ISourceController
	ChatController     controller.IChatController
	RoleController     controller.IRoleController
	CallbackController controller.ICallbackController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService
	AuditService    service.IAuditService

	// WebSockets
	RealtimeHandler *handler.RealtimeHandler
	WebSocketHub    *websocket.Hub
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 2.5 Infrastructure
	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
	}

	// Redis
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
	}

	// WebSocket Hub
	wsLogger := logger.NewIsolatedLogger("logs/realtime.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	// Object storage for uploaded source files
	objectStore, err := storage.NewS3Store(context.Background(), cfg.Storage)
	if err != nil {
		log.Printf("[WARN] Object storage unavailable: %v", err)
	}

	// Outbound workflow webhooks
	webhookRouter := webhook.NewRouter(cfg.Webhooks)
	webhookClient := webhook.NewClient(cfg.Webhooks.AuthHeader, cfg.Webhooks.TimeoutSeconds)

	// 3. Services
	publisherService := service.NewPublisherService(pubSub, cfg.App.IngestTopic)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.App.IngestTopic,
		uowFactory,
		objectStore,
		webhookClient,
		cfg.Webhooks,
	)

	roleService := service.NewRoleService(
		uowFactory,
		time.Duration(cfg.App.RoleCacheTTLMin)*time.Minute,
		natsPub,
		sysLogger,
	)
	authService := service.NewAuthService(uowFactory, roleService)
	documentService := service.NewDocumentService(uowFactory, roleService, objectStore, sysLogger)
	sourceService := service.NewSourceService(uowFactory, roleService, publisherService, natsPub, sysLogger)
	chatService := service.NewChatService(
		uowFactory,
		roleService,
		webhookRouter,
		webhookClient,
		wsHub,
		natsPub,
		sysLogger,
	)
	auditService := service.NewAuditService(natsSub, uowFactory, sysLogger)

	// WebSocket handshake handler
	realtimeHandler := handler.NewRealtimeHandler(chatService, wsHub, wsLogger)

	// 4. Controllers
	return &Container{
		AuthController:     controller.NewAuthController(authService),
		DocumentController: controller.NewDocumentController(documentService),
		SourceController:   controller.NewSourceController(sourceService),
		ChatController:     controller.NewChatController(chatService),
		RoleController:     controller.NewRoleController(roleService),
		CallbackController: controller.NewCallbackController(sourceService, chatService, documentService, cfg.App.ServiceToken),

		ConsumerService: consumerService,
		AuditService:    auditService,

		RealtimeHandler: realtimeHandler,
		WebSocketHub:    wsHub,
	}
}
