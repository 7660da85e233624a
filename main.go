package main

import (
	"context"
	"log"
	"strings"

	"retail-service/controllers"
	"retail-service/database"
	"retail-service/kafka"
	"retail-service/logger"
	"retail-service/middleware"
	"retail-service/models"
	aws_pkg "retail-service/pkg/aws"
	"retail-service/repository"
	"retail-service/routes"
	"retail-service/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Initialize(cfg.Env)
	defer logger.Sync()
	zl := logger.Log

	if err := database.Connect(); err != nil {
		zl.Fatal("Failed to connect to database", zap.Error(err))
	}
	if err := database.DB.AutoMigrate(
		&models.Store{},
		&models.InventoryItem{},
		&models.StockTransfer{},
		&models.Order{},
		&models.OrderItem{},
		&models.Customer{},
		&models.Feedback{},
		&models.DeliveryAgent{},
		&models.DeliveryTask{},
		&models.Payment{},
	); err != nil {
		zl.Fatal("Migration failed", zap.Error(err))
	}

	rdb := database.NewRedisClient(cfg.RedisURL)
	cache := services.NewSnapshotCache(rdb, zl)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go cache.Listen(ctx)

	var producer kafka.ProducerAPI
	if cfg.KafkaBrokers != "" {
		p := kafka.NewProducer(strings.Split(cfg.KafkaBrokers, ","), cfg.KafkaTopic)
		defer p.Close()
		producer = p
	} else {
		zl.Warn("KAFKA_BROKERS not set, event publishing disabled")
	}

	var snsPublisher aws_pkg.SNSPublisher
	if cfg.SNSTopicARN != "" {
		if awsCfg, err := aws_pkg.LoadAWSConfig(context.Background()); err == nil {
			snsPublisher = aws_pkg.NewSNSClient(awsCfg)
		} else {
			zl.Warn("Failed to load AWS config, SNS publishing disabled", zap.Error(err))
		}
	}

	var gateway services.PaymentGateway
	if cfg.StripeSecretKey != "" {
		gateway = services.NewStripeService(cfg.StripeSecretKey, cfg.StripeWebhookKey)
	} else {
		zl.Warn("STRIPE_SECRET_KEY not set, card payments disabled")
	}

	inventoryRepo := repository.NewGormInventoryRepository(database.DB)
	storeRepo := repository.NewGormStoreRepository(database.DB)
	orderRepo := repository.NewGormOrderRepository(database.DB)
	customerRepo := repository.NewGormCustomerRepository(database.DB)
	deliveryRepo := repository.NewGormDeliveryRepository(database.DB)
	paymentRepo := repository.NewGormPaymentRepository(database.DB)

	inventorySvc := services.NewInventoryService(inventoryRepo, storeRepo, cache, zl)
	customerSvc := services.NewCustomerService(customerRepo, cache, zl)
	orderSvc := services.NewOrderService(orderRepo, customerRepo, deliveryRepo, customerSvc, producer, snsPublisher, cfg.SNSTopicARN, cache, zl)
	deliverySvc := services.NewDeliveryService(deliveryRepo, orderRepo, cache, zl)
	paymentSvc := services.NewPaymentService(paymentRepo, orderSvc, gateway, producer, cache, zl)
	insightsSvc := services.NewInsightsService(inventoryRepo, orderRepo, customerRepo, cache, zl)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(zl))

	// Validate tokens directly when a signing secret is configured;
	// otherwise trust the identity headers set by the gateway.
	authn := middleware.AuthMiddleware()
	if cfg.JWTSecret != "" {
		authn = middleware.RequireJWT([]byte(cfg.JWTSecret))
	}

	routes.RegisterRoutes(
		r,
		authn,
		controllers.NewInventoryController(inventorySvc),
		controllers.NewOrderController(orderSvc),
		controllers.NewCustomerController(customerSvc),
		controllers.NewDeliveryController(deliverySvc),
		controllers.NewPaymentController(paymentSvc),
		controllers.NewInsightsController(insightsSvc),
	)

	zl.Info("Starting retail service", zap.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		zl.Fatal("Server exited", zap.Error(err))
	}
}
