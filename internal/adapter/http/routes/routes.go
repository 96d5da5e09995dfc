package routes

import (
	"context"
	"log"
	"os"
	"strconv"
	"time"

	_ "github.com/ahmedsindbad/DevPioneers-sub000/docs" // swag-generated docs
	"github.com/ahmedsindbad/DevPioneers-sub000/internal/adapter/http/handlers"
	"github.com/ahmedsindbad/DevPioneers-sub000/internal/adapter/persistence/repository"
	"github.com/ahmedsindbad/DevPioneers-sub000/internal/infrastructure/cache"
	"github.com/ahmedsindbad/DevPioneers-sub000/internal/infrastructure/database"
	"github.com/ahmedsindbad/DevPioneers-sub000/internal/infrastructure/payments"
	"github.com/ahmedsindbad/DevPioneers-sub000/internal/usecase"
	"github.com/ahmedsindbad/DevPioneers-sub000/internal/usecase/interfaces"
	"github.com/ahmedsindbad/DevPioneers-sub000/internal/worker"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

var router = gin.Default()

const PORT = 8080

// Run will start the server
func Run() {
	setMiddlewares()

	// Swagger documentation endpoint
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	getRoutes()

	err := router.Run(":" + strconv.Itoa(PORT))
	if err != nil {
		log.Fatalf("Failed to startup the application: %v", err.Error())
	}
}

func getRoutes() {
	ddb := database.ConnectDynamoDB()

	paymentRepo := repository.NewPaymentDynamoRepository(ddb)
	walletRepo := repository.NewWalletDynamoRepository(ddb)
	subscriptionRepo := repository.NewSubscriptionDynamoRepository(ddb)

	var dedupe interfaces.ICallbackDedupe
	if addr := os.Getenv("REDIS_URL"); addr != "" {
		redisClient, err := cache.ConnectRedis(context.Background(), addr)
		if err != nil {
			log.Printf("redis unavailable, callback dedupe disabled: %v", err)
		} else {
			dedupe = repository.NewCallbackRedisDedupe(redisClient)
		}
	} else {
		log.Printf("REDIS_URL not set, callback dedupe disabled")
	}

	gateway := payments.NewClient(payments.ConfigFromEnv())

	paymentUseCase := usecase.NewPaymentUseCase(paymentRepo, walletRepo, subscriptionRepo, gateway, dedupe)

	reconciler := worker.NewReconciler(paymentUseCase, reconcileInterval())
	go reconciler.Run(context.Background())

	paymentHandler := handlers.NewPaymentHandler(paymentUseCase)

	v1 := router.Group("/v1")
	addPingRoutes(v1)
	addPaymentRoutes(v1, paymentHandler)
}

func reconcileInterval() time.Duration {
	if v := os.Getenv("RECONCILE_INTERVAL_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return time.Duration(n) * time.Second
		}
	}
	return 5 * time.Minute
}

func setMiddlewares() {
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		log.Printf("Recovered from panic: %v", recovered)
		c.AbortWithStatus(500)
	}))
}
