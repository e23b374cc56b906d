package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/dropshiphq/orders-api/internal/aws"
	"github.com/dropshiphq/orders-api/internal/handlers"
	"github.com/dropshiphq/orders-api/internal/metrics"
	"github.com/dropshiphq/orders-api/internal/orders"
)

func setupRouter(cfg handlers.HandlerConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	// the order dashboard is a browser app on another origin
	r.Use(cors.Default())

	// health
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	handlers.RegisterOrdersRoutes(r, cfg)

	return r
}

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	// no default: the table name must come from the environment
	ordersTable := os.Getenv("ORDERS_TABLE")
	if ordersTable == "" {
		logger.Fatal("ORDERS_TABLE environment variable is required")
	}

	clients, err := aws.NewAWSClients(context.Background())
	if err != nil {
		logger.Fatal("failed to init aws clients", zap.Error(err))
	}

	// one-time connectivity check; log-and-continue, never block serving
	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := orders.NewStore(clients.DynamoDB, ordersTable).Ping(pingCtx); err != nil {
		logger.Warn("orders table unreachable at startup", zap.Error(err))
	} else {
		logger.Info("orders table reachable", zap.String("table", ordersTable))
	}
	cancel()

	cfg := handlers.HandlerConfig{
		DynamoDBClient: clients.DynamoDB,
		OrdersTable:    ordersTable,
		Metrics:        metrics.NewEmitter(clients.CloudWatch),
		Logger:         logger,
	}

	r := setupRouter(cfg)

	// if environment variable RUN_LOCAL is set to "true", run local HTTP server for development.
	if os.Getenv("RUN_LOCAL") == "true" {
		port := os.Getenv("PORT")
		if port == "" {
			port = "8080"
		}
		addr := ":" + port
		logger.Info("running local server", zap.String("addr", addr))
		if err := r.Run(addr); err != nil {
			logger.Fatal("failed to run local server", zap.Error(err))
		}
		return
	}

	// lambda adapter
	adapter := ginadapter.New(r)

	lambda.Start(func(ctx context.Context, req events.APIGatewayProxyRequest) (interface{}, error) {
		// the adapter handles proxying; use adapter.ProxyWithContext for proper context propagation
		return adapter.ProxyWithContext(ctx, req)
	})
}
