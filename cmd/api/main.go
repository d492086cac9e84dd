package main

import (
	"context"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/minaato/minaato-backend/internal/aws"
	"github.com/minaato/minaato-backend/internal/config"
	"github.com/minaato/minaato-backend/internal/handlers"
	"github.com/minaato/minaato-backend/internal/idempotency"
	"github.com/minaato/minaato-backend/internal/metrics"
	"github.com/minaato/minaato-backend/internal/notify"
	"github.com/minaato/minaato-backend/internal/orders"
	"github.com/minaato/minaato-backend/internal/paystack"
	"github.com/minaato/minaato-backend/pkg/logger"
)

func setupRouter(cfg *config.Config, log zerolog.Logger, hcfg handlers.HandlerConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(handlers.RequestLogger(log))
	r.Use(handlers.CORS(cfg.OriginAllowed))
	r.Use(handlers.RateLimit(60))

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"service": "minaato-backend", "status": "ok"})
	})
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	handlers.RegisterRoutes(r, hcfg, handlers.RateLimit(10))

	return r
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.New(logger.Options{ServiceName: "minaato-api"}).Fatal().Err(err).Msg("invalid configuration")
	}

	log := logger.New(logger.Options{
		ServiceName: "minaato-api",
		Level:       cfg.LogLevel,
		Format:      cfg.LogFormat,
	})

	ctx := context.Background()

	// AWS clients are only built when something is configured to use them,
	// so the file-backed local setup runs without credentials.
	var clients *aws.Clients
	if cfg.OrdersBackend == config.BackendDynamo || cfg.EventsTable != "" || cfg.QueueURL != "" {
		clients, err = aws.NewClients(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to init aws clients")
		}
	}

	var repo orders.Repository
	switch cfg.OrdersBackend {
	case config.BackendDynamo:
		repo = orders.NewDynamoStore(clients.DynamoDB, cfg.OrdersTable)
	default:
		repo = orders.NewFileStore(cfg.OrdersFile, log)
	}

	gateway, err := paystack.NewClient(paystack.Config{
		SecretKey: cfg.PaystackSecretKey,
		BaseURL:   cfg.PaystackBaseURL,
		Currency:  cfg.Currency,
		Timeout:   cfg.GatewayTimeout,
	}, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to init payment gateway")
	}

	hcfg := handlers.HandlerConfig{
		Repo:           repo,
		Gateway:        gateway,
		WebhookSecret:  cfg.PaystackSecretKey,
		WhatsAppNumber: cfg.WhatsAppNumber,
		OrderEmail:     cfg.OrderEmail,
		Log:            log,
	}
	if clients != nil {
		if cfg.EventsTable != "" {
			hcfg.Events = idempotency.NewStore(clients.DynamoDB, cfg.EventsTable, cfg.EventTTLWindow)
		}
		if cfg.QueueURL != "" {
			hcfg.Publisher = notify.NewPublisher(clients.SQS, cfg.QueueURL)
		}
		hcfg.Metrics = metrics.NewRecorder(clients.CloudWatch, log)
	}

	r := setupRouter(cfg, log, hcfg)

	if cfg.RunLocal {
		addr := ":" + cfg.Port
		log.Info().Str("addr", addr).Str("backend", cfg.OrdersBackend).Msg("running local server")
		if err := r.Run(addr); err != nil {
			log.Fatal().Err(err).Msg("local server exited")
		}
		return
	}

	adapter := ginadapter.New(r)
	lambda.Start(func(ctx context.Context, req events.APIGatewayProxyRequest) (interface{}, error) {
		return adapter.ProxyWithContext(ctx, req)
	})
}
