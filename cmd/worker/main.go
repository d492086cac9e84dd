package main

import (
	"context"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/rs/zerolog"

	"github.com/minaato/minaato-backend/internal/aws"
	"github.com/minaato/minaato-backend/internal/metrics"
	"github.com/minaato/minaato-backend/internal/orders"
	"github.com/minaato/minaato-backend/pkg/logger"
)

// The worker reads its environment directly: it shares the queue and
// tables with the API but none of the gateway configuration.
func main() {
	log := logger.New(logger.Options{
		ServiceName: "minaato-worker",
		Level:       os.Getenv("LOG_LEVEL"),
		Format:      os.Getenv("LOG_FORMAT"),
	})

	ctx := context.Background()

	repo, rec := buildDeps(ctx, log)
	p := NewProcessor(repo, rec, log, os.Getenv("WHATSAPP_NUMBER"), os.Getenv("ORDER_EMAIL"))

	if os.Getenv("RUN_LOCAL") == "true" {
		// simulate a single delivery so the pipeline can be exercised
		// without a queue
		body := os.Getenv("LOCAL_EVENT_BODY")
		if body == "" {
			body = `{"type":"order.paid","order_id":"ORD-local-1"}`
		}
		ev := events.SQSEvent{Records: []events.SQSMessage{{MessageId: "local", Body: body}}}
		if err := p.Handle(ctx, ev); err != nil {
			log.Fatal().Err(err).Msg("local event failed")
		}
		return
	}

	lambda.Start(p.Handle)
}

func buildDeps(ctx context.Context, log zerolog.Logger) (orders.Repository, *metrics.Recorder) {
	ordersTable := os.Getenv("ORDERS_TABLE")
	if ordersTable == "" {
		// local runs against the same JSON file the API writes
		path := os.Getenv("ORDERS_FILE")
		if path == "" {
			path = "orders.json"
		}
		return orders.NewFileStore(path, log), nil
	}

	clients, err := aws.NewClients(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to init aws clients")
	}
	return orders.NewDynamoStore(clients.DynamoDB, ordersTable), metrics.NewRecorder(clients.CloudWatch, log)
}
