package metrics

import (
	"context"
	"time"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"github.com/rs/zerolog"

	"github.com/minaato/minaato-backend/internal/aws"
)

// Metric names emitted by the service.
const (
	MetricOrdersCreated            = "OrdersCreated"
	MetricOrdersPaid               = "OrdersPaid"
	MetricWebhookSignatureFailures = "WebhookSignatureFailures"
	MetricNotificationsSent        = "NotificationsSent"
)

const namespace = "Minaato/Storefront"

// Recorder publishes counters to CloudWatch. Metric delivery is best
// effort: failures are logged and never surface to request handling. A
// nil Recorder is a no-op.
type Recorder struct {
	client  aws.CloudWatchAPI
	log     zerolog.Logger
	nowFunc func() time.Time
}

// NewRecorder returns a Recorder publishing under the service namespace.
func NewRecorder(client aws.CloudWatchAPI, log zerolog.Logger) *Recorder {
	return &Recorder{
		client:  client,
		log:     log,
		nowFunc: time.Now,
	}
}

// Count adds one to the named counter.
func (r *Recorder) Count(ctx context.Context, name string) {
	if r == nil || r.client == nil {
		return
	}

	input := &cloudwatch.PutMetricDataInput{
		Namespace: sdkaws.String(namespace),
		MetricData: []cwtypes.MetricDatum{
			{
				MetricName: sdkaws.String(name),
				Timestamp:  sdkaws.Time(r.nowFunc()),
				Unit:       cwtypes.StandardUnitCount,
				Value:      sdkaws.Float64(1),
			},
		},
	}

	if _, err := r.client.PutMetricData(ctx, input); err != nil {
		r.log.Warn().Err(err).Str("metric", name).Msg("failed to publish metric")
	}
}
