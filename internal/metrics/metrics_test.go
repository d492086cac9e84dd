package metrics

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturingCloudWatch struct {
	inputs []*cloudwatch.PutMetricDataInput
	err    error
}

func (c *capturingCloudWatch) PutMetricData(_ context.Context, in *cloudwatch.PutMetricDataInput, _ ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error) {
	if c.err != nil {
		return nil, c.err
	}
	c.inputs = append(c.inputs, in)
	return &cloudwatch.PutMetricDataOutput{}, nil
}

func TestCount_PublishesDatum(t *testing.T) {
	client := &capturingCloudWatch{}
	rec := NewRecorder(client, zerolog.Nop())

	rec.Count(context.Background(), MetricOrdersCreated)

	require.Len(t, client.inputs, 1)
	in := client.inputs[0]
	assert.Equal(t, namespace, *in.Namespace)
	require.Len(t, in.MetricData, 1)
	assert.Equal(t, MetricOrdersCreated, *in.MetricData[0].MetricName)
	assert.Equal(t, 1.0, *in.MetricData[0].Value)
}

func TestCount_FailuresAreSwallowed(t *testing.T) {
	rec := NewRecorder(&capturingCloudWatch{err: errors.New("throttled")}, zerolog.Nop())

	// must not panic or propagate
	rec.Count(context.Background(), MetricOrdersPaid)
}

func TestCount_NilRecorderIsNoop(t *testing.T) {
	var rec *Recorder
	rec.Count(context.Background(), MetricWebhookSignatureFailures)
}
