package metrics

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"

	"github.com/dropshiphq/orders-api/internal/aws"
)

// Namespace is the CloudWatch namespace all order metrics land in.
const Namespace = "orders-api"

// Emitter publishes order metrics to CloudWatch. Emission is best-effort;
// callers log failures and never surface them to clients.
type Emitter struct {
	client    aws.CloudWatchAPI
	namespace string
	nowFunc   func() time.Time
}

// NewEmitter returns an Emitter bound to the default namespace.
func NewEmitter(client aws.CloudWatchAPI) *Emitter {
	return &Emitter{
		client:    client,
		namespace: Namespace,
		nowFunc:   time.Now,
	}
}

// OrderCreated records one created order and its revenue contribution.
func (e *Emitter) OrderCreated(ctx context.Context, totalHarga float64) error {
	now := e.nowFunc().UTC()
	one := 1.0
	revenue := totalHarga

	input := &cloudwatch.PutMetricDataInput{
		Namespace: &e.namespace,
		MetricData: []cwtypes.MetricDatum{
			{
				MetricName: awsString("OrdersCreated"),
				Value:      &one,
				Unit:       cwtypes.StandardUnitCount,
				Timestamp:  &now,
			},
			{
				MetricName: awsString("OrderRevenue"),
				Value:      &revenue,
				Unit:       cwtypes.StandardUnitNone,
				Timestamp:  &now,
			},
		},
	}

	if _, err := e.client.PutMetricData(ctx, input); err != nil {
		return fmt.Errorf("put metric data: %w", err)
	}
	return nil
}

func awsString(s string) *string { return &s }
