package aws

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
)

// DefaultMetricsNamespace is used when no namespace is configured.
const DefaultMetricsNamespace = "ValentineRSVP"

// Metrics publishes per-answer counters to CloudWatch.
type Metrics struct {
	CloudWatch CloudWatchAPI
	Namespace  string
}

// NewMetrics returns a Metrics bound to namespace.
func NewMetrics(cw CloudWatchAPI, namespace string) *Metrics {
	if namespace == "" {
		namespace = DefaultMetricsNamespace
	}
	return &Metrics{CloudWatch: cw, Namespace: namespace}
}

// RecordAnswers emits one "Responses" datum per answer, dimensioned by Answer.
// counts maps answer -> number of responses observed at the given time.
func (m *Metrics) RecordAnswers(ctx context.Context, counts map[string]int, at time.Time) error {
	if len(counts) == 0 {
		return nil
	}
	data := make([]cwtypes.MetricDatum, 0, len(counts))
	for answer, n := range counts {
		data = append(data, cwtypes.MetricDatum{
			MetricName: awsString("Responses"),
			Dimensions: []cwtypes.Dimension{
				{Name: awsString("Answer"), Value: awsString(answer)},
			},
			Timestamp: &at,
			Unit:      cwtypes.StandardUnitCount,
			Value:     awsFloat64(float64(n)),
		})
	}

	_, err := m.CloudWatch.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
		Namespace:  &m.Namespace,
		MetricData: data,
	})
	if err != nil {
		return fmt.Errorf("put metric data: %w", err)
	}
	return nil
}

func awsFloat64(f float64) *float64 { return &f }
