package metrics

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"

	"github.com/ashleyolson477/fischertechnik-lambda/config"
)

// PutMetricDataAPI is the part of the CloudWatch client this package uses.
type PutMetricDataAPI interface {
	PutMetricData(ctx context.Context, params *cloudwatch.PutMetricDataInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error)
}

// CloudWatch sends each point as a single PutMetricData call.
type CloudWatch struct {
	api       PutMetricDataAPI
	namespace string
}

func NewCloudWatch(api PutMetricDataAPI, namespace string) *CloudWatch {
	return &CloudWatch{api: api, namespace: namespace}
}

// NewCloudWatchClient loads AWS credentials from the environment and builds
// a client for cfg.Region. A non-empty Endpoint overrides the service URL.
func NewCloudWatchClient(ctx context.Context, cfg config.CloudWatchConfig) (*cloudwatch.Client, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return cloudwatch.NewFromConfig(awsCfg, func(o *cloudwatch.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	}), nil
}

func (c *CloudWatch) Emit(ctx context.Context, d Datum) error {
	if err := d.Validate(); err != nil {
		return err
	}
	_, err := c.api.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
		Namespace:  aws.String(c.namespace),
		MetricData: []types.MetricDatum{toMetricDatum(d)},
	})
	if err != nil {
		return fmt.Errorf("cloudwatch put %s: %w", d.Name, err)
	}
	return nil
}

func toMetricDatum(d Datum) types.MetricDatum {
	md := types.MetricDatum{
		MetricName: aws.String(d.Name),
		Value:      aws.Float64(d.Value),
	}
	if d.Unit != "" {
		md.Unit = types.StandardUnit(d.Unit)
	}
	if !d.Timestamp.IsZero() {
		md.Timestamp = aws.Time(d.Timestamp)
	}
	for _, dim := range d.Dimensions {
		md.Dimensions = append(md.Dimensions, types.Dimension{
			Name:  aws.String(dim.Name),
			Value: aws.String(dim.Value),
		})
	}
	return md
}
