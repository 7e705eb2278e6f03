package sfn

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	awssfn "github.com/aws/aws-sdk-go-v2/service/sfn"
	"github.com/aws/aws-sdk-go-v2/service/sts"

	"github.com/sanjams2/sfn-profiler/timeline"
)

// A Source returns the raw history records of one execution. Implementations
// must return records in provider order and handle pagination transparently.
type Source interface {
	History(ctx context.Context, arn ExecutionArn) ([]timeline.RawRecord, error)
}

// historyAPI is the slice of the Step Functions API the client uses.
type historyAPI interface {
	awssfn.GetExecutionHistoryAPIClient

	DescribeExecution(
		ctx context.Context,
		params *awssfn.DescribeExecutionInput,
		optFns ...func(*awssfn.Options),
	) (*awssfn.DescribeExecutionOutput, error)
}

type identityAPI interface {
	GetCallerIdentity(
		ctx context.Context,
		params *sts.GetCallerIdentityInput,
		optFns ...func(*sts.Options),
	) (*sts.GetCallerIdentityOutput, error)
}

// Client fetches execution histories from AWS Step Functions.
type Client struct {
	api      historyAPI
	identity identityAPI
	region   string

	account string
}

// NewClient builds a Client from the default AWS configuration chain.
func NewClient(ctx context.Context) (*Client, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}

	return &Client{
		api:      awssfn.NewFromConfig(cfg),
		identity: sts.NewFromConfig(cfg),
		region:   cfg.Region,
	}, nil
}

// History returns every history record of the execution, following
// pagination until the history is exhausted.
func (c *Client) History(
	ctx context.Context,
	arn ExecutionArn,
) ([]timeline.RawRecord, error) {
	var records []timeline.RawRecord

	paginator := awssfn.NewGetExecutionHistoryPaginator(c.api,
		&awssfn.GetExecutionHistoryInput{
			ExecutionArn: aws.String(arn.String()),
		})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, &FetchError{Execution: arn.String(), Err: err}
		}

		for _, e := range page.Events {
			records = append(records, rawRecord(e))
		}
	}

	return records, nil
}

// ExecutionInfo is the provider-reported execution metadata shown alongside
// a profile. StopTime is zero while the execution is still running.
type ExecutionInfo struct {
	Status    string    `json:"status"`
	StartTime time.Time `json:"start_time"`
	StopTime  time.Time `json:"stop_time"`
}

// Describe returns the execution's metadata.
func (c *Client) Describe(
	ctx context.Context,
	arn ExecutionArn,
) (ExecutionInfo, error) {
	out, err := c.api.DescribeExecution(ctx, &awssfn.DescribeExecutionInput{
		ExecutionArn: aws.String(arn.String()),
	})
	if err != nil {
		return ExecutionInfo{}, &FetchError{Execution: arn.String(), Err: err}
	}

	info := ExecutionInfo{Status: string(out.Status)}
	if out.StartDate != nil {
		info.StartTime = out.StartDate.UTC()
	}
	if out.StopDate != nil {
		info.StopTime = out.StopDate.UTC()
	}

	return info, nil
}

// ResolveArn turns a full ARN or a shortened "stateMachine:execution" id into
// an ExecutionArn. The short form borrows the caller's account and region,
// resolved once per client.
func (c *Client) ResolveArn(ctx context.Context, id string) (ExecutionArn, error) {
	if !IsShortID(id) {
		return ParseArn(id)
	}

	parts := strings.SplitN(id, ":", 2)

	if c.account == "" {
		out, err := c.identity.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
		if err != nil {
			return ExecutionArn{}, fmt.Errorf("resolving account id: %w", err)
		}

		c.account = aws.ToString(out.Account)
	}

	return ExecutionArn{
		Account:      c.account,
		Region:       c.region,
		StateMachine: parts[0],
		Execution:    parts[1],
	}, nil
}
