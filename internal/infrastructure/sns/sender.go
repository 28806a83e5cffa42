package sns

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"
	"github.com/go-otp-nosql/internal/config"
	"github.com/go-otp-nosql/internal/domain"
	"github.com/go-otp-nosql/internal/infrastructure/awscfg"
)

// EventUserVerified is the event_type attribute of UserVerified messages.
const EventUserVerified = "user.verified"

// PublishAPI is the subset of *sns.Client used by Publisher.
type PublishAPI interface {
	Publish(ctx context.Context, in *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// Publisher announces verified users on an SNS topic.
type Publisher struct {
	client   PublishAPI
	topicARN string
}

func NewPublisher(client PublishAPI, topicARN string) *Publisher {
	return &Publisher{client: client, topicARN: topicARN}
}

// NewClient creates an SNS client for cfg.SNSRegion, honouring the LocalStack endpoint.
func NewClient(ctx context.Context, cfg *config.Config) (*sns.Client, error) {
	awsCfg, err := awscfg.Load(ctx, cfg, cfg.SNSRegion)
	if err != nil {
		return nil, err
	}
	var opts []func(*sns.Options)
	if cfg.AWSEndpointURL != "" {
		opts = append(opts, func(o *sns.Options) {
			o.BaseEndpoint = aws.String(cfg.AWSEndpointURL)
		})
	}
	return sns.NewFromConfig(awsCfg, opts...), nil
}

func (p *Publisher) PublishUserVerified(ctx context.Context, evt domain.UserVerified) error {
	body, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	_, err = p.client.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(p.topicARN),
		Message:  aws.String(string(body)),
		MessageAttributes: map[string]types.MessageAttributeValue{
			"event_type": {DataType: aws.String("String"), StringValue: aws.String(EventUserVerified)},
		},
	})
	if err != nil {
		return fmt.Errorf("publish %s: %w", EventUserVerified, err)
	}
	return nil
}
