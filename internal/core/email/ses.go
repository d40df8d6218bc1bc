package email

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

type sesAPI interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// SESProvider sends through Amazon SES. Credentials come from the default
// AWS chain (env, shared config, instance role).
type SESProvider struct {
	client    sesAPI
	fromEmail string
	fromName  string
}

func NewSESProvider(ctx context.Context, region, fromEmail, fromName string) (*SESProvider, error) {
	if region == "" {
		return nil, fmt.Errorf("AWS_REGION is required for the ses provider")
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return &SESProvider{client: ses.NewFromConfig(cfg), fromEmail: fromEmail, fromName: fromName}, nil
}

func (p *SESProvider) GetProviderName() string {
	return "ses"
}

func (p *SESProvider) SendEmail(ctx context.Context, to, subject, htmlBody string) error {
	_, err := p.client.SendEmail(ctx, &ses.SendEmailInput{
		Source:      aws.String(formatFrom(p.fromEmail, p.fromName)),
		Destination: &types.Destination{ToAddresses: []string{to}},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(subject), Charset: aws.String("UTF-8")},
			Body: &types.Body{
				Html: &types.Content{Data: aws.String(htmlBody), Charset: aws.String("UTF-8")},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("ses send failed: %w", err)
	}
	return nil
}
