package service

import (
	"context"
	"log/slog"

	"go_corporate_auth/internal/config"
	"go_corporate_auth/internal/middleware"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
)

// sesSendAPI は SESMailer が使う sesv2.Client のメソッド
type sesSendAPI interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// SESMailer は AWS SES を使ってメールを送信する実装です
type SESMailer struct {
	client sesSendAPI
	from   string
}

// loadAWSConfig は auth_type に応じて認証方法を切り替えた aws.Config を返す
func loadAWSConfig(ctx context.Context, region, authType, accessKeyID, secretAccessKey string) (aws.Config, error) {
	var awsCfgOpts []func(*awsconfig.LoadOptions) error
	if region != "" {
		awsCfgOpts = append(awsCfgOpts, awsconfig.WithRegion(region))
	}

	switch authType {
	case "static_credentials":
		slog.Info("Configuring AWS client with static credentials.")
		if accessKeyID == "" || secretAccessKey == "" {
			slog.Error("auth_type is 'static_credentials' but access_key_id or secret_access_key is missing in config.")
			panic("missing static credentials for AWS")
		}
		creds := credentials.NewStaticCredentialsProvider(accessKeyID, secretAccessKey, "")
		awsCfgOpts = append(awsCfgOpts, awsconfig.WithCredentialsProvider(creds))
	case "iam_role", "":
		// SDK のデフォルト認証チェーン (ECS Task Role, Instance Profile など) を使う
	default:
		slog.Warn("Unknown AWS auth_type specified, defaulting to IAM Role.", "type", authType)
	}

	return awsconfig.LoadDefaultConfig(ctx, awsCfgOpts...)
}

// NewSESMailer は設定に応じて認証方法を切り替えてSESクライアントを生成します
func NewSESMailer(cfg *config.Config) Mailer {
	awsCfg, err := loadAWSConfig(context.Background(), cfg.SES.Region, cfg.SES.AuthType, cfg.SES.AccessKeyID, cfg.SES.SecretAccessKey)
	if err != nil {
		slog.Error("Failed to load AWS config for SES", "error", err)
		panic(err)
	}

	return &SESMailer{
		client: sesv2.NewFromConfig(awsCfg),
		from:   cfg.SES.From,
	}
}

// Send は AWS SES を使用してメールを送信します
func (m *SESMailer) Send(ctx context.Context, to, subject, htmlBody, textBody string) error {
	logger := middleware.GetLogger(ctx)

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(m.from),
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{
					Data:    aws.String(subject),
					Charset: aws.String("UTF-8"),
				},
				Body: &types.Body{
					Text: &types.Content{
						Data:    aws.String(textBody),
						Charset: aws.String("UTF-8"),
					},
					Html: &types.Content{
						Data:    aws.String(htmlBody),
						Charset: aws.String("UTF-8"),
					},
				},
			},
		},
	}

	if _, err := m.client.SendEmail(ctx, input); err != nil {
		logger.Error("Failed to send email via SES", "error", err, "to", to)
		return err
	}

	logger.Info("Email sent successfully via SES", "to", to, "subject", subject)
	return nil
}
