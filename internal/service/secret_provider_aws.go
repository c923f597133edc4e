package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
)

type secretsManagerAPI interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

// AWSSecretSource は AWS Secrets Manager から鍵を読む
type AWSSecretSource struct {
	client   secretsManagerAPI
	secretID string
}

func NewAWSSecretSource(ctx context.Context, region, secretID string) (*AWSSecretSource, error) {
	if secretID == "" {
		return nil, errors.New("aws secret source: secret id is empty")
	}
	awsCfg, err := loadAWSConfig(ctx, region, "iam_role", "", "")
	if err != nil {
		return nil, fmt.Errorf("aws secret source: load config: %w", err)
	}
	return newAWSSecretSourceWithClient(secretsmanager.NewFromConfig(awsCfg), secretID), nil
}

func newAWSSecretSourceWithClient(client secretsManagerAPI, secretID string) *AWSSecretSource {
	return &AWSSecretSource{client: client, secretID: secretID}
}

func (s *AWSSecretSource) Fetch(ctx context.Context) (string, error) {
	out, err := s.client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(s.secretID),
	})
	if err != nil {
		return "", fmt.Errorf("GetSecretValue failed (%s): %w", s.secretID, err)
	}
	if out.SecretString != nil {
		return *out.SecretString, nil
	}
	if len(out.SecretBinary) > 0 {
		return string(out.SecretBinary), nil
	}
	return "", ErrEmptySecret
}
