package config

import (
	"context"
	"fmt"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
)

type secretsAPI interface {
	GetSecretValue(ctx context.Context, in *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

// SecretsManager resolves secrets from AWS Secrets Manager. The AWS client is
// created on first use, so processes that never reference a secret need no
// AWS configuration.
type SecretsManager struct {
	once      sync.Once
	newClient func(ctx context.Context) (secretsAPI, error)
	client    secretsAPI
	err       error
}

func NewSecretsManager() *SecretsManager {
	return &SecretsManager{newClient: defaultSecretsClient}
}

func defaultSecretsClient(ctx context.Context) (secretsAPI, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return secretsmanager.NewFromConfig(awsCfg), nil
}

func (s *SecretsManager) Secret(ctx context.Context, id string) (string, error) {
	s.once.Do(func() {
		s.client, s.err = s.newClient(ctx)
	})
	if s.err != nil {
		return "", s.err
	}

	out, err := s.client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(id),
	})
	if err != nil {
		return "", err
	}
	if out.SecretString == nil {
		return "", fmt.Errorf("secret %q has no string value", id)
	}

	return *out.SecretString, nil
}
