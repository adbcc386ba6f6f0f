package secrets

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/sirupsen/logrus"
)

// ManagerProvider fetches credentials from AWS Secrets Manager. The secret
// value is a JSON object keyed by credential name.
type ManagerProvider struct {
	client     *secretsmanager.Client
	secretName string
	logger     *logrus.Logger
}

func NewManagerProvider(logger *logrus.Logger) (*ManagerProvider, error) {
	secretName := os.Getenv("SECRET_NAME")
	if secretName == "" {
		secretName = "tesis/twitter/api_keys"
	}

	region := os.Getenv("AWS_REGION")
	if region == "" {
		region = "us-east-2"
	}

	cfg, err := awsconfig.LoadDefaultConfig(context.Background(), awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &ManagerProvider{
		client:     secretsmanager.NewFromConfig(cfg),
		secretName: secretName,
		logger:     logger,
	}, nil
}

func (p *ManagerProvider) GetCredential(ctx context.Context, name string) (string, error) {
	out, err := p.client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(p.secretName),
	})
	if err != nil {
		return "", fmt.Errorf("failed to read secret %s: %w", p.secretName, err)
	}

	var fields map[string]string
	if err := json.Unmarshal([]byte(aws.ToString(out.SecretString)), &fields); err != nil {
		return "", fmt.Errorf("failed to parse secret %s: %w", p.secretName, err)
	}

	value, ok := fields[name]
	if !ok || value == "" {
		return "", fmt.Errorf("secret %s has no field %s", p.secretName, name)
	}

	p.logger.WithFields(logrus.Fields{
		"secret":     p.secretName,
		"credential": name,
	}).Debug("Resolved credential from Secrets Manager")

	return value, nil
}
