package secrets

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
)

// EnvProvider reads credentials from environment variables. main loads the
// optional .env file before this runs.
type EnvProvider struct {
	logger *logrus.Logger
}

func NewEnvProvider(logger *logrus.Logger) *EnvProvider {
	return &EnvProvider{logger: logger}
}

func (p *EnvProvider) GetCredential(_ context.Context, name string) (string, error) {
	value := os.Getenv(name)
	if value == "" {
		return "", fmt.Errorf("credential %s is not set", name)
	}

	p.logger.WithField("credential", name).Debug("Resolved credential from environment")
	return value, nil
}
