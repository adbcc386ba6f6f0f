// Package secrets resolves API credentials at startup. A failure here is
// fatal: no collection can proceed without a token.
package secrets

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
)

// Provider retrieves a named credential.
type Provider interface {
	GetCredential(ctx context.Context, name string) (string, error)
}

// NewProvider selects the backend from SECRETS_BACKEND ("env" or "aws").
func NewProvider(logger *logrus.Logger) (Provider, error) {
	backend := os.Getenv("SECRETS_BACKEND")
	if backend == "" {
		backend = "env"
	}

	switch backend {
	case "env":
		return NewEnvProvider(logger), nil
	case "aws":
		return NewManagerProvider(logger)
	default:
		return nil, fmt.Errorf("unknown secrets backend %q", backend)
	}
}
