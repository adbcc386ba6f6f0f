package main

import (
	"context"
	"encoding/json"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/pulsomx/collector-go/internal/jobconfig"
	"github.com/pulsomx/collector-go/pkg/collect"
	"github.com/pulsomx/collector-go/pkg/cursor"
	"github.com/pulsomx/collector-go/pkg/db"
	"github.com/pulsomx/collector-go/pkg/interfaces/twitter"
	"github.com/pulsomx/collector-go/pkg/logging"
	"github.com/pulsomx/collector-go/pkg/secrets"
)

// Response is the invocation result: a status code and a human-readable
// summary. Task-level failures surface in logs only.
type Response struct {
	StatusCode int    `json:"statusCode"`
	Body       string `json:"body"`
}

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		// Only log warning since .env is optional
		logrus.WithError(err).Warn("Error loading .env file")
	}

	// Initialize logger
	log := logrus.New()
	if os.Getenv("LOG_PRETTY") == "true" {
		log.SetFormatter(logging.NewColoredJSONFormatter())
	} else {
		log.SetFormatter(&logrus.JSONFormatter{})
	}

	logLevel := os.Getenv("LOG_LEVEL")
	if level, err := logrus.ParseLevel(logLevel); err == nil {
		log.SetLevel(level)
	} else {
		log.SetLevel(logrus.InfoLevel)
		log.WithFields(logrus.Fields{
			"attempted_level": logLevel,
			"default_level":   "INFO",
		}).Warn("Invalid log level specified, defaulting to INFO")
	}

	ctx := context.Background()

	// Credential retrieval is the one fatal startup step: nothing can be
	// collected without a token.
	provider, err := secrets.NewProvider(log)
	if err != nil {
		log.WithError(err).Fatal("Failed to create secrets provider")
	}

	bearerToken, err := provider.GetCredential(ctx, "X_BEARER_TOKEN")
	if err != nil {
		log.WithError(err).Fatal("Failed to retrieve API credential")
	}

	twitterConfig, err := twitter.NewTwitterConfig(log)
	if err != nil {
		log.WithError(err).Fatal("Failed to create Twitter config")
	}
	twitterConfig.BearerToken = bearerToken

	twitterClient, err := twitter.NewTwitterClient(twitterConfig)
	if err != nil {
		log.WithError(err).Fatal("Failed to create Twitter client")
	}

	database, err := db.SetupDatabase(log)
	if err != nil {
		log.WithError(err).Fatal("Failed to set up database")
	}

	if version, dirty, err := db.MigrationStatus(log); err != nil {
		log.WithError(err).Warn("Could not determine migration status")
	} else {
		log.WithFields(logrus.Fields{
			"migration_version": version,
			"dirty":             dirty,
		}).Info("Database schema ready")
	}

	recordStore := db.NewRecordStore(database, log)
	cursorStore := cursor.NewPostgresStore(database, log)

	collectConfig, err := collect.NewConfig(log)
	if err != nil {
		log.WithError(err).Fatal("Failed to load collector config")
	}

	tasks := jobconfig.Tasks()
	log.WithFields(logrus.Fields{
		"tasks":  len(tasks),
		"policy": collectConfig.PolicyName,
	}).Info("Collector configured")

	// Clients and stores are built once per process and shared across
	// invocations in Lambda mode.
	run := func(ctx context.Context) (Response, error) {
		policy, err := collectConfig.NewPolicy(tasks, cursorStore)
		if err != nil {
			return Response{StatusCode: 500, Body: err.Error()}, err
		}

		collector := collect.NewCollector(
			twitterClient,
			recordStore,
			cursorStore,
			collect.NewEnricher(),
			policy,
			collectConfig,
		)

		summary, err := collector.Run(ctx)
		if err != nil {
			return Response{StatusCode: 500, Body: err.Error()}, err
		}

		if counts, err := recordStore.CountBySource(ctx); err != nil {
			log.WithError(err).Warn("Could not count stored records")
		} else {
			log.WithFields(logrus.Fields{
				"run_id":            summary.RunID,
				"records_by_source": counts,
			}).Info("Collection totals")
		}

		return Response{StatusCode: 200, Body: summary.String()}, nil
	}

	if os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != "" {
		// The trigger payload is opaque and unused.
		lambda.Start(func(ctx context.Context, _ json.RawMessage) (Response, error) {
			return run(ctx)
		})
		return
	}

	resp, err := run(ctx)
	if err != nil {
		log.WithError(err).Fatal("Collection run failed")
	}
	log.WithField("body", resp.Body).Info("Done")
}
