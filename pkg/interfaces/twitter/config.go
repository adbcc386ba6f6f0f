package twitter

import (
	"fmt"
	"os"
	"strconv"

	"github.com/sirupsen/logrus"
)

type TwitterConfig struct {
	// API Authentication. BearerToken is normally filled in by the caller
	// from the credential provider; OAuth 1.0a credentials are an optional
	// user-context alternative read from the environment.
	ConsumerKey       string
	ConsumerSecret    string
	AccessToken       string
	AccessTokenSecret string
	BearerToken       string

	// API Endpoints
	BaseURL        string
	SearchEndpoint string

	// Rate Limiting (requests per window, window in minutes)
	RateLimit  int
	RateWindow int

	// Tweet fields requested on every search call
	TweetFields []string

	Logger *logrus.Logger
}

func NewTwitterConfig(logger *logrus.Logger) (*TwitterConfig, error) {
	rateLimit, _ := strconv.Atoi(getEnvOrDefault("TWITTER_RATE_LIMIT", "450"))
	rateWindow, _ := strconv.Atoi(getEnvOrDefault("TWITTER_RATE_WINDOW", "15"))

	config := &TwitterConfig{
		ConsumerKey:       os.Getenv("TWITTER_CONSUMER_KEY"),
		ConsumerSecret:    os.Getenv("TWITTER_CONSUMER_SECRET"),
		AccessToken:       os.Getenv("TWITTER_ACCESS_TOKEN"),
		AccessTokenSecret: os.Getenv("TWITTER_ACCESS_TOKEN_SECRET"),
		BearerToken:       os.Getenv("TWITTER_BEARER_TOKEN"),

		BaseURL:        getEnvOrDefault("TWITTER_API_BASE_URL", "https://api.twitter.com/2"),
		SearchEndpoint: "/tweets/search/recent",

		RateLimit:  rateLimit,
		RateWindow: rateWindow,

		TweetFields: []string{"id", "text", "created_at", "public_metrics"},

		Logger: logger,
	}

	config.Logger.WithFields(logrus.Fields{
		"bearer_token_exists": config.BearerToken != "",
		"base_url":            config.BaseURL,
		"rate_limit":          config.RateLimit,
	}).Debug("Twitter config initialized")

	return config, nil
}

func (c *TwitterConfig) Validate() error {
	if c.Logger == nil {
		return fmt.Errorf("logger is required")
	}

	if c.BearerToken == "" {
		if c.ConsumerKey == "" || c.ConsumerSecret == "" ||
			c.AccessToken == "" || c.AccessTokenSecret == "" {
			return fmt.Errorf("either a Bearer token or OAuth 1.0a credentials must be provided")
		}
	}

	if c.RateLimit < 1 {
		return fmt.Errorf("rate limit must be positive")
	}
	if c.RateWindow < 1 {
		return fmt.Errorf("rate window must be positive")
	}

	if c.BaseURL == "" {
		c.BaseURL = "https://api.twitter.com/2"
	}
	if c.SearchEndpoint == "" {
		c.SearchEndpoint = "/tweets/search/recent"
	}

	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
