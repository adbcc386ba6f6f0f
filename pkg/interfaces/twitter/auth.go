package twitter

import (
	"fmt"
	"net/http"
	"time"

	"github.com/mrjones/oauth"
)

const (
	RequestTokenURL   = "https://api.twitter.com/oauth/request_token"
	AuthorizeTokenURL = "https://api.twitter.com/oauth/authorize"
	AccessTokenURL    = "https://api.twitter.com/oauth/access_token"
)

type Authenticator struct {
	client      *http.Client
	bearerToken string
}

// NewAuthenticator picks the auth mode from the config: app-only Bearer
// token when present, otherwise OAuth 1.0a user context.
func NewAuthenticator(config *TwitterConfig) (*Authenticator, error) {
	if config.BearerToken != "" {
		return newAppAuthenticator(config.BearerToken)
	}

	if config.ConsumerKey != "" && config.AccessToken != "" {
		return newUserAuthenticator(
			config.ConsumerKey,
			config.ConsumerSecret,
			config.AccessToken,
			config.AccessTokenSecret,
		)
	}

	return nil, fmt.Errorf("either a Bearer token or OAuth 1.0a credentials must be provided")
}

func newAppAuthenticator(bearerToken string) (*Authenticator, error) {
	return &Authenticator{
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		bearerToken: bearerToken,
	}, nil
}

func newUserAuthenticator(consumerKey, consumerSecret, accessToken, accessTokenSecret string) (*Authenticator, error) {
	consumer := oauth.NewConsumer(consumerKey, consumerSecret, oauth.ServiceProvider{
		RequestTokenUrl:   RequestTokenURL,
		AuthorizeTokenUrl: AuthorizeTokenURL,
		AccessTokenUrl:    AccessTokenURL,
	})

	consumer.HttpClient = &http.Client{
		Timeout: 30 * time.Second,
	}

	token := oauth.AccessToken{
		Token:  accessToken,
		Secret: accessTokenSecret,
	}

	client, err := consumer.MakeHttpClient(&token)
	if err != nil {
		return nil, fmt.Errorf("failed to create OAuth client: %w", err)
	}

	return &Authenticator{client: client}, nil
}

func (a *Authenticator) GetClient() *http.Client {
	return a.client
}

func (a *Authenticator) SetAuthHeader(req *http.Request) {
	if a.bearerToken != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", a.bearerToken))
	}
	// The OAuth 1.0a client signs requests itself.
}
