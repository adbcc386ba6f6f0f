package twitter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// SearchRecentParams holds the parameters for a recent search request.
type SearchRecentParams struct {
	// Query is the full search expression.
	Query string

	// SinceID is an exclusive lower bound: only tweets with a strictly
	// greater id are returned. Empty means no lower bound.
	SinceID string

	// StartTime and EndTime bound the search window [start, end) when set.
	StartTime *time.Time
	EndTime   *time.Time

	// PageSize is the per-request max_results (the API allows 10-100).
	PageSize int

	// MaxTotal caps the number of tweets returned across all pages.
	// Zero or negative means no tweets are fetched.
	MaxTotal int
}

// SearchRecent retrieves tweets matching the query, newest first, paging
// through next_token until the results are exhausted or MaxTotal is reached.
//
// The API returns pages in reverse-chronological order, so the first element
// of the returned slice is the newest match. Any transport or API error
// aborts the call with a single error; zero results with a nil error is a
// valid outcome.
//
// Rate limit: 450 requests per 15-minute window (app auth).
func (c *TwitterClient) SearchRecent(ctx context.Context, params SearchRecentParams) ([]Tweet, error) {
	if params.MaxTotal <= 0 {
		return nil, nil
	}

	log := c.logger.WithFields(logrus.Fields{
		"method": "SearchRecent",
		"query":  params.Query,
	})

	pageSize := params.PageSize
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 100
	}
	if pageSize > params.MaxTotal && params.MaxTotal >= 10 {
		pageSize = params.MaxTotal
	}
	if pageSize < 10 {
		// The endpoint rejects max_results below 10; over-fetch and trim.
		pageSize = 10
	}

	var collected []Tweet
	nextToken := ""

	for {
		query := url.Values{}
		query.Set("query", params.Query)
		query.Set("max_results", strconv.Itoa(pageSize))
		query.Set("tweet.fields", strings.Join(c.config.TweetFields, ","))
		if params.SinceID != "" {
			query.Set("since_id", params.SinceID)
		}
		if params.StartTime != nil {
			query.Set("start_time", params.StartTime.UTC().Format(time.RFC3339))
		}
		if params.EndTime != nil {
			query.Set("end_time", params.EndTime.UTC().Format(time.RFC3339))
		}
		if nextToken != "" {
			query.Set("next_token", nextToken)
		}

		body, err := c.makeRequest(ctx, c.config.SearchEndpoint, query)
		if err != nil {
			log.WithError(err).Error("Failed to fetch search page")
			return nil, fmt.Errorf("failed to fetch search page: %w", err)
		}

		var searchResp SearchResponse
		if err := json.Unmarshal(body, &searchResp); err != nil {
			log.WithError(err).Error("Failed to decode search response")
			return nil, fmt.Errorf("failed to decode search response: %w", err)
		}

		collected = append(collected, searchResp.Data...)

		log.WithFields(logrus.Fields{
			"page_results": len(searchResp.Data),
			"total":        len(collected),
		}).Debug("Fetched search page")

		if len(collected) >= params.MaxTotal {
			collected = collected[:params.MaxTotal]
			break
		}

		if searchResp.Meta == nil || searchResp.Meta.NextToken == "" {
			break
		}
		nextToken = searchResp.Meta.NextToken
	}

	return collected, nil
}
