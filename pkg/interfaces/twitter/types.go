package twitter

import "fmt"

// Tweet is the subset of the v2 tweet object the collector requests.
type Tweet struct {
	ID            string `json:"id"`
	Text          string `json:"text"`
	CreatedAt     string `json:"created_at,omitempty"`
	PublicMetrics struct {
		RetweetCount int `json:"retweet_count"`
		ReplyCount   int `json:"reply_count"`
		LikeCount    int `json:"like_count"`
		QuoteCount   int `json:"quote_count"`
	} `json:"public_metrics,omitempty"`
}

// SearchResponse is the Twitter API response envelope for recent search.
type SearchResponse struct {
	Data   []Tweet        `json:"data"`
	Errors []TwitterError `json:"errors,omitempty"`
	Meta   *Meta          `json:"meta,omitempty"`
}

type Meta struct {
	NewestID    string `json:"newest_id,omitempty"`
	OldestID    string `json:"oldest_id,omitempty"`
	ResultCount int    `json:"result_count"`
	NextToken   string `json:"next_token,omitempty"`
}

type TwitterError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *TwitterError) Error() string {
	return fmt.Sprintf("Twitter API error %d: %s", e.Code, e.Message)
}
