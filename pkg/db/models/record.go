package models

import "time"

// Record is one collected tweet, enriched with task context and sentiment.
// Rows are written once and only ever overwritten by the same id, so
// repeated delivery of a tweet is harmless.
type Record struct {
	ID        string    `gorm:"primaryKey;column:id"`
	CreatedAt time.Time `gorm:"column:created_at;not null"`

	// Task context
	SourceID string `gorm:"column:source_id;not null;index"`
	TopicID  string `gorm:"column:topic_id;not null;index"`

	Text string `gorm:"column:text;not null"`

	// Engagement metrics
	RetweetCount int `gorm:"column:retweet_count;default:0"`
	ReplyCount   int `gorm:"column:reply_count;default:0"`
	LikeCount    int `gorm:"column:like_count;default:0"`
	QuoteCount   int `gorm:"column:quote_count;default:0"`

	// Sentiment polarity in [-1, 1]
	SentimentScore float64 `gorm:"column:sentiment_score;not null"`

	CollectedAt time.Time `gorm:"column:collected_at;not null"`
}

// TableName specifies the table name for the Record model
func (Record) TableName() string {
	return "media_tweets"
}
