package collect

import (
	"regexp"
	"strings"
	"time"

	"github.com/jonreiter/govader"

	"github.com/pulsomx/collector-go/pkg/db/models"
	"github.com/pulsomx/collector-go/pkg/interfaces/twitter"
)

var (
	urlPattern     = regexp.MustCompile(`https?://\S+`)
	mentionPattern = regexp.MustCompile(`@\w+`)
	hashtagPattern = regexp.MustCompile(`#\w+`)
	spacePattern   = regexp.MustCompile(`\s+`)
)

// Enricher turns raw tweets into records ready for persistence: it scores
// sentiment over a normalized copy of the text while the stored text keeps
// its original form.
type Enricher struct {
	analyzer *govader.SentimentIntensityAnalyzer
	now      func() time.Time
}

func NewEnricher() *Enricher {
	return &Enricher{
		analyzer: govader.NewSentimentIntensityAnalyzer(),
		now:      time.Now,
	}
}

// Normalize strips URLs, mentions and hashtags and lower-cases the text.
// Used for scoring only.
func Normalize(text string) string {
	text = urlPattern.ReplaceAllString(text, " ")
	text = mentionPattern.ReplaceAllString(text, " ")
	text = hashtagPattern.ReplaceAllString(text, " ")
	text = spacePattern.ReplaceAllString(text, " ")
	return strings.ToLower(strings.TrimSpace(text))
}

// Score maps text to a polarity score in [-1, 1].
func (e *Enricher) Score(text string) float64 {
	return e.analyzer.PolarityScores(Normalize(text)).Compound
}

// Enrich builds the storable record for one fetched tweet.
func (e *Enricher) Enrich(tweet twitter.Tweet, task Task) models.Record {
	createdAt, err := time.Parse(time.RFC3339, tweet.CreatedAt)
	if err != nil {
		createdAt = e.now().UTC()
	}

	return models.Record{
		ID:             tweet.ID,
		CreatedAt:      createdAt,
		SourceID:       task.SourceID,
		TopicID:        task.TopicID,
		Text:           tweet.Text,
		RetweetCount:   tweet.PublicMetrics.RetweetCount,
		ReplyCount:     tweet.PublicMetrics.ReplyCount,
		LikeCount:      tweet.PublicMetrics.LikeCount,
		QuoteCount:     tweet.PublicMetrics.QuoteCount,
		SentimentScore: e.Score(tweet.Text),
		CollectedAt:    e.now().UTC(),
	}
}
