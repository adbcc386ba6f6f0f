package collect_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/pulsomx/collector-go/pkg/collect"
	"github.com/pulsomx/collector-go/pkg/interfaces/twitter"
)

var _ = Describe("Enrichment", func() {
	var enricher *collect.Enricher

	BeforeEach(func() {
		enricher = collect.NewEnricher()
	})

	Describe("Normalize", func() {
		It("strips URLs", func() {
			Expect(collect.Normalize("read this https://example.com/a?b=c now")).
				To(Equal("read this now"))
		})

		It("strips mentions and hashtags", func() {
			Expect(collect.Normalize("thanks @someone for the #news today")).
				To(Equal("thanks for the today"))
		})

		It("lower-cases the text", func() {
			Expect(collect.Normalize("Great News")).To(Equal("great news"))
		})
	})

	Describe("Score", func() {
		It("stays within [-1, 1]", func() {
			for _, text := range []string{
				"absolutely wonderful fantastic amazing news",
				"horrible terrible disgusting disaster",
				"the meeting is at noon",
				"",
			} {
				score := enricher.Score(text)
				Expect(score).To(BeNumerically(">=", -1))
				Expect(score).To(BeNumerically("<=", 1))
			}
		})

		It("scores positive text above negative text", func() {
			positive := enricher.Score("what a wonderful, excellent result")
			negative := enricher.Score("what a horrible, terrible result")
			Expect(positive).To(BeNumerically(">", negative))
		})

		It("is deterministic", func() {
			text := "the economy grew this quarter"
			Expect(enricher.Score(text)).To(Equal(enricher.Score(text)))
		})
	})

	Describe("Enrich", func() {
		task := collect.Task{SourceID: "Milenio", TopicID: "Ebrard", Terms: []string{"@m_ebrard"}}

		It("keeps the original text and maps metrics", func() {
			tweet := twitter.Tweet{
				ID:        "12345",
				Text:      "BREAKING: @m_ebrard anuncia https://t.co/abc #politica",
				CreatedAt: "2024-05-01T12:30:00Z",
			}
			tweet.PublicMetrics.RetweetCount = 7
			tweet.PublicMetrics.LikeCount = 42
			tweet.PublicMetrics.ReplyCount = 3
			tweet.PublicMetrics.QuoteCount = 1

			record := enricher.Enrich(tweet, task)

			Expect(record.ID).To(Equal("12345"))
			Expect(record.Text).To(Equal(tweet.Text))
			Expect(record.SourceID).To(Equal("Milenio"))
			Expect(record.TopicID).To(Equal("Ebrard"))
			Expect(record.RetweetCount).To(Equal(7))
			Expect(record.LikeCount).To(Equal(42))
			Expect(record.ReplyCount).To(Equal(3))
			Expect(record.QuoteCount).To(Equal(1))
			Expect(record.CreatedAt).To(Equal(time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC)))
			Expect(record.SentimentScore).To(BeNumerically(">=", -1))
			Expect(record.SentimentScore).To(BeNumerically("<=", 1))
		})

		It("falls back to collection time when created_at is malformed", func() {
			tweet := twitter.Tweet{ID: "1", Text: "hola", CreatedAt: "not-a-time"}
			record := enricher.Enrich(tweet, task)
			Expect(record.CreatedAt).To(BeTemporally("~", time.Now().UTC(), time.Minute))
		})
	})
})
