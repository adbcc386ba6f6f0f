package collect_test

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sirupsen/logrus"

	"github.com/pulsomx/collector-go/pkg/collect"
	"github.com/pulsomx/collector-go/pkg/cursor"
	"github.com/pulsomx/collector-go/pkg/db/models"
	"github.com/pulsomx/collector-go/pkg/interfaces/twitter"
)

// fakeSearcher returns canned results per query and records the params it
// was called with.
type fakeSearcher struct {
	results map[string][]twitter.Tweet
	errs    map[string]error
	calls   []twitter.SearchRecentParams
}

func newFakeSearcher() *fakeSearcher {
	return &fakeSearcher{
		results: make(map[string][]twitter.Tweet),
		errs:    make(map[string]error),
	}
}

func (f *fakeSearcher) SearchRecent(_ context.Context, params twitter.SearchRecentParams) ([]twitter.Tweet, error) {
	f.calls = append(f.calls, params)
	if err, ok := f.errs[params.Query]; ok {
		return nil, err
	}
	return f.results[params.Query], nil
}

// fakeSink stores records in a map keyed by id and can be told to fail
// specific ids.
type fakeSink struct {
	rows    map[string]models.Record
	failIDs map[string]bool
	saves   int
}

func newFakeSink() *fakeSink {
	return &fakeSink{
		rows:    make(map[string]models.Record),
		failIDs: make(map[string]bool),
	}
}

func (f *fakeSink) SaveBatch(_ context.Context, records []models.Record) ([]string, error) {
	var failed []string
	for _, record := range records {
		f.saves++
		if f.failIDs[record.ID] {
			failed = append(failed, record.ID)
			continue
		}
		f.rows[record.ID] = record
	}
	if len(failed) > 0 {
		return failed, errors.New("simulated write failure")
	}
	return nil, nil
}

func tweetsWithIDs(ids ...string) []twitter.Tweet {
	tweets := make([]twitter.Tweet, 0, len(ids))
	for _, id := range ids {
		tweets = append(tweets, twitter.Tweet{
			ID:        id,
			Text:      "tweet " + id,
			CreatedAt: "2024-05-01T12:00:00Z",
		})
	}
	return tweets
}

var _ = Describe("Collector", func() {
	var (
		ctx      context.Context
		searcher *fakeSearcher
		sink     *fakeSink
		cursors  *cursor.MemoryStore
		config   *collect.Config
		taskA    collect.Task
		taskB    collect.Task
	)

	newCollector := func(tasks ...collect.Task) *collect.Collector {
		policy := collect.NewFullSweep(tasks, config.PerTaskLimit)
		return collect.NewCollector(searcher, sink, cursors, collect.NewEnricher(), policy, config)
	}

	BeforeEach(func() {
		ctx = context.Background()
		searcher = newFakeSearcher()
		sink = newFakeSink()
		cursors = cursor.NewMemoryStore()

		logger := logrus.New()
		logger.SetLevel(logrus.PanicLevel)
		config = &collect.Config{
			PolicyName:   collect.PolicyFullSweep,
			PerTaskLimit: 1000,
			PageSize:     100,
			Logger:       logger,
		}

		taskA = collect.Task{SourceID: "Reforma", TopicID: "Sheinbaum", Terms: []string{"@Claudiashein"}}
		taskB = collect.Task{SourceID: "Milenio", TopicID: "Galvez", Terms: []string{"@XochitlGalvez"}}
	})

	Context("fresh task with no watermark", func() {
		It("stores all records and sets the watermark to the newest id", func() {
			searcher.results[taskA.Query()] = tweetsWithIDs("105", "104", "103")

			summary, err := newCollector(taskA).Run(ctx)
			Expect(err).NotTo(HaveOccurred())

			Expect(summary.Stored).To(Equal(3))
			Expect(summary.TasksRun).To(Equal(1))
			Expect(summary.TasksFailed).To(BeZero())
			Expect(sink.rows).To(HaveLen(3))

			watermark, ok := cursors.Get(ctx, taskA.ID())
			Expect(ok).To(BeTrue())
			Expect(watermark).To(Equal("105"))

			Expect(searcher.calls).To(HaveLen(1))
			Expect(searcher.calls[0].SinceID).To(BeEmpty())
		})
	})

	Context("existing watermark and no new results", func() {
		It("keeps the watermark and reports success with zero stored", func() {
			Expect(cursors.Put(ctx, taskA.ID(), "100")).To(Succeed())

			summary, err := newCollector(taskA).Run(ctx)
			Expect(err).NotTo(HaveOccurred())

			Expect(summary.Stored).To(BeZero())
			Expect(summary.TasksFailed).To(BeZero())

			watermark, ok := cursors.Get(ctx, taskA.ID())
			Expect(ok).To(BeTrue())
			Expect(watermark).To(Equal("100"))

			Expect(searcher.calls).To(HaveLen(1))
			Expect(searcher.calls[0].SinceID).To(Equal("100"))
		})
	})

	Context("transport failure on one task", func() {
		It("isolates the failure and still runs the other task", func() {
			searcher.errs[taskA.Query()] = errors.New("rate limited")
			searcher.results[taskB.Query()] = tweetsWithIDs("201", "200")

			summary, err := newCollector(taskA, taskB).Run(ctx)
			Expect(err).NotTo(HaveOccurred())

			Expect(summary.TasksRun).To(Equal(2))
			Expect(summary.TasksFailed).To(Equal(1))
			Expect(summary.Stored).To(Equal(2))

			_, ok := cursors.Get(ctx, taskA.ID())
			Expect(ok).To(BeFalse())

			watermark, ok := cursors.Get(ctx, taskB.ID())
			Expect(ok).To(BeTrue())
			Expect(watermark).To(Equal("201"))
		})
	})

	Context("batch persistence failure", func() {
		It("withholds the watermark at its pre-batch value", func() {
			Expect(cursors.Put(ctx, taskA.ID(), "100")).To(Succeed())
			searcher.results[taskA.Query()] = tweetsWithIDs("105", "104", "103")
			sink.failIDs["104"] = true

			summary, err := newCollector(taskA).Run(ctx)
			Expect(err).NotTo(HaveOccurred())

			Expect(summary.TasksFailed).To(Equal(1))

			watermark, ok := cursors.Get(ctx, taskA.ID())
			Expect(ok).To(BeTrue())
			Expect(watermark).To(Equal("100"))
		})
	})

	Context("repeated delivery of the same records", func() {
		It("is idempotent by record id", func() {
			searcher.results[taskA.Query()] = tweetsWithIDs("105", "104", "103")

			_, err := newCollector(taskA).Run(ctx)
			Expect(err).NotTo(HaveOccurred())

			// Second invocation re-fetches the same batch (e.g. after a
			// lost watermark write).
			Expect(cursors.Put(ctx, taskA.ID(), "")).To(Succeed())
			_, err = newCollector(taskA).Run(ctx)
			Expect(err).NotTo(HaveOccurred())

			Expect(sink.rows).To(HaveLen(3))
			Expect(sink.saves).To(Equal(6))
		})
	})

	Context("strict watermarks", func() {
		It("refuses to move the watermark backwards", func() {
			config.StrictWatermarks = true
			Expect(cursors.Put(ctx, taskA.ID(), "200")).To(Succeed())
			searcher.results[taskA.Query()] = tweetsWithIDs("105", "104")

			_, err := newCollector(taskA).Run(ctx)
			Expect(err).NotTo(HaveOccurred())

			watermark, _ := cursors.Get(ctx, taskA.ID())
			Expect(watermark).To(Equal("200"))
		})
	})

	Context("budgeted policy wiring", func() {
		It("passes the shrunken ceiling downstream", func() {
			searcher.results[taskA.Query()] = tweetsWithIDs("3", "2", "1")

			policy := collect.NewBudgetedSweep([]collect.Task{taskA}, 100, 3, cursors, config.Logger)
			collector := collect.NewCollector(searcher, sink, cursors, collect.NewEnricher(), policy, config)

			summary, err := collector.Run(ctx)
			Expect(err).NotTo(HaveOccurred())

			Expect(searcher.calls[0].MaxTotal).To(Equal(3))
			Expect(summary.Stored).To(Equal(3))
		})
	})
})
