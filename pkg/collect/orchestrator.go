package collect

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/pulsomx/collector-go/pkg/cursor"
	"github.com/pulsomx/collector-go/pkg/db/models"
	"github.com/pulsomx/collector-go/pkg/interfaces/twitter"
)

// Searcher is the paginated search capability the collector consumes.
type Searcher interface {
	SearchRecent(ctx context.Context, params twitter.SearchRecentParams) ([]twitter.Tweet, error)
}

// RecordSink persists enriched records, insert-or-overwrite by id. On
// partial failure it reports the failed ids alongside the error.
type RecordSink interface {
	SaveBatch(ctx context.Context, records []models.Record) ([]string, error)
}

// Summary reports one invocation's outcome.
type Summary struct {
	RunID       string
	TasksRun    int
	TasksFailed int
	Stored      int
}

func (s Summary) String() string {
	return fmt.Sprintf("stored %d records across %d tasks (%d failed)", s.Stored, s.TasksRun, s.TasksFailed)
}

// Collector drives one invocation end to end: for each scheduled task,
// fetch, enrich, persist, then advance the watermark. Task failures are
// isolated; only startup failures abort an invocation.
type Collector struct {
	searcher Searcher
	records  RecordSink
	cursors  cursor.Store
	enricher *Enricher
	policy   Policy
	config   *Config
	logger   *logrus.Logger
}

func NewCollector(searcher Searcher, records RecordSink, cursors cursor.Store, enricher *Enricher, policy Policy, config *Config) *Collector {
	return &Collector{
		searcher: searcher,
		records:  records,
		cursors:  cursors,
		enricher: enricher,
		policy:   policy,
		config:   config,
		logger:   config.Logger,
	}
}

// Run executes one invocation. Tasks run strictly sequentially; the
// watermark for a task is advanced only after its whole batch is durable.
func (c *Collector) Run(ctx context.Context) (Summary, error) {
	summary := Summary{RunID: uuid.NewString()}
	log := c.logger.WithField("run_id", summary.RunID)

	log.Info("Starting collection run")

	for {
		item, err := c.policy.Next(ctx)
		if err != nil {
			log.WithError(err).Error("Iteration policy failed")
			break
		}
		if item == nil {
			break
		}

		summary.TasksRun++
		stored, failed := c.runTask(ctx, log, *item)
		summary.Stored += stored
		if failed {
			summary.TasksFailed++
		}

		if err := c.policy.Observe(ctx, *item, stored); err != nil {
			log.WithError(err).WithField("task_id", item.Task.ID()).Error("Failed to record task outcome")
		}
	}

	if err := c.policy.Finish(ctx); err != nil {
		log.WithError(err).Error("Failed to finalize iteration policy")
	}

	log.WithFields(logrus.Fields{
		"tasks_run":    summary.TasksRun,
		"tasks_failed": summary.TasksFailed,
		"stored":       summary.Stored,
	}).Info("Collection run complete")

	return summary, nil
}

// runTask collects one task. Returns the number of records durably stored
// and whether the task is counted as failed.
func (c *Collector) runTask(ctx context.Context, log *logrus.Entry, item WorkItem) (int, bool) {
	task := item.Task
	tlog := log.WithField("task_id", task.ID())

	watermark, ok := c.cursors.Get(ctx, task.ID())
	if !ok {
		tlog.Debug("No watermark found, treating as first run")
	} else {
		tlog = tlog.WithField("watermark", watermark)
		tlog.Debug("Resuming from stored watermark")
	}

	tweets, err := c.searcher.SearchRecent(ctx, twitter.SearchRecentParams{
		Query:     task.Query(),
		SinceID:   watermark,
		StartTime: c.config.StartTime,
		EndTime:   c.config.EndTime,
		PageSize:  c.config.PageSize,
		MaxTotal:  item.Ceiling,
	})
	if err != nil {
		// Transport failure is isolated to this task; the watermark is
		// untouched and the remaining tasks still run.
		tlog.WithError(err).Error("Search failed, skipping task")
		return 0, true
	}

	if len(tweets) == 0 {
		tlog.Info("No new tweets for this task")
		return 0, false
	}

	records := make([]models.Record, 0, len(tweets))
	for _, tweet := range tweets {
		records = append(records, c.enricher.Enrich(tweet, task))
	}

	if failedIDs, err := c.records.SaveBatch(ctx, records); err != nil {
		// Withhold the watermark for the whole batch so the failed
		// records are fetched again next invocation. Re-delivery of the
		// ones that did persist is idempotent.
		tlog.WithFields(logrus.Fields{
			"failed_ids": failedIDs,
			"error":      err,
		}).Error("Batch persistence incomplete, watermark withheld")
		return len(records) - len(failedIDs), true
	}

	newWatermark := tweets[0].ID
	if c.config.StrictWatermarks && ok && compareIDs(newWatermark, watermark) <= 0 {
		tlog.WithFields(logrus.Fields{
			"stored_watermark": watermark,
			"candidate":        newWatermark,
		}).Warn("Candidate watermark does not advance, keeping stored value")
	} else if err := c.cursors.Put(ctx, task.ID(), newWatermark); err != nil {
		// The records are durable; the next run re-fetches and overwrites
		// them under the old watermark.
		tlog.WithError(err).Error("Failed to advance watermark")
	} else {
		tlog.WithFields(logrus.Fields{
			"new_watermark": newWatermark,
			"stored":        len(records),
		}).Info("Task complete, watermark advanced")
	}

	return len(records), false
}

// compareIDs orders two decimal string ids numerically: shorter ids are
// smaller, equal-length ids compare lexicographically.
func compareIDs(a, b string) int {
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
