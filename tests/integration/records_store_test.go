package integration

import (
	"context"
	"os"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sirupsen/logrus"

	"github.com/pulsomx/collector-go/pkg/db"
	"github.com/pulsomx/collector-go/pkg/db/models"
)

var _ = Describe("RecordStore", func() {
	var (
		ctx    context.Context
		logger *logrus.Logger
		store  *db.RecordStore
	)

	BeforeEach(func() {
		if os.Getenv("INTEGRATION_TESTS") != "true" {
			Skip("Skipping integration test")
		}
		if os.Getenv("DB_HOST") == "" {
			Skip("DB_HOST not configured")
		}

		logger = logrus.New()
		logger.SetLevel(logrus.DebugLevel)

		database, err := db.SetupDatabase(logger)
		Expect(err).NotTo(HaveOccurred())

		ctx = context.Background()
		store = db.NewRecordStore(database, logger)
	})

	It("reports the schema as fully migrated", func() {
		version, dirty, err := db.MigrationStatus(logger)
		Expect(err).NotTo(HaveOccurred())
		Expect(version).To(BeNumerically(">=", 1))
		Expect(dirty).To(BeFalse())
	})

	It("upserts batches idempotently and counts them by source", func() {
		now := time.Now().UTC()
		batch := []models.Record{
			{
				ID:           "it_record_1",
				CreatedAt:    now,
				SourceID:     "it_source",
				TopicID:      "it_topic",
				Text:         "primera nota",
				CollectedAt:  now,
				RetweetCount: 1,
			},
			{
				ID:          "it_record_2",
				CreatedAt:   now,
				SourceID:    "it_source",
				TopicID:     "it_topic",
				Text:        "segunda nota",
				CollectedAt: now,
			},
		}

		failed, err := store.SaveBatch(ctx, batch)
		Expect(err).NotTo(HaveOccurred())
		Expect(failed).To(BeEmpty())

		// Delivering the same ids again must not grow the table.
		failed, err = store.SaveBatch(ctx, batch)
		Expect(err).NotTo(HaveOccurred())
		Expect(failed).To(BeEmpty())

		counts, err := store.CountBySource(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(counts["it_source"]).To(Equal(int64(2)))
	})
})
