package db

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pulsomx/collector-go/pkg/db/models"
)

// RecordStore persists collected records. Writes are insert-or-overwrite by
// id, so delivering the same record twice leaves one row.
type RecordStore struct {
	db     *gorm.DB
	logger *logrus.Logger
}

func NewRecordStore(db *gorm.DB, logger *logrus.Logger) *RecordStore {
	return &RecordStore{db: db, logger: logger}
}

// SaveBatch upserts every record. Records that fail to persist are reported
// by id alongside the error so the caller can withhold the watermark for
// the batch.
func (s *RecordStore) SaveBatch(ctx context.Context, records []models.Record) (failed []string, err error) {
	for i := range records {
		record := records[i]
		result := s.db.WithContext(ctx).
			Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "id"}},
				UpdateAll: true,
			}).
			Create(&record)

		if result.Error != nil {
			s.logger.WithFields(logrus.Fields{
				"tweet_id": record.ID,
				"error":    result.Error,
			}).Error("Failed to persist record")
			failed = append(failed, record.ID)
			err = result.Error
			continue
		}

		s.logger.WithFields(logrus.Fields{
			"tweet_id":  record.ID,
			"source_id": record.SourceID,
			"topic_id":  record.TopicID,
		}).Debug("Record persisted")
	}

	if err != nil {
		return failed, fmt.Errorf("failed to persist %d of %d records: %w", len(failed), len(records), err)
	}
	return nil, nil
}

// CountBySource reports stored record counts grouped by source account.
func (s *RecordStore) CountBySource(ctx context.Context) (map[string]int64, error) {
	type row struct {
		SourceID string
		N        int64
	}

	var rows []row
	result := s.db.WithContext(ctx).
		Model(&models.Record{}).
		Select("source_id, count(*) as n").
		Group("source_id").
		Scan(&rows)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to count records: %w", result.Error)
	}

	counts := make(map[string]int64, len(rows))
	for _, r := range rows {
		counts[r.SourceID] = r.N
	}
	return counts, nil
}
