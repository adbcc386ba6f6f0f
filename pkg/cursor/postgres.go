package cursor

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pulsomx/collector-go/pkg/db/models"
)

// PostgresStore keeps cursor state in the collection_state table.
type PostgresStore struct {
	db     *gorm.DB
	logger *logrus.Logger
}

func NewPostgresStore(db *gorm.DB, logger *logrus.Logger) *PostgresStore {
	return &PostgresStore{db: db, logger: logger}
}

func (s *PostgresStore) Get(ctx context.Context, key string) (string, bool) {
	var entry models.StateEntry
	result := s.db.WithContext(ctx).First(&entry, "key = ?", key)
	if result.Error != nil {
		if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
			// Transient store failures cost freshness, not collection.
			s.logger.WithFields(logrus.Fields{
				"key":   key,
				"error": result.Error,
			}).Warn("Cursor read failed, treating as absent")
		}
		return "", false
	}
	return entry.Value, true
}

func (s *PostgresStore) Put(ctx context.Context, key, value string) error {
	entry := models.StateEntry{Key: key, Value: value}
	result := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.Assignments(map[string]interface{}{"value": value}),
		}).
		Create(&entry)
	if result.Error != nil {
		return fmt.Errorf("failed to store cursor %s: %w", key, result.Error)
	}
	return nil
}

func (s *PostgresStore) GetInt(ctx context.Context, key string) (int64, bool) {
	raw, ok := s.Get(ctx, key)
	if !ok {
		return 0, false
	}

	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		s.logger.WithFields(logrus.Fields{
			"key":   key,
			"value": raw,
		}).Warn("Counter value is not an integer, treating as absent")
		return 0, false
	}
	return n, true
}

func (s *PostgresStore) Increment(ctx context.Context, key string, delta int64) (int64, error) {
	// Single-statement upsert-add so overlapping invocations never lose an
	// update.
	var total int64
	result := s.db.WithContext(ctx).Raw(`
		INSERT INTO collection_state (key, value)
		VALUES (?, ?)
		ON CONFLICT (key) DO UPDATE
		SET value = ((collection_state.value)::bigint + (EXCLUDED.value)::bigint)::text
		RETURNING (value)::bigint
	`, key, strconv.FormatInt(delta, 10)).Scan(&total)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to increment counter %s: %w", key, result.Error)
	}
	return total, nil
}
