package options

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cmcount/internal/cache"
	"cmcount/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore keeps options in the `options` table and autoloads rows it has
// seen into an in-process cache. Writes go to the table first, then the cache.
type GormStore struct {
	db       *gorm.DB
	loaded   *cache.SimpleCache[string, string]
	cacheTTL time.Duration
}

// NewGormStore wraps db. cacheTTL bounds how long a cached row is trusted;
// zero keeps rows cached until this store overwrites them.
func NewGormStore(db *gorm.DB, cacheTTL time.Duration) *GormStore {
	return &GormStore{
		db:       db,
		loaded:   cache.NewSimpleCache[string, string](cache.Options{ConcurrencySafe: true}),
		cacheTTL: cacheTTL,
	}
}

func (s *GormStore) Get(ctx context.Context, name, def string) (string, error) {
	if v, ok := s.loaded.Get(name); ok {
		return v, nil
	}

	var opt models.Option
	err := s.db.WithContext(ctx).Where("option_name = ?", name).Take(&opt).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return def, nil
	}
	if err != nil {
		return def, fmt.Errorf("get option %s: %w", name, err)
	}

	if opt.Autoload {
		s.loaded.Set(name, opt.Value, s.cacheTTL)
	}
	return opt.Value, nil
}

func (s *GormStore) Add(ctx context.Context, name, value string) error {
	opt := models.Option{Name: name, Value: value, Autoload: true}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&opt).Error
	if err != nil {
		return fmt.Errorf("add option %s: %w", name, err)
	}
	// the row may have existed already; let the next Get read whichever value won
	s.loaded.Delete(name)
	return nil
}

func (s *GormStore) Set(ctx context.Context, name, value string) error {
	opt := models.Option{Name: name, Value: value, Autoload: true}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "option_name"}},
			DoUpdates: clause.AssignmentColumns([]string{"option_value", "updated_at"}),
		}).
		Create(&opt).Error
	if err != nil {
		s.loaded.Delete(name)
		return fmt.Errorf("set option %s: %w", name, err)
	}
	s.loaded.Set(name, value, s.cacheTTL)
	return nil
}

var _ Store = (*GormStore)(nil)
