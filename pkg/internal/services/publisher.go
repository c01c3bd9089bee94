package services

import (
	"time"

	"github.com/rs/zerolog/log"
	"github.com/wavelet-im/wavelet/pkg/internal/models"
	"gorm.io/gorm"
)

// PostStore is the slice of the data layer the publication engine needs.
type PostStore interface {
	FindDuePosts(now time.Time) ([]uint, error)
	PublishBatch(ids []uint) (int64, error)
}

// GormPostStore backs the publication engine with the system of record.
type GormPostStore struct {
	DB *gorm.DB
}

func (s GormPostStore) FindDuePosts(now time.Time) ([]uint, error) {
	var ids []uint
	err := s.DB.Model(&models.Post{}).
		Where("is_published = ?", false).
		Where("scheduled_at IS NOT NULL AND scheduled_at <= ?", now).
		Where("moderation_status <> ?", models.ModerationRejected).
		Pluck("id", &ids).Error
	return ids, err
}

// PublishBatch flips the given posts to published. The predicate is
// repeated in the update so only rows still unpublished are affected; a
// concurrent or repeated sweep therefore cannot publish a post twice.
func (s GormPostStore) PublishBatch(ids []uint) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	result := s.DB.Model(&models.Post{}).
		Where("id IN ?", ids).
		Where("is_published = ?", false).
		Update("is_published", true)
	return result.RowsAffected, result.Error
}

// Publisher is the engine promoting due scheduled posts to published. It
// runs on its own timer, independent of any live connection, and takes no
// lock: the conditional batch update serializes concurrent sweeps at the
// data layer.
type Publisher struct {
	Now         func() time.Time
	OnPublished func(ids []uint)

	store PostStore
}

func NewPublisher(store PostStore) *Publisher {
	return &Publisher{
		Now:   time.Now,
		store: store,
	}
}

// Sweep runs one publication pass against the injected clock and reports
// how many posts were flipped. Failures are logged, never fatal: a missed
// sweep only delays publication until the next tick.
func (v *Publisher) Sweep(now time.Time) int64 {
	ids, err := v.store.FindDuePosts(now)
	if err != nil {
		log.Warn().Err(err).Msg("An error occurred when looking for due scheduled posts...")
		return 0
	}
	if len(ids) == 0 {
		return 0
	}

	count, err := v.store.PublishBatch(ids)
	if err != nil {
		log.Warn().Err(err).Msg("An error occurred when publishing scheduled posts...")
		return 0
	}

	if count > 0 {
		log.Info().Int64("count", count).Msg("Published scheduled posts.")
		if v.OnPublished != nil {
			v.OnPublished(ids)
		}
	}

	return count
}

// Run is the cron entrypoint.
func (v *Publisher) Run() {
	v.Sweep(v.Now())
}
