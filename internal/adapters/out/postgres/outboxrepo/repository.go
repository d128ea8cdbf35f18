package outboxrepo

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/outbox"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormOutboxRepository implements OutboxRepository using GORM.
type GormOutboxRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormOutboxRepository creates a new GORM outbox repository.
func NewGormOutboxRepository(db *gorm.DB, tracker aggregateTracker) *GormOutboxRepository {
	return &GormOutboxRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new outbox message to the database.
func (r *GormOutboxRepository) Add(ctx context.Context, aggregate *outbox.Message) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update saves an existing outbox message to the database.
func (r *GormOutboxRepository) Update(ctx context.Context, aggregate *outbox.Message) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).Save(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// ClaimPending retrieves up to limit due pending messages, oldest first,
// locking the rows with SKIP LOCKED so concurrent workers never fight over
// the same batch. A message is due when it has no scheduled retry or its
// retry time has passed.
func (r *GormOutboxRepository) ClaimPending(ctx context.Context, limit int, now time.Time) ([]*outbox.Message, error) {
	var dtos []MessageDTO
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"}).
		Where("status = ? AND (next_retry_at IS NULL OR next_retry_at <= ?)", int(outbox.StatusPending), now).
		Order("created_at ASC").
		Limit(limit).
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	messages := make([]*outbox.Message, 0, len(dtos))
	for _, dto := range dtos {
		m, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}

	return messages, nil
}
