package webhookrepo

import (
	"context"
	"errors"

	"dispatch/internal/core/domain/model/outbox"
	"dispatch/internal/core/domain/model/webhook"
	"dispatch/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormWebhookEventRepository implements WebhookEventRepository using GORM.
type GormWebhookEventRepository struct {
	db *gorm.DB
}

// NewGormWebhookEventRepository creates a new GORM webhook event repository.
func NewGormWebhookEventRepository(db *gorm.DB) *GormWebhookEventRepository {
	return &GormWebhookEventRepository{db: db}
}

// Add saves a new dedupe record. Inserting a duplicate (platform, message_id)
// pair fails on the primary key, which is the intended race outcome.
func (r *GormWebhookEventRepository) Add(ctx context.Context, aggregate *webhook.Event) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	return r.db.WithContext(ctx).Create(&dto).Error
}

// Update saves an existing dedupe record.
func (r *GormWebhookEventRepository) Update(ctx context.Context, aggregate *webhook.Event) error {
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

	return nil
}

// Get retrieves the dedupe record for one inbound message.
func (r *GormWebhookEventRepository) Get(ctx context.Context, platform outbox.Platform, messageID string) (*webhook.Event, error) {
	if err := platform.Validate(); err != nil {
		return nil, err
	}

	var dto EventDTO
	err := r.db.WithContext(ctx).
		First(&dto, "platform = ? AND message_id = ?", int(platform), messageID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("message id", messageID)
		}
		return nil, err
	}

	return toDomain(dto)
}
