package repositories

import (
	"PearlDental/cache"
	"PearlDental/database"
	"PearlDental/models"
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"
)

const (
	MessageCacheExpiry = 24 * time.Hour
)

// MessageRepository persists staff messages. Inbox listings are short-lived
// in cache since read flags change often.
type MessageRepository struct {
	cache *cache.Cache
}

func NewMessageRepository(cache *cache.Cache) *MessageRepository {
	return &MessageRepository{cache: cache}
}

func (r *MessageRepository) Create(ctx context.Context, message *models.Message) error {
	if err := database.DB.Create(message).Error; err != nil {
		return fmt.Errorf("failed to create message: %w", err)
	}
	return r.invalidateInbox(ctx, message.RecipientID)
}

func (r *MessageRepository) GetByID(ctx context.Context, id uint) (*models.Message, error) {
	var message models.Message
	err := database.DB.First(&message, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get message: %w", err)
	}
	return &message, nil
}

func (r *MessageRepository) GetInbox(ctx context.Context, recipientID int64) ([]models.Message, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cacheKey := fmt.Sprintf("inbox_cache:%d", recipientID)
	var cached []models.Message
	if err := r.cache.GetJSON(ctx, cacheKey, &cached); err == nil {
		return cached, nil
	} else if err != cache.ErrCacheMiss {
		log.Printf("Failed to get inbox from cache: %v", err)
	}

	var messages []models.Message
	err := database.DB.
		Where("recipient_id = ?", recipientID).
		Order("created_at DESC").
		Find(&messages).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get inbox: %w", err)
	}

	if err := r.cache.SetJSON(ctx, cacheKey, messages, MessageCacheExpiry); err != nil {
		log.Printf("Failed to set inbox in cache: %v", err)
	}
	return messages, nil
}

// MarkRead flips the read flag on a message.
func (r *MessageRepository) MarkRead(ctx context.Context, message *models.Message) error {
	err := database.DB.Model(&models.Message{}).
		Where("id = ?", message.ID).
		Update("read", true).Error
	if err != nil {
		return fmt.Errorf("failed to mark message read: %w", err)
	}
	message.Read = true
	return r.invalidateInbox(ctx, message.RecipientID)
}

func (r *MessageRepository) Delete(ctx context.Context, message *models.Message) error {
	if err := database.DB.Delete(&models.Message{}, "id = ?", message.ID).Error; err != nil {
		return fmt.Errorf("failed to delete message: %w", err)
	}
	return r.invalidateInbox(ctx, message.RecipientID)
}

func (r *MessageRepository) invalidateInbox(ctx context.Context, recipientID int64) error {
	return r.cache.Delete(ctx, fmt.Sprintf("inbox_cache:%d", recipientID))
}
