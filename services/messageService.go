package services

import (
	"PearlDental/models"
	"PearlDental/repositories"
	"context"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

type MessageService struct {
	repository *repositories.MessageRepository
}

func NewMessageService(repository *repositories.MessageRepository) *MessageService {
	return &MessageService{repository: repository}
}

func validateMessage(message *models.Message) error {
	return validation.ValidateStruct(message,
		validation.Field(&message.SenderID, validation.Required),
		validation.Field(&message.RecipientID, validation.Required),
		validation.Field(&message.Subject, validation.Required, validation.Length(1, 255)),
		validation.Field(&message.Body, validation.Required),
	)
}

func (s *MessageService) Send(ctx context.Context, message *models.Message) error {
	if err := validateMessage(message); err != nil {
		return err
	}
	return s.repository.Create(ctx, message)
}

func (s *MessageService) GetByID(ctx context.Context, id uint) (*models.Message, error) {
	message, err := s.repository.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if message == nil {
		return nil, ErrMessageNotFound
	}
	return message, nil
}

func (s *MessageService) GetInbox(ctx context.Context, recipientID int64) ([]models.Message, error) {
	return s.repository.GetInbox(ctx, recipientID)
}

func (s *MessageService) MarkRead(ctx context.Context, id uint) (*models.Message, error) {
	message, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.repository.MarkRead(ctx, message); err != nil {
		return nil, err
	}
	return message, nil
}

func (s *MessageService) Delete(ctx context.Context, id uint) error {
	message, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	return s.repository.Delete(ctx, message)
}
