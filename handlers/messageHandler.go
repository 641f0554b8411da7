package handlers

import (
	"PearlDental/models"
	"PearlDental/services"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

type MessageHandler struct {
	service *services.MessageService
}

func NewMessageHandler(service *services.MessageService) *MessageHandler {
	return &MessageHandler{service: service}
}

func respondMessageError(c *gin.Context, err error) {
	var fieldErrors validation.Errors
	if errors.As(err, &fieldErrors) {
		c.JSON(http.StatusBadRequest, gin.H{"errors": fieldErrors})
		return
	}
	if errors.Is(err, services.ErrMessageNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": services.ErrMessageNotFound.Error()})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

func (h *MessageHandler) SendMessage(c *gin.Context) {
	var message models.Message
	if err := c.ShouldBindJSON(&message); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.service.Send(c.Request.Context(), &message); err != nil {
		respondMessageError(c, err)
		return
	}
	c.JSON(http.StatusCreated, message)
}

func (h *MessageHandler) GetMessageByID(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("message_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID"})
		return
	}
	message, err := h.service.GetByID(c.Request.Context(), uint(id))
	if err != nil {
		respondMessageError(c, err)
		return
	}
	c.JSON(http.StatusOK, message)
}

// GetInbox lists messages for the recipient given in the query string, most
// recent first.
func (h *MessageHandler) GetInbox(c *gin.Context) {
	recipientID, err := strconv.ParseInt(c.Query("recipient_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "recipient_id query parameter is required"})
		return
	}
	messages, err := h.service.GetInbox(c.Request.Context(), recipientID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, messages)
}

func (h *MessageHandler) MarkMessageRead(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("message_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID"})
		return
	}
	message, err := h.service.MarkRead(c.Request.Context(), uint(id))
	if err != nil {
		respondMessageError(c, err)
		return
	}
	c.JSON(http.StatusOK, message)
}

func (h *MessageHandler) DeleteMessage(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("message_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID"})
		return
	}
	if err := h.service.Delete(c.Request.Context(), uint(id)); err != nil {
		respondMessageError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Message deleted"})
}
