package handlers

import (
	"PearlDental/services"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

type InvoiceHandler struct {
	service *services.InvoiceService
}

func NewInvoiceHandler(service *services.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{service: service}
}

// respondInvoiceError maps ledger failures onto HTTP statuses: field
// validation to 400 with a per-field breakdown, missing records to 404,
// business-rule rejections to 400, everything else to 500.
func respondInvoiceError(c *gin.Context, err error) {
	var fieldErrors validation.Errors
	if errors.As(err, &fieldErrors) {
		c.JSON(http.StatusBadRequest, gin.H{"errors": fieldErrors})
		return
	}
	switch {
	case errors.Is(err, services.ErrInvoiceNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": services.ErrInvoiceNotFound.Error()})
	case errors.Is(err, services.ErrTransactionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": services.ErrTransactionNotFound.Error()})
	case errors.Is(err, services.ErrInvoiceAlreadyPaid):
		c.JSON(http.StatusBadRequest, gin.H{"error": services.ErrInvoiceAlreadyPaid.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func (h *InvoiceHandler) CreateInvoice(c *gin.Context) {
	var params services.CreateInvoiceParams
	if err := c.ShouldBindJSON(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	invoice, err := h.service.CreateInvoice(c.Request.Context(), params)
	if err != nil {
		respondInvoiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, invoice)
}

func (h *InvoiceHandler) GetInvoiceByID(c *gin.Context) {
	invoice, err := h.service.GetInvoice(c.Request.Context(), c.Param("invoice_id"))
	if err != nil {
		respondInvoiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, invoice)
}

func (h *InvoiceHandler) GetAllInvoices(c *gin.Context) {
	invoices, err := h.service.GetAllInvoices(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, invoices)
}

func (h *InvoiceHandler) GetInvoicesByPatient(c *gin.Context) {
	invoices, err := h.service.GetInvoicesByPatient(c.Request.Context(), c.Param("patient_id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, invoices)
}

func (h *InvoiceHandler) RecordPayment(c *gin.Context) {
	var params services.RecordPaymentParams
	if err := c.ShouldBindJSON(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	invoice, err := h.service.RecordPayment(c.Request.Context(), c.Param("invoice_id"), params)
	if err != nil {
		respondInvoiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, invoice)
}

func (h *InvoiceHandler) GetTransactions(c *gin.Context) {
	transactions, err := h.service.ListTransactions(c.Request.Context(), c.Param("invoice_id"))
	if err != nil {
		respondInvoiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, transactions)
}

func (h *InvoiceHandler) DeletePaymentTransaction(c *gin.Context) {
	invoice, err := h.service.DeletePaymentTransaction(c.Request.Context(), c.Param("invoice_id"), c.Param("transaction_id"))
	if err != nil {
		respondInvoiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":        "Payment transaction deleted",
		"updatedInvoice": invoice,
	})
}
