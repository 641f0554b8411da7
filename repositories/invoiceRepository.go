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

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	InvoiceCacheExpiry = 7 * 24 * time.Hour
)

// InvoiceRepository persists invoices and their payment transactions in
// PostgreSQL with a Redis read cache. Payment writes run in one database
// transaction so the invoice's cached totals and the transaction log can
// never diverge mid-operation.
type InvoiceRepository struct {
	cache *cache.Cache
}

func NewInvoiceRepository(cache *cache.Cache) *InvoiceRepository {
	return &InvoiceRepository{cache: cache}
}

func (r *InvoiceRepository) CreateInvoice(ctx context.Context, invoice *models.Invoice) error {
	// Check if the patient exists
	var patient models.Patient
	if err := database.DB.First(&patient, "id = ?", invoice.PatientID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("patient not found")
		}
		return fmt.Errorf("failed to find patient: %w", err)
	}

	for i := range invoice.Items {
		invoice.Items[i].InvoiceID = invoice.ID
	}

	if err := database.DB.Create(invoice).Error; err != nil {
		return fmt.Errorf("failed to create invoice: %w", err)
	}

	r.invalidateInvoiceCaches(ctx, invoice.ID, invoice.PatientID)
	return nil
}

func (r *InvoiceRepository) GetInvoice(ctx context.Context, id string) (*models.Invoice, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cacheKey := r.getInvoiceCacheKey(id)
	var cached models.Invoice
	if err := r.cache.GetJSON(ctx, cacheKey, &cached); err == nil {
		return &cached, nil
	} else if err != cache.ErrCacheMiss {
		log.Printf("Failed to get invoice from cache: %v", err)
	}

	var invoice models.Invoice
	err := database.DB.
		Preload("Items").
		First(&invoice, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get invoice: %w", err)
	}

	if err := r.cache.SetJSON(ctx, cacheKey, invoice, InvoiceCacheExpiry); err != nil {
		log.Printf("Failed to set invoice in cache: %v", err)
	}

	return &invoice, nil
}

func (r *InvoiceRepository) GetAllInvoices(ctx context.Context) ([]models.Invoice, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cacheKey := "invoices_cache"
	var cached []models.Invoice
	if err := r.cache.GetJSON(ctx, cacheKey, &cached); err == nil {
		return cached, nil
	} else if err != cache.ErrCacheMiss {
		log.Printf("Failed to get invoices from cache: %v", err)
	}

	var invoices []models.Invoice
	err := database.DB.
		Preload("Items").
		Order("created_at DESC").
		Find(&invoices).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get all invoices: %w", err)
	}

	if err := r.cache.SetJSON(ctx, cacheKey, invoices, InvoiceCacheExpiry); err != nil {
		log.Printf("Failed to set invoices in cache: %v", err)
	}

	return invoices, nil
}

func (r *InvoiceRepository) GetInvoicesByPatient(ctx context.Context, patientID string) ([]models.Invoice, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var invoices []models.Invoice
	err := database.DB.
		Preload("Items").
		Where("patient_id = ?", patientID).
		Order("created_at DESC").
		Find(&invoices).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get invoices for patient: %w", err)
	}
	return invoices, nil
}

// GetTransaction looks up a payment transaction scoped to its invoice.
func (r *InvoiceRepository) GetTransaction(ctx context.Context, invoiceID, transactionID string) (*models.PaymentTransaction, error) {
	var transaction models.PaymentTransaction
	err := database.DB.
		First(&transaction, "invoice_id = ? AND id = ?", invoiceID, transactionID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get payment transaction: %w", err)
	}
	return &transaction, nil
}

func (r *InvoiceRepository) GetTransactionsByInvoice(ctx context.Context, invoiceID string) ([]models.PaymentTransaction, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var transactions []models.PaymentTransaction
	err := database.DB.
		Where("invoice_id = ?", invoiceID).
		Order("recorded_at DESC").
		Find(&transactions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get payment transactions: %w", err)
	}
	return transactions, nil
}

// SavePayment stores the new payment transaction and the recomputed invoice
// fields in one database transaction.
func (r *InvoiceRepository) SavePayment(ctx context.Context, invoice *models.Invoice, transaction *models.PaymentTransaction) error {
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(transaction).Error; err != nil {
			return fmt.Errorf("failed to create payment transaction: %w", err)
		}
		return r.updateInvoiceTotals(tx, invoice)
	})
	if err != nil {
		return err
	}
	r.invalidateInvoiceCaches(ctx, invoice.ID, invoice.PatientID)
	return nil
}

// DeletePayment removes the payment transaction and stores the recomputed
// invoice fields in one database transaction.
func (r *InvoiceRepository) DeletePayment(ctx context.Context, invoice *models.Invoice, transactionID string) error {
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&models.PaymentTransaction{}, "invoice_id = ? AND id = ?", invoice.ID, transactionID)
		if result.Error != nil {
			return fmt.Errorf("failed to delete payment transaction: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return errors.New("payment transaction already removed")
		}
		return r.updateInvoiceTotals(tx, invoice)
	})
	if err != nil {
		return err
	}
	r.invalidateInvoiceCaches(ctx, invoice.ID, invoice.PatientID)
	return nil
}

func (r *InvoiceRepository) updateInvoiceTotals(tx *gorm.DB, invoice *models.Invoice) error {
	err := tx.Model(&models.Invoice{}).
		Where("id = ?", invoice.ID).
		Updates(map[string]interface{}{
			"amount_paid": invoice.AmountPaid,
			"status":      invoice.Status,
		}).Error
	if err != nil {
		return fmt.Errorf("failed to update invoice totals: %w", err)
	}
	return nil
}

// SumTransactions re-derives an invoice's paid total from its transaction
// log. Used by consistency checks rather than the request path.
func (r *InvoiceRepository) SumTransactions(ctx context.Context, invoiceID string) (decimal.Decimal, error) {
	transactions, err := r.GetTransactionsByInvoice(ctx, invoiceID)
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, transaction := range transactions {
		total = total.Add(transaction.AmountPaid)
	}
	return total, nil
}

// invalidateInvoiceCaches drops every cached view touched by an invoice
// write. The database commit already happened, so failures here are logged
// rather than surfaced: the payment persisted and the caller must see it as
// applied.
func (r *InvoiceRepository) invalidateInvoiceCaches(ctx context.Context, invoiceID, patientID string) {
	if err := r.cache.Delete(ctx, r.getInvoiceCacheKey(invoiceID)); err != nil {
		log.Printf("Failed to delete invoice cache: %v", err)
	}
	if err := r.cache.Delete(ctx, "invoices_cache"); err != nil {
		log.Printf("Failed to delete all invoices cache: %v", err)
	}
	// Patient views embed billing state
	if err := r.cache.Delete(ctx, fmt.Sprintf("patient_cache:%s", patientID)); err != nil {
		log.Printf("Failed to delete patient cache: %v", err)
	}
	if err := r.cache.DeleteAll(ctx, "patients_cache"); err != nil {
		log.Printf("Failed to delete patients cache: %v", err)
	}
}

func (r *InvoiceRepository) getInvoiceCacheKey(id string) string {
	return fmt.Sprintf("invoice_cache:%s", id)
}
