package services

import (
	"PearlDental/models"
	"context"
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceRepository is the persistence boundary of the invoice ledger. A
// lookup that finds nothing returns (nil, nil); SavePayment and DeletePayment
// persist the invoice and its transaction change atomically. SumTransactions
// re-derives the paid total from the transaction log so callers can reconcile
// it against the invoice's cached amount_paid.
type InvoiceRepository interface {
	CreateInvoice(ctx context.Context, invoice *models.Invoice) error
	GetInvoice(ctx context.Context, id string) (*models.Invoice, error)
	GetAllInvoices(ctx context.Context) ([]models.Invoice, error)
	GetInvoicesByPatient(ctx context.Context, patientID string) ([]models.Invoice, error)
	GetTransaction(ctx context.Context, invoiceID, transactionID string) (*models.PaymentTransaction, error)
	GetTransactionsByInvoice(ctx context.Context, invoiceID string) ([]models.PaymentTransaction, error)
	SavePayment(ctx context.Context, invoice *models.Invoice, transaction *models.PaymentTransaction) error
	DeletePayment(ctx context.Context, invoice *models.Invoice, transactionID string) error
	SumTransactions(ctx context.Context, invoiceID string) (decimal.Decimal, error)
}

// InvoiceLocker serializes mutations per invoice. Lock blocks until the
// invoice's lock is held and returns the release function.
type InvoiceLocker interface {
	Lock(ctx context.Context, invoiceID string) (func(), error)
}

// InvoiceService owns the invariant between an invoice's payment transactions
// and its cached amount_paid/status fields. Every mutation runs under the
// invoice's lock as a single read-modify-write.
type InvoiceService struct {
	repository InvoiceRepository
	locker     InvoiceLocker
	now        func() time.Time
}

func NewInvoiceService(repository InvoiceRepository, locker InvoiceLocker) *InvoiceService {
	return &InvoiceService{repository: repository, locker: locker, now: time.Now}
}

// InvoiceItemParams is one line item of a new invoice.
type InvoiceItemParams struct {
	Description string          `json:"description"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

// CreateInvoiceParams is the payload for creating an invoice.
type CreateInvoiceParams struct {
	PatientID string              `json:"patient_id"`
	DueDate   string              `json:"due_date"`
	Items     []InvoiceItemParams `json:"items"`
}

func (p CreateInvoiceParams) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.PatientID, validation.Required),
		validation.Field(&p.DueDate, validation.Date(models.DueDateLayout)),
		validation.Field(&p.Items, validation.Required, validation.Length(1, 0)),
	)
}

func (p InvoiceItemParams) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Description, validation.Required),
		validation.Field(&p.Quantity, validation.Required, validation.Min(1)),
		validation.Field(&p.UnitPrice, validation.Required, validation.By(positiveAmount)),
	)
}

// RecordPaymentParams is the payload for recording a payment against an
// invoice. PaymentMethod defaults to Card, PaymentDate to today.
type RecordPaymentParams struct {
	AmountPaidNow decimal.Decimal `json:"amountPaidNow"`
	PaymentMethod string          `json:"paymentMethod"`
	PaymentDate   string          `json:"paymentDate"`
	Notes         string          `json:"notes"`
}

func (p RecordPaymentParams) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.AmountPaidNow, validation.Required.Error("a positive payment amount is required"), validation.By(positiveAmount)),
		validation.Field(&p.PaymentDate, validation.Date(models.DueDateLayout)),
	)
}

func positiveAmount(value interface{}) error {
	amount, ok := value.(decimal.Decimal)
	if !ok || !amount.IsPositive() {
		return fmt.Errorf("must be a positive amount")
	}
	return nil
}

// CreateInvoice prices the line items, fixes the billed total and stores the
// invoice with nothing paid.
func (s *InvoiceService) CreateInvoice(ctx context.Context, params CreateInvoiceParams) (*models.Invoice, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	items := make([]models.InvoiceItem, len(params.Items))
	for i, item := range params.Items {
		items[i] = models.InvoiceItem{
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
		}
	}
	total := models.PriceItems(items)

	invoice := &models.Invoice{
		ID:          uuid.New().String(),
		PatientID:   params.PatientID,
		Items:       items,
		TotalAmount: total,
		AmountPaid:  decimal.Zero,
		Status:      models.DeriveInvoiceStatus(decimal.Zero, total, params.DueDate, s.now()),
		DueDate:     params.DueDate,
	}

	if err := s.repository.CreateInvoice(ctx, invoice); err != nil {
		return nil, fmt.Errorf("failed to create invoice: %w", err)
	}
	return invoice, nil
}

func (s *InvoiceService) GetInvoice(ctx context.Context, id string) (*models.Invoice, error) {
	invoice, err := s.repository.GetInvoice(ctx, id)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, ErrInvoiceNotFound
	}
	return invoice, nil
}

func (s *InvoiceService) GetAllInvoices(ctx context.Context) ([]models.Invoice, error) {
	return s.repository.GetAllInvoices(ctx)
}

func (s *InvoiceService) GetInvoicesByPatient(ctx context.Context, patientID string) ([]models.Invoice, error) {
	return s.repository.GetInvoicesByPatient(ctx, patientID)
}

// ListTransactions returns the invoice's payment transactions, most recent
// first.
func (s *InvoiceService) ListTransactions(ctx context.Context, invoiceID string) ([]models.PaymentTransaction, error) {
	invoice, err := s.repository.GetInvoice(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, ErrInvoiceNotFound
	}
	return s.repository.GetTransactionsByInvoice(ctx, invoiceID)
}

// RecordPayment appends a payment transaction to the invoice and updates the
// cached amount_paid/status under the invoice's lock. Recording against a
// Paid invoice is rejected outright. The stored transaction keeps the full
// recorded amount even when the invoice's cached total clamps at the billed
// total.
func (s *InvoiceService) RecordPayment(ctx context.Context, invoiceID string, params RecordPaymentParams) (*models.Invoice, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	release, err := s.locker.Lock(ctx, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock invoice: %w", err)
	}
	defer release()

	invoice, err := s.repository.GetInvoice(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, ErrInvoiceNotFound
	}
	if invoice.Status == models.InvoiceStatusPaid {
		return nil, ErrInvoiceAlreadyPaid
	}

	method := params.PaymentMethod
	if method == "" {
		method = "Card"
	}
	paymentDate := params.PaymentDate
	if paymentDate == "" {
		paymentDate = s.now().Format(models.DueDateLayout)
	}

	transaction := &models.PaymentTransaction{
		ID:            uuid.New().String(),
		InvoiceID:     invoice.ID,
		AmountPaid:    params.AmountPaidNow,
		PaymentDate:   paymentDate,
		PaymentMethod: method,
		Notes:         params.Notes,
		RecordedAt:    s.now(),
	}

	invoice.ApplyPayment(transaction.AmountPaid)

	if err := s.repository.SavePayment(ctx, invoice, transaction); err != nil {
		return nil, fmt.Errorf("failed to save payment: %w", err)
	}
	return invoice, nil
}

// DeletePaymentTransaction removes a recorded payment and re-derives the
// invoice's cached amount_paid/status under the invoice's lock. The
// transaction lookup is scoped to the invoice so a mismatched id cannot
// delete another invoice's payment.
func (s *InvoiceService) DeletePaymentTransaction(ctx context.Context, invoiceID, transactionID string) (*models.Invoice, error) {
	release, err := s.locker.Lock(ctx, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock invoice: %w", err)
	}
	defer release()

	invoice, err := s.repository.GetInvoice(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, ErrInvoiceNotFound
	}

	transaction, err := s.repository.GetTransaction(ctx, invoiceID, transactionID)
	if err != nil {
		return nil, err
	}
	if transaction == nil {
		return nil, ErrTransactionNotFound
	}

	invoice.ReversePayment(transaction.AmountPaid, s.now())

	if err := s.repository.DeletePayment(ctx, invoice, transactionID); err != nil {
		return nil, fmt.Errorf("failed to delete payment: %w", err)
	}
	return invoice, nil
}
