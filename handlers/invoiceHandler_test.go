package handlers

import (
	"PearlDental/models"
	"PearlDental/services"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubInvoiceRepo serves a single invoice and its transactions from memory.
type stubInvoiceRepo struct {
	invoice      *models.Invoice
	transactions []models.PaymentTransaction
}

func (r *stubInvoiceRepo) CreateInvoice(_ context.Context, invoice *models.Invoice) error {
	r.invoice = invoice
	return nil
}

func (r *stubInvoiceRepo) GetInvoice(_ context.Context, id string) (*models.Invoice, error) {
	if r.invoice == nil || r.invoice.ID != id {
		return nil, nil
	}
	return r.invoice, nil
}

func (r *stubInvoiceRepo) GetAllInvoices(_ context.Context) ([]models.Invoice, error) {
	if r.invoice == nil {
		return nil, nil
	}
	return []models.Invoice{*r.invoice}, nil
}

func (r *stubInvoiceRepo) GetInvoicesByPatient(_ context.Context, patientID string) ([]models.Invoice, error) {
	if r.invoice == nil || r.invoice.PatientID != patientID {
		return nil, nil
	}
	return []models.Invoice{*r.invoice}, nil
}

func (r *stubInvoiceRepo) GetTransaction(_ context.Context, invoiceID, transactionID string) (*models.PaymentTransaction, error) {
	for _, transaction := range r.transactions {
		if transaction.InvoiceID == invoiceID && transaction.ID == transactionID {
			return &transaction, nil
		}
	}
	return nil, nil
}

func (r *stubInvoiceRepo) GetTransactionsByInvoice(_ context.Context, invoiceID string) ([]models.PaymentTransaction, error) {
	var transactions []models.PaymentTransaction
	for _, transaction := range r.transactions {
		if transaction.InvoiceID == invoiceID {
			transactions = append(transactions, transaction)
		}
	}
	return transactions, nil
}

func (r *stubInvoiceRepo) SumTransactions(_ context.Context, invoiceID string) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, transaction := range r.transactions {
		if transaction.InvoiceID == invoiceID {
			total = total.Add(transaction.AmountPaid)
		}
	}
	return total, nil
}

func (r *stubInvoiceRepo) SavePayment(_ context.Context, invoice *models.Invoice, transaction *models.PaymentTransaction) error {
	r.invoice = invoice
	r.transactions = append(r.transactions, *transaction)
	return nil
}

func (r *stubInvoiceRepo) DeletePayment(_ context.Context, invoice *models.Invoice, transactionID string) error {
	r.invoice = invoice
	kept := r.transactions[:0]
	for _, transaction := range r.transactions {
		if transaction.ID != transactionID {
			kept = append(kept, transaction)
		}
	}
	r.transactions = kept
	return nil
}

type noopLocker struct{}

func (noopLocker) Lock(_ context.Context, _ string) (func(), error) {
	return func() {}, nil
}

func newInvoiceTestRouter(repo *stubInvoiceRepo) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := NewInvoiceHandler(services.NewInvoiceService(repo, noopLocker{}))

	router := gin.New()
	router.POST("/invoices", handler.CreateInvoice)
	router.GET("/invoices/:invoice_id", handler.GetInvoiceByID)
	router.POST("/invoices/:invoice_id/record-payment", handler.RecordPayment)
	router.GET("/invoices/:invoice_id/transactions", handler.GetTransactions)
	router.DELETE("/invoices/:invoice_id/transactions/:transaction_id", handler.DeletePaymentTransaction)
	return router
}

func pendingInvoice(total string) *models.Invoice {
	return &models.Invoice{
		ID:          "inv-1",
		PatientID:   "patient-1",
		TotalAmount: decimal.RequireFromString(total),
		AmountPaid:  decimal.Zero,
		Status:      models.InvoiceStatusPending,
	}
}

func TestCreateInvoiceEndpoint(t *testing.T) {
	router := newInvoiceTestRouter(&stubInvoiceRepo{})

	body := `{"patient_id":"patient-1","due_date":"2099-01-01","items":[{"description":"Cleaning","quantity":1,"unit_price":"120.00"}]}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/invoices", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var invoice models.Invoice
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &invoice))
	assert.Equal(t, models.InvoiceStatusPending, invoice.Status)
	assert.True(t, invoice.TotalAmount.Equal(decimal.RequireFromString("120.00")))
}

func TestCreateInvoiceEndpointValidation(t *testing.T) {
	router := newInvoiceTestRouter(&stubInvoiceRepo{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/invoices", bytes.NewBufferString(`{"patient_id":"","items":[]}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "errors")
}

func TestRecordPaymentEndpoint(t *testing.T) {
	repo := &stubInvoiceRepo{invoice: pendingInvoice("550.00")}
	router := newInvoiceTestRouter(repo)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/invoices/inv-1/record-payment", bytes.NewBufferString(`{"amountPaidNow":"200.00"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var invoice models.Invoice
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &invoice))
	assert.Equal(t, models.InvoiceStatusPartial, invoice.Status)
	assert.True(t, invoice.AmountPaid.Equal(decimal.RequireFromString("200.00")))
}

func TestRecordPaymentEndpointMissingInvoice(t *testing.T) {
	router := newInvoiceTestRouter(&stubInvoiceRepo{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/invoices/no-such/record-payment", bytes.NewBufferString(`{"amountPaidNow":"200.00"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRecordPaymentEndpointAlreadyPaid(t *testing.T) {
	invoice := pendingInvoice("550.00")
	invoice.AmountPaid = invoice.TotalAmount
	invoice.Status = models.InvoiceStatusPaid
	router := newInvoiceTestRouter(&stubInvoiceRepo{invoice: invoice})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/invoices/inv-1/record-payment", bytes.NewBufferString(`{"amountPaidNow":"50.00"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "already fully paid")
}

func TestDeletePaymentTransactionEndpoint(t *testing.T) {
	invoice := pendingInvoice("550.00")
	invoice.AmountPaid = decimal.RequireFromString("200.00")
	invoice.Status = models.InvoiceStatusPartial
	repo := &stubInvoiceRepo{
		invoice: invoice,
		transactions: []models.PaymentTransaction{
			{ID: "txn-1", InvoiceID: "inv-1", AmountPaid: decimal.RequireFromString("200.00")},
		},
	}
	router := newInvoiceTestRouter(repo)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/invoices/inv-1/transactions/txn-1", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var response struct {
		Message        string         `json:"message"`
		UpdatedInvoice models.Invoice `json:"updatedInvoice"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "Payment transaction deleted", response.Message)
	assert.Equal(t, models.InvoiceStatusPending, response.UpdatedInvoice.Status)
	assert.True(t, response.UpdatedInvoice.AmountPaid.IsZero())
	assert.Empty(t, repo.transactions)
}

func TestDeletePaymentTransactionEndpointNotFound(t *testing.T) {
	router := newInvoiceTestRouter(&stubInvoiceRepo{invoice: pendingInvoice("550.00")})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/invoices/inv-1/transactions/no-such", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetTransactionsEndpoint(t *testing.T) {
	repo := &stubInvoiceRepo{
		invoice: pendingInvoice("550.00"),
		transactions: []models.PaymentTransaction{
			{ID: "txn-1", InvoiceID: "inv-1", AmountPaid: decimal.RequireFromString("200.00")},
		},
	}
	router := newInvoiceTestRouter(repo)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/invoices/inv-1/transactions", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var transactions []models.PaymentTransaction
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &transactions))
	require.Len(t, transactions, 1)
	assert.Equal(t, "txn-1", transactions[0].ID)
}
