package services

import (
	"PearlDental/models"
	"context"
	"sort"
	"testing"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testToday = time.Date(2026, 9, 1, 10, 30, 0, 0, time.UTC)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// fakeInvoiceRepo keeps invoices and transactions in maps. GetInvoice hands
// out copies so only SavePayment and DeletePayment persist changes, matching
// the real repository.
type fakeInvoiceRepo struct {
	invoices     map[string]*models.Invoice
	transactions map[string][]models.PaymentTransaction
}

func newFakeInvoiceRepo() *fakeInvoiceRepo {
	return &fakeInvoiceRepo{
		invoices:     make(map[string]*models.Invoice),
		transactions: make(map[string][]models.PaymentTransaction),
	}
}

func (r *fakeInvoiceRepo) CreateInvoice(_ context.Context, invoice *models.Invoice) error {
	copy := *invoice
	r.invoices[invoice.ID] = &copy
	return nil
}

func (r *fakeInvoiceRepo) GetInvoice(_ context.Context, id string) (*models.Invoice, error) {
	invoice, ok := r.invoices[id]
	if !ok {
		return nil, nil
	}
	copy := *invoice
	return &copy, nil
}

func (r *fakeInvoiceRepo) GetAllInvoices(_ context.Context) ([]models.Invoice, error) {
	invoices := make([]models.Invoice, 0, len(r.invoices))
	for _, invoice := range r.invoices {
		invoices = append(invoices, *invoice)
	}
	return invoices, nil
}

func (r *fakeInvoiceRepo) GetInvoicesByPatient(_ context.Context, patientID string) ([]models.Invoice, error) {
	var invoices []models.Invoice
	for _, invoice := range r.invoices {
		if invoice.PatientID == patientID {
			invoices = append(invoices, *invoice)
		}
	}
	return invoices, nil
}

func (r *fakeInvoiceRepo) GetTransaction(_ context.Context, invoiceID, transactionID string) (*models.PaymentTransaction, error) {
	for _, transaction := range r.transactions[invoiceID] {
		if transaction.ID == transactionID {
			copy := transaction
			return &copy, nil
		}
	}
	return nil, nil
}

func (r *fakeInvoiceRepo) GetTransactionsByInvoice(_ context.Context, invoiceID string) ([]models.PaymentTransaction, error) {
	transactions := append([]models.PaymentTransaction(nil), r.transactions[invoiceID]...)
	sort.Slice(transactions, func(i, j int) bool {
		return transactions[i].RecordedAt.After(transactions[j].RecordedAt)
	})
	return transactions, nil
}

func (r *fakeInvoiceRepo) SavePayment(_ context.Context, invoice *models.Invoice, transaction *models.PaymentTransaction) error {
	copy := *invoice
	r.invoices[invoice.ID] = &copy
	r.transactions[invoice.ID] = append(r.transactions[invoice.ID], *transaction)
	return nil
}

func (r *fakeInvoiceRepo) SumTransactions(_ context.Context, invoiceID string) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, transaction := range r.transactions[invoiceID] {
		total = total.Add(transaction.AmountPaid)
	}
	return total, nil
}

func (r *fakeInvoiceRepo) DeletePayment(_ context.Context, invoice *models.Invoice, transactionID string) error {
	copy := *invoice
	r.invoices[invoice.ID] = &copy
	kept := r.transactions[invoice.ID][:0]
	for _, transaction := range r.transactions[invoice.ID] {
		if transaction.ID != transactionID {
			kept = append(kept, transaction)
		}
	}
	r.transactions[invoice.ID] = kept
	return nil
}

// countingLocker hands out locks immediately and counts acquisitions and
// releases.
type countingLocker struct {
	acquired int
	released int
}

func (l *countingLocker) Lock(_ context.Context, _ string) (func(), error) {
	l.acquired++
	return func() { l.released++ }, nil
}

func newTestInvoiceService(repo *fakeInvoiceRepo) (*InvoiceService, *countingLocker) {
	locker := &countingLocker{}
	service := NewInvoiceService(repo, locker)
	service.now = func() time.Time { return testToday }
	return service, locker
}

func seedInvoice(repo *fakeInvoiceRepo, invoice models.Invoice) {
	copy := invoice
	repo.invoices[invoice.ID] = &copy
}

func TestCreateInvoice(t *testing.T) {
	repo := newFakeInvoiceRepo()
	service, _ := newTestInvoiceService(repo)

	invoice, err := service.CreateInvoice(context.Background(), CreateInvoiceParams{
		PatientID: "patient-1",
		DueDate:   "2026-10-01",
		Items: []InvoiceItemParams{
			{Description: "Cleaning", Quantity: 1, UnitPrice: dec("120.00")},
			{Description: "Filling", Quantity: 2, UnitPrice: dec("215.00")},
		},
	})

	require.NoError(t, err)
	assert.NotEmpty(t, invoice.ID)
	assert.True(t, invoice.TotalAmount.Equal(dec("550.00")), "total = %s", invoice.TotalAmount)
	assert.True(t, invoice.AmountPaid.IsZero())
	assert.Equal(t, models.InvoiceStatusPending, invoice.Status)

	stored, err := repo.GetInvoice(context.Background(), invoice.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
}

func TestCreateInvoiceValidation(t *testing.T) {
	repo := newFakeInvoiceRepo()
	service, _ := newTestInvoiceService(repo)

	tests := []struct {
		name   string
		params CreateInvoiceParams
	}{
		{"missing patient", CreateInvoiceParams{Items: []InvoiceItemParams{{Description: "Cleaning", Quantity: 1, UnitPrice: dec("120.00")}}}},
		{"no items", CreateInvoiceParams{PatientID: "patient-1"}},
		{"bad due date", CreateInvoiceParams{PatientID: "patient-1", DueDate: "next week", Items: []InvoiceItemParams{{Description: "Cleaning", Quantity: 1, UnitPrice: dec("120.00")}}}},
		{"zero quantity item", CreateInvoiceParams{PatientID: "patient-1", Items: []InvoiceItemParams{{Description: "Cleaning", Quantity: 0, UnitPrice: dec("120.00")}}}},
		{"negative unit price", CreateInvoiceParams{PatientID: "patient-1", Items: []InvoiceItemParams{{Description: "Cleaning", Quantity: 1, UnitPrice: dec("-5.00")}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.CreateInvoice(context.Background(), tt.params)
			require.Error(t, err)
			var fieldErrors validation.Errors
			assert.ErrorAs(t, err, &fieldErrors)
		})
	}
}

func TestRecordPayment(t *testing.T) {
	repo := newFakeInvoiceRepo()
	service, locker := newTestInvoiceService(repo)
	seedInvoice(repo, models.Invoice{
		ID:          "inv-1",
		PatientID:   "patient-1",
		TotalAmount: dec("550.00"),
		AmountPaid:  decimal.Zero,
		Status:      models.InvoiceStatusPending,
	})

	invoice, err := service.RecordPayment(context.Background(), "inv-1", RecordPaymentParams{
		AmountPaidNow: dec("200.00"),
	})
	require.NoError(t, err)
	assert.True(t, invoice.AmountPaid.Equal(dec("200.00")), "amount_paid = %s", invoice.AmountPaid)
	assert.Equal(t, models.InvoiceStatusPartial, invoice.Status)

	invoice, err = service.RecordPayment(context.Background(), "inv-1", RecordPaymentParams{
		AmountPaidNow: dec("350.00"),
		PaymentMethod: "Cash",
	})
	require.NoError(t, err)
	assert.True(t, invoice.AmountPaid.Equal(dec("550.00")), "amount_paid = %s", invoice.AmountPaid)
	assert.Equal(t, models.InvoiceStatusPaid, invoice.Status)

	transactions, err := service.ListTransactions(context.Background(), "inv-1")
	require.NoError(t, err)
	require.Len(t, transactions, 2)

	assert.Equal(t, locker.acquired, locker.released)
}

func TestRecordPaymentDefaults(t *testing.T) {
	repo := newFakeInvoiceRepo()
	service, _ := newTestInvoiceService(repo)
	seedInvoice(repo, models.Invoice{
		ID:          "inv-1",
		PatientID:   "patient-1",
		TotalAmount: dec("550.00"),
		AmountPaid:  decimal.Zero,
		Status:      models.InvoiceStatusPending,
	})

	_, err := service.RecordPayment(context.Background(), "inv-1", RecordPaymentParams{
		AmountPaidNow: dec("200.00"),
	})
	require.NoError(t, err)

	transactions := repo.transactions["inv-1"]
	require.Len(t, transactions, 1)
	assert.Equal(t, "Card", transactions[0].PaymentMethod)
	assert.Equal(t, "2026-09-01", transactions[0].PaymentDate)
}

func TestRecordPaymentOnPaidInvoice(t *testing.T) {
	repo := newFakeInvoiceRepo()
	service, _ := newTestInvoiceService(repo)
	seedInvoice(repo, models.Invoice{
		ID:          "inv-1",
		PatientID:   "patient-1",
		TotalAmount: dec("550.00"),
		AmountPaid:  dec("550.00"),
		Status:      models.InvoiceStatusPaid,
	})

	_, err := service.RecordPayment(context.Background(), "inv-1", RecordPaymentParams{
		AmountPaidNow: dec("50.00"),
	})
	assert.ErrorIs(t, err, ErrInvoiceAlreadyPaid)

	// The rejection must leave the invoice and its transaction log untouched
	stored := repo.invoices["inv-1"]
	assert.True(t, stored.AmountPaid.Equal(dec("550.00")))
	assert.Empty(t, repo.transactions["inv-1"])
}

func TestRecordPaymentMissingInvoice(t *testing.T) {
	repo := newFakeInvoiceRepo()
	service, _ := newTestInvoiceService(repo)

	_, err := service.RecordPayment(context.Background(), "no-such-invoice", RecordPaymentParams{
		AmountPaidNow: dec("50.00"),
	})
	assert.ErrorIs(t, err, ErrInvoiceNotFound)
}

func TestRecordPaymentValidation(t *testing.T) {
	repo := newFakeInvoiceRepo()
	service, locker := newTestInvoiceService(repo)

	tests := []struct {
		name   string
		params RecordPaymentParams
	}{
		{"zero amount", RecordPaymentParams{AmountPaidNow: decimal.Zero}},
		{"negative amount", RecordPaymentParams{AmountPaidNow: dec("-10.00")}},
		{"bad payment date", RecordPaymentParams{AmountPaidNow: dec("10.00"), PaymentDate: "yesterday"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.RecordPayment(context.Background(), "inv-1", tt.params)
			require.Error(t, err)
			var fieldErrors validation.Errors
			assert.ErrorAs(t, err, &fieldErrors)
		})
	}

	// Validation failures never reach the lock
	assert.Zero(t, locker.acquired)
}

func TestRecordPaymentOverpaymentClampsInvoiceOnly(t *testing.T) {
	repo := newFakeInvoiceRepo()
	service, _ := newTestInvoiceService(repo)
	seedInvoice(repo, models.Invoice{
		ID:          "inv-1",
		PatientID:   "patient-1",
		TotalAmount: dec("600.00"),
		AmountPaid:  decimal.Zero,
		Status:      models.InvoiceStatusPending,
	})

	invoice, err := service.RecordPayment(context.Background(), "inv-1", RecordPaymentParams{
		AmountPaidNow: dec("700.00"),
	})
	require.NoError(t, err)

	assert.True(t, invoice.AmountPaid.Equal(dec("600.00")), "amount_paid = %s", invoice.AmountPaid)
	assert.Equal(t, models.InvoiceStatusPaid, invoice.Status)

	// The transaction keeps the amount actually recorded
	transactions := repo.transactions["inv-1"]
	require.Len(t, transactions, 1)
	assert.True(t, transactions[0].AmountPaid.Equal(dec("700.00")))
}

func TestDeletePaymentTransaction(t *testing.T) {
	repo := newFakeInvoiceRepo()
	service, _ := newTestInvoiceService(repo)
	seedInvoice(repo, models.Invoice{
		ID:          "inv-1",
		PatientID:   "patient-1",
		TotalAmount: dec("600.00"),
		AmountPaid:  decimal.Zero,
		Status:      models.InvoiceStatusPending,
	})

	first, err := service.RecordPayment(context.Background(), "inv-1", RecordPaymentParams{AmountPaidNow: dec("300.00")})
	require.NoError(t, err)
	assert.Equal(t, models.InvoiceStatusPartial, first.Status)

	second, err := service.RecordPayment(context.Background(), "inv-1", RecordPaymentParams{AmountPaidNow: dec("300.00")})
	require.NoError(t, err)
	assert.Equal(t, models.InvoiceStatusPaid, second.Status)

	transactions := repo.transactions["inv-1"]
	require.Len(t, transactions, 2)

	invoice, err := service.DeletePaymentTransaction(context.Background(), "inv-1", transactions[0].ID)
	require.NoError(t, err)
	assert.True(t, invoice.AmountPaid.Equal(dec("300.00")), "amount_paid = %s", invoice.AmountPaid)
	assert.Equal(t, models.InvoiceStatusPartial, invoice.Status)

	invoice, err = service.DeletePaymentTransaction(context.Background(), "inv-1", transactions[1].ID)
	require.NoError(t, err)
	assert.True(t, invoice.AmountPaid.IsZero())
	assert.Equal(t, models.InvoiceStatusPending, invoice.Status)
	assert.Empty(t, repo.transactions["inv-1"])
}

func TestDeletePaymentTransactionRederivesOverdue(t *testing.T) {
	repo := newFakeInvoiceRepo()
	service, _ := newTestInvoiceService(repo)
	seedInvoice(repo, models.Invoice{
		ID:          "inv-1",
		PatientID:   "patient-1",
		TotalAmount: dec("600.00"),
		AmountPaid:  decimal.Zero,
		Status:      models.InvoiceStatusOverdue,
		DueDate:     "2026-08-15",
	})

	_, err := service.RecordPayment(context.Background(), "inv-1", RecordPaymentParams{AmountPaidNow: dec("100.00")})
	require.NoError(t, err)

	transactions := repo.transactions["inv-1"]
	require.Len(t, transactions, 1)

	invoice, err := service.DeletePaymentTransaction(context.Background(), "inv-1", transactions[0].ID)
	require.NoError(t, err)
	assert.Equal(t, models.InvoiceStatusOverdue, invoice.Status)
}

func TestDeletePaymentTransactionScopedToInvoice(t *testing.T) {
	repo := newFakeInvoiceRepo()
	service, _ := newTestInvoiceService(repo)
	seedInvoice(repo, models.Invoice{
		ID:          "inv-1",
		PatientID:   "patient-1",
		TotalAmount: dec("600.00"),
		AmountPaid:  decimal.Zero,
		Status:      models.InvoiceStatusPending,
	})
	seedInvoice(repo, models.Invoice{
		ID:          "inv-2",
		PatientID:   "patient-2",
		TotalAmount: dec("300.00"),
		AmountPaid:  decimal.Zero,
		Status:      models.InvoiceStatusPending,
	})

	_, err := service.RecordPayment(context.Background(), "inv-1", RecordPaymentParams{AmountPaidNow: dec("100.00")})
	require.NoError(t, err)

	transactionID := repo.transactions["inv-1"][0].ID

	_, err = service.DeletePaymentTransaction(context.Background(), "inv-2", transactionID)
	assert.ErrorIs(t, err, ErrTransactionNotFound)
	assert.Len(t, repo.transactions["inv-1"], 1)
}

func TestDeletePaymentTransactionMissingInvoice(t *testing.T) {
	repo := newFakeInvoiceRepo()
	service, _ := newTestInvoiceService(repo)

	_, err := service.DeletePaymentTransaction(context.Background(), "no-such-invoice", "txn-1")
	assert.ErrorIs(t, err, ErrInvoiceNotFound)
}

func TestListTransactionsMissingInvoice(t *testing.T) {
	repo := newFakeInvoiceRepo()
	service, _ := newTestInvoiceService(repo)

	_, err := service.ListTransactions(context.Background(), "no-such-invoice")
	assert.ErrorIs(t, err, ErrInvoiceNotFound)
}

// assertPaidMatchesLog reconciles the stored invoice's cached amount_paid
// against the sum of its transaction log.
func assertPaidMatchesLog(t *testing.T, repo *fakeInvoiceRepo, invoiceID string) {
	t.Helper()
	sum, err := repo.SumTransactions(context.Background(), invoiceID)
	require.NoError(t, err)
	stored := repo.invoices[invoiceID]
	require.NotNil(t, stored)
	assert.True(t, stored.AmountPaid.Equal(sum), "amount_paid = %s, transaction sum = %s", stored.AmountPaid, sum)
}

func TestPaidTotalTracksTransactionLog(t *testing.T) {
	repo := newFakeInvoiceRepo()
	service, _ := newTestInvoiceService(repo)
	seedInvoice(repo, models.Invoice{
		ID:          "inv-1",
		PatientID:   "patient-1",
		TotalAmount: dec("550.00"),
		AmountPaid:  decimal.Zero,
		Status:      models.InvoiceStatusPending,
	})

	_, err := service.RecordPayment(context.Background(), "inv-1", RecordPaymentParams{AmountPaidNow: dec("150.00")})
	require.NoError(t, err)
	assertPaidMatchesLog(t, repo, "inv-1")

	_, err = service.RecordPayment(context.Background(), "inv-1", RecordPaymentParams{AmountPaidNow: dec("250.00")})
	require.NoError(t, err)
	assertPaidMatchesLog(t, repo, "inv-1")

	transactions := repo.transactions["inv-1"]
	require.Len(t, transactions, 2)

	_, err = service.DeletePaymentTransaction(context.Background(), "inv-1", transactions[1].ID)
	require.NoError(t, err)
	assertPaidMatchesLog(t, repo, "inv-1")

	_, err = service.DeletePaymentTransaction(context.Background(), "inv-1", transactions[0].ID)
	require.NoError(t, err)
	assertPaidMatchesLog(t, repo, "inv-1")
}

func TestDeleteThenRerecordRoundTrip(t *testing.T) {
	repo := newFakeInvoiceRepo()
	service, _ := newTestInvoiceService(repo)
	seedInvoice(repo, models.Invoice{
		ID:          "inv-1",
		PatientID:   "patient-1",
		TotalAmount: dec("550.00"),
		AmountPaid:  decimal.Zero,
		Status:      models.InvoiceStatusPending,
	})

	before, err := service.RecordPayment(context.Background(), "inv-1", RecordPaymentParams{AmountPaidNow: dec("200.00")})
	require.NoError(t, err)

	transactions := repo.transactions["inv-1"]
	require.Len(t, transactions, 1)

	_, err = service.DeletePaymentTransaction(context.Background(), "inv-1", transactions[0].ID)
	require.NoError(t, err)

	after, err := service.RecordPayment(context.Background(), "inv-1", RecordPaymentParams{AmountPaidNow: dec("200.00")})
	require.NoError(t, err)

	assert.True(t, after.AmountPaid.Equal(before.AmountPaid), "amount_paid = %s, want %s", after.AmountPaid, before.AmountPaid)
	assert.Equal(t, before.Status, after.Status)
	require.Len(t, repo.transactions["inv-1"], 1)
	assertPaidMatchesLog(t, repo, "inv-1")
}

func TestListTransactionsMostRecentFirst(t *testing.T) {
	repo := newFakeInvoiceRepo()
	service, _ := newTestInvoiceService(repo)
	seedInvoice(repo, models.Invoice{
		ID:          "inv-1",
		PatientID:   "patient-1",
		TotalAmount: dec("600.00"),
		AmountPaid:  decimal.Zero,
		Status:      models.InvoiceStatusPending,
	})

	for i, when := range []time.Time{
		testToday.Add(-2 * time.Hour),
		testToday.Add(-1 * time.Hour),
		testToday,
	} {
		repo.transactions["inv-1"] = append(repo.transactions["inv-1"], models.PaymentTransaction{
			ID:         string(rune('a' + i)),
			InvoiceID:  "inv-1",
			AmountPaid: dec("10.00"),
			RecordedAt: when,
		})
	}

	transactions, err := service.ListTransactions(context.Background(), "inv-1")
	require.NoError(t, err)
	require.Len(t, transactions, 3)
	assert.Equal(t, "c", transactions[0].ID)
	assert.Equal(t, "b", transactions[1].ID)
	assert.Equal(t, "a", transactions[2].ID)
}
