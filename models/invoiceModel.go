package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceStatus is the billing state of an invoice. Every status except
// Cancelled is derived from amount_paid, total_amount and due_date;
// Cancelled is set out of band and is terminal.
type InvoiceStatus string

const (
	InvoiceStatusPending   InvoiceStatus = "Pending"
	InvoiceStatusPartial   InvoiceStatus = "Partial"
	InvoiceStatusPaid      InvoiceStatus = "Paid"
	InvoiceStatusOverdue   InvoiceStatus = "Overdue"
	InvoiceStatusCancelled InvoiceStatus = "Cancelled"
)

// DueDateLayout is the calendar-date format used on invoices and payments.
const DueDateLayout = "2006-01-02"

// Invoice model
type Invoice struct {
	ID          string          `gorm:"primaryKey;column:id" json:"id"`
	PatientID   string          `gorm:"column:patient_id;not null;index" json:"patient_id"`
	Items       []InvoiceItem   `gorm:"foreignKey:InvoiceID;references:ID" json:"items"`
	TotalAmount decimal.Decimal `gorm:"column:total_amount;type:numeric(12,2);not null" json:"total_amount"`
	AmountPaid  decimal.Decimal `gorm:"column:amount_paid;type:numeric(12,2);not null" json:"amount_paid"`
	Status      InvoiceStatus   `gorm:"column:status;check:status IN ('Pending', 'Partial', 'Paid', 'Overdue', 'Cancelled');not null" json:"status"`
	DueDate     string          `gorm:"column:due_date" json:"due_date,omitempty"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	Patient     Patient         `gorm:"foreignKey:PatientID;references:ID" json:"-"`
}

func (Invoice) TableName() string {
	return "invoice"
}

// InvoiceItem model
type InvoiceItem struct {
	ID          uint            `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	InvoiceID   string          `gorm:"column:invoice_id;not null;index" json:"invoice_id"`
	Description string          `gorm:"column:description;not null" json:"description"`
	Quantity    int             `gorm:"column:quantity;not null" json:"quantity"`
	UnitPrice   decimal.Decimal `gorm:"column:unit_price;type:numeric(12,2);not null" json:"unit_price"`
	TotalPrice  decimal.Decimal `gorm:"column:total_price;type:numeric(12,2);not null" json:"total_price"`
}

func (InvoiceItem) TableName() string {
	return "invoice_item"
}

// PaymentTransaction model. Rows are immutable once recorded; reversing a
// payment deletes the row and re-derives the parent invoice.
type PaymentTransaction struct {
	ID            string          `gorm:"primaryKey;column:id" json:"id"`
	InvoiceID     string          `gorm:"column:invoice_id;not null;index" json:"invoice_id"`
	AmountPaid    decimal.Decimal `gorm:"column:amount_paid;type:numeric(12,2);not null" json:"amount_paid"`
	PaymentDate   string          `gorm:"column:payment_date;not null" json:"payment_date"`
	PaymentMethod string          `gorm:"column:payment_method;not null" json:"payment_method"`
	Notes         string          `gorm:"column:notes" json:"notes,omitempty"`
	RecordedAt    time.Time       `gorm:"column:recorded_at;autoCreateTime;index" json:"recorded_at"`
	Invoice       Invoice         `gorm:"foreignKey:InvoiceID;references:ID" json:"-"`
}

func (PaymentTransaction) TableName() string {
	return "payment_transaction"
}

// DeriveInvoiceStatus maps the paid/billed amounts and the due date to a
// status. dueDate only matters when nothing has been paid: an empty or
// unparseable dueDate means Pending, a dueDate strictly before today means
// Overdue. Both write paths use this single derivation.
func DeriveInvoiceStatus(amountPaid, totalAmount decimal.Decimal, dueDate string, today time.Time) InvoiceStatus {
	if amountPaid.GreaterThanOrEqual(totalAmount) {
		return InvoiceStatusPaid
	}
	if amountPaid.GreaterThan(decimal.Zero) {
		return InvoiceStatusPartial
	}
	if dueDate != "" {
		due, err := time.Parse(DueDateLayout, dueDate)
		// Day boundary from today's calendar date, not epoch truncation,
		// so a non-UTC clock near midnight compares against the right day.
		startOfToday := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
		if err == nil && due.Before(startOfToday) {
			return InvoiceStatusOverdue
		}
	}
	return InvoiceStatusPending
}

// ApplyPayment adds a recorded payment to the invoice's cached total and
// updates the status. The cached total is clamped at total_amount; the
// payment transaction itself keeps the full recorded amount.
func (i *Invoice) ApplyPayment(amount decimal.Decimal) {
	i.AmountPaid = i.AmountPaid.Add(amount)
	if i.AmountPaid.GreaterThanOrEqual(i.TotalAmount) {
		i.AmountPaid = i.TotalAmount
		i.Status = InvoiceStatusPaid
		return
	}
	if i.AmountPaid.GreaterThan(decimal.Zero) {
		i.Status = InvoiceStatusPartial
	}
}

// ReversePayment subtracts a deleted payment from the invoice's cached total,
// clamping at zero, and re-derives the status from scratch. Removing a
// payment can move the status in either direction, so this is a full
// re-derivation rather than an incremental update.
func (i *Invoice) ReversePayment(amount decimal.Decimal, today time.Time) {
	i.AmountPaid = i.AmountPaid.Sub(amount)
	if i.AmountPaid.IsNegative() {
		i.AmountPaid = decimal.Zero
	}
	i.Status = DeriveInvoiceStatus(i.AmountPaid, i.TotalAmount, i.DueDate, today)
}

// PriceItems fills in each line item's total price and returns the invoice
// total. Quantity and unit price are validated before this is called.
func PriceItems(items []InvoiceItem) decimal.Decimal {
	total := decimal.Zero
	for idx := range items {
		items[idx].TotalPrice = items[idx].UnitPrice.Mul(decimal.NewFromInt(int64(items[idx].Quantity)))
		total = total.Add(items[idx].TotalPrice)
	}
	return total
}
