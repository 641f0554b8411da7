package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

var today = time.Date(2026, 9, 1, 10, 30, 0, 0, time.UTC)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestDeriveInvoiceStatus(t *testing.T) {
	tests := []struct {
		name        string
		amountPaid  string
		totalAmount string
		dueDate     string
		want        InvoiceStatus
	}{
		{"nothing paid, no due date", "0", "550.00", "", InvoiceStatusPending},
		{"nothing paid, future due date", "0", "550.00", "2026-10-01", InvoiceStatusPending},
		{"nothing paid, due today", "0", "550.00", "2026-09-01", InvoiceStatusPending},
		{"nothing paid, past due date", "0", "550.00", "2026-08-15", InvoiceStatusOverdue},
		{"nothing paid, unparseable due date", "0", "550.00", "soon", InvoiceStatusPending},
		{"partially paid", "200.00", "550.00", "", InvoiceStatusPartial},
		{"partially paid past due date stays partial", "200.00", "550.00", "2026-08-15", InvoiceStatusPartial},
		{"fully paid", "550.00", "550.00", "", InvoiceStatusPaid},
		{"paid above total", "600.00", "550.00", "2026-08-15", InvoiceStatusPaid},
		{"zero total zero paid", "0", "0", "", InvoiceStatusPaid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DeriveInvoiceStatus(dec(tt.amountPaid), dec(tt.totalAmount), tt.dueDate, today)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDeriveInvoiceStatusLocalMidnight(t *testing.T) {
	// Shortly after midnight on Sep 1 in UTC+5 it is still Aug 31 in UTC.
	// The day boundary must follow the clock's calendar date.
	local := time.Date(2026, 9, 1, 0, 30, 0, 0, time.FixedZone("UTC+5", 5*3600))

	got := DeriveInvoiceStatus(dec("0"), dec("550.00"), "2026-08-31", local)
	assert.Equal(t, InvoiceStatusOverdue, got)

	got = DeriveInvoiceStatus(dec("0"), dec("550.00"), "2026-09-01", local)
	assert.Equal(t, InvoiceStatusPending, got)
}

func TestApplyPaymentSequence(t *testing.T) {
	invoice := &Invoice{
		TotalAmount: dec("550.00"),
		AmountPaid:  decimal.Zero,
		Status:      InvoiceStatusPending,
	}

	invoice.ApplyPayment(dec("200.00"))
	assert.True(t, invoice.AmountPaid.Equal(dec("200.00")), "amount_paid = %s", invoice.AmountPaid)
	assert.Equal(t, InvoiceStatusPartial, invoice.Status)

	invoice.ApplyPayment(dec("350.00"))
	assert.True(t, invoice.AmountPaid.Equal(dec("550.00")), "amount_paid = %s", invoice.AmountPaid)
	assert.Equal(t, InvoiceStatusPaid, invoice.Status)
}

func TestApplyPaymentClampsAtTotal(t *testing.T) {
	invoice := &Invoice{
		TotalAmount: dec("600.00"),
		AmountPaid:  decimal.Zero,
		Status:      InvoiceStatusPending,
	}

	invoice.ApplyPayment(dec("700.00"))
	assert.True(t, invoice.AmountPaid.Equal(dec("600.00")), "amount_paid = %s", invoice.AmountPaid)
	assert.Equal(t, InvoiceStatusPaid, invoice.Status)
}

func TestReversePayment(t *testing.T) {
	t.Run("paid back to partial", func(t *testing.T) {
		invoice := &Invoice{
			TotalAmount: dec("600.00"),
			AmountPaid:  dec("600.00"),
			Status:      InvoiceStatusPaid,
		}

		invoice.ReversePayment(dec("300.00"), today)
		assert.True(t, invoice.AmountPaid.Equal(dec("300.00")), "amount_paid = %s", invoice.AmountPaid)
		assert.Equal(t, InvoiceStatusPartial, invoice.Status)
	})

	t.Run("partial back to pending", func(t *testing.T) {
		invoice := &Invoice{
			TotalAmount: dec("600.00"),
			AmountPaid:  dec("300.00"),
			Status:      InvoiceStatusPartial,
		}

		invoice.ReversePayment(dec("300.00"), today)
		assert.True(t, invoice.AmountPaid.IsZero(), "amount_paid = %s", invoice.AmountPaid)
		assert.Equal(t, InvoiceStatusPending, invoice.Status)
	})

	t.Run("partial back to overdue when past due", func(t *testing.T) {
		invoice := &Invoice{
			TotalAmount: dec("600.00"),
			AmountPaid:  dec("300.00"),
			Status:      InvoiceStatusPartial,
			DueDate:     "2026-08-15",
		}

		invoice.ReversePayment(dec("300.00"), today)
		assert.Equal(t, InvoiceStatusOverdue, invoice.Status)
	})

	t.Run("never goes negative", func(t *testing.T) {
		invoice := &Invoice{
			TotalAmount: dec("600.00"),
			AmountPaid:  dec("100.00"),
			Status:      InvoiceStatusPartial,
		}

		invoice.ReversePayment(dec("700.00"), today)
		assert.True(t, invoice.AmountPaid.IsZero(), "amount_paid = %s", invoice.AmountPaid)
		assert.Equal(t, InvoiceStatusPending, invoice.Status)
	})
}

func TestApplyReverseApplyRoundTrip(t *testing.T) {
	invoice := &Invoice{
		TotalAmount: dec("550.00"),
		AmountPaid:  decimal.Zero,
		Status:      InvoiceStatusPending,
	}

	invoice.ApplyPayment(dec("200.00"))
	wantPaid := invoice.AmountPaid
	wantStatus := invoice.Status

	invoice.ReversePayment(dec("200.00"), today)
	assert.True(t, invoice.AmountPaid.IsZero())
	assert.Equal(t, InvoiceStatusPending, invoice.Status)

	invoice.ApplyPayment(dec("200.00"))
	assert.True(t, invoice.AmountPaid.Equal(wantPaid), "amount_paid = %s, want %s", invoice.AmountPaid, wantPaid)
	assert.Equal(t, wantStatus, invoice.Status)
}

func TestPriceItems(t *testing.T) {
	items := []InvoiceItem{
		{Description: "Cleaning", Quantity: 1, UnitPrice: dec("120.00")},
		{Description: "Filling", Quantity: 2, UnitPrice: dec("215.00")},
	}

	total := PriceItems(items)

	assert.True(t, total.Equal(dec("550.00")), "total = %s", total)
	assert.True(t, items[0].TotalPrice.Equal(dec("120.00")))
	assert.True(t, items[1].TotalPrice.Equal(dec("430.00")))
}
