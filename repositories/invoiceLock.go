package repositories

import (
	"PearlDental/database"
	"context"
	"fmt"
)

// RedisInvoiceLocker serializes invoice mutations across processes with a
// Redis SetNX lock keyed per invoice.
type RedisInvoiceLocker struct{}

func NewRedisInvoiceLocker() *RedisInvoiceLocker {
	return &RedisInvoiceLocker{}
}

func (l *RedisInvoiceLocker) Lock(ctx context.Context, invoiceID string) (func(), error) {
	return database.AcquireLock(ctx, fmt.Sprintf("invoice_lock:%s", invoiceID))
}
