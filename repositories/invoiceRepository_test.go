package repositories

import (
	"PearlDental/cache"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// A payment that committed must be reported as applied even when the cache
// layer is down, so invalidation failures are logged instead of returned.
func TestInvalidateInvoiceCachesSwallowsCacheFailures(t *testing.T) {
	broken := &cache.Cache{}
	require.Error(t, broken.Delete(context.Background(), "invoice_cache:inv-1"),
		"expected the unconnected cache to fail every operation")

	repo := NewInvoiceRepository(broken)

	assert.NotPanics(t, func() {
		repo.invalidateInvoiceCaches(context.Background(), "inv-1", "pat-1")
	})
}
