package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	catalogsync "github.com/darkkaiser/nordexplore/internal/service/catalog/sync"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_SyncRecorder(t *testing.T) {
	t.Parallel()

	m := New(false)

	m.ItemProcessed(catalogsync.OpAdd, catalogsync.OutcomeAdded)
	m.ItemProcessed(catalogsync.OpAdd, catalogsync.OutcomeAdded)
	m.ItemProcessed(catalogsync.OpAdd, catalogsync.OutcomeSkipped)
	m.OperationCompleted(catalogsync.OpSync, 2*time.Second, nil)
	m.OperationCompleted(catalogsync.OpSync, time.Second, errors.New("boom"))
	m.SyncSucceeded(time.Unix(1700000000, 0))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.syncItems.WithLabelValues("add", "added")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.syncItems.WithLabelValues("add", "skipped")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.syncOperations.WithLabelValues("sync", resultSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.syncOperations.WithLabelValues("sync", resultFailure)))
	assert.Equal(t, 1700000000.0, testutil.ToFloat64(m.syncLastOK))
	assert.Equal(t, 1, testutil.CollectAndCount(m.syncDuration))
}

func TestMetrics_HTTPAndRates(t *testing.T) {
	t.Parallel()

	m := New(false)

	m.ObserveHTTPRequest(http.MethodGet, "/admin/tours", http.StatusOK, 15*time.Millisecond)
	m.ObserveRateLookup("fallback")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "/admin/tours", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.rateLookups.WithLabelValues("fallback")))
}

func TestMetrics_Handler(t *testing.T) {
	t.Parallel()

	m := New(true)
	m.ItemProcessed(catalogsync.OpRefresh, catalogsync.OutcomeRemoved)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `nordexplore_catalog_sync_items_total{operation="refresh",outcome="removed"} 1`))
	assert.True(t, strings.Contains(body, "go_goroutines"))
}
