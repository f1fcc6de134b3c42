package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/illuzioner/chat-relay/internal/provider"
)

func TestObserveRequest(t *testing.T) {
	before := testutil.ToFloat64(RequestsTotal.WithLabelValues("400"))
	ObserveRequest(http.StatusBadRequest)
	assert.Equal(t, before+1, testutil.ToFloat64(RequestsTotal.WithLabelValues("400")))
}

func TestObserveUpstream(t *testing.T) {
	ok := UpstreamRequestsTotal.WithLabelValues("test", "m1", "ok")
	failed := UpstreamRequestsTotal.WithLabelValues("test", "m1", "error")
	in := TokensTotal.WithLabelValues("test", "m1", "input")
	out := TokensTotal.WithLabelValues("test", "m1", "output")

	okBefore := testutil.ToFloat64(ok)
	failedBefore := testutil.ToFloat64(failed)
	inBefore := testutil.ToFloat64(in)
	outBefore := testutil.ToFloat64(out)

	ObserveUpstream("test", "m1", 200*time.Millisecond, &provider.Usage{PromptTokens: 10, CompletionTokens: 4}, nil)
	ObserveUpstream("test", "m1", time.Second, nil, errors.New("boom"))

	assert.Equal(t, okBefore+1, testutil.ToFloat64(ok))
	assert.Equal(t, failedBefore+1, testutil.ToFloat64(failed))
	assert.Equal(t, inBefore+10, testutil.ToFloat64(in))
	assert.Equal(t, outBefore+4, testutil.ToFloat64(out))
}

func TestHandlerExposesCollectors(t *testing.T) {
	ObserveRequest(http.StatusOK)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "relay_requests_total")
}
