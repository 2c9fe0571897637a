// Copyright (C) 2019-2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

func TestService(t *testing.T) {
	require := require.New(t)

	registry, handler := NewService()
	counter := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "test_counter",
		Help: "counter used in tests",
	})
	require.NoError(registry.Register(counter))
	counter.Add(3)

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ext/metrics", nil))
	require.Equal(http.StatusOK, w.Code)

	body, err := io.ReadAll(w.Body)
	require.NoError(err)
	require.Contains(string(body), "test_counter 3")
	require.Contains(string(body), "promhttp_metric_handler_requests_total")
}
