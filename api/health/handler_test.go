// Copyright (C) 2019-2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package health

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetHandler(t *testing.T) {
	tests := []struct {
		name           string
		healthy        bool
		expectedStatus int
	}{
		{
			name:           "healthy",
			healthy:        true,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "unhealthy",
			healthy:        false,
			expectedStatus: http.StatusServiceUnavailable,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			require := require.New(t)

			handler := NewGetHandler(func() (map[string]Result, bool) {
				return map[string]Result{
					"check": {Details: "details"},
				}, test.healthy
			})

			w := httptest.NewRecorder()
			handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ext/health", nil))
			require.Equal(test.expectedStatus, w.Code)
			require.Equal("application/json", w.Header().Get("Content-Type"))

			var reply APIReply
			require.NoError(json.NewDecoder(w.Body).Decode(&reply))
			require.Equal(test.healthy, reply.Healthy)
			require.Contains(reply.Checks, "check")
			require.Equal("details", reply.Checks["check"].Details)
		})
	}
}
