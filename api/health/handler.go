// Copyright (C) 2019-2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package health

import (
	"encoding/json"
	"net/http"
)

// APIReply is the response for Readiness and Health
type APIReply struct {
	Checks  map[string]Result `json:"checks"`
	Healthy bool              `json:"healthy"`
}

// NewGetHandler returns a handler that reports the results of [reporter].
// Unhealthy results are served with 503.
func NewGetHandler(reporter func() (map[string]Result, bool)) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		checks, healthy := reporter()
		w.Header().Set("Content-Type", "application/json")
		if !healthy {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		// There's nothing we can do with an encoding error.
		_ = json.NewEncoder(w).Encode(APIReply{
			Checks:  checks,
			Healthy: healthy,
		})
	})
}
