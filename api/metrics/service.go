// Copyright (C) 2019-2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewService returns a new prometheus registry and the handler exposing it.
// The handler instruments itself on the returned registry.
func NewService() (*prometheus.Registry, http.Handler) {
	registry := prometheus.NewRegistry()
	handler := promhttp.InstrumentMetricHandler(
		registry,
		promhttp.HandlerFor(
			registry,
			promhttp.HandlerOpts{},
		),
	)
	return registry, handler
}
