// Copyright (C) 2019-2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package health

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/shardnode/shardnode/utils/logging"
)

const (
	checkFreq    = time.Millisecond
	awaitTimeout = 30 * time.Second
	awaitFreq    = 50 * time.Microsecond
)

var errUnhealthy = errors.New("unhealthy")

func awaitReadiness(t *testing.T, r Reporter, ready bool) {
	require.Eventually(t, func() bool {
		_, ok := r.Readiness()
		return ok == ready
	}, awaitTimeout, awaitFreq)
}

func awaitHealthy(t *testing.T, r Reporter, healthy bool) {
	require.Eventually(t, func() bool {
		_, ok := r.Health()
		return ok == healthy
	}, awaitTimeout, awaitFreq)
}

func TestDuplicatedRegistrations(t *testing.T) {
	require := require.New(t)

	check := CheckerFunc(func(context.Context) (interface{}, error) {
		return "", nil
	})

	h, err := New(logging.NoLog{}, prometheus.NewRegistry())
	require.NoError(err)

	require.NoError(h.RegisterReadinessCheck("check", check))
	err = h.RegisterReadinessCheck("check", check)
	require.ErrorIs(err, errDuplicateCheck)

	require.NoError(h.RegisterHealthCheck("check", check))
	err = h.RegisterHealthCheck("check", check)
	require.ErrorIs(err, errDuplicateCheck)
}

func TestDefaultFailing(t *testing.T) {
	require := require.New(t)

	check := CheckerFunc(func(context.Context) (interface{}, error) {
		return "", nil
	})

	h, err := New(logging.NoLog{}, prometheus.NewRegistry())
	require.NoError(err)

	require.NoError(h.RegisterReadinessCheck("check", check))
	require.NoError(h.RegisterHealthCheck("check", check))

	readinessResult, readiness := h.Readiness()
	require.Len(readinessResult, 1)
	require.Contains(readinessResult, "check")
	require.Equal(notYetRunResult, readinessResult["check"])
	require.False(readiness)

	healthResult, health := h.Health()
	require.Len(healthResult, 1)
	require.Contains(healthResult, "check")
	require.Equal(notYetRunResult, healthResult["check"])
	require.False(health)
}

func TestPassingChecks(t *testing.T) {
	require := require.New(t)

	check := CheckerFunc(func(context.Context) (interface{}, error) {
		return "", nil
	})

	h, err := New(logging.NoLog{}, prometheus.NewRegistry())
	require.NoError(err)

	require.NoError(h.RegisterReadinessCheck("check", check))
	require.NoError(h.RegisterHealthCheck("check", check))

	h.Start(context.Background(), checkFreq)
	defer h.Stop()

	awaitReadiness(t, h, true)
	awaitHealthy(t, h, true)

	healthResult, health := h.Health()
	require.True(health)
	result := healthResult["check"]
	require.Equal("", result.Details)
	require.Nil(result.Error)
	require.Zero(result.ContiguousFailures)
	require.Nil(result.TimeOfFirstFailure)
}

func TestPassingThenFailingChecks(t *testing.T) {
	require := require.New(t)

	var (
		lock    sync.Mutex
		failing bool
	)
	check := CheckerFunc(func(context.Context) (interface{}, error) {
		lock.Lock()
		defer lock.Unlock()

		if failing {
			return "", errUnhealthy
		}
		return "", nil
	})

	registry := prometheus.NewRegistry()
	h, err := New(logging.NoLog{}, registry)
	require.NoError(err)

	require.NoError(h.RegisterReadinessCheck("check", check))
	require.NoError(h.RegisterHealthCheck("check", check))

	h.Start(context.Background(), checkFreq)
	defer h.Stop()

	awaitReadiness(t, h, true)
	awaitHealthy(t, h, true)

	lock.Lock()
	failing = true
	lock.Unlock()

	awaitHealthy(t, h, false)
	// Readiness is monotonic.
	awaitReadiness(t, h, true)

	healthResult, _ := h.Health()
	result := healthResult["check"]
	require.NotNil(result.Error)
	require.Equal(errUnhealthy.Error(), *result.Error)
	require.Positive(result.ContiguousFailures)
	require.NotNil(result.TimeOfFirstFailure)

	worker := h.(*health).health
	require.Equal(float64(1), testutil.ToFloat64(worker.metrics.failingChecks))
}

func TestStopIsIdempotent(t *testing.T) {
	h, err := New(logging.NoLog{}, prometheus.NewRegistry())
	require.NoError(t, err)

	h.Start(context.Background(), checkFreq)
	h.Stop()
	h.Stop()
}
