// Copyright (C) 2019-2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package gaslimit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/holiman/uint256"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/shardnode/shardnode/ids"
	"github.com/shardnode/shardnode/utils/logging"
)

var errTest = errors.New("non-nil error")

func newTestController(
	t *testing.T,
	config Config,
	source SnapshotSource,
	state ChainState,
) *Controller {
	controller, err := NewController(
		logging.NoLog{},
		prometheus.NewRegistry(),
		config,
		source,
		state,
	)
	require.NoError(t, err)
	return controller
}

func TestControllerDecide(t *testing.T) {
	shardID := ids.ShardID(3)

	tests := []struct {
		name             string
		strategy         StrategyName
		height           uint64
		setup            func(*MockSnapshotSource, *MockChainState)
		expectedGasLimit uint64
		expectedErr      error
	}{
		{
			name:     "gate passes limit through without reading signals",
			strategy: PeriodicStrategy,
			height:   11,
			setup: func(_ *MockSnapshotSource, state *MockChainState) {
				state.EXPECT().CurrentGasLimit(shardID).Return(testGasLimit, nil)
			},
			expectedGasLimit: testGasLimit,
		},
		{
			name:     "periodic decrease",
			strategy: PeriodicStrategy,
			height:   10,
			setup: func(source *MockSnapshotSource, state *MockChainState) {
				state.EXPECT().CurrentGasLimit(shardID).Return(testGasLimit, nil)
				source.EXPECT().GetSnapshot(shardID).Return(newTestSnapshot(100, 10, 40, 90, 95), nil)
			},
			expectedGasLimit: 999_000_000,
		},
		{
			name:     "periodic increase",
			strategy: PeriodicStrategy,
			height:   20,
			setup: func(source *MockSnapshotSource, state *MockChainState) {
				state.EXPECT().CurrentGasLimit(shardID).Return(testGasLimit, nil)
				source.EXPECT().GetSnapshot(shardID).Return(newTestSnapshot(100, 5, 40, 99, 100), nil)
			},
			expectedGasLimit: 1_001_000_000,
		},
		{
			name:     "periodic empty histogram",
			strategy: PeriodicStrategy,
			height:   30,
			setup: func(source *MockSnapshotSource, state *MockChainState) {
				state.EXPECT().CurrentGasLimit(shardID).Return(testGasLimit, nil)
				source.EXPECT().GetSnapshot(shardID).Return(EmptySnapshot(), nil)
			},
			expectedGasLimit: testGasLimit,
		},
		{
			name:     "backlog increase",
			strategy: BacklogStrategy,
			height:   10,
			setup: func(source *MockSnapshotSource, state *MockChainState) {
				state.EXPECT().CurrentGasLimit(shardID).Return(testGasLimit, nil)
				source.EXPECT().GetSnapshot(shardID).Return(newTestSnapshot(1000, 10, 40, 995, 1000), nil)
				state.EXPECT().BacklogGas(shardID).Return(uint256.NewInt(5_000), nil)
			},
			expectedGasLimit: 1_001_000_000,
		},
		{
			name:     "instant decrease",
			strategy: InstantStrategy,
			height:   10,
			setup: func(_ *MockSnapshotSource, state *MockChainState) {
				state.EXPECT().CurrentGasLimit(shardID).Return(testGasLimit, nil)
				state.EXPECT().BacklogGas(shardID).Return(uint256.NewInt(0), nil)
				state.EXPECT().LastApplyDuration(shardID).Return(1100*time.Millisecond, nil)
			},
			expectedGasLimit: 999_000_000,
		},
		{
			name:     "instant decides between gated heights",
			strategy: InstantStrategy,
			height:   11,
			setup: func(_ *MockSnapshotSource, state *MockChainState) {
				state.EXPECT().CurrentGasLimit(shardID).Return(testGasLimit, nil)
				state.EXPECT().BacklogGas(shardID).Return(uint256.NewInt(1), nil)
				state.EXPECT().LastApplyDuration(shardID).Return(2*time.Second, nil)
			},
			expectedGasLimit: 999_000_000,
		},
		{
			name:     "backlog passes limit through between gated heights",
			strategy: BacklogStrategy,
			height:   11,
			setup: func(_ *MockSnapshotSource, state *MockChainState) {
				state.EXPECT().CurrentGasLimit(shardID).Return(testGasLimit, nil)
			},
			expectedGasLimit: testGasLimit,
		},
		{
			name:     "state failure",
			strategy: PeriodicStrategy,
			height:   10,
			setup: func(_ *MockSnapshotSource, state *MockChainState) {
				state.EXPECT().CurrentGasLimit(shardID).Return(uint64(0), errTest)
			},
			expectedErr: errTest,
		},
		{
			name:     "snapshot failure",
			strategy: PeriodicStrategy,
			height:   10,
			setup: func(source *MockSnapshotSource, state *MockChainState) {
				state.EXPECT().CurrentGasLimit(shardID).Return(testGasLimit, nil)
				source.EXPECT().GetSnapshot(shardID).Return(LatencySnapshot{}, errTest)
			},
			expectedErr: errTest,
		},
		{
			name:     "backlog failure",
			strategy: BacklogStrategy,
			height:   10,
			setup: func(source *MockSnapshotSource, state *MockChainState) {
				state.EXPECT().CurrentGasLimit(shardID).Return(testGasLimit, nil)
				source.EXPECT().GetSnapshot(shardID).Return(newTestSnapshot(1000, 10, 40, 995, 1000), nil)
				state.EXPECT().BacklogGas(shardID).Return(nil, errTest)
			},
			expectedErr: errTest,
		},
		{
			name:     "histogram schema mismatch",
			strategy: PeriodicStrategy,
			height:   10,
			setup: func(source *MockSnapshotSource, state *MockChainState) {
				state.EXPECT().CurrentGasLimit(shardID).Return(testGasLimit, nil)
				source.EXPECT().GetSnapshot(shardID).Return(LatencySnapshot{
					Buckets:     []Bucket{{UpperBound: 0.05, CumulativeCount: 1}},
					SampleCount: 1,
				}, nil)
			},
			expectedErr: ErrInvariantViolated,
		},
		{
			name:     "zero gas limit",
			strategy: InstantStrategy,
			height:   10,
			setup: func(_ *MockSnapshotSource, state *MockChainState) {
				state.EXPECT().CurrentGasLimit(shardID).Return(uint64(0), nil)
				state.EXPECT().BacklogGas(shardID).Return(uint256.NewInt(0), nil)
				state.EXPECT().LastApplyDuration(shardID).Return(time.Second, nil)
			},
			expectedErr: errZeroGasLimit,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			require := require.New(t)
			ctrl := gomock.NewController(t)

			source := NewMockSnapshotSource(ctrl)
			state := NewMockChainState(ctrl)
			test.setup(source, state)

			config := DefaultConfig()
			config.Strategy = test.strategy
			controller := newTestController(t, config, source, state)
			require.Equal(test.strategy, controller.Strategy())

			gasLimit, err := controller.Decide(shardID, test.height)
			require.ErrorIs(err, test.expectedErr)
			if test.expectedErr == nil {
				require.Equal(test.expectedGasLimit, gasLimit)
			}
		})
	}
}

func TestControllerHealthCheck(t *testing.T) {
	require := require.New(t)
	ctrl := gomock.NewController(t)

	shardID := ids.ShardID(0)
	source := NewMockSnapshotSource(ctrl)
	state := NewMockChainState(ctrl)
	state.EXPECT().CurrentGasLimit(shardID).Return(testGasLimit, nil).Times(3)
	gomock.InOrder(
		source.EXPECT().GetSnapshot(shardID).Return(newTestSnapshot(100, 5, 40, 99, 100), nil),
		source.EXPECT().GetSnapshot(shardID).Return(LatencySnapshot{SampleCount: 1}, nil),
		source.EXPECT().GetSnapshot(shardID).Return(newTestSnapshot(100, 5, 40, 99, 100), nil),
	)

	registry := prometheus.NewRegistry()
	controller, err := NewController(logging.NoLog{}, registry, DefaultConfig(), source, state)
	require.NoError(err)

	_, err = controller.Decide(shardID, 0)
	require.NoError(err)
	_, err = controller.HealthCheck(context.Background())
	require.NoError(err)

	_, err = controller.Decide(shardID, 10)
	require.ErrorIs(err, ErrInvariantViolated)

	// Unhealthy even after a later decision succeeds.
	_, err = controller.Decide(shardID, 20)
	require.NoError(err)

	details, err := controller.HealthCheck(context.Background())
	require.ErrorIs(err, errInvariantViolations)
	detailsMap, ok := details.(map[string]interface{})
	require.True(ok)
	require.Equal(uint64(1), detailsMap["invariantViolations"])

	require.Equal(float64(1), testutil.ToFloat64(controller.metrics.invariantViolations))
	require.Equal(float64(2), testutil.ToFloat64(controller.metrics.decisions.WithLabelValues(Increase.String())))
	require.Equal(float64(1_001_000_000), testutil.ToFloat64(controller.metrics.gasLimit.WithLabelValues(shardID.String())))
}

func TestControllerMetrics(t *testing.T) {
	require := require.New(t)
	ctrl := gomock.NewController(t)

	shardID := ids.ShardID(1)
	state := NewMockChainState(ctrl)
	state.EXPECT().CurrentGasLimit(shardID).Return(testGasLimit, nil).AnyTimes()

	controller := newTestController(t, DefaultConfig(), NewMockSnapshotSource(ctrl), state)
	for height := uint64(1); height < 10; height++ {
		gasLimit, err := controller.Decide(shardID, height)
		require.NoError(err)
		require.Equal(testGasLimit, gasLimit)
	}
	require.Equal(float64(9), testutil.ToFloat64(controller.metrics.skippedHeights))
}

func TestControllerInstantEvaluatesEveryHeight(t *testing.T) {
	require := require.New(t)
	ctrl := gomock.NewController(t)

	shardID := ids.ShardID(2)
	state := NewMockChainState(ctrl)
	state.EXPECT().CurrentGasLimit(shardID).Return(testGasLimit, nil).Times(9)
	state.EXPECT().BacklogGas(shardID).Return(uint256.NewInt(1), nil).Times(9)
	state.EXPECT().LastApplyDuration(shardID).Return(2*time.Second, nil).Times(9)

	config := DefaultConfig()
	config.Strategy = InstantStrategy
	controller := newTestController(t, config, NewMockSnapshotSource(ctrl), state)
	for height := uint64(1); height < 10; height++ {
		gasLimit, err := controller.Decide(shardID, height)
		require.NoError(err)
		require.Equal(uint64(999_000_000), gasLimit)
	}
	require.Zero(testutil.ToFloat64(controller.metrics.skippedHeights))
	require.Equal(float64(9), testutil.ToFloat64(controller.metrics.decisions.WithLabelValues(Decrease.String())))
}

func TestNewControllerInvalidConfig(t *testing.T) {
	require := require.New(t)

	config := DefaultConfig()
	config.AdjustmentFactor = 0
	_, err := NewController(logging.NoLog{}, prometheus.NewRegistry(), config, nil, nil)
	require.ErrorIs(err, errAdjustmentFactorTooSmall)
}

func TestNewControllerDuplicateMetrics(t *testing.T) {
	require := require.New(t)

	registry := prometheus.NewRegistry()
	_, err := NewController(logging.NoLog{}, registry, DefaultConfig(), nil, nil)
	require.NoError(err)

	_, err = NewController(logging.NoLog{}, registry, DefaultConfig(), nil, nil)
	require.Error(err)
}
