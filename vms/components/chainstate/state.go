// Copyright (C) 2019-2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chainstate

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/holiman/uint256"

	"github.com/shardnode/shardnode/ids"
	"github.com/shardnode/shardnode/utils/timer/mockable"
	"github.com/shardnode/shardnode/vms/components/gaslimit"

	safemath "github.com/shardnode/shardnode/utils/math"
)

// MaxBacklogBits is the width the backlog saturates at.
const MaxBacklogBits = 128

var (
	_ gaslimit.ChainState = (*State)(nil)

	ErrHeaderImmutable = errors.New("committed header is immutable")

	errZeroGasLimit = errors.New("gas limit must be positive")

	// maxBacklog is 2^128 - 1.
	maxBacklog = new(uint256.Int).Sub(
		new(uint256.Int).Lsh(uint256.NewInt(1), MaxBacklogBits),
		uint256.NewInt(1),
	)
)

type Config struct {
	// InitialGasLimit is the gas limit of a shard that has not committed a
	// header yet.
	InitialGasLimit uint64 `json:"initialGasLimit"`
	// ApplyTimeHalflife is the halflife of the apply time moving average.
	ApplyTimeHalflife time.Duration `json:"applyTimeHalflife"`
	// AdjustmentFactor bounds the gas limit change between consecutive
	// headers. 0 disables the check.
	AdjustmentFactor uint64 `json:"adjustmentFactor"`
}

// State is an in-memory view of the per-shard chain values the gas limit
// controller decides on.
type State struct {
	config Config
	clock  *mockable.Clock

	lock   sync.RWMutex
	shards map[ids.ShardID]*shard
}

type shard struct {
	gasLimit      uint64
	backlog       *uint256.Int
	lastApply     time.Duration
	applyTime     safemath.Averager
	headerLimits  map[uint64]uint64
	lastCommitted uint64
}

func New(config Config, clock *mockable.Clock) *State {
	return &State{
		config: config,
		clock:  clock,
		shards: make(map[ids.ShardID]*shard),
	}
}

// getShard must be called with the write lock held.
func (s *State) getShard(shardID ids.ShardID) *shard {
	sh, ok := s.shards[shardID]
	if !ok {
		sh = &shard{
			gasLimit:     s.config.InitialGasLimit,
			backlog:      new(uint256.Int),
			applyTime:    safemath.NewUninitializedAverager(s.config.ApplyTimeHalflife),
			headerLimits: make(map[uint64]uint64),
		}
		s.shards[shardID] = sh
	}
	return sh
}

// CurrentGasLimit returns the gas limit of the most recently committed header
// of [shardID].
func (s *State) CurrentGasLimit(shardID ids.ShardID) (uint64, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	sh, ok := s.shards[shardID]
	if !ok {
		return s.config.InitialGasLimit, nil
	}
	return sh.gasLimit, nil
}

// BacklogGas returns a copy of the admitted but not yet included gas of
// [shardID].
func (s *State) BacklogGas(shardID ids.ShardID) (*uint256.Int, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	sh, ok := s.shards[shardID]
	if !ok {
		return new(uint256.Int), nil
	}
	return sh.backlog.Clone(), nil
}

func (s *State) LastApplyDuration(shardID ids.ShardID) (time.Duration, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	sh, ok := s.shards[shardID]
	if !ok {
		return 0, nil
	}
	return sh.lastApply, nil
}

// AverageApplyDuration returns the moving average of the apply times recorded
// for [shardID].
func (s *State) AverageApplyDuration(shardID ids.ShardID) time.Duration {
	s.lock.RLock()
	defer s.lock.RUnlock()

	sh, ok := s.shards[shardID]
	if !ok {
		return 0
	}
	return time.Duration(sh.applyTime.Read())
}

// AddBacklog admits [gas] to the backlog of [shardID]. The backlog saturates
// at MaxBacklogBits bits.
func (s *State) AddBacklog(shardID ids.ShardID, gas uint64) {
	s.lock.Lock()
	defer s.lock.Unlock()

	sh := s.getShard(shardID)
	sh.backlog.Add(sh.backlog, uint256.NewInt(gas))
	if sh.backlog.Gt(maxBacklog) {
		sh.backlog.Set(maxBacklog)
	}
}

// ConsumeBacklog includes up to [gas] of the backlog of [shardID] and returns
// the amount included.
func (s *State) ConsumeBacklog(shardID ids.ShardID, gas uint64) uint64 {
	s.lock.Lock()
	defer s.lock.Unlock()

	sh := s.getShard(shardID)
	consumed := uint256.NewInt(gas)
	if sh.backlog.Lt(consumed) {
		consumed.Set(sh.backlog)
	}
	sh.backlog.Sub(sh.backlog, consumed)
	return consumed.Uint64()
}

// RecordApply records that the last chunk of [shardID] took [duration] to
// apply.
func (s *State) RecordApply(shardID ids.ShardID, duration time.Duration) {
	s.lock.Lock()
	defer s.lock.Unlock()

	sh := s.getShard(shardID)
	sh.lastApply = duration
	sh.applyTime.Observe(float64(duration), s.clock.Time())
}

// Commit records the header of [shardID] at [height] with [gasLimit]. A
// committed header can not be changed: recommitting the same value is a
// no-op and recommitting a different one fails.
func (s *State) Commit(shardID ids.ShardID, height uint64, gasLimit uint64) error {
	if gasLimit == 0 {
		return errZeroGasLimit
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	sh := s.getShard(shardID)
	committed, ok := sh.headerLimits[height]
	if ok {
		if committed != gasLimit {
			return fmt.Errorf("%w: shard %s height %d has gas limit %d, not %d",
				ErrHeaderImmutable,
				shardID,
				height,
				committed,
				gasLimit,
			)
		}
		return nil
	}
	if s.config.AdjustmentFactor != 0 {
		parentGasLimit, ok := sh.headerLimits[height-1]
		if !ok {
			parentGasLimit = sh.gasLimit
		}
		if err := gaslimit.VerifyGasLimit(parentGasLimit, gasLimit, s.config.AdjustmentFactor); err != nil {
			return fmt.Errorf("invalid header for shard %s at height %d: %w", shardID, height, err)
		}
	}

	sh.headerLimits[height] = gasLimit
	if len(sh.headerLimits) == 1 || height >= sh.lastCommitted {
		sh.lastCommitted = height
		sh.gasLimit = gasLimit
	}
	return nil
}

// HeaderGasLimit returns the gas limit committed for [shardID] at [height].
func (s *State) HeaderGasLimit(shardID ids.ShardID, height uint64) (uint64, bool) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	sh, ok := s.shards[shardID]
	if !ok {
		return 0, false
	}
	gasLimit, ok := sh.headerLimits[height]
	return gasLimit, ok
}
