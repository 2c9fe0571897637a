// Copyright (C) 2019-2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package simulator

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/holiman/uint256"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mathext/prng"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/shardnode/shardnode/ids"
	"github.com/shardnode/shardnode/utils/logging"
	"github.com/shardnode/shardnode/utils/timer/mockable"
)

// Decider returns the gas limit a shard produces its next chunk with.
type Decider interface {
	Decide(shardID ids.ShardID, height uint64) (uint64, error)
}

// State is the chain state the simulated shards mutate.
type State interface {
	BacklogGas(shardID ids.ShardID) (*uint256.Int, error)
	AverageApplyDuration(shardID ids.ShardID) time.Duration
	AddBacklog(shardID ids.ShardID, gas uint64)
	ConsumeBacklog(shardID ids.ShardID, gas uint64) uint64
	RecordApply(shardID ids.ShardID, duration time.Duration)
	Commit(shardID ids.ShardID, height uint64, gasLimit uint64) error
}

// Observer records chunk apply times.
type Observer interface {
	Observe(shardID ids.ShardID, duration time.Duration)
}

// Simulator drives shards that produce one chunk per height. Every shard
// admits demand to its backlog, asks the decider for a gas limit, includes
// as much of the backlog as the limit allows and takes time proportional to
// the included gas to apply the chunk.
type Simulator struct {
	log      logging.Logger
	config   Config
	clock    *mockable.Clock
	decider  Decider
	state    State
	observer Observer

	shards []*shard
}

type shard struct {
	id        ids.ShardID
	demand    uint64
	noise     distuv.LogNormal
	report    ShardReport
	committed bool
}

func New(
	log logging.Logger,
	config Config,
	clock *mockable.Clock,
	decider Decider,
	state State,
	observer Observer,
) (*Simulator, error) {
	if err := config.Verify(); err != nil {
		return nil, fmt.Errorf("invalid simulator config: %w", err)
	}

	shards := make([]*shard, config.NumShards)
	for i := range shards {
		source := prng.NewMT19937()
		source.Seed(config.Seed + uint64(i))
		shards[i] = &shard{
			id:     ids.ShardID(i),
			demand: config.demand(i),
			noise: distuv.LogNormal{
				Mu:    0,
				Sigma: config.ApplyTimeNoise,
				Src:   source,
			},
			report: ShardReport{
				ShardID:     ids.ShardID(i),
				MinGasLimit: math.MaxUint64,
			},
		}
	}
	return &Simulator{
		log:      log,
		config:   config,
		clock:    clock,
		decider:  decider,
		state:    state,
		observer: observer,
		shards:   shards,
	}, nil
}

// Run simulates every configured height and returns the per shard outcome.
// Shards of the same height run concurrently.
func (s *Simulator) Run(ctx context.Context) (Report, error) {
	s.log.Info("starting simulation",
		zap.Int("numShards", s.config.NumShards),
		zap.Uint64("heights", s.config.Heights),
		zap.Uint64("seed", s.config.Seed),
	)

	for height := uint64(1); height <= s.config.Heights; height++ {
		if err := ctx.Err(); err != nil {
			return Report{}, err
		}

		s.clock.Advance(s.config.BlockTime)

		var eg errgroup.Group
		for _, sh := range s.shards {
			sh := sh
			eg.Go(func() error {
				return s.step(sh, height)
			})
		}
		if err := eg.Wait(); err != nil {
			return Report{}, fmt.Errorf("failed at height %d: %w", height, err)
		}

		s.log.Verbo("simulated height",
			zap.Uint64("height", height),
		)
	}

	report := Report{
		Heights: s.config.Heights,
		Shards:  make([]ShardReport, len(s.shards)),
	}
	for i, sh := range s.shards {
		backlog, err := s.state.BacklogGas(sh.id)
		if err != nil {
			return Report{}, err
		}
		sh.report.FinalBacklog = backlog
		sh.report.AverageApplyTime = s.state.AverageApplyDuration(sh.id)
		report.Shards[i] = sh.report
	}

	s.log.Info("finished simulation",
		zap.Uint64("heights", s.config.Heights),
	)
	return report, nil
}

func (s *Simulator) step(sh *shard, height uint64) error {
	s.state.AddBacklog(sh.id, sh.demand)

	gasLimit, err := s.decider.Decide(sh.id, height)
	if err != nil {
		return fmt.Errorf("couldn't decide gas limit of shard %s: %w", sh.id, err)
	}
	if err := s.state.Commit(sh.id, height, gasLimit); err != nil {
		return err
	}

	included := s.state.ConsumeBacklog(sh.id, gasLimit)
	seconds := float64(included) / float64(s.config.CapacityGasPerSecond) * sh.noise.Rand()
	applyTime := time.Duration(seconds * float64(time.Second))

	s.observer.Observe(sh.id, applyTime)
	s.state.RecordApply(sh.id, applyTime)

	sh.report.record(gasLimit, included, applyTime, sh.committed)
	sh.committed = true
	return nil
}
