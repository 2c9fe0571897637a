// Copyright (C) 2019-2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package simulator

import (
	"errors"
	"time"
)

var (
	errNoShards          = errors.New("at least one shard is required")
	errNoHeights         = errors.New("at least one height is required")
	errZeroBlockTime     = errors.New("block time must be positive")
	errZeroCapacity      = errors.New("capacity must be positive")
	errNegativeNoise     = errors.New("apply time noise must not be negative")
	errDemandLenMismatch = errors.New("per shard demand must be empty or match the number of shards")
)

type Config struct {
	NumShards int    `json:"numShards"`
	Heights   uint64 `json:"heights"`
	// BlockTime is the simulated time between two heights.
	BlockTime time.Duration `json:"blockTime"`
	// CapacityGasPerSecond is the gas a shard applies in one second.
	CapacityGasPerSecond uint64 `json:"capacityGasPerSecond"`
	// DemandGasPerHeight is the gas admitted to every shard's backlog at each
	// height.
	DemandGasPerHeight uint64 `json:"demandGasPerHeight"`
	// ShardDemand overrides DemandGasPerHeight per shard when set.
	ShardDemand []uint64 `json:"shardDemand"`
	// ApplyTimeNoise is the sigma of the log-normal factor applied to every
	// apply time. 0 disables the noise.
	ApplyTimeNoise float64 `json:"applyTimeNoise"`
	Seed           uint64  `json:"seed"`
}

func DefaultConfig() Config {
	return Config{
		NumShards:            4,
		Heights:              1_000,
		BlockTime:            2 * time.Second,
		CapacityGasPerSecond: 1_000_000_000,
		DemandGasPerHeight:   1_200_000_000,
		ApplyTimeNoise:       0.1,
		Seed:                 1,
	}
}

func (c Config) Verify() error {
	switch {
	case c.NumShards <= 0:
		return errNoShards
	case c.Heights == 0:
		return errNoHeights
	case c.BlockTime <= 0:
		return errZeroBlockTime
	case c.CapacityGasPerSecond == 0:
		return errZeroCapacity
	case c.ApplyTimeNoise < 0:
		return errNegativeNoise
	case len(c.ShardDemand) != 0 && len(c.ShardDemand) != c.NumShards:
		return errDemandLenMismatch
	default:
		return nil
	}
}

func (c Config) demand(shard int) uint64 {
	if len(c.ShardDemand) == 0 {
		return c.DemandGasPerHeight
	}
	return c.ShardDemand[shard]
}
