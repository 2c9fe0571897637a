// Copyright (C) 2019-2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package simulator

import (
	"math"
	"time"

	"github.com/holiman/uint256"

	"github.com/shardnode/shardnode/ids"
	safemath "github.com/shardnode/shardnode/utils/math"
)

// ShardReport summarizes the chunks one shard produced during a simulation.
type ShardReport struct {
	ShardID ids.ShardID `json:"shardID"`

	InitialGasLimit uint64 `json:"initialGasLimit"`
	FinalGasLimit   uint64 `json:"finalGasLimit"`
	MinGasLimit     uint64 `json:"minGasLimit"`
	MaxGasLimit     uint64 `json:"maxGasLimit"`
	Increases       uint64 `json:"increases"`
	Decreases       uint64 `json:"decreases"`

	IncludedGas      uint64        `json:"includedGas"`
	FinalBacklog     *uint256.Int  `json:"finalBacklog"`
	MaxApplyTime     time.Duration `json:"maxApplyTime"`
	AverageApplyTime time.Duration `json:"averageApplyTime"`
}

func (r *ShardReport) record(gasLimit, included uint64, applyTime time.Duration, hasPrevious bool) {
	if !hasPrevious {
		r.InitialGasLimit = gasLimit
	} else {
		switch {
		case gasLimit > r.FinalGasLimit:
			r.Increases++
		case gasLimit < r.FinalGasLimit:
			r.Decreases++
		}
	}
	r.FinalGasLimit = gasLimit
	r.MinGasLimit = min(r.MinGasLimit, gasLimit)
	r.MaxGasLimit = max(r.MaxGasLimit, gasLimit)
	// IncludedGas saturates rather than wrapping.
	includedGas, err := safemath.Add64(r.IncludedGas, included)
	if err != nil {
		includedGas = math.MaxUint64
	}
	r.IncludedGas = includedGas
	r.MaxApplyTime = max(r.MaxApplyTime, applyTime)
}

// Report is the outcome of a simulation.
type Report struct {
	Heights uint64        `json:"heights"`
	Shards  []ShardReport `json:"shards"`
}
