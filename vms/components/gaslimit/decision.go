// Copyright (C) 2019-2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package gaslimit

import (
	"errors"
	"fmt"

	safemath "github.com/shardnode/shardnode/utils/math"
)

const (
	Noop Direction = iota
	Increase
	Decrease
)

var (
	errZeroGasLimit      = fmt.Errorf("%w: gas limit must be positive", ErrInvariantViolated)
	errInvalidStepFactor = fmt.Errorf("%w: adjustment factor must be at least 2", ErrInvariantViolated)
	errUnknownDirection  = fmt.Errorf("%w: unknown direction", ErrInvariantViolated)

	ErrGasLimitChangeTooLarge = errors.New("gas limit change exceeds adjustment bound")

	noEvidenceDecision = Decision{
		Direction: Noop,
		Reason:    "no apply time samples",
	}
)

const overflowHoldingReason = "increase would overflow the gas limit"

// Direction is the outcome of a strategy.
type Direction uint8

func (d Direction) String() string {
	switch d {
	case Noop:
		return "noop"
	case Increase:
		return "increase"
	case Decrease:
		return "decrease"
	default:
		return "unknown"
	}
}

// Decision is the direction chosen by a strategy along with a human readable
// explanation of the signals that led to it.
type Decision struct {
	Direction Direction
	Reason    string
}

// Step applies a single proportional step of gasLimit / factor in [direction].
// The step is never compounded: the returned limit differs from [gasLimit] by
// exactly 0 or gasLimit / factor.
//
// factor >= 2 guarantees a decrease keeps the gas limit positive.
func Step(gasLimit, factor uint64, direction Direction) (uint64, error) {
	if gasLimit == 0 {
		return 0, errZeroGasLimit
	}
	if factor < 2 {
		return 0, fmt.Errorf("%w: got %d", errInvalidStepFactor, factor)
	}

	step := gasLimit / factor
	switch direction {
	case Noop:
		return gasLimit, nil
	case Increase:
		return safemath.Add64(gasLimit, step)
	case Decrease:
		return safemath.Sub(gasLimit, step)
	default:
		return 0, fmt.Errorf("%w: %d", errUnknownDirection, direction)
	}
}

// NewGasLimit asks [strategy] for a decision and applies it to [gasLimit].
// An increase that would overflow holds the gas limit instead.
func NewGasLimit(
	strategy Strategy,
	gasLimit uint64,
	factor uint64,
	signals Signals,
) (uint64, Decision, error) {
	decision, err := strategy.Decide(signals)
	if err != nil {
		return 0, Decision{}, err
	}

	newGasLimit, err := Step(gasLimit, factor, decision.Direction)
	if errors.Is(err, safemath.ErrOverflow) {
		return gasLimit, Decision{
			Direction: Noop,
			Reason:    overflowHoldingReason,
		}, nil
	}
	if err != nil {
		return 0, Decision{}, err
	}
	return newGasLimit, decision, nil
}

// VerifyGasLimit checks that a header with [gasLimit] may follow a parent
// with [parentGasLimit]. Validators run this instead of the controller.
func VerifyGasLimit(parentGasLimit, gasLimit, factor uint64) error {
	if gasLimit == 0 {
		return errZeroGasLimit
	}
	if factor < 2 {
		return fmt.Errorf("%w: got %d", errInvalidStepFactor, factor)
	}

	bound := parentGasLimit / factor
	var diff uint64
	if gasLimit > parentGasLimit {
		diff = gasLimit - parentGasLimit
	} else {
		diff = parentGasLimit - gasLimit
	}
	if diff > bound {
		return fmt.Errorf("%w: %d -> %d exceeds %d",
			ErrGasLimitChangeTooLarge,
			parentGasLimit,
			gasLimit,
			bound,
		)
	}
	return nil
}
