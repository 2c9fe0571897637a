// Copyright (C) 2019-2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package gaslimit

// Gate decides which heights are eligible for a gas limit re-evaluation. It
// bounds the adjustment rate of the control loop regardless of signal noise.
type Gate struct {
	Interval uint64
	// Inverted selects heights that are not multiples of Interval.
	Inverted bool
}

func (g Gate) ShouldAdjust(height uint64) bool {
	if g.Interval <= 1 {
		return true
	}
	onInterval := height%g.Interval == 0
	return onInterval != g.Inverted
}
