// Copyright (C) 2019-2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ids

import (
	"errors"
	"fmt"
	"strconv"
)

var errEmptyShardID = errors.New("empty shard ID")

// ShardID identifies a partition of chain state. Its decimal string form is
// used as a metric label.
type ShardID uint64

func (id ShardID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

// ShardIDFromString is the inverse of ShardID.String()
func ShardIDFromString(shardIDStr string) (ShardID, error) {
	if len(shardIDStr) == 0 {
		return 0, errEmptyShardID
	}
	id, err := strconv.ParseUint(shardIDStr, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("couldn't parse shard ID %q: %w", shardIDStr, err)
	}
	return ShardID(id), nil
}

func (id ShardID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

func (id *ShardID) UnmarshalText(text []byte) error {
	parsed, err := ShardIDFromString(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}
