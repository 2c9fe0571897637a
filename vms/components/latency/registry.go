// Copyright (C) 2019-2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package latency

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/shardnode/shardnode/ids"
	"github.com/shardnode/shardnode/utils/metric"
	"github.com/shardnode/shardnode/vms/components/gaslimit"
)

const (
	ChunkApplyTimeName = "chunk_apply_time"
	ShardLabel         = "shard"
)

var (
	_ gaslimit.SnapshotSource = (*Registry)(nil)
	_ prometheus.Collector    = (*Registry)(nil)
)

// Registry holds the apply time histogram of every shard this node produces
// chunks for.
type Registry struct {
	desc *prometheus.Desc

	lock       sync.RWMutex
	histograms map[ids.ShardID]*Histogram
}

func NewRegistry(namespace string) *Registry {
	return &Registry{
		desc: prometheus.NewDesc(
			metric.AppendNamespace(namespace, ChunkApplyTimeName),
			"time spent applying a chunk, in seconds",
			[]string{ShardLabel},
			nil,
		),
		histograms: make(map[ids.ShardID]*Histogram),
	}
}

// Histogram returns the histogram of [shardID], creating it if needed.
func (r *Registry) Histogram(shardID ids.ShardID) *Histogram {
	r.lock.RLock()
	h, ok := r.histograms[shardID]
	r.lock.RUnlock()
	if ok {
		return h
	}

	r.lock.Lock()
	defer r.lock.Unlock()

	if h, ok := r.histograms[shardID]; ok {
		return h
	}
	h = NewHistogram()
	r.histograms[shardID] = h
	return h
}

func (r *Registry) Observe(shardID ids.ShardID, duration time.Duration) {
	r.Histogram(shardID).Observe(duration)
}

// GetSnapshot returns the current snapshot of [shardID]. A shard that never
// recorded a chunk has an empty snapshot.
func (r *Registry) GetSnapshot(shardID ids.ShardID) (gaslimit.LatencySnapshot, error) {
	r.lock.RLock()
	h, ok := r.histograms[shardID]
	r.lock.RUnlock()
	if !ok {
		return gaslimit.EmptySnapshot(), nil
	}
	return h.Snapshot(), nil
}

func (r *Registry) Describe(ch chan<- *prometheus.Desc) {
	ch <- r.desc
}

func (r *Registry) Collect(ch chan<- prometheus.Metric) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	for shardID, h := range r.histograms {
		s := h.load()
		buckets := make(map[float64]uint64, len(s.latency.Buckets))
		for _, bucket := range s.latency.Buckets {
			if bucket.UpperBound == metric.InfBound {
				continue
			}
			buckets[bucket.UpperBound] = bucket.CumulativeCount
		}
		ch <- prometheus.MustNewConstHistogram(
			r.desc,
			s.latency.SampleCount,
			s.sum,
			buckets,
			shardID.String(),
		)
	}
}
