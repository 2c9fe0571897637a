// Copyright (C) 2019-2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package latency

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/shardnode/shardnode/ids"
	"github.com/shardnode/shardnode/utils/metric"
	"github.com/shardnode/shardnode/vms/components/gaslimit"

	dto "github.com/prometheus/client_model/go"
)

var (
	_ gaslimit.SnapshotSource = (*PrometheusSource)(nil)

	errNotHistogram = fmt.Errorf("%w: metric is not a histogram", gaslimit.ErrInvariantViolated)
)

// PrometheusSource reads apply time histograms from a prometheus gatherer.
// Every read gathers the whole registry, so it is intended for nodes that
// already export the histogram through an external metrics pipeline.
type PrometheusSource struct {
	gatherer prometheus.Gatherer
	name     string
}

// NewPrometheusSource reads the histogram named [name] labelled by
// ShardLabel from [gatherer].
func NewPrometheusSource(gatherer prometheus.Gatherer, name string) *PrometheusSource {
	return &PrometheusSource{
		gatherer: gatherer,
		name:     name,
	}
}

// NewChunkApplyTimeVec returns a histogram vector with the schema the gas
// limit controller reads.
func NewChunkApplyTimeVec(namespace string) *prometheus.HistogramVec {
	return prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      ChunkApplyTimeName,
			Help:      "time spent applying a chunk, in seconds",
			Buckets:   metric.ChunkApplyTimeBuckets,
		},
		[]string{ShardLabel},
	)
}

func (s *PrometheusSource) GetSnapshot(shardID ids.ShardID) (gaslimit.LatencySnapshot, error) {
	families, err := s.gatherer.Gather()
	if err != nil {
		return gaslimit.LatencySnapshot{}, fmt.Errorf("couldn't gather metrics: %w", err)
	}

	shard := shardID.String()
	for _, family := range families {
		if family.GetName() != s.name {
			continue
		}
		if family.GetType() != dto.MetricType_HISTOGRAM {
			return gaslimit.LatencySnapshot{}, fmt.Errorf("%w: %q has type %s",
				errNotHistogram,
				s.name,
				family.GetType(),
			)
		}
		for _, m := range family.GetMetric() {
			if hasLabel(m, ShardLabel, shard) {
				return toSnapshot(m.GetHistogram()), nil
			}
		}
	}
	// The shard has not recorded a chunk yet.
	return gaslimit.EmptySnapshot(), nil
}

func hasLabel(m *dto.Metric, name, value string) bool {
	for _, label := range m.GetLabel() {
		if label.GetName() == name {
			return label.GetValue() == value
		}
	}
	return false
}

// toSnapshot converts [h] without validating its bounds. Reading a bucket
// from the result reports any schema mismatch.
func toSnapshot(h *dto.Histogram) gaslimit.LatencySnapshot {
	dtoBuckets := h.GetBucket()
	buckets := make([]gaslimit.Bucket, 0, len(dtoBuckets)+1)
	for _, bucket := range dtoBuckets {
		if bucket.GetUpperBound() == metric.InfBound {
			continue
		}
		buckets = append(buckets, gaslimit.Bucket{
			UpperBound:      bucket.GetUpperBound(),
			CumulativeCount: bucket.GetCumulativeCount(),
		})
	}
	buckets = append(buckets, gaslimit.Bucket{
		UpperBound:      metric.InfBound,
		CumulativeCount: h.GetSampleCount(),
	})
	return gaslimit.LatencySnapshot{
		Buckets:     buckets,
		SampleCount: h.GetSampleCount(),
	}
}

// VecObserver records apply times into a histogram vector built by
// NewChunkApplyTimeVec.
type VecObserver struct {
	vec *prometheus.HistogramVec
}

func NewVecObserver(vec *prometheus.HistogramVec) *VecObserver {
	return &VecObserver{vec: vec}
}

func (o *VecObserver) Observe(shardID ids.ShardID, duration time.Duration) {
	o.vec.WithLabelValues(shardID.String()).Observe(duration.Seconds())
}
