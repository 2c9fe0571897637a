// Copyright (C) 2019-2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

const (
	ConfigFileKey        = "config-file"
	ConfigContentKey     = "config-file-content"
	ConfigContentTypeKey = "config-file-content-type"

	LogsDirKey                   = "log-dir"
	LogLevelKey                  = "log-level"
	LogDisplayLevelKey           = "log-display-level"
	LogFormatKey                 = "log-format"
	LogDisableDisplayKey         = "log-disable-display"
	LogRotaterMaxSizeKey         = "log-rotater-max-size"
	LogRotaterMaxFilesKey        = "log-rotater-max-files"
	LogRotaterMaxAgeKey          = "log-rotater-max-age"
	LogRotaterCompressEnabledKey = "log-rotater-compress-enabled"

	GasLimitStrategyKey              = "gas-limit-strategy"
	GasLimitAdjustmentIntervalKey    = "gas-limit-adjustment-interval"
	GasLimitInvertedGateKey          = "gas-limit-inverted-gate"
	GasLimitAdjustmentFactorKey      = "gas-limit-adjustment-factor"
	GasLimitThresholdsKey            = "gas-limit-thresholds"
	GasLimitNoopThresholdKey         = "gas-limit-noop-threshold"
	GasLimitIncreaseThresholdKey     = "gas-limit-increase-threshold"
	GasLimitDecreaseThresholdKey     = "gas-limit-decrease-threshold"
	GasLimitNoopApplyTimeBucketKey   = "gas-limit-noop-apply-time-bucket"
	GasLimitTargetApplyTimeBucketKey = "gas-limit-target-apply-time-bucket"
	GasLimitTargetApplyTimeKey       = "gas-limit-target-apply-time"
	GasLimitLoadIndicationTimeKey    = "gas-limit-load-indication-time"
	GasLimitTargetBackoffKey         = "gas-limit-target-backoff"

	InitialGasLimitKey      = "initial-gas-limit"
	ApplyTimeHalflifeKey    = "apply-time-halflife"
	VerifyHeaderGasLimitKey = "verify-header-gas-limit"
	LatencySourceKey        = "latency-source"
	MetricsNamespaceKey     = "metrics-namespace"
	HealthCheckFreqKey      = "health-check-frequency"

	SimulatorShardsKey         = "simulator-shards"
	SimulatorHeightsKey        = "simulator-heights"
	SimulatorBlockTimeKey      = "simulator-block-time"
	SimulatorCapacityKey       = "simulator-capacity"
	SimulatorDemandKey         = "simulator-demand"
	SimulatorShardDemandKey    = "simulator-shard-demand"
	SimulatorApplyTimeNoiseKey = "simulator-apply-time-noise"
	SimulatorSeedKey           = "simulator-seed"

	HTTPEnabledKey           = "http-enabled"
	HTTPHostKey              = "http-host"
	HTTPPortKey              = "http-port"
	HTTPReadHeaderTimeoutKey = "http-read-header-timeout"
	HTTPShutdownTimeoutKey   = "http-shutdown-timeout"
)
