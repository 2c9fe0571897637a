// Copyright (C) 2019-2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"

	"github.com/shardnode/shardnode/node"
	"github.com/shardnode/shardnode/simulator"
	"github.com/shardnode/shardnode/utils/logging"
	"github.com/shardnode/shardnode/vms/components/gaslimit"
)

const (
	EnvPrefix = "shardnode"

	defaultInitialGasLimit uint64 = 1_000_000_000
)

func addNodeFlags(fs *pflag.FlagSet) {
	// Config file
	fs.String(ConfigFileKey, "", fmt.Sprintf("Specifies a config file. Ignored if %s is specified", ConfigContentKey))
	fs.String(ConfigContentKey, "", "Specifies base64 encoded config content")
	fs.String(ConfigContentTypeKey, "json", "Specifies the format of the base64 encoded config content. JSON and YAML are supported")

	// Logging
	loggingConfig := logging.DefaultConfig()
	fs.String(LogsDirKey, "", "Logging directory. Empty disables writing logs to disk")
	fs.String(LogLevelKey, loggingConfig.LogLevel.String(), "The log level. Should be one of {verbo, debug, trace, info, warn, error, fatal, off}")
	fs.String(LogDisplayLevelKey, "", "The log display level. If left blank, will inherit the value of log-level. Otherwise, should be one of {verbo, debug, trace, info, warn, error, fatal, off}")
	fs.String(LogFormatKey, "auto", "The structure of log format. Defaults to 'auto' which formats terminal-like logs, when the output is a terminal. Otherwise, should be one of {auto, plain, colors}")
	fs.Bool(LogDisableDisplayKey, false, "Whether to disable writing logs to stdout")
	fs.Int(LogRotaterMaxSizeKey, loggingConfig.MaxSize, "The maximum file size in megabytes of the log file before it gets rotated")
	fs.Int(LogRotaterMaxFilesKey, loggingConfig.MaxFiles, "The maximum number of old log files to retain. 0 means retain all old log files")
	fs.Int(LogRotaterMaxAgeKey, loggingConfig.MaxAge, "The maximum number of days to retain old log files based on the timestamp encoded in their filename. 0 means retain all old log files")
	fs.Bool(LogRotaterCompressEnabledKey, false, "Enables the compression of rotated log files through gzip")

	// Gas limit
	gasLimitConfig := gaslimit.DefaultConfig()
	fs.String(GasLimitStrategyKey, string(gasLimitConfig.Strategy), fmt.Sprintf("Gas limit strategy. Should be one of {%s, %s, %s}", gaslimit.PeriodicStrategy, gaslimit.BacklogStrategy, gaslimit.InstantStrategy))
	fs.Uint64(GasLimitAdjustmentIntervalKey, gasLimitConfig.AdjustmentInterval, "Number of heights between gas limit adjustments. 1 adjusts at every height")
	fs.Bool(GasLimitInvertedGateKey, false, "Adjust at heights that are not multiples of the adjustment interval")
	fs.Uint64(GasLimitAdjustmentFactorKey, gasLimitConfig.AdjustmentFactor, "Divisor of the gas limit giving the step of a single adjustment")
	fs.String(GasLimitThresholdsKey, gaslimit.ThresholdsLatestName, fmt.Sprintf("Threshold preset. Should be one of {%s, %s}", gaslimit.ThresholdsV1Name, gaslimit.ThresholdsLatestName))
	fs.Float64(GasLimitNoopThresholdKey, 0, "Overrides the noop threshold of the preset")
	fs.Float64(GasLimitIncreaseThresholdKey, 0, "Overrides the increase threshold of the preset")
	fs.Float64(GasLimitDecreaseThresholdKey, 0, "Overrides the decrease threshold of the preset")
	fs.Float64(GasLimitNoopApplyTimeBucketKey, gasLimitConfig.NoopApplyTimeBucket, "Apply time histogram bound, in seconds, of lightly loaded chunks")
	fs.Float64(GasLimitTargetApplyTimeBucketKey, gasLimitConfig.TargetApplyTimeBucket, "Apply time histogram bound, in seconds, of the target apply time")
	fs.Duration(GasLimitTargetApplyTimeKey, gasLimitConfig.TargetApplyTime, "Apply time above which the instant strategy decreases the gas limit")
	fs.Duration(GasLimitLoadIndicationTimeKey, gasLimitConfig.LoadIndicationTime, "Apply time above which the instant strategy considers a shard loaded")
	fs.Duration(GasLimitTargetBackoffKey, gasLimitConfig.TargetBackoff, "Margin below the target apply time the instant strategy stops increasing at")

	// Chain state
	fs.Uint64(InitialGasLimitKey, defaultInitialGasLimit, "Gas limit of shards that have not committed a header")
	fs.Duration(ApplyTimeHalflifeKey, time.Minute, "Halflife of the apply time moving average")
	fs.Bool(VerifyHeaderGasLimitKey, true, "Reject committed headers whose gas limit changes by more than the adjustment bound")
	fs.String(LatencySourceKey, node.LatencySourceRegistry, fmt.Sprintf("Where apply times are recorded and read from. Should be one of {%s, %s}", node.LatencySourceRegistry, node.LatencySourcePrometheus))

	// Metrics and health
	fs.String(MetricsNamespaceKey, EnvPrefix, "Namespace of exported metrics")
	fs.Duration(HealthCheckFreqKey, 30*time.Second, "Time between health checks")

	// Simulator
	simulatorConfig := simulator.DefaultConfig()
	fs.Int(SimulatorShardsKey, simulatorConfig.NumShards, "Number of simulated shards")
	fs.Uint64(SimulatorHeightsKey, simulatorConfig.Heights, "Number of simulated heights")
	fs.Duration(SimulatorBlockTimeKey, simulatorConfig.BlockTime, "Simulated time between heights")
	fs.Uint64(SimulatorCapacityKey, simulatorConfig.CapacityGasPerSecond, "Gas a shard applies per second")
	fs.Uint64(SimulatorDemandKey, simulatorConfig.DemandGasPerHeight, "Gas admitted to every shard's backlog per height")
	fs.IntSlice(SimulatorShardDemandKey, nil, fmt.Sprintf("Per shard gas admitted per height. Overrides %s when set", SimulatorDemandKey))
	fs.Float64(SimulatorApplyTimeNoiseKey, simulatorConfig.ApplyTimeNoise, "Sigma of the log-normal apply time noise")
	fs.Uint64(SimulatorSeedKey, simulatorConfig.Seed, "Seed of the apply time noise")

	// HTTP APIs
	fs.Bool(HTTPEnabledKey, false, "Whether to serve the metrics and health APIs")
	fs.String(HTTPHostKey, "127.0.0.1", "Address of the HTTP server")
	fs.Uint16(HTTPPortKey, 9650, "Port of the HTTP server")
	fs.Duration(HTTPReadHeaderTimeoutKey, 30*time.Second, "Maximum duration to read request headers")
	fs.Duration(HTTPShutdownTimeoutKey, 10*time.Second, "Maximum duration to wait for existing connections to complete during node shutdown")
}

// BuildFlagSet returns a complete set of flags for the node
func BuildFlagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("shardnode", pflag.ContinueOnError)
	addNodeFlags(fs)
	return fs
}
