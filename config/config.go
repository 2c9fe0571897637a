// Copyright (C) 2019-2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

import (
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/spf13/viper"

	"github.com/shardnode/shardnode/node"
	"github.com/shardnode/shardnode/simulator"
	"github.com/shardnode/shardnode/utils/logging"
	"github.com/shardnode/shardnode/vms/components/chainstate"
	"github.com/shardnode/shardnode/vms/components/gaslimit"
)

var (
	errInvalidPort         = errors.New("invalid port")
	errNegativeShardDemand = errors.New("shard demand must not be negative")
)

func getLoggingConfig(v *viper.Viper) (logging.Config, error) {
	loggingConfig := logging.DefaultConfig()
	loggingConfig.Directory = os.ExpandEnv(v.GetString(LogsDirKey))

	var err error
	loggingConfig.LogLevel, err = logging.ToLevel(v.GetString(LogLevelKey))
	if err != nil {
		return loggingConfig, err
	}

	logDisplayLevel := v.GetString(LogLevelKey)
	if v.IsSet(LogDisplayLevelKey) {
		logDisplayLevel = v.GetString(LogDisplayLevelKey)
	}
	loggingConfig.DisplayLevel, err = logging.ToLevel(logDisplayLevel)
	if err != nil {
		return loggingConfig, err
	}

	loggingConfig.LogFormat, err = logging.ToHighlight(v.GetString(LogFormatKey), os.Stdout.Fd())
	loggingConfig.DisableWriterDisplaying = v.GetBool(LogDisableDisplayKey)
	loggingConfig.MaxSize = v.GetInt(LogRotaterMaxSizeKey)
	loggingConfig.MaxFiles = v.GetInt(LogRotaterMaxFilesKey)
	loggingConfig.MaxAge = v.GetInt(LogRotaterMaxAgeKey)
	loggingConfig.Compress = v.GetBool(LogRotaterCompressEnabledKey)
	return loggingConfig, err
}

func getGasLimitConfig(v *viper.Viper) (gaslimit.Config, error) {
	thresholds, err := gaslimit.ThresholdsPreset(v.GetString(GasLimitThresholdsKey))
	if err != nil {
		return gaslimit.Config{}, err
	}
	if v.IsSet(GasLimitNoopThresholdKey) {
		thresholds.Noop = v.GetFloat64(GasLimitNoopThresholdKey)
	}
	if v.IsSet(GasLimitIncreaseThresholdKey) {
		thresholds.Increase = v.GetFloat64(GasLimitIncreaseThresholdKey)
	}
	if v.IsSet(GasLimitDecreaseThresholdKey) {
		thresholds.Decrease = v.GetFloat64(GasLimitDecreaseThresholdKey)
	}

	config := gaslimit.Config{
		Strategy:              gaslimit.StrategyName(v.GetString(GasLimitStrategyKey)),
		AdjustmentInterval:    v.GetUint64(GasLimitAdjustmentIntervalKey),
		InvertedGate:          v.GetBool(GasLimitInvertedGateKey),
		AdjustmentFactor:      v.GetUint64(GasLimitAdjustmentFactorKey),
		Thresholds:            thresholds,
		NoopApplyTimeBucket:   v.GetFloat64(GasLimitNoopApplyTimeBucketKey),
		TargetApplyTimeBucket: v.GetFloat64(GasLimitTargetApplyTimeBucketKey),
		TargetApplyTime:       v.GetDuration(GasLimitTargetApplyTimeKey),
		LoadIndicationTime:    v.GetDuration(GasLimitLoadIndicationTimeKey),
		TargetBackoff:         v.GetDuration(GasLimitTargetBackoffKey),
	}
	return config, config.Verify()
}

func getChainStateConfig(v *viper.Viper, adjustmentFactor uint64) chainstate.Config {
	config := chainstate.Config{
		InitialGasLimit:   v.GetUint64(InitialGasLimitKey),
		ApplyTimeHalflife: v.GetDuration(ApplyTimeHalflifeKey),
	}
	if v.GetBool(VerifyHeaderGasLimitKey) {
		config.AdjustmentFactor = adjustmentFactor
	}
	return config
}

func getSimulatorConfig(v *viper.Viper) (simulator.Config, error) {
	config := simulator.Config{
		NumShards:            v.GetInt(SimulatorShardsKey),
		Heights:              v.GetUint64(SimulatorHeightsKey),
		BlockTime:            v.GetDuration(SimulatorBlockTimeKey),
		CapacityGasPerSecond: v.GetUint64(SimulatorCapacityKey),
		DemandGasPerHeight:   v.GetUint64(SimulatorDemandKey),
		ApplyTimeNoise:       v.GetFloat64(SimulatorApplyTimeNoiseKey),
		Seed:                 v.GetUint64(SimulatorSeedKey),
	}
	for _, demand := range v.GetIntSlice(SimulatorShardDemandKey) {
		if demand < 0 {
			return simulator.Config{}, fmt.Errorf("%w: %d", errNegativeShardDemand, demand)
		}
		config.ShardDemand = append(config.ShardDemand, uint64(demand))
	}
	return config, config.Verify()
}

func getHTTPConfig(v *viper.Viper) (node.HTTPConfig, error) {
	port := v.GetUint(HTTPPortKey)
	if port > math.MaxUint16 {
		return node.HTTPConfig{}, fmt.Errorf("%w: %d", errInvalidPort, port)
	}
	return node.HTTPConfig{
		Enabled:           v.GetBool(HTTPEnabledKey),
		Host:              v.GetString(HTTPHostKey),
		Port:              uint16(port),
		ReadHeaderTimeout: v.GetDuration(HTTPReadHeaderTimeoutKey),
		ShutdownTimeout:   v.GetDuration(HTTPShutdownTimeoutKey),
	}, nil
}

// GetNodeConfig returns the node config defined by [v].
func GetNodeConfig(v *viper.Viper) (node.Config, error) {
	nodeConfig := node.Config{
		HealthCheckFrequency: v.GetDuration(HealthCheckFreqKey),
		LatencySource:        v.GetString(LatencySourceKey),
		MetricsNamespace:     v.GetString(MetricsNamespaceKey),
	}

	var err error
	nodeConfig.Logging, err = getLoggingConfig(v)
	if err != nil {
		return node.Config{}, err
	}

	nodeConfig.GasLimit, err = getGasLimitConfig(v)
	if err != nil {
		return node.Config{}, fmt.Errorf("couldn't read gas limit config: %w", err)
	}
	nodeConfig.ChainState = getChainStateConfig(v, nodeConfig.GasLimit.AdjustmentFactor)

	nodeConfig.Simulator, err = getSimulatorConfig(v)
	if err != nil {
		return node.Config{}, fmt.Errorf("couldn't read simulator config: %w", err)
	}

	nodeConfig.HTTP, err = getHTTPConfig(v)
	if err != nil {
		return node.Config{}, err
	}
	return nodeConfig, nodeConfig.Verify()
}
