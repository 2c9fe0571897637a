// Copyright (C) 2019-2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/shardnode/shardnode/config"
	"github.com/shardnode/shardnode/node"
	"github.com/shardnode/shardnode/simulator"
	"github.com/shardnode/shardnode/utils/logging"
)

const header = `     _                   _                 _
 ___| |__   __ _ _ __ __| |_ __   ___   __| | ___
/ __| '_ \ / _' | '__/ _' | '_ \ / _ \ / _' |/ _ \
\__ \ | | | (_| | | | (_| | | | | (_) | (_| |  __/
|___/_| |_|\__,_|_|  \__,_|_| |_|\___/ \__,_|\___|`

func main() {
	os.Exit(run())
}

func run() int {
	fs := config.BuildFlagSet()
	v, err := config.BuildViper(fs, os.Args[1:])
	if errors.Is(err, pflag.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Printf("couldn't configure flags: %s\n", err)
		return 1
	}

	nodeConfig, err := config.GetNodeConfig(v)
	if err != nil {
		fmt.Printf("couldn't load node config: %s\n", err)
		return 1
	}

	if term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Println(header)
	}

	logFactory := logging.NewFactory(nodeConfig.Logging)
	defer logFactory.Close()

	log, err := logFactory.Make("main")
	if err != nil {
		fmt.Printf("couldn't initialize log: %s\n", err)
		return 1
	}

	n := &node.Node{}
	if err := n.Initialize(&nodeConfig, log, logFactory); err != nil {
		log.Fatal("error initializing node",
			zap.Error(err),
		)
		return 1
	}
	defer n.Shutdown()

	if addr := n.APIAddr(); addr != nil {
		log.Info("serving APIs",
			zap.Stringer("address", addr),
		)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	start := time.Now()
	report, err := n.Dispatch(ctx)
	if err != nil {
		log.Error("simulation failed",
			zap.Error(err),
		)
		return 1
	}
	logReport(log, report, time.Since(start))
	return 0
}

func logReport(log logging.Logger, report simulator.Report, elapsed time.Duration) {
	log.Info("simulation finished",
		zap.String("heights", formatUint64(report.Heights)),
		zap.Duration("elapsed", elapsed),
	)
	for _, shard := range report.Shards {
		log.Info("shard summary",
			zap.Stringer("shardID", shard.ShardID),
			zap.String("initialGasLimit", formatUint64(shard.InitialGasLimit)),
			zap.String("finalGasLimit", formatUint64(shard.FinalGasLimit)),
			zap.String("minGasLimit", formatUint64(shard.MinGasLimit)),
			zap.String("maxGasLimit", formatUint64(shard.MaxGasLimit)),
			zap.Uint64("increases", shard.Increases),
			zap.Uint64("decreases", shard.Decreases),
			zap.String("includedGas", formatUint64(shard.IncludedGas)),
			zap.String("finalBacklog", humanize.BigComma(shard.FinalBacklog.ToBig())),
			zap.Duration("maxApplyTime", shard.MaxApplyTime),
			zap.Duration("averageApplyTime", shard.AverageApplyTime),
		)
	}
}

// formatUint64 renders [v] with thousands separators over the full uint64
// range.
func formatUint64(v uint64) string {
	return humanize.BigComma(new(big.Int).SetUint64(v))
}
