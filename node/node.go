// Copyright (C) 2019-2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package node

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/shardnode/shardnode/api/health"
	"github.com/shardnode/shardnode/api/metrics"
	"github.com/shardnode/shardnode/api/server"
	"github.com/shardnode/shardnode/simulator"
	"github.com/shardnode/shardnode/utils/logging"
	"github.com/shardnode/shardnode/utils/metric"
	"github.com/shardnode/shardnode/utils/timer/mockable"
	"github.com/shardnode/shardnode/vms/components/chainstate"
	"github.com/shardnode/shardnode/vms/components/gaslimit"
	"github.com/shardnode/shardnode/vms/components/latency"
)

const (
	gasLimitCheckName  = "gasLimit"
	simulatorCheckName = "simulator"
)

var errNotStarted = errors.New("simulation has not started")

// Node wires the gas limit controller to its collaborators and drives it.
type Node struct {
	Log        logging.Logger
	LogFactory logging.Factory
	Config     *Config

	// Simulated time shared by the chain state and the simulator.
	clock mockable.Clock

	MetricsRegistry *prometheus.Registry
	metricsHandler  http.Handler

	health  health.Health
	started atomic.Bool

	state      *chainstate.State
	source     gaslimit.SnapshotSource
	observer   simulator.Observer
	controller *gaslimit.Controller
	simulator  *simulator.Simulator

	// nil if the HTTP API is disabled
	APIServer   *server.Server
	apiAddr     net.Addr
	apiServerWG sync.WaitGroup
}

func (n *Node) initMetrics() {
	n.MetricsRegistry, n.metricsHandler = metrics.NewService()
}

// registerer returns the registerer components register their metrics with.
func (n *Node) registerer() prometheus.Registerer {
	if len(n.Config.MetricsNamespace) == 0 {
		return n.MetricsRegistry
	}
	return prometheus.WrapRegistererWithPrefix(
		n.Config.MetricsNamespace+metric.NamespaceSeparator,
		n.MetricsRegistry,
	)
}

func (n *Node) initHealth() error {
	healthLog, err := n.LogFactory.Make("health")
	if err != nil {
		return fmt.Errorf("problem initializing health logger: %w", err)
	}
	n.health, err = health.New(healthLog, n.registerer())
	return err
}

func (n *Node) initChainState() {
	n.state = chainstate.New(n.Config.ChainState, &n.clock)
}

func (n *Node) initLatency() error {
	switch n.Config.LatencySource {
	case LatencySourcePrometheus:
		vec := latency.NewChunkApplyTimeVec(n.Config.MetricsNamespace)
		if err := n.MetricsRegistry.Register(vec); err != nil {
			return err
		}
		n.source = latency.NewPrometheusSource(
			n.MetricsRegistry,
			metric.AppendNamespace(n.Config.MetricsNamespace, latency.ChunkApplyTimeName),
		)
		n.observer = latency.NewVecObserver(vec)
	default:
		registry := latency.NewRegistry(n.Config.MetricsNamespace)
		if err := n.MetricsRegistry.Register(registry); err != nil {
			return err
		}
		n.source = registry
		n.observer = registry
	}
	return nil
}

func (n *Node) initGasLimitController() error {
	controllerLog, err := n.LogFactory.Make("gaslimit")
	if err != nil {
		return fmt.Errorf("problem initializing gas limit logger: %w", err)
	}
	n.controller, err = gaslimit.NewController(
		controllerLog,
		n.registerer(),
		n.Config.GasLimit,
		n.source,
		n.state,
	)
	if err != nil {
		return err
	}
	return n.health.RegisterHealthCheck(gasLimitCheckName, health.CheckerFunc(n.controller.HealthCheck))
}

func (n *Node) initSimulator() error {
	simulatorLog, err := n.LogFactory.Make("simulator")
	if err != nil {
		return fmt.Errorf("problem initializing simulator logger: %w", err)
	}
	n.simulator, err = simulator.New(
		simulatorLog,
		n.Config.Simulator,
		&n.clock,
		n.controller,
		n.state,
		n.observer,
	)
	if err != nil {
		return err
	}
	return n.health.RegisterReadinessCheck(simulatorCheckName, health.CheckerFunc(
		func(context.Context) (interface{}, error) {
			if !n.started.Load() {
				return nil, errNotStarted
			}
			return "started", nil
		},
	))
}

func (n *Node) initAPIServer() error {
	if !n.Config.HTTP.Enabled {
		n.Log.Info("skipping API server initialization because it has been disabled")
		return nil
	}

	httpLog, err := n.LogFactory.Make("http")
	if err != nil {
		return fmt.Errorf("problem initializing HTTP logger: %w", err)
	}
	n.APIServer = server.New(
		httpLog,
		n.Config.HTTP.Host,
		n.Config.HTTP.Port,
		n.Config.HTTP.ReadHeaderTimeout,
	)
	n.APIServer.AddRoute(n.metricsHandler, "metrics")
	n.APIServer.AddRoute(health.NewGetHandler(n.health.Health), "health")
	n.APIServer.AddRoute(health.NewGetHandler(n.health.Readiness), "health/readiness")

	n.apiAddr, err = n.APIServer.Listen()
	return err
}

// Initialize this node
func (n *Node) Initialize(
	config *Config,
	logger logging.Logger,
	logFactory logging.Factory,
) error {
	n.Log = logger
	n.LogFactory = logFactory
	n.Config = config

	if err := config.Verify(); err != nil {
		return fmt.Errorf("invalid node config: %w", err)
	}

	n.initMetrics()
	if err := n.initHealth(); err != nil {
		return fmt.Errorf("problem initializing health: %w", err)
	}
	n.initChainState()
	if err := n.initLatency(); err != nil {
		return fmt.Errorf("problem initializing apply time metrics: %w", err)
	}
	if err := n.initGasLimitController(); err != nil {
		return fmt.Errorf("problem initializing gas limit controller: %w", err)
	}
	if err := n.initSimulator(); err != nil {
		return fmt.Errorf("problem initializing simulator: %w", err)
	}
	if err := n.initAPIServer(); err != nil {
		return fmt.Errorf("problem initializing API server: %w", err)
	}
	n.Log.Info("initialized node",
		zap.String("strategy", string(n.controller.Strategy())),
		zap.String("latencySource", n.Config.LatencySource),
	)
	return nil
}

// APIAddr returns the address the API server listens on, or nil if it is
// disabled.
func (n *Node) APIAddr() net.Addr {
	return n.apiAddr
}

// Dispatch starts the API server and health checks, then runs the simulation
// to completion.
func (n *Node) Dispatch(ctx context.Context) (simulator.Report, error) {
	if n.APIServer != nil {
		n.apiServerWG.Add(1)
		go func() {
			defer n.apiServerWG.Done()

			if err := n.APIServer.Dispatch(); err != nil {
				n.Log.Error("API server dispatch failed",
					zap.Error(err),
				)
			}
		}()
	}

	n.health.Start(ctx, n.Config.HealthCheckFrequency)
	n.started.Store(true)
	return n.simulator.Run(ctx)
}

// Health reports the results of the node's health checks.
func (n *Node) Health() (map[string]health.Result, bool) {
	return n.health.Health()
}

// Shutdown this node
func (n *Node) Shutdown() {
	n.Log.Info("shutting down the node")
	n.health.Stop()

	if n.APIServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), n.Config.HTTP.ShutdownTimeout)
		defer cancel()

		if err := n.APIServer.Shutdown(ctx); err != nil {
			n.Log.Debug("failed to shutdown the API server",
				zap.Error(err),
			)
		}
		n.apiServerWG.Wait()
	}
	n.Log.Info("finished node shutdown")
}
