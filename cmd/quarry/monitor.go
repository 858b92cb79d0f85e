package main

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"google.golang.org/grpc/connectivity"

	"github.com/quarry-storage/quarry/pkg/config"
	"github.com/quarry-storage/quarry/pkg/events"
	"github.com/quarry-storage/quarry/pkg/log"
	"github.com/quarry-storage/quarry/pkg/metrics"
	"github.com/quarry-storage/quarry/pkg/nodeclient"
	"github.com/quarry-storage/quarry/pkg/registry"
	"github.com/quarry-storage/quarry/pkg/state"
	"github.com/quarry-storage/quarry/pkg/types"
)

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Track io-engine node connectivity and serve metrics",
	Long: `Monitor dials every configured io-engine node and tracks transport
connectivity, publishing node online/offline events and serving the
Prometheus metrics and health endpoints. Resource listings require the
engine RPC bindings and are driven by the embedding control plane; this
command only watches the transport layer.`,
	RunE: runMonitor,
}

func init() {
	rootCmd.AddCommand(monitorCmd)
}

func runMonitor(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if len(cfg.Nodes) == 0 {
		return fmt.Errorf("no nodes configured")
	}

	logger := log.WithComponent("monitor")
	metrics.SetVersion(Version)

	broker := events.NewBroker()
	broker.Start()
	defer broker.Stop()

	reg := registry.New(registry.NewSpecs(), state.NewResourceStates(), nil)

	conns := make([]*nodeclient.Conn, 0, len(cfg.Nodes))
	for _, node := range cfg.Nodes {
		conn, err := nodeclient.Dial(types.NodeID(node.ID), node.Endpoint)
		if err != nil {
			return fmt.Errorf("failed to dial node %s: %v", node.ID, err)
		}
		defer conn.Close()
		conns = append(conns, conn)
		logger.Info().Str("node", node.ID).Str("endpoint", node.Endpoint).Msg("dialing node")
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	mux.Handle("/health", metrics.HealthHandler())
	server := &http.Server{Addr: cfg.MetricsAddr, Handler: mux}
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("metrics server failed")
		}
	}()
	logger.Info().Str("addr", cfg.MetricsAddr).Msg("serving metrics and health")

	ticker := time.NewTicker(cfg.PollInterval)
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	checkNodes(reg, broker, conns)
	for {
		select {
		case <-ticker.C:
			checkNodes(reg, broker, conns)
		case <-sigCh:
			logger.Info().Msg("shutting down")
			return server.Close()
		}
	}
}

// checkNodes folds transport connectivity into node liveness.
func checkNodes(reg *registry.Registry, broker *events.Broker, conns []*nodeclient.Conn) {
	for _, conn := range conns {
		cc := conn.ClientConn()
		cc.Connect()

		node := types.Node{ID: conn.Node(), Status: types.NodeStatusOffline}
		switch cc.GetState() {
		case connectivity.Ready, connectivity.Idle:
			node.Status = types.NodeStatusOnline
		}

		previous, known := reg.Node(conn.Node())
		reg.SetNode(node)
		metrics.UpdateComponent("node/"+string(node.ID), node.Online(), cc.GetState().String())

		if !known || previous.Status != node.Status {
			eventType := events.EventNodeOnline
			if !node.Online() {
				eventType = events.EventNodeOffline
			}
			broker.Publish(&events.Event{Type: eventType, Node: string(node.ID)})
		}
	}
}
