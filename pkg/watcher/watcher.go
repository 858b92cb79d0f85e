package watcher

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/quarry-storage/quarry/pkg/events"
	"github.com/quarry-storage/quarry/pkg/log"
	"github.com/quarry-storage/quarry/pkg/metrics"
	"github.com/quarry-storage/quarry/pkg/nodeclient"
	"github.com/quarry-storage/quarry/pkg/registry"
	"github.com/quarry-storage/quarry/pkg/types"
)

// DefaultInterval is the default poll interval for node reports.
const DefaultInterval = 5 * time.Second

// Watcher keeps the resource state cache current by polling every
// io-engine node and replacing the cache snapshots class by class. It is
// the sole writer of the cache; the scheduler only reads.
type Watcher struct {
	registry *registry.Registry
	broker   *events.Broker
	interval time.Duration

	mu      sync.RWMutex
	clients map[types.NodeID]nodeclient.NodeClient

	stopCh chan struct{}
	doneCh chan struct{}
}

// New creates a watcher over the given registry. A nil broker disables
// event publication.
func New(reg *registry.Registry, broker *events.Broker, interval time.Duration) *Watcher {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Watcher{
		registry: reg,
		broker:   broker,
		interval: interval,
		clients:  make(map[types.NodeID]nodeclient.NodeClient),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// AddNode registers a node client to poll.
func (w *Watcher) AddNode(client nodeclient.NodeClient) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.clients[client.Node()] = client
}

// RemoveNode unregisters a node. Its resources disappear from the cache
// at the next refresh.
func (w *Watcher) RemoveNode(node types.NodeID) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.clients, node)
}

// Start begins the polling loop
func (w *Watcher) Start() {
	go w.run()
}

// Stop stops the polling loop and waits for the current cycle to finish.
func (w *Watcher) Stop() {
	close(w.stopCh)
	<-w.doneCh
}

func (w *Watcher) run() {
	defer close(w.doneCh)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	logger := log.WithComponent("watcher")

	// refresh immediately on start
	w.Refresh(context.Background())

	for {
		select {
		case <-ticker.C:
			if err := w.Refresh(context.Background()); err != nil {
				logger.Error().Err(err).Msg("state refresh failed")
			}
		case <-w.stopCh:
			return
		}
	}
}

// nodeReport is one node's full resource listing.
type nodeReport struct {
	node     types.NodeID
	pools    []types.Pool
	replicas []types.Replica
	nexuses  []types.Nexus
	err      error
}

// Refresh polls every registered node once and replaces the cache
// snapshots. A node that fails to report is marked offline and its
// resources drop out of the snapshot; the returned error is the first
// node failure, for logging only — the refresh itself always completes
// with whatever reports succeeded.
func (w *Watcher) Refresh(ctx context.Context) error {
	timer := metrics.NewTimer()
	defer timer.ObserveDuration(metrics.RefreshDuration)

	w.mu.RLock()
	clients := make([]nodeclient.NodeClient, 0, len(w.clients))
	for _, client := range w.clients {
		clients = append(clients, client)
	}
	w.mu.RUnlock()

	reports := make([]nodeReport, len(clients))
	g, gctx := errgroup.WithContext(ctx)
	for i, client := range clients {
		i, client := i, client
		g.Go(func() error {
			reports[i] = w.pollNode(gctx, client)
			return nil
		})
	}
	_ = g.Wait()

	var pools []types.Pool
	var replicas []types.Replica
	var nexuses []types.Nexus
	var firstErr error
	for _, report := range reports {
		if report.err != nil {
			if firstErr == nil {
				firstErr = report.err
			}
			continue
		}
		pools = append(pools, report.pools...)
		replicas = append(replicas, report.replicas...)
		nexuses = append(nexuses, report.nexuses...)
	}

	// replicas land before the pools that host them so a reader joining
	// pools to replicas never sees a pool with phantom children
	states := w.registry.States()
	states.UpdateReplicas(replicas)
	w.publish(events.EventReplicasRefreshed, len(replicas))
	states.UpdatePools(pools)
	w.publish(events.EventPoolsRefreshed, len(pools))
	states.UpdateNexuses(nexuses)
	w.publish(events.EventNexusesRefreshed, len(nexuses))

	metrics.RefreshTotal.WithLabelValues("replicas").Inc()
	metrics.RefreshTotal.WithLabelValues("pools").Inc()
	metrics.RefreshTotal.WithLabelValues("nexuses").Inc()
	w.observeStates(pools, replicas, nexuses)

	return firstErr
}

// pollNode lists one node's resources and updates its liveness record.
func (w *Watcher) pollNode(ctx context.Context, client nodeclient.NodeClient) nodeReport {
	report := nodeReport{node: client.Node()}

	report.pools, report.err = client.ListPools(ctx)
	if report.err == nil {
		report.replicas, report.err = client.ListReplicas(ctx)
	}
	if report.err == nil {
		report.nexuses, report.err = client.ListNexuses(ctx)
	}

	node := types.Node{ID: client.Node(), Status: types.NodeStatusOnline}
	if report.err != nil {
		node.Status = types.NodeStatusOffline
		metrics.RefreshErrors.WithLabelValues(string(client.Node())).Inc()
		metrics.UpdateComponent("node/"+string(client.Node()), false, report.err.Error())
		logger := log.WithComponent("watcher")
		logger.Warn().
			Err(report.err).
			Str("node", string(client.Node())).
			Msg("node report failed")
	} else {
		metrics.UpdateComponent("node/"+string(client.Node()), true, "")
	}

	previous, known := w.registry.Node(client.Node())
	w.registry.SetNode(node)
	if w.broker != nil && (!known || previous.Status != node.Status) {
		eventType := events.EventNodeOnline
		if node.Status == types.NodeStatusOffline {
			eventType = events.EventNodeOffline
		}
		w.broker.Publish(&events.Event{Type: eventType, Node: string(node.ID)})
	}

	return report
}

// Probe re-validates a node's liveness with a direct call, outside the
// poll cycle. Implements scheduler.NodeProber.
func (w *Watcher) Probe(ctx context.Context, node types.NodeID) bool {
	w.mu.RLock()
	client, ok := w.clients[node]
	w.mu.RUnlock()
	if !ok {
		return false
	}
	_, err := client.ListPools(ctx)
	return err == nil
}

func (w *Watcher) publish(eventType events.EventType, count int) {
	if w.broker == nil {
		return
	}
	w.broker.Publish(&events.Event{
		Type:    eventType,
		Message: fmt.Sprintf("%d objects", count),
	})
}

// observeStates exports gauge metrics from the fresh snapshot.
func (w *Watcher) observeStates(pools []types.Pool, replicas []types.Replica, nexuses []types.Nexus) {
	metrics.PoolsTotal.Reset()
	for _, p := range pools {
		metrics.PoolsTotal.WithLabelValues(p.Status.String()).Inc()
		metrics.PoolFreeBytes.WithLabelValues(string(p.ID), string(p.Node)).Set(float64(p.FreeSpace()))
	}
	metrics.ReplicasTotal.Reset()
	for _, r := range replicas {
		metrics.ReplicasTotal.WithLabelValues(r.Status.String()).Inc()
	}
	metrics.NexusesTotal.Reset()
	for _, n := range nexuses {
		metrics.NexusesTotal.WithLabelValues(n.Status.String()).Inc()
	}
}
