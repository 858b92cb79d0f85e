package main

import (
	"context"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/quarry-storage/quarry/pkg/scheduler"
)

var snapshotPath string

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Replay placement decisions over a cluster snapshot",
	Long: `Plan runs the selection engine over a YAML snapshot of the cluster
state and prints the ranked outcome, without touching any node. Useful
for understanding why a replica landed (or refused to land) where it
did.`,
}

func init() {
	planCmd.PersistentFlags().StringVarP(&snapshotPath, "snapshot", "f", "", "path to the cluster snapshot (required)")
	_ = planCmd.MarkPersistentFlagRequired("snapshot")

	planCmd.AddCommand(planPoolCmd)
	planCmd.AddCommand(planChildrenCmd)
	planCmd.AddCommand(planAddReplicaCmd)
	planCmd.AddCommand(planRemoveReplicaCmd)
	planCmd.AddCommand(planRemoveChildCmd)
}

var planPoolCmd = &cobra.Command{
	Use:   "pool",
	Short: "Rank the pools a new replica of the volume may be placed on",
	RunE: func(cmd *cobra.Command, args []string) error {
		snap, err := loadSnapshot(snapshotPath)
		if err != nil {
			return err
		}
		reg := snap.buildRegistry()

		request := reg.SuitablePoolsContext(snap.volumeSpec())
		result := scheduler.SelectSuitablePools(request, reg.PoolCandidates())

		if len(result) == 0 {
			fmt.Printf("no suitable pool for %s of volume %s\n",
				humanize.IBytes(snap.Volume.Size), snap.Volume.UUID)
			return nil
		}
		for i, item := range result {
			fmt.Printf("%d. pool %s on %s  free %s  replicas %d\n",
				i+1, item.Pool.ID, item.Pool.Node,
				humanize.IBytes(item.Pool.FreeSpace()), item.ReplicaCount())
		}
		return nil
	},
}

var planChildrenCmd = &cobra.Command{
	Use:   "children",
	Short: "Rank the replicas eligible to become children of the nexus",
	RunE: func(cmd *cobra.Command, args []string) error {
		snap, err := loadSnapshot(snapshotPath)
		if err != nil {
			return err
		}
		reg := snap.buildRegistry()
		nexus := snap.nexusSpec()

		request, err := reg.PersistedNexusChildrenCtx(nexus)
		if err != nil {
			return err
		}
		candidates, err := reg.NexusChildCandidates(snap.volumeSpec().UUID, nexus)
		if err != nil {
			return err
		}
		result := scheduler.SelectNexusChildren(context.Background(), request, candidates)

		if request.FirstCreate() {
			fmt.Println("first creation: no persisted health record, all candidates trusted")
		}
		if len(result) == 0 {
			fmt.Printf("no eligible child for nexus %s\n", nexus.UUID)
			return nil
		}
		for i, item := range result {
			locality := "remote"
			if item.State.Node == nexus.Node {
				locality = "local"
			}
			fmt.Printf("%d. replica %s on %s  %s  %s\n",
				i+1, item.Replica.UUID, item.State.Node, locality,
				humanize.IBytes(item.State.Size))
		}
		return nil
	},
}

var planAddReplicaCmd = &cobra.Command{
	Use:   "add-replica",
	Short: "Rank the replicas eligible to join the nexus when growing the volume",
	RunE: func(cmd *cobra.Command, args []string) error {
		snap, err := loadSnapshot(snapshotPath)
		if err != nil {
			return err
		}
		reg := snap.buildRegistry()
		nexus := snap.nexusSpec()
		volume := snap.volumeSpec()

		request := scheduler.NewVolumeReplicasForNexusCtx(volume, nexus)
		candidates, err := reg.NexusChildCandidates(volume.UUID, nexus)
		if err != nil {
			return err
		}
		result := scheduler.SelectReplicaToAdd(request, candidates)

		if len(result) == 0 {
			fmt.Printf("no replica can be added to nexus %s\n", nexus.UUID)
			return nil
		}
		for i, item := range result {
			health := "unrecorded"
			if item.Info != nil {
				health = "unhealthy"
				if item.Info.Healthy {
					health = "healthy"
				}
			}
			fmt.Printf("%d. replica %s on %s  %s  pool free %s\n",
				i+1, item.Replica.UUID, item.State.Node, health,
				humanize.IBytes(item.Pool.FreeSpace()))
		}
		return nil
	},
}

var planRemoveReplicaCmd = &cobra.Command{
	Use:   "remove-replica",
	Short: "Rank the volume's replicas for removal when shrinking it",
	RunE: func(cmd *cobra.Command, args []string) error {
		snap, err := loadSnapshot(snapshotPath)
		if err != nil {
			return err
		}
		reg := snap.buildRegistry()

		candidates := reg.RemovalCandidates(snap.volumeSpec().UUID, snap.nexusSpec())
		result := scheduler.SelectReplicaToRemove(candidates)

		if len(result) == 0 {
			fmt.Println("no removal candidate")
			return nil
		}
		for i, item := range result {
			attachment := "detached"
			if item.Attached() {
				attachment = "attached"
				if item.ChildState != nil {
					attachment = fmt.Sprintf("attached (%s)", item.ChildState.State)
				}
			}
			marker := "  "
			if i == 0 {
				marker = "→ "
			}
			fmt.Printf("%s%d. replica %s  %s\n", marker, i+1, item.Spec.UUID, attachment)
		}
		return nil
	},
}

var planRemoveChildCmd = &cobra.Command{
	Use:   "remove-child",
	Short: "Rank the nexus children for removal when repairing it",
	RunE: func(cmd *cobra.Command, args []string) error {
		snap, err := loadSnapshot(snapshotPath)
		if err != nil {
			return err
		}
		reg := snap.buildRegistry()

		children := reg.NexusChildItems(snap.nexusSpec())
		result := scheduler.SelectNexusChildForRemoval(children)

		if len(result) == 0 {
			fmt.Println("no removal candidate")
			return nil
		}
		for i, item := range result {
			kind := "generic"
			if item.ReplicaBacked() {
				kind = "replica " + string(item.Replica.UUID)
			}
			state := "no state"
			if item.State != nil {
				state = item.State.State.String()
			}
			marker := "  "
			if i == 0 {
				marker = "→ "
			}
			fmt.Printf("%s%d. child %s  %s  %s\n", marker, i+1, item.URI, kind, state)
		}
		return nil
	},
}
