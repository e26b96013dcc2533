// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package pipeline

// DatanodeID identifies one member of a replica pipeline.
type DatanodeID string

// ReplicationType is the pipeline's replication mode.
type ReplicationType int

const (
	// StandAlone is the single-replica, read-only transport variant
	// (spec.md glossary: "Standalone protocol").
	StandAlone ReplicationType = iota
	// Ratis is the consensus-replicated write variant.
	Ratis
)

// Pipeline is the ordered set of datanodes replicating a container.
type Pipeline struct {
	ID          string
	Nodes       []DatanodeID
	Replication ReplicationType
}

// Standalone synthesizes the single-replica read variant of p, per
// spec.md §4.7: reads always go over a standalone transport synthesized
// from the pipeline's replication config, regardless of how the
// pipeline actually replicates writes. The synthesized pipeline keeps
// only the first (leader) node.
func (p Pipeline) Standalone() Pipeline {
	nodes := p.Nodes
	if len(nodes) > 1 {
		nodes = nodes[:1]
	}
	return Pipeline{ID: p.ID, Nodes: nodes, Replication: StandAlone}
}

// Overlaps reports whether p and other share at least one datanode.
// The block read stream's pipeline-refresh rule (spec.md §9) only
// adopts a refreshed pipeline when it has NO overlap with the current
// one.
func (p Pipeline) Overlaps(other Pipeline) bool {
	seen := make(map[DatanodeID]struct{}, len(p.Nodes))
	for _, n := range p.Nodes {
		seen[n] = struct{}{}
	}
	for _, n := range other.Nodes {
		if _, ok := seen[n]; ok {
			return true
		}
	}
	return false
}

// Leader returns the pipeline's primary target node, or "" if empty.
func (p Pipeline) Leader() DatanodeID {
	if len(p.Nodes) == 0 {
		return ""
	}
	return p.Nodes[0]
}
