package eval

import (
	"math"
	"sort"

	"github.com/lineagelab/tracecore/trackgraph"
)

// nodeMatching is the bidirectional result of matchNodes: each map is
// the other's inverse, and a node appears in at most one pair.
type nodeMatching struct {
	gtToRec map[trackgraph.NodeID]trackgraph.NodeID
	recToGT map[trackgraph.NodeID]trackgraph.NodeID
}

// candidatePair is one admissible (distance <= threshold) pairing
// considered by the greedy pass.
type candidatePair struct {
	dist float64
	gt   trackgraph.NodeID
	rec  trackgraph.NodeID
}

// spatialDistance is the Euclidean distance over the z/y/x coordinates
// only; the frame axis never contributes (matching is per frame).
func spatialDistance(a, b trackgraph.Node) float64 {
	dz, dy, dx := a.Z-b.Z, a.Y-b.Y, a.X-b.X

	return math.Sqrt(dz*dz + dy*dy + dx*dx)
}

// matchNodes pairs ground-truth and reconstruction nodes frame by
// frame: all admissible pairs are ranked by distance, ties broken by
// ground-truth id then reconstruction id, and consumed greedily so
// each node matches at most once. Deterministic for any input order.
func matchNodes(gt, rec *trackgraph.TrackGraph, threshold float64) nodeMatching {
	m := nodeMatching{
		gtToRec: make(map[trackgraph.NodeID]trackgraph.NodeID),
		recToGT: make(map[trackgraph.NodeID]trackgraph.NodeID),
	}

	begin, end := gt.BeginFrame(), gt.EndFrame()
	if rec.BeginFrame() < begin {
		begin = rec.BeginFrame()
	}
	if rec.EndFrame() > end {
		end = rec.EndFrame()
	}

	for t := begin; t < end; t++ {
		gtIDs := gt.NodesAt(t)
		recIDs := rec.NodesAt(t)
		if len(gtIDs) == 0 || len(recIDs) == 0 {
			continue
		}

		pairs := make([]candidatePair, 0, len(gtIDs))
		for _, gid := range gtIDs {
			gn, _ := gt.Node(gid)
			for _, rid := range recIDs {
				rn, _ := rec.Node(rid)
				if d := spatialDistance(gn, rn); d <= threshold {
					pairs = append(pairs, candidatePair{dist: d, gt: gid, rec: rid})
				}
			}
		}
		sort.Slice(pairs, func(i, j int) bool {
			if pairs[i].dist != pairs[j].dist {
				return pairs[i].dist < pairs[j].dist
			}
			if pairs[i].gt != pairs[j].gt {
				return pairs[i].gt < pairs[j].gt
			}

			return pairs[i].rec < pairs[j].rec
		})

		for _, p := range pairs {
			if _, taken := m.gtToRec[p.gt]; taken {
				continue
			}
			if _, taken := m.recToGT[p.rec]; taken {
				continue
			}
			m.gtToRec[p.gt] = p.rec
			m.recToGT[p.rec] = p.gt
		}
	}

	return m
}
