package eval

import (
	"github.com/lineagelab/tracecore/trackgraph"
)

// Evaluate scores reconstruction rec against ground truth gt. Nodes
// are matched per frame within matchingThreshold (Euclidean z/y/x
// distance); edge, track, division, and segment statistics are then
// derived from that matching. Neither graph is mutated.
func Evaluate(gt, rec *trackgraph.TrackGraph, matchingThreshold float64) (Scores, error) {
	if matchingThreshold < 0 {
		return Scores{}, ErrNegativeThreshold
	}

	m := matchNodes(gt, rec, matchingThreshold)

	s := Scores{
		NumGTNodes:      gt.NumNodes(),
		NumRecNodes:     rec.NumNodes(),
		NumMatchedNodes: len(m.gtToRec),
		NumGTEdges:      gt.NumEdges(),
		NumRecEdges:     rec.NumEdges(),
	}

	// Edge statistics. A ground-truth edge with both endpoints matched
	// whose image is a reconstruction edge is matched; every other
	// ground-truth edge is a false negative. A reconstruction edge with
	// both endpoints matched but no ground-truth pre-image is a false
	// positive; one with an unmatched endpoint is neither (its
	// endpoints already count against node matching).
	fpEdges := make([]trackgraph.Edge, 0)
	for _, e := range gt.AllEdges() {
		ru, okU := m.gtToRec[e.Source]
		rv, okV := m.gtToRec[e.Target]
		if okU && okV && rec.HasEdge(ru, rv) {
			s.NumMatchedEdges++
		} else {
			s.NumFNEdges++
		}
	}
	for _, e := range rec.AllEdges() {
		gu, okU := m.recToGT[e.Source]
		gv, okV := m.recToGT[e.Target]
		if okU && okV && !gt.HasEdge(gu, gv) {
			s.NumFPEdges++
			fpEdges = append(fpEdges, e)
		}
	}

	// Track statistics. A track is matched when at least one of its
	// nodes is.
	gtTracks := tracksOf(gt)
	recTracks := tracksOf(rec)
	s.NumGTTracks = len(gtTracks)
	s.NumRecTracks = len(recTracks)

	for _, tr := range gtTracks {
		if trackMatched(tr, m.gtToRec) {
			s.NumMatchedGTTracks++
		}
	}
	recTrackOf := make(map[trackgraph.NodeID]int, rec.NumNodes())
	recTrackMatched := make([]bool, len(recTracks))
	for i, tr := range recTracks {
		recTrackMatched[i] = trackMatched(tr, m.recToGT)
		if recTrackMatched[i] {
			s.NumMatchedRecTracks++
		}
		for _, id := range tr.nodes {
			recTrackOf[id] = i
		}
	}
	for _, e := range fpEdges {
		if recTrackMatched[recTrackOf[e.Source]] {
			s.NumEdgeFPsInMatchedTracks++
		}
	}

	// Division statistics. A ground-truth division is matched when its
	// counterpart also divides and both children map onto
	// reconstruction children of that counterpart; otherwise it is a
	// false negative. Reconstruction divisions are scored symmetrically
	// for false positives.
	gtDivs := divisionsOf(gt)
	recDivs := divisionsOf(rec)
	s.NumGTDivisions = len(gtDivs)
	s.NumRecDivisions = len(recDivs)

	for _, d := range gtDivs {
		if divisionMatched(gt, rec, d, m.gtToRec) {
			s.NumMatchedDivisions++
		} else {
			s.NumFNDivisions++
		}
	}
	for _, d := range recDivs {
		if recTrackMatched[recTrackOf[d]] {
			s.NumRecDivisionsInMatchedTracks++
		}
		if !divisionMatched(rec, gt, d, m.recToGT) {
			s.NumFPDivisions++
		}
	}

	// Segment length: mean edge count over matched segments of matched
	// reconstruction tracks.
	segCount, segEdges := 0, 0
	for i, tr := range recTracks {
		if !recTrackMatched[i] {
			continue
		}
		for _, seg := range segmentsOf(rec, tr) {
			if !segmentMatched(seg, m.recToGT) {
				continue
			}
			segCount++
			segEdges += seg.edgeCount
		}
	}
	if segCount > 0 {
		s.AvgSegmentLength = float64(segEdges) / float64(segCount)
	}

	recordScores(s)

	return s, nil
}

func trackMatched(tr track, matched map[trackgraph.NodeID]trackgraph.NodeID) bool {
	for _, id := range tr.nodes {
		if _, ok := matched[id]; ok {
			return true
		}
	}

	return false
}

// divisionMatched reports whether division d of graph a maps onto a
// division of graph b: d itself is matched, its counterpart has two or
// more children in b, and every child of d maps onto a child edge of
// the counterpart.
func divisionMatched(a, b *trackgraph.TrackGraph, d trackgraph.NodeID, matched map[trackgraph.NodeID]trackgraph.NodeID) bool {
	counterpart, ok := matched[d]
	if !ok {
		return false
	}
	if len(b.PrevEdges(counterpart)) < 2 {
		return false
	}
	for _, e := range a.PrevEdges(d) {
		child, ok := matched[e.Source]
		if !ok {
			return false
		}
		if !b.HasEdge(child, counterpart) {
			return false
		}
	}

	return true
}

func segmentMatched(seg segment, matched map[trackgraph.NodeID]trackgraph.NodeID) bool {
	for _, id := range seg.nodes {
		if _, ok := matched[id]; !ok {
			return false
		}
	}

	return true
}
