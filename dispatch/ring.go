package dispatch

import (
	"math/rand"

	"hashnet.dev/sdk/ident"
)

// nodeRing is the candidate list for a single dispatch: shuffled once when
// the dispatch starts, then consumed round-robin. A node that produced a
// transport failure is deprioritized for the rest of this dispatch but never
// permanently excluded; the bookkeeping is discarded when the dispatch ends.
type nodeRing struct {
	nodes     []ident.AccountID
	i         int
	unhealthy map[ident.AccountID]bool
}

func newNodeRing(nodes []ident.AccountID) *nodeRing {
	shuffled := make([]ident.AccountID, len(nodes))
	for i, n := range nodes {
		shuffled[i] = n.Bare()
	}
	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	return &nodeRing{nodes: shuffled, unhealthy: make(map[ident.AccountID]bool)}
}

// next returns the next candidate, preferring nodes that have not failed in
// this dispatch. When every node has failed, the penalties are cleared — the
// network may have recovered.
func (r *nodeRing) next() ident.AccountID {
	n := len(r.nodes)
	for k := 0; k < n; k++ {
		node := r.nodes[(r.i+k)%n]
		if !r.unhealthy[node] {
			r.i = (r.i + k + 1) % n
			return node
		}
	}
	r.unhealthy = make(map[ident.AccountID]bool)
	node := r.nodes[r.i%n]
	r.i = (r.i + 1) % n
	return node
}

func (r *nodeRing) penalize(node ident.AccountID) {
	r.unhealthy[node.Bare()] = true
}
