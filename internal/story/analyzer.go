package story

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidGraph marks a node or edge list the analyzer cannot interpret.
var ErrInvalidGraph = errors.New("invalid story graph")

type Analysis struct {
	NodeCount       int      `json:"nodeCount"`
	EdgeCount       int      `json:"edgeCount"`
	RootNodes       []string `json:"rootNodes"`
	LeafNodes       []string `json:"leafNodes"`
	OrphanNodes     []string `json:"orphanNodes"`
	BranchingFactor float64  `json:"branchingFactor"`
	MaxDepth        int      `json:"maxDepth"`
	HasCycle        bool     `json:"hasCycle"`
	ComponentCount  int      `json:"componentCount"`
}

// Analyze computes structural statistics for a story graph. Id lists keep
// node-list order.
func Analyze(nodes []StoryNode, edges []Edge) (*Analysis, error) {
	nodeIDs := make(map[string]bool, len(nodes))
	for i, n := range nodes {
		if n.ID == "" {
			return nil, fmt.Errorf("%w: node %d has no id", ErrInvalidGraph, i)
		}
		nodeIDs[n.ID] = true
	}

	sourceIDs := make(map[string]bool)
	targetIDs := make(map[string]bool)
	children := make(map[string][]string)
	for i, e := range edges {
		if e.Source == "" || e.Target == "" {
			return nil, fmt.Errorf("%w: edge %d needs both source and target", ErrInvalidGraph, i)
		}
		if !nodeIDs[e.Source] {
			return nil, fmt.Errorf("%w: edge %d source %q is not a node", ErrInvalidGraph, i, e.Source)
		}
		if !nodeIDs[e.Target] {
			return nil, fmt.Errorf("%w: edge %d target %q is not a node", ErrInvalidGraph, i, e.Target)
		}
		sourceIDs[e.Source] = true
		targetIDs[e.Target] = true
		children[e.Source] = append(children[e.Source], e.Target)
	}

	res := &Analysis{
		NodeCount:   len(nodes),
		EdgeCount:   len(edges),
		RootNodes:   []string{},
		LeafNodes:   []string{},
		OrphanNodes: []string{},
	}
	for _, n := range nodes {
		isTarget, isSource := targetIDs[n.ID], sourceIDs[n.ID]
		if !isTarget {
			res.RootNodes = append(res.RootNodes, n.ID)
		}
		if !isSource {
			res.LeafNodes = append(res.LeafNodes, n.ID)
		}
		if !isTarget && !isSource {
			res.OrphanNodes = append(res.OrphanNodes, n.ID)
		}
	}

	if len(sourceIDs) > 0 {
		bf := float64(len(edges)) / float64(len(sourceIDs))
		res.BranchingFactor = math.Round(bf*100) / 100
	}

	res.MaxDepth, res.HasCycle = longestPath(nodes, children)
	res.ComponentCount = len(Components(nodes, edges))

	return res, nil
}

// longestPath collapses strongly connected components and takes the longest
// path over the resulting DAG. A component of n nodes counts as n-1 edges,
// the most a simple path can spend inside it, so cyclic graphs report an
// upper bound. Any component with more than one node or a self-loop marks
// the graph cyclic.
func longestPath(nodes []StoryNode, children map[string][]string) (int, bool) {
	sccs, compOf := stronglyConnected(nodes, children)

	hasCycle := false
	for id, next := range children {
		for _, child := range next {
			if child == id {
				hasCycle = true
			}
		}
	}

	// Tarjan emits components sinks first, so every successor's depth is
	// known before its predecessors are visited.
	depth := make([]int, len(sccs))
	best := 0
	for c, members := range sccs {
		if len(members) > 1 {
			hasCycle = true
		}
		below := 0
		for _, id := range members {
			for _, child := range children[id] {
				if d := compOf[child]; d != c {
					below = max(below, depth[d]+1)
				}
			}
		}
		depth[c] = len(members) - 1 + below
		best = max(best, depth[c])
	}
	return best, hasCycle
}

// stronglyConnected is Tarjan's algorithm with an explicit stack so deep
// chains do not recurse once per node.
func stronglyConnected(nodes []StoryNode, children map[string][]string) ([][]string, map[string]int) {
	index := make(map[string]int, len(nodes))
	low := make(map[string]int, len(nodes))
	onStack := make(map[string]bool, len(nodes))
	compOf := make(map[string]int, len(nodes))
	var stack []string
	var sccs [][]string
	counter := 0

	type frame struct {
		id   string
		next int
	}

	for _, n := range nodes {
		if _, seen := index[n.ID]; seen {
			continue
		}
		work := []frame{{id: n.ID}}
		index[n.ID], low[n.ID] = counter, counter
		counter++
		stack = append(stack, n.ID)
		onStack[n.ID] = true

		for len(work) > 0 {
			top := &work[len(work)-1]
			kids := children[top.id]
			if top.next < len(kids) {
				child := kids[top.next]
				top.next++
				if _, seen := index[child]; !seen {
					index[child], low[child] = counter, counter
					counter++
					stack = append(stack, child)
					onStack[child] = true
					work = append(work, frame{id: child})
				} else if onStack[child] {
					low[top.id] = min(low[top.id], index[child])
				}
				continue
			}

			id := top.id
			work = work[:len(work)-1]
			if len(work) > 0 {
				parent := work[len(work)-1].id
				low[parent] = min(low[parent], low[id])
			}
			if low[id] != index[id] {
				continue
			}
			var members []string
			for {
				last := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[last] = false
				compOf[last] = len(sccs)
				members = append(members, last)
				if last == id {
					break
				}
			}
			sccs = append(sccs, members)
		}
	}
	return sccs, compOf
}
