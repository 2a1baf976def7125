package pipeline

import "github.com/pipeflow/pipeflow/job"

// Tree is a read-only, rooted view of "for whom is this Job a prerequisite"
// (spec §4.6 DEPENDANTS VIEW). The root is synthetic ("ROOT"); its children
// are the Jobs with no dependencies. A Job with multiple dependants appears
// once per dependant path — the tree may share subtrees by value across
// paths — memoized by JobID so repeated sub-DAGs are built once.
//
// Tree does not detect or report cycles. Because each node is memoized
// before its dependants are expanded, NewTree itself terminates on a cyclic
// Pipeline, but the resulting Tree then contains a reference cycle (a node
// reachable from its own Children), so a recursive walk over it does not
// terminate; Jobs on a cycle that no root reaches are left out. Keeping the
// Pipeline acyclic is the caller's obligation (spec invariant I3).
type Tree struct {
	Name     string
	Children []*Tree
}

const rootName = "ROOT"

// NewTree builds the dependants view of p.
func NewTree(p *Pipeline) *Tree {
	type jobInfo struct {
		name string
		deps []job.ID
	}
	all := make(map[job.ID]jobInfo, len(p.order))
	for _, id := range p.order {
		j := p.jobs[id]
		all[id] = jobInfo{name: j.Name(), deps: j.Dependencies()}
	}

	memo := make(map[job.ID]*Tree)

	// dependantsOf returns, in Pipeline insertion order, the Tree nodes for
	// every Job that lists id among its dependencies.
	var dependantsOf func(id job.ID) []*Tree
	dependantsOf = func(id job.ID) []*Tree {
		var out []*Tree
		for _, candidateID := range p.order {
			info := all[candidateID]
			dependsOnID := false
			for _, dep := range info.deps {
				if dep == id {
					dependsOnID = true
					break
				}
			}
			if !dependsOnID {
				continue
			}
			if cached, ok := memo[candidateID]; ok {
				out = append(out, cached)
				continue
			}
			node := &Tree{Name: info.name}
			memo[candidateID] = node
			node.Children = dependantsOf(candidateID)
			out = append(out, node)
		}
		return out
	}

	root := &Tree{Name: rootName}
	for _, id := range p.order {
		if len(all[id].deps) != 0 {
			continue
		}
		if cached, ok := memo[id]; ok {
			root.Children = append(root.Children, cached)
			continue
		}
		node := &Tree{Name: all[id].name}
		memo[id] = node
		node.Children = dependantsOf(id)
		root.Children = append(root.Children, node)
	}
	return root
}
