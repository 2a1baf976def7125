package pipeline

import (
	"testing"

	"github.com/pipeflow/pipeflow/action"
	"github.com/pipeflow/pipeflow/job"
)

func TestNewTreeTwoRootsSharedLeaf(t *testing.T) {
	p := New(action.NewDispatcher())
	a := job.New("A", job.NewNoOpAction())
	b := job.New("B", job.NewNoOpAction())
	c := job.New("C", job.NewNoOpAction())
	c.SetDependencies([]job.ID{a.GetID(), b.GetID()})
	p.AddJobs([]*job.Job{a, b, c})

	tree := NewTree(p)

	if tree.Name != rootName {
		t.Fatalf("root name = %q, want %q", tree.Name, rootName)
	}
	if len(tree.Children) != 2 {
		t.Fatalf("root children = %d, want 2", len(tree.Children))
	}

	names := []string{tree.Children[0].Name, tree.Children[1].Name}
	if names[0] != "A" || names[1] != "B" {
		t.Fatalf("root children = %v, want [A B] (insertion order)", names)
	}

	for _, root := range tree.Children {
		if len(root.Children) != 1 || root.Children[0].Name != "C" {
			t.Fatalf("%s children = %+v, want single child C", root.Name, root.Children)
		}
		if len(root.Children[0].Children) != 0 {
			t.Fatalf("C should be a leaf, got children %+v", root.Children[0].Children)
		}
	}
}

func TestNewTreeLinearChain(t *testing.T) {
	p := New(action.NewDispatcher())
	a := job.New("A", job.NewNoOpAction())
	b := job.New("B", job.NewNoOpAction())
	b.SetDependencies([]job.ID{a.GetID()})
	c := job.New("C", job.NewNoOpAction())
	c.SetDependencies([]job.ID{b.GetID()})
	p.AddJobs([]*job.Job{a, b, c})

	tree := NewTree(p)

	if len(tree.Children) != 1 || tree.Children[0].Name != "A" {
		t.Fatalf("root children = %+v, want [A]", tree.Children)
	}
	nodeB := tree.Children[0]
	if len(nodeB.Children) != 1 || nodeB.Children[0].Name != "B" {
		t.Fatalf("A children = %+v, want [B]", nodeB.Children)
	}
	nodeC := nodeB.Children[0]
	if len(nodeC.Children) != 1 || nodeC.Children[0].Name != "C" {
		t.Fatalf("B children = %+v, want [C]", nodeC.Children)
	}
	if len(nodeC.Children[0].Children) != 0 {
		t.Fatalf("C should be a leaf")
	}
}

func TestNewTreeIsolatedJobsAreAllRoots(t *testing.T) {
	p := New(action.NewDispatcher())
	a := job.New("A", job.NewNoOpAction())
	b := job.New("B", job.NewNoOpAction())
	p.AddJobs([]*job.Job{a, b})

	tree := NewTree(p)
	if len(tree.Children) != 2 {
		t.Fatalf("root children = %d, want 2", len(tree.Children))
	}
	for _, child := range tree.Children {
		if len(child.Children) != 0 {
			t.Fatalf("%s should be a leaf, got children %+v", child.Name, child.Children)
		}
	}
}
