package hierarchy

import (
	"fmt"
	"testing"
)

func TestDetectCycles(t *testing.T) {
	cases := []struct {
		name  string
		items []Node
		want  []string
	}{
		{
			name: "three node loop",
			items: []Node{
				{ID: "a", ParentID: "c"},
				{ID: "b", ParentID: "a"},
				{ID: "c", ParentID: "b"},
			},
			want: []string{"a", "b", "c"},
		},
		{
			name: "two node loop beside a root",
			items: []Node{
				{ID: "a", ParentID: "b"},
				{ID: "b", ParentID: "a"},
				{ID: "c"},
			},
			want: []string{"a", "b"},
		},
		{
			name:  "self parent",
			items: []Node{{ID: "x", ParentID: "x"}},
			want:  []string{"x"},
		},
		{
			name: "tail leading into loop is not a member",
			items: []Node{
				{ID: "d", ParentID: "a"},
				{ID: "e", ParentID: "d"},
				{ID: "a", ParentID: "b"},
				{ID: "b", ParentID: "a"},
			},
			want: []string{"a", "b"},
		},
		{
			name: "loop discovered mid chain",
			items: []Node{
				{ID: "t1", ParentID: "t2"},
				{ID: "t2", ParentID: "m1"},
				{ID: "m1", ParentID: "m2"},
				{ID: "m2", ParentID: "m3"},
				{ID: "m3", ParentID: "m1"},
			},
			want: []string{"m1", "m2", "m3"},
		},
		{
			name: "acyclic with dangling parent",
			items: []Node{
				{ID: "a"},
				{ID: "b", ParentID: "a"},
				{ID: "o", ParentID: "missing"},
			},
			want: []string{},
		},
		{
			name: "two separate loops",
			items: []Node{
				{ID: "a", ParentID: "b"},
				{ID: "b", ParentID: "a"},
				{ID: "s", ParentID: "s"},
				{ID: "r"},
			},
			want: []string{"a", "b", "s"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := DetectCycles(tc.items)
			if !sameSet(got, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestDetectCyclesLengthK(t *testing.T) {
	for _, k := range []int{1, 2, 5, 64} {
		var items []Node
		var want []string
		for i := 0; i < k; i++ {
			id := fmt.Sprintf("c%d", i)
			items = append(items, Node{ID: id, ParentID: fmt.Sprintf("c%d", (i+1)%k)})
			want = append(want, id)
		}
		items = append(items, Node{ID: "root"}, Node{ID: "leaf", ParentID: "root"})
		if got := DetectCycles(items); !sameSet(got, want) {
			t.Fatalf("k=%d: expected %d ids, got %v", k, k, got)
		}
	}
}

func TestDetectCyclesTerminatesOnHugeLoop(t *testing.T) {
	const n = 10000
	items := make([]Node, 0, n)
	for i := 0; i < n; i++ {
		items = append(items, Node{ID: fmt.Sprintf("c%d", i), ParentID: fmt.Sprintf("c%d", (i+1)%n)})
	}
	if got := DetectCycles(items); len(got) != n {
		t.Fatalf("expected %d cycle members, got %d", n, len(got))
	}
	if IsDescendant(items, "c0", "absent") {
		t.Fatalf("absent id must not be found")
	}
	if forest := BuildForestSafe(items); len(forest.Tree) != 0 {
		t.Fatalf("expected empty forest, got %d roots", len(forest.Tree))
	}
}
