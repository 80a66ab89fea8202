package dag

import (
	"errors"
	"slices"
	"testing"
)

func ids(nodes []*Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.ID
	}
	return out
}

func TestAddNode(t *testing.T) {
	tests := []struct {
		name    string
		nodes   []Node
		wantErr error
	}{
		{name: "Single", nodes: []Node{{ID: "a"}}},
		{name: "EmptyID", nodes: []Node{{ID: ""}}, wantErr: ErrInvalidNodeID},
		{name: "Duplicate", nodes: []Node{{ID: "a"}, {ID: "a"}}, wantErr: ErrDuplicateNodeID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := New()
			var err error
			for _, n := range tt.nodes {
				if err = g.AddNode(n); err != nil {
					break
				}
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("AddNode() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestAddEdge(t *testing.T) {
	g := New()
	_ = g.AddNode(Node{ID: "a"})
	_ = g.AddNode(Node{ID: "b"})

	if err := g.AddEdge(Edge{From: "x", To: "b"}); !errors.Is(err, ErrUnknownSourceNode) {
		t.Errorf("unknown source: got %v", err)
	}
	if err := g.AddEdge(Edge{From: "a", To: "x"}); !errors.Is(err, ErrUnknownTargetNode) {
		t.Errorf("unknown target: got %v", err)
	}
	if err := g.AddEdge(Edge{From: "a", To: "b"}); err != nil {
		t.Fatalf("AddEdge: %v", err)
	}
	if len(g.Children("a")) != 1 || g.InDegree("b") != 1 {
		t.Errorf("adjacency: children(a)=%v in(b)=%d", g.Children("a"), g.InDegree("b"))
	}

	g.RemoveEdge("a", "b")
	if g.EdgeCount() != 0 || len(g.Children("a")) != 0 || len(g.Parents("b")) != 0 {
		t.Error("RemoveEdge left adjacency behind")
	}
}

func TestInsertionOrder(t *testing.T) {
	want := []string{"z", "m", "a", "q", "b"}
	g := New()
	for _, id := range want {
		_ = g.AddNode(Node{ID: id})
	}
	for _, c := range []string{"q", "a", "b"} {
		_ = g.AddEdge(Edge{From: "z", To: c})
	}

	if got := ids(g.Nodes()); !slices.Equal(got, want) {
		t.Errorf("Nodes() = %v, want %v", got, want)
	}
	if got := g.Children("z"); !slices.Equal(got, []string{"q", "a", "b"}) {
		t.Errorf("Children(z) = %v", got)
	}
	if got := ids(g.Sources()); !slices.Equal(got, []string{"z", "m"}) {
		t.Errorf("Sources() = %v", got)
	}
}

func TestSetRows(t *testing.T) {
	g := New()
	_ = g.AddNode(Node{ID: "a"})
	_ = g.AddNode(Node{ID: "b", Row: 4})
	_ = g.AddNode(Node{ID: "c"})
	if g.MaxRow() != 4 {
		t.Errorf("MaxRow() after AddNode = %d, want 4", g.MaxRow())
	}

	g.SetRows(map[string]int{"b": 1, "c": 2})
	rows := map[string]int{}
	for _, n := range g.Nodes() {
		rows[n.ID] = n.Row
	}
	if rows["a"] != 0 || rows["b"] != 1 || rows["c"] != 2 {
		t.Errorf("rows = %v", rows)
	}
	if g.MaxRow() != 2 {
		t.Errorf("MaxRow() = %d, want 2", g.MaxRow())
	}
}

func TestMaxRowEmpty(t *testing.T) {
	if got := New().MaxRow(); got != 0 {
		t.Errorf("MaxRow() = %d, want 0", got)
	}
}

func TestValidateLayered(t *testing.T) {
	g := New()
	_ = g.AddNode(Node{ID: "a", Row: 0})
	_ = g.AddNode(Node{ID: "b", Row: 2})
	_ = g.AddEdge(Edge{From: "a", To: "b"})
	if err := g.ValidateLayered(); !errors.Is(err, ErrNonConsecutiveRows) {
		t.Errorf("ValidateLayered() = %v, want %v", err, ErrNonConsecutiveRows)
	}
}

func TestCountCrossings(t *testing.T) {
	g := New()
	for _, id := range []string{"r", "s", "a", "b", "c"} {
		_ = g.AddNode(Node{ID: id})
	}
	_ = g.AddEdge(Edge{From: "r", To: "c"})
	_ = g.AddEdge(Edge{From: "s", To: "a"})
	_ = g.AddEdge(Edge{From: "s", To: "b"})

	tests := []struct {
		name   string
		orders map[int][]string
		want   int
	}{
		{name: "Crossed", orders: map[int][]string{0: {"r", "s"}, 1: {"a", "b", "c"}}, want: 2},
		{name: "Clean", orders: map[int][]string{0: {"r", "s"}, 1: {"c", "a", "b"}}, want: 0},
		{name: "EmptyRow", orders: map[int][]string{0: {"r", "s"}}, want: 0},
		{name: "RowGap", orders: map[int][]string{0: {"r", "s"}, 2: {"a", "b", "c"}}, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CountCrossings(g, tt.orders); got != tt.want {
				t.Errorf("CountCrossings() = %d, want %d", got, tt.want)
			}
		})
	}
}
