package pipeline

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/mindgraft/pkg/cache"
	"github.com/matzehuels/mindgraft/pkg/errors"
	"github.com/matzehuels/mindgraft/pkg/graph"
	"github.com/matzehuels/mindgraft/pkg/tree"
)

func sampleTree(t *testing.T) *tree.Node {
	t.Helper()
	root, err := tree.ReadJSON(strings.NewReader(`{
		"id": "r", "topic": "Root", "summary": "",
		"children": [
			{"id": "a", "topic": "A", "summary": ""},
			{"id": "b", "topic": "B", "summary": "", "children": [{"id": "c", "topic": "C", "summary": ""}]}
		]
	}`))
	if err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	return root
}

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"json", false},
		{"dot", false},
		{"svg", false},
		{"png", false},
		{"pdf", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
	}
}

func TestValidateAndSetDefaults(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		wantDir string
		wantErr bool
	}{
		{name: "Empty", opts: Options{}, wantDir: "TB"},
		{name: "LowerCase", opts: Options{Direction: "lr"}, wantDir: "LR"},
		{name: "BadDirection", opts: Options{Direction: "BT"}, wantErr: true},
		{name: "NegativeSep", opts: Options{NodeSeparation: -1}, wantErr: true},
		{name: "NegativeSize", opts: Options{NodeWidth: -5}, wantErr: true},
		{name: "BadFormat", opts: Options{Formats: []string{"pdf"}}, wantErr: true},
		{name: "DuplicateFormat", opts: Options{Formats: []string{"svg", "png", "svg"}}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := tt.opts
			err := opts.ValidateAndSetDefaults()
			if tt.wantErr {
				if !errors.Is(err, errors.ErrCodeInvalidInput) {
					t.Errorf("error = %v, want INVALID_INPUT", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ValidateAndSetDefaults: %v", err)
			}
			if opts.Direction != tt.wantDir {
				t.Errorf("Direction = %q, want %q", opts.Direction, tt.wantDir)
			}
			if opts.NodeSeparation != 100 || opts.RankSeparation != 120 || opts.Sweeps != 4 {
				t.Errorf("defaults = %v/%v/%v, want 100/120/4", opts.NodeSeparation, opts.RankSeparation, opts.Sweeps)
			}
			if opts.Logger == nil {
				t.Error("Logger should default to a discard logger")
			}
		})
	}
}

func TestExecute(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	res, err := r.Execute(context.Background(), sampleTree(t), Options{})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if res.Stats.NodeCount != 4 || res.Stats.EdgeCount != 3 {
		t.Errorf("stats = %+v, want 4 nodes 3 edges", res.Stats)
	}
	pos := map[string]graph.Position{}
	for _, n := range res.Graph.Nodes {
		pos[n.ID] = n.Position
	}
	if !(pos["r"].Y < pos["a"].Y && pos["a"].Y == pos["b"].Y && pos["b"].Y < pos["c"].Y) {
		t.Errorf("positions violate rank order: %+v", pos)
	}
	if res.TreeHash == "" {
		t.Error("TreeHash should be set")
	}
	if len(res.Artifacts) != 0 {
		t.Errorf("artifacts = %v, want none without formats", res.Artifacts)
	}
}

func TestExecuteNodeSize(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	res, err := r.Execute(context.Background(), sampleTree(t), Options{NodeWidth: 200, NodeHeight: 80})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	for _, n := range res.Graph.Nodes {
		if n.Width != 200 || n.Height != 80 {
			t.Errorf("node %s size = %vx%v, want 200x80", n.ID, n.Width, n.Height)
		}
	}
	// b's child c sits one rank below: 80 + 120.
	c, _ := res.Graph.Node("c")
	if c.Position.Y != 400 {
		t.Errorf("c.y = %v, want 400", c.Position.Y)
	}
}

func TestExecuteNilTree(t *testing.T) {
	res, err := NewRunner(nil, nil, nil).Execute(context.Background(), nil, Options{})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !res.Graph.Empty() || len(res.Graph.Edges) != 0 {
		t.Errorf("graph = %+v, want empty", res.Graph)
	}
}

func TestExecuteInvalidTree(t *testing.T) {
	bad := &tree.Node{ID: "r", Topic: "Root", Children: []*tree.Node{{Topic: "no id"}}}
	_, err := NewRunner(nil, nil, nil).Execute(context.Background(), bad, Options{})
	if !errors.Is(err, errors.ErrCodeInvalidDocument) {
		t.Errorf("error = %v, want INVALID_DOCUMENT", err)
	}
}

func TestLayoutCache(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	r := NewRunner(fc, nil, nil)
	ctx := context.Background()

	first, err := r.Execute(ctx, sampleTree(t), Options{})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if first.CacheInfo.LayoutHit {
		t.Error("first run should miss the cache")
	}

	second, err := r.Execute(ctx, sampleTree(t), Options{})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !second.CacheInfo.LayoutHit {
		t.Error("second run should hit the cache")
	}
	for i := range first.Graph.Nodes {
		a, b := first.Graph.Nodes[i], second.Graph.Nodes[i]
		if a.Position != b.Position || a.SourceAnchor != b.SourceAnchor || a.TargetAnchor != b.TargetAnchor {
			t.Errorf("node %s: cached %+v differs from computed %+v", a.ID, b, a)
		}
	}

	lr, err := r.Execute(ctx, sampleTree(t), Options{Direction: "LR"})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if lr.CacheInfo.LayoutHit {
		t.Error("different direction must not reuse the TB entry")
	}

	refresh, err := r.Execute(ctx, sampleTree(t), Options{Refresh: true})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if refresh.CacheInfo.LayoutHit {
		t.Error("Refresh should bypass the cache")
	}
}

func TestApplyCachedMismatch(t *testing.T) {
	nodes := []graph.Node{{ID: "a"}, {ID: "b"}}
	tests := []struct {
		name string
		data string
	}{
		{"Garbage", "not json"},
		{"WrongCount", `[{"id":"a"}]`},
		{"WrongIDs", `[{"id":"a"},{"id":"x"}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, ok := applyCached([]byte(tt.data), nodes); ok {
				t.Error("applyCached accepted a mismatched entry")
			}
		})
	}
}

func TestRender(t *testing.T) {
	res, err := NewRunner(nil, nil, nil).Execute(context.Background(), sampleTree(t), Options{
		Formats: []string{FormatJSON, FormatDOT},
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !bytes.Contains(res.Artifacts[FormatJSON], []byte(`"nodes"`)) {
		t.Errorf("json artifact = %s", res.Artifacts[FormatJSON])
	}
	if !bytes.HasPrefix(res.Artifacts[FormatDOT], []byte("digraph G {")) {
		t.Errorf("dot artifact = %s", res.Artifacts[FormatDOT])
	}
}

func TestTreeHash(t *testing.T) {
	if TreeHash(nil) != "" {
		t.Error("nil tree should hash to empty string")
	}
	a, b := TreeHash(sampleTree(t)), TreeHash(sampleTree(t))
	if a != b || len(a) != 64 {
		t.Errorf("TreeHash not stable: %q vs %q", a, b)
	}
	changed := sampleTree(t)
	changed.Children[0].Topic = "A2"
	if TreeHash(changed) == a {
		t.Error("TreeHash should change with content")
	}
}
