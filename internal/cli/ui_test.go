package cli

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/mindgraft/pkg/pipeline"
)

func TestFormatStats(t *testing.T) {
	tests := []struct {
		name string
		res  pipeline.Result
		want []string
	}{
		{
			name: "Computed",
			res: pipeline.Result{Stats: pipeline.Stats{
				NodeCount: 4, EdgeCount: 3, LayoutTime: 12 * time.Millisecond,
			}},
			want: []string{"4 cards", "3 links", "fresh in 12ms"},
		},
		{
			name: "Cached",
			res: pipeline.Result{
				Stats:     pipeline.Stats{NodeCount: 1},
				CacheInfo: pipeline.CacheInfo{LayoutHit: true},
			},
			want: []string{"1 card", "0 links", "cached"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := formatStats(&tt.res)
			for _, w := range tt.want {
				if !strings.Contains(got, w) {
					t.Errorf("formatStats() = %q, missing %q", got, w)
				}
			}
		})
	}
}

func TestPrintHelpersWriteToStdout(t *testing.T) {
	var buf bytes.Buffer
	orig := stdout
	stdout = &buf
	t.Cleanup(func() { stdout = orig })

	printSuccess("wrote %d files", 2)
	printWarning("unsaved")
	printFile("out.graph.json")
	printNextStep("Explore", "mindgraft view out.graph.json")

	got := buf.String()
	for _, w := range []string{"wrote 2 files", "unsaved", "out.graph.json", "Explore:", "mindgraft view"} {
		if !strings.Contains(got, w) {
			t.Errorf("output %q missing %q", got, w)
		}
	}
	if n := strings.Count(got, "\n"); n != 4 {
		t.Errorf("got %d lines, want 4", n)
	}
}
