package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/mindgraft/pkg/graph"
	"github.com/matzehuels/mindgraft/pkg/layout"
	"github.com/matzehuels/mindgraft/pkg/render"
)

type renderFunc func(ctx context.Context, g graph.Graph, opts render.Options) ([]byte, error)

// renderers holds one entry per supported format; ValidFormats mirrors it.
var renderers = map[string]renderFunc{
	FormatJSON: func(_ context.Context, g graph.Graph, _ render.Options) ([]byte, error) {
		return graph.MarshalGraph(g)
	},
	FormatDOT: func(_ context.Context, g graph.Graph, o render.Options) ([]byte, error) {
		return []byte(render.ToDOT(g, o)), nil
	},
	FormatSVG: render.RenderGraphSVG,
	FormatPNG: render.RenderGraphPNG,
}

// Render produces one artifact per requested format, in request order. It
// stops at the first failing format.
func Render(ctx context.Context, g graph.Graph, opts Options) (map[string][]byte, error) {
	artifacts, _, err := renderTimed(ctx, g, opts)
	return artifacts, err
}

func renderTimed(ctx context.Context, g graph.Graph, opts Options) (map[string][]byte, time.Duration, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, 0, err
	}
	ro := render.Options{
		Direction: layout.Direction(opts.Direction),
		Detailed:  opts.Detailed,
		Pinned:    opts.Pinned,
	}

	start := time.Now()
	out := make(map[string][]byte, len(opts.Formats))
	for _, f := range opts.Formats {
		if err := ctx.Err(); err != nil {
			return nil, 0, err
		}
		data, err := renderers[f](ctx, g, ro)
		if err != nil {
			return nil, 0, wrapStage("render "+f, err)
		}
		out[f] = data
	}
	return out, time.Since(start), nil
}
