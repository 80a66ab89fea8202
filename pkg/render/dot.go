package render

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/mindgraft/pkg/graph"
	"github.com/matzehuels/mindgraft/pkg/layout"
)

// pointsPerInch converts layout units to Graphviz inches.
const pointsPerInch = 72.0

// Options configures DOT generation.
type Options struct {
	// Direction sets rankdir. Empty means top-to-bottom.
	Direction layout.Direction

	// Detailed appends the summary to each card label.
	Detailed bool

	// Pinned places nodes at their computed positions using the neato
	// engine instead of letting Graphviz rank them again.
	Pinned bool
}

// ToDOT converts a positioned mind map to Graphviz DOT source.
//
// Root cards have a bold border and share the first rank. Manually grafted
// cards and their edges are dashed. Node order follows the graph's collections so the output is
// stable for a given input.
func ToDOT(g graph.Graph, opts Options) string {
	dir := opts.Direction
	if dir == "" {
		dir = layout.TopToBottom
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	if opts.Pinned {
		buf.WriteString("  layout=neato;\n")
		buf.WriteString("  splines=true;\n")
		fmt.Fprintf(&buf, "  inputscale=%g;\n", pointsPerInch)
	} else {
		fmt.Fprintf(&buf, "  rankdir=%s;\n", dir)
		buf.WriteString("  ranksep=0.8;\n")
		buf.WriteString("  nodesep=0.5;\n")
	}
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  edge [arrowsize=0.7];\n")
	buf.WriteString("\n")

	for _, n := range g.Nodes {
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(nodeAttrs(n, opts), ", "))
	}
	// User-drawn edges into a root must not push it off the first rank.
	if roots := g.Roots(); len(roots) > 0 && !opts.Pinned {
		ids := make([]string, len(roots))
		for i, r := range roots {
			ids[i] = strconv.Quote(r.ID)
		}
		fmt.Fprintf(&buf, "  { rank=min; %s; }\n", strings.Join(ids, "; "))
	}

	manual := make(map[string]bool, len(g.Nodes))
	for _, n := range g.Nodes {
		manual[n.ID] = n.Manual
	}

	buf.WriteString("\n")
	for _, e := range g.Edges {
		if !e.Animated || manual[e.Target] {
			fmt.Fprintf(&buf, "  %q -> %q [style=dashed];\n", e.Source, e.Target)
			continue
		}
		fmt.Fprintf(&buf, "  %q -> %q;\n", e.Source, e.Target)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(n graph.Node, detailed bool) string {
	label := n.DisplayLabel()
	if detailed && n.Data.Summary != "" {
		label += "\n\n" + wrap(n.Data.Summary, 40)
	}
	return label
}

func nodeAttrs(n graph.Node, opts Options) []string {
	attrs := []string{fmt.Sprintf("label=%q", fmtLabel(n, opts.Detailed))}
	switch {
	case n.IsRoot():
		attrs = append(attrs, "penwidth=3", "fontsize=18")
	case n.Manual:
		attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=lightyellow")
	}
	if opts.Pinned {
		// Graphviz y grows upward; node positions are centers.
		x, y := n.Center()
		s := n.Size.OrDefault()
		attrs = append(attrs,
			fmt.Sprintf("pos=\"%s,%s!\"", fmtFloat(x), fmtFloat(-y)),
			fmt.Sprintf("width=%s", fmtFloat(s.Width/pointsPerInch)),
			fmt.Sprintf("height=%s", fmtFloat(s.Height/pointsPerInch)),
			"fixedsize=true")
	}
	return attrs
}

func fmtFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// wrap breaks s into lines of at most width runes at word boundaries.
func wrap(s string, width int) string {
	var lines []string
	var line strings.Builder
	for _, w := range strings.Fields(s) {
		if line.Len() > 0 && line.Len()+1+len(w) > width {
			lines = append(lines, line.String())
			line.Reset()
		}
		if line.Len() > 0 {
			line.WriteByte(' ')
		}
		line.WriteString(w)
	}
	if line.Len() > 0 {
		lines = append(lines, line.String())
	}
	return strings.Join(lines, "\n")
}

// draw runs DOT source through the in-process Graphviz build.
func draw(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render %s: %w", format, err)
	}
	return buf.Bytes(), nil
}

// RenderSVG renders DOT source to a responsive SVG: the viewBox is kept and
// the pt-based size replaced with pixels.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	svg, err := draw(ctx, dot, graphviz.SVG)
	if err != nil {
		return nil, err
	}
	return normalizeViewBox(svg), nil
}

// RenderPNG renders DOT source to a PNG image.
func RenderPNG(ctx context.Context, dot string) ([]byte, error) {
	return draw(ctx, dot, graphviz.PNG)
}

// RenderGraphSVG is ToDOT followed by RenderSVG.
func RenderGraphSVG(ctx context.Context, g graph.Graph, opts Options) ([]byte, error) {
	return RenderSVG(ctx, ToDOT(g, opts))
}

// RenderGraphPNG is ToDOT followed by RenderPNG.
func RenderGraphPNG(ctx context.Context, g graph.Graph, opts Options) ([]byte, error) {
	return RenderPNG(ctx, ToDOT(g, opts))
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
