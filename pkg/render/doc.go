// Package render exports a positioned mind map as Graphviz DOT and SVG.
//
// # Overview
//
// [ToDOT] produces DOT source from a [graph.Graph]. Two modes exist:
//
//   - ranked (default): Graphviz's dot engine ranks the cards itself along
//     rankdir TB or LR, which is handy for quick previews of a tree file
//   - pinned: every card is fixed at the position computed by the layout
//     engine and rendered with neato, so the picture matches what the
//     interactive surface shows
//
// The root card is drawn with a bold border; cards and edges added by hand
// are dashed.
//
//	dot := render.ToDOT(g, render.Options{Direction: layout.LeftToRight})
//	svg, err := render.RenderSVG(ctx, dot)
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz], a WebAssembly build of
// Graphviz that runs in-process without a system installation.
package render
