// Package nodelink renders KFM animation graphs as node-link diagrams.
//
// # Overview
//
// Each clip becomes a box labelled with its id and file stem; each edge
// becomes an arrow labelled with its transition kind. Edges of the two
// default kinds are drawn dashed since they defer to the graph-wide default
// transition rather than carrying timing of their own.
//
// # Usage
//
// Convert a graph to DOT format, then render to SVG:
//
//	dot := nodelink.ToDOT(f.Body, nodelink.Options{Detailed: false})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// # Options
//
// The [Options] struct controls diagram generation:
//
//   - Detailed: When true, node labels include the clip path and index and
//     edge labels include the blend duration.
//
// # DOT Format
//
// The [ToDOT] function produces Graphviz DOT source that can be:
//
//   - Rendered directly via [RenderSVG]
//   - Saved and processed with external Graphviz tools
//   - Customized before rendering
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering.
package nodelink
