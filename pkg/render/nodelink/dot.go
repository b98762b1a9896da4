package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/kfmtool/pkg/kfm"
	"github.com/matzehuels/kfmtool/pkg/observability"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed includes clip paths, indices and blend durations in labels.
	// When false, only ids, stems and kinds are shown.
	Detailed bool
}

// ToDOT converts a graph to Graphviz DOT format for node-link visualization.
// Clips and edges are emitted in the graph's order. Edges to ids that are not
// in the graph still get drawn; Graphviz creates a bare node for them.
func ToDOT(g kfm.Graph, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  edge [fontsize=10];\n")
	buf.WriteString("  ranksep=0.8;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for _, c := range g.Clips {
		fmt.Fprintf(&buf, "  %q [label=%q];\n", nodeID(c.ID), fmtLabel(c, opts.Detailed))
	}

	buf.WriteString("\n")
	for _, c := range g.Clips {
		for _, e := range c.Edges {
			attrs := fmtEdgeAttrs(e, opts.Detailed)
			fmt.Fprintf(&buf, "  %q -> %q [%s];\n", nodeID(c.ID), nodeID(e.Target), strings.Join(attrs, ", "))
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeID(id uint32) string {
	return strconv.FormatUint(uint64(id), 10)
}

func fmtLabel(c kfm.Clip, detailed bool) string {
	base := path.Base(strings.ReplaceAll(c.Path, `\`, "/"))
	stem := strings.TrimSuffix(base, path.Ext(base))
	label := fmt.Sprintf("%d: %s", c.ID, stem)
	if !detailed {
		return label
	}
	return fmt.Sprintf("%s\npath: %s\nindex: %d", label, c.Path, c.Index)
}

func fmtEdgeAttrs(e kfm.Edge, detailed bool) []string {
	label := e.Kind.String()
	if detailed && e.Ext != nil {
		label += fmt.Sprintf("\n%gs", e.Ext.Duration)
		if n := len(e.Ext.ChainAnims); n > 0 {
			label += fmt.Sprintf(" (%d steps)", n)
		}
	}
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if !e.Kind.HasExtension() {
		attrs = append(attrs, "style=dashed", "color=grey50", "fontcolor=grey50")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) (svg []byte, err error) {
	start := time.Now()
	observability.Render().OnRenderStart(ctx, "svg", strings.Count(dot, "[label="))
	defer func() { observability.Render().OnRenderComplete(ctx, "svg", len(svg), time.Since(start), err) }()

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
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's point-sized svg tag with one whose
// width and height match the viewBox, so the diagram scales in browsers.
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
