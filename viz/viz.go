// Package viz renders a spatial graph as a self-contained interactive HTML
// page for visual inspection of the lattice and a planned route. It is a
// debugging aid, not part of the planning pipeline.
package viz

import (
	"fmt"
	"io"
	"math"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/aniti-robotics/flightplan/navgraph"
)

// maxRenderNodes caps the node series; larger graphs are strided down to
// keep the page responsive.
const maxRenderNodes = 8000

// RenderGraph writes an HTML page showing g's free-space nodes as a 3D
// scatter, with an optional node-id path drawn over them. path may be nil.
func RenderGraph(w io.Writer, g navgraph.Graph, path []int, title string) error {
	n := g.NumNodes()
	stride := 1
	if n > maxRenderNodes {
		stride = int(math.Ceil(float64(n) / float64(maxRenderNodes)))
	}

	nodes := make([]opts.Chart3DData, 0, n/stride+1)
	for i := 0; i < n; i += stride {
		p := g.At(i)
		nodes = append(nodes, opts.Chart3DData{Value: []interface{}{p.X, p.Y, p.Z}})
	}

	scatter := charts.NewScatter3D()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: "Free-Space Lattice",
			Width:     "1200px",
			Height:    "900px",
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    title,
			Subtitle: fmt.Sprintf("nodes=%d stride=%d path=%d", n, stride, len(path)),
		}),
	)
	scatter.AddSeries("free nodes", nodes)

	if len(path) > 0 {
		route := make([]opts.Chart3DData, 0, len(path))
		for _, id := range path {
			p := g.At(id)
			route = append(route, opts.Chart3DData{Value: []interface{}{p.X, p.Y, p.Z}})
		}
		line := charts.NewLine3D()
		line.SetGlobalOptions(
			charts.WithInitializationOpts(opts.Initialization{
				Width:  "1200px",
				Height: "900px",
			}),
			charts.WithTitleOpts(opts.Title{Title: "Planned route"}),
		)
		line.AddSeries("route", route)

		page := components.NewPage()
		page.PageTitle = "Free-Space Lattice"
		page.AddCharts(scatter, line)
		if err := page.Render(w); err != nil {
			return fmt.Errorf("viz: render page: %w", err)
		}
		return nil
	}

	if err := scatter.Render(w); err != nil {
		return fmt.Errorf("viz: render scatter: %w", err)
	}
	return nil
}
