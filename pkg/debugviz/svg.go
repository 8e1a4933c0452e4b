package debugviz

import (
	"bytes"
	"fmt"
	"os"
	"sort"

	svg "github.com/ajstarks/svgo"

	"github.com/dshills/constrainedrandom/pkg/problem"
	"github.com/dshills/constrainedrandom/pkg/solver"
)

// Options configures SVG rendering of a debug diagram.
type Options struct {
	Width      int    // Canvas width in pixels
	Height     int    // Canvas height in pixels
	NodeRadius int    // Radius of variable nodes (default: 24)
	Margin     int    // Canvas margin in pixels (default: 70)
	Title      string // Optional title for the visualization
	ShowLegend bool   // Show legend explaining node colors
	ShowStats  bool   // Show strategy/iteration statistics header
}

// DefaultOptions returns sensible default rendering options.
func DefaultOptions() Options {
	return Options{
		Width:      1200,
		Height:     700,
		NodeRadius: 24,
		Margin:     70,
		Title:      "Randomization Debug View",
		ShowLegend: true,
		ShowStats:  true,
	}
}

// position is a 2D coordinate on the canvas.
type position struct {
	X, Y float64
}

// RenderSVG lays out p's variables in columns by their sparse-strategy
// order, colors each node by whether it made it into the deepest
// assignment the sparse strategy reached, and annotates the canvas with
// the strategies attempted and iteration counts from info.
func RenderSVG(p *problem.MultiVarProblem, info *solver.RandomizationDebugInfo, opts Options) ([]byte, error) {
	if p == nil {
		return nil, fmt.Errorf("debugviz: problem cannot be nil")
	}
	if info == nil {
		return nil, fmt.Errorf("debugviz: debug info cannot be nil")
	}

	if opts.Width <= 0 {
		opts.Width = 1200
	}
	if opts.Height <= 0 {
		opts.Height = 700
	}
	if opts.NodeRadius <= 0 {
		opts.NodeRadius = 24
	}
	if opts.Margin <= 0 {
		opts.Margin = 70
	}

	buf := new(bytes.Buffer)
	canvas := svg.New(buf)
	canvas.Start(opts.Width, opts.Height)
	canvas.Rect(0, 0, opts.Width, opts.Height, "fill:#1a1a2e")

	groups := groupByOrder(p)
	positions := calculateColumnLayout(groups, opts)

	drawEdges(canvas, p, groups, positions)
	drawNodes(canvas, p, info, positions, opts.NodeRadius)
	drawVarLabels(canvas, positions, opts)

	if opts.ShowLegend {
		drawLegend(canvas, opts)
	}
	if opts.Title != "" || opts.ShowStats {
		drawHeader(canvas, info, opts)
	}

	canvas.End()
	return buf.Bytes(), nil
}

// SaveToFile renders and writes the result to filepath with 0644 permissions.
func SaveToFile(p *problem.MultiVarProblem, info *solver.RandomizationDebugInfo, filepath string, opts Options) error {
	data, err := RenderSVG(p, info, opts)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath, data, 0644)
}

// groupByOrder buckets p's variables by their Order field, ascending.
func groupByOrder(p *problem.MultiVarProblem) [][]string {
	byOrder := make(map[int][]string)
	for _, name := range p.VarOrder() {
		order := p.Var(name).Order
		byOrder[order] = append(byOrder[order], name)
	}

	orders := make([]int, 0, len(byOrder))
	for o := range byOrder {
		orders = append(orders, o)
	}
	sort.Ints(orders)

	groups := make([][]string, len(orders))
	for i, o := range orders {
		names := byOrder[o]
		sort.Strings(names)
		groups[i] = names
	}
	return groups
}

// calculateColumnLayout places each order group in its own vertical
// column, stacking that group's variables within it.
func calculateColumnLayout(groups [][]string, opts Options) map[string]position {
	positions := make(map[string]position)
	if len(groups) == 0 {
		return positions
	}

	headerSpace := 60.0
	drawWidth := float64(opts.Width - 2*opts.Margin)
	drawHeight := float64(opts.Height-2*opts.Margin) - headerSpace

	colStep := drawWidth / float64(len(groups))
	for col, names := range groups {
		x := float64(opts.Margin) + colStep*(float64(col)+0.5)
		if len(names) == 0 {
			continue
		}
		rowStep := drawHeight / float64(len(names)+1)
		for row, name := range names {
			y := float64(opts.Margin) + headerSpace + rowStep*float64(row+1)
			positions[name] = position{X: x, Y: y}
		}
	}
	return positions
}

// drawEdges connects each multi-constraint's variables in sequence, so
// the diagram shows which groups a constraint spans.
func drawEdges(canvas *svg.SVG, p *problem.MultiVarProblem, groups [][]string, positions map[string]position) {
	for _, mc := range p.MultiConstraints {
		for i := 0; i+1 < len(mc.Vars); i++ {
			from, fromOK := positions[mc.Vars[i]]
			to, toOK := positions[mc.Vars[i+1]]
			if !fromOK || !toOK {
				continue
			}
			canvas.Line(
				int(from.X), int(from.Y), int(to.X), int(to.Y),
				"stroke:#4a5568;stroke-width:1;opacity:0.6;stroke-dasharray:4,3",
			)
		}
	}
}

// drawNodes renders one circle per variable, colored by whether it
// appears in the sparse strategy's deepest reached assignment.
func drawNodes(canvas *svg.SVG, p *problem.MultiVarProblem, info *solver.RandomizationDebugInfo, positions map[string]position, radius int) {
	names := p.VarOrder()
	sort.Strings(names)

	for _, name := range names {
		pos, ok := positions[name]
		if !ok {
			continue
		}
		color := nodeColor(name, info)
		canvas.Circle(int(pos.X), int(pos.Y), radius,
			fmt.Sprintf("fill:%s;stroke:#fff;stroke-width:2;opacity:0.9", color))
	}
}

func nodeColor(name string, info *solver.RandomizationDebugInfo) string {
	if info.SparseDeepestAssignment != nil {
		if _, ok := info.SparseDeepestAssignment[name]; ok {
			return "#48bb78" // reached: green
		}
	}
	return "#f56565" // not reached: red
}

// drawVarLabels renders variable name labels below each node.
func drawVarLabels(canvas *svg.SVG, positions map[string]position, opts Options) {
	names := make([]string, 0, len(positions))
	for name := range positions {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		pos := positions[name]
		canvas.Text(int(pos.X), int(pos.Y)+38, name,
			"text-anchor:middle;font-size:11px;font-family:monospace;fill:#e2e8f0;font-weight:500")
	}
}

// drawLegend renders a legend explaining node colors.
func drawLegend(canvas *svg.SVG, opts Options) {
	legendX := opts.Width - opts.Margin - 170
	legendY := opts.Margin

	canvas.Rect(legendX-10, legendY-15, 180, 90,
		"fill:#2d3748;stroke:#4a5568;stroke-width:1;opacity:0.95;rx:5")
	canvas.Text(legendX, legendY, "Variables",
		"font-size:13px;font-weight:bold;fill:#e2e8f0")
	legendY += 25

	canvas.Circle(legendX+8, legendY, 8, "fill:#48bb78;stroke:#fff;stroke-width:1")
	canvas.Text(legendX+25, legendY+4, "reached by sparse", "font-size:11px;fill:#cbd5e0")
	legendY += 22

	canvas.Circle(legendX+8, legendY, 8, "fill:#f56565;stroke:#fff;stroke-width:1")
	canvas.Text(legendX+25, legendY+4, "not reached", "font-size:11px;fill:#cbd5e0")
}

// drawHeader renders the title and strategy/iteration statistics.
func drawHeader(canvas *svg.SVG, info *solver.RandomizationDebugInfo, opts Options) {
	headerY := 25
	if opts.Title != "" {
		canvas.Text(opts.Width/2, headerY, opts.Title,
			"text-anchor:middle;font-size:20px;font-weight:bold;fill:#e2e8f0;font-family:sans-serif")
		headerY += 28
	}

	if opts.ShowStats {
		stats := fmt.Sprintf("strategies: %v | naive iterations: %d | sparse nodes visited: %d",
			info.StrategiesAttempted, info.NaiveIterations, info.SparseNodesVisited)
		canvas.Text(opts.Width/2, headerY, stats,
			"text-anchor:middle;font-size:12px;fill:#a0aec0;font-family:monospace")

		if info.ThoroughReason != "" {
			headerY += 18
			canvas.Text(opts.Width/2, headerY, "thorough: "+info.ThoroughReason,
				"text-anchor:middle;font-size:11px;fill:#718096;font-family:monospace")
		}
	}
}
