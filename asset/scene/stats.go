package scene

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/olekukonko/tablewriter"
)

// Build a tabular representation of the scene meshes and their bounding
// volume metadata.
func (sc *Scene) Stats() string {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Mesh", "Triangles", "Level", "Effects", "Reflection", "Octant triangles", "Bounds"})

	totalTriangles := 0
	for index, m := range sc.Meshes {
		totalTriangles += m.Count()
		table.Append([]string{
			fmt.Sprintf("%d", index),
			fmt.Sprintf("%d", m.Count()),
			m.OptimizationLevel.String(),
			fmt.Sprintf("%t", m.UseEffects),
			fmt.Sprintf("%d", m.ReflectionLevel),
			fmtChunkCounts(m),
			fmtBounds(m),
		})
	}
	table.SetFooter([]string{"Total", fmt.Sprintf("%d", totalTriangles), " ", " ", " ", " ", " "})

	table.Render()
	return buf.String()
}

func fmtChunkCounts(m *Mesh) string {
	if m.OptimizationLevel < Octants {
		return "-"
	}

	counts := make([]string, NumChunks)
	for i := range m.Chunks {
		counts[i] = fmt.Sprintf("%d", m.Chunks[i].Count())
	}
	return strings.Join(counts, " ")
}

func fmtBounds(m *Mesh) string {
	if m.OptimizationLevel < SingleBox {
		return "-"
	}
	return fmt.Sprintf("(%.2f, %.2f, %.2f) - (%.2f, %.2f, %.2f)",
		m.Min[0], m.Min[1], m.Min[2],
		m.Max[0], m.Max[1], m.Max[2],
	)
}
