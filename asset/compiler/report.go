package compiler

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/IGME-RIT/materials-ray-tracer-tutorial/asset/scene"
	"github.com/olekukonko/tablewriter"
)

// MeshReport summarizes the build output for a single scene slot.
type MeshReport struct {
	Slot       int
	Name       string
	Level      scene.OptimizationLevel
	Triangles  int
	UseEffects bool
	Reflection int32

	// Number of triangles assigned to each octant; only populated for
	// meshes using octants.
	OctantTriangles [scene.NumChunks]int
}

// Report collects the build statistics for a compiled scene.
type Report struct {
	Meshes []MeshReport

	TotalTriangles int

	// Triangle count of the largest mesh.
	BiggestMesh int

	// Meshes with at least a bounding box (level >= 1) and meshes that are
	// also split into octants (level 2).
	BoxedMeshes  int
	OctantMeshes int

	BuildTime time.Duration
}

func (r *Report) add(slot int, name string, m *scene.Mesh) {
	mr := MeshReport{
		Slot:       slot,
		Name:       name,
		Level:      m.OptimizationLevel,
		Triangles:  m.Count(),
		UseEffects: m.UseEffects,
		Reflection: m.ReflectionLevel,
	}
	for i := range m.Chunks {
		mr.OctantTriangles[i] = m.Chunks[i].Count()
	}
	r.Meshes = append(r.Meshes, mr)

	r.TotalTriangles += mr.Triangles
	if mr.Triangles > r.BiggestMesh {
		r.BiggestMesh = mr.Triangles
	}
	if mr.Level >= scene.SingleBox {
		r.BoxedMeshes++
	}
	if mr.Level >= scene.Octants {
		r.OctantMeshes++
	}
}

// String renders the report as a table followed by the scene totals.
func (r *Report) String() string {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Slot", "Name", "Triangles", "Level", "Effects", "Reflection", "Octant triangles"})

	for _, mr := range r.Meshes {
		octants := "-"
		if mr.Level == scene.Octants {
			counts := make([]string, len(mr.OctantTriangles))
			for i, c := range mr.OctantTriangles {
				counts[i] = fmt.Sprintf("%d", c)
			}
			octants = strings.Join(counts, " ")
		}

		table.Append([]string{
			fmt.Sprintf("%d", mr.Slot),
			mr.Name,
			fmt.Sprintf("%d", mr.Triangles),
			mr.Level.String(),
			fmt.Sprintf("%t", mr.UseEffects),
			fmt.Sprintf("%d", mr.Reflection),
			octants,
		})
	}
	table.Render()

	fmt.Fprintf(&buf, "Num meshes: %d\n", len(r.Meshes))
	fmt.Fprintf(&buf, "Max triangles per mesh: %d\n", r.BiggestMesh)
	fmt.Fprintf(&buf, "Total triangles in scene: %d\n", r.TotalTriangles)
	fmt.Fprintf(&buf, "Meshes with bounding box: %d\n", r.BoxedMeshes)
	fmt.Fprintf(&buf, "Meshes with octants: %d\n", r.OctantMeshes)
	return buf.String()
}
