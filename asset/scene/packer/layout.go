package packer

import (
	"github.com/IGME-RIT/materials-ray-tracer-tutorial/asset/scene"
	"github.com/IGME-RIT/materials-ray-tracer-tutorial/config"
)

// Sizes of the fixed parts of the packed records. All values are in bytes.
const (
	vec4Size  = 16
	int32Size = 4

	// pos[3], uv[3], normal[3], color
	TriangleSize = 10 * vec4Size

	BoxSize = scene.BoxTriangles * TriangleSize

	// min, max, count and 3 padding ints
	ChunkHeaderSize = 2*vec4Size + 4*int32Size

	// min, max, count, optimization level, effects flag, reflection level
	MeshHeaderSize = 2*vec4Size + 4*int32Size

	// Records are padded to this boundary.
	recordAlignment = vec4Size
)

// Layout describes the packed buffer geometry for a particular set of limits.
//
// Every mesh slot is laid out as:
//
//	min vec4 | max vec4 | count, level, effects, reflection int32 |
//	collision [12]triangle | chunks [8]chunk | triangles [MaxTrianglesPerMesh]triangle
//
// and every chunk as:
//
//	min vec4 | max vec4 | count int32 | 3 x int32 padding |
//	collision [12]triangle | indices [MaxTrianglesPerChunk]int32 (padded to 16 bytes)
//
// All values are little-endian. Unused slots, triangles and indices are zero.
type Layout struct {
	Limits config.Limits

	ChunkIndicesSize int
	ChunkSize        int
	MeshSize         int
	TotalSize        int
}

// NewLayout calculates the buffer layout for the given limits.
func NewLayout(limits config.Limits) Layout {
	l := Layout{Limits: limits}
	l.ChunkIndicesSize = align(limits.MaxTrianglesPerChunk*int32Size, recordAlignment)
	l.ChunkSize = ChunkHeaderSize + BoxSize + l.ChunkIndicesSize
	l.MeshSize = MeshHeaderSize + BoxSize + scene.NumChunks*l.ChunkSize + limits.MaxTrianglesPerMesh*TriangleSize
	l.TotalSize = limits.MaxMeshes * l.MeshSize
	return l
}

// Offset of a mesh slot from the start of the buffer.
func (l Layout) MeshOffset(mesh int) int {
	return mesh * l.MeshSize
}

// Offset of a chunk record from the start of the buffer.
func (l Layout) ChunkOffset(mesh, chunk int) int {
	return l.MeshOffset(mesh) + MeshHeaderSize + BoxSize + chunk*l.ChunkSize
}

// Offset of a mesh triangle from the start of the buffer.
func (l Layout) TriangleOffset(mesh, tri int) int {
	return l.ChunkOffset(mesh, scene.NumChunks) + tri*TriangleSize
}

func align(size, alignment int) int {
	return (size + alignment - 1) / alignment * alignment
}
