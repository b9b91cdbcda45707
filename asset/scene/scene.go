package scene

import (
	"fmt"

	"github.com/IGME-RIT/materials-ray-tracer-tutorial/config"
	"github.com/IGME-RIT/materials-ray-tracer-tutorial/types"
)

const (
	// Every mesh is split into exactly this many octants.
	NumChunks = 8

	// Number of triangles emitted for the surface of an AABB.
	BoxTriangles = 12

	// Triangle count thresholds for each optimization level. Thresholds
	// are inclusive.
	SingleBoxMinTriangles = 50
	OctantsMinTriangles   = 350
)

// The BVH detail tier of a mesh.
type OptimizationLevel int32

const (
	// Brute-force test against every triangle.
	NoOptimization OptimizationLevel = iota

	// A single collision box around the whole mesh.
	SingleBox

	// A mesh collision box plus 8 octant boxes with triangle index lists.
	Octants
)

// String returns a human-readable optimization level name.
func (l OptimizationLevel) String() string {
	switch l {
	case NoOptimization:
		return "none"
	case SingleBox:
		return "box"
	case Octants:
		return "octants"
	default:
		return fmt.Sprintf("unknown(%d)", int32(l))
	}
}

// LevelForTriangleCount returns the optimization level for a mesh with the
// given number of triangles.
func LevelForTriangleCount(count int) OptimizationLevel {
	level := NoOptimization
	if count >= SingleBoxMinTriangles {
		level++
	}
	if count >= OctantsMinTriangles {
		level++
	}
	return level
}

// A triangle as consumed by the GPU. All attributes are stored as 4
// component vectors for alignment; the unused components are set to 1.
type Triangle struct {
	Pos    [3]types.Vec4
	UV     [3]types.Vec4
	Normal [3]types.Vec4
	Color  types.Vec4
}

// An axis-aligned bounding box. The w component of both corners is 1.
type AABB struct {
	Min types.Vec4
	Max types.Vec4
}

// Returns true if p lies inside the box. All bounds are inclusive.
func (b AABB) Contains(p types.Vec4) bool {
	return p[0] >= b.Min[0] && p[0] <= b.Max[0] &&
		p[1] >= b.Min[1] && p[1] <= b.Max[1] &&
		p[2] >= b.Min[2] && p[2] <= b.Max[2]
}

// Return the 8 corners of the box.
func (b AABB) Corners() [8]types.Vec3 {
	var out [8]types.Vec3
	for i := 0; i < 8; i++ {
		out[i] = types.Vec3{b.Min[0], b.Min[1], b.Min[2]}
		if i&1 != 0 {
			out[i][0] = b.Max[0]
		}
		if i&2 != 0 {
			out[i][1] = b.Max[1]
		}
		if i&4 != 0 {
			out[i][2] = b.Max[2]
		}
	}
	return out
}

// A Box is the closed triangulated surface of an AABB.
type Box [BoxTriangles]Triangle

// A chunk is one of the 8 octants of a mesh AABB together with the indices
// of all mesh triangles that touch it.
type Chunk struct {
	AABB

	// Collision box for the chunk AABB.
	Collision Box

	// Indices into the owning mesh's triangle list.
	Indices []int32
}

// Count returns the number of triangles assigned to this chunk.
func (c *Chunk) Count() int {
	return len(c.Indices)
}

// Append a triangle index unless that would exceed capacity.
func (c *Chunk) AddIndex(index int32, capacity int) error {
	if len(c.Indices) >= capacity {
		return fmt.Errorf("%w: chunk can hold at most %d triangles", ErrCapacityExceeded, capacity)
	}
	c.Indices = append(c.Indices, index)
	return nil
}

// A Mesh groups a triangle list with its bounding volume metadata.
type Mesh struct {
	AABB

	OptimizationLevel OptimizationLevel

	// Rendering hints passed through to the shaders.
	UseEffects      bool
	ReflectionLevel int32

	// Collision box for the mesh AABB.
	Collision Box

	Chunks    [NumChunks]Chunk
	Triangles []Triangle
}

// Create a new mesh with the default rendering hints.
func NewMesh() *Mesh {
	return &Mesh{
		UseEffects:      true,
		ReflectionLevel: 2,
	}
}

// Count returns the number of mesh triangles.
func (m *Mesh) Count() int {
	return len(m.Triangles)
}

// Append a triangle unless that would exceed capacity.
func (m *Mesh) AddTriangle(tri Triangle, capacity int) error {
	if len(m.Triangles) >= capacity {
		return fmt.Errorf("%w: mesh can hold at most %d triangles", ErrCapacityExceeded, capacity)
	}
	m.Triangles = append(m.Triangles, tri)
	return nil
}

// Clone returns a deep copy of the mesh.
func (m *Mesh) Clone() *Mesh {
	out := *m
	out.Triangles = append([]Triangle(nil), m.Triangles...)
	for i := range out.Chunks {
		out.Chunks[i].Indices = append([]int32(nil), m.Chunks[i].Indices...)
		if len(out.Chunks[i].Indices) == 0 {
			out.Chunks[i].Indices = nil
		}
	}
	if len(out.Triangles) == 0 {
		out.Triangles = nil
	}
	return &out
}

// Validate the mesh against the buffer limits. Meshes without triangles are
// rejected with ErrEmptyMesh.
func (m *Mesh) Validate(limits config.Limits) error {
	if len(m.Triangles) == 0 {
		return ErrEmptyMesh
	}
	if len(m.Triangles) > limits.MaxTrianglesPerMesh {
		return fmt.Errorf("%w: mesh has %d triangles; limit is %d", ErrCapacityExceeded, len(m.Triangles), limits.MaxTrianglesPerMesh)
	}
	for i := range m.Chunks {
		if count := m.Chunks[i].Count(); count > limits.MaxTrianglesPerChunk {
			return fmt.Errorf("%w: chunk %d has %d triangles; limit is %d", ErrCapacityExceeded, i, count, limits.MaxTrianglesPerChunk)
		}
		for _, index := range m.Chunks[i].Indices {
			if index < 0 || int(index) >= len(m.Triangles) {
				return fmt.Errorf("%w: chunk %d references triangle %d; mesh has %d triangles", ErrMalformedRecord, i, index, len(m.Triangles))
			}
		}
	}
	return nil
}

// A scene is an ordered list of meshes.
type Scene struct {
	Meshes []*Mesh
}

// Validate the scene and all its meshes against the buffer limits.
func (sc *Scene) Validate(limits config.Limits) error {
	if len(sc.Meshes) > limits.MaxMeshes {
		return fmt.Errorf("%w: scene has %d meshes; limit is %d", ErrCapacityExceeded, len(sc.Meshes), limits.MaxMeshes)
	}
	for index, m := range sc.Meshes {
		if m == nil {
			return fmt.Errorf("%w: mesh %d is nil", ErrMalformedRecord, index)
		}
		if err := m.Validate(limits); err != nil {
			return fmt.Errorf("mesh %d: %w", index, err)
		}
	}
	return nil
}
