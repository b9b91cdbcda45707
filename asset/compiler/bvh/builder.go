package bvh

import (
	"fmt"
	"time"

	"github.com/IGME-RIT/materials-ray-tracer-tutorial/asset/scene"
	"github.com/IGME-RIT/materials-ray-tracer-tutorial/log"
	"github.com/IGME-RIT/materials-ray-tracer-tutorial/types"
)

type builder struct {
	logger log.Logger

	// Max number of triangle indices per octant.
	chunkCapacity int
}

// Build populates the bounding volume metadata of m in place.
//
// The optimization level is selected from the triangle count. Level 1 meshes
// get an AABB and a collision box; level 2 meshes are additionally split into
// 8 octants, each with its own collision box and triangle index list holding
// at most chunkCapacity entries.
//
// Meshes without triangles are rejected with scene.ErrEmptyMesh.
func Build(m *scene.Mesh, chunkCapacity int) error {
	b := &builder{
		logger:        log.New("bvh builder"),
		chunkCapacity: chunkCapacity,
	}
	return b.build(m)
}

func (b *builder) build(m *scene.Mesh) error {
	if m.Count() == 0 {
		return scene.ErrEmptyMesh
	}

	start := time.Now()

	// Clear any metadata from a previous build
	m.AABB = scene.AABB{}
	m.Collision = scene.Box{}
	m.Chunks = [scene.NumChunks]scene.Chunk{}

	m.OptimizationLevel = scene.LevelForTriangleCount(m.Count())
	if m.OptimizationLevel == scene.NoOptimization {
		return nil
	}

	bbox, err := ComputeAABB(m.Triangles)
	if err != nil {
		return err
	}
	m.AABB = bbox
	m.Collision = MakeBox(bbox.Min.Vec3(), bbox.Max.Vec3())

	if m.OptimizationLevel == scene.SingleBox {
		return nil
	}

	for i, octant := range OctantBounds(bbox) {
		chunk := &m.Chunks[i]
		chunk.AABB = octant
		chunk.Collision = MakeBox(octant.Min.Vec3(), octant.Max.Vec3())
		if err = ClassifyOctant(m, chunk, b.chunkCapacity); err != nil {
			return fmt.Errorf("octant %d: %w", i, err)
		}
		b.logger.Debugf("octant %d: %d triangles", i, chunk.Count())
	}

	b.logger.Debugf("octant build time: %d ms", time.Since(start).Nanoseconds()/1e6)
	return nil
}

// ComputeAABB returns the tight bounding box of all triangle vertices. The
// box is seeded from the first vertex of the first triangle so an empty list
// yields scene.ErrEmptyMesh. Bounds containing NaN or infinite coordinates
// are rejected with scene.ErrMalformedRecord.
func ComputeAABB(triangles []scene.Triangle) (scene.AABB, error) {
	if len(triangles) == 0 {
		return scene.AABB{}, scene.ErrEmptyMesh
	}

	min := triangles[0].Pos[0].Vec3()
	max := min
	for i := range triangles {
		for j := 0; j < 3; j++ {
			p := triangles[i].Pos[j].Vec3()
			min = types.MinVec3(min, p)
			max = types.MaxVec3(max, p)
		}
	}

	if !min.IsFinite() || !max.IsFinite() {
		return scene.AABB{}, fmt.Errorf("%w: non-finite bounds %v - %v", scene.ErrMalformedRecord, min, max)
	}

	return scene.AABB{Min: min.Vec4(1), Max: max.Vec4(1)}, nil
}
