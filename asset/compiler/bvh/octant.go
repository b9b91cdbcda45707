package bvh

import (
	"fmt"

	"github.com/IGME-RIT/materials-ray-tracer-tutorial/asset/scene"
	"github.com/IGME-RIT/materials-ray-tracer-tutorial/types"
)

// Octant selection bits. A set bit picks the upper half of the box along
// that axis. The resulting enumeration order is
// (-x-y-z), (-x+y-z), (+x-y-z), (+x+y-z), (-x-y+z), (-x+y+z), (+x-y+z), (+x+y+z).
const (
	octantUpperY = 1 << iota
	octantUpperX
	octantUpperZ
)

// OctantBounds splits box at its midpoint along all three axes. Adjacent
// octants share their boundary planes.
func OctantBounds(box scene.AABB) [scene.NumChunks]scene.AABB {
	min, max := box.Min.Vec3(), box.Max.Vec3()
	mid := types.Midpoint(min, max)

	var out [scene.NumChunks]scene.AABB
	for i := range out {
		lo, hi := min, mid
		if i&octantUpperX != 0 {
			lo[0], hi[0] = mid[0], max[0]
		}
		if i&octantUpperY != 0 {
			lo[1], hi[1] = mid[1], max[1]
		}
		if i&octantUpperZ != 0 {
			lo[2], hi[2] = mid[2], max[2]
		}
		out[i] = scene.AABB{Min: lo.Vec4(1), Max: hi.Vec4(1)}
	}
	return out
}

// AnyVertexInside is the octant membership policy: a triangle belongs to an
// octant if at least one of its vertices lies inside the octant's closed
// bounds. Testing stops at the first matching vertex. A triangle that
// straddles octant boundaries is therefore assigned to every octant it
// touches so no triangle can fall through the cracks between octants.
func AnyVertexInside(tri *scene.Triangle, box scene.AABB) bool {
	for j := 0; j < 3; j++ {
		if box.Contains(tri.Pos[j]) {
			return true
		}
	}
	return false
}

// ClassifyOctant rebuilds the triangle index list of chunk by testing every
// mesh triangle against the chunk bounds. It fails with
// scene.ErrCapacityExceeded if more than capacity triangles qualify.
func ClassifyOctant(m *scene.Mesh, chunk *scene.Chunk, capacity int) error {
	chunk.Indices = nil
	for i := range m.Triangles {
		if !AnyVertexInside(&m.Triangles[i], chunk.AABB) {
			continue
		}
		if err := chunk.AddIndex(int32(i), capacity); err != nil {
			return fmt.Errorf("classifying triangle %d: %w", i, err)
		}
	}
	return nil
}
