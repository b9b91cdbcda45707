package bvh

import (
	"github.com/IGME-RIT/materials-ray-tracer-tutorial/asset/scene"
	"github.com/IGME-RIT/materials-ray-tracer-tutorial/types"
)

// MakeBox triangulates the surface of the box defined by min and max.
//
// Faces are emitted in the order -x, +x, -y, +y, -z, +z, two triangles per
// face. Both triangles of a face start at the face corner with the smallest
// coordinates and end at the opposite corner; the first one visits the
// corner along the later axis (z for the x and y faces, y for the z faces)
// and the second one the corner along the earlier axis. Only vertex
// positions are populated and their w component is always 1.
func MakeBox(min, max types.Vec3) scene.Box {
	var box scene.Box

	// Corner selection per axis: false picks min, true picks max.
	corner := func(x, y, z bool) types.Vec4 {
		out := types.Vec4{min[0], min[1], min[2], 1}
		if x {
			out[0] = max[0]
		}
		if y {
			out[1] = max[1]
		}
		if z {
			out[2] = max[2]
		}
		return out
	}

	for _, side := range []bool{false, true} {
		// x faces
		tri := 0 + boolToInt(side)*2
		box[tri].Pos = [3]types.Vec4{corner(side, false, false), corner(side, false, true), corner(side, true, true)}
		box[tri+1].Pos = [3]types.Vec4{corner(side, false, false), corner(side, true, false), corner(side, true, true)}

		// y faces
		tri = 4 + boolToInt(side)*2
		box[tri].Pos = [3]types.Vec4{corner(false, side, false), corner(false, side, true), corner(true, side, true)}
		box[tri+1].Pos = [3]types.Vec4{corner(false, side, false), corner(true, side, false), corner(true, side, true)}

		// z faces
		tri = 8 + boolToInt(side)*2
		box[tri].Pos = [3]types.Vec4{corner(false, false, side), corner(false, true, side), corner(true, true, side)}
		box[tri+1].Pos = [3]types.Vec4{corner(false, false, side), corner(true, false, side), corner(true, true, side)}
	}

	return box
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
