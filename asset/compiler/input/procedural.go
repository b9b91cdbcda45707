package input

import (
	"fmt"

	"github.com/IGME-RIT/materials-ray-tracer-tutorial/asset/compiler/bvh"
	"github.com/IGME-RIT/materials-ray-tracer-tutorial/asset/scene"
	"github.com/IGME-RIT/materials-ray-tracer-tutorial/types"
)

var (
	// Default shape colors.
	defaultPlaneColor = types.XYZW(1, 1, 1, 1)
	defaultCubeColor  = types.XYZW(1, 0.5, 0.2, 1)

	// Default shape extents.
	defaultPlaneSize = types.XYZ(10, 0, 10)
	defaultCubeSize  = types.XYZ(1, 1, 1)
)

// A unit cube centered at the origin; every entry holds the positions and
// uv coords of one triangle followed by its face normal.
var unitCube = [scene.BoxTriangles]struct {
	pos    [3]types.Vec3
	uv     [3]types.Vec2
	normal types.Vec3
}{
	// -z
	{[3]types.Vec3{{-0.5, -0.5, -0.5}, {0.5, -0.5, -0.5}, {-0.5, 0.5, -0.5}}, [3]types.Vec2{{0, 0}, {1, 0}, {0, 1}}, types.Vec3{0, 0, -1}},
	{[3]types.Vec3{{0.5, -0.5, -0.5}, {0.5, 0.5, -0.5}, {-0.5, 0.5, -0.5}}, [3]types.Vec2{{1, 0}, {1, 1}, {0, 1}}, types.Vec3{0, 0, -1}},
	// +z
	{[3]types.Vec3{{-0.5, -0.5, 0.5}, {-0.5, 0.5, 0.5}, {0.5, 0.5, 0.5}}, [3]types.Vec2{{0, 0}, {0, 1}, {1, 1}}, types.Vec3{0, 0, 1}},
	{[3]types.Vec3{{-0.5, -0.5, 0.5}, {0.5, 0.5, 0.5}, {0.5, -0.5, 0.5}}, [3]types.Vec2{{0, 0}, {1, 1}, {1, 0}}, types.Vec3{0, 0, 1}},
	// +x
	{[3]types.Vec3{{0.5, -0.5, 0.5}, {0.5, 0.5, 0.5}, {0.5, 0.5, -0.5}}, [3]types.Vec2{{0, 1}, {1, 1}, {1, 0}}, types.Vec3{1, 0, 0}},
	{[3]types.Vec3{{0.5, -0.5, 0.5}, {0.5, 0.5, -0.5}, {0.5, -0.5, -0.5}}, [3]types.Vec2{{0, 1}, {1, 0}, {0, 0}}, types.Vec3{1, 0, 0}},
	// -x
	{[3]types.Vec3{{-0.5, -0.5, -0.5}, {-0.5, 0.5, -0.5}, {-0.5, 0.5, 0.5}}, [3]types.Vec2{{0, 0}, {1, 0}, {1, 1}}, types.Vec3{-1, 0, 0}},
	{[3]types.Vec3{{-0.5, -0.5, -0.5}, {-0.5, 0.5, 0.5}, {-0.5, -0.5, 0.5}}, [3]types.Vec2{{0, 0}, {1, 1}, {0, 1}}, types.Vec3{-1, 0, 0}},
	// +y
	{[3]types.Vec3{{-0.5, 0.5, 0.5}, {-0.5, 0.5, -0.5}, {0.5, 0.5, -0.5}}, [3]types.Vec2{{0, 1}, {0, 0}, {1, 0}}, types.Vec3{0, 1, 0}},
	{[3]types.Vec3{{-0.5, 0.5, 0.5}, {0.5, 0.5, -0.5}, {0.5, 0.5, 0.5}}, [3]types.Vec2{{0, 1}, {1, 0}, {1, 1}}, types.Vec3{0, 1, 0}},
	// -y
	{[3]types.Vec3{{-0.5, -0.5, 0.5}, {-0.5, -0.5, -0.5}, {0.5, -0.5, -0.5}}, [3]types.Vec2{{0, 1}, {0, 0}, {1, 0}}, types.Vec3{0, -1, 0}},
	{[3]types.Vec3{{-0.5, -0.5, 0.5}, {0.5, -0.5, -0.5}, {0.5, -0.5, 0.5}}, [3]types.Vec2{{0, 1}, {1, 0}, {1, 1}}, types.Vec3{0, -1, 0}},
}

// Generate the triangles for a procedural mesh spec.
func Procedural(spec *MeshSpec) ([]scene.Triangle, error) {
	size := defaultCubeSize
	if len(spec.Size) == 3 {
		size = toVec3(spec.Size)
	}

	switch spec.Procedural {
	case ShapePlane:
		if len(spec.Size) != 3 {
			size = defaultPlaneSize
		}
		return Plane(size[0], size[2], toColor(spec.Color, defaultPlaneColor)), nil
	case ShapeCube:
		return Cube(size, toColor(spec.Color, defaultCubeColor)), nil
	case ShapeBox:
		return Box(size, toColor(spec.Color, defaultCubeColor)), nil
	default:
		return nil, fmt.Errorf("%w: unknown procedural shape %q", ErrInvalidManifest, spec.Procedural)
	}
}

// Plane returns a ground plane at y = 0 centered at the origin. Both
// triangles face +y and share the (-x,+z) to (+x,-z) diagonal.
func Plane(sizeX, sizeZ float32, color types.Vec4) []scene.Triangle {
	hx, hz := sizeX/2, sizeZ/2
	normal := types.XYZW(0, 1, 0, 1)

	return []scene.Triangle{
		{
			Pos:    [3]types.Vec4{{-hx, 0, hz, 1}, {-hx, 0, -hz, 1}, {hx, 0, -hz, 1}},
			UV:     [3]types.Vec4{{0, 1, 1, 1}, {0, 0, 1, 1}, {1, 0, 1, 1}},
			Normal: [3]types.Vec4{normal, normal, normal},
			Color:  color,
		},
		{
			Pos:    [3]types.Vec4{{-hx, 0, hz, 1}, {hx, 0, -hz, 1}, {hx, 0, hz, 1}},
			UV:     [3]types.Vec4{{0, 1, 1, 1}, {1, 0, 1, 1}, {1, 1, 1, 1}},
			Normal: [3]types.Vec4{normal, normal, normal},
			Color:  color,
		},
	}
}

// Cube returns a textured cube centered at the origin with one normal per face.
func Cube(size types.Vec3, color types.Vec4) []scene.Triangle {
	out := make([]scene.Triangle, len(unitCube))
	for i, src := range unitCube {
		normal := src.normal.Vec4(1)
		for v := 0; v < 3; v++ {
			p := src.pos[v]
			out[i].Pos[v] = types.XYZW(p[0]*size[0], p[1]*size[1], p[2]*size[2], 1)
			out[i].UV[v] = src.uv[v].Vec4(1)
			out[i].Normal[v] = normal
		}
		out[i].Color = color
	}
	return out
}

// Box returns a cube centered at the origin that uses the same triangulation
// as the collision boxes emitted by the bvh builder.
func Box(size types.Vec3, color types.Vec4) []scene.Triangle {
	half := size.Mul(0.5)
	box := bvh.MakeBox(half.Mul(-1), half)

	out := box[:]
	for i := range out {
		face := i / 2
		normal := types.Vec3{}
		normal[face/2] = -1
		if face%2 == 1 {
			normal[face/2] = 1
		}

		out[i].UV = [3]types.Vec4{{0, 0, 1, 1}, {0, 1, 1, 1}, {1, 1, 1, 1}}
		out[i].Normal = [3]types.Vec4{normal.Vec4(1), normal.Vec4(1), normal.Vec4(1)}
		out[i].Color = color
	}
	return out
}
