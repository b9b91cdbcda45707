package input

import (
	"testing"

	"github.com/IGME-RIT/materials-ray-tracer-tutorial/asset/scene"
	"github.com/IGME-RIT/materials-ray-tracer-tutorial/types"
)

func TestPlane(t *testing.T) {
	tris, err := Procedural(&MeshSpec{Procedural: ShapePlane})
	if err != nil {
		t.Fatal(err)
	}

	if len(tris) != 2 {
		t.Fatalf("expected 2 triangles; got %d", len(tris))
	}

	expPos := [2][3]types.Vec4{
		{{-5, 0, 5, 1}, {-5, 0, -5, 1}, {5, 0, -5, 1}},
		{{-5, 0, 5, 1}, {5, 0, -5, 1}, {5, 0, 5, 1}},
	}
	for i, tri := range tris {
		if tri.Pos != expPos[i] {
			t.Fatalf("[tri %d] expected positions %v; got %v", i, expPos[i], tri.Pos)
		}
		for v := 0; v < 3; v++ {
			if tri.Normal[v] != types.XYZW(0, 1, 0, 1) {
				t.Fatalf("[tri %d] expected +y normal; got %v", i, tri.Normal[v])
			}
		}
		if tri.Color != defaultPlaneColor {
			t.Fatalf("[tri %d] expected default plane color; got %v", i, tri.Color)
		}
	}
}

func TestCube(t *testing.T) {
	color := []float32{0, 1, 0}
	tris, err := Procedural(&MeshSpec{Procedural: ShapeCube, Size: []float32{2, 2, 2}, Color: color})
	if err != nil {
		t.Fatal(err)
	}

	if len(tris) != scene.BoxTriangles {
		t.Fatalf("expected %d triangles; got %d", scene.BoxTriangles, len(tris))
	}

	for i, tri := range tris {
		if tri.Color != types.XYZW(0, 1, 0, 1) {
			t.Fatalf("[tri %d] expected color override; got %v", i, tri.Color)
		}
		n := tri.Normal[0].Vec3()
		for v := 0; v < 3; v++ {
			if tri.Normal[v] != tri.Normal[0] {
				t.Fatalf("[tri %d] expected a single normal per triangle", i)
			}
			// Every vertex lies on the face plane the normal points to
			if d := tri.Pos[v].Vec3().Dot(n); d != 1 {
				t.Fatalf("[tri %d] expected vertex %d to lie on its face plane; got distance %f", i, v, d)
			}
		}
	}
}

func TestBoxUsesCollisionTriangulation(t *testing.T) {
	tris, err := Procedural(&MeshSpec{Procedural: ShapeBox, Size: []float32{2, 4, 6}})
	if err != nil {
		t.Fatal(err)
	}

	if len(tris) != scene.BoxTriangles {
		t.Fatalf("expected %d triangles; got %d", scene.BoxTriangles, len(tris))
	}
	if tris[0].Pos[0] != types.XYZW(-1, -2, -3, 1) {
		t.Fatalf("expected first vertex at the min corner; got %v", tris[0].Pos[0])
	}
	if tris[3].Normal[0] != types.XYZW(1, 0, 0, 1) || tris[10].Normal[2] != types.XYZW(0, 0, 1, 1) {
		t.Fatal("expected per-face axis normals")
	}
	if tris[0].Color != defaultCubeColor {
		t.Fatalf("expected default cube color; got %v", tris[0].Color)
	}
}
