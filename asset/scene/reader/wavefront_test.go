package reader

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/IGME-RIT/materials-ray-tracer-tutorial/asset"
	"github.com/IGME-RIT/materials-ray-tracer-tutorial/asset/scene"
	"github.com/IGME-RIT/materials-ray-tracer-tutorial/types"
)

const quadPlane = `# a 2x2 quad split along its diagonal
o plane
v -1 0 1
v 1 0 1
v 1 0 -1
v -1 0 -1
vt 0 0
vt 1 0
vt 1 1
vt 0 1
vn 0 1 0
s off
usemtl none
f 1/1/1 2/2/1 3/3/1
f 1/1/1 3/3/1 4/4/1
`

func TestQuadPlane(t *testing.T) {
	res := mockResource("plane.obj", quadPlane)
	mesh, err := ReadMesh(res, 10)
	if err != nil {
		t.Fatal(err)
	}

	if mesh.Count() != 2 {
		t.Fatalf("expected 2 triangles; got %d", mesh.Count())
	}

	t0, t1 := mesh.Triangles[0], mesh.Triangles[1]
	if t0.Pos[0] != t1.Pos[0] || t0.Pos[2] != t1.Pos[1] {
		t.Fatalf("expected triangles to share the 1-3 diagonal; got %v and %v", t0.Pos, t1.Pos)
	}

	expNormal := types.XYZW(0, 1, 0, 1)
	for triIndex, tri := range mesh.Triangles {
		for vIndex := 0; vIndex < 3; vIndex++ {
			if tri.Normal[vIndex] != expNormal {
				t.Fatalf("[tri %d] expected normal %d to be %v; got %v", triIndex, vIndex, expNormal, tri.Normal[vIndex])
			}
			if tri.Pos[vIndex][3] != 1 {
				t.Fatalf("[tri %d] expected position w to be 1; got %f", triIndex, tri.Pos[vIndex][3])
			}
		}
		if tri.Color != types.XYZW(1, 1, 1, 1) {
			t.Fatalf("[tri %d] expected white color; got %v", triIndex, tri.Color)
		}
	}

	expUV := types.XYZW(1, 1, 1, 1)
	if t0.UV[2] != expUV {
		t.Fatalf("expected uv %v; got %v", expUV, t0.UV[2])
	}
}

func TestFaceErrors(t *testing.T) {
	header := "v 0 0 0\nv 1 0 0\nv 0 1 0\nv 0 0 1\nvt 0 0\nvn 0 0 1\n"

	type spec struct {
		payload string
		expErr  error
		expMsg  string
	}
	specs := []spec{
		{header + "f 1/1/1 2/1/1 5/1/1", scene.ErrMalformedRecord, "[face.obj: 7] error:"},
		{header + "f 1/2/1 2/1/1 3/1/1", scene.ErrMalformedRecord, "out of bounds"},
		{header + "f 0/1/1 2/1/1 3/1/1", scene.ErrMalformedRecord, "out of bounds"},
		{header + "f 1/1/1 2/1/1", scene.ErrMalformedRecord, "expected 3 arguments"},
		{header + "f 1/1/x 2/1/1 3/1/1", scene.ErrMalformedRecord, "normal coord"},
		{header + "f 1/1/1 2/1/1 3/1/1 4/1/1", scene.ErrUnsupportedFormat, "triangulation"},
		{header + "f 1 2 3", scene.ErrUnsupportedFormat, "v/vt/vn"},
		{header + "f 1//1 2//1 3//1", scene.ErrUnsupportedFormat, "v/vt/vn"},
		{header + "f -1/1/1 -2/1/1 -3/1/1", scene.ErrUnsupportedFormat, "relative index"},
		{"v 1 2", scene.ErrMalformedRecord, "expected 3 arguments"},
		{"vn 1 2 3 4", scene.ErrMalformedRecord, "expected 3 arguments"},
		{"vt a b", scene.ErrMalformedRecord, "[face.obj: 1] error:"},
		{"v nan 0 0", scene.ErrMalformedRecord, "non-finite"},
		{"v 0 inf 0", scene.ErrMalformedRecord, "non-finite"},
		{"vn 0 0 -Inf", scene.ErrMalformedRecord, "non-finite"},
		{"vt NaN 0", scene.ErrMalformedRecord, "non-finite"},
	}

	for idx, s := range specs {
		_, err := ReadMesh(mockResource("face.obj", s.payload), 10)
		if !errors.Is(err, s.expErr) {
			t.Fatalf("[spec %d] expected error %v; got %v", idx, s.expErr, err)
		}
		if !strings.Contains(err.Error(), s.expMsg) {
			t.Fatalf("[spec %d] expected error message to contain %q; got %q", idx, s.expMsg, err.Error())
		}
	}
}

func TestUnsupportedFormatIsAlsoMalformed(t *testing.T) {
	_, err := ReadMesh(mockResource("face.obj", "v 0 0 0\nf 1 1 1"), 10)
	if !errors.Is(err, scene.ErrMalformedRecord) {
		t.Fatalf("expected unsupported format errors to match ErrMalformedRecord; got %v", err)
	}
}

func TestCapacityExceeded(t *testing.T) {
	payload := quadPlane + "f 2/2/1 3/3/1 4/4/1\n"

	_, err := ReadMesh(mockResource("plane.obj", payload), 2)
	if !errors.Is(err, scene.ErrCapacityExceeded) {
		t.Fatalf("expected ErrCapacityExceeded; got %v", err)
	}

	mesh, err := ReadMesh(mockResource("plane.obj", payload), 3)
	if err != nil {
		t.Fatal(err)
	}
	if mesh.Count() != 3 {
		t.Fatalf("expected 3 triangles; got %d", mesh.Count())
	}
}

func TestIgnoredRecords(t *testing.T) {
	payload := "mtllib car.mtl\ng body\nvp 0.1 0.2\nl 1 2\n" + quadPlane

	mesh, err := ReadMesh(mockResource("plane.obj", payload), 10)
	if err != nil {
		t.Fatal(err)
	}
	if mesh.Count() != 2 {
		t.Fatalf("expected 2 triangles; got %d", mesh.Count())
	}
}

func TestTrailingComments(t *testing.T) {
	payload := `v -1 0 1 # corner
v 1 0 1
v 1 0 -1#no space
vt 0 0
vn 0 1 0 # up
f 1/1/1 2/1/1 3/1/1 # a single triangle
#f 1/1/1 2/1/1 3/1/1 4/1/1
`

	mesh, err := ReadMesh(mockResource("commented.obj", payload), 10)
	if err != nil {
		t.Fatal(err)
	}
	if mesh.Count() != 1 {
		t.Fatalf("expected 1 triangle; got %d", mesh.Count())
	}
	if exp := types.XYZW(1, 0, -1, 1); mesh.Triangles[0].Pos[2] != exp {
		t.Fatalf("expected third vertex %v; got %v", exp, mesh.Triangles[0].Pos[2])
	}
}

func TestUnsupportedExtension(t *testing.T) {
	_, err := ReadMesh(mockResource("plane.fbx", quadPlane), 10)
	if !errors.Is(err, scene.ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat; got %v", err)
	}
}

func TestReadMeshFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "plane.obj"), []byte(quadPlane), 0o644); err != nil {
		t.Fatal(err)
	}

	mesh, err := ReadMeshFile(filepath.Join(dir, "plane.obj"), nil, 10)
	if err != nil {
		t.Fatal(err)
	}
	if mesh.Count() != 2 {
		t.Fatalf("expected 2 triangles; got %d", mesh.Count())
	}

	_, err = ReadMeshFile(filepath.Join(dir, "missing.obj"), nil, 10)
	if !errors.Is(err, scene.ErrAssetUnreadable) {
		t.Fatalf("expected ErrAssetUnreadable; got %v", err)
	}
}

func mockResource(name, payload string) *asset.Resource {
	return asset.NewResourceFromStream(name, strings.NewReader(payload))
}
