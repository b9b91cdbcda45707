package bvh

import (
	"errors"
	"testing"

	"github.com/IGME-RIT/materials-ray-tracer-tutorial/asset/scene"
	"github.com/IGME-RIT/materials-ray-tracer-tutorial/types"
	"github.com/chewxy/math32"
)

func TestOptimizationLevels(t *testing.T) {
	type spec struct {
		triangles int
		expLevel  scene.OptimizationLevel
	}
	specs := []spec{
		{1, scene.NoOptimization},
		{12, scene.NoOptimization},
		{49, scene.NoOptimization},
		{50, scene.SingleBox},
		{349, scene.SingleBox},
		{350, scene.Octants},
		{500, scene.Octants},
	}

	for idx, s := range specs {
		m := synthMesh(s.triangles)
		if err := Build(m, s.triangles); err != nil {
			t.Fatalf("[spec %d] unexpected error: %v", idx, err)
		}
		if m.OptimizationLevel != s.expLevel {
			t.Fatalf("[spec %d] expected level %s for %d triangles; got %s", idx, s.expLevel, s.triangles, m.OptimizationLevel)
		}

		switch m.OptimizationLevel {
		case scene.NoOptimization:
			if m.AABB != (scene.AABB{}) || m.Collision != (scene.Box{}) {
				t.Fatalf("[spec %d] expected level 0 mesh to have no AABB or collision box", idx)
			}
			assertChunksEmpty(t, idx, m)
		case scene.SingleBox:
			if m.AABB == (scene.AABB{}) {
				t.Fatalf("[spec %d] expected level 1 mesh to have an AABB", idx)
			}
			assertChunksEmpty(t, idx, m)
		case scene.Octants:
			for i := range m.Chunks {
				if m.Chunks[i].AABB == (scene.AABB{}) {
					t.Fatalf("[spec %d] expected octant %d to be populated", idx, i)
				}
			}
		}
	}
}

func TestProceduralCubeIsNotOptimized(t *testing.T) {
	m := scene.NewMesh()
	box := MakeBox(types.XYZ(-0.5, -0.5, -0.5), types.XYZ(0.5, 0.5, 0.5))
	m.Triangles = box[:]

	if err := Build(m, 400); err != nil {
		t.Fatal(err)
	}
	if m.OptimizationLevel != scene.NoOptimization {
		t.Fatalf("expected a 12 triangle cube to use level 0; got %s", m.OptimizationLevel)
	}
}

func TestAABBIsTight(t *testing.T) {
	m := synthMesh(120)
	if err := Build(m, 400); err != nil {
		t.Fatal(err)
	}

	var hitMin, hitMax [3]bool
	for triIndex, tri := range m.Triangles {
		for v := 0; v < 3; v++ {
			if !m.AABB.Contains(tri.Pos[v]) {
				t.Fatalf("expected vertex %d of triangle %d (%v) to be inside the mesh AABB %v", v, triIndex, tri.Pos[v], m.AABB)
			}
			for axis := 0; axis < 3; axis++ {
				hitMin[axis] = hitMin[axis] || tri.Pos[v][axis] == m.Min[axis]
				hitMax[axis] = hitMax[axis] || tri.Pos[v][axis] == m.Max[axis]
			}
		}
	}

	for axis := 0; axis < 3; axis++ {
		if !hitMin[axis] || !hitMax[axis] {
			t.Fatalf("expected AABB to touch a vertex on both sides of axis %d", axis)
		}
	}
	if m.Min[3] != 1 || m.Max[3] != 1 {
		t.Fatalf("expected AABB w components to be 1; got %f, %f", m.Min[3], m.Max[3])
	}
}

func TestMeshBoxMatchesAABBCorners(t *testing.T) {
	m := synthMesh(60)
	if err := Build(m, 400); err != nil {
		t.Fatal(err)
	}

	assertBoxCorners(t, m.Collision, m.AABB)
}

func TestOctantsPartitionMeshAABB(t *testing.T) {
	m := synthMesh(400)
	if err := Build(m, 400); err != nil {
		t.Fatal(err)
	}

	union := m.Chunks[0].AABB
	var volume float32
	for i := range m.Chunks {
		c := m.Chunks[i]
		union.Min = types.MinVec3(union.Min.Vec3(), c.Min.Vec3()).Vec4(1)
		union.Max = types.MaxVec3(union.Max.Vec3(), c.Max.Vec3()).Vec4(1)
		volume += boxVolume(c.AABB)

		// Octant boxes use the same winding as the mesh box
		if c.Collision != MakeBox(c.Min.Vec3(), c.Max.Vec3()) {
			t.Fatalf("expected octant %d collision box to match its bounds", i)
		}
		assertBoxCorners(t, c.Collision, c.AABB)

		for j := i + 1; j < len(m.Chunks); j++ {
			if v := overlapVolume(c.AABB, m.Chunks[j].AABB); v != 0 {
				t.Fatalf("expected octants %d and %d to share at most a boundary; overlap volume %f", i, j, v)
			}
		}
	}

	if union != m.AABB {
		t.Fatalf("expected octant union %v to equal the mesh AABB %v", union, m.AABB)
	}
	if diff := (volume - boxVolume(m.AABB)) / boxVolume(m.AABB); diff > 1e-4 || diff < -1e-4 {
		t.Fatalf("expected octant volumes to sum to the mesh volume %f; got %f", boxVolume(m.AABB), volume)
	}
}

func TestNoTriangleLost(t *testing.T) {
	m := synthMesh(350)
	if err := Build(m, 350); err != nil {
		t.Fatal(err)
	}

	seen := make([]bool, m.Count())
	for i := range m.Chunks {
		for _, index := range m.Chunks[i].Indices {
			seen[index] = true
		}
	}
	for index, ok := range seen {
		if !ok {
			t.Fatalf("expected triangle %d to be assigned to at least one octant", index)
		}
	}
}

func TestOctantCapacityExceeded(t *testing.T) {
	m := scene.NewMesh()
	tri := scene.Triangle{Pos: [3]types.Vec4{{0, 0, 0, 1}, {0.1, 0, 0, 1}, {0, 0.1, 0, 1}}}
	for i := 0; i < 349; i++ {
		m.Triangles = append(m.Triangles, tri)
	}
	m.Triangles = append(m.Triangles, scene.Triangle{Pos: [3]types.Vec4{{10, 10, 10, 1}, {9.9, 10, 10, 1}, {10, 9.9, 10, 1}}})

	err := Build(m, 100)
	if !errors.Is(err, scene.ErrCapacityExceeded) {
		t.Fatalf("expected ErrCapacityExceeded; got %v", err)
	}
	if m.Chunks[0].Count() > 100 {
		t.Fatalf("expected octant to hold at most 100 indices; got %d", m.Chunks[0].Count())
	}

	if err = Build(m, 350); err != nil {
		t.Fatalf("unexpected error with sufficient capacity: %v", err)
	}
}

func TestEmptyMesh(t *testing.T) {
	if err := Build(scene.NewMesh(), 400); !errors.Is(err, scene.ErrEmptyMesh) {
		t.Fatalf("expected ErrEmptyMesh; got %v", err)
	}
	if _, err := ComputeAABB(nil); !errors.Is(err, scene.ErrEmptyMesh) {
		t.Fatalf("expected ErrEmptyMesh; got %v", err)
	}
}

func TestNonFiniteBounds(t *testing.T) {
	nan := math32.NaN()
	inf := math32.Inf(1)

	type spec struct {
		p types.Vec4
	}
	specs := []spec{
		{types.XYZW(nan, 0, 0, 1)},
		{types.XYZW(0, inf, 0, 1)},
		{types.XYZW(0, 0, -inf, 1)},
	}

	for idx, s := range specs {
		for _, count := range []int{scene.SingleBoxMinTriangles, scene.OctantsMinTriangles + 11} {
			m := synthMesh(count)
			m.Triangles[count/2].Pos[1] = s.p

			if err := Build(m, count); !errors.Is(err, scene.ErrMalformedRecord) {
				t.Fatalf("[spec %d] expected ErrMalformedRecord for a %d triangle mesh; got %v", idx, count, err)
			}
		}
	}
}

func TestRebuildClearsStaleMetadata(t *testing.T) {
	m := synthMesh(350)
	if err := Build(m, 350); err != nil {
		t.Fatal(err)
	}

	m.Triangles = m.Triangles[:20]
	if err := Build(m, 350); err != nil {
		t.Fatal(err)
	}
	if m.OptimizationLevel != scene.NoOptimization || m.AABB != (scene.AABB{}) {
		t.Fatalf("expected rebuilt mesh to drop its bounding volume; got level %s", m.OptimizationLevel)
	}
	assertChunksEmpty(t, 0, m)
}

// Generate a mesh with count small triangles laid out on a 7x7 grid of layers.
func synthMesh(count int) *scene.Mesh {
	m := scene.NewMesh()
	for i := 0; i < count; i++ {
		p := types.XYZ(float32(i%7), float32((i/7)%7), float32(i/49))
		m.Triangles = append(m.Triangles, scene.Triangle{
			Pos: [3]types.Vec4{
				p.Vec4(1),
				p.Add(types.XYZ(0.5, 0, 0)).Vec4(1),
				p.Add(types.XYZ(0, 0.5, 0.25)).Vec4(1),
			},
			Color: types.XYZW(1, 1, 1, 1),
		})
	}
	return m
}

func assertChunksEmpty(t *testing.T, idx int, m *scene.Mesh) {
	t.Helper()
	for i := range m.Chunks {
		c := m.Chunks[i]
		if c.AABB != (scene.AABB{}) || c.Collision != (scene.Box{}) || c.Count() != 0 {
			t.Fatalf("[spec %d] expected octant %d to be unpopulated", idx, i)
		}
	}
}

func assertBoxCorners(t *testing.T, box scene.Box, bbox scene.AABB) {
	t.Helper()

	expCorners := make(map[types.Vec3]bool)
	for _, c := range bbox.Corners() {
		expCorners[c] = true
	}

	gotCorners := make(map[types.Vec3]bool)
	for _, tri := range box {
		for v := 0; v < 3; v++ {
			gotCorners[tri.Pos[v].Vec3()] = true
		}
	}

	if len(gotCorners) != len(expCorners) {
		t.Fatalf("expected box to use %d distinct corners; got %d", len(expCorners), len(gotCorners))
	}
	for c := range gotCorners {
		if !expCorners[c] {
			t.Fatalf("expected box vertex %v to be an AABB corner", c)
		}
	}
}

func boxVolume(b scene.AABB) float32 {
	return (b.Max[0] - b.Min[0]) * (b.Max[1] - b.Min[1]) * (b.Max[2] - b.Min[2])
}

func overlapVolume(a, b scene.AABB) float32 {
	var volume float32 = 1
	for axis := 0; axis < 3; axis++ {
		lo, hi := a.Min[axis], a.Max[axis]
		if b.Min[axis] > lo {
			lo = b.Min[axis]
		}
		if b.Max[axis] < hi {
			hi = b.Max[axis]
		}
		if hi <= lo {
			return 0
		}
		volume *= hi - lo
	}
	return volume
}
