package compiler

import (
	"fmt"
	"time"

	"github.com/IGME-RIT/materials-ray-tracer-tutorial/asset/compiler/bvh"
	"github.com/IGME-RIT/materials-ray-tracer-tutorial/asset/compiler/input"
	"github.com/IGME-RIT/materials-ray-tracer-tutorial/asset/scene"
	"github.com/IGME-RIT/materials-ray-tracer-tutorial/asset/scene/reader"
	"github.com/IGME-RIT/materials-ray-tracer-tutorial/config"
	"github.com/IGME-RIT/materials-ray-tracer-tutorial/log"
	"github.com/IGME-RIT/materials-ray-tracer-tutorial/types"
	"github.com/alitto/pond/v2"
)

// Options control the compilation pipeline.
type Options struct {
	// Number of meshes that are loaded and optimized in parallel.
	Workers int
}

type sceneCompiler struct {
	manifest *input.Manifest
	limits   config.Limits
	opts     Options
	logger   log.Logger

	// Resolved and optimized meshes; one entry per manifest mesh spec.
	meshes []*scene.Mesh
}

// Compile resolves every mesh listed in the manifest, builds its bounding
// volume metadata and assembles the meshes into a scene. Mesh specs with
// copies occupy consecutive scene slots. Any per-mesh failure aborts the
// compilation.
func Compile(manifest *input.Manifest, limits config.Limits, opts Options) (*scene.Scene, *Report, error) {
	if err := limits.Validate(); err != nil {
		return nil, nil, err
	}

	if opts.Workers <= 0 {
		opts.Workers = 1
	}

	compiler := &sceneCompiler{
		manifest: manifest,
		limits:   limits,
		opts:     opts,
		logger:   log.New("scene compiler"),
		meshes:   make([]*scene.Mesh, len(manifest.Meshes)),
	}

	start := time.Now()
	compiler.logger.Noticef("compiling scene (%d mesh specs, %d workers)", len(manifest.Meshes), opts.Workers)

	// Reject oversized scenes before loading anything
	if slots := manifest.Slots(); slots > limits.MaxMeshes {
		return nil, nil, fmt.Errorf("%w: manifest requires %d mesh slots; limit is %d", scene.ErrCapacityExceeded, slots, limits.MaxMeshes)
	}

	if err := compiler.buildMeshes(); err != nil {
		return nil, nil, err
	}

	sc, report := compiler.assemble()
	if err := sc.Validate(limits); err != nil {
		return nil, nil, err
	}

	report.BuildTime = time.Since(start)
	compiler.logger.Noticef(
		"compiled scene in %d ms (%d meshes, %d triangles)",
		report.BuildTime.Nanoseconds()/1e6, len(sc.Meshes), report.TotalTriangles,
	)
	return sc, report, nil
}

// Load and optimize each mesh spec using a worker pool. Specs only touch
// their own slot in the mesh list.
func (sc *sceneCompiler) buildMeshes() error {
	pool := pond.NewPool(sc.opts.Workers)
	defer pool.StopAndWait()

	group := pool.NewGroup()
	for index := range sc.manifest.Meshes {
		group.SubmitErr(func() error {
			spec := &sc.manifest.Meshes[index]
			mesh, err := sc.buildMesh(spec)
			if err != nil {
				return fmt.Errorf("mesh %q: %w", spec.Name, err)
			}
			sc.meshes[index] = mesh
			return nil
		})
	}

	return group.Wait()
}

func (sc *sceneCompiler) buildMesh(spec *input.MeshSpec) (*scene.Mesh, error) {
	start := time.Now()

	var mesh *scene.Mesh
	if spec.Procedural != "" {
		tris, err := input.Procedural(spec)
		if err != nil {
			return nil, err
		}
		mesh = scene.NewMesh()
		for _, tri := range tris {
			if err = mesh.AddTriangle(tri, sc.limits.MaxTrianglesPerMesh); err != nil {
				return nil, err
			}
		}
	} else {
		var err error
		mesh, err = reader.ReadMeshFile(spec.File, sc.manifest.Base(), sc.limits.MaxTrianglesPerMesh)
		if err != nil {
			return nil, err
		}
	}

	if tr := spec.GetTransform(); !tr.IsIdentity() {
		bakeTransform(mesh, tr)
	}

	mesh.UseEffects = spec.UseEffects()
	mesh.ReflectionLevel = spec.ReflectionLevel()

	if err := bvh.Build(mesh, sc.limits.MaxTrianglesPerChunk); err != nil {
		return nil, err
	}

	sc.logger.Infof(
		`mesh "%s": optimization level %s, triangles %d (%d ms)`,
		spec.Name, mesh.OptimizationLevel, mesh.Count(), time.Since(start).Nanoseconds()/1e6,
	)
	return mesh, nil
}

// Place the built meshes into scene slots and collect the build report.
func (sc *sceneCompiler) assemble() (*scene.Scene, *Report) {
	out := &scene.Scene{Meshes: make([]*scene.Mesh, 0, sc.manifest.Slots())}
	report := &Report{}

	for index := range sc.manifest.Meshes {
		spec := &sc.manifest.Meshes[index]
		for copyIndex := 0; copyIndex < spec.CopyCount(); copyIndex++ {
			mesh := sc.meshes[index]
			if copyIndex > 0 {
				mesh = mesh.Clone()
			}

			name := spec.Name
			if spec.CopyCount() > 1 {
				name = fmt.Sprintf("%s#%d", spec.Name, copyIndex)
			}
			report.add(len(out.Meshes), name, mesh)
			out.Meshes = append(out.Meshes, mesh)
		}
	}

	return out, report
}

// Apply tr to all triangle positions and normals of mesh.
func bakeTransform(mesh *scene.Mesh, tr types.Transform) {
	xform := types.NewTransformer(tr)
	for i := range mesh.Triangles {
		tri := &mesh.Triangles[i]
		for v := 0; v < 3; v++ {
			tri.Pos[v] = xform.Point(tri.Pos[v])
			tri.Normal[v] = xform.Normal(tri.Normal[v])
		}
	}
}
