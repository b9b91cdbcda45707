package reader

import (
	"fmt"

	"github.com/IGME-RIT/materials-ray-tracer-tutorial/asset"
	"github.com/IGME-RIT/materials-ray-tracer-tutorial/asset/scene"
)

// The MeshReader interface is implemented by all mesh readers.
type MeshReader interface {
	// Read a mesh definition from a resource.
	Read(*asset.Resource) (*scene.Mesh, error)
}

// Read a mesh from an already opened resource. The returned mesh holds at
// most capacity triangles; larger meshes are rejected with
// scene.ErrCapacityExceeded.
func ReadMesh(res *asset.Resource, capacity int) (*scene.Mesh, error) {
	// Select reader based on file extension
	var reader MeshReader
	switch res.Ext() {
	case ".obj":
		reader = newWavefrontReader(capacity)
	default:
		return nil, fmt.Errorf("%w: cannot read mesh from %q", scene.ErrUnsupportedFormat, res.Path())
	}
	return reader.Read(res)
}

// Read a mesh from a local file or http(s) URL, optionally relative to another resource.
func ReadMeshFile(path string, relTo *asset.Resource, capacity int) (*scene.Mesh, error) {
	res, err := asset.NewResource(path, relTo)
	if err != nil {
		return nil, err
	}
	defer res.Close()

	return ReadMesh(res, capacity)
}
