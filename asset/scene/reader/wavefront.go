package reader

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/IGME-RIT/materials-ray-tracer-tutorial/asset"
	"github.com/IGME-RIT/materials-ray-tracer-tutorial/asset/scene"
	"github.com/IGME-RIT/materials-ray-tracer-tutorial/log"
	"github.com/IGME-RIT/materials-ray-tracer-tutorial/types"
)

// The color assigned to every triangle loaded from a mesh file.
var defaultColor = types.XYZW(1, 1, 1, 1)

type wavefrontMeshReader struct {
	logger log.Logger

	// Max number of triangles the parsed mesh may hold.
	capacity int

	// The parsed mesh.
	mesh *scene.Mesh

	// List of vertices, normals and uv coords.
	vertexList []types.Vec3
	normalList []types.Vec3
	uvList     []types.Vec2
}

// Create a new wavefront mesh reader that rejects meshes with more than
// capacity triangles.
func newWavefrontReader(capacity int) *wavefrontMeshReader {
	return &wavefrontMeshReader{
		logger:     log.New("wavefront reader"),
		capacity:   capacity,
		mesh:       scene.NewMesh(),
		vertexList: make([]types.Vec3, 0),
		normalList: make([]types.Vec3, 0),
		uvList:     make([]types.Vec2, 0),
	}
}

// Read a triangulated mesh. Only "v", "vt", "vn" and fully specified
// triangular "f" records are recognized; all other lines are ignored.
func (r *wavefrontMeshReader) Read(res *asset.Resource) (*scene.Mesh, error) {
	r.logger.Infof(`parsing mesh from "%s"`, res.Path())
	start := time.Now()

	if err := r.parse(res); err != nil {
		return nil, err
	}

	r.logger.Infof(
		`parsed %d triangles from "%s" in %d ms`,
		r.mesh.Count(), res.Path(), time.Since(start).Nanoseconds()/1e6,
	)
	return r.mesh, nil
}

// Annotate err with the file and line that caused it.
func emitError(file string, line int, err error) error {
	if file != "" {
		return fmt.Errorf("[%s: %d] error: %w", file, line, err)
	}
	return fmt.Errorf("error: %w", err)
}

func (r *wavefrontMeshReader) parse(res *asset.Resource) error {
	var lineNum int = 0

	scanner := bufio.NewScanner(res)
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		if commentIdx := strings.IndexByte(line, '#'); commentIdx != -1 {
			line = line[:commentIdx]
		}

		lineTokens := strings.Fields(line)
		if len(lineTokens) == 0 {
			continue
		}

		switch lineTokens[0] {
		case "v":
			v, err := parseVec3(lineTokens)
			if err != nil {
				return emitError(res.Path(), lineNum, fmt.Errorf("%w: %s", scene.ErrMalformedRecord, err))
			}
			r.vertexList = append(r.vertexList, v)
		case "vn":
			v, err := parseVec3(lineTokens)
			if err != nil {
				return emitError(res.Path(), lineNum, fmt.Errorf("%w: %s", scene.ErrMalformedRecord, err))
			}
			r.normalList = append(r.normalList, v)
		case "vt":
			v, err := parseVec2(lineTokens)
			if err != nil {
				return emitError(res.Path(), lineNum, fmt.Errorf("%w: %s", scene.ErrMalformedRecord, err))
			}
			r.uvList = append(r.uvList, v)
		case "f":
			tri, err := r.parseFace(lineTokens)
			if err != nil {
				return emitError(res.Path(), lineNum, err)
			}
			if err = r.mesh.AddTriangle(tri, r.capacity); err != nil {
				return emitError(res.Path(), lineNum, err)
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return emitError(res.Path(), lineNum, fmt.Errorf("%w: %s", scene.ErrAssetUnreadable, err))
	}
	return nil
}

// Parse face definition. Each face must define exactly 3 vertex arguments
// using the vertexIndex/uvIndex/normalIndex format with 1-based indices.
// Polygons, missing uv/normal indices and negative indices are rejected with
// scene.ErrUnsupportedFormat; indices that do not resolve against the lists
// parsed so far are rejected with scene.ErrMalformedRecord.
func (r *wavefrontMeshReader) parseFace(lineTokens []string) (scene.Triangle, error) {
	var tri scene.Triangle

	switch {
	case len(lineTokens) > 4:
		return tri, fmt.Errorf(`%w: expected 3 arguments for a triangular "f"; got %d. Select the triangulation option in your exporter`, scene.ErrUnsupportedFormat, len(lineTokens)-1)
	case len(lineTokens) < 4:
		return tri, fmt.Errorf(`%w: unsupported syntax for "f"; expected 3 arguments; got %d`, scene.ErrMalformedRecord, len(lineTokens)-1)
	}

	for arg := 0; arg < 3; arg++ {
		vTokens := strings.Split(lineTokens[arg+1], "/")
		if len(vTokens) != 3 || vTokens[0] == "" || vTokens[1] == "" || vTokens[2] == "" {
			return tri, fmt.Errorf("%w: face argument %d must use the v/vt/vn format; got %q", scene.ErrUnsupportedFormat, arg, lineTokens[arg+1])
		}

		vIndex, err := selectFaceCoordIndex(vTokens[0], len(r.vertexList))
		if err != nil {
			return tri, fmt.Errorf("could not parse vertex coord for face argument %d: %w", arg, err)
		}
		uvIndex, err := selectFaceCoordIndex(vTokens[1], len(r.uvList))
		if err != nil {
			return tri, fmt.Errorf("could not parse tex coord for face argument %d: %w", arg, err)
		}
		nIndex, err := selectFaceCoordIndex(vTokens[2], len(r.normalList))
		if err != nil {
			return tri, fmt.Errorf("could not parse normal coord for face argument %d: %w", arg, err)
		}

		tri.Pos[arg] = r.vertexList[vIndex].Vec4(1)
		tri.UV[arg] = r.uvList[uvIndex].Vec4(1)
		tri.Normal[arg] = r.normalList[nIndex].Vec4(1)
	}
	tri.Color = defaultColor

	return tri, nil
}

// Convert a 1-based face coord index into an offset into a coord list with
// coordListLen entries.
func selectFaceCoordIndex(indexToken string, coordListLen int) (int, error) {
	index, err := strconv.ParseInt(indexToken, 10, 32)
	if err != nil {
		return -1, fmt.Errorf("%w: %s", scene.ErrMalformedRecord, err)
	}

	if index < 0 {
		return -1, fmt.Errorf("%w: relative index %d", scene.ErrUnsupportedFormat, index)
	}
	if index == 0 || int(index) > coordListLen {
		return -1, fmt.Errorf("%w: index %d out of bounds; %d entries defined so far", scene.ErrMalformedRecord, index, coordListLen)
	}
	return int(index - 1), nil
}

// Parse a Vec3 row.
func parseVec3(lineTokens []string) (types.Vec3, error) {
	if len(lineTokens) != 4 {
		return types.Vec3{}, fmt.Errorf(`unsupported syntax for "%s"; expected 3 arguments; got %d`, lineTokens[0], len(lineTokens)-1)
	}

	v := types.Vec3{}
	for tokIdx := 1; tokIdx <= 3; tokIdx++ {
		coord, err := strconv.ParseFloat(lineTokens[tokIdx], 32)
		if err != nil {
			return v, err
		}
		v[tokIdx-1] = float32(coord)
	}
	if !v.IsFinite() {
		return v, fmt.Errorf(`non-finite coordinate in "%s": %v`, lineTokens[0], v)
	}
	return v, nil
}

// Parse a Vec2 row.
func parseVec2(lineTokens []string) (types.Vec2, error) {
	if len(lineTokens) != 3 {
		return types.Vec2{}, fmt.Errorf(`unsupported syntax for "%s"; expected 2 arguments; got %d`, lineTokens[0], len(lineTokens)-1)
	}

	v := types.Vec2{}
	for tokIdx := 1; tokIdx <= 2; tokIdx++ {
		coord, err := strconv.ParseFloat(lineTokens[tokIdx], 32)
		if err != nil {
			return v, err
		}
		v[tokIdx-1] = float32(coord)
	}
	if !v.IsFinite() {
		return v, fmt.Errorf(`non-finite coordinate in "%s": %v`, lineTokens[0], v)
	}
	return v, nil
}
