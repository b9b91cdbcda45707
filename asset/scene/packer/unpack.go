package packer

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/IGME-RIT/materials-ray-tracer-tutorial/asset/scene"
	"github.com/IGME-RIT/materials-ray-tracer-tutorial/config"
	"github.com/IGME-RIT/materials-ray-tracer-tutorial/types"
)

// Unpack decodes a buffer produced by Pack using the same limits. Trailing
// mesh slots whose header is all zeros are treated as unused and dropped.
func Unpack(data []byte, limits config.Limits) (*scene.Scene, error) {
	if err := limits.Validate(); err != nil {
		return nil, err
	}

	layout := NewLayout(limits)
	if len(data) != layout.TotalSize {
		return nil, fmt.Errorf("%w: packed buffer is %d bytes; expected %d", scene.ErrMalformedRecord, len(data), layout.TotalSize)
	}

	// Find the last used slot
	used := limits.MaxMeshes
	zeroHeader := make([]byte, MeshHeaderSize)
	for used > 0 {
		off := layout.MeshOffset(used - 1)
		if !bytes.Equal(data[off:off+MeshHeaderSize], zeroHeader) {
			break
		}
		used--
	}

	sc := &scene.Scene{Meshes: make([]*scene.Mesh, 0, used)}
	dec := &decoder{buf: data}
	for index := 0; index < used; index++ {
		m, err := dec.readMesh(layout, index)
		if err != nil {
			return nil, fmt.Errorf("mesh %d: %w", index, err)
		}
		sc.Meshes = append(sc.Meshes, m)
	}
	return sc, nil
}

type decoder struct {
	buf []byte
	off int
}

func (d *decoder) readMesh(layout Layout, index int) (*scene.Mesh, error) {
	m := &scene.Mesh{}

	d.off = layout.MeshOffset(index)
	m.Min = d.readVec4()
	m.Max = d.readVec4()
	count := int(d.readInt32())
	m.OptimizationLevel = scene.OptimizationLevel(d.readInt32())
	m.UseEffects = d.readInt32() != 0
	m.ReflectionLevel = d.readInt32()
	d.readBox(&m.Collision)

	if count < 0 || count > layout.Limits.MaxTrianglesPerMesh {
		return nil, fmt.Errorf("%w: triangle count %d out of range", scene.ErrMalformedRecord, count)
	}
	if m.OptimizationLevel < scene.NoOptimization || m.OptimizationLevel > scene.Octants {
		return nil, fmt.Errorf("%w: unknown optimization level %d", scene.ErrMalformedRecord, int32(m.OptimizationLevel))
	}

	for ci := range m.Chunks {
		chunk := &m.Chunks[ci]
		d.off = layout.ChunkOffset(index, ci)
		chunk.Min = d.readVec4()
		chunk.Max = d.readVec4()
		chunkCount := int(d.readInt32())
		d.off += 3 * int32Size
		d.readBox(&chunk.Collision)

		if chunkCount < 0 || chunkCount > layout.Limits.MaxTrianglesPerChunk {
			return nil, fmt.Errorf("%w: chunk %d index count %d out of range", scene.ErrMalformedRecord, ci, chunkCount)
		}
		if chunkCount > 0 {
			chunk.Indices = make([]int32, chunkCount)
			for i := range chunk.Indices {
				chunk.Indices[i] = d.readInt32()
			}
		}
	}

	if count > 0 {
		d.off = layout.TriangleOffset(index, 0)
		m.Triangles = make([]scene.Triangle, count)
		for ti := range m.Triangles {
			d.readTriangle(&m.Triangles[ti])
		}
	}

	if err := m.Validate(layout.Limits); err != nil {
		return nil, err
	}
	return m, nil
}

func (d *decoder) readInt32() int32 {
	v := int32(binary.LittleEndian.Uint32(d.buf[d.off:]))
	d.off += int32Size
	return v
}

func (d *decoder) readFloat32() float32 {
	v := math.Float32frombits(binary.LittleEndian.Uint32(d.buf[d.off:]))
	d.off += 4
	return v
}

func (d *decoder) readVec4() types.Vec4 {
	return types.XYZW(d.readFloat32(), d.readFloat32(), d.readFloat32(), d.readFloat32())
}

func (d *decoder) readTriangle(tri *scene.Triangle) {
	for v := 0; v < 3; v++ {
		tri.Pos[v] = d.readVec4()
	}
	for v := 0; v < 3; v++ {
		tri.UV[v] = d.readVec4()
	}
	for v := 0; v < 3; v++ {
		tri.Normal[v] = d.readVec4()
	}
	tri.Color = d.readVec4()
}

func (d *decoder) readBox(box *scene.Box) {
	for i := range box {
		d.readTriangle(&box[i])
	}
}
