package packer

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"time"

	"github.com/IGME-RIT/materials-ray-tracer-tutorial/asset/scene"
	"github.com/IGME-RIT/materials-ray-tracer-tutorial/config"
	"github.com/IGME-RIT/materials-ray-tracer-tutorial/log"
	"github.com/IGME-RIT/materials-ray-tracer-tutorial/types"
)

var logger = log.New("scene packer")

// Buffers holds the packed scene. Static is the immutable accelerator input
// consumed by the intersection stage. Dynamic starts out with the same
// contents but is owned by the renderer, which may overwrite it every frame.
// The two slices never share storage.
type Buffers struct {
	Layout  Layout
	Static  []byte
	Dynamic []byte
}

// Pack validates sc against limits and serializes it. Nothing is written if
// any mesh exceeds a limit or has no triangles. Every packed mesh therefore
// has a non-zero triangle count, which lets Unpack treat slots with an all
// zero header as unused.
func Pack(sc *scene.Scene, limits config.Limits) (*Buffers, error) {
	data, err := Encode(sc, limits)
	if err != nil {
		return nil, err
	}

	return &Buffers{
		Layout:  NewLayout(limits),
		Static:  data,
		Dynamic: bytes.Clone(data),
	}, nil
}

// Encode validates sc against limits and returns a single packed buffer.
func Encode(sc *scene.Scene, limits config.Limits) ([]byte, error) {
	if err := limits.Validate(); err != nil {
		return nil, err
	}
	if err := sc.Validate(limits); err != nil {
		return nil, fmt.Errorf("packer: %w", err)
	}

	start := time.Now()
	layout := NewLayout(limits)
	enc := &encoder{buf: make([]byte, layout.TotalSize)}

	for index, m := range sc.Meshes {
		enc.off = layout.MeshOffset(index)
		enc.putVec4(m.Min)
		enc.putVec4(m.Max)
		enc.putInt32(int32(m.Count()))
		enc.putInt32(int32(m.OptimizationLevel))
		enc.putInt32(boolToInt32(m.UseEffects))
		enc.putInt32(m.ReflectionLevel)
		enc.putBox(&m.Collision)

		for ci := range m.Chunks {
			chunk := &m.Chunks[ci]
			enc.off = layout.ChunkOffset(index, ci)
			enc.putVec4(chunk.Min)
			enc.putVec4(chunk.Max)
			enc.putInt32(int32(chunk.Count()))
			enc.off += 3 * int32Size
			enc.putBox(&chunk.Collision)
			for _, triIndex := range chunk.Indices {
				enc.putInt32(triIndex)
			}
		}

		enc.off = layout.TriangleOffset(index, 0)
		for ti := range m.Triangles {
			enc.putTriangle(&m.Triangles[ti])
		}
	}

	logger.Infof(
		"packed %d meshes into %d bytes in %d ms",
		len(sc.Meshes), layout.TotalSize, time.Since(start).Nanoseconds()/1e6,
	)
	return enc.buf, nil
}

type encoder struct {
	buf []byte
	off int
}

func (e *encoder) putInt32(v int32) {
	binary.LittleEndian.PutUint32(e.buf[e.off:], uint32(v))
	e.off += int32Size
}

func (e *encoder) putFloat32(v float32) {
	binary.LittleEndian.PutUint32(e.buf[e.off:], math.Float32bits(v))
	e.off += 4
}

func (e *encoder) putVec4(v types.Vec4) {
	for i := 0; i < 4; i++ {
		e.putFloat32(v[i])
	}
}

func (e *encoder) putTriangle(tri *scene.Triangle) {
	for v := 0; v < 3; v++ {
		e.putVec4(tri.Pos[v])
	}
	for v := 0; v < 3; v++ {
		e.putVec4(tri.UV[v])
	}
	for v := 0; v < 3; v++ {
		e.putVec4(tri.Normal[v])
	}
	e.putVec4(tri.Color)
}

func (e *encoder) putBox(box *scene.Box) {
	for i := range box {
		e.putTriangle(&box[i])
	}
}

func boolToInt32(b bool) int32 {
	if b {
		return 1
	}
	return 0
}
