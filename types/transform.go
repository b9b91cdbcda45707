package types

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Transform describes a translate/rotate/scale operation that can be baked
// into mesh geometry. Rotation angles are specified in degrees and applied
// in X, Y, Z order.
type Transform struct {
	Translate Vec3
	Rotate    Vec3
	Scale     Vec3
}

// Return the identity transform.
func IdentTransform() Transform {
	return Transform{Scale: Vec3{1, 1, 1}}
}

// Returns true if applying this transform leaves geometry unchanged.
func (t Transform) IsIdentity() bool {
	return t == IdentTransform()
}

// Generate the matrix M = T * R * S for this transform.
func (t Transform) Mat4() mgl32.Mat4 {
	rot := mgl32.HomogRotate3DZ(mgl32.DegToRad(t.Rotate[2])).
		Mul4(mgl32.HomogRotate3DY(mgl32.DegToRad(t.Rotate[1]))).
		Mul4(mgl32.HomogRotate3DX(mgl32.DegToRad(t.Rotate[0])))

	return mgl32.Translate3D(t.Translate[0], t.Translate[1], t.Translate[2]).
		Mul4(rot).
		Mul4(mgl32.Scale3D(t.Scale[0], t.Scale[1], t.Scale[2]))
}

// A Transformer applies a precomputed transform to points and normals.
type Transformer struct {
	point  mgl32.Mat4
	normal mgl32.Mat3
}

// Create a transformer for t. Normals are transformed using the inverse
// transpose of the upper 3x3 matrix.
func NewTransformer(t Transform) *Transformer {
	m := t.Mat4()
	return &Transformer{
		point:  m,
		normal: m.Mat3().Inv().Transpose(),
	}
}

// Transform a point. The w component of the result is always 1.
func (tr *Transformer) Point(p Vec4) Vec4 {
	out := tr.point.Mul4x1(mgl32.Vec4{p[0], p[1], p[2], 1})
	return Vec4{out[0], out[1], out[2], 1}
}

// Transform and re-normalize a normal. The w component of the result is
// always 1.
func (tr *Transformer) Normal(n Vec4) Vec4 {
	out := tr.normal.Mul3x1(mgl32.Vec3{n[0], n[1], n[2]})
	return Vec3{out[0], out[1], out[2]}.Normalize().Vec4(1)
}
