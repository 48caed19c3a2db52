package vkengine

import "github.com/go-gl/mathgl/mgl64"

// Transform is an entity's local transform: translation and rotation relative
// to its parent (or to world space for a root), plus a nonuniform scale.
// Rotation is kept a unit quaternion; the mutation helpers renormalize after
// composing.
type Transform struct {
	Position mgl64.Vec3
	Rotation mgl64.Quat
	Scale    mgl64.Vec3
}

// NewTransform creates an identity transform
func NewTransform() Transform {
	return Transform{
		Rotation: mgl64.QuatIdent(),
		Scale:    mgl64.Vec3{1, 1, 1},
	}
}

// TransformAt creates an identity transform translated to the given position
func TransformAt(position mgl64.Vec3) Transform {
	t := NewTransform()
	t.Position = position
	return t
}

// Mat4 composes the transform into a single matrix, scale first, then
// rotation, then translation (T·R·S).
func (t Transform) Mat4() mgl64.Mat4 {
	return mgl64.Translate3D(t.Position.X(), t.Position.Y(), t.Position.Z()).
		Mul4(t.Rotation.Mat4()).
		Mul4(mgl64.Scale3D(t.Scale.X(), t.Scale.Y(), t.Scale.Z()))
}

// ViewMat4 returns the inverse of Mat4, suitable as a view matrix when the
// transform places a camera.
func (t Transform) ViewMat4() mgl64.Mat4 {
	return mgl64.Scale3D(1/t.Scale.X(), 1/t.Scale.Y(), 1/t.Scale.Z()).
		Mul4(t.Rotation.Inverse().Mat4()).
		Mul4(mgl64.Translate3D(-t.Position.X(), -t.Position.Y(), -t.Position.Z()))
}

// Translate moves the transform by v expressed in its own rotated frame.
func (t *Transform) Translate(v mgl64.Vec3) {
	if v != (mgl64.Vec3{}) {
		t.Position = t.Position.Add(t.Rotation.Rotate(v))
	}
}

// TranslateAlong moves the transform by scaler units along dir, in its own
// rotated frame.
func (t *Transform) TranslateAlong(dir mgl64.Vec3, scaler float64) {
	if dir != (mgl64.Vec3{}) {
		t.Position = t.Position.Add(t.Rotation.Rotate(dir.Normalize().Mul(scaler)))
	}
}

// TranslateForward moves the transform along its local -Z axis.
func (t *Transform) TranslateForward(scaler float64) {
	t.Translate(mgl64.Vec3{0, 0, -scaler})
}

// TranslateRight moves the transform along its local +X axis.
func (t *Transform) TranslateRight(scaler float64) {
	t.Translate(mgl64.Vec3{scaler, 0, 0})
}

// RotateGlobal applies r in world space.
func (t *Transform) RotateGlobal(r mgl64.Quat) {
	t.Rotation = r.Mul(t.Rotation).Normalize()
}

// RotateLocal applies r in the transform's own frame.
func (t *Transform) RotateLocal(r mgl64.Quat) {
	t.Rotation = t.Rotation.Mul(r).Normalize()
}

// TransformMatrix is the composed world-space transform of an entity,
// accounting for every ancestor in the scene forest. It is written only by
// the TransformSystem and read-only to everything else.
type TransformMatrix struct {
	Mat mgl64.Mat4
}

// NewTransformMatrix creates an identity matrix component
func NewTransformMatrix() TransformMatrix {
	return TransformMatrix{Mat: mgl64.Ident4()}
}
