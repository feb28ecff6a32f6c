package holo

import (
	"github.com/go-gl/mathgl/mgl64"
)

// Matrix is a column-major 4x4 transform.
type Matrix mgl64.Mat4

func Identity() Matrix {
	return Matrix(mgl64.Ident4())
}

func Translate(v Vector) Matrix {
	return Matrix(mgl64.Translate3D(v.X, v.Y, v.Z))
}

func Scale(v Vector) Matrix {
	return Matrix(mgl64.Scale3D(v.X, v.Y, v.Z))
}

// RotateEuler builds an XYZ-ordered rotation from angles in radians.
func RotateEuler(v Vector) Matrix {
	x := mgl64.HomogRotate3DX(v.X)
	y := mgl64.HomogRotate3DY(v.Y)
	z := mgl64.HomogRotate3DZ(v.Z)
	return Matrix(x.Mul4(y).Mul4(z))
}

// TRS composes translation, rotation and scale the way scene nodes do.
func TRS(position, rotation, scale Vector) Matrix {
	return Translate(position).Mul(RotateEuler(rotation)).Mul(Scale(scale))
}

func LookAt(eye, center, up Vector) Matrix {
	return Matrix(mgl64.LookAtV(eye.Vec3(), center.Vec3(), up.Vec3()))
}

// Perspective returns a projection for a vertical field of view in degrees.
func Perspective(fovy, aspect, near, far float64) Matrix {
	return Matrix(mgl64.Perspective(mgl64.DegToRad(fovy), aspect, near, far))
}

// Screen maps normalized device coordinates to pixel coordinates with the
// origin at the top left and depth in [0, 1].
func Screen(w, h int) Matrix {
	w2 := float64(w) / 2
	h2 := float64(h) / 2
	return Translate(Vector{w2, h2, 0.5}).Mul(Scale(Vector{w2, -h2, 0.5}))
}

func (a Matrix) Mat4() mgl64.Mat4 {
	return mgl64.Mat4(a)
}

func (a Matrix) Mul(b Matrix) Matrix {
	return Matrix(a.Mat4().Mul4(b.Mat4()))
}

func (a Matrix) MulPosition(b Vector) Vector {
	v := a.Mat4().Mul4x1(mgl64.Vec4{b.X, b.Y, b.Z, 1})
	return Vector{v[0], v[1], v[2]}
}

func (a Matrix) MulPositionW(b Vector) VectorW {
	v := a.Mat4().Mul4x1(mgl64.Vec4{b.X, b.Y, b.Z, 1})
	return VectorW{v[0], v[1], v[2], v[3]}
}

func (a Matrix) MulDirection(b Vector) Vector {
	v := a.Mat4().Mul4x1(mgl64.Vec4{b.X, b.Y, b.Z, 0})
	return Vector{v[0], v[1], v[2]}.Normalize()
}

func (a Matrix) Transpose() Matrix {
	return Matrix(a.Mat4().Transpose())
}

func (a Matrix) Inverse() Matrix {
	return Matrix(a.Mat4().Inv())
}

// NormalMatrix is the inverse transpose used to carry normals through a.
func (a Matrix) NormalMatrix() Matrix {
	return a.Inverse().Transpose()
}
