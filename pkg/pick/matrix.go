package pick

import (
	"math"

	"github.com/philipparndt/gopick/pkg/geometry"
	"gonum.org/v1/gonum/mat"
)

// Matrix4 is a 4x4 matrix in column-major order (OpenGL compatible).
// Layout: [m0 m4 m8  m12]
//
//	[m1 m5 m9  m13]
//	[m2 m6 m10 m14]
//	[m3 m7 m11 m15]
type Matrix4 [16]float64

// Identity returns an identity matrix
func Identity() Matrix4 {
	return Matrix4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Perspective returns a perspective projection matrix.
// fovY is in radians, aspect is width/height.
func Perspective(fovY, aspect, near, far float64) Matrix4 {
	f := 1.0 / math.Tan(fovY/2.0)
	nf := 1.0 / (near - far)

	return Matrix4{
		f / aspect, 0, 0, 0,
		0, f, 0, 0,
		0, 0, (far + near) * nf, -1,
		0, 0, 2 * far * near * nf, 0,
	}
}

// LookAt returns a view matrix looking from eye to center with the given up direction
func LookAt(eye, center, up geometry.Vector3) Matrix4 {
	f := center.Sub(eye).Normalize()
	s := f.Cross(up).Normalize()
	u := s.Cross(f)

	return Matrix4{
		s.X, u.X, -f.X, 0,
		s.Y, u.Y, -f.Y, 0,
		s.Z, u.Z, -f.Z, 0,
		-s.Dot(eye), -u.Dot(eye), f.Dot(eye), 1,
	}
}

// Mul returns m * other
func (m Matrix4) Mul(other Matrix4) Matrix4 {
	var out Matrix4
	for col := 0; col < 4; col++ {
		for row := 0; row < 4; row++ {
			var sum float64
			for k := 0; k < 4; k++ {
				sum += m[k*4+row] * other[col*4+k]
			}
			out[col*4+row] = sum
		}
	}
	return out
}

// dense converts the column-major matrix into a row-major gonum matrix
func (m Matrix4) dense() *mat.Dense {
	data := make([]float64, 16)
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			data[row*4+col] = m[col*4+row]
		}
	}
	return mat.NewDense(4, 4, data)
}
