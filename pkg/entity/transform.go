package entity

import (
	"fmt"
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/goiges/pkg/param"
)

// TransformationMatrix is the type 124 entity: a 3x3 rotation matrix R
// and a translation vector T mapping input coordinates X to R*X + T.
// It is the canonical shared child: several curves and surfaces may
// point at one matrix through their DE transformation field.
type TransformationMatrix struct {
	Core

	R [3][3]float64
	T v3.Vec
}

var _ TransformProvider = (*TransformationMatrix)(nil)

func init() {
	Register(TypeTransformationMatrix, func(de *RawEntityDE, pd *RawEntityPD, de2id DEMap) (Entity, error) {
		return NewTransformationMatrix(de, pd, de2id)
	})
}

// NewTransformationMatrix constructs a type 124 entity from its raw
// record pair.
func NewTransformationMatrix(de *RawEntityDE, pd *RawEntityPD, de2id DEMap) (*TransformationMatrix, error) {
	t := &TransformationMatrix{}
	if err := t.init(TypeTransformationMatrix, de, de2id); err != nil {
		return nil, err
	}
	if pd != nil {
		consumed, err := t.SetMainParameters(pd.Data, de2id)
		if err != nil {
			return nil, err
		}
		if err := t.parseTail(pd.Data[consumed:], de2id); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// NewIdentityTransform programmatically constructs an identity matrix.
func NewIdentityTransform() *TransformationMatrix {
	t := &TransformationMatrix{}
	_ = t.init(TypeTransformationMatrix, nil, nil)
	t.R = [3][3]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
	return t
}

// SetMainParameters reads the 12 matrix coefficients in row order:
// R11 R12 R13 T1 R21 R22 R23 T2 R31 R32 R33 T3.
func (t *TransformationMatrix) SetMainParameters(params param.Vector, de2id DEMap) (int, error) {
	if len(params) < 12 {
		return 0, fmt.Errorf("%w: transformation matrix expects 12 parameters, record has %d",
			ErrFormat, len(params))
	}
	vals, err := params.Reals(0, 12)
	if err != nil {
		return 0, err
	}
	for row := 0; row < 3; row++ {
		copy(t.R[row][:], vals[row*4:row*4+3])
	}
	t.T = v3.Vec{X: vals[3], Y: vals[7], Z: vals[11]}
	t.rememberOriginal(params[:12])
	return 12, nil
}

// MainParameters emits the 12 coefficients in parse order.
func (t *TransformationMatrix) MainParameters() param.Vector {
	out := make(param.Vector, 0, 12)
	trans := [3]float64{t.T.X, t.T.Y, t.T.Z}
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			out = append(out, param.Real(t.R[row][col]))
		}
		out = append(out, param.Real(trans[row]))
	}
	return t.applyOriginalFormats(out)
}

// Apply maps a point through the matrix: R*p + T.
func (t *TransformationMatrix) Apply(p v3.Vec) v3.Vec {
	return v3.Vec{
		X: t.R[0][0]*p.X + t.R[0][1]*p.Y + t.R[0][2]*p.Z + t.T.X,
		Y: t.R[1][0]*p.X + t.R[1][1]*p.Y + t.R[1][2]*p.Z + t.T.Y,
		Z: t.R[2][0]*p.X + t.R[2][1]*p.Y + t.R[2][2]*p.Z + t.T.Z,
	}
}

// UnresolvedReferences lists outstanding shared references.
func (t *TransformationMatrix) UnresolvedReferences() []ObjectID { return t.coreUnresolved() }

// OfferResolution resolves shared references only.
func (t *TransformationMatrix) OfferResolution(candidate Entity) bool {
	return t.offerCore(candidate)
}

// ChildIDs lists shared reference targets.
func (t *TransformationMatrix) ChildIDs() []ObjectID { return t.coreChildIDs() }

// Child returns a resolved shared reference by ID.
func (t *TransformationMatrix) Child(id ObjectID) Entity { return t.coreChild(id) }

// Validate checks the rotation part. Form 0 requires an orthonormal
// matrix with determinant +1; form 1 permits determinant -1.
func (t *TransformationMatrix) Validate() *ValidationResult {
	res := &ValidationResult{}

	det := t.R[0][0]*(t.R[1][1]*t.R[2][2]-t.R[1][2]*t.R[2][1]) -
		t.R[0][1]*(t.R[1][0]*t.R[2][2]-t.R[1][2]*t.R[2][0]) +
		t.R[0][2]*(t.R[1][0]*t.R[2][1]-t.R[1][1]*t.R[2][0])
	const tol = 1e-6
	switch t.FormNumber() {
	case 0:
		if math.Abs(det-1) > tol {
			res.Addf("MATRIX_DETERMINANT", t.id, t.typ,
				"form 0 rotation matrix has determinant %g, want +1", det)
		}
	case 1:
		if math.Abs(det+1) > tol {
			res.Addf("MATRIX_DETERMINANT", t.id, t.typ,
				"form 1 rotation matrix has determinant %g, want -1", det)
		}
	}

	t.validateCore(res)
	return res
}
