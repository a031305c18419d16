package entity

import (
	"testing"

	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/goiges/pkg/param"
)

// rotZ90 is a 90 degree rotation about Z with a translation, as the 12
// PD parameters in row order.
var rotZ90 = param.Vector{
	param.Real(0), param.Real(-1), param.Real(0), param.Real(10),
	param.Real(1), param.Real(0), param.Real(0), param.Real(0),
	param.Real(0), param.Real(0), param.Real(1), param.Real(-2),
}

func TestTransformationMatrixParse(t *testing.T) {
	m, err := NewTransformationMatrix(nil, &RawEntityPD{Type: TypeTransformationMatrix, Data: rotZ90}, nil)
	if err != nil {
		t.Fatalf("NewTransformationMatrix: %v", err)
	}
	if m.R[0][1] != -1 || m.R[1][0] != 1 || m.R[2][2] != 1 {
		t.Errorf("rotation part misparsed: %v", m.R)
	}
	if (m.T != v3.Vec{X: 10, Y: 0, Z: -2}) {
		t.Errorf("translation part = %v", m.T)
	}

	got := m.MainParameters()
	if len(got) != 12 {
		t.Fatalf("MainParameters emitted %d slots, want 12", len(got))
	}
	for i := range rotZ90 {
		if got[i].Real != rotZ90[i].Real {
			t.Errorf("slot %d = %g, want %g", i, got[i].Real, rotZ90[i].Real)
		}
	}
}

func TestTransformationMatrixApply(t *testing.T) {
	m, err := NewTransformationMatrix(nil, &RawEntityPD{Type: TypeTransformationMatrix, Data: rotZ90}, nil)
	if err != nil {
		t.Fatalf("NewTransformationMatrix: %v", err)
	}
	got := m.Apply(v3.Vec{X: 1, Y: 2, Z: 3})
	want := v3.Vec{X: 8, Y: 1, Z: 1} // (1,2,3) rotated to (-2,1,3), then translated
	if got != want {
		t.Errorf("Apply = %v, want %v", got, want)
	}

	ident := NewIdentityTransform()
	p := v3.Vec{X: -4, Y: 5, Z: 0.5}
	if ident.Apply(p) != p {
		t.Error("identity transform moved a point")
	}
}

func TestTransformationMatrixArity(t *testing.T) {
	short := param.Vector{param.Real(1), param.Real(0)}
	if _, err := NewTransformationMatrix(nil, &RawEntityPD{Type: TypeTransformationMatrix, Data: short}, nil); err == nil {
		t.Fatal("expected arity error for a 2-token matrix record")
	}
}

func TestTransformationMatrixValidateDeterminant(t *testing.T) {
	ok, err := NewTransformationMatrix(nil, &RawEntityPD{Type: TypeTransformationMatrix, Data: rotZ90}, nil)
	if err != nil {
		t.Fatalf("NewTransformationMatrix: %v", err)
	}
	if res := ok.Validate(); !res.OK() {
		t.Errorf("proper rotation failed validation: %s", res.Report())
	}

	// A mirror matrix has determinant -1: invalid as form 0, valid as
	// form 1.
	mirror := NewIdentityTransform()
	mirror.R[2][2] = -1
	res := mirror.Validate()
	if res.OK() {
		t.Fatal("form 0 accepted a determinant of -1")
	}
	if res.Errors[0].Code != "MATRIX_DETERMINANT" {
		t.Errorf("code = %s, want MATRIX_DETERMINANT", res.Errors[0].Code)
	}

	mirror.DE().FormNumber = 1
	if res := mirror.Validate(); !res.OK() {
		t.Errorf("form 1 rejected a determinant of -1: %s", res.Report())
	}
}
