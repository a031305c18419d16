package entity

import (
	"errors"
	"testing"

	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/goiges/pkg/param"
)

func testCurve(t *testing.T, x float64) *RationalBSplineCurve {
	t.Helper()
	c, err := NewCurve(1, []float64{0, 0, 1, 1}, []float64{1, 1},
		[]v3.Vec{{X: x, Y: 0, Z: 0}, {X: x + 1, Y: 0, Z: 0}}, [2]float64{0, 1})
	if err != nil {
		t.Fatalf("NewCurve: %v", err)
	}
	return c
}

func TestCompositeCurveResolution(t *testing.T) {
	a := testCurve(t, 0)
	b := testCurve(t, 1)
	de2id := DEMap{3: a.ID(), 5: b.ID()}

	pd := &RawEntityPD{
		Type: TypeCompositeCurve,
		Data: param.Vector{param.Integer(2), param.Pointer(3), param.Pointer(5)},
	}
	comp, err := NewCompositeCurve(&RawEntityDE{Type: TypeCompositeCurve, SequenceNumber: 1}, pd, de2id)
	if err != nil {
		t.Fatalf("NewCompositeCurve: %v", err)
	}

	if got := comp.UnresolvedReferences(); len(got) != 2 {
		t.Fatalf("unresolved = %v, want both constituents", got)
	}

	// Each offer resolves at most one container.
	if !comp.OfferResolution(a) {
		t.Fatal("offer of first constituent rejected")
	}
	if comp.OfferResolution(a) {
		t.Error("same candidate resolved a second container it does not target")
	}
	if !comp.OfferResolution(b) {
		t.Fatal("offer of second constituent rejected")
	}
	if len(comp.UnresolvedReferences()) != 0 {
		t.Fatalf("unresolved after full resolution: %v", comp.UnresolvedReferences())
	}

	got := comp.Constituents()
	if len(got) != 2 || got[0].ID() != a.ID() || got[1].ID() != b.ID() {
		t.Fatalf("constituents out of order: %v", got)
	}

	if res := comp.Validate(); !res.OK() {
		t.Errorf("resolved composite failed validation: %s", res.Report())
	}
}

func TestCompositeCurveDuplicateTargets(t *testing.T) {
	a := testCurve(t, 0)
	de2id := DEMap{3: a.ID()}

	pd := &RawEntityPD{
		Type: TypeCompositeCurve,
		Data: param.Vector{param.Integer(2), param.Pointer(3), param.Pointer(3)},
	}
	comp, err := NewCompositeCurve(&RawEntityDE{Type: TypeCompositeCurve, SequenceNumber: 1}, pd, de2id)
	if err != nil {
		t.Fatalf("NewCompositeCurve: %v", err)
	}

	// One candidate referenced twice needs two offers, one per slot.
	if !comp.OfferResolution(a) {
		t.Fatal("first offer rejected")
	}
	if !comp.OfferResolution(a) {
		t.Fatal("second slot targeting the same entity did not resolve")
	}
	if comp.OfferResolution(a) {
		t.Error("third offer resolved a nonexistent slot")
	}
}

func TestCompositeCurveMissingPointer(t *testing.T) {
	a := testCurve(t, 0)
	de2id := DEMap{3: a.ID()}

	pd := &RawEntityPD{
		Type: TypeCompositeCurve,
		Data: param.Vector{param.Integer(2), param.Pointer(3), param.Pointer(9)},
	}
	// DE pointer 9 is absent from a populated directory: construction
	// fails outright instead of leaving a silent dangling slot.
	if _, err := NewCompositeCurve(&RawEntityDE{Type: TypeCompositeCurve, SequenceNumber: 1}, pd, de2id); !errors.Is(err, ErrReference) {
		t.Fatalf("error %v, want ErrReference", err)
	}
}

func TestCompositeCurveValidateUnresolved(t *testing.T) {
	a := testCurve(t, 0)
	de2id := DEMap{3: a.ID(), 5: NewID()}

	pd := &RawEntityPD{
		Type: TypeCompositeCurve,
		Data: param.Vector{param.Integer(2), param.Pointer(3), param.Pointer(5)},
	}
	comp, err := NewCompositeCurve(&RawEntityDE{Type: TypeCompositeCurve, SequenceNumber: 1}, pd, de2id)
	if err != nil {
		t.Fatalf("NewCompositeCurve: %v", err)
	}
	comp.OfferResolution(a)

	res := comp.Validate()
	if res.OK() {
		t.Fatal("composite with a dangling constituent validated")
	}
	if res.Errors[0].Code != "UNRESOLVED_REFERENCE" {
		t.Errorf("code = %s, want UNRESOLVED_REFERENCE", res.Errors[0].Code)
	}
}

func TestCompositeCurveProgrammatic(t *testing.T) {
	a := testCurve(t, 0)
	b := testCurve(t, 1)
	comp := NewCompositeCurveOf(a, b)

	if len(comp.UnresolvedReferences()) != 0 {
		t.Error("programmatic composite should be born resolved")
	}
	if res := comp.Validate(); !res.OK() {
		t.Errorf("validation: %s", res.Report())
	}

	params := comp.MainParameters()
	if n, _ := params.Int(0); n != 2 {
		t.Errorf("emitted count = %d, want 2", n)
	}
	if p, _ := params.PointerAt(1); ObjectID(p) != a.ID() {
		t.Errorf("emitted pointer slot holds %d, want %d", p, a.ID())
	}

	if comp.Child(b.ID()) == nil {
		t.Error("Child did not return a resolved constituent")
	}
	if ids := comp.ChildIDs(); len(ids) != 2 {
		t.Errorf("ChildIDs = %v", ids)
	}
}

func TestCompositeCurveEmptyValidation(t *testing.T) {
	comp := NewCompositeCurveOf()
	res := comp.Validate()
	if res.OK() || res.Errors[0].Code != "EMPTY_COMPOSITE" {
		t.Fatalf("empty composite validation = %s", res.Report())
	}
}
