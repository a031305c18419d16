package document

import (
	"errors"
	"testing"

	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/goiges/pkg/entity"
	"github.com/chazu/goiges/pkg/param"
)

// lineCurveData builds the PD parameter vector of a degree-1 curve from
// (x,0,0) to (x+1,0,0) over [0,1].
func lineCurveData(x float64) param.Vector {
	return param.Vector{
		param.Integer(1), param.Integer(1),
		param.Integer(0), param.Integer(0), param.Integer(0), param.Integer(0),
		param.Real(0), param.Real(0), param.Real(1), param.Real(1),
		param.Real(1), param.Real(1),
		param.Real(x), param.Real(0), param.Real(0),
		param.Real(x + 1), param.Real(0), param.Real(0),
		param.Real(0), param.Real(1),
		param.Real(0), param.Real(0), param.Real(0),
	}
}

func record(seq int, typ entity.EntityType, data param.Vector) Record {
	return Record{
		DE: &entity.RawEntityDE{SequenceNumber: seq, Type: typ},
		PD: &entity.RawEntityPD{Type: typ, DEPointer: seq, Data: data},
	}
}

func compositeData(ptrs ...int) param.Vector {
	out := param.Vector{param.Integer(int64(len(ptrs)))}
	for _, p := range ptrs {
		out = append(out, param.Pointer(int64(p)))
	}
	return out
}

func TestLoadResolvesForwardReferences(t *testing.T) {
	// The composite comes first in the file and points forward at
	// curves defined on later DE lines.
	d := New()
	err := d.Load([]Record{
		record(1, entity.TypeCompositeCurve, compositeData(3, 5)),
		record(3, entity.TypeRationalBSplineCurve, lineCurveData(0)),
		record(5, entity.TypeRationalBSplineCurve, lineCurveData(1)),
	})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if d.Len() != 3 {
		t.Fatalf("Len = %d, want 3", d.Len())
	}

	comp, ok := d.ByDEPointer(1).(*entity.CompositeCurve)
	if !ok {
		t.Fatalf("DE 1 is %T, want composite curve", d.ByDEPointer(1))
	}
	if got := comp.UnresolvedReferences(); len(got) != 0 {
		t.Fatalf("unresolved after load: %v", got)
	}
	cs := comp.Constituents()
	if len(cs) != 2 {
		t.Fatalf("constituents = %d, want 2", len(cs))
	}
	if cs[0].ID() != d.ByDEPointer(3).ID() || cs[1].ID() != d.ByDEPointer(5).ID() {
		t.Error("constituents resolved out of order")
	}

	if res := d.Validate(); !res.OK() {
		t.Errorf("validation: %s", res.Report())
	}
}

func TestLoadLinksTransform(t *testing.T) {
	matrixData := param.Vector{
		param.Real(1), param.Real(0), param.Real(0), param.Real(3),
		param.Real(0), param.Real(1), param.Real(0), param.Real(0),
		param.Real(0), param.Real(0), param.Real(1), param.Real(0),
	}
	curveRec := record(3, entity.TypeRationalBSplineCurve, lineCurveData(0))
	curveRec.DE.Transform = 1

	d := New()
	if err := d.Load([]Record{
		record(1, entity.TypeTransformationMatrix, matrixData),
		curveRec,
	}); err != nil {
		t.Fatalf("Load: %v", err)
	}

	curve := d.ByDEPointer(3).(*entity.RationalBSplineCurve)
	tp, ok := curve.Transform()
	if !ok {
		t.Fatal("transform not linked after load")
	}
	got := tp.Apply(v3.Vec{X: 1, Y: 1, Z: 1})
	if (got != v3.Vec{X: 4, Y: 1, Z: 1}) {
		t.Errorf("Apply through linked transform = %v", got)
	}
}

func TestLoadMissingPointerFails(t *testing.T) {
	d := New()
	err := d.Load([]Record{
		record(1, entity.TypeCompositeCurve, compositeData(9)),
		record(3, entity.TypeRationalBSplineCurve, lineCurveData(0)),
	})
	if !errors.Is(err, entity.ErrReference) {
		t.Fatalf("Load error %v, want ErrReference", err)
	}
}

func TestLoadDuplicateDEPointerFails(t *testing.T) {
	d := New()
	err := d.Load([]Record{
		record(1, entity.TypeNull, nil),
		record(1, entity.TypeNull, nil),
	})
	if !errors.Is(err, entity.ErrReference) {
		t.Fatalf("Load error %v, want ErrReference", err)
	}
}

func TestSkipBrokenEntities(t *testing.T) {
	records := []Record{
		record(1, entity.TypeCompositeCurve, compositeData(3, 5)),
		record(3, entity.TypeRationalBSplineCurve, lineCurveData(0)),
		// Truncated curve record: construction fails.
		record(5, entity.TypeRationalBSplineCurve, lineCurveData(1)[:4]),
	}

	// Default: the broken record aborts the load.
	if err := New().Load(records); err == nil {
		t.Fatal("Load succeeded despite a broken record")
	}

	d := New(SkipBrokenEntities())
	if err := d.Load(records); err != nil {
		t.Fatalf("Load with SkipBrokenEntities: %v", err)
	}
	if d.Len() != 2 {
		t.Fatalf("Len = %d, want 2 surviving entities", d.Len())
	}
	if d.ByDEPointer(5) != nil {
		t.Error("skipped entity is still reachable")
	}

	// The composite's pointer at the skipped DE stays dangling and
	// surfaces through validation.
	res := d.Validate()
	if res.OK() {
		t.Fatal("validation passed with a dangling reference")
	}
	found := false
	for _, e := range res.Errors {
		if e.Code == "UNRESOLVED_REFERENCE" {
			found = true
		}
	}
	if !found {
		t.Errorf("no UNRESOLVED_REFERENCE in %s", res.Report())
	}
}

func TestAddAndResolveProgrammatic(t *testing.T) {
	curve, err := entity.NewCurve(1, []float64{0, 0, 1, 1}, []float64{1, 1},
		[]v3.Vec{{}, {X: 1}}, [2]float64{0, 1})
	if err != nil {
		t.Fatalf("NewCurve: %v", err)
	}
	comp := entity.NewCompositeCurveOf(curve)

	d := New()
	if err := d.Add(curve); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := d.Add(comp); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := d.Add(curve); err == nil {
		t.Error("Add accepted a duplicate entity")
	}

	if d.Entity(curve.ID()) == nil {
		t.Error("Entity lookup failed")
	}
	if got := d.ByType(entity.TypeRationalBSplineCurve); len(got) != 1 {
		t.Errorf("ByType = %d entities, want 1", len(got))
	}
	if res := d.Validate(); !res.OK() {
		t.Errorf("validation: %s", res.Report())
	}
}

func TestEntitiesPreservesIngestOrder(t *testing.T) {
	d := New()
	if err := d.Load([]Record{
		record(1, entity.TypeNull, nil),
		record(3, entity.TypeRationalBSplineCurve, lineCurveData(0)),
		record(5, entity.TypeNull, nil),
	}); err != nil {
		t.Fatalf("Load: %v", err)
	}
	got := d.Entities()
	want := []entity.EntityType{entity.TypeNull, entity.TypeRationalBSplineCurve, entity.TypeNull}
	for i, e := range got {
		if e.Type() != want[i] {
			t.Errorf("entity %d is %s, want %s", i, e.Type(), want[i])
		}
	}
}
