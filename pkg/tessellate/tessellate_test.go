package tessellate_test

import (
	"math"
	"testing"

	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/goiges/pkg/document"
	"github.com/chazu/goiges/pkg/entity"
	"github.com/chazu/goiges/pkg/tessellate"
)

func makeLine(t *testing.T, from, to v3.Vec) *entity.RationalBSplineCurve {
	t.Helper()
	c, err := entity.NewCurve(1, []float64{0, 0, 1, 1}, []float64{1, 1},
		[]v3.Vec{from, to}, [2]float64{0, 1})
	if err != nil {
		t.Fatalf("NewCurve: %v", err)
	}
	return c
}

func makePatch(t *testing.T) *entity.RationalBSplineSurface {
	t.Helper()
	s, err := entity.NewSurface(1, 1,
		[]float64{0, 0, 1, 1}, []float64{0, 0, 1, 1},
		[][]float64{{1, 1}, {1, 1}},
		[][]v3.Vec{
			{{X: 0, Y: 0, Z: 0}, {X: 0, Y: 1, Z: 0}},
			{{X: 1, Y: 0, Z: 0}, {X: 1, Y: 1, Z: 0}},
		},
		[4]float64{0, 1, 0, 1})
	if err != nil {
		t.Fatalf("NewSurface: %v", err)
	}
	return s
}

func TestTessellateCurve(t *testing.T) {
	doc := document.New()
	if err := doc.Add(makeLine(t, v3.Vec{}, v3.Vec{X: 4})); err != nil {
		t.Fatalf("Add: %v", err)
	}

	res, err := tessellate.Tessellate(doc, tessellate.Options{CurveSegments: 4, SurfaceSteps: 1})
	if err != nil {
		t.Fatalf("Tessellate: %v", err)
	}
	if len(res.Polylines) != 1 {
		t.Fatalf("polylines = %d, want 1", len(res.Polylines))
	}
	pts := res.Polylines[0].Points
	if len(pts) != 5 {
		t.Fatalf("points = %d, want segments+1", len(pts))
	}
	for i, p := range pts {
		want := float64(i)
		if math.Abs(p.X-want) > 1e-12 || p.Y != 0 {
			t.Errorf("point %d = %v, want (%g, 0, 0)", i, p, want)
		}
	}
}

func TestTessellateSurface(t *testing.T) {
	doc := document.New()
	if err := doc.Add(makePatch(t)); err != nil {
		t.Fatalf("Add: %v", err)
	}

	res, err := tessellate.Tessellate(doc, tessellate.Options{CurveSegments: 1, SurfaceSteps: 2})
	if err != nil {
		t.Fatalf("Tessellate: %v", err)
	}
	if len(res.Meshes) != 1 {
		t.Fatalf("meshes = %d, want 1", len(res.Meshes))
	}
	mesh := res.Meshes[0]
	if mesh.VertexCount() != 9 {
		t.Errorf("vertices = %d, want 3x3 grid", mesh.VertexCount())
	}
	if mesh.TriangleCount() != 8 {
		t.Errorf("triangles = %d, want 2 per cell", mesh.TriangleCount())
	}

	// A flat XY patch has constant +Z normals.
	for i := 0; i < mesh.VertexCount(); i++ {
		nz := mesh.Normals[3*i+2]
		if math.Abs(float64(nz)-1) > 1e-6 {
			t.Fatalf("vertex %d normal Z = %g, want 1", i, nz)
		}
	}

	// Indices address real vertices.
	for _, idx := range mesh.Indices {
		if int(idx) >= mesh.VertexCount() {
			t.Fatalf("index %d out of range", idx)
		}
	}
}

func TestTessellateAppliesTransform(t *testing.T) {
	matrix := entity.NewIdentityTransform()
	matrix.T = v3.Vec{Z: 5}

	line := makeLine(t, v3.Vec{}, v3.Vec{X: 1})
	line.SetTransform(matrix)

	doc := document.New()
	if err := doc.Add(matrix); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := doc.Add(line); err != nil {
		t.Fatalf("Add: %v", err)
	}

	res, err := tessellate.Tessellate(doc, tessellate.DefaultOptions())
	if err != nil {
		t.Fatalf("Tessellate: %v", err)
	}
	if len(res.Polylines) != 1 {
		t.Fatalf("polylines = %d, want 1 (the matrix itself emits nothing)", len(res.Polylines))
	}
	for i, p := range res.Polylines[0].Points {
		if p.Z != 5 {
			t.Fatalf("point %d = %v, transform not applied", i, p)
		}
	}
}

func TestTessellateRejectsBadDensity(t *testing.T) {
	if _, err := tessellate.Tessellate(document.New(), tessellate.Options{}); err == nil {
		t.Fatal("zero sampling density accepted")
	}
}
