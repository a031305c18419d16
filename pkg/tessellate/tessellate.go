// Package tessellate walks a loaded document and produces render-ready
// geometry: polylines for curve entities and triangle meshes for
// surface entities, sampled on uniform parameter grids. The tessellator
// is read-only and never mutates the document.
package tessellate

import (
	"fmt"

	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/goiges/pkg/document"
	"github.com/chazu/goiges/pkg/entity"
)

// Mesh is a triangle mesh suitable for rendering. All arrays are flat:
// vertices and normals hold 3 floats per vertex, indices 3 per triangle.
type Mesh struct {
	Vertices []float32 `json:"vertices"`
	Normals  []float32 `json:"normals"`
	Indices  []uint32  `json:"indices"`
	Label    string    `json:"label"` // DE label of the source entity
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int { return len(m.Vertices) / 3 }

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int { return len(m.Indices) / 3 }

// Polyline is a sampled space curve.
type Polyline struct {
	Points []v3.Vec
	Label  string
}

// Result collects the geometry tessellated from one document.
type Result struct {
	Polylines []Polyline
	Meshes    []*Mesh
}

// Options controls sampling density.
type Options struct {
	// CurveSegments is the number of segments per curve entity.
	CurveSegments int
	// SurfaceSteps is the number of grid cells per surface direction.
	SurfaceSteps int
}

// DefaultOptions returns a moderate sampling density.
func DefaultOptions() Options {
	return Options{CurveSegments: 32, SurfaceSteps: 16}
}

// Tessellate walks every entity of the document and samples the ones
// that evaluate as curves or surfaces. Entities carrying a DE-level
// transformation are sampled in model space: the matrix is applied to
// every emitted point.
func Tessellate(doc *document.Document, opts Options) (*Result, error) {
	if opts.CurveSegments < 1 || opts.SurfaceSteps < 1 {
		return nil, fmt.Errorf("tessellate: sampling density must be positive, got %d/%d",
			opts.CurveSegments, opts.SurfaceSteps)
	}

	res := &Result{}
	for _, e := range doc.Entities() {
		switch g := e.(type) {
		case *entity.RationalBSplineSurface:
			mesh, err := sampleSurface(g, opts.SurfaceSteps)
			if err != nil {
				return nil, err
			}
			res.Meshes = append(res.Meshes, mesh)

		case entity.CurveEvaluator:
			pl, err := sampleCurve(g, e, opts.CurveSegments)
			if err != nil {
				return nil, err
			}
			res.Polylines = append(res.Polylines, pl)
		}
	}
	return res, nil
}

// transformOf returns the model-space mapping for an entity: its
// resolved DE transformation, or the identity.
func transformOf(e entity.Entity) func(v3.Vec) v3.Vec {
	type transformed interface {
		Transform() (entity.TransformProvider, bool)
	}
	if te, ok := e.(transformed); ok {
		if tp, ok := te.Transform(); ok {
			return tp.Apply
		}
	}
	return func(p v3.Vec) v3.Vec { return p }
}

func sampleCurve(c entity.CurveEvaluator, e entity.Entity, segments int) (Polyline, error) {
	rng := c.ParameterRange()
	apply := transformOf(e)

	pts := make([]v3.Vec, 0, segments+1)
	for i := 0; i <= segments; i++ {
		t := rng[0] + (rng[1]-rng[0])*float64(i)/float64(segments)
		d, ok := c.Derivatives(t, 0)
		if !ok {
			return Polyline{}, fmt.Errorf("tessellate: curve %d failed to evaluate at t=%g", e.ID(), t)
		}
		pts = append(pts, apply(d[0]))
	}
	return Polyline{Points: pts, Label: e.DE().Label}, nil
}

// sampleSurface evaluates an (steps+1)x(steps+1) grid of points and
// first partials, emitting two triangles per grid cell. Vertex normals
// come from the cross product of the partial derivatives; a degenerate
// corner keeps a zero normal rather than failing the whole mesh.
func sampleSurface(s *entity.RationalBSplineSurface, steps int) (*Mesh, error) {
	rng := s.ParameterRange()
	apply := transformOf(s)
	n := steps + 1

	mesh := &Mesh{
		Vertices: make([]float32, 0, 3*n*n),
		Normals:  make([]float32, 0, 3*n*n),
		Indices:  make([]uint32, 0, 6*steps*steps),
		Label:    s.DE().Label,
	}

	for i := 0; i < n; i++ {
		u := rng[0] + (rng[1]-rng[0])*float64(i)/float64(steps)
		for j := 0; j < n; j++ {
			v := rng[2] + (rng[3]-rng[2])*float64(j)/float64(steps)
			d, ok := s.Derivatives(u, v, 1)
			if !ok {
				return nil, fmt.Errorf("tessellate: surface %d failed to evaluate at (%g, %g)", s.ID(), u, v)
			}
			p := apply(d.Point())
			mesh.Vertices = append(mesh.Vertices, float32(p.X), float32(p.Y), float32(p.Z))

			nrm := d.At(1, 0).Cross(d.At(0, 1))
			if l := nrm.Length(); l > 0 {
				nrm = nrm.DivScalar(l)
			}
			mesh.Normals = append(mesh.Normals, float32(nrm.X), float32(nrm.Y), float32(nrm.Z))
		}
	}

	for i := 0; i < steps; i++ {
		for j := 0; j < steps; j++ {
			a := uint32(i*n + j)
			b := uint32((i+1)*n + j)
			c := uint32((i+1)*n + j + 1)
			d := uint32(i*n + j + 1)
			mesh.Indices = append(mesh.Indices, a, b, c, a, c, d)
		}
	}
	return mesh, nil
}
