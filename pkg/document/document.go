// Package document owns a loaded collection of IGES entities: an arena
// keyed by ObjectID, the DE-pointer map built during ingest, and the
// two-phase batch load protocol (construct everything, then resolve
// cross-references to fixpoint).
package document

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/chazu/goiges/pkg/entity"
)

// Record pairs the two raw records describing one entity in file order.
type Record struct {
	DE *entity.RawEntityDE
	PD *entity.RawEntityPD
}

// Document is the owning collection of entities from one IGES file.
//
// Loading must complete before geometry queries are issued: pointer
// containers mutate during resolution, and only a fully resolved
// document is safe for concurrent reads.
type Document struct {
	log        zerolog.Logger
	skipBroken bool

	entities map[entity.ObjectID]entity.Entity
	order    []entity.ObjectID
	de2id    entity.DEMap
}

// Option configures a Document.
type Option func(*Document)

// WithLogger installs a structured logger for load and resolution
// diagnostics. The default logger discards everything.
func WithLogger(log zerolog.Logger) Option {
	return func(d *Document) { d.log = log }
}

// SkipBrokenEntities makes Load log and skip entities whose
// construction fails instead of aborting the whole load.
func SkipBrokenEntities() Option {
	return func(d *Document) { d.skipBroken = true }
}

// New creates an empty document.
func New(opts ...Option) *Document {
	d := &Document{
		log:      zerolog.Nop(),
		entities: make(map[entity.ObjectID]entity.Entity),
		de2id:    make(entity.DEMap),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Load ingests raw record pairs in file order.
//
// Every DE pointer is registered in the DE map before any entity is
// constructed, so constructors can eagerly resolve both backward and
// forward pointers; a pointer absent from the map is then a hard
// inconsistency, not an ordering artifact. After construction the
// document resolves references to fixpoint.
func (d *Document) Load(records []Record) error {
	for _, r := range records {
		if r.DE == nil {
			return fmt.Errorf("%w: record without a directory entry", entity.ErrFormat)
		}
		if err := d.de2id.Assign(r.DE.SequenceNumber, entity.NewID()); err != nil {
			return err
		}
	}

	loaded := 0
	for _, r := range records {
		e, err := entity.New(r.DE, r.PD, d.de2id)
		if err != nil {
			if d.skipBroken {
				d.log.Warn().
					Int("de", r.DE.SequenceNumber).
					Stringer("type", r.DE.Type).
					Err(err).
					Msg("skipping broken entity")
				continue
			}
			return fmt.Errorf("DE %d (%s): %w", r.DE.SequenceNumber, r.DE.Type, err)
		}
		d.entities[e.ID()] = e
		d.order = append(d.order, e.ID())
		loaded++
	}

	resolved := d.Resolve()
	d.log.Info().
		Int("records", len(records)).
		Int("entities", loaded).
		Int("resolutions", resolved).
		Msg("document loaded")
	return nil
}

// Add inserts a programmatically constructed entity into the arena and
// registers its DE pointer, if it carries one.
func (d *Document) Add(e entity.Entity) error {
	if _, ok := d.entities[e.ID()]; ok {
		return fmt.Errorf("entity %d already present", e.ID())
	}
	if seq := e.DE().SequenceNumber; seq != 0 {
		if err := d.de2id.Assign(seq, e.ID()); err != nil {
			return err
		}
	}
	d.entities[e.ID()] = e
	d.order = append(d.order, e.ID())
	return nil
}

// Resolve offers every entity as a candidate to every entity holding
// unresolved references, repeating passes until a fixpoint is reached.
// It returns the number of resolutions performed. Containers still
// unresolved afterward are dangling and surface through Validate.
func (d *Document) Resolve() int {
	total := 0
	for pass := 1; ; pass++ {
		n := d.resolvePass()
		total += n
		d.log.Debug().Int("pass", pass).Int("resolved", n).Msg("resolution pass")
		if n == 0 {
			return total
		}
	}
}

func (d *Document) resolvePass() int {
	n := 0
	for _, id := range d.order {
		e := d.entities[id]
		for len(e.UnresolvedReferences()) > 0 {
			progressed := false
			for _, cid := range d.order {
				if cid == id {
					continue
				}
				// One candidate may satisfy several containers (an
				// entity referenced twice); each offer resolves at
				// most one, so keep offering while it sticks.
				for e.OfferResolution(d.entities[cid]) {
					n++
					progressed = true
				}
			}
			if !progressed {
				break
			}
		}
	}
	return n
}

// Validate runs entity validation across the document and aggregates
// every failure, including dangling references left after resolution.
func (d *Document) Validate() *entity.ValidationResult {
	res := &entity.ValidationResult{}
	for _, id := range d.order {
		res.Merge(d.entities[id].Validate())
	}
	return res
}

// Entity returns the entity with the given ID, or nil.
func (d *Document) Entity(id entity.ObjectID) entity.Entity {
	return d.entities[id]
}

// ByDEPointer returns the entity registered under a DE pointer, or nil.
func (d *Document) ByDEPointer(dePointer int) entity.Entity {
	id, ok := d.de2id[dePointer]
	if !ok {
		return nil
	}
	return d.entities[id]
}

// Entities returns all entities in ingest order.
func (d *Document) Entities() []entity.Entity {
	out := make([]entity.Entity, 0, len(d.order))
	for _, id := range d.order {
		out = append(out, d.entities[id])
	}
	return out
}

// ByType returns all entities of one type in ingest order.
func (d *Document) ByType(typ entity.EntityType) []entity.Entity {
	var out []entity.Entity
	for _, id := range d.order {
		if e := d.entities[id]; e.Type() == typ {
			out = append(out, e)
		}
	}
	return out
}

// DEMap exposes the DE-pointer translation map built during ingest.
func (d *Document) DEMap() entity.DEMap { return d.de2id }

// Len returns the number of entities in the document.
func (d *Document) Len() int { return len(d.order) }
