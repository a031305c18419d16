package igesio

import (
	"fmt"
	"io"
	"strings"

	"github.com/chazu/goiges/pkg/document"
	"github.com/chazu/goiges/pkg/entity"
	"github.com/chazu/goiges/pkg/param"
)

// Write re-emits a document as an IGES file. DE and PD sections are
// renumbered from scratch; pointer-kind parameter slots, which carry
// ObjectIDs in memory, are rewritten to the new DE pointers. A nil
// global falls back to standard delimiters.
func Write(w io.Writer, doc *document.Document, g *Global) error {
	if g == nil {
		g = DefaultGlobal()
	}

	entities := doc.Entities()

	// First pass: assign DE sequence numbers (two lines per entity).
	id2de := make(map[entity.ObjectID]int, len(entities))
	for i, e := range entities {
		id2de[e.ID()] = 1 + 2*i
	}

	// Second pass: render every PD record to know its line count.
	pdBlocks := make([][]string, len(entities))
	pdStart := make([]int, len(entities))
	pdSeq := 1
	for i, e := range entities {
		text := renderParameters(e, id2de, g)
		pdStart[i] = pdSeq
		pdBlocks[i] = wrapPD(text, g.ParamDelim, id2de[e.ID()], &pdSeq)
	}

	var out strings.Builder

	startLine := "goiges IGES writer"
	out.WriteString(fmt.Sprintf("%-72sS%7d\n", startLine, 1))

	globalLines := wrapSection(renderGlobal(g), 'G')
	out.WriteString(globalLines)

	for i, e := range entities {
		de := e.DE()
		transform := 0
		if t, ok := transformTarget(e); ok {
			transform = id2de[t]
		}
		status := fmt.Sprintf("%02d%02d%02d%02d",
			de.Status.Blank, int(de.Status.Subordination), de.Status.EntityUse, de.Status.Hierarchy)
		seq := 1 + 2*i
		out.WriteString(fmt.Sprintf("%8d%8d%8d%8d%8d%8d%8d%8d%sD%7d\n",
			int(e.Type()), pdStart[i], de.Structure, de.LineFont, de.Level,
			de.View, transform, de.LabelDisplay, status, seq))
		out.WriteString(fmt.Sprintf("%8d%8d%8d%8d%8d%8s%8s%8s%8dD%7d\n",
			int(e.Type()), de.LineWeight, de.Color, len(pdBlocks[i]), de.FormNumber,
			"", "", de.Label, de.Subscript, seq+1))
	}

	for _, block := range pdBlocks {
		for _, line := range block {
			out.WriteString(line)
			out.WriteByte('\n')
		}
	}

	nGlobal := strings.Count(globalLines, "\n")
	out.WriteString(fmt.Sprintf("%-72sT%7d\n",
		fmt.Sprintf("S%7dG%7dD%7dP%7d", 1, nGlobal, 2*len(entities), pdSeq-1), 1))

	_, err := io.WriteString(w, out.String())
	return err
}

// transformTarget returns the ObjectID of an entity's DE-level
// transformation reference, if it carries one.
func transformTarget(e entity.Entity) (entity.ObjectID, bool) {
	type transformed interface {
		Transform() (entity.TransformProvider, bool)
	}
	if te, ok := e.(transformed); ok {
		if t, ok := te.Transform(); ok {
			return t.ID(), true
		}
	}
	return entity.NilID, false
}

// renderParameters renders one entity's full PD text: the type code,
// every parameter, and the record delimiter. Pointer slots are
// rewritten from ObjectIDs to the renumbered DE pointers.
func renderParameters(e entity.Entity, id2de map[entity.ObjectID]int, g *Global) string {
	params := entity.Parameters(e)
	tokens := make([]string, 0, len(params)+1)
	tokens = append(tokens, fmt.Sprintf("%d", int(e.Type())))
	for _, p := range params {
		if p.Kind == param.KindPointer {
			tokens = append(tokens, fmt.Sprintf("%d", id2de[entity.ObjectID(p.Int)]))
			continue
		}
		tokens = append(tokens, p.Format())
	}
	return strings.Join(tokens, string(g.ParamDelim)) + string(g.RecordDelim)
}

// wrapPD wraps PD text at the 64-column data boundary, breaking only
// at delimiter boundaries, and decorates each line with the DE
// back-pointer, section letter and sequence number.
func wrapPD(text string, paramDelim byte, dePointer int, seq *int) []string {
	var lines []string
	for len(text) > 0 {
		chunk := text
		if len(chunk) > pdDataColumns {
			cut := strings.LastIndexByte(chunk[:pdDataColumns], paramDelim)
			if cut < 0 {
				cut = pdDataColumns - 1
			}
			chunk = chunk[:cut+1]
		}
		text = text[len(chunk):]
		lines = append(lines, fmt.Sprintf("%-64s%8dP%7d", chunk, dePointer, *seq))
		*seq++
	}
	return lines
}

// pdDataColumns mirrors the free-format data width of a PD line.
const pdDataColumns = 64

// renderGlobal renders the global section parameters, leading with the
// two delimiter declarations.
func renderGlobal(g *Global) string {
	tokens := []string{
		fmt.Sprintf("1H%c", g.ParamDelim),
		fmt.Sprintf("1H%c", g.RecordDelim),
	}
	for _, p := range g.Params {
		tokens = append(tokens, p.Format())
	}
	return strings.Join(tokens, string(g.ParamDelim)) + string(g.RecordDelim)
}

// wrapSection wraps free-format text at 72 columns and decorates each
// line with a section letter and sequence number.
func wrapSection(text string, letter byte) string {
	var out strings.Builder
	seq := 1
	for len(text) > 0 {
		chunk := text
		if len(chunk) > 72 {
			chunk = chunk[:72]
		}
		text = text[len(chunk):]
		out.WriteString(fmt.Sprintf("%-72s%c%7d\n", chunk, letter, seq))
		seq++
	}
	return out.String()
}
