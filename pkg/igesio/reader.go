// Package igesio reads and writes the five-section IGES file format:
// 80-column records tagged S (start), G (global), D (directory entry),
// P (parameter data) and T (terminate). It turns raw text into the
// record pairs the document layer consumes, and re-emits a document as
// a renumbered file.
package igesio

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chazu/goiges/pkg/document"
	"github.com/chazu/goiges/pkg/entity"
	"github.com/chazu/goiges/pkg/param"
)

// Global holds the decoded global section: the two delimiter
// characters and the remaining global parameters, kept as a generic
// vector.
type Global struct {
	ParamDelim  byte
	RecordDelim byte
	Params      param.Vector
}

// DefaultGlobal returns a global section with standard delimiters.
func DefaultGlobal() *Global {
	return &Global{ParamDelim: ',', RecordDelim: ';'}
}

// File is the fully split raw content of one IGES file.
type File struct {
	Start   []string
	Global  *Global
	Records []document.Record
}

// Read parses an IGES file and loads it into a new document.
func Read(r io.Reader, opts ...document.Option) (*document.Document, *File, error) {
	f, err := ReadFile(r)
	if err != nil {
		return nil, nil, err
	}
	doc := document.New(opts...)
	if err := doc.Load(f.Records); err != nil {
		return nil, nil, err
	}
	return doc, f, nil
}

// ReadFile splits an IGES file into its sections and assembles the raw
// record pairs, without constructing entities.
func ReadFile(r io.Reader) (*File, error) {
	var start, global, directory, parameter []string

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		if len(line) < 73 {
			return nil, fmt.Errorf("%w: line %q is shorter than 73 columns", entity.ErrFormat, line)
		}
		switch line[72] {
		case 'S':
			start = append(start, line[:72])
		case 'G':
			global = append(global, line[:72])
		case 'D':
			directory = append(directory, line)
		case 'P':
			parameter = append(parameter, line)
		case 'T':
			// terminate record: section line counts, not needed here
		default:
			return nil, fmt.Errorf("%w: unknown section letter %q", entity.ErrFormat, line[72])
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	g, err := parseGlobal(strings.Join(global, ""))
	if err != nil {
		return nil, err
	}
	records, err := assembleRecords(directory, parameter, g)
	if err != nil {
		return nil, err
	}
	return &File{Start: start, Global: g, Records: records}, nil
}

// parseGlobal decodes the two delimiter declarations heading the
// global section, then tokenizes the rest with them. Either delimiter
// field may be empty, selecting the defaults comma and semicolon.
func parseGlobal(text string) (*Global, error) {
	g := DefaultGlobal()
	if text == "" {
		return g, nil
	}

	rest := text
	// First field: parameter delimiter, 1Hc or empty.
	if strings.HasPrefix(rest, "1H") && len(rest) >= 4 {
		g.ParamDelim = rest[2]
		rest = rest[4:]
	} else if rest[0] == g.ParamDelim {
		rest = rest[1:]
	}
	// Second field: record delimiter, 1Hc or empty.
	if strings.HasPrefix(rest, "1H") && len(rest) >= 3 {
		g.RecordDelim = rest[2]
		if len(rest) > 3 && rest[3] == g.ParamDelim {
			rest = rest[4:]
		} else {
			rest = rest[3:]
		}
	} else if len(rest) > 0 && rest[0] == g.ParamDelim {
		rest = rest[1:]
	}

	tokens, err := entity.SplitFreeFormat(strings.TrimRight(rest, " "), g.ParamDelim, g.RecordDelim)
	if err != nil {
		return nil, err
	}
	for _, tok := range tokens {
		p, err := param.Parse(tok)
		if err != nil {
			return nil, err
		}
		g.Params = append(g.Params, p)
	}
	return g, nil
}

// assembleRecords decodes DE record pairs and joins each entity's PD
// lines into one raw record.
func assembleRecords(directory, parameter []string, g *Global) ([]document.Record, error) {
	if len(directory)%2 != 0 {
		return nil, fmt.Errorf("%w: directory section has %d lines, want an even count",
			entity.ErrFormat, len(directory))
	}

	records := make([]document.Record, 0, len(directory)/2)
	for i := 0; i < len(directory); i += 2 {
		de, err := parseDE(directory[i], directory[i+1])
		if err != nil {
			return nil, err
		}

		var pd *entity.RawEntityPD
		if de.ParameterLines > 0 {
			first := de.ParameterData - 1
			last := first + de.ParameterLines
			if first < 0 || last > len(parameter) {
				return nil, fmt.Errorf("%w: DE %d points at PD lines %d..%d, section has %d",
					entity.ErrFormat, de.SequenceNumber, de.ParameterData, last, len(parameter))
			}
			pd, err = entity.ToRawEntityPD(parameter[first:last], g.ParamDelim, g.RecordDelim)
			if err != nil {
				return nil, fmt.Errorf("DE %d: %w", de.SequenceNumber, err)
			}
			if pd.Type != de.Type {
				return nil, fmt.Errorf("%w: DE %d is type %s but its PD record is type %s",
					entity.ErrFormat, de.SequenceNumber, de.Type, pd.Type)
			}
		} else {
			pd = &entity.RawEntityPD{Type: de.Type, DEPointer: de.SequenceNumber}
		}
		records = append(records, document.Record{DE: de, PD: pd})
	}
	return records, nil
}

// parseDE decodes the two fixed-format 80-column lines of one
// directory entry.
func parseDE(line1, line2 string) (*entity.RawEntityDE, error) {
	if len(line1) < 80 || len(line2) < 80 {
		return nil, fmt.Errorf("%w: directory entry lines must be 80 columns", entity.ErrFormat)
	}

	field := func(line string, n int) (int, error) {
		s := strings.TrimSpace(line[n*8 : n*8+8])
		if s == "" {
			return 0, nil
		}
		v, err := strconv.Atoi(s)
		if err != nil {
			return 0, fmt.Errorf("%w: DE field %d %q is not numeric", entity.ErrFormat, n+1, s)
		}
		return v, nil
	}

	var vals1, vals2 [9]int
	for n := 0; n < 8; n++ {
		var err error
		if vals1[n], err = field(line1, n); err != nil {
			return nil, err
		}
	}
	for _, n := range []int{0, 1, 2, 3, 4} {
		var err error
		if vals2[n], err = field(line2, n); err != nil {
			return nil, err
		}
	}
	seq, err := strconv.Atoi(strings.TrimSpace(line1[73:80]))
	if err != nil {
		return nil, fmt.Errorf("%w: DE line has non-numeric sequence number", entity.ErrFormat)
	}

	typ := entity.EntityType(vals1[0])
	if !typ.Valid() {
		return nil, fmt.Errorf("%w: %d is not a legal entity type code", entity.ErrFormat, vals1[0])
	}
	if vals2[0] != vals1[0] {
		return nil, fmt.Errorf("%w: DE %d lines disagree on entity type (%d vs %d)",
			entity.ErrFormat, seq, vals1[0], vals2[0])
	}

	status, err := parseStatus(line1[64:72])
	if err != nil {
		return nil, fmt.Errorf("DE %d: %w", seq, err)
	}

	subscript, err := field(line2, 8)
	if err != nil {
		return nil, err
	}
	return &entity.RawEntityDE{
		SequenceNumber: seq,
		Type:           typ,
		ParameterData:  vals1[1],
		Structure:      vals1[2],
		LineFont:       vals1[3],
		Level:          vals1[4],
		View:           vals1[5],
		Transform:      vals1[6],
		LabelDisplay:   vals1[7],
		Status:         status,
		LineWeight:     vals2[1],
		Color:          vals2[2],
		ParameterLines: vals2[3],
		FormNumber:     vals2[4],
		Label:          strings.TrimSpace(line2[56:64]),
		Subscript:      subscript,
	}, nil
}

// parseStatus decodes the 8-character status number field: four
// two-digit subfields for blank status, subordination, entity use and
// hierarchy.
func parseStatus(s string) (entity.StatusFlags, error) {
	var flags entity.StatusFlags
	sub := func(i int) (int, error) {
		part := strings.TrimSpace(s[i : i+2])
		if part == "" {
			return 0, nil
		}
		v, err := strconv.Atoi(part)
		if err != nil {
			return 0, fmt.Errorf("%w: status field %q is not numeric", entity.ErrFormat, s)
		}
		return v, nil
	}
	var err error
	if flags.Blank, err = sub(0); err != nil {
		return flags, err
	}
	var sw int
	if sw, err = sub(2); err != nil {
		return flags, err
	}
	flags.Subordination = entity.Subordination(sw)
	if flags.EntityUse, err = sub(4); err != nil {
		return flags, err
	}
	if flags.Hierarchy, err = sub(6); err != nil {
		return flags, err
	}
	return flags, nil
}
