package entity

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/chazu/goiges/pkg/param"
)

// Subordination is the DE dependency classification of an entity.
type Subordination int

const (
	Independent         Subordination = 0
	PhysicallyDependent Subordination = 1
	LogicallyDependent  Subordination = 2
	FullyDependent      Subordination = 3 // both physically and logically
)

// StatusFlags is the decoded 8-digit DE status number field.
type StatusFlags struct {
	Blank         int // 00 visible, 01 blanked
	Subordination Subordination
	EntityUse     int // geometry, annotation, definition, ...
	Hierarchy     int
}

// RawEntityDE is the parsed-but-untyped Directory Entry record of one
// entity: metadata shared by every entity type.
type RawEntityDE struct {
	SequenceNumber int // DE section line number, odd
	Type           EntityType
	ParameterData  int // PD section pointer
	Structure      int
	LineFont       int
	Level          int
	View           int
	Transform      int // DE pointer to a Transformation Matrix entity
	LabelDisplay   int
	Status         StatusFlags
	LineWeight     int
	Color          int
	ParameterLines int
	FormNumber     int
	Label          string
	Subscript      int
}

// RawEntityPD is the parsed-but-untyped Parameter Data record of one
// entity: its type, the DE record it belongs to, and the still-untyped
// parameter list. It is produced once by the tokenizer and consumed
// exactly once by the owning entity's constructor.
type RawEntityPD struct {
	Type           EntityType
	DEPointer      int // back-pointer to the owning DE record
	SequenceNumber int // first PD line number of the record
	Data           param.Vector
}

// pdDataColumns is the width of the free-format data portion of a PD
// line; the remaining fixed columns carry the DE back-pointer, the
// section letter and the line sequence number.
const pdDataColumns = 64

// ToRawEntityPD joins the continuation lines of one logical PD record,
// strips the fixed-column decoration, splits the data portion on
// paramDelim, and resolves the leading token to an entity type.
//
// The record delimiter terminates the parameter list; text after it on
// the final line is ignored.
func ToRawEntityPD(lines []string, paramDelim, recordDelim byte) (*RawEntityPD, error) {
	if len(lines) == 0 {
		return nil, fmt.Errorf("%w: empty parameter data record", ErrFormat)
	}

	pd := &RawEntityPD{}
	var data strings.Builder
	for i, line := range lines {
		if len(line) < 73 {
			return nil, fmt.Errorf("%w: PD line %d is %d columns, want at least 73", ErrFormat, i+1, len(line))
		}
		if line[72] != 'P' {
			return nil, fmt.Errorf("%w: PD line %d has section letter %q, want P", ErrFormat, i+1, line[72])
		}
		seq, err := strconv.Atoi(strings.TrimSpace(line[73:min(80, len(line))]))
		if err != nil {
			return nil, fmt.Errorf("%w: PD line %d has non-numeric sequence number", ErrFormat, i+1)
		}
		dePtr, err := strconv.Atoi(strings.TrimSpace(line[pdDataColumns:72]))
		if err != nil {
			return nil, fmt.Errorf("%w: PD line %d has non-numeric DE back-pointer", ErrFormat, i+1)
		}
		if i == 0 {
			pd.SequenceNumber = seq
			pd.DEPointer = dePtr
		} else if dePtr != pd.DEPointer {
			return nil, fmt.Errorf("%w: PD line %d belongs to DE %d, record started at DE %d",
				ErrFormat, i+1, dePtr, pd.DEPointer)
		}
		data.WriteString(line[:pdDataColumns])
	}

	tokens, err := SplitFreeFormat(data.String(), paramDelim, recordDelim)
	if err != nil {
		return nil, err
	}
	if len(tokens) == 0 {
		return nil, fmt.Errorf("%w: parameter data record has no entity type token", ErrFormat)
	}

	code, err := strconv.Atoi(strings.TrimSpace(tokens[0]))
	if err != nil {
		return nil, fmt.Errorf("%w: entity type token %q is not numeric", ErrFormat, tokens[0])
	}
	typ := EntityType(code)
	if !typ.Valid() {
		return nil, fmt.Errorf("%w: %d is not a legal entity type code", ErrFormat, code)
	}
	pd.Type = typ

	pd.Data = make(param.Vector, 0, len(tokens)-1)
	for _, tok := range tokens[1:] {
		p, err := param.Parse(tok)
		if err != nil {
			return nil, err
		}
		pd.Data = append(pd.Data, p)
	}
	return pd, nil
}

// SplitFreeFormat splits free-format parameter text on the parameter
// delimiter, stopping at the record delimiter. Hollerith constants are
// scanned by their declared length so embedded delimiters survive.
func SplitFreeFormat(data string, paramDelim, recordDelim byte) ([]string, error) {
	var tokens []string
	var tok strings.Builder
	terminated := false

scan:
	for i := 0; i < len(data); i++ {
		c := data[i]
		switch c {
		case paramDelim:
			tokens = append(tokens, tok.String())
			tok.Reset()
		case recordDelim:
			terminated = true
			break scan
		default:
			tok.WriteByte(c)
			// A token of the shape nH begins a Hollerith constant:
			// consume the next n characters verbatim.
			if c == 'H' || c == 'h' {
				n, err := strconv.Atoi(strings.TrimSpace(tok.String()[:tok.Len()-1]))
				if err == nil {
					if i+1+n > len(data) {
						return nil, fmt.Errorf("%w: Hollerith constant of length %d overruns the record", ErrFormat, n)
					}
					tok.WriteString(data[i+1 : i+1+n])
					i += n
				}
			}
		}
	}
	if !terminated {
		return nil, fmt.Errorf("%w: parameter data record lacks a record delimiter", ErrFormat)
	}
	tokens = append(tokens, tok.String())
	return tokens, nil
}
