// Package param implements the IGES parameter vector: an ordered,
// heterogeneously typed sequence of values with positional typed access.
// Each slot optionally remembers the literal text it was parsed from so
// that an unmodified entity can be re-emitted byte-for-byte.
package param

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrConversion reports a token that failed to coerce to the requested kind.
var ErrConversion = errors.New("parameter conversion error")

// Kind distinguishes parameter value types.
type Kind int

const (
	KindInteger Kind = iota
	KindReal
	KindString
	KindLogical
	KindPointer // integer DE pointer
)

func (k Kind) String() string {
	switch k {
	case KindInteger:
		return "integer"
	case KindReal:
		return "real"
	case KindString:
		return "string"
	case KindLogical:
		return "logical"
	case KindPointer:
		return "pointer"
	default:
		return "unknown"
	}
}

// Parameter is a single typed slot of a parameter vector.
type Parameter struct {
	Kind Kind
	Int  int64
	Real float64
	Str  string
	Bool bool

	// Text is the literal token the parameter was parsed from, or ""
	// for programmatically constructed parameters. Format() prefers it.
	Text string
}

// Integer returns an integer parameter.
func Integer(v int64) Parameter { return Parameter{Kind: KindInteger, Int: v} }

// Real returns a real parameter.
func Real(v float64) Parameter { return Parameter{Kind: KindReal, Real: v} }

// String returns a string parameter.
func String(s string) Parameter { return Parameter{Kind: KindString, Str: s} }

// Logical returns a logical parameter.
func Logical(b bool) Parameter { return Parameter{Kind: KindLogical, Bool: b} }

// Pointer returns a DE-pointer parameter.
func Pointer(v int64) Parameter { return Parameter{Kind: KindPointer, Int: v} }

// Parse converts one raw IGES token into a typed parameter. The token
// syntax decides the kind: Hollerith constants (nHxxx) become strings,
// tokens containing a decimal point or a D/E exponent become reals, and
// everything else becomes an integer. An empty token is the defaulted
// integer zero, as the format prescribes for omitted fields.
func Parse(tok string) (Parameter, error) {
	trimmed := strings.TrimSpace(tok)
	if trimmed == "" {
		return Parameter{Kind: KindInteger, Text: tok}, nil
	}
	if isHollerith(trimmed) {
		s, err := parseHollerith(trimmed)
		if err != nil {
			return Parameter{}, err
		}
		return Parameter{Kind: KindString, Str: s, Text: tok}, nil
	}
	if strings.ContainsAny(trimmed, ".DdEe") {
		f, err := strconv.ParseFloat(normalizeExponent(trimmed), 64)
		if err != nil {
			return Parameter{}, fmt.Errorf("%w: %q is not a real", ErrConversion, trimmed)
		}
		return Parameter{Kind: KindReal, Real: f, Text: tok}, nil
	}
	n, err := strconv.ParseInt(trimmed, 10, 64)
	if err != nil {
		return Parameter{}, fmt.Errorf("%w: %q is not an integer", ErrConversion, trimmed)
	}
	return Parameter{Kind: KindInteger, Int: n, Text: tok}, nil
}

// isHollerith reports whether tok looks like nHxxx.
func isHollerith(tok string) bool {
	i := 0
	for i < len(tok) && tok[i] >= '0' && tok[i] <= '9' {
		i++
	}
	return i > 0 && i < len(tok) && (tok[i] == 'H' || tok[i] == 'h')
}

func parseHollerith(tok string) (string, error) {
	h := strings.IndexAny(tok, "Hh")
	n, err := strconv.Atoi(tok[:h])
	if err != nil || n < 0 {
		return "", fmt.Errorf("%w: bad Hollerith length in %q", ErrConversion, tok)
	}
	body := tok[h+1:]
	if len(body) < n {
		return "", fmt.Errorf("%w: Hollerith %q declares %d characters, has %d", ErrConversion, tok, n, len(body))
	}
	return body[:n], nil
}

// normalizeExponent maps the FORTRAN-style D exponent to E so that
// strconv can parse it. 1.0D0 and 1.0E0 denote the same value.
func normalizeExponent(tok string) string {
	return strings.Map(func(r rune) rune {
		if r == 'D' || r == 'd' {
			return 'E'
		}
		return r
	}, tok)
}

// Format renders the parameter as IGES free-format text. If the
// parameter carries original text it is emitted unchanged.
func (p Parameter) Format() string {
	if p.Text != "" {
		return strings.TrimSpace(p.Text)
	}
	switch p.Kind {
	case KindInteger, KindPointer:
		return strconv.FormatInt(p.Int, 10)
	case KindReal:
		s := strconv.FormatFloat(p.Real, 'G', -1, 64)
		if !strings.ContainsAny(s, ".E") {
			s += "."
		}
		return s
	case KindString:
		if p.Str == "" {
			return ""
		}
		return fmt.Sprintf("%dH%s", len(p.Str), p.Str)
	case KindLogical:
		if p.Bool {
			return "1"
		}
		return "0"
	}
	return ""
}
