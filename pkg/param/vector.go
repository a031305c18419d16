package param

import "fmt"

// Vector is an ordered parameter sequence with positional typed access.
type Vector []Parameter

// Int returns the integer at slot i. Logical slots coerce to 0/1.
func (v Vector) Int(i int) (int64, error) {
	p, err := v.at(i)
	if err != nil {
		return 0, err
	}
	switch p.Kind {
	case KindInteger, KindPointer:
		return p.Int, nil
	case KindLogical:
		if p.Bool {
			return 1, nil
		}
		return 0, nil
	}
	return 0, fmt.Errorf("%w: slot %d holds a %s, want integer", ErrConversion, i, p.Kind)
}

// Real returns the real at slot i. Integer slots widen to float64,
// matching the format's habit of writing whole reals without a point.
func (v Vector) Real(i int) (float64, error) {
	p, err := v.at(i)
	if err != nil {
		return 0, err
	}
	switch p.Kind {
	case KindReal:
		return p.Real, nil
	case KindInteger:
		return float64(p.Int), nil
	}
	return 0, fmt.Errorf("%w: slot %d holds a %s, want real", ErrConversion, i, p.Kind)
}

// Str returns the string at slot i.
func (v Vector) Str(i int) (string, error) {
	p, err := v.at(i)
	if err != nil {
		return "", err
	}
	if p.Kind != KindString {
		return "", fmt.Errorf("%w: slot %d holds a %s, want string", ErrConversion, i, p.Kind)
	}
	return p.Str, nil
}

// Logical returns the logical at slot i. Integer 0/1 coerces, since
// property flags travel as integers on the wire.
func (v Vector) Logical(i int) (bool, error) {
	p, err := v.at(i)
	if err != nil {
		return false, err
	}
	switch p.Kind {
	case KindLogical:
		return p.Bool, nil
	case KindInteger:
		switch p.Int {
		case 0:
			return false, nil
		case 1:
			return true, nil
		}
		return false, fmt.Errorf("%w: slot %d integer %d is not a logical", ErrConversion, i, p.Int)
	}
	return false, fmt.Errorf("%w: slot %d holds a %s, want logical", ErrConversion, i, p.Kind)
}

// PointerAt returns the DE pointer at slot i.
func (v Vector) PointerAt(i int) (int, error) {
	p, err := v.at(i)
	if err != nil {
		return 0, err
	}
	switch p.Kind {
	case KindPointer, KindInteger:
		return int(p.Int), nil
	}
	return 0, fmt.Errorf("%w: slot %d holds a %s, want pointer", ErrConversion, i, p.Kind)
}

// Reals returns n consecutive reals starting at slot i.
func (v Vector) Reals(i, n int) ([]float64, error) {
	out := make([]float64, n)
	for k := 0; k < n; k++ {
		f, err := v.Real(i + k)
		if err != nil {
			return nil, err
		}
		out[k] = f
	}
	return out, nil
}

func (v Vector) at(i int) (Parameter, error) {
	if i < 0 || i >= len(v) {
		return Parameter{}, fmt.Errorf("%w: slot %d out of range (vector has %d)", ErrConversion, i, len(v))
	}
	return v[i], nil
}

// CopyFormats carries the original literal formatting of orig forward
// onto v, slot for slot. It applies only when the two vectors have the
// same length; on any arity mismatch the default formatting stands.
func (v Vector) CopyFormats(orig Vector) {
	if len(v) != len(orig) {
		return
	}
	for i := range v {
		if orig[i].Text != "" && v[i].Kind == orig[i].Kind && v[i].sameValue(orig[i]) {
			v[i].Text = orig[i].Text
		}
	}
}

// sameValue reports whether two parameters of the same kind hold the
// same value, so that a stale literal is never emitted over an edit.
func (p Parameter) sameValue(o Parameter) bool {
	switch p.Kind {
	case KindInteger, KindPointer:
		return p.Int == o.Int
	case KindReal:
		return p.Real == o.Real
	case KindString:
		return p.Str == o.Str
	case KindLogical:
		return p.Bool == o.Bool
	}
	return false
}

// Clone returns a copy of the vector.
func (v Vector) Clone() Vector {
	out := make(Vector, len(v))
	copy(out, v)
	return out
}
