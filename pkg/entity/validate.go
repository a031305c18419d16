package entity

import (
	"fmt"
	"strings"
)

// ValidationError represents a single validation failure.
type ValidationError struct {
	Code    string
	Message string
	Entity  ObjectID
	Type    EntityType
}

func (e ValidationError) Error() string {
	context := ""
	if e.Entity != NilID {
		context = fmt.Sprintf(" (entity %d, %s)", e.Entity, e.Type)
	}
	return fmt.Sprintf("%s: %s%s", e.Code, e.Message, context)
}

// ValidationResult aggregates every violated invariant found during a
// validation pass. Validation never short-circuits: a caller sees all
// problems at once.
type ValidationResult struct {
	Errors []ValidationError
}

// OK reports whether validation passed.
func (r *ValidationResult) OK() bool { return len(r.Errors) == 0 }

// Add appends one failure.
func (r *ValidationResult) Add(e ValidationError) {
	r.Errors = append(r.Errors, e)
}

// Addf appends one failure with a formatted message attributed to an entity.
func (r *ValidationResult) Addf(code string, id ObjectID, typ EntityType, format string, args ...any) {
	r.Errors = append(r.Errors, ValidationError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Entity:  id,
		Type:    typ,
	})
}

// Merge folds another result into this one.
func (r *ValidationResult) Merge(o *ValidationResult) {
	if o != nil {
		r.Errors = append(r.Errors, o.Errors...)
	}
}

// Report renders the result as a human-readable multi-line string.
func (r *ValidationResult) Report() string {
	if r.OK() {
		return "ok"
	}
	var b strings.Builder
	for i, e := range r.Errors {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(e.Error())
	}
	return b.String()
}
