package entity

// Target is the minimal capability a reference can point at.
type Target interface {
	ID() ObjectID
}

// Ref is a pointer container: a slot holding either an unresolved
// target ObjectID or a resolved shared reference to a capability T.
//
// Resolution happens at most once per slot. Offer never overwrites an
// already-resolved reference; Overwrite exists for explicit
// user-initiated reassignment and re-enters the unresolved state when
// given a bare target ID.
type Ref[T Target] struct {
	target   ObjectID
	value    T
	resolved bool
}

// SetTarget points the container at a new target ID, clearing any
// previous resolution. A NilID target means "no reference expected"
// and is trivially resolved.
func (r *Ref[T]) SetTarget(id ObjectID) {
	var zero T
	r.target = id
	r.value = zero
	r.resolved = false
}

// TargetID returns the target the container points at (NilID if none).
func (r *Ref[T]) TargetID() ObjectID { return r.target }

// NeedsResolution reports whether the container still awaits a target.
func (r *Ref[T]) NeedsResolution() bool {
	return r.target != NilID && !r.resolved
}

// Get returns the resolved reference, if any.
func (r *Ref[T]) Get() (T, bool) {
	return r.value, r.resolved
}

// Offer presents a candidate for resolution. It resolves the container
// only if the container is unresolved, the candidate's ID matches the
// target, and the candidate provides capability T. It reports whether
// a resolution was performed.
func (r *Ref[T]) Offer(candidate Target) bool {
	if !r.NeedsResolution() || candidate == nil || candidate.ID() != r.target {
		return false
	}
	v, ok := any(candidate).(T)
	if !ok {
		return false
	}
	r.value = v
	r.resolved = true
	return true
}

// Overwrite replaces the container's reference regardless of its
// current state. This is the explicit reassignment path, distinct from
// resolution-time linking.
func (r *Ref[T]) Overwrite(v T) {
	r.target = v.ID()
	r.value = v
	r.resolved = true
}
