package entity

import (
	"errors"
	"testing"
)

func TestRefResolvesAtMostOnce(t *testing.T) {
	first := NewIdentityTransform()
	second := NewIdentityTransform()

	var ref Ref[TransformProvider]
	ref.SetTarget(first.ID())

	if !ref.NeedsResolution() {
		t.Fatal("targeted ref should need resolution")
	}
	if ref.Offer(second) {
		t.Error("Offer accepted a candidate with the wrong ID")
	}
	if !ref.Offer(first) {
		t.Fatal("Offer rejected the matching candidate")
	}
	if ref.NeedsResolution() {
		t.Error("resolved ref still reports needing resolution")
	}
	got, ok := ref.Get()
	if !ok || got.ID() != first.ID() {
		t.Fatalf("Get = %v, %v", got, ok)
	}

	// A second matching offer must not re-resolve or overwrite.
	if ref.Offer(first) {
		t.Error("Offer resolved an already-resolved ref")
	}
}

func TestRefOfferRejectsWrongCapability(t *testing.T) {
	matrix := NewIdentityTransform()

	// A transformation matrix is not a curve; an ID match alone is not
	// enough to resolve.
	var ref Ref[CurveEvaluator]
	ref.SetTarget(matrix.ID())
	if ref.Offer(matrix) {
		t.Error("Offer resolved against a candidate lacking the capability")
	}
	if !ref.NeedsResolution() {
		t.Error("ref should remain unresolved after a capability mismatch")
	}
}

func TestRefNilTarget(t *testing.T) {
	var ref Ref[TransformProvider]
	ref.SetTarget(NilID)
	if ref.NeedsResolution() {
		t.Error("a NilID target means no reference is expected")
	}
	if _, ok := ref.Get(); ok {
		t.Error("unset ref returned a value")
	}
}

func TestRefOverwrite(t *testing.T) {
	first := NewIdentityTransform()
	second := NewIdentityTransform()

	var ref Ref[TransformProvider]
	ref.SetTarget(first.ID())
	if !ref.Offer(first) {
		t.Fatal("Offer rejected the matching candidate")
	}

	ref.Overwrite(second)
	got, ok := ref.Get()
	if !ok || got.ID() != second.ID() {
		t.Fatalf("Overwrite did not replace the reference")
	}
	if ref.TargetID() != second.ID() {
		t.Errorf("TargetID = %d, want %d", ref.TargetID(), second.ID())
	}
}

func TestNewIDNeverNil(t *testing.T) {
	seen := make(map[ObjectID]bool)
	for i := 0; i < 100; i++ {
		id := NewID()
		if id == NilID {
			t.Fatal("NewID returned NilID")
		}
		if seen[id] {
			t.Fatalf("NewID returned duplicate %d", id)
		}
		seen[id] = true
	}
}

func TestDEMapAssign(t *testing.T) {
	m := DEMap{}
	a, b := NewID(), NewID()

	if err := m.Assign(1, a); err != nil {
		t.Fatalf("Assign: %v", err)
	}
	// Assigning the same pair again is a no-op.
	if err := m.Assign(1, a); err != nil {
		t.Errorf("idempotent Assign: %v", err)
	}
	// Rebinding a pointer to a different ID is refused.
	if err := m.Assign(1, b); !errors.Is(err, ErrReference) {
		t.Errorf("conflicting Assign: error %v, want ErrReference", err)
	}
}

func TestDEMapTranslate(t *testing.T) {
	id := NewID()
	m := DEMap{3: id}

	got, err := m.Translate(3)
	if err != nil || got != id {
		t.Errorf("Translate(3) = %d, %v", got, err)
	}
	// Zero always means no reference.
	if got, err := m.Translate(0); err != nil || got != NilID {
		t.Errorf("Translate(0) = %d, %v", got, err)
	}
	// A pointer missing from a populated map is a hard inconsistency.
	if _, err := m.Translate(9); !errors.Is(err, ErrReference) {
		t.Errorf("Translate(9): error %v, want ErrReference", err)
	}
	// An empty map signals programmatic construction; the raw value
	// passes through as a literal ID.
	if got, err := (DEMap{}).Translate(42); err != nil || got != ObjectID(42) {
		t.Errorf("empty-map Translate(42) = %d, %v", got, err)
	}
}
