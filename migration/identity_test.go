package migration

import "testing"

func TestIdentityMapperResolveIdempotent(t *testing.T) {
	im := NewIdentityMapper()

	first := im.Resolve(EntityProfile, "user1")
	second := im.Resolve(EntityProfile, "user1")

	if first == "" {
		t.Fatal("Resolve() returned empty ID")
	}
	if first != second {
		t.Errorf("Resolve() not stable: got %q then %q", first, second)
	}
}

func TestIdentityMapperTypeScoped(t *testing.T) {
	im := NewIdentityMapper()

	asProfile := im.Resolve(EntityProfile, "user1")
	asCoffee := im.Resolve(EntityCoffee, "user1")

	if asProfile == asCoffee {
		t.Errorf("same legacy ID resolved to %q for both entity types", asProfile)
	}
}

func TestIdentityMapperLookupDoesNotCreate(t *testing.T) {
	im := NewIdentityMapper()

	if id, ok := im.Lookup(EntityCoffee, "coffee1"); ok {
		t.Errorf("Lookup() created mapping %q for unseen legacy ID", id)
	}
	if got := im.Count(EntityCoffee); got != 0 {
		t.Errorf("Count() = %d after failed lookup, want 0", got)
	}

	want := im.Resolve(EntityCoffee, "coffee1")
	got, ok := im.Lookup(EntityCoffee, "coffee1")
	if !ok || got != want {
		t.Errorf("Lookup() = %q, %v, want %q, true", got, ok, want)
	}
}

func TestIdentityMapperBind(t *testing.T) {
	im := NewIdentityMapper()

	im.Bind(EntityProfile, "user1", "existing-uuid")
	if got := im.Resolve(EntityProfile, "user1"); got != "existing-uuid" {
		t.Errorf("Resolve() after Bind() = %q, want existing-uuid", got)
	}
}

func TestIdentityMapperCount(t *testing.T) {
	im := NewIdentityMapper()

	im.Resolve(EntityGear, "gear1")
	im.Resolve(EntityGear, "gear2")
	im.Resolve(EntityGear, "gear1")

	if got := im.Count(EntityGear); got != 2 {
		t.Errorf("Count() = %d, want 2", got)
	}
}
