// identity.go
package migration

import "github.com/google/uuid"

// IdentityMapper owns the legacy-ID to stable-ID mapping for one run.
// Mappings are scoped per entity type: the legacy string "aeropress" as a
// gear ID and the same string as a coffee ID are different keys. The map
// lives in memory only; re-run stability comes from natural-key lookups
// against the store, not from persisting this table.
type IdentityMapper struct {
	ids map[EntityType]map[string]string
}

func NewIdentityMapper() *IdentityMapper {
	return &IdentityMapper{
		ids: make(map[EntityType]map[string]string),
	}
}

// Resolve returns the stable ID for a legacy ID, minting a fresh UUID on
// first sight. Calling it twice with the same pair always returns the same
// ID within a run.
func (im *IdentityMapper) Resolve(entity EntityType, legacyID string) string {
	scope, ok := im.ids[entity]
	if !ok {
		scope = make(map[string]string)
		im.ids[entity] = scope
	}

	if id, ok := scope[legacyID]; ok {
		return id
	}

	id := uuid.NewString()
	scope[legacyID] = id
	return id
}

// Lookup returns the stable ID for a legacy ID without creating one.
// FK resolution goes through here so a dangling reference surfaces as a
// miss instead of silently minting an orphan ID.
func (im *IdentityMapper) Lookup(entity EntityType, legacyID string) (string, bool) {
	scope, ok := im.ids[entity]
	if !ok {
		return "", false
	}
	id, ok := scope[legacyID]
	return id, ok
}

// Bind pins a legacy ID to a known stable ID, overriding any fresh UUID
// that Resolve would mint. Used when a natural-key lookup finds the row
// from an earlier run.
func (im *IdentityMapper) Bind(entity EntityType, legacyID, stableID string) {
	scope, ok := im.ids[entity]
	if !ok {
		scope = make(map[string]string)
		im.ids[entity] = scope
	}
	scope[legacyID] = stableID
}

// Count reports how many legacy IDs are mapped for an entity type.
func (im *IdentityMapper) Count(entity EntityType) int {
	return len(im.ids[entity])
}
