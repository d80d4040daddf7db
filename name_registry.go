package lightstore

import (
	"github.com/google/uuid"
)

// NameRegistry is a bijection between EntityId and a user-facing name:
// one owning pair of parallel slices {ids, names} plus two derived lookup
// indices (id->slot, name->slot) kept consistent on every mutation. No two
// live entities share a name and no entity has two names.
//
// Same concurrency contract as LightStore: single writer, no internal locks.
type NameRegistry struct {
	ids    []EntityId
	names  []string
	byId   entityIndex
	byName map[string]int
}

func NewNameRegistry() *NameRegistry {
	return &NameRegistry{
		byId:   makeEntityIndex(),
		byName: make(map[string]int),
	}
}

// BulkAdd registers every (id, name) pair of the batch, or none of them.
// Duplicate ids or names, batch-wide or against existing entries, reject
// the whole batch before anything is mutated.
func (r *NameRegistry) BulkAdd(ids []EntityId, names []string) error {
	const op = "NameRegistry.BulkAdd"

	if len(ids) != len(names) {
		return validationErrf(op, "got %d ids but %d names", len(ids), len(names))
	}

	seenIds := make(map[EntityId]struct{}, len(ids))
	seenNames := make(map[string]struct{}, len(names))
	for i, id := range ids {
		name := names[i]
		if name == "" {
			return validationErrf(op, "id %d has an empty name", id)
		}
		if _, dup := seenIds[id]; dup {
			return validationErrf(op, "id %d appears twice in batch", id)
		}
		if _, dup := seenNames[name]; dup {
			return validationErrf(op, "name %q appears twice in batch", name)
		}
		seenIds[id] = struct{}{}
		seenNames[name] = struct{}{}

		if _, exists := r.byId.slotOf(id); exists {
			return validationErrf(op, "id %d is already registered", id)
		}
		if _, exists := r.byName[name]; exists {
			return validationErrf(op, "name %q is already registered", name)
		}
	}

	for i, id := range ids {
		r.ids = append(r.ids, id)
		r.names = append(r.names, names[i])
		slot := len(r.ids) - 1
		r.byId.put(id, slot)
		r.byName[names[i]] = slot
	}

	r.audit()
	return nil
}

func (r *NameRegistry) GetIdByName(name string) (EntityId, error) {
	if slot, ok := r.byName[name]; ok {
		return r.ids[slot], nil
	}
	return 0, ErrNotFound
}

func (r *NameRegistry) GetNameById(id EntityId) (string, error) {
	if slot, ok := r.byId.slotOf(id); ok {
		return r.names[slot], nil
	}
	return "", ErrNotFound
}

func (r *NameRegistry) Has(id EntityId) bool {
	_, ok := r.byId.slotOf(id)
	return ok
}

// Remove unregisters id, swap-and-popping the backing arrays and patching
// both lookup indices in the same step. Called by the ECS destruction path.
func (r *NameRegistry) Remove(id EntityId) error {
	slot, ok := r.byId.slotOf(id)
	if !ok {
		return ErrNotFound
	}
	name := r.names[slot]

	last := len(r.ids) - 1
	if slot != last {
		r.ids[slot] = r.ids[last]
		r.names[slot] = r.names[last]
		r.byId.put(r.ids[slot], slot)
		r.byName[r.names[slot]] = slot
	}
	r.ids = r.ids[:last]
	r.names = r.names[:last]
	r.byId.drop(id)
	delete(r.byName, name)

	r.audit()
	return nil
}

func (r *NameRegistry) Len() int {
	return len(r.ids)
}

// UniqueName returns a name of the form "<prefix>_<uuid>" that is not yet
// registered. Used by tooling for entities spawned without an explicit name.
func (r *NameRegistry) UniqueName(prefix string) string {
	for {
		name := prefix + "_" + uuid.NewString()
		if _, taken := r.byName[name]; !taken {
			return name
		}
	}
}

// audit asserts that both lookup indices agree with the backing arrays.
// A stale index here is a correctness bug, not cosmetic.
func (r *NameRegistry) audit() {
	if len(r.ids) != len(r.names) {
		invariantf("NameRegistry", "ids/names length mismatch: %d vs %d", len(r.ids), len(r.names))
	}
	if len(r.byId) != len(r.ids) || len(r.byName) != len(r.ids) {
		invariantf("NameRegistry", "index sizes %d/%d do not match %d records",
			len(r.byId), len(r.byName), len(r.ids))
	}
	if !DebugChecks {
		return
	}
	for slot, id := range r.ids {
		if got, ok := r.byId.slotOf(id); !ok || got != slot {
			invariantf("NameRegistry", "dangling id index slot for id %d", id)
		}
		if got, ok := r.byName[r.names[slot]]; !ok || got != slot {
			invariantf("NameRegistry", "dangling name index slot for %q", r.names[slot])
		}
	}
}
