package lightstore

// entityIndex maps an EntityId to its dense slot in a backing array.
// O(1) amortized lookup, rebuildable in O(n) from the ids slice it shadows.
type entityIndex map[EntityId]int

func makeEntityIndex() entityIndex {
	return make(entityIndex)
}

// slotOf returns the dense slot for id. The comma-ok form lets callers
// tell "entity has no entry here" apart from "entity does not exist".
func (idx entityIndex) slotOf(id EntityId) (int, bool) {
	slot, ok := idx[id]
	return slot, ok
}

func (idx entityIndex) put(id EntityId, slot int) {
	idx[id] = slot
}

func (idx entityIndex) drop(id EntityId) {
	delete(idx, id)
}

// rebuild repopulates the index from a dense ids slice, discarding any
// previous contents.
func (idx entityIndex) rebuild(ids []EntityId) {
	clear(idx)
	for slot, id := range ids {
		idx[id] = slot
	}
}
