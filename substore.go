package lightstore

// subStore holds the parameter payload for every entity of one light kind:
// two parallel slices {ids, params} sharing a dense slot, plus the id->slot
// index. All mutation goes through LightStore, which guarantees an id lands
// in at most one sub-store and at most once within it.
type subStore[P any] struct {
	name   string
	ids    []EntityId
	params []P
	index  entityIndex
}

func makeSubStore[P any](name string) subStore[P] {
	return subStore[P]{
		name:  name,
		index: makeEntityIndex(),
	}
}

func (s *subStore[P]) len() int {
	return len(s.ids)
}

func (s *subStore[P]) has(id EntityId) bool {
	_, ok := s.index.slotOf(id)
	return ok
}

// add appends a record. The caller has already validated uniqueness; a
// duplicate here means LightStore's bookkeeping went wrong.
func (s *subStore[P]) add(id EntityId, p P) {
	if s.has(id) {
		invariantf(s.name, "id %d inserted twice", id)
	}
	s.ids = append(s.ids, id)
	s.params = append(s.params, p)
	s.index.put(id, len(s.ids)-1)
}

func (s *subStore[P]) get(id EntityId) (P, bool) {
	if slot, ok := s.index.slotOf(id); ok {
		return s.params[slot], true
	}
	var zero P
	return zero, false
}

// remove swap-and-pops the record for id. Slot numbers of the last entry
// are invalidated; the index is patched in the same step.
func (s *subStore[P]) remove(id EntityId) bool {
	slot, ok := s.index.slotOf(id)
	if !ok {
		return false
	}

	last := len(s.ids) - 1
	if slot != last {
		s.ids[slot] = s.ids[last]
		s.params[slot] = s.params[last]
		s.index.put(s.ids[slot], slot)
	}
	s.ids = s.ids[:last]
	s.params = s.params[:last]
	s.index.drop(id)
	return true
}

// each walks the records in slot order. Returning false stops the walk.
func (s *subStore[P]) each(m func(EntityId, *P) bool) {
	for slot := range s.ids {
		if !m(s.ids[slot], &s.params[slot]) {
			return
		}
	}
}

func (s *subStore[P]) audit() {
	if len(s.ids) != len(s.params) {
		invariantf(s.name, "ids/params length mismatch: %d vs %d", len(s.ids), len(s.params))
	}
	if len(s.index) != len(s.ids) {
		invariantf(s.name, "index size %d does not match %d records", len(s.index), len(s.ids))
	}
	if !DebugChecks {
		return
	}
	for slot, id := range s.ids {
		if got, ok := s.index.slotOf(id); !ok || got != slot {
			invariantf(s.name, "dangling index slot for id %d", id)
		}
	}
}
