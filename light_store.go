package lightstore

// LightStore is the per-entity light source store. It keeps three parallel
// slices sharing a dense slot: ids, kinds and active flags, and routes each
// entity's parameter payload to one of three kind-specific sub-stores
// (structure-of-arrays throughout, dispatch on the kind tag).
//
// The store has no internal locking. All mutation must be confined to one
// writer per tick; concurrent reads are safe only while no mutation is in
// flight. Remove uses swap-with-last, so any slot number a caller may have
// cached across a mutation is invalid.
type LightStore struct {
	ids    []EntityId
	kinds  []LightKind
	active []bool
	index  entityIndex

	dir   subStore[DirLightParams]
	point subStore[PointLightParams]
	spot  subStore[SpotLightParams]
}

func NewLightStore() *LightStore {
	return &LightStore{
		index: makeEntityIndex(),
		dir:   makeSubStore[DirLightParams]("DirLights"),
		point: makeSubStore[PointLightParams]("PointLights"),
		spot:  makeSubStore[SpotLightParams]("SpotLights"),
	}
}

// LightBatch is the input to BulkAdd. Ids and Kinds are parallel; the
// per-kind parameter slices are consumed in the order their kind appears in
// Kinds. Cardinalities must line up: len(Dir)+len(Point)+len(Spot) ==
// len(Ids), with each slice matching the count of its kind in Kinds.
type LightBatch struct {
	Ids   []EntityId
	Kinds []LightKind
	Dir   []DirLightParams
	Point []PointLightParams
	Spot  []SpotLightParams
}

// BulkAdd inserts every entity of the batch, or none of them. New entries
// default to active. Attenuation coefficients of point and spot lights are
// floor-clamped here, once, at insert.
func (s *LightStore) BulkAdd(batch LightBatch) error {
	const op = "LightStore.BulkAdd"

	if len(batch.Kinds) != len(batch.Ids) {
		return validationErrf(op, "got %d ids but %d kinds", len(batch.Ids), len(batch.Kinds))
	}

	var nDir, nPoint, nSpot int
	for i, kind := range batch.Kinds {
		switch kind {
		case LightDirectional:
			nDir++
		case LightPoint:
			nPoint++
		case LightSpot:
			nSpot++
		default:
			return validationErrf(op, "id %d has unknown light kind %d", batch.Ids[i], kind)
		}
	}
	if nDir != len(batch.Dir) {
		return validationErrf(op, "%d directional kinds but %d directional params", nDir, len(batch.Dir))
	}
	if nPoint != len(batch.Point) {
		return validationErrf(op, "%d point kinds but %d point params", nPoint, len(batch.Point))
	}
	if nSpot != len(batch.Spot) {
		return validationErrf(op, "%d spot kinds but %d spot params", nSpot, len(batch.Spot))
	}

	seen := make(map[EntityId]struct{}, len(batch.Ids))
	for _, id := range batch.Ids {
		if _, dup := seen[id]; dup {
			return validationErrf(op, "id %d appears twice in batch", id)
		}
		seen[id] = struct{}{}
		if _, exists := s.index.slotOf(id); exists {
			return validationErrf(op, "id %d already has a light", id)
		}
	}

	for i, p := range batch.Point {
		if p.Range <= 0 {
			return validationErrf(op, "point params %d: range %g is not positive", i, p.Range)
		}
	}
	for i, p := range batch.Spot {
		if p.Range <= 0 {
			return validationErrf(op, "spot params %d: range %g is not positive", i, p.Range)
		}
		if p.SpotExp <= 0 {
			return validationErrf(op, "spot params %d: spot exponent %g is not positive", i, p.SpotExp)
		}
	}

	// Validation passed; from here on nothing can fail.
	var iDir, iPoint, iSpot int
	for i, id := range batch.Ids {
		kind := batch.Kinds[i]
		s.ids = append(s.ids, id)
		s.kinds = append(s.kinds, kind)
		s.active = append(s.active, true)
		s.index.put(id, len(s.ids)-1)

		switch kind {
		case LightDirectional:
			s.dir.add(id, batch.Dir[iDir])
			iDir++
		case LightPoint:
			p := batch.Point[iPoint]
			p.Att = clampAttenuation(p.Att)
			s.point.add(id, p)
			iPoint++
		case LightSpot:
			p := batch.Spot[iSpot]
			p.Att = clampAttenuation(p.Att)
			s.spot.add(id, p)
			iSpot++
		}
	}

	s.audit()
	return nil
}

// SetActive toggles the soft-enable flag. Idempotent; not an error path.
func (s *LightStore) SetActive(id EntityId, isActive bool) error {
	slot, ok := s.index.slotOf(id)
	if !ok {
		return ErrNotFound
	}
	s.active[slot] = isActive
	return nil
}

func (s *LightStore) IsActive(id EntityId) (bool, error) {
	slot, ok := s.index.slotOf(id)
	if !ok {
		return false, ErrNotFound
	}
	return s.active[slot], nil
}

func (s *LightStore) GetKind(id EntityId) (LightKind, error) {
	slot, ok := s.index.slotOf(id)
	if !ok {
		return 0, ErrNotFound
	}
	return s.kinds[slot], nil
}

// Directional returns the parameters of a directional light.
func (s *LightStore) Directional(id EntityId) (DirLightParams, error) {
	if p, ok := s.dir.get(id); ok {
		return p, nil
	}
	return DirLightParams{}, ErrNotFound
}

// Point returns the parameters of a point light.
func (s *LightStore) Point(id EntityId) (PointLightParams, error) {
	if p, ok := s.point.get(id); ok {
		return p, nil
	}
	return PointLightParams{}, ErrNotFound
}

// Spot returns the parameters of a spot light.
func (s *LightStore) Spot(id EntityId) (SpotLightParams, error) {
	if p, ok := s.spot.get(id); ok {
		return p, nil
	}
	return SpotLightParams{}, ErrNotFound
}

// Remove purges id from the top-level arrays and from its sub-store.
// Called by the ECS entity-destruction path; the store never learns about
// destroyed entities on its own. Swap-with-last keeps removal O(1) but
// invalidates previously cached slot numbers.
func (s *LightStore) Remove(id EntityId) error {
	slot, ok := s.index.slotOf(id)
	if !ok {
		return ErrNotFound
	}
	kind := s.kinds[slot]

	last := len(s.ids) - 1
	if slot != last {
		s.ids[slot] = s.ids[last]
		s.kinds[slot] = s.kinds[last]
		s.active[slot] = s.active[last]
		s.index.put(s.ids[slot], slot)
	}
	s.ids = s.ids[:last]
	s.kinds = s.kinds[:last]
	s.active = s.active[:last]
	s.index.drop(id)

	removed := false
	switch kind {
	case LightDirectional:
		removed = s.dir.remove(id)
	case LightPoint:
		removed = s.point.remove(id)
	case LightSpot:
		removed = s.spot.remove(id)
	}
	if !removed {
		invariantf("LightStore", "id %d tagged %s but absent from its sub-store", id, kind)
	}

	s.audit()
	return nil
}

// EachActive walks (id, kind) over active entries only, in slot order.
// Returning false stops the walk. Restartable and finite; meant for a
// render pass building its per-frame light list.
func (s *LightStore) EachActive(m func(EntityId, LightKind) bool) {
	for slot := range s.ids {
		if !s.active[slot] {
			continue
		}
		if !m(s.ids[slot], s.kinds[slot]) {
			return
		}
	}
}

// EachActiveOfKind walks the ids of active entries of one kind.
func (s *LightStore) EachActiveOfKind(kind LightKind, m func(EntityId) bool) {
	s.EachActive(func(id EntityId, k LightKind) bool {
		if k != kind {
			return true
		}
		return m(id)
	})
}

func (s *LightStore) Len() int {
	return len(s.ids)
}

func (s *LightStore) ActiveCount() int {
	n := 0
	for _, a := range s.active {
		if a {
			n++
		}
	}
	return n
}

// DirCount, PointCount and SpotCount report per-kind record counts.
func (s *LightStore) DirCount() int   { return s.dir.len() }
func (s *LightStore) PointCount() int { return s.point.len() }
func (s *LightStore) SpotCount() int  { return s.spot.len() }

// audit asserts the parallel-array invariants after every mutation.
func (s *LightStore) audit() {
	if len(s.ids) != len(s.kinds) || len(s.ids) != len(s.active) {
		invariantf("LightStore", "parallel array lengths diverged: ids=%d kinds=%d active=%d",
			len(s.ids), len(s.kinds), len(s.active))
	}
	if len(s.index) != len(s.ids) {
		invariantf("LightStore", "index size %d does not match %d records", len(s.index), len(s.ids))
	}
	if s.dir.len()+s.point.len()+s.spot.len() != len(s.ids) {
		invariantf("LightStore", "sub-store totals %d+%d+%d do not match %d records",
			s.dir.len(), s.point.len(), s.spot.len(), len(s.ids))
	}
	s.dir.audit()
	s.point.audit()
	s.spot.audit()
}
