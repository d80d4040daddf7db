package lightstore

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func init() {
	DebugChecks = true
}

func pointParams(rng float32) PointLightParams {
	return PointLightParams{
		Ambient:  mgl32.Vec4{0.1, 0.1, 0.1, 1},
		Diffuse:  mgl32.Vec4{1, 1, 1, 1},
		Specular: mgl32.Vec4{0.5, 0.5, 0.5, 1},
		Att:      mgl32.Vec3{1, 0.1, 0.01},
		Range:    rng,
	}
}

func spotParams(rng, exp float32) SpotLightParams {
	return SpotLightParams{
		Diffuse: mgl32.Vec4{1, 1, 0, 1},
		Att:     mgl32.Vec3{1, 0.1, 0.01},
		Range:   rng,
		SpotExp: exp,
	}
}

func TestLightStore_BulkAdd(t *testing.T) {
	s := NewLightStore()

	err := s.BulkAdd(LightBatch{
		Ids:   []EntityId{1, 2, 3},
		Kinds: []LightKind{LightDirectional, LightPoint, LightSpot},
		Dir:   []DirLightParams{{Diffuse: mgl32.Vec4{1, 1, 1, 1}}},
		Point: []PointLightParams{pointParams(50)},
		Spot:  []SpotLightParams{spotParams(30, 8)},
	})
	if err != nil {
		t.Fatalf("BulkAdd failed: %v", err)
	}

	if s.Len() != 3 {
		t.Errorf("expected 3 records, got %d", s.Len())
	}
	for id, want := range map[EntityId]LightKind{1: LightDirectional, 2: LightPoint, 3: LightSpot} {
		kind, err := s.GetKind(id)
		if err != nil {
			t.Errorf("GetKind(%d) failed: %v", id, err)
		}
		if kind != want {
			t.Errorf("GetKind(%d) = %s, want %s", id, kind, want)
		}
	}

	// New entries default to active
	if s.ActiveCount() != 3 {
		t.Errorf("expected all entries active, got %d", s.ActiveCount())
	}
}

func TestLightStore_BulkAddValidation(t *testing.T) {
	cases := []struct {
		name  string
		batch LightBatch
	}{
		{
			name: "kinds shorter than ids",
			batch: LightBatch{
				Ids:   []EntityId{1, 2},
				Kinds: []LightKind{LightDirectional},
				Dir:   []DirLightParams{{}},
			},
		},
		{
			name: "params cardinality mismatch",
			batch: LightBatch{
				Ids:   []EntityId{1, 2},
				Kinds: []LightKind{LightPoint, LightPoint},
				Point: []PointLightParams{pointParams(10)},
			},
		},
		{
			name: "duplicate id in batch",
			batch: LightBatch{
				Ids:   []EntityId{7, 7},
				Kinds: []LightKind{LightPoint, LightPoint},
				Point: []PointLightParams{pointParams(10), pointParams(10)},
			},
		},
		{
			name: "unknown kind",
			batch: LightBatch{
				Ids:   []EntityId{1},
				Kinds: []LightKind{LightKind(42)},
			},
		},
		{
			name: "non-positive range",
			batch: LightBatch{
				Ids:   []EntityId{1},
				Kinds: []LightKind{LightPoint},
				Point: []PointLightParams{pointParams(0)},
			},
		},
		{
			name: "non-positive spot exponent",
			batch: LightBatch{
				Ids:   []EntityId{1},
				Kinds: []LightKind{LightSpot},
				Spot:  []SpotLightParams{spotParams(10, 0)},
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := NewLightStore()
			err := s.BulkAdd(tc.batch)

			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			// Rejection is atomic: nothing was applied
			if s.Len() != 0 || s.DirCount() != 0 || s.PointCount() != 0 || s.SpotCount() != 0 {
				t.Errorf("store mutated by rejected batch")
			}
		})
	}
}

func TestLightStore_BulkAddRejectsExistingId(t *testing.T) {
	s := NewLightStore()
	if err := s.BulkAdd(LightBatch{
		Ids:   []EntityId{1},
		Kinds: []LightKind{LightPoint},
		Point: []PointLightParams{pointParams(10)},
	}); err != nil {
		t.Fatalf("seed BulkAdd failed: %v", err)
	}

	err := s.BulkAdd(LightBatch{
		Ids:   []EntityId{2, 1},
		Kinds: []LightKind{LightPoint, LightPoint},
		Point: []PointLightParams{pointParams(10), pointParams(10)},
	})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if s.Len() != 1 {
		t.Errorf("partial apply: store has %d records, want 1", s.Len())
	}
	if _, err := s.GetKind(2); !errors.Is(err, ErrNotFound) {
		t.Errorf("id 2 leaked into store from rejected batch")
	}
}

func TestLightStore_AttenuationClamp(t *testing.T) {
	s := NewLightStore()
	p := pointParams(25)
	p.Att = mgl32.Vec3{0.0, 0.02, -1.0}

	if err := s.BulkAdd(LightBatch{
		Ids:   []EntityId{1},
		Kinds: []LightKind{LightPoint},
		Point: []PointLightParams{p},
	}); err != nil {
		t.Fatalf("BulkAdd failed: %v", err)
	}

	got, err := s.Point(1)
	if err != nil {
		t.Fatalf("Point(1) failed: %v", err)
	}
	want := mgl32.Vec3{0.01, 0.02, 0.01}
	if got.Att != want {
		t.Errorf("attenuation = %v, want %v", got.Att, want)
	}
}

func TestLightStore_SetActiveIdempotent(t *testing.T) {
	s := NewLightStore()
	if err := s.BulkAdd(LightBatch{
		Ids:   []EntityId{1},
		Kinds: []LightKind{LightDirectional},
		Dir:   []DirLightParams{{}},
	}); err != nil {
		t.Fatalf("BulkAdd failed: %v", err)
	}

	if err := s.SetActive(1, false); err != nil {
		t.Fatalf("SetActive failed: %v", err)
	}
	if err := s.SetActive(1, true); err != nil {
		t.Fatalf("SetActive failed: %v", err)
	}
	if err := s.SetActive(1, true); err != nil {
		t.Fatalf("second SetActive(true) failed: %v", err)
	}
	if active, _ := s.IsActive(1); !active {
		t.Errorf("expected id 1 active after double SetActive(true)")
	}
	if s.ActiveCount() != 1 {
		t.Errorf("ActiveCount = %d, want 1", s.ActiveCount())
	}

	if err := s.SetActive(99, true); !errors.Is(err, ErrNotFound) {
		t.Errorf("SetActive on absent id: got %v, want ErrNotFound", err)
	}
}

func TestLightStore_Remove(t *testing.T) {
	s := NewLightStore()
	if err := s.BulkAdd(LightBatch{
		Ids:   []EntityId{10, 11, 12},
		Kinds: []LightKind{LightPoint, LightPoint, LightPoint},
		Point: []PointLightParams{pointParams(10), pointParams(11), pointParams(12)},
	}); err != nil {
		t.Fatalf("BulkAdd failed: %v", err)
	}

	if err := s.Remove(11); err != nil {
		t.Fatalf("Remove(11) failed: %v", err)
	}

	if _, err := s.GetKind(11); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetKind(11) after removal: got %v, want ErrNotFound", err)
	}
	for _, id := range []EntityId{10, 12} {
		if _, err := s.GetKind(id); err != nil {
			t.Errorf("GetKind(%d) failed after unrelated removal: %v", id, err)
		}
		if _, err := s.Point(id); err != nil {
			t.Errorf("Point(%d) failed after unrelated removal: %v", id, err)
		}
	}
	if s.PointCount() != 2 {
		t.Errorf("point sub-store has %d records, want 2", s.PointCount())
	}
	if s.Len() != 2 {
		t.Errorf("store has %d records, want 2", s.Len())
	}

	if err := s.Remove(11); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Remove(11): got %v, want ErrNotFound", err)
	}
}

func TestLightStore_CrossStoreExclusivity(t *testing.T) {
	s := NewLightStore()
	if err := s.BulkAdd(LightBatch{
		Ids:   []EntityId{5},
		Kinds: []LightKind{LightSpot},
		Spot:  []SpotLightParams{spotParams(20, 4)},
	}); err != nil {
		t.Fatalf("BulkAdd failed: %v", err)
	}

	if _, err := s.Spot(5); err != nil {
		t.Errorf("Spot(5) failed: %v", err)
	}
	if _, err := s.Directional(5); !errors.Is(err, ErrNotFound) {
		t.Errorf("spot light leaked into directional sub-store")
	}
	if _, err := s.Point(5); !errors.Is(err, ErrNotFound) {
		t.Errorf("spot light leaked into point sub-store")
	}
}

func TestLightStore_EachActive(t *testing.T) {
	s := NewLightStore()
	if err := s.BulkAdd(LightBatch{
		Ids:   []EntityId{1, 2, 3, 4},
		Kinds: []LightKind{LightPoint, LightPoint, LightSpot, LightDirectional},
		Dir:   []DirLightParams{{}},
		Point: []PointLightParams{pointParams(10), pointParams(10)},
		Spot:  []SpotLightParams{spotParams(10, 2)},
	}); err != nil {
		t.Fatalf("BulkAdd failed: %v", err)
	}
	if err := s.SetActive(2, false); err != nil {
		t.Fatalf("SetActive failed: %v", err)
	}

	seen := make(map[EntityId]LightKind)
	s.EachActive(func(id EntityId, kind LightKind) bool {
		seen[id] = kind
		return true
	})
	if len(seen) != 3 {
		t.Errorf("EachActive visited %d entries, want 3", len(seen))
	}
	if _, ok := seen[2]; ok {
		t.Errorf("EachActive visited inactive entry")
	}

	// Early exit
	visits := 0
	s.EachActive(func(id EntityId, kind LightKind) bool {
		visits++
		return false
	})
	if visits != 1 {
		t.Errorf("expected early exit after 1 visit, got %d", visits)
	}

	// Restartable: a second full walk sees the same entries
	again := 0
	s.EachActive(func(id EntityId, kind LightKind) bool {
		again++
		return true
	})
	if again != 3 {
		t.Errorf("second walk visited %d entries, want 3", again)
	}

	var points []EntityId
	s.EachActiveOfKind(LightPoint, func(id EntityId) bool {
		points = append(points, id)
		return true
	})
	if len(points) != 1 || points[0] != 1 {
		t.Errorf("EachActiveOfKind(point) = %v, want [1]", points)
	}
}
