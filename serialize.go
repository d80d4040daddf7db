package lightstore

import (
	"encoding/binary"
	"fmt"
	"io"
)

// Persistence for the light store and the name registry. The byte layout is
// private to this core: little-endian, one magic/version header per block,
// written at a caller-supplied offset within an opaque stream. The only
// contract is that serialize-then-deserialize restores an equivalent logical
// state, bit-for-bit for float fields.

const (
	lightBlockMagic = "GKLS"
	nameBlockMagic  = "GKNR"
	blockVersion    = uint32(1)
)

func writeBlockHeader(w io.Writer, magic string) error {
	if _, err := w.Write([]byte(magic)); err != nil {
		return err
	}
	return binary.Write(w, binary.LittleEndian, blockVersion)
}

func readBlockHeader(r io.Reader, magic string) error {
	var got [4]byte
	if _, err := io.ReadFull(r, got[:]); err != nil {
		return err
	}
	if string(got[:]) != magic {
		return fmt.Errorf("bad block magic %q, want %q", got[:], magic)
	}
	var version uint32
	if err := binary.Read(r, binary.LittleEndian, &version); err != nil {
		return err
	}
	if version != blockVersion {
		return fmt.Errorf("unsupported block version %d", version)
	}
	return nil
}

func writeSubStore[P any](w io.Writer, s *subStore[P]) error {
	if err := binary.Write(w, binary.LittleEndian, uint32(s.len())); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, s.ids); err != nil {
		return err
	}
	return binary.Write(w, binary.LittleEndian, s.params)
}

func readSubStore[P any](r io.Reader, s *subStore[P]) error {
	var count uint32
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return err
	}
	s.ids = make([]EntityId, count)
	s.params = make([]P, count)
	if err := binary.Read(r, binary.LittleEndian, s.ids); err != nil {
		return err
	}
	if err := binary.Read(r, binary.LittleEndian, s.params); err != nil {
		return err
	}
	s.index.rebuild(s.ids)
	return nil
}

// Serialize writes the full store contents at *offset and advances *offset
// past the written block.
func (s *LightStore) Serialize(w io.WriteSeeker, offset *int64) error {
	if _, err := w.Seek(*offset, io.SeekStart); err != nil {
		return err
	}
	if err := writeBlockHeader(w, lightBlockMagic); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(len(s.ids))); err != nil {
		return err
	}
	for _, part := range []any{s.ids, s.kinds, s.active} {
		if err := binary.Write(w, binary.LittleEndian, part); err != nil {
			return err
		}
	}
	if err := writeSubStore(w, &s.dir); err != nil {
		return err
	}
	if err := writeSubStore(w, &s.point); err != nil {
		return err
	}
	if err := writeSubStore(w, &s.spot); err != nil {
		return err
	}

	end, err := w.Seek(0, io.SeekCurrent)
	if err != nil {
		return err
	}
	*offset = end
	return nil
}

// Deserialize replaces the store contents with the block at offset.
// Everything decodes into temporaries first: a truncated or corrupt block
// returns an error and leaves the receiver exactly as it was.
func (s *LightStore) Deserialize(r io.ReadSeeker, offset int64) error {
	if _, err := r.Seek(offset, io.SeekStart); err != nil {
		return err
	}
	if err := readBlockHeader(r, lightBlockMagic); err != nil {
		return err
	}
	var count uint32
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return err
	}

	ids := make([]EntityId, count)
	kinds := make([]LightKind, count)
	active := make([]bool, count)
	for _, part := range []any{ids, kinds, active} {
		if err := binary.Read(r, binary.LittleEndian, part); err != nil {
			return err
		}
	}

	dir := makeSubStore[DirLightParams]("DirLights")
	point := makeSubStore[PointLightParams]("PointLights")
	spot := makeSubStore[SpotLightParams]("SpotLights")
	if err := readSubStore(r, &dir); err != nil {
		return err
	}
	if err := readSubStore(r, &point); err != nil {
		return err
	}
	if err := readSubStore(r, &spot); err != nil {
		return err
	}

	// All blocks parsed; swap in and rebuild the index.
	s.ids, s.kinds, s.active = ids, kinds, active
	s.index.rebuild(ids)
	s.dir, s.point, s.spot = dir, point, spot

	s.audit()
	return nil
}

// Serialize writes the full registry contents at *offset and advances
// *offset past the written block.
func (r *NameRegistry) Serialize(w io.WriteSeeker, offset *int64) error {
	if _, err := w.Seek(*offset, io.SeekStart); err != nil {
		return err
	}
	if err := writeBlockHeader(w, nameBlockMagic); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(len(r.ids))); err != nil {
		return err
	}
	for slot, id := range r.ids {
		if err := binary.Write(w, binary.LittleEndian, id); err != nil {
			return err
		}
		name := []byte(r.names[slot])
		if err := binary.Write(w, binary.LittleEndian, uint32(len(name))); err != nil {
			return err
		}
		if _, err := w.Write(name); err != nil {
			return err
		}
	}

	end, err := w.Seek(0, io.SeekCurrent)
	if err != nil {
		return err
	}
	*offset = end
	return nil
}

// Deserialize replaces the registry contents with the block at offset.
// Same discipline as LightStore.Deserialize: decode into temporaries, swap
// only once the whole block parsed.
func (r *NameRegistry) Deserialize(src io.ReadSeeker, offset int64) error {
	if _, err := src.Seek(offset, io.SeekStart); err != nil {
		return err
	}
	if err := readBlockHeader(src, nameBlockMagic); err != nil {
		return err
	}
	var count uint32
	if err := binary.Read(src, binary.LittleEndian, &count); err != nil {
		return err
	}

	ids := make([]EntityId, 0, count)
	names := make([]string, 0, count)
	for i := uint32(0); i < count; i++ {
		var id EntityId
		if err := binary.Read(src, binary.LittleEndian, &id); err != nil {
			return err
		}
		var nameLen uint32
		if err := binary.Read(src, binary.LittleEndian, &nameLen); err != nil {
			return err
		}
		name := make([]byte, nameLen)
		if _, err := io.ReadFull(src, name); err != nil {
			return err
		}
		ids = append(ids, id)
		names = append(names, string(name))
	}

	r.ids, r.names = ids, names
	r.byId.rebuild(ids)
	clear(r.byName)
	for slot, name := range names {
		r.byName[name] = slot
	}

	r.audit()
	return nil
}
