package lightstore

import (
	"encoding/binary"
	"math"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
)

// GpuLight is the GPU-side light record: six 16-byte rows, matching an
// array<Light> storage buffer in the shader. Kind and spot exponent ride in
// the w lanes of Position and Direction so the record stays vec4-aligned.
type GpuLight struct {
	Ambient   [4]float32
	Diffuse   [4]float32
	Specular  [4]float32
	Position  [4]float32 // xyz, w = kind
	Direction [4]float32 // xyz, w = spot exponent
	AttRange  [4]float32 // (a0, a1, a2, range)
}

// GpuLightStride is the packed size of one GpuLight in bytes.
const GpuLightStride = 96

// LightPlacement carries the transform-owned part of a light: world
// position and direction. The store deliberately does not hold these.
type LightPlacement struct {
	Position  mgl32.Vec3
	Direction mgl32.Vec3
}

// BuildLightList walks the active lights once and appends a GpuLight per
// entry to out (pass out[:0] to reuse a frame-persistent slice). Entities
// missing from placements get a zero position/direction, not skipped, so
// the list length always matches the active count.
func BuildLightList(s *LightStore, placements map[EntityId]LightPlacement, out []GpuLight) []GpuLight {
	s.EachActive(func(id EntityId, kind LightKind) bool {
		var l GpuLight
		pl := placements[id]
		l.Position = [4]float32{pl.Position.X(), pl.Position.Y(), pl.Position.Z(), float32(kind)}
		l.Direction = [4]float32{pl.Direction.X(), pl.Direction.Y(), pl.Direction.Z(), 0}

		switch kind {
		case LightDirectional:
			p, _ := s.Directional(id)
			l.Ambient = p.Ambient
			l.Diffuse = p.Diffuse
			l.Specular = p.Specular
		case LightPoint:
			p, _ := s.Point(id)
			l.Ambient = p.Ambient
			l.Diffuse = p.Diffuse
			l.Specular = p.Specular
			l.AttRange = [4]float32{p.Att.X(), p.Att.Y(), p.Att.Z(), p.Range}
		case LightSpot:
			p, _ := s.Spot(id)
			l.Ambient = p.Ambient
			l.Diffuse = p.Diffuse
			l.Specular = p.Specular
			l.AttRange = [4]float32{p.Att.X(), p.Att.Y(), p.Att.Z(), p.Range}
			l.Direction[3] = p.SpotExp
		}

		out = append(out, l)
		return true
	})
	return out
}

func packLights(lights []GpuLight) []byte {
	data := make([]byte, 0, len(lights)*GpuLightStride)
	for _, l := range lights {
		data = append(data, vec4ToBytes(l.Ambient)...)
		data = append(data, vec4ToBytes(l.Diffuse)...)
		data = append(data, vec4ToBytes(l.Specular)...)
		data = append(data, vec4ToBytes(l.Position)...)
		data = append(data, vec4ToBytes(l.Direction)...)
		data = append(data, vec4ToBytes(l.AttRange)...)
	}
	return data
}

func vec4ToBytes(v [4]float32) []byte {
	buf := make([]byte, 16)
	binary.LittleEndian.PutUint32(buf[0:4], math.Float32bits(v[0]))
	binary.LittleEndian.PutUint32(buf[4:8], math.Float32bits(v[1]))
	binary.LittleEndian.PutUint32(buf[8:12], math.Float32bits(v[2]))
	binary.LittleEndian.PutUint32(buf[12:16], math.Float32bits(v[3]))
	return buf
}

// LightBufferManager owns the wgpu storage buffer a render pass binds its
// light list from. The CPU-side records stay owned here; callers only ever
// see the buffer handle. Sync is meant to run once per frame, inside the
// same single-writer phase as all other store mutation.
type LightBufferManager struct {
	device *wgpu.Device
	buf    *wgpu.Buffer
	lights []GpuLight
}

func NewLightBufferManager(device *wgpu.Device) *LightBufferManager {
	return &LightBufferManager{device: device}
}

// Sync rebuilds the light list from the store and uploads it. Returns true
// when the buffer was recreated and bind groups referencing it are stale.
func (m *LightBufferManager) Sync(s *LightStore, placements map[EntityId]LightPlacement) bool {
	m.lights = BuildLightList(s, placements, m.lights[:0])
	data := packLights(m.lights)
	if len(data) == 0 {
		// Shaders index a runtime-sized array; keep a dummy record around
		// rather than binding a zero-sized buffer.
		data = make([]byte, GpuLightStride)
	}
	return m.ensureBuffer("LightsBuf", data)
}

func (m *LightBufferManager) ensureBuffer(name string, data []byte) bool {
	neededSize := uint64(len(data))
	if neededSize%4 != 0 {
		neededSize += 4 - (neededSize % 4)
	}

	if m.buf == nil || m.buf.GetSize() < neededSize {
		if m.buf != nil {
			m.buf.Release()
		}
		newBuf, err := m.device.CreateBuffer(&wgpu.BufferDescriptor{
			Label:            name,
			Size:             neededSize,
			Usage:            wgpu.BufferUsageStorage | wgpu.BufferUsageCopyDst,
			MappedAtCreation: false,
		})
		if err != nil {
			panic(err)
		}
		m.buf = newBuf
		m.device.GetQueue().WriteBuffer(m.buf, 0, data)
		return true
	}

	m.device.GetQueue().WriteBuffer(m.buf, 0, data)
	return false
}

// Buffer returns the current light list buffer, valid until the next Sync
// that returns true.
func (m *LightBufferManager) Buffer() *wgpu.Buffer {
	return m.buf
}

// LightCount reports how many records the last Sync uploaded.
func (m *LightBufferManager) LightCount() int {
	return len(m.lights)
}

func (m *LightBufferManager) Release() {
	if m.buf != nil {
		m.buf.Release()
		m.buf = nil
	}
}
