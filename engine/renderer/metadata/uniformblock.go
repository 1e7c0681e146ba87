package metadata

import (
	"fmt"
	stdmath "math"
	"strconv"
	"strings"

	"github.com/spaghettifunk/anima/engine/core"
	"github.com/spaghettifunk/anima/engine/math"
)

// UniformType names a shader field type as it would appear in a descriptor
// string such as "vec4 u_colour".
type UniformType int

const (
	UniformTypeInt UniformType = iota
	UniformTypeUInt
	UniformTypeFloat
	UniformTypeVec2
	UniformTypeVec3
	UniformTypeVec4
	UniformTypeMat3
	UniformTypeMat4
)

var uniformTypeSizes = map[UniformType]uint32{
	UniformTypeInt:   4,
	UniformTypeUInt:  4,
	UniformTypeFloat: 4,
	UniformTypeVec2:  8,
	UniformTypeVec3:  12,
	UniformTypeVec4:  16,
	UniformTypeMat3:  48, // std140 packs mat3 as three padded vec4 columns
	UniformTypeMat4:  64,
}

var uniformTypeNames = map[string]UniformType{
	"int":   UniformTypeInt,
	"uint":  UniformTypeUInt,
	"float": UniformTypeFloat,
	"vec2":  UniformTypeVec2,
	"vec3":  UniformTypeVec3,
	"vec4":  UniformTypeVec4,
	"mat3":  UniformTypeMat3,
	"mat4":  UniformTypeMat4,
}

// UniformEntry is one named field of a UniformBlock's descriptor.
type UniformEntry struct {
	Name       string
	Type       UniformType
	ElemCount  uint32 // array length of this field, 1 if scalar
	ByteOffset uint32 // offset of the field within a single struct element
	ByteSize   uint32 // size of the field alone (ElemCount * base size)
}

// UniformBlock is a packed CPU-side parameter block with named fields,
// optionally mirrored to a GPU-backed buffer. It is built from a descriptor
// string of "type name[count]" entries and computes std140-compatible
// byte offsets for each.
//
// When maxElems > 1 the block represents an array of the described struct
// (used by the shared light block and by transform blocks); getNumElems
// tracks how many of those slots are logically in use.
type UniformBlock struct {
	entries    []UniformEntry
	byName     map[string]int
	structSize uint32 // size of one struct element, std140-padded to a vec4 multiple
	maxElems   uint32
	numElems   uint32

	data     []byte
	external bool

	dirty        bool
	useGPUBuffer bool
	gpuBufferID  uint32
}

// NewUniformBlock parses descriptor and allocates a CPU buffer sized for
// maxElems repetitions of the described struct. maxElems must be >= 1.
func NewUniformBlock(descriptor string, maxElems uint32) (*UniformBlock, error) {
	if maxElems == 0 {
		maxElems = 1
	}
	entries, structSize, err := parseUniformDescriptor(descriptor)
	if err != nil {
		return nil, err
	}
	b := &UniformBlock{
		entries:    entries,
		byName:     make(map[string]int, len(entries)),
		structSize: structSize,
		maxElems:   maxElems,
	}
	for i, e := range entries {
		b.byName[e.Name] = i
	}
	b.data = make([]byte, structSize*maxElems)
	return b, nil
}

// NewUniformBlockExternal is like NewUniformBlock but wraps caller-owned
// storage instead of allocating; the block does not own backing.
func NewUniformBlockExternal(descriptor string, maxElems uint32, backing []byte) (*UniformBlock, error) {
	b, err := NewUniformBlock(descriptor, maxElems)
	if err != nil {
		return nil, err
	}
	if uint32(len(backing)) < b.structSize*maxElems {
		return nil, fmt.Errorf("uniform block: external backing too small: have %d need %d", len(backing), b.structSize*maxElems)
	}
	b.data = backing
	b.external = true
	return b, nil
}

func parseUniformDescriptor(descriptor string) ([]UniformEntry, uint32, error) {
	var entries []UniformEntry
	var offset uint32

	fields := strings.Fields(descriptor)
	i := 0
	for i < len(fields) {
		typeName := fields[i]
		if i+1 >= len(fields) {
			return nil, 0, fmt.Errorf("uniform block: dangling type %q in descriptor %q", typeName, descriptor)
		}
		name := fields[i+1]
		i += 2

		count := uint32(1)
		if idx := strings.IndexByte(name, '['); idx >= 0 && strings.HasSuffix(name, "]") {
			n, err := strconv.Atoi(name[idx+1 : len(name)-1])
			if err != nil || n <= 0 {
				return nil, 0, fmt.Errorf("uniform block: bad array count in %q", name)
			}
			count = uint32(n)
			name = name[:idx]
		}

		utype, ok := uniformTypeNames[typeName]
		if !ok {
			return nil, 0, fmt.Errorf("uniform block: unknown type %q for field %q", typeName, name)
		}

		base := uniformTypeSizes[utype]
		// std140 aligns array elements and vec3/mat3 entries to 16 bytes.
		align := base
		if count > 1 || utype == UniformTypeVec3 || utype == UniformTypeMat3 {
			align = 16
		}
		offset = alignUp(offset, align)

		size := base * count

		entries = append(entries, UniformEntry{
			Name:       name,
			Type:       utype,
			ElemCount:  count,
			ByteOffset: offset,
			ByteSize:   size,
		})
		offset += size
	}
	offset = alignUp(offset, 16)
	return entries, offset, nil
}

func alignUp(v, align uint32) uint32 {
	if align == 0 {
		return v
	}
	rem := v % align
	if rem == 0 {
		return v
	}
	return v + (align - rem)
}

// TotalSize returns the byte size of a single struct element.
func (b *UniformBlock) TotalSize() uint32 { return b.structSize }

// MaxElems returns the block's capacity in struct elements.
func (b *UniformBlock) MaxElems() uint32 { return b.maxElems }

// GetNumElems returns how many struct elements are currently considered live.
func (b *UniformBlock) GetNumElems() uint32 { return b.numElems }

// SetNumElems updates the logical length of an array-backed block.
func (b *UniformBlock) SetNumElems(n uint32) {
	if n > b.maxElems {
		n = b.maxElems
	}
	b.numElems = n
}

// GetData returns the raw CPU buffer backing this block.
func (b *UniformBlock) GetData() []byte { return b.data }

// IsDirty reports whether any setter has touched the block since the last
// ClearDirty call.
func (b *UniformBlock) IsDirty() bool { return b.dirty }

// ClearDirty resets the dirty flag, typically after a GPU upload.
func (b *UniformBlock) ClearDirty() { b.dirty = false }

// SetUseGPUBuffer selects between the UBO-backed upload path and the
// direct-uniform path described in UpdateGPU.
func (b *UniformBlock) SetUseGPUBuffer(use bool) { b.useGPUBuffer = use }

func (b *UniformBlock) lookup(name string, want UniformType) (*UniformEntry, error) {
	idx, ok := b.byName[name]
	if !ok {
		core.LogWarn("uniform block: unknown field %q", name)
		return nil, fmt.Errorf("uniform block: unknown field %q", name)
	}
	e := &b.entries[idx]
	if e.Type != want {
		core.LogWarn("uniform block: type mismatch for field %q", name)
		return nil, fmt.Errorf("uniform block: type mismatch for field %q", name)
	}
	return e, nil
}

func (b *UniformBlock) write(e *UniformEntry, elemIndex uint32, raw []byte) {
	base := elemIndex*b.structSize + e.ByteOffset
	copy(b.data[base:base+uint32(len(raw))], raw)
	b.dirty = true
}

// SetInt writes a scalar int field by name at struct element 0. It returns
// false (and logs a warning) if name is unknown or not an int field.
func (b *UniformBlock) SetInt(name string, v int32) bool {
	e, err := b.lookup(name, UniformTypeInt)
	if err != nil {
		return false
	}
	b.write(e, 0, int32ToBytes(v))
	return true
}

// SetFloat writes a scalar float field by name at struct element 0.
func (b *UniformBlock) SetFloat(name string, v float32) bool {
	e, err := b.lookup(name, UniformTypeFloat)
	if err != nil {
		return false
	}
	b.write(e, 0, float32ToBytes(v))
	return true
}

// SetVec2 writes a vec2 field by name.
func (b *UniformBlock) SetVec2(name string, v math.Vec2) bool {
	e, err := b.lookup(name, UniformTypeVec2)
	if err != nil {
		return false
	}
	b.write(e, 0, floatsToBytes(v.X, v.Y))
	return true
}

// SetVec3 writes a vec3 field by name.
func (b *UniformBlock) SetVec3(name string, v math.Vec3) bool {
	e, err := b.lookup(name, UniformTypeVec3)
	if err != nil {
		return false
	}
	b.write(e, 0, floatsToBytes(v.X, v.Y, v.Z))
	return true
}

// SetVec4 writes a vec4 field by name.
func (b *UniformBlock) SetVec4(name string, v math.Vec4) bool {
	e, err := b.lookup(name, UniformTypeVec4)
	if err != nil {
		return false
	}
	b.write(e, 0, floatsToBytes(v.X, v.Y, v.Z, v.W))
	return true
}

// SetMat4 writes a mat4 field by name.
func (b *UniformBlock) SetMat4(name string, m math.Mat4) bool {
	e, err := b.lookup(name, UniformTypeMat4)
	if err != nil {
		return false
	}
	b.write(e, 0, floatsToBytes(m.Data[:]...))
	return true
}

// GetInt reads a scalar int field; ok is false on unknown name or type mismatch.
func (b *UniformBlock) GetInt(name string) (v int32, ok bool) {
	e, err := b.lookup(name, UniformTypeInt)
	if err != nil {
		return 0, false
	}
	return bytesToInt32(b.data[e.ByteOffset : e.ByteOffset+4]), true
}

// GetFloat reads a scalar float field.
func (b *UniformBlock) GetFloat(name string) (v float32, ok bool) {
	e, err := b.lookup(name, UniformTypeFloat)
	if err != nil {
		return 0, false
	}
	return bytesToFloat32(b.data[e.ByteOffset : e.ByteOffset+4]), true
}

// GetVec2 reads a vec2 field.
func (b *UniformBlock) GetVec2(name string) (math.Vec2, bool) {
	e, err := b.lookup(name, UniformTypeVec2)
	if err != nil {
		return math.Vec2{}, false
	}
	f := bytesToFloats(b.data[e.ByteOffset:e.ByteOffset+8], 2)
	return math.Vec2{X: f[0], Y: f[1]}, true
}

// GetVec3 reads a vec3 field.
func (b *UniformBlock) GetVec3(name string) (math.Vec3, bool) {
	e, err := b.lookup(name, UniformTypeVec3)
	if err != nil {
		return math.Vec3{}, false
	}
	f := bytesToFloats(b.data[e.ByteOffset:e.ByteOffset+12], 3)
	return math.Vec3{X: f[0], Y: f[1], Z: f[2]}, true
}

// GetVec4 reads a vec4 field.
func (b *UniformBlock) GetVec4(name string) (math.Vec4, bool) {
	e, err := b.lookup(name, UniformTypeVec4)
	if err != nil {
		return math.Vec4{}, false
	}
	f := bytesToFloats(b.data[e.ByteOffset:e.ByteOffset+16], 4)
	return math.Vec4{X: f[0], Y: f[1], Z: f[2], W: f[3]}, true
}

// GetMat4 reads a mat4 field.
func (b *UniformBlock) GetMat4(name string) (math.Mat4, bool) {
	e, err := b.lookup(name, UniformTypeMat4)
	if err != nil {
		return math.Mat4{}, false
	}
	f := bytesToFloats(b.data[e.ByteOffset:e.ByteOffset+64], 16)
	var m math.Mat4
	copy(m.Data[:], f)
	return m, true
}

// SetFloatVec writes a raw float array field; it fails if n does not match
// the field's declared element count.
func (b *UniformBlock) SetFloatVec(name string, values []float32) bool {
	idx, ok := b.byName[name]
	if !ok {
		core.LogWarn("uniform block: unknown field %q", name)
		return false
	}
	e := &b.entries[idx]
	expected := e.ByteSize / 4
	if uint32(len(values)) != expected {
		core.LogWarn("uniform block: field %q expects %d floats, got %d", name, expected, len(values))
		return false
	}
	b.write(e, 0, floatsToBytes(values...))
	return true
}

// SetIntVec writes a raw int array field; it fails if n does not match the
// field's declared element count.
func (b *UniformBlock) SetIntVec(name string, values []int32) bool {
	idx, ok := b.byName[name]
	if !ok {
		core.LogWarn("uniform block: unknown field %q", name)
		return false
	}
	e := &b.entries[idx]
	expected := e.ByteSize / 4
	if uint32(len(values)) != expected {
		core.LogWarn("uniform block: field %q expects %d ints, got %d", name, expected, len(values))
		return false
	}
	raw := make([]byte, 0, len(values)*4)
	for _, v := range values {
		raw = append(raw, int32ToBytes(v)...)
	}
	b.write(e, 0, raw)
	return true
}

// SetRange copies count struct-elements from src into the array block
// starting at elemIndex. src must be exactly count*TotalSize() bytes.
// It fails if elemIndex+count exceeds the block's capacity.
func (b *UniformBlock) SetRange(elemIndex, count uint32, src []byte) error {
	if elemIndex+count > b.maxElems {
		return fmt.Errorf("uniform block: setRange(%d,%d) exceeds capacity %d", elemIndex, count, b.maxElems)
	}
	want := count * b.structSize
	if uint32(len(src)) != want {
		return fmt.Errorf("uniform block: setRange expects %d bytes, got %d", want, len(src))
	}
	base := elemIndex * b.structSize
	copy(b.data[base:base+want], src)
	b.dirty = true
	if elemIndex+count > b.numElems {
		b.numElems = elemIndex + count
	}
	return nil
}

// GPUBinder is implemented by a backend renderer so UniformBlock can push
// or bind its contents without the core depending on any graphics API.
type GPUBinder interface {
	UploadUniformRange(bufferID uint32, offsetBytes, lenBytes uint32, data []byte) error
	BindUniformBuffer(shaderID uint32, bindingPoint uint32, bufferID uint32, offsetBytes, lenBytes uint32) error
}

// UpdateGPU pushes the byte range [offsetBytes, offsetBytes+lenBytes) to the
// backing GPU buffer when UseGPUBuffer is set; otherwise it is a record-only
// call and the direct-uniform path is expected to read GetData() at bind
// time. offsetBytes/lenBytes are clamped to the buffer bounds.
func (b *UniformBlock) UpdateGPU(renderer GPUBinder, offsetBytes, lenBytes uint32) error {
	if !b.useGPUBuffer || renderer == nil {
		b.dirty = false
		return nil
	}
	total := uint32(len(b.data))
	if offsetBytes > total {
		offsetBytes = total
	}
	if offsetBytes+lenBytes > total {
		lenBytes = total - offsetBytes
	}
	if err := renderer.UploadUniformRange(b.gpuBufferID, offsetBytes, lenBytes, b.data[offsetBytes:offsetBytes+lenBytes]); err != nil {
		return err
	}
	b.dirty = false
	return nil
}

// BindBuffer binds this block (or the subrange starting at locationOffset
// bytes) to the shader's matching binding point.
func (b *UniformBlock) BindBuffer(renderer GPUBinder, shaderID, bindingPoint, locationOffset uint32) error {
	if renderer == nil {
		return nil
	}
	return renderer.BindUniformBuffer(shaderID, bindingPoint, b.gpuBufferID, locationOffset, uint32(len(b.data))-locationOffset)
}

func int32ToBytes(v int32) []byte {
	return []byte{byte(v), byte(v >> 8), byte(v >> 16), byte(v >> 24)}
}

func bytesToInt32(b []byte) int32 {
	return int32(uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24)
}

func float32ToBytes(f float32) []byte {
	return int32ToBytes(int32(stdmath.Float32bits(f)))
}

func bytesToFloat32(b []byte) float32 {
	return stdmath.Float32frombits(uint32(bytesToInt32(b)))
}

func floatsToBytes(values ...float32) []byte {
	out := make([]byte, 0, len(values)*4)
	for _, v := range values {
		out = append(out, float32ToBytes(v)...)
	}
	return out
}

func bytesToFloats(b []byte, n int) []float32 {
	out := make([]float32, n)
	for i := 0; i < n; i++ {
		out[i] = bytesToFloat32(b[i*4 : i*4+4])
	}
	return out
}
