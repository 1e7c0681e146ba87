package metadata

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// LightDirtyBits tracks membership changes to a LightList since the last
// updateLights pass.
type LightDirtyBits uint8

const (
	LightDirtyAdded LightDirtyBits = 1 << iota
	LightDirtyRemoved
)

// ShadowMap is the subset of RenderTarget behavior a Light needs to expose
// its shadow map without the metadata package depending on the sorter
// package that implements RenderTarget.
type ShadowMap interface {
	Enabled() bool
	LayerIndex() int
	SetLayerIndex(int)
}

// Light owns a UniformBlock of its own parameters (colour, direction,
// attenuation, ...) plus bookkeeping used to place it within a LightList's
// shared shader block: its class name, its index within that class, and its
// float offset into the shared block. It may optionally cast shadows via an
// attached ShadowMap.
type Light struct {
	Class   string
	Enabled bool

	index     int
	blockName string

	uniforms *UniformBlock
	offset   uint32 // float offset into the LightList's shared block

	ShadowTarget    ShadowMap
	ShadowMapIndex  int32 // -1 when this light has no shadow map

	dirty bool
}

// NewLight builds a light of the given class whose parameters are described
// by descriptor (see UniformBlock for the grammar).
func NewLight(class, descriptor string) (*Light, error) {
	block, err := NewUniformBlock(descriptor, 1)
	if err != nil {
		return nil, err
	}
	return &Light{
		Class:          class,
		Enabled:        true,
		uniforms:       block,
		ShadowMapIndex: -1,
		dirty:          true,
	}, nil
}

// Uniforms returns the light's own parameter block.
func (l *Light) Uniforms() *UniformBlock { return l.uniforms }

// Index returns this light's position within its class's vector.
func (l *Light) Index() int { return l.index }

// BlockOffset returns this light's float offset into the LightList's shared
// block, valid after LightList.UpdateLights has run.
func (l *Light) BlockOffset() uint32 { return l.offset }

// TotalSize returns the byte size of this light's uniform struct.
func (l *Light) TotalSize() uint32 {
	if l.uniforms == nil {
		return 0
	}
	return l.uniforms.TotalSize()
}

// MarkDirty flags that the light's parameters changed since the last
// updateLights pass.
func (l *Light) MarkDirty() { l.dirty = true }

// LightList is an ordered-by-class-then-index set of lights. It derives a
// descriptor string uniquely identifying the set of (class, count) pairs,
// and a shared UniformBlock laid out as one array-of-struct per class.
type LightList struct {
	mu sync.RWMutex

	classes    map[string][]*Light
	classOrder []string // insertion order of first-seen classes

	descriptor string
	dirty      LightDirtyBits
}

// NewLightList returns an empty light list.
func NewLightList() *LightList {
	return &LightList{classes: make(map[string][]*Light)}
}

// Add appends light to its class's vector and assigns its index as the
// class's new length minus one.
func (ll *LightList) Add(l *Light) {
	ll.mu.Lock()
	defer ll.mu.Unlock()

	if _, ok := ll.classes[l.Class]; !ok {
		ll.classOrder = append(ll.classOrder, l.Class)
	}
	ll.classes[l.Class] = append(ll.classes[l.Class], l)
	l.index = len(ll.classes[l.Class]) - 1
	ll.dirty |= LightDirtyAdded
}

// Remove deletes light by identity, reassigns the indices of its remaining
// class-siblings, and drops the class entry entirely once empty.
func (ll *LightList) Remove(l *Light) bool {
	ll.mu.Lock()
	defer ll.mu.Unlock()

	lights, ok := ll.classes[l.Class]
	if !ok {
		return false
	}
	pos := -1
	for i, c := range lights {
		if c == l {
			pos = i
			break
		}
	}
	if pos < 0 {
		return false
	}
	lights = append(lights[:pos], lights[pos+1:]...)
	for i, c := range lights {
		c.index = i
	}
	if len(lights) == 0 {
		delete(ll.classes, l.Class)
		for i, c := range ll.classOrder {
			if c == l.Class {
				ll.classOrder = append(ll.classOrder[:i], ll.classOrder[i+1:]...)
				break
			}
		}
	} else {
		ll.classes[l.Class] = lights
	}
	ll.dirty |= LightDirtyRemoved
	return true
}

// ForEach calls fn for every light across all classes in class, then
// index order; it is safe for fn to read but not to mutate the list.
func (ll *LightList) ForEach(fn func(*Light)) {
	ll.mu.RLock()
	defer ll.mu.RUnlock()
	for _, class := range ll.sortedClasses() {
		for _, l := range ll.classes[class] {
			fn(l)
		}
	}
}

func (ll *LightList) sortedClasses() []string {
	classes := make([]string, 0, len(ll.classes))
	for c := range ll.classes {
		classes = append(classes, c)
	}
	sort.Strings(classes)
	return classes
}

// Descriptor returns the canonical "<ClassName><Count>..." string for the
// current set of (class, count) pairs in sorted class order, independent of
// insertion order within a class. Count is clamped to 9.
func (ll *LightList) Descriptor() string {
	ll.mu.RLock()
	defer ll.mu.RUnlock()
	return ll.computeDescriptor()
}

func (ll *LightList) computeDescriptor() string {
	var b strings.Builder
	for _, class := range ll.sortedClasses() {
		n := len(ll.classes[class])
		if n > 9 {
			n = 9
		}
		if n == 0 {
			continue
		}
		fmt.Fprintf(&b, "%s%d", class, n)
	}
	return b.String()
}

// DirtyBits returns the accumulated LIGHT_ADDED/LIGHT_REMOVED flags.
func (ll *LightList) DirtyBits() LightDirtyBits {
	ll.mu.RLock()
	defer ll.mu.RUnlock()
	return ll.dirty
}

// SharedLayout produces a GLSL-style uniform declaration for the shared
// light block, one array-of-struct per class.
func (ll *LightList) SharedLayout(useUBO bool) string {
	ll.mu.RLock()
	defer ll.mu.RUnlock()

	var b strings.Builder
	if useUBO {
		b.WriteString("layout(std140) uniform Lights_ubo {\n")
		for _, class := range ll.sortedClasses() {
			fmt.Fprintf(&b, "\tU%s classs[%d];\n", class, len(ll.classes[class]))
		}
		b.WriteString("};\n")
		return b.String()
	}
	for _, class := range ll.sortedClasses() {
		fmt.Fprintf(&b, "uniform U%s classs_%s[%d];\n", class, class, len(ll.classes[class]))
	}
	return b.String()
}

// UpdateLights recomputes the descriptor and, if the membership changed
// (LIGHT_ADDED set), reallocates the shared block and reassigns each
// light's offset, counted in floats, as the cumulative size of the lights
// before it in sorted-class/insertion-index order. It returns the shared block,
// (re)allocating it only when membership changed since the last call.
func (ll *LightList) UpdateLights(shared **UniformBlock) (*UniformBlock, error) {
	ll.mu.Lock()
	defer ll.mu.Unlock()

	ll.descriptor = ll.computeDescriptor()

	if ll.dirty&LightDirtyAdded != 0 || *shared == nil {
		var totalBytes uint32
		for _, class := range ll.sortedClasses() {
			for _, l := range ll.classes[class] {
				l.offset = totalBytes / 4
				totalBytes += l.TotalSize()
			}
		}
		numFloats := (totalBytes + 3) / 4
		if numFloats == 0 {
			numFloats = 1
		}
		block, err := NewUniformBlock("float v[1]", numFloats)
		if err != nil {
			return nil, err
		}
		*shared = block
		for _, class := range ll.sortedClasses() {
			for _, l := range ll.classes[class] {
				l.dirty = true
			}
		}
	}

	for _, class := range ll.sortedClasses() {
		for _, l := range ll.classes[class] {
			if l.dirty {
				raw := l.uniforms.GetData()
				base := l.offset * 4
				copy((*shared).GetData()[base:base+uint32(len(raw))], raw)
				(*shared).dirty = true
				l.dirty = false
			}
		}
	}

	ll.dirty = 0
	return *shared, nil
}
