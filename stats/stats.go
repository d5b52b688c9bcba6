package stats

import (
	"math"
	"sort"
)

// StatID enumerates the player modifiers tracked by the stats engine.
type StatID uint8

const (
	// StatRunSpeed is an additive offset applied to the player's run speed.
	StatRunSpeed StatID = iota
	// StatDefense is an additive defense offset; negative values increase damage taken.
	StatDefense
	// StatGravity scales the world gravity applied to the player.
	StatGravity
	// StatScale scales the player model and collision cylinder.
	StatScale

	StatCount
)

var statNames = [StatCount]string{
	StatRunSpeed: "runSpeed",
	StatDefense:  "defense",
	StatGravity:  "gravity",
	StatScale:    "scale",
}

func (id StatID) String() string {
	if id >= StatCount {
		return "unknown"
	}
	return statNames[id]
}

// Layer describes the precedence order for additive and multiplicative modifiers.
type Layer uint8

const (
	LayerBase Layer = iota
	LayerEquipment
	LayerInteraction
	LayerAdmin

	LayerCount
)

// SourceKind identifies the origin of a stat modifier for deterministic ordering.
type SourceKind uint8

const (
	SourceKindUnknown SourceKind = iota
	SourceKindBaseline
	SourceKindEquipment
	SourceKindInteraction
	SourceKindAdmin
)

// SourceKey uniquely identifies the origin of a modifier inside a layer.
type SourceKey struct {
	Kind SourceKind
	ID   string
}

// ValueSet stores a fixed vector of stat values.
type ValueSet [StatCount]float64

// OverrideValue represents a stat override entry.
type OverrideValue struct {
	Active bool
	Value  float64
}

// OverrideSet stores per-stat override entries.
type OverrideSet [StatCount]OverrideValue

// LayerStack caches the aggregate contributions for a modifier layer.
type LayerStack struct {
	add      ValueSet
	mul      ValueSet
	override OverrideSet
	version  uint64
}

// Component owns the modifier state for the player and caches the folded totals.
type Component struct {
	layers  [LayerCount]LayerStack
	sources map[Layer]map[SourceKey]StatDelta
	totals  ValueSet
	dirty   bool
	version uint64
}

// StatDelta captures additive, multiplicative, and override contributions supplied by a source.
type StatDelta struct {
	Add      ValueSet
	Mul      ValueSet
	Override OverrideSet
}

// CommandStatChange represents an atomic mutation applied to the component.
type CommandStatChange struct {
	Layer  Layer
	Source SourceKey
	Delta  StatDelta
	Remove bool
}

// Baseline returns the neutral player values: no speed or defense offset and
// unit gravity and scale.
func Baseline() ValueSet {
	return ValueSet{
		StatRunSpeed: 0,
		StatDefense:  0,
		StatGravity:  1,
		StatScale:    1,
	}
}

// NewComponent constructs a component seeded with the provided base values.
func NewComponent(base ValueSet) Component {
	c := Component{}
	c.ensureInit()
	baseDelta := NewStatDelta()
	baseDelta.Add = base
	c.applySource(LayerBase, SourceKey{Kind: SourceKindBaseline, ID: "base"}, baseDelta)
	c.Resolve()
	return c
}

func (c *Component) ensureInit() {
	if c.sources != nil {
		return
	}
	c.sources = make(map[Layer]map[SourceKey]StatDelta)
	for layer := Layer(0); layer < LayerCount; layer++ {
		c.layers[layer].mul = unitValueSet()
	}
	c.dirty = true
}

// NewStatDelta creates a delta with neutral multiplicative values.
func NewStatDelta() StatDelta {
	d := StatDelta{}
	d.Mul = unitValueSet()
	return d
}

// Apply mutates the component according to the provided command.
func (c *Component) Apply(change CommandStatChange) {
	if c == nil {
		return
	}
	c.ensureInit()
	if change.Layer >= LayerCount {
		return
	}
	if change.Remove {
		if c.removeSource(change.Layer, change.Source) {
			c.dirty = true
		}
		return
	}
	if c.applySource(change.Layer, change.Source, change.Delta) {
		c.dirty = true
	}
}

// HasSource reports whether a source currently contributes to a layer.
func (c *Component) HasSource(layer Layer, key SourceKey) bool {
	if c == nil || c.sources == nil {
		return false
	}
	_, ok := c.sources[layer][key]
	return ok
}

// Resolve folds all layers in deterministic order.
func (c *Component) Resolve() {
	if c == nil {
		return
	}
	c.ensureInit()
	if !c.dirty {
		return
	}

	total := c.layers[LayerBase].add
	multiplyValueSet(&total, c.layers[LayerBase].mul)
	applyOverrides(&total, c.layers[LayerBase].override)

	for layer := LayerEquipment; layer < LayerCount; layer++ {
		stack := &c.layers[layer]
		addValueSet(&total, stack.add)
		multiplyValueSet(&total, stack.mul)
		applyOverrides(&total, stack.override)
	}

	c.totals = total
	c.version++
	c.dirty = false
}

// Totals resolves pending changes and returns the folded values.
func (c *Component) Totals() ValueSet {
	c.Resolve()
	return c.totals
}

// GetTotal resolves pending changes and returns the total for a specific stat.
func (c *Component) GetTotal(id StatID) float64 {
	if id >= StatCount {
		return 0
	}
	c.Resolve()
	return c.totals[id]
}

// Version returns the component version updated on each resolve.
func (c *Component) Version() uint64 {
	return c.version
}

// Clone returns a deep copy of the component.
func (c *Component) Clone() Component {
	clone := *c
	if c.sources != nil {
		clone.sources = make(map[Layer]map[SourceKey]StatDelta, len(c.sources))
		for layer, entries := range c.sources {
			copied := make(map[SourceKey]StatDelta, len(entries))
			for key, delta := range entries {
				copied[key] = delta
			}
			clone.sources[layer] = copied
		}
	}
	return clone
}

func (c *Component) applySource(layer Layer, key SourceKey, delta StatDelta) bool {
	if c.sources[layer] == nil {
		c.sources[layer] = make(map[SourceKey]StatDelta)
	}
	if current, ok := c.sources[layer][key]; ok && sourcesEqual(current, delta) {
		return false
	}
	c.sources[layer][key] = delta
	c.rebuildLayerStack(layer)
	return true
}

func (c *Component) removeSource(layer Layer, key SourceKey) bool {
	entries := c.sources[layer]
	if len(entries) == 0 {
		return false
	}
	if _, ok := entries[key]; !ok {
		return false
	}
	delete(entries, key)
	if len(entries) == 0 {
		delete(c.sources, layer)
	}
	c.rebuildLayerStack(layer)
	return true
}

func (c *Component) rebuildLayerStack(layer Layer) {
	stack := &c.layers[layer]
	stack.add = ValueSet{}
	stack.mul = unitValueSet()
	stack.override = OverrideSet{}
	entries := c.sources[layer]
	if len(entries) == 0 {
		stack.version++
		return
	}
	keys := make([]SourceKey, 0, len(entries))
	for key := range entries {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Kind != keys[j].Kind {
			return keys[i].Kind < keys[j].Kind
		}
		return keys[i].ID < keys[j].ID
	})
	for _, key := range keys {
		src := entries[key]
		addValueSet(&stack.add, src.Add)
		multiplyValueSet(&stack.mul, src.Mul)
		mergeOverrides(&stack.override, src.Override)
	}
	stack.version++
}

func addValueSet(target *ValueSet, other ValueSet) {
	for i := range target {
		target[i] += other[i]
	}
}

func multiplyValueSet(target *ValueSet, other ValueSet) {
	for i := range target {
		target[i] *= other[i]
	}
}

func applyOverrides(target *ValueSet, overrides OverrideSet) {
	for i := range overrides {
		if overrides[i].Active {
			target[i] = overrides[i].Value
		}
	}
}

func mergeOverrides(target *OverrideSet, other OverrideSet) {
	for i := range other {
		if other[i].Active {
			target[i] = other[i]
		}
	}
}

func unitValueSet() ValueSet {
	var vs ValueSet
	for i := range vs {
		vs[i] = 1
	}
	return vs
}

func sourcesEqual(a, b StatDelta) bool {
	for i := range a.Add {
		if math.Abs(a.Add[i]-b.Add[i]) > 1e-9 {
			return false
		}
		if math.Abs(a.Mul[i]-b.Mul[i]) > 1e-9 {
			return false
		}
		if a.Override[i].Active != b.Override[i].Active {
			return false
		}
		if a.Override[i].Active && math.Abs(a.Override[i].Value-b.Override[i].Value) > 1e-9 {
			return false
		}
	}
	return true
}
