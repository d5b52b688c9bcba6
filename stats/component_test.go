package stats

import "testing"

func TestComponentLayerOrder(t *testing.T) {
	comp := NewComponent(Baseline())

	equipment := NewStatDelta()
	equipment.Add[StatRunSpeed] = 2
	equipment.Mul[StatGravity] = 1.5
	comp.Apply(CommandStatChange{
		Layer:  LayerEquipment,
		Source: SourceKey{Kind: SourceKindEquipment, ID: "iron-boots"},
		Delta:  equipment,
	})

	interaction := NewStatDelta()
	interaction.Override[StatGravity] = OverrideValue{Active: true, Value: 0.5}
	comp.Apply(CommandStatChange{
		Layer:  LayerInteraction,
		Source: SourceKey{Kind: SourceKindInteraction, ID: "modify_gravity"},
		Delta:  interaction,
	})

	if got := comp.GetTotal(StatRunSpeed); got != 2 {
		t.Fatalf("expected run speed offset 2, got %.2f", got)
	}
	if got := comp.GetTotal(StatGravity); got != 0.5 {
		t.Fatalf("expected gravity override 0.5, got %.2f", got)
	}

	comp.Apply(CommandStatChange{
		Layer:  LayerInteraction,
		Source: SourceKey{Kind: SourceKindInteraction, ID: "modify_gravity"},
		Remove: true,
	})
	if got := comp.GetTotal(StatGravity); got != 1.5 {
		t.Fatalf("expected gravity to fall back to equipment value 1.5, got %.2f", got)
	}
}

func TestComponentSourcesStackDeterministically(t *testing.T) {
	comp := NewComponent(Baseline())
	for _, id := range []string{"b", "a"} {
		delta := NewStatDelta()
		delta.Add[StatDefense] = 1
		delta.Mul[StatScale] = 2
		comp.Apply(CommandStatChange{
			Layer:  LayerInteraction,
			Source: SourceKey{Kind: SourceKindInteraction, ID: id},
			Delta:  delta,
		})
	}

	if got := comp.GetTotal(StatDefense); got != 2 {
		t.Fatalf("expected defense offset 2, got %.2f", got)
	}
	if got := comp.GetTotal(StatScale); got != 4 {
		t.Fatalf("expected scale 4, got %.2f", got)
	}
	if !comp.HasSource(LayerInteraction, SourceKey{Kind: SourceKindInteraction, ID: "a"}) {
		t.Fatal("expected source a to be tracked")
	}
}

func TestComponentIgnoresRedundantChanges(t *testing.T) {
	comp := NewComponent(Baseline())
	delta := NewStatDelta()
	delta.Add[StatRunSpeed] = 3
	change := CommandStatChange{
		Layer:  LayerInteraction,
		Source: SourceKey{Kind: SourceKindInteraction, ID: "speed"},
		Delta:  delta,
	}
	comp.Apply(change)
	comp.Resolve()
	version := comp.Version()

	comp.Apply(change)
	comp.Resolve()
	if comp.Version() != version {
		t.Fatalf("expected identical change to keep version %d, got %d", version, comp.Version())
	}

	comp.Apply(CommandStatChange{Layer: LayerInteraction, Source: SourceKey{Kind: SourceKindInteraction, ID: "missing"}, Remove: true})
	comp.Resolve()
	if comp.Version() != version {
		t.Fatalf("expected removing unknown source to be a no-op")
	}
}

func TestComponentCloneIsIndependent(t *testing.T) {
	comp := NewComponent(Baseline())
	clone := comp.Clone()

	delta := NewStatDelta()
	delta.Add[StatDefense] = -4
	clone.Apply(CommandStatChange{
		Layer:  LayerInteraction,
		Source: SourceKey{Kind: SourceKindInteraction, ID: "defense"},
		Delta:  delta,
	})

	if got := comp.GetTotal(StatDefense); got != 0 {
		t.Fatalf("expected original defense untouched, got %.2f", got)
	}
	if got := clone.GetTotal(StatDefense); got != -4 {
		t.Fatalf("expected clone defense -4, got %.2f", got)
	}
}

func TestComponentRejectsUnknownLayer(t *testing.T) {
	comp := NewComponent(Baseline())
	comp.Apply(CommandStatChange{Layer: LayerCount, Source: SourceKey{ID: "x"}, Delta: NewStatDelta()})
	if got := comp.Totals(); got != Baseline() {
		t.Fatalf("expected baseline totals, got %v", got)
	}
	if StatScale.String() != "scale" || StatCount.String() != "unknown" {
		t.Fatal("unexpected stat names")
	}
}
