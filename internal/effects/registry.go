package effects

import (
	"github.com/coreman2200/funtimes-tubes/internal/beats"
	"github.com/coreman2200/funtimes-tubes/internal/tube"
)

// Def is one entry of the effect rotation.
type Def struct {
	Name    string
	Params  tube.EffectParams
	Control tube.Control
}

// Registry maps effect ids to definitions. Id 0 is the "no effect" fallback.
type Registry struct {
	list []Def
}

func NewRegistry(defs ...Def) *Registry {
	return &Registry{list: defs}
}

func (r *Registry) Len() int { return len(r.list) }

// Get returns the definition for id, wrapping out-of-range ids.
func (r *Registry) Get(id uint8) Def {
	if len(r.list) == 0 {
		return Def{Name: "none"}
	}
	return r.list[int(id)%len(r.list)]
}

func DefaultEffects() *Registry {
	short := tube.Control{Duration: tube.Short}
	medium := tube.Control{Duration: tube.Medium}
	return NewRegistry(
		Def{"none", tube.EffectParams{Mode: tube.None}, medium},
		Def{"glitter", tube.EffectParams{Mode: tube.Glitter, Pen: tube.White, Beat: beats.Continuous, Chance: 60}, medium},
		Def{"glitter-8th", tube.EffectParams{Mode: tube.Glitter, Pen: tube.Blend, Beat: beats.Eighth, Chance: 255}, short},
		Def{"erase-glitter", tube.EffectParams{Mode: tube.Glitter, Pen: tube.Erase, Beat: beats.Continuous, Chance: 120}, short},
		Def{"sparks", tube.EffectParams{Mode: tube.Spark, Pen: tube.Blend, Beat: beats.Sixteenth, Chance: 128}, short},
		Def{"beatbox", tube.EffectParams{Mode: tube.Beatbox, Pen: tube.Draw, Beat: beats.Beat, Chance: 255},
			tube.Control{Duration: tube.Short, Energy: tube.MediumEnergy}},
		Def{"bubbles", tube.EffectParams{Mode: tube.Bubble, Pen: tube.Blend, Beat: beats.Beat, Chance: 180}, medium},
		Def{"flash-measure", tube.EffectParams{Mode: tube.Flash, Pen: tube.Brighten, Beat: beats.Measure, Chance: 255},
			tube.Control{Duration: tube.Short, Energy: tube.HighEnergy}},
		Def{"drops", tube.EffectParams{Mode: tube.Drop, Pen: tube.Blend, Beat: beats.TwoBeats, Chance: 200}, medium},
		Def{"flicker", tube.EffectParams{Mode: tube.Glitter, Pen: tube.Flicker, Beat: beats.Continuous, Chance: 40},
			tube.Control{Duration: tube.Long}},
	)
}
