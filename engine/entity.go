package engine

import (
	"github.com/lixenwraith/wa-tor/config"
	"github.com/lixenwraith/wa-tor/parameter"
)

// Kind tags the variant held by an Entity
type Kind uint8

const (
	KindEmpty Kind = iota
	KindFish
	KindShark
)

// String returns the kind name
func (k Kind) String() string {
	switch k {
	case KindEmpty:
		return "Empty"
	case KindFish:
		return "Fish"
	case KindShark:
		return "Shark"
	default:
		return "Unknown"
	}
}

// Entity is the occupant of one cell: Fish, Shark, or Empty
// Energy is meaningful only for sharks and stays zero otherwise
type Entity struct {
	Kind   Kind
	Age    int
	Energy int
}

// Empty is the unoccupied cell value
var Empty = Entity{}

// NewFish returns a fish of the given age
func NewFish(age int) Entity {
	return Entity{Kind: KindFish, Age: age}
}

// NewShark returns a shark of the given age and energy
func NewShark(age, energy int) Entity {
	return Entity{Kind: KindShark, Age: age, Energy: energy}
}

func (e Entity) IsFish() bool  { return e.Kind == KindFish }
func (e Entity) IsShark() bool { return e.Kind == KindShark }
func (e Entity) IsEmpty() bool { return e.Kind == KindEmpty }

// Deprive ages the entity by one chronon; shark energy floors at zero
func (e *Entity) Deprive() {
	switch e.Kind {
	case KindFish:
		e.Age++
	case KindShark:
		e.Age++
		if e.Energy > 0 {
			e.Energy--
		}
	case KindEmpty:
	}
}

// GainEnergy feeds a shark; no-op for other kinds
func (e *Entity) GainEnergy() {
	if e.Kind == KindShark {
		e.Energy += parameter.SharkEnergyGain
	}
}

// IsDead reports death by old age, or by starvation for sharks
func (e Entity) IsDead(cfg config.Config) bool {
	switch e.Kind {
	case KindFish:
		return e.Age >= cfg.FishAgeLimit
	case KindShark:
		return e.Age >= cfg.SharkAgeLimit || e.Energy == 0
	default:
		return false
	}
}

// CanReproduce reports whether a moving entity leaves offspring behind
func (e Entity) CanReproduce() bool {
	switch e.Kind {
	case KindFish:
		return e.Age >= parameter.FishBreedAge
	case KindShark:
		return e.Age >= parameter.SharkBreedAge
	default:
		return false
	}
}

// SpawnNew returns a newborn of the same kind; Empty yields Empty
func (e Entity) SpawnNew(cfg config.Config) Entity {
	switch e.Kind {
	case KindFish:
		return NewFish(0)
	case KindShark:
		return NewShark(0, cfg.SharkInitialEnergy)
	default:
		return Empty
	}
}

// Glyph is the one-byte cell code used by the stream frame
func (e Entity) Glyph() byte {
	switch e.Kind {
	case KindFish:
		return 'f'
	case KindShark:
		return 'S'
	default:
		return '.'
	}
}
