package game

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Garsondee/Field-Command/assets"
)

// ErrUnknownUnitType is returned when a unit type is not in the registry.
var ErrUnknownUnitType = errors.New("unknown unit type")

// AttackKind selects how a unit resolves its basic attack.
type AttackKind int

const (
	AttackMelee  AttackKind = iota // damage applied directly
	AttackRanged                   // spawns a ballistic bullet
)

func (k AttackKind) String() string {
	if k == AttackRanged {
		return "ranged"
	}
	return "melee"
}

// AbilityDef holds the tunables of one ability class.
type AbilityDef struct {
	Cost     float64 `yaml:"cost"`     // mana debited once on activation
	Drain    float64 `yaml:"drain"`    // mana per second while active (continuous abilities)
	Cooldown float64 `yaml:"cooldown"` // seconds before the ability can be used again
	Range    int     `yaml:"range"`    // tiles
	Amount   float64 `yaml:"amount"`   // heal amount / sniper shot damage
}

// Prototype is an immutable unit archetype. Units are cloned from it.
type Prototype struct {
	Type         string
	HP           float64
	Speed        float64 // px per second
	Damage       float64
	Vision       int // tiles
	Range        int // tiles
	AttackPeriod float64
	Attack       AttackKind
	Mana         float64
	MaxMana      float64
	ManaRegen    float64 // per second
	Detector     bool
	Abilities    AbilitySet
	Animations   map[string]string
}

// unitDef is the on-disk form of a prototype.
type unitDef struct {
	HP         float64           `yaml:"hp"`
	Speed      float64           `yaml:"speed"`
	Damage     float64           `yaml:"damage"`
	Vision     int               `yaml:"vision"`
	Range      int               `yaml:"range"`
	Cooldown   float64           `yaml:"cooldown"`
	Attack     string            `yaml:"attack"`
	Mana       float64           `yaml:"mana"`
	MaxMana    float64           `yaml:"max_mana"`
	ManaRegen  float64           `yaml:"mana_regen"`
	Detector   bool              `yaml:"detector"`
	Abilities  []string          `yaml:"abilities"`
	Animations map[string]string `yaml:"animations"`
}

type registryFile struct {
	Abilities map[string]AbilityDef `yaml:"abilities"`
	Units     map[string]unitDef    `yaml:"units"`
}

// Registry maps unit type names to prototypes and ability names to their
// definitions. It is read-only after load.
type Registry struct {
	units     map[string]*Prototype
	abilities map[AbilityID]AbilityDef
}

// LoadRegistry reads and validates a prototype data file.
func LoadRegistry(path string) (*Registry, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read unit registry: %w", err)
	}
	return ParseRegistry(b)
}

// ParseRegistry decodes a prototype data document. Unknown keys, unknown
// abilities or attack kinds and non-positive stats are errors.
func ParseRegistry(data []byte) (*Registry, error) {
	var rf registryFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&rf); err != nil {
		return nil, fmt.Errorf("decode unit registry: %w", err)
	}
	if len(rf.Units) == 0 {
		return nil, errors.New("unit registry defines no units")
	}

	r := &Registry{
		units:     make(map[string]*Prototype, len(rf.Units)),
		abilities: make(map[AbilityID]AbilityDef, len(rf.Abilities)),
	}
	for name, def := range rf.Abilities {
		id, ok := ParseAbility(name)
		if !ok {
			return nil, fmt.Errorf("ability %q: unknown ability", name)
		}
		if def.Cost < 0 || def.Drain < 0 || def.Cooldown < 0 || def.Range < 0 {
			return nil, fmt.Errorf("ability %q: negative parameter", name)
		}
		r.abilities[id] = def
	}
	for name, def := range rf.Units {
		p, err := r.buildPrototype(name, def)
		if err != nil {
			return nil, err
		}
		r.units[name] = p
	}
	return r, nil
}

func (r *Registry) buildPrototype(name string, def unitDef) (*Prototype, error) {
	if def.HP <= 0 {
		return nil, fmt.Errorf("unit %q: hp must be positive", name)
	}
	if def.Speed < 0 || def.Damage < 0 || def.Vision < 0 || def.Range < 0 || def.Cooldown < 0 {
		return nil, fmt.Errorf("unit %q: negative stat", name)
	}
	if def.MaxMana < def.Mana {
		def.MaxMana = def.Mana
	}
	p := &Prototype{
		Type:         name,
		HP:           def.HP,
		Speed:        def.Speed,
		Damage:       def.Damage,
		Vision:       def.Vision,
		Range:        max(def.Range, 1),
		AttackPeriod: def.Cooldown,
		Mana:         def.Mana,
		MaxMana:      def.MaxMana,
		ManaRegen:    def.ManaRegen,
		Detector:     def.Detector,
		Animations:   def.Animations,
	}
	switch def.Attack {
	case "", "melee":
		p.Attack = AttackMelee
	case "ranged":
		p.Attack = AttackRanged
	default:
		return nil, fmt.Errorf("unit %q: unknown attack kind %q", name, def.Attack)
	}
	for _, a := range def.Abilities {
		id, ok := ParseAbility(a)
		if !ok {
			return nil, fmt.Errorf("unit %q: unknown ability %q", name, a)
		}
		if _, defined := r.abilities[id]; !defined {
			return nil, fmt.Errorf("unit %q: ability %q has no definition", name, a)
		}
		p.Abilities = p.Abilities.With(id)
	}
	return p, nil
}

// Lookup returns the prototype for a unit type.
func (r *Registry) Lookup(typ string) (*Prototype, bool) {
	p, ok := r.units[typ]
	return p, ok
}

// Ability returns the definition of an ability class.
func (r *Registry) Ability(id AbilityID) (AbilityDef, bool) {
	d, ok := r.abilities[id]
	return d, ok
}

// TypeNames returns every registered unit type in sorted order.
func (r *Registry) TypeNames() []string {
	names := make([]string, 0, len(r.units))
	for n := range r.units {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Describe renders the registry as a table, one unit type per line.
func (r *Registry) Describe() string {
	var sb strings.Builder
	for _, n := range r.TypeNames() {
		p := r.units[n]
		fmt.Fprintf(&sb, "%-10s hp=%-5.0f spd=%-4.0f dmg=%-4.0f vis=%-2d rng=%-2d cd=%.2fs %-6s mana=%.0f/%.0f abilities=%s\n",
			n, p.HP, p.Speed, p.Damage, p.Vision, p.Range, p.AttackPeriod, p.Attack, p.Mana, p.MaxMana, p.Abilities)
	}
	return sb.String()
}

// DefaultRegistry parses the embedded unit registry.
func DefaultRegistry() (*Registry, error) {
	return ParseRegistry(assets.Units)
}
