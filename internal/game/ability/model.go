// Package ability holds the spell/skill definition subsystem: the record
// model, the id/name-keyed registry, the flat-text persistence codec, and
// the read-only gameplay lookup API.
package ability

import "fmt"

// Type distinguishes the two ability variants. It is fixed at creation.
type Type int

const (
	// TypeSpell abilities carry a SpellInfo payload.
	TypeSpell Type = iota
	// TypeSkill abilities carry a SkillInfo payload.
	TypeSkill
)

// TypeNames maps Type values to their block header names.
var TypeNames = []string{"Spell", "Skill"}

func (t Type) String() string {
	if int(t) >= 0 && int(t) < len(TypeNames) {
		return TypeNames[t]
	}
	return "Spell"
}

// BitSet is a single-word bitset over one of the fixed name vocabularies.
type BitSet uint32

// Has reports whether bit is set.
func (b BitSet) Has(bit int) bool { return b&(1<<uint(bit)) != 0 }

// Set returns b with bit set.
func (b BitSet) Set(bit int) BitSet { return b | (1 << uint(bit)) }

// Toggle returns b with bit flipped.
func (b BitSet) Toggle(bit int) BitSet { return b ^ (1 << uint(bit)) }

// Names renders the set bits using the given name table, or "NOBITS" when
// empty. Matches the legacy sprintbit rendering.
func (b BitSet) Names(table []string) string {
	if b == 0 {
		return "NOBITS"
	}
	out := ""
	for i, name := range table {
		if b.Has(i) {
			if out != "" {
				out += " "
			}
			out += name
		}
	}
	return out
}

// flagWords is the number of words in a FlagSet. Wider than the flag
// vocabulary needs today; kept for store compatibility.
const flagWords = 4

// FlagSet is a multi-word bit array for ability flags.
type FlagSet [flagWords]uint32

// Has reports whether bit is set.
func (f FlagSet) Has(bit int) bool {
	return f[bit/32]&(1<<uint(bit%32)) != 0
}

// Set sets bit in place.
func (f *FlagSet) Set(bit int) { f[bit/32] |= 1 << uint(bit%32) }

// Toggle flips bit in place.
func (f *FlagSet) Toggle(bit int) { f[bit/32] ^= 1 << uint(bit%32) }

// Clear resets every word to zero.
func (f *FlagSet) Clear() { *f = FlagSet{} }

// Empty reports whether no bit is set.
func (f FlagSet) Empty() bool { return f == FlagSet{} }

// Names renders the set bits using the given name table, or "NOBITS".
func (f FlagSet) Names(table []string) string {
	if f.Empty() {
		return "NOBITS"
	}
	out := ""
	for i, name := range table {
		if f.Has(i) {
			if out != "" {
				out += " "
			}
			out += name
		}
	}
	return out
}

// CostKind selects the live arm of the Cost union.
type CostKind int

const (
	// CostFixed uses the Min/Max/Change triple.
	CostFixed CostKind = iota
	// CostFormula uses the Formula expression.
	CostFormula
)

// Cost is the resource cost of an ability: either a fixed triple or a
// formula expression. Exactly one arm is live at a time.
type Cost struct {
	Kind    CostKind
	Min     int
	Max     int
	Change  int
	Formula string
}

// SetFixed makes the fixed triple the live arm and clears the formula.
func (c *Cost) SetFixed(min, max, change int) {
	c.Kind = CostFixed
	c.Min, c.Max, c.Change = min, max, change
	c.Formula = ""
}

// SetFormula makes the formula the live arm and zeroes the fixed triple.
func (c *Cost) SetFormula(expr string) {
	c.Kind = CostFormula
	c.Formula = expr
	c.Min, c.Max, c.Change = 0, 0, 0
}

// DamageKind selects the live arm of the Damage union.
type DamageKind int

const (
	// DamageNone means the ability deals no dice-based damage.
	DamageNone DamageKind = iota
	// DamageDice uses the DiceCount/DiceSize/Bonus triple.
	DamageDice
	// DamageFormula uses the Formula expression.
	DamageFormula
)

// Damage is the damage specification: absent, fixed dice, or a formula.
type Damage struct {
	Kind      DamageKind
	DiceCount int
	DiceSize  int
	Bonus     int
	Formula   string
}

// SetDice makes the dice triple the live arm and clears the formula.
func (d *Damage) SetDice(count, size, bonus int) {
	d.Kind = DamageDice
	d.DiceCount, d.DiceSize, d.Bonus = count, size, bonus
	d.Formula = ""
}

// SetFormula makes the formula the live arm and zeroes the dice triple.
func (d *Damage) SetFormula(expr string) {
	d.Kind = DamageFormula
	d.Formula = expr
	d.DiceCount, d.DiceSize, d.Bonus = 0, 0, 0
}

// Average returns the expected damage of the dice arm, 0 otherwise.
func (d Damage) Average() int {
	if d.Kind != DamageDice {
		return 0
	}
	return ((d.DiceCount+1)/2)*d.DiceSize + d.Bonus
}

// DurationKind selects the live arm of the Duration union.
type DurationKind int

const (
	// DurationFixed uses the Hours value.
	DurationFixed DurationKind = iota
	// DurationFormula uses the Formula expression.
	DurationFormula
)

// Duration is how long an applied affect lasts: a fixed hour count or a
// formula expression.
type Duration struct {
	Kind    DurationKind
	Hours   int
	Formula string
}

// SetFixed makes the fixed hour count the live arm and clears the formula.
func (d *Duration) SetFixed(hours int) {
	d.Kind = DurationFixed
	d.Hours = hours
	d.Formula = ""
}

// SetFormula makes the formula the live arm and zeroes the hour count.
func (d *Duration) SetFormula(expr string) {
	d.Kind = DurationFormula
	d.Formula = expr
	d.Hours = 0
}

// Affect is one (stat, modifier) pair an ability applies to a character.
type Affect struct {
	Location ApplyLocation
	Modifier int
}

// MessageSet holds the optional texts emitted for one message event kind.
// An empty string means the text is unset.
type MessageSet struct {
	ToChar string
	ToVict string
	ToRoom string
}

// Empty reports whether no text is set.
func (m MessageSet) Empty() bool {
	return m.ToChar == "" && m.ToVict == "" && m.ToRoom == ""
}

// SpellFunc is the callback bound to a manual spell.
type SpellFunc func(actor Actor, target Actor, ab *Ability) error

// SkillFunc is the callback bound to a manual skill.
type SkillFunc func(actor Actor, argument string, subcommand int) error

// SpellInfo is the spell-variant payload.
type SpellInfo struct {
	// FuncName is the symbolic name of the manual spell function.
	FuncName string
	// Func is the bound callback, resolved at load time. Nil until bound.
	Func SpellFunc
}

// Stun outcome indexes for SkillInfo stun values.
const (
	StunSuccess int = iota
	StunFail

	NumStunOutcomes
)

// SkillInfo is the skill-variant payload. Stun values are in violence
// pulses, indexed by success/fail outcome.
type SkillInfo struct {
	StunChar   [NumStunOutcomes]int
	StunVict   [NumStunOutcomes]int
	Subcommand int
	// FuncName is the symbolic name of the manual skill function.
	FuncName string
	// Func is the bound callback, resolved at load time. Nil until bound.
	Func SkillFunc
}

// Ability is a spell or skill definition record.
type Ability struct {
	// ID is the unique positive record id. 0 only during load.
	ID int
	// Name is the ability name, unique case-insensitively for lookup.
	Name string
	// Type is Spell or Skill; immutable after creation.
	Type Type

	MinPosition Position
	Violent     bool
	Routines    BitSet
	Targets     BitSet
	Flags       FlagSet

	// MinLevels holds the minimum level per class, LevelImmortal when
	// unreachable.
	MinLevels [NumClasses]int
	// MiscValues are auxiliary ints (e.g. vnums for summon/creation).
	MiscValues [NumMiscValues]int

	Cost     Cost
	Damage   Damage
	Duration Duration

	// Affects is the ordered list of stat modifiers, authoring order
	// preserved.
	Affects []Affect
	// Messages holds one optional message set per event kind.
	Messages [NumMessages]*MessageSet

	// Spell is non-nil iff Type == TypeSpell.
	Spell *SpellInfo
	// Skill is non-nil iff Type == TypeSkill.
	Skill *SkillInfo
}

// New creates an ability with the per-class level sentinel applied and the
// variant payload for typ allocated.
//
// Postcondition: Returns a non-nil Ability with exactly one variant payload.
func New(id int, name string, typ Type) *Ability {
	ab := &Ability{
		ID:   id,
		Name: name,
		Type: typ,
	}
	for i := range ab.MinLevels {
		ab.MinLevels[i] = LevelImmortal
	}
	switch typ {
	case TypeSkill:
		ab.Skill = &SkillInfo{}
	default:
		ab.Spell = &SpellInfo{}
	}
	return ab
}

// Clone returns a deep copy of the ability, used as an editor draft.
//
// Postcondition: Mutating the clone never mutates the receiver.
func (a *Ability) Clone() *Ability {
	cp := *a
	cp.Affects = make([]Affect, len(a.Affects))
	copy(cp.Affects, a.Affects)
	for i, m := range a.Messages {
		if m != nil {
			mc := *m
			cp.Messages[i] = &mc
		}
	}
	if a.Spell != nil {
		sp := *a.Spell
		cp.Spell = &sp
	}
	if a.Skill != nil {
		sk := *a.Skill
		cp.Skill = &sk
	}
	return &cp
}

// FuncName returns the manual function name of the live variant payload.
func (a *Ability) FuncName() string {
	switch {
	case a.Spell != nil:
		return a.Spell.FuncName
	case a.Skill != nil:
		return a.Skill.FuncName
	}
	return ""
}

// Validate checks record invariants outside the codec's concern.
//
// Postcondition: Returns nil, or an error naming the violated invariant.
func (a *Ability) Validate() error {
	if a.ID < 0 {
		return fmt.Errorf("ability %q: negative id %d", a.Name, a.ID)
	}
	if a.Name == "" {
		return fmt.Errorf("ability %d: empty name", a.ID)
	}
	if a.Type == TypeSpell && a.Spell == nil {
		return fmt.Errorf("ability %q: spell type without spell payload", a.Name)
	}
	if a.Type == TypeSkill && a.Skill == nil {
		return fmt.Errorf("ability %q: skill type without skill payload", a.Name)
	}
	if a.Routines.Has(RoutineManual) {
		if (a.Spell != nil && a.Spell.Func == nil) || (a.Skill != nil && a.Skill.Func == nil) {
			return fmt.Errorf("ability %q: manual routine without a bound function", a.Name)
		}
	}
	return nil
}
