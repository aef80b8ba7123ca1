package ability

// ActorAffect is one active affect on an actor, tagged with the ability
// that applied it.
type ActorAffect struct {
	AbilityID int
	Location  ApplyLocation
	Modifier  int
}

// WornItem is one equipped item as seen by the success gates.
type WornItem struct {
	Affects []Affect
}

// Actor is the narrow view of a character consumed by the lookup API.
// Gameplay code supplies the concrete implementation.
type Actor interface {
	// IsNPC reports whether the actor is a non-player.
	IsNPC() bool
	// Level returns the actor's current level.
	Level() int
	// Class returns the actor's class index.
	Class() int
	// SkillValue returns the stored value for the ability: the raw skill
	// number for NPCs, the per-ability proficiency for players.
	SkillValue(abilityID int) int
	// Worn returns the actor's equipped items across all wear slots.
	Worn() []WornItem
	// Affected returns the actor's active affect list.
	Affected() []ActorAffect
}

// Roller supplies the percentage rolls for the success gates.
type Roller interface {
	// Percent reports whether a 1-100 roll lands at or under chance.
	Percent(chance int) bool
}

// Lookup is the read-only gameplay query surface over a Registry.
type Lookup struct {
	reg    *Registry
	roller Roller
}

// NewLookup creates a Lookup backed by reg.
//
// Precondition: reg and roller must be non-nil.
func NewLookup(reg *Registry, roller Roller) *Lookup {
	return &Lookup{reg: reg, roller: roller}
}

// GetByID re-exports Registry.GetByID for gameplay callers.
func (l *Lookup) GetByID(id int) (*Ability, bool) { return l.reg.GetByID(id) }

// GetByName re-exports Registry.GetByName for gameplay callers.
func (l *Lookup) GetByName(name string) (*Ability, bool) { return l.reg.GetByName(name) }

// AbilityIDByName returns the id of the named ability, or -1 when absent.
func (l *Lookup) AbilityIDByName(name string) int {
	if ab, ok := l.reg.GetByName(name); ok {
		return ab.ID
	}
	return -1
}

// SkillSuccess reports whether actor succeeds at the given ability.
//
// NPC chance is (level + skill)/2, forced to zero when the actor's
// class minimum level exceeds its level. Player chance is the stored
// proficiency. A positive chance is first run through the equipment proc
// gate and the affect modifier gate; if neither decides the outcome the
// roll falls back to a percentage check against the chance clamped to
// [0, 99].
//
// Precondition: actor must be non-nil.
func (l *Lookup) SkillSuccess(actor Actor, abilityID int) bool {
	ab, ok := l.reg.GetByID(abilityID)
	if !ok {
		return false
	}

	var chance int
	if actor.IsNPC() {
		class := actor.Class()
		if class >= 0 && class < NumClasses && ab.MinLevels[class] > actor.Level() {
			chance = 0
		} else {
			chance = (actor.Level() + actor.SkillValue(abilityID)) / 2
		}
	} else {
		chance = actor.SkillValue(abilityID)
	}

	if chance > 0 {
		if l.equipmentSuccess(actor) {
			return true
		}
		if decided, success := l.affectSuccess(actor); decided {
			return success
		}
	}

	if chance < 0 {
		chance = 0
	}
	if chance > 99 {
		chance = 99
	}
	return l.roller.Percent(chance)
}

// SkillSuccessByName is SkillSuccess addressed by ability name.
func (l *Lookup) SkillSuccessByName(actor Actor, name string) bool {
	id := l.AbilityIDByName(name)
	if id < 0 {
		return false
	}
	return l.SkillSuccess(actor, id)
}

// equipmentSuccess scans every worn item's affect entries for a proc that
// rolls successful.
func (l *Lookup) equipmentSuccess(actor Actor) bool {
	for _, item := range actor.Worn() {
		for _, af := range item.Affects {
			if af.Location == ApplySkillSuccess && l.roller.Percent(af.Modifier) {
				return true
			}
		}
	}
	return false
}

// affectSuccess scans the actor's active affects for a skill-success
// modifier. A positive modifier can force success, a negative one can
// force failure; the first affect whose roll lands decides.
//
// Postcondition: decided is false when no skill-success affect rolled.
func (l *Lookup) affectSuccess(actor Actor) (decided, success bool) {
	for _, af := range actor.Affected() {
		if af.Location != ApplySkillSuccess {
			continue
		}
		if af.Modifier > 0 && l.roller.Percent(af.Modifier) {
			return true, true
		}
		if af.Modifier < 0 && l.roller.Percent(-af.Modifier) {
			return true, false
		}
	}
	return false, false
}

// IsAffectedByAbilityID reports whether actor carries an active affect
// applied by the given ability.
//
// Precondition: actor must be non-nil.
func (l *Lookup) IsAffectedByAbilityID(actor Actor, abilityID int) bool {
	for _, af := range actor.Affected() {
		if af.AbilityID == abilityID {
			return true
		}
	}
	return false
}

// IsAffectedByAbilityName is IsAffectedByAbilityID addressed by name.
func (l *Lookup) IsAffectedByAbilityName(actor Actor, name string) bool {
	id := l.AbilityIDByName(name)
	if id < 0 {
		return false
	}
	return l.IsAffectedByAbilityID(actor, id)
}
