// Package actor provides the character snapshot consumed by the ability
// lookup API: proficiencies, worn equipment, and active affects.
package actor

import "github.com/ravenmud/mud/internal/game/ability"

// Actor is a concrete character as seen by ability queries. Gameplay
// systems populate it; this subsystem only reads it.
type Actor struct {
	// Name is the character display name (for logging).
	Name string
	// NPC marks a non-player character.
	NPC bool
	// ClassIndex is the character class index.
	ClassIndex int
	// CharLevel is the current level.
	CharLevel int
	// Skills maps ability id to the stored skill/proficiency value.
	Skills map[int]int
	// Equipment is the worn item list across all wear slots.
	Equipment []ability.WornItem
	// Affects is the active affect list.
	Affects []ability.ActorAffect
}

// IsNPC reports whether the actor is a non-player.
func (a *Actor) IsNPC() bool { return a.NPC }

// Level returns the actor's current level.
func (a *Actor) Level() int { return a.CharLevel }

// Class returns the actor's class index.
func (a *Actor) Class() int { return a.ClassIndex }

// SkillValue returns the stored value for the given ability, 0 when unset.
func (a *Actor) SkillValue(abilityID int) int { return a.Skills[abilityID] }

// Worn returns the actor's equipped items.
func (a *Actor) Worn() []ability.WornItem { return a.Equipment }

// Affected returns the actor's active affect list.
func (a *Actor) Affected() []ability.ActorAffect { return a.Affects }
