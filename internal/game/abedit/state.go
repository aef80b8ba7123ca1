package abedit

// State identifies the menu or prompt a session is currently serving.
// Every received line is interpreted against the current state only.
type State int

const (
	StateMain State = iota

	// Scalar fields. The ability type is fixed at creation and has no
	// edit state.
	StateName
	StateMinPos
	StateViolent

	// Cost sub-menu and its fixed chain.
	StateCostMenu
	StateCostMin
	StateCostMax
	StateCostChange
	StateCostFormula

	// Damage sub-menu, mirroring cost.
	StateDamMenu
	StateDamCount
	StateDamSize
	StateDamBonus
	StateDamFormula

	// Bitset menus.
	StateFlags
	StateRoutines
	StateTargets

	// Per-class minimum levels.
	StateLevels

	// Affect list editing.
	StateAffects
	StateAffApply
	StateAffModifier
	StateAffDurMenu
	StateAffDurFixed
	StateAffDurFormula

	// Messages.
	StateMessages
	StateMsgKind
	StateMsgText

	// Type-specific.
	StateSkillMenu
	StateStunChar
	StateStunVict
	StateSubCmd
	StateManual

	// Misc values.
	StateMisc
	StateMiscValue

	// Terminal confirmations.
	StateConfirmDelete
	StateConfirmSave
	StateConfirmAdd
)
