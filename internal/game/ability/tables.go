package ability

import "strings"

// Position is the minimum character position required to use an ability.
type Position int

// Positions in worst-to-best order. The on-disk format stores the name.
const (
	PosDead Position = iota
	PosMortallyWounded
	PosIncapacitated
	PosStunned
	PosSleeping
	PosResting
	PosSitting
	PosFighting
	PosStanding
)

// PositionNames maps Position values to their store and display names.
var PositionNames = []string{
	"Dead",
	"Mortally wounded",
	"Incapacitated",
	"Stunned",
	"Sleeping",
	"Resting",
	"Sitting",
	"Fighting",
	"Standing",
}

func (p Position) String() string {
	if int(p) >= 0 && int(p) < len(PositionNames) {
		return PositionNames[p]
	}
	return "Unknown"
}

// Routine bits describe the effect mechanisms an ability applies.
const (
	RoutineDamages int = iota
	RoutineAffects
	RoutineUnaffects
	RoutinePoints
	RoutineAlterObj
	RoutineGroups
	RoutineMasses
	RoutineAreas
	RoutineSummons
	RoutineCreations
	RoutineManual
	RoutineRooms

	NumRoutines
)

// RoutineNames maps routine bit positions to their store names.
var RoutineNames = []string{
	"Damages",
	"Affects",
	"Unaffects",
	"Points",
	"AlterObj",
	"Groups",
	"Masses",
	"Areas",
	"Summons",
	"Creations",
	"Manual",
	"Rooms",
}

// Target bits describe the legal target classes of an ability.
const (
	TargetIgnore int = iota
	TargetCharInRoom
	TargetCharInWorld
	TargetFightSelf
	TargetFightVict
	TargetSelfOnly
	TargetNotSelf
	TargetObjInInv
	TargetObjInRoom
	TargetObjInWorld
	TargetObjEquiped

	NumTargets
)

// TargetNames maps target bit positions to their store names.
var TargetNames = []string{
	"Ignore",
	"CharInRoom",
	"CharInWorld",
	"FightSelf",
	"FightVict",
	"SelfOnly",
	"NotSelf",
	"ObjInInv",
	"ObjInRoom",
	"ObjInWorld",
	"ObjEquiped",
}

// Ability flag bit positions.
const (
	FlagAccumDuration int = iota
	FlagAccumApply
	FlagCostsVigor
	FlagAntiGood
	FlagAntiNeutral
	FlagAntiEvil
	FlagRequireObj

	NumFlags
)

// FlagNames maps flag bit positions to their store names.
var FlagNames = []string{
	"AccumDuration",
	"AccumApply",
	"CostsVigor",
	"AntiGood",
	"AntiNeutral",
	"AntiEvil",
	"RequireObj",
}

// Message event kinds.
const (
	MsgSuccess int = iota
	MsgFail
	MsgWearOff
	MsgGodVict
	MsgDeath

	NumMessages
)

// MessageKindNames maps message event kinds to their store names.
var MessageKindNames = []string{
	"Success",
	"Fail",
	"WearOff",
	"GodVict",
	"Death",
}

// Message recipients.
const (
	MsgToChar int = iota
	MsgToVict
	MsgToRoom

	NumMessageTo
)

// MessageToNames maps message recipients to their store names.
var MessageToNames = []string{
	"ToChar",
	"ToVict",
	"ToRoom",
}

// ApplyLocation is a character stat an affect can modify.
type ApplyLocation int

// ApplySkillSuccess is the apply location consulted by the skill-success
// affect gate. Index matches its position in ApplyNames.
const ApplySkillSuccess ApplyLocation = 31

// ApplyNone is the placeholder apply location.
const ApplyNone ApplyLocation = 0

// ApplyNames maps ApplyLocation values to their store names.
var ApplyNames = []string{
	"NONE",
	"STR",
	"DEX",
	"INT",
	"WIS",
	"CON",
	"CHA",
	"CLASS",
	"LEVEL",
	"AGE",
	"CHAR_WEIGHT",
	"CHAR_HEIGHT",
	"MAXMANA",
	"MAXHIT",
	"MAXMOVE",
	"GOLD",
	"EXP",
	"ARMOR",
	"HITROLL",
	"DAMROLL",
	"SAVING_PARA",
	"SAVING_ROD",
	"SAVING_PETRI",
	"SAVING_BREATH",
	"SAVING_SPELL",
	"POISON",
	"PLAGUE",
	"MANA_COST",
	"SPELL_SAVES",
	"SPELL_DAMAGE",
	"SPELL_DURATION",
	"SKILL_SUCCESS",
	"USELEVEL",
}

func (a ApplyLocation) String() string {
	if int(a) >= 0 && int(a) < len(ApplyNames) {
		return ApplyNames[a]
	}
	return "NONE"
}

// Character classes. The store keys per-class levels by abbreviation.
const (
	ClassMagicUser int = iota
	ClassCleric
	ClassThief
	ClassWarrior

	NumClasses
)

// ClassAbbrevs maps class indexes to their store abbreviations.
var ClassAbbrevs = []string{"Mu", "Cl", "Th", "Wa"}

// ClassNames maps class indexes to display names.
var ClassNames = []string{"Magic User", "Cleric", "Thief", "Warrior"}

// LevelImmortal is the "unreachable" per-class level sentinel assigned to
// every class at creation.
const LevelImmortal = 31

// NumMiscValues is the number of auxiliary integer slots per ability.
const NumMiscValues = 5

// IndexOfName returns the index of name in table, matching
// case-insensitively, or -1 when absent.
func IndexOfName(name string, table []string) int {
	for i, n := range table {
		if strings.EqualFold(n, name) {
			return i
		}
	}
	return -1
}
