package abedit

import (
	"strconv"
	"strings"

	"github.com/ravenmud/mud/internal/game/ability"
	"github.com/ravenmud/mud/internal/game/dice"
)

// transitions maps each state to its input handler. Handlers mutate the
// session and print error or info lines; the menu for the resulting state
// is rendered afterwards by Process.
var transitions = map[State]func(*Session, string){
	StateMain:          (*Session).handleMain,
	StateName:          (*Session).handleName,
	StateMinPos:        (*Session).handleMinPos,
	StateViolent:       (*Session).handleViolent,
	StateCostMenu:      (*Session).handleCostMenu,
	StateCostMin:       (*Session).handleCostMin,
	StateCostMax:       (*Session).handleCostMax,
	StateCostChange:    (*Session).handleCostChange,
	StateCostFormula:   (*Session).handleCostFormula,
	StateDamMenu:       (*Session).handleDamMenu,
	StateDamCount:      (*Session).handleDamCount,
	StateDamSize:       (*Session).handleDamSize,
	StateDamBonus:      (*Session).handleDamBonus,
	StateDamFormula:    (*Session).handleDamFormula,
	StateFlags:         (*Session).handleFlags,
	StateRoutines:      (*Session).handleRoutines,
	StateTargets:       (*Session).handleTargets,
	StateLevels:        (*Session).handleLevels,
	StateAffects:       (*Session).handleAffects,
	StateAffApply:      (*Session).handleAffApply,
	StateAffModifier:   (*Session).handleAffModifier,
	StateAffDurMenu:    (*Session).handleAffDurMenu,
	StateAffDurFixed:   (*Session).handleAffDurFixed,
	StateAffDurFormula: (*Session).handleAffDurFormula,
	StateMessages:      (*Session).handleMessages,
	StateMsgKind:       (*Session).handleMsgKind,
	StateMsgText:       (*Session).handleMsgText,
	StateSkillMenu:     (*Session).handleSkillMenu,
	StateStunChar:      (*Session).handleStunChar,
	StateStunVict:      (*Session).handleStunVict,
	StateSubCmd:        (*Session).handleSubCmd,
	StateManual:        (*Session).handleManual,
	StateMisc:          (*Session).handleMisc,
	StateMiscValue:     (*Session).handleMiscValue,
	StateConfirmDelete: (*Session).handleConfirmDelete,
	StateConfirmSave:   (*Session).handleConfirmSave,
	StateConfirmAdd:    (*Session).handleConfirmAdd,
}

func parseInt(input string) (int, bool) {
	n, err := strconv.Atoi(input)
	return n, err == nil
}

// isBack matches the universal return-to-parent inputs.
func isBack(input string) bool {
	return input == "0" || strings.EqualFold(input, "q")
}

func (s *Session) handleMain(input string) {
	switch strings.ToUpper(input) {
	case "1":
		s.state = StateName
	case "2":
		s.print("The type is fixed when the ability is created.")
	case "3":
		s.state = StateMinPos
	case "4":
		s.state = StateViolent
	case "5":
		s.state = StateCostMenu
	case "6":
		s.state = StateDamMenu
	case "7":
		s.state = StateFlags
	case "8":
		s.state = StateRoutines
	case "9":
		s.state = StateTargets
	case "L":
		s.state = StateLevels
	case "A":
		s.state = StateAffects
	case "M":
		s.state = StateMessages
	case "T":
		if s.draft.Type == ability.TypeSkill {
			s.state = StateSkillMenu
		} else {
			s.state = StateManual
		}
	case "V":
		s.state = StateMisc
	case "X":
		if s.original == nil {
			s.print("Only saved abilities can be deleted. Quit to discard this draft.")
			return
		}
		s.state = StateConfirmDelete
	case "Q":
		s.quit()
	default:
		s.print("Invalid choice.")
	}
}

// quit implements the exit protocol: clean drafts end immediately, dirty
// drafts route through the confirmation chain.
func (s *Session) quit() {
	if !s.dirty {
		s.print("Exiting ability editor.")
		s.end()
		return
	}
	if s.original == nil {
		s.state = StateConfirmAdd
		return
	}
	s.state = StateConfirmSave
}

func (s *Session) handleName(input string) {
	if isBack(input) {
		s.state = StateMain
		return
	}
	if input == "" {
		s.print("The name cannot be empty.")
		return
	}
	s.draft.Name = input
	s.dirty = true
	s.state = StateMain
}

func (s *Session) handleMinPos(input string) {
	if isBack(input) {
		s.state = StateMain
		return
	}
	n, ok := parseInt(input)
	if !ok || n < 1 || n > len(ability.PositionNames) {
		s.print("Invalid position.")
		return
	}
	s.draft.MinPosition = ability.Position(n - 1)
	s.dirty = true
	s.state = StateMain
}

func (s *Session) handleViolent(input string) {
	switch strings.ToLower(input) {
	case "y", "yes":
		s.draft.Violent = true
	case "n", "no":
		s.draft.Violent = false
	default:
		s.print("Please answer y or n.")
		return
	}
	s.dirty = true
	s.state = StateMain
}

func (s *Session) handleCostMenu(input string) {
	switch {
	case isBack(input):
		s.state = StateMain
	case input == "1":
		s.pendingCost = ability.Cost{}
		s.state = StateCostMin
	case input == "2":
		s.state = StateCostFormula
	default:
		s.print("Invalid choice.")
	}
}

func (s *Session) handleCostMin(input string) {
	n, ok := parseInt(input)
	if !ok || n < 0 {
		s.print("The minimum cost must be a non-negative number.")
		return
	}
	s.pendingCost.Min = n
	s.state = StateCostMax
}

func (s *Session) handleCostMax(input string) {
	n, ok := parseInt(input)
	if !ok || n < s.pendingCost.Min {
		s.printf("The maximum cost must be a number of at least %d.", s.pendingCost.Min)
		return
	}
	s.pendingCost.Max = n
	s.state = StateCostChange
}

func (s *Session) handleCostChange(input string) {
	n, ok := parseInt(input)
	if !ok || n < 0 {
		s.print("The cost change per level must be a non-negative number.")
		return
	}
	s.draft.Cost.SetFixed(s.pendingCost.Min, s.pendingCost.Max, n)
	s.dirty = true
	s.state = StateCostMenu
}

func (s *Session) handleCostFormula(input string) {
	if isBack(input) {
		s.state = StateCostMenu
		return
	}
	if !dice.Valid(input) {
		s.printf("%q is not a valid dice expression.", input)
		return
	}
	s.draft.Cost.SetFormula(input)
	s.dirty = true
	s.state = StateCostMenu
}

func (s *Session) handleDamMenu(input string) {
	switch {
	case isBack(input):
		s.state = StateMain
	case input == "1":
		s.pendingDam = ability.Damage{}
		s.state = StateDamCount
	case input == "2":
		s.state = StateDamFormula
	case input == "3":
		s.draft.Damage = ability.Damage{}
		s.dirty = true
	default:
		s.print("Invalid choice.")
	}
}

func (s *Session) handleDamCount(input string) {
	n, ok := parseInt(input)
	if !ok || n < 1 {
		s.print("The number of dice must be at least 1.")
		return
	}
	s.pendingDam.DiceCount = n
	s.state = StateDamSize
}

func (s *Session) handleDamSize(input string) {
	n, ok := parseInt(input)
	if !ok || n < 1 {
		s.print("The dice size must be at least 1.")
		return
	}
	s.pendingDam.DiceSize = n
	s.state = StateDamBonus
}

func (s *Session) handleDamBonus(input string) {
	n, ok := parseInt(input)
	if !ok {
		s.print("The damage bonus must be a number.")
		return
	}
	s.draft.Damage.SetDice(s.pendingDam.DiceCount, s.pendingDam.DiceSize, n)
	s.dirty = true
	s.state = StateDamMenu
}

func (s *Session) handleDamFormula(input string) {
	if isBack(input) {
		s.state = StateDamMenu
		return
	}
	if !dice.Valid(input) {
		s.printf("%q is not a valid dice expression.", input)
		return
	}
	s.draft.Damage.SetFormula(input)
	s.dirty = true
	s.state = StateDamMenu
}

func (s *Session) handleFlags(input string) {
	if isBack(input) {
		s.state = StateMain
		return
	}
	n, ok := parseInt(input)
	if !ok || n < 1 || n > ability.NumFlags {
		s.print("Invalid flag.")
		return
	}
	s.draft.Flags.Toggle(n - 1)
	s.dirty = true
}

func (s *Session) handleRoutines(input string) {
	if isBack(input) {
		s.state = StateMain
		return
	}
	n, ok := parseInt(input)
	if !ok || n < 1 || n > ability.NumRoutines {
		s.print("Invalid routine.")
		return
	}
	s.draft.Routines = s.draft.Routines.Toggle(n - 1)
	s.dirty = true
}

func (s *Session) handleTargets(input string) {
	if isBack(input) {
		s.state = StateMain
		return
	}
	n, ok := parseInt(input)
	if !ok || n < 1 || n > ability.NumTargets {
		s.print("Invalid target.")
		return
	}
	s.draft.Targets = s.draft.Targets.Toggle(n - 1)
	s.dirty = true
}

// handleLevels accepts "<classAbbrev> <level>" lines and loops back to its
// own menu rather than the main menu.
func (s *Session) handleLevels(input string) {
	if isBack(input) {
		s.state = StateMain
		return
	}
	fields := strings.Fields(input)
	if len(fields) != 2 {
		s.print("Usage: <class> <level>  (e.g. Mu 12)")
		return
	}
	class := ability.IndexOfName(fields[0], ability.ClassAbbrevs)
	if class < 0 {
		s.printf("Unknown class %q.", fields[0])
		return
	}
	level, ok := parseInt(fields[1])
	if !ok || level < 1 || level > ability.LevelImmortal {
		s.printf("The level must be between 1 and %d.", ability.LevelImmortal)
		return
	}
	s.draft.MinLevels[class] = level
	s.dirty = true
}

func (s *Session) handleAffects(input string) {
	upper := strings.ToUpper(input)
	switch {
	case isBack(input):
		s.state = StateMain
	case upper == "N":
		s.pendingAffect = ability.Affect{}
		s.state = StateAffApply
	case upper == "D":
		s.state = StateAffDurMenu
	case strings.HasPrefix(upper, "X"):
		arg := strings.TrimSpace(input[1:])
		n, ok := parseInt(arg)
		if !ok || n < 1 || n > len(s.draft.Affects) {
			s.print("Usage: X <affect number>")
			return
		}
		s.draft.Affects = append(s.draft.Affects[:n-1], s.draft.Affects[n:]...)
		s.dirty = true
	default:
		s.print("Invalid choice.")
	}
}

func (s *Session) handleAffApply(input string) {
	if isBack(input) {
		s.state = StateAffects
		return
	}
	n, ok := parseInt(input)
	if !ok || n < 1 || n >= len(ability.ApplyNames) {
		s.print("Invalid apply location.")
		return
	}
	s.pendingAffect.Location = ability.ApplyLocation(n)
	s.state = StateAffModifier
}

func (s *Session) handleAffModifier(input string) {
	n, ok := parseInt(input)
	if !ok {
		s.print("The modifier must be a number.")
		return
	}
	s.pendingAffect.Modifier = n
	s.draft.Affects = append(s.draft.Affects, s.pendingAffect)
	s.dirty = true
	s.state = StateAffects
}

func (s *Session) handleAffDurMenu(input string) {
	switch {
	case isBack(input):
		s.state = StateAffects
	case input == "1":
		s.state = StateAffDurFixed
	case input == "2":
		s.state = StateAffDurFormula
	default:
		s.print("Invalid choice.")
	}
}

func (s *Session) handleAffDurFixed(input string) {
	n, ok := parseInt(input)
	if !ok || n < 0 {
		s.print("The duration must be a non-negative number of hours.")
		return
	}
	s.draft.Duration.SetFixed(n)
	s.warnDurationWithoutAffects()
	s.dirty = true
	s.state = StateAffects
}

func (s *Session) handleAffDurFormula(input string) {
	if isBack(input) {
		s.state = StateAffDurMenu
		return
	}
	if !dice.Valid(input) {
		s.printf("%q is not a valid dice expression.", input)
		return
	}
	s.draft.Duration.SetFormula(input)
	s.warnDurationWithoutAffects()
	s.dirty = true
	s.state = StateAffects
}

// warnDurationWithoutAffects flags a duration that the store will not
// keep. The save format only writes the duration alongside affect lines.
func (s *Session) warnDurationWithoutAffects() {
	if len(s.draft.Affects) == 0 {
		s.print("Note: the duration is only saved once at least one affect is defined.")
	}
}

func (s *Session) handleMessages(input string) {
	if isBack(input) {
		s.state = StateMain
		return
	}
	n, ok := parseInt(input)
	if !ok || n < 1 || n > ability.NumMessages {
		s.print("Invalid message kind.")
		return
	}
	s.pendingMsg = n - 1
	s.state = StateMsgKind
}

func (s *Session) handleMsgKind(input string) {
	switch strings.ToUpper(input) {
	case "0", "Q":
		s.state = StateMessages
	case "1":
		s.pendingMsgTo = ability.MsgToChar
		s.state = StateMsgText
	case "2":
		s.pendingMsgTo = ability.MsgToVict
		s.state = StateMsgText
	case "3":
		s.pendingMsgTo = ability.MsgToRoom
		s.state = StateMsgText
	case "X":
		if s.draft.Messages[s.pendingMsg] != nil {
			s.draft.Messages[s.pendingMsg] = nil
			s.dirty = true
		}
	default:
		s.print("Invalid choice.")
	}
}

// handleMsgText sets or clears one recipient line of the pending message
// kind. An empty line clears the field.
func (s *Session) handleMsgText(input string) {
	msg := s.draft.Messages[s.pendingMsg]
	if msg == nil {
		msg = &ability.MessageSet{}
		s.draft.Messages[s.pendingMsg] = msg
	}
	switch s.pendingMsgTo {
	case ability.MsgToChar:
		msg.ToChar = input
	case ability.MsgToVict:
		msg.ToVict = input
	case ability.MsgToRoom:
		msg.ToRoom = input
	}
	if msg.Empty() {
		s.draft.Messages[s.pendingMsg] = nil
	}
	s.dirty = true
	s.state = StateMsgKind
}

func (s *Session) handleSkillMenu(input string) {
	switch {
	case isBack(input):
		s.state = StateMain
	case input == "1":
		s.pendingStun = ability.StunSuccess
		s.state = StateStunChar
	case input == "2":
		s.pendingStun = ability.StunFail
		s.state = StateStunChar
	case input == "3":
		s.state = StateSubCmd
	case input == "4":
		s.state = StateManual
	default:
		s.print("Invalid choice.")
	}
}

func (s *Session) handleStunChar(input string) {
	n, ok := parseInt(input)
	if !ok || n < 0 {
		s.print("The stun value must be a non-negative number.")
		return
	}
	s.draft.Skill.StunChar[s.pendingStun] = n
	s.state = StateStunVict
}

func (s *Session) handleStunVict(input string) {
	n, ok := parseInt(input)
	if !ok || n < 0 {
		s.print("The stun value must be a non-negative number.")
		return
	}
	s.draft.Skill.StunVict[s.pendingStun] = n
	s.dirty = true
	s.state = StateSkillMenu
}

func (s *Session) handleSubCmd(input string) {
	n, ok := parseInt(input)
	if !ok || n < 0 {
		s.print("The subcommand must be a non-negative number.")
		return
	}
	s.draft.Skill.Subcommand = n
	s.dirty = true
	s.state = StateSkillMenu
}

// handleManual binds a manual function picked from the numbered list, or
// clears the binding with N.
func (s *Session) handleManual(input string) {
	if isBack(input) {
		s.state = s.manualParent()
		return
	}
	if strings.EqualFold(input, "n") {
		s.clearManual()
		s.dirty = true
		s.state = s.manualParent()
		return
	}
	names := s.manualNames()
	n, ok := parseInt(input)
	if !ok || n < 1 || n > len(names) {
		s.print("Invalid function.")
		return
	}
	s.bindManual(names[n-1])
	s.dirty = true
	s.state = s.manualParent()
}

func (s *Session) manualParent() State {
	if s.draft.Type == ability.TypeSkill {
		return StateSkillMenu
	}
	return StateMain
}

func (s *Session) manualNames() []string {
	if s.draft.Type == ability.TypeSkill {
		return s.manuals.SkillNames()
	}
	return s.manuals.SpellNames()
}

func (s *Session) bindManual(name string) {
	if s.draft.Type == ability.TypeSkill {
		fn, _ := s.manuals.Skill(name)
		s.draft.Skill.FuncName = name
		s.draft.Skill.Func = fn
	} else {
		fn, _ := s.manuals.Spell(name)
		s.draft.Spell.FuncName = name
		s.draft.Spell.Func = fn
	}
	s.draft.Routines = s.draft.Routines.Set(ability.RoutineManual)
}

func (s *Session) clearManual() {
	if s.draft.Type == ability.TypeSkill {
		s.draft.Skill.FuncName = ""
		s.draft.Skill.Func = nil
	} else {
		s.draft.Spell.FuncName = ""
		s.draft.Spell.Func = nil
	}
	if s.draft.Routines.Has(ability.RoutineManual) {
		s.draft.Routines = s.draft.Routines.Toggle(ability.RoutineManual)
	}
}

func (s *Session) handleMisc(input string) {
	if isBack(input) {
		s.state = StateMain
		return
	}
	n, ok := parseInt(input)
	if !ok || n < 1 || n > ability.NumMiscValues {
		s.print("Invalid slot.")
		return
	}
	s.pendingMisc = n - 1
	s.state = StateMiscValue
}

// handleMiscValue binds a referenced vnum after validating it against the
// world namespace. Zero always clears the slot.
func (s *Session) handleMiscValue(input string) {
	n, ok := parseInt(input)
	if !ok || n < 0 {
		s.print("The value must be a non-negative number.")
		return
	}
	if n != 0 {
		if s.draft.Flags.Has(ability.FlagRequireObj) {
			if !s.world.ObjExists(n) {
				s.printf("No object with vnum %d exists.", n)
				return
			}
		} else if !s.world.MobExists(n) && !s.world.ObjExists(n) {
			s.printf("No mob or object with vnum %d exists.", n)
			return
		}
	}
	s.draft.MiscValues[s.pendingMisc] = n
	s.dirty = true
	s.state = StateMisc
}

func (s *Session) handleConfirmDelete(input string) {
	switch strings.ToLower(input) {
	case "y", "yes":
		if err := s.reg.Remove(s.draft.ID); err != nil {
			s.printf("Unable to delete: %v", err)
			s.state = StateMain
			return
		}
		s.printf("Ability %d deleted.", s.draft.ID)
		s.end()
	case "n", "no":
		s.state = StateMain
	default:
		// Re-prompt. Confirmation states accept nothing else.
	}
}

func (s *Session) handleConfirmSave(input string) {
	switch strings.ToLower(input) {
	case "y", "yes":
		s.commit()
		if count, err := s.save(); err != nil {
			s.printf("Unable to save abilities: %v", err)
		} else {
			s.printf("Saved %d abilities to file.", count)
		}
		s.end()
	case "n", "no":
		s.commit()
		s.print("Changes kept in memory; the store was not written.")
		s.end()
	default:
	}
}

func (s *Session) handleConfirmAdd(input string) {
	switch strings.ToLower(input) {
	case "y", "yes":
		if err := s.reg.Add(s.draft); err != nil {
			s.printf("Unable to add: %v", err)
			s.state = StateMain
			return
		}
		s.original = s.draft
		s.state = StateConfirmSave
	case "n", "no":
		s.print("Draft discarded.")
		s.end()
	default:
	}
}
