package abedit

import (
	"fmt"
	"strings"

	"github.com/ravenmud/mud/internal/game/ability"
)

// render prints the menu or prompt for the current state.
func (s *Session) render() {
	switch s.state {
	case StateMain:
		s.renderMain()
	case StateName:
		s.print("Enter the ability name (0 to cancel):")
	case StateMinPos:
		for i, name := range ability.PositionNames {
			s.printf("%2d) %s", i+1, name)
		}
		s.print("Select the minimum position (0 to cancel):")
	case StateViolent:
		s.print("Is this ability violent? (y/n):")
	case StateCostMenu:
		s.renderCostMenu()
	case StateCostMin:
		s.print("Enter the minimum cost:")
	case StateCostMax:
		s.printf("Enter the maximum cost (at least %d):", s.pendingCost.Min)
	case StateCostChange:
		s.print("Enter the cost change per level:")
	case StateCostFormula:
		s.print("Enter the cost dice expression (0 to cancel):")
	case StateDamMenu:
		s.renderDamMenu()
	case StateDamCount:
		s.print("Enter the number of damage dice:")
	case StateDamSize:
		s.print("Enter the damage dice size:")
	case StateDamBonus:
		s.print("Enter the damage bonus:")
	case StateDamFormula:
		s.print("Enter the damage dice expression (0 to cancel):")
	case StateFlags:
		s.renderBits("Flags", ability.FlagNames, s.draft.Flags.Names(ability.FlagNames))
	case StateRoutines:
		s.renderBits("Routines", ability.RoutineNames, s.draft.Routines.Names(ability.RoutineNames))
	case StateTargets:
		s.renderBits("Targets", ability.TargetNames, s.draft.Targets.Names(ability.TargetNames))
	case StateLevels:
		s.renderLevels()
	case StateAffects:
		s.renderAffects()
	case StateAffApply:
		s.renderApplies()
	case StateAffModifier:
		s.printf("Enter the modifier for %s:", ability.ApplyNames[s.pendingAffect.Location])
	case StateAffDurMenu:
		s.renderDuration()
	case StateAffDurFixed:
		s.print("Enter the duration in hours:")
	case StateAffDurFormula:
		s.print("Enter the duration dice expression (0 to cancel):")
	case StateMessages:
		s.renderMessages()
	case StateMsgKind:
		s.renderMsgKind()
	case StateMsgText:
		s.printf("Enter the %s text (empty line clears):",
			strings.ToLower(ability.MessageToNames[s.pendingMsgTo]))
	case StateSkillMenu:
		s.renderSkillMenu()
	case StateStunChar:
		s.printf("Enter the %s stun applied to the character:",
			strings.ToLower(stunLabel(s.pendingStun)))
	case StateStunVict:
		s.printf("Enter the %s stun applied to the victim:",
			strings.ToLower(stunLabel(s.pendingStun)))
	case StateSubCmd:
		s.print("Enter the skill subcommand number:")
	case StateManual:
		s.renderManual()
	case StateMisc:
		s.renderMisc()
	case StateMiscValue:
		s.printf("Enter the vnum for slot %d (0 clears):", s.pendingMisc+1)
	case StateConfirmDelete:
		s.printf("Delete ability %d '%s' permanently? (y/n):", s.draft.ID, s.draft.Name)
	case StateConfirmSave:
		s.print("Save all abilities to file? (y/n):")
	case StateConfirmAdd:
		s.printf("Add the new ability '%s' to the registry? (y/n):", s.draft.Name)
	}
}

func stunLabel(step int) string {
	if step == ability.StunSuccess {
		return "Success"
	}
	return "Failure"
}

func (s *Session) renderMain() {
	d := s.draft
	s.printf("-- Ability Editor : [%d] %s (%s)", d.ID, d.Name, d.Type)
	s.printf("1) Name     : %s", d.Name)
	s.printf("2) Type     : %s", d.Type)
	s.printf("3) Position : %s", d.MinPosition)
	s.printf("4) Violent  : %s", yesNo(d.Violent))
	s.printf("5) Cost     : %s", costSummary(d))
	s.printf("6) Damage   : %s", damageSummary(d))
	s.printf("7) Flags    : %s", d.Flags.Names(ability.FlagNames))
	s.printf("8) Routines : %s", d.Routines.Names(ability.RoutineNames))
	s.printf("9) Targets  : %s", d.Targets.Names(ability.TargetNames))
	s.printf("L) Levels   : %s", levelSummary(d))
	s.printf("A) Affects  : %d defined", len(d.Affects))
	s.printf("M) Messages : %d defined", messageCount(d))
	s.printf("T) %s", typeSpecificLabel(d))
	s.printf("V) Misc values : %v", d.MiscValues)
	if s.original != nil {
		s.print("X) Delete this ability")
	}
	s.print("Q) Quit")
	s.print("Enter choice:")
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

func costSummary(d *ability.Ability) string {
	if d.Cost.Kind == ability.CostFormula {
		return fmt.Sprintf("expr '%s'", d.Cost.Formula)
	}
	return fmt.Sprintf("min %d max %d delta %d", d.Cost.Min, d.Cost.Max, d.Cost.Change)
}

func damageSummary(d *ability.Ability) string {
	switch d.Damage.Kind {
	case ability.DamageDice:
		return fmt.Sprintf("%dd%d+%d", d.Damage.DiceCount, d.Damage.DiceSize, d.Damage.Bonus)
	case ability.DamageFormula:
		return fmt.Sprintf("expr '%s'", d.Damage.Formula)
	default:
		return "None"
	}
}

func levelSummary(d *ability.Ability) string {
	parts := make([]string, 0, ability.NumClasses)
	for i := 0; i < ability.NumClasses; i++ {
		parts = append(parts, fmt.Sprintf("%s %d", ability.ClassAbbrevs[i], d.MinLevels[i]))
	}
	return strings.Join(parts, "  ")
}

func messageCount(d *ability.Ability) int {
	count := 0
	for _, m := range d.Messages {
		if m != nil {
			count++
		}
	}
	return count
}

func typeSpecificLabel(d *ability.Ability) string {
	if d.Type == ability.TypeSkill {
		return "Skill settings (stun, subcommand, function)"
	}
	if d.Spell != nil && d.Spell.FuncName != "" {
		return fmt.Sprintf("Manual function : %s", d.Spell.FuncName)
	}
	return "Manual function : none"
}

func (s *Session) renderCostMenu() {
	s.printf("-- Cost : %s", costSummary(s.draft))
	s.print("1) Set fixed values")
	s.print("2) Set formula")
	s.print("0) Back")
	s.print("Enter choice:")
}

func (s *Session) renderDamMenu() {
	s.printf("-- Damage : %s", damageSummary(s.draft))
	s.print("1) Set damage dice")
	s.print("2) Set formula")
	s.print("3) Clear damage")
	s.print("0) Back")
	s.print("Enter choice:")
}

func (s *Session) renderBits(title string, table []string, current string) {
	s.printf("-- %s : %s", title, current)
	for i, name := range table {
		s.printf("%2d) %s", i+1, name)
	}
	s.print("Toggle an entry, or 0 to return:")
}

func (s *Session) renderLevels() {
	s.printf("-- Levels : %s", levelSummary(s.draft))
	s.print("Enter <class> <level> (e.g. Mu 12), or 0 to return:")
}

func (s *Session) renderAffects() {
	d := s.draft
	switch d.Duration.Kind {
	case ability.DurationFormula:
		s.printf("-- Affects (duration expr '%s')", d.Duration.Formula)
	default:
		s.printf("-- Affects (duration %d hrs)", d.Duration.Hours)
	}
	for i, aff := range d.Affects {
		s.printf("%2d) modifies %s by %d", i+1, ability.ApplyNames[aff.Location], aff.Modifier)
	}
	s.print("N) New affect   X <n>) Delete   D) Duration   0) Back")
	s.print("Enter choice:")
}

func (s *Session) renderApplies() {
	for i := 1; i < len(ability.ApplyNames); i++ {
		s.printf("%2d) %s", i, ability.ApplyNames[i])
	}
	s.print("Select the apply location (0 to cancel):")
}

func (s *Session) renderDuration() {
	s.print("1) Fixed duration in hours")
	s.print("2) Duration formula")
	s.print("0) Back")
	s.print("Enter choice:")
}

func (s *Session) renderMessages() {
	s.print("-- Messages")
	for i := 0; i < ability.NumMessages; i++ {
		marker := "not set"
		if s.draft.Messages[i] != nil {
			marker = "set"
		}
		s.printf("%2d) %-10s [%s]", i+1, ability.MessageKindNames[i], marker)
	}
	s.print("Select a message kind, or 0 to return:")
}

func (s *Session) renderMsgKind() {
	msg := s.draft.Messages[s.pendingMsg]
	s.printf("-- %s messages", ability.MessageKindNames[s.pendingMsg])
	if msg != nil {
		s.printf("  To Char : %s", msg.ToChar)
		s.printf("  To Vict : %s", msg.ToVict)
		s.printf("  To Room : %s", msg.ToRoom)
	}
	s.print("1) To Char   2) To Vict   3) To Room   X) Delete all   0) Back")
	s.print("Enter choice:")
}

func (s *Session) renderSkillMenu() {
	sk := s.draft.Skill
	s.print("-- Skill settings")
	s.printf("1) Success stun : char %d / vict %d",
		sk.StunChar[ability.StunSuccess], sk.StunVict[ability.StunSuccess])
	s.printf("2) Failure stun : char %d / vict %d",
		sk.StunChar[ability.StunFail], sk.StunVict[ability.StunFail])
	s.printf("3) Subcommand   : %d", sk.Subcommand)
	s.printf("4) Function     : %s", orNone(sk.FuncName))
	s.print("0) Back")
	s.print("Enter choice:")
}

func orNone(name string) string {
	if name == "" {
		return "none"
	}
	return name
}

func (s *Session) renderManual() {
	names := s.manualNames()
	s.printf("-- Manual function : %s", orNone(s.draft.FuncName()))
	for i, name := range names {
		s.printf("%2d) %s", i+1, name)
	}
	s.print("Select a function, N to clear, or 0 to return:")
}

func (s *Session) renderMisc() {
	s.print("-- Misc values")
	for i, v := range s.draft.MiscValues {
		s.printf("%2d) %d", i+1, v)
	}
	s.print("Select a slot, or 0 to return:")
}
