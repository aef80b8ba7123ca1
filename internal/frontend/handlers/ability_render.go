package handlers

import (
	"fmt"
	"strings"

	"github.com/ravenmud/mud/internal/frontend/telnet"
	"github.com/ravenmud/mud/internal/game/ability"
)

const statRule = "----------------------------------------------------------------------\r\n"
const listRule = "============================================================\r\n"

func label(name string) string {
	return telnet.Colorf(telnet.Cyan, "%-10s", name)
}

func value(format string, args ...interface{}) string {
	return telnet.Colorf(telnet.Yellow, format, args...)
}

// renderStat renders the full record of one ability: identity, cost,
// damage, bit fields, per-class levels, bound function, affects, and
// messages.
func renderStat(ab *ability.Ability) string {
	var b strings.Builder
	b.WriteString(statRule)

	fmt.Fprintf(&b, "%s: %s %s: %s %s: %s\r\n",
		label("Number"), value("%-10d", ab.ID),
		label("Name"), value("%-15s", ab.Name),
		label("Type"), value("%s", ab.Type))

	if ab.Cost.Kind == ability.CostFormula {
		fmt.Fprintf(&b, "%s: %s\r\n", label("Cost Expr."), value("%s", ab.Cost.Formula))
	} else {
		fmt.Fprintf(&b, "%s: %s %s: %s %s: %s\r\n",
			label("Min. Cost"), value("%-10d", ab.Cost.Min),
			label("Max. Cost"), value("%-15d", ab.Cost.Max),
			label("Cost Delta"), value("%d", ab.Cost.Change))
	}

	violent := "No"
	if ab.Violent {
		violent = "Yes"
	}
	switch ab.Damage.Kind {
	case ability.DamageDice:
		diceStr := fmt.Sprintf("%dd%d+%d", ab.Damage.DiceCount, ab.Damage.DiceSize, ab.Damage.Bonus)
		fmt.Fprintf(&b, "%s: %s %s: %s %s: %s\r\n",
			label("Avg. Dam."), value("%-10d", ab.Damage.Average()),
			label("Dam. Dice"), value("%-15s", diceStr),
			label("Violent"), value("%s", violent))
	case ability.DamageFormula:
		fmt.Fprintf(&b, "%s: %s %s: %s\r\n",
			label("Dam. Expr."), value("%-38s", ab.Damage.Formula),
			label("Violent"), value("%s", violent))
	default:
		fmt.Fprintf(&b, "%s: %s %s: %s %s: %s\r\n",
			label("Avg. Dam."), value("%-10s", "N/A"),
			label("Dam. Dice"), value("%-15s", "N/A"),
			label("Violent"), value("%s", violent))
	}

	fmt.Fprintf(&b, "%s: %s\r\n", label("Flags"), value("%s", ab.Flags.Names(ability.FlagNames)))
	fmt.Fprintf(&b, "%s: %s\r\n", label("Routines"), value("%s", ab.Routines.Names(ability.RoutineNames)))
	fmt.Fprintf(&b, "%s: %s\r\n", label("Targets"), value("%s", ab.Targets.Names(ability.TargetNames)))

	var abbrevs, levels strings.Builder
	for i := 0; i < ability.NumClasses; i++ {
		fmt.Fprintf(&abbrevs, "%-3s", ability.ClassAbbrevs[i])
		fmt.Fprintf(&levels, "%-3d", ab.MinLevels[i])
	}
	fmt.Fprintf(&b, "%s: %s\r\n", label("Levels"), value("%s", abbrevs.String()))
	fmt.Fprintf(&b, "%-10s: %s\r\n", " ", levels.String())

	if ab.Routines.Has(ability.RoutineManual) {
		fmt.Fprintf(&b, "%s: %s\r\n", label("Function"), value("%s", ab.FuncName()))
	}

	if len(ab.Affects) > 0 {
		b.WriteString(statRule)
		if ab.Duration.Kind == ability.DurationFormula {
			fmt.Fprintf(&b, "Affects the following for the evaluated duration expression '%s':\r\n",
				ab.Duration.Formula)
		} else {
			fmt.Fprintf(&b, "Affects the following for %d hrs:\r\n", ab.Duration.Hours)
		}
		n := 1
		for _, aff := range ab.Affects {
			if aff.Location == 0 {
				continue
			}
			fmt.Fprintf(&b, "   %d) modifies %-15s by %d\r\n",
				n, ability.ApplyNames[aff.Location], aff.Modifier)
			n++
		}
	}

	hasMessages := false
	for _, m := range ab.Messages {
		if m != nil {
			hasMessages = true
			break
		}
	}
	if hasMessages {
		b.WriteString(statRule)
		for i, m := range ab.Messages {
			if m == nil {
				continue
			}
			fmt.Fprintf(&b, "%s Messages:\r\n", ability.MessageKindNames[i])
			fmt.Fprintf(&b, "  To Char  : %s\r\n", orBlank(m.ToChar))
			fmt.Fprintf(&b, "  To Target: %s\r\n", orBlank(m.ToVict))
			fmt.Fprintf(&b, "  To Room  : %s\r\n", orBlank(m.ToRoom))
		}
	}
	b.WriteString(statRule)
	return b.String()
}

func orBlank(s string) string {
	if s == "" {
		return "(null)"
	}
	return s
}

// renderList renders the number/name/type/position table with a count
// footer.
func renderList(abilities []*ability.Ability) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\r\n", telnet.Colorf(telnet.Cyan, "%-7s %-25s %-10s %s",
		"Number", "Name", "Type", "Min. Position"))
	b.WriteString(listRule)
	for _, ab := range abilities {
		fmt.Fprintf(&b, "%-7d %-25s %-10s %s\r\n",
			ab.ID, ab.Name, ab.Type, ab.MinPosition)
	}
	b.WriteString(listRule)
	fmt.Fprintf(&b, "%d abilities listed.\r\n", len(abilities))
	return b.String()
}
