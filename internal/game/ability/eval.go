package ability

import (
	"fmt"

	"github.com/ravenmud/mud/internal/game/dice"
)

// EvalFormula rolls a stored formula expression. Formulas are validated at
// edit time, so an error here means the store was edited by hand.
func EvalFormula(r *dice.Roller, expr string) (int, error) {
	return r.RollExpr(expr)
}

// EvalCost returns the resource cost of ab for a caster of the given level
// and class. The fixed arm follows the legacy curve: the cost starts at Max
// and drops by Change per level above the class minimum, never below Min.
//
// Precondition: r must be non-nil; class must be a valid class index.
func EvalCost(r *dice.Roller, ab *Ability, level, class int) (int, error) {
	if ab.Cost.Kind == CostFormula {
		return EvalFormula(r, ab.Cost.Formula)
	}
	cost := ab.Cost.Max
	if class >= 0 && class < NumClasses {
		cost -= ab.Cost.Change * (level - ab.MinLevels[class])
	}
	if cost < ab.Cost.Min {
		cost = ab.Cost.Min
	}
	return cost, nil
}

// EvalDamage rolls ab's damage. Returns 0 for abilities without a damage
// specification.
//
// Precondition: r must be non-nil.
func EvalDamage(r *dice.Roller, ab *Ability) (int, error) {
	switch ab.Damage.Kind {
	case DamageDice:
		expr := fmt.Sprintf("%dd%d", ab.Damage.DiceCount, ab.Damage.DiceSize)
		n, err := r.RollExpr(expr)
		if err != nil {
			return 0, err
		}
		return n + ab.Damage.Bonus, nil
	case DamageFormula:
		return EvalFormula(r, ab.Damage.Formula)
	default:
		return 0, nil
	}
}

// EvalDuration returns the affect duration of ab in game hours.
//
// Precondition: r must be non-nil.
func EvalDuration(r *dice.Roller, ab *Ability) (int, error) {
	if ab.Duration.Kind == DurationFormula {
		return EvalFormula(r, ab.Duration.Formula)
	}
	return ab.Duration.Hours, nil
}
