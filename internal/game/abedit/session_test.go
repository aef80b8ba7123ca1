package abedit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ravenmud/mud/internal/game/ability"
	"github.com/ravenmud/mud/internal/game/world"
)

func testDeps(t *testing.T) (Deps, *ability.Registry) {
	t.Helper()
	reg := ability.NewRegistry(zap.NewNop())
	idx := world.NewIndex()
	idx.AddMob(3005, "the cityguard")
	idx.AddObject(3050, "a bread loaf")

	manuals := ability.NewManualRegistry()
	manuals.RegisterSpell("spell_teleport", func(_, _ ability.Actor, _ *ability.Ability) error { return nil })
	manuals.RegisterSkill("skill_sneak", func(_ ability.Actor, _ string, _ int) error { return nil })

	saved := 0
	deps := Deps{
		Registry: reg,
		Guard:    NewGuard(),
		World:    idx,
		Manuals:  manuals,
		Save:     func() (int, error) { saved = reg.Count(); return saved, nil },
		Logger:   zap.NewNop(),
	}
	return deps, reg
}

func addAbility(t *testing.T, reg *ability.Registry, id int, name string, typ ability.Type) *ability.Ability {
	t.Helper()
	ab := ability.New(id, name, typ)
	require.NoError(t, reg.Add(ab))
	return ab
}

func TestLockExclusivity(t *testing.T) {
	deps, reg := testDeps(t)
	ab := addAbility(t, reg, 7, "fireball", ability.TypeSpell)

	s1, err := NewSession(deps, ab)
	require.NoError(t, err)

	_, err = NewSession(deps, ab)
	require.ErrorIs(t, err, ErrLocked)
	assert.True(t, deps.Guard.Held(7))

	// Clean quit releases the lock.
	out := s1.Process("Q")
	assert.Contains(t, out, "Exiting")
	assert.True(t, s1.Done())
	assert.False(t, deps.Guard.Held(7))

	s2, err := NewSession(deps, ab)
	require.NoError(t, err)
	s2.Close()
}

func TestRefusedOpenHasNoSideEffects(t *testing.T) {
	deps, reg := testDeps(t)
	ab := addAbility(t, reg, 7, "fireball", ability.TypeSpell)

	s1, err := NewSession(deps, ab)
	require.NoError(t, err)
	defer s1.Close()

	_, err = NewSession(deps, ab)
	require.Error(t, err)

	// The refused attempt must not have disturbed the existing lock.
	assert.True(t, deps.Guard.Held(7))
	assert.False(t, s1.Done())
}

func TestDisconnectReleasesLock(t *testing.T) {
	deps, reg := testDeps(t)
	ab := addAbility(t, reg, 3, "sneak", ability.TypeSkill)

	s, err := NewSession(deps, ab)
	require.NoError(t, err)
	s.Process("1") // park in a sub-state
	s.Close()
	assert.False(t, deps.Guard.Held(3))
}

func TestNameEdit(t *testing.T) {
	deps, reg := testDeps(t)
	ab := addAbility(t, reg, 1, "burning hands", ability.TypeSpell)

	s, err := NewSession(deps, ab)
	require.NoError(t, err)
	defer s.Close()

	s.Process("1")
	out := s.Process("searing hands")
	assert.Contains(t, out, "searing hands")
	assert.Equal(t, StateMain, s.State())
	assert.True(t, s.Dirty())

	// The registry record is untouched until commit.
	got, ok := reg.GetByID(1)
	require.True(t, ok)
	assert.Equal(t, "burning hands", got.Name)
}

func TestCommitOnQuitWithoutFileWrite(t *testing.T) {
	deps, reg := testDeps(t)
	addAbility(t, reg, 1, "burning hands", ability.TypeSpell)
	ab, ok := reg.GetByID(1)
	require.True(t, ok)

	s, err := NewSession(deps, ab)
	require.NoError(t, err)

	s.Process("1")
	s.Process("searing hands")
	out := s.Process("Q")
	assert.Contains(t, out, "Save all abilities to file?")
	assert.Equal(t, StateConfirmSave, s.State())

	out = s.Process("n")
	assert.Contains(t, out, "kept in memory")
	assert.True(t, s.Done())

	got, ok := reg.GetByID(1)
	require.True(t, ok)
	assert.Equal(t, "searing hands", got.Name)
}

func TestConfirmationReprompts(t *testing.T) {
	deps, reg := testDeps(t)
	ab := addAbility(t, reg, 1, "fireball", ability.TypeSpell)

	s, err := NewSession(deps, ab)
	require.NoError(t, err)

	s.Process("1")
	s.Process("meteor swarm")
	s.Process("Q")
	require.Equal(t, StateConfirmSave, s.State())

	// Anything but y/n re-prompts indefinitely.
	for _, input := range []string{"maybe", "", "7", "quit"} {
		out := s.Process(input)
		assert.Equal(t, StateConfirmSave, s.State())
		assert.Contains(t, out, "(y/n)")
	}
	s.Process("y")
	assert.True(t, s.Done())
}

func TestFreshDraftCannotBeDeleted(t *testing.T) {
	deps, _ := testDeps(t)

	s, err := NewSessionForNew(deps, ability.TypeSpell)
	require.NoError(t, err)
	defer s.Close()

	out := s.Process("X")
	assert.Contains(t, out, "Only saved abilities can be deleted")
	assert.Equal(t, StateMain, s.State())
	assert.False(t, s.Done())
}

func TestFreshDraftDiscardedViaQuit(t *testing.T) {
	deps, reg := testDeps(t)

	s, err := NewSessionForNew(deps, ability.TypeSpell)
	require.NoError(t, err)
	id := s.AbilityID()

	out := s.Process("Q")
	assert.Contains(t, out, "Add the new ability")
	require.Equal(t, StateConfirmAdd, s.State())

	out = s.Process("n")
	assert.Contains(t, out, "Draft discarded")
	assert.True(t, s.Done())
	assert.False(t, deps.Guard.Held(id))
	assert.Equal(t, 0, reg.Count())
}

func TestNewDraftAddedOnConfirm(t *testing.T) {
	deps, reg := testDeps(t)
	addAbility(t, reg, 1, "one", ability.TypeSpell)
	addAbility(t, reg, 2, "two", ability.TypeSpell)
	addAbility(t, reg, 3, "three", ability.TypeSpell)

	s, err := NewSessionForNew(deps, ability.TypeSkill)
	require.NoError(t, err)
	assert.Equal(t, 4, s.AbilityID())

	s.Process("1")
	s.Process("whirlwind")
	s.Process("Q")
	require.Equal(t, StateConfirmAdd, s.State())
	s.Process("y")
	require.Equal(t, StateConfirmSave, s.State())
	out := s.Process("y")
	assert.Contains(t, out, "Saved 4 abilities")
	assert.True(t, s.Done())

	got, ok := reg.GetByName("whirlwind")
	require.True(t, ok)
	assert.Equal(t, 4, got.ID)
}

func TestDeleteConfirmed(t *testing.T) {
	deps, reg := testDeps(t)
	ab := addAbility(t, reg, 9, "doomed", ability.TypeSpell)

	s, err := NewSession(deps, ab)
	require.NoError(t, err)

	s.Process("X")
	require.Equal(t, StateConfirmDelete, s.State())

	// Non-answers re-prompt.
	s.Process("perhaps")
	require.Equal(t, StateConfirmDelete, s.State())

	out := s.Process("y")
	assert.Contains(t, out, "deleted")
	assert.True(t, s.Done())
	assert.False(t, deps.Guard.Held(9))

	_, ok := reg.GetByID(9)
	assert.False(t, ok)
}

func TestCostChainRevalidation(t *testing.T) {
	deps, reg := testDeps(t)
	ab := addAbility(t, reg, 1, "fireball", ability.TypeSpell)

	s, err := NewSession(deps, ab)
	require.NoError(t, err)
	defer s.Close()

	s.Process("5")
	require.Equal(t, StateCostMenu, s.State())
	s.Process("1")
	require.Equal(t, StateCostMin, s.State())
	s.Process("20")
	require.Equal(t, StateCostMax, s.State())

	// Max below min re-prompts without advancing.
	out := s.Process("10")
	assert.Contains(t, out, "at least 20")
	require.Equal(t, StateCostMax, s.State())

	s.Process("40")
	require.Equal(t, StateCostChange, s.State())
	s.Process("3")
	require.Equal(t, StateCostMenu, s.State())

	assert.Equal(t, ability.CostFixed, s.draft.Cost.Kind)
	assert.Equal(t, 20, s.draft.Cost.Min)
	assert.Equal(t, 40, s.draft.Cost.Max)
	assert.Equal(t, 3, s.draft.Cost.Change)
}

func TestCostFormulaValidation(t *testing.T) {
	deps, reg := testDeps(t)
	ab := addAbility(t, reg, 1, "fireball", ability.TypeSpell)

	s, err := NewSession(deps, ab)
	require.NoError(t, err)
	defer s.Close()

	s.Process("5")
	s.Process("2")
	require.Equal(t, StateCostFormula, s.State())

	out := s.Process("not a formula")
	assert.Contains(t, out, "not a valid dice expression")
	require.Equal(t, StateCostFormula, s.State())

	s.Process("3d8+5")
	assert.Equal(t, ability.CostFormula, s.draft.Cost.Kind)
	assert.Equal(t, "3d8+5", s.draft.Cost.Formula)
}

func TestBitToggleIdempotence(t *testing.T) {
	deps, reg := testDeps(t)
	ab := addAbility(t, reg, 1, "fireball", ability.TypeSpell)

	s, err := NewSession(deps, ab)
	require.NoError(t, err)
	defer s.Close()

	s.Process("8") // routines menu
	require.Equal(t, StateRoutines, s.State())

	s.Process("1")
	assert.True(t, s.draft.Routines.Has(ability.RoutineDamages))
	s.Process("1")
	assert.False(t, s.draft.Routines.Has(ability.RoutineDamages))

	// Out-of-range index changes nothing.
	out := s.Process("99")
	assert.Contains(t, out, "Invalid routine")
	require.Equal(t, StateRoutines, s.State())

	s.Process("0")
	assert.Equal(t, StateMain, s.State())
}

func TestAffectOrderPreserved(t *testing.T) {
	deps, reg := testDeps(t)
	ab := addAbility(t, reg, 1, "armor", ability.TypeSpell)

	s, err := NewSession(deps, ab)
	require.NoError(t, err)
	defer s.Close()

	addAffect := func(apply, modifier string) {
		t.Helper()
		s.Process("A")
		require.Equal(t, StateAffects, s.State())
		s.Process("N")
		require.Equal(t, StateAffApply, s.State())
		s.Process(apply)
		require.Equal(t, StateAffModifier, s.State())
		s.Process(modifier)
		require.Equal(t, StateAffects, s.State())
		s.Process("0")
	}
	addAffect("1", "2")
	addAffect("2", "-3")
	addAffect("4", "1")

	require.Len(t, s.draft.Affects, 3)
	assert.Equal(t, ability.ApplyLocation(1), s.draft.Affects[0].Location)
	assert.Equal(t, 2, s.draft.Affects[0].Modifier)
	assert.Equal(t, ability.ApplyLocation(2), s.draft.Affects[1].Location)
	assert.Equal(t, -3, s.draft.Affects[1].Modifier)
	assert.Equal(t, ability.ApplyLocation(4), s.draft.Affects[2].Location)

	// Delete by 1-based index keeps the order of the survivors.
	s.Process("A")
	s.Process("X 2")
	require.Len(t, s.draft.Affects, 2)
	assert.Equal(t, ability.ApplyLocation(1), s.draft.Affects[0].Location)
	assert.Equal(t, ability.ApplyLocation(4), s.draft.Affects[1].Location)
	s.Process("0")
}

func TestLevelLoop(t *testing.T) {
	deps, reg := testDeps(t)
	ab := addAbility(t, reg, 1, "fireball", ability.TypeSpell)

	s, err := NewSession(deps, ab)
	require.NoError(t, err)
	defer s.Close()

	s.Process("L")
	require.Equal(t, StateLevels, s.State())

	s.Process("Mu 12")
	assert.Equal(t, StateLevels, s.State())
	assert.Equal(t, 12, s.draft.MinLevels[ability.ClassMagicUser])

	out := s.Process("Zz 5")
	assert.Contains(t, out, "Unknown class")

	out = s.Process("Cl 99")
	assert.Contains(t, out, "between 1 and")

	s.Process("0")
	assert.Equal(t, StateMain, s.State())
}

func TestMiscValueValidation(t *testing.T) {
	deps, reg := testDeps(t)
	ab := addAbility(t, reg, 1, "summon guard", ability.TypeSpell)

	s, err := NewSession(deps, ab)
	require.NoError(t, err)
	defer s.Close()

	s.Process("V")
	require.Equal(t, StateMisc, s.State())
	s.Process("1")
	require.Equal(t, StateMiscValue, s.State())

	out := s.Process("4242")
	assert.Contains(t, out, "No mob or object")
	require.Equal(t, StateMiscValue, s.State())

	s.Process("3005")
	assert.Equal(t, 3005, s.draft.MiscValues[0])
	assert.Equal(t, StateMisc, s.State())
}

func TestManualBinding(t *testing.T) {
	deps, reg := testDeps(t)
	ab := addAbility(t, reg, 1, "teleport", ability.TypeSpell)

	s, err := NewSession(deps, ab)
	require.NoError(t, err)
	defer s.Close()

	s.Process("T")
	require.Equal(t, StateManual, s.State())

	s.Process("1")
	assert.Equal(t, "spell_teleport", s.draft.Spell.FuncName)
	assert.NotNil(t, s.draft.Spell.Func)
	assert.True(t, s.draft.Routines.Has(ability.RoutineManual))

	s.Process("T")
	s.Process("N")
	assert.Empty(t, s.draft.Spell.FuncName)
	assert.False(t, s.draft.Routines.Has(ability.RoutineManual))
}

func TestSkillStunTwoStep(t *testing.T) {
	deps, reg := testDeps(t)
	ab := addAbility(t, reg, 1, "bash", ability.TypeSkill)

	s, err := NewSession(deps, ab)
	require.NoError(t, err)
	defer s.Close()

	s.Process("T")
	require.Equal(t, StateSkillMenu, s.State())
	s.Process("1")
	require.Equal(t, StateStunChar, s.State())
	s.Process("2")
	require.Equal(t, StateStunVict, s.State())
	s.Process("4")
	require.Equal(t, StateSkillMenu, s.State())

	assert.Equal(t, 2, s.draft.Skill.StunChar[ability.StunSuccess])
	assert.Equal(t, 4, s.draft.Skill.StunVict[ability.StunSuccess])
}

func TestTypeFixedAfterCreation(t *testing.T) {
	deps, reg := testDeps(t)
	ab := addAbility(t, reg, 1, "bash", ability.TypeSkill)
	ab.Skill.StunChar[ability.StunSuccess] = 2
	ab.Skill.StunVict[ability.StunSuccess] = 4

	s, err := NewSession(deps, ab)
	require.NoError(t, err)

	out := s.Process("2")
	assert.Contains(t, out, "fixed when the ability is created")
	assert.Equal(t, StateMain, s.State())
	assert.False(t, s.Dirty())

	// The skill payload survives untouched.
	assert.Equal(t, ability.TypeSkill, s.draft.Type)
	require.NotNil(t, s.draft.Skill)
	assert.Equal(t, 2, s.draft.Skill.StunChar[ability.StunSuccess])

	// A clean draft quits without any commit.
	s.Process("Q")
	assert.True(t, s.Done())
	got, ok := reg.GetByID(1)
	require.True(t, ok)
	assert.Equal(t, ability.TypeSkill, got.Type)
	assert.NotNil(t, got.Skill)
}

func TestDurationWithoutAffectsWarns(t *testing.T) {
	deps, reg := testDeps(t)
	ab := addAbility(t, reg, 1, "armor", ability.TypeSpell)

	s, err := NewSession(deps, ab)
	require.NoError(t, err)
	defer s.Close()

	s.Process("A")
	s.Process("D")
	require.Equal(t, StateAffDurMenu, s.State())
	s.Process("1")
	require.Equal(t, StateAffDurFixed, s.State())

	out := s.Process("12")
	assert.Contains(t, out, "only saved once at least one affect is defined")
	assert.Equal(t, 12, s.draft.Duration.Hours)
	assert.Equal(t, StateAffects, s.State())
}

func TestInvalidMainInputKeepsState(t *testing.T) {
	deps, reg := testDeps(t)
	ab := addAbility(t, reg, 1, "fireball", ability.TypeSpell)

	s, err := NewSession(deps, ab)
	require.NoError(t, err)
	defer s.Close()

	out := s.Process("zzz")
	assert.Contains(t, out, "Invalid choice")
	assert.Equal(t, StateMain, s.State())
	assert.False(t, s.Dirty())
}
