package ability

import (
	"sort"

	"go.uber.org/zap"
)

// ManualRegistry maps symbolic function names to the callbacks that
// implement manual spells and skills. Names are resolved once, at load
// time, mirroring the legacy static binding tables.
type ManualRegistry struct {
	spells map[string]SpellFunc
	skills map[string]SkillFunc
}

// NewManualRegistry creates an empty ManualRegistry.
func NewManualRegistry() *ManualRegistry {
	return &ManualRegistry{
		spells: make(map[string]SpellFunc),
		skills: make(map[string]SkillFunc),
	}
}

// RegisterSpell adds a manual spell implementation under name,
// overwriting any existing entry.
//
// Precondition: name must be non-empty; fn must be non-nil.
func (m *ManualRegistry) RegisterSpell(name string, fn SpellFunc) {
	m.spells[name] = fn
}

// RegisterSkill adds a manual skill implementation under name,
// overwriting any existing entry.
//
// Precondition: name must be non-empty; fn must be non-nil.
func (m *ManualRegistry) RegisterSkill(name string, fn SkillFunc) {
	m.skills[name] = fn
}

// Spell returns the manual spell callback for name.
//
// Postcondition: Returns (fn, true) if registered, or (nil, false).
func (m *ManualRegistry) Spell(name string) (SpellFunc, bool) {
	fn, ok := m.spells[name]
	return fn, ok
}

// Skill returns the manual skill callback for name.
//
// Postcondition: Returns (fn, true) if registered, or (nil, false).
func (m *ManualRegistry) Skill(name string) (SkillFunc, bool) {
	fn, ok := m.skills[name]
	return fn, ok
}

// SpellNames returns all registered spell function names, sorted.
func (m *ManualRegistry) SpellNames() []string {
	out := make([]string, 0, len(m.spells))
	for name := range m.spells {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// SkillNames returns all registered skill function names, sorted.
func (m *ManualRegistry) SkillNames() []string {
	out := make([]string, 0, len(m.skills))
	for name := range m.skills {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Bind walks the registry and resolves every recorded function name to
// its callback, setting the Manual routine bit on each bound record.
// Records whose name resolves to nothing are logged and left unbound.
//
// Precondition: reg and logger must be non-nil.
// Postcondition: Every record with a resolvable function name has a
// non-nil callback and the Manual routine bit set.
func (m *ManualRegistry) Bind(reg *Registry, logger *zap.Logger) {
	bound := 0
	for _, ab := range reg.All() {
		name := ab.FuncName()
		if name == "" {
			continue
		}
		switch {
		case ab.Spell != nil:
			fn, ok := m.Spell(name)
			if !ok {
				logger.Warn("manual spell function not registered",
					zap.Int("ability", ab.ID),
					zap.String("func", name),
				)
				continue
			}
			ab.Spell.Func = fn
		case ab.Skill != nil:
			fn, ok := m.Skill(name)
			if !ok {
				logger.Warn("manual skill function not registered",
					zap.Int("ability", ab.ID),
					zap.String("func", name),
				)
				continue
			}
			ab.Skill.Func = fn
		}
		ab.Routines = ab.Routines.Set(RoutineManual)
		bound++
	}
	logger.Info("bound manual ability functions", zap.Int("count", bound))
}
