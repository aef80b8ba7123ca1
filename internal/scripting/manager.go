package scripting

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/ravenmud/mud/internal/game/ability"
	"github.com/ravenmud/mud/internal/game/dice"
)

const (
	spellPrefix = "spell_"
	skillPrefix = "skill_"
)

// Manager owns a single sandboxed LState hosting manual ability functions.
//
// The LState is single-threaded; the mutex serializes calls so gameplay
// invocations from different connections cannot interleave inside the VM.
type Manager struct {
	mu     sync.Mutex
	state  *lua.LState
	cancel context.CancelFunc
	roller *dice.Roller
	logger *zap.Logger

	// Injected after construction. nil = no-op in engine.* modules.
	Notify func(actorName, msg string)
}

// NewManager creates a Manager.
//
// Precondition: roller and logger must be non-nil.
// Postcondition: Returns a non-nil Manager with no VM loaded.
func NewManager(roller *dice.Roller, logger *zap.Logger) *Manager {
	return &Manager{
		roller: roller,
		logger: logger,
	}
}

// Load creates a sandboxed VM, registers the engine.* module, then executes
// every *.lua file in scriptDir in lexicographic order. Calling Load again
// replaces the previous VM.
//
// Precondition: scriptDir must be a readable directory.
// Postcondition: VM is ready for Bind; returns error on Lua load failure.
func (m *Manager) Load(scriptDir string, instLimit int) error {
	L, cancel := NewSandboxedState(instLimit)
	m.registerModules(L)

	entries, err := os.ReadDir(scriptDir)
	if err != nil {
		cancel()
		L.Close()
		return fmt.Errorf("scripting: reading script dir %q: %w", scriptDir, err)
	}

	var luaFiles []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".lua" {
			luaFiles = append(luaFiles, filepath.Join(scriptDir, e.Name()))
		}
	}
	sort.Strings(luaFiles)

	for _, path := range luaFiles {
		if err := L.DoFile(path); err != nil {
			cancel()
			L.Close()
			return fmt.Errorf("scripting: loading %q: %w", path, err)
		}
	}

	m.mu.Lock()
	if m.state != nil {
		if m.cancel != nil {
			m.cancel()
		}
		m.state.Close()
	}
	m.state = L
	m.cancel = cancel
	m.mu.Unlock()
	return nil
}

// Close releases the VM. Safe to call with no VM loaded.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != nil {
		if m.cancel != nil {
			m.cancel()
		}
		m.state.Close()
		m.state = nil
		m.cancel = nil
	}
}

// Bind registers every Lua global function named spell_* or skill_* into
// manuals under its full global name. The wrapped callbacks dispatch back
// into the VM on invocation.
//
// Precondition: Load must have succeeded.
// Postcondition: manuals can resolve every scripted function name.
func (m *Manager) Bind(manuals *ability.ManualRegistry) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == nil {
		return 0
	}

	bound := 0
	m.state.G.Global.ForEach(func(k, v lua.LValue) {
		name, ok := k.(lua.LString)
		if !ok || v.Type() != lua.LTFunction {
			return
		}
		fn := string(name)
		switch {
		case strings.HasPrefix(fn, spellPrefix):
			manuals.RegisterSpell(fn, m.spellFunc(fn))
			bound++
		case strings.HasPrefix(fn, skillPrefix):
			manuals.RegisterSkill(fn, m.skillFunc(fn))
			bound++
		}
	})
	m.logger.Info("scripting: bound manual functions", zap.Int("count", bound))
	return bound
}

func (m *Manager) spellFunc(fn string) ability.SpellFunc {
	return func(actor ability.Actor, target ability.Actor, ab *ability.Ability) error {
		m.mu.Lock()
		defer m.mu.Unlock()
		if m.state == nil {
			return fmt.Errorf("scripting: %s called with no VM loaded", fn)
		}
		return m.call(fn, actorTable(m.state, actor), actorTable(m.state, target), abilityTable(m.state, ab))
	}
}

func (m *Manager) skillFunc(fn string) ability.SkillFunc {
	return func(actor ability.Actor, argument string, subcommand int) error {
		m.mu.Lock()
		defer m.mu.Unlock()
		if m.state == nil {
			return fmt.Errorf("scripting: %s called with no VM loaded", fn)
		}
		return m.call(fn, actorTable(m.state, actor), lua.LString(argument), lua.LNumber(subcommand))
	}
}

// call invokes the named global. Lua runtime errors are logged at Warn level
// and never propagated; a scripted ability must not tear down the caller.
func (m *Manager) call(fn string, args ...lua.LValue) error {
	L := m.state
	val := L.GetGlobal(fn)
	if val == lua.LNil {
		return fmt.Errorf("scripting: no such function %q", fn)
	}
	if err := L.CallByParam(lua.P{
		Fn:      val,
		NRet:    0,
		Protect: true,
	}, args...); err != nil {
		m.logger.Warn("scripting: Lua runtime error",
			zap.String("function", fn),
			zap.Error(err),
		)
	}
	return nil
}

func actorTable(L *lua.LState, a ability.Actor) lua.LValue {
	if a == nil {
		return lua.LNil
	}
	t := L.NewTable()
	t.RawSetString("level", lua.LNumber(a.Level()))
	t.RawSetString("class", lua.LNumber(a.Class()))
	t.RawSetString("npc", lua.LBool(a.IsNPC()))
	return t
}

func abilityTable(L *lua.LState, ab *ability.Ability) lua.LValue {
	if ab == nil {
		return lua.LNil
	}
	t := L.NewTable()
	t.RawSetString("id", lua.LNumber(ab.ID))
	t.RawSetString("name", lua.LString(ab.Name))
	t.RawSetString("type", lua.LString(ability.TypeNames[ab.Type]))
	return t
}
