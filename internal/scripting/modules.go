package scripting

import (
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// registerModules installs the engine.* table on L. Every function is safe
// to call even when the Manager's injected callbacks are nil.
func (m *Manager) registerModules(L *lua.LState) {
	engine := L.NewTable()

	engine.RawSetString("roll", L.NewFunction(func(L *lua.LState) int {
		expr := L.CheckString(1)
		total, err := m.roller.RollExpr(expr)
		if err != nil {
			L.Push(lua.LNumber(0))
			return 1
		}
		L.Push(lua.LNumber(total))
		return 1
	}))

	engine.RawSetString("percent", L.NewFunction(func(L *lua.LState) int {
		chance := L.CheckInt(1)
		L.Push(lua.LBool(m.roller.Percent(chance)))
		return 1
	}))

	engine.RawSetString("notify", L.NewFunction(func(L *lua.LState) int {
		name := L.CheckString(1)
		msg := L.CheckString(2)
		if m.Notify != nil {
			m.Notify(name, msg)
		}
		return 0
	}))

	engine.RawSetString("log", L.NewFunction(func(L *lua.LState) int {
		msg := L.CheckString(1)
		m.logger.Info("script", zap.String("msg", msg))
		return 0
	}))

	L.SetGlobal("engine", engine)
}
