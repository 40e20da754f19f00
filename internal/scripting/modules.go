package scripting

import (
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// RegisterModules registers the sim.* Lua tables into L. sim.log routes
// script diagnostics through the structured logger at the matching level.
//
// Precondition: L must be from NewSandboxedState; logger must be non-nil.
// Postcondition: The sim global is defined in L.
func RegisterModules(L *lua.LState, logger *zap.Logger) {
	sim := L.NewTable()
	L.SetGlobal("sim", sim)

	logTbl := L.NewTable()
	L.SetField(sim, "log", logTbl)
	for name, fn := range map[string]func(string, ...zap.Field){
		"debug": logger.Debug,
		"info":  logger.Info,
		"warn":  logger.Warn,
		"error": logger.Error,
	} {
		L.SetField(logTbl, name, L.NewFunction(func(L *lua.LState) int {
			fn(L.CheckString(1), zap.String("source", "policy"))
			return 0
		}))
	}
}
