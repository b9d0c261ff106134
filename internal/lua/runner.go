// Package lua runs operator-message preparer scripts. A deployment can
// point the gateway at a Lua script to rewrite or block incoming messages
// before they reach the engine (redaction, policy checks, canned replies).
package lua

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	lua "github.com/yuin/gopher-lua"
)

// Result is the outcome of running a preparer script over one message.
type Result struct {
	Text    string // rewritten message, or the reply when Forward is false
	Forward bool   // if false, skip the engine and return Text to the operator
}

// RunPrepare runs the script at scriptPath, calling its global
// prepare(text) function. The script must return either a string (the
// rewritten message, which is forwarded) or a table with forward (bool)
// and message (string) to block the turn and answer directly.
func RunPrepare(scriptPath, text string) (*Result, error) {
	lState := lua.NewState()
	defer lState.Close()

	lState.PreloadModule("os", osModuleLoader)

	absPath, err := filepath.Abs(scriptPath)
	if err != nil {
		return nil, fmt.Errorf("script path: %w", err)
	}
	if err := lState.DoFile(absPath); err != nil {
		return nil, fmt.Errorf("load script: %w", err)
	}

	fn := lState.GetGlobal("prepare")
	if fn.Type() == lua.LTNil {
		return nil, fmt.Errorf("script must define global function prepare(text)")
	}
	if fn.Type() != lua.LTFunction {
		return nil, fmt.Errorf("prepare must be a function, got %s", fn.Type().String())
	}

	lState.Push(fn)
	lState.Push(lua.LString(text))
	if err := lState.PCall(1, 1, nil); err != nil {
		return nil, fmt.Errorf("prepare(): %w", err)
	}

	ret := lState.Get(-1)
	lState.Pop(1)

	switch ret.Type() {
	case lua.LTString:
		return &Result{Text: ret.String(), Forward: true}, nil
	case lua.LTTable:
		tbl := ret.(*lua.LTable)
		forward := true
		var message string
		tbl.ForEach(func(k, v lua.LValue) {
			if k.String() == "forward" && v.Type() == lua.LTBool {
				forward = v.(lua.LBool) == lua.LTrue
			}
			if k.String() == "message" && v.Type() == lua.LTString {
				message = v.String()
			}
		})
		return &Result{Text: message, Forward: forward}, nil
	default:
		return nil, fmt.Errorf("prepare() must return string or table { forward, message }, got %s", ret.Type().String())
	}
}

// osModuleLoader provides a minimal os module: getenv and time.
func osModuleLoader(lState *lua.LState) int {
	mod := lState.NewTable()
	lState.SetField(mod, "getenv", lState.NewFunction(func(ls *lua.LState) int {
		key := ls.CheckString(1)
		val := os.Getenv(key)
		ls.Push(lua.LString(val))
		return 1
	}))
	lState.SetField(mod, "time", lState.NewFunction(func(ls *lua.LState) int {
		ls.Push(lua.LNumber(time.Now().Unix()))
		return 1
	}))
	lState.Push(mod)
	return 1
}
