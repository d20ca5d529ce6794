package bot

import (
	"fmt"
	"os"
	"sync"

	lua "github.com/yuin/gopher-lua"

	"github.com/wricardo/mcp-training/arcade/game/engine"
)

// ChooseFunc is the global a policy script must define:
//
//	function choose(state, actions) return index end
//
// state has kind, status, score and finished fields; actions is a 1-based
// list of tables with the Action fields. The returned index is 1-based.
const ChooseFunc = "choose"

// LuaPolicy delegates the choice to a Lua script
type LuaPolicy struct {
	mu     sync.Mutex
	state  *lua.LState
	choose lua.LValue
}

// NewLuaPolicy compiles script and checks that it defines choose
func NewLuaPolicy(script string) (*LuaPolicy, error) {
	L := lua.NewState()
	if err := L.DoString(script); err != nil {
		L.Close()
		return nil, fmt.Errorf("failed to load policy script: %w", err)
	}
	fn := L.GetGlobal(ChooseFunc)
	if fn.Type() != lua.LTFunction {
		L.Close()
		return nil, fmt.Errorf("policy script must define a %s(state, actions) function", ChooseFunc)
	}
	return &LuaPolicy{state: L, choose: fn}, nil
}

// LoadLuaPolicy reads a policy script from disk
func LoadLuaPolicy(path string) (*LuaPolicy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read policy script: %w", err)
	}
	return NewLuaPolicy(string(data))
}

// Close releases the Lua interpreter
func (p *LuaPolicy) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state.Close()
}

// Choose implements Policy
func (p *LuaPolicy) Choose(game engine.Game) (engine.Action, error) {
	actions := game.PossibleActions()
	if len(actions) == 0 {
		return engine.Action{}, ErrNoActions
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	L := p.state

	info := L.NewTable()
	info.RawSetString("kind", lua.LString(game.Kind()))
	info.RawSetString("status", lua.LString(game.Status()))
	info.RawSetString("score", lua.LNumber(game.Score()))
	info.RawSetString("finished", lua.LBool(game.Finished()))

	list := L.NewTable()
	for i, a := range actions {
		list.RawSetInt(i+1, actionTable(L, a))
	}

	if err := L.CallByParam(lua.P{Fn: p.choose, NRet: 1, Protect: true}, info, list); err != nil {
		return engine.Action{}, fmt.Errorf("policy script failed: %w", err)
	}
	ret := L.Get(-1)
	L.Pop(1)

	n, ok := ret.(lua.LNumber)
	if !ok {
		return engine.Action{}, fmt.Errorf("%s returned %s, want a number", ChooseFunc, ret.Type())
	}
	idx := int(n)
	if idx < 1 || idx > len(actions) {
		return engine.Action{}, fmt.Errorf("%s returned %d, want 1..%d", ChooseFunc, idx, len(actions))
	}
	return actions[idx-1], nil
}

func actionTable(L *lua.LState, a engine.Action) *lua.LTable {
	t := L.NewTable()
	t.RawSetString("type", lua.LString(a.Type))
	t.RawSetString("index", lua.LNumber(a.Index))
	t.RawSetString("row", lua.LNumber(a.Row))
	t.RawSetString("col", lua.LNumber(a.Col))
	t.RawSetString("to_row", lua.LNumber(a.ToRow))
	t.RawSetString("to_col", lua.LNumber(a.ToCol))
	t.RawSetString("dx", lua.LNumber(a.DX))
	t.RawSetString("dy", lua.LNumber(a.DY))
	return t
}
