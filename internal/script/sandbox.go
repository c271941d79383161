// Package script provides the embedded Lua sandbox that runs moddable
// state-machine behavior. The interpreter is stripped of every
// non-deterministic and I/O-capable facility: no os or io libraries,
// no file loading, and math.random rewired to the simulation's own
// deterministic source. Behavior functions are compiled once at load
// time into reusable handles; a call site never parses Lua.
package script

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	lua "github.com/yuin/gopher-lua"
	"github.com/yuin/gopher-lua/parse"

	"github.com/vovakirdan/raidsim/internal/config"
	"github.com/vovakirdan/raidsim/internal/rng"
	"github.com/vovakirdan/raidsim/internal/tics"
)

// ErrMissingFunction is returned by Call when the named function was
// never compiled and the missing-function policy is fatal.
var ErrMissingFunction = errors.New("script: function not defined")

// Chunk is one named Lua source unit.
type Chunk struct {
	Name   string
	Source string
}

// Sandbox owns one restricted Lua state and the compiled function
// handles. It is single-threaded by design: the simulator invokes it
// synchronously from within the tick.
type Sandbox struct {
	l      *lua.LState
	rng    *rng.Source
	clock  *tics.Clock
	policy config.MissingFuncPolicy
	logger *log.Logger
	fns    map[string]*lua.LFunction
	warned map[string]bool
}

// New creates a sandboxed interpreter bound to the given deterministic
// sources. The RNG and clock are injected references, never globals,
// so multiple simulator instances cannot interfere with each other.
func New(source *rng.Source, clock *tics.Clock, policy config.MissingFuncPolicy, logger *log.Logger) *Sandbox {
	if logger == nil {
		logger = log.Default()
	}

	s := &Sandbox{
		l:      lua.NewState(lua.Options{SkipOpenLibs: true}),
		rng:    source,
		clock:  clock,
		policy: policy,
		logger: logger,
		fns:    make(map[string]*lua.LFunction),
		warned: make(map[string]bool),
	}
	s.openLibraries()
	s.stripUnsafe()
	s.installGameAPI()
	return s
}

// Close releases the interpreter.
func (s *Sandbox) Close() {
	s.l.Close()
}

// openLibraries loads only the side-effect-free standard libraries.
func (s *Sandbox) openLibraries() {
	for _, lib := range []struct {
		name string
		fn   lua.LGFunction
	}{
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
	} {
		s.l.Push(s.l.NewFunction(lib.fn))
		s.l.Push(lua.LString(lib.name))
		s.l.Call(1, 0)
	}
}

// stripUnsafe removes the base-library escape hatches: code loading,
// stdout access, and GC control. The os and io libraries are never
// opened in the first place.
func (s *Sandbox) stripUnsafe() {
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "print", "collectgarbage"} {
		s.l.SetGlobal(name, lua.LNil)
	}
}

// installGameAPI replaces math.random with the deterministic source and
// publishes the global `game` table: the only window scripts get onto
// the RNG and the clock.
func (s *Sandbox) installGameAPI() {
	mathTbl, ok := s.l.GetGlobal(lua.MathLibName).(*lua.LTable)
	if ok {
		s.l.SetField(mathTbl, "random", s.l.NewFunction(s.luaMathRandom))
		s.l.SetField(mathTbl, "randomseed", s.l.NewFunction(func(_ *lua.LState) int {
			// Seeding is the simulator's job; a mod reseeding would
			// break replay fidelity, so this is a silent no-op.
			return 0
		}))
	}

	game := s.l.NewTable()
	s.l.SetField(game, "rnd", s.l.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LNumber(s.rng.Next()))
		return 1
	}))
	s.l.SetField(game, "rand", s.l.NewFunction(func(L *lua.LState) int {
		n := L.CheckInt(1)
		if n <= 0 {
			L.Push(lua.LNumber(0))
			return 1
		}
		L.Push(lua.LNumber(s.rng.Intn(n)))
		return 1
	}))
	s.l.SetField(game, "chance", s.l.NewFunction(func(L *lua.LState) int {
		p := L.CheckInt(1)
		if p < 0 {
			p = 0
		}
		if p > 255 {
			p = 255
		}
		L.Push(lua.LBool(s.rng.Chance(byte(p))))
		return 1
	}))
	s.l.SetField(game, "tics", s.l.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LNumber(s.clock.Tics()))
		return 1
	}))
	s.l.SetGlobal("game", game)
}

// luaMathRandom mimics Lua's math.random signatures on top of the
// deterministic table source.
func (s *Sandbox) luaMathRandom(L *lua.LState) int {
	switch L.GetTop() {
	case 0:
		L.Push(lua.LNumber(float64(s.rng.Next()) / 256.0))
	case 1:
		n := L.CheckInt(1)
		if n < 1 {
			L.ArgError(1, "interval is empty")
		}
		L.Push(lua.LNumber(s.rng.Intn(n) + 1))
	default:
		lo, hi := L.CheckInt(1), L.CheckInt(2)
		if lo > hi {
			L.ArgError(2, "interval is empty")
		}
		L.Push(lua.LNumber(lo + s.rng.Intn(hi-lo+1)))
	}
	return 1
}

// CompileAll parses and compiles every chunk, runs them so their
// global functions bind, and resolves all required function names to
// handles. Any syntax error or runtime error during binding aborts the
// load: a malformed mod must never reach the tick loop. A required
// function the chunks never defined follows the missing-function
// policy: under fatal it aborts the load too, under warn it is logged
// once and every later Call of it is a no-op.
func (s *Sandbox) CompileAll(chunks []Chunk, required []string) error {
	for _, c := range chunks {
		chunk, err := parse.Parse(strings.NewReader(c.Source), c.Name)
		if err != nil {
			return fmt.Errorf("script: parse %s: %w", c.Name, err)
		}
		proto, err := lua.Compile(chunk, c.Name)
		if err != nil {
			return fmt.Errorf("script: compile %s: %w", c.Name, err)
		}

		s.l.Push(s.l.NewFunctionFromProto(proto))
		if err := s.l.PCall(0, lua.MultRet, nil); err != nil {
			return fmt.Errorf("script: run %s: %w", c.Name, err)
		}
	}

	for _, name := range required {
		fn, ok := s.l.GetGlobal(name).(*lua.LFunction)
		if !ok {
			if s.policy == config.MissingFuncFatal {
				return fmt.Errorf("%w: %q (referenced by a state definition)", ErrMissingFunction, name)
			}
			s.logger.Warn("script function not defined, calls will be skipped", "func", name)
			s.warned[name] = true
			continue
		}
		s.fns[name] = fn
	}

	return nil
}

// Has reports whether a function handle was resolved for name.
func (s *Sandbox) Has(name string) bool {
	_, ok := s.fns[name]
	return ok
}

// Call invokes a compiled function with the context value produced by
// build. The context is rebuilt per call; its closures are the only
// world access the function gets.
//
// A Lua runtime error inside the call is returned to the caller and
// leaves the interpreter usable; the caller contains it to the entity
// whose function failed. An unknown name follows the missing-function
// policy: warn-and-no-op, or ErrMissingFunction.
func (s *Sandbox) Call(name string, build func(L *lua.LState) lua.LValue) error {
	fn, ok := s.fns[name]
	if !ok {
		if s.policy == config.MissingFuncFatal {
			return fmt.Errorf("%w: %q", ErrMissingFunction, name)
		}
		if !s.warned[name] {
			s.logger.Warn("script function not defined, skipping", "func", name)
			s.warned[name] = true
		}
		return nil
	}

	ctx := build(s.l)
	if err := s.l.CallByParam(lua.P{Fn: fn, NRet: 0, Protect: true}, ctx); err != nil {
		return fmt.Errorf("script: %s: %w", name, err)
	}
	return nil
}
