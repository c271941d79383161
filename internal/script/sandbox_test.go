package script

import (
	"errors"
	"testing"

	lua "github.com/yuin/gopher-lua"

	"github.com/vovakirdan/raidsim/internal/config"
	"github.com/vovakirdan/raidsim/internal/rng"
	"github.com/vovakirdan/raidsim/internal/tics"
)

func newTestSandbox(t *testing.T, policy config.MissingFuncPolicy) *Sandbox {
	t.Helper()
	s := New(rng.New(1), tics.NewClock("test"), policy, nil)
	t.Cleanup(s.Close)
	return s
}

func noContext(L *lua.LState) lua.LValue {
	return L.NewTable()
}

func TestCompileAndCall(t *testing.T) {
	s := newTestSandbox(t, config.MissingFuncWarn)

	chunks := []Chunk{{Name: "t", Source: `
		calls = 0
		function Tick(self)
			calls = calls + 1
		end
	`}}
	if err := s.CompileAll(chunks, []string{"Tick"}); err != nil {
		t.Fatalf("CompileAll: %v", err)
	}

	for i := 0; i < 3; i++ {
		if err := s.Call("Tick", noContext); err != nil {
			t.Fatalf("Call %d: %v", i, err)
		}
	}

	if got := s.l.GetGlobal("calls"); got != lua.LNumber(3) {
		t.Errorf("calls = %v, want 3", got)
	}
}

func TestCompileFailsFastOnSyntaxError(t *testing.T) {
	s := newTestSandbox(t, config.MissingFuncWarn)

	err := s.CompileAll([]Chunk{{Name: "bad", Source: "function ("}}, nil)
	if err == nil {
		t.Fatal("expected parse error")
	}
}

func TestCompileFailsOnMissingRequiredFunctionWhenFatal(t *testing.T) {
	s := newTestSandbox(t, config.MissingFuncFatal)

	err := s.CompileAll([]Chunk{{Name: "t", Source: "function A() end"}}, []string{"A", "B"})
	if !errors.Is(err, ErrMissingFunction) {
		t.Fatalf("expected ErrMissingFunction, got %v", err)
	}
}

func TestMissingRequiredFunctionIsSkippedWhenWarn(t *testing.T) {
	s := newTestSandbox(t, config.MissingFuncWarn)

	chunks := []Chunk{{Name: "t", Source: `
		calls = 0
		function A(self)
			calls = calls + 1
		end
	`}}
	if err := s.CompileAll(chunks, []string{"A", "B"}); err != nil {
		t.Fatalf("warn policy should tolerate a missing required function, got %v", err)
	}

	if err := s.Call("B", noContext); err != nil {
		t.Errorf("Call of missing function should no-op, got %v", err)
	}
	if err := s.Call("A", noContext); err != nil {
		t.Fatalf("Call: %v", err)
	}
	if got := s.l.GetGlobal("calls"); got != lua.LNumber(1) {
		t.Errorf("calls = %v, want 1", got)
	}
	if s.Has("B") {
		t.Error("Has(B) reports a handle for an undefined function")
	}
}

func TestMissingFunctionPolicy(t *testing.T) {
	warn := newTestSandbox(t, config.MissingFuncWarn)
	if err := warn.Call("Ghost", noContext); err != nil {
		t.Errorf("warn policy should no-op, got %v", err)
	}

	fatal := newTestSandbox(t, config.MissingFuncFatal)
	if err := fatal.Call("Ghost", noContext); !errors.Is(err, ErrMissingFunction) {
		t.Errorf("fatal policy should return ErrMissingFunction, got %v", err)
	}
}

func TestRuntimeErrorIsContainedPerCall(t *testing.T) {
	s := newTestSandbox(t, config.MissingFuncWarn)

	chunks := []Chunk{{Name: "t", Source: `
		function Boom(self)
			error("deliberate")
		end
		function Fine(self)
			ok = true
		end
	`}}
	if err := s.CompileAll(chunks, []string{"Boom", "Fine"}); err != nil {
		t.Fatalf("CompileAll: %v", err)
	}

	if err := s.Call("Boom", noContext); err == nil {
		t.Fatal("expected runtime error from Boom")
	}
	// The interpreter must survive the failed call.
	if err := s.Call("Fine", noContext); err != nil {
		t.Fatalf("Call after error: %v", err)
	}
	if got := s.l.GetGlobal("ok"); got != lua.LTrue {
		t.Error("Fine did not run after Boom failed")
	}
}

func TestSandboxStripsUnsafeGlobals(t *testing.T) {
	s := newTestSandbox(t, config.MissingFuncWarn)

	src := `
		function Probe(self)
			stripped = (os == nil) and (io == nil) and (dofile == nil)
				and (loadfile == nil) and (load == nil) and (print == nil)
		end
	`
	if err := s.CompileAll([]Chunk{{Name: "t", Source: src}}, []string{"Probe"}); err != nil {
		t.Fatalf("CompileAll: %v", err)
	}
	if err := s.Call("Probe", noContext); err != nil {
		t.Fatalf("Call: %v", err)
	}
	if got := s.l.GetGlobal("stripped"); got != lua.LTrue {
		t.Error("sandbox left an unsafe global reachable")
	}
}

func TestMathRandomIsDeterministic(t *testing.T) {
	src := `
		draws = {}
		function Draw(self)
			draws[#draws + 1] = math.random(100)
		end
	`

	run := func() []lua.LValue {
		s := New(rng.New(42), tics.NewClock("test"), config.MissingFuncWarn, nil)
		defer s.Close()
		if err := s.CompileAll([]Chunk{{Name: "t", Source: src}}, []string{"Draw"}); err != nil {
			t.Fatalf("CompileAll: %v", err)
		}
		for i := 0; i < 20; i++ {
			if err := s.Call("Draw", noContext); err != nil {
				t.Fatalf("Call: %v", err)
			}
		}
		tbl := s.l.GetGlobal("draws").(*lua.LTable)
		var out []lua.LValue
		tbl.ForEach(func(_, v lua.LValue) {
			out = append(out, v)
		})
		return out
	}

	a, b := run(), run()
	if len(a) != 20 || len(b) != 20 {
		t.Fatalf("draw counts: %d, %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("draw %d diverged: %v vs %v", i, a[i], b[i])
		}
		n := float64(a[i].(lua.LNumber))
		if n < 1 || n > 100 {
			t.Fatalf("math.random(100) produced %v", n)
		}
	}
}

func TestGameTableExposesRNGAndClock(t *testing.T) {
	source := rng.New(7)
	clock := tics.NewClock("test")
	clock.Advance(tics.Duration(35))

	s := New(source, clock, config.MissingFuncWarn, nil)
	t.Cleanup(s.Close)

	src := `
		function Probe(self)
			t = game.tics()
			r = game.rand(10)
			c = game.chance(255)
		end
	`
	if err := s.CompileAll([]Chunk{{Name: "t", Source: src}}, []string{"Probe"}); err != nil {
		t.Fatalf("CompileAll: %v", err)
	}
	if err := s.Call("Probe", noContext); err != nil {
		t.Fatalf("Call: %v", err)
	}

	if got := s.l.GetGlobal("t"); got != lua.LNumber(35) {
		t.Errorf("game.tics() = %v, want 35", got)
	}
	r := float64(s.l.GetGlobal("r").(lua.LNumber))
	if r < 0 || r > 9 {
		t.Errorf("game.rand(10) = %v, out of range", r)
	}
	if _, ok := s.l.GetGlobal("c").(lua.LBool); !ok {
		t.Errorf("game.chance(255) = %v, want a boolean", s.l.GetGlobal("c"))
	}
}

func TestContextClosuresAreTheOnlyWorldAccess(t *testing.T) {
	s := newTestSandbox(t, config.MissingFuncWarn)

	src := `
		function Touch(self)
			self.poke(3)
		end
	`
	if err := s.CompileAll([]Chunk{{Name: "t", Source: src}}, []string{"Touch"}); err != nil {
		t.Fatalf("CompileAll: %v", err)
	}

	var poked int
	err := s.Call("Touch", func(L *lua.LState) lua.LValue {
		ctx := L.NewTable()
		L.SetField(ctx, "poke", L.NewFunction(func(L *lua.LState) int {
			poked = L.CheckInt(1)
			return 0
		}))
		return ctx
	})
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	if poked != 3 {
		t.Errorf("poke received %d, want 3", poked)
	}
}
