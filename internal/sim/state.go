package sim

import (
	"fmt"

	"github.com/vovakirdan/raidsim/internal/level"
)

// State is the runtime form of a behavior-graph node. The graph is
// built once from level definitions and shared read-only by every
// entity; entities hold references, never copies.
type State struct {
	Name   string
	Shape  int
	Tics   int
	Think  string
	Action string
	Next   *State // nil = terminal, the machine halts
}

// buildStates resolves the definition graph's next-state names into
// pointers. Dangling names were rejected by level validation, but the
// lookup is re-checked so a hand-built Definitions cannot smuggle one
// through.
func buildStates(defs *level.Definitions) (map[string]*State, error) {
	states := make(map[string]*State, len(defs.States))
	for name, d := range defs.States {
		states[name] = &State{
			Name:   name,
			Shape:  d.Shape,
			Tics:   d.Tics,
			Think:  d.Think,
			Action: d.Action,
		}
	}
	for name, d := range defs.States {
		if d.Next == "" {
			continue
		}
		next, ok := states[d.Next]
		if !ok {
			return nil, fmt.Errorf("sim: state %q references undefined state %q", name, d.Next)
		}
		states[name].Next = next
	}
	return states, nil
}

// machine is the shared per-entity state-machine runtime: a current
// state reference and a countdown in tics. Actors and weapon slots
// embed it; doors and push-walls implement the same tic discipline
// with their own fixed graphs.
type machine struct {
	cur      *State
	ticsLeft int
	parked   bool // Set when the transition chain cap tripped
}

// enter switches to st and resets the countdown. The caller decides
// whether st's entry action fires.
func (m *machine) enter(st *State) {
	m.cur = st
	m.ticsLeft = st.Tics
}

// step advances the machine by one tic: run the think function, count
// down, and on expiry follow the transition chain, firing each entered
// state's action once. Zero-duration states chain within the same tic;
// maxChain bounds the chain so an unterminated zero-duration cycle is
// reported instead of hanging the tic. Returns false when the cap
// tripped, which parks the machine permanently.
func (m *machine) step(maxChain int, think func(*State), entered func(*State)) bool {
	if m.parked || m.cur == nil {
		return true
	}

	if m.cur.Think != "" {
		think(m.cur)
	}
	// The think function may have switched or halted the machine.
	if m.parked || m.cur == nil || m.cur.Next == nil {
		return true
	}

	m.ticsLeft--
	if m.ticsLeft > 0 {
		return true
	}

	for hops := 0; ; hops++ {
		if hops >= maxChain {
			m.parked = true
			return false
		}
		m.enter(m.cur.Next)
		entered(m.cur)
		// Entry actions may themselves redirect the machine, so
		// re-read the current state before deciding to chain.
		if m.parked || m.cur == nil || m.cur.Next == nil || m.cur.Tics > 0 {
			return true
		}
	}
}

// halted reports whether the machine can no longer advance.
func (m *machine) halted() bool {
	return m.parked || m.cur == nil || m.cur.Next == nil
}
