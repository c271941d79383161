package level

import (
	"fmt"
	"sort"
)

// StateDef is one named node of a behavior graph: a display shape, a
// duration in tics, optional think/action script functions, and the
// node to enter when the duration runs out. A node with a next state
// and duration 0 transitions on the tic it is entered; a node with no
// next state is terminal and the machine halts there.
type StateDef struct {
	Name   string `yaml:"name"`
	Shape  int    `yaml:"shape"`
	Tics   int    `yaml:"tics"`
	Think  string `yaml:"think,omitempty"`  // Script function run every tic
	Action string `yaml:"action,omitempty"` // Script function run once on entry
	Next   string `yaml:"next,omitempty"`   // Empty = terminal state
}

// ActorDef is the static definition of one actor type.
type ActorDef struct {
	Name   string `yaml:"name"`
	Health int    `yaml:"health"`
	Speed  int    `yaml:"speed"` // Global units per tic
	Stand  string `yaml:"stand"` // Initial state
	Alert  string `yaml:"alert"` // Entered when the actor notices the player
	Pain   string `yaml:"pain,omitempty"`
	Death  string `yaml:"death"`
}

// WeaponDef is the static definition of one weapon type.
type WeaponDef struct {
	Name        string `yaml:"name"`
	Ready       string `yaml:"ready"`          // Idle state while wielded
	Attack      string `yaml:"attack"`         // Entered on fire
	Ammo        string `yaml:"ammo,omitempty"` // Inventory counter, empty = needs none
	AmmoPerShot int    `yaml:"ammo_per_shot"`
}

// ScriptChunk is one named Lua source unit of a mod.
type ScriptChunk struct {
	Name   string `yaml:"name"`
	Source string `yaml:"source"`
}

// Definitions bundles the moddable behavior data: shared state graphs,
// actor and weapon types, and the script sources their functions live in.
type Definitions struct {
	States  map[string]*StateDef
	Actors  map[string]*ActorDef
	Weapons map[string]*WeaponDef
	Scripts []ScriptChunk
}

// State looks up a state definition by name.
func (d *Definitions) State(name string) (*StateDef, bool) {
	s, ok := d.States[name]
	return s, ok
}

// Validate checks every cross-reference in the definitions. Dangling
// references are configuration errors and must never reach the
// simulator, so a non-nil return aborts loading.
func (d *Definitions) Validate() error {
	for name, s := range d.States {
		if s.Next == "" {
			// Terminal state: the machine halts here.
			continue
		}
		if _, ok := d.States[s.Next]; !ok {
			return fmt.Errorf("level: state %q references undefined next state %q", name, s.Next)
		}
		if s.Tics == 0 && s.Next == name {
			return fmt.Errorf("level: state %q is a zero-duration self-loop", name)
		}
	}

	for name, a := range d.Actors {
		for ref, st := range map[string]string{"stand": a.Stand, "alert": a.Alert, "pain": a.Pain, "death": a.Death} {
			if st == "" {
				continue
			}
			if _, ok := d.States[st]; !ok {
				return fmt.Errorf("level: actor %q %s state %q is undefined", name, ref, st)
			}
		}
		if a.Stand == "" {
			return fmt.Errorf("level: actor %q has no stand state", name)
		}
	}

	for name, w := range d.Weapons {
		for ref, st := range map[string]string{"ready": w.Ready, "attack": w.Attack} {
			if st == "" {
				return fmt.Errorf("level: weapon %q has no %s state", name, ref)
			}
			if _, ok := d.States[st]; !ok {
				return fmt.Errorf("level: weapon %q %s state %q is undefined", name, ref, st)
			}
		}
	}

	return nil
}

// RequiredFunctions returns the sorted set of script function names the
// state graphs reference. Every one of them must resolve after the
// sandbox compiles the mod's chunks.
func (d *Definitions) RequiredFunctions() []string {
	set := make(map[string]bool)
	for _, s := range d.States {
		if s.Think != "" {
			set[s.Think] = true
		}
		if s.Action != "" {
			set[s.Action] = true
		}
	}

	names := make([]string, 0, len(set))
	for n := range set {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// ValidateSpawns checks that every spawn in the level names a defined
// actor type.
func (d *Definitions) ValidateSpawns(l *Level) error {
	for _, sp := range l.Spawns {
		if _, ok := d.Actors[sp.Type]; !ok {
			return fmt.Errorf("level: spawn at (%d,%d) references undefined actor type %q", sp.X, sp.Y, sp.Type)
		}
	}
	return nil
}
