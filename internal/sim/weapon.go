package sim

import "github.com/vovakirdan/raidsim/internal/level"

// Weapon slot flag bits.
const (
	// WeaponReady means the slot sits in its ready state.
	WeaponReady uint8 = 1 << iota
	// WeaponTriggerHeld means fire intent is active until released.
	WeaponTriggerHeld
	// WeaponAttacking means an attack chain is in progress.
	WeaponAttacking
)

// WeaponSlot is one concurrently wielded weapon. Slots are created at
// simulator initialization and live for the session; only the equipped
// type changes, and only through an explicit equip action.
type WeaponSlot struct {
	machine

	slot        int
	def         *level.WeaponDef // nil = slot empty
	attackFrame int
	flags       uint8
}

// Slot returns the slot index.
func (w *WeaponSlot) Slot() int { return w.slot }

// Type returns the equipped weapon type name, or empty.
func (w *WeaponSlot) Type() string {
	if w.def == nil {
		return ""
	}
	return w.def.Name
}

// Flags returns the current flag set.
func (w *WeaponSlot) Flags() uint8 { return w.flags }

// equipWeapon applies an equip-weapon intent. Unknown types are
// authoring errors reported as events, not state changes.
func (s *Simulator) equipWeapon(w *WeaponSlot, typeName string) {
	def, ok := s.defs.Weapons[typeName]
	if !ok {
		s.emit(ConfigError{Message: "equip: unknown weapon type " + typeName})
		return
	}

	w.def = def
	w.attackFrame = 0
	w.flags = WeaponReady
	w.parked = false
	st := s.states[def.Ready]
	w.enter(st)
	s.emit(WeaponStateChanged{Slot: w.slot, Type: def.Name, Shape: st.Shape})
}

// pullTrigger applies a fire-weapon intent: the trigger latches and an
// immediate attack is attempted.
func (s *Simulator) pullTrigger(w *WeaponSlot) {
	if w.def == nil {
		return
	}
	w.flags |= WeaponTriggerHeld
	s.tryFire(w)
}

// releaseTrigger applies a release-trigger intent.
func (s *Simulator) releaseTrigger(w *WeaponSlot) {
	w.flags &^= WeaponTriggerHeld
}

// tryFire starts an attack chain if the slot is ready and the ammo
// gate passes. An empty gate (no ammo, or not in ready state) is a
// quiet refusal: no events, no state change.
func (s *Simulator) tryFire(w *WeaponSlot) bool {
	if w.def == nil || w.flags&WeaponAttacking != 0 {
		return false
	}
	if w.cur == nil || w.cur.Name != w.def.Ready {
		return false
	}
	if w.def.Ammo != "" {
		if s.player.Inventory[w.def.Ammo] < w.def.AmmoPerShot {
			return false
		}
		s.player.Inventory[w.def.Ammo] -= w.def.AmmoPerShot
		s.emit(PlayerStateChanged{Field: w.def.Ammo, Value: s.player.Inventory[w.def.Ammo]})
	}

	w.flags |= WeaponAttacking
	w.flags &^= WeaponReady
	w.attackFrame++
	st := s.states[w.def.Attack]
	w.enter(st)
	s.emit(WeaponFired{Slot: w.slot, Type: w.def.Name})
	s.emit(WeaponStateChanged{Slot: w.slot, Type: w.def.Name, Shape: st.Shape})
	if st.Action != "" {
		s.callWeaponFunc(w, st.Action)
	}
	return true
}

// tickWeapon advances one slot by one tic.
func (s *Simulator) tickWeapon(w *WeaponSlot) {
	if w.def == nil {
		return
	}

	prevShape := 0
	if w.cur != nil {
		prevShape = w.cur.Shape
	}

	ok := w.step(s.cfg.States.MaxChain,
		func(st *State) { s.callWeaponFunc(w, st.Think) },
		func(st *State) {
			if st.Action != "" {
				s.callWeaponFunc(w, st.Action)
			}
		},
	)
	if !ok {
		s.emit(ConfigError{Message: "weapon " + w.def.Name + ": zero-duration state chain exceeded cap"})
		return
	}

	// Returning to the ready state ends the attack.
	if w.cur != nil && w.cur.Name == w.def.Ready && w.flags&WeaponAttacking != 0 {
		w.flags &^= WeaponAttacking
		w.flags |= WeaponReady
	}

	if w.cur != nil && w.cur.Shape != prevShape {
		s.emit(WeaponStateChanged{Slot: w.slot, Type: w.def.Name, Shape: w.cur.Shape})
	}
}

// fireHitscan resolves a player attack: the nearest living actor with
// line of sight within rangeTiles takes range-scaled damage.
func (s *Simulator) fireHitscan(rangeTiles int) bool {
	px, py := TileOf(s.player.X), TileOf(s.player.Y)

	var target *Actor
	best := rangeTiles + 1
	for _, a := range s.actors {
		if !a.Alive() {
			continue
		}
		d := tileDist(TileOf(a.x), TileOf(a.y), px, py)
		if d >= best {
			continue
		}
		if !s.lineClear(px, py, TileOf(a.x), TileOf(a.y)) {
			continue
		}
		target = a
		best = d
	}
	if target == nil {
		return false
	}

	// Close shots land hard; distant ones can whiff entirely.
	hitChance := 256 - best*24
	if hitChance < 16 {
		hitChance = 16
	}
	if hitChance < 256 && !s.rng.Chance(byte(hitChance)) {
		return false
	}
	dmg := s.rng.Intn(16) + 8 - best
	if dmg < 1 {
		dmg = 1
	}
	s.damageActor(target, dmg)
	return true
}

// hurtPlayer applies damage to the player, flashing the screen and
// reporting death to the host as a menu navigation.
func (s *Simulator) hurtPlayer(dmg int) {
	if dmg <= 0 || s.player.Health <= 0 {
		return
	}
	s.player.Health -= dmg
	if s.player.Health < 0 {
		s.player.Health = 0
	}
	s.emit(ScreenFlash{Color: "red", Tics: 6})
	s.emit(PlayerStateChanged{Field: "health", Value: s.player.Health})
	if s.player.Health == 0 {
		s.emit(MenuNavigate{Target: "gameover"})
	}
}
