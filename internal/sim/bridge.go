package sim

import (
	lua "github.com/yuin/gopher-lua"
)

// The bridge builds the per-call Lua context tables. Every closure
// bound here is a capability handed to the script for exactly one
// call: scripts get no other path to the world, the RNG, or the clock
// (those two ride on the sandbox's global `game` table).

// callActorFunc runs a script function against an actor context. A
// script runtime error is contained to this one call: it is logged, a
// config-error event is raised, and the interpreter stays usable. Any
// mutations the script made through its context closures before
// failing persist; the state machine itself is never left mid-step.
func (s *Simulator) callActorFunc(a *Actor, name string) {
	if name == "" {
		return
	}
	if err := s.vm.Call(name, s.actorContext(a)); err != nil {
		s.logger.Error("actor script call failed", "actor", a.def.Name, "id", a.id, "func", name, "err", err)
		s.emit(ConfigError{Message: "script " + name + ": " + err.Error()})
	}
}

// callWeaponFunc runs a script function against a weapon context.
func (s *Simulator) callWeaponFunc(w *WeaponSlot, name string) {
	if name == "" {
		return
	}
	if err := s.vm.Call(name, s.weaponContext(w)); err != nil {
		s.logger.Error("weapon script call failed", "slot", w.slot, "func", name, "err", err)
		s.emit(ConfigError{Message: "script " + name + ": " + err.Error()})
	}
}

// actorContext builds the `self` table for actor think/action calls.
func (s *Simulator) actorContext(a *Actor) func(L *lua.LState) lua.LValue {
	return func(L *lua.LState) lua.LValue {
		ctx := L.NewTable()
		L.SetField(ctx, "kind", lua.LString("actor"))
		L.SetField(ctx, "id", lua.LNumber(a.id))
		L.SetField(ctx, "type", lua.LString(a.def.Name))

		L.SetField(ctx, "sees_player", L.NewFunction(func(L *lua.LState) int {
			L.Push(lua.LBool(s.seesPlayer(a)))
			return 1
		}))
		L.SetField(ctx, "dist", L.NewFunction(func(L *lua.LState) int {
			L.Push(lua.LNumber(tileDist(TileOf(a.x), TileOf(a.y), TileOf(s.player.X), TileOf(s.player.Y))))
			return 1
		}))
		L.SetField(ctx, "health", L.NewFunction(func(L *lua.LState) int {
			L.Push(lua.LNumber(a.health))
			return 1
		}))
		L.SetField(ctx, "alert", L.NewFunction(func(L *lua.LState) int {
			s.alertActor(a)
			return 0
		}))
		L.SetField(ctx, "chase", L.NewFunction(func(L *lua.LState) int {
			L.Push(lua.LBool(s.chaseActor(a)))
			return 1
		}))
		L.SetField(ctx, "set_state", L.NewFunction(func(L *lua.LState) int {
			name := L.CheckString(1)
			st, ok := s.states[name]
			if !ok {
				L.RaiseError("unknown state %q", name)
			}
			a.enter(st)
			s.emit(ActorShapeChanged{ID: a.id, Shape: st.Shape})
			return 0
		}))
		L.SetField(ctx, "sound", L.NewFunction(func(L *lua.LState) int {
			s.emitSound(L.CheckString(1), a.x, a.y)
			return 0
		}))
		L.SetField(ctx, "hurt_player", L.NewFunction(func(L *lua.LState) int {
			s.hurtPlayer(L.CheckInt(1))
			return 0
		}))
		L.SetField(ctx, "despawn", L.NewFunction(func(L *lua.LState) int {
			s.despawnActor(a)
			return 0
		}))
		L.SetField(ctx, "spawn", L.NewFunction(func(L *lua.LState) int {
			typeName := L.CheckString(1)
			def, ok := s.defs.Actors[typeName]
			if !ok {
				L.RaiseError("unknown actor type %q", typeName)
			}
			tx, ty := TileOf(a.x), TileOf(a.y)
			if !s.tileClear(tx, ty, a) {
				L.Push(lua.LBool(false))
				return 1
			}
			s.spawnActor(def, tx, ty, a.angle, false)
			L.Push(lua.LBool(true))
			return 1
		}))

		return ctx
	}
}

// weaponContext builds the `self` table for weapon think/action calls.
func (s *Simulator) weaponContext(w *WeaponSlot) func(L *lua.LState) lua.LValue {
	return func(L *lua.LState) lua.LValue {
		ctx := L.NewTable()
		L.SetField(ctx, "kind", lua.LString("weapon"))
		L.SetField(ctx, "slot", lua.LNumber(w.slot))
		if w.def != nil {
			L.SetField(ctx, "type", lua.LString(w.def.Name))
		}

		L.SetField(ctx, "trigger_held", L.NewFunction(func(L *lua.LState) int {
			L.Push(lua.LBool(w.flags&WeaponTriggerHeld != 0))
			return 1
		}))
		L.SetField(ctx, "try_fire", L.NewFunction(func(L *lua.LState) int {
			L.Push(lua.LBool(s.tryFire(w)))
			return 1
		}))
		L.SetField(ctx, "fire", L.NewFunction(func(L *lua.LState) int {
			L.Push(lua.LBool(s.fireHitscan(L.CheckInt(1))))
			return 1
		}))
		L.SetField(ctx, "ammo", L.NewFunction(func(L *lua.LState) int {
			if w.def == nil || w.def.Ammo == "" {
				L.Push(lua.LNumber(-1))
				return 1
			}
			L.Push(lua.LNumber(s.player.Inventory[w.def.Ammo]))
			return 1
		}))
		L.SetField(ctx, "flash", L.NewFunction(func(L *lua.LState) int {
			s.emit(ScreenFlash{Color: L.CheckString(1), Tics: 4})
			return 0
		}))
		L.SetField(ctx, "sound", L.NewFunction(func(L *lua.LState) int {
			s.emitSound(L.CheckString(1), s.player.X, s.player.Y)
			return 0
		}))
		L.SetField(ctx, "set_state", L.NewFunction(func(L *lua.LState) int {
			name := L.CheckString(1)
			st, ok := s.states[name]
			if !ok {
				L.RaiseError("unknown state %q", name)
			}
			w.enter(st)
			s.emit(WeaponStateChanged{Slot: w.slot, Type: w.Type(), Shape: st.Shape})
			return 0
		}))

		return ctx
	}
}
