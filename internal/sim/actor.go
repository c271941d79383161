package sim

import "github.com/vovakirdan/raidsim/internal/level"

// Actor flag bits.
const (
	// FlagAmbush makes an actor deaf: sound never alerts it.
	FlagAmbush uint8 = 1 << iota
	// FlagAlerted is set once the actor has noticed the player.
	FlagAlerted
)

// Actor is a scripted non-player entity. The static definition (sprite
// set, AI bindings) is shared; everything else is dynamic state.
type Actor struct {
	machine

	id  int
	def *level.ActorDef

	x, y    int // Global units
	angle   int
	health  int
	flags   uint8
	dead    bool // Death chain entered; the corpse animates but no longer blocks
	removed bool // Despawned; the id is never reused
}

// ID returns the actor's stable session id.
func (a *Actor) ID() int { return a.id }

// Type returns the actor's definition name.
func (a *Actor) Type() string { return a.def.Name }

// Pos returns the actor's position in global units.
func (a *Actor) Pos() (x, y int) { return a.x, a.y }

// Health returns the actor's remaining health.
func (a *Actor) Health() int { return a.health }

// Alive reports whether the actor blocks movement and can act.
func (a *Actor) Alive() bool { return !a.dead && !a.removed }

// spawnActor creates an actor from a definition at a tile. Ids are
// allocated from a session counter and never reused, so snapshots
// taken before and after a despawn can never alias two actors.
func (s *Simulator) spawnActor(def *level.ActorDef, tileX, tileY, angle int, ambush bool) *Actor {
	a := &Actor{
		id:     s.nextActorID,
		def:    def,
		x:      TileCenter(tileX),
		y:      TileCenter(tileY),
		angle:  angle,
		health: def.Health,
	}
	if ambush {
		a.flags |= FlagAmbush
	}
	s.nextActorID++

	st := s.states[def.Stand]
	a.enter(st)

	s.actors = append(s.actors, a)
	s.emit(ActorSpawned{ID: a.id, Type: def.Name, Shape: st.Shape, X: a.x, Y: a.y, Angle: a.angle})
	return a
}

// tickActor advances one actor by one tic.
func (s *Simulator) tickActor(a *Actor) {
	if a.removed {
		return
	}

	prevShape := 0
	if a.cur != nil {
		prevShape = a.cur.Shape
	}

	ok := a.step(s.cfg.States.MaxChain,
		func(st *State) { s.callActorFunc(a, st.Think) },
		func(st *State) {
			if st.Action != "" {
				s.callActorFunc(a, st.Action)
			}
		},
	)
	if !ok {
		s.emit(ConfigError{Message: "actor " + a.def.Name + ": zero-duration state chain exceeded cap"})
		return
	}

	if a.cur != nil && a.cur.Shape != prevShape && !a.removed {
		s.emit(ActorShapeChanged{ID: a.id, Shape: a.cur.Shape})
	}
}

// alertActor switches a standing actor into its alert state.
func (s *Simulator) alertActor(a *Actor) {
	if !a.Alive() || a.flags&FlagAlerted != 0 {
		return
	}
	a.flags |= FlagAlerted
	if st, ok := s.states[a.def.Alert]; ok {
		a.enter(st)
		s.emit(ActorShapeChanged{ID: a.id, Shape: st.Shape})
	}
}

// damageActor applies weapon damage. Killing damage starts the death
// chain; surviving damage may flinch the actor into its pain state.
func (s *Simulator) damageActor(a *Actor, dmg int) {
	if !a.Alive() || dmg <= 0 {
		return
	}

	// Taking damage always reveals the player.
	s.alertActor(a)

	a.health -= dmg
	if a.health <= 0 {
		a.health = 0
		a.dead = true
		if st, ok := s.states[a.def.Death]; ok {
			a.enter(st)
			s.emit(ActorShapeChanged{ID: a.id, Shape: st.Shape})
			if st.Action != "" {
				s.callActorFunc(a, st.Action)
			}
		}
		return
	}

	if a.def.Pain != "" && s.rng.Chance(128) {
		if st, ok := s.states[a.def.Pain]; ok {
			a.enter(st)
			s.emit(ActorShapeChanged{ID: a.id, Shape: st.Shape})
		}
	}
}

// despawnActor removes an actor from play. The slice slot stays (ids
// are positional within the session) but the actor no longer ticks,
// blocks, or snapshots as alive.
func (s *Simulator) despawnActor(a *Actor) {
	if a.removed {
		return
	}
	a.removed = true
	s.emit(ActorDespawned{ID: a.id})
}

// chaseActor moves the actor toward the player at its definition
// speed, with the same axis-sliding rule the player clip uses.
// Facing follows the actual direction moved.
func (s *Simulator) chaseActor(a *Actor) bool {
	dx, dy := 0, 0
	if s.player.X > a.x+TileGlobal/8 {
		dx = 1
	} else if s.player.X < a.x-TileGlobal/8 {
		dx = -1
	}
	if s.player.Y > a.y+TileGlobal/8 {
		dy = 1
	} else if s.player.Y < a.y-TileGlobal/8 {
		dy = -1
	}
	if dx == 0 && dy == 0 {
		return false
	}

	speed := a.def.Speed
	nx, ny := s.clipMove(a.x, a.y, dx*speed, dy*speed, a)
	if nx == a.x && ny == a.y {
		return false
	}

	a.angle = moveAngle(nx-a.x, ny-a.y)
	a.x, a.y = nx, ny
	s.emit(ActorMoved{ID: a.id, X: a.x, Y: a.y, Angle: a.angle})
	return true
}

// seesPlayer checks line of sight from the actor to the player:
// connected areas and an unobstructed tile ray.
func (s *Simulator) seesPlayer(a *Actor) bool {
	ax, ay := TileOf(a.x), TileOf(a.y)
	px, py := TileOf(s.player.X), TileOf(s.player.Y)

	aArea := s.lvl.Area(ax, ay)
	if !s.areasConnected(aArea, s.playerArea()) {
		return false
	}
	return s.lineClear(ax, ay, px, py)
}

// moveAngle converts a movement delta to a facing in degrees.
func moveAngle(dx, dy int) int {
	switch {
	case dx > 0 && dy == 0:
		return 0
	case dx > 0 && dy < 0:
		return 45
	case dx == 0 && dy < 0:
		return 90
	case dx < 0 && dy < 0:
		return 135
	case dx < 0 && dy == 0:
		return 180
	case dx < 0 && dy > 0:
		return 225
	case dx == 0 && dy > 0:
		return 270
	default:
		return 315
	}
}
