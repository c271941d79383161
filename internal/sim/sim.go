// Package sim implements the deterministic gameplay core: doors,
// push-walls, scripted actors, and weapon slots advanced through
// independently-timed state machines at 70 tics per second, with
// queued player intents applied at tic boundaries and every observable
// change published as a typed event.
//
// The simulator is single-threaded and tick-driven: Update runs to
// completion synchronously, including all script invocations. The one
// operation safe to call from other goroutines is QueueAction.
package sim

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/raidsim/internal/config"
	"github.com/vovakirdan/raidsim/internal/level"
	"github.com/vovakirdan/raidsim/internal/rng"
	"github.com/vovakirdan/raidsim/internal/script"
	"github.com/vovakirdan/raidsim/internal/tics"
)

// weaponSlots is the number of concurrently wielded weapon slots.
const weaponSlots = 2

// Player is the player's dynamic state. Position and facing are fed
// by the host every frame; health and inventory are owned by the core.
type Player struct {
	X, Y      int // Global units (one tile = 65536)
	Angle     int // Degrees 0-359
	Health    int
	Inventory map[string]int
}

// Simulator owns every entity collection, the action queue, the
// deterministic RNG and clock, and the script sandbox.
type Simulator struct {
	cfg    config.Config
	logger *log.Logger

	lvl    *level.Level
	defs   *level.Definitions
	states map[string]*State

	rng   *rng.Source
	clock *tics.Clock
	vm    *script.Sandbox

	doors     []*Door
	pushWalls []*PushWall
	actors    []*Actor
	weapons   []*WeaponSlot
	player    Player

	nextActorID int
	areaLinks   []bool // Per door: true while the door joins its areas

	queue  actionQueue
	events []Event
}

// New builds a simulator from level data and definitions. Fixed-count
// entities (doors, push-walls) are created first so their snapshot
// indices are stable, then level spawns run. All script chunks compile
// here; syntax and definition errors abort the load, and a function a
// state references but no chunk defines follows the configured
// missing-function policy.
func New(lvl *level.Level, defs *level.Definitions, cfg config.Config, seed int64, logger *log.Logger) (*Simulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := defs.Validate(); err != nil {
		return nil, err
	}
	if err := defs.ValidateSpawns(lvl); err != nil {
		return nil, err
	}

	states, err := buildStates(defs)
	if err != nil {
		return nil, err
	}

	if logger == nil {
		logger = log.Default()
	}

	s := &Simulator{
		cfg:       cfg,
		logger:    logger,
		lvl:       lvl,
		defs:      defs,
		states:    states,
		rng:       rng.New(seed),
		clock:     tics.NewClock(lvl.ID),
		areaLinks: make([]bool, len(lvl.Doors)),
	}

	s.vm = script.New(s.rng, s.clock, cfg.Script.MissingFunc, logger)
	chunks := make([]script.Chunk, len(defs.Scripts))
	for i, c := range defs.Scripts {
		chunks[i] = script.Chunk{Name: c.Name, Source: c.Source}
	}
	if err := s.vm.CompileAll(chunks, defs.RequiredFunctions()); err != nil {
		s.vm.Close()
		return nil, err
	}

	for i := range lvl.Doors {
		s.doors = append(s.doors, &Door{spec: lvl.Doors[i], index: i})
	}
	for i := range lvl.PushWalls {
		p := lvl.PushWalls[i]
		s.pushWalls = append(s.pushWalls, &PushWall{spec: p, index: i, tileX: p.X, tileY: p.Y})
	}
	for i := 0; i < weaponSlots; i++ {
		s.weapons = append(s.weapons, &WeaponSlot{slot: i})
	}

	s.player = Player{
		X:         TileCenter(lvl.Start.X),
		Y:         TileCenter(lvl.Start.Y),
		Angle:     lvl.Start.Angle,
		Health:    cfg.Gameplay.PlayerHealth,
		Inventory: map[string]int{"bullets": cfg.Gameplay.StartBullets},
	}

	for _, sp := range lvl.Spawns {
		s.spawnActor(defs.Actors[sp.Type], sp.X, sp.Y, sp.Angle, sp.Ambush)
	}
	// Level-load spawns are structural: the host reads them from the
	// entity views, so the events they raised are not replayed.
	s.events = nil

	return s, nil
}

// Close releases the script sandbox.
func (s *Simulator) Close() {
	s.vm.Close()
}

// QueueAction appends a player intent for the next tic. Safe to call
// from any goroutine; every other simulator method belongs to the tick
// thread.
func (s *Simulator) QueueAction(a Action) {
	s.queue.push(a)
}

// Update advances the simulation by the wall time elapsed since the
// last call. The host passes the player's current position and facing;
// the core converts dt to whole tics (carrying the fraction forward)
// and, per tic: drains queued actions, advances every entity's state
// machine, runs area-based AI triggers, and collects events. Zero
// elapsed tics is a no-op. The returned events are in raise order and
// belong to the caller.
func (s *Simulator) Update(dt time.Duration, playerX, playerY, playerAngle int) []Event {
	elapsed := s.clock.Advance(dt)
	if elapsed == 0 {
		return nil
	}

	s.player.X, s.player.Y, s.player.Angle = playerX, playerY, playerAngle

	for i := 0; i < elapsed; i++ {
		s.runTic()
	}

	out := s.events
	s.events = nil
	return out
}

// runTic executes one whole tic.
func (s *Simulator) runTic() {
	ticStart := len(s.events)

	for _, a := range s.queue.drain() {
		s.applyAction(a)
	}

	for _, d := range s.doors {
		s.tickDoor(d)
	}
	for _, p := range s.pushWalls {
		s.tickPushWall(p)
	}
	for _, a := range s.actors {
		s.tickActor(a)
	}
	for _, w := range s.weapons {
		s.tickWeapon(w)
	}

	s.propagateSounds(ticStart)
}

// applyAction validates and applies one queued intent.
func (s *Simulator) applyAction(a Action) {
	switch act := a.(type) {
	case OperateDoor:
		if act.Door < 0 || act.Door >= len(s.doors) {
			s.logger.Warn("operate-door with invalid index", "door", act.Door)
			return
		}
		s.operateDoor(s.doors[act.Door])

	case ActivatePushWall:
		i := s.lvl.PushWallAt(act.TileX, act.TileY)
		if i < 0 {
			s.logger.Warn("activate-pushwall on a plain tile", "x", act.TileX, "y", act.TileY)
			return
		}
		s.activatePushWall(s.pushWalls[i], act.Dir)

	case ActivateElevator:
		if !s.lvl.ElevatorAt(act.TileX, act.TileY) {
			s.logger.Warn("activate-elevator on a plain tile", "x", act.TileX, "y", act.TileY)
			return
		}
		s.emit(ElevatorSwitched{TileX: act.TileX, TileY: act.TileY})
		s.emit(ElevatorActivated{TileX: act.TileX, TileY: act.TileY})
		s.emit(MenuNavigate{Target: "intermission"})

	case FireWeapon:
		if w := s.weaponSlot(act.Slot); w != nil {
			s.pullTrigger(w)
		}

	case ReleaseTrigger:
		if w := s.weaponSlot(act.Slot); w != nil {
			s.releaseTrigger(w)
		}

	case EquipWeapon:
		if w := s.weaponSlot(act.Slot); w != nil {
			s.equipWeapon(w, act.Type)
		}

	default:
		s.logger.Warn("unknown action type", "action", fmt.Sprintf("%T", a))
	}
}

func (s *Simulator) weaponSlot(i int) *WeaponSlot {
	if i < 0 || i >= len(s.weapons) {
		s.logger.Warn("weapon action with invalid slot", "slot", i)
		return nil
	}
	return s.weapons[i]
}

// propagateSounds wakes hearing actors: every positional sound raised
// this tic alerts non-ambush actors in any area connected to its own.
func (s *Simulator) propagateSounds(ticStart int) {
	// The scan bound is fixed up front: alerts raised while waking
	// actors must not recursively wake more.
	raised := s.events[ticStart:len(s.events):len(s.events)]
	for _, ev := range raised {
		snd, ok := ev.(SoundPlayed)
		if !ok || snd.Area < 0 {
			continue
		}
		for _, a := range s.actors {
			if !a.Alive() || a.flags&(FlagAlerted|FlagAmbush) != 0 {
				continue
			}
			if s.areasConnected(s.lvl.Area(TileOf(a.x), TileOf(a.y)), snd.Area) {
				s.alertActor(a)
			}
		}
	}
}

// areasConnected reports whether sound travels between two areas:
// either the same area or joined transitively by doors that are open
// wide enough to leak.
func (s *Simulator) areasConnected(a, b int) bool {
	if a < 0 || b < 0 {
		return false
	}
	if a == b {
		return true
	}

	seen := make([]bool, s.lvl.AreaCount)
	frontier := []int{a}
	seen[a] = true
	for len(frontier) > 0 {
		cur := frontier[len(frontier)-1]
		frontier = frontier[:len(frontier)-1]
		for i, d := range s.doors {
			if !s.areaLinks[i] {
				continue
			}
			var next int
			switch cur {
			case d.spec.Areas[0]:
				next = d.spec.Areas[1]
			case d.spec.Areas[1]:
				next = d.spec.Areas[0]
			default:
				continue
			}
			if next == b {
				return true
			}
			if next >= 0 && next < len(seen) && !seen[next] {
				seen[next] = true
				frontier = append(frontier, next)
			}
		}
	}
	return false
}

// emit appends an event to this tic's buffer.
func (s *Simulator) emit(e Event) {
	s.events = append(s.events, e)
}

// emitSound raises a positional sound at a global position.
func (s *Simulator) emitSound(name string, x, y int) {
	s.emit(SoundPlayed{Name: name, X: x, Y: y, Area: s.lvl.Area(TileOf(x), TileOf(y))})
}

// playerArea returns the area id of the player's tile.
func (s *Simulator) playerArea() int {
	return s.lvl.Area(TileOf(s.player.X), TileOf(s.player.Y))
}

// GiveItem adds to a player inventory counter (keys, ammo). It belongs
// to the tick thread: the host calls it between Updates when the
// player picks something up.
func (s *Simulator) GiveItem(item string, n int) {
	s.player.Inventory[item] += n
	s.emit(PlayerStateChanged{Field: item, Value: s.player.Inventory[item]})
}

// Tics returns the current clock tic count.
func (s *Simulator) Tics() uint64 {
	return s.clock.Tics()
}

// PlayerState returns a copy of the player's dynamic state.
func (s *Simulator) PlayerState() Player {
	p := s.player
	p.Inventory = make(map[string]int, len(s.player.Inventory))
	for k, v := range s.player.Inventory {
		p.Inventory[k] = v
	}
	return p
}

// Doors returns a read-only view of the door list.
func (s *Simulator) Doors() []*Door {
	return s.doors
}

// PushWalls returns a read-only view of the push-wall list.
func (s *Simulator) PushWalls() []*PushWall {
	return s.pushWalls
}

// Actors returns a read-only view of the actor list, including dead
// and despawned entries (ids are stable for the session).
func (s *Simulator) Actors() []*Actor {
	return s.actors
}

// Weapons returns a read-only view of the weapon slots.
func (s *Simulator) Weapons() []*WeaponSlot {
	return s.weapons
}

// Level returns the structural level the simulator was built from.
func (s *Simulator) Level() *level.Level {
	return s.lvl
}
