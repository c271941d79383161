package sim

import (
	"encoding/json"
	"fmt"

	"github.com/vovakirdan/raidsim/internal/rng"
	"github.com/vovakirdan/raidsim/internal/tics"
)

// SaveVersion is the save-game format version. Loads reject any other
// value.
const SaveVersion = 1

// DoorSnapshot is one door's dynamic state.
type DoorSnapshot struct {
	Action    int `json:"action"`
	Position  int `json:"position"`
	AutoClose int `json:"auto_close"`
}

// PushWallSnapshot is one push-wall's dynamic state.
type PushWallSnapshot struct {
	TileX      int  `json:"tile_x"`
	TileY      int  `json:"tile_y"`
	Progress   int  `json:"progress"`
	Dir        int  `json:"dir"`
	Moving     bool `json:"moving"`
	TilesMoved int  `json:"tiles_moved"`
}

// ActorSnapshot is one actor's dynamic state. State is the behavior
// state by name; resolution back to the shared graph happens on load.
type ActorSnapshot struct {
	ID       int    `json:"id"`
	Type     string `json:"type"`
	X        int    `json:"x"`
	Y        int    `json:"y"`
	Angle    int    `json:"angle"`
	Health   int    `json:"health"`
	Flags    uint8  `json:"flags"`
	Dead     bool   `json:"dead"`
	Removed  bool   `json:"removed"`
	State    string `json:"state"`
	TicsLeft int    `json:"tics_left"`
	Parked   bool   `json:"parked"`
}

// WeaponSnapshot is one weapon slot's dynamic state.
type WeaponSnapshot struct {
	Type        string `json:"type"` // Empty = slot empty
	AttackFrame int    `json:"attack_frame"`
	Flags       uint8  `json:"flags"`
	State       string `json:"state"`
	TicsLeft    int    `json:"tics_left"`
	Parked      bool   `json:"parked"`
}

// PlayerSnapshot is the player's dynamic state.
type PlayerSnapshot struct {
	X         int            `json:"x"`
	Y         int            `json:"y"`
	Angle     int            `json:"angle"`
	Health    int            `json:"health"`
	Inventory map[string]int `json:"inventory"`
}

// SaveGame is the complete dynamic state of a session. Structural data
// (tiles, areas, placements, definitions) is not stored; a load runs
// against a simulator freshly built from the same level and
// definitions, and the level id guards against mixing them up.
type SaveGame struct {
	Version     int                `json:"version"`
	LevelID     string             `json:"level_id"`
	RNG         rng.Snapshot       `json:"rng"`
	Clock       tics.Snapshot      `json:"clock"`
	NextActorID int                `json:"next_actor_id"`
	Player      PlayerSnapshot     `json:"player"`
	Doors       []DoorSnapshot     `json:"doors"`
	PushWalls   []PushWallSnapshot `json:"pushwalls"`
	Actors      []ActorSnapshot    `json:"actors"`
	Weapons     []WeaponSnapshot   `json:"weapons"`
}

// Encode serializes the save for storage.
func (g *SaveGame) Encode() ([]byte, error) {
	data, err := json.Marshal(g)
	if err != nil {
		return nil, fmt.Errorf("sim: cannot encode save: %w", err)
	}
	return data, nil
}

// DecodeSaveGame parses a stored save.
func DecodeSaveGame(data []byte) (*SaveGame, error) {
	var g SaveGame
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("sim: cannot decode save: %w", err)
	}
	if g.Version != SaveVersion {
		return nil, fmt.Errorf("sim: unsupported save version %d", g.Version)
	}
	return &g, nil
}

// stateName returns the machine's current state name, or empty for a
// halted machine with no state.
func stateName(m *machine) string {
	if m.cur == nil {
		return ""
	}
	return m.cur.Name
}

// SaveState captures the complete dynamic state. Two saves taken at
// the same tic with no intervening Update are byte-identical once
// encoded.
func (s *Simulator) SaveState() *SaveGame {
	g := &SaveGame{
		Version:     SaveVersion,
		LevelID:     s.lvl.ID,
		RNG:         s.rng.SaveState(),
		Clock:       s.clock.SaveState(),
		NextActorID: s.nextActorID,
		Player: PlayerSnapshot{
			X:         s.player.X,
			Y:         s.player.Y,
			Angle:     s.player.Angle,
			Health:    s.player.Health,
			Inventory: make(map[string]int, len(s.player.Inventory)),
		},
	}
	for k, v := range s.player.Inventory {
		g.Player.Inventory[k] = v
	}

	for _, d := range s.doors {
		g.Doors = append(g.Doors, DoorSnapshot{
			Action:    int(d.action),
			Position:  d.position,
			AutoClose: d.autoClose,
		})
	}
	for _, p := range s.pushWalls {
		g.PushWalls = append(g.PushWalls, PushWallSnapshot{
			TileX:      p.tileX,
			TileY:      p.tileY,
			Progress:   p.progress,
			Dir:        int(p.dir),
			Moving:     p.moving,
			TilesMoved: p.tilesMoved,
		})
	}
	for _, a := range s.actors {
		g.Actors = append(g.Actors, ActorSnapshot{
			ID:       a.id,
			Type:     a.def.Name,
			X:        a.x,
			Y:        a.y,
			Angle:    a.angle,
			Health:   a.health,
			Flags:    a.flags,
			Dead:     a.dead,
			Removed:  a.removed,
			State:    stateName(&a.machine),
			TicsLeft: a.ticsLeft,
			Parked:   a.parked,
		})
	}
	for _, w := range s.weapons {
		snap := WeaponSnapshot{
			AttackFrame: w.attackFrame,
			Flags:       w.flags,
			State:       stateName(&w.machine),
			TicsLeft:    w.ticsLeft,
			Parked:      w.parked,
		}
		if w.def != nil {
			snap.Type = w.def.Name
		}
		g.Weapons = append(g.Weapons, snap)
	}
	return g
}

// LoadState replaces the simulator's dynamic state with a save taken
// from the same level and definitions. The restore is two-phase:
// scalars land first, then every state name resolves against the
// shared graph; any failed resolution aborts with the simulator left
// in an undefined state, so callers should discard it on error. Queued
// actions and pending events are dropped.
func (s *Simulator) LoadState(g *SaveGame) error {
	if g.Version != SaveVersion {
		return fmt.Errorf("sim: unsupported save version %d", g.Version)
	}
	if g.LevelID != s.lvl.ID {
		return fmt.Errorf("sim: save is for level %q, simulator runs %q", g.LevelID, s.lvl.ID)
	}
	if len(g.Doors) != len(s.doors) {
		return fmt.Errorf("sim: save has %d doors, level has %d", len(g.Doors), len(s.doors))
	}
	if len(g.PushWalls) != len(s.pushWalls) {
		return fmt.Errorf("sim: save has %d push-walls, level has %d", len(g.PushWalls), len(s.pushWalls))
	}
	if len(g.Weapons) != len(s.weapons) {
		return fmt.Errorf("sim: save has %d weapon slots, simulator has %d", len(g.Weapons), len(s.weapons))
	}

	s.rng.LoadState(g.RNG)
	s.clock.LoadState(g.Clock)
	s.nextActorID = g.NextActorID

	s.player = Player{
		X:         g.Player.X,
		Y:         g.Player.Y,
		Angle:     g.Player.Angle,
		Health:    g.Player.Health,
		Inventory: make(map[string]int, len(g.Player.Inventory)),
	}
	for k, v := range g.Player.Inventory {
		s.player.Inventory[k] = v
	}

	for i, snap := range g.Doors {
		d := s.doors[i]
		d.action = DoorAction(snap.Action)
		d.position = snap.Position
		d.autoClose = snap.AutoClose
		s.areaLinks[i] = d.action != DoorClosed
	}
	for i, snap := range g.PushWalls {
		p := s.pushWalls[i]
		p.tileX = snap.TileX
		p.tileY = snap.TileY
		p.progress = snap.Progress
		p.dir = Direction(snap.Dir)
		p.moving = snap.Moving
		p.tilesMoved = snap.TilesMoved
	}

	// Actors are rebuilt from the save, not patched in place: the save
	// is authoritative about which actors exist.
	s.actors = s.actors[:0]
	for _, snap := range g.Actors {
		def, ok := s.defs.Actors[snap.Type]
		if !ok {
			return fmt.Errorf("sim: save actor %d has undefined type %q", snap.ID, snap.Type)
		}
		a := &Actor{
			id:      snap.ID,
			def:     def,
			x:       snap.X,
			y:       snap.Y,
			angle:   snap.Angle,
			health:  snap.Health,
			flags:   snap.Flags,
			dead:    snap.Dead,
			removed: snap.Removed,
		}
		if err := restoreMachine(&a.machine, snap.State, snap.TicsLeft, snap.Parked, s.states); err != nil {
			return fmt.Errorf("sim: save actor %d: %w", snap.ID, err)
		}
		s.actors = append(s.actors, a)
	}

	for i, snap := range g.Weapons {
		w := s.weapons[i]
		w.def = nil
		if snap.Type != "" {
			def, ok := s.defs.Weapons[snap.Type]
			if !ok {
				return fmt.Errorf("sim: save weapon slot %d has undefined type %q", i, snap.Type)
			}
			w.def = def
		}
		w.attackFrame = snap.AttackFrame
		w.flags = snap.Flags
		if err := restoreMachine(&w.machine, snap.State, snap.TicsLeft, snap.Parked, s.states); err != nil {
			return fmt.Errorf("sim: save weapon slot %d: %w", i, err)
		}
	}

	s.queue.drain()
	s.events = nil
	return nil
}

// restoreMachine resolves a saved state name and reinstates the
// countdown. An empty name restores a machine with no current state.
func restoreMachine(m *machine, name string, ticsLeft int, parked bool, states map[string]*State) error {
	m.parked = parked
	m.ticsLeft = ticsLeft
	if name == "" {
		m.cur = nil
		return nil
	}
	st, ok := states[name]
	if !ok {
		return fmt.Errorf("state %q is not defined", name)
	}
	m.cur = st
	return nil
}
