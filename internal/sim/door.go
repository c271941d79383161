package sim

import "github.com/vovakirdan/raidsim/internal/level"

// DoorAction is a door's dynamic phase.
type DoorAction int

const (
	DoorClosed DoorAction = iota
	DoorOpening
	DoorOpen
	DoorClosing
)

func (a DoorAction) String() string {
	switch a {
	case DoorClosed:
		return "closed"
	case DoorOpening:
		return "opening"
	case DoorOpen:
		return "open"
	default:
		return "closing"
	}
}

// Door pairs the immutable placement data from the level with the
// dynamic slide state. Doors exist for the whole level session; only
// the dynamic fields ever change, and only they are snapshotted.
type Door struct {
	spec  level.DoorSpec
	index int

	action    DoorAction
	position  int // 0 = fully closed .. TileGlobal = fully open
	autoClose int // Tics of open dwell remaining
}

// Index returns the door's stable level index.
func (d *Door) Index() int { return d.index }

// Action returns the current phase.
func (d *Door) Action() DoorAction { return d.action }

// Position returns the slide position in global units.
func (d *Door) Position() int { return d.position }

// Tile returns the door's tile.
func (d *Door) Tile() (x, y int) { return d.spec.X, d.spec.Y }

// Lock returns the required key item id, or empty.
func (d *Door) Lock() string { return d.spec.Lock }

// passable reports whether an entity may occupy the door tile.
// A door admits traffic once it has slid three quarters open.
func (d *Door) passable() bool {
	return d.position >= TileGlobal*3/4
}

// operate applies an operate-door intent. A locked door rejects the
// toggle unless the player holds the key; an unlocked door toggles
// unconditionally.
func (s *Simulator) operateDoor(d *Door) {
	if d.spec.Lock != "" && s.player.Inventory[d.spec.Lock] <= 0 {
		s.emit(SoundPlayed{Name: "door_locked", X: TileCenter(d.spec.X), Y: TileCenter(d.spec.Y), Area: s.doorEmitArea(d)})
		return
	}

	switch d.action {
	case DoorClosed, DoorClosing:
		d.action = DoorOpening
		s.connectDoorAreas(d)
		s.emit(SoundPlayed{Name: "door_open", X: TileCenter(d.spec.X), Y: TileCenter(d.spec.Y), Area: s.doorEmitArea(d)})
	case DoorOpen, DoorOpening:
		d.action = DoorClosing
		s.emit(SoundPlayed{Name: "door_close", X: TileCenter(d.spec.X), Y: TileCenter(d.spec.Y), Area: s.doorEmitArea(d)})
	}
}

// tickDoor advances one door by one tic.
func (s *Simulator) tickDoor(d *Door) {
	step := TileGlobal / s.cfg.Doors.OpenTics

	switch d.action {
	case DoorOpening:
		d.position += step
		if d.position >= TileGlobal {
			d.position = TileGlobal
			d.action = DoorOpen
			d.autoClose = s.cfg.Doors.AutoCloseTics
		}
		s.emit(DoorMoved{Door: d.index, Position: d.position})

	case DoorOpen:
		d.autoClose--
		if d.autoClose > 0 {
			return
		}
		if s.doorBlocked(d) {
			// Something stands in the frame; hold the door and try
			// again shortly.
			d.autoClose = s.cfg.Doors.OpenTics
			return
		}
		d.action = DoorClosing
		s.emit(SoundPlayed{Name: "door_close", X: TileCenter(d.spec.X), Y: TileCenter(d.spec.Y), Area: s.doorEmitArea(d)})

	case DoorClosing:
		if s.doorBlocked(d) {
			// Re-open rather than crush the occupant.
			d.action = DoorOpening
			s.connectDoorAreas(d)
			return
		}
		d.position -= step
		if d.position <= 0 {
			d.position = 0
			d.action = DoorClosed
			s.disconnectDoorAreas(d)
		}
		s.emit(DoorMoved{Door: d.index, Position: d.position})
	}
}

// doorBlocked reports whether the player or a living actor occupies
// the door tile.
func (s *Simulator) doorBlocked(d *Door) bool {
	if TileOf(s.player.X) == d.spec.X && TileOf(s.player.Y) == d.spec.Y {
		return true
	}
	for _, a := range s.actors {
		if a.removed || a.dead {
			continue
		}
		if TileOf(a.x) == d.spec.X && TileOf(a.y) == d.spec.Y {
			return true
		}
	}
	return false
}

// doorEmitArea picks the area a door sound propagates from, preferring
// the side the player is on so the player always hears their own door.
func (s *Simulator) doorEmitArea(d *Door) int {
	pa := s.lvl.Area(TileOf(s.player.X), TileOf(s.player.Y))
	if pa == d.spec.Areas[0] || pa == d.spec.Areas[1] {
		return pa
	}
	return d.spec.Areas[0]
}

func (s *Simulator) connectDoorAreas(d *Door) {
	s.areaLinks[d.index] = true
}

func (s *Simulator) disconnectDoorAreas(d *Door) {
	s.areaLinks[d.index] = false
}
