package sim

import (
	"testing"

	"github.com/vovakirdan/raidsim/internal/tics"
)

const doorLevelYAML = `
id: doors
name: Door Test
layout:
  - "#######"
  - "#..#..#"
  - "#..*..#"
  - "#..*..#"
  - "#######"
doors:
  - { x: 3, y: 2, vertical: false }
  - { x: 3, y: 3, vertical: false, lock: gold }
start: { x: 1, y: 2, angle: 0 }
`

const idleDefsYAML = `
states:
  - { name: idle, shape: 1, tics: 4, next: idle }
`

func newDoorSim(t *testing.T) *Simulator {
	t.Helper()
	return newMiniSim(t, doorLevelYAML, idleDefsYAML, 1)
}

func TestDoorOpensFully(t *testing.T) {
	s := newDoorSim(t)
	d := s.Doors()[0]

	s.QueueAction(OperateDoor{Door: 0})
	events := advance(s, s.cfg.Doors.OpenTics+1)

	if d.Action() != DoorOpen {
		t.Fatalf("door action = %v, want open", d.Action())
	}
	if d.Position() != TileGlobal {
		t.Errorf("door position = %d, want %d", d.Position(), TileGlobal)
	}

	var opened, moved bool
	for _, ev := range events {
		switch e := ev.(type) {
		case SoundPlayed:
			if e.Name == "door_open" {
				opened = true
			}
		case DoorMoved:
			if e.Door == 0 {
				moved = true
			}
		}
	}
	if !opened || !moved {
		t.Errorf("open events: sound=%v moved=%v", opened, moved)
	}
}

func TestDoorAutoCloses(t *testing.T) {
	s := newDoorSim(t)
	d := s.Doors()[0]

	s.QueueAction(OperateDoor{Door: 0})
	advance(s, s.cfg.Doors.OpenTics+1)
	if d.Action() != DoorOpen {
		t.Fatal("door should be open before the dwell")
	}

	// Dwell plus the closing slide, with margin.
	advance(s, s.cfg.Doors.AutoCloseTics+s.cfg.Doors.OpenTics+4)

	if d.Action() != DoorClosed {
		t.Errorf("door action = %v, want closed after dwell", d.Action())
	}
	if d.Position() != 0 {
		t.Errorf("door position = %d, want 0", d.Position())
	}
	if s.areaLinks[0] {
		t.Error("closed door should disconnect its areas")
	}
}

func TestLockedDoorNeedsKey(t *testing.T) {
	s := newDoorSim(t)
	locked := s.Doors()[1]

	s.QueueAction(OperateDoor{Door: 1})
	events := advance(s, 4)

	if locked.Action() != DoorClosed {
		t.Fatalf("locked door moved without the key: %v", locked.Action())
	}
	var refused bool
	for _, ev := range events {
		if e, ok := ev.(SoundPlayed); ok && e.Name == "door_locked" {
			refused = true
		}
	}
	if !refused {
		t.Error("locked refusal should play the locked sound")
	}

	s.GiveItem("gold", 1)
	s.QueueAction(OperateDoor{Door: 1})
	advance(s, s.cfg.Doors.OpenTics+1)
	if locked.Action() != DoorOpen {
		t.Errorf("door with key: action = %v, want open", locked.Action())
	}
}

func TestDoorHeldOpenByOccupant(t *testing.T) {
	s := newDoorSim(t)
	d := s.Doors()[0]

	s.QueueAction(OperateDoor{Door: 0})
	advance(s, s.cfg.Doors.OpenTics+1)

	// Park the player in the frame and wait out the dwell.
	inFrame := func(n int) {
		for i := 0; i < n; i++ {
			s.Update(tics.Duration(1), TileCenter(3), TileCenter(2), 0)
		}
	}
	inFrame(s.cfg.Doors.AutoCloseTics + s.cfg.Doors.OpenTics + 4)

	if d.Action() != DoorOpen {
		t.Fatalf("occupied door closed on the player: %v", d.Action())
	}

	// Step aside; the held door now closes.
	for i := 0; i < s.cfg.Doors.AutoCloseTics+s.cfg.Doors.OpenTics+4; i++ {
		s.Update(tics.Duration(1), TileCenter(1), TileCenter(2), 0)
	}
	if d.Action() != DoorClosed {
		t.Errorf("door action = %v, want closed once the frame clears", d.Action())
	}
}

func TestClosingDoorReopensWhenBlocked(t *testing.T) {
	s := newDoorSim(t)
	d := s.Doors()[0]

	s.QueueAction(OperateDoor{Door: 0})
	advance(s, s.cfg.Doors.OpenTics+1)
	// Let the dwell expire so the door starts closing.
	advance(s, s.cfg.Doors.AutoCloseTics+2)
	if d.Action() != DoorClosing {
		t.Fatalf("door action = %v, want closing after dwell", d.Action())
	}

	// Step into the frame mid-slide.
	for i := 0; i < 4; i++ {
		s.Update(tics.Duration(1), TileCenter(3), TileCenter(2), 0)
	}
	if d.Action() != DoorOpening && d.Action() != DoorOpen {
		t.Errorf("door action = %v, want re-opening around the occupant", d.Action())
	}
}

func TestClosedDoorBlocksMovement(t *testing.T) {
	s := newDoorSim(t)

	// Straight east into the closed door tile.
	fromX, fromY := TileCenter(2), TileCenter(2)
	nx, ny := s.ResolveMove(fromX, fromY, TileGlobal, 0)
	if nx != fromX || ny != fromY {
		t.Errorf("move through closed door resolved to (%d,%d), want blocked", nx, ny)
	}

	s.QueueAction(OperateDoor{Door: 0})
	advance(s, s.cfg.Doors.OpenTics+1)

	nx, _ = s.ResolveMove(fromX, fromY, TileGlobal, 0)
	if nx == fromX {
		t.Error("move through open door should pass")
	}
}
