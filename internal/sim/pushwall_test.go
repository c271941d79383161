package sim

import "testing"

const pushWallLevelYAML = `
id: secrets
name: Push-Wall Test
layout:
  - "#######"
  - "#..#..#"
  - "#..#..#"
  - "#..#..#"
  - "#######"
pushwalls:
  - { x: 3, y: 2, shape: 40 }
start: { x: 1, y: 2, angle: 0 }
`

func newPushWallSim(t *testing.T) *Simulator {
	t.Helper()
	return newMiniSim(t, pushWallLevelYAML, idleDefsYAML, 1)
}

func TestPushWallSlidesTwoTilesAndStops(t *testing.T) {
	s := newPushWallSim(t)
	p := s.PushWalls()[0]

	s.QueueAction(ActivatePushWall{TileX: 3, TileY: 2, Dir: East})
	events := advance(s, 2*64+4)

	if p.Moving() {
		t.Fatal("push-wall should have stopped after its full travel")
	}
	if p.tileX != 5 || p.tileY != 2 {
		t.Errorf("push-wall rests at (%d,%d), want (5,2)", p.tileX, p.tileY)
	}
	if p.tilesMoved != 2 {
		t.Errorf("tilesMoved = %d, want 2", p.tilesMoved)
	}

	var slid, sounded bool
	for _, ev := range events {
		switch e := ev.(type) {
		case PushWallMoved:
			slid = true
		case SoundPlayed:
			if e.Name == "pushwall" {
				sounded = true
			}
		}
	}
	if !slid || !sounded {
		t.Errorf("push events: moved=%v sound=%v", slid, sounded)
	}
}

func TestPushWallVacatesItsOriginTile(t *testing.T) {
	s := newPushWallSim(t)

	if !s.tileBlocked(3, 2, nil) {
		t.Fatal("push-wall tile should start solid")
	}

	s.QueueAction(ActivatePushWall{TileX: 3, TileY: 2, Dir: East})
	advance(s, 2*64+4)

	if s.tileBlocked(3, 2, nil) {
		t.Error("origin tile should read as floor after the slide")
	}
	if !s.tileBlocked(5, 2, nil) {
		t.Error("resting tile should read as solid")
	}
}

func TestPushWallActivatesOnlyOnce(t *testing.T) {
	s := newPushWallSim(t)
	p := s.PushWalls()[0]

	s.QueueAction(ActivatePushWall{TileX: 3, TileY: 2, Dir: East})
	advance(s, 2*64+4)

	s.QueueAction(ActivatePushWall{TileX: 3, TileY: 2, Dir: East})
	advance(s, 8)

	if p.Moving() || p.tilesMoved != 2 {
		t.Error("a push-wall that already moved must ignore further pushes")
	}
}

func TestPushWallRefusesBlockedDirection(t *testing.T) {
	s := newPushWallSim(t)
	p := s.PushWalls()[0]

	// North of (3,2) is solid wall.
	s.QueueAction(ActivatePushWall{TileX: 3, TileY: 2, Dir: North})
	advance(s, 8)

	if p.Moving() || p.tilesMoved != 0 {
		t.Error("push into a solid tile should be refused")
	}
}

func TestPushWallBlocksWhileSliding(t *testing.T) {
	s := newPushWallSim(t)

	s.QueueAction(ActivatePushWall{TileX: 3, TileY: 2, Dir: East})
	advance(s, 10) // Mid-slide into (4,2).

	if !s.tileBlocked(3, 2, nil) || !s.tileBlocked(4, 2, nil) {
		t.Error("a sliding wall must block both the leaving and entering tiles")
	}
}

func TestDiagonalMoveSlidesAlongOpenAxis(t *testing.T) {
	s := newPushWallSim(t)

	// From the corner at (1,1), north is wall and east is floor: a
	// northeast step must project onto the east axis instead of
	// stopping dead.
	fromX, fromY := TileCenter(1), TileCenter(1)
	nx, ny := s.ResolveMove(fromX, fromY, TileGlobal, -TileGlobal)
	if ny != fromY {
		t.Errorf("blocked axis moved: y = %d, want %d", ny, fromY)
	}
	if nx != fromX+TileGlobal {
		t.Errorf("open axis blocked: x = %d, want %d", nx, fromX+TileGlobal)
	}
}
