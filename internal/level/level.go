// Package level provides the structural data the simulation core is
// built from: the tile grid, fixed-count door and push-wall lists,
// actor spawns, and the moddable state-graph/actor/weapon definitions
// with their script sources. Everything here is immutable once loaded;
// the simulator derives all dynamic state from it.
package level

// Tile classifies one grid cell.
type Tile struct {
	Solid bool // Blocks movement and sight
	Area  int  // Sound-propagation area id (-1 for solid tiles)
}

// DoorSpec describes one door as placed by the level.
type DoorSpec struct {
	X        int    `yaml:"x"`
	Y        int    `yaml:"y"`
	Vertical bool   `yaml:"vertical"` // True: slides along north/south wall faces
	Lock     string `yaml:"lock"`     // Required key item id, empty = unlocked
	Areas    [2]int `yaml:"-"`        // Adjacent area ids, derived from the grid
}

// PushWallSpec describes a secret wall that can be pushed.
type PushWallSpec struct {
	X     int `yaml:"x"`
	Y     int `yaml:"y"`
	Shape int `yaml:"shape"` // Wall texture/shape id reported in events
}

// SpawnSpec places an actor at level start.
type SpawnSpec struct {
	X      int    `yaml:"x"`
	Y      int    `yaml:"y"`
	Type   string `yaml:"type"`
	Angle  int    `yaml:"angle"`  // Degrees 0-359
	Ambush bool   `yaml:"ambush"` // Deaf until the player is seen
}

// ElevatorSpec marks an exit switch tile.
type ElevatorSpec struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

// PlayerStart is where the player enters the level.
type PlayerStart struct {
	X     int `yaml:"x"`
	Y     int `yaml:"y"`
	Angle int `yaml:"angle"`
}

// Level is the immutable structural description of one map.
type Level struct {
	ID        string
	Name      string
	Width     int
	Height    int
	Doors     []DoorSpec
	PushWalls []PushWallSpec
	Spawns    []SpawnSpec
	Elevators []ElevatorSpec
	Start     PlayerStart
	AreaCount int

	tiles []Tile
}

// Tile returns the tile at (x, y). Out-of-bounds coordinates read as
// solid so movement code never needs its own bounds checks.
func (l *Level) Tile(x, y int) Tile {
	if x < 0 || x >= l.Width || y < 0 || y >= l.Height {
		return Tile{Solid: true, Area: -1}
	}
	return l.tiles[y*l.Width+x]
}

// Area returns the area id at (x, y), or -1 for solid tiles.
func (l *Level) Area(x, y int) int {
	return l.Tile(x, y).Area
}

// DoorAt returns the index of the door occupying (x, y), or -1.
func (l *Level) DoorAt(x, y int) int {
	for i, d := range l.Doors {
		if d.X == x && d.Y == y {
			return i
		}
	}
	return -1
}

// PushWallAt returns the index of the push-wall at (x, y), or -1.
func (l *Level) PushWallAt(x, y int) int {
	for i, p := range l.PushWalls {
		if p.X == x && p.Y == y {
			return i
		}
	}
	return -1
}

// ElevatorAt reports whether (x, y) carries an exit switch.
func (l *Level) ElevatorAt(x, y int) bool {
	for _, e := range l.Elevators {
		if e.X == x && e.Y == y {
			return true
		}
	}
	return false
}

// assignAreas flood-fills the floor tiles into sound-propagation
// areas. Door tiles seed no area themselves and act as boundaries, so
// the rooms a door joins get distinct ids; the door's Areas pair is
// then read off its flanking tiles.
func (l *Level) assignAreas() {
	next := 0
	for y := 0; y < l.Height; y++ {
		for x := 0; x < l.Width; x++ {
			t := l.tiles[y*l.Width+x]
			if t.Solid || t.Area >= 0 || l.DoorAt(x, y) >= 0 {
				continue
			}
			l.floodArea(x, y, next)
			next++
		}
	}
	l.AreaCount = next

	for i := range l.Doors {
		d := &l.Doors[i]
		if d.Vertical {
			d.Areas[0] = l.Area(d.X, d.Y-1)
			d.Areas[1] = l.Area(d.X, d.Y+1)
		} else {
			d.Areas[0] = l.Area(d.X-1, d.Y)
			d.Areas[1] = l.Area(d.X+1, d.Y)
		}
	}
}

// floodArea assigns area id to the connected floor region at (x, y).
func (l *Level) floodArea(x, y, area int) {
	stack := []struct{ x, y int }{{x, y}}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if p.x < 0 || p.x >= l.Width || p.y < 0 || p.y >= l.Height {
			continue
		}
		t := &l.tiles[p.y*l.Width+p.x]
		if t.Solid || t.Area >= 0 || l.DoorAt(p.x, p.y) >= 0 {
			continue
		}
		t.Area = area

		stack = append(stack,
			struct{ x, y int }{p.x + 1, p.y},
			struct{ x, y int }{p.x - 1, p.y},
			struct{ x, y int }{p.x, p.y + 1},
			struct{ x, y int }{p.x, p.y - 1},
		)
	}
}
