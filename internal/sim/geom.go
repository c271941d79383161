package sim

// Positions are fixed-point "global units": one tile is 65536 units,
// matching the coordinate scale the host feeds into Update.
const (
	// TileGlobal is the width of one tile in global units.
	TileGlobal = 1 << 16
	// TileShift converts global units to tile coordinates.
	TileShift = 16

	// actorRadius is the collision half-width of actors and the player.
	actorRadius = TileGlobal / 4
)

// TileOf converts a global coordinate to its tile index.
func TileOf(g int) int {
	return g >> TileShift
}

// TileCenter returns the global coordinate of a tile's center.
func TileCenter(tile int) int {
	return tile<<TileShift + TileGlobal/2
}

// Direction is one of the four cardinal push/travel directions.
type Direction int

const (
	North Direction = iota
	East
	South
	West
)

// Delta returns the tile-space step for the direction.
func (d Direction) Delta() (dx, dy int) {
	switch d {
	case North:
		return 0, -1
	case East:
		return 1, 0
	case South:
		return 0, 1
	default:
		return -1, 0
	}
}

func (d Direction) String() string {
	switch d {
	case North:
		return "north"
	case East:
		return "east"
	case South:
		return "south"
	default:
		return "west"
	}
}

// tileDist returns the Chebyshev distance between two tiles, the
// metric actor AI uses for range checks.
func tileDist(x1, y1, x2, y2 int) int {
	dx := x1 - x2
	if dx < 0 {
		dx = -dx
	}
	dy := y1 - y2
	if dy < 0 {
		dy = -dy
	}
	if dx > dy {
		return dx
	}
	return dy
}
