package sim

// Movement validation resolves desired positions against the solid
// grid with axis-independent sliding: when the combined move is
// blocked, each axis is tried alone and motion proceeds along
// whichever axes are unobstructed. Door and push-wall state folds into
// the solidity test, so a closing door blocks exactly when its slide
// says so.

// tileBlocked reports whether a tile refuses entry to a moving body.
// ignore exempts one actor (the mover) from the occupancy check.
func (s *Simulator) tileBlocked(tx, ty int, ignore *Actor) bool {
	if s.lvl.Tile(tx, ty).Solid {
		// A vacated push-wall origin reads as floor.
		vacated := false
		for _, p := range s.pushWalls {
			if p.vacated(tx, ty) {
				vacated = true
				break
			}
		}
		if !vacated {
			return true
		}
	}

	for _, p := range s.pushWalls {
		if p.occupies(tx, ty) {
			return true
		}
	}

	if di := s.lvl.DoorAt(tx, ty); di >= 0 {
		if !s.doors[di].passable() {
			return true
		}
	}

	for _, a := range s.actors {
		if a == ignore || !a.Alive() {
			continue
		}
		if TileOf(a.x) == tx && TileOf(a.y) == ty {
			return true
		}
	}

	return false
}

// positionClear reports whether a body of the standard radius fits at
// the global position without overlapping a blocked tile.
func (s *Simulator) positionClear(x, y int, ignore *Actor) bool {
	x1, x2 := TileOf(x-actorRadius), TileOf(x+actorRadius)
	y1, y2 := TileOf(y-actorRadius), TileOf(y+actorRadius)
	for ty := y1; ty <= y2; ty++ {
		for tx := x1; tx <= x2; tx++ {
			if s.tileBlocked(tx, ty, ignore) {
				return false
			}
		}
	}
	return true
}

// tileClear is positionClear for a whole tile: used for push-wall
// destinations and spawn checks.
func (s *Simulator) tileClear(tx, ty int, ignore *Actor) bool {
	if s.tileBlocked(tx, ty, ignore) {
		return false
	}
	if TileOf(s.player.X) == tx && TileOf(s.player.Y) == ty {
		return false
	}
	return true
}

// clipMove resolves a desired move from (x, y) by (dx, dy). The
// combined vector is tried first; when it is blocked, each axis is
// tried independently, so a diagonal blocked only along one axis
// slides along the other instead of stopping.
func (s *Simulator) clipMove(x, y, dx, dy int, ignore *Actor) (int, int) {
	if s.positionClear(x+dx, y+dy, ignore) {
		return x + dx, y + dy
	}
	nx, ny := x, y
	if dx != 0 && s.positionClear(nx+dx, ny, ignore) {
		nx += dx
	}
	if dy != 0 && s.positionClear(nx, ny+dy, ignore) {
		ny += dy
	}
	return nx, ny
}

// ResolveMove validates a player move for the host: the returned
// position is the desired one when legal, otherwise the sliding
// projection along whichever axes are unobstructed. The player does
// not collide with actors it cannot displace tile-wise; walls, doors,
// and push-walls are authoritative.
func (s *Simulator) ResolveMove(x, y, dx, dy int) (int, int) {
	return s.clipMove(x, y, dx, dy, nil)
}

// lineClear walks the tile line between two tiles and reports whether
// sight passes: solid tiles and non-open doors obstruct.
func (s *Simulator) lineClear(x1, y1, x2, y2 int) bool {
	// Bresenham over tiles; endpoints themselves do not obstruct.
	dx, dy := x2-x1, y2-y1
	sx, sy := 1, 1
	if dx < 0 {
		dx, sx = -dx, -1
	}
	if dy < 0 {
		dy, sy = -dy, -1
	}

	x, y, err := x1, y1, dx-dy
	for {
		if x == x2 && y == y2 {
			return true
		}
		if !(x == x1 && y == y1) && s.sightBlocked(x, y) {
			return false
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x += sx
		}
		if e2 < dx {
			err += dx
			y += sy
		}
	}
}

// sightBlocked reports whether a tile obstructs vision.
func (s *Simulator) sightBlocked(tx, ty int) bool {
	if s.lvl.Tile(tx, ty).Solid {
		for _, p := range s.pushWalls {
			if p.vacated(tx, ty) {
				return false
			}
		}
		return true
	}
	for _, p := range s.pushWalls {
		if p.occupies(tx, ty) {
			return true
		}
	}
	if di := s.lvl.DoorAt(tx, ty); di >= 0 {
		return s.doors[di].action != DoorOpen
	}
	return false
}
