package sim

import "github.com/vovakirdan/raidsim/internal/level"

// pushWallSpeed is the slide rate in global units per tic; a full tile
// takes 64 tics, matching door timing defaults.
const pushWallSpeed = TileGlobal / 64

// pushWallMaxTiles is how far one push travels at most.
const pushWallMaxTiles = 2

// PushWall is a secret wall segment. Structurally it is a shape id and
// a starting tile; dynamically it is a fixed-point position and the
// direction of its current or last slide. Identity is the level index.
type PushWall struct {
	spec  level.PushWallSpec
	index int

	tileX, tileY int // Tile currently counted as solid
	progress     int // Global units advanced into the next tile
	dir          Direction
	moving       bool
	tilesMoved   int
}

// Index returns the push-wall's stable level index.
func (p *PushWall) Index() int { return p.index }

// Moving reports whether the wall is mid-slide.
func (p *PushWall) Moving() bool { return p.moving }

// Pos returns the wall's position in global units.
func (p *PushWall) Pos() (x, y int) {
	dx, dy := p.dir.Delta()
	return TileCenter(p.tileX) + dx*p.progress, TileCenter(p.tileY) + dy*p.progress
}

// occupies reports whether the wall blocks the given tile. While
// sliding it blocks both the tile it is leaving and the one it is
// entering.
func (p *PushWall) occupies(tx, ty int) bool {
	if tx == p.tileX && ty == p.tileY {
		return true
	}
	if p.progress > 0 {
		dx, dy := p.dir.Delta()
		return tx == p.tileX+dx && ty == p.tileY+dy
	}
	return false
}

// vacated reports whether the wall has left its original level tile,
// which then reads as floor.
func (p *PushWall) vacated(tx, ty int) bool {
	return (tx != p.tileX || ty != p.tileY) && tx == p.spec.X && ty == p.spec.Y
}

// activatePushWall applies an activate-pushwall intent: the wall
// starts sliding away from the push if the tile behind it is clear.
// A wall that already moved stays where it stopped.
func (s *Simulator) activatePushWall(p *PushWall, dir Direction) {
	if p.moving || p.tilesMoved > 0 {
		return
	}
	dx, dy := dir.Delta()
	if !s.tileClear(p.tileX+dx, p.tileY+dy, nil) {
		return
	}

	p.dir = dir
	p.moving = true
	s.emit(SoundPlayed{Name: "pushwall", X: TileCenter(p.tileX), Y: TileCenter(p.tileY), Area: s.playerArea()})
}

// tickPushWall advances one push-wall by one tic.
func (s *Simulator) tickPushWall(p *PushWall) {
	if !p.moving {
		return
	}

	p.progress += pushWallSpeed
	if p.progress >= TileGlobal {
		dx, dy := p.dir.Delta()
		p.tileX += dx
		p.tileY += dy
		p.progress = 0
		p.tilesMoved++

		next := !s.lvl.Tile(p.tileX+dx, p.tileY+dy).Solid &&
			s.tileClear(p.tileX+dx, p.tileY+dy, nil)
		if p.tilesMoved >= pushWallMaxTiles || !next {
			p.moving = false
		}
	}

	x, y := p.Pos()
	s.emit(PushWallMoved{PushWall: p.index, X: x, Y: y})
}
