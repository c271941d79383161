package sim

// Event is a one-shot notification of an externally observable change.
// Events are immutable, emitted in the order they were raised within a
// tic, and never retained by the core once Update returns them.
type Event interface {
	simEvent()
}

// ActorSpawned reports a new actor entering the world.
type ActorSpawned struct {
	ID    int
	Type  string
	Shape int
	X, Y  int // Global units
	Angle int
}

func (ActorSpawned) simEvent() {}

// ActorMoved reports an actor position or facing change.
type ActorMoved struct {
	ID    int
	X, Y  int
	Angle int
}

func (ActorMoved) simEvent() {}

// ActorShapeChanged reports an actor's display shape change.
type ActorShapeChanged struct {
	ID    int
	Shape int
}

func (ActorShapeChanged) simEvent() {}

// ActorDespawned reports an actor leaving the world. Its id is never
// reused within the session.
type ActorDespawned struct {
	ID int
}

func (ActorDespawned) simEvent() {}

// SoundPlayed reports a positional sound. Area is the propagation area
// the sound originated in, or -1 for non-positional sounds.
type SoundPlayed struct {
	Name string
	X, Y int
	Area int
}

func (SoundPlayed) simEvent() {}

// DoorMoved reports a door slide position change.
// Position runs 0 (closed) to TileGlobal (fully open).
type DoorMoved struct {
	Door     int
	Position int
}

func (DoorMoved) simEvent() {}

// PushWallMoved reports a push-wall position change in global units.
type PushWallMoved struct {
	PushWall int
	X, Y     int
}

func (PushWallMoved) simEvent() {}

// ElevatorSwitched reports the exit switch being flipped.
type ElevatorSwitched struct {
	TileX, TileY int
}

func (ElevatorSwitched) simEvent() {}

// ElevatorActivated reports the level exit firing.
type ElevatorActivated struct {
	TileX, TileY int
}

func (ElevatorActivated) simEvent() {}

// WeaponFired reports a successful weapon discharge.
type WeaponFired struct {
	Slot int
	Type string
}

func (WeaponFired) simEvent() {}

// WeaponStateChanged reports a weapon slot's display frame change,
// including equips.
type WeaponStateChanged struct {
	Slot  int
	Type  string // Empty when the slot was emptied
	Shape int
}

func (WeaponStateChanged) simEvent() {}

// PlayerStateChanged reports a change to a player counter: health or
// an inventory item.
type PlayerStateChanged struct {
	Field string // "health" or an inventory item id
	Value int
}

func (PlayerStateChanged) simEvent() {}

// ScreenFlash requests a fullscreen flash from the renderer.
type ScreenFlash struct {
	Color string
	Tics  int
}

func (ScreenFlash) simEvent() {}

// MenuNavigate asks the host to leave gameplay for a menu screen.
type MenuNavigate struct {
	Target string // "gameover", "intermission"
}

func (MenuNavigate) simEvent() {}

// ConfigError reports a programming or mod-authoring error detected at
// runtime, such as a zero-duration transition chain exceeding the cap.
// The affected entity is parked; the simulation continues.
type ConfigError struct {
	Message string
}

func (ConfigError) simEvent() {}
