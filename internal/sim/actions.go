package sim

import "sync"

// Action is an immutable player intent. The host queues actions as
// input arrives; the simulator consumes each exactly once at the next
// tic boundary, in FIFO order.
type Action interface {
	simAction()
}

// OperateDoor toggles a door by index.
type OperateDoor struct {
	Door int
}

func (OperateDoor) simAction() {}

// ActivatePushWall pushes the secret wall at a tile in a direction.
type ActivatePushWall struct {
	TileX, TileY int
	Dir          Direction
}

func (ActivatePushWall) simAction() {}

// ActivateElevator flips the exit switch at a tile.
type ActivateElevator struct {
	TileX, TileY int
	Dir          Direction
}

func (ActivateElevator) simAction() {}

// FireWeapon pulls a weapon slot's trigger. The trigger stays held
// until ReleaseTrigger, so automatic weapons refire from their ready
// state.
type FireWeapon struct {
	Slot int
}

func (FireWeapon) simAction() {}

// ReleaseTrigger releases a weapon slot's trigger.
type ReleaseTrigger struct {
	Slot int
}

func (ReleaseTrigger) simAction() {}

// EquipWeapon changes the weapon type wielded in a slot.
type EquipWeapon struct {
	Slot int
	Type string
}

func (EquipWeapon) simAction() {}

// actionQueue is the FIFO intent buffer. QueueAction is the one
// simulator operation invoked from outside the tick, so appends are
// lock-protected; draining happens only inside Update.
type actionQueue struct {
	mu      sync.Mutex
	pending []Action
}

func (q *actionQueue) push(a Action) {
	q.mu.Lock()
	q.pending = append(q.pending, a)
	q.mu.Unlock()
}

// drain returns the queued actions in arrival order and empties the
// queue.
func (q *actionQueue) drain() []Action {
	q.mu.Lock()
	out := q.pending
	q.pending = nil
	q.mu.Unlock()
	return out
}
