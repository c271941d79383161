package sim

import "testing"

func countWeaponFired(events []Event) int {
	n := 0
	for _, ev := range events {
		if _, ok := ev.(WeaponFired); ok {
			n++
		}
	}
	return n
}

func TestFireWithEmptyAmmoIsQuietRefusal(t *testing.T) {
	s := newDemoSim(t, 5)
	s.player.Inventory["bullets"] = 0

	s.QueueAction(EquipWeapon{Slot: 0, Type: "pistol"})
	advance(s, 2)
	w := s.Weapons()[0]

	s.QueueAction(FireWeapon{Slot: 0})
	events := advance(s, 30)

	if countWeaponFired(events) != 0 {
		t.Error("empty weapon fired")
	}
	for _, ev := range events {
		if e, ok := ev.(PlayerStateChanged); ok && e.Field == "bullets" {
			t.Error("empty weapon touched the ammo counter")
		}
	}
	if w.cur.Name != "pistol_ready" {
		t.Errorf("slot state = %q, want pistol_ready", w.cur.Name)
	}
	if w.flags&WeaponReady == 0 {
		t.Error("refused slot should stay ready")
	}
	if w.flags&WeaponTriggerHeld == 0 {
		t.Error("the trigger latch is independent of the ammo gate")
	}
}

func TestFireConsumesAmmoAndRunsAttackChain(t *testing.T) {
	s := newDemoSim(t, 5)
	s.QueueAction(EquipWeapon{Slot: 0, Type: "pistol"})
	advance(s, 2)
	w := s.Weapons()[0]

	s.QueueAction(FireWeapon{Slot: 0})
	s.QueueAction(ReleaseTrigger{Slot: 0})
	events := advance(s, 1)

	if countWeaponFired(events) != 1 {
		t.Fatalf("fired %d times, want 1", countWeaponFired(events))
	}
	var ammoReported bool
	for _, ev := range events {
		if e, ok := ev.(PlayerStateChanged); ok && e.Field == "bullets" {
			if e.Value != 7 {
				t.Errorf("bullets after shot = %d, want 7", e.Value)
			}
			ammoReported = true
		}
	}
	if !ammoReported {
		t.Error("shot should report the new ammo count")
	}
	if w.flags&WeaponAttacking == 0 {
		t.Error("slot should be mid-attack after the shot")
	}

	// The pistol chain is three six-tic frames back to ready.
	advance(s, 20)
	if w.cur.Name != "pistol_ready" {
		t.Errorf("slot state = %q, want pistol_ready after the chain", w.cur.Name)
	}
	if w.flags&WeaponAttacking != 0 || w.flags&WeaponReady == 0 {
		t.Error("slot should be ready again after the chain")
	}
}

func TestHeldTriggerRefires(t *testing.T) {
	s := newDemoSim(t, 5)
	s.QueueAction(EquipWeapon{Slot: 0, Type: "pistol"})
	advance(s, 2)

	s.QueueAction(FireWeapon{Slot: 0})
	held := countWeaponFired(advance(s, 60))
	if held < 2 {
		t.Errorf("held trigger fired %d times over 60 tics, want refire", held)
	}

	s.QueueAction(ReleaseTrigger{Slot: 0})
	advance(s, 20) // Let the in-flight chain finish.
	if n := countWeaponFired(advance(s, 60)); n != 0 {
		t.Errorf("released trigger fired %d times", n)
	}
}

func TestKnifeNeedsNoAmmo(t *testing.T) {
	s := newDemoSim(t, 5)
	s.player.Inventory["bullets"] = 0

	s.QueueAction(EquipWeapon{Slot: 1, Type: "knife"})
	advance(s, 2)
	s.QueueAction(FireWeapon{Slot: 1})
	s.QueueAction(ReleaseTrigger{Slot: 1})

	if countWeaponFired(advance(s, 2)) != 1 {
		t.Error("knife should fire without ammo")
	}
}

func TestWeaponSlotsRunIndependently(t *testing.T) {
	s := newDemoSim(t, 5)
	s.QueueAction(EquipWeapon{Slot: 0, Type: "pistol"})
	s.QueueAction(EquipWeapon{Slot: 1, Type: "knife"})
	advance(s, 2)

	s.QueueAction(FireWeapon{Slot: 0})
	s.QueueAction(ReleaseTrigger{Slot: 0})
	advance(s, 1)

	w0, w1 := s.Weapons()[0], s.Weapons()[1]
	if w0.flags&WeaponAttacking == 0 {
		t.Error("slot 0 should be attacking")
	}
	if w1.flags&WeaponAttacking != 0 {
		t.Error("slot 1 should be untouched by slot 0's attack")
	}
	if w1.cur.Name != "knife_ready" {
		t.Errorf("slot 1 state = %q, want knife_ready", w1.cur.Name)
	}
}

func TestEquipUnknownTypeRaisesConfigError(t *testing.T) {
	s := newDemoSim(t, 5)
	s.QueueAction(EquipWeapon{Slot: 0, Type: "railgun"})
	events := advance(s, 1)

	found := false
	for _, ev := range events {
		if _, ok := ev.(ConfigError); ok {
			found = true
		}
	}
	if !found {
		t.Error("equipping an undefined type should raise a config error")
	}
	if s.Weapons()[0].def != nil {
		t.Error("failed equip must leave the slot empty")
	}
}

func TestHitscanEventuallyDropsVisibleActor(t *testing.T) {
	s := newDemoSim(t, 21)
	s.GiveItem("bullets", 90)

	var dog *Actor
	for _, a := range s.Actors() {
		if a.Type() == "dog" {
			dog = a
		}
	}

	s.QueueAction(EquipWeapon{Slot: 0, Type: "pistol"})
	advance(s, 2)
	s.QueueAction(FireWeapon{Slot: 0})

	for tic := 0; tic < 900; tic++ {
		advance(s, 1)
		if !dog.Alive() {
			return
		}
	}
	t.Fatal("sustained fire never dropped the dog")
}

func TestDeathChainEndsInCorpse(t *testing.T) {
	s := newDemoSim(t, 5)
	var dog *Actor
	for _, a := range s.Actors() {
		if a.Type() == "dog" {
			dog = a
		}
	}

	s.damageActor(dog, 5)
	if dog.Alive() {
		t.Fatal("lethal damage should kill")
	}
	if dog.cur.Name != "dog_die1" {
		t.Fatalf("death state = %q, want dog_die1", dog.cur.Name)
	}

	advance(s, 12)
	if dog.cur.Name != "dog_dead" {
		t.Errorf("corpse state = %q, want dog_dead", dog.cur.Name)
	}

	// The corpse no longer blocks movement.
	tx, ty := TileOf(dog.x), TileOf(dog.y)
	if s.tileBlocked(tx, ty, nil) {
		t.Error("corpse tile should be walkable")
	}
}
