package zones

import (
	"testing"

	"github.com/pixil98/go-realm/internal/game"
	"github.com/pixil98/go-realm/internal/storage"
	"github.com/pixil98/go-testutil"
)

func validZone() *Zone {
	return &Zone{
		Name:        "Meadowbrook",
		Bounds:      AABB{MinX: -100, MaxX: 100, MinZ: -100, MaxZ: 100},
		SpawnPoints: []SpawnPoint{{Pos: game.Vec3{X: 0, Z: 0}}},
		Obstacles:   []AABB{{MinX: 10, MaxX: 14, MinZ: -4, MaxZ: 4}},
		EnemySpawns: []EnemySpawn{{
			Archetype: storage.NewSmartIdentifier[*Archetype]("goblin"),
			Pos:       game.Vec3{X: 20, Z: 20},
			Count:     3,
			Respawn:   "30s",
			Radius:    5,
		}},
		Portals: []Portal{{
			Region: AABB{MinX: 95, MaxX: 100, MinZ: -5, MaxZ: 5},
			ToZone: "emberfall",
			ToPos:  game.Vec3{X: 0, Z: 0},
		}},
	}
}

func TestZone_Validate(t *testing.T) {
	tests := map[string]struct {
		mutate func(*Zone)
		expErr bool
	}{
		"valid zone": {
			mutate: func(z *Zone) {},
		},
		"missing name": {
			mutate: func(z *Zone) { z.Name = "" },
			expErr: true,
		},
		"inverted bounds": {
			mutate: func(z *Zone) { z.Bounds = AABB{MinX: 10, MaxX: -10, MinZ: 0, MaxZ: 1} },
			expErr: true,
		},
		"no spawn points": {
			mutate: func(z *Zone) { z.SpawnPoints = nil },
			expErr: true,
		},
		"spawn point outside bounds": {
			mutate: func(z *Zone) { z.SpawnPoints[0].Pos.X = 5000 },
			expErr: true,
		},
		"enemy spawn without archetype": {
			mutate: func(z *Zone) {
				z.EnemySpawns[0].Archetype = storage.NewSmartIdentifier[*Archetype]("")
			},
			expErr: true,
		},
		"enemy spawn with zero count": {
			mutate: func(z *Zone) { z.EnemySpawns[0].Count = 0 },
			expErr: true,
		},
		"enemy spawn with bad respawn": {
			mutate: func(z *Zone) { z.EnemySpawns[0].Respawn = "soon" },
			expErr: true,
		},
		"portal without target": {
			mutate: func(z *Zone) { z.Portals[0].ToZone = "" },
			expErr: true,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			z := validZone()
			tt.mutate(z)

			err := z.Validate()
			if tt.expErr && err == nil {
				t.Error("expected validation error")
			}
			if !tt.expErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestZone_Blocked(t *testing.T) {
	z := validZone()

	testutil.AssertEqual(t, "inside obstacle", z.Blocked(game.Vec3{X: 12, Z: 0}), true)
	testutil.AssertEqual(t, "open ground", z.Blocked(game.Vec3{X: 40, Z: 40}), false)
}

func TestZone_PortalAt(t *testing.T) {
	z := validZone()

	if z.PortalAt(game.Vec3{X: 97, Z: 0}) == nil {
		t.Error("expected portal in region")
	}
	if z.PortalAt(game.Vec3{X: 0, Z: 0}) != nil {
		t.Error("expected no portal at spawn")
	}
}

func TestZone_SpawnPointFor(t *testing.T) {
	z := validZone()
	z.SpawnPoints = append(z.SpawnPoints, SpawnPoint{Pos: game.Vec3{X: 5, Z: 5}})

	a := z.SpawnPointFor(0)
	b := z.SpawnPointFor(1)
	c := z.SpawnPointFor(2)

	testutil.AssertEqual(t, "rotates", a.Pos == b.Pos, false)
	testutil.AssertEqual(t, "wraps", a.Pos, c.Pos)
}

func TestArchetype_Validate(t *testing.T) {
	tests := map[string]struct {
		mutate func(*Archetype)
		expErr bool
	}{
		"valid archetype": {
			mutate: func(a *Archetype) {},
		},
		"missing name": {
			mutate: func(a *Archetype) { a.Name = "" },
			expErr: true,
		},
		"zero health": {
			mutate: func(a *Archetype) { a.MaxHealth = 0 },
			expErr: true,
		},
		"bad attack interval": {
			mutate: func(a *Archetype) { a.AttackInterval = "fast" },
			expErr: true,
		},
		"zero move speed": {
			mutate: func(a *Archetype) { a.MoveSpeed = 0 },
			expErr: true,
		},
		"valid loot": {
			mutate: func(a *Archetype) {
				a.Loot = []LootEntry{{Item: storage.NewSmartIdentifier[*Item]("healing-potion"), Chance: 0.25, Qty: 1}}
			},
		},
		"loot chance over one": {
			mutate: func(a *Archetype) {
				a.Loot = []LootEntry{{Item: storage.NewSmartIdentifier[*Item]("healing-potion"), Chance: 1.5, Qty: 1}}
			},
			expErr: true,
		},
		"loot zero qty": {
			mutate: func(a *Archetype) {
				a.Loot = []LootEntry{{Item: storage.NewSmartIdentifier[*Item]("healing-potion"), Chance: 0.25, Qty: 0}}
			},
			expErr: true,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			a := &Archetype{
				Name:           "Goblin",
				Level:          2,
				MaxHealth:      30,
				Attack:         8,
				Defense:        2,
				MoveSpeed:      3.5,
				AttackInterval: "1.5s",
				XPReward:       90,
			}
			tt.mutate(a)

			err := a.Validate()
			if tt.expErr && err == nil {
				t.Error("expected validation error")
			}
			if !tt.expErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestItem_Validate(t *testing.T) {
	tests := map[string]struct {
		item   Item
		expErr bool
	}{
		"valid weapon": {
			item: Item{Name: "Rusty Sword", Kind: ItemWeapon, Attack: 4, StackMax: 1},
		},
		"valid potion": {
			item: Item{Name: "Healing Potion", Kind: ItemPotion, Heal: 25, StackMax: 5},
		},
		"valid junk": {
			item: Item{Name: "Cracked Fang", Kind: ItemJunk, StackMax: 10},
		},
		"weapon without attack": {
			item:   Item{Name: "Foam Sword", Kind: ItemWeapon, StackMax: 1},
			expErr: true,
		},
		"potion restoring nothing": {
			item:   Item{Name: "Stale Water", Kind: ItemPotion, StackMax: 5},
			expErr: true,
		},
		"unknown kind": {
			item:   Item{Name: "Mystery", Kind: "artifact", StackMax: 1},
			expErr: true,
		},
		"zero stack": {
			item:   Item{Name: "Cracked Fang", Kind: ItemJunk},
			expErr: true,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			err := tt.item.Validate()
			if tt.expErr && err == nil {
				t.Error("expected validation error")
			}
			if !tt.expErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}
