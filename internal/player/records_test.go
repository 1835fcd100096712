package player

import (
	"testing"

	"github.com/pixil98/go-realm/internal/game"
	"github.com/pixil98/go-testutil"
)

func TestAccountValidate(t *testing.T) {
	tests := map[string]struct {
		acct    Account
		wantErr bool
	}{
		"valid": {
			acct: Account{PasswordHash: "hash", Characters: []string{"c-1"}},
		},
		"no characters": {
			acct: Account{PasswordHash: "hash"},
		},
		"missing hash": {
			acct:    Account{},
			wantErr: true,
		},
		"empty character id": {
			acct:    Account{PasswordHash: "hash", Characters: []string{""}},
			wantErr: true,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			err := tt.acct.Validate()
			if tt.wantErr && err == nil {
				t.Fatal("expected an error")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("Validate() returned %v", err)
			}
		})
	}
}

func TestCharacterRecordValidate(t *testing.T) {
	tests := map[string]struct {
		mutate  func(*CharacterRecord)
		wantErr bool
	}{
		"valid": {
			mutate: func(*CharacterRecord) {},
		},
		"no account": {
			mutate:  func(c *CharacterRecord) { c.Account = "" },
			wantErr: true,
		},
		"no name": {
			mutate:  func(c *CharacterRecord) { c.Name = "" },
			wantErr: true,
		},
		"level zero": {
			mutate:  func(c *CharacterRecord) { c.Level = 0 },
			wantErr: true,
		},
		"level too high": {
			mutate:  func(c *CharacterRecord) { c.Level = game.MaxLevel + 1 },
			wantErr: true,
		},
		"negative xp": {
			mutate:  func(c *CharacterRecord) { c.XP = -1 },
			wantErr: true,
		},
		"negative health": {
			mutate:  func(c *CharacterRecord) { c.Health = -1 },
			wantErr: true,
		},
		"no zone": {
			mutate:  func(c *CharacterRecord) { c.Zone = "" },
			wantErr: true,
		},
		"oversized inventory": {
			mutate:  func(c *CharacterRecord) { c.Inventory = make([]game.ItemStack, game.InventorySlots+1) },
			wantErr: true,
		},
		"weapon slot out of range": {
			mutate:  func(c *CharacterRecord) { c.Weapon = game.InventorySlots },
			wantErr: true,
		},
		"bare hands": {
			mutate: func(c *CharacterRecord) { c.Weapon = -1 },
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			rec := NewCharacter("alice", "Seren", "meadow", game.Vec3{X: 1}, 0, nil)
			tt.mutate(rec)

			err := rec.Validate()
			if tt.wantErr && err == nil {
				t.Fatal("expected an error")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("Validate() returned %v", err)
			}
		})
	}
}

func TestNewCharacter(t *testing.T) {
	kit := []game.ItemStack{
		{Item: "rusty-sword", Qty: 1},
		{Item: "healing-potion", Qty: 3},
	}

	rec := NewCharacter("alice", "Seren", "meadow", game.Vec3{X: 4, Z: -2}, 90, kit)

	testutil.AssertEqual(t, "account", rec.Account, "alice")
	testutil.AssertEqual(t, "name", rec.Name, "Seren")
	testutil.AssertEqual(t, "level", rec.Level, uint16(1))
	testutil.AssertEqual(t, "health", rec.Health, game.PlayerMaxHealth(1))
	testutil.AssertEqual(t, "mana", rec.Mana, game.PlayerMaxMana(1))
	testutil.AssertEqual(t, "zone", rec.Zone, "meadow")
	testutil.AssertEqual(t, "weapon", rec.Weapon, int8(-1))
	testutil.AssertEqual(t, "kit size", len(rec.Inventory), 2)

	// The record owns its inventory.
	kit[0].Qty = 99
	testutil.AssertEqual(t, "kit copied", rec.Inventory[0].Qty, uint16(1))

	if err := rec.Validate(); err != nil {
		t.Fatalf("Validate() returned %v", err)
	}
}

func TestNewCharacterTruncatesKit(t *testing.T) {
	kit := make([]game.ItemStack, game.InventorySlots+4)
	for i := range kit {
		kit[i] = game.ItemStack{Item: "healing-potion", Qty: 1}
	}

	rec := NewCharacter("alice", "Seren", "meadow", game.Vec3{}, 0, kit)
	testutil.AssertEqual(t, "kit size", len(rec.Inventory), game.InventorySlots)
}
