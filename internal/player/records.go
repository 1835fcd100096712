package player

import (
	"fmt"
	"regexp"
	"time"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-realm/internal/game"
)

var (
	usernamePattern = regexp.MustCompile(`^[a-z][a-z0-9-]{2,23}$`)
	namePattern     = regexp.MustCompile(`^[A-Za-z]{3,24}$`)
)

// An Account maps a login name to its password hash and the ids of the
// characters it owns. The login name is the storage key.
type Account struct {
	PasswordHash string    `json:"password_hash"`
	Characters   []string  `json:"characters,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

func (a *Account) Validate() error {
	el := errors.NewErrorList()

	if a.PasswordHash == "" {
		el.Add(fmt.Errorf("account has no password hash"))
	}

	for i, id := range a.Characters {
		if id == "" {
			el.Add(fmt.Errorf("character reference %d is empty", i))
		}
	}

	return el.Err()
}

// A CharacterRecord is the persisted form of a character. The simulation
// builds a fresh record every time it saves and never touches one after
// handing it to the gateway.
type CharacterRecord struct {
	Account   string           `json:"account"`
	Name      string           `json:"name"`
	Level     uint16           `json:"level"`
	XP        int64            `json:"xp"`
	Health    int32            `json:"health"`
	Mana      int32            `json:"mana"`
	Zone      string           `json:"zone"`
	Pos       game.Vec3        `json:"pos"`
	Rot       float32          `json:"rot"`
	Weapon    int8             `json:"weapon"`
	Inventory []game.ItemStack `json:"inventory,omitempty"`
}

func (c *CharacterRecord) Validate() error {
	el := errors.NewErrorList()

	if c.Account == "" {
		el.Add(fmt.Errorf("character has no account"))
	}

	if c.Name == "" {
		el.Add(fmt.Errorf("character has no name"))
	}

	if c.Level < 1 || c.Level > game.MaxLevel {
		el.Add(fmt.Errorf("level %d out of range", c.Level))
	}

	if c.XP < 0 {
		el.Add(fmt.Errorf("experience must not be negative"))
	}

	if c.Health < 0 {
		el.Add(fmt.Errorf("health must not be negative"))
	}

	if c.Mana < 0 {
		el.Add(fmt.Errorf("mana must not be negative"))
	}

	if c.Zone == "" {
		el.Add(fmt.Errorf("character has no zone"))
	}

	if len(c.Inventory) > game.InventorySlots {
		el.Add(fmt.Errorf("inventory holds %d slots, max is %d", len(c.Inventory), game.InventorySlots))
	}

	if c.Weapon < -1 || int(c.Weapon) >= game.InventorySlots {
		el.Add(fmt.Errorf("weapon slot %d out of range", c.Weapon))
	}

	return el.Err()
}

// NewCharacter builds a level 1 record at the given location. Kits
// larger than the inventory are truncated.
func NewCharacter(account, name, zone string, pos game.Vec3, rot float32, kit []game.ItemStack) *CharacterRecord {
	if len(kit) > game.InventorySlots {
		kit = kit[:game.InventorySlots]
	}

	return &CharacterRecord{
		Account:   account,
		Name:      name,
		Level:     1,
		Health:    game.PlayerMaxHealth(1),
		Mana:      game.PlayerMaxMana(1),
		Zone:      zone,
		Pos:       pos,
		Rot:       rot,
		Weapon:    -1,
		Inventory: append([]game.ItemStack{}, kit...),
	}
}

// CharacterInfo is the slice of a record shown on the selection screen.
type CharacterInfo struct {
	ID    string
	Name  string
	Level uint16
	Zone  string
}
