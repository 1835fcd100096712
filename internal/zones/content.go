package zones

import (
	"fmt"
	"time"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-realm/internal/storage"
)

// LootEntry is one independent drop roll made when an enemy dies.
type LootEntry struct {
	Item   storage.SmartIdentifier[*Item] `json:"item"`
	Chance float32                        `json:"chance"`
	Qty    uint16                         `json:"qty"`
}

// Archetype is an enemy definition: one archetype, many live entities.
type Archetype struct {
	Name           string      `json:"name"`
	Level          uint16      `json:"level"`
	MaxHealth      int32       `json:"max_health"`
	Attack         int32       `json:"attack"`
	Defense        int32       `json:"defense"`
	MoveSpeed      float32     `json:"move_speed"`
	AttackInterval string      `json:"attack_interval"`
	AggroRange     float32     `json:"aggro_range,omitempty"`
	LeashRange     float32     `json:"leash_range,omitempty"`
	XPReward       int64       `json:"xp_reward,omitempty"`
	Loot           []LootEntry `json:"loot,omitempty"`
}

func (a *Archetype) Validate() error {
	el := errors.NewErrorList()

	if a.Name == "" {
		el.Add(fmt.Errorf("name is required"))
	}
	if a.Level < 1 {
		el.Add(fmt.Errorf("level must be at least 1"))
	}
	if a.MaxHealth < 1 {
		el.Add(fmt.Errorf("max_health must be at least 1"))
	}
	if a.Attack < 0 {
		el.Add(fmt.Errorf("attack must not be negative"))
	}
	if a.Defense < 0 {
		el.Add(fmt.Errorf("defense must not be negative"))
	}
	if a.MoveSpeed <= 0 {
		el.Add(fmt.Errorf("move_speed must be positive"))
	}
	if d, err := time.ParseDuration(a.AttackInterval); err != nil {
		el.Add(fmt.Errorf("parsing attack_interval: %w", err))
	} else if d <= 0 {
		el.Add(fmt.Errorf("attack_interval must be positive"))
	}
	if a.AggroRange < 0 {
		el.Add(fmt.Errorf("aggro_range must not be negative"))
	}
	if a.LeashRange < 0 {
		el.Add(fmt.Errorf("leash_range must not be negative"))
	}
	if a.XPReward < 0 {
		el.Add(fmt.Errorf("xp_reward must not be negative"))
	}
	for i, l := range a.Loot {
		if err := l.Item.Validate(); err != nil {
			el.Add(fmt.Errorf("loot %d: %w", i, err))
		}
		if l.Chance <= 0 || l.Chance > 1 {
			el.Add(fmt.Errorf("loot %d: chance must be in (0, 1]", i))
		}
		if l.Qty < 1 {
			el.Add(fmt.Errorf("loot %d: qty must be at least 1", i))
		}
	}

	return el.Err()
}

// SwingInterval returns the parsed time between attacks. Validation
// guarantees it parses.
func (a *Archetype) SwingInterval() time.Duration {
	d, err := time.ParseDuration(a.AttackInterval)
	if err != nil {
		return time.Second
	}
	return d
}

// Item kinds. Weapons equip, potions consume, junk only sells or drops.
const (
	ItemWeapon = "weapon"
	ItemPotion = "potion"
	ItemJunk   = "junk"
)

// Item is an item definition referenced by inventory slots and ground
// drops.
type Item struct {
	Name     string `json:"name"`
	Kind     string `json:"kind"`
	Attack   int32  `json:"attack,omitempty"`
	Heal     int32  `json:"heal,omitempty"`
	Mana     int32  `json:"mana,omitempty"`
	StackMax uint16 `json:"stack_max"`
}

func (i *Item) Validate() error {
	el := errors.NewErrorList()

	if i.Name == "" {
		el.Add(fmt.Errorf("name is required"))
	}
	switch i.Kind {
	case ItemWeapon:
		if i.Attack <= 0 {
			el.Add(fmt.Errorf("weapon attack must be positive"))
		}
	case ItemPotion:
		if i.Heal <= 0 && i.Mana <= 0 {
			el.Add(fmt.Errorf("potion must restore health or mana"))
		}
	case ItemJunk:
	default:
		el.Add(fmt.Errorf("kind must be one of weapon, potion, junk"))
	}
	if i.StackMax < 1 {
		el.Add(fmt.Errorf("stack_max must be at least 1"))
	}

	return el.Err()
}

// NPCTemplate is a static NPC definition.
type NPCTemplate struct {
	Name     string `json:"name"`
	Greeting string `json:"greeting,omitempty"`
}

func (n *NPCTemplate) Validate() error {
	el := errors.NewErrorList()

	if n.Name == "" {
		el.Add(fmt.Errorf("name is required"))
	}

	return el.Err()
}
