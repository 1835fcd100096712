package game

// ID identifies an entity within its zone. IDs come from a per-zone
// monotonic counter and are never reused; a respawned enemy or player is a
// new entity with a fresh ID.
type ID uint64

// Kind discriminates entity types in snapshots and lookups.
type Kind uint8

const (
	KindPlayer Kind = iota + 1
	KindEnemy
	KindNPC
	KindItem
)

func (k Kind) String() string {
	switch k {
	case KindPlayer:
		return "player"
	case KindEnemy:
		return "enemy"
	case KindNPC:
		return "npc"
	case KindItem:
		return "item"
	}
	return "unknown"
}

// Animation states carried in snapshots. Player animations are
// client-reported and cosmetic; the server only forces Dead.
const (
	AnimIdle uint8 = iota
	AnimWalk
	AnimRun
	AnimAttack
	AnimDead
)

// Entity is the state shared by every simulated thing in a zone.
type Entity struct {
	ID        ID
	Kind      Kind
	Name      string
	Pos       Vec3
	Rot       float32
	Anim      uint8
	Health    int32
	MaxHealth int32
	Level     uint16
}

func (e *Entity) Alive() bool {
	return e.Health > 0
}

// ApplyDamage reduces health, clamping at zero. Overkill damage is lost.
// Returns the amount actually applied.
func (e *Entity) ApplyDamage(amount int32) int32 {
	if amount <= 0 {
		return 0
	}
	if amount > e.Health {
		amount = e.Health
	}
	e.Health -= amount
	return amount
}

// Heal raises health, clamping at MaxHealth. Returns the amount actually
// restored.
func (e *Entity) Heal(amount int32) int32 {
	if amount <= 0 || e.Health >= e.MaxHealth {
		return 0
	}
	if e.Health+amount > e.MaxHealth {
		amount = e.MaxHealth - e.Health
	}
	e.Health += amount
	return amount
}

// ItemStack is one inventory slot: an item definition key and a quantity.
// A zero Qty means the slot is empty.
type ItemStack struct {
	Item string `json:"item,omitempty"`
	Qty  uint16 `json:"qty,omitempty"`
}

func (s ItemStack) Empty() bool {
	return s.Qty == 0
}

// InventorySlots is the fixed size of a character's inventory.
const InventorySlots = 16
