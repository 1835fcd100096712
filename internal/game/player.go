package game

import "time"

// Derived player stats. Records persist level and XP only; everything else
// is recomputed so balance changes apply to existing characters.
func PlayerMaxHealth(level uint16) int32 { return 80 + 20*int32(level) }
func PlayerMaxMana(level uint16) int32   { return 30 + 10*int32(level) }
func PlayerBaseAttack(level uint16) int32 {
	return 10 + 2*int32(level)
}
func PlayerBaseDefense(level uint16) int32 {
	return 5 + int32(level)
}

// Player is a character entity in a zone, bound to a session.
type Player struct {
	Entity

	Account     string
	CharacterID string
	Session     uint64

	XP      int64
	Mana    int32
	MaxMana int32

	Inventory    [InventorySlots]ItemStack
	Weapon       int8 // equipped inventory slot, -1 when bare-handed
	WeaponAttack int32

	LastUpdate time.Time // last accepted movement update
	LastAttack uint64    // tick of the last accepted attack
	InCombatAt uint64    // tick of the last combat activity, gates regen
	RespawnAt  uint64    // tick a dead player respawns, 0 while alive
	Dirty      bool      // has unsaved changes
}

func (p *Player) Base() *Entity { return &p.Entity }

func (p *Player) AttackStat() int32 {
	return PlayerBaseAttack(p.Level) + p.WeaponAttack
}

func (p *Player) DefenseStat() int32 {
	return PlayerBaseDefense(p.Level)
}

// AddStack places a stack into the inventory, filling a matching partial
// stack first and falling back to the first empty slot.
func (p *Player) AddStack(item string, qty uint16, stackMax uint16) error {
	if qty == 0 {
		return nil
	}
	if stackMax == 0 {
		stackMax = 1
	}
	for i := range p.Inventory {
		s := &p.Inventory[i]
		if s.Item == item && s.Qty > 0 && s.Qty < stackMax {
			room := stackMax - s.Qty
			if qty <= room {
				s.Qty += qty
				return nil
			}
			s.Qty = stackMax
			qty -= room
		}
	}
	for i := range p.Inventory {
		if p.Inventory[i].Empty() {
			n := qty
			if n > stackMax {
				n = stackMax
			}
			p.Inventory[i] = ItemStack{Item: item, Qty: n}
			qty -= n
			if qty == 0 {
				return nil
			}
		}
	}
	return ErrInventoryFull
}

// RemoveSlot empties an inventory slot and returns its former contents.
func (p *Player) RemoveSlot(slot int) (ItemStack, error) {
	if slot < 0 || slot >= InventorySlots {
		return ItemStack{}, ErrBadSlot
	}
	s := p.Inventory[slot]
	if s.Empty() {
		return ItemStack{}, ErrBadSlot
	}
	p.Inventory[slot] = ItemStack{}
	if int(p.Weapon) == slot {
		p.Weapon = -1
		p.WeaponAttack = 0
	}
	return s, nil
}

// ConsumeOne decrements a slot by one, clearing it on the last charge.
func (p *Player) ConsumeOne(slot int) error {
	if slot < 0 || slot >= InventorySlots || p.Inventory[slot].Empty() {
		return ErrBadSlot
	}
	p.Inventory[slot].Qty--
	if p.Inventory[slot].Qty == 0 {
		p.Inventory[slot] = ItemStack{}
		if int(p.Weapon) == slot {
			p.Weapon = -1
			p.WeaponAttack = 0
		}
	}
	return nil
}
