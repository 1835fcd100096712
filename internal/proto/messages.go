package proto

import "github.com/pixil98/go-realm/internal/game"

// Compile-time check that every message implements the interface; the
// Decode dispatch in newMessage relies on it.
var (
	_ Message = (*Connect)(nil)
	_ Message = (*Login)(nil)
	_ Message = (*CreateCharacter)(nil)
	_ Message = (*SelectCharacter)(nil)
	_ Message = (*PlayerUpdate)(nil)
	_ Message = (*Attack)(nil)
	_ Message = (*ChatMessage)(nil)
	_ Message = (*UseItem)(nil)
	_ Message = (*DropItem)(nil)
	_ Message = (*PickupItem)(nil)
	_ Message = (*Heartbeat)(nil)
	_ Message = (*Disconnect)(nil)
	_ Message = (*Connected)(nil)
	_ Message = (*LoginResult)(nil)
	_ Message = (*CharacterList)(nil)
	_ Message = (*ZoneChange)(nil)
	_ Message = (*WorldState)(nil)
	_ Message = (*DamageEvent)(nil)
	_ Message = (*ChatBroadcast)(nil)
	_ Message = (*EntityDespawned)(nil)
	_ Message = (*TimeSync)(nil)
	_ Message = (*Notice)(nil)
	_ Message = (*InventoryUpdate)(nil)
	_ Message = (*CharacterStatus)(nil)
)

// Connect opens a session. The server answers with Connected.
type Connect struct{}

func (*Connect) Tag() Tag         { return TagConnect }
func (*Connect) encode(w *writer) {}
func (*Connect) decode(r *reader) {}

// Login authenticates the session's account. Unknown accounts are created
// on first login.
type Login struct {
	Username string
	Password string
}

func (*Login) Tag() Tag { return TagLogin }

func (m *Login) encode(w *writer) {
	w.str(m.Username, MaxNameLen)
	w.str(m.Password, MaxTextLen)
}

func (m *Login) decode(r *reader) {
	m.Username = r.str(MaxNameLen)
	m.Password = r.str(MaxTextLen)
}

// CreateCharacter adds a character to the authenticated account.
type CreateCharacter struct {
	Name string
}

func (*CreateCharacter) Tag() Tag { return TagCreateCharacter }

func (m *CreateCharacter) encode(w *writer) {
	w.str(m.Name, MaxNameLen)
}

func (m *CreateCharacter) decode(r *reader) {
	m.Name = r.str(MaxNameLen)
}

// SelectCharacter enters the world with an owned character.
type SelectCharacter struct {
	ID string
}

func (*SelectCharacter) Tag() Tag { return TagSelectCharacter }

func (m *SelectCharacter) encode(w *writer) {
	w.str(m.ID, MaxIDLen)
}

func (m *SelectCharacter) decode(r *reader) {
	m.ID = r.str(MaxIDLen)
}

// PlayerUpdate reports the client's movement intent for this tick.
type PlayerUpdate struct {
	Pos  game.Vec3
	Rot  float32
	Anim uint8
}

func (*PlayerUpdate) Tag() Tag { return TagPlayerUpdate }

func (m *PlayerUpdate) encode(w *writer) {
	w.vec3(m.Pos)
	w.f32(m.Rot)
	w.u8(m.Anim)
}

func (m *PlayerUpdate) decode(r *reader) {
	m.Pos = r.vec3()
	m.Rot = r.f32()
	m.Anim = r.u8()
}

// Attack requests a strike against an entity in the same zone.
type Attack struct {
	Target uint64
}

func (*Attack) Tag() Tag { return TagAttack }

func (m *Attack) encode(w *writer) {
	w.u64(m.Target)
}

func (m *Attack) decode(r *reader) {
	m.Target = r.u64()
}

// ChatMessage is zone-scoped chat.
type ChatMessage struct {
	Text string
}

func (*ChatMessage) Tag() Tag { return TagChatMessage }

func (m *ChatMessage) encode(w *writer) {
	w.str(m.Text, MaxChatLen)
}

func (m *ChatMessage) decode(r *reader) {
	m.Text = r.str(MaxChatLen)
}

// UseItem consumes or equips the item in an inventory slot.
type UseItem struct {
	Slot uint8
}

func (*UseItem) Tag() Tag { return TagUseItem }

func (m *UseItem) encode(w *writer) {
	w.u8(m.Slot)
}

func (m *UseItem) decode(r *reader) {
	m.Slot = r.u8()
}

// DropItem drops a slot's stack on the ground.
type DropItem struct {
	Slot uint8
}

func (*DropItem) Tag() Tag { return TagDropItem }

func (m *DropItem) encode(w *writer) {
	w.u8(m.Slot)
}

func (m *DropItem) decode(r *reader) {
	m.Slot = r.u8()
}

// PickupItem picks up a ground item entity.
type PickupItem struct {
	Target uint64
}

func (*PickupItem) Tag() Tag { return TagPickupItem }

func (m *PickupItem) encode(w *writer) {
	w.u64(m.Target)
}

func (m *PickupItem) decode(r *reader) {
	m.Target = r.u64()
}

// Heartbeat keeps an otherwise quiet session alive.
type Heartbeat struct {
	ClientTime int64
}

func (*Heartbeat) Tag() Tag { return TagHeartbeat }

func (m *Heartbeat) encode(w *writer) {
	w.i64(m.ClientTime)
}

func (m *Heartbeat) decode(r *reader) {
	m.ClientTime = r.i64()
}

// Disconnect is a graceful leave; the session is evicted immediately
// instead of waiting for the idle sweep.
type Disconnect struct{}

func (*Disconnect) Tag() Tag         { return TagDisconnect }
func (*Disconnect) encode(w *writer) {}
func (*Disconnect) decode(r *reader) {}

// Connected acknowledges a Connect with the assigned session id.
type Connected struct {
	Session uint64
}

func (*Connected) Tag() Tag { return TagConnected }

func (m *Connected) encode(w *writer) {
	w.u64(m.Session)
}

func (m *Connected) decode(r *reader) {
	m.Session = r.u64()
}

// LoginResult reports the outcome of a Login.
type LoginResult struct {
	OK      bool
	Message string
}

func (*LoginResult) Tag() Tag { return TagLoginResult }

func (m *LoginResult) encode(w *writer) {
	w.bool(m.OK)
	w.str(m.Message, MaxTextLen)
}

func (m *LoginResult) decode(r *reader) {
	m.OK = r.bool()
	m.Message = r.str(MaxTextLen)
}

// CharacterSummary is one row of the account's character list.
type CharacterSummary struct {
	ID    string
	Name  string
	Level uint16
	Zone  string
}

func (c *CharacterSummary) encode(w *writer) {
	w.str(c.ID, MaxIDLen)
	w.str(c.Name, MaxNameLen)
	w.u16(c.Level)
	w.str(c.Zone, MaxIDLen)
}

func (c *CharacterSummary) decode(r *reader) {
	c.ID = r.str(MaxIDLen)
	c.Name = r.str(MaxNameLen)
	c.Level = r.u16()
	c.Zone = r.str(MaxIDLen)
}

// CharacterList is sent after login and after character creation.
type CharacterList struct {
	Characters []CharacterSummary
}

func (*CharacterList) Tag() Tag { return TagCharacterList }

func (m *CharacterList) encode(w *writer) {
	if len(m.Characters) > MaxChars {
		w.err = ErrOversize
		return
	}
	w.u8(uint8(len(m.Characters)))
	for i := range m.Characters {
		m.Characters[i].encode(w)
	}
}

func (m *CharacterList) decode(r *reader) {
	n := int(r.u8())
	if r.err != nil {
		return
	}
	if n > MaxChars {
		r.err = ErrOversize
		return
	}
	if n > 0 {
		m.Characters = make([]CharacterSummary, n)
		for i := range m.Characters {
			m.Characters[i].decode(r)
		}
	}
}

// ZoneChange rebinds the client to a zone and entity id. Sent on spawn,
// respawn, and portal transfer.
type ZoneChange struct {
	Zone   string
	Entity uint64
	Pos    game.Vec3
	Rot    float32
}

func (*ZoneChange) Tag() Tag { return TagZoneChange }

func (m *ZoneChange) encode(w *writer) {
	w.str(m.Zone, MaxIDLen)
	w.u64(m.Entity)
	w.vec3(m.Pos)
	w.f32(m.Rot)
}

func (m *ZoneChange) decode(r *reader) {
	m.Zone = r.str(MaxIDLen)
	m.Entity = r.u64()
	m.Pos = r.vec3()
	m.Rot = r.f32()
}

// EntityState is one entity's row in a world snapshot. Name carries the
// character name for players, the archetype key for enemies, the template
// key for NPCs, and the item key for ground items.
type EntityState struct {
	ID        uint64
	Kind      uint8
	Pos       game.Vec3
	Rot       float32
	Health    int32
	MaxHealth int32
	Level     uint16
	Anim      uint8
	Name      string
	Qty       uint16
}

func (e *EntityState) encode(w *writer) {
	w.u64(e.ID)
	w.u8(e.Kind)
	w.vec3(e.Pos)
	w.f32(e.Rot)
	w.i32(e.Health)
	w.i32(e.MaxHealth)
	w.u16(e.Level)
	w.u8(e.Anim)
	w.str(e.Name, MaxIDLen)
	w.u16(e.Qty)
}

func (e *EntityState) decode(r *reader) {
	e.ID = r.u64()
	e.Kind = r.u8()
	e.Pos = r.vec3()
	e.Rot = r.f32()
	e.Health = r.i32()
	e.MaxHealth = r.i32()
	e.Level = r.u16()
	e.Anim = r.u8()
	e.Name = r.str(MaxIDLen)
	e.Qty = r.u16()
}

// WorldState is the full snapshot of one zone for one tick. Clients drop
// snapshots older than the newest tick they have seen.
type WorldState struct {
	TickNum  uint64
	Entities []EntityState
}

func (*WorldState) Tag() Tag { return TagWorldState }

func (m *WorldState) encode(w *writer) {
	if len(m.Entities) > MaxEntities {
		w.err = ErrOversize
		return
	}
	w.u64(m.TickNum)
	w.u16(uint16(len(m.Entities)))
	for i := range m.Entities {
		m.Entities[i].encode(w)
	}
}

func (m *WorldState) decode(r *reader) {
	m.TickNum = r.u64()
	n := int(r.u16())
	if r.err != nil {
		return
	}
	if n > MaxEntities {
		r.err = ErrOversize
		return
	}
	if n > 0 {
		m.Entities = make([]EntityState, n)
		for i := range m.Entities {
			m.Entities[i].decode(r)
		}
	}
}

// DamageEvent reports one landed hit.
type DamageEvent struct {
	Attacker uint64
	Target   uint64
	Amount   int32
	Crit     bool
}

func (*DamageEvent) Tag() Tag { return TagDamageEvent }

func (m *DamageEvent) encode(w *writer) {
	w.u64(m.Attacker)
	w.u64(m.Target)
	w.i32(m.Amount)
	w.bool(m.Crit)
}

func (m *DamageEvent) decode(r *reader) {
	m.Attacker = r.u64()
	m.Target = r.u64()
	m.Amount = r.i32()
	m.Crit = r.bool()
}

// ChatBroadcast delivers a chat line to everyone in the zone.
type ChatBroadcast struct {
	Sender string
	Text   string
}

func (*ChatBroadcast) Tag() Tag { return TagChatBroadcast }

func (m *ChatBroadcast) encode(w *writer) {
	w.str(m.Sender, MaxNameLen)
	w.str(m.Text, MaxChatLen)
}

func (m *ChatBroadcast) decode(r *reader) {
	m.Sender = r.str(MaxNameLen)
	m.Text = r.str(MaxChatLen)
}

// EntityDespawned removes an entity from the client's view.
type EntityDespawned struct {
	Entity uint64
}

func (*EntityDespawned) Tag() Tag { return TagEntityDespawned }

func (m *EntityDespawned) encode(w *writer) {
	w.u64(m.Entity)
}

func (m *EntityDespawned) decode(r *reader) {
	m.Entity = r.u64()
}

// TimeSync anchors the client's sky to server time and world coordinates.
type TimeSync struct {
	Timestamp int64
	Latitude  float64
	Longitude float64
}

func (*TimeSync) Tag() Tag { return TagTimeSync }

func (m *TimeSync) encode(w *writer) {
	w.i64(m.Timestamp)
	w.f64(m.Latitude)
	w.f64(m.Longitude)
}

func (m *TimeSync) decode(r *reader) {
	m.Timestamp = r.i64()
	m.Latitude = r.f64()
	m.Longitude = r.f64()
}

// Notice is a server feedback line shown in the client's log.
type Notice struct {
	Text string
}

func (*Notice) Tag() Tag { return TagNotice }

func (m *Notice) encode(w *writer) {
	w.str(m.Text, MaxTextLen)
}

func (m *Notice) decode(r *reader) {
	m.Text = r.str(MaxTextLen)
}

// SlotState is one inventory slot on the wire.
type SlotState struct {
	Item string
	Qty  uint16
}

// InventoryUpdate is the full inventory, sent on entry and after any item
// operation. Weapon is the equipped slot index, -1 when bare-handed.
type InventoryUpdate struct {
	Slots  []SlotState
	Weapon int8
}

func (*InventoryUpdate) Tag() Tag { return TagInventoryUpdate }

func (m *InventoryUpdate) encode(w *writer) {
	if len(m.Slots) > MaxSlots {
		w.err = ErrOversize
		return
	}
	w.u8(uint8(len(m.Slots)))
	for _, s := range m.Slots {
		w.str(s.Item, MaxIDLen)
		w.u16(s.Qty)
	}
	w.i8(m.Weapon)
}

func (m *InventoryUpdate) decode(r *reader) {
	n := int(r.u8())
	if r.err != nil {
		return
	}
	if n > MaxSlots {
		r.err = ErrOversize
		return
	}
	if n > 0 {
		m.Slots = make([]SlotState, n)
		for i := range m.Slots {
			m.Slots[i].Item = r.str(MaxIDLen)
			m.Slots[i].Qty = r.u16()
		}
	}
	m.Weapon = r.i8()
}

// CharacterStatus carries the private stats the zone snapshot omits.
type CharacterStatus struct {
	Level     uint16
	XP        int64
	Health    int32
	MaxHealth int32
	Mana      int32
	MaxMana   int32
}

func (*CharacterStatus) Tag() Tag { return TagCharacterStatus }

func (m *CharacterStatus) encode(w *writer) {
	w.u16(m.Level)
	w.i64(m.XP)
	w.i32(m.Health)
	w.i32(m.MaxHealth)
	w.i32(m.Mana)
	w.i32(m.MaxMana)
}

func (m *CharacterStatus) decode(r *reader) {
	m.Level = r.u16()
	m.XP = r.i64()
	m.Health = r.i32()
	m.MaxHealth = r.i32()
	m.Mana = r.i32()
	m.MaxMana = r.i32()
}
