package game

import "sort"

// Store holds every entity in one zone. It is owned by the simulation
// goroutine and accessed only from it, so it carries no locks.
type Store struct {
	zone   string
	nextID ID

	players map[ID]*Player
	enemies map[ID]*Enemy
	npcs    map[ID]*NPC
	items   map[ID]*GroundItem
}

func NewStore(zone string) *Store {
	return &Store{
		zone:    zone,
		nextID:  1,
		players: make(map[ID]*Player),
		enemies: make(map[ID]*Enemy),
		npcs:    make(map[ID]*NPC),
		items:   make(map[ID]*GroundItem),
	}
}

func (s *Store) Zone() string { return s.zone }

// allocID hands out the next entity id. The counter only moves forward;
// despawned ids are never reissued.
func (s *Store) allocID() ID {
	id := s.nextID
	s.nextID++
	return id
}

// NextID reports the id the next spawn will receive.
func (s *Store) NextID() ID { return s.nextID }

// SpawnPlayer assigns p a fresh id and inserts it.
func (s *Store) SpawnPlayer(p *Player) *Player {
	p.ID = s.allocID()
	p.Kind = KindPlayer
	s.players[p.ID] = p
	return p
}

// SpawnEnemy assigns e a fresh id and inserts it.
func (s *Store) SpawnEnemy(e *Enemy) *Enemy {
	e.ID = s.allocID()
	e.Kind = KindEnemy
	s.enemies[e.ID] = e
	return e
}

// SpawnNPC assigns n a fresh id and inserts it.
func (s *Store) SpawnNPC(n *NPC) *NPC {
	n.ID = s.allocID()
	n.Kind = KindNPC
	s.npcs[n.ID] = n
	return n
}

// SpawnItem assigns it a fresh id and inserts it.
func (s *Store) SpawnItem(it *GroundItem) *GroundItem {
	it.ID = s.allocID()
	it.Kind = KindItem
	s.items[it.ID] = it
	return it
}

func (s *Store) Player(id ID) *Player { return s.players[id] }
func (s *Store) Enemy(id ID) *Enemy { return s.enemies[id] }
func (s *Store) NPC(id ID) *NPC { return s.npcs[id] }
func (s *Store) Item(id ID) *GroundItem { return s.items[id] }

// Any returns the base entity for an id of any kind.
func (s *Store) Any(id ID) (*Entity, bool) {
	if p, ok := s.players[id]; ok {
		return &p.Entity, true
	}
	if e, ok := s.enemies[id]; ok {
		return &e.Entity, true
	}
	if n, ok := s.npcs[id]; ok {
		return &n.Entity, true
	}
	if it, ok := s.items[id]; ok {
		return &it.Entity, true
	}
	return nil, false
}

// Combatant returns the id as something that can fight, or nil for
// non-combat kinds and unknown ids.
func (s *Store) Combatant(id ID) (Combatant, bool) {
	if p, ok := s.players[id]; ok {
		return p, true
	}
	if e, ok := s.enemies[id]; ok {
		return e, true
	}
	return nil, false
}

// Despawn removes an entity of any kind. It reports whether the id was
// live, making repeated despawns harmless.
func (s *Store) Despawn(id ID) bool {
	if _, ok := s.players[id]; ok {
		delete(s.players, id)
		return true
	}
	if _, ok := s.enemies[id]; ok {
		delete(s.enemies, id)
		return true
	}
	if _, ok := s.npcs[id]; ok {
		delete(s.npcs, id)
		return true
	}
	if _, ok := s.items[id]; ok {
		delete(s.items, id)
		return true
	}
	return false
}

// Players returns the zone's players sorted by id. Sorted iteration keeps
// the simulation deterministic for a fixed seed.
func (s *Store) Players() []*Player {
	out := make([]*Player, 0, len(s.players))
	for _, p := range s.players {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Enemies returns the zone's enemies sorted by id.
func (s *Store) Enemies() []*Enemy {
	out := make([]*Enemy, 0, len(s.enemies))
	for _, e := range s.enemies {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// NPCs returns the zone's NPCs sorted by id.
func (s *Store) NPCs() []*NPC {
	out := make([]*NPC, 0, len(s.npcs))
	for _, n := range s.npcs {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Items returns the zone's ground items sorted by id.
func (s *Store) Items() []*GroundItem {
	out := make([]*GroundItem, 0, len(s.items))
	for _, it := range s.items {
		out = append(out, it)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *Store) Len() int {
	return len(s.players) + len(s.enemies) + len(s.npcs) + len(s.items)
}
