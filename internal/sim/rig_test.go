package sim

import (
	"context"
	"fmt"
	"net/netip"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/pixil98/go-realm/internal/game"
	"github.com/pixil98/go-realm/internal/player"
	"github.com/pixil98/go-realm/internal/proto"
	"github.com/pixil98/go-realm/internal/sessions"
	"github.com/pixil98/go-realm/internal/storage"
	"github.com/pixil98/go-realm/internal/zones"
)

type sentMsg struct {
	addr netip.AddrPort
	msg  proto.Message
}

// fakeSender records every outbound message. SendBytes decodes the
// payload back into a typed message so tests assert on one shape.
type fakeSender struct {
	mu   sync.Mutex
	msgs []sentMsg
}

func (f *fakeSender) Send(addr netip.AddrPort, m proto.Message) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.msgs = append(f.msgs, sentMsg{addr, m})
}

func (f *fakeSender) SendBytes(addr netip.AddrPort, b []byte) {
	m, _ := proto.Decode(b)
	f.Send(addr, m)
}

func (f *fakeSender) reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.msgs = nil
}

func msgsTo[T proto.Message](f *fakeSender, addr netip.AddrPort) []T {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []T
	for _, s := range f.msgs {
		if s.addr != addr {
			continue
		}
		if m, ok := s.msg.(T); ok {
			out = append(out, m)
		}
	}
	return out
}

func lastMsg[T proto.Message](f *fakeSender, addr netip.AddrPort) (T, bool) {
	all := msgsTo[T](f, addr)
	if len(all) == 0 {
		var zero T
		return zero, false
	}
	return all[len(all)-1], true
}

type chatLine struct {
	zone, sender, text string
}

// fakeBus loops published messages straight back through the
// subscription callbacks, the way the broker would.
type fakeBus struct {
	ready    bool
	chat     []chatLine
	notices  []string
	chatFn   func(zone, sender, text string)
	noticeFn func(text string)
}

func (f *fakeBus) Ready() bool { return f.ready }

func (f *fakeBus) PublishChat(zone, sender, text string) error {
	f.chat = append(f.chat, chatLine{zone, sender, text})
	if f.chatFn != nil {
		f.chatFn(zone, sender, text)
	}
	return nil
}

func (f *fakeBus) PublishNotice(text string) error {
	f.notices = append(f.notices, text)
	if f.noticeFn != nil {
		f.noticeFn(text)
	}
	return nil
}

func (f *fakeBus) SubscribeChat(fn func(zone, sender, text string)) error {
	f.chatFn = fn
	return nil
}

func (f *fakeBus) SubscribeNotice(fn func(text string)) error {
	f.noticeFn = fn
	return nil
}

type fakeSave struct {
	id   string
	tick uint64
	rec  *player.CharacterRecord
}

// fakePersist answers persistence calls synchronously by pushing the
// completion into the inbox, so it lands on the next tick.
type fakePersist struct {
	inbox *Inbox
	chars map[string]*player.CharacterRecord
	saves []fakeSave
}

func (f *fakePersist) Authenticate(session uint64, username, password string) {
	f.inbox.Push(AuthDone{Session: session, Account: strings.ToLower(username), Chars: f.infos()})
}

func (f *fakePersist) CreateCharacter(session uint64, account, name string) {
	id := fmt.Sprintf("char-%d", len(f.chars)+1)
	f.chars[id] = &player.CharacterRecord{Account: account, Name: name, Level: 1}
	f.inbox.Push(CharacterCreated{Session: session, Chars: f.infos()})
}

func (f *fakePersist) Load(session uint64, account, id string) {
	rec, ok := f.chars[id]
	if !ok {
		f.inbox.Push(CharacterLoaded{Session: session, ID: id, Err: player.ErrCharacterNotFound})
		return
	}
	f.inbox.Push(CharacterLoaded{Session: session, ID: id, Char: rec})
}

func (f *fakePersist) Save(id string, rec *player.CharacterRecord, tick uint64) {
	f.saves = append(f.saves, fakeSave{id: id, tick: tick, rec: rec})
	f.inbox.Push(SaveDone{CharacterID: id, Tick: tick})
}

func (f *fakePersist) FinishSave(id string) {}

func (f *fakePersist) PendingSaves() int { return 0 }

func (f *fakePersist) Drain(ctx context.Context) error { return nil }

func (f *fakePersist) infos() []player.CharacterInfo {
	ids := make([]string, 0, len(f.chars))
	for id := range f.chars {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]player.CharacterInfo, 0, len(ids))
	for _, id := range ids {
		rec := f.chars[id]
		out = append(out, player.CharacterInfo{ID: id, Name: rec.Name, Level: rec.Level, Zone: rec.Zone})
	}
	return out
}

func mustSave[T storage.ValidatingSpec](t *testing.T, st storage.Storer[T], id string, spec T) {
	t.Helper()
	if err := st.Save(id, spec); err != nil {
		t.Fatalf("saving %s: %v", id, err)
	}
}

func emptyStore[T storage.ValidatingSpec](t *testing.T) storage.Storer[T] {
	t.Helper()
	st, err := storage.NewFileStore[T](t.TempDir())
	if err != nil {
		t.Fatalf("creating store: %v", err)
	}
	return st
}

// testRegistry loads a fixed bestiary plus the given zone definitions.
// The wolf hits a level-3 player for exactly 12 before crits.
func testRegistry(t *testing.T, zoneDefs map[string]*zones.Zone) *zones.Registry {
	t.Helper()

	reg := &zones.Registry{
		Zones:      emptyStore[*zones.Zone](t),
		Archetypes: emptyStore[*zones.Archetype](t),
		Items:      emptyStore[*zones.Item](t),
		NPCs:       emptyStore[*zones.NPCTemplate](t),
	}

	mustSave(t, reg.Archetypes, "wolf", &zones.Archetype{
		Name:           "Wolf",
		Level:          3,
		MaxHealth:      60,
		Attack:         20,
		Defense:        5,
		MoveSpeed:      4,
		AttackInterval: "1s",
		XPReward:       120,
	})
	mustSave(t, reg.Archetypes, "slime", &zones.Archetype{
		Name:           "Slime",
		Level:          1,
		MaxHealth:      10,
		Attack:         1,
		Defense:        0,
		MoveSpeed:      2,
		AttackInterval: "10s",
	})
	mustSave(t, reg.Archetypes, "hoarder", &zones.Archetype{
		Name:           "Hoarder",
		Level:          2,
		MaxHealth:      20,
		Attack:         4,
		Defense:        1,
		MoveSpeed:      3,
		AttackInterval: "2s",
		XPReward:       80,
		Loot: []zones.LootEntry{{
			Item:   storage.NewSmartIdentifier[*zones.Item]("healing-potion"),
			Chance: 1,
			Qty:    2,
		}},
	})
	mustSave(t, reg.Items, "healing-potion", &zones.Item{
		Name: "Healing Potion", Kind: zones.ItemPotion, Heal: 25, StackMax: 5,
	})
	mustSave(t, reg.Items, "rusty-sword", &zones.Item{
		Name: "Rusty Sword", Kind: zones.ItemWeapon, Attack: 5, StackMax: 1,
	})
	mustSave(t, reg.Items, "bone", &zones.Item{
		Name: "Bleached Bone", Kind: zones.ItemJunk, StackMax: 10,
	})
	mustSave(t, reg.NPCs, "greeter", &zones.NPCTemplate{
		Name: "Greeter", Greeting: "Welcome to the meadow.",
	})

	for id, z := range zoneDefs {
		mustSave(t, reg.Zones, id, z)
	}

	if err := reg.Resolve(); err != nil {
		t.Fatalf("resolving registry: %v", err)
	}
	return reg
}

// testZone is an open 200x200 field with one spawn point at the origin.
func testZone() *zones.Zone {
	return &zones.Zone{
		Name:        "Meadow",
		Bounds:      zones.AABB{MinX: -100, MaxX: 100, MinZ: -100, MaxZ: 100},
		SpawnPoints: []zones.SpawnPoint{{Pos: game.Vec3{}}},
	}
}

func enemySpawn(arch string, pos game.Vec3, count int) zones.EnemySpawn {
	return zones.EnemySpawn{
		Archetype: storage.NewSmartIdentifier[*zones.Archetype](arch),
		Pos:       pos,
		Count:     count,
		Respawn:   "1s",
	}
}

func testParams() Params {
	p := DefaultParams()
	p.DefaultZone = "meadow"
	p.Seed = "test-seed"
	p.SessionTimeout = time.Minute
	p.CheckpointInterval = 0
	p.SyncInterval = 0
	p.BroadcastWorkers = 2
	return p
}

type testRig struct {
	w       *World
	inbox   *Inbox
	sender  *fakeSender
	bus     *fakeBus
	persist *fakePersist
}

func newTestRig(t *testing.T, zoneDefs map[string]*zones.Zone, mutate func(*Params)) *testRig {
	t.Helper()

	if zoneDefs == nil {
		zoneDefs = map[string]*zones.Zone{"meadow": testZone()}
	}
	reg := testRegistry(t, zoneDefs)

	p := testParams()
	if mutate != nil {
		mutate(&p)
	}

	inbox := NewInbox(0)
	sender := &fakeSender{}
	bus := &fakeBus{ready: true}
	persist := &fakePersist{inbox: inbox, chars: map[string]*player.CharacterRecord{}}

	w, err := NewWorld(p, reg, inbox, sender, bus, persist)
	if err != nil {
		t.Fatalf("creating world: %v", err)
	}
	return &testRig{w: w, inbox: inbox, sender: sender, bus: bus, persist: persist}
}

func (r *testRig) tick(t *testing.T, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		if err := r.w.Tick(context.Background()); err != nil {
			t.Fatalf("tick: %v", err)
		}
	}
}

func (r *testRig) zone(t *testing.T, id string) *zoneState {
	t.Helper()
	zs := r.w.zones[id]
	if zs == nil {
		t.Fatalf("zone %s not found", id)
	}
	return zs
}

// enter puts a level-3 character straight into the world, skipping the
// login handshake. Level 3 gives defense 8 against the wolf's 20 attack.
func (r *testRig) enter(t *testing.T, addr netip.AddrPort, name, zone string, pos game.Vec3) (*sessions.Session, *game.Player) {
	t.Helper()

	account := strings.ToLower(name)
	s := r.w.sessions.Register(addr, time.Now())
	if err := r.w.sessions.Authenticate(s, account); err != nil {
		t.Fatalf("authenticating %s: %v", account, err)
	}

	rec := &player.CharacterRecord{
		Account: account,
		Name:    name,
		Level:   3,
		XP:      game.ExpForLevel(3),
		Health:  game.PlayerMaxHealth(3),
		Mana:    game.PlayerMaxMana(3),
		Zone:    zone,
		Pos:     pos,
		Weapon:  -1,
	}
	r.w.enterWorld(s, "char-"+account, rec)

	zs := r.w.zones[s.Zone]
	p := zs.store.Player(s.Entity)
	if p == nil {
		t.Fatalf("player %s did not spawn", name)
	}
	return s, p
}
