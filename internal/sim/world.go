package sim

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"net/netip"
	"strconv"
	"time"

	"github.com/pixil98/go-realm/internal/game"
	"github.com/pixil98/go-realm/internal/player"
	"github.com/pixil98/go-realm/internal/proto"
	"github.com/pixil98/go-realm/internal/sessions"
	"github.com/pixil98/go-realm/internal/zones"
)

// Sender delivers messages to client addresses. The UDP listener
// implements it; sends must never block the tick.
type Sender interface {
	Send(addr netip.AddrPort, m proto.Message)
	SendBytes(addr netip.AddrPort, b []byte)
}

// Bus carries zone chat and server-wide notices through the message
// broker. Publishes run on the simulation goroutine; subscription
// callbacks run on broker goroutines and may only push into the inbox.
type Bus interface {
	Ready() bool
	PublishChat(zone, sender, text string) error
	PublishNotice(text string) error
	SubscribeChat(fn func(zone, sender, text string)) error
	SubscribeNotice(fn func(text string)) error
}

// Persister is the asynchronous account and character backend. Every
// method returns immediately; outcomes arrive through the inbox.
type Persister interface {
	Authenticate(session uint64, username, password string)
	CreateCharacter(session uint64, account, name string)
	Load(session uint64, account, id string)
	Save(id string, rec *player.CharacterRecord, tick uint64)
	FinishSave(id string)
	PendingSaves() int
	Drain(ctx context.Context) error
}

// spawnSlot tracks one enemy spawn definition's live population. Deaths
// append a refill tick to due; the timer phase pops them.
type spawnSlot struct {
	def   *zones.EnemySpawn
	arch  *zones.Archetype
	every uint64
	due   []uint64
}

// zoneState pairs a zone definition with its live entities and the events
// queued for this tick's broadcast.
type zoneState struct {
	id     string
	def    *zones.Zone
	store  *game.Store
	slots  []*spawnSlot
	events []proto.Message
}

// attackOrder is a queued player attack awaiting the combat phase.
// Receipt order within a tick is preserved.
type attackOrder struct {
	session  uint64
	zone     string
	attacker game.ID
	target   game.ID
}

// combatLockout is how long after taking or dealing damage a player
// counts as in combat, which pauses regeneration.
const combatLockout = 5 * time.Second

// World is the authoritative simulation. A single goroutine, driven by
// the tick scheduler, calls Tick; nothing here is safe to touch from
// anywhere else.
type World struct {
	params  Params
	reg     *zones.Registry
	inbox   *Inbox
	sender  Sender
	bus     Bus
	persist Persister

	sessions *sessions.Table
	zones    map[string]*zoneState
	order    []string

	clock      *game.Clock
	combatRNG  *rand.Rand
	lootRNG    *rand.Rand
	scatterRNG *rand.Rand

	tick    uint64
	tickDT  float32
	attacks []attackOrder

	chatSubbed   bool
	noticeSubbed bool

	lastTick time.Duration
	avgTick  time.Duration
	drops    uint64

	corpseTicks      uint64
	respawnTicks     uint64
	itemTicks        uint64
	regenTicks       uint64
	combatLockTicks  uint64
	playerSwingTicks uint64
	checkpointTicks  uint64
	syncTicks        uint64
}

func NewWorld(p Params, reg *zones.Registry, inbox *Inbox, sender Sender, bus Bus, persist Persister) (*World, error) {
	if p.TickInterval <= 0 {
		p.TickInterval = DefaultParams().TickInterval
	}
	if p.BroadcastWorkers <= 0 {
		p.BroadcastWorkers = DefaultParams().BroadcastWorkers
	}

	seed := p.Seed
	if seed == "" {
		seed = strconv.FormatUint(rand.Uint64(), 16)
		slog.Info("generated world seed", "seed", seed)
	}
	rng := NewRand(seed)

	w := &World{
		params:     p,
		reg:        reg,
		inbox:      inbox,
		sender:     sender,
		bus:        bus,
		persist:    persist,
		sessions:   sessions.NewTable(),
		zones:      make(map[string]*zoneState),
		clock:      game.NewClock(p.Latitude, p.Longitude),
		combatRNG:  rng.Stream("combat"),
		lootRNG:    rng.Stream("loot"),
		scatterRNG: rng.Stream("scatter"),
	}

	w.tickDT = float32(p.TickInterval.Seconds())
	w.corpseTicks = w.ticks(p.CorpseGrace)
	w.respawnTicks = w.ticks(p.RespawnDelay)
	w.itemTicks = w.ticks(p.ItemTTL)
	w.regenTicks = w.ticks(time.Second)
	w.combatLockTicks = w.ticks(combatLockout)
	w.playerSwingTicks = w.ticks(p.Combat.PlayerAttackInterval)
	w.checkpointTicks = w.cadence(p.CheckpointInterval)
	w.syncTicks = w.cadence(p.SyncInterval)

	for _, id := range reg.ZoneIDs() {
		def := reg.Zone(id)
		zs := &zoneState{id: id, def: def, store: game.NewStore(id)}

		for si := range def.EnemySpawns {
			sp := &def.EnemySpawns[si]
			zs.slots = append(zs.slots, &spawnSlot{
				def:   sp,
				arch:  sp.Archetype.Get(),
				every: w.ticks(sp.RespawnInterval()),
			})
			for i := 0; i < sp.Count; i++ {
				w.spawnEnemy(zs, si)
			}
		}

		for ni := range def.NPCSpawns {
			ns := &def.NPCSpawns[ni]
			tpl := ns.Template.Get()
			greeting := ""
			if tpl.Greeting != "" {
				greeting = tpl.Name + ": " + tpl.Greeting
			}
			zs.store.SpawnNPC(&game.NPC{
				Entity: game.Entity{
					Name:      ns.Template.Key(),
					Pos:       ns.Pos,
					Rot:       ns.Rot,
					Health:    1,
					MaxHealth: 1,
					Level:     1,
				},
				Template: ns.Template.Key(),
				Greeting: greeting,
			})
		}

		w.zones[id] = zs
		w.order = append(w.order, id)
	}

	if _, ok := w.zones[p.DefaultZone]; !ok {
		return nil, fmt.Errorf("default zone %q is not defined", p.DefaultZone)
	}

	slog.Info("world ready", "zones", len(w.order), "default", p.DefaultZone)
	return w, nil
}

// ticks converts a duration to a tick count, rounding down but never
// below one tick.
func (w *World) ticks(d time.Duration) uint64 {
	n := uint64(d / w.params.TickInterval)
	if n < 1 {
		n = 1
	}
	return n
}

// cadence is ticks for recurring work; a non-positive duration disables
// it entirely.
func (w *World) cadence(d time.Duration) uint64 {
	if d <= 0 {
		return 0
	}
	return w.ticks(d)
}

// Tick advances the world by one step: drain inputs, sweep idle
// sessions, simulate each zone, broadcast. The driver calls it on every
// scheduler tick.
func (w *World) Tick(ctx context.Context) error {
	start := time.Now()
	w.tick++

	w.ensureSubscribed()

	inputs, dropped := w.inbox.Drain()
	if dropped > 0 {
		w.drops += dropped
		slog.Warn("inbox over capacity", "dropped", dropped)
	}
	for _, in := range inputs {
		w.apply(in)
	}

	w.sweepIdle(start)

	for _, id := range w.order {
		w.stepZone(w.zones[id])
	}
	w.attacks = w.attacks[:0]

	w.broadcast()

	if w.syncTicks > 0 && w.tick%w.syncTicks == 0 {
		w.syncClocks()
	}
	if w.checkpointTicks > 0 && w.tick%w.checkpointTicks == 0 {
		w.checkpoint(false)
	}

	w.lastTick = time.Since(start)
	if w.avgTick == 0 {
		w.avgTick = w.lastTick
	} else {
		w.avgTick += (w.lastTick - w.avgTick) / 16
	}
	return nil
}

// Stop checkpoints every playing character and waits for the
// persistence gateway to drain. The driver calls it after the ticker
// stops, on the loop goroutine, so no tick runs concurrently.
func (w *World) Stop(ctx context.Context) error {
	n := w.checkpoint(true)
	slog.Info("world stopping", "tick", w.tick, "saves", n)
	return w.persist.Drain(ctx)
}

// stepZone runs one zone's simulation phases in order: enemy AI, queued
// player attacks, deaths, timers, regeneration.
func (w *World) stepZone(zs *zoneState) {
	for _, e := range zs.store.Enemies() {
		w.stepEnemyAI(zs, e)
	}
	for i := range w.attacks {
		if w.attacks[i].zone == zs.id {
			w.execAttack(zs, &w.attacks[i])
		}
	}
	w.settleDeaths(zs)
	w.runTimers(zs)
	if w.tick%w.regenTicks == 0 {
		w.regen(zs)
	}
}

func (w *World) ensureSubscribed() {
	if w.bus == nil || (w.chatSubbed && w.noticeSubbed) || !w.bus.Ready() {
		return
	}
	if !w.chatSubbed {
		err := w.bus.SubscribeChat(func(zone, sender, text string) {
			w.inbox.Push(ChatDelivery{Zone: zone, Sender: sender, Text: text})
		})
		if err != nil {
			slog.Warn("subscribing to chat", "error", err)
			return
		}
		w.chatSubbed = true
	}
	if !w.noticeSubbed {
		err := w.bus.SubscribeNotice(func(text string) {
			w.inbox.Push(NoticeDelivery{Text: text})
		})
		if err != nil {
			slog.Warn("subscribing to notices", "error", err)
			return
		}
		w.noticeSubbed = true
	}
	slog.Info("message bus subscriptions ready")
}

// sweepIdle evicts sessions idle past the timeout. Sweep removes them
// from the table, so each session is cleaned up exactly once.
func (w *World) sweepIdle(now time.Time) {
	for _, s := range w.sessions.Sweep(now, w.params.SessionTimeout) {
		w.cleanupSession(s, "timeout")
	}
}

// evict removes a live session immediately (disconnect, admin kick).
func (w *World) evict(s *sessions.Session, reason string) {
	if !w.sessions.Remove(s.ID) {
		return
	}
	w.cleanupSession(s, reason)
}

// cleanupSession saves and despawns whatever a removed session leaves in
// the world. The session is already out of the table.
func (w *World) cleanupSession(s *sessions.Session, reason string) {
	if s.State == sessions.StatePlaying {
		if zs := w.zones[s.Zone]; zs != nil {
			if p := zs.store.Player(s.Entity); p != nil {
				w.savePlayer(zs.id, p)
				zs.store.Despawn(p.ID)
				zs.events = append(zs.events, &proto.EntityDespawned{Entity: uint64(p.ID)})
			}
		}
	}
	slog.Info("session closed", "session", s.ID, "account", s.Account, "reason", reason)
}

// savePlayer snapshots a player into a character record and hands it to
// the gateway. The copy is taken now; later mutations don't leak into
// the pending write.
func (w *World) savePlayer(zone string, p *game.Player) {
	rec := &player.CharacterRecord{
		Account:   p.Account,
		Name:      p.Name,
		Level:     p.Level,
		XP:        p.XP,
		Health:    p.Health,
		Mana:      p.Mana,
		Zone:      zone,
		Pos:       p.Pos,
		Rot:       p.Rot,
		Weapon:    p.Weapon,
		Inventory: append([]game.ItemStack{}, p.Inventory[:]...),
	}
	w.persist.Save(p.CharacterID, rec, w.tick)
	p.Dirty = false
}

// checkpoint saves playing characters, all of them when force is set and
// only dirty ones otherwise. Returns the number dispatched.
func (w *World) checkpoint(force bool) int {
	n := 0
	w.sessions.ForEach(func(s *sessions.Session) {
		if s.State != sessions.StatePlaying {
			return
		}
		zs := w.zones[s.Zone]
		if zs == nil {
			return
		}
		p := zs.store.Player(s.Entity)
		if p == nil {
			return
		}
		if force || p.Dirty {
			w.savePlayer(zs.id, p)
			n++
		}
	})
	return n
}

// markDirty flags a playing character so the next checkpoint retries its
// save. Used when an async save reports failure.
func (w *World) markDirty(characterID string) {
	w.sessions.ForEach(func(s *sessions.Session) {
		if s.State != sessions.StatePlaying || s.CharacterID != characterID {
			return
		}
		if zs := w.zones[s.Zone]; zs != nil {
			if p := zs.store.Player(s.Entity); p != nil {
				p.Dirty = true
			}
		}
	})
}

func (w *World) syncClocks() {
	lat, lon := w.clock.Coords()
	m := &proto.TimeSync{Timestamp: w.clock.Now(), Latitude: lat, Longitude: lon}
	w.sessions.ForEach(func(s *sessions.Session) {
		if s.State == sessions.StatePlaying {
			w.sender.Send(s.Addr, m)
		}
	})
}

func (w *World) sendTimeSync(s *sessions.Session) {
	lat, lon := w.clock.Coords()
	w.sender.Send(s.Addr, &proto.TimeSync{Timestamp: w.clock.Now(), Latitude: lat, Longitude: lon})
}

func (w *World) notify(s *sessions.Session, text string) {
	w.sender.Send(s.Addr, &proto.Notice{Text: text})
}

// spawnEnemy creates a fresh enemy for a spawn slot. Respawns go through
// here too, so a replacement is always a new entity with a new id.
func (w *World) spawnEnemy(zs *zoneState, si int) *game.Enemy {
	slot := zs.slots[si]
	arch := slot.arch

	aggro := arch.AggroRange
	if aggro <= 0 {
		aggro = w.params.Combat.AggroRange
	}
	leash := arch.LeashRange
	if leash <= 0 {
		leash = w.params.Combat.LeashRange
	}

	pos := w.scatter(zs.def, slot.def.Pos, slot.def.Radius)
	return zs.store.SpawnEnemy(&game.Enemy{
		Entity: game.Entity{
			Name:      slot.def.Archetype.Key(),
			Pos:       pos,
			Health:    arch.MaxHealth,
			MaxHealth: arch.MaxHealth,
			Level:     arch.Level,
		},
		Archetype:   slot.def.Archetype.Key(),
		State:       game.EnemyIdle,
		Origin:      pos,
		Attack:      arch.Attack,
		Defense:     arch.Defense,
		MoveSpeed:   arch.MoveSpeed,
		AggroRange:  aggro,
		LeashRange:  leash,
		AttackEvery: w.ticks(arch.SwingInterval()),
		XPReward:    arch.XPReward,
		SpawnSlot:   si,
	})
}

// scatter picks a point within radius of center, rejecting blocked or
// out-of-bounds points. After a few tries it settles for the center.
func (w *World) scatter(def *zones.Zone, center game.Vec3, radius float32) game.Vec3 {
	if radius <= 0 {
		return center
	}
	for try := 0; try < 4; try++ {
		ang := w.scatterRNG.Float64() * 2 * math.Pi
		r := float64(radius) * math.Sqrt(w.scatterRNG.Float64())
		p := game.Vec3{
			X: center.X + float32(r*math.Cos(ang)),
			Y: center.Y,
			Z: center.Z + float32(r*math.Sin(ang)),
		}
		if def.Bounds.Contains(p) && !def.Blocked(p) {
			return p
		}
	}
	return center
}
