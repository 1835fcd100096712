package sim

import (
	"fmt"

	"github.com/pixil98/go-realm/internal/game"
	"github.com/pixil98/go-realm/internal/proto"
	"github.com/pixil98/go-realm/internal/sessions"
)

// execAttack runs one queued player attack. The attacker was alive at
// receipt; everything is re-checked here because the AI phase has run
// since. Only enemies are attackable.
func (w *World) execAttack(zs *zoneState, a *attackOrder) {
	s := w.sessions.Get(a.session)
	if s == nil || s.State != sessions.StatePlaying || s.Zone != zs.id || s.Entity != a.attacker {
		return
	}
	p := zs.store.Player(a.attacker)
	if p == nil {
		return
	}
	if !p.Alive() {
		w.notify(s, userMessage(game.ErrAttackerDead))
		return
	}
	if p.LastAttack != 0 && w.tick < p.LastAttack+w.playerSwingTicks {
		w.notify(s, "You are not ready to attack again.")
		return
	}

	e := zs.store.Enemy(a.target)
	if e == nil {
		if _, ok := zs.store.Any(a.target); ok {
			w.notify(s, "You cannot attack that.")
		} else {
			w.notify(s, userMessage(game.ErrEntityNotFound))
		}
		return
	}
	if !e.Alive() {
		w.notify(s, userMessage(game.ErrTargetDead))
		return
	}
	reach := w.params.Combat.AttackRange
	if p.Pos.DistSq(e.Pos) > reach*reach {
		w.notify(s, userMessage(game.ErrOutOfRange))
		return
	}

	p.LastAttack = w.tick
	p.Anim = game.AnimAttack
	w.resolve(zs, p, e)

	if e.Alive() {
		// Idle enemies fight back; everything else keeps its plan.
		if e.State == game.EnemyIdle {
			e.Target = p.ID
			e.State = game.EnemyChasing
		}
	} else {
		e.KilledBy = p.ID
	}
}

// resolve lands one hit: damage floors at one, crits double after the
// floor. The event carries the rolled amount; health clamps at zero.
func (w *World) resolve(zs *zoneState, att, def game.Combatant) {
	dmg := att.AttackStat() - def.DefenseStat()
	if dmg < 1 {
		dmg = 1
	}
	crit := w.combatRNG.Float64() < w.params.Combat.CritChance
	if crit {
		dmg *= 2
	}
	def.Base().ApplyDamage(dmg)

	zs.events = append(zs.events, &proto.DamageEvent{
		Attacker: uint64(att.Base().ID),
		Target:   uint64(def.Base().ID),
		Amount:   dmg,
		Crit:     crit,
	})

	if p, ok := att.(*game.Player); ok {
		p.InCombatAt = w.tick
	}
	if p, ok := def.(*game.Player); ok {
		p.InCombatAt = w.tick
	}
}

// settleDeaths processes entities whose health hit zero this tick.
// Enemy corpses linger for the grace period; players respawn after the
// configured delay.
func (w *World) settleDeaths(zs *zoneState) {
	for _, e := range zs.store.Enemies() {
		if e.Alive() || e.State == game.EnemyDead {
			continue
		}
		e.State = game.EnemyDead
		e.Anim = game.AnimDead
		e.Target = 0
		e.DespawnAt = w.tick + w.corpseTicks

		slot := zs.slots[e.SpawnSlot]
		slot.due = append(slot.due, w.tick+slot.every)

		w.rollLoot(zs, e)
		w.awardKill(zs, e)
	}

	for _, p := range zs.store.Players() {
		if p.Alive() || p.RespawnAt != 0 {
			continue
		}
		p.Anim = game.AnimDead
		p.RespawnAt = w.tick + w.respawnTicks
		if s := w.sessions.Get(p.Session); s != nil {
			w.notify(s, "You died.")
		}
		w.savePlayer(zs.id, p)
	}
}

// awardKill grants the killing blow's owner XP. Level-ups refill health
// and mana at the new caps.
func (w *World) awardKill(zs *zoneState, e *game.Enemy) {
	killer := zs.store.Player(e.KilledBy)
	if killer == nil || !killer.Alive() {
		return
	}
	xp := game.KillReward(killer.Level, e.Level, e.XPReward)
	if xp <= 0 {
		return
	}
	killer.XP += xp
	killer.Dirty = true

	s := w.sessions.Get(killer.Session)
	if s != nil {
		w.notify(s, fmt.Sprintf("You gain %d experience.", xp))
	}

	if lvl := game.LevelForExp(killer.XP); lvl > killer.Level {
		killer.Level = lvl
		killer.MaxHealth = game.PlayerMaxHealth(lvl)
		killer.Health = killer.MaxHealth
		killer.MaxMana = game.PlayerMaxMana(lvl)
		killer.Mana = killer.MaxMana
		if s != nil {
			w.notify(s, fmt.Sprintf("You reach level %d!", lvl))
		}
	}
	if s != nil {
		w.sender.Send(s.Addr, statusMsg(killer))
	}
}

// rollLoot makes one independent roll per loot entry and scatters the
// winners around the corpse.
func (w *World) rollLoot(zs *zoneState, e *game.Enemy) {
	arch := zs.slots[e.SpawnSlot].arch
	for i := range arch.Loot {
		entry := &arch.Loot[i]
		if w.lootRNG.Float64() >= float64(entry.Chance) {
			continue
		}
		pos := w.scatter(zs.def, e.Pos, 1)
		zs.store.SpawnItem(&game.GroundItem{
			Entity: game.Entity{
				Name:      entry.Item.Key(),
				Pos:       pos,
				Health:    1,
				MaxHealth: 1,
			},
			Item:      entry.Item.Key(),
			Qty:       entry.Qty,
			DespawnAt: w.tick + w.itemTicks,
		})
	}
}

// runTimers fires scheduled corpse despawns, spawn-slot refills, player
// respawns, and ground item expiry.
func (w *World) runTimers(zs *zoneState) {
	for _, e := range zs.store.Enemies() {
		if e.State == game.EnemyDead && e.DespawnAt != 0 && w.tick >= e.DespawnAt {
			zs.store.Despawn(e.ID)
			zs.events = append(zs.events, &proto.EntityDespawned{Entity: uint64(e.ID)})
		}
	}

	for si, slot := range zs.slots {
		kept := slot.due[:0]
		for _, due := range slot.due {
			if w.tick >= due {
				w.spawnEnemy(zs, si)
			} else {
				kept = append(kept, due)
			}
		}
		slot.due = kept
	}

	for _, p := range zs.store.Players() {
		if p.RespawnAt != 0 && w.tick >= p.RespawnAt {
			w.respawnPlayer(zs, p)
		}
	}

	for _, it := range zs.store.Items() {
		if it.DespawnAt != 0 && w.tick >= it.DespawnAt {
			zs.store.Despawn(it.ID)
			zs.events = append(zs.events, &proto.EntityDespawned{Entity: uint64(it.ID)})
		}
	}
}

// respawnPlayer replaces a dead player's corpse with a fresh entity at
// the zone spawn point, full health, new id. The session follows the
// new entity.
func (w *World) respawnPlayer(zs *zoneState, p *game.Player) {
	s := w.sessions.Get(p.Session)

	zs.store.Despawn(p.ID)
	zs.events = append(zs.events, &proto.EntityDespawned{Entity: uint64(p.ID)})
	if s == nil || s.State != sessions.StatePlaying {
		return
	}

	sp := zs.def.SpawnPointFor(uint64(zs.store.NextID()))
	np := &game.Player{
		Entity: game.Entity{
			Name:      p.Name,
			Pos:       sp.Pos,
			Rot:       sp.Rot,
			Health:    game.PlayerMaxHealth(p.Level),
			MaxHealth: game.PlayerMaxHealth(p.Level),
			Level:     p.Level,
		},
		Account:      p.Account,
		CharacterID:  p.CharacterID,
		Session:      p.Session,
		XP:           p.XP,
		Mana:         game.PlayerMaxMana(p.Level),
		MaxMana:      game.PlayerMaxMana(p.Level),
		Inventory:    p.Inventory,
		Weapon:       p.Weapon,
		WeaponAttack: p.WeaponAttack,
		Dirty:        true,
	}
	zs.store.SpawnPlayer(np)
	w.sessions.MoveZone(s, np.ID, zs.id)

	w.sender.Send(s.Addr, &proto.ZoneChange{Zone: zs.id, Entity: uint64(np.ID), Pos: np.Pos, Rot: np.Rot})
	w.sender.Send(s.Addr, statusMsg(np))
}

// regen applies out-of-combat recovery. The zone step calls it once per
// second's worth of ticks.
func (w *World) regen(zs *zoneState) {
	for _, p := range zs.store.Players() {
		if !p.Alive() {
			continue
		}
		if p.InCombatAt != 0 && w.tick < p.InCombatAt+w.combatLockTicks {
			continue
		}

		healed := p.Heal(w.params.Combat.RegenHealth)
		restored := int32(0)
		if p.Mana < p.MaxMana {
			restored = w.params.Combat.RegenMana
			if p.Mana+restored > p.MaxMana {
				restored = p.MaxMana - p.Mana
			}
			p.Mana += restored
		}

		if healed > 0 || restored > 0 {
			p.Dirty = true
			if s := w.sessions.Get(p.Session); s != nil {
				w.sender.Send(s.Addr, statusMsg(p))
			}
		}
	}
}
