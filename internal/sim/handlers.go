package sim

import (
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/pixil98/go-realm/internal/game"
	"github.com/pixil98/go-realm/internal/player"
	"github.com/pixil98/go-realm/internal/proto"
	"github.com/pixil98/go-realm/internal/sessions"
	"github.com/pixil98/go-realm/internal/zones"
)

// maxMoveElapsed caps the time window a movement update may claim, so a
// quiet client cannot bank distance and teleport with one packet.
const maxMoveElapsed = 250 * time.Millisecond

func (w *World) apply(in Input) {
	switch v := in.(type) {
	case DatagramInput:
		w.handleDatagram(v)
	case AuthDone:
		w.handleAuthDone(v)
	case CharacterCreated:
		w.handleCharacterCreated(v)
	case CharacterLoaded:
		w.handleCharacterLoaded(v)
	case SaveDone:
		w.persist.FinishSave(v.CharacterID)
		if v.Err != nil {
			slog.Error("character save failed", "character", v.CharacterID, "tick", v.Tick, "error", v.Err)
			w.markDirty(v.CharacterID)
		}
	case ChatDelivery:
		if zs := w.zones[v.Zone]; zs != nil {
			zs.events = append(zs.events, &proto.ChatBroadcast{Sender: v.Sender, Text: v.Text})
		}
	case NoticeDelivery:
		for _, id := range w.order {
			zs := w.zones[id]
			zs.events = append(zs.events, &proto.Notice{Text: v.Text})
		}
	case AdminInput:
		w.handleAdmin(v)
	}
}

func (w *World) handleDatagram(in DatagramInput) {
	s := w.sessions.Lookup(in.Addr)
	fresh := s == nil
	if fresh {
		s = w.sessions.Register(in.Addr, in.At)
		w.sender.Send(in.Addr, &proto.Connected{Session: s.ID})
		slog.Debug("session opened", "session", s.ID, "addr", in.Addr)
	} else {
		w.sessions.Touch(s, in.At)
	}

	switch m := in.Msg.(type) {
	case *proto.Connect:
		if !fresh {
			w.sender.Send(in.Addr, &proto.Connected{Session: s.ID})
		}
	case *proto.Login:
		w.handleLogin(s, m)
	case *proto.CreateCharacter:
		w.handleCreateCharacter(s, m)
	case *proto.SelectCharacter:
		w.handleSelectCharacter(s, m)
	case *proto.PlayerUpdate:
		w.handleMove(s, m, in.At)
	case *proto.Attack:
		w.queueAttack(s, m)
	case *proto.ChatMessage:
		w.handleChat(s, m)
	case *proto.UseItem:
		w.handleUseItem(s, m)
	case *proto.DropItem:
		w.handleDropItem(s, m)
	case *proto.PickupItem:
		w.handlePickup(s, m)
	case *proto.Heartbeat:
		// Touch above is the whole point of a heartbeat.
	case *proto.Disconnect:
		w.evict(s, "disconnect")
	default:
		slog.Debug("unhandled message", "tag", uint8(in.Msg.Tag()), "session", s.ID)
	}
}

// playing resolves a session to its zone and player entity. Both are nil
// when the session is not in the world or its entity is gone.
func (w *World) playing(s *sessions.Session) (*zoneState, *game.Player) {
	if s.State != sessions.StatePlaying {
		return nil, nil
	}
	zs := w.zones[s.Zone]
	if zs == nil {
		return nil, nil
	}
	return zs, zs.store.Player(s.Entity)
}

func (w *World) handleLogin(s *sessions.Session, m *proto.Login) {
	if s.State != sessions.StateNew {
		w.sender.Send(s.Addr, &proto.LoginResult{OK: false, Message: userMessage(sessions.ErrAlreadyAuthenticated)})
		return
	}
	w.persist.Authenticate(s.ID, m.Username, m.Password)
}

func (w *World) handleAuthDone(in AuthDone) {
	s := w.sessions.Get(in.Session)
	if s == nil {
		return
	}
	if in.Err != nil {
		w.sender.Send(s.Addr, &proto.LoginResult{OK: false, Message: userMessage(in.Err)})
		return
	}
	if err := w.sessions.Authenticate(s, in.Account); err != nil {
		w.sender.Send(s.Addr, &proto.LoginResult{OK: false, Message: userMessage(err)})
		return
	}

	w.sender.Send(s.Addr, &proto.LoginResult{OK: true})
	w.sender.Send(s.Addr, characterList(in.Chars))
	if in.Created {
		w.notify(s, "Account created.")
	}
	slog.Info("account authenticated", "session", s.ID, "account", in.Account, "created", in.Created)
}

func (w *World) handleCreateCharacter(s *sessions.Session, m *proto.CreateCharacter) {
	switch s.State {
	case sessions.StateNew:
		w.notify(s, userMessage(sessions.ErrNotAuthenticated))
		return
	case sessions.StatePlaying:
		w.notify(s, "You are already in the world.")
		return
	}
	w.persist.CreateCharacter(s.ID, s.Account, m.Name)
}

func (w *World) handleCharacterCreated(in CharacterCreated) {
	s := w.sessions.Get(in.Session)
	if s == nil {
		return
	}
	if in.Err != nil {
		w.notify(s, userMessage(in.Err))
		return
	}
	w.sender.Send(s.Addr, characterList(in.Chars))
}

func (w *World) handleSelectCharacter(s *sessions.Session, m *proto.SelectCharacter) {
	switch s.State {
	case sessions.StateNew:
		w.notify(s, userMessage(sessions.ErrNotAuthenticated))
		return
	case sessions.StatePlaying:
		w.notify(s, "You are already in the world.")
		return
	}
	if s.LoadPending {
		return
	}
	s.LoadPending = true
	w.persist.Load(s.ID, s.Account, m.ID)
}

func (w *World) handleCharacterLoaded(in CharacterLoaded) {
	s := w.sessions.Get(in.Session)
	if s == nil {
		return
	}
	s.LoadPending = false
	if in.Err != nil {
		w.notify(s, userMessage(in.Err))
		return
	}
	if s.State != sessions.StateAuthed {
		return
	}
	w.enterWorld(s, in.ID, in.Char)
}

// enterWorld spawns a loaded character into its saved zone, or the
// default zone when the saved one no longer exists. The record aliases
// the store cache, so everything is copied out here.
func (w *World) enterWorld(s *sessions.Session, charID string, rec *player.CharacterRecord) {
	zs := w.zones[rec.Zone]
	if zs == nil {
		zs = w.zones[w.params.DefaultZone]
		slog.Warn("saved zone missing, using default", "character", charID, "zone", rec.Zone)
	}

	pos, rot := rec.Pos, rec.Rot
	if !zs.def.Bounds.Contains(pos) || zs.def.Blocked(pos) {
		sp := zs.def.SpawnPointFor(uint64(zs.store.NextID()))
		pos, rot = sp.Pos, sp.Rot
	}

	level := rec.Level
	if level < 1 {
		level = 1
	}
	p := &game.Player{
		Entity: game.Entity{
			Name:      rec.Name,
			Pos:       pos,
			Rot:       rot,
			Health:    rec.Health,
			MaxHealth: game.PlayerMaxHealth(level),
			Level:     level,
		},
		Account:     s.Account,
		CharacterID: charID,
		Session:     s.ID,
		XP:          rec.XP,
		Mana:        rec.Mana,
		MaxMana:     game.PlayerMaxMana(level),
		Weapon:      -1,
	}
	for i, st := range rec.Inventory {
		if i >= game.InventorySlots {
			break
		}
		p.Inventory[i] = st
	}
	if p.Health <= 0 || p.Health > p.MaxHealth {
		p.Health = p.MaxHealth
	}
	if p.Mana < 0 || p.Mana > p.MaxMana {
		p.Mana = p.MaxMana
	}
	if slot := int(rec.Weapon); slot >= 0 && slot < game.InventorySlots && !p.Inventory[slot].Empty() {
		if def := w.reg.Item(p.Inventory[slot].Item); def != nil && def.Kind == zones.ItemWeapon {
			p.Weapon = rec.Weapon
			p.WeaponAttack = def.Attack
		}
	}

	zs.store.SpawnPlayer(p)
	w.sessions.EnterWorld(s, charID, p.ID, zs.id)

	w.sender.Send(s.Addr, &proto.ZoneChange{Zone: zs.id, Entity: uint64(p.ID), Pos: p.Pos, Rot: p.Rot})
	w.sendTimeSync(s)
	w.sender.Send(s.Addr, inventoryMsg(p))
	w.sender.Send(s.Addr, statusMsg(p))
	w.sendMotd(s, zs, p)

	slog.Info("character entered world", "session", s.ID, "character", charID, "zone", zs.id, "entity", p.ID)
}

func (w *World) sendMotd(s *sessions.Session, zs *zoneState, p *game.Player) {
	motd := w.params.Motd
	if motd == "" {
		motd = player.DefaultMotd
	}
	online := 0
	w.sessions.ForEach(func(o *sessions.Session) {
		if o.State == sessions.StatePlaying {
			online++
		}
	})
	text, err := player.ExpandTemplate(motd, player.MotdData{
		Name:   p.Name,
		Zone:   zs.def.Name,
		Level:  p.Level,
		Online: online,
	})
	if err != nil {
		slog.Warn("expanding motd", "error", err)
		return
	}
	if text != "" {
		w.notify(s, text)
	}
}

// handleMove validates a client position report. Rejected reports are
// dropped without a reply; the next snapshot corrects the client.
func (w *World) handleMove(s *sessions.Session, m *proto.PlayerUpdate, at time.Time) {
	zs, p := w.playing(s)
	if p == nil || !p.Alive() {
		return
	}

	elapsed := at.Sub(p.LastUpdate)
	if p.LastUpdate.IsZero() || elapsed > maxMoveElapsed {
		elapsed = maxMoveElapsed
	}
	if elapsed < 0 {
		elapsed = 0
	}
	limit := w.params.Combat.MaxSpeed * float32(elapsed.Seconds())

	if !zs.def.Bounds.Contains(m.Pos) || zs.def.Blocked(m.Pos) || p.Pos.DistSq(m.Pos) > limit*limit {
		return
	}

	prev := p.Pos
	p.Pos = m.Pos
	p.Rot = m.Rot
	if m.Anim <= game.AnimAttack {
		p.Anim = m.Anim
	}
	p.LastUpdate = at
	p.Dirty = true

	if portal := zs.def.PortalAt(p.Pos); portal != nil {
		w.transfer(s, zs, p, portal)
		return
	}
	w.greetNearby(zs, s, p, prev)
}

// transfer moves a player through a portal: despawn here, spawn in the
// target zone under a fresh id, rebind the session.
func (w *World) transfer(s *sessions.Session, from *zoneState, p *game.Player, portal *zones.Portal) {
	to := w.zones[portal.ToZone]
	if to == nil {
		slog.Error("portal targets unknown zone", "from", from.id, "to", portal.ToZone)
		return
	}

	from.store.Despawn(p.ID)
	from.events = append(from.events, &proto.EntityDespawned{Entity: uint64(p.ID)})

	np := &game.Player{
		Entity: game.Entity{
			Name:      p.Name,
			Pos:       portal.ToPos,
			Rot:       portal.ToRot,
			Health:    p.Health,
			MaxHealth: p.MaxHealth,
			Level:     p.Level,
		},
		Account:      p.Account,
		CharacterID:  p.CharacterID,
		Session:      s.ID,
		XP:           p.XP,
		Mana:         p.Mana,
		MaxMana:      p.MaxMana,
		Inventory:    p.Inventory,
		Weapon:       p.Weapon,
		WeaponAttack: p.WeaponAttack,
		LastUpdate:   p.LastUpdate,
		LastAttack:   p.LastAttack,
		InCombatAt:   p.InCombatAt,
	}
	to.store.SpawnPlayer(np)
	w.sessions.MoveZone(s, np.ID, to.id)

	w.sender.Send(s.Addr, &proto.ZoneChange{Zone: to.id, Entity: uint64(np.ID), Pos: np.Pos, Rot: np.Rot})
	w.sendTimeSync(s)
	w.savePlayer(to.id, np)

	slog.Info("zone transfer", "session", s.ID, "from", from.id, "to", to.id, "entity", np.ID)
}

// greetRange is how close a player must come for an NPC to speak up.
const greetRange = 3.0

// greetNearby sends NPC greetings to a player who just stepped into
// range. Standing still next to an NPC stays quiet.
func (w *World) greetNearby(zs *zoneState, s *sessions.Session, p *game.Player, prev game.Vec3) {
	for _, n := range zs.store.NPCs() {
		if n.Greeting == "" {
			continue
		}
		if n.Pos.DistSq(p.Pos) <= greetRange*greetRange && n.Pos.DistSq(prev) > greetRange*greetRange {
			w.notify(s, n.Greeting)
		}
	}
}

// queueAttack validates the attacker at receipt and queues the attack
// for the combat phase. Targets are re-validated at execution.
func (w *World) queueAttack(s *sessions.Session, m *proto.Attack) {
	zs, p := w.playing(s)
	if p == nil {
		return
	}
	if !p.Alive() {
		w.notify(s, userMessage(game.ErrAttackerDead))
		return
	}
	w.attacks = append(w.attacks, attackOrder{
		session:  s.ID,
		zone:     zs.id,
		attacker: p.ID,
		target:   game.ID(m.Target),
	})
}

func (w *World) handleChat(s *sessions.Session, m *proto.ChatMessage) {
	zs, p := w.playing(s)
	if p == nil {
		return
	}
	text := strings.TrimSpace(m.Text)
	if text == "" {
		return
	}
	if w.bus == nil {
		w.notify(s, "Chat is unavailable right now.")
		return
	}
	if err := w.bus.PublishChat(zs.id, p.Name, text); err != nil {
		slog.Warn("publishing chat", "zone", zs.id, "error", err)
		w.notify(s, "Chat is unavailable right now.")
	}
}

func (w *World) handleUseItem(s *sessions.Session, m *proto.UseItem) {
	_, p := w.playing(s)
	if p == nil || !p.Alive() {
		return
	}
	slot := int(m.Slot)
	if slot >= game.InventorySlots || p.Inventory[slot].Empty() {
		w.notify(s, "Nothing in that slot.")
		return
	}
	def := w.reg.Item(p.Inventory[slot].Item)
	if def == nil {
		w.notify(s, "Nothing happens.")
		return
	}

	switch def.Kind {
	case zones.ItemWeapon:
		if int(p.Weapon) == slot {
			p.Weapon = -1
			p.WeaponAttack = 0
			w.notify(s, "You put away the "+def.Name+".")
		} else {
			p.Weapon = int8(slot)
			p.WeaponAttack = def.Attack
			w.notify(s, "You ready the "+def.Name+".")
		}
	case zones.ItemPotion:
		if err := p.ConsumeOne(slot); err != nil {
			w.notify(s, "Nothing in that slot.")
			return
		}
		if def.Heal > 0 {
			p.Heal(def.Heal)
		}
		if def.Mana > 0 {
			p.Mana += def.Mana
			if p.Mana > p.MaxMana {
				p.Mana = p.MaxMana
			}
		}
		w.sender.Send(s.Addr, statusMsg(p))
	default:
		w.notify(s, "Nothing happens.")
		return
	}

	p.Dirty = true
	w.sender.Send(s.Addr, inventoryMsg(p))
}

func (w *World) handleDropItem(s *sessions.Session, m *proto.DropItem) {
	zs, p := w.playing(s)
	if p == nil || !p.Alive() {
		return
	}
	st, err := p.RemoveSlot(int(m.Slot))
	if err != nil {
		w.notify(s, "Nothing in that slot.")
		return
	}

	zs.store.SpawnItem(&game.GroundItem{
		Entity: game.Entity{
			Name:      st.Item,
			Pos:       p.Pos,
			Health:    1,
			MaxHealth: 1,
		},
		Item:      st.Item,
		Qty:       st.Qty,
		DespawnAt: w.tick + w.itemTicks,
	})
	p.Dirty = true
	w.sender.Send(s.Addr, inventoryMsg(p))
}

func (w *World) handlePickup(s *sessions.Session, m *proto.PickupItem) {
	zs, p := w.playing(s)
	if p == nil || !p.Alive() {
		return
	}
	it := zs.store.Item(game.ID(m.Target))
	if it == nil {
		w.notify(s, "It's gone.")
		return
	}
	reach := w.params.Combat.AttackRange
	if p.Pos.DistSq(it.Pos) > reach*reach {
		w.notify(s, userMessage(game.ErrOutOfRange))
		return
	}

	stackMax := uint16(1)
	if def := w.reg.Item(it.Item); def != nil {
		stackMax = def.StackMax
	}
	if err := p.AddStack(it.Item, it.Qty, stackMax); err != nil {
		w.notify(s, "Your inventory is full.")
		return
	}

	zs.store.Despawn(it.ID)
	zs.events = append(zs.events, &proto.EntityDespawned{Entity: uint64(it.ID)})
	p.Dirty = true
	w.sender.Send(s.Addr, inventoryMsg(p))
}

func characterList(chars []player.CharacterInfo) *proto.CharacterList {
	m := &proto.CharacterList{Characters: make([]proto.CharacterSummary, len(chars))}
	for i, c := range chars {
		m.Characters[i] = proto.CharacterSummary{ID: c.ID, Name: c.Name, Level: c.Level, Zone: c.Zone}
	}
	return m
}

func inventoryMsg(p *game.Player) *proto.InventoryUpdate {
	m := &proto.InventoryUpdate{
		Slots:  make([]proto.SlotState, game.InventorySlots),
		Weapon: p.Weapon,
	}
	for i, st := range p.Inventory {
		m.Slots[i] = proto.SlotState{Item: st.Item, Qty: st.Qty}
	}
	return m
}

func statusMsg(p *game.Player) *proto.CharacterStatus {
	return &proto.CharacterStatus{
		Level:     p.Level,
		XP:        p.XP,
		Health:    p.Health,
		MaxHealth: p.MaxHealth,
		Mana:      p.Mana,
		MaxMana:   p.MaxMana,
	}
}

// userMessage turns a backend error into the line the client sees.
// Anything unrecognized stays vague on purpose.
func userMessage(err error) string {
	switch {
	case errors.Is(err, player.ErrBadCredentials):
		return "Bad username or password."
	case errors.Is(err, player.ErrInvalidUsername):
		return "Usernames are 3-24 characters: lowercase letters, digits, dashes."
	case errors.Is(err, player.ErrWeakPassword):
		return "That password is too short."
	case errors.Is(err, player.ErrInvalidCharacterName):
		return "Character names are 3-24 letters."
	case errors.Is(err, player.ErrNameTaken):
		return "That name is taken."
	case errors.Is(err, player.ErrTooManyCharacters):
		return "This account has no free character slots."
	case errors.Is(err, player.ErrCharacterNotFound), errors.Is(err, player.ErrNotOwned):
		return "No such character."
	case errors.Is(err, sessions.ErrDuplicateLogin):
		return "That account is already online."
	case errors.Is(err, sessions.ErrAlreadyAuthenticated):
		return "Already logged in."
	case errors.Is(err, sessions.ErrNotAuthenticated):
		return "Log in first."
	case errors.Is(err, game.ErrEntityNotFound):
		return "There is nothing there."
	case errors.Is(err, game.ErrTargetDead):
		return "It is already dead."
	case errors.Is(err, game.ErrAttackerDead):
		return "You are dead."
	case errors.Is(err, game.ErrOutOfRange):
		return "Too far away."
	}
	return "Something went wrong."
}
