package sim

import (
	"log/slog"
	"sort"

	"github.com/pixil98/go-realm/internal/game"
	"github.com/pixil98/go-realm/internal/proto"
	"github.com/remeh/sizedwaitgroup"
)

// broadcast flushes each zone's queued events and one full snapshot to
// every playing session in it. Payloads encode once per zone; snapshot
// sends fan out over a bounded worker group. UDP reorders freely, so
// clients reconcile by snapshot tick number, not arrival order.
func (w *World) broadcast() {
	swg := sizedwaitgroup.New(w.params.BroadcastWorkers)

	for _, id := range w.order {
		zs := w.zones[id]
		recipients := w.sessions.InZone(zs.id)
		if len(recipients) == 0 {
			zs.events = zs.events[:0]
			continue
		}

		for _, ev := range zs.events {
			b, err := proto.Encode(ev)
			if err != nil {
				slog.Error("encoding event", "zone", zs.id, "error", err)
				continue
			}
			for _, s := range recipients {
				w.sender.SendBytes(s.Addr, b)
			}
		}
		zs.events = zs.events[:0]

		snap, err := proto.Encode(w.snapshot(zs))
		if err != nil {
			slog.Error("encoding snapshot", "zone", zs.id, "entities", zs.store.Len(), "error", err)
			continue
		}
		for _, s := range recipients {
			addr := s.Addr
			swg.Add()
			go func() {
				defer swg.Done()
				w.sender.SendBytes(addr, snap)
			}()
		}
	}

	swg.Wait()
}

// snapshot builds the full entity list for one zone, id-sorted. Corpses
// within grace and ground items ride along with the living.
func (w *World) snapshot(zs *zoneState) *proto.WorldState {
	m := &proto.WorldState{
		TickNum:  w.tick,
		Entities: make([]proto.EntityState, 0, zs.store.Len()),
	}
	for _, p := range zs.store.Players() {
		m.Entities = append(m.Entities, entityState(&p.Entity, 0))
	}
	for _, e := range zs.store.Enemies() {
		m.Entities = append(m.Entities, entityState(&e.Entity, 0))
	}
	for _, n := range zs.store.NPCs() {
		m.Entities = append(m.Entities, entityState(&n.Entity, 0))
	}
	for _, it := range zs.store.Items() {
		m.Entities = append(m.Entities, entityState(&it.Entity, it.Qty))
	}
	sort.Slice(m.Entities, func(i, j int) bool { return m.Entities[i].ID < m.Entities[j].ID })
	return m
}

func entityState(e *game.Entity, qty uint16) proto.EntityState {
	return proto.EntityState{
		ID:        uint64(e.ID),
		Kind:      uint8(e.Kind),
		Pos:       e.Pos,
		Rot:       e.Rot,
		Health:    e.Health,
		MaxHealth: e.MaxHealth,
		Level:     e.Level,
		Anim:      e.Anim,
		Name:      e.Name,
		Qty:       qty,
	}
}
