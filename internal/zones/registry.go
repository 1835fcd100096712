package zones

import (
	"fmt"
	"sort"

	"github.com/pixil98/go-realm/internal/storage"
)

// Registry bundles the world's definition stores. It provides a single
// reference for resolution and lookups; everything inside is immutable
// once Resolve has run.
type Registry struct {
	Zones      storage.Storer[*Zone]
	Archetypes storage.Storer[*Archetype]
	Items      storage.Storer[*Item]
	NPCs       storage.Storer[*NPCTemplate]
}

// Resolve resolves every cross-asset reference and verifies portal
// targets. Call once after all stores have loaded; a failure here is fatal
// at startup.
func (r *Registry) Resolve() error {
	for id, a := range r.Archetypes.GetAll() {
		for i := range a.Loot {
			if err := a.Loot[i].Item.Resolve(r.Items); err != nil {
				return fmt.Errorf("archetype %s loot %d: %w", id, i, err)
			}
		}
	}
	for id, z := range r.Zones.GetAll() {
		for i := range z.EnemySpawns {
			if err := z.EnemySpawns[i].Archetype.Resolve(r.Archetypes); err != nil {
				return fmt.Errorf("zone %s enemy spawn %d: %w", id, i, err)
			}
		}
		for i := range z.NPCSpawns {
			if err := z.NPCSpawns[i].Template.Resolve(r.NPCs); err != nil {
				return fmt.Errorf("zone %s npc spawn %d: %w", id, i, err)
			}
		}
		for i, p := range z.Portals {
			target := r.Zones.Get(p.ToZone)
			if target == nil {
				return fmt.Errorf("zone %s portal %d: target zone %q not found", id, i, p.ToZone)
			}
			if !target.Bounds.Contains(p.ToPos) {
				return fmt.Errorf("zone %s portal %d: destination is outside %q", id, i, p.ToZone)
			}
		}
	}
	return nil
}

// Zone returns a zone definition, nil if unknown.
func (r *Registry) Zone(id string) *Zone {
	return r.Zones.Get(id)
}

// Item returns an item definition, nil if unknown.
func (r *Registry) Item(id string) *Item {
	return r.Items.Get(id)
}

// ZoneIDs returns all zone identifiers in sorted order. The result is
// stable across calls; callers that iterate every tick should cache it.
func (r *Registry) ZoneIDs() []string {
	all := r.Zones.GetAll()
	ids := make([]string, 0, len(all))
	for id := range all {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
