package zones

import (
	"fmt"
	"time"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-realm/internal/game"
	"github.com/pixil98/go-realm/internal/storage"
)

// AABB is an axis-aligned box on the ground plane. Height is ignored;
// zones are walkable surfaces, not volumes.
type AABB struct {
	MinX float32 `json:"min_x"`
	MaxX float32 `json:"max_x"`
	MinZ float32 `json:"min_z"`
	MaxZ float32 `json:"max_z"`
}

func (b AABB) Valid() bool {
	return b.MinX < b.MaxX && b.MinZ < b.MaxZ
}

func (b AABB) Contains(p game.Vec3) bool {
	return p.X >= b.MinX && p.X <= b.MaxX && p.Z >= b.MinZ && p.Z <= b.MaxZ
}

func (b AABB) Center() game.Vec3 {
	return game.Vec3{X: (b.MinX + b.MaxX) / 2, Z: (b.MinZ + b.MaxZ) / 2}
}

// SpawnPoint is where entering players appear.
type SpawnPoint struct {
	Pos game.Vec3 `json:"pos"`
	Rot float32   `json:"rot"`
}

// EnemySpawn populates a zone with Count enemies of one archetype. Dead
// spawns refill after the respawn interval, scattered within Radius of the
// spawn position.
type EnemySpawn struct {
	Archetype storage.SmartIdentifier[*Archetype] `json:"archetype"`
	Pos       game.Vec3                           `json:"pos"`
	Count     int                                 `json:"count"`
	Respawn   string                              `json:"respawn"`
	Radius    float32                             `json:"radius"`
}

// RespawnInterval returns the parsed respawn delay. Validation guarantees
// it parses; a zero value means the slot refills on the next tick.
func (s *EnemySpawn) RespawnInterval() time.Duration {
	d, err := time.ParseDuration(s.Respawn)
	if err != nil {
		return 0
	}
	return d
}

// NPCSpawn places one static NPC.
type NPCSpawn struct {
	Template storage.SmartIdentifier[*NPCTemplate] `json:"template"`
	Pos      game.Vec3                             `json:"pos"`
	Rot      float32                               `json:"rot"`
}

// Portal transfers players whose accepted position enters Region.
type Portal struct {
	Region AABB      `json:"region"`
	ToZone string    `json:"to_zone"`
	ToPos  game.Vec3 `json:"to_pos"`
	ToRot  float32   `json:"to_rot"`
}

// Zone is a static zone definition. Definitions are immutable after load;
// live state lives in the simulation's per-zone entity store.
type Zone struct {
	Name        string       `json:"name"`
	Bounds      AABB         `json:"bounds"`
	SpawnPoints []SpawnPoint `json:"spawn_points"`
	Obstacles   []AABB       `json:"obstacles,omitempty"`
	EnemySpawns []EnemySpawn `json:"enemy_spawns,omitempty"`
	NPCSpawns   []NPCSpawn   `json:"npc_spawns,omitempty"`
	Portals     []Portal     `json:"portals,omitempty"`
}

func (z *Zone) Validate() error {
	el := errors.NewErrorList()

	if z.Name == "" {
		el.Add(fmt.Errorf("name is required"))
	}

	if !z.Bounds.Valid() {
		el.Add(fmt.Errorf("bounds must span a positive area"))
	}

	if len(z.SpawnPoints) == 0 {
		el.Add(fmt.Errorf("at least one spawn point is required"))
	}
	for i, sp := range z.SpawnPoints {
		if !z.Bounds.Contains(sp.Pos) {
			el.Add(fmt.Errorf("spawn point %d is outside the zone bounds", i))
		}
	}

	for i, o := range z.Obstacles {
		if !o.Valid() {
			el.Add(fmt.Errorf("obstacle %d must span a positive area", i))
		}
	}

	for i, s := range z.EnemySpawns {
		if err := s.Archetype.Validate(); err != nil {
			el.Add(fmt.Errorf("enemy spawn %d: %w", i, err))
		}
		if s.Count < 1 {
			el.Add(fmt.Errorf("enemy spawn %d: count must be at least 1", i))
		}
		if _, err := time.ParseDuration(s.Respawn); err != nil {
			el.Add(fmt.Errorf("enemy spawn %d: parsing respawn: %w", i, err))
		}
		if s.Radius < 0 {
			el.Add(fmt.Errorf("enemy spawn %d: radius must not be negative", i))
		}
		if !z.Bounds.Contains(s.Pos) {
			el.Add(fmt.Errorf("enemy spawn %d is outside the zone bounds", i))
		}
	}

	for i, n := range z.NPCSpawns {
		if err := n.Template.Validate(); err != nil {
			el.Add(fmt.Errorf("npc spawn %d: %w", i, err))
		}
		if !z.Bounds.Contains(n.Pos) {
			el.Add(fmt.Errorf("npc spawn %d is outside the zone bounds", i))
		}
	}

	for i, p := range z.Portals {
		if !p.Region.Valid() {
			el.Add(fmt.Errorf("portal %d: region must span a positive area", i))
		}
		if p.ToZone == "" {
			el.Add(fmt.Errorf("portal %d: to_zone is required", i))
		}
	}

	return el.Err()
}

// SpawnPointFor picks the spawn point for a newly entering player. A single
// point serves everyone; multiple points rotate by entity id so groups do
// not stack exactly.
func (z *Zone) SpawnPointFor(n uint64) SpawnPoint {
	if len(z.SpawnPoints) == 0 {
		return SpawnPoint{Pos: z.Bounds.Center()}
	}
	return z.SpawnPoints[n%uint64(len(z.SpawnPoints))]
}

// Blocked reports whether a position is inside any obstacle.
func (z *Zone) Blocked(p game.Vec3) bool {
	for _, o := range z.Obstacles {
		if o.Contains(p) {
			return true
		}
	}
	return false
}

// PortalAt returns the portal containing p, if any.
func (z *Zone) PortalAt(p game.Vec3) *Portal {
	for i := range z.Portals {
		if z.Portals[i].Region.Contains(p) {
			return &z.Portals[i]
		}
	}
	return nil
}
