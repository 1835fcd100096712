package game

// EnemyState is the AI state machine position for an enemy.
type EnemyState uint8

const (
	EnemyIdle EnemyState = iota
	EnemyChasing
	EnemyAttacking
	EnemyReturning
	EnemyDead
)

func (s EnemyState) String() string {
	switch s {
	case EnemyIdle:
		return "idle"
	case EnemyChasing:
		return "chasing"
	case EnemyAttacking:
		return "attacking"
	case EnemyReturning:
		return "returning"
	case EnemyDead:
		return "dead"
	}
	return "unknown"
}

// Enemy is a hostile entity driven by the zone simulation. Dead is
// terminal: the corpse despawns after its grace window and the spawn slot
// produces a fresh entity later.
type Enemy struct {
	Entity

	Archetype string
	State     EnemyState
	Origin    Vec3
	Target    ID

	Attack      int32
	Defense     int32
	MoveSpeed   float32
	AggroRange  float32
	LeashRange  float32
	AttackEvery uint64 // ticks between swings
	NextAttack  uint64 // earliest tick of the next swing
	XPReward    int64
	KilledBy    ID // entity that landed the killing blow

	DespawnAt uint64 // corpse removal tick, set on death
	SpawnSlot int    // index into the zone's enemy spawn list
}

func (e *Enemy) Base() *Entity { return &e.Entity }

func (e *Enemy) AttackStat() int32  { return e.Attack }
func (e *Enemy) DefenseStat() int32 { return e.Defense }

// NPC is static zone dressing: it appears in snapshots but never acts.
type NPC struct {
	Entity

	Template string
	Greeting string
}

// GroundItem is a dropped stack lying in the zone until picked up or
// expired.
type GroundItem struct {
	Entity

	Item      string
	Qty       uint16
	DespawnAt uint64
}

// Combatant is anything that can deal and receive damage.
type Combatant interface {
	Base() *Entity
	AttackStat() int32
	DefenseStat() int32
}
