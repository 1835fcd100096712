package sim

import "time"

// CombatParams are the zone-wide combat tunables. Archetypes may override
// aggro and leash ranges per enemy.
type CombatParams struct {
	AggroRange           float32
	AttackRange          float32
	LeashRange           float32
	CritChance           float64
	AttackInterval       time.Duration
	PlayerAttackInterval time.Duration
	ReturnTolerance      float32
	MaxSpeed             float32
	RegenHealth          int32
	RegenMana            int32
}

// Params configure one world. The command layer fills them from config;
// tests override individual fields.
type Params struct {
	TickInterval       time.Duration
	SessionTimeout     time.Duration
	CheckpointInterval time.Duration
	CorpseGrace        time.Duration
	RespawnDelay       time.Duration
	ItemTTL            time.Duration
	DefaultZone        string
	Seed               string
	Motd               string
	Latitude           float64
	Longitude          float64
	SyncInterval       time.Duration
	BroadcastWorkers   int
	Combat             CombatParams
}

func DefaultParams() Params {
	return Params{
		TickInterval:       50 * time.Millisecond,
		SessionTimeout:     10 * time.Second,
		CheckpointInterval: 60 * time.Second,
		CorpseGrace:        5 * time.Second,
		RespawnDelay:       5 * time.Second,
		ItemTTL:            60 * time.Second,
		Latitude:           47.6,
		Longitude:          -122.3,
		SyncInterval:       30 * time.Second,
		BroadcastWorkers:   16,
		Combat: CombatParams{
			AggroRange:           10,
			AttackRange:          2,
			LeashRange:           30,
			CritChance:           0.1,
			AttackInterval:       1500 * time.Millisecond,
			PlayerAttackInterval: time.Second,
			ReturnTolerance:      0.5,
			MaxSpeed:             8,
			RegenHealth:          1,
			RegenMana:            1,
		},
	}
}
