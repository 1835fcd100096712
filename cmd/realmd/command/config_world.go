package command

import (
	"fmt"
	"time"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-realm/internal/driver"
	"github.com/pixil98/go-realm/internal/sim"
)

type WorldConfig struct {
	TickInterval       string       `json:"tick_interval"`
	SessionTimeout     string       `json:"session_timeout"`
	CheckpointInterval string       `json:"checkpoint_interval"`
	CorpseGrace        string       `json:"corpse_grace"`
	RespawnDelay       string       `json:"respawn_delay"`
	ItemTTL            string       `json:"item_ttl"`
	DefaultZone        string       `json:"default_zone"`
	Seed               string       `json:"seed"`
	Motd               string       `json:"motd"`
	Clock              ClockConfig  `json:"clock"`
	Combat             CombatConfig `json:"combat"`
}

type ClockConfig struct {
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	SyncInterval string  `json:"sync_interval"`
}

type CombatConfig struct {
	AggroRange           float32 `json:"aggro_range"`
	AttackRange          float32 `json:"attack_range"`
	LeashRange           float32 `json:"leash_range"`
	CritChance           float64 `json:"crit_chance"`
	AttackInterval       string  `json:"attack_interval"`
	PlayerAttackInterval string  `json:"player_attack_interval"`
	ReturnTolerance      float32 `json:"return_tolerance"`
	MaxSpeed             float32 `json:"max_speed"`
	RegenHealth          int32   `json:"regen_health"`
	RegenMana            int32   `json:"regen_mana"`
}

func (c *WorldConfig) Validate() error {
	_, err := c.BuildParams()
	return err
}

// BuildParams maps the config onto simulation parameters. Unset fields
// keep the defaults; an empty seed stays empty so the world rolls a
// random one at startup.
func (c *WorldConfig) BuildParams() (sim.Params, error) {
	p := sim.DefaultParams()
	el := errors.NewErrorList()

	parse := func(name, val string, into *time.Duration) {
		if val == "" {
			return
		}
		d, err := time.ParseDuration(val)
		if err != nil {
			el.Add(fmt.Errorf("parsing %s: %w", name, err))
			return
		}
		*into = d
	}

	parse("tick_interval", c.TickInterval, &p.TickInterval)
	parse("session_timeout", c.SessionTimeout, &p.SessionTimeout)
	parse("checkpoint_interval", c.CheckpointInterval, &p.CheckpointInterval)
	parse("corpse_grace", c.CorpseGrace, &p.CorpseGrace)
	parse("respawn_delay", c.RespawnDelay, &p.RespawnDelay)
	parse("item_ttl", c.ItemTTL, &p.ItemTTL)
	parse("sync_interval", c.Clock.SyncInterval, &p.SyncInterval)

	if p.TickInterval < driver.MinTickInterval || p.TickInterval > driver.MaxTickInterval {
		el.Add(fmt.Errorf("tick_interval must be between %s and %s", driver.MinTickInterval, driver.MaxTickInterval))
	}
	if p.SessionTimeout < p.TickInterval {
		el.Add(fmt.Errorf("session_timeout must be at least one tick"))
	}

	if c.DefaultZone == "" {
		el.Add(fmt.Errorf("default_zone is required"))
	}
	p.DefaultZone = c.DefaultZone
	p.Seed = c.Seed
	if c.Motd != "" {
		p.Motd = c.Motd
	}
	if c.Clock.Latitude != 0 || c.Clock.Longitude != 0 {
		p.Latitude = c.Clock.Latitude
		p.Longitude = c.Clock.Longitude
	}

	cb := &p.Combat
	if c.Combat.AggroRange != 0 {
		cb.AggroRange = c.Combat.AggroRange
	}
	if c.Combat.AttackRange != 0 {
		cb.AttackRange = c.Combat.AttackRange
	}
	if c.Combat.LeashRange != 0 {
		cb.LeashRange = c.Combat.LeashRange
	}
	if c.Combat.CritChance != 0 {
		if c.Combat.CritChance < 0 || c.Combat.CritChance > 1 {
			el.Add(fmt.Errorf("crit_chance must be between 0 and 1"))
		} else {
			cb.CritChance = c.Combat.CritChance
		}
	}
	parse("attack_interval", c.Combat.AttackInterval, &cb.AttackInterval)
	parse("player_attack_interval", c.Combat.PlayerAttackInterval, &cb.PlayerAttackInterval)
	if c.Combat.ReturnTolerance != 0 {
		cb.ReturnTolerance = c.Combat.ReturnTolerance
	}
	if c.Combat.MaxSpeed != 0 {
		if c.Combat.MaxSpeed < 0 {
			el.Add(fmt.Errorf("max_speed must be positive"))
		} else {
			cb.MaxSpeed = c.Combat.MaxSpeed
		}
	}
	if c.Combat.RegenHealth != 0 {
		if c.Combat.RegenHealth < 0 {
			el.Add(fmt.Errorf("regen_health must not be negative"))
		} else {
			cb.RegenHealth = c.Combat.RegenHealth
		}
	}
	if c.Combat.RegenMana != 0 {
		if c.Combat.RegenMana < 0 {
			el.Add(fmt.Errorf("regen_mana must not be negative"))
		} else {
			cb.RegenMana = c.Combat.RegenMana
		}
	}

	return p, el.Err()
}
