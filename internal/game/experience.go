package game

// MaxLevel is the highest level a character can reach.
const MaxLevel = 20

// levelTable holds the cumulative XP required to reach each level.
// Index 0 = level 1 (0 XP), index 1 = level 2 (300 XP), etc.
var levelTable = [MaxLevel]int64{
	0,      // Level 1
	300,    // Level 2
	900,    // Level 3
	2700,   // Level 4
	6500,   // Level 5
	14000,  // Level 6
	23000,  // Level 7
	34000,  // Level 8
	48000,  // Level 9
	64000,  // Level 10
	85000,  // Level 11
	100000, // Level 12
	120000, // Level 13
	140000, // Level 14
	165000, // Level 15
	195000, // Level 16
	225000, // Level 17
	265000, // Level 18
	305000, // Level 19
	355000, // Level 20
}

// ExpForLevel returns the cumulative XP required to reach the given level.
func ExpForLevel(level int) int64 {
	if level < 1 {
		return 0
	}
	if level > MaxLevel {
		return levelTable[MaxLevel-1]
	}
	return levelTable[level-1]
}

// ExpToNextLevel returns the remaining XP needed to reach the next level.
func ExpToNextLevel(level int, experience int64) int64 {
	if level >= MaxLevel {
		return 0
	}
	remaining := ExpForLevel(level+1) - experience
	if remaining < 0 {
		return 0
	}
	return remaining
}

// LevelForExp returns the level a cumulative XP total corresponds to.
func LevelForExp(experience int64) uint16 {
	level := 1
	for level < MaxLevel && experience >= ExpForLevel(level+1) {
		level++
	}
	return uint16(level)
}

// BaseExpForLevel returns the base XP reward for killing an enemy of the
// given level, used when an archetype does not set its own reward.
func BaseExpForLevel(level int) int64 {
	if level < 1 {
		level = 1
	}
	return int64(50 + level*level*10)
}

// LevelDiffMultiplier returns a multiplier based on the difference between
// the killer's level and the enemy's level:
//
//	enemy 3+ above:  1.5  (bonus for punching up)
//	enemy 1-2 above: 1.1-1.2
//	enemy same:      1.0
//	enemy 1-2 below: 0.6-0.7
//	enemy 3-5 below: ~0.25-0.5
//	enemy 6-9 below: 0.1  (trivial)
//	enemy 10+ below: 0.0  (grey con, no XP)
func LevelDiffMultiplier(killerLevel, enemyLevel int) float64 {
	diff := enemyLevel - killerLevel // positive = enemy is higher
	switch {
	case diff >= 3:
		return 1.5
	case diff >= 1:
		return 1.0 + float64(diff)*0.1
	case diff == 0:
		return 1.0
	case diff >= -2:
		return 0.8 + float64(diff)*0.1
	case diff >= -5:
		return 0.5 + float64(diff+2)*0.08
	case diff >= -9:
		return 0.1
	default:
		return 0.0
	}
}

// KillReward returns the XP a killer earns for an enemy kill. A zero
// baseExp falls back to the enemy level's base reward. Non-grey kills
// always grant at least one point.
func KillReward(killerLevel, enemyLevel uint16, baseExp int64) int64 {
	if baseExp <= 0 {
		baseExp = BaseExpForLevel(int(enemyLevel))
	}
	mult := LevelDiffMultiplier(int(killerLevel), int(enemyLevel))
	xp := int64(float64(baseExp) * mult)
	if xp < 1 && mult > 0 {
		xp = 1
	}
	return xp
}
