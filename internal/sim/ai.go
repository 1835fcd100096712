package sim

import "github.com/pixil98/go-realm/internal/game"

// stepEnemyAI advances one enemy through its state machine. Enemies step
// in id order, so two runs of the same world make the same decisions.
func (w *World) stepEnemyAI(zs *zoneState, e *game.Enemy) {
	switch e.State {
	case game.EnemyIdle:
		if t := w.nearestTarget(zs, e); t != nil {
			e.Target = t.ID
			e.State = game.EnemyChasing
		}

	case game.EnemyChasing:
		t := zs.store.Player(e.Target)
		if t == nil || !t.Alive() || w.leashed(e) {
			w.startReturn(e)
			return
		}
		reach := w.params.Combat.AttackRange
		if e.Pos.DistSq(t.Pos) <= reach*reach {
			e.State = game.EnemyAttacking
			return
		}
		w.moveEnemy(zs, e, t.Pos)

	case game.EnemyAttacking:
		t := zs.store.Player(e.Target)
		if t == nil || !t.Alive() || w.leashed(e) {
			w.startReturn(e)
			return
		}
		reach := w.params.Combat.AttackRange
		if e.Pos.DistSq(t.Pos) > reach*reach {
			e.State = game.EnemyChasing
			return
		}
		if w.tick >= e.NextAttack {
			e.Anim = game.AnimAttack
			w.resolve(zs, e, t)
			e.NextAttack = w.tick + e.AttackEvery
			if !t.Alive() {
				w.startReturn(e)
			}
		}

	case game.EnemyReturning:
		// Aggro is ignored on the way home, so a kited enemy is never
		// stuck chasing outside its leash.
		e.Pos = e.Pos.StepToward(e.Origin, e.MoveSpeed*w.tickDT)
		e.Anim = game.AnimWalk
		tol := w.params.Combat.ReturnTolerance
		if e.Pos.DistSq(e.Origin) <= tol*tol {
			e.Pos = e.Origin
			e.Health = e.MaxHealth
			e.State = game.EnemyIdle
			e.Anim = game.AnimIdle
		}

	case game.EnemyDead:
		// Terminal. The timer phase removes the corpse.
	}
}

// nearestTarget scans id-sorted players for the closest living one in
// aggro range. Only strictly closer players replace the pick, so
// distance ties go to the lower entity id.
func (w *World) nearestTarget(zs *zoneState, e *game.Enemy) *game.Player {
	var best *game.Player
	var bestD float32
	r2 := e.AggroRange * e.AggroRange
	for _, p := range zs.store.Players() {
		if !p.Alive() {
			continue
		}
		d := e.Pos.DistSq(p.Pos)
		if d > r2 {
			continue
		}
		if best == nil || d < bestD {
			best, bestD = p, d
		}
	}
	return best
}

// leashed reports whether the enemy has been pulled past its leash
// range, measured from its spawn origin.
func (w *World) leashed(e *game.Enemy) bool {
	return e.Pos.DistSq(e.Origin) > e.LeashRange*e.LeashRange
}

// startReturn sends an enemy home and drops its target.
func (w *World) startReturn(e *game.Enemy) {
	e.State = game.EnemyReturning
	e.Target = 0
	e.Anim = game.AnimWalk
}

// moveEnemy steps straight toward the target position, halting at
// obstacles instead of pathing around them.
func (w *World) moveEnemy(zs *zoneState, e *game.Enemy, target game.Vec3) {
	next := e.Pos.StepToward(target, e.MoveSpeed*w.tickDT)
	if !zs.def.Bounds.Contains(next) || zs.def.Blocked(next) {
		return
	}
	e.Pos = next
	e.Anim = game.AnimWalk
}
