package game

import (
	"testing"

	"github.com/pixil98/go-testutil"
)

func TestVec3_StepToward(t *testing.T) {
	tests := map[string]struct {
		from    Vec3
		to      Vec3
		maxStep float32
		exp     Vec3
	}{
		"lands exactly when close enough": {
			from:    Vec3{X: 0},
			to:      Vec3{X: 3},
			maxStep: 5,
			exp:     Vec3{X: 3},
		},
		"steps partway when far": {
			from:    Vec3{X: 0},
			to:      Vec3{X: 10},
			maxStep: 4,
			exp:     Vec3{X: 4},
		},
		"zero step stays put": {
			from:    Vec3{X: 1, Z: 2},
			to:      Vec3{X: 9, Z: 9},
			maxStep: 0,
			exp:     Vec3{X: 1, Z: 2},
		},
		"already there": {
			from:    Vec3{X: 7, Y: 1, Z: -2},
			to:      Vec3{X: 7, Y: 1, Z: -2},
			maxStep: 3,
			exp:     Vec3{X: 7, Y: 1, Z: -2},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			testutil.AssertEqual(t, "position", tt.from.StepToward(tt.to, tt.maxStep), tt.exp)
		})
	}
}

func TestVec3_Dist(t *testing.T) {
	a := Vec3{X: 0, Y: 0, Z: 0}
	b := Vec3{X: 3, Y: 0, Z: 4}

	testutil.AssertEqual(t, "dist", a.Dist(b), float32(5))
	testutil.AssertEqual(t, "distsq", a.DistSq(b), float32(25))
}
