package systems

import (
	"math"
	"math/rand"
	"testing"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/kinematic/components"
	"github.com/pthm-cable/kinematic/steering"
)

type testWorld struct {
	world  *ecs.World
	mapper *ecs.Map4[components.Agent, components.Kinematic, components.Motion, components.Behaviors]
	system *SteeringSystem
}

func newTestWorld(size float64) *testWorld {
	w := ecs.NewWorld()
	return &testWorld{
		world:  w,
		mapper: ecs.NewMap4[components.Agent, components.Kinematic, components.Motion, components.Behaviors](w),
		system: NewSteeringSystem(w, steering.World{Size: size}),
	}
}

func (tw *testWorld) spawn(x, z, orientation float64, beh components.Behaviors) ecs.Entity {
	agent := components.Agent{Name: "agent"}
	kin := components.Kinematic{Kinematic: steering.Kinematic{Position: r3.Vec{X: x, Z: z}, Orientation: orientation}}
	motion := components.Motion{}
	return tw.mapper.NewEntity(&agent, &kin, &motion, &beh)
}

func (tw *testWorld) state(e ecs.Entity) (*components.Kinematic, *components.Motion, *components.Behaviors) {
	_, kin, motion, beh := tw.mapper.Get(e)
	return kin, motion, beh
}

func mustArrive(t *testing.T, maxSpeed, ttt, radius float64) *steering.Arrive {
	t.Helper()
	a, err := steering.NewArrive(maxSpeed, ttt, radius)
	if err != nil {
		t.Fatal(err)
	}
	return a
}

// Agents that target each other see positions from before the tick.
func TestSteeringSnapshotOrderIndependent(t *testing.T) {
	tw := newTestWorld(100)
	a := tw.spawn(10, 0, 0, components.Behaviors{Active: steering.KindArrive, Arrive: mustArrive(t, 100, 2, 0)})
	b := tw.spawn(-10, 0, 0, components.Behaviors{Active: steering.KindArrive, Arrive: mustArrive(t, 100, 2, 0)})
	_, _, behA := tw.state(a)
	behA.Target, behA.HasTarget = b, true
	_, _, behB := tw.state(b)
	behB.Target, behB.HasTarget = a, true

	tw.system.Update(tw.world, 1)

	kinA, _, _ := tw.state(a)
	kinB, _, _ := tw.state(b)
	if math.Abs(kinA.Position.X) > 1e-12 || math.Abs(kinB.Position.X) > 1e-12 {
		t.Errorf("positions = %v, %v; want both at origin", kinA.Position, kinB.Position)
	}
}

func TestSteeringStationaryUsesClearedOutput(t *testing.T) {
	tw := newTestWorld(50)
	seek, _ := steering.NewSeek(10)
	e := tw.spawn(3, 4, 1.5, components.Behaviors{Active: steering.KindNone, Seek: seek})

	tw.system.Update(tw.world, 0.5)

	kin, motion, _ := tw.state(e)
	if kin.Position != (r3.Vec{X: 3, Z: 4}) || kin.Orientation != 1.5 {
		t.Errorf("stationary agent moved: %+v", kin.Kinematic)
	}
	if !motion.Output.IsZero() {
		t.Errorf("motion = %+v, want cleared output", motion.Output)
	}
}

func TestSteeringFacesVelocity(t *testing.T) {
	tw := newTestWorld(50)
	seek, _ := steering.NewSeek(10)
	target := tw.spawn(20, 0, 0, components.Behaviors{})
	e := tw.spawn(0, 0, 2.1, components.Behaviors{Active: steering.KindSeek, Seek: seek, Target: target, HasTarget: true})

	tw.system.Update(tw.world, 0.1)

	kin, motion, _ := tw.state(e)
	if math.Abs(kin.Position.X-1) > 1e-12 {
		t.Errorf("x = %v, want 1", kin.Position.X)
	}
	if math.Abs(kin.Orientation-math.Pi/2) > 1e-12 {
		t.Errorf("orientation = %v, want pi/2", kin.Orientation)
	}
	if math.Abs(motion.Output.Speed()-10) > 1e-12 {
		t.Errorf("speed = %v, want 10", motion.Output.Speed())
	}
}

func TestSteeringMissingTargetIsInert(t *testing.T) {
	tw := newTestWorld(50)
	flee, _ := steering.NewFlee(10)
	e := tw.spawn(1, 1, 0.3, components.Behaviors{Active: steering.KindFlee, Flee: flee})

	tw.system.Update(tw.world, 1)

	kin, motion, _ := tw.state(e)
	if kin.Position != (r3.Vec{X: 1, Z: 1}) || !motion.Output.IsZero() {
		t.Errorf("agent without target moved: %+v %+v", kin.Kinematic, motion.Output)
	}
}

func TestSteeringWanderKeepsOwnOrientation(t *testing.T) {
	tw := newTestWorld(50)
	wander, err := steering.NewWander(steering.WanderParams{MaxSpeed: 10, MaxRotation: 4, Rate: 0.5, Offset: 3}, rand.New(rand.NewSource(9)))
	if err != nil {
		t.Fatal(err)
	}
	e := tw.spawn(0, 0, 0.75, components.Behaviors{Active: steering.KindWander, Wander: wander})

	const dt = 0.05
	for i := 0; i < 20; i++ {
		kin, _, _ := tw.state(e)
		before := kin.Orientation

		tw.system.Update(tw.world, dt)

		kin, motion, _ := tw.state(e)
		want := steering.NormalizeAngle(before + motion.Output.Rotation*dt)
		if motion.Output.Rotation == 0 {
			want = before
		}
		if math.Abs(kin.Orientation-want) > 1e-12 {
			t.Fatalf("tick %d: orientation = %v, want %v from rotation", i, kin.Orientation, want)
		}
	}
}

func TestSteeringTrimsToOppositeEdge(t *testing.T) {
	tw := newTestWorld(50)
	seek, _ := steering.NewSeek(10)
	target := tw.spawn(0, 100, 0, components.Behaviors{})
	e := tw.spawn(0, 49.5, 0, components.Behaviors{Active: steering.KindSeek, Seek: seek, Target: target, HasTarget: true})

	tw.system.Update(tw.world, 0.1)

	kin, motion, _ := tw.state(e)
	if kin.Position.Z != -50 {
		t.Errorf("z = %v, want -50 after leaving past +50", kin.Position.Z)
	}
	if motion.Wraps != 1 {
		t.Errorf("wraps = %d, want 1", motion.Wraps)
	}
}

func TestAdvanceZeroDuration(t *testing.T) {
	k := steering.Kinematic{Position: r3.Vec{X: 5, Z: 5}, Orientation: 1}
	out := steering.Output{Linear: r3.Vec{X: 10}}
	advance(&k, out, steering.KindSeek, 0, steering.World{Size: 50})

	if k.Position != (r3.Vec{X: 5, Z: 5}) {
		t.Errorf("position = %v, want unchanged", k.Position)
	}
}

// An agent switched to stationary must not keep reporting the last
// tick's motion.
func TestSteeringClearsStaleOutput(t *testing.T) {
	tw := newTestWorld(50)
	seek, _ := steering.NewSeek(10)
	target := tw.spawn(20, 0, 0, components.Behaviors{})
	e := tw.spawn(0, 0, 0, components.Behaviors{Active: steering.KindSeek, Seek: seek, Target: target, HasTarget: true})

	tw.system.Update(tw.world, 0.1)
	_, motion, beh := tw.state(e)
	if motion.Output.IsZero() {
		t.Fatal("seek produced no output")
	}

	beh.Active = steering.KindNone
	tw.system.Update(tw.world, 0.1)

	kin, motion, _ := tw.state(e)
	if !motion.Output.IsZero() {
		t.Errorf("motion = %+v, want cleared after switching to stationary", motion.Output)
	}
	if math.Abs(kin.Position.X-1) > 1e-12 {
		t.Errorf("x = %v, want 1 (no movement on the stationary tick)", kin.Position.X)
	}
}
