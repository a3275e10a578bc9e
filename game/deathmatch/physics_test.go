package deathmatch

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/ByteArena/box2d"
	"github.com/codetanks/codetanks/arenaserver/agent"
	"github.com/codetanks/codetanks/arenaserver/protocol"
	"github.com/codetanks/codetanks/common/types/mapcontainer"
	"github.com/codetanks/codetanks/game"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isCollision(event game.TankEvent, collisionType protocol.CollisionType) bool {
	return event.Event.Info.CollisionType == collisionType
}

func TestRadarLocatesWallAtNearestPoint(t *testing.T) {
	deathmatch := newTestGame(t, DefaultRules(), []mapcontainer.MapPoint{{X: 100, Y: 0}, {X: 300, Y: -300}},
		agent.Fixed(protocol.Intent{}), agent.Fixed(protocol.Intent{}))

	boundary := deathmatch.GetWorld().Walls()[0]
	report := step(t, deathmatch, 1)

	// both radars look along +Y and reach the top edge of the arena
	expected := map[uint64]float64{
		uint64(tankAt(t, deathmatch, 0).ID): 100,
		uint64(tankAt(t, deathmatch, 1).ID): 300,
	}

	seen := 0
	for _, event := range report.Events {
		if !isCollision(event, protocol.CollisionTypeRadar) || event.Event.Info.Entity != uint64(boundary.ID) {
			continue
		}

		x, ok := expected[event.Tank]
		require.True(t, ok)

		transform := event.Event.Info.Transform
		assert.InDelta(t, x, transform.X, 1e-3, "tank %d", event.Tank)
		assert.InDelta(t, 500, transform.Y, 1e-3, "tank %d", event.Tank)
		assert.Zero(t, event.Event.Info.Velocity.Linvel.X)
		assert.Zero(t, event.Event.Info.Velocity.Linvel.Y)
		seen++
	}

	assert.Equal(t, 2, seen)
}

func TestTankWallContact(t *testing.T) {
	deathmatch := newTestGame(t, DefaultRules(), []mapcontainer.MapPoint{{X: 0, Y: 470}, {X: -300, Y: 0}},
		agent.Fixed(protocol.Intent{Move: 1}), agent.Fixed(protocol.Intent{}))

	tank := tankAt(t, deathmatch, 0)
	boundary := deathmatch.GetWorld().Walls()[0]

	var hit *game.TankEvent
	for tick := uint32(1); tick <= 20 && hit == nil; tick++ {
		report := step(t, deathmatch, tick)

		for i, event := range report.Events {
			if event.Tank == uint64(tank.ID) && isCollision(event, protocol.CollisionTypeWall) {
				hit = &report.Events[i]
				break
			}
		}
	}

	require.NotNil(t, hit, "the tank reaches the top edge")

	info := hit.Event.Info
	assert.Equal(t, protocol.EventTypeHit, hit.Event.EventType)
	assert.Equal(t, uint64(boundary.ID), info.Entity)
	assert.InDelta(t, 0, info.Transform.X, 1)
	assert.InDelta(t, 500, info.Transform.Y, 5)
	assert.Equal(t, protocol.Velocity{}, info.Velocity)
	assert.Equal(t, DefaultRules().MaxHealth, tank.Health.GetLife(), "walls deal no damage")
}

func TestNonFiniteIntentIsANoOp(t *testing.T) {
	deathmatch := newTestGame(t, DefaultRules(), []mapcontainer.MapPoint{{X: 0, Y: 0}, {X: 300, Y: 0}},
		agent.Fixed(protocol.Intent{Move: math.NaN(), Fire: true}), agent.Fixed(protocol.Intent{TurnGun: math.Inf(1)}))

	report := step(t, deathmatch, 1)

	assert.Len(t, report.AgentFailures, 2)
	assert.Equal(t, 0, report.Shots)
	assert.False(t, report.Finished)

	for i := 0; i < 2; i++ {
		tank := tankAt(t, deathmatch, i)
		assert.True(t, tank.GetPhysicalBody().IsFinite())
		assert.Equal(t, 0.0, tank.Gun.Rotation)
		assert.Equal(t, 1, tank.AgentFailures)
	}
}

func TestDegeneratePhysicsIsFatal(t *testing.T) {
	deathmatch := newTestGame(t, DefaultRules(), []mapcontainer.MapPoint{{X: 0, Y: 0}, {X: 300, Y: 0}},
		agent.Fixed(protocol.Intent{}), agent.Fixed(protocol.Intent{}))

	tank := tankAt(t, deathmatch, 1)
	tank.GetPhysicalBody().GetBody().SetLinearVelocity(box2d.MakeB2Vec2(math.NaN(), 0))

	_, err := deathmatch.Step(context.Background(), game.TickContext{
		Match:    "test-match",
		Tick:     1,
		Deadline: 50 * time.Millisecond,
	})
	require.Error(t, err)
	assert.Equal(t, ErrPhysicsDegenerate, errors.Cause(err))
	assert.Contains(t, err.Error(), "tick 1")
}

type snapshot struct {
	X, Y, Rotation, Gun, Health float64
}

func runScripted(t *testing.T, ticks uint32) ([]snapshot, []snapshot) {
	rules := DefaultRules()
	rules.GunCooldown = 3

	deathmatch := newTestGame(t, rules, []mapcontainer.MapPoint{{X: -100, Y: 0}, {X: 100, Y: 0}},
		agent.Fixed(protocol.Intent{Move: 1, Rotate: 0.05, TurnGun: -0.1, Fire: true}),
		agent.Fixed(protocol.Intent{Move: -0.5, Rotate: -0.08, TurnGun: 0.2, Fire: true}))

	for tick := uint32(1); tick <= ticks && !deathmatch.IsFinished(); tick++ {
		step(t, deathmatch, tick)
	}

	var tanks []snapshot
	for i := 0; i < 2; i++ {
		tank := tankAt(t, deathmatch, i)
		body := tank.GetPhysicalBody()
		tanks = append(tanks, snapshot{
			X:        body.GetPosition().GetX(),
			Y:        body.GetPosition().GetY(),
			Rotation: body.GetOrientation(),
			Gun:      tank.Gun.Rotation,
			Health:   tank.Health.GetLife(),
		})
	}

	var bullets []snapshot
	for _, bullet := range deathmatch.GetWorld().Bullets() {
		body := bullet.GetPhysicalBody()
		bullets = append(bullets, snapshot{
			X:        body.GetPosition().GetX(),
			Y:        body.GetPosition().GetY(),
			Rotation: body.GetOrientation(),
		})
	}

	return tanks, bullets
}

func TestPhysicsIsDeterministic(t *testing.T) {
	tanksA, bulletsA := runScripted(t, 40)
	tanksB, bulletsB := runScripted(t, 40)

	assert.Equal(t, tanksA, tanksB)
	assert.Equal(t, bulletsA, bulletsB)
	assert.NotEqual(t, -100.0, tanksA[0].X, "the tanks moved")
}

func TestDamageAttributionSumsHits(t *testing.T) {
	rules := DefaultRules()
	rules.GunCooldown = 0

	deathmatch := newTestGame(t, rules, []mapcontainer.MapPoint{{X: 0, Y: 0}, {X: 42, Y: 0}},
		agent.Fixed(protocol.Intent{Fire: true}), agent.Fixed(protocol.Intent{}))

	shooter := tankAt(t, deathmatch, 0)
	target := tankAt(t, deathmatch, 1)
	shooter.Gun.Rotation = -math.Pi / 2

	hits := 0
	for tick := uint32(1); tick <= 6; tick++ {
		hits += step(t, deathmatch, tick).Hits
	}

	require.GreaterOrEqual(t, hits, 2)
	assert.Equal(t, float64(hits)*rules.BulletDamage, shooter.DamageDealt)
	assert.Equal(t, rules.MaxHealth-shooter.DamageDealt, target.Health.GetLife())
	assert.Zero(t, target.DamageDealt)
}

func TestFallenShooterIsStillCredited(t *testing.T) {
	rules := DefaultRules()
	rules.BulletDamage = rules.MaxHealth

	// A fires along +X at C while B, right below A, fires into A
	deathmatch := newTestGame(t, rules, []mapcontainer.MapPoint{{X: 0, Y: 0}, {X: 0, Y: -42}, {X: 400, Y: 0}},
		agent.Fixed(protocol.Intent{Fire: true}), agent.Fixed(protocol.Intent{Fire: true}), agent.Fixed(protocol.Intent{}))

	shooterA := tankAt(t, deathmatch, 0)
	shooterB := tankAt(t, deathmatch, 1)
	targetC := tankAt(t, deathmatch, 2)
	shooterA.Gun.Rotation = -math.Pi / 2

	report := step(t, deathmatch, 1)
	require.Equal(t, []uint64{uint64(shooterA.ID)}, report.Destroyed)
	require.Len(t, deathmatch.GetWorld().Bullets(), 1, "the bullet of A is still flying")

	for tick := uint32(2); tick <= 60 && !deathmatch.IsFinished(); tick++ {
		step(t, deathmatch, tick)
	}

	require.True(t, deathmatch.IsFinished())
	assert.True(t, targetC.Health.IsDepleted())
	assert.Equal(t, rules.BulletDamage, shooterA.DamageDealt)
	assert.Equal(t, rules.BulletDamage, shooterB.DamageDealt)

	result := deathmatch.Result(game.ResultStatusCompleted, nil)
	require.NotNil(t, result.Winner)
	assert.Equal(t, uint64(shooterB.ID), *result.Winner)
}
