package deathmatch

import (
	"context"
	"math"
	"sync/atomic"
	"testing"
	"time"

	"github.com/codetanks/codetanks/arenaserver/agent"
	"github.com/codetanks/codetanks/arenaserver/protocol"
	"github.com/codetanks/codetanks/common/types/mapcontainer"
	"github.com/codetanks/codetanks/game"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGame(t *testing.T, rules Rules, starts []mapcontainer.MapPoint, transports ...agent.Transport) *DeathmatchGame {
	t.Helper()

	arena := mapcontainer.MapContainer{Width: 1000, Height: 1000}
	for i, start := range starts {
		arena.Starts = append(arena.Starts, mapcontainer.MapStart{
			Id:    string(rune('a' + i)),
			Point: start,
		})
	}

	agents := make([]agent.AgentProxy, len(transports))
	for i, transport := range transports {
		name := string(rune('A' + i))
		agents[i] = agent.MakeAgentProxy(name, "tank-"+name, transport)
	}

	deathmatch, err := NewDeathmatchGame("test-match", arena, rules, agents)
	require.NoError(t, err)

	return deathmatch
}

func step(t *testing.T, deathmatch *DeathmatchGame, tick uint32) game.TickReport {
	t.Helper()

	report, err := deathmatch.Step(context.Background(), game.TickContext{
		Match:    "test-match",
		Tick:     tick,
		Deadline: 50 * time.Millisecond,
	})
	require.NoError(t, err)

	return report
}

func tankAt(t *testing.T, deathmatch *DeathmatchGame, i int) *Tank {
	t.Helper()

	tanks := append(deathmatch.GetWorld().Tanks(), deathmatch.GetWorld().FallenTanks()...)
	sortTanks(tanks)
	require.Greater(t, len(tanks), i)

	return tanks[i]
}

func bulletEvents(report game.TickReport, tank EntityID) int {
	n := 0
	for _, event := range report.Events {
		if event.Tank == uint64(tank) && event.Event.Info.CollisionType == protocol.CollisionTypeBullet {
			n++
		}
	}

	return n
}

func TestDefaultSpawnLayout(t *testing.T) {
	deathmatch := newTestGame(t, DefaultRules(), nil, agent.Fixed(protocol.Intent{}), agent.Fixed(protocol.Intent{}), agent.Fixed(protocol.Intent{}))

	for i, x := range []float64{-150, 0, 150} {
		position := tankAt(t, deathmatch, i).GetPhysicalBody().GetPosition()
		assert.InDelta(t, x, position.GetX(), 1e-9)
		assert.InDelta(t, 0, position.GetY(), 1e-9)
	}

	// one boundary wall, then tanks get their IDs in agent order
	assert.Len(t, deathmatch.GetWorld().Walls(), 1)
	assert.Equal(t, "A", tankAt(t, deathmatch, 0).Agent.GetName())
	assert.Equal(t, "C", tankAt(t, deathmatch, 2).Agent.GetName())
}

func TestNewGameRejectsBadLayouts(t *testing.T) {
	idle := agent.Fixed(protocol.Intent{})
	arena := mapcontainer.MapContainer{Width: 1000, Height: 1000}

	_, err := NewDeathmatchGame("m", arena, DefaultRules(), nil)
	assert.Error(t, err)

	arena.Starts = []mapcontainer.MapStart{{Point: mapcontainer.MapPoint{X: 0}}, {Point: mapcontainer.MapPoint{X: 30}}}
	_, err = NewDeathmatchGame("m", arena, DefaultRules(), []agent.AgentProxy{
		agent.MakeAgentProxy("a", "a", idle),
		agent.MakeAgentProxy("b", "b", idle),
	})
	assert.Error(t, err, "overlapping spawns")

	arena.Starts = []mapcontainer.MapStart{{Point: mapcontainer.MapPoint{X: 495}}}
	_, err = NewDeathmatchGame("m", arena, DefaultRules(), []agent.AgentProxy{
		agent.MakeAgentProxy("a", "a", idle),
	})
	assert.Error(t, err, "spawn outside the arena")

	arena.Starts = nil
	arena.Obstacles = []mapcontainer.MapObstacle{{Id: "flat", Polygon: mapcontainer.MapPolygon{Points: []mapcontainer.MapPoint{{X: 1, Y: 1}, {X: 2, Y: 2}}}}}
	_, err = NewDeathmatchGame("m", arena, DefaultRules(), []agent.AgentProxy{
		agent.MakeAgentProxy("a", "a", idle),
	})
	assert.Error(t, err, "degenerate obstacle")
}

func TestFireSpawnsBulletAtMuzzle(t *testing.T) {
	rules := DefaultRules()
	deathmatch := newTestGame(t, rules, []mapcontainer.MapPoint{{X: 0, Y: 0}, {X: 300, Y: 0}},
		agent.Fixed(protocol.Intent{}), agent.Fixed(protocol.Intent{}))

	shooter := tankAt(t, deathmatch, 0)
	shooter.Commands.Push(protocol.Intent{Fire: true})
	systemCommands(deathmatch)

	bullets := deathmatch.GetWorld().Bullets()
	require.Len(t, bullets, 1)

	bullet := bullets[0]
	assert.Equal(t, shooter.ID, bullet.GetOwner())
	assert.Equal(t, rules.BulletDamage, bullet.Impactor.GetDamage())

	position := bullet.GetPhysicalBody().GetPosition()
	assert.InDelta(t, 0, position.GetX(), 1e-6)
	assert.InDelta(t, rules.BarrelLength, position.GetY(), 1e-6)

	velocity := bullet.GetPhysicalBody().GetVelocity()
	assert.InDelta(t, 0, velocity.GetX(), 1e-6)
	assert.InDelta(t, rules.MuzzleSpeed, velocity.GetY(), 1e-6)

	assert.Equal(t, rules.GunCooldown-1, shooter.Shooting.GetCooldown())
	assert.Equal(t, 1, deathmatch.GetLog().Count(EVENT_SHOT_FIRED))
}

func TestFireFollowsGunRotation(t *testing.T) {
	rules := DefaultRules()
	deathmatch := newTestGame(t, rules, []mapcontainer.MapPoint{{X: 0, Y: 0}, {X: 300, Y: 0}},
		agent.Fixed(protocol.Intent{}), agent.Fixed(protocol.Intent{}))

	shooter := tankAt(t, deathmatch, 0)
	shooter.Gun.Rotation = -math.Pi / 2
	shooter.Commands.Push(protocol.Intent{Fire: true})
	systemCommands(deathmatch)

	bullets := deathmatch.GetWorld().Bullets()
	require.Len(t, bullets, 1)

	position := bullets[0].GetPhysicalBody().GetPosition()
	assert.InDelta(t, rules.BarrelLength, position.GetX(), 1e-6)
	assert.InDelta(t, 0, position.GetY(), 1e-6)
}

func TestCooldownBlocksFire(t *testing.T) {
	rules := DefaultRules()
	deathmatch := newTestGame(t, rules, []mapcontainer.MapPoint{{X: 0, Y: 0}, {X: 300, Y: 0}},
		agent.Fixed(protocol.Intent{}), agent.Fixed(protocol.Intent{}))

	shooter := tankAt(t, deathmatch, 0)

	// shots are GunCooldown ticks apart
	for i := 0; i < rules.GunCooldown; i++ {
		shooter.Commands.Push(protocol.Intent{Fire: true})
		systemCommands(deathmatch)
		assert.Len(t, deathmatch.GetWorld().Bullets(), 1, "tick %d", i)
		assert.Equal(t, rules.GunCooldown-1-i, shooter.Shooting.GetCooldown(), "tick %d", i)
	}

	shooter.Commands.Push(protocol.Intent{Fire: true})
	systemCommands(deathmatch)
	assert.Len(t, deathmatch.GetWorld().Bullets(), 2)
	assert.Equal(t, rules.GunCooldown-1, shooter.Shooting.GetCooldown())
}

func TestCooldownDecrementsWithoutCommand(t *testing.T) {
	rules := DefaultRules()
	deathmatch := newTestGame(t, rules, []mapcontainer.MapPoint{{X: 0, Y: 0}, {X: 300, Y: 0}},
		agent.Fixed(protocol.Intent{}), agent.Fixed(protocol.Intent{}))

	shooter := tankAt(t, deathmatch, 0)
	shooter.Shooting.Shot()

	systemCommands(deathmatch)
	assert.Equal(t, rules.GunCooldown-1, shooter.Shooting.GetCooldown())
}

func TestLockedGunNeitherTurnsNorFires(t *testing.T) {
	deathmatch := newTestGame(t, DefaultRules(), []mapcontainer.MapPoint{{X: 0, Y: 0}, {X: 300, Y: 0}},
		agent.Fixed(protocol.Intent{}), agent.Fixed(protocol.Intent{}))

	shooter := tankAt(t, deathmatch, 0)
	shooter.Commands.Push(protocol.Intent{Fire: true, TurnGun: 0.1, LockGun: protocol.Bool(true)})
	systemCommands(deathmatch)

	assert.True(t, shooter.Gun.Locked)
	assert.Equal(t, 0.0, shooter.Gun.Rotation)
	assert.Empty(t, deathmatch.GetWorld().Bullets())

	shooter.Commands.Push(protocol.Intent{TurnGun: 0.1, LockGun: protocol.Bool(false)})
	systemCommands(deathmatch)
	assert.False(t, shooter.Gun.Locked)
	assert.InDelta(t, 0.1, shooter.Gun.Rotation, 1e-9)
}

func TestTurnsAreClamped(t *testing.T) {
	rules := DefaultRules()
	deathmatch := newTestGame(t, rules, []mapcontainer.MapPoint{{X: 0, Y: 0}, {X: 300, Y: 0}},
		agent.Fixed(protocol.Intent{}), agent.Fixed(protocol.Intent{}))

	tank := tankAt(t, deathmatch, 0)
	tank.Commands.Push(protocol.Intent{Rotate: -5, TurnGun: 5, TurnRadar: -5})
	systemCommands(deathmatch)

	assert.InDelta(t, -rules.MaxTankRotation, tank.GetPhysicalBody().GetOrientation(), 1e-9)
	assert.InDelta(t, rules.MaxGunRotation, tank.Gun.Rotation, 1e-9)
	assert.InDelta(t, -rules.MaxRadarRotation, tank.Radar.Rotation, 1e-9)
}

func TestMoveReachesTargetVelocity(t *testing.T) {
	rules := DefaultRules()
	deathmatch := newTestGame(t, rules, []mapcontainer.MapPoint{{X: 0, Y: 0}, {X: 300, Y: 0}},
		agent.Fixed(protocol.Intent{}), agent.Fixed(protocol.Intent{}))

	tank := tankAt(t, deathmatch, 0)
	tank.Commands.Push(protocol.Intent{Move: 3})
	systemCommands(deathmatch)

	velocity := tank.GetPhysicalBody().GetVelocity()
	assert.InDelta(t, 0, velocity.GetX(), 1e-6)
	assert.InDelta(t, rules.MaxSpeed, velocity.GetY(), 1e-6)
}

func TestPointBlankHit(t *testing.T) {
	rules := DefaultRules()
	deathmatch := newTestGame(t, rules, []mapcontainer.MapPoint{{X: 0, Y: 0}, {X: 42, Y: 0}},
		agent.Fixed(protocol.Intent{Fire: true}), agent.Fixed(protocol.Intent{}))

	shooter := tankAt(t, deathmatch, 0)
	target := tankAt(t, deathmatch, 1)
	shooter.Gun.Rotation = -math.Pi / 2

	report := step(t, deathmatch, 1)

	assert.Equal(t, 1, report.Shots)
	assert.Equal(t, 1, report.Hits)
	assert.Equal(t, 1, bulletEvents(report, target.ID))
	assert.Equal(t, 0, bulletEvents(report, shooter.ID))

	assert.Equal(t, rules.MaxHealth-rules.BulletDamage, target.Health.GetLife())
	assert.Equal(t, rules.BulletDamage, shooter.DamageDealt)
	assert.Equal(t, rules.MaxHealth, shooter.Health.GetLife())

	assert.Empty(t, deathmatch.GetWorld().Bullets(), "the bullet is spent by the hit")
	assert.False(t, report.Finished)

	// the hit is delivered to the target on the next request
	var hits int
	for _, event := range target.LastEvents {
		if event.Info.CollisionType == protocol.CollisionTypeBullet {
			hits++
			assert.Equal(t, protocol.EventTypeHit, event.EventType)
		}
	}
	assert.Equal(t, 1, hits)
}

func TestOneTickLimit(t *testing.T) {
	rules := DefaultRules()
	rules.MaxTicks = 1

	deathmatch := newTestGame(t, rules, nil, agent.Fixed(protocol.Intent{}), agent.Fixed(protocol.Intent{}))

	report := step(t, deathmatch, 1)
	assert.True(t, report.Finished)
	assert.Equal(t, 2, report.Alive)
	assert.True(t, deathmatch.IsFinished())

	result := deathmatch.Result(game.ResultStatusCompleted, nil)
	assert.Equal(t, game.ResultStatusCompleted, result.Status)
	assert.Equal(t, uint32(1), result.Ticks)
	assert.Nil(t, result.Winner)
	require.Len(t, result.Tanks, 2)
	for _, tank := range result.Tanks {
		assert.True(t, tank.Alive)
		assert.Equal(t, rules.MaxHealth, tank.Health)
	}

	_, err := deathmatch.Step(context.Background(), game.TickContext{Tick: 2})
	assert.Equal(t, ErrMatchFinished, errors.Cause(err))
}

func TestSimultaneousDestructionHasNoWinner(t *testing.T) {
	rules := DefaultRules()
	rules.BulletDamage = rules.MaxHealth

	deathmatch := newTestGame(t, rules, []mapcontainer.MapPoint{{X: 0, Y: 0}, {X: 42, Y: 0}},
		agent.Fixed(protocol.Intent{Fire: true}), agent.Fixed(protocol.Intent{Fire: true}))

	tankAt(t, deathmatch, 0).Gun.Rotation = -math.Pi / 2
	tankAt(t, deathmatch, 1).Gun.Rotation = math.Pi / 2

	report := step(t, deathmatch, 1)
	assert.Len(t, report.Destroyed, 2)
	assert.Equal(t, 0, report.Alive)
	assert.True(t, report.Finished)

	result := deathmatch.Result(game.ResultStatusCompleted, nil)
	assert.Nil(t, result.Winner)
	for _, tank := range result.Tanks {
		assert.False(t, tank.Alive)
		assert.Equal(t, uint32(1), tank.DestroyedAtTick)
		assert.Equal(t, 0.0, tank.Health)
		assert.Equal(t, rules.BulletDamage, tank.DamageDealt)
	}
}

func TestSilentAgentCanStillBeDestroyed(t *testing.T) {
	rules := DefaultRules()
	rules.BulletDamage = 50
	rules.GunCooldown = 0
	rules.MaxTicks = 20

	var silentCalls int32
	silent := agent.Func(func(ctx context.Context, req protocol.TickRequest) (protocol.Intent, error) {
		atomic.AddInt32(&silentCalls, 1)
		return agent.Silent()(ctx, req)
	})

	deathmatch := newTestGame(t, rules,
		[]mapcontainer.MapPoint{{X: 42, Y: 0}, {X: 0, Y: 0}, {X: -300, Y: 0}},
		silent, agent.Fixed(protocol.Intent{Fire: true}), agent.Fixed(protocol.Intent{}),
	)

	victim := tankAt(t, deathmatch, 0)
	shooter := tankAt(t, deathmatch, 1)
	shooter.Gun.Rotation = -math.Pi / 2

	tick := uint32(0)
	for victim.IsAlive() {
		tick++
		require.LessOrEqual(t, tick, uint32(rules.MaxTicks), "the silent tank should have been destroyed")

		report, err := deathmatch.Step(context.Background(), game.TickContext{Tick: tick, Deadline: 10 * time.Millisecond})
		require.NoError(t, err)

		require.Len(t, report.AgentFailures, 1)
		assert.Equal(t, uint64(victim.ID), report.AgentFailures[0].Tank)
	}

	assert.Equal(t, 0.0, victim.Gun.Rotation)
	assert.Equal(t, 0.0, victim.Radar.Rotation)
	assert.Equal(t, int(tick), victim.AgentFailures)
	assert.Equal(t, int32(tick), atomic.LoadInt32(&silentCalls))
	assert.Equal(t, rules.MaxHealth, shooter.DamageDealt)

	// a destroyed tank is neither polled nor simulated anymore
	_, err := deathmatch.GetWorld().Tank(victim.ID)
	assert.Equal(t, ErrEntityNotFound, errors.Cause(err))
	assert.Nil(t, victim.GetPhysicalBody().GetBody())

	for !deathmatch.IsFinished() {
		tick++
		step(t, deathmatch, tick)
	}

	assert.Equal(t, int32(victim.Lifecycle.GetDeath()), atomic.LoadInt32(&silentCalls))

	result := deathmatch.Result(game.ResultStatusCompleted, nil)
	assert.Nil(t, result.Winner, "two tanks survive the tick limit")
	require.Len(t, result.Tanks, 3)
	assert.False(t, result.Tanks[0].Alive)
	assert.Equal(t, victim.AgentFailures, result.Tanks[0].AgentFailures)
	assert.Equal(t, uint32(rules.MaxTicks), result.Ticks)
}

func TestLastSurvivorWins(t *testing.T) {
	rules := DefaultRules()
	rules.BulletDamage = rules.MaxHealth

	deathmatch := newTestGame(t, rules, []mapcontainer.MapPoint{{X: 0, Y: 0}, {X: 42, Y: 0}},
		agent.Fixed(protocol.Intent{Fire: true}), agent.Fixed(protocol.Intent{}))

	tankAt(t, deathmatch, 0).Gun.Rotation = -math.Pi / 2

	report := step(t, deathmatch, 1)
	assert.True(t, report.Finished)
	assert.Equal(t, []uint64{uint64(tankAt(t, deathmatch, 1).ID)}, report.Destroyed)

	result := deathmatch.Result(game.ResultStatusCompleted, nil)
	require.NotNil(t, result.Winner)
	assert.Equal(t, uint64(tankAt(t, deathmatch, 0).ID), *result.Winner)

	aborted := deathmatch.Result(game.ResultStatusAborted, errors.Wrap(ErrEntityNotFound, "tank #9"))
	assert.Nil(t, aborted.Winner)
	assert.Equal(t, "tank #9: entity not found", aborted.Error)
}

func TestBulletsExpire(t *testing.T) {
	rules := DefaultRules()
	rules.BulletMaxAge = 2
	rules.MuzzleSpeed = 1

	deathmatch := newTestGame(t, rules, []mapcontainer.MapPoint{{X: 0, Y: 0}, {X: 300, Y: 0}},
		agent.Fixed(protocol.Intent{Fire: true}), agent.Fixed(protocol.Intent{}))

	step(t, deathmatch, 1)
	require.Len(t, deathmatch.GetWorld().Bullets(), 1)

	step(t, deathmatch, 2)
	assert.Len(t, deathmatch.GetWorld().Bullets(), 1)

	step(t, deathmatch, 3)
	assert.Empty(t, deathmatch.GetWorld().Bullets())
	assert.Equal(t, 1, deathmatch.GetLog().Count(EVENT_BULLET_SPENT))
}

func TestRequestCarriesStateAndEvents(t *testing.T) {
	var requests []protocol.TickRequest
	recording := agent.Func(func(ctx context.Context, req protocol.TickRequest) (protocol.Intent, error) {
		requests = append(requests, req)
		return protocol.Intent{}, nil
	})

	deathmatch := newTestGame(t, DefaultRules(), []mapcontainer.MapPoint{{X: 0, Y: 0}, {X: 300, Y: 0}},
		recording, agent.Fixed(protocol.Intent{}))

	step(t, deathmatch, 1)
	step(t, deathmatch, 2)

	require.Len(t, requests, 2)
	assert.Equal(t, uint32(1), requests[0].Tick)
	assert.Equal(t, "test-match", requests[0].Match)
	assert.Equal(t, "A", requests[0].Tank.Name)
	assert.Equal(t, 100.0, requests[0].Tank.Health)
	assert.NotNil(t, requests[0].Events)
	assert.Empty(t, requests[0].Events)

	// the radar cone reaches the arena boundary on the first step
	require.NotEmpty(t, requests[1].Events)
	assert.Equal(t, protocol.CollisionTypeRadar, requests[1].Events[0].Info.CollisionType)
}
